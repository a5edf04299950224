package resolve

import (
	"fmt"

	"github.com/oneshot2001/axisfinder/internal/dataset"
	"github.com/oneshot2001/axisfinder/internal/logger"
	"github.com/oneshot2001/axisfinder/internal/modelkey"
)

// SpecResult is a catalog spec plus the cascade rung that produced it.
// Spec is nil when Confidence is "none".
type SpecResult struct {
	Spec       *dataset.ProductSpec `json:"spec,omitempty"`
	MatchedKey string               `json:"matched_key,omitempty"`
	Confidence string               `json:"confidence"`
	Warning    string               `json:"warning,omitempty"`
}

// ProductSpecLookup wraps the spec dataset behind the shared cascade.
type ProductSpecLookup struct {
	products map[string]dataset.ProductSpec
	keys     []string
	log      *logger.Logger
}

// NewProductSpecLookup indexes a spec snapshot by normalized ModelKey.
func NewProductSpecLookup(db *dataset.SpecDatabase) *ProductSpecLookup {
	products := make(map[string]dataset.ProductSpec, len(db.Products))
	for k, v := range db.Products {
		products[modelkey.Normalize(k)] = v
	}
	return &ProductSpecLookup{
		products: products,
		keys:     sortedKeys(products),
		log:      logger.GetLogger().Resolver(),
	}
}

// Lookup cascades exact key, base model, then the series sibling with the
// smallest key. A series substitution is flagged with a warning naming the
// model whose data is actually being shown; absence is a value, not an
// error.
func (s *ProductSpecLookup) Lookup(model string) SpecResult {
	key := modelkey.Normalize(model)

	if spec, ok := s.products[key]; ok {
		return SpecResult{Spec: &spec, MatchedKey: key, Confidence: ConfidenceExact}
	}

	if base := modelkey.BaseModel(key); base != key {
		if spec, ok := s.products[base]; ok {
			return SpecResult{Spec: &spec, MatchedKey: base, Confidence: ConfidenceBaseModel}
		}
	}

	if sibling := seriesFallbackKey(key, s.keys); sibling != "" {
		spec := s.products[sibling]
		s.log.Debug().Str("model", key).Str("sibling", sibling).Msg("spec series fallback")
		return SpecResult{
			Spec:       &spec,
			MatchedKey: sibling,
			Confidence: ConfidenceSeriesFallback,
			Warning:    fmt.Sprintf("no spec for %s; showing series sibling %s, verify before use", key, sibling),
		}
	}

	return SpecResult{Confidence: ConfidenceNone}
}
