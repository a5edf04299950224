package resolve

import (
	"github.com/oneshot2001/axisfinder/internal/dataset"
	"github.com/oneshot2001/axisfinder/internal/modelkey"
)

// MSRPResult is a list price lookup outcome. Entry is nil when the price
// is unknown; the cascade never estimates one.
type MSRPResult struct {
	Entry      *dataset.MSRPEntry `json:"entry,omitempty"`
	MatchedKey string             `json:"matched_key,omitempty"`
	Confidence string             `json:"confidence"`
}

// PriceLookup wraps the MSRP dataset. Unlike spec and accessory lookups
// there is no series fallback: a sibling's price says nothing about this
// model's price.
type PriceLookup struct {
	prices map[string]dataset.MSRPEntry
}

// NewPriceLookup indexes an MSRP snapshot by normalized ModelKey.
func NewPriceLookup(db dataset.MSRPDatabase) *PriceLookup {
	prices := make(map[string]dataset.MSRPEntry, len(db))
	for k, v := range db {
		prices[modelkey.Normalize(k)] = v
	}
	return &PriceLookup{prices: prices}
}

// Lookup tries the exact key then the base model, then reports unknown.
func (p *PriceLookup) Lookup(model string) MSRPResult {
	key := modelkey.Normalize(model)

	if entry, ok := p.prices[key]; ok {
		return MSRPResult{Entry: &entry, MatchedKey: key, Confidence: ConfidenceExact}
	}

	if base := modelkey.BaseModel(key); base != key {
		if entry, ok := p.prices[base]; ok {
			return MSRPResult{Entry: &entry, MatchedKey: base, Confidence: ConfidenceBaseModel}
		}
	}

	return MSRPResult{Confidence: ConfidenceNone}
}
