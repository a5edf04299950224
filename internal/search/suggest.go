package search

import (
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"

	"github.com/oneshot2001/axisfinder/internal/dataset"
	"github.com/oneshot2001/axisfinder/internal/logger"
	"github.com/oneshot2001/axisfinder/internal/modelkey"
)

// suggestDoc is a competitor mapping flattened for the suggestion index.
type suggestDoc struct {
	Model        string `json:"model"`
	Manufacturer string `json:"manufacturer"`
	Replacement  string `json:"replacement"`
}

// SuggestIndex is an in-memory bleve index over competitor models used to
// pre-filter "did you mean" candidates before Levenshtein ranking. The
// index only narrows the candidate set; scores on the final list always
// come from the edit-distance ranking, so suggestions stay deterministic.
type SuggestIndex struct {
	index bleve.Index
	log   *logger.Logger
}

// NewSuggestIndex builds the candidate index from the dataset snapshot.
func NewSuggestIndex(mappings []dataset.CompetitorMapping) (*SuggestIndex, error) {
	modelMapping := bleve.NewDocumentMapping()

	modelField := bleve.NewTextFieldMapping()
	modelField.Analyzer = "keyword"
	modelField.Store = true
	modelField.Index = true
	modelMapping.AddFieldMappingsAt("model", modelField)

	manufacturerField := bleve.NewTextFieldMapping()
	manufacturerField.Analyzer = "keyword"
	manufacturerField.Store = true
	manufacturerField.Index = true
	modelMapping.AddFieldMappingsAt("manufacturer", manufacturerField)

	replacementField := bleve.NewTextFieldMapping()
	replacementField.Analyzer = "keyword"
	replacementField.Store = true
	replacementField.Index = true
	modelMapping.AddFieldMappingsAt("replacement", replacementField)

	indexMapping := bleve.NewIndexMapping()
	indexMapping.AddDocumentMapping("mapping", modelMapping)
	indexMapping.DefaultMapping = modelMapping

	index, err := bleve.NewMemOnly(indexMapping)
	if err != nil {
		return nil, fmt.Errorf("failed to create suggestion index: %w", err)
	}

	batch := index.NewBatch()
	for i, m := range mappings {
		doc := suggestDoc{
			Model:        modelkey.Normalize(m.CompetitorModel),
			Manufacturer: strings.ToLower(m.CompetitorManufacturer),
			Replacement:  modelkey.Normalize(m.AxisReplacement),
		}
		if err := batch.Index(fmt.Sprintf("%d", i), doc); err != nil {
			return nil, fmt.Errorf("failed to add mapping to batch: %w", err)
		}
	}
	if err := index.Batch(batch); err != nil {
		return nil, fmt.Errorf("failed to build suggestion index: %w", err)
	}

	return &SuggestIndex{
		index: index,
		log:   logger.GetLogger().Search(),
	}, nil
}

// Candidates returns up to max competitor model keys loosely matching the
// query, combining prefix and fuzzy strategies the way interactive typing
// needs them.
func (s *SuggestIndex) Candidates(q string, max int) []string {
	key := modelkey.Normalize(q)
	if key == "" {
		return nil
	}

	boolQuery := bleve.NewBooleanQuery()

	prefixQuery := bleve.NewPrefixQuery(key)
	prefixQuery.SetField("model")
	prefixQuery.SetBoost(2.0)
	boolQuery.AddShould(prefixQuery)

	fuzzyQuery := bleve.NewFuzzyQuery(key)
	fuzzyQuery.SetField("model")
	fuzzyQuery.SetFuzziness(2)
	boolQuery.AddShould(fuzzyQuery)

	wildcardQuery := bleve.NewWildcardQuery("*" + strings.ToLower(key) + "*")
	wildcardQuery.SetField("model")
	wildcardQuery.SetBoost(0.5)
	boolQuery.AddShould(wildcardQuery)

	req := bleve.NewSearchRequest(boolQuery)
	req.Size = max
	req.Fields = []string{"model"}

	res, err := s.index.Search(req)
	if err != nil {
		s.log.Warn().Err(err).Str("query", key).Msg("suggestion index search failed")
		return nil
	}

	models := make([]string, 0, len(res.Hits))
	for _, hit := range res.Hits {
		if m, ok := hit.Fields["model"].(string); ok {
			models = append(models, m)
		}
	}
	return models
}

// Close releases the index.
func (s *SuggestIndex) Close() error {
	return s.index.Close()
}
