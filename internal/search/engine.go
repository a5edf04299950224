// Package search orchestrates query classification, fuzzy matching, and
// the cross-reference indexes into grouped, ranked responses.
package search

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/oneshot2001/axisfinder/internal/dataset"
	"github.com/oneshot2001/axisfinder/internal/fuzzy"
	"github.com/oneshot2001/axisfinder/internal/logger"
	"github.com/oneshot2001/axisfinder/internal/modelkey"
	"github.com/oneshot2001/axisfinder/internal/query"
	"github.com/oneshot2001/axisfinder/internal/resolve"
)

// Response confidence rollup values.
const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
	ConfidenceLow    = "low"
	ConfidenceNone   = "none"
)

// Options tunes the engine. Zero values pick the defaults.
type Options struct {
	// SuggestionLimit caps the "did you mean" list.
	SuggestionLimit int
	// ChunkSize is how many batch items run between cancellation checks.
	ChunkSize int
}

func (o Options) withDefaults() Options {
	if o.SuggestionLimit <= 0 {
		o.SuggestionLimit = 5
	}
	if o.ChunkSize <= 0 {
		o.ChunkSize = 20
	}
	return o
}

// Result is one matched mapping with its score, tier, resolved URL, and
// compliance tag.
type Result struct {
	Mapping      dataset.CompetitorMapping `json:"mapping"`
	Legacy       *dataset.LegacyMapping    `json:"legacy,omitempty"`
	Score        int                       `json:"score"`
	Tier         fuzzy.Tier                `json:"tier"`
	URL          resolve.URLResult         `json:"url"`
	NDAACategory string                    `json:"ndaa_category"`
}

// Response groups results by tier with an overall confidence rollup.
// Browse signals that the caller should show the static catalog instead
// of search results.
type Response struct {
	Query       string     `json:"query"`
	QueryType   query.Type `json:"query_type"`
	Confidence  string     `json:"confidence"`
	Exact       []Result   `json:"exact"`
	Partial     []Result   `json:"partial"`
	Similar     []Result   `json:"similar"`
	Suggestions []string   `json:"suggestions,omitempty"`
	Browse      bool       `json:"browse,omitempty"`
}

// Results flattens the tier groups in rank order.
func (r *Response) Results() []Result {
	out := make([]Result, 0, len(r.Exact)+len(r.Partial)+len(r.Similar))
	out = append(out, r.Exact...)
	out = append(out, r.Partial...)
	out = append(out, r.Similar...)
	return out
}

// Engine answers searches over read-only indexes built once from a
// dataset snapshot. Reloading data means building a new Engine; nothing
// is mutated in place, so every call is re-entrant.
type Engine struct {
	mappings       []dataset.CompetitorMapping
	byManufacturer map[string][]dataset.CompetitorMapping
	manufacturers  []string
	byLegacy       map[string]dataset.LegacyMapping
	replCompetitor map[string][]dataset.CompetitorMapping
	replLegacy     map[string][]dataset.LegacyMapping
	classifier     *query.Classifier
	urls           resolve.URLResolver
	suggest        *SuggestIndex
	opts           Options
	log            *logger.Logger
}

// NewEngine builds the engine's indexes from the crossref snapshot. The
// URL resolver is injected so results carry resolved links without the
// engine owning that dataset.
func NewEngine(db *dataset.CrossRef, urls resolve.URLResolver, opts Options) (*Engine, error) {
	e := &Engine{
		mappings:       db.Mappings,
		byManufacturer: make(map[string][]dataset.CompetitorMapping),
		byLegacy:       make(map[string]dataset.LegacyMapping, len(db.LegacyDatabase.Mappings)),
		replCompetitor: make(map[string][]dataset.CompetitorMapping),
		replLegacy:     make(map[string][]dataset.LegacyMapping),
		urls:           urls,
		opts:           opts.withDefaults(),
		log:            logger.GetLogger().Search(),
	}

	seen := make(map[string]bool)
	for _, m := range db.Mappings {
		manufacturer := strings.ToLower(strings.TrimSpace(m.CompetitorManufacturer))
		if manufacturer != "" && !seen[manufacturer] {
			seen[manufacturer] = true
			e.manufacturers = append(e.manufacturers, m.CompetitorManufacturer)
		}
		e.byManufacturer[manufacturer] = append(e.byManufacturer[manufacturer], m)
		repl := modelkey.Normalize(m.AxisReplacement)
		e.replCompetitor[repl] = append(e.replCompetitor[repl], m)
	}
	sort.Strings(e.manufacturers)

	legacyKeys := make(map[string]bool, len(db.LegacyDatabase.Mappings))
	for _, lm := range db.LegacyDatabase.Mappings {
		key := modelkey.Normalize(lm.LegacyModel)
		legacyKeys[key] = true
		e.byLegacy[key] = lm
		repl := modelkey.Normalize(lm.ReplacementModel)
		e.replLegacy[repl] = append(e.replLegacy[repl], lm)
	}

	e.classifier = query.NewClassifier(e.manufacturers, legacyKeys)

	suggest, err := NewSuggestIndex(db.Mappings)
	if err != nil {
		return nil, err
	}
	e.suggest = suggest

	e.log.Debug().
		Int("mappings", len(db.Mappings)).
		Int("legacy", len(db.LegacyDatabase.Mappings)).
		Int("manufacturers", len(e.manufacturers)).
		Msg("search engine indexes built")
	return e, nil
}

// Close releases the suggestion index.
func (e *Engine) Close() error {
	if e.suggest != nil {
		return e.suggest.Close()
	}
	return nil
}

// Classify exposes the routing decision for a query.
func (e *Engine) Classify(q string) query.Type {
	return e.classifier.Classify(q)
}

// Manufacturers lists the known competitor manufacturers, sorted.
func (e *Engine) Manufacturers() []string {
	return e.manufacturers
}

// ManufacturerModels returns every mapping for a manufacturer name,
// matched case-insensitively.
func (e *Engine) ManufacturerModels(name string) []dataset.CompetitorMapping {
	return e.byManufacturer[strings.ToLower(strings.TrimSpace(name))]
}

// LookupAxisModel returns every competitor and legacy mapping whose
// replacement is the given Axis model. One Axis model commonly replaces
// many competitor SKUs.
func (e *Engine) LookupAxisModel(model string) ([]dataset.CompetitorMapping, []dataset.LegacyMapping) {
	key := modelkey.Normalize(model)
	competitors, legacy := e.replCompetitor[key], e.replLegacy[key]
	if len(competitors) == 0 && len(legacy) == 0 {
		if base := modelkey.BaseModel(key); base != key {
			competitors, legacy = e.replCompetitor[base], e.replLegacy[base]
		}
	}
	return competitors, legacy
}

// Search classifies the query and dispatches it against the matching
// index. No-match is a response with confidence "none", never an error.
func (e *Engine) Search(q string) *Response {
	started := time.Now()
	resp := &Response{
		Query:     q,
		QueryType: e.classifier.Classify(q),
	}

	switch resp.QueryType {
	case query.TypeAxisBrowse:
		resp.Browse = true
	case query.TypeManufacturer:
		e.searchManufacturer(q, resp)
	case query.TypeLegacy:
		e.searchLegacy(q, resp)
	case query.TypeAxisModel:
		e.searchAxisModel(q, resp)
	default:
		e.searchCompetitor(q, resp)
	}

	resp.Confidence = rollupConfidence(resp)
	if resp.Confidence == ConfidenceLow || resp.Confidence == ConfidenceNone {
		if !resp.Browse {
			resp.Suggestions = e.Suggestions(q, e.opts.SuggestionLimit)
		}
	}

	e.log.Debug().
		Str("query", q).
		Str("type", string(resp.QueryType)).
		Str("confidence", resp.Confidence).
		Dur("took", time.Since(started)).
		Msg("search completed")
	return resp
}

// searchCompetitor fuzzy-matches the query against every competitor model
// and groups everything above the similar floor by tier.
func (e *Engine) searchCompetitor(q string, resp *Response) {
	key := modelkey.Normalize(q)
	var matched []Result
	for _, m := range e.mappings {
		score := fuzzy.Similarity(key, modelkey.Normalize(m.CompetitorModel))
		tier := fuzzy.ClassifyScore(score)
		if tier == fuzzy.TierNone {
			continue
		}
		matched = append(matched, e.newResult(m, score, tier))
	}
	sortResults(matched)
	for _, r := range matched {
		switch r.Tier {
		case fuzzy.TierExact:
			resp.Exact = append(resp.Exact, r)
		case fuzzy.TierPartial:
			resp.Partial = append(resp.Partial, r)
		default:
			resp.Similar = append(resp.Similar, r)
		}
	}
}

// searchLegacy resolves a discontinued Axis model to its replacement,
// trying the exact key then the base model.
func (e *Engine) searchLegacy(q string, resp *Response) {
	key := modelkey.Normalize(q)
	lm, ok := e.byLegacy[key]
	if !ok {
		lm, ok = e.byLegacy[modelkey.BaseModel(key)]
	}
	if !ok {
		return
	}
	resp.Exact = append(resp.Exact, e.newLegacyResult(lm))
}

// searchAxisModel reverse-looks-up every mapping replaced by this model.
func (e *Engine) searchAxisModel(q string, resp *Response) {
	competitors, legacy := e.LookupAxisModel(q)
	results := make([]Result, 0, len(competitors)+len(legacy))
	for _, m := range competitors {
		results = append(results, e.newResult(m, 100, fuzzy.TierExact))
	}
	for _, lm := range legacy {
		results = append(results, e.newLegacyResult(lm))
	}
	sortResults(results)
	resp.Exact = results
}

// searchManufacturer returns every mapping for the matched manufacturers.
// Matching is delegated to the classifier so dispatch can never accept a
// query this branch then fails to match. The match is on manufacturer
// identity, not string distance, so every result is exact-tier by
// convention.
func (e *Engine) searchManufacturer(q string, resp *Response) {
	var results []Result
	for _, name := range e.classifier.MatchManufacturers(q) {
		for _, m := range e.byManufacturer[name] {
			results = append(results, e.newResult(m, 100, fuzzy.TierExact))
		}
	}
	sortResults(results)
	resp.Exact = results
}

// Suggestions ranks the top-n competitor models by raw similarity, below
// the match floor included. The bleve index narrows candidates; ordering
// comes from the similarity score with a lexicographic tie-break so the
// list never reorders between runs.
func (e *Engine) Suggestions(q string, n int) []string {
	key := modelkey.Normalize(q)
	if key == "" || n <= 0 {
		return nil
	}

	candidates := e.suggest.Candidates(key, n*4)
	if len(candidates) == 0 {
		// Index found nothing loosely similar; fall back to scanning the
		// full model list so short garbled queries still get suggestions.
		for _, m := range e.mappings {
			candidates = append(candidates, modelkey.Normalize(m.CompetitorModel))
		}
	}

	type scored struct {
		model string
		score int
	}
	seen := make(map[string]bool, len(candidates))
	ranked := make([]scored, 0, len(candidates))
	for _, c := range candidates {
		if seen[c] {
			continue
		}
		seen[c] = true
		ranked = append(ranked, scored{model: c, score: fuzzy.Similarity(key, c)})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].model < ranked[j].model
	})

	if len(ranked) > n {
		ranked = ranked[:n]
	}
	out := make([]string, len(ranked))
	for i, s := range ranked {
		out[i] = s.model
	}
	return out
}

// SearchBatch runs a batch of queries, memoizing duplicates after
// case/whitespace normalization so a spreadsheet column full of the same
// SKU is only matched once. Work runs in chunks; ctx is checked at each
// chunk boundary and a cancelled batch returns the completed portion
// (every finished item is already final).
func (e *Engine) SearchBatch(ctx context.Context, queries []string) (map[string]*Response, error) {
	results := make(map[string]*Response, len(queries))
	memo := make(map[string]*Response, len(queries))

	for i, q := range queries {
		if i%e.opts.ChunkSize == 0 {
			if err := ctx.Err(); err != nil {
				e.log.Warn().Int("completed", i).Int("total", len(queries)).Msg("batch search cancelled")
				return results, err
			}
		}
		mk := memoKey(q)
		if cached, ok := memo[mk]; ok {
			results[q] = cached
			continue
		}
		resp := e.Search(q)
		memo[mk] = resp
		results[q] = resp
	}
	return results, nil
}

func memoKey(q string) string {
	return strings.ToUpper(strings.Join(strings.Fields(q), " "))
}

func (e *Engine) newResult(m dataset.CompetitorMapping, score int, tier fuzzy.Tier) Result {
	return Result{
		Mapping:      m,
		Score:        score,
		Tier:         tier,
		URL:          e.urls.Resolve(m.AxisReplacement),
		NDAACategory: NDAACategory(m.CompetitorManufacturer),
	}
}

// newLegacyResult wraps a legacy mapping in the common result shape so
// callers render one kind of row.
func (e *Engine) newLegacyResult(lm dataset.LegacyMapping) Result {
	legacy := lm
	return Result{
		Mapping: dataset.CompetitorMapping{
			CompetitorModel:        lm.LegacyModel,
			CompetitorManufacturer: "Axis",
			AxisReplacement:        lm.ReplacementModel,
			Confidence:             100,
			Notes:                  lm.Notes,
		},
		Legacy:       &legacy,
		Score:        100,
		Tier:         fuzzy.TierExact,
		URL:          e.urls.Resolve(lm.ReplacementModel),
		NDAACategory: NDAAStandard,
	}
}

// sortResults orders by score descending with a lexicographic model-key
// tie-break, so reruns never reorder ties.
func sortResults(results []Result) {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return modelkey.Normalize(results[i].Mapping.CompetitorModel) < modelkey.Normalize(results[j].Mapping.CompetitorModel)
	})
}

func rollupConfidence(resp *Response) string {
	switch {
	case len(resp.Exact) > 0:
		return ConfidenceHigh
	case len(resp.Partial) > 0:
		return ConfidenceMedium
	case len(resp.Similar) > 0:
		return ConfidenceLow
	default:
		return ConfidenceNone
	}
}
