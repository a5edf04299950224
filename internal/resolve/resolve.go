// Package resolve implements the lookup cascades that turn a model key
// into product URLs, catalog specs, accessory sets, and list prices.
// Every lookup follows the same shape: exact match on the normalized key,
// base-model retry with variant suffixes stripped, then a dataset-specific
// fallback. Lookups are plain values constructed from a dataset snapshot;
// a data reload builds new lookups rather than mutating a live one.
package resolve

import (
	"sort"
	"strings"

	"github.com/oneshot2001/axisfinder/internal/modelkey"
)

// URL confidence tags, strongest first.
const (
	URLVerified       = "verified"
	URLAlias          = "alias"
	URLGenerated      = "generated"
	URLSearchFallback = "search-fallback"
)

// Lookup confidence tags for spec, accessory, and MSRP cascades.
const (
	ConfidenceExact          = "exact"
	ConfidenceBaseModel      = "base-model"
	ConfidenceSeriesFallback = "series-fallback"
	ConfidenceNone           = "none"
)

// URLResolver maps a model to a product page with a trust level.
type URLResolver interface {
	Resolve(model string) URLResult
}

// SpecLookup answers catalog spec queries.
type SpecLookup interface {
	Lookup(model string) SpecResult
}

// MSRPLookup answers list-price queries. There is no fallback past the
// base model: an unknown price stays unknown, never an estimate.
type MSRPLookup interface {
	Lookup(model string) MSRPResult
}

// seriesFallbackKey returns the lexicographically smallest key in keys
// sharing the series prefix of key, or "". Map iteration order is not a
// policy; smallest-key is, so repeated lookups always substitute the same
// sibling.
func seriesFallbackKey(key string, keys []string) string {
	prefix := modelkey.SeriesPrefix(key)
	if prefix == "" {
		return ""
	}
	best := ""
	for _, k := range keys {
		if !strings.HasPrefix(k, prefix) {
			continue
		}
		if best == "" || k < best {
			best = k
		}
	}
	return best
}

// sortedKeys returns map keys in lexicographic order.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
