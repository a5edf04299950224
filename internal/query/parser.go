// Package query classifies incoming search strings and splits batch input
// into individual queries.
package query

import (
	"regexp"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/oneshot2001/axisfinder/internal/modelkey"
)

// Type is the routing decision for one query string.
type Type string

const (
	TypeCompetitor   Type = "competitor"
	TypeLegacy       Type = "legacy"
	TypeAxisModel    Type = "axis-model"
	TypeAxisBrowse   Type = "axis-browse"
	TypeManufacturer Type = "manufacturer"
)

// MaxBatchSize is the default batch cap; excess lines are dropped, not
// rejected. Callers with a configured limit pass their own.
const MaxBatchSize = 100

// axisModelRe matches the shape of letter-prefixed Axis catalog families
// (M1075-L, P3265-LVE, Q6135-LE, XFQ1656) after key normalization.
var axisModelRe = regexp.MustCompile(`^[A-Z]{1,3}\d{2,4}(-[A-Z0-9]+)*$`)

var batchSplitRe = regexp.MustCompile(`[\r\n;,\t]+`)

// Classifier routes query strings by type. It is constructed from the
// dataset snapshot (known manufacturers and legacy keys) so routing has
// no hidden global state.
type Classifier struct {
	manufacturers []string
	legacyKeys    map[string]bool
}

// NewClassifier builds a classifier over the known manufacturer names and
// the set of documented legacy model keys.
func NewClassifier(manufacturers []string, legacyKeys map[string]bool) *Classifier {
	ms := make([]string, len(manufacturers))
	for i, m := range manufacturers {
		ms[i] = strings.ToLower(strings.TrimSpace(m))
	}
	return &Classifier{manufacturers: ms, legacyKeys: legacyKeys}
}

// Classify decides the query type. Rules run in a fixed order so a string
// that could route two ways always routes the same way: manufacturer name,
// then Axis-model shape (unless documented legacy), then legacy key, then
// browse token, then the competitor default.
func (c *Classifier) Classify(q string) Type {
	trimmed := strings.TrimSpace(q)
	if c.isManufacturer(trimmed) {
		return TypeManufacturer
	}

	key := modelkey.Normalize(trimmed)
	isLegacy := c.legacyKeys[key] || c.legacyKeys[modelkey.BaseModel(key)]
	if axisModelRe.MatchString(key) && !isLegacy {
		return TypeAxisModel
	}
	if isLegacy {
		return TypeLegacy
	}
	if trimmed == "" || trimmed == "*" || strings.EqualFold(trimmed, "all") {
		return TypeAxisBrowse
	}
	return TypeCompetitor
}

// MatchManufacturers returns the known manufacturer names the query
// matches, lowercased, by case-insensitive substring in either direction
// or fuzzy fold match. Classification and manufacturer dispatch both go
// through this so a query routed as a manufacturer always has models to
// show.
func (c *Classifier) MatchManufacturers(q string) []string {
	lq := strings.ToLower(strings.TrimSpace(q))
	if len(lq) < 3 {
		return nil
	}
	var matched []string
	for _, m := range c.manufacturers {
		if strings.Contains(m, lq) || strings.Contains(lq, m) {
			matched = append(matched, m)
			continue
		}
		if fuzzy.MatchNormalizedFold(lq, m) && len(lq) >= len(m)-1 {
			matched = append(matched, m)
		}
	}
	return matched
}

func (c *Classifier) isManufacturer(q string) bool {
	return len(c.MatchManufacturers(q)) > 0
}

// ParseBatchInput splits pasted or imported multi-line text into query
// strings: line breaks and common delimiters separate entries, entries
// are trimmed, empties dropped, and anything past limit silently
// truncated. A limit of zero or less means MaxBatchSize. Surfacing the
// truncation is the caller's job.
func ParseBatchInput(text string, limit int) []string {
	if limit <= 0 {
		limit = MaxBatchSize
	}
	parts := batchSplitRe.Split(text, -1)
	queries := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		queries = append(queries, p)
		if len(queries) == limit {
			break
		}
	}
	return queries
}

// ValidateBatch checks a batch for structural problems only. Duplicates
// are allowed here; batch search memoizes them. A limit of zero or less
// means MaxBatchSize.
func ValidateBatch(queries []string, limit int) (bool, string) {
	if limit <= 0 {
		limit = MaxBatchSize
	}
	if len(queries) == 0 {
		return false, "batch contains no queries"
	}
	if len(queries) > limit {
		return false, "batch exceeds maximum size"
	}
	for _, q := range queries {
		if strings.TrimSpace(q) != "" {
			return true, ""
		}
	}
	return false, "batch contains only empty queries"
}
