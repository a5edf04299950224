package query

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func testClassifier() *Classifier {
	return NewClassifier(
		[]string{"Hikvision", "Dahua", "Hanwha"},
		map[string]bool{
			"M3024-LVE": true,
			"P3224-LV":  true,
		},
	)
}

func TestClassify_RuleOrder(t *testing.T) {
	c := testClassifier()

	tests := []struct {
		name     string
		query    string
		expected Type
	}{
		{"manufacturer exact", "Hikvision", TypeManufacturer},
		{"manufacturer lowercase", "dahua", TypeManufacturer},
		{"manufacturer substring", "hikvis", TypeManufacturer},
		{"axis model", "P3265-LVE", TypeAxisModel},
		{"axis model with brand prefix", "AXIS Q6135-LE", TypeAxisModel},
		{"legacy model routes legacy not axis", "M3024-LVE", TypeLegacy},
		{"legacy with variant suffix", "M3024-LVE-EUR", TypeLegacy},
		{"empty is browse", "", TypeAxisBrowse},
		{"wildcard is browse", "*", TypeAxisBrowse},
		{"all is browse", "all", TypeAxisBrowse},
		{"competitor default", "DS-2CD2143G2-I", TypeCompetitor},
		{"competitor freeform", "IPC-HDW2431T-ZS", TypeCompetitor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, c.Classify(tt.query))
		})
	}
}

func TestClassify_Deterministic(t *testing.T) {
	c := testClassifier()
	for i := 0; i < 10; i++ {
		assert.Equal(t, TypeLegacy, c.Classify("M3024-LVE"))
		assert.Equal(t, TypeManufacturer, c.Classify("Hikvision"))
	}
}

func TestMatchManufacturers(t *testing.T) {
	c := testClassifier()

	assert.Equal(t, []string{"hikvision"}, c.MatchManufacturers("Hikvision"))
	assert.Equal(t, []string{"hikvision"}, c.MatchManufacturers("hikvis"))
	// Fuzzy fold catches dropped-letter typos; every query Classify routes
	// as a manufacturer must match here too.
	assert.Equal(t, []string{"hikvision"}, c.MatchManufacturers("Hikvsion"))
	assert.Equal(t, TypeManufacturer, c.Classify("Hikvsion"))
	assert.Empty(t, c.MatchManufacturers("DS-2CD2143G2-I"))
	assert.Empty(t, c.MatchManufacturers("hi"))
}

func TestParseBatchInput(t *testing.T) {
	t.Run("newlines and delimiters", func(t *testing.T) {
		queries := ParseBatchInput("DS-2CD2143G2-I\nIPC-HDW2431T;QNV-8080R,\tP3265-LVE", 0)
		assert.Equal(t, []string{"DS-2CD2143G2-I", "IPC-HDW2431T", "QNV-8080R", "P3265-LVE"}, queries)
	})

	t.Run("drops empty lines", func(t *testing.T) {
		queries := ParseBatchInput("a\n\n\n  \nb\n", 0)
		assert.Equal(t, []string{"a", "b"}, queries)
	})

	t.Run("trims entries", func(t *testing.T) {
		queries := ParseBatchInput("  a  \n\tb\t", 0)
		assert.Equal(t, []string{"a", "b"}, queries)
	})

	t.Run("truncates at default cap without error", func(t *testing.T) {
		var b strings.Builder
		for i := 0; i < MaxBatchSize+50; i++ {
			fmt.Fprintf(&b, "MODEL-%d\n", i)
		}
		queries := ParseBatchInput(b.String(), 0)
		assert.Len(t, queries, MaxBatchSize)
		assert.Equal(t, "MODEL-0", queries[0])
		assert.Equal(t, fmt.Sprintf("MODEL-%d", MaxBatchSize-1), queries[MaxBatchSize-1])
	})

	t.Run("configured limit overrides the default", func(t *testing.T) {
		queries := ParseBatchInput("a\nb\nc\nd\ne", 3)
		assert.Equal(t, []string{"a", "b", "c"}, queries)
	})
}

func TestValidateBatch(t *testing.T) {
	t.Run("valid batch", func(t *testing.T) {
		valid, reason := ValidateBatch([]string{"a", "b"}, 0)
		assert.True(t, valid)
		assert.Empty(t, reason)
	})

	t.Run("duplicates are allowed", func(t *testing.T) {
		valid, _ := ValidateBatch([]string{"a", "a", "a"}, 0)
		assert.True(t, valid)
	})

	t.Run("empty batch rejected", func(t *testing.T) {
		valid, reason := ValidateBatch(nil, 0)
		assert.False(t, valid)
		assert.NotEmpty(t, reason)
	})

	t.Run("oversized batch rejected", func(t *testing.T) {
		queries := make([]string, MaxBatchSize+1)
		for i := range queries {
			queries[i] = "x"
		}
		valid, _ := ValidateBatch(queries, 0)
		assert.False(t, valid)
	})

	t.Run("configured limit is enforced", func(t *testing.T) {
		valid, _ := ValidateBatch([]string{"a", "b", "c", "d"}, 3)
		assert.False(t, valid)
		valid, _ = ValidateBatch([]string{"a", "b", "c"}, 3)
		assert.True(t, valid)
	})
}
