package modelkey

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain model", "P3265-LVE", "P3265-LVE"},
		{"lowercase", "p3265-lve", "P3265-LVE"},
		{"axis prefix", "AXIS P3265-LVE", "P3265-LVE"},
		{"axis prefix lowercase", "axis p3265-lve", "P3265-LVE"},
		{"axis glued to model", "AXISP3265", "P3265"},
		{"whitespace run", "P3265   LVE", "P3265-LVE"},
		{"surrounding whitespace", "  P3265-LVE  ", "P3265-LVE"},
		{"repeated brand token", "AXIS AXIS P3265", "P3265"},
		{"empty", "", ""},
		{"only brand", "AXIS", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Normalize(tt.input))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"AXIS P3265-LVE", "p1455 le", "  DS-2CD2143G2-I ", "AXIS AXIS Q6135",
		"", "axis", "M30 85", "weird   input with spaces",
	}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "normalize should be idempotent for %q", in)
	}
}

func TestBaseModel(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"no suffix", "P3265-LVE", "P3265-LVE"},
		{"regional", "P3265-LVE-EUR", "P3265-LVE"},
		{"voltage", "P3265-LVE-24V", "P3265-LVE"},
		{"stacked suffixes", "P3265-LVE-60HZ-EUR", "P3265-LVE"},
		{"stacked reversed", "P3265-LVE-EUR-60HZ", "P3265-LVE"},
		{"lens size", "P1455-LE-8MM", "P1455-LE"},
		{"lens mount", "F2105-RE-M12", "F2105-RE"},
		{"bulk packaging", "T8705-BULK", "T8705"},
		{"suffix then lens size", "P1455-LE-8MM-US", "P1455-LE"},
		{"axis prefix stripped first", "AXIS P3265-LVE-EUR", "P3265-LVE"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, BaseModel(tt.input))
		})
	}
}

func TestBaseModel_Idempotent(t *testing.T) {
	inputs := []string{"P3265-LVE-60HZ-EUR", "P1455-LE-8MM", "M3085-V", "Q6135-LE-50HZ"}
	for _, in := range inputs {
		once := BaseModel(in)
		assert.Equal(t, once, BaseModel(once), "base model should be idempotent for %q", in)
	}
}

func TestBaseModel_IsPrefixReduction(t *testing.T) {
	inputs := []string{"P3265-LVE-60HZ-EUR", "P1455-LE-8MM", "M3085-V", "T8705-BULK", "DS-2CD2143G2-I"}
	for _, in := range inputs {
		key := Normalize(in)
		base := BaseModel(in)
		assert.LessOrEqual(t, len(base), len(key))
		assert.Equal(t, base, key[:len(base)], "base model must be a prefix of the key for %q", in)
	}
}

func TestSeriesPrefix(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"P3285-LVE", "P32"},
		{"Q6135-LE", "Q61"},
		{"M3085-V", "M30"},
		{"XF9010", "XF90"},
		{"no-digits", ""},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, SeriesPrefix(tt.input), "series prefix of %q", tt.input)
	}
}
