// Package modelkey canonicalizes product model identifiers so every index
// and lookup in the tool agrees on what "the same model" means.
package modelkey

import (
	"regexp"
	"strings"
)

// variantSuffixes lists the suffixes stripped when deriving a base model.
// Order is fixed: regional, electrical, frequency, optical, packaging.
// Stripping iterates until a full pass removes nothing, so stacked
// suffixes like "-60HZ-EUR" come off regardless of stacking order.
var variantSuffixes = []string{
	"-EUR", "-US", "-BR", "-NM", "-AR",
	"-24V",
	"-60HZ", "-50HZ",
	"-M12",
	"-BULK",
}

var (
	axisPrefixRe = regexp.MustCompile(`(?i)^AXIS\s*`)
	whitespaceRe = regexp.MustCompile(`\s+`)
	lensSizeRe   = regexp.MustCompile(`-\d+MM$`)
	seriesRe     = regexp.MustCompile(`^([A-Z]+\d{2})`)
)

// Normalize returns the canonical key for a raw model string: uppercase,
// leading AXIS token removed, whitespace runs collapsed to hyphens.
// Every input produces a key, including the empty string, and the
// operation is idempotent.
func Normalize(raw string) string {
	key := strings.TrimSpace(raw)
	// Strip repeated brand tokens so pasted strings like "AXIS AXIS P3265"
	// reduce to the same key as "P3265" and the result re-normalizes to
	// itself.
	for axisPrefixRe.MatchString(key) {
		key = axisPrefixRe.ReplaceAllString(key, "")
	}
	key = whitespaceRe.ReplaceAllString(key, "-")
	key = strings.ToUpper(key)
	return strings.Trim(key, "-")
}

// BaseModel normalizes raw and strips variant suffixes (region, voltage,
// frequency, lens mount, packaging) until none apply, then a trailing
// lens-size suffix like "-8MM", then trailing hyphens. The result is
// always a prefix of the normalized key and the operation is idempotent.
func BaseModel(raw string) string {
	key := Normalize(raw)
	for {
		stripped := false
		for _, suffix := range variantSuffixes {
			if strings.HasSuffix(key, suffix) && len(key) > len(suffix) {
				key = key[:len(key)-len(suffix)]
				stripped = true
			}
		}
		if !stripped {
			break
		}
	}
	key = lensSizeRe.ReplaceAllString(key, "")
	return strings.TrimRight(key, "-")
}

// SeriesPrefix extracts the series bucket of a key: leading letters plus
// the first two digits ("P3285-LVE" -> "P32"). Returns "" when the key
// does not start with a letter-digit family shape.
func SeriesPrefix(key string) string {
	m := seriesRe.FindStringSubmatch(Normalize(key))
	if m == nil {
		return ""
	}
	return m[1]
}
