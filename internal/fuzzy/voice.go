package fuzzy

import (
	"regexp"
	"strings"
)

// spokenTokens maps transcription artifacts to the symbol form used in
// model numbers. Only unambiguous mappings belong here: anything a
// transcriber could have meant literally stays untouched so the fuzzy
// matcher sees the raw token instead of a bad guess.
var spokenTokens = map[string]string{
	"dash":   "-",
	"hyphen": "-",
	"minus":  "-",
	"dot":    ".",
	"point":  ".",
	"zero":   "0",
	"one":    "1",
	"two":    "2",
	"three":  "3",
	"four":   "4",
	"five":   "5",
	"six":    "6",
	"seven":  "7",
	"eight":  "8",
	"nine":   "9",
}

var (
	voiceSpaceRe = regexp.MustCompile(`\s+`)
	dashJoinRe   = regexp.MustCompile(`\s*-\s*`)
	dotJoinRe    = regexp.MustCompile(`\s*\.\s*`)
)

// NormalizeVoice rewrites spoken-number and spoken-symbol artifacts from
// speech transcription ("p thirty two sixty five dash l v e" style input)
// into the character form the model-key normalizer expects. Tokens without
// an unambiguous mapping pass through unchanged.
func NormalizeVoice(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return raw
	}

	words := strings.Fields(raw)
	parts := make([]string, 0, len(words))
	spokenDigit := make([]bool, 0, len(words))
	for _, w := range words {
		mapped, ok := spokenTokens[strings.ToLower(w)]
		if !ok {
			parts = append(parts, w)
			spokenDigit = append(spokenDigit, false)
			continue
		}
		isDigit := mapped >= "0" && mapped <= "9"
		// Digits spoken one at a time form a run; glue them onto the
		// previous spoken digit so "three two six five" becomes "3265".
		// Typed digits are never merged, only transcribed ones.
		if isDigit && len(parts) > 0 && spokenDigit[len(parts)-1] {
			parts[len(parts)-1] += mapped
			continue
		}
		parts = append(parts, mapped)
		spokenDigit = append(spokenDigit, isDigit)
	}

	out := strings.Join(parts, " ")
	// Symbols bind to their neighbors: "P3265 - LVE" means "P3265-LVE".
	out = dashJoinRe.ReplaceAllString(out, "-")
	out = dotJoinRe.ReplaceAllString(out, ".")
	return voiceSpaceRe.ReplaceAllString(out, " ")
}
