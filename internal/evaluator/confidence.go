package evaluator

import (
	"regexp"
	"strconv"
	"strings"
)

// Models are instructed to end answers with a marker of the exact form
// [CONFIDENCE:X.XX], X.XX in [0.00, 1.00]. The grammar is fixed: a
// bare "1" or values above 1.0 do not match, so a malformed marker is
// treated as absent rather than misread.
var confidenceRe = regexp.MustCompile(`\[CONFIDENCE:(1\.0+|0(\.\d+)?)\]`)

// ExtractConfidence finds the confidence marker in raw model output.
// It returns the stripped answer text and the parsed confidence, or
// nil when no well-formed marker is present. Absence means unknown,
// never zero.
func ExtractConfidence(text string) (string, *float64) {
	loc := confidenceRe.FindStringSubmatchIndex(text)
	if loc == nil {
		return strings.TrimSpace(text), nil
	}

	raw := text[loc[2]:loc[3]]
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return strings.TrimSpace(text), nil
	}

	stripped := text[:loc[0]] + text[loc[1]:]
	return strings.TrimSpace(stripped), &v
}

// FormatConfidence renders a confidence value back into marker form,
// for callers that asked to see it.
func FormatConfidence(v float64) string {
	return "[CONFIDENCE:" + strconv.FormatFloat(v, 'f', 2, 64) + "]"
}
