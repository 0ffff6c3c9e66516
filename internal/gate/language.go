package gate

import "unicode"

// nonASCIIRatioThreshold is the fraction of non-ASCII letters above which a
// prompt is treated as not English. Rule-based on purpose: the gate must be
// cheap and deterministic, with no external calls.
const nonASCIIRatioThreshold = 0.3

// unsupportedLanguageReply is the fixed polite rejection returned for
// prompts that do not appear to be English.
const unsupportedLanguageReply = "I'm sorry, but I can only help with questions written in English right now. Could you try asking again in English?"

// DetectNonEnglish reports whether the prompt appears to be written in a
// language other than English, based on the share of non-ASCII letters.
func DetectNonEnglish(prompt string) bool {
	letters := 0
	nonASCII := 0
	for _, r := range prompt {
		if !unicode.IsLetter(r) {
			continue
		}
		letters++
		if r > unicode.MaxASCII {
			nonASCII++
		}
	}
	if letters == 0 {
		return false
	}
	return float64(nonASCII)/float64(letters) > nonASCIIRatioThreshold
}
