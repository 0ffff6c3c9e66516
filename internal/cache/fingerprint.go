package cache

import (
	"crypto/sha256"
	"fmt"
	"strings"
	"unicode"
)

// Normalize canonicalizes a prompt for fingerprinting: lowercase, punctuation
// stripped, whitespace collapsed. Two prompts that normalize identically are
// treated as the same question.
func Normalize(prompt string) string {
	var b strings.Builder
	b.Grow(len(prompt))
	for _, r := range strings.ToLower(prompt) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Fingerprint returns the deterministic cache key for a prompt: the SHA-256
// hex digest of its normalized text.
func Fingerprint(prompt string) string {
	h := sha256.Sum256([]byte(Normalize(prompt)))
	return fmt.Sprintf("%x", h)
}
