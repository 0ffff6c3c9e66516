package types

import "strings"

// Vibe is the caller-declared response style/register.
type Vibe string

const (
	VibeGeneral      Vibe = "general"
	VibeAcademic     Vibe = "academic"
	VibeProfessional Vibe = "professional"
	VibeTechnical    Vibe = "technical"
	VibeCreative     Vibe = "creative"
	VibeCasual       Vibe = "casual"
)

// ParseVibe normalizes a caller-supplied vibe string. Unknown or empty
// values fall back to VibeGeneral.
func ParseVibe(s string) Vibe {
	switch Vibe(strings.ToLower(strings.TrimSpace(s))) {
	case VibeGeneral, VibeAcademic, VibeProfessional, VibeTechnical, VibeCreative, VibeCasual:
		return Vibe(strings.ToLower(strings.TrimSpace(s)))
	default:
		return VibeGeneral
	}
}

// SuggestsComplex reports whether this vibe biases classification toward
// complex answers. General-purpose registers bias simple.
func (v Vibe) SuggestsComplex() bool {
	switch v {
	case VibeAcademic, VibeProfessional, VibeCreative:
		return true
	default:
		return false
	}
}
