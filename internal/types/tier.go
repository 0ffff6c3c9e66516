package types

import "strings"

// Tier identifies one of the ordered backing model tiers. Tiers form a
// strict total order from weakest to strongest: Tier1 < Tier2 < Tier3.
type Tier int

const (
	Tier1 Tier = iota + 1
	Tier2
	Tier3
)

func (t Tier) String() string {
	switch t {
	case Tier1:
		return "tier1"
	case Tier2:
		return "tier2"
	case Tier3:
		return "tier3"
	default:
		return "unknown"
	}
}

// Valid reports whether t is a known tier.
func (t Tier) Valid() bool {
	return t >= Tier1 && t <= Tier3
}

// Next returns the next-stronger tier. ok is false at the top of the order.
func (t Tier) Next() (Tier, bool) {
	if t >= Tier3 || !t.Valid() {
		return t, false
	}
	return t + 1, true
}

// ParseTier parses a tier name like "tier2". Used for the caller's explicit
// tier preference; invalid names are rejected rather than defaulted.
func ParseTier(s string) (Tier, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "tier1":
		return Tier1, true
	case "tier2":
		return Tier2, true
	case "tier3":
		return Tier3, true
	default:
		return 0, false
	}
}

// AnswerSource records which component produced the final answer.
type AnswerSource string

const (
	SourceBridge AnswerSource = "BRIDGE"
	SourceCache  AnswerSource = "CACHE"
	SourceTier1  AnswerSource = "TIER1"
	SourceTier2  AnswerSource = "TIER2"
	SourceTier3  AnswerSource = "TIER3"
)

// TierSource maps a tier to its answer source label.
func TierSource(t Tier) AnswerSource {
	switch t {
	case Tier1:
		return SourceTier1
	case Tier2:
		return SourceTier2
	case Tier3:
		return SourceTier3
	default:
		return SourceBridge
	}
}
