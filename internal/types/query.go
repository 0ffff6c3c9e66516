package types

import (
	"strings"
	"time"
)

// Query is the canonical internal representation of an incoming question.
// It is created once per request and read-only for the duration of the
// pipeline run; every stage derives its own structures from it.
type Query struct {
	// Identity (set by auth middleware and transport)
	RequestID string `json:"request_id"`
	SenderID  string `json:"sender_id"`

	// Request content
	Prompt         string `json:"prompt"`
	Vibe           Vibe   `json:"vibe,omitempty"`
	NatureOfAnswer Nature `json:"nature_of_answer,omitempty"`
	PreferredTier  string `json:"tier,omitempty"`
	ShowConfidence bool   `json:"show_confidence,omitempty"`

	// Internal tracking
	ReceivedAt time.Time `json:"-"`
}

// IsGuest reports whether the sender is an unregistered guest user.
func (q *Query) IsGuest() bool {
	return strings.HasPrefix(q.SenderID, "guest_")
}

// Nature is the caller's declared preference for the shape of the answer.
type Nature string

const (
	NatureInformative Nature = "informative"
	NatureConcise     Nature = "concise"
	NatureDetailed    Nature = "detailed"
	NatureStepByStep  Nature = "step_by_step"
)

// BiasesSimple reports whether this preference biases classification toward
// a simple answer.
func (n Nature) BiasesSimple() bool {
	return n == NatureInformative || n == NatureConcise
}

// BiasesComplex reports whether this preference biases classification toward
// a complex answer.
func (n Nature) BiasesComplex() bool {
	return n == NatureDetailed || n == NatureStepByStep
}
