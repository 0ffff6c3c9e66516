package types

// BridgeResponse is the structured result returned for every pipeline run,
// including terminal short-circuits (gate answers, cache hits, follow-up
// questions). A terminal failure never reaches this type; those surface as
// HTTP error envelopes.
type BridgeResponse struct {
	RequestID string       `json:"request_id"`
	Answer    string       `json:"answer"`
	Source    AnswerSource `json:"source"`
	Model     string       `json:"model,omitempty"`

	// Confidence is the parsed or derived composite confidence. Nil means
	// unknown: the model reported no usable confidence marker.
	Confidence *float64 `json:"confidence,omitempty"`

	FromCache       bool    `json:"from_cache"`
	CacheMatch      string  `json:"cache_match,omitempty"`
	CacheSimilarity float64 `json:"cache_similarity,omitempty"`

	Escalated     bool     `json:"escalated,omitempty"`
	NeedsMoreInfo bool     `json:"needs_more_info,omitempty"`
	FollowUps     []string `json:"follow_up_questions,omitempty"`

	Intent Intent `json:"intent,omitempty"`
	Vibe   Vibe   `json:"vibe"`
}
