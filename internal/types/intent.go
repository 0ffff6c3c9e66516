package types

// Intent is a simple conversational intent the Gate can answer directly
// without invoking any model tier.
type Intent string

const (
	IntentNone           Intent = ""
	IntentCasualGreeting Intent = "casual_greeting"
	IntentFormalGreeting Intent = "formal_greeting"
	IntentGratitude      Intent = "gratitude"
	IntentMeta           Intent = "meta"
	IntentMath           Intent = "math_expression"
	IntentNonEnglish     Intent = "non_english"
)
