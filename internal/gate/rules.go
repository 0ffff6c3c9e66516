package gate

import (
	"regexp"

	"github.com/af-corp/bridge-gateway/internal/types"
)

// Rule defines a simple-intent detection pattern and its canned reply.
// Rules are evaluated in order; the first match wins, so more specific
// patterns come first.
type Rule struct {
	Name   string
	Regex  *regexp.Regexp
	Intent types.Intent
	Reply  string
}

// DefaultRules returns the built-in simple-intent rules.
func DefaultRules() []Rule {
	return []Rule{
		{
			Name:   "good_morning",
			Regex:  regexp.MustCompile(`(?i)^\s*good\s+morning\b[\s!.,]*$`),
			Intent: types.IntentFormalGreeting,
			Reply:  "Good morning! What would you like to know today?",
		},
		{
			Name:   "good_afternoon",
			Regex:  regexp.MustCompile(`(?i)^\s*good\s+(afternoon|evening)\b[\s!.,]*$`),
			Intent: types.IntentFormalGreeting,
			Reply:  "Good day! How can I help you?",
		},
		{
			Name:   "formal_greeting",
			Regex:  regexp.MustCompile(`(?i)^\s*(hello|greetings)\b[\s!.,]*$`),
			Intent: types.IntentFormalGreeting,
			Reply:  "Hello! How may I assist you today?",
		},
		{
			Name:   "casual_greeting",
			Regex:  regexp.MustCompile(`(?i)^\s*(hi|hey|yo|hiya|howdy|sup|what'?s\s+up)\b[\s!.,]*$`),
			Intent: types.IntentCasualGreeting,
			Reply:  "Hey there! What can I do for you?",
		},
		{
			Name:   "gratitude",
			Regex:  regexp.MustCompile(`(?i)^\s*(thanks|thank\s+you|thx|ty|cheers|much\s+appreciated)\b`),
			Intent: types.IntentGratitude,
			Reply:  "You're welcome! Happy to help anytime.",
		},
		{
			Name:   "meta_identity",
			Regex:  regexp.MustCompile(`(?i)\b(who|what)\s+are\s+you\b|\bare\s+you\s+(a\s+|an\s+)?(bot|robot|ai|human)\b`),
			Intent: types.IntentMeta,
			Reply:  "I'm the Bridge assistant. I route your questions to the model best suited to answer them, and I answer the easy ones myself.",
		},
		{
			Name:   "meta_capability",
			Regex:  regexp.MustCompile(`(?i)\bwhat\s+can\s+you\s+do\b|\bhow\s+do\s+you\s+work\b`),
			Intent: types.IntentMeta,
			Reply:  "Ask me anything. I pick the right model for your question, check my own answers, and remember answers I've already given.",
		},
	}
}
