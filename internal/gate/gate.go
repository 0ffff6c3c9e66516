package gate

import (
	"fmt"

	"github.com/af-corp/bridge-gateway/internal/types"
)

// Result is a terminal pipeline short-circuit produced by the gate.
// Gate answers are never cached and never escalated.
type Result struct {
	Intent types.Intent
	Answer string
}

// Gate runs the cheap, deterministic checks that can answer a query without
// touching the cache or any model: language support, simple conversational
// intents, and arithmetic expressions.
type Gate struct {
	rules []Rule
}

func New() *Gate {
	return &Gate{rules: DefaultRules()}
}

// Check returns a terminal result, or nil when the query must continue
// through the pipeline.
func (g *Gate) Check(prompt string) *Result {
	if DetectNonEnglish(prompt) {
		return &Result{
			Intent: types.IntentNonEnglish,
			Answer: unsupportedLanguageReply,
		}
	}

	for _, r := range g.rules {
		if r.Regex.MatchString(prompt) {
			return &Result{Intent: r.Intent, Answer: r.Reply}
		}
	}

	if expr, ok := ExtractMathExpression(prompt); ok {
		v, err := EvaluateMathExpression(expr)
		if err != nil {
			return &Result{
				Intent: types.IntentMath,
				Answer: fmt.Sprintf("Sorry, I couldn't compute that: %v.", err),
			}
		}
		return &Result{
			Intent: types.IntentMath,
			Answer: fmt.Sprintf("%s = %s", expr, FormatMathResult(v)),
		}
	}

	return nil
}
