package classifier

import (
	"strings"

	"github.com/af-corp/bridge-gateway/internal/config"
	"github.com/af-corp/bridge-gateway/internal/types"
)

// Bias is the direction a signal pulls the verdict.
type Bias int

const (
	BiasNeutral Bias = 0
	BiasSimple  Bias = -1
	BiasComplex Bias = 1
)

// Signal is one weighted complexity indicator. Detect returns the
// direction the signal votes for a given query, or BiasNeutral when
// the signal does not apply.
type Signal struct {
	Name   string
	Weight float64
	Detect func(q *types.Query, words []string, cfg config.ClassifierConfig) Bias
}

// RuleSet is a versioned set of signals. Bump the version whenever
// signal weights or keyword dictionaries change, so that routing
// behavior shifts are attributable in logs.
type RuleSet struct {
	Version string
	Signals []Signal
}

var simpleMarkers = []string{
	"what is", "what are", "what was", "who is", "who was", "when did",
	"when was", "where is", "define", "definition of", "meaning of",
	"capital of", "price of", "cost of", "how many", "how much", "how old",
	"translate", "spell", "synonym",
}

var complexMarkers = []string{
	"explain", "analyze", "analyse", "compare", "contrast", "evaluate",
	"design", "implement", "architecture", "strategy", "essay", "why does",
	"why is", "why are", "how does", "how do", "how can", "step by step",
	"in depth", "detailed", "comprehensive", "pros and cons", "trade-off",
	"tradeoff", "optimize", "prove", "derive", "justify", "critique",
	"walk me through", "best way to",
}

// DefaultRuleSet is the signal table used in production.
func DefaultRuleSet() RuleSet {
	return RuleSet{
		Version: "2026-07-1",
		Signals: []Signal{
			{Name: "keywords", Weight: 1.0, Detect: detectKeywords},
			{Name: "vibe", Weight: 0.8, Detect: detectVibe},
			{Name: "length", Weight: 0.6, Detect: detectLength},
			{Name: "nature", Weight: 0.5, Detect: detectNature},
		},
	}
}

func detectKeywords(q *types.Query, _ []string, _ config.ClassifierConfig) Bias {
	lower := strings.ToLower(q.Prompt)
	var simple, complex int
	for _, m := range simpleMarkers {
		if strings.Contains(lower, m) {
			simple++
		}
	}
	for _, m := range complexMarkers {
		if strings.Contains(lower, m) {
			complex++
		}
	}
	switch {
	case complex > simple:
		return BiasComplex
	case simple > complex:
		return BiasSimple
	default:
		return BiasNeutral
	}
}

func detectLength(_ *types.Query, words []string, cfg config.ClassifierConfig) Bias {
	if len(words) > cfg.LengthThreshold {
		return BiasComplex
	}
	return BiasSimple
}

func detectVibe(q *types.Query, _ []string, _ config.ClassifierConfig) Bias {
	if q.Vibe.SuggestsComplex() {
		return BiasComplex
	}
	return BiasNeutral
}

func detectNature(q *types.Query, _ []string, _ config.ClassifierConfig) Bias {
	switch {
	case q.NatureOfAnswer.BiasesComplex():
		return BiasComplex
	case q.NatureOfAnswer.BiasesSimple():
		return BiasSimple
	default:
		return BiasNeutral
	}
}
