// Package analyzer scores prompts for completeness before they reach
// the model routing stage. A prompt that is too short, or that lacks the
// context its vibe requires, is answered with a targeted follow-up
// question instead of being routed to a model.
package analyzer

import (
	"strings"

	"github.com/af-corp/bridge-gateway/internal/config"
	"github.com/af-corp/bridge-gateway/internal/types"
)

const genericFollowUp = "Could you share more detail about what you're looking for?"

var questionWords = map[string]struct{}{
	"what": {}, "why": {}, "how": {}, "when": {}, "where": {}, "who": {},
	"which": {}, "whose": {}, "can": {}, "could": {}, "would": {},
	"should": {}, "is": {}, "are": {}, "do": {}, "does": {}, "did": {},
}

var imperativeWords = map[string]struct{}{
	"explain": {}, "describe": {}, "compare": {}, "summarize": {},
	"analyze": {}, "list": {}, "define": {}, "calculate": {}, "write": {},
	"suggest": {}, "recommend": {},
}

// Assessment is the outcome of a completeness check.
type Assessment struct {
	Score    float64
	Complete bool
	// FollowUp is set only when Complete is false: a single question
	// targeting the highest-priority missing context element.
	FollowUp string
}

// Analyzer checks prompt completeness against per-vibe requirements.
type Analyzer struct {
	requirements map[types.Vibe][]ContextElement
	cfg          func() config.AnalyzerConfig
}

func New(cfg func() config.AnalyzerConfig) *Analyzer {
	return &Analyzer{
		requirements: DefaultRequirements(),
		cfg:          cfg,
	}
}

// Analyze scores the prompt. Scores below the completeness threshold
// produce an incomplete assessment with a follow-up question.
func (a *Analyzer) Analyze(prompt string, vibe types.Vibe) Assessment {
	cfg := a.cfg()
	if !cfg.Enabled {
		return Assessment{Score: 1, Complete: true}
	}
	words := strings.Fields(prompt)

	if len(words) < cfg.MinWords {
		return Assessment{Score: 0.1, Complete: false, FollowUp: genericFollowUp}
	}

	score := 0.2
	if hasQuestionStructure(prompt, words) {
		score = 0.4
	}

	reqs := a.requirements[vibe]
	if len(reqs) == 0 {
		// Nothing structural to demand beyond minimum length.
		score = maxFloat(score, 0.75)
		return Assessment{Score: score, Complete: score >= cfg.CompletenessThreshold}
	}

	lower := strings.ToLower(prompt)
	var requiredTotal, requiredPresent int
	var firstMissing *ContextElement
	for i := range reqs {
		el := &reqs[i]
		present := containsAny(lower, el.Keywords)
		if el.Required {
			requiredTotal++
			if present {
				requiredPresent++
			} else if firstMissing == nil {
				firstMissing = el
			}
		} else if present {
			score += 0.05
		}
	}
	if requiredTotal > 0 {
		score += 0.5 * float64(requiredPresent) / float64(requiredTotal)
	}
	if score > 1.0 {
		score = 1.0
	}

	if score < cfg.CompletenessThreshold {
		followUp := genericFollowUp
		if firstMissing != nil {
			followUp = firstMissing.Question
		}
		return Assessment{Score: score, Complete: false, FollowUp: followUp}
	}
	return Assessment{Score: score, Complete: true}
}

func hasQuestionStructure(prompt string, words []string) bool {
	if strings.Contains(prompt, "?") {
		return true
	}
	first := strings.ToLower(strings.Trim(words[0], ".,!:;"))
	if _, ok := questionWords[first]; ok {
		return true
	}
	_, ok := imperativeWords[first]
	return ok
}

func containsAny(haystack string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
