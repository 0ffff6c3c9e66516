// Package evaluator scores model answers and decides whether a query
// deserves a second attempt on a stronger tier.
package evaluator

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/af-corp/bridge-gateway/internal/config"
)

// Component weights. Content carries the most: a hedged non-answer
// should escalate even when it is well-sized and specific.
const (
	weightContent     = 0.40
	weightLength      = 0.20
	weightSpecificity = 0.20
	weightConfidence  = 0.20
)

// neutralConfidence is used when the model emitted no marker: an
// unknown confidence must not drag the score down the way an explicit
// low confidence does.
const neutralConfidence = 0.5

var hedgePhrases = []string{
	"i don't know",
	"i do not know",
	"i'm not sure",
	"i am not sure",
	"i cannot answer",
	"i can't answer",
	"i'm unable to",
	"i am unable to",
	"as an ai",
	"i don't have enough information",
	"it is difficult to say",
	"hard to say",
}

var specificityMarkers = []string{
	"for example",
	"for instance",
	"specifically",
	"such as",
	"in particular",
	"step 1",
	"first,",
}

var digitRe = regexp.MustCompile(`\d`)

// Evaluation is the scored view of one model answer.
type Evaluation struct {
	// Answer is the model output with the confidence marker stripped.
	Answer string
	// Confidence is the parsed marker value; nil when absent.
	Confidence *float64
	Score      float64
}

// Evaluator scores answers against configured thresholds.
type Evaluator struct {
	cfg func() config.EvaluatorConfig
	log *slog.Logger
}

func New(cfg func() config.EvaluatorConfig, log *slog.Logger) *Evaluator {
	return &Evaluator{cfg: cfg, log: log}
}

// Evaluate strips the confidence marker and computes the weighted
// quality score for raw model output.
func (e *Evaluator) Evaluate(requestID, raw string) Evaluation {
	cfg := e.cfg()
	answer, conf := ExtractConfidence(raw)

	confComponent := neutralConfidence
	if conf != nil {
		confComponent = *conf
	}

	score := weightContent*contentScore(answer) +
		weightLength*lengthScore(answer, cfg.OptimalMinWords, cfg.OptimalMaxWords) +
		weightSpecificity*specificityScore(answer) +
		weightConfidence*confComponent

	e.log.Debug("evaluated answer",
		slog.String("request_id", requestID),
		slog.Float64("score", score),
		slog.Bool("confidence_present", conf != nil),
	)
	return Evaluation{Answer: answer, Confidence: conf, Score: score}
}

// ShouldEscalate reports whether the score falls below the upgrade
// threshold. Routing-level guards (pinned tier, prior escalation,
// non-upgradeable tier) are the router's business, not the evaluator's.
func (e *Evaluator) ShouldEscalate(ev Evaluation) bool {
	return ev.Score < e.cfg().UpgradeThreshold
}

func contentScore(answer string) float64 {
	if strings.TrimSpace(answer) == "" {
		return 0
	}
	lower := strings.ToLower(answer)
	score := 1.0
	for _, h := range hedgePhrases {
		if strings.Contains(lower, h) {
			score -= 0.4
		}
	}
	if score < 0 {
		return 0
	}
	return score
}

// lengthScore is 1.0 inside the optimal band and decays linearly
// toward the edges outside it.
func lengthScore(answer string, minWords, maxWords int) float64 {
	n := len(strings.Fields(answer))
	switch {
	case n == 0:
		return 0
	case n >= minWords && n <= maxWords:
		return 1.0
	case n < minWords:
		return float64(n) / float64(minWords)
	default:
		over := float64(n-maxWords) / float64(maxWords)
		if over >= 1 {
			return 0.5
		}
		return 1.0 - 0.5*over
	}
}

func specificityScore(answer string) float64 {
	lower := strings.ToLower(answer)
	score := 0.4
	if digitRe.MatchString(answer) {
		score += 0.3
	}
	for _, m := range specificityMarkers {
		if strings.Contains(lower, m) {
			score += 0.3
			break
		}
	}
	if score > 1.0 {
		return 1.0
	}
	return score
}
