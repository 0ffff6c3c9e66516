// Package classifier decides whether a query is simple or complex.
// The verdict drives the initial routing tier: simple queries start on
// the cheapest tier, complex queries skip straight to the mid tier.
package classifier

import (
	"log/slog"
	"strings"

	"github.com/af-corp/bridge-gateway/internal/config"
	"github.com/af-corp/bridge-gateway/internal/types"
)

// Complexity is the classifier verdict.
type Complexity int

const (
	Simple Complexity = iota
	Complex
)

func (c Complexity) String() string {
	if c == Complex {
		return "complex"
	}
	return "simple"
}

// Vote records how one signal contributed to the verdict.
type Vote struct {
	Signal string
	Bias   Bias
	Weight float64
}

// Result carries the verdict and the per-signal breakdown that
// produced it.
type Result struct {
	Complexity Complexity
	Score      float64
	Votes      []Vote
}

// Classifier evaluates queries against a versioned signal table.
type Classifier struct {
	rules RuleSet
	cfg   func() config.ClassifierConfig
	log   *slog.Logger
}

func New(cfg func() config.ClassifierConfig, log *slog.Logger) *Classifier {
	return &Classifier{rules: DefaultRuleSet(), cfg: cfg, log: log}
}

// Classify sums the weighted signal votes. Negative totals classify as
// simple; zero and positive totals classify as complex, so an even
// split routes upward rather than risking an undersized model.
func (c *Classifier) Classify(q *types.Query) Result {
	cfg := c.cfg()
	words := strings.Fields(q.Prompt)

	res := Result{Votes: make([]Vote, 0, len(c.rules.Signals))}
	for _, sig := range c.rules.Signals {
		bias := sig.Detect(q, words, cfg)
		if bias != BiasNeutral {
			res.Votes = append(res.Votes, Vote{Signal: sig.Name, Bias: bias, Weight: sig.Weight})
			res.Score += float64(bias) * sig.Weight
		}
	}

	if res.Score < 0 {
		res.Complexity = Simple
	} else {
		res.Complexity = Complex
	}

	c.log.Debug("classified query",
		slog.String("request_id", q.RequestID),
		slog.String("complexity", res.Complexity.String()),
		slog.Float64("score", res.Score),
		slog.String("ruleset", c.rules.Version),
	)
	return res
}
