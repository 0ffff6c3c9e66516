// Package bridge orchestrates the query pipeline: gate, cache lookup,
// completeness analysis, complexity classification, model routing,
// answer evaluation with a single optional escalation, and response
// assembly.
package bridge

import (
	"context"
	"log/slog"
	"time"

	"github.com/af-corp/bridge-gateway/internal/analyzer"
	"github.com/af-corp/bridge-gateway/internal/cache"
	"github.com/af-corp/bridge-gateway/internal/classifier"
	"github.com/af-corp/bridge-gateway/internal/evaluator"
	"github.com/af-corp/bridge-gateway/internal/gate"
	"github.com/af-corp/bridge-gateway/internal/output"
	"github.com/af-corp/bridge-gateway/internal/router"
	"github.com/af-corp/bridge-gateway/internal/telemetry"
	"github.com/af-corp/bridge-gateway/internal/types"
)

// Gater answers trivial queries without touching cache or models.
type Gater interface {
	Check(prompt string) *gate.Result
}

// QACache is the answer cache consulted before routing and written
// through after a fresh model answer.
type QACache interface {
	Lookup(ctx context.Context, prompt string) *cache.Hit
	Store(ctx context.Context, e *cache.Entry)
}

// Analyzer scores prompt completeness.
type Analyzer interface {
	Analyze(prompt string, vibe types.Vibe) analyzer.Assessment
}

// Classifier produces the complexity verdict.
type Classifier interface {
	Classify(q *types.Query) classifier.Result
}

// Router plans routes, invokes model tiers, and guards escalation.
type Router interface {
	Plan(q *types.Query, complexity classifier.Complexity) (*router.Route, error)
	Invoke(ctx context.Context, q *types.Query, route *router.Route) (*types.ModelResponse, error)
	CanEscalate(route *router.Route) bool
	Escalate(route *router.Route) error
}

// Evaluator scores model answers and triggers escalation.
type Evaluator interface {
	Evaluate(requestID, raw string) evaluator.Evaluation
	ShouldEscalate(ev evaluator.Evaluation) bool
}

// Bridge is the pipeline orchestrator. One instance serves all
// requests; every stage it holds is safe for concurrent use.
type Bridge struct {
	gate       Gater
	cache      QACache
	analyzer   Analyzer
	classifier Classifier
	router     Router
	evaluator  Evaluator
	metrics    *telemetry.Metrics
	log        *slog.Logger
}

func New(
	g Gater,
	c QACache,
	a Analyzer,
	cl Classifier,
	r Router,
	e Evaluator,
	metrics *telemetry.Metrics,
	log *slog.Logger,
) *Bridge {
	return &Bridge{
		gate:       g,
		cache:      c,
		analyzer:   a,
		classifier: cl,
		router:     r,
		evaluator:  e,
		metrics:    metrics,
		log:        log,
	}
}

// Process runs one query through the pipeline. Identical queries take
// identical paths: every stage is deterministic given the same
// configuration and cache state. The only error Process returns is a
// provider failure; every other outcome is a well-formed response.
func (b *Bridge) Process(ctx context.Context, q *types.Query) (*types.BridgeResponse, error) {
	start := time.Now()
	log := b.log.With(
		slog.String("request_id", q.RequestID),
		slog.String("sender_id", q.SenderID),
	)

	// Stage 1: gate. Gate answers are terminal and never cached.
	if res := b.gate.Check(q.Prompt); res != nil {
		log.Info("gate short-circuit", slog.String("intent", string(res.Intent)))
		b.metrics.RecordGateShortCircuit(string(res.Intent))
		b.observe(q, types.SourceBridge, start)
		return output.Gate(q, res), nil
	}

	// Stage 2: cache lookup.
	if hit := b.cache.Lookup(ctx, q.Prompt); hit != nil {
		log.Info("cache hit",
			slog.String("match", string(hit.Match)),
			slog.Float64("similarity", hit.Similarity),
		)
		b.metrics.RecordCacheLookup(string(hit.Match))
		b.observe(q, types.SourceCache, start)
		return output.CacheHit(q, hit), nil
	}
	b.metrics.RecordCacheLookup("miss")

	// Stage 3: completeness. Incomplete prompts terminate with a
	// follow-up question instead of a model call.
	if assessment := b.analyzer.Analyze(q.Prompt, q.Vibe); !assessment.Complete {
		log.Info("prompt incomplete",
			slog.Float64("completeness", assessment.Score),
		)
		b.observe(q, types.SourceBridge, start)
		return output.NeedsMoreInfo(q, assessment.FollowUp), nil
	}

	// Stage 4: classification and route planning.
	verdict := b.classifier.Classify(q)
	route, err := b.router.Plan(q, verdict.Complexity)
	if err != nil {
		return nil, err
	}

	// Stage 5: invoke, evaluate, escalate at most once.
	resp, err := b.router.Invoke(ctx, q, route)
	if err != nil {
		b.metrics.RecordProviderFailure(route.Tier().String())
		return nil, err
	}
	ev := b.evaluator.Evaluate(q.RequestID, resp.Text)

	if b.evaluator.ShouldEscalate(ev) && b.router.CanEscalate(route) {
		fromTier := route.Tier()
		if err := b.router.Escalate(route); err != nil {
			// CanEscalate raced a config reload; keep the first answer.
			log.Warn("escalation refused", slog.Any("error", err))
		} else {
			log.Info("escalating",
				slog.String("from", fromTier.String()),
				slog.String("to", route.Tier().String()),
				slog.Float64("score", ev.Score),
			)
			b.metrics.RecordEscalation(fromTier.String(), route.Tier().String())

			// The first answer was already judged inadequate. A failure
			// here is a failure of the whole request, not a reason to
			// serve the rejected answer.
			resp, err = b.router.Invoke(ctx, q, route)
			if err != nil {
				b.metrics.RecordProviderFailure(route.Tier().String())
				return nil, err
			}
			ev = b.evaluator.Evaluate(q.RequestID, resp.Text)
		}
	}

	// Stage 6: write through and assemble.
	b.storeAnswer(ctx, q, resp, ev)
	b.observe(q, types.TierSource(route.Tier()), start)
	return output.Model(q, route.Tier(), resp.Model, ev, route.Escalated()), nil
}

func (b *Bridge) storeAnswer(ctx context.Context, q *types.Query, resp *types.ModelResponse, ev evaluator.Evaluation) {
	entry := &cache.Entry{
		Prompt:     q.Prompt,
		Answer:     ev.Answer,
		Model:      resp.Model,
		Confidence: ev.Confidence,
	}
	b.cache.Store(ctx, entry)
}

func (b *Bridge) observe(q *types.Query, source types.AnswerSource, start time.Time) {
	b.metrics.RecordRequest(string(source), string(q.Vibe), time.Since(start))
}
