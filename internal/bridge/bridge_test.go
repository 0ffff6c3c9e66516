package bridge

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/af-corp/bridge-gateway/internal/analyzer"
	"github.com/af-corp/bridge-gateway/internal/cache"
	"github.com/af-corp/bridge-gateway/internal/classifier"
	"github.com/af-corp/bridge-gateway/internal/config"
	"github.com/af-corp/bridge-gateway/internal/evaluator"
	"github.com/af-corp/bridge-gateway/internal/gate"
	"github.com/af-corp/bridge-gateway/internal/router"
	"github.com/af-corp/bridge-gateway/internal/telemetry"
	"github.com/af-corp/bridge-gateway/internal/types"
)

// fakeCache is an in-memory QACache keyed by normalized prompt.
type fakeCache struct {
	entries map[string]*cache.Entry
	stored  []*cache.Entry
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string]*cache.Entry)}
}

func (f *fakeCache) Lookup(_ context.Context, prompt string) *cache.Hit {
	e, ok := f.entries[cache.Fingerprint(prompt)]
	if !ok {
		return nil
	}
	return &cache.Hit{Entry: e, Match: cache.MatchExact}
}

func (f *fakeCache) Store(_ context.Context, e *cache.Entry) {
	f.stored = append(f.stored, e)
	f.entries[cache.Fingerprint(e.Prompt)] = e
}

// fakeRouter delegates route planning and escalation guards to a real
// Router and fakes only the model invocation.
type fakeRouter struct {
	planner   *router.Router
	answers   map[types.Tier]string
	failures  map[types.Tier]error
	invokedOn []types.Tier
}

func newFakeRouter(t *testing.T) *fakeRouter {
	t.Helper()
	tiers := func() *config.TiersConfig {
		return &config.TiersConfig{Tiers: map[string]config.TierSettings{
			"tier1": {Provider: "openai", Model: "small-model", Upgradeable: true},
			"tier2": {Provider: "openai", Model: "mid-model", Upgradeable: true, AcceptsEscalation: true},
			"tier3": {Provider: "openai", Model: "large-model", AcceptsEscalation: true},
		}}
	}
	routing := func() config.RoutingConfig {
		return config.RoutingConfig{DefaultTimeout: time.Second, RetryBackoff: time.Millisecond}
	}
	return &fakeRouter{
		planner:  router.New(router.NewRegistry(), tiers, routing, router.NewHealthTracker(5, time.Second), slog.Default()),
		answers:  make(map[types.Tier]string),
		failures: make(map[types.Tier]error),
	}
}

func (f *fakeRouter) Plan(q *types.Query, c classifier.Complexity) (*router.Route, error) {
	return f.planner.Plan(q, c)
}

func (f *fakeRouter) CanEscalate(route *router.Route) bool {
	return f.planner.CanEscalate(route)
}

func (f *fakeRouter) Escalate(route *router.Route) error {
	return f.planner.Escalate(route)
}

func (f *fakeRouter) Invoke(_ context.Context, _ *types.Query, route *router.Route) (*types.ModelResponse, error) {
	f.invokedOn = append(f.invokedOn, route.Tier())
	if err, ok := f.failures[route.Tier()]; ok {
		return nil, err
	}
	return &types.ModelResponse{
		Text:  f.answers[route.Tier()],
		Model: route.Tier().String() + "-model",
	}, nil
}

const goodAnswer = "The answer depends on three well-understood factors, each of which " +
	"has been measured repeatedly since 1950. For example, the first factor alone " +
	"accounts for most of the observed effect in practice. [CONFIDENCE:0.92]"

const hedgedAnswer = "I'm not sure, it is hard to say. [CONFIDENCE:0.20]"

func newTestBridge(t *testing.T, fc *fakeCache, fr *fakeRouter) *Bridge {
	t.Helper()
	return New(
		gate.New(),
		fc,
		analyzer.New(func() config.AnalyzerConfig {
			return config.AnalyzerConfig{Enabled: true, MinWords: 3, CompletenessThreshold: 0.5}
		}),
		classifier.New(func() config.ClassifierConfig {
			return config.ClassifierConfig{LengthThreshold: 15}
		}, slog.Default()),
		fr,
		evaluator.New(func() config.EvaluatorConfig {
			return config.EvaluatorConfig{UpgradeThreshold: 0.7, OptimalMinWords: 20, OptimalMaxWords: 200}
		}, slog.Default()),
		telemetry.NewMetrics(),
		slog.Default(),
	)
}

func TestProcess_GateShortCircuit(t *testing.T) {
	fc := newFakeCache()
	fr := newFakeRouter(t)
	b := newTestBridge(t, fc, fr)

	resp, err := b.Process(context.Background(), &types.Query{RequestID: "r1", Prompt: "hey"})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if resp.Source != types.SourceBridge || resp.Intent != types.IntentCasualGreeting {
		t.Errorf("source = %v, intent = %v", resp.Source, resp.Intent)
	}
	if len(fr.invokedOn) != 0 {
		t.Error("gate answer must not reach a model")
	}
	if len(fc.stored) != 0 {
		t.Error("gate answers are never cached")
	}
}

func TestProcess_ModelAnswerThenCacheHit(t *testing.T) {
	fc := newFakeCache()
	fr := newFakeRouter(t)
	fr.answers[types.Tier1] = goodAnswer
	b := newTestBridge(t, fc, fr)

	q := types.Query{RequestID: "r1", Prompt: "what is the price of milk"}
	first, err := b.Process(context.Background(), &q)
	if err != nil {
		t.Fatalf("first Process: %v", err)
	}
	if first.Source != types.SourceTier1 {
		t.Errorf("source = %v, want TIER1", first.Source)
	}
	if first.FromCache {
		t.Error("first answer cannot come from cache")
	}
	if len(fc.stored) != 1 {
		t.Fatalf("stored %d entries, want 1", len(fc.stored))
	}

	q2 := types.Query{RequestID: "r2", Prompt: "What is the PRICE of milk?"}
	second, err := b.Process(context.Background(), &q2)
	if err != nil {
		t.Fatalf("second Process: %v", err)
	}
	if !second.FromCache || second.Source != types.SourceCache {
		t.Errorf("second answer: from_cache = %v, source = %v", second.FromCache, second.Source)
	}
	if second.Answer != first.Answer {
		t.Errorf("cached answer %q differs from original %q", second.Answer, first.Answer)
	}
	if len(fr.invokedOn) != 1 {
		t.Errorf("model invoked %d times, want 1", len(fr.invokedOn))
	}
}

func TestProcess_IncompletePromptAsksFollowUp(t *testing.T) {
	fc := newFakeCache()
	fr := newFakeRouter(t)
	b := newTestBridge(t, fc, fr)

	resp, err := b.Process(context.Background(), &types.Query{
		RequestID: "r1",
		Prompt:    "can you help me with my homework please",
		Vibe:      types.VibeAcademic,
	})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if !resp.NeedsMoreInfo {
		t.Fatal("expected needs_more_info")
	}
	if len(resp.FollowUps) != 1 {
		t.Fatalf("follow-ups = %v, want exactly one", resp.FollowUps)
	}
	if len(fr.invokedOn) != 0 {
		t.Error("incomplete prompt must not reach a model")
	}
	if len(fc.stored) != 0 {
		t.Error("follow-up answers are never cached")
	}
}

func TestProcess_SimpleQueryStartsAtTier1(t *testing.T) {
	fc := newFakeCache()
	fr := newFakeRouter(t)
	fr.answers[types.Tier1] = goodAnswer
	b := newTestBridge(t, fc, fr)

	resp, err := b.Process(context.Background(), &types.Query{
		RequestID: "r1",
		Prompt:    "what is the capital of France?",
	})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if resp.Source != types.SourceTier1 || resp.Escalated {
		t.Errorf("source = %v, escalated = %v", resp.Source, resp.Escalated)
	}
}

func TestProcess_ComplexQueryStartsAtTier2(t *testing.T) {
	fc := newFakeCache()
	fr := newFakeRouter(t)
	fr.answers[types.Tier2] = goodAnswer
	b := newTestBridge(t, fc, fr)

	resp, err := b.Process(context.Background(), &types.Query{
		RequestID: "r1",
		Prompt:    "Explain the primary causes of World War 1 in a way suitable for a university essay",
		Vibe:      types.VibeAcademic,
	})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if resp.Source != types.SourceTier2 {
		t.Errorf("source = %v, want TIER2", resp.Source)
	}
	if got := fr.invokedOn; len(got) != 1 || got[0] != types.Tier2 {
		t.Errorf("invoked on %v, want [tier2]", got)
	}
}

func TestProcess_EscalatesExactlyOnce(t *testing.T) {
	fc := newFakeCache()
	fr := newFakeRouter(t)
	fr.answers[types.Tier1] = hedgedAnswer
	fr.answers[types.Tier2] = hedgedAnswer // still weak, but no second escalation
	b := newTestBridge(t, fc, fr)

	resp, err := b.Process(context.Background(), &types.Query{
		RequestID: "r1",
		Prompt:    "what is the capital of France?",
	})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if !resp.Escalated || resp.Source != types.SourceTier2 {
		t.Errorf("escalated = %v, source = %v", resp.Escalated, resp.Source)
	}
	if got := fr.invokedOn; len(got) != 2 || got[0] != types.Tier1 || got[1] != types.Tier2 {
		t.Errorf("invoked on %v, want [tier1 tier2]", got)
	}
}

func TestProcess_GoodAnswerDoesNotEscalate(t *testing.T) {
	fc := newFakeCache()
	fr := newFakeRouter(t)
	fr.answers[types.Tier1] = goodAnswer
	b := newTestBridge(t, fc, fr)

	resp, err := b.Process(context.Background(), &types.Query{
		RequestID: "r1",
		Prompt:    "what is the capital of France?",
	})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if resp.Escalated {
		t.Error("high-scoring answer must not escalate")
	}
	if len(fr.invokedOn) != 1 {
		t.Errorf("invoked %d times, want 1", len(fr.invokedOn))
	}
}

func TestProcess_PinnedTierNeverEscalates(t *testing.T) {
	fc := newFakeCache()
	fr := newFakeRouter(t)
	fr.answers[types.Tier3] = hedgedAnswer
	b := newTestBridge(t, fc, fr)

	resp, err := b.Process(context.Background(), &types.Query{
		RequestID:     "r1",
		Prompt:        "what is the capital of France?",
		PreferredTier: "tier3",
	})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if resp.Source != types.SourceTier3 || resp.Escalated {
		t.Errorf("source = %v, escalated = %v", resp.Source, resp.Escalated)
	}
	if got := fr.invokedOn; len(got) != 1 || got[0] != types.Tier3 {
		t.Errorf("invoked on %v, want [tier3]", got)
	}
}

func TestProcess_InvalidTierPreference(t *testing.T) {
	fc := newFakeCache()
	fr := newFakeRouter(t)
	b := newTestBridge(t, fc, fr)

	_, err := b.Process(context.Background(), &types.Query{
		RequestID:     "r1",
		Prompt:        "what is the capital of France?",
		PreferredTier: "tier99",
	})
	if !errors.Is(err, router.ErrUnknownTier) {
		t.Fatalf("err = %v, want ErrUnknownTier", err)
	}
}

func TestProcess_ProviderFailureSurfaces(t *testing.T) {
	fc := newFakeCache()
	fr := newFakeRouter(t)
	fr.failures[types.Tier1] = &router.ProviderError{Provider: "openai", Tier: types.Tier1, Err: errors.New("boom")}
	b := newTestBridge(t, fc, fr)

	_, err := b.Process(context.Background(), &types.Query{
		RequestID: "r1",
		Prompt:    "what is the capital of France?",
	})
	var perr *router.ProviderError
	if !errors.As(err, &perr) {
		t.Fatalf("err = %v, want ProviderError", err)
	}
	if len(fc.stored) != 0 {
		t.Error("failed requests must not be cached")
	}
}

func TestProcess_EscalationFailureSurfacesNotFirstAnswer(t *testing.T) {
	fc := newFakeCache()
	fr := newFakeRouter(t)
	fr.answers[types.Tier1] = hedgedAnswer
	fr.failures[types.Tier2] = &router.ProviderError{Provider: "openai", Tier: types.Tier2, Err: errors.New("down")}
	b := newTestBridge(t, fc, fr)

	resp, err := b.Process(context.Background(), &types.Query{
		RequestID: "r1",
		Prompt:    "what is the capital of France?",
	})
	var perr *router.ProviderError
	if !errors.As(err, &perr) {
		t.Fatalf("err = %v, want ProviderError", err)
	}
	if resp != nil {
		t.Errorf("got response %+v, the rejected first answer must not be served", resp)
	}
}

func TestProcess_StripsConfidenceMarker(t *testing.T) {
	fc := newFakeCache()
	fr := newFakeRouter(t)
	fr.answers[types.Tier1] = goodAnswer
	b := newTestBridge(t, fc, fr)

	resp, err := b.Process(context.Background(), &types.Query{
		RequestID: "r1",
		Prompt:    "what is the capital of France?",
	})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if resp.Confidence == nil || *resp.Confidence != 0.92 {
		t.Errorf("confidence = %v, want 0.92", resp.Confidence)
	}
	for _, s := range []string{resp.Answer, fc.stored[0].Answer} {
		if len(s) == 0 || s[len(s)-1] == ']' {
			t.Errorf("marker not stripped: %q", s)
		}
	}
}
