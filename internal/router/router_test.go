package router

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/af-corp/bridge-gateway/internal/classifier"
	"github.com/af-corp/bridge-gateway/internal/config"
	"github.com/af-corp/bridge-gateway/internal/router/adapters"
	"github.com/af-corp/bridge-gateway/internal/types"
)

func testTiers(upgradeable1, upgradeable2 bool) func() *config.TiersConfig {
	return func() *config.TiersConfig {
		return &config.TiersConfig{Tiers: map[string]config.TierSettings{
			"tier1": {Provider: "openai", Model: "small-model", MaxTokens: 512, Upgradeable: upgradeable1},
			"tier2": {Provider: "openai", Model: "mid-model", MaxTokens: 1024, Upgradeable: upgradeable2, AcceptsEscalation: true},
			"tier3": {Provider: "openai", Model: "large-model", MaxTokens: 4096, AcceptsEscalation: true},
		}}
	}
}

func testRouting() func() config.RoutingConfig {
	return func() config.RoutingConfig {
		return config.RoutingConfig{
			DefaultTimeout: 2 * time.Second,
			RetryBackoff:   time.Millisecond,
		}
	}
}

func testRouter(registry *Registry) *Router {
	return New(registry, testTiers(true, true), testRouting(),
		NewHealthTracker(5, time.Second), slog.Default())
}

func openAIRegistry(baseURL string) *Registry {
	registry := NewRegistry()
	cfg := config.ProviderConfig{Type: "openai", BaseURL: baseURL, APIKey: "test-key"}
	registry.Register("openai", adapters.NewOpenAIAdapter(cfg, &http.Client{}))
	return registry
}

func TestPlan(t *testing.T) {
	rt := testRouter(NewRegistry())

	tests := []struct {
		name       string
		query      types.Query
		complexity classifier.Complexity
		wantTier   types.Tier
		wantPinned bool
	}{
		{"simple starts at tier1", types.Query{}, classifier.Simple, types.Tier1, false},
		{"complex starts at tier2", types.Query{}, classifier.Complex, types.Tier2, false},
		{"preference overrides simple", types.Query{PreferredTier: "tier3"}, classifier.Simple, types.Tier3, true},
		{"preference overrides complex", types.Query{PreferredTier: "tier1"}, classifier.Complex, types.Tier1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			route, err := rt.Plan(&tt.query, tt.complexity)
			if err != nil {
				t.Fatalf("Plan: %v", err)
			}
			if route.Tier() != tt.wantTier {
				t.Errorf("tier = %v, want %v", route.Tier(), tt.wantTier)
			}
			if route.Pinned() != tt.wantPinned {
				t.Errorf("pinned = %v, want %v", route.Pinned(), tt.wantPinned)
			}
		})
	}
}

func TestPlan_InvalidPreference(t *testing.T) {
	rt := testRouter(NewRegistry())

	_, err := rt.Plan(&types.Query{PreferredTier: "tier9"}, classifier.Simple)
	if !errors.Is(err, ErrUnknownTier) {
		t.Fatalf("err = %v, want ErrUnknownTier", err)
	}
}

func TestEscalate(t *testing.T) {
	rt := testRouter(NewRegistry())

	route := &Route{tier: types.Tier1}
	if err := rt.Escalate(route); err != nil {
		t.Fatalf("Escalate: %v", err)
	}
	if route.Tier() != types.Tier2 {
		t.Errorf("tier = %v, want tier2", route.Tier())
	}
	if !route.Escalated() {
		t.Error("route should be marked escalated")
	}
}

func TestEscalate_OnlyOnce(t *testing.T) {
	rt := testRouter(NewRegistry())

	route := &Route{tier: types.Tier1}
	if err := rt.Escalate(route); err != nil {
		t.Fatalf("first escalation: %v", err)
	}
	if err := rt.Escalate(route); !errors.Is(err, ErrAlreadyEscalated) {
		t.Fatalf("second escalation err = %v, want ErrAlreadyEscalated", err)
	}
	if route.Tier() != types.Tier2 {
		t.Errorf("tier moved past tier2: %v", route.Tier())
	}
}

func TestEscalate_PinnedRoute(t *testing.T) {
	rt := testRouter(NewRegistry())

	route := &Route{tier: types.Tier1, pinned: true}
	if err := rt.Escalate(route); !errors.Is(err, ErrTierPinned) {
		t.Fatalf("err = %v, want ErrTierPinned", err)
	}
	if rt.CanEscalate(route) {
		t.Error("CanEscalate should be false for a pinned route")
	}
}

func TestEscalate_NotUpgradeable(t *testing.T) {
	rt := New(NewRegistry(), testTiers(false, false), testRouting(),
		NewHealthTracker(5, time.Second), slog.Default())

	route := &Route{tier: types.Tier1}
	if err := rt.Escalate(route); !errors.Is(err, ErrNotUpgradeable) {
		t.Fatalf("err = %v, want ErrNotUpgradeable", err)
	}
}

func TestEscalate_NextTierNotAccepting(t *testing.T) {
	rt := New(NewRegistry(), func() *config.TiersConfig {
		return &config.TiersConfig{Tiers: map[string]config.TierSettings{
			"tier1": {Provider: "openai", Model: "small-model", Upgradeable: true},
			"tier2": {Provider: "openai", Model: "mid-model", Upgradeable: true},
		}}
	}, testRouting(), NewHealthTracker(5, time.Second), slog.Default())

	route := &Route{tier: types.Tier1}
	if err := rt.Escalate(route); !errors.Is(err, ErrTierNotAccepting) {
		t.Fatalf("err = %v, want ErrTierNotAccepting", err)
	}
	if route.Tier() != types.Tier1 {
		t.Errorf("route moved to %v despite refusal", route.Tier())
	}
	if rt.CanEscalate(route) {
		t.Error("CanEscalate should be false when the next tier refuses escalation")
	}
}

func TestEscalate_AtHighestTier(t *testing.T) {
	rt := New(NewRegistry(), func() *config.TiersConfig {
		return &config.TiersConfig{Tiers: map[string]config.TierSettings{
			"tier3": {Provider: "openai", Model: "large-model", Upgradeable: true},
		}}
	}, testRouting(), NewHealthTracker(5, time.Second), slog.Default())

	route := &Route{tier: types.Tier3}
	if err := rt.Escalate(route); !errors.Is(err, ErrAtHighestTier) {
		t.Fatalf("err = %v, want ErrAtHighestTier", err)
	}
}

func openAIResponse(model, text string) string {
	return `{"model":"` + model + `","choices":[{"index":0,"message":{"role":"assistant","content":"` + text + `"},"finish_reason":"stop"}],"usage":{"prompt_tokens":10,"completion_tokens":5,"total_tokens":15}}`
}

func TestInvoke(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(openAIResponse("small-model", "Paris. [CONFIDENCE:0.95]")))
	}))
	defer srv.Close()

	rt := testRouter(openAIRegistry(srv.URL))
	resp, err := rt.Invoke(context.Background(), &types.Query{Prompt: "capital of France?"}, &Route{tier: types.Tier1})
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if resp.Text != "Paris. [CONFIDENCE:0.95]" {
		t.Errorf("text = %q", resp.Text)
	}
	if resp.Model != "small-model" {
		t.Errorf("model = %q", resp.Model)
	}
}

func TestInvoke_RetriesOnce(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(openAIResponse("small-model", "recovered")))
	}))
	defer srv.Close()

	rt := testRouter(openAIRegistry(srv.URL))
	resp, err := rt.Invoke(context.Background(), &types.Query{Prompt: "hello world question"}, &Route{tier: types.Tier1})
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if resp.Text != "recovered" {
		t.Errorf("text = %q", resp.Text)
	}
	if got := calls.Load(); got != 2 {
		t.Errorf("calls = %d, want 2", got)
	}
}

func TestInvoke_ExhaustedRetriesSurfaceProviderError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	rt := testRouter(openAIRegistry(srv.URL))
	_, err := rt.Invoke(context.Background(), &types.Query{Prompt: "doomed"}, &Route{tier: types.Tier1})

	var perr *ProviderError
	if !errors.As(err, &perr) {
		t.Fatalf("err = %v, want ProviderError", err)
	}
	if perr.Provider != "openai" || perr.Tier != types.Tier1 {
		t.Errorf("ProviderError = %+v", perr)
	}
	if got := calls.Load(); got != 2 {
		t.Errorf("calls = %d, want 2 (one retry)", got)
	}
}

func TestInvoke_OpenCircuitBlocksRequests(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	health := NewHealthTracker(1, time.Hour)
	health.RecordFailure("openai")

	rt := New(openAIRegistry(srv.URL), testTiers(true, true), testRouting(), health, slog.Default())
	_, err := rt.Invoke(context.Background(), &types.Query{Prompt: "blocked"}, &Route{tier: types.Tier1})

	var perr *ProviderError
	if !errors.As(err, &perr) {
		t.Fatalf("err = %v, want ProviderError", err)
	}
	if got := calls.Load(); got != 0 {
		t.Errorf("provider was called %d times behind an open circuit", got)
	}
}

func TestRenderSystemPrompt(t *testing.T) {
	q := &types.Query{
		Prompt:         "how do transformers work",
		Vibe:           types.VibeTechnical,
		NatureOfAnswer: types.NatureStepByStep,
	}

	p1 := RenderSystemPrompt(q, types.Tier1)
	p3 := RenderSystemPrompt(q, types.Tier3)
	if p1 == p3 {
		t.Error("tier1 and tier3 prompts should differ")
	}
	for _, p := range []string{p1, p3} {
		for _, want := range []string{"[CONFIDENCE:", "numbered steps", "technical"} {
			if !strings.Contains(p, want) {
				t.Errorf("prompt missing %q: %q", want, p)
			}
		}
	}
}
