// Package router selects a model tier for each query and invokes the
// backing provider. Tiers form a strict order; a route may move up the
// order exactly once, and only when the evaluator asks for it.
package router

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/af-corp/bridge-gateway/internal/classifier"
	"github.com/af-corp/bridge-gateway/internal/config"
	"github.com/af-corp/bridge-gateway/internal/router/adapters"
	"github.com/af-corp/bridge-gateway/internal/types"
)

var (
	ErrUnknownTier      = errors.New("router: unknown tier")
	ErrTierPinned       = errors.New("router: tier pinned by caller preference")
	ErrAlreadyEscalated = errors.New("router: route already escalated once")
	ErrNotUpgradeable   = errors.New("router: tier is not upgradeable")
	ErrAtHighestTier    = errors.New("router: no higher tier available")
	ErrTierNotAccepting = errors.New("router: next tier does not accept escalation")
)

// ProviderError reports a failure talking to a backing model provider
// after retries were exhausted.
type ProviderError struct {
	Provider string
	Tier     types.Tier
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s (%s): %v", e.Provider, e.Tier, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// Route tracks the routing state of one query. It starts at the tier
// chosen from the caller's preference or the complexity verdict, and
// may escalate to the next tier at most once.
type Route struct {
	tier      types.Tier
	pinned    bool
	escalated bool
}

func (r *Route) Tier() types.Tier { return r.tier }
func (r *Route) Escalated() bool  { return r.escalated }
func (r *Route) Pinned() bool     { return r.pinned }

// Router resolves tiers to providers and drives model invocations.
type Router struct {
	registry *Registry
	tiers    func() *config.TiersConfig
	routing  func() config.RoutingConfig
	health   *HealthTracker
	log      *slog.Logger
}

func New(registry *Registry, tiers func() *config.TiersConfig, routing func() config.RoutingConfig, health *HealthTracker, log *slog.Logger) *Router {
	return &Router{
		registry: registry,
		tiers:    tiers,
		routing:  routing,
		health:   health,
		log:      log,
	}
}

// Plan chooses the initial tier. An explicit caller preference always
// wins and pins the route against escalation; otherwise simple queries
// start on the cheapest tier and complex queries on the mid tier.
func (rt *Router) Plan(q *types.Query, complexity classifier.Complexity) (*Route, error) {
	if q.PreferredTier != "" {
		tier, ok := types.ParseTier(q.PreferredTier)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownTier, q.PreferredTier)
		}
		return &Route{tier: tier, pinned: true}, nil
	}
	if complexity == classifier.Complex {
		return &Route{tier: types.Tier2}, nil
	}
	return &Route{tier: types.Tier1}, nil
}

// Escalate moves the route one tier up. It refuses when the route is
// pinned, has already escalated, sits at the top tier, the current tier
// is configured non-upgradeable, or the next tier does not accept
// escalated traffic.
func (rt *Router) Escalate(route *Route) error {
	if route.pinned {
		return ErrTierPinned
	}
	if route.escalated {
		return ErrAlreadyEscalated
	}
	settings, ok := rt.tiers().ForTier(route.tier.String())
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTier, route.tier)
	}
	if !settings.Upgradeable {
		return ErrNotUpgradeable
	}
	next, ok := route.tier.Next()
	if !ok {
		return ErrAtHighestTier
	}
	nextSettings, ok := rt.tiers().ForTier(next.String())
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTier, next)
	}
	if !nextSettings.AcceptsEscalation {
		return fmt.Errorf("%w: %s", ErrTierNotAccepting, next)
	}
	route.tier = next
	route.escalated = true
	return nil
}

// CanEscalate reports whether Escalate would succeed for this route.
func (rt *Router) CanEscalate(route *Route) bool {
	if route.pinned || route.escalated {
		return false
	}
	settings, ok := rt.tiers().ForTier(route.tier.String())
	if !ok || !settings.Upgradeable {
		return false
	}
	next, ok := route.tier.Next()
	if !ok {
		return false
	}
	nextSettings, ok := rt.tiers().ForTier(next.String())
	return ok && nextSettings.AcceptsEscalation
}

// Invoke sends the query to the route's current tier. A failed call is
// retried once after a backoff; a second failure opens the provider's
// failure accounting and surfaces as a ProviderError.
func (rt *Router) Invoke(ctx context.Context, q *types.Query, route *Route) (*types.ModelResponse, error) {
	settings, ok := rt.tiers().ForTier(route.tier.String())
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTier, route.tier)
	}
	adapter, ok := rt.registry.Get(settings.Provider)
	if !ok {
		return nil, &ProviderError{
			Provider: settings.Provider,
			Tier:     route.tier,
			Err:      errors.New("no adapter registered"),
		}
	}

	if !rt.health.IsAvailable(settings.Provider) {
		return nil, &ProviderError{
			Provider: settings.Provider,
			Tier:     route.tier,
			Err:      errors.New("circuit open"),
		}
	}

	routing := rt.routing()
	timeout := settings.Timeout
	if timeout == 0 {
		timeout = routing.DefaultTimeout
	}

	req := &types.ModelRequest{
		Model:       settings.Model,
		System:      RenderSystemPrompt(q, route.tier),
		Prompt:      q.Prompt,
		MaxTokens:   settings.MaxTokens,
		Temperature: settings.Temperature,
	}

	resp, err := rt.invokeOnce(ctx, adapter, req, timeout)
	if err != nil {
		rt.log.Warn("model invocation failed, retrying",
			slog.String("request_id", q.RequestID),
			slog.String("provider", settings.Provider),
			slog.String("tier", route.tier.String()),
			slog.Any("error", err),
		)
		select {
		case <-ctx.Done():
			rt.health.RecordFailure(settings.Provider)
			return nil, &ProviderError{Provider: settings.Provider, Tier: route.tier, Err: ctx.Err()}
		case <-time.After(routing.RetryBackoff):
		}
		resp, err = rt.invokeOnce(ctx, adapter, req, timeout)
	}
	if err != nil {
		rt.health.RecordFailure(settings.Provider)
		return nil, &ProviderError{Provider: settings.Provider, Tier: route.tier, Err: err}
	}

	rt.health.RecordSuccess(settings.Provider)
	return resp, nil
}

func (rt *Router) invokeOnce(ctx context.Context, adapter adapters.ProviderAdapter, req *types.ModelRequest, timeout time.Duration) (*types.ModelResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	httpReq, err := adapter.TransformRequest(ctx, req)
	if err != nil {
		return nil, err
	}
	httpResp, err := adapter.SendRequest(httpReq)
	if err != nil {
		return nil, err
	}
	return adapter.TransformResponse(httpResp)
}
