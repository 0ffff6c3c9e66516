// Package gateway is the HTTP surface of the bridge: request parsing,
// validation, and error mapping around the query pipeline.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/af-corp/bridge-gateway/internal/auth"
	"github.com/af-corp/bridge-gateway/internal/config"
	"github.com/af-corp/bridge-gateway/internal/httputil"
	"github.com/af-corp/bridge-gateway/internal/router"
	"github.com/af-corp/bridge-gateway/internal/types"
)

const maxPromptBytes = 32 << 10

// Pipeline is the query-processing entry point the gateway fronts.
type Pipeline interface {
	Process(ctx context.Context, q *types.Query) (*types.BridgeResponse, error)
}

// Server handles the public HTTP API.
type Server struct {
	pipeline Pipeline
	tiers    func() *config.TiersConfig
	log      *slog.Logger
}

func NewServer(pipeline Pipeline, tiers func() *config.TiersConfig, log *slog.Logger) *Server {
	return &Server{pipeline: pipeline, tiers: tiers, log: log}
}

// Routes mounts the API routes. Auth and rate limiting are applied by
// the caller around this router.
func (s *Server) Routes(r chi.Router) {
	r.Post("/v1/query", s.handleQuery)
	r.Get("/v1/tiers", s.handleTiers)
}

type queryRequest struct {
	Prompt         string `json:"prompt"`
	Vibe           string `json:"vibe,omitempty"`
	NatureOfAnswer string `json:"nature_of_answer,omitempty"`
	Tier           string `json:"tier,omitempty"`
	ShowConfidence bool   `json:"show_confidence,omitempty"`
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	reqID := w.Header().Get("X-Request-ID")

	authInfo, ok := auth.AuthFromContext(r.Context())
	if !ok {
		httputil.WriteAuthError(w, reqID, "Missing authentication")
		return
	}

	var req queryRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxPromptBytes)).Decode(&req); err != nil {
		httputil.WriteBadRequestError(w, reqID, "Malformed request body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		httputil.WriteBadRequestError(w, reqID, "Field 'prompt' is required")
		return
	}
	if req.Tier != "" {
		if _, ok := types.ParseTier(req.Tier); !ok {
			httputil.WriteBadRequestError(w, reqID, "Unknown tier: "+req.Tier)
			return
		}
	}

	q := &types.Query{
		RequestID:      reqID,
		SenderID:       authInfo.SenderID,
		Prompt:         strings.TrimSpace(req.Prompt),
		Vibe:           types.ParseVibe(req.Vibe),
		NatureOfAnswer: types.Nature(req.NatureOfAnswer),
		PreferredTier:  req.Tier,
		ShowConfidence: req.ShowConfidence,
		ReceivedAt:     time.Now(),
	}

	resp, err := s.pipeline.Process(r.Context(), q)
	if err != nil {
		s.writeProcessError(w, reqID, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func (s *Server) writeProcessError(w http.ResponseWriter, reqID string, err error) {
	var perr *router.ProviderError
	switch {
	case errors.As(err, &perr):
		s.log.Error("provider failure",
			slog.String("request_id", reqID),
			slog.String("provider", perr.Provider),
			slog.String("tier", perr.Tier.String()),
			slog.Any("error", perr.Err),
		)
		httputil.WriteProviderError(w, reqID, "The backing model is currently unavailable. Please retry.")
	case errors.Is(err, router.ErrUnknownTier):
		httputil.WriteBadRequestError(w, reqID, err.Error())
	default:
		s.log.Error("pipeline failure", slog.String("request_id", reqID), slog.Any("error", err))
		httputil.WriteInternalError(w, reqID, "Internal error")
	}
}

type tierInfo struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Upgradeable bool   `json:"upgradeable"`
}

func (s *Server) handleTiers(w http.ResponseWriter, r *http.Request) {
	cfg := s.tiers()
	out := make([]tierInfo, 0, len(cfg.Tiers))
	for _, t := range []types.Tier{types.Tier1, types.Tier2, types.Tier3} {
		if settings, ok := cfg.ForTier(t.String()); ok {
			out = append(out, tierInfo{
				Name:        t.String(),
				DisplayName: settings.DisplayName,
				Upgradeable: settings.Upgradeable,
			})
		}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"tiers": out})
}

// HandleHealth reports process liveness. Mounted outside auth.
func HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
