// Package output assembles the final structured response for every
// terminal pipeline path. The assembler is pure: cache write-through
// and logging stay with the orchestrator.
package output

import (
	"github.com/af-corp/bridge-gateway/internal/cache"
	"github.com/af-corp/bridge-gateway/internal/evaluator"
	"github.com/af-corp/bridge-gateway/internal/gate"
	"github.com/af-corp/bridge-gateway/internal/types"
)

// Gate builds the response for a gate short-circuit: canned replies,
// evaluated math expressions, language rejections.
func Gate(q *types.Query, res *gate.Result) *types.BridgeResponse {
	return &types.BridgeResponse{
		RequestID: q.RequestID,
		Answer:    res.Answer,
		Source:    types.SourceBridge,
		Intent:    res.Intent,
		Vibe:      q.Vibe,
	}
}

// CacheHit builds the response for an exact or semantic cache hit.
func CacheHit(q *types.Query, hit *cache.Hit) *types.BridgeResponse {
	resp := &types.BridgeResponse{
		RequestID:       q.RequestID,
		Answer:          hit.Entry.Answer,
		Source:          types.SourceCache,
		Model:           hit.Entry.Model,
		FromCache:       true,
		CacheMatch:      string(hit.Match),
		CacheSimilarity: hit.Similarity,
		Vibe:            q.Vibe,
	}
	if hit.Entry.Confidence != nil {
		c := *hit.Entry.Confidence
		resp.Confidence = &c
	}
	return resp
}

// NeedsMoreInfo builds the response for an incomplete prompt. The
// follow-up question replaces the answer: the caller is expected to
// resubmit with the missing context.
func NeedsMoreInfo(q *types.Query, followUp string) *types.BridgeResponse {
	return &types.BridgeResponse{
		RequestID:     q.RequestID,
		Answer:        followUp,
		Source:        types.SourceBridge,
		NeedsMoreInfo: true,
		FollowUps:     []string{followUp},
		Vibe:          q.Vibe,
	}
}

// Model builds the response for an answer produced by a backing model.
// The confidence marker is exposed in the answer text only when the
// caller asked for it; the structured field is always populated when
// the model reported one.
func Model(q *types.Query, tier types.Tier, modelName string, ev evaluator.Evaluation, escalated bool) *types.BridgeResponse {
	answer := ev.Answer
	if q.ShowConfidence && ev.Confidence != nil {
		answer = answer + " " + evaluator.FormatConfidence(*ev.Confidence)
	}
	return &types.BridgeResponse{
		RequestID:  q.RequestID,
		Answer:     answer,
		Source:     types.TierSource(tier),
		Model:      modelName,
		Confidence: ev.Confidence,
		Escalated:  escalated,
		FollowUps:  Suggestions(ev.Answer),
		Vibe:       q.Vibe,
	}
}
