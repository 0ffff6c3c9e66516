package router

import (
	"strings"

	"github.com/af-corp/bridge-gateway/internal/types"
)

// Per-tier system prompt bases. Cheaper tiers are steered toward short
// direct answers so that simple lookups stay cheap; the top tier is
// given license to reason at length.
var tierPrompts = map[types.Tier]string{
	types.Tier1: "You are a helpful assistant. Answer directly and concisely. " +
		"Do not pad the answer with caveats or restate the question.",
	types.Tier2: "You are a knowledgeable assistant. Give a clear, well-structured " +
		"answer with enough context to be genuinely useful.",
	types.Tier3: "You are an expert assistant. Reason carefully and give a thorough, " +
		"rigorous answer. Surface assumptions and edge cases where they matter.",
}

var vibePrompts = map[types.Vibe]string{
	types.VibeAcademic:     "The question is academic. Use precise terminology and cite established results where relevant.",
	types.VibeProfessional: "The question is professional. Keep the tone businesslike and focus on actionable guidance.",
	types.VibeTechnical:    "The question is technical. Be exact, prefer concrete examples, and include code where it helps.",
	types.VibeCreative:     "The question is creative. Favor originality and vivid expression over formality.",
	types.VibeCasual:       "Keep the tone friendly and conversational.",
}

var naturePrompts = map[types.Nature]string{
	types.NatureConcise:    "Keep the answer as short as correctness allows.",
	types.NatureDetailed:   "Give a detailed answer that covers the topic fully.",
	types.NatureStepByStep: "Structure the answer as numbered steps.",
}

const confidenceInstruction = "After your answer, on the final line, state your confidence " +
	"in the answer as a marker of the exact form [CONFIDENCE:X.XX] where X.XX is a value " +
	"between 0.00 and 1.00."

// RenderSystemPrompt builds the system prompt for a query at a given
// tier. The confidence marker is always requested; the evaluator needs
// it to score the answer, and it is stripped before the answer leaves
// the pipeline.
func RenderSystemPrompt(q *types.Query, tier types.Tier) string {
	parts := make([]string, 0, 4)
	parts = append(parts, tierPrompts[tier])
	if p, ok := vibePrompts[q.Vibe]; ok {
		parts = append(parts, p)
	}
	if p, ok := naturePrompts[q.NatureOfAnswer]; ok {
		parts = append(parts, p)
	}
	parts = append(parts, confidenceInstruction)
	return strings.Join(parts, " ")
}
