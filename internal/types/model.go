package types

// ModelRequest is the canonical form of a single model invocation. The
// provider adapters translate it into provider wire formats.
type ModelRequest struct {
	Model       string
	System      string
	Prompt      string
	MaxTokens   int
	Temperature float64
}

// ModelResponse is the canonical result of a model invocation. Text is
// the raw completion, including any confidence marker the model was
// instructed to append; the evaluator strips markers later.
type ModelResponse struct {
	Text     string
	Model    string
	Provider string
	Usage    Usage
}

// Usage reports token accounting as returned by the provider.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}
