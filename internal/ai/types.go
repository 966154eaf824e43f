package ai

// GenerationRequest carries a prompt and optional generation overrides.
// Nil overrides fall back to the adapter defaults.
type GenerationRequest struct {
	Prompt      string   `json:"prompt"`
	Temperature *float32 `json:"temperature,omitempty"`
	MaxTokens   *int     `json:"maxTokens,omitempty"`
}

// GenerationResponse carries the generated text and the provider-reported
// token usage. TokensUsed is zero when the provider does not report it.
type GenerationResponse struct {
	Content    string `json:"content"`
	TokensUsed int    `json:"tokensUsed,omitempty"`
}
