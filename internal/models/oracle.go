package models

// Oracle message roles.
const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// OracleMessage is one role-tagged message sent to the oracle.
type OracleMessage struct {
	Role    string
	Content string
}

// OracleRequest is a provider-neutral generation request.
// Temperature is nil when the model family rejects sampling parameters.
// Reasoning marks the reasoning-only family, whose providers take the
// output budget under a different parameter name.
type OracleRequest struct {
	Model           string
	Messages        []OracleMessage
	Temperature     *float64
	MaxOutputTokens int
	Reasoning       bool
}

// TokenUsage reports token counts for one oracle call.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Add returns the sum of two usages.
func (u TokenUsage) Add(o TokenUsage) TokenUsage {
	return TokenUsage{
		PromptTokens:     u.PromptTokens + o.PromptTokens,
		CompletionTokens: u.CompletionTokens + o.CompletionTokens,
		TotalTokens:      u.TotalTokens + o.TotalTokens,
	}
}

// OracleResponse is the generated text plus usage.
type OracleResponse struct {
	Text  string
	Usage TokenUsage
}
