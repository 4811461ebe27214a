// Package oracle selects the request shape for a model.
// Two shapes exist and the choice depends only on the model name.
package oracle

import (
	"strings"

	"github.com/example/factkeeper/internal/models"
)

// Output budgets per request kind.
const (
	EditMaxTokens       = 4000
	GenerationMaxTokens = 2000
)

// DefaultTemperature biases chat models toward deterministic edits.
const DefaultTemperature = 0.1

// ProbeText is sent by connection checks.
const ProbeText = "Hello, please respond with 'Connection successful'"

// ReasoningPrefixes name the model family that accepts neither a system
// role nor a temperature.
var ReasoningPrefixes = []string{"o1", "o3"}

// Shape turns a system instruction and a user prompt into a request.
type Shape interface {
	Name() string
	Build(model, system, user string, maxTokens int) models.OracleRequest
	// Probe builds the connection-check request.
	Probe(model string) models.OracleRequest
}

// IsReasoningModel reports whether model belongs to the reasoning-only family.
func IsReasoningModel(model string) bool {
	m := strings.ToLower(strings.TrimSpace(model))
	for _, p := range ReasoningPrefixes {
		if strings.HasPrefix(m, p) {
			return true
		}
	}
	return false
}

// ShapeFor returns the shape for model.
func ShapeFor(model string) Shape {
	if IsReasoningModel(model) {
		return ReasoningShape{}
	}
	return ChatShape{}
}

// NewRequest is ShapeFor(model).Build(...).
func NewRequest(model, system, user string, maxTokens int) models.OracleRequest {
	return ShapeFor(model).Build(model, system, user, maxTokens)
}

// ChatShape sends a system and a user message with a fixed low temperature.
type ChatShape struct{}

func (ChatShape) Name() string { return "chat" }

func (ChatShape) Build(model, system, user string, maxTokens int) models.OracleRequest {
	temp := DefaultTemperature
	return models.OracleRequest{
		Model: model,
		Messages: []models.OracleMessage{
			{Role: models.RoleSystem, Content: system},
			{Role: models.RoleUser, Content: user},
		},
		Temperature:     &temp,
		MaxOutputTokens: maxTokens,
	}
}

func (ChatShape) Probe(model string) models.OracleRequest {
	return models.OracleRequest{
		Model:           model,
		Messages:        []models.OracleMessage{{Role: models.RoleUser, Content: ProbeText}},
		MaxOutputTokens: 10,
	}
}

// ReasoningShape folds the system text into a single user message and
// omits the temperature.
type ReasoningShape struct{}

func (ReasoningShape) Name() string { return "reasoning" }

func (ReasoningShape) Build(model, system, user string, maxTokens int) models.OracleRequest {
	content := user
	if system != "" {
		content = system + "\n\n" + user
	}
	return models.OracleRequest{
		Model:           model,
		Messages:        []models.OracleMessage{{Role: models.RoleUser, Content: content}},
		MaxOutputTokens: maxTokens,
		Reasoning:       true,
	}
}

// Probe allows a larger budget; reasoning tokens count against it.
func (ReasoningShape) Probe(model string) models.OracleRequest {
	return models.OracleRequest{
		Model:           model,
		Messages:        []models.OracleMessage{{Role: models.RoleUser, Content: ProbeText}},
		MaxOutputTokens: 50,
		Reasoning:       true,
	}
}

// ProbeSucceeded reports whether a probe reply looks like a success.
func ProbeSucceeded(reply string) bool {
	return strings.Contains(strings.ToLower(reply), "successful")
}
