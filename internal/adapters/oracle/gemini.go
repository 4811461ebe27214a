package oracle

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/example/factkeeper/internal/ctxutil"
	"github.com/example/factkeeper/internal/models"
	"github.com/example/factkeeper/internal/ports/secondary"
)

// Gemini calls Google's Gemini API through the genai SDK.
type Gemini struct {
	client *genai.Client
	logger *zap.Logger
}

// NewGemini creates a Gemini oracle.
func NewGemini(ctx context.Context, apiKey string, logger *zap.Logger) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini: API key is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &Gemini{client: client, logger: logger}, nil
}

// contentsFor maps system messages to the system instruction and every
// other message to user content.
func contentsFor(req models.OracleRequest) ([]*genai.Content, *genai.GenerateContentConfig) {
	config := &genai.GenerateContentConfig{}
	if req.MaxOutputTokens > 0 {
		config.MaxOutputTokens = int32(req.MaxOutputTokens)
	}
	if req.Temperature != nil {
		config.Temperature = genai.Ptr(float32(*req.Temperature))
	}

	var system []string
	var contents []*genai.Content
	for _, m := range req.Messages {
		if m.Role == models.RoleSystem {
			system = append(system, m.Content)
			continue
		}
		contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleUser))
	}
	if len(system) > 0 {
		config.SystemInstruction = genai.NewContentFromText(strings.Join(system, "\n\n"), genai.RoleUser)
	}

	return contents, config
}

// Generate sends one GenerateContent request.
func (g *Gemini) Generate(ctx context.Context, req models.OracleRequest) (*models.OracleResponse, error) {
	contents, config := contentsFor(req)

	result, err := g.client.Models.GenerateContent(ctx, req.Model, contents, config)
	if err != nil {
		return nil, fmt.Errorf("GenAI generate failed: %w", err)
	}

	out := &models.OracleResponse{Text: strings.TrimSpace(result.Text())}
	if u := result.UsageMetadata; u != nil {
		out.Usage = models.TokenUsage{
			PromptTokens:     int(u.PromptTokenCount),
			CompletionTokens: int(u.CandidatesTokenCount),
			TotalTokens:      int(u.TotalTokenCount),
		}
	}

	g.logger.Debug("gemini completion",
		zap.String("model", req.Model),
		zap.String("run_id", ctxutil.RunIDFromContext(ctx)),
		zap.Int("total_tokens", out.Usage.TotalTokens),
	)
	return out, nil
}

var _ secondary.Oracle = (*Gemini)(nil)
