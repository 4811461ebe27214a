package oracle

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coreoracle "github.com/example/factkeeper/internal/core/oracle"
	"github.com/example/factkeeper/internal/ctxutil"
	"github.com/example/factkeeper/internal/models"
)

func newTestServer(t *testing.T, status int, reply string, captured *map[string]any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		if captured != nil {
			require.NoError(t, json.NewDecoder(r.Body).Decode(captured))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(reply))
	}))
	t.Cleanup(srv.Close)
	return srv
}

const okReply = `{"choices":[{"message":{"content":"  # T\n| **1** | x | 2025-01-01 |  "},"finish_reason":"stop"}],
"usage":{"prompt_tokens":120,"completion_tokens":30,"total_tokens":150}}`

func TestOpenAI_ChatShape(t *testing.T) {
	var body map[string]any
	srv := newTestServer(t, http.StatusOK, okReply, &body)
	client := NewOpenAI(OpenAIConfig{APIKey: "test-key", BaseURL: srv.URL + "/"}, nil)

	req := coreoracle.NewRequest("gpt-4o", "sys", "user", coreoracle.EditMaxTokens)
	resp, err := client.Generate(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "# T\n| **1** | x | 2025-01-01 |", resp.Text)
	assert.Equal(t, models.TokenUsage{PromptTokens: 120, CompletionTokens: 30, TotalTokens: 150}, resp.Usage)

	assert.Equal(t, "gpt-4o", body["model"])
	assert.EqualValues(t, 4000, body["max_tokens"])
	assert.EqualValues(t, 0.1, body["temperature"])
	assert.NotContains(t, body, "max_completion_tokens")
	assert.Len(t, body["messages"], 2)
}

func TestOpenAI_ReasoningShape(t *testing.T) {
	var body map[string]any
	srv := newTestServer(t, http.StatusOK, okReply, &body)
	client := NewOpenAI(OpenAIConfig{APIKey: "test-key", BaseURL: srv.URL}, nil)

	req := coreoracle.NewRequest("o3-mini", "sys", "user", coreoracle.EditMaxTokens)
	_, err := client.Generate(context.Background(), req)
	require.NoError(t, err)

	assert.EqualValues(t, 4000, body["max_completion_tokens"])
	assert.NotContains(t, body, "max_tokens")
	assert.NotContains(t, body, "temperature")

	messages := body["messages"].([]any)
	require.Len(t, messages, 1)
	msg := messages[0].(map[string]any)
	assert.Equal(t, "user", msg["role"])
	assert.Equal(t, "sys\n\nuser", msg["content"])
}

func TestOpenAI_RunIDHeader(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("X-Client-Request-Id")
		_, _ = w.Write([]byte(okReply))
	}))
	t.Cleanup(srv.Close)
	client := NewOpenAI(OpenAIConfig{APIKey: "test-key", BaseURL: srv.URL}, nil)

	ctx := ctxutil.WithRunID(context.Background(), "run-7")
	_, err := client.Generate(ctx, coreoracle.NewRequest("gpt-4o", "sys", "user", 10))
	require.NoError(t, err)
	assert.Equal(t, "run-7", got)
}

func TestOpenAI_Errors(t *testing.T) {
	ctx := context.Background()
	req := coreoracle.NewRequest("gpt-4o", "sys", "user", 10)

	t.Run("missing key", func(t *testing.T) {
		_, err := NewOpenAI(OpenAIConfig{}, nil).Generate(ctx, req)
		assert.ErrorContains(t, err, "API key not configured")
	})

	t.Run("http status", func(t *testing.T) {
		srv := newTestServer(t, http.StatusTooManyRequests, `{"error":{"message":"slow down"}}`, nil)
		_, err := NewOpenAI(OpenAIConfig{APIKey: "test-key", BaseURL: srv.URL}, nil).Generate(ctx, req)
		assert.ErrorContains(t, err, "status 429")
	})

	t.Run("no choices", func(t *testing.T) {
		srv := newTestServer(t, http.StatusOK, `{"choices":[]}`, nil)
		_, err := NewOpenAI(OpenAIConfig{APIKey: "test-key", BaseURL: srv.URL}, nil).Generate(ctx, req)
		assert.ErrorContains(t, err, "no completion returned")
	})

	t.Run("api error body", func(t *testing.T) {
		srv := newTestServer(t, http.StatusOK, `{"error":{"message":"model not found"}}`, nil)
		_, err := NewOpenAI(OpenAIConfig{APIKey: "test-key", BaseURL: srv.URL}, nil).Generate(ctx, req)
		assert.ErrorContains(t, err, "model not found")
	})
}

func TestGeminiContents(t *testing.T) {
	chat := coreoracle.NewRequest("gemini-2.5-flash", "be precise", "edit this", 4000)
	contents, config := contentsFor(chat)

	require.Len(t, contents, 1)
	assert.Equal(t, "edit this", contents[0].Parts[0].Text)
	require.NotNil(t, config.SystemInstruction)
	assert.Equal(t, "be precise", config.SystemInstruction.Parts[0].Text)
	assert.EqualValues(t, 4000, config.MaxOutputTokens)
	require.NotNil(t, config.Temperature)
	assert.InDelta(t, 0.1, *config.Temperature, 1e-6)

	probe := coreoracle.ShapeFor("gemini-2.5-flash").Probe("gemini-2.5-flash")
	contents, config = contentsFor(probe)
	require.Len(t, contents, 1)
	assert.Nil(t, config.SystemInstruction)
	assert.Nil(t, config.Temperature)
}

func TestNewGemini_RequiresKey(t *testing.T) {
	_, err := NewGemini(context.Background(), "", nil)
	assert.Error(t, err)
}
