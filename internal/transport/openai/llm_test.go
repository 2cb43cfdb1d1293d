package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/motorq/concierge/internal/domain"
)

// newTestClient points the provider at a local fake API.
func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(&ClientConfig{APIKey: "test-key", BaseURL: srv.URL + "/v1", Logger: zap.NewNop()}), srv
}

func completionBody(content string) string {
	resp := openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: content}},
		},
	}
	b, _ := json.Marshal(resp)
	return string(b)
}

func TestComplete_Success(t *testing.T) {
	var gotReq openai.ChatCompletionRequest
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completionBody(`{"questions": ["q"]}`)))
	})

	out, err := c.Complete(context.Background(), "decompose", domain.Prompt{
		Model:         "gpt-4o",
		System:        "split the question",
		User:          "how much is the bike",
		Deterministic: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != `{"questions": ["q"]}` {
		t.Errorf("out = %q", out)
	}

	if gotReq.Model != "gpt-4o" {
		t.Errorf("model = %q", gotReq.Model)
	}
	if len(gotReq.Messages) != 2 {
		t.Fatalf("got %d messages, want 2", len(gotReq.Messages))
	}
	if gotReq.Messages[0].Role != openai.ChatMessageRoleSystem || gotReq.Messages[0].Content != "split the question" {
		t.Errorf("system message = %+v", gotReq.Messages[0])
	}
	if gotReq.Messages[1].Role != openai.ChatMessageRoleUser {
		t.Errorf("user message role = %q", gotReq.Messages[1].Role)
	}
	// Deterministic prompts must carry a temperature the wire format keeps.
	if gotReq.Temperature == 0 || gotReq.Temperature > 0.01 {
		t.Errorf("temperature = %v, want near-zero but non-zero", gotReq.Temperature)
	}
}

func TestComplete_DefaultSamplingOmitsTemperature(t *testing.T) {
	var raw map[string]any
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		_, _ = w.Write([]byte(completionBody("an answer")))
	})

	_, err := c.Complete(context.Background(), "synthesize", domain.Prompt{Model: "gpt-4o", User: "q"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := raw["temperature"]; ok {
		t.Error("non-deterministic prompts must leave temperature to the provider default")
	}
}

func TestComplete_EmptyChoices(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"choices": []}`))
	})

	_, err := c.Complete(context.Background(), "decompose", domain.Prompt{Model: "gpt-4o", User: "q"})
	if !errors.Is(err, domain.ErrLLMProviderError) {
		t.Fatalf("err = %v, want ErrLLMProviderError", err)
	}
}

func TestComplete_APIErrorWrapped(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": {"message": "rate limited", "type": "rate_limit"}}`))
	})

	_, err := c.Complete(context.Background(), "decompose", domain.Prompt{Model: "gpt-4o", User: "q"})
	if !errors.Is(err, domain.ErrLLMProviderError) {
		t.Fatalf("err = %v, want ErrLLMProviderError", err)
	}
}

func TestParseAPIError_Fallback(t *testing.T) {
	err := parseAPIError("completion", errors.New("dial tcp: connection refused"))
	if !errors.Is(err, domain.ErrLLMProviderError) {
		t.Fatalf("err = %v, want ErrLLMProviderError", err)
	}
}

func TestExtractDetail(t *testing.T) {
	if got := extractDetail([]byte(`{"detail": "index missing"}`)); got != "index missing" {
		t.Errorf("got %q", got)
	}
	if got := extractDetail([]byte(`{"other": "x"}`)); got != "" {
		t.Errorf("got %q, want empty", got)
	}
	if got := extractDetail([]byte(`not json`)); got != "" {
		t.Errorf("got %q, want empty", got)
	}
}

func TestEmbed_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req openai.EmbeddingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Dimensions != 256 {
			t.Errorf("dimensions = %d, want 256", req.Dimensions)
		}

		resp := openai.EmbeddingResponse{
			Data: []openai.Embedding{{Embedding: []float32{0.1, 0.2, 0.3}}},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	e := NewEmbedder(&EmbedderConfig{
		APIKey:     "test-key",
		BaseURL:    srv.URL + "/v1",
		Model:      "text-embedding-3-small",
		Dimensions: 256,
		Logger:     zap.NewNop(),
	})

	vec, err := e.Embed(context.Background(), "road bike")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vec) != 3 {
		t.Fatalf("got %d components, want 3", len(vec))
	}
}

func TestEmbed_EmptyData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"data": []}`))
	}))
	defer srv.Close()

	e := NewEmbedder(&EmbedderConfig{
		APIKey: "test-key", BaseURL: srv.URL + "/v1",
		Model: "text-embedding-3-small", Logger: zap.NewNop(),
	})

	_, err := e.Embed(context.Background(), "q")
	if !errors.Is(err, domain.ErrLLMProviderError) {
		t.Fatalf("err = %v, want ErrLLMProviderError", err)
	}
}
