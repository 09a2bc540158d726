package classifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOllamaClassify(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/generate", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)

		var req ollamaRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "llama3.2", req.Model)
		assert.False(t, req.Stream)
		assert.Equal(t, "json", req.Format)
		assert.Contains(t, req.Prompt, "statement.pdf")

		out := ollamaResponse{
			Response: `{"category": "document", "subject": "Statements", "confidence": 0.88}`,
			Done:     true,
		}
		require.NoError(t, json.NewEncoder(w).Encode(out))
	}))
	defer srv.Close()

	c, err := New(Config{Provider: ProviderOllama, BaseURL: srv.URL})
	require.NoError(t, err)

	resp, err := c.Classify(context.Background(), Request{Filename: "statement.pdf", Extension: ".pdf"})
	require.NoError(t, err)
	assert.Equal(t, "document", resp.Category)
	assert.Equal(t, "Statements", resp.Subject)
	assert.InDelta(t, 0.88, resp.Confidence, 1e-9)
}

func TestOllamaClassify_RetriesServerErrors(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, "overloaded", http.StatusInternalServerError)
			return
		}
		out := ollamaResponse{Response: `{"category": "code", "confidence": 0.8}`, Done: true}
		_ = json.NewEncoder(w).Encode(out)
	}))
	defer srv.Close()

	c, err := New(Config{Provider: ProviderOllama, BaseURL: srv.URL, MaxRetries: 2})
	require.NoError(t, err)

	resp, err := c.Classify(context.Background(), Request{Filename: "x.pdf"})
	require.NoError(t, err)
	assert.Equal(t, "code", resp.Category)
	assert.Equal(t, int32(2), calls.Load())
}

func TestOllamaClassify_ServerErrorSurfaces(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer srv.Close()

	c, err := New(Config{Provider: ProviderOllama, BaseURL: srv.URL, MaxRetries: 0, Timeout: 5 * time.Second})
	require.NoError(t, err)

	_, err = c.Classify(context.Background(), Request{Filename: "x.pdf"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestOpenAIClassify(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-4o-mini", req.Model)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)

		out := chatResponse{}
		out.Choices = append(out.Choices, struct {
			Message chatMessage `json:"message"`
		}{Message: chatMessage{Role: "assistant", Content: `{"category": "archive", "confidence": 0.75}`}})
		require.NoError(t, json.NewEncoder(w).Encode(out))
	}))
	defer srv.Close()

	c, err := New(Config{Provider: ProviderOpenAI, BaseURL: srv.URL, APIKey: "sk-test"})
	require.NoError(t, err)

	resp, err := c.Classify(context.Background(), Request{Filename: "old.zip", Extension: ".zip"})
	require.NoError(t, err)
	assert.Equal(t, "archive", resp.Category)
	assert.InDelta(t, 0.75, resp.Confidence, 1e-9)
}

func TestOpenAIClassify_NoChoices(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(chatResponse{})
	}))
	defer srv.Close()

	c, err := New(Config{Provider: ProviderOpenAI, BaseURL: srv.URL, MaxRetries: 0})
	require.NoError(t, err)

	_, err = c.Classify(context.Background(), Request{Filename: "x.pdf"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no choices")
}

// orderClassifier answers with the request's filename so ordering is
// observable.
type orderClassifier struct{}

func (orderClassifier) Classify(_ context.Context, req Request) (Response, error) {
	if req.Filename == "boom.pdf" {
		return Response{}, assert.AnError
	}
	return Response{Category: "document", Title: req.Filename, Confidence: 0.9}, nil
}

func TestClassifyAll_OrderAndIsolation(t *testing.T) {
	t.Parallel()

	reqs := []Request{
		{Filename: "a.pdf"},
		{Filename: "boom.pdf"},
		{Filename: "c.pdf"},
		{Filename: "d.pdf"},
	}

	results := ClassifyAll(context.Background(), orderClassifier{}, reqs, 2)
	require.Len(t, results, 4)

	assert.Equal(t, "a.pdf", results[0].Response.Title)
	assert.ErrorIs(t, results[1].Err, assert.AnError)
	assert.Equal(t, "c.pdf", results[2].Response.Title)
	assert.Equal(t, "d.pdf", results[3].Response.Title)
}

func TestClassifyAll_Empty(t *testing.T) {
	t.Parallel()
	results := ClassifyAll(context.Background(), orderClassifier{}, nil, 0)
	assert.Empty(t, results)
}
