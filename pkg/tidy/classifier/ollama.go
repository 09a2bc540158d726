package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultOllamaURL is the local Ollama endpoint.
const DefaultOllamaURL = "http://localhost:11434"

// ollamaClient talks to a local Ollama server via /api/generate.
type ollamaClient struct {
	baseURL    string
	model      string
	maxRetries int
	httpClient *http.Client
}

func newOllama(cfg Config) *ollamaClient {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultOllamaURL
	}
	model := cfg.Model
	if model == "" {
		model = "llama3.2"
	}
	return &ollamaClient{
		baseURL:    baseURL,
		model:      model,
		maxRetries: cfg.MaxRetries,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

type ollamaRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
	Format string `json:"format,omitempty"`
}

type ollamaResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// Classify sends one classification prompt and parses the JSON reply.
func (c *ollamaClient) Classify(ctx context.Context, req Request) (Response, error) {
	started := time.Now()
	var resp Response
	err := withRetry(ctx, c.maxRetries, func(ctx context.Context) error {
		text, err := c.generate(ctx, buildPrompt(req))
		if err != nil {
			return err
		}
		parsed, err := parseResponse(text)
		if err != nil {
			return err
		}
		resp = parsed
		return nil
	})
	if err != nil {
		return Response{}, err
	}
	logger.Debug("classified", "file", req.Filename, "category", resp.Category,
		"confidence", resp.Confidence, "elapsed", time.Since(started))
	return resp, nil
}

// generate performs one /api/generate call.
func (c *ollamaClient) generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(ollamaRequest{
		Model:  c.model,
		Prompt: prompt,
		Stream: false,
		Format: "json",
	})
	if err != nil {
		return "", fmt.Errorf("encoding ollama request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("building ollama request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("ollama request failed: %w", err)
	}
	defer func() { _ = httpResp.Body.Close() }()

	if httpResp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(httpResp.Body, 4096))
		return "", fmt.Errorf("ollama returned %d: %s", httpResp.StatusCode, string(data))
	}

	var out ollamaResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decoding ollama response: %w", err)
	}
	return out.Response, nil
}
