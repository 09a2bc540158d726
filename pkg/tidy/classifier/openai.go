package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// DefaultOpenAIURL is the hosted OpenAI API endpoint.
const DefaultOpenAIURL = "https://api.openai.com"

// openaiClient talks to an OpenAI-compatible chat completions endpoint.
type openaiClient struct {
	baseURL    string
	model      string
	apiKey     string
	maxRetries int
	httpClient *http.Client
}

func newOpenAI(cfg Config) *openaiClient {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultOpenAIURL
	}
	model := cfg.Model
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &openaiClient{
		baseURL:    baseURL,
		model:      model,
		apiKey:     cfg.APIKey,
		maxRetries: cfg.MaxRetries,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string            `json:"model"`
	Messages       []chatMessage     `json:"messages"`
	Temperature    float64           `json:"temperature"`
	ResponseFormat map[string]string `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Classify sends one classification prompt and parses the JSON reply.
func (c *openaiClient) Classify(ctx context.Context, req Request) (Response, error) {
	var resp Response
	err := withRetry(ctx, c.maxRetries, func(ctx context.Context) error {
		text, err := c.complete(ctx, buildPrompt(req))
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
	return resp, nil
}

// complete performs one chat completions call.
func (c *openaiClient) complete(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: "You are a file classification assistant. Respond only with JSON."},
			{Role: "user", Content: prompt},
		},
		Temperature:    0,
		ResponseFormat: map[string]string{"type": "json_object"},
	})
	if err != nil {
		return "", fmt.Errorf("encoding openai request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("building openai request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("openai request failed: %w", err)
	}
	defer func() { _ = httpResp.Body.Close() }()

	if httpResp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(httpResp.Body, 4096))
		return "", fmt.Errorf("openai returned %d: %s", httpResp.StatusCode, string(data))
	}

	var out chatResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decoding openai response: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("openai returned no choices")
	}
	return out.Choices[0].Message.Content, nil
}
