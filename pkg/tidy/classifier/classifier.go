// Package classifier defines the external document classification
// capability and its HTTP-backed providers. The pipeline treats every
// provider as untrusted: responses are clamped and sanitized before use,
// and any failure degrades to a fallback classification instead of
// aborting a scan.
package classifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/jamesainslie/tidy/pkg/tidy/logging"
	"github.com/jamesainslie/tidy/pkg/tidy/types"
)

var logger = logging.Get("classifier")

// Request describes one document to classify.
type Request struct {
	// Filename is the base name of the file.
	Filename string `json:"filename"`

	// Extension is the file extension including the dot.
	Extension string `json:"extension"`

	// Size is the file size in bytes.
	Size int64 `json:"size"`

	// Metadata is optional extracted document metadata.
	Metadata *types.DocumentMetadata `json:"metadata,omitempty"`

	// FolderContext is an optional hint describing the containing folder.
	FolderContext string `json:"folder_context,omitempty"`
}

// Response is a provider's opinion about one document.
type Response struct {
	// Category is the suggested category (e.g. "document", "media").
	Category string `json:"category"`

	// Subject is an optional subject folder suggestion.
	Subject string `json:"subject,omitempty"`

	// Title is an optional cleaned title suggestion.
	Title string `json:"title,omitempty"`

	// Confidence is the provider's confidence, clamped to [0, 1].
	Confidence float64 `json:"confidence"`

	// Reasoning is a human-readable explanation.
	Reasoning string `json:"reasoning,omitempty"`
}

// Classifier is a synchronous request/response classification capability.
// Implementations are selected by configuration; the pipeline never
// branches on provider identity.
type Classifier interface {
	Classify(ctx context.Context, req Request) (Response, error)
}

// Provider names accepted by New.
const (
	ProviderOllama = "ollama"
	ProviderOpenAI = "openai"
)

// ErrUnknownProvider is returned by New for an unrecognized provider name.
var ErrUnknownProvider = errors.New("unknown classifier provider")

// Config selects and tunes a classification provider.
type Config struct {
	// Provider is "ollama" or "openai".
	Provider string

	// Model is the model name passed to the provider.
	Model string

	// BaseURL overrides the provider endpoint. Empty uses the default.
	BaseURL string

	// APIKey authenticates against providers that require it.
	APIKey string

	// Timeout bounds each individual HTTP call.
	Timeout time.Duration

	// MaxRetries is the number of retries after the first attempt.
	MaxRetries int
}

// Defaults for provider tuning.
const (
	DefaultTimeout    = 30 * time.Second
	DefaultMaxRetries = 2
	baseBackoff       = 500 * time.Millisecond
)

// New builds a Classifier for the configured provider.
func New(cfg Config) (Classifier, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = DefaultMaxRetries
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case ProviderOllama:
		return newOllama(cfg), nil
	case ProviderOpenAI:
		return newOpenAI(cfg), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Provider)
	}
}

// sanitize validates and clamps a raw provider response. A missing
// category degrades to a low-confidence unknown instead of an error.
func sanitize(resp Response) Response {
	resp.Category = strings.ToLower(strings.TrimSpace(resp.Category))
	resp.Subject = strings.TrimSpace(resp.Subject)
	resp.Title = strings.TrimSpace(resp.Title)
	resp.Confidence = types.ClampConfidence(resp.Confidence)

	if resp.Category == "" {
		resp.Category = string(types.KindUnknown)
		if resp.Confidence > 0.3 {
			resp.Confidence = 0.3
		}
		if resp.Reasoning == "" {
			resp.Reasoning = "provider returned no category"
		}
	}
	return resp
}

// parseResponse extracts the JSON object embedded in a provider's text
// output. Providers frequently wrap JSON in prose or code fences.
func parseResponse(text string) (Response, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return Response{}, fmt.Errorf("no JSON object in classifier output")
	}
	var resp Response
	if err := json.Unmarshal([]byte(text[start:end+1]), &resp); err != nil {
		return Response{}, fmt.Errorf("malformed classifier output: %w", err)
	}
	return sanitize(resp), nil
}

// buildPrompt renders the classification instructions for one request.
func buildPrompt(req Request) string {
	var b strings.Builder
	b.WriteString("Classify this file into exactly one category: ")
	b.WriteString("document, media, archive, code, unknown.\n")
	fmt.Fprintf(&b, "Filename: %s\nExtension: %s\nSize: %d bytes\n", req.Filename, req.Extension, req.Size)
	if req.Metadata != nil && !req.Metadata.Empty() {
		if req.Metadata.Title != "" {
			fmt.Fprintf(&b, "Title: %s\n", req.Metadata.Title)
		}
		if req.Metadata.Author != "" {
			fmt.Fprintf(&b, "Author: %s\n", req.Metadata.Author)
		}
		if req.Metadata.Subject != "" {
			fmt.Fprintf(&b, "Subject: %s\n", req.Metadata.Subject)
		}
		if len(req.Metadata.Keywords) > 0 {
			fmt.Fprintf(&b, "Keywords: %s\n", strings.Join(req.Metadata.Keywords, ", "))
		}
		if req.Metadata.FirstPageSnippet != "" {
			fmt.Fprintf(&b, "First page excerpt: %s\n", req.Metadata.FirstPageSnippet)
		}
	}
	if req.FolderContext != "" {
		fmt.Fprintf(&b, "Folder context: %s\n", req.FolderContext)
	}
	b.WriteString("Respond with only a JSON object with keys: " +
		`"category", "subject", "title", "confidence" (0..1), "reasoning".`)
	return b.String()
}

// withRetry runs fn up to 1+maxRetries times with exponential backoff
// and jitter, honoring context cancellation between attempts.
func withRetry(ctx context.Context, maxRetries int, fn func(context.Context) error) error {
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			delay := baseBackoff << (attempt - 1)
			delay += time.Duration(rand.Int63n(int64(delay) / 2))
			logger.Debug("retrying classification", "attempt", attempt, "delay", delay)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
		if err := fn(ctx); err != nil {
			lastErr = err
			if errors.Is(err, context.Canceled) {
				return err
			}
			continue
		}
		return nil
	}
	return lastErr
}
