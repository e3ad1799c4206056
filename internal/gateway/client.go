// Package gateway wraps a single call to the remote generative-AI service.
// One request in, one result out: no retries, no queuing, no cancellation
// beyond the context deadline.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"warroom/internal/logging"
)

// Inferencer is the minimal interface the pipeline uses to call the
// inference service. Satisfied by *GeminiClient and by test fakes.
type Inferencer interface {
	Infer(ctx context.Context, prompt string, opts InferOptions) (string, error)
}

// InferOptions shapes a single inference call.
type InferOptions struct {
	// StructuredOutput asks the service for JSON-shaped text.
	StructuredOutput bool
}

// GeminiConfig holds configuration for the Gemini client.
type GeminiConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// DefaultGeminiConfig returns sensible defaults.
func DefaultGeminiConfig(apiKey string) GeminiConfig {
	return GeminiConfig{
		APIKey:  apiKey,
		BaseURL: "https://generativelanguage.googleapis.com/v1beta",
		Model:   "gemini-2.5-flash",
		Timeout: 2 * time.Minute,
	}
}

// GeminiClient implements Inferencer against the Gemini generateContent API.
type GeminiClient struct {
	apiKey      string
	baseURL     string
	model       string
	httpClient  *http.Client
	mu          sync.Mutex
	lastRequest time.Time
}

// NewGeminiClient creates a new Gemini client with default config.
func NewGeminiClient(apiKey string) *GeminiClient {
	return NewGeminiClientWithConfig(DefaultGeminiConfig(apiKey))
}

// NewGeminiClientWithConfig creates a new Gemini client with custom config.
func NewGeminiClientWithConfig(config GeminiConfig) *GeminiClient {
	model := strings.TrimSpace(config.Model)
	if model == "" {
		model = "gemini-2.5-flash"
	}
	baseURL := strings.TrimSpace(config.BaseURL)
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com/v1beta"
	}
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &GeminiClient{
		apiKey:  config.APIKey,
		baseURL: baseURL,
		model:   model,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// SetModel changes the model used for completions.
func (c *GeminiClient) SetModel(model string) {
	c.model = model
}

// SetAPIKey swaps the credential at runtime (config hot-reload path).
func (c *GeminiClient) SetAPIKey(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.apiKey = key
}

// geminiRequest is the generateContent request shape.
type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenerationConfig struct {
	Temperature      float64 `json:"temperature"`
	MaxOutputTokens  int     `json:"maxOutputTokens,omitempty"`
	ResponseMimeType string  `json:"responseMimeType,omitempty"`
}

// geminiResponse is the subset of the response shape we consume.
type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error,omitempty"`
}

// Infer sends one prompt and returns the raw completion text.
// Failures come back as *InferenceError with a classified kind.
func (c *GeminiClient) Infer(ctx context.Context, prompt string, opts InferOptions) (string, error) {
	// Auto-apply timeout if context has no deadline.
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.httpClient.Timeout)
		defer cancel()
	}

	startTime := time.Now()
	logging.GatewayDebug("Infer: model=%s prompt_len=%d structured=%t", c.model, len(prompt), opts.StructuredOutput)

	c.mu.Lock()
	apiKey := c.apiKey
	// Pacing guard: at least 100ms between requests.
	elapsed := time.Since(c.lastRequest)
	if elapsed < 100*time.Millisecond {
		time.Sleep(100*time.Millisecond - elapsed)
	}
	c.lastRequest = time.Now()
	c.mu.Unlock()

	if apiKey == "" {
		logging.GatewayError("Infer: API key not configured")
		return "", &InferenceError{Kind: KindMissingCredential, Message: "API key not configured"}
	}

	reqBody := geminiRequest{
		Contents: []geminiContent{
			{Role: "user", Parts: []geminiPart{{Text: prompt}}},
		},
		GenerationConfig: geminiGenerationConfig{
			Temperature: 1.0,
		},
	}
	if opts.StructuredOutput {
		reqBody.GenerationConfig.ResponseMimeType = "application/json"
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", &InferenceError{Kind: KindUnknown, Message: "failed to marshal request", Err: err}
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, apiKey)

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(jsonData))
	if err != nil {
		return "", &InferenceError{Kind: KindUnknown, Message: "failed to create request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logging.GatewayError("Infer: request failed after %v: %v", time.Since(startTime), err)
		return "", &InferenceError{Kind: KindNetworkOrServiceFailure, Message: "request failed", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &InferenceError{Kind: KindNetworkOrServiceFailure, Message: "failed to read response", Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		kind := classifyHTTP(resp.StatusCode, string(body))
		logging.GatewayError("Infer: API returned status %d (%s)", resp.StatusCode, kind)
		return "", &InferenceError{
			Kind:    kind,
			Message: fmt.Sprintf("API request failed with status %d: %s", resp.StatusCode, truncate(string(body), 300)),
		}
	}

	var geminiResp geminiResponse
	if err := json.Unmarshal(body, &geminiResp); err != nil {
		return "", &InferenceError{Kind: KindUnknown, Message: "failed to parse response", Err: err}
	}

	if geminiResp.Error != nil {
		kind := classifyHTTP(geminiResp.Error.Code, geminiResp.Error.Status+" "+geminiResp.Error.Message)
		return "", &InferenceError{Kind: kind, Message: geminiResp.Error.Message}
	}

	if geminiResp.PromptFeedback != nil && geminiResp.PromptFeedback.BlockReason != "" {
		logging.GatewayWarn("Infer: prompt blocked: %s", geminiResp.PromptFeedback.BlockReason)
		return "", &InferenceError{
			Kind:    KindContentFiltered,
			Message: fmt.Sprintf("prompt blocked: %s", geminiResp.PromptFeedback.BlockReason),
		}
	}

	if len(geminiResp.Candidates) == 0 || len(geminiResp.Candidates[0].Content.Parts) == 0 {
		// A SAFETY finish with no parts is a filtered response.
		if len(geminiResp.Candidates) > 0 {
			reason := geminiResp.Candidates[0].FinishReason
			if strings.EqualFold(reason, "SAFETY") || strings.EqualFold(reason, "PROHIBITED_CONTENT") {
				return "", &InferenceError{Kind: KindContentFiltered, Message: "response blocked: " + reason}
			}
		}
		return "", &InferenceError{Kind: KindUnknown, Message: "no completion returned"}
	}

	var result strings.Builder
	for _, part := range geminiResp.Candidates[0].Content.Parts {
		result.WriteString(part.Text)
	}
	response := strings.TrimSpace(result.String())

	logging.Gateway("Infer: completed in %v response_len=%d", time.Since(startTime), len(response))
	return response, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
