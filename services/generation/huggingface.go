package generation

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/SaraLat04/Assistant-Juridique/config"
)

// HuggingFaceBackend generates answers through the Hugging Face Inference API.
// It tries the configured model, then the fallback list, and treats a 503
// (model loading) like any other failure so the cascade can move on.
type HuggingFaceBackend struct {
	config     config.BackendConfig
	models     []string
	httpClient *http.Client
}

// NewHuggingFaceBackend creates the Hugging Face backend. The configured
// model is tried first, followed by a known-good instruct model.
func NewHuggingFaceBackend(cfg config.BackendConfig) *HuggingFaceBackend {
	if cfg.Timeout == 0 {
		cfg.Timeout = 25 * time.Second
	}

	models := []string{cfg.Model, "meta-llama/Llama-2-7b-chat-hf"}
	if cfg.Model == "" {
		models = models[1:]
	}

	return &HuggingFaceBackend{
		config: cfg,
		models: models,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// Name returns the backend name.
func (b *HuggingFaceBackend) Name() string {
	return "huggingface"
}

// Configured reports whether a real token is present.
func (b *HuggingFaceBackend) Configured() bool {
	return keyConfigured(b.config.APIKey) && b.config.BaseURL != ""
}

// Attempt runs the prompt through each candidate model until one answers.
func (b *HuggingFaceBackend) Attempt(ctx context.Context, question, contextText string) (string, error) {
	prompt := instPrompt(question, contextText)

	var lastErr error
	for _, model := range b.models {
		text, err := b.queryModel(ctx, model, prompt)
		if err != nil {
			lastErr = err
			continue
		}
		return text, nil
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("no models configured")
	}
	return "", fmt.Errorf("all huggingface models failed: %w", lastErr)
}

func (b *HuggingFaceBackend) queryModel(ctx context.Context, model, prompt string) (string, error) {
	payload := hfRequest{
		Inputs: prompt,
		Parameters: hfParameters{
			MaxNewTokens:   b.config.MaxTokens,
			Temperature:    b.config.Temperature,
			ReturnFullText: false,
			DoSample:       true,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s", b.config.BaseURL, model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(string(body)))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+b.config.APIKey)

	resp, err := b.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusServiceUnavailable:
		// Model cold start; not worth waiting for within one request.
		return "", fmt.Errorf("model %s is loading (503)", model)
	default:
		return "", fmt.Errorf("model %s returned %d: %s", model, resp.StatusCode, truncate(string(respBody), 200))
	}

	var results []hfResult
	if err := json.Unmarshal(respBody, &results); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if len(results) == 0 || results[0].GeneratedText == "" {
		return "", fmt.Errorf("model %s returned no generated text", model)
	}

	return strings.TrimSpace(results[0].GeneratedText), nil
}

type hfRequest struct {
	Inputs     string       `json:"inputs"`
	Parameters hfParameters `json:"parameters"`
}

type hfParameters struct {
	MaxNewTokens   int     `json:"max_new_tokens,omitempty"`
	Temperature    float64 `json:"temperature,omitempty"`
	ReturnFullText bool    `json:"return_full_text"`
	DoSample       bool    `json:"do_sample,omitempty"`
}

type hfResult struct {
	GeneratedText string `json:"generated_text"`
}
