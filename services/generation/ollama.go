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

// OllamaBackend generates answers on a local Ollama server. It needs no
// credentials: setting OLLAMA_BASE_URL enables it. Local generations can be
// slow, so the default timeout is generous.
type OllamaBackend struct {
	config     config.BackendConfig
	httpClient *http.Client
}

// NewOllamaBackend creates the Ollama backend.
func NewOllamaBackend(cfg config.BackendConfig) *OllamaBackend {
	if cfg.Timeout == 0 {
		cfg.Timeout = 5 * time.Minute
	}
	return &OllamaBackend{
		config: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// Name returns the backend name.
func (b *OllamaBackend) Name() string {
	return "ollama"
}

// Configured reports whether a server URL is set.
func (b *OllamaBackend) Configured() bool {
	return b.config.BaseURL != "" && b.config.Model != ""
}

// Attempt performs one non-streaming generate call.
func (b *OllamaBackend) Attempt(ctx context.Context, question, contextText string) (string, error) {
	var prompt string
	if contextText == "" {
		prompt = fmt.Sprintf("%s\n\n%s", generalSystemPrompt, question)
	} else {
		prompt = groundedUserPrompt(question, contextText)
	}

	payload := ollamaRequest{
		Model:  b.config.Model,
		Prompt: prompt,
		Stream: false,
		Options: ollamaOptions{
			Temperature: b.config.Temperature,
			NumPredict:  b.config.MaxTokens,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		b.config.BaseURL+"/api/generate", strings.NewReader(string(body)))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := b.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ollama returned %d: %s", resp.StatusCode, truncate(string(respBody), 200))
	}

	var out ollamaResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if out.Response == "" {
		return "", fmt.Errorf("ollama returned an empty response")
	}

	return strings.TrimSpace(out.Response), nil
}

// Ollama generate API wire types.

type ollamaRequest struct {
	Model   string        `json:"model"`
	Prompt  string        `json:"prompt"`
	Stream  bool          `json:"stream"`
	Options ollamaOptions `json:"options,omitempty"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature,omitempty"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

type ollamaResponse struct {
	Model    string `json:"model"`
	Response string `json:"response"`
	Done     bool   `json:"done"`
}
