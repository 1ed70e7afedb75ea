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

// ChatCompletionBackend generates answers through an OpenAI-style
// chat-completions endpoint. Both OpenAI and Groq speak this wire format, so
// they share the implementation and differ only in name and configuration.
type ChatCompletionBackend struct {
	name       string
	config     config.BackendConfig
	httpClient *http.Client
}

// NewOpenAIBackend creates the OpenAI backend.
func NewOpenAIBackend(cfg config.BackendConfig) *ChatCompletionBackend {
	return newChatCompletionBackend("openai", cfg)
}

// NewGroqBackend creates the Groq backend.
func NewGroqBackend(cfg config.BackendConfig) *ChatCompletionBackend {
	return newChatCompletionBackend("groq", cfg)
}

func newChatCompletionBackend(name string, cfg config.BackendConfig) *ChatCompletionBackend {
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &ChatCompletionBackend{
		name:   name,
		config: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// Name returns the backend name.
func (b *ChatCompletionBackend) Name() string {
	return b.name
}

// Configured reports whether a real (non-placeholder) API key is present.
func (b *ChatCompletionBackend) Configured() bool {
	return keyConfigured(b.config.APIKey) && b.config.BaseURL != ""
}

// Attempt performs one chat-completion call.
func (b *ChatCompletionBackend) Attempt(ctx context.Context, question, contextText string) (string, error) {
	var messages []chatMessage
	if contextText == "" {
		messages = []chatMessage{
			{Role: "system", Content: generalSystemPrompt},
			{Role: "user", Content: question},
		}
	} else {
		messages = []chatMessage{
			{Role: "system", Content: groundedSystemPrompt},
			{Role: "user", Content: groundedUserPrompt(question, contextText)},
		}
	}

	reqPayload := chatCompletionRequest{
		Model:       b.config.Model,
		Messages:    messages,
		MaxTokens:   b.config.MaxTokens,
		Temperature: b.config.Temperature,
	}

	body, err := json.Marshal(reqPayload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		b.config.BaseURL+"/chat/completions", strings.NewReader(string(body)))
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

	if resp.StatusCode != http.StatusOK {
		return "", b.errorFromResponse(resp.StatusCode, respBody)
	}

	var completion chatCompletionResponse
	if err := json.Unmarshal(respBody, &completion); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("response contained no choices")
	}

	return strings.TrimSpace(completion.Choices[0].Message.Content), nil
}

func (b *ChatCompletionBackend) errorFromResponse(statusCode int, body []byte) error {
	var errResp chatErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error.Message != "" {
		return fmt.Errorf("%s returned %d: %s", b.name, statusCode, errResp.Error.Message)
	}
	return fmt.Errorf("%s returned %d: %s", b.name, statusCode, truncate(string(body), 200))
}

// Chat-completions wire types (OpenAI format, also spoken by Groq).

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message      chatMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
}

type chatErrorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

func truncate(s string, max int) string {
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
