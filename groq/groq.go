package groq

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/meikuraledutech/chat"
)

const (
	defaultBaseURL     = "https://api.groq.com/openai/v1"
	defaultTemperature = 0.3
)

// Provider implements chat.Provider against the Groq chat-completions
// API. The conversation is rendered as role-tagged messages in the
// OpenAI shape: system, then prior turns, then the new user message.
type Provider struct {
	apiKey  string
	modelID string
	baseURL string
	client  *http.Client
}

// New creates a Groq provider for the given model.
func New(apiKey, modelID string) *Provider {
	return &Provider{
		apiKey:  apiKey,
		modelID: modelID,
		baseURL: defaultBaseURL,
		client:  &http.Client{},
	}
}

// WithBaseURL overrides the API endpoint. Used by tests.
func (p *Provider) WithBaseURL(u string) *Provider {
	p.baseURL = u
	return p
}

// Name identifies this provider in router logs.
func (p *Provider) Name() string {
	return "groq"
}

// Generate calls the chat-completions API and returns the completion
// text. Callers bound the call through ctx.
func (p *Provider) Generate(ctx context.Context, systemPrompt string, history []chat.Turn, userText string) (string, error) {
	if userText == "" {
		return "", chat.ErrEmptyMessage
	}

	jsonBody, err := json.Marshal(completionRequest{
		Model:       p.modelID,
		Messages:    buildMessages(systemPrompt, history, userText),
		Temperature: defaultTemperature,
	})
	if err != nil {
		return "", fmt.Errorf("chat: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/chat/completions", bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("chat: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat: send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("chat: read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: groq status %d: %s", chat.ErrProviderFailed, resp.StatusCode, string(body))
	}

	var parsed completionResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("chat: parse response: %w", err)
	}

	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("%w: empty response from groq", chat.ErrProviderFailed)
	}

	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}

// buildMessages preserves turn order and sender identity, mapping the
// ai sender onto the assistant role.
func buildMessages(systemPrompt string, history []chat.Turn, userText string) []message {
	messages := make([]message, 0, len(history)+2)

	if systemPrompt != "" {
		messages = append(messages, message{Role: "system", Content: systemPrompt})
	}

	for _, turn := range history {
		role := "user"
		if turn.Sender == chat.SenderAI {
			role = "assistant"
		}
		messages = append(messages, message{Role: role, Content: turn.Text})
	}

	return append(messages, message{Role: "user", Content: userText})
}

// Groq API request/response types (OpenAI chat-completions shape).
type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	Temperature float64   `json:"temperature"`
}

type completionResponse struct {
	Choices []choice `json:"choices"`
}

type choice struct {
	Message message `json:"message"`
}

// Ensure Provider implements chat.Provider at compile time.
var _ chat.Provider = (*Provider)(nil)
