package gemini

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

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta/models"

// Provider implements chat.Provider using the Gemini REST API. The
// conversation is rendered as a single transcript, one "SENDER: text"
// line per turn, with the system prompt carried as systemInstruction.
type Provider struct {
	apiKey  string
	modelID string
	baseURL string
	client  *http.Client
}

// New creates a Gemini provider for the given model.
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
	return "gemini"
}

// Generate calls the generateContent API and returns the completion
// text. Callers bound the call through ctx.
func (p *Provider) Generate(ctx context.Context, systemPrompt string, history []chat.Turn, userText string) (string, error) {
	if userText == "" {
		return "", chat.ErrEmptyMessage
	}

	jsonBody, err := json.Marshal(p.buildRequest(systemPrompt, history, userText))
	if err != nil {
		return "", fmt.Errorf("chat: marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/%s:generateContent?key=%s", p.baseURL, p.modelID, p.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("chat: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

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
		return "", fmt.Errorf("%w: gemini status %d: %s", chat.ErrProviderFailed, resp.StatusCode, string(body))
	}

	return p.parseResponse(body)
}

func (p *Provider) buildRequest(systemPrompt string, history []chat.Turn, userText string) map[string]any {
	req := map[string]any{
		"contents": []map[string]any{
			{
				"role":  "user",
				"parts": []map[string]any{{"text": renderTranscript(history, userText)}},
			},
		},
	}

	if systemPrompt != "" {
		req["systemInstruction"] = map[string]any{
			"parts": []map[string]any{{"text": systemPrompt}},
		}
	}

	return req
}

// renderTranscript flattens prior turns into "USER:"/"AI:" annotated
// lines, preserving order, with the new message last.
func renderTranscript(history []chat.Turn, userText string) string {
	var b strings.Builder
	for _, turn := range history {
		b.WriteString(strings.ToUpper(string(turn.Sender)))
		b.WriteString(": ")
		b.WriteString(turn.Text)
		b.WriteString("\n")
	}
	b.WriteString("USER: ")
	b.WriteString(userText)
	return b.String()
}

func (p *Provider) parseResponse(body []byte) (string, error) {
	var resp geminiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("chat: parse response: %w", err)
	}

	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("%w: empty response from gemini", chat.ErrProviderFailed)
	}

	return strings.TrimSpace(resp.Candidates[0].Content.Parts[0].Text), nil
}

// Gemini API response types.
type geminiResponse struct {
	Candidates []geminiCandidate `json:"candidates"`
}

type geminiCandidate struct {
	Content geminiContent `json:"content"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
	Role  string       `json:"role"`
}

type geminiPart struct {
	Text string `json:"text"`
}

// Ensure Provider implements chat.Provider at compile time.
var _ chat.Provider = (*Provider)(nil)
