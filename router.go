package chat

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const defaultProviderTimeout = 30 * time.Second

// Router tries each configured provider in priority order and returns
// the first usable completion. A provider that errors, times out, or
// produces blank text is skipped; the error surfaces only when every
// provider has been exhausted.
type Router struct {
	providers []Provider
	timeout   time.Duration
	log       zerolog.Logger
}

// NewRouter creates a Router over providers in priority order. A
// timeout of zero or less applies the default per-provider bound.
func NewRouter(providers []Provider, timeout time.Duration, log zerolog.Logger) *Router {
	if timeout <= 0 {
		timeout = defaultProviderTimeout
	}
	return &Router{
		providers: providers,
		timeout:   timeout,
		log:       log,
	}
}

// Generate returns the first provider's completion that is usable,
// or ErrNoProvider when all configured providers failed or none are
// configured.
func (r *Router) Generate(ctx context.Context, systemPrompt string, history []Turn, userText string) (string, error) {
	if strings.TrimSpace(userText) == "" {
		return "", ErrEmptyMessage
	}

	for _, p := range r.providers {
		text, err := r.tryProvider(ctx, p, systemPrompt, history, userText)
		if err != nil {
			r.log.Warn().
				Err(err).
				Str("provider", p.Name()).
				Msg("provider failed, trying next")
			continue
		}
		return text, nil
	}

	return "", ErrNoProvider
}

// tryProvider invokes one provider under the configured timeout so a
// hung backend cannot stall the fallback chain. Blank output counts as
// a failure.
func (r *Router) tryProvider(ctx context.Context, p Provider, systemPrompt string, history []Turn, userText string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	text, err := p.Generate(ctx, systemPrompt, history, userText)
	if err != nil {
		return "", fmt.Errorf("chat: provider %s: %w", p.Name(), err)
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("chat: provider %s returned empty text: %w", p.Name(), ErrProviderFailed)
	}
	return text, nil
}
