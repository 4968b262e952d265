// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package summarize

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/pdiddy/paperscout/pkg/types"
)

// ErrUnknownProvider is returned for a provider other than anthropic or openai.
var ErrUnknownProvider = errors.New("unknown summarization provider")

// ErrMissingAPIKey is returned when the selected provider has no key.
var ErrMissingAPIKey = errors.New("summarization API key not configured")

// New builds a Summarizer for cfg.Provider.
func New(cfg types.SummarizeConfig, log zerolog.Logger) (*Summarizer, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w for provider %q", ErrMissingAPIKey, cfg.Provider)
	}
	client := &http.Client{Timeout: cfg.Timeout}

	var b Backend
	switch strings.ToLower(cfg.Provider) {
	case "anthropic", "claude":
		b = &ClaudeBackend{APIKey: cfg.APIKey, Model: cfg.Model, Client: client}
	case "openai", "":
		b = &OpenAIBackend{APIKey: cfg.APIKey, Model: cfg.Model, Client: client}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Provider)
	}
	return &Summarizer{Backend: b, MaxRetries: cfg.MaxRetries, Logger: log}, nil
}
