// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package summarize condenses paper abstracts or body text through a chat
// model backend.
package summarize

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"text/template"
	"time"

	"github.com/rs/zerolog"
)

// NothingToSummarize is returned for blank input without calling a backend.
const NothingToSummarize = "Nothing to summarize: no abstract or body text was provided."

// Sentinel errors for invalid options.
var (
	ErrUnknownLang = errors.New("unknown summary language")
	ErrUnknownMode = errors.New("unknown summary mode")
)

// Lang is the output language of a summary.
type Lang string

// Supported languages.
const (
	LangKorean   Lang = "ko"
	LangEnglish  Lang = "en"
	LangJapanese Lang = "ja"
)

// Mode selects what the summary focuses on.
type Mode string

// Supported modes.
const (
	ModeSummary          Mode = "summary"
	ModeContribution     Mode = "contribution"
	ModeWeakness         Mode = "weakness"
	ModeStrengthWeakness Mode = "strength_weakness"
)

// ParseLang validates a language code.
func ParseLang(s string) (Lang, error) {
	switch l := Lang(strings.ToLower(strings.TrimSpace(s))); l {
	case LangKorean, LangEnglish, LangJapanese:
		return l, nil
	default:
		return "", fmt.Errorf("%w: %q (want ko, en or ja)", ErrUnknownLang, s)
	}
}

// ParseMode validates a mode name.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeSummary, ModeContribution, ModeWeakness, ModeStrengthWeakness:
		return m, nil
	default:
		return "", fmt.Errorf("%w: %q (want summary, contribution, weakness or strength_weakness)", ErrUnknownMode, s)
	}
}

// Backend sends one system and user message pair to a chat model and
// returns the reply text.
type Backend interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// backoffBase controls the base duration for exponential backoff. Tests
// override this to avoid real sleeps.
var backoffBase = time.Second

// Summarizer renders prompts and calls a Backend with retries.
type Summarizer struct {
	Backend    Backend
	MaxRetries int
	Logger     zerolog.Logger
}

// Summarize returns a summary of text in lang focused per mode. Blank
// text yields NothingToSummarize without a backend call.
func (s *Summarizer) Summarize(ctx context.Context, text string, lang Lang, mode Mode) (string, error) {
	if strings.TrimSpace(text) == "" {
		return NothingToSummarize, nil
	}
	if _, err := ParseLang(string(lang)); err != nil {
		return "", err
	}
	if _, err := ParseMode(string(mode)); err != nil {
		return "", err
	}
	if s.Backend == nil {
		return "", fmt.Errorf("no summarization backend configured")
	}

	system, err := render(systemTmpl, lang, mode, text)
	if err != nil {
		return "", fmt.Errorf("rendering system prompt: %w", err)
	}
	user, err := render(userTmpl, lang, mode, text)
	if err != nil {
		return "", fmt.Errorf("rendering user prompt: %w", err)
	}

	out, err := s.callWithRetry(ctx, system, user)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

func (s *Summarizer) callWithRetry(ctx context.Context, system, user string) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= s.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * backoffBase
			s.Logger.Warn().Err(lastErr).Int("attempt", attempt).Dur("backoff", backoff).Msg("summarize retry")
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff):
			}
		}

		out, err := s.Backend.Complete(ctx, system, user)
		if err == nil {
			return out, nil
		}
		lastErr = err
	}
	return "", fmt.Errorf("after %d retries: %w", s.MaxRetries, lastErr)
}

var languageNames = map[Lang]string{
	LangKorean:   "Korean (한국어)",
	LangEnglish:  "English",
	LangJapanese: "Japanese (日本語)",
}

var modeInstructions = map[Mode]string{
	ModeSummary:          "Summarize the paper content the user provides in a structured way.",
	ModeContribution:     "List only the paper's core contributions as 2 to 4 bullet points.",
	ModeWeakness:         "Critically list the paper's limitations and weaknesses as 3 to 5 bullet points.",
	ModeStrengthWeakness: "List three strengths and then three weaknesses of the paper as separate bullet lists.",
}

var modeRequests = map[Mode]string{
	ModeSummary:      "Summarize the following paper content concisely and logically.",
	ModeContribution: "Extract only the core contributions of the following paper as bullet points. Separate implementation ideas, theoretical contributions and experimental contributions where possible.",
	ModeWeakness: "Critically analyze the limitations and weaknesses of the following paper as bullet points. " +
		"Cover dataset or benchmark limits, missing baselines, unrealistic assumptions and reproducibility problems.",
	ModeStrengthWeakness: "Based on the following paper content, list three strengths first and then, on a new line, three weaknesses, each as bullet points.",
}

var systemTmpl = template.Must(template.New("system").Parse(
	`You are an assistant that analyzes research papers. Answer only in {{.Language}}. {{.Instruction}}`))

var userTmpl = template.Must(template.New("user").Parse(`{{.Request}}

{{.Text}}`))

type promptData struct {
	Language    string
	Instruction string
	Request     string
	Text        string
}

func render(tmpl *template.Template, lang Lang, mode Mode, text string) (string, error) {
	var buf bytes.Buffer
	err := tmpl.Execute(&buf, promptData{
		Language:    languageNames[lang],
		Instruction: modeInstructions[mode],
		Request:     modeRequests[mode],
		Text:        strings.TrimSpace(text),
	})
	return buf.String(), err
}
