// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads API keys and credentials from a directory of plain-text files.
// Each file in the directory represents one secret: the filename is the key name and the
// file contents (trimmed) are the value.
//
// Supported key files: semantic-scholar-api-key, crossref-mailto, github-token,
// anthropic-api-key, openai-api-key.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/pdiddy/paperscout/pkg/types"
)

// Secret file names.
const (
	SemanticScholarAPIKey = "semantic-scholar-api-key"
	CrossrefMailto        = "crossref-mailto"
	GitHubToken           = "github-token"
	AnthropicAPIKey       = "anthropic-api-key"
	OpenAIAPIKey          = "openai-api-key"
)

// envFallback maps a secret name to the conventional environment variable
// consulted when neither config nor the secrets directory set it.
var envFallback = map[string]string{
	SemanticScholarAPIKey: "S2_API_KEY",
	CrossrefMailto:        "CROSSREF_MAILTO",
	GitHubToken:           "GITHUB_TOKEN",
	AnthropicAPIKey:       "ANTHROPIC_API_KEY",
	OpenAIAPIKey:          "OPENAI_API_KEY",
}

// Load reads all files in dir and returns a map of filename to trimmed contents.
// A missing directory or missing files are not errors; Load returns an empty map.
// Unreadable files are logged at warn and skipped.
func Load(dir string, log zerolog.Logger) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			log.Warn().Err(err).Str("secret", name).Msg("could not read secret")
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}

// Apply fills credential fields of cfg that are still empty, first from
// secrets and then from the environment.
func Apply(cfg *types.Config, secrets map[string]string) {
	fill(&cfg.Search.SemanticScholarAPIKey, secrets, SemanticScholarAPIKey)
	fill(&cfg.Search.CrossrefMailto, secrets, CrossrefMailto)
	fill(&cfg.CodeSearch.GitHubToken, secrets, GitHubToken)

	switch strings.ToLower(cfg.Summarize.Provider) {
	case "anthropic", "claude":
		fill(&cfg.Summarize.APIKey, secrets, AnthropicAPIKey)
	default:
		fill(&cfg.Summarize.APIKey, secrets, OpenAIAPIKey)
	}
}

func fill(field *string, secrets map[string]string, name string) {
	if *field != "" {
		return
	}
	if v := secrets[name]; v != "" {
		*field = v
		return
	}
	*field = strings.TrimSpace(os.Getenv(envFallback[name]))
}
