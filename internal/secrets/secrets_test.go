// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package secrets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/paperscout/pkg/types"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name   string
		setup  func(t *testing.T) string
		want   map[string]string
		errMsg string
	}{
		{
			name: "reads key files and trims whitespace",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, GitHubToken, "  ghp_abc123  \n")
				writeFile(t, dir, SemanticScholarAPIKey, "sk_xyz789")
				writeFile(t, dir, CrossrefMailto, "user@example.com\n")
				return dir
			},
			want: map[string]string{
				GitHubToken:           "ghp_abc123",
				SemanticScholarAPIKey: "sk_xyz789",
				CrossrefMailto:        "user@example.com",
			},
		},
		{
			name: "returns empty map for nonexistent directory",
			setup: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "does-not-exist")
			},
			want: map[string]string{},
		},
		{
			name: "skips empty files",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, "anthropic-api-key", "valid-key")
				writeFile(t, dir, "empty-key", "")
				writeFile(t, dir, "whitespace-only", "   \n\t  ")
				return dir
			},
			want: map[string]string{
				"anthropic-api-key": "valid-key",
			},
		},
		{
			name: "skips dotfiles",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, ".gitkeep", "")
				writeFile(t, dir, ".hidden-key", "secret")
				writeFile(t, dir, OpenAIAPIKey, "sk_real")
				return dir
			},
			want: map[string]string{
				OpenAIAPIKey: "sk_real",
			},
		},
		{
			name: "skips subdirectories",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, "anthropic-api-key", "ak_123")
				require.NoError(t, os.Mkdir(filepath.Join(dir, "subdir"), 0o755))
				return dir
			},
			want: map[string]string{
				"anthropic-api-key": "ak_123",
			},
		},
		{
			name: "returns empty map for empty directory",
			setup: func(t *testing.T) string {
				return t.TempDir()
			},
			want: map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := tt.setup(t)
			got, err := Load(dir, zerolog.Nop())
			if tt.errMsg != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadUnreadableFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "good-key", "value123")

	// Create a file then remove read permission.
	badPath := filepath.Join(dir, "bad-key")
	require.NoError(t, os.WriteFile(badPath, []byte("secret"), 0o000))
	t.Cleanup(func() { os.Chmod(badPath, 0o644) })

	got, err := Load(dir, zerolog.Nop())
	require.NoError(t, err)
	// The good file should still be returned; the bad file is skipped with a warning.
	assert.Equal(t, "value123", got["good-key"])
	_, hasBad := got["bad-key"]
	assert.False(t, hasBad, "unreadable file should not appear in result")
}

func TestApply(t *testing.T) {
	for _, env := range envFallback {
		t.Setenv(env, "")
	}
	t.Setenv("GITHUB_TOKEN", "env-token")

	cfg := types.DefaultConfig()
	cfg.Search.CrossrefMailto = "from-config@example.com"
	Apply(&cfg, map[string]string{
		SemanticScholarAPIKey: "s2-file",
		CrossrefMailto:        "from-file@example.com",
		OpenAIAPIKey:          "sk-file",
		AnthropicAPIKey:       "ak-file",
	})

	assert.Equal(t, "s2-file", cfg.Search.SemanticScholarAPIKey)
	assert.Equal(t, "from-config@example.com", cfg.Search.CrossrefMailto, "config wins over files")
	assert.Equal(t, "env-token", cfg.CodeSearch.GitHubToken, "env is the last resort")
	assert.Equal(t, "sk-file", cfg.Summarize.APIKey, "default provider is openai")
}

func TestApplyAnthropicProvider(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "ak-env")

	cfg := types.DefaultConfig()
	cfg.Summarize.Provider = "anthropic"
	Apply(&cfg, map[string]string{OpenAIAPIKey: "sk-file"})
	assert.Equal(t, "ak-env", cfg.Summarize.APIKey)
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}
