package types

import "time"

// HTTPConfig holds shared HTTP settings used by components that make network requests.
type HTTPConfig struct {
	// Timeout is the per-request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "paperscout/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// SearchConfig holds settings for paper retrieval.
type SearchConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// MaxResults is the number of papers returned to the caller (default 5).
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results"`

	// FetchLimit is the page size requested from each provider call. The
	// effective limit is never below MaxResults (default 8).
	FetchLimit int `json:"fetch_limit" yaml:"fetch_limit" mapstructure:"fetch_limit"`

	// RateLimit is the sustained requests per second allowed per provider.
	RateLimit float64 `json:"rate_limit" yaml:"rate_limit" mapstructure:"rate_limit"`

	// AliasConcurrency bounds concurrent venue alias queries. 1 keeps the
	// calls sequential.
	AliasConcurrency int `json:"alias_concurrency" yaml:"alias_concurrency" mapstructure:"alias_concurrency"`

	// SemanticScholarAPIKey is an optional API key for higher rate limits.
	SemanticScholarAPIKey string `json:"semantic_scholar_api_key,omitempty" yaml:"semantic_scholar_api_key,omitempty" mapstructure:"semantic_scholar_api_key"`

	// CrossrefMailto is sent as the mailto parameter for Crossref's polite pool.
	CrossrefMailto string `json:"crossref_mailto,omitempty" yaml:"crossref_mailto,omitempty" mapstructure:"crossref_mailto"`
}

// SummarizeConfig holds settings for the summarization backend.
type SummarizeConfig struct {
	// Provider selects the chat backend: "anthropic" or "openai".
	Provider string `json:"provider" yaml:"provider" mapstructure:"provider"`

	// Model is the model identifier passed to the provider.
	Model string `json:"model" yaml:"model" mapstructure:"model"`

	// APIKey authenticates against the provider.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`

	// Lang is the default summary language: ko, en or ja.
	Lang string `json:"lang" yaml:"lang" mapstructure:"lang"`

	// MaxRetries is the number of retry attempts for failed calls (default 2).
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`

	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`
}

// LibraryConfig holds settings for the personal paper library.
type LibraryConfig struct {
	// Backend selects the store: "json" or "sqlite".
	Backend string `json:"backend" yaml:"backend" mapstructure:"backend"`

	// Path is the JSON file or SQLite database location.
	Path string `json:"path" yaml:"path" mapstructure:"path"`
}

// CodeSearchConfig holds settings for linked-code discovery.
type CodeSearchConfig struct {
	// GitHubToken authenticates GitHub search requests.
	GitHubToken string `json:"github_token,omitempty" yaml:"github_token,omitempty" mapstructure:"github_token"`

	// MaxResults is the number of repositories returned (default 3).
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results"`

	// Timeout is the HTTP timeout for PDF downloads and GitHub search.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`
}

// ServerConfig holds settings for the HTTP API.
type ServerConfig struct {
	Addr string `json:"addr" yaml:"addr" mapstructure:"addr"`

	// CORSOrigins lists origins allowed to call the API from a browser.
	CORSOrigins []string `json:"cors_origins" yaml:"cors_origins" mapstructure:"cors_origins"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	// Level is the minimum log level (debug, info, warn, error).
	Level string `json:"level" yaml:"level" mapstructure:"level"`

	// Format is "console" or "json".
	Format string `json:"format" yaml:"format" mapstructure:"format"`

	// Output is "stdout" or "stderr".
	Output string `json:"output" yaml:"output" mapstructure:"output"`
}

// Config groups every component configuration.
type Config struct {
	Search     SearchConfig     `json:"search" yaml:"search" mapstructure:"search"`
	Summarize  SummarizeConfig  `json:"summarize" yaml:"summarize" mapstructure:"summarize"`
	Library    LibraryConfig    `json:"library" yaml:"library" mapstructure:"library"`
	CodeSearch CodeSearchConfig `json:"codesearch" yaml:"codesearch" mapstructure:"codesearch"`
	Server     ServerConfig     `json:"server" yaml:"server" mapstructure:"server"`
	Logging    LoggingConfig    `json:"logging" yaml:"logging" mapstructure:"logging"`
}

// DefaultConfig returns the configuration used when no file, env var or
// flag overrides a value.
func DefaultConfig() Config {
	return Config{
		Search: SearchConfig{
			HTTPConfig: HTTPConfig{
				Timeout:   20 * time.Second,
				UserAgent: "paperscout/0.1",
			},
			MaxResults:       5,
			FetchLimit:       8,
			RateLimit:        1,
			AliasConcurrency: 1,
		},
		Summarize: SummarizeConfig{
			Provider:   "openai",
			Model:      "gpt-4o-mini",
			Lang:       "ko",
			MaxRetries: 2,
			Timeout:    60 * time.Second,
		},
		Library: LibraryConfig{
			Backend: "json",
			Path:    "data/library.json",
		},
		CodeSearch: CodeSearchConfig{
			MaxResults: 3,
			Timeout:    30 * time.Second,
		},
		Server: ServerConfig{
			Addr:        ":8080",
			CORSOrigins: []string{"*"},
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "console",
			Output: "stderr",
		},
	}
}
