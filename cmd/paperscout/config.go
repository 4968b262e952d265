// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/pdiddy/paperscout/pkg/types"
)

// registerDefaults declares every config key with its default so that
// environment overrides reach Unmarshal.
func registerDefaults(v *viper.Viper) {
	d := types.DefaultConfig()
	defaults := map[string]any{
		"search.timeout":                  d.Search.Timeout,
		"search.user_agent":               d.Search.UserAgent,
		"search.max_results":              d.Search.MaxResults,
		"search.fetch_limit":              d.Search.FetchLimit,
		"search.rate_limit":               d.Search.RateLimit,
		"search.alias_concurrency":        d.Search.AliasConcurrency,
		"search.semantic_scholar_api_key": d.Search.SemanticScholarAPIKey,
		"search.crossref_mailto":          d.Search.CrossrefMailto,
		"summarize.provider":              d.Summarize.Provider,
		"summarize.model":                 d.Summarize.Model,
		"summarize.api_key":               d.Summarize.APIKey,
		"summarize.lang":                  d.Summarize.Lang,
		"summarize.max_retries":           d.Summarize.MaxRetries,
		"summarize.timeout":               d.Summarize.Timeout,
		"library.backend":                 d.Library.Backend,
		"library.path":                    d.Library.Path,
		"codesearch.github_token":         d.CodeSearch.GitHubToken,
		"codesearch.max_results":          d.CodeSearch.MaxResults,
		"codesearch.timeout":              d.CodeSearch.Timeout,
		"server.addr":                     d.Server.Addr,
		"server.cors_origins":             d.Server.CORSOrigins,
		"logging.level":                   d.Logging.Level,
		"logging.format":                  d.Logging.Format,
		"logging.output":                  d.Logging.Output,
	}
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
}

// loadConfig resolves defaults, the config file and the environment into
// a typed Config.
func loadConfig(v *viper.Viper) (types.Config, error) {
	registerDefaults(v)
	cfg := types.DefaultConfig()
	if err := v.Unmarshal(&cfg); err != nil {
		return types.Config{}, fmt.Errorf("decoding configuration: %w", err)
	}
	return cfg, nil
}
