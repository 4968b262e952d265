// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/pdiddy/paperscout/internal/codesearch"
	"github.com/pdiddy/paperscout/internal/library"
	"github.com/pdiddy/paperscout/internal/observability"
	"github.com/pdiddy/paperscout/internal/server"
	"github.com/pdiddy/paperscout/internal/summarize"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the JSON HTTP API",
	Long: `Serve exposes search, summarize, cite, code and library over HTTP, plus
/healthz and Prometheus metrics at /metrics.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default from config, :8080)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	addr, _ := cmd.Flags().GetString("addr")
	if addr == "" {
		addr = appCfg.Server.Addr
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := observability.NewMetrics(reg, "paperscout")

	store, err := library.Open(appCfg.Library)
	if err != nil {
		return err
	}
	defer store.Close()

	lang, err := summarize.ParseLang(appCfg.Summarize.Lang)
	if err != nil {
		return err
	}

	deps := server.Deps{
		Retriever:      newRetriever(appCfg.Search, metrics),
		Library:        store,
		Finder:         codesearch.NewFinder(appCfg.CodeSearch, logger),
		Gatherer:       reg,
		MaxResults:     appCfg.Search.MaxResults,
		FetchLimit:     appCfg.Search.FetchLimit,
		Lang:           lang,
		CodeMaxResults: appCfg.CodeSearch.MaxResults,
		CORSOrigins:    appCfg.Server.CORSOrigins,
	}
	if s, err := summarize.New(appCfg.Summarize, logger); err != nil {
		logger.Warn().Err(err).Msg("summarization disabled")
	} else {
		deps.Summarizer = s
	}

	srv := server.New(addr, deps, logger)
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-cmd.Context().Done():
		logger.Info().Msg("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(ctx)
	}
}
