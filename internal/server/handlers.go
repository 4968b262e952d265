// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/pdiddy/paperscout/internal/cite"
	"github.com/pdiddy/paperscout/internal/codesearch"
	"github.com/pdiddy/paperscout/internal/search"
	"github.com/pdiddy/paperscout/internal/summarize"
	"github.com/pdiddy/paperscout/internal/venue"
	"github.com/pdiddy/paperscout/pkg/types"
)

const maxBodyBytes = 1 << 20

var validate = validator.New(validator.WithRequiredStructEnabled())

// validationMessage turns validator errors into a client-facing message.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s must satisfy %s=%s", fe.Field(), fe.Tag(), fe.Param()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
		}
	}
	return strings.Join(msgs, "; ")
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// optionalInt parses a query parameter; absent yields nil.
func optionalInt(r *http.Request, name string) (*int, error) {
	v := strings.TrimSpace(r.URL.Query().Get(name))
	if v == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil, fmt.Errorf("%s must be an integer", name)
	}
	return &n, nil
}

// papersQuery bounds the retrieval parameters accepted over HTTP.
type papersQuery struct {
	Query        string `validate:"required,max=500"`
	MaxResults   int    `validate:"gte=1,lte=100"`
	MinCitations *int   `validate:"omitempty,gte=0"`
}

func (s *Server) searchPapers(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		writeError(w, http.StatusBadRequest, "q is required")
		return
	}

	req := search.Request{
		Query:      q,
		Venue:      r.URL.Query().Get("venue"),
		MaxResults: s.deps.MaxResults,
		FetchLimit: s.deps.FetchLimit,
	}
	var err error
	for name, dst := range map[string]**int{
		"year_from":     &req.YearFrom,
		"year_to":       &req.YearTo,
		"min_citations": &req.MinCitations,
	} {
		if *dst, err = optionalInt(r, name); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	n, err := optionalInt(r, "max_results")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if n != nil {
		req.MaxResults = *n
	}
	if req.MaxResults <= 0 {
		req.MaxResults = types.DefaultConfig().Search.MaxResults
	}
	if err := validate.Struct(papersQuery{
		Query:        req.Query,
		MaxResults:   req.MaxResults,
		MinCitations: req.MinCitations,
	}); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	writeJSON(w, http.StatusOK, s.deps.Retriever.Retrieve(r.Context(), req))
}

type venueResponse struct {
	Key   string   `json:"key"`
	Query []string `json:"query,omitempty"`
	Match []string `json:"match"`
}

func (s *Server) listVenues(w http.ResponseWriter, _ *http.Request) {
	keys := venue.Keys()
	out := make([]venueResponse, 0, len(keys))
	for _, k := range keys {
		a, _ := venue.Lookup(k)
		out = append(out, venueResponse{Key: k, Query: a.Query, Match: a.Match})
	}
	writeJSON(w, http.StatusOK, out)
}

type summarizeRequest struct {
	Text string `json:"text" validate:"max=200000"`
	Lang string `json:"lang"`
	Mode string `json:"mode"`
}

func (s *Server) summarizePaper(w http.ResponseWriter, r *http.Request) {
	var body summarizeRequest
	if err := decodeJSON(w, r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validate.Struct(body); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return
	}
	if body.Lang == "" {
		body.Lang = string(s.deps.Lang)
	}
	if body.Mode == "" {
		body.Mode = string(summarize.ModeSummary)
	}
	lang, err := summarize.ParseLang(body.Lang)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	mode, err := summarize.ParseMode(body.Mode)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(body.Text) == "" {
		writeJSON(w, http.StatusOK, map[string]string{"summary": summarize.NothingToSummarize})
		return
	}
	if s.deps.Summarizer == nil {
		writeError(w, http.StatusServiceUnavailable, "summarization is not configured")
		return
	}

	out, err := s.deps.Summarizer.Summarize(r.Context(), body.Text, lang, mode)
	if err != nil {
		s.logger.Error().Err(err).Msg("summarize failed")
		writeError(w, http.StatusBadGateway, "summarization failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"summary": out})
}

type citeRequest struct {
	Paper types.Paper `json:"paper"`
	Style string      `json:"style"`
	Index *int        `json:"index" validate:"omitempty,gte=1"`
}

func (s *Server) citePaper(w http.ResponseWriter, r *http.Request) {
	var body citeRequest
	if err := decodeJSON(w, r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validate.Struct(body); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return
	}
	if body.Style == "" {
		body.Style = string(cite.StyleIEEE)
	}
	style, err := cite.ParseStyle(body.Style)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	out, err := cite.Format(style, body.Paper, body.Index)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"citation": out})
}

type codeRequest struct {
	codesearch.Query
	MaxResults int `json:"max_results" validate:"gte=0,lte=30"`
}

func (s *Server) findCode(w http.ResponseWriter, r *http.Request) {
	var body codeRequest
	if err := decodeJSON(w, r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validate.Struct(body); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return
	}
	if body.MaxResults <= 0 {
		body.MaxResults = s.deps.CodeMaxResults
	}
	repos := s.deps.Finder.FindCode(r.Context(), body.Query, body.MaxResults)
	writeJSON(w, http.StatusOK, map[string]any{"repos": repos})
}

func (s *Server) listLibrary(w http.ResponseWriter, r *http.Request) {
	entries, err := s.deps.Library.Load(r.Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("loading library")
		writeError(w, http.StatusInternalServerError, "could not load library")
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

type addRequest struct {
	Paper *types.Paper `json:"paper"`
}

func (s *Server) addToLibrary(w http.ResponseWriter, r *http.Request) {
	var body addRequest
	if err := decodeJSON(w, r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if body.Paper == nil || strings.TrimSpace(body.Paper.Title) == "" {
		writeError(w, http.StatusBadRequest, "paper with a title is required")
		return
	}

	accepted, msg, err := s.deps.Library.Add(r.Context(), *body.Paper)
	if err != nil {
		s.logger.Error().Err(err).Msg("adding to library")
		writeError(w, http.StatusInternalServerError, "could not save paper")
		return
	}
	status := http.StatusCreated
	if !accepted {
		status = http.StatusOK
	}
	writeJSON(w, status, map[string]any{"accepted": accepted, "message": msg})
}

func (s *Server) clearLibrary(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Library.Clear(r.Context()); err != nil {
		s.logger.Error().Err(err).Msg("clearing library")
		writeError(w, http.StatusInternalServerError, "could not clear library")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) exportLibrary(w http.ResponseWriter, r *http.Request) {
	entries, err := s.deps.Library.Load(r.Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("loading library")
		writeError(w, http.StatusInternalServerError, "could not load library")
		return
	}
	papers := make([]types.Paper, 0, len(entries))
	for _, e := range entries {
		papers = append(papers, e.Paper)
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="library.bib"`)
	fmt.Fprintln(w, cite.ExportBibTeX(papers))
}
