// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cite formats papers as IEEE references, BibTeX entries and
// CSL-YAML items. All formatters are pure and perform no network access.
package cite

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/paperscout/pkg/types"
)

// ErrUnknownStyle is returned for a citation style other than the
// supported ones.
var ErrUnknownStyle = errors.New("unknown citation style")

// Style names a citation output format.
type Style string

// Supported styles.
const (
	StyleIEEE   Style = "ieee"
	StyleBibTeX Style = "bibtex"
	StyleCSL    Style = "csl"
)

// ParseStyle validates a style name, case-insensitively.
func ParseStyle(s string) (Style, error) {
	switch st := Style(strings.ToLower(strings.TrimSpace(s))); st {
	case StyleIEEE, StyleBibTeX, StyleCSL:
		return st, nil
	default:
		return "", fmt.Errorf("%w: %q (want ieee, bibtex or csl)", ErrUnknownStyle, s)
	}
}

// Write formats papers in style to w. IEEE and BibTeX entries are numbered
// from 1.
func Write(w io.Writer, style Style, papers []types.Paper) error {
	switch style {
	case StyleIEEE:
		for i, p := range papers {
			n := i + 1
			if _, err := fmt.Fprintln(w, IEEE(p, &n)); err != nil {
				return err
			}
		}
		return nil
	case StyleBibTeX:
		_, err := fmt.Fprintln(w, ExportBibTeX(papers))
		return err
	case StyleCSL:
		return FormatCSL(papers, w)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownStyle, style)
	}
}

// Format renders a single paper in style. index is optional.
func Format(style Style, p types.Paper, index *int) (string, error) {
	switch style {
	case StyleIEEE:
		return IEEE(p, index), nil
	case StyleBibTeX:
		return BibTeX(p, index), nil
	case StyleCSL:
		var b strings.Builder
		if err := FormatCSL([]types.Paper{p}, &b); err != nil {
			return "", err
		}
		return b.String(), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownStyle, style)
	}
}

// authorList splits the comma-joined author string, dropping the sentinel.
func authorList(p types.Paper) []string {
	if p.Authors == types.NoAuthors {
		return nil
	}
	var out []string
	for _, a := range strings.Split(p.Authors, ",") {
		if a = strings.TrimSpace(a); a != "" {
			out = append(out, a)
		}
	}
	return out
}
