// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package venue maps user-supplied venue names to the alternate spellings
// used for broadening searches and for containment filtering.
//
// The table is embedded YAML parsed once at package init. Lookups are pure
// and never perform I/O.
package venue

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"go.yaml.in/yaml/v3"
)

//go:embed venues.yaml
var tableYAML []byte

// Aliases is one canonical venue entry.
type Aliases struct {
	// Query holds outbound search spellings, case as authored.
	Query []string `yaml:"query"`
	// Match holds lowercase substrings accepted by the venue filter.
	Match []string `yaml:"match"`
}

var table = mustParse(tableYAML)

func mustParse(data []byte) map[string]Aliases {
	t, err := parseTable(data)
	if err != nil {
		panic(err)
	}
	return t
}

// parseTable decodes a venue table and normalizes its keys and match lists.
func parseTable(data []byte) (map[string]Aliases, error) {
	var raw map[string]Aliases
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing venue table: %w", err)
	}
	t := make(map[string]Aliases, len(raw))
	for k, a := range raw {
		key := Normalize(k)
		if key == "" {
			return nil, fmt.Errorf("venue table: empty key")
		}
		if _, dup := t[key]; dup {
			return nil, fmt.Errorf("venue table: duplicate key %q", key)
		}
		match := make([]string, 0, len(a.Match))
		for _, m := range a.Match {
			if m = Normalize(m); m != "" {
				match = append(match, m)
			}
		}
		t[key] = Aliases{Query: a.Query, Match: match}
	}
	return t, nil
}

// Normalize trims whitespace and lowercases s.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Resolve returns the query-form aliases for venue. A known key yields its
// authored list; any other non-blank input yields the trimmed input as a
// single literal alias; blank input yields nil.
func Resolve(venue string) []string {
	trimmed := strings.TrimSpace(venue)
	if trimmed == "" {
		return nil
	}
	if a, ok := table[Normalize(trimmed)]; ok && len(a.Query) > 0 {
		return append([]string(nil), a.Query...)
	}
	return []string{trimmed}
}

// MatchAliases returns the lowercase containment candidates for venue.
// Unknown input yields the normalized input itself.
func MatchAliases(venue string) []string {
	key := Normalize(venue)
	if key == "" {
		return nil
	}
	if a, ok := table[key]; ok && len(a.Match) > 0 {
		out := append([]string(nil), a.Match...)
		if !contains(out, key) {
			out = append(out, key)
		}
		return out
	}
	return []string{key}
}

// Matches reports whether target contains any of the candidates,
// case-insensitively.
func Matches(target string, candidates []string) bool {
	t := strings.ToLower(target)
	for _, c := range candidates {
		if c != "" && strings.Contains(t, strings.ToLower(c)) {
			return true
		}
	}
	return false
}

// Keys returns the canonical venue keys in sorted order.
func Keys() []string {
	keys := make([]string, 0, len(table))
	for k := range table {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Lookup returns the entry for a canonical key.
func Lookup(key string) (Aliases, bool) {
	a, ok := table[Normalize(key)]
	if !ok {
		return Aliases{}, false
	}
	return Aliases{
		Query: append([]string(nil), a.Query...),
		Match: append([]string(nil), a.Match...),
	}, true
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
