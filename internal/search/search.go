// Package search looks up stored group records.
package search

import (
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"
	"github.com/samber/oops"

	"github.com/g5becks/groupnames/internal/manifest"
)

// Result is the best fuzzy match for one record.
type Result struct {
	Label      string `json:"label"`
	Source     string `json:"source"`
	MatchField string `json:"match_field"`
	MatchValue string `json:"match_value"`
	Score      int    `json:"score"`
}

type Options struct {
	Query  string
	Source string
	Limit  int
}

type indexEntry struct {
	Label      string
	Source     string
	MatchField string
	MatchValue string
}

type searchIndex struct {
	entries []indexEntry
}

func (s searchIndex) String(i int) string {
	return s.entries[i].MatchValue
}

func (s searchIndex) Len() int {
	return len(s.entries)
}

// Records fuzzy-matches the query against each record's label, presentation,
// generators, series members and maximal subgroups.
func Records(m *manifest.Manifest, opts Options) ([]Result, error) {
	query := strings.TrimSpace(opts.Query)
	if query == "" {
		return nil, oops.
			Code("INVALID_ARGS").
			Hint("Provide a non-empty search query").
			Errorf("search query cannot be empty")
	}

	entries := buildIndex(m, opts.Source)
	matches := fuzzy.FindFrom(query, searchIndex{entries: entries})

	// On equal scores the field indexed first wins, so a label match beats a
	// series or subgroup match with the same text.
	best := make(map[string]Result)
	bestIndex := make(map[string]int)
	for _, match := range matches {
		if match.Score < 0 {
			continue
		}
		entry := entries[match.Index]

		existing, exists := best[entry.Label]
		if exists && (match.Score < existing.Score ||
			match.Score == existing.Score && match.Index > bestIndex[entry.Label]) {
			continue
		}
		best[entry.Label] = Result{
			Label:      entry.Label,
			Source:     entry.Source,
			MatchField: entry.MatchField,
			MatchValue: entry.MatchValue,
			Score:      match.Score,
		}
		bestIndex[entry.Label] = match.Index
	}

	results := make([]Result, 0, len(best))
	for _, result := range best {
		results = append(results, result)
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Label < results[j].Label
	})

	if opts.Limit > 0 && len(results) > opts.Limit {
		results = results[:opts.Limit]
	}

	return results, nil
}

func buildIndex(m *manifest.Manifest, sourceFilter string) []indexEntry {
	var entries []indexEntry

	for _, rec := range m.Sorted() {
		if sourceFilter != "" && rec.Source != sourceFilter {
			continue
		}

		add := func(field, value string) {
			if value == "" {
				return
			}
			entries = append(entries, indexEntry{
				Label:      rec.Label,
				Source:     rec.Source,
				MatchField: field,
				MatchValue: value,
			})
		}

		add("label", rec.Label)
		add("presentation", rec.PresentationText())
		for _, generator := range rec.Generators() {
			add("generator", generator)
		}

		if rec.Page == nil {
			continue
		}

		for _, series := range rec.Page.Series {
			for _, member := range series.Members {
				add("series", member)
			}
		}

		if rec.Page.Subgroups != nil {
			for _, sub := range rec.Page.Subgroups.Maximal {
				add("subgroup", sub)
			}
			for _, quotient := range rec.Page.Subgroups.Quotients {
				add("quotient", quotient)
			}
		}
	}

	return entries
}
