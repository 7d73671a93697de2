package search

import (
	"regexp"
	"strings"

	"github.com/samber/oops"

	"github.com/g5becks/groupnames/internal/manifest"
	"github.com/g5becks/groupnames/internal/mathnode"
)

// CellResult is a character table cell whose LaTeX matched.
type CellResult struct {
	Label string `json:"label"`
	Row   int    `json:"row"`
	Cell  int    `json:"cell"`
	LaTeX string `json:"latex"`
}

// CellOptions configures character table search.
type CellOptions struct {
	Query    string
	Source   string
	UseRegex bool
	Limit    int
}

// Cells searches the rendered LaTeX of every character table cell, literally or by
// regular expression. Results follow label, row and cell order.
func Cells(m *manifest.Manifest, opts CellOptions) ([]CellResult, error) {
	if opts.Query == "" {
		return nil, oops.
			Code("INVALID_ARGS").
			Hint("Provide a non-empty search query").
			Errorf("search query cannot be empty")
	}

	match := func(s string) bool { return strings.Contains(s, opts.Query) }
	if opts.UseRegex {
		re, err := regexp.Compile(opts.Query)
		if err != nil {
			return nil, oops.
				Code("INVALID_ARGS").
				With("pattern", opts.Query).
				Wrapf(err, "compiling search pattern")
		}
		match = re.MatchString
	}

	var results []CellResult
	for _, rec := range m.Sorted() {
		if opts.Source != "" && rec.Source != opts.Source {
			continue
		}
		if rec.Page == nil {
			continue
		}

		for rowIndex, row := range rec.Page.CharTable {
			for cellIndex, cell := range row {
				latex := mathnode.Render(cell)
				if !match(latex) {
					continue
				}

				results = append(results, CellResult{
					Label: rec.Label,
					Row:   rowIndex,
					Cell:  cellIndex,
					LaTeX: latex,
				})

				if opts.Limit > 0 && len(results) >= opts.Limit {
					return results, nil
				}
			}
		}
	}

	return results, nil
}
