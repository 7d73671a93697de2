// Package extract locates the interesting parts of a GroupNames page and feeds them to
// the math and presentation parsers.
package extract

import (
	"strconv"

	"github.com/g5becks/groupnames/internal/mathnode"
	"github.com/g5becks/groupnames/internal/presentation"
)

// Page is everything extracted from one group page.
type Page struct {
	Label        string            `json:"label"`
	URL          string            `json:"url,omitempty"`
	Presentation *Presentation     `json:"presentation,omitempty"`
	CharTable    CharTable         `json:"char_table,omitempty"`
	Polynomials  mathnode.Sequence `json:"polynomials,omitempty"`
	Series       []Series          `json:"series,omitempty"`
	Subgroups    *Subgroups        `json:"subgroups,omitempty"`
	Links        []Link            `json:"links,omitempty"`
	Degradations []Degradation     `json:"degradations,omitempty"`
	Warnings     []string          `json:"warnings,omitempty"`
}

// Presentation is the raw generators-and-relations text and its parsed model.
type Presentation struct {
	Raw   string                 `json:"raw"`
	Group presentation.FreeGroup `json:"group"`
}

// CharTable holds one parsed node per cell, row by row.
type CharTable []mathnode.Sequence

// Series is a named subgroup series, listed by group label.
type Series struct {
	Name    string   `json:"name"`
	Members []string `json:"members"`
}

// Subgroups lists the maximal subgroups and maximal quotients of a group.
type Subgroups struct {
	Maximal   []string `json:"maximal"`
	Quotients []string `json:"quotients"`
}

// Link is one row of an index table.
type Link struct {
	Name  string `json:"name"`
	Href  string `json:"href"`
	Order int    `json:"order"`
}

// Degradation is a math degradation located in a page section and cell.
type Degradation struct {
	Section string `json:"section"`
	Row     int    `json:"row"`
	Cell    int    `json:"cell"`
	mathnode.Degradation
}

func (d Degradation) String() string {
	return d.Section + "[" + strconv.Itoa(d.Row) + "][" + strconv.Itoa(d.Cell) + "]: " + d.Degradation.String()
}

// Group returns the parsed presentation, if the page had one.
func (p *Page) Group() (presentation.FreeGroup, bool) {
	if p.Presentation == nil {
		return presentation.FreeGroup{}, false
	}
	return p.Presentation.Group, true
}

// Cells counts the parsed character table cells.
func (t CharTable) Cells() int {
	n := 0
	for _, row := range t {
		n += len(row)
	}
	return n
}
