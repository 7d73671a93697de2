package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/g5becks/groupnames/internal/extract"
	"github.com/g5becks/groupnames/internal/manifest"
	"github.com/g5becks/groupnames/internal/mathnode"
)

const emptyCharTable = "(empty char table)"

// RecordSummary is the listing view of a stored record.
type RecordSummary struct {
	Label        string   `json:"label"`
	Source       string   `json:"source"`
	Location     string   `json:"location"`
	Generators   []string `json:"generators,omitempty"`
	Relations    int      `json:"relations"`
	Presentation string   `json:"presentation,omitempty"`
	CharRows     int      `json:"char_rows"`
	CharCells    int      `json:"char_cells"`
	Degradations int      `json:"degradations,omitempty"`
}

type ListOptions struct {
	JSON    bool
	Verbose bool
}

// Summarize builds the listing view of each record, keeping their order.
func Summarize(records []*manifest.Record) []RecordSummary {
	summaries := make([]RecordSummary, 0, len(records))
	for _, rec := range records {
		summary := RecordSummary{
			Label:        rec.Label,
			Source:       rec.Source,
			Location:     rec.Location,
			Generators:   rec.Generators(),
			Presentation: rec.PresentationText(),
		}
		summary.CharRows, summary.CharCells = rec.CharTableSize()
		if rec.Page != nil {
			if group, ok := rec.Page.Group(); ok {
				summary.Relations = len(group.Relations)
			}
			summary.Degradations = len(rec.Page.Degradations)
		}
		summaries = append(summaries, summary)
	}
	return summaries
}

func RenderRecordList(w io.Writer, records []RecordSummary, opts ListOptions) error {
	if opts.JSON {
		return renderRecordListJSON(w, records)
	}

	renderRecordListTable(w, records, opts)
	return nil
}

func renderRecordListJSON(w io.Writer, records []RecordSummary) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(records); err != nil {
		return fmt.Errorf("encode record list json: %w", err)
	}

	return nil
}

func renderRecordListTable(w io.Writer, records []RecordSummary, opts ListOptions) {
	writer := table.NewWriter()
	writer.SetOutputMirror(w)
	writer.SetStyle(table.StyleRounded)

	if opts.Verbose {
		writer.AppendHeader(table.Row{"GROUP", "SOURCE", "GENERATORS", "CHAR TABLE", "PRESENTATION", "LOCATION"})
	} else {
		writer.AppendHeader(table.Row{"GROUP", "SOURCE", "GENERATORS", "CHAR TABLE"})
	}

	for _, rec := range records {
		generators := RenderGenerators(rec)
		charTable := RenderCharTableSize(rec)

		if opts.Verbose {
			writer.AppendRow(table.Row{
				rec.Label,
				rec.Source,
				generators,
				charTable,
				rec.Presentation,
				rec.Location,
			})
			continue
		}

		writer.AppendRow(table.Row{
			rec.Label,
			rec.Source,
			generators,
			charTable,
		})
	}

	writer.Render()
}

func RenderGenerators(rec RecordSummary) string {
	if len(rec.Generators) == 0 {
		return "-"
	}
	return strings.Join(rec.Generators, ", ")
}

func RenderCharTableSize(rec RecordSummary) string {
	if rec.CharCells == 0 {
		return "-"
	}

	size := fmt.Sprintf("%d rows, %d cells", rec.CharRows, rec.CharCells)
	if rec.Degradations > 0 {
		size += fmt.Sprintf(" (%d degraded)", rec.Degradations)
	}
	return size
}

// RenderCharTable lays out a character table with every cell rendered as LaTeX.
func RenderCharTable(charTable extract.CharTable) string {
	if charTable.Cells() == 0 {
		return emptyCharTable
	}

	writer := table.NewWriter()
	writer.SetStyle(table.StyleLight)

	for _, row := range charTable {
		cells := mathnode.RenderAll(row)
		tableRow := make(table.Row, len(cells))
		for i, cell := range cells {
			tableRow[i] = cell
		}
		writer.AppendRow(tableRow)
	}

	return writer.Render()
}
