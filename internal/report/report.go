// Package report renders a stored group record as Markdown, and optionally HTML.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/ast"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"github.com/g5becks/groupnames/internal/extract"
	"github.com/g5becks/groupnames/internal/manifest"
	"github.com/g5becks/groupnames/internal/mathnode"
)

// Markdown renders rec. Math cells are written as inline $...$ LaTeX.
func Markdown(rec *manifest.Record) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", rec.Label)
	fmt.Fprintf(&b, "- Source: `%s`\n", rec.Source)
	if rec.Location != "" {
		fmt.Fprintf(&b, "- Location: %s\n", rec.Location)
	}
	if !rec.ExtractedAt.IsZero() {
		fmt.Fprintf(&b, "- Extracted: %s\n", rec.ExtractedAt.Format(time.RFC3339))
	}

	page := rec.Page
	if page == nil {
		return b.String()
	}

	if group, ok := page.Group(); ok {
		b.WriteString("\n## Presentation\n\n")
		fmt.Fprintf(&b, "`%s`\n\n", group.String())
		fmt.Fprintf(&b, "- Generators: %s\n", strings.Join(group.Generators, ", "))
		for _, chain := range group.Relations {
			fmt.Fprintf(&b, "- Relation: `%s`\n", chain.String())
		}
	}

	if page.CharTable.Cells() > 0 {
		b.WriteString("\n## Character table\n\n")
		writeCharTable(&b, page.CharTable)
	}

	if len(page.Polynomials) > 0 {
		b.WriteString("\n## Galois polynomials\n\n")
		for _, poly := range page.Polynomials {
			fmt.Fprintf(&b, "- %s\n", inlineMath(poly))
		}
	}

	if len(page.Series) > 0 {
		b.WriteString("\n## Series\n\n")
		for _, series := range page.Series {
			fmt.Fprintf(&b, "- **%s**: %s\n", series.Name, strings.Join(series.Members, ", "))
		}
	}

	if page.Subgroups != nil {
		b.WriteString("\n## Maximal subgroups\n\n")
		fmt.Fprintf(&b, "- Subgroups: %s\n", listOrNone(page.Subgroups.Maximal))
		fmt.Fprintf(&b, "- Quotients: %s\n", listOrNone(page.Subgroups.Quotients))
	}

	if len(page.Degradations) > 0 || len(page.Warnings) > 0 {
		b.WriteString("\n## Notes\n\n")
		for _, warning := range page.Warnings {
			fmt.Fprintf(&b, "- %s\n", warning)
		}
		for _, degradation := range page.Degradations {
			fmt.Fprintf(&b, "- degraded: `%s`\n", degradation.String())
		}
	}

	return b.String()
}

// writeCharTable writes the table as a Markdown table, taking the first row as the
// header and padding short rows.
func writeCharTable(b *strings.Builder, charTable extract.CharTable) {
	width := 0
	for _, row := range charTable {
		width = max(width, len(row))
	}

	for i, row := range charTable {
		cells := make([]string, width)
		for j := range width {
			if j < len(row) {
				cells[j] = escapeCell(inlineMath(row[j]))
			}
		}
		fmt.Fprintf(b, "| %s |\n", strings.Join(cells, " | "))

		if i == 0 {
			b.WriteString("|" + strings.Repeat(" --- |", width) + "\n")
		}
	}
}

func inlineMath(n mathnode.Node) string {
	latex := mathnode.Render(n)
	if latex == "" {
		return ""
	}
	return "$" + latex + "$"
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

func listOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}

// HTML converts a Markdown report into a complete HTML page titled title.
func HTML(md []byte, title string) []byte {
	mdParser := parser.NewWithExtensions(parser.CommonExtensions)
	doc := mdParser.Parse(md)

	renderer := mdhtml.NewRenderer(mdhtml.RendererOptions{
		Title: title,
		Flags: mdhtml.CommonFlags | mdhtml.CompletePage,
	})

	return markdown.Render(doc, renderer)
}

// Heading is a section heading of a rendered report.
type Heading struct {
	Level int    `json:"level"`
	Text  string `json:"text"`
}

// Outline lists the headings of a Markdown report in document order.
func Outline(md []byte) []Heading {
	mdParser := parser.NewWithExtensions(parser.CommonExtensions)
	doc := mdParser.Parse(md)

	var headings []Heading
	ast.WalkFunc(doc, func(node ast.Node, entering bool) ast.WalkStatus {
		if !entering {
			return ast.GoToNext
		}

		if heading, isHeading := node.(*ast.Heading); isHeading {
			if text := extractText(heading); text != "" {
				headings = append(headings, Heading{Level: heading.Level, Text: text})
			}
		}

		return ast.GoToNext
	})

	return headings
}

func extractText(node ast.Node) string {
	var buf strings.Builder
	ast.WalkFunc(node, func(n ast.Node, entering bool) ast.WalkStatus {
		if entering {
			if text, ok := n.(*ast.Text); ok {
				buf.Write(text.Literal)
			}
		}
		return ast.GoToNext
	})
	return strings.Join(strings.Fields(buf.String()), " ")
}
