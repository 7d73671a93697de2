package extract

import (
	"io"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/samber/oops"

	"github.com/g5becks/groupnames/internal/markup"
	"github.com/g5becks/groupnames/internal/mathnode"
	"github.com/g5becks/groupnames/internal/presentation"
)

// Selectors and markers of a GroupNames page.
const (
	presentationMarker = "Generators and relations"
	labelPrefix        = "for "
	charTableSelector  = ".chartable"
	polynomialSelector = ".galpoly td"
	seriesSelector     = "table.series"
	navSelector        = "nav ul li"
	navLabelMarker     = "label"
	upperCentral       = "Upper central"
	maximalMarker      = "maximal subgroup"
	quotientMarker     = "quotient"
	indexSelector      = ".gptable"
)

// Section names used in degradation reports.
const (
	SectionCharTable   = "chartable"
	SectionPolynomials = "galpoly"
)

var seriesMarkers = []string{"Series", "Central", "Jennings"}

type Options struct {
	Math         mathnode.Options
	Presentation presentation.Options
}

// Extractor is stateless after construction and safe for concurrent use.
type Extractor struct {
	math         *mathnode.Parser
	presentation presentation.Options
}

func New(opts Options) *Extractor {
	return &Extractor{
		math:         mathnode.New(opts.Math),
		presentation: opts.Presentation,
	}
}

// Read parses an HTML document and extracts a Page from it. pageURL resolves relative
// links and may be empty. label overrides the label found on the page.
func (x *Extractor) Read(r io.Reader, pageURL, label string) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, oops.
			Code("EXTRACT_FAILED").
			With("url", pageURL).
			Wrapf(err, "parsing html document")
	}
	return x.Document(doc, pageURL, label)
}

// Document extracts a Page from a parsed document.
//
// A page without a presentation paragraph is kept with a warning; a presentation that
// does not parse fails the page.
func (x *Extractor) Document(doc *goquery.Document, pageURL, label string) (*Page, error) {
	page := &Page{URL: pageURL}

	if found, raw, ok := FindPresentation(doc); ok {
		if label == "" {
			label = found
		}
		group, err := presentation.ParseWithOptions(raw, label, x.presentation)
		if err != nil {
			return nil, oops.
				Code("EXTRACT_FAILED").
				With("url", pageURL).
				With("label", label).
				Wrapf(err, "parsing presentation")
		}
		page.Presentation = &Presentation{Raw: raw, Group: group}
	} else {
		page.Warnings = append(page.Warnings, "no generators and relations paragraph")
	}

	if label == "" {
		label = SelfLabel(doc)
	}
	page.Label = label

	charTable, degradations, err := x.CharTable(doc)
	if err != nil {
		return nil, err
	}
	page.CharTable = charTable
	page.Degradations = append(page.Degradations, degradations...)

	polynomials, degradations, err := x.Polynomials(doc)
	if err != nil {
		return nil, err
	}
	page.Polynomials = polynomials
	page.Degradations = append(page.Degradations, degradations...)

	page.Series = SeriesOf(doc)
	if subgroups, ok := MaximalSubgroups(doc); ok {
		page.Subgroups = &subgroups
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, oops.
			Code("EXTRACT_FAILED").
			With("url", pageURL).
			Wrapf(err, "parsing page url")
	}
	page.Links = GroupLinks(doc, base)

	return page, nil
}

// FindPresentation finds the first paragraph mentioning generators and relations and
// splits it into the label on its first line and the presentation text after it.
func FindPresentation(doc *goquery.Document) (label, text string, ok bool) {
	doc.Find("p").EachWithBreak(func(_ int, p *goquery.Selection) bool {
		inner := innerText(p)
		if !strings.Contains(inner, presentationMarker) {
			return true
		}

		first, rest, _ := strings.Cut(inner, "\n")
		if _, after, found := strings.Cut(first, labelPrefix); found {
			label = strings.TrimSpace(after)
		}
		text = strings.TrimSpace(rest)
		if text == "" {
			text = strings.TrimSpace(first)
		}
		ok = true
		return false
	})
	return label, text, ok
}

// CharTable parses every cell of the first character table.
func (x *Extractor) CharTable(doc *goquery.Document) (CharTable, []Degradation, error) {
	var (
		table        CharTable
		degradations []Degradation
		failure      error
	)

	doc.Find(charTableSelector).First().Find("tr").EachWithBreak(func(_ int, tr *goquery.Selection) bool {
		cells := tr.Find("td, th")
		if cells.Length() == 0 {
			return true
		}

		row := len(table)
		parsed, found, err := x.cells(cells, SectionCharTable, row)
		if err != nil {
			failure = err
			return false
		}
		table = append(table, parsed)
		degradations = append(degradations, found...)
		return true
	})

	if failure != nil {
		return nil, nil, failure
	}
	return table, degradations, nil
}

// Polynomials parses the Galois polynomial cells.
func (x *Extractor) Polynomials(doc *goquery.Document) (mathnode.Sequence, []Degradation, error) {
	cells := doc.Find(polynomialSelector)
	if cells.Length() == 0 {
		return nil, nil, nil
	}
	return x.cells(cells, SectionPolynomials, 0)
}

func (x *Extractor) cells(cells *goquery.Selection, section string, row int) (mathnode.Sequence, []Degradation, error) {
	nodes := make(mathnode.Sequence, 0, cells.Length())
	var degradations []Degradation

	for i := range cells.Nodes {
		el, ok := markup.FromHTMLNode(cells.Nodes[i])
		if !ok {
			continue
		}

		result, err := x.math.ParseContents(el)
		if err != nil {
			return nil, nil, oops.
				Code("EXTRACT_FAILED").
				With("section", section).
				Wrapf(err, "parsing cell %d", i)
		}

		nodes = append(nodes, result.Node)
		for _, d := range result.Degradations {
			degradations = append(degradations, Degradation{Section: section, Row: row, Cell: i, Degradation: d})
		}
	}

	return nodes, degradations, nil
}

// SelfLabel returns the text of the navigation item following the one that mentions
// "label", or "" when the page has none.
func SelfLabel(doc *goquery.Document) string {
	items := doc.Find(navSelector)
	label := ""
	items.EachWithBreak(func(i int, li *goquery.Selection) bool {
		if !strings.Contains(strings.ToLower(li.Text()), navLabelMarker) {
			return true
		}
		if next := items.Eq(i + 1); next.Length() > 0 {
			label = strings.TrimSpace(innerText(next))
		}
		return false
	})
	return label
}

// SeriesOf reads the series tables. Every series but the upper central one ends with
// the page's own label.
func SeriesOf(doc *goquery.Document) []Series {
	self := SelfLabel(doc)
	var series []Series

	doc.Find(seriesSelector).Each(func(_ int, table *goquery.Selection) {
		if !containsAny(innerText(table), seriesMarkers) {
			return
		}

		table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
			cells := tr.Find("td")
			if cells.Length() < 2 {
				return
			}

			name := strings.TrimSpace(innerText(cells.Eq(0)))
			members := []string{}
			cells.Eq(1).Find("a").Each(func(_ int, a *goquery.Selection) {
				members = append(members, strings.TrimSpace(innerText(a)))
			})
			if name != upperCentral && self != "" {
				members = append(members, self)
			}
			series = append(series, Series{Name: name, Members: members})
		})
	})

	return series
}

// MaximalSubgroups reads the paragraph listing maximal subgroups. Links before a bold
// element mentioning quotients are subgroups, links after it are quotients.
func MaximalSubgroups(doc *goquery.Document) (Subgroups, bool) {
	var p *goquery.Selection
	doc.Find("p").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if strings.Contains(innerText(s), maximalMarker) {
			p = s
			return false
		}
		return true
	})
	if p == nil {
		return Subgroups{}, false
	}

	out := Subgroups{Maximal: []string{}, Quotients: []string{}}
	maximal := true
	p.Find("a, b").Each(func(_ int, s *goquery.Selection) {
		text := strings.TrimSpace(innerText(s))
		if goquery.NodeName(s) == "b" {
			if strings.Contains(text, quotientMarker) {
				maximal = false
			}
			return
		}
		if text == "" {
			return
		}
		if maximal {
			out.Maximal = append(out.Maximal, text)
		} else {
			out.Quotients = append(out.Quotients, text)
		}
	})

	return out, true
}

// GroupLinks reads index tables, skipping each table's header row. Rows without a
// link in their first cell are ignored. base may be nil.
func GroupLinks(doc *goquery.Document, base *url.URL) []Link {
	var links []Link

	doc.Find(indexSelector).Each(func(_ int, table *goquery.Selection) {
		table.Find("tr").Slice(1, goquery.ToEnd).Each(func(_ int, tr *goquery.Selection) {
			cells := tr.Find("td")
			first := cells.Eq(0)
			a := first.Find("a").First()
			if a.Length() == 0 {
				return
			}

			name, _ := first.Attr("id")
			if name == "" {
				name = strings.TrimSpace(a.Text())
			}

			href, _ := a.Attr("href")
			if base != nil {
				if ref, err := url.Parse(href); err == nil {
					href = base.ResolveReference(ref).String()
				}
			}

			order, _ := strconv.Atoi(strings.TrimSpace(cells.Eq(2).Text()))
			links = append(links, Link{Name: name, Href: href, Order: order})
		})
	})

	return links
}

func innerText(s *goquery.Selection) string {
	var buf strings.Builder
	for _, n := range s.Nodes {
		buf.WriteString(markup.InnerText(n))
	}
	return buf.String()
}

func containsAny(s string, needles []string) bool {
	for _, needle := range needles {
		if strings.Contains(s, needle) {
			return true
		}
	}
	return false
}
