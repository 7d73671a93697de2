package extract_test

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"github.com/g5becks/groupnames/internal/extract"
	"github.com/g5becks/groupnames/internal/mathnode"
	"github.com/g5becks/groupnames/internal/presentation"
)

func newExtractor() *extract.Extractor {
	return extract.New(extract.Options{Presentation: presentation.DefaultOptions()})
}

func readFixture(t *testing.T, name, pageURL, label string) *extract.Page {
	t.Helper()

	file, err := os.Open(filepath.Join("testdata", name))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer file.Close()

	page, err := newExtractor().Read(file, pageURL, label)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	return page
}

func loadDocument(t *testing.T, src string) *goquery.Document {
	t.Helper()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(src))
	if err != nil {
		t.Fatalf("NewDocumentFromReader() error = %v", err)
	}
	return doc
}

func TestReadGroupPage(t *testing.T) {
	t.Parallel()

	page := readFixture(t, "q8.html", "https://example.test/GroupNames/1/Q8.html", "")

	if page.Label != "Q8" {
		t.Fatalf("Label = %q, want %q", page.Label, "Q8")
	}

	group, ok := page.Group()
	if !ok {
		t.Fatal("Group() ok = false, want true")
	}

	if got := group.String(); got != "< a,b | a4=1, b2=a2, bab-1=a-1 >" {
		t.Fatalf("Group = %q", got)
	}

	if group.Label != "Q8" {
		t.Fatalf("Group.Label = %q, want %q", group.Label, "Q8")
	}

	if len(page.Warnings) != 0 {
		t.Fatalf("Warnings = %v, want none", page.Warnings)
	}

	if len(page.Links) != 0 {
		t.Fatalf("Links = %v, want none", page.Links)
	}
}

func TestReadCharTable(t *testing.T) {
	t.Parallel()

	page := readFixture(t, "q8.html", "", "")

	if len(page.CharTable) != 3 {
		t.Fatalf("CharTable rows = %d, want 3", len(page.CharTable))
	}

	if page.CharTable.Cells() != 12 {
		t.Fatalf("Cells() = %d, want 12", page.CharTable.Cells())
	}

	header := mathnode.RenderAll(page.CharTable[0])
	if !slices.Equal(header, []string{"", "1", "2", "4A"}) {
		t.Fatalf("header = %q", header)
	}

	if got := mathnode.Render(page.CharTable[1][0]); got != "ρ_{1}" {
		t.Fatalf("CharTable[1][0] = %q, want %q", got, "ρ_{1}")
	}

	if got := mathnode.Render(page.CharTable[2][3]); got != `\frac{1}{2}` {
		t.Fatalf("CharTable[2][3] = %q, want %q", got, `\frac{1}{2}`)
	}

	if len(page.Degradations) != 1 {
		t.Fatalf("Degradations = %v, want 1", page.Degradations)
	}

	d := page.Degradations[0]
	if d.Section != extract.SectionCharTable || d.Row != 1 || d.Cell != 3 {
		t.Fatalf("Degradation = %+v, want chartable row 1 cell 3", d)
	}

	if d.Reason != mathnode.ReasonMissingNumerator || d.Path != "/td/span[0]" {
		t.Fatalf("Degradation = %s, want missing_numerator at /td/span[0]", d)
	}

	if got := mathnode.Render(page.CharTable[1][3]); got != `\frac{}{3}` {
		t.Fatalf("CharTable[1][3] = %q, want %q", got, `\frac{}{3}`)
	}
}

func TestReadPolynomials(t *testing.T) {
	t.Parallel()

	page := readFixture(t, "q8.html", "", "")

	got := mathnode.RenderAll(page.Polynomials)
	if !slices.Equal(got, []string{"x^{4}+2", `\sqrt{2}`}) {
		t.Fatalf("Polynomials = %q", got)
	}
}

func TestReadSeriesAndSubgroups(t *testing.T) {
	t.Parallel()

	page := readFixture(t, "q8.html", "", "")

	want := []extract.Series{
		{Name: "Chief Series", Members: []string{"C1", "C2", "C4", "Q8"}},
		{Name: "Upper central", Members: []string{"C1", "C2"}},
	}

	if len(page.Series) != len(want) {
		t.Fatalf("Series = %+v, want %+v", page.Series, want)
	}

	for i := range want {
		if page.Series[i].Name != want[i].Name || !slices.Equal(page.Series[i].Members, want[i].Members) {
			t.Fatalf("Series[%d] = %+v, want %+v", i, page.Series[i], want[i])
		}
	}

	if page.Subgroups == nil {
		t.Fatal("Subgroups = nil")
	}

	if !slices.Equal(page.Subgroups.Maximal, []string{"SL2(𝔽3)", "Q16"}) {
		t.Fatalf("Maximal = %q", page.Subgroups.Maximal)
	}

	if !slices.Equal(page.Subgroups.Quotients, []string{"C4⋊C4"}) {
		t.Fatalf("Quotients = %q", page.Subgroups.Quotients)
	}
}

func TestReadLabelOverride(t *testing.T) {
	t.Parallel()

	page := readFixture(t, "q8.html", "", "quaternion")

	if page.Label != "quaternion" {
		t.Fatalf("Label = %q, want %q", page.Label, "quaternion")
	}

	group, _ := page.Group()
	if group.Label != "quaternion" {
		t.Fatalf("Group.Label = %q, want %q", group.Label, "quaternion")
	}
}

func TestReadIndexPage(t *testing.T) {
	t.Parallel()

	page := readFixture(t, "index.html", "https://example.test/GroupNames/index500.html", "index")

	want := []extract.Link{
		{Name: "C1", Href: "https://example.test/GroupNames/1/C1.html", Order: 1},
		{Name: "C2", Href: "https://example.test/GroupNames/1/C2.html", Order: 2},
	}

	if !slices.Equal(page.Links, want) {
		t.Fatalf("Links = %+v, want %+v", page.Links, want)
	}

	if page.Presentation != nil {
		t.Fatal("Presentation != nil for an index page")
	}

	if len(page.Warnings) != 1 {
		t.Fatalf("Warnings = %v, want 1", page.Warnings)
	}
}

func TestGroupLinksWithoutBase(t *testing.T) {
	t.Parallel()

	doc := loadDocument(t, `<table class="gptable"><tr><th>h</th></tr><tr><td><a href="x.html">X</a></td><td></td><td>n/a</td></tr></table>`)

	links := extract.GroupLinks(doc, nil)
	if len(links) != 1 || links[0].Href != "x.html" || links[0].Order != 0 {
		t.Fatalf("GroupLinks() = %+v", links)
	}
}

func TestReadRejectsBadPresentation(t *testing.T) {
	t.Parallel()

	src := `<p>Generators and relations for X<br>G = &lt; a,a | a2=1 &gt;</p>`

	_, err := newExtractor().Read(strings.NewReader(src), "", "")

	var dup *presentation.DuplicateGeneratorError
	if !errors.As(err, &dup) {
		t.Fatalf("Read() error = %v, want DuplicateGeneratorError", err)
	}
}

func TestPresentationParagraph(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		src       string
		wantLabel string
		wantText  string
		wantOK    bool
	}{
		{
			name:      "label and text",
			src:       `<p>intro</p><p>Generators and relations for D4<br>G = &lt; a,b | a4=1 &gt;</p>`,
			wantLabel: "D4",
			wantText:  "G = < a,b | a4=1 >",
			wantOK:    true,
		},
		{
			name:     "single line",
			src:      `<p>Generators and relations: &lt; a | a2=1 &gt;</p>`,
			wantText: "Generators and relations: < a | a2=1 >",
			wantOK:   true,
		},
		{
			name: "missing",
			src:  `<p>nothing here</p>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			label, text, ok := extract.FindPresentation(loadDocument(t, tt.src))
			if ok != tt.wantOK || label != tt.wantLabel || text != tt.wantText {
				t.Fatalf("FindPresentation() = (%q, %q, %v), want (%q, %q, %v)",
					label, text, ok, tt.wantLabel, tt.wantText, tt.wantOK)
			}
		})
	}
}

func TestSelfLabelMissing(t *testing.T) {
	t.Parallel()

	if got := extract.SelfLabel(loadDocument(t, `<nav><ul><li>Home</li></ul></nav>`)); got != "" {
		t.Fatalf("SelfLabel() = %q, want empty", got)
	}
}
