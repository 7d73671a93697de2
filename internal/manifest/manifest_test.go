package manifest_test

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/g5becks/groupnames/internal/extract"
	"github.com/g5becks/groupnames/internal/manifest"
	"github.com/g5becks/groupnames/internal/mathnode"
	"github.com/g5becks/groupnames/internal/presentation"
)

func q8Page() *extract.Page {
	group, err := presentation.Parse("< a,b | a4=1, b2=a2, bab-1=a-1 >", "Q8")
	if err != nil {
		panic(err)
	}

	return &extract.Page{
		Label: "Q8",
		URL:   "https://people.maths.bris.ac.uk/~matyd/GroupNames/1/Q8.html",
		Presentation: &extract.Presentation{
			Raw:   "< a,b | a4=1, b2=a2, bab-1=a-1 >",
			Group: group,
		},
		CharTable: extract.CharTable{
			{mathnode.Text{Value: "1"}, mathnode.Text{Value: "1"}},
			{mathnode.Text{Value: "2"}, mathnode.Fraction{
				Numerator:   mathnode.Text{Value: "1"},
				Denominator: mathnode.Text{Value: "2"},
			}},
		},
		Subgroups: &extract.Subgroups{Maximal: []string{"C4"}, Quotients: []string{"C2"}},
	}
}

func newRecord(t *testing.T, source string, page *extract.Page) *manifest.Record {
	t.Helper()

	rec, err := manifest.NewRecord(source, page.URL, page, time.Now())
	if err != nil {
		t.Fatalf("NewRecord() error = %v", err)
	}
	return rec
}

func TestNew(t *testing.T) {
	m := manifest.New(10)

	if m.Version != manifest.CurrentVersion {
		t.Errorf("Version = %q, want %q", m.Version, manifest.CurrentVersion)
	}

	if m.Records == nil {
		t.Error("Records should be initialized")
	}

	if m.Generated.IsZero() {
		t.Error("Generated time should be set")
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()

	original := manifest.New(0)
	if err := original.Put(newRecord(t, "q8", q8Page())); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	if err := original.Save(dir); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := manifest.Load(dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	rec, err := loaded.Get("Q8")
	if err != nil {
		t.Fatalf("Get(Q8) error = %v", err)
	}

	if rec.Source != "q8" {
		t.Errorf("Source = %q, want %q", rec.Source, "q8")
	}

	if !slices.Equal(rec.Generators(), []string{"a", "b"}) {
		t.Errorf("Generators() = %v, want [a b]", rec.Generators())
	}

	want, _ := original.Get("Q8")
	group, _ := rec.Page.Group()
	wantGroup, _ := want.Page.Group()
	if !group.Equal(wantGroup) {
		t.Errorf("presentation = %s, want %s", group, wantGroup)
	}

	rows, cells := rec.CharTableSize()
	if rows != 2 || cells != 4 {
		t.Errorf("CharTableSize() = %d, %d, want 2, 4", rows, cells)
	}

	if !mathnode.Equal(rec.Page.CharTable[1][1], want.Page.CharTable[1][1]) {
		t.Errorf("char table cell = %#v, want %#v", rec.Page.CharTable[1][1], want.Page.CharTable[1][1])
	}
}

func TestLoadMissingManifest(t *testing.T) {
	_, err := manifest.Load(t.TempDir())
	if err == nil {
		t.Fatal("Load() error = nil, want not-found error")
	}

	if !strings.Contains(err.Error(), "manifest not found") {
		t.Errorf("Load() error = %q, want not-found message", err.Error())
	}
}

func TestLoadOrNewMissingManifest(t *testing.T) {
	m, err := manifest.LoadOrNew(t.TempDir(), 5)
	if err != nil {
		t.Fatalf("LoadOrNew() error = %v", err)
	}

	if m.Len() != 0 {
		t.Errorf("Len() = %d, want 0", m.Len())
	}
}

func TestLoadCorruptedManifest(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(manifest.Path(dir), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	if _, err := manifest.LoadOrNew(dir, 5); err == nil {
		t.Fatal("LoadOrNew() error = nil, want parse error")
	}
}

func TestPutEnforcesRecordLimit(t *testing.T) {
	m := manifest.New(2)

	for _, label := range []string{"C2", "C4"} {
		page := &extract.Page{Label: label}
		if err := m.Put(newRecord(t, "saved", page)); err != nil {
			t.Fatalf("Put(%s) error = %v", label, err)
		}
	}

	if err := m.Put(newRecord(t, "saved", &extract.Page{Label: "Q8"})); err == nil {
		t.Fatal("Put() beyond the cap error = nil, want RECORD_LIMIT")
	}

	if err := m.Put(newRecord(t, "other", &extract.Page{Label: "C4"})); err != nil {
		t.Fatalf("Put() replacing an existing label error = %v", err)
	}

	if got, _ := m.Get("C4"); got.Source != "other" {
		t.Errorf("Get(C4).Source = %q, want %q", got.Source, "other")
	}
}

func TestLimitIsPerManifest(t *testing.T) {
	first := manifest.New(1)
	second := manifest.New(1)

	if err := first.Put(newRecord(t, "a", &extract.Page{Label: "C2"})); err != nil {
		t.Fatalf("first.Put() error = %v", err)
	}

	if err := second.Put(newRecord(t, "a", &extract.Page{Label: "C2"})); err != nil {
		t.Fatalf("second.Put() error = %v", err)
	}
}

func TestLabelsAndRemoveSource(t *testing.T) {
	m := manifest.New(0)
	for _, tc := range []struct{ source, label string }{
		{"saved", "S3"},
		{"q8", "Q8"},
		{"saved", "D4"},
	} {
		if err := m.Put(newRecord(t, tc.source, &extract.Page{Label: tc.label})); err != nil {
			t.Fatalf("Put(%s) error = %v", tc.label, err)
		}
	}

	if got := m.Labels(); !slices.Equal(got, []string{"D4", "Q8", "S3"}) {
		t.Fatalf("Labels() = %v, want [D4 Q8 S3]", got)
	}

	sorted := m.Sorted()
	if sorted[0].Label != "D4" || sorted[2].Label != "S3" {
		t.Fatalf("Sorted() order = %s..%s", sorted[0].Label, sorted[2].Label)
	}

	if removed := m.RemoveSource("saved"); !slices.Equal(removed, []string{"D4", "S3"}) {
		t.Fatalf("RemoveSource() = %v, want [D4 S3]", removed)
	}

	if got := m.Labels(); !slices.Equal(got, []string{"Q8"}) {
		t.Fatalf("Labels() after RemoveSource() = %v, want [Q8]", got)
	}
}

func TestGetMissingRecord(t *testing.T) {
	if _, err := manifest.New(0).Get("A5"); err == nil {
		t.Fatal("Get(A5) error = nil, want not-found")
	}
}

func TestNewRecordRequiresLabel(t *testing.T) {
	if _, err := manifest.NewRecord("saved", "page.html", &extract.Page{}, time.Now()); err == nil {
		t.Fatal("NewRecord() without label error = nil, want error")
	}
}

func TestSaveNilManifest(t *testing.T) {
	var m *manifest.Manifest
	if err := m.Save(t.TempDir()); err == nil {
		t.Fatal("Save() on nil manifest error = nil, want error")
	}
}

func TestSaveLeavesNoTempFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	if err := manifest.New(0).Save(dir); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	matches, err := filepath.Glob(filepath.Join(dir, manifest.ManifestFile+".*.tmp"))
	if err != nil {
		t.Fatalf("Glob() error = %v", err)
	}

	if len(matches) != 0 {
		t.Fatalf("temporary files left behind: %v", matches)
	}
}
