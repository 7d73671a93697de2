package manifest

import (
	"strings"
	"time"

	"github.com/samber/oops"

	"github.com/g5becks/groupnames/internal/extract"
)

// Record is one extracted group page and where it came from.
type Record struct {
	Label       string        `json:"label"`
	Source      string        `json:"source"`
	Location    string        `json:"location"`
	ExtractedAt time.Time     `json:"extracted_at"`
	Page        *extract.Page `json:"page"`
}

func NewRecord(sourceName, location string, page *extract.Page, extractedAt time.Time) (*Record, error) {
	if page == nil || strings.TrimSpace(page.Label) == "" {
		return nil, oops.
			Code("EXTRACT_FAILED").
			With("source", sourceName).
			With("location", location).
			Hint("Set label on the source in groupnames.toml").
			Errorf("page at %q has no group label", location)
	}

	return &Record{
		Label:       page.Label,
		Source:      sourceName,
		Location:    location,
		ExtractedAt: extractedAt.UTC(),
		Page:        page,
	}, nil
}

// Generators lists the presentation generators, or nil when the page had none.
func (r *Record) Generators() []string {
	if r.Page == nil {
		return nil
	}
	group, ok := r.Page.Group()
	if !ok {
		return nil
	}
	return group.Generators
}

// PresentationText renders the parsed presentation, or "" when there is none.
func (r *Record) PresentationText() string {
	if r.Page == nil {
		return ""
	}
	group, ok := r.Page.Group()
	if !ok {
		return ""
	}
	return group.String()
}

// CharTableSize returns the row count and total cell count of the character table.
func (r *Record) CharTableSize() (int, int) {
	if r.Page == nil {
		return 0, 0
	}
	return len(r.Page.CharTable), r.Page.CharTable.Cells()
}
