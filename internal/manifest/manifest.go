// Package manifest stores extracted group records as a single JSON document.
package manifest

import (
	"errors"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/samber/oops"

	"github.com/g5becks/groupnames/internal/atomicfile"
)

const (
	CurrentVersion = "1.0.0"
	ManifestFile   = "groups.json"
)

type Manifest struct {
	Version   string             `json:"version"`
	Generated time.Time          `json:"generated"`
	Records   map[string]*Record `json:"records"`

	maxRecords int
}

// New returns an empty manifest holding at most maxRecords records. A non-positive
// limit means no cap.
func New(maxRecords int) *Manifest {
	return &Manifest{
		Version:    CurrentVersion,
		Generated:  time.Now(),
		Records:    make(map[string]*Record),
		maxRecords: maxRecords,
	}
}

func Load(outputDir string) (*Manifest, error) {
	m := &Manifest{}

	found, err := atomicfile.ReadJSON(outputDir, ManifestFile, "MANIFEST_CORRUPTED", m)
	if err != nil {
		return nil, err
	}

	if !found {
		manifestPath := Path(outputDir)
		return nil, oops.
			Code("MANIFEST_NOT_FOUND").
			With("path", manifestPath).
			Hint("Run 'groupnames sync' to generate the manifest").
			Errorf("manifest not found at %q", manifestPath)
	}

	if m.Records == nil {
		m.Records = make(map[string]*Record)
	}

	return m, nil
}

// LoadOrNew loads the manifest in outputDir, starting an empty one when none exists.
func LoadOrNew(outputDir string, maxRecords int) (*Manifest, error) {
	if _, err := os.Stat(Path(outputDir)); errors.Is(err, os.ErrNotExist) {
		return New(maxRecords), nil
	}

	m, err := Load(outputDir)
	if err != nil {
		return nil, err
	}

	m.maxRecords = maxRecords
	return m, nil
}

// SetLimit changes the record cap. Records already stored are kept.
func (m *Manifest) SetLimit(maxRecords int) {
	m.maxRecords = maxRecords
}

// Put stores rec under its label, replacing an earlier record with the same label.
// Adding a new label beyond the cap fails with RECORD_LIMIT.
func (m *Manifest) Put(rec *Record) error {
	if rec == nil || rec.Label == "" {
		return oops.
			Code("MANIFEST_WRITE_ERROR").
			Errorf("record has no label")
	}

	if m.Records == nil {
		m.Records = make(map[string]*Record)
	}

	if _, exists := m.Records[rec.Label]; !exists && m.maxRecords > 0 && len(m.Records) >= m.maxRecords {
		return oops.
			Code("RECORD_LIMIT").
			With("label", rec.Label).
			With("max_records", m.maxRecords).
			Hint("Raise max_records in groupnames.toml").
			Errorf("manifest is full (%d records)", m.maxRecords)
	}

	m.Records[rec.Label] = rec
	return nil
}

func (m *Manifest) Get(label string) (*Record, error) {
	rec, ok := m.Records[label]
	if !ok {
		return nil, oops.
			Code("RECORD_NOT_FOUND").
			With("label", label).
			Hint("Run 'groupnames list' to see stored groups").
			Errorf("no record for group %q", label)
	}
	return rec, nil
}

func (m *Manifest) Remove(label string) {
	delete(m.Records, label)
}

// RemoveSource drops every record produced by the named source and returns their
// labels.
func (m *Manifest) RemoveSource(name string) []string {
	var removed []string
	for label, rec := range m.Records {
		if rec.Source == name {
			removed = append(removed, label)
			delete(m.Records, label)
		}
	}
	slices.Sort(removed)
	return removed
}

func (m *Manifest) Labels() []string {
	return slices.Sorted(maps.Keys(m.Records))
}

// Sorted returns the records ordered by label.
func (m *Manifest) Sorted() []*Record {
	labels := m.Labels()
	records := make([]*Record, 0, len(labels))
	for _, label := range labels {
		records = append(records, m.Records[label])
	}
	return records
}

func (m *Manifest) Len() int {
	return len(m.Records)
}

func (m *Manifest) Save(outputDir string) error {
	if m == nil {
		return oops.
			Code("MANIFEST_WRITE_ERROR").
			Hint("Initialize manifest before saving").
			Errorf("cannot save nil manifest")
	}

	if m.Records == nil {
		m.Records = make(map[string]*Record)
	}
	m.Generated = time.Now().UTC()

	return atomicfile.WriteJSON(outputDir, ManifestFile, "MANIFEST_WRITE_ERROR", m)
}

func Path(outputDir string) string {
	return filepath.Join(outputDir, ManifestFile)
}
