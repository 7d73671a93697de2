// Package lockfile records what each source looked like when it was last synced, so
// unchanged pages can be skipped.
package lockfile

import (
	"maps"
	"slices"
	"time"

	"github.com/samber/oops"

	"github.com/g5becks/groupnames/internal/atomicfile"
)

const (
	FileName       = ".groupnames.lock"
	currentVersion = 1
	errorCode      = "LOCK_ERROR"
)

type LockFile struct {
	Version int                   `json:"version"`
	Sources map[string]*LockEntry `json:"sources"`
}

// LockEntry is the freshness state of one source. URL sources use the validators
// from the last response; file sources use per-file SHA-256 digests.
type LockEntry struct {
	Type     string            `json:"type"`
	ETag     string            `json:"etag,omitempty"`
	LastMod  string            `json:"last_modified,omitempty"`
	SyncedAt time.Time         `json:"synced_at"`
	Files    map[string]string `json:"files,omitempty"`
	Labels   []string          `json:"labels,omitempty"`
}

func Load(outputDir string) (*LockFile, error) {
	lock := New()
	if _, err := atomicfile.ReadJSON(outputDir, FileName, errorCode, lock); err != nil {
		return nil, err
	}

	if lock.Version == 0 {
		lock.Version = currentVersion
	}

	if lock.Sources == nil {
		lock.Sources = map[string]*LockEntry{}
	}

	return lock, nil
}

func New() *LockFile {
	return &LockFile{
		Version: currentVersion,
		Sources: map[string]*LockEntry{},
	}
}

func (l *LockFile) Save(outputDir string) error {
	if l == nil {
		return oops.
			Code(errorCode).
			Hint("Initialize lock file state before saving").
			Errorf("cannot save nil lock file")
	}

	if l.Version == 0 {
		l.Version = currentVersion
	}

	if l.Sources == nil {
		l.Sources = map[string]*LockEntry{}
	}

	return atomicfile.WriteJSON(outputDir, FileName, errorCode, l)
}

func (l *LockFile) GetEntry(name string) *LockEntry {
	if l == nil {
		return nil
	}

	return l.Sources[name]
}

func (l *LockFile) SetEntry(name string, entry *LockEntry) {
	if l == nil {
		return
	}

	if l.Sources == nil {
		l.Sources = map[string]*LockEntry{}
	}

	l.Sources[name] = entry
}

func (l *LockFile) RemoveEntry(name string) {
	if l == nil || l.Sources == nil {
		return
	}

	delete(l.Sources, name)
}

// Names lists the locked sources in sorted order.
func (l *LockFile) Names() []string {
	if l == nil {
		return nil
	}
	return slices.Sorted(maps.Keys(l.Sources))
}

// Unchanged reports whether a file source still has exactly the digests recorded in
// the entry.
func (e *LockEntry) Unchanged(digests map[string]string) bool {
	if e == nil || len(e.Files) == 0 {
		return false
	}
	return maps.Equal(e.Files, digests)
}
