// Package source fetches group pages from the places a config names.
package source

import (
	"context"
	"maps"
	"slices"

	"github.com/jedib0t/go-pretty/v6/progress"
	"github.com/samber/oops"

	"github.com/g5becks/groupnames/internal/config"
	"github.com/g5becks/groupnames/internal/lockfile"
)

// Document is one fetched page.
type Document struct {
	// Location is the page URL, or the file path for local pages.
	Location string
	// Path is the page's path relative to the source root.
	Path    string
	Content []byte
}

// FetchResult reports what a fetch produced. Skipped results carry no documents.
type FetchResult struct {
	Documents []Document
	Skipped   bool
	LockEntry *lockfile.LockEntry
}

// FetchOptions controls behavior for source fetch operations.
type FetchOptions struct {
	Force bool
}

// Source is somewhere group pages can be fetched from.
type Source interface {
	Fetch(
		ctx context.Context,
		prevLock *lockfile.LockEntry,
		opts FetchOptions,
		tracker *progress.Tracker,
	) (*FetchResult, error)
	Close() error
}

// New creates a Source from config. File source paths must already be resolved.
func New(name string, cfg config.Source) (Source, error) {
	switch cfg.Type {
	case config.SourceTypeURL:
		return NewURL(name, cfg)
	case config.SourceTypeFile:
		return NewFile(name, cfg)
	default:
		return nil, oops.
			Code("UNKNOWN_SOURCE_TYPE").
			With("type", cfg.Type).
			Hint("Supported types: url, file").
			Errorf("unknown source type %q for source %q", cfg.Type, name)
	}
}

func cloneLockEntry(entry *lockfile.LockEntry) *lockfile.LockEntry {
	if entry == nil {
		return nil
	}

	cloned := *entry
	if entry.Files != nil {
		cloned.Files = maps.Clone(entry.Files)
	}
	cloned.Labels = slices.Clone(entry.Labels)

	return &cloned
}
