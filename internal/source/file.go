package source

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/jedib0t/go-pretty/v6/progress"
	"github.com/samber/oops"

	"github.com/g5becks/groupnames/internal/config"
	"github.com/g5becks/groupnames/internal/lockfile"
)

type fileSource struct {
	name   string
	source config.Source
}

func NewFile(name string, cfg config.Source) (Source, error) {
	if cfg.Path == "" {
		return nil, oops.
			Code("CONFIG_INVALID").
			With("source", name).
			Hint("Set path for the source in groupnames.toml").
			Errorf("source %q has no path", name)
	}

	if len(cfg.Patterns) == 0 {
		cfg.Patterns = config.DefaultPatterns()
	}

	return &fileSource{
		name:   name,
		source: cfg,
	}, nil
}

func (s *fileSource) Close() error {
	return nil
}

func (s *fileSource) Fetch(
	ctx context.Context,
	prevLock *lockfile.LockEntry,
	opts FetchOptions,
	tracker *progress.Tracker,
) (*FetchResult, error) {
	paths, err := s.listFiles()
	if err != nil {
		return nil, err
	}

	if tracker != nil {
		tracker.UpdateTotal(int64(len(paths)))
		defer tracker.MarkAsDone()
	}

	root := s.root()
	documents := make([]Document, 0, len(paths))
	digests := make(map[string]string, len(paths))

	for _, relPath := range paths {
		if err := ctx.Err(); err != nil {
			return nil, oops.
				Code("READ_FAILED").
				With("source", s.name).
				Wrapf(err, "reading file source")
		}

		location := filepath.Join(root, filepath.FromSlash(relPath))
		if relPath == "" {
			location = s.source.Path
			relPath = filepath.Base(location)
		}

		content, readErr := os.ReadFile(location)
		if readErr != nil {
			return nil, oops.
				Code("READ_FAILED").
				With("source", s.name).
				With("path", location).
				Wrapf(readErr, "reading page file")
		}

		sum := sha256.Sum256(content)
		digests[relPath] = hex.EncodeToString(sum[:])
		documents = append(documents, Document{
			Location: location,
			Path:     relPath,
			Content:  content,
		})

		if tracker != nil {
			tracker.Increment(1)
		}
	}

	if !opts.Force && prevLock.Unchanged(digests) {
		lock := cloneLockEntry(prevLock)
		lock.SyncedAt = time.Now().UTC()

		return &FetchResult{
			Skipped:   true,
			LockEntry: lock,
		}, nil
	}

	return &FetchResult{
		Documents: documents,
		LockEntry: &lockfile.LockEntry{
			Type:     config.SourceTypeFile,
			SyncedAt: time.Now().UTC(),
			Files:    digests,
		},
	}, nil
}

func (s *fileSource) root() string {
	info, err := os.Stat(s.source.Path)
	if err == nil && !info.IsDir() {
		return filepath.Dir(s.source.Path)
	}
	return s.source.Path
}

// listFiles returns slash-separated paths relative to the source directory, sorted.
// A source pointing at a single file yields one empty path.
func (s *fileSource) listFiles() ([]string, error) {
	info, err := os.Stat(s.source.Path)
	if err != nil {
		return nil, oops.
			Code("READ_FAILED").
			With("source", s.name).
			With("path", s.source.Path).
			Hint("Check the path of the source in groupnames.toml").
			Wrapf(err, "reading file source")
	}

	if !info.IsDir() {
		return []string{""}, nil
	}

	var paths []string
	walkErr := filepath.WalkDir(s.source.Path, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}

		relPath, relErr := filepath.Rel(s.source.Path, path)
		if relErr != nil {
			return relErr
		}
		relPath = filepath.ToSlash(relPath)

		include, matchErr := shouldIncludeFile(relPath, s.source.Patterns, s.source.Exclude)
		if matchErr != nil {
			return matchErr
		}
		if include {
			paths = append(paths, relPath)
		}
		return nil
	})
	if walkErr != nil {
		return nil, oops.
			Code("READ_FAILED").
			With("source", s.name).
			With("path", s.source.Path).
			Wrapf(walkErr, "walking file source")
	}

	slices.Sort(paths)
	return paths, nil
}

func shouldIncludeFile(relativePath string, patterns []string, exclude []string) (bool, error) {
	included, err := matchesAny(patterns, relativePath)
	if err != nil || !included {
		return false, err
	}

	excluded, err := matchesAny(exclude, relativePath)
	if err != nil {
		return false, err
	}

	return !excluded, nil
}

func matchesAny(patterns []string, candidate string) (bool, error) {
	for _, pattern := range patterns {
		matched, err := doublestar.Match(pattern, candidate)
		if err != nil {
			return false, oops.
				Code("CONFIG_INVALID").
				With("pattern", pattern).
				With("path", candidate).
				Wrapf(err, "invalid glob pattern")
		}

		if matched {
			return true, nil
		}
	}

	return false, nil
}
