// Package sync fetches every configured source, extracts its group pages and stores
// the records in the manifest.
package sync

import (
	"bytes"
	"context"
	"path"
	"path/filepath"
	"slices"
	"strings"
	stdsync "sync"
	"time"

	"github.com/jedib0t/go-pretty/v6/progress"
	"github.com/samber/oops"
	"golang.org/x/sync/errgroup"

	"github.com/g5becks/groupnames/internal/config"
	"github.com/g5becks/groupnames/internal/extract"
	"github.com/g5becks/groupnames/internal/lockfile"
	"github.com/g5becks/groupnames/internal/logger"
	"github.com/g5becks/groupnames/internal/manifest"
	"github.com/g5becks/groupnames/internal/source"
)

const defaultMaxParallel = config.DefaultParallel

type Options struct {
	SourceNames []string
	Force       bool
	DryRun      bool
	MaxParallel int
	OnEvent     func(Event)
	// Progress, when set, gets one tracker per source.
	Progress progress.Writer
}

type EventKind int

const (
	EventSourceStart EventKind = iota
	EventSourceDone
)

// Event reports progress for one source. Handlers may be called from several
// goroutines at once.
type Event struct {
	Kind   EventKind
	Source string
	Result *SourceResult
	Err    error
}

// PageFailure is a fetched page that could not be extracted.
type PageFailure struct {
	Location string
	Err      error
}

// SourceResult is the outcome of one source.
type SourceResult struct {
	Documents    int
	Labels       []string
	Skipped      bool
	Degradations int
	Failures     []PageFailure

	pages     []pageRecord
	lockEntry *lockfile.LockEntry
}

// RunResult summarizes a whole sync run.
type RunResult struct {
	Sources      int
	Records      int
	Skipped      int
	Duplicates   []string
	Degradations int
	PageFailures int
	Errors       int
	Results      map[string]*SourceResult
	Failed       map[string]error
}

type pageRecord struct {
	location string
	page     *extract.Page
}

type runState struct {
	result *SourceResult
	err    error
}

func Run(ctx context.Context, cfg *config.Config, opts Options) (*RunResult, error) {
	if cfg == nil {
		return nil, oops.
			Code("CONFIG_INVALID").
			Errorf("config is required")
	}

	log := logger.FromContext(ctx)
	outputDir := resolveOutputRoot(cfg)

	lock, err := lockfile.Load(outputDir)
	if err != nil {
		return nil, err
	}

	store, err := manifest.LoadOrNew(outputDir, cfg.MaxRecords)
	if err != nil {
		return nil, err
	}

	sourceNames, err := resolveSourceNames(cfg.Sources, opts.SourceNames)
	if err != nil {
		return nil, err
	}

	maxParallel := opts.MaxParallel
	if maxParallel <= 0 {
		maxParallel = cfg.Parallel
	}
	if maxParallel <= 0 {
		maxParallel = defaultMaxParallel
	}

	extractor := extract.New(extract.Options{
		Math:         cfg.MathOptions(),
		Presentation: cfg.PresentationOptions(),
	})

	results := make(map[string]runState, len(sourceNames))
	var resultsMu stdsync.Mutex
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(maxParallel)

	for _, sourceName := range sourceNames {
		sourceCfg := cfg.Sources[sourceName]
		sourceCfg.Path = cfg.SourcePath(sourceCfg)
		previousLock := lock.GetEntry(sourceName)

		group.Go(func() error {
			emit(opts.OnEvent, Event{Kind: EventSourceStart, Source: sourceName})
			log.Debug("syncing source", "source", sourceName, "type", sourceCfg.Type)

			var tracker *progress.Tracker
			if opts.Progress != nil {
				tracker = &progress.Tracker{Message: sourceName, Units: progress.UnitsDefault}
				opts.Progress.AppendTracker(tracker)
			}

			state := runState{}
			state.result, state.err = syncSource(
				groupCtx,
				extractor,
				sourceName,
				sourceCfg,
				previousLock,
				opts.Force,
				tracker,
			)
			if state.err != nil && tracker != nil {
				tracker.MarkAsErrored()
			}

			if state.err != nil {
				log.Error("source failed", "source", sourceName, "err", state.err)
			}

			resultsMu.Lock()
			results[sourceName] = state
			resultsMu.Unlock()

			emit(opts.OnEvent, Event{
				Kind:   EventSourceDone,
				Source: sourceName,
				Result: state.result,
				Err:    state.err,
			})
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, oops.Wrapf(err, "waiting for source sync workers")
	}

	run := &RunResult{
		Sources: len(sourceNames),
		Results: make(map[string]*SourceResult, len(sourceNames)),
		Failed:  map[string]error{},
	}
	seen := map[string]string{}
	now := time.Now().UTC()

	for _, sourceName := range sourceNames {
		state := results[sourceName]
		if state.err != nil {
			run.Errors++
			run.Failed[sourceName] = state.err
			continue
		}

		result := state.result
		run.Results[sourceName] = result
		run.Degradations += result.Degradations
		run.PageFailures += len(result.Failures)

		if result.Skipped {
			run.Skipped++
			for _, label := range result.lockEntry.Labels {
				seen[label] = sourceName
			}
			lock.SetEntry(sourceName, result.lockEntry)
			log.Info("source up to date", "source", sourceName)
			continue
		}

		if applyErr := applySource(store, sourceName, result, seen, run, now); applyErr != nil {
			run.Errors++
			run.Failed[sourceName] = applyErr
			log.Error("storing records failed", "source", sourceName, "err", applyErr)
			continue
		}

		result.lockEntry.Labels = slices.Clone(result.Labels)
		lock.SetEntry(sourceName, result.lockEntry)
		log.Info("source synced",
			"source", sourceName,
			"documents", result.Documents,
			"records", len(result.Labels),
		)
	}

	if !opts.DryRun {
		if err := store.Save(outputDir); err != nil {
			return run, err
		}

		if err := lock.Save(outputDir); err != nil {
			return run, err
		}
	}

	if run.Errors > 0 {
		return run, oops.
			Code("DOWNLOAD_FAILED").
			With("failed_sources", run.Errors).
			Errorf("%d source(s) failed during sync", run.Errors)
	}

	return run, nil
}

// syncSource fetches one source and extracts its pages. It does not touch shared
// state, so it can run in parallel with other sources.
func syncSource(
	ctx context.Context,
	extractor *extract.Extractor,
	sourceName string,
	sourceCfg config.Source,
	previousLock *lockfile.LockEntry,
	force bool,
	tracker *progress.Tracker,
) (*SourceResult, error) {
	log := logger.FromContext(ctx).With("source", sourceName)

	src, err := source.New(sourceName, sourceCfg)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = src.Close()
	}()

	fetched, err := src.Fetch(ctx, previousLock, source.FetchOptions{Force: force}, tracker)
	if err != nil {
		return nil, err
	}

	result := &SourceResult{
		Documents: len(fetched.Documents),
		Skipped:   fetched.Skipped,
		lockEntry: fetched.LockEntry,
	}

	if fetched.Skipped {
		result.Labels = slices.Clone(fetched.LockEntry.Labels)
		return result, nil
	}

	override := ""
	if len(fetched.Documents) == 1 {
		override = sourceCfg.Label
	}

	for _, doc := range fetched.Documents {
		page, extractErr := extractor.Read(bytes.NewReader(doc.Content), doc.Location, override)
		if extractErr != nil {
			log.Warn("page skipped", "location", doc.Location, "err", extractErr)
			result.Failures = append(result.Failures, PageFailure{Location: doc.Location, Err: extractErr})
			continue
		}

		if page.Label == "" {
			page.Label = fallbackLabel(sourceName, sourceCfg.Type, doc)
		}

		for _, degradation := range page.Degradations {
			log.Warn("math degraded", "label", page.Label, "at", degradation.String())
		}
		result.Degradations += len(page.Degradations)

		result.pages = append(result.pages, pageRecord{location: doc.Location, page: page})
	}

	return result, nil
}

// applySource replaces the records of one source in the manifest. A label already
// stored by an earlier source in this run is kept and reported as a duplicate. On
// error the source's previous records are restored and nothing is reported.
func applySource(
	store *manifest.Manifest,
	sourceName string,
	result *SourceResult,
	seen map[string]string,
	run *RunResult,
	now time.Time,
) error {
	previous := make(map[string]*manifest.Record)
	for label, rec := range store.Records {
		if rec.Source == sourceName {
			previous[label] = rec
		}
	}
	store.RemoveSource(sourceName)

	var labels []string
	var duplicates []string
	var failures []PageFailure

	rollback := func() {
		for _, label := range labels {
			store.Remove(label)
		}
		for label, rec := range previous {
			store.Records[label] = rec
		}
	}

	for _, pr := range result.pages {
		label := pr.page.Label
		owner, ok := seen[label]
		if !ok && slices.Contains(labels, label) {
			owner, ok = sourceName, true
		}
		if ok {
			duplicates = append(duplicates, label)
			failures = append(failures, duplicateFailure(owner, label))
			continue
		}

		rec, err := manifest.NewRecord(sourceName, pr.location, pr.page, now)
		if err == nil {
			err = store.Put(rec)
		}
		if err != nil {
			rollback()
			return err
		}

		labels = append(labels, label)
	}

	for _, label := range labels {
		seen[label] = sourceName
	}
	run.Duplicates = append(run.Duplicates, duplicates...)
	run.Records += len(labels)
	result.Failures = append(result.Failures, failures...)
	result.Labels = append(result.Labels, labels...)
	slices.Sort(result.Labels)
	return nil
}

func duplicateFailure(owner, label string) PageFailure {
	return PageFailure{
		Location: label,
		Err: oops.
			Code("DUPLICATE_LABEL").
			With("label", label).
			With("owner", owner).
			Errorf("group %q already stored by source %q in this run", label, owner),
	}
}

// fallbackLabel names a page that carries no label of its own: the source name for
// URL sources, the file name without extension for file sources.
func fallbackLabel(sourceName, sourceType string, doc source.Document) string {
	if sourceType == config.SourceTypeURL {
		return sourceName
	}

	base := path.Base(filepath.ToSlash(doc.Path))
	return strings.TrimSuffix(base, path.Ext(base))
}

func emit(handler func(Event), event Event) {
	if handler != nil {
		handler(event)
	}
}

func resolveSourceNames(
	sourceConfigs map[string]config.Source,
	requestedNames []string,
) ([]string, error) {
	if len(requestedNames) == 0 {
		sourceNames := make([]string, 0, len(sourceConfigs))
		for sourceName := range sourceConfigs {
			sourceNames = append(sourceNames, sourceName)
		}

		slices.Sort(sourceNames)
		return sourceNames, nil
	}

	sourceNames := make([]string, 0, len(requestedNames))
	seen := make(map[string]struct{}, len(requestedNames))

	for _, sourceName := range requestedNames {
		if _, ok := sourceConfigs[sourceName]; !ok {
			return nil, oops.
				Code("SOURCE_NOT_FOUND").
				With("source", sourceName).
				Hint("Check the [sources] tables in groupnames.toml").
				Errorf("source %q not found in config", sourceName)
		}

		if _, exists := seen[sourceName]; exists {
			continue
		}

		seen[sourceName] = struct{}{}
		sourceNames = append(sourceNames, sourceName)
	}

	return sourceNames, nil
}

func resolveOutputRoot(cfg *config.Config) string {
	return cfg.OutputDir()
}
