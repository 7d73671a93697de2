package source

import (
	"context"
	"io"
	"net/http"
	neturl "net/url"
	"path"
	"time"

	"github.com/jedib0t/go-pretty/v6/progress"
	"github.com/samber/oops"
	"resty.dev/v3"

	"github.com/g5becks/groupnames/internal/config"
	"github.com/g5becks/groupnames/internal/lockfile"
)

const (
	userAgent           = "groupnames"
	httpRetryCount      = 3
	httpRetryMaxWaitSec = 5
)

type urlSource struct {
	name     string
	source   config.Source
	filename string
	client   *resty.Client
}

func NewURL(name string, cfg config.Source) (Source, error) {
	if cfg.URL == "" {
		return nil, oops.
			Code("CONFIG_INVALID").
			With("source", name).
			Hint("Set url for the source in groupnames.toml").
			Errorf("source %q has no url", name)
	}

	return &urlSource{
		name:     name,
		source:   cfg,
		filename: filenameFromURL(name, cfg.URL),
		client:   newClient(),
	}, nil
}

func newClient() *resty.Client {
	client := resty.New()
	client.SetHeader("User-Agent", userAgent)
	client.SetHeader("Accept", "text/html")
	client.SetRetryCount(httpRetryCount)
	client.SetRetryWaitTime(1 * time.Second)
	client.SetRetryMaxWaitTime(httpRetryMaxWaitSec * time.Second)

	return client
}

func (s *urlSource) Close() error {
	return s.client.Close()
}

func (s *urlSource) Fetch(
	ctx context.Context,
	prevLock *lockfile.LockEntry,
	opts FetchOptions,
	tracker *progress.Tracker,
) (*FetchResult, error) {
	if tracker != nil {
		tracker.UpdateTotal(1)
		defer tracker.MarkAsDone()
	}

	request := s.client.R().SetContext(ctx)
	if !opts.Force && prevLock != nil {
		if prevLock.ETag != "" {
			request.SetHeader("If-None-Match", prevLock.ETag)
		}
		if prevLock.LastMod != "" {
			request.SetHeader("If-Modified-Since", prevLock.LastMod)
		}
	}

	response, err := request.Get(s.source.URL)
	if err != nil {
		return nil, oops.
			Code("DOWNLOAD_FAILED").
			With("source", s.name).
			With("url", s.source.URL).
			Wrapf(err, "downloading url source")
	}

	if response.StatusCode() == http.StatusNotModified {
		lock := cloneLockEntry(prevLock)
		if lock == nil {
			lock = &lockfile.LockEntry{}
		}

		lock.Type = config.SourceTypeURL
		lock.SyncedAt = time.Now().UTC()

		return &FetchResult{
			Skipped:   true,
			LockEntry: lock,
		}, nil
	}

	if response.StatusCode() < http.StatusOK || response.StatusCode() >= http.StatusMultipleChoices {
		return nil, oops.
			Code("DOWNLOAD_FAILED").
			With("source", s.name).
			With("url", s.source.URL).
			With("status", response.StatusCode()).
			Errorf("url source returned non-success status %d", response.StatusCode())
	}

	content, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, oops.
			Code("DOWNLOAD_FAILED").
			With("source", s.name).
			With("url", s.source.URL).
			Wrapf(err, "reading response body")
	}

	if tracker != nil {
		tracker.Increment(1)
	}

	return &FetchResult{
		Documents: []Document{{
			Location: s.source.URL,
			Path:     s.filename,
			Content:  content,
		}},
		LockEntry: &lockfile.LockEntry{
			Type:     config.SourceTypeURL,
			ETag:     response.Header().Get("ETag"),
			LastMod:  response.Header().Get("Last-Modified"),
			SyncedAt: time.Now().UTC(),
		},
	}, nil
}

func filenameFromURL(sourceName string, rawURL string) string {
	parsed, err := neturl.Parse(rawURL)
	if err == nil {
		baseName := path.Base(parsed.Path)
		if baseName != "" && baseName != "." && baseName != "/" {
			return baseName
		}
	}

	return sourceName + ".html"
}
