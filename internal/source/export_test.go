package source

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"

	"resty.dev/v3"

	"github.com/g5becks/groupnames/internal/config"
)

//nolint:gochecknoglobals // Test-only exports
var (
	FilenameFromURL   = filenameFromURL
	ShouldIncludeFile = shouldIncludeFile
)

// TestableURLSource creates a urlSource and returns it as a Source + a setter for the client.
func TestableURLSource(t *testing.T, name string, cfg config.Source) (Source, func(*resty.Client)) {
	t.Helper()

	src, err := NewURL(name, cfg)
	if err != nil {
		t.Fatalf("NewURL() error = %v", err)
	}

	u := src.(*urlSource)

	return u, func(client *resty.Client) {
		u.client = client
	}
}

// RoundTripFunc adapts a function to http.RoundTripper for URL test mocking.
type RoundTripFunc func(*http.Request) *http.Response

// RoundTrip implements http.RoundTripper.
func (f RoundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req), nil
}

// NewMockRestyClient creates a resty client with a custom round-trip handler.
func NewMockRestyClient(handler RoundTripFunc) *resty.Client {
	client := resty.New()
	client.SetTransport(handler)

	return client
}

// NewHTTPResponse creates a mock HTTP response for tests.
func NewHTTPResponse(
	req *http.Request,
	status int,
	body string,
	header http.Header,
) *http.Response {
	if header == nil {
		header = make(http.Header)
	}

	return &http.Response{
		Status:        fmt.Sprintf("%d %s", status, http.StatusText(status)),
		StatusCode:    status,
		Header:        header,
		Body:          io.NopCloser(strings.NewReader(body)),
		ContentLength: int64(len(body)),
		Request:       req,
	}
}
