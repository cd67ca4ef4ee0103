package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

// ErrBadStatus is returned when a remote source answers with a non-2xx status.
var ErrBadStatus = errors.New("unexpected HTTP status")

// NewClient returns an HTTP client with the given timeout (zero means none)
// that sends userAgent on every request when it is not empty.
func NewClient(timeout time.Duration, userAgent string) *http.Client {
	var rt http.RoundTripper = http.DefaultTransport
	if userAgent != "" {
		rt = &userAgentTransport{next: rt, userAgent: userAgent}
	}
	return &http.Client{Timeout: timeout, Transport: rt}
}

type userAgentTransport struct {
	next      http.RoundTripper
	userAgent string
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("User-Agent", t.userAgent)
	return t.next.RoundTrip(req)
}

// IsRemote reports whether source is an http or https URL.
func IsRemote(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// Open returns the content of source. Sources are http(s) URLs, file://
// URLs or plain file paths. A nil client uses http.DefaultClient.
func Open(ctx context.Context, client *http.Client, source string) (io.ReadCloser, error) {
	if !IsRemote(source) {
		path := source
		if strings.HasPrefix(source, "file://") {
			u, err := url.Parse(source)
			if err != nil {
				return nil, fmt.Errorf("parsing %q: %w", source, err)
			}
			path = u.Path
		}
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening %s: %w", path, err)
		}
		return f, nil
	}

	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, fmt.Errorf("building request for %s: %w", source, err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", source, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, fmt.Errorf("fetching %s: %w: %s", source, ErrBadStatus, resp.Status)
	}
	return resp.Body, nil
}

// Download copies source to path, replacing any existing file.
func Download(ctx context.Context, client *http.Client, source, path string) error {
	body, err := Open(ctx, client, source)
	if err != nil {
		return err
	}
	defer body.Close()

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if _, err := io.Copy(f, body); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	return nil
}
