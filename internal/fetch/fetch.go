// Package fetch retrieves reference resumes published as web pages, over
// plain HTTP or through a headless browser for script-rendered pages.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "Mozilla/5.0 (compatible; ResumeDocx/1.0)"

	// Page chrome that never carries resume headings.
	chromeSelector = "nav, footer, header, script, style, noscript, .sidebar, .popup"
)

// Page is a reference page as served over HTTP.
type Page struct {
	URL    string
	HTML   string
	Status int
}

// Error is returned when a reference page cannot be retrieved.
type Error struct {
	URL     string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetching %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetching %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Options holds the request limits shared by HTTP and browser fetches.
type Options struct {
	Timeout   time.Duration
	UserAgent string
}

// DefaultOptions returns a 30s timeout and the ResumeDocx user agent.
func DefaultOptions() *Options {
	return &Options{Timeout: defaultTimeout, UserAgent: defaultUserAgent}
}

// Get fetches rawURL over plain HTTP. A non-200 answer returns the page
// together with the error.
func Get(ctx context.Context, rawURL string, opts *Options) (*Page, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, &Error{URL: rawURL, Message: "invalid URL", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &Error{URL: rawURL, Message: "building request", Cause: err}
	}
	req.Header.Set("User-Agent", opts.UserAgent)
	req.Header.Set("Accept", "text/html")

	resp, err := (&http.Client{Timeout: opts.Timeout}).Do(req)
	if err != nil {
		return nil, &Error{URL: rawURL, Message: "request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{URL: rawURL, Message: "reading body", Cause: err}
	}

	page := &Page{URL: rawURL, HTML: string(body), Status: resp.StatusCode}
	if resp.StatusCode != http.StatusOK {
		return page, &Error{URL: rawURL, Message: fmt.Sprintf("HTTP status %d", resp.StatusCode)}
	}
	return page, nil
}

// MainText returns the visible text of the resume on a page hosted on p.
// Page chrome and the platform's noise are dropped first; when none of the
// platform's content selectors match, the whole body is used. Blank lines
// are removed.
func MainText(html string, p Platform) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("parsing HTML: %w", err)
	}

	doc.Find(chromeSelector).Remove()
	doc.Find(strings.Join(PlatformNoiseSelectors(p), ", ")).Remove()

	content := doc.Find("body")
	for _, sel := range PlatformContentSelectors(p) {
		if found := doc.Find(sel); found.Length() > 0 {
			content = found.First()
			break
		}
	}

	var lines []string
	for _, line := range strings.Split(content.Text(), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n"), nil
}

// resumeSelectors are tried in order on self-hosted resume pages.
var resumeSelectors = []string{
	"#resume", ".resume", "#cv", ".cv",
	"main", "article",
	"#content", ".content",
}
