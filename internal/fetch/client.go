package fetch

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// BrowserMode controls when a headless browser is used.
type BrowserMode int

const (
	// BrowserAuto uses a browser for known script-rendered hosts and for
	// pages whose plain HTTP body has almost no text.
	BrowserAuto BrowserMode = iota
	BrowserAlways
	BrowserNever
)

// ParseBrowserMode maps a flag value to a mode. Unknown values select auto.
func ParseBrowserMode(s string) BrowserMode {
	switch s {
	case "always", "true":
		return BrowserAlways
	case "never", "false":
		return BrowserNever
	}
	return BrowserAuto
}

// Client fetches the HTML of a reference resume page.
type Client struct {
	opts    *Options
	mode    BrowserMode
	timeout time.Duration
	logger  *zap.Logger

	render func(ctx context.Context, url string) (string, error)
}

// NewClient returns a client. nil opts selects DefaultOptions.
func NewClient(opts *Options, mode BrowserMode, logger *zap.Logger) *Client {
	if opts == nil {
		opts = DefaultOptions()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Client{opts: opts, mode: mode, timeout: opts.Timeout, logger: logger}
	c.render = func(ctx context.Context, url string) (string, error) {
		return WithBrowser(ctx, url, c.timeout, c.logger)
	}
	return c
}

// HTML returns the page's HTML, rendered in a browser when the mode and the
// page call for it. In auto mode a failed browser render falls back to the
// plain HTTP body.
func (c *Client) HTML(ctx context.Context, url string) (string, error) {
	platform := DetectPlatform(url)
	if c.mode == BrowserAlways || (c.mode == BrowserAuto && platform.NeedsBrowser()) {
		html, err := c.render(ctx, url)
		if err != nil {
			return "", &Error{URL: url, Message: "browser render failed", Cause: err}
		}
		return html, nil
	}

	page, err := Get(ctx, url, c.opts)
	if err != nil {
		return "", err
	}
	if c.mode == BrowserNever {
		return page.HTML, nil
	}

	text, err := MainText(page.HTML, platform)
	if err != nil {
		return "", &Error{URL: url, Message: "failed to parse page", Cause: err}
	}
	if !ShouldUseBrowser(text) {
		return page.HTML, nil
	}

	c.logger.Debug("page looks script-rendered", zap.String("url", url), zap.Int("text_len", len(text)))
	html, err := c.render(ctx, url)
	if err != nil {
		c.logger.Warn("browser fallback failed", zap.String("url", url), zap.Error(err))
		return page.HTML, nil
	}
	return html, nil
}

func (m BrowserMode) String() string {
	switch m {
	case BrowserAlways:
		return "always"
	case BrowserNever:
		return "never"
	default:
		return "auto"
	}
}
