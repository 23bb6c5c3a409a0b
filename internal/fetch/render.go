package fetch

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
)

// Renderer loads pages in headless Chrome so that script-built content is
// present in the returned markup.
type Renderer struct {
	UserAgent    string
	Timeout      time.Duration
	WindowWidth  int
	WindowHeight int
	// ExecPath overrides the Chrome binary. Empty uses chromedp's lookup.
	ExecPath string
}

// AllocatorOptions returns the Chrome flags used for rendering.
func (r *Renderer) AllocatorOptions() []chromedp.ExecAllocatorOption {
	width, height := r.WindowWidth, r.WindowHeight
	if width <= 0 || height <= 0 {
		width, height = 1366, 900
	}
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.WindowSize(width, height),
	)
	ua := r.UserAgent
	if ua == "" {
		ua = DefaultUserAgent
	}
	opts = append(opts, chromedp.UserAgent(ua))
	if r.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(r.ExecPath))
	}
	return opts
}

// Render navigates to rawURL, waits for the body and returns the document's
// outer HTML along with the final URL.
func (r *Renderer) Render(ctx context.Context, rawURL string) (*Page, error) {
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, r.AllocatorOptions()...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	var html, finalURL string
	err := chromedp.Run(browserCtx, chromedp.Tasks{
		chromedp.Navigate(rawURL),
		chromedp.WaitReady("body"),
		chromedp.Location(&finalURL),
		chromedp.OuterHTML("html", &html),
	})
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", rawURL, err)
	}

	return &Page{URL: finalURL, ContentType: "text/html", Body: []byte(html)}, nil
}
