package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/mrjoshuak/summabrowse"
	"github.com/mrjoshuak/summabrowse/internal/client"
	"github.com/mrjoshuak/summabrowse/internal/config"
	"github.com/mrjoshuak/summabrowse/internal/dom"
	"github.com/mrjoshuak/summabrowse/internal/fetch"
	"github.com/mrjoshuak/summabrowse/internal/session"
)

// OutputFormat represents the supported output formats for extracted content.
type OutputFormat string

const (
	FormatJSON OutputFormat = "json"
	FormatHTML OutputFormat = "html"
	FormatText OutputFormat = "text"
)

func parseFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(s)); f {
	case FormatJSON, FormatHTML, FormatText:
		return f, nil
	default:
		return "", fmt.Errorf("invalid output format: %s. Must be one of: json, html, text", s)
	}
}

// Extension returns the file extension used in batch output.
func (f OutputFormat) Extension() string {
	switch f {
	case FormatHTML:
		return ".html"
	case FormatText:
		return ".txt"
	default:
		return ".json"
	}
}

// source is a loaded input document.
type source struct {
	// Name is the input as given on the command line.
	Name string
	// URL is the page URL: the final URL for fetched pages, a file URL for
	// local files, empty for stdin.
	URL  string
	HTML string
}

func isWebURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// load reads an input from stdin, a file or the web. render selects the
// headless browser for web inputs.
func (a *app) load(ctx context.Context, name string, stdin io.Reader, render bool) (*source, error) {
	switch {
	case name == "-" || name == "":
		b, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return &source{Name: "-", HTML: string(b)}, nil

	case isWebURL(name):
		var page *fetch.Page
		var err error
		if render || a.cfg.Fetch.Render {
			r := &fetch.Renderer{UserAgent: a.cfg.Fetch.UserAgent, Timeout: a.cfg.Fetch.Timeout.Duration, ExecPath: a.cfg.Fetch.ChromePath}
			page, err = r.Render(ctx, name)
		} else {
			c := &fetch.Client{
				UserAgent:         a.cfg.Fetch.UserAgent,
				MaxAttempts:       a.cfg.Fetch.MaxAttempts,
				PerRequestTimeout: a.cfg.Fetch.Timeout.Duration,
				MaxBytes:          a.cfg.Fetch.MaxBytes,
			}
			page, err = c.Get(ctx, name)
		}
		if err != nil {
			return nil, err
		}
		log.Debug().Str("url", page.URL).Int("bytes", len(page.Body)).Msg("fetched page")
		return &source{Name: name, URL: page.URL, HTML: string(page.Body)}, nil

	default:
		b, err := os.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("error opening input file %s: %w", name, err)
		}
		pageURL := name
		if abs, err := filepath.Abs(name); err == nil {
			pageURL = (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String()
		}
		return &source{Name: name, URL: pageURL, HTML: string(b)}, nil
	}
}

// extractor builds a library extractor from the configuration.
func (a *app) extractor(sanitize bool, pageURL string) summabrowse.Extractor {
	return summabrowse.New(
		summabrowse.WithSanitizedHTML(sanitize || a.cfg.Extract.SanitizeHTML),
		summabrowse.WithMaxBufferSize(a.cfg.Extract.MaxBufferSize),
		summabrowse.WithTimeout(a.cfg.Extract.Timeout.Duration),
		summabrowse.WithPageURL(pageURL),
		summabrowse.WithLogger(log.Logger),
	)
}

// document parses src, enforcing the configured size limit.
func (a *app) document(src *source) (*dom.Document, error) {
	if max := a.cfg.Extract.MaxBufferSize; max > 0 && len(src.HTML) > max {
		return nil, fmt.Errorf("%s: %w", src.Name, summabrowse.ErrDocumentTooLarge)
	}
	doc, err := dom.ParseString(src.HTML)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", src.Name, err)
	}
	return doc, nil
}

// page opens an interactive session over src.
func (a *app) page(src *source) (*session.Page, error) {
	doc, err := a.document(src)
	if err != nil {
		return nil, err
	}
	return session.Open(doc, src.URL, session.WithLogger(log.Logger)), nil
}

// summarizer returns the configured summarization backend.
func (a *app) summarizer() client.Summarizer {
	if a.cfg.Summarizer == config.BackendOpenAI {
		o := client.NewOpenAI(a.cfg.OpenAI.APIKey, a.cfg.OpenAI.BaseURL, a.cfg.OpenAI.Model)
		if a.cfg.OpenAI.MaxInputChars > 0 {
			o.MaxInputChars = a.cfg.OpenAI.MaxInputChars
		}
		return o
	}
	api := client.NewAPI(a.cfg.API.URL, a.cfg.API.Timeout.Duration, a.cfg.API.RateLimit)
	api.UserAgent = fetch.DefaultUserAgent
	return api
}

func writeJSON(w io.Writer, v any, compact bool) error {
	enc := json.NewEncoder(w)
	if !compact {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}
