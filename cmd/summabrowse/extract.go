package main

import (
	"bytes"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/mrjoshuak/summabrowse"
)

type extractOptions struct {
	format    string
	output    string
	outputDir string
	jobs      int
	compact   bool
	sanitize  bool
	render    bool
}

// extracted is the JSON document written for one input.
type extracted struct {
	Source string `json:"source"`
	URL    string `json:"url,omitempty"`
	*summabrowse.Result
}

func newExtractCmd(a *app) *cobra.Command {
	opts := &extractOptions{}
	cmd := &cobra.Command{
		Use:     "extract [input...]",
		GroupID: "content",
		Short:   "Extract the main content of one or more pages",
		Long: `Extract the main readable content of HTML pages.

Inputs are processed concurrently. Without --output-dir the results are
printed to stdout in input order.

Examples:
  summabrowse extract article.html
  summabrowse extract article.html --format html --output article.html
  summabrowse extract a.html b.html https://example.com/post --output-dir ./extracted
  cat article.html | summabrowse extract - --format text`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runExtract(cmd, args, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.format, "format", "f", "json", "Output format: json, html, or text")
	f.StringVarP(&opts.output, "output", "o", "", "Output file path for a single input (default: stdout)")
	f.StringVar(&opts.outputDir, "output-dir", "", "Output directory for batch processing")
	f.IntVarP(&opts.jobs, "jobs", "j", 4, "Number of inputs processed concurrently")
	f.BoolVar(&opts.compact, "compact", false, "Output compact JSON without indentation")
	f.BoolVar(&opts.sanitize, "sanitize", false, "Sanitize the extracted HTML")
	f.BoolVar(&opts.render, "render", false, "Render web inputs in headless Chrome")
	return cmd
}

func (a *app) runExtract(cmd *cobra.Command, args []string, opts *extractOptions) error {
	format, err := parseFormat(opts.format)
	if err != nil {
		return err
	}
	if a.jsonOutput {
		format = FormatJSON
	}
	if len(args) == 0 {
		args = []string{"-"}
	}
	if opts.output != "" && len(args) > 1 {
		return fmt.Errorf("--output needs a single input; use --output-dir for several")
	}
	if opts.outputDir != "" {
		if err := os.MkdirAll(opts.outputDir, 0o755); err != nil {
			return fmt.Errorf("error creating output directory: %w", err)
		}
	}

	outputs := make([][]byte, len(args))
	names := outputNames(args)

	g, ctx := errgroup.WithContext(cmd.Context())
	if opts.jobs > 0 {
		g.SetLimit(opts.jobs)
	}
	for i, name := range args {
		i, name := i, name
		g.Go(func() error {
			src, err := a.load(ctx, name, cmd.InOrStdin(), opts.render)
			if err != nil {
				return err
			}
			result, err := a.extractor(opts.sanitize, src.URL).ExtractFromHTML(src.HTML, nil)
			if err != nil {
				return fmt.Errorf("error extracting content from %s: %w", name, err)
			}
			log.Info().Str("input", name).Str("method", result.ExtractionMethod).Int("words", result.WordCount).Msg("extracted")

			data, err := render(format, extracted{Source: name, URL: src.URL, Result: result}, opts.compact)
			if err != nil {
				return err
			}

			if opts.outputDir != "" {
				dest := filepath.Join(opts.outputDir, names[i]+format.Extension())
				if err := os.WriteFile(dest, data, 0o644); err != nil {
					return fmt.Errorf("error creating output file %s: %w", dest, err)
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Processed %s -> %s\n", name, dest)
				return nil
			}
			outputs[i] = data
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	if opts.outputDir != "" {
		return nil
	}

	var out io.Writer = cmd.OutOrStdout()
	if opts.output != "" {
		return os.WriteFile(opts.output, outputs[0], 0o644)
	}
	for _, data := range outputs {
		if _, err := out.Write(data); err != nil {
			return fmt.Errorf("error writing output: %w", err)
		}
	}
	return nil
}

func render(format OutputFormat, e extracted, compact bool) ([]byte, error) {
	switch format {
	case FormatHTML:
		return []byte(e.HTML + "\n"), nil
	case FormatText:
		return []byte(e.Text + "\n"), nil
	default:
		var buf bytes.Buffer
		if err := writeJSON(&buf, e, compact); err != nil {
			return nil, fmt.Errorf("error converting result to JSON: %w", err)
		}
		return buf.Bytes(), nil
	}
}

// outputNames assigns every input a distinct batch output name. Later
// inputs whose name is taken get a numeric suffix.
func outputNames(args []string) []string {
	names := make([]string, len(args))
	used := make(map[string]bool, len(args))
	for i, arg := range args {
		base := outputName(arg, i)
		name := base
		for n := i + 1; used[name]; n++ {
			name = fmt.Sprintf("%s-%d", base, n)
		}
		used[name] = true
		names[i] = name
	}
	return names
}

// outputName derives a batch output file name from an input name.
func outputName(name string, index int) string {
	if name == "-" {
		return "stdin"
	}
	if isWebURL(name) {
		u, err := url.Parse(name)
		if err != nil || strings.Trim(u.Path, "/") == "" {
			return fmt.Sprintf("page-%d", index+1)
		}
		name = path.Base(strings.TrimRight(u.Path, "/"))
	}
	base := filepath.Base(name)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
