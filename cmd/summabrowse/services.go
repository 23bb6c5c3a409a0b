package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/mrjoshuak/summabrowse"
	"github.com/mrjoshuak/summabrowse/internal/client"
	"github.com/mrjoshuak/summabrowse/internal/session"
	"github.com/mrjoshuak/summabrowse/internal/textutil"
)

// summaryOutput is printed by summarize and analyze with --json.
type summaryOutput struct {
	Source    string `json:"source"`
	Kind      string `json:"kind,omitempty"`
	Summary   string `json:"summary,omitempty"`
	Analysis  string `json:"analysis,omitempty"`
	WordCount int    `json:"wordCount"`
	Fallback  bool   `json:"fallback,omitempty"`
}

// textFor returns the text to send: the selection when a selector is given,
// otherwise the extracted page content.
func (a *app) textFor(cmd *cobra.Command, input, selector string) (text, kind string, err error) {
	src, err := a.load(cmd.Context(), input, cmd.InOrStdin(), false)
	if err != nil {
		return "", "", err
	}
	ext := a.extractor(false, src.URL)
	if selector != "" {
		sel, err := ext.Selection(src.HTML, selector)
		if err != nil {
			return "", "", err
		}
		return sel.Text, client.KindSelection, nil
	}
	result, err := ext.ExtractFromHTML(src.HTML, nil)
	if err != nil {
		return "", "", err
	}
	return result.Text, client.KindPage, nil
}

func newSummarizeCmd(a *app) *cobra.Command {
	var selector, length string
	cmd := &cobra.Command{
		Use:     "summarize <input>",
		GroupID: "services",
		Short:   "Summarize a page or a selection with the configured service",
		Example: `  summabrowse summarize https://example.com/article
  summabrowse summarize article.html --selector ".post-content p" --length detailed`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, kind, err := a.textFor(cmd, args[0], selector)
			if err != nil {
				return err
			}
			if text == "" {
				return client.ErrEmptyText
			}
			log.Info().Str("kind", kind).Int("chars", len(text)).Msg("requesting summary")

			summary, err := a.summarizer().Summarize(cmd.Context(), text, kind, length)
			if err != nil {
				return err
			}
			if a.jsonOutput {
				return writeJSON(cmd.OutOrStdout(), summaryOutput{
					Source: args[0], Kind: kind, Summary: summary, WordCount: textutil.CountWords(text),
				}, false)
			}
			fmt.Fprintln(cmd.OutOrStdout(), summary)
			return nil
		},
	}
	cmd.Flags().StringVarP(&selector, "selector", "s", "", "Summarize only the elements matching this CSS selector")
	cmd.Flags().StringVarP(&length, "length", "l", client.LengthBrief, "Summary length: brief or detailed")
	return cmd
}

func newAnalyzeCmd(a *app) *cobra.Command {
	var selector string
	var noFallback bool
	cmd := &cobra.Command{
		Use:     "analyze <input>",
		GroupID: "services",
		Short:   "Analyze a page with the configured service",
		Long: `Ask the configured service for a content analysis. When the service is
unreachable the most frequent terms of the content are reported instead,
unless --no-fallback is set.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, kind, err := a.textFor(cmd, args[0], selector)
			if err != nil {
				return err
			}
			if text == "" {
				return client.ErrEmptyText
			}

			out := summaryOutput{Source: args[0], Kind: kind, WordCount: textutil.CountWords(text)}
			analysis, err := a.summarizer().Analyze(cmd.Context(), text)
			switch {
			case err == nil:
				out.Analysis = analysis
			case noFallback || errors.Is(err, client.ErrEmptyText):
				return err
			default:
				log.Warn().Err(err).Msg("analysis failed, reporting local key terms")
				out.Analysis = textutil.FormatKeywords(textutil.Keywords(text, textutil.DefaultKeywordLimit))
				out.Fallback = true
			}

			if a.jsonOutput {
				return writeJSON(cmd.OutOrStdout(), out, false)
			}
			fmt.Fprintln(cmd.OutOrStdout(), out.Analysis)
			return nil
		},
	}
	cmd.Flags().StringVarP(&selector, "selector", "s", "", "Analyze only the elements matching this CSS selector")
	cmd.Flags().BoolVar(&noFallback, "no-fallback", false, "Fail instead of reporting local key terms")
	return cmd
}

func newUploadCmd(a *app) *cobra.Command {
	var downloadDir string
	cmd := &cobra.Command{
		Use:     "upload <file>",
		GroupID: "services",
		Short:   "Summarize a PDF or image with the file-processing server",
		Long: `Upload a PDF or image (png, jpg, jpeg, gif, bmp, webp; at most 16MB) to
the file-processing server, print its summary and optionally save the
summary file it produces.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			up := client.NewUploader(a.cfg.Upload.URL, a.cfg.Upload.Timeout.Duration)
			result, err := up.Process(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			log.Info().Str("file", result.FileInfo.Name).Int64("size", result.FileInfo.Size).Msg("file processed")

			if err := saveDownload(cmd, up, result.DownloadURL, downloadDir); err != nil {
				return err
			}

			if a.jsonOutput {
				return writeJSON(cmd.OutOrStdout(), result, false)
			}
			fmt.Fprintln(cmd.OutOrStdout(), result.Summary)
			return nil
		},
	}
	cmd.Flags().StringVar(&downloadDir, "download", "", "Save the summary file into this directory")
	return cmd
}

func newVideoCmd(a *app) *cobra.Command {
	var downloadDir string
	cmd := &cobra.Command{
		Use:     "video <youtube-url>",
		GroupID: "services",
		Short:   "Summarize a YouTube video with the file-processing server",
		Long: `Ask the file-processing server to transcribe and summarize a YouTube
video, print its summary and optionally save the full report with the
transcript.`,
		Example: `  summabrowse video https://www.youtube.com/watch?v=dQw4w9WgXcQ
  summabrowse video https://youtu.be/dQw4w9WgXcQ --download ./summaries`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			up := client.NewUploader(a.cfg.Upload.URL, a.cfg.Upload.Timeout.Duration)
			result, err := up.ProcessVideo(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			log.Info().Str("title", result.Metadata.Title).Str("method", result.ProcessingMethod).Msg("video processed")

			if err := saveDownload(cmd, up, result.DownloadURL, downloadDir); err != nil {
				return err
			}

			if a.jsonOutput {
				return writeJSON(cmd.OutOrStdout(), result, false)
			}
			w := cmd.OutOrStdout()
			if result.Metadata.Title != "" {
				fmt.Fprintf(w, "%s\n\n", result.Metadata.Title)
			}
			fmt.Fprintln(w, result.Summary)
			return nil
		},
	}
	cmd.Flags().StringVar(&downloadDir, "download", "", "Save the summary report into this directory")
	return cmd
}

// saveDownload stores the file behind downloadURL in dir. It does nothing
// when either is empty.
func saveDownload(cmd *cobra.Command, up *client.Uploader, downloadURL, dir string) error {
	if dir == "" || downloadURL == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	dest := filepath.Join(dir, filepath.Base(downloadURL))
	f, err := os.Create(dest)
	if err != nil {
		return err
	}
	_, err = up.Download(cmd.Context(), downloadURL, f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("save summary: %w", err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Saved %s\n", dest)
	return nil
}

func newHealthCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "health",
		GroupID: "services",
		Short:   "Check the summarization and file-processing services",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			report := map[string]string{}

			api := client.NewAPI(a.cfg.API.URL, a.cfg.API.Timeout.Duration, 0)
			if s, err := api.Health(ctx); err != nil {
				report["api"] = "unavailable: " + err.Error()
			} else {
				report["api"] = s.Status
			}

			up := client.NewUploader(a.cfg.Upload.URL, a.cfg.Upload.Timeout.Duration)
			if s, err := up.Health(ctx); err != nil {
				report["upload"] = "unavailable: " + err.Error()
			} else {
				report["upload"] = s.Status
			}

			if a.jsonOutput {
				return writeJSON(cmd.OutOrStdout(), report, false)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "api     %s (%s)\n", report["api"], a.cfg.API.URL)
			fmt.Fprintf(cmd.OutOrStdout(), "upload  %s (%s)\n", report["upload"], a.cfg.Upload.URL)
			return nil
		},
	}
	return cmd
}

func newSessionCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "session <input>",
		GroupID: "content",
		Short:   "Answer page messages read as JSON lines from stdin",
		Long: `Open a page session and answer one JSON request per input line, writing
one JSON response per line. Supported actions: ping, getSelection,
getPageContent, getPageStats, highlightText, clearHighlights.

Example:
  printf '{"action":"getPageStats"}\n' | summabrowse session article.html`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if args[0] == "-" {
				return errors.New("session reads requests from stdin; pass the page as a file or URL")
			}
			src, err := a.load(cmd.Context(), args[0], nil, false)
			if err != nil {
				return err
			}
			doc, err := a.document(src)
			if err != nil {
				return err
			}

			sessions := session.NewRegistry(session.WithLogger(log.Logger))
			active, _ := sessions.Attach(src.URL, doc)

			scanner := bufio.NewScanner(cmd.InOrStdin())
			scanner.Buffer(make([]byte, 0, 64*1024), 4<<20)
			out := cmd.OutOrStdout()
			for scanner.Scan() {
				line := scanner.Bytes()
				if len(line) == 0 {
					continue
				}
				if _, err := fmt.Fprintf(out, "%s\n", active.HandleJSON(cmd.Context(), line)); err != nil {
					return err
				}
			}
			return scanner.Err()
		},
	}
	return cmd
}

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := summabrowse.GetBuildInfo()
			if a.jsonOutput {
				return writeJSON(cmd.OutOrStdout(), info, false)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s (%s)\n", info.Name, info.Version, info.GoVersion)
			return nil
		},
	}
}
