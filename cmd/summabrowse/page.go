package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mrjoshuak/summabrowse/internal/textutil"
)

func newStatsCmd(a *app) *cobra.Command {
	var pageURL string
	var render bool
	cmd := &cobra.Command{
		Use:     "stats <input>",
		GroupID: "content",
		Short:   "Show word count, reading time and language of a page",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := a.load(cmd.Context(), args[0], cmd.InOrStdin(), render)
			if err != nil {
				return err
			}
			if pageURL != "" {
				src.URL = pageURL
			}
			stats, err := a.extractor(false, src.URL).Statistics(src.HTML, nil)
			if err != nil {
				return err
			}
			if a.jsonOutput {
				return writeJSON(cmd.OutOrStdout(), stats, false)
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Title:        %s\n", stats.Title)
			fmt.Fprintf(w, "URL:          %s\n", stats.URL)
			fmt.Fprintf(w, "Domain:       %s\n", stats.Domain)
			fmt.Fprintf(w, "Words:        %d\n", stats.WordCount)
			fmt.Fprintf(w, "Characters:   %d\n", stats.CharacterCount)
			fmt.Fprintf(w, "Reading time: %d min\n", stats.ReadingTime)
			fmt.Fprintf(w, "Language:     %s\n", stats.Language)
			fmt.Fprintf(w, "Method:       %s\n", stats.ExtractionMethod)
			return nil
		},
	}
	cmd.Flags().StringVar(&pageURL, "url", "", "Page URL to report, overriding the input location")
	cmd.Flags().BoolVar(&render, "render", false, "Render web inputs in headless Chrome")
	return cmd
}

func newSelectCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "select <input> <css-selector>",
		GroupID: "content",
		Short:   "Print the text of the elements matching a CSS selector",
		Example: `  summabrowse select article.html "blockquote"
  summabrowse select https://example.com ".post-content p" --json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := a.load(cmd.Context(), args[0], cmd.InOrStdin(), false)
			if err != nil {
				return err
			}
			sel, err := a.extractor(false, src.URL).Selection(src.HTML, args[1])
			if err != nil {
				return err
			}
			if a.jsonOutput {
				return writeJSON(cmd.OutOrStdout(), sel, false)
			}
			fmt.Fprintln(cmd.OutOrStdout(), sel.Text)
			return nil
		},
	}
	return cmd
}

func newHighlightCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "highlight <input> <text>",
		GroupID: "content",
		Short:   "Mark every occurrence of text and print the resulting HTML",
		Long: `Mark every case-insensitive occurrence of text in the page body with a
<mark class="summabrowse-highlight"> element and print the page. Queries
shorter than two characters leave the page unchanged.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := a.load(cmd.Context(), args[0], cmd.InOrStdin(), false)
			if err != nil {
				return err
			}
			page, err := a.page(src)
			if err != nil {
				return err
			}
			n := page.Highlight(args[1])
			if a.jsonOutput {
				return writeJSON(cmd.OutOrStdout(), map[string]any{"query": args[1], "matches": n}, false)
			}
			html, err := page.HTML()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "%d matches\n", n)
			fmt.Fprintln(cmd.OutOrStdout(), html)
			return nil
		},
	}
	return cmd
}

func newKeywordsCmd(a *app) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:     "keywords <input>",
		GroupID: "content",
		Short:   "List the most frequent terms in the page content",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := a.load(cmd.Context(), args[0], cmd.InOrStdin(), false)
			if err != nil {
				return err
			}
			result, err := a.extractor(false, src.URL).ExtractFromHTML(src.HTML, nil)
			if err != nil {
				return err
			}
			keywords := textutil.Keywords(result.Text, limit)
			if a.jsonOutput {
				if keywords == nil {
					keywords = []textutil.Keyword{}
				}
				return writeJSON(cmd.OutOrStdout(), keywords, false)
			}
			lines := make([]string, len(keywords))
			for i, k := range keywords {
				lines[i] = k.String()
			}
			fmt.Fprintln(cmd.OutOrStdout(), strings.Join(lines, "\n"))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", textutil.DefaultKeywordLimit, "Maximum number of terms")
	return cmd
}

func newMetaCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "meta <input>",
		GroupID: "content",
		Short:   "Show the title, language, byline and other page metadata",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := a.load(cmd.Context(), args[0], cmd.InOrStdin(), false)
			if err != nil {
				return err
			}
			page, err := a.page(src)
			if err != nil {
				return err
			}
			md := page.Metadata()
			if a.jsonOutput {
				return writeJSON(cmd.OutOrStdout(), md, false)
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Title:       %s\n", md.Title)
			fmt.Fprintf(w, "Language:    %s\n", md.Language)
			fmt.Fprintf(w, "Byline:      %s\n", md.Byline)
			if !md.Published.IsZero() {
				fmt.Fprintf(w, "Published:   %s\n", md.Published.Format("2006-01-02 15:04 MST"))
			}
			fmt.Fprintf(w, "Site:        %s\n", md.SiteName)
			fmt.Fprintf(w, "Canonical:   %s\n", md.Canonical)
			fmt.Fprintf(w, "Description: %s\n", md.Description)
			return nil
		},
	}
	return cmd
}
