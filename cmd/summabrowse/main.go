// Package main provides the command-line interface for SummaBrowse.
// It extracts readable content from HTML files, URLs or standard input,
// reports page statistics, highlights text and sends content to a
// summarization service.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mrjoshuak/summabrowse/internal/config"
	"github.com/mrjoshuak/summabrowse/internal/logging"
)

// app holds the state shared by all commands.
type app struct {
	configPath string
	logLevel   string
	logFile    string
	jsonOutput bool
	noColor    bool

	cfg    *config.Config
	closer io.Closer
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "summabrowse",
		Short: "Extract, inspect and summarize the readable content of web pages",
		Long: `SummaBrowse extracts the main readable content of HTML pages and
reports word counts, reading time and the strategy that found the content.
It can highlight text, print selections and send pages or selections to a
summarization service.

Inputs are file paths, http(s) URLs or "-" for standard input.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if a.closer != nil {
				return a.closer.Close()
			}
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", os.Getenv("SUMMABROWSE_CONFIG"), "Path to YAML or JSON config file")
	flags.StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	flags.StringVar(&a.logFile, "log-file", "", "Also write logs to this file, rotated by size")
	flags.BoolVar(&a.jsonOutput, "json", false, "Print machine-readable JSON")
	flags.BoolVar(&a.noColor, "no-color", false, "Disable colored log output")

	root.AddGroup(
		&cobra.Group{ID: "content", Title: "Content:"},
		&cobra.Group{ID: "services", Title: "Services:"},
	)

	root.AddCommand(
		newExtractCmd(a),
		newStatsCmd(a),
		newMetaCmd(a),
		newSelectCmd(a),
		newHighlightCmd(a),
		newKeywordsCmd(a),
		newSessionCmd(a),
		newSummarizeCmd(a),
		newAnalyzeCmd(a),
		newUploadCmd(a),
		newVideoCmd(a),
		newHealthCmd(a),
		newVersionCmd(a),
	)
	return root
}

// setup loads the configuration and installs the logger. Flags take
// precedence over the config file and environment.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if a.logFile != "" {
		cfg.Log.File = a.logFile
	}
	a.cfg = cfg

	closer, err := logging.Setup(logging.Options{
		Level:      cfg.Log.Level,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
		Console:    cmd.ErrOrStderr(),
		NoColor:    a.noColor,
	})
	if err != nil {
		return err
	}
	a.closer = closer
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
