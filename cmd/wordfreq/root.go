package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/joshuapare/wordfreq/internal/config"
	"github.com/joshuapare/wordfreq/internal/logger"
)

// Exit codes.
const (
	exitOK      = 0
	exitPartial = 1 // some inputs failed
	exitFailure = 2 // bad configuration, or no counter could be built
)

var (
	// Global flags
	verbose    bool
	quiet      bool
	jsonOut    bool
	noColor    bool
	configPath string
	logLevel   string

	// Counting flags, applied over the config file and environment
	flagMaxWord    int
	flagMaxBytes   int
	flagInitCap    int
	flagBlockSize  int
	flagStaticSize int
	flagSeed       uint64
	flagScanBuffer string
	flagEncoding   string
	flagTop        int
)

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wordfreq [flags] [file ...]",
		Short: "Count word frequencies",
		Long: `wordfreq counts how often each word occurs in the given files, or in
standard input when no file is given, and prints the most frequent words.

A word is a run of ASCII letters, compared case-insensitively. Every other
byte separates words. Memory use can be capped with --max-bytes, or confined
to a single fixed buffer with --static-size.

Example:
  wordfreq book.txt
  cat *.txt | wordfreq --top 20
  wordfreq --static-size 64K --json notes.txt
  wordfreq --encoding utf-16le export.txt`,
		Version:       version,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCount(cmd, args)
		},
	}

	pf := cmd.PersistentFlags()
	pf.BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	pf.BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors and results")
	pf.BoolVar(&jsonOut, "json", false, "Output in JSON format")
	pf.BoolVar(&noColor, "no-color", false, "Disable colored output")
	pf.StringVar(&configPath, "config", "", "YAML configuration file")
	pf.StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); enables logging to stderr")

	f := cmd.Flags()
	f.IntVar(&flagMaxWord, "max-word", 0, "Maximum stored word length (0 = default 64, clamped to 4..1024)")
	f.Var(newSizeValue(&flagMaxBytes), "max-bytes", "Memory budget in bytes for the counter, K/M/G suffix allowed (0 = unlimited)")
	f.IntVar(&flagInitCap, "init-cap", 0, "Initial hash table capacity hint")
	f.Var(newSizeValue(&flagBlockSize), "block-size", "Arena block size hint in bytes, K/M/G suffix allowed")
	f.Var(newSizeValue(&flagStaticSize), "static-size", "Run inside one fixed buffer of this many bytes, K/M/G suffix allowed")
	f.Uint64Var(&flagSeed, "seed", 0, "Hash seed")
	f.StringVar(&flagScanBuffer, "scan-buffer", "", "Scan buffer placement: stack or resident")
	f.StringVar(&flagEncoding, "encoding", "", "Input encoding: utf-8, utf-16le, utf-16be, latin1, windows-1252")
	f.IntVar(&flagTop, "top", config.DefaultTop, "Number of words to print (0 = all)")

	cmd.AddCommand(newVersionCmd(), newBuildInfoCmd())
	return cmd
}

// sizeValue is a byte-count flag accepting the same K/M/G suffixes as the
// WC_* environment variables.
type sizeValue struct{ p *int }

func newSizeValue(p *int) *sizeValue {
	*p = 0
	return &sizeValue{p: p}
}

func (v *sizeValue) Set(s string) error {
	n, err := config.ParseSize(s)
	if err != nil {
		return err
	}
	*v.p = n
	return nil
}

func (v *sizeValue) String() string { return strconv.Itoa(*v.p) }
func (v *sizeValue) Type() string   { return "size" }

// exitError carries a process exit code through cobra.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func withCode(code int, err error) error {
	if err == nil {
		return nil
	}
	return &exitError{code: code, err: err}
}

// exitCode maps an error returned by a command to the process exit status.
func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return exitFailure
}

func execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	defer logger.Sync()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		printError("%v\n", err)
	}
	return exitCode(err)
}

// Helper functions for output

// printInfo prints an info message to stderr if not in quiet mode
func printInfo(format string, args ...any) {
	if !quiet {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}

// printError prints an error message
func printError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format, args...)
}

// printVerbose prints a verbose message if verbose mode is enabled
func printVerbose(format string, args ...any) {
	if verbose && !quiet {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}

// printJSON outputs data as JSON
func printJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
