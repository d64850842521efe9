// Package cmd implements the wikitrail command line.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/JakeFAU/wikitrail/internal/clock/system"
	"github.com/JakeFAU/wikitrail/internal/config"
	"github.com/JakeFAU/wikitrail/internal/extract"
	collyfetcher "github.com/JakeFAU/wikitrail/internal/fetcher/colly"
	"github.com/JakeFAU/wikitrail/internal/id/uuid"
	"github.com/JakeFAU/wikitrail/internal/logging"
	"github.com/JakeFAU/wikitrail/internal/metrics"
	"github.com/JakeFAU/wikitrail/internal/runner"
	"github.com/JakeFAU/wikitrail/internal/trail"
)

// Process exit codes.
const (
	exitOK          = 0
	exitUsageError  = 1
	exitFetchFailed = 2
	exitNoLinkFound = 3
)

const helpText = `No article specified. Specify the article name with arguments.
Multi-word article names can be separated by spaces or underscores.`

// exitError carries the process exit code out of a command. err is nil when
// the failure has already been reported to the user.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

// newRootCmd creates and configures the root command.
func newRootCmd() *cobra.Command {
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "wikitrail [flags] <article words...>",
		Short: "Follow first links between Wikipedia articles until Philosophy.",
		Long: `wikitrail starts at the named article and repeatedly follows the first
link in its body text that is not inside parentheses or italics. It stops
when it reaches the destination article, when a title repeats, or when an
article cannot be fetched or has no link to follow.`,
		Example: `  wikitrail Cat
  wikitrail Barack Obama
  wikitrail --dest Science Quantum_mechanics`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), helpText)
				return nil
			}
			cfg, err := config.Load(cfgFile, cmd.Flags())
			if err != nil {
				return &exitError{code: exitUsageError, err: fmt.Errorf("load config: %w", err)}
			}
			return run(cmd.Context(), cfg, trail.JoinArgs(args), cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.Flags().StringVar(&cfgFile, "config", "", "config file (yaml, toml or json)")
	cmd.Flags().String("dest", trail.DefaultDestination, "article title that ends the trail")

	return cmd
}

// run follows the trail from seed and reports it. Configuration problems are
// returned as usage errors; a failed trail is printed and then returned as
// an exitError with no message.
func run(ctx context.Context, cfg config.Config, seed string, stdout, stderr io.Writer) error {
	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return &exitError{code: exitUsageError, err: fmt.Errorf("init logger: %w", err)}
	}
	defer func() {
		_ = logger.Sync()
	}()

	fetcher, err := collyfetcher.New(collyfetcher.Config{
		BaseURL:       cfg.Fetch.BaseURL,
		UserAgent:     cfg.Fetch.UserAgent,
		RespectRobots: cfg.Fetch.RespectRobots,
		Timeout:       cfg.Fetch.Timeout,
	}, logger.Named("fetcher"))
	if err != nil {
		return &exitError{code: exitUsageError, err: fmt.Errorf("init fetcher: %w", err)}
	}
	extractor := extract.New(extract.Config{
		RegionSelector: cfg.Extract.RegionSelector,
		AllParagraphs:  cfg.Extract.AllParagraphs,
	}, logger.Named("extract"))
	m := metrics.New()
	r := runner.New(runner.Config{
		Destination: cfg.Destination,
		Clock:       system.New(),
		IDs:         uuid.New(),
	}, fetcher, extractor, m, logger.Named("runner"))

	fmt.Fprintf(stdout, "Finding trail for: %s\n", trail.DisplayTitle(seed))
	res, err := r.Run(ctx, seed)
	if err != nil {
		return &exitError{code: exitUsageError, err: err}
	}

	if cfg.Metrics.Textfile != "" {
		if err := m.WriteTextfile(cfg.Metrics.Textfile); err != nil {
			logger.Warn("metrics textfile not written", zap.String("path", cfg.Metrics.Textfile), zap.Error(err))
		}
	}

	return report(res, stdout, stderr)
}

// report prints the outcome of a run and maps its state to an exit code.
func report(res runner.Result, stdout, stderr io.Writer) error {
	var code int
	switch res.State {
	case runner.StateLoopDetected:
		fmt.Fprintln(stdout, "Loop found! Here's the trail:")
	case runner.StateFetchFailed:
		fmt.Fprintf(stderr, "Error getting article %q\n", trail.DisplayTitle(res.Last))
		code = exitFetchFailed
	case runner.StateExtractFailed:
		fmt.Fprintf(stderr, "No link found in article %q\n", trail.DisplayTitle(res.Last))
		code = exitNoLinkFound
	}
	fmt.Fprint(stdout, trail.Format(res.Trail))

	if code != exitOK {
		return &exitError{code: code}
	}
	return nil
}

// exitCode reports err, if it has anything left to say, and returns the
// process exit code for it.
func exitCode(err error, stderr io.Writer) int {
	if err == nil {
		return exitOK
	}
	var ee *exitError
	if errors.As(err, &ee) {
		if ee.err != nil {
			fmt.Fprintf(stderr, "wikitrail: %v\n", ee.err)
		}
		return ee.code
	}
	fmt.Fprintf(stderr, "wikitrail: %v\n", err)
	return exitUsageError
}

// Execute is the main entry point. SIGINT and SIGTERM cancel any fetch in
// flight.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	os.Exit(exitCode(err, os.Stderr))
}
