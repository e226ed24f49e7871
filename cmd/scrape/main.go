package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/scrape"
	"github.com/fwojciec/scrape/resty"
	"github.com/fwojciec/scrape/rod"
	scrapeslog "github.com/fwojciec/scrape/slog"
)

// ExitInterrupted is the exit code after an interrupt.
const ExitInterrupted = 130

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	m := NewMain()
	err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	code := ExitCode(ctx, err)
	stop()

	switch code {
	case 0:
	case ExitInterrupted:
		fmt.Fprintln(os.Stderr, "interrupted")
	default:
		fmt.Fprintln(os.Stderr, err)
	}
	os.Exit(code)
}

// ExitCode maps the outcome of Run to a process exit code.
// Cancellation is reported separately from other failures.
func ExitCode(ctx context.Context, err error) int {
	switch {
	case err == nil:
		return 0
	case ctx.Err() != nil, errors.Is(err, context.Canceled):
		return ExitInterrupted
	default:
		return 1
	}
}

// Main represents the program.
type Main struct {
	// Fetcher replaces the browser and HTTP fetchers when set.
	Fetcher scrape.Fetcher

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{Now: time.Now}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
		Now:    m.now,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("scrape"),
		kong.Description("Crawl classicist.org and export what it finds"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'scrape --help' to see available commands")
	}
	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	logger, closeLog, err := newLogger(cli.Globals, stderr)
	if err != nil {
		return err
	}
	defer closeLog()
	deps.Logger = logger

	deps.NewFetcher = func(flags FetchFlags) (scrape.Fetcher, error) {
		f, err := m.newFetcher(flags)
		if err != nil {
			return nil, err
		}
		return scrapeslog.NewLoggingFetcher(f, logger), nil
	}

	return kongCtx.Run(deps)
}

func (m *Main) now() time.Time {
	if m.Now != nil {
		return m.Now()
	}
	return time.Now()
}

func (m *Main) newFetcher(flags FetchFlags) (scrape.Fetcher, error) {
	if m.Fetcher != nil {
		return m.Fetcher, nil
	}
	if flags.Static {
		return resty.NewFetcher(
			resty.WithTimeout(flags.Timeout),
			resty.WithUserAgent(flags.UserAgent),
		), nil
	}
	opts := []rod.Option{
		rod.WithTimeout(flags.Timeout),
		rod.WithRenderDelay(flags.RenderDelay),
		rod.WithMaxPages(flags.MaxPages),
	}
	if flags.Browser != "" {
		opts = append(opts, rod.WithBrowserBin(flags.Browser))
	}
	f, err := rod.NewFetcher(opts...)
	if err != nil {
		return nil, scrape.Errorf(scrape.EINTERNAL,
			"failed to start browser: %v (Chrome or Chromium must be installed, or use --static)", err)
	}
	return f, nil
}

// newLogger builds a text logger writing to stderr or the log file.
func newLogger(g Globals, stderr io.Writer) (*slog.Logger, func(), error) {
	level := slog.LevelInfo
	switch {
	case g.Verbose:
		level = slog.LevelDebug
	case g.Quiet:
		level = slog.LevelWarn
	}

	w, closeFn := stderr, func() {}
	if g.LogFile != "" {
		f, err := os.OpenFile(g.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		w, closeFn = f, func() { _ = f.Close() }
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), closeFn, nil
}
