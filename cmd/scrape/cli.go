package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/scrape"
)

// DefaultURL is the site crawled when no URL is given.
const DefaultURL = "https://classicist.org/"

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger
	Now    func() time.Time

	// NewFetcher opens the transport selected by the fetch flags.
	// The caller closes the returned fetcher.
	NewFetcher func(FetchFlags) (scrape.Fetcher, error)
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Globals `embed:""`

	Crawl   CrawlCmd   `cmd:"" help:"Crawl a page and its in-site links, or a membership directory"`
	Details DetailsCmd `cmd:"" help:"Fetch detail pages for members listed in a CSV file"`
	List    ListCmd    `cmd:"" help:"List crawl targets or exported data"`
	Export  ExportCmd  `cmd:"" help:"Re-export a JSON result in another format"`
}

// Globals are flags shared by all commands.
type Globals struct {
	Verbose bool   `short:"v" xor:"verbosity" help:"Log debug output"`
	Quiet   bool   `short:"q" xor:"verbosity" help:"Log warnings and errors only"`
	LogFile string `type:"path" help:"Write logs to this file instead of stderr"`
}

// FetchFlags configure the page transport.
type FetchFlags struct {
	Delay       time.Duration `default:"2s" env:"SCRAPE_DELAY" help:"Delay between consecutive requests"`
	Timeout     time.Duration `default:"30s" env:"SCRAPE_TIMEOUT" help:"Per-page fetch timeout"`
	RenderDelay time.Duration `default:"2s" help:"Time to let scripts run after page load"`
	Static      bool          `help:"Fetch with plain HTTP instead of a headless browser"`
	Browser     string        `type:"path" help:"Path to the Chrome or Chromium binary"`
	MaxPages    int           `default:"75" help:"Restart the browser after this many pages"`
	UserAgent   string        `default:"scrape/0.1.0 (Educational Purpose)" help:"User agent for --static requests"`
}

// CrawlCmd is the "crawl" subcommand.
type CrawlCmd struct {
	FetchFlags `embed:""`

	URL         string `default:"https://classicist.org/" help:"URL to crawl"`
	Depth       int    `default:"1" help:"Crawl depth; above 1 also fetches linked pages"`
	MaxChildren int    `default:"10" help:"Maximum linked pages fetched from the seed"`
	Format      string `enum:"json,csv,excel,sqlite" default:"json" help:"Output format (${enum})"`
	OutputDir   string `type:"path" default:"outputs" env:"SCRAPE_OUTPUT_DIR" help:"Output directory"`
	Summary     bool   `help:"Also write a text summary of a site crawl"`
}

// DetailsCmd is the "details" subcommand.
type DetailsCmd struct {
	FetchFlags `embed:""`

	InputFile string `type:"existingfile" required:"" help:"CSV file of directory members"`
	Limit     int    `default:"10" help:"Maximum members to process; 0 for all"`
	StartFrom int    `default:"0" help:"Index of the first member with a detail URL to process"`
	Format    string `enum:"json,csv,excel,sqlite" default:"csv" help:"Output format (${enum})"`
	OutputDir string `type:"path" default:"outputs" env:"SCRAPE_OUTPUT_DIR" help:"Output directory"`

	SkipScraped bool `help:"Skip members whose details an earlier --skip-scraped run saved"`
}

// ListCmd is the "list" subcommand.
type ListCmd struct {
	Type    string `enum:"targets,data" default:"targets" help:"What to list (${enum})"`
	DataDir string `type:"path" default:"outputs" env:"SCRAPE_OUTPUT_DIR" help:"Data directory"`
}

// ExportCmd is the "export" subcommand.
type ExportCmd struct {
	InputFile string `arg:"" type:"existingfile" help:"JSON export, or with --run a scrape.db database"`
	Format    string `enum:"json,csv,excel,sqlite" required:"" help:"Output format (${enum})"`
	RunID     string `name:"run" help:"ID of the stored run to export from the database"`
	Output    string `type:"path" help:"Output file path (default: timestamped file in --output-dir)"`
	OutputDir string `type:"path" default:"outputs" env:"SCRAPE_OUTPUT_DIR" help:"Output directory"`
}
