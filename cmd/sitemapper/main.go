package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/sitemapper"
	"github.com/fwojciec/sitemapper/discover"
	sitemapperhttp "github.com/fwojciec/sitemapper/http"
	"github.com/fwojciec/sitemapper/rate"
	sitemapperslog "github.com/fwojciec/sitemapper/slog"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// HTTP API. Set once Run has wired its dependencies.
	Server *sitemapperhttp.Server
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.Server != nil {
		return m.Server.Close()
	}
	return nil
}

// Run parses args, starts the HTTP API and serves until ctx is canceled.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("sitemapper"),
		kong.Description("Discover and download website sitemaps over a JSON API"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	// Handle help flags
	if len(args) == 1 && (args[0] == "--help" || args[0] == "-h" || args[0] == "help") {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	if _, err := parser.Parse(args); err != nil {
		return err
	}

	logger := cli.newLogger(stderr)

	limiter := rate.NewDomainLimiter(cli.RPS)

	fetcherOpts := []sitemapperhttp.Option{
		sitemapperhttp.WithLimiter(limiter),
		sitemapperhttp.WithUserAgent(sitemapper.DefaultUserAgent),
	}
	if cli.ProbeTimeout > 0 {
		fetcherOpts = append(fetcherOpts, sitemapperhttp.WithTimeout(cli.ProbeTimeout))
	}
	fetcher := sitemapperslog.NewLoggingFetcher(sitemapperhttp.NewFetcher(fetcherOpts...), logger)

	opts := sitemapper.DefaultDownloadOptions()
	opts.Concurrency = cli.Concurrency
	opts.Debug = cli.LogLevel == "debug"

	downloader := sitemapperhttp.NewSitemapDownloader(nil, opts)
	downloader.Limiter = limiter
	downloader.Logger = logger

	m.Server = sitemapperhttp.NewServer()
	m.Server.Addr = cli.Addr
	m.Server.Logger = logger
	m.Server.Locator = sitemapperslog.NewLoggingSitemapLocator(discover.NewService(fetcher), logger)
	m.Server.Downloader = sitemapperslog.NewLoggingSitemapDownloader(downloader, logger)

	if err := m.Server.Open(); err != nil {
		return fmt.Errorf("failed to listen on %q: %w", cli.Addr, err)
	}
	logger.Info("listening", "url", m.Server.URL())

	<-ctx.Done()

	logger.Info("shutting down")
	return m.Close()
}
