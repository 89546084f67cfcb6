package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"syscall"

	"github.com/nao1215/sponge/internal/config"
	"github.com/nao1215/sponge/internal/crawler"
	"github.com/nao1215/sponge/internal/log"
	"github.com/nao1215/sponge/internal/model"
	"github.com/nao1215/sponge/internal/report"
	"github.com/nao1215/sponge/internal/storage"
	"github.com/nao1215/sponge/internal/transport"
	"github.com/spf13/cobra"
)

// NewCrawlCmd creates the crawl command.
func NewCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl",
		Short: "Crawl a website and download matching files",
		Long: `Crawl walks the links of one website starting at --uri and downloads every
resource whose file extension or MIME type matches the given criteria.

Pages are expanded up to --depth levels. Links to other sites are never
followed; --include-subdomains widens the site to subdomains of the root.
Files are written to <output>/<host>/<path>.

Examples:
  # Download every PDF linked from the front page
  sponge crawl -u https://example.com -o out -e pdf

  # Two levels deep, CSV by MIME type, four parallel requests
  sponge crawl -u https://example.com -o out -t text/csv -d 2 -R 4

  # Through a SOCKS5 proxy with a session cookie
  sponge crawl -u https://example.com -o out -e zip -x socks5://127.0.0.1:1080 --cookie "sid=abc"

  # Write a Markdown run report
  sponge crawl -u https://example.com -o out -e pdf -m --report report.md

Configuration file (.sponge) example:
  defaults:
    fileExtensions: [pdf]
  sites:
    example.com:
      depth: 3
      cookie: "session_id=abc123"`,
		Args: cobra.NoArgs,
		RunE: runCrawlCmd,
	}

	// Crawl target and criteria
	cmd.Flags().StringP("uri", "u", "", "Root URI to start crawling from (required)")
	cmd.Flags().StringP("output", "o", "", "Directory to write downloads to (required)")
	cmd.Flags().StringArrayP("mime-type", "t", nil,
		"MIME type to download, e.g. application/pdf (repeatable)")
	cmd.Flags().StringArrayP("file-extension", "e", nil,
		"File extension to download, e.g. pdf (repeatable)")

	// Crawl behavior
	cmd.Flags().IntP("depth", "d", config.DefaultDepth,
		"Number of page levels to expand from the root")
	cmd.Flags().BoolP("include-subdomains", "s", false,
		"Follow links to subdomains of the root host")
	cmd.Flags().IntP("concurrent-requests", "R", config.DefaultConcurrentRequests,
		"Maximum number of concurrent page requests")
	cmd.Flags().IntP("concurrent-downloads", "D", config.DefaultConcurrentDownloads,
		"Maximum number of concurrent downloads")

	// Transport
	cmd.Flags().DurationP("timeout", "T", config.DefaultTimeout,
		"Timeout for each request")
	cmd.Flags().StringP("user-agent", "A", config.DefaultUserAgent,
		"User-Agent header to send")
	cmd.Flags().StringArrayP("header", "H", nil,
		`Extra request header as "Name: value" (repeatable)`)
	cmd.Flags().String("cookie", "", "Cookie header to send with every request")
	cmd.Flags().StringP("proxy", "x", "",
		"Proxy URL (http://, https:// or socks5://)")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .sponge in current, XDG config or home directory)")

	// Report and logging
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().String("report", "",
		"Write report to specified file path (creates directories if needed)")
	cmd.Flags().Bool("log-json", false, "Write logs as JSON lines")
	cmd.Flags().BoolP("quiet", "q", false, "Only log warnings and errors")

	return cmd
}

// runCrawlCmd executes the crawl command.
func runCrawlCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := log.New(cmd.ErrOrStderr(), log.Options{
		Level:  log.Level(cfg.Verbose, cfg.Quiet),
		JSON:   cfg.LogJSON,
		Redact: slices.Collect(maps.Keys(cfg.Headers)),
	})

	// Cancel the crawl on interrupt; in-flight requests observe the context
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runCrawl(ctx, cfg, cmd.OutOrStdout(), logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from cobra command flags and the
// configuration file. Explicit flags win over file settings.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()
	flags := cmd.Flags()

	var err error
	if cfg.URI, err = flags.GetString("uri"); err != nil {
		return nil, err
	}
	if cfg.OutputDirectory, err = flags.GetString("output"); err != nil {
		return nil, err
	}
	if cfg.MimeTypes, err = flags.GetStringArray("mime-type"); err != nil {
		return nil, err
	}
	if cfg.FileExtensions, err = flags.GetStringArray("file-extension"); err != nil {
		return nil, err
	}
	if cfg.Depth, err = flags.GetInt("depth"); err != nil {
		return nil, err
	}
	if cfg.IncludeSubdomains, err = flags.GetBool("include-subdomains"); err != nil {
		return nil, err
	}
	if cfg.ConcurrentRequests, err = flags.GetInt("concurrent-requests"); err != nil {
		return nil, err
	}
	if cfg.ConcurrentDownloads, err = flags.GetInt("concurrent-downloads"); err != nil {
		return nil, err
	}
	if cfg.Timeout, err = flags.GetDuration("timeout"); err != nil {
		return nil, err
	}
	if cfg.UserAgent, err = flags.GetString("user-agent"); err != nil {
		return nil, err
	}
	if cfg.Cookie, err = flags.GetString("cookie"); err != nil {
		return nil, err
	}
	if cfg.Proxy, err = flags.GetString("proxy"); err != nil {
		return nil, err
	}

	rawHeaders, err := flags.GetStringArray("header")
	if err != nil {
		return nil, err
	}
	if cfg.Headers, err = config.ParseHeaders(rawHeaders); err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}

	if cfg.JSONReport, err = flags.GetBool("json"); err != nil {
		return nil, err
	}
	if cfg.MarkdownReport, err = flags.GetBool("markdown"); err != nil {
		return nil, err
	}
	if cfg.ReportFile, err = flags.GetString("report"); err != nil {
		return nil, err
	}
	if cfg.LogJSON, err = flags.GetBool("log-json"); err != nil {
		return nil, err
	}
	if cfg.Quiet, err = flags.GetBool("quiet"); err != nil {
		return nil, err
	}
	cfg.Verbose = getVerboseFlag(cmd)

	if cfg.ConfigFilePath, err = flags.GetString("config"); err != nil {
		return nil, err
	}
	if err := loadSiteConfigs(cfg); err != nil {
		return nil, err
	}

	// Site settings are keyed by the root host; an invalid root is
	// reported by Validate.
	if root, err := model.ParseURI(cfg.URI); err == nil {
		cfg.ApplySiteConfig(cfg.SiteConfigs.GetSiteConfig(root.Host()), flags.Changed)
	}

	return cfg, nil
}

// loadSiteConfigs loads the configuration file into cfg.SiteConfigs.
// If the user explicitly specified a config file path, a missing file is
// an error. Otherwise an empty configuration is used.
func loadSiteConfigs(cfg *config.Config) error {
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	switch {
	case configPath != "":
		siteConfigs, err := config.LoadConfigFile(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		cfg.SiteConfigs = siteConfigs
	case explicitConfigPath:
		return fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
	default:
		cfg.SiteConfigs = &config.File{Sites: make(map[string]config.SiteConfig)}
	}
	return nil
}

// runCrawl executes the crawl and writes the run report.
// An interrupted crawl still reports what it completed before returning
// the interruption error.
func runCrawl(ctx context.Context, cfg *config.Config, stdout io.Writer, logger *slog.Logger) error {
	root, err := model.ParseURI(cfg.URI)
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	if err := storage.EnsureDir(cfg.OutputDirectory); err != nil {
		return fmt.Errorf("failed to prepare output directory: %w", err)
	}

	client, err := transport.NewClient(
		transport.WithTimeout(cfg.Timeout),
		transport.WithUserAgent(cfg.UserAgent),
		transport.WithCookie(cfg.Cookie),
		transport.WithHeaders(cfg.Headers),
		transport.WithProxy(cfg.Proxy),
	)
	if err != nil {
		return fmt.Errorf("failed to create HTTP client: %w", err)
	}

	spider, err := crawler.NewSpider(root, client, client,
		crawler.WithOutputDir(cfg.OutputDirectory),
		crawler.WithMaxDepth(cfg.Depth),
		crawler.WithIncludeSubdomains(cfg.IncludeSubdomains),
		crawler.WithFileExtensions(cfg.NormalizedExtensions()),
		crawler.WithMimeTypes(cfg.NormalizedMimeTypes()),
		crawler.WithConcurrentRequests(cfg.ConcurrentRequests),
		crawler.WithConcurrentDownloads(cfg.ConcurrentDownloads),
		crawler.WithMaxBodySize(cfg.MaxBodySize),
		crawler.WithLogger(logger),
	)
	if err != nil {
		return fmt.Errorf("failed to create crawler: %w", err)
	}

	summary, crawlErr := spider.Crawl(ctx)
	if summary == nil {
		return crawlErr
	}

	if err := outputReport(cfg, summary, stdout); err != nil {
		return errors.Join(crawlErr, fmt.Errorf("failed to write report: %w", err))
	}
	return crawlErr
}

// outputReport writes the run report in the requested format.
func outputReport(cfg *config.Config, summary *model.CrawlSummary, stdout io.Writer) error {
	output := stdout
	if cfg.ReportFile != "" {
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create report directory: %w", err)
			}
		}

		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create report file: %w", err)
		}
		defer f.Close()
		output = f
	}

	var writer report.Writer
	switch {
	case cfg.JSONReport:
		writer = report.NewJSONWriter(output, report.WithPrettyPrint(), report.WithVersion(getVersion()))
	case cfg.MarkdownReport:
		writer = report.NewMarkdownWriter(output)
	default:
		writer = report.NewSimpleWriter(output, report.WithVerbose(cfg.Verbose))
	}

	_, err := writer.Write(summary)
	return err
}
