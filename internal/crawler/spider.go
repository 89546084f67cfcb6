package crawler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nao1215/sponge/internal/cache"
	"github.com/nao1215/sponge/internal/model"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// Fetcher retrieves a URI for classification.
// The returned body must be closed by the caller.
type Fetcher interface {
	Fetch(ctx context.Context, uri model.CrawlURI) (*model.Response, error)
}

// Downloader saves a URI to path and returns the number of bytes written.
type Downloader interface {
	Download(ctx context.Context, uri model.CrawlURI, path string) (int64, error)
}

// Spider crawls one site up to a fixed depth and downloads matching files.
//
// Design decision: We call it "Spider" rather than "Crawler" because:
//  1. "Spider" is the traditional term for web crawlers
//  2. Distinguishes the component from the package name
//  3. Clearer in code: crawler.NewSpider() vs crawler.NewCrawler()
//
// A Spider runs a single crawl; its cache records every URI it resolved
// and every file it claimed.
type Spider struct {
	// root is the URI the crawl starts from and the site boundary.
	root model.CrawlURI

	fetcher    Fetcher
	downloader Downloader

	// maxDepth is the number of page levels expanded below the root.
	// 1 expands the root page only, 2 also expands the pages it links, etc.
	maxDepth int

	// includeSubdomains widens the site boundary to subdomains of the root.
	includeSubdomains bool

	// outputDir is where downloads are written, below one directory per host.
	outputDir string

	extensions []string
	mimeTypes  []string

	concurrentRequests  int
	concurrentDownloads int

	// maxBodySize limits the bytes read from one HTML page.
	maxBodySize int64

	logger *slog.Logger

	// Built by NewSpider from the settings above.
	cache      *cache.MetadataCache
	classifier *Classifier
	extractor  *LinkExtractor
	requests   *semaphore.Weighted
	downloads  *semaphore.Weighted

	pagesExpanded atomic.Int64

	// mu protects records.
	mu      sync.Mutex
	records []model.DownloadRecord
}

// SpiderOption configures a Spider.
type SpiderOption func(*Spider)

// WithMaxDepth sets the maximum crawl depth. It must be at least 1.
func WithMaxDepth(depth int) SpiderOption {
	return func(s *Spider) {
		s.maxDepth = depth
	}
}

// WithIncludeSubdomains makes subdomains of the root part of the site.
func WithIncludeSubdomains(include bool) SpiderOption {
	return func(s *Spider) {
		s.includeSubdomains = include
	}
}

// WithOutputDir sets the directory downloads are written to.
func WithOutputDir(dir string) SpiderOption {
	return func(s *Spider) {
		s.outputDir = dir
	}
}

// WithFileExtensions sets the file extensions to download.
func WithFileExtensions(extensions []string) SpiderOption {
	return func(s *Spider) {
		s.extensions = extensions
	}
}

// WithMimeTypes sets the MIME types to download.
func WithMimeTypes(mimeTypes []string) SpiderOption {
	return func(s *Spider) {
		s.mimeTypes = mimeTypes
	}
}

// WithConcurrentRequests sets how many URIs may be fetched at once.
func WithConcurrentRequests(n int) SpiderOption {
	return func(s *Spider) {
		s.concurrentRequests = n
	}
}

// WithConcurrentDownloads sets how many files may be transferred at once.
func WithConcurrentDownloads(n int) SpiderOption {
	return func(s *Spider) {
		s.concurrentDownloads = n
	}
}

// WithMaxBodySize sets the maximum number of bytes parsed per HTML page.
func WithMaxBodySize(size int64) SpiderOption {
	return func(s *Spider) {
		s.maxBodySize = size
	}
}

// WithLogger sets the logger for crawl events.
func WithLogger(logger *slog.Logger) SpiderOption {
	return func(s *Spider) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewSpider creates a Spider for root.
//
// Design decision: We take the fetcher and downloader as interfaces because:
//  1. Transport settings (proxy, headers, timeouts) stay in the transport package
//  2. Tests drive the engine with in-memory sites
//  3. The engine only needs status, content type and body
func NewSpider(root model.CrawlURI, fetcher Fetcher, downloader Downloader, opts ...SpiderOption) (*Spider, error) {
	s := &Spider{
		root:                root,
		fetcher:             fetcher,
		downloader:          downloader,
		maxDepth:            1,
		concurrentRequests:  1,
		concurrentDownloads: 1,
		maxBodySize:         DefaultMaxBodySize,
		logger:              slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.validate(); err != nil {
		return nil, err
	}

	s.cache = cache.New()
	s.classifier = NewClassifier(s.outputDir, s.extensions, s.mimeTypes)
	s.extractor = NewLinkExtractor(s.root, s.includeSubdomains, s.maxBodySize)
	s.requests = semaphore.NewWeighted(int64(s.concurrentRequests))
	s.downloads = semaphore.NewWeighted(int64(s.concurrentDownloads))
	return s, nil
}

// validate checks the settings collected from the options.
func (s *Spider) validate() error {
	if _, err := model.ParseURI(s.root.String()); err != nil {
		return err
	}
	if s.fetcher == nil || s.downloader == nil {
		return ErrNilCollaborator
	}
	if s.outputDir == "" {
		return ErrNoOutputDir
	}
	if len(s.extensions) == 0 && len(s.mimeTypes) == 0 {
		return ErrNoCriteria
	}
	if s.maxDepth < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidDepth, s.maxDepth)
	}
	if s.concurrentRequests < 1 || s.concurrentDownloads < 1 {
		return fmt.Errorf("%w: requests=%d downloads=%d",
			ErrInvalidConcurrency, s.concurrentRequests, s.concurrentDownloads)
	}
	return nil
}

// Crawl visits the root and returns once the whole depth-bounded tree has
// been processed. Per-URI failures are logged and never returned; the only
// error is the context's, when the crawl was interrupted. The summary is
// returned in both cases.
func (s *Spider) Crawl(ctx context.Context) (*model.CrawlSummary, error) {
	started := time.Now()
	s.logger.Info("crawl started",
		slog.String("uri", s.root.String()),
		slog.Int("depth", s.maxDepth),
		slog.String("output", s.outputDir),
	)

	s.visit(ctx, s.root, nil)

	summary := &model.CrawlSummary{
		Root:          s.root,
		OutputDir:     s.outputDir,
		MaxDepth:      s.maxDepth,
		StartedAt:     started,
		Elapsed:       time.Since(started),
		PagesExpanded: int(s.pagesExpanded.Load()),
		URIsResolved:  s.cache.Len(),
		Downloads:     s.downloadRecords(),
	}
	summary.SortDownloads()

	s.logger.Info("crawl finished",
		slog.Int("pages", summary.PagesExpanded),
		slog.Int("downloads", len(summary.Downloads)),
		slog.Duration("elapsed", summary.Elapsed),
	)

	if err := ctx.Err(); err != nil {
		return summary, fmt.Errorf("crawl interrupted: %w", err)
	}
	return summary, nil
}

// visit processes uri and its subtree. It never fails: any error or panic
// raised while processing uri marks it as ignored and is logged.
func (s *Spider) visit(ctx context.Context, uri model.CrawlURI, ancestors *ancestorPath) {
	defer func() {
		if r := recover(); r != nil {
			s.fail(ctx, uri, &PanicError{Value: r})
		}
	}()

	if err := s.process(ctx, uri, ancestors); err != nil {
		s.fail(ctx, uri, err)
	}
}

// process resolves uri and acts on its disposition.
func (s *Spider) process(ctx context.Context, uri model.CrawlURI, ancestors *ancestorPath) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	computed := false
	metadata, err := s.cache.Resolve(uri, func() (m model.URIMetadata, err error) {
		computed = true
		// Recovered here so the cache records the failure; a panic escaping
		// the flight would be re-raised in every waiting branch.
		defer func() {
			if r := recover(); r != nil {
				err = &PanicError{Value: r}
			}
		}()
		return s.resolve(ctx, uri)
	})
	if err != nil {
		if !computed {
			// Reported by the branch that ran the computation.
			return nil
		}
		return err
	}
	if !computed {
		s.logger.Debug("cache hit",
			slog.String("uri", uri.String()),
			slog.String("disposition", metadata.Disposition.String()),
		)
	}

	switch {
	case metadata.IsDownload():
		return s.download(ctx, uri, metadata.Path)
	case metadata.IsExpand() && ancestors.Len() < s.maxDepth:
		return s.expand(ctx, uri, metadata.Children, ancestors.With(uri))
	default:
		return nil
	}
}

// resolve fetches uri and computes its metadata. It holds a request slot
// for the whole fetch, classification and link extraction.
func (s *Spider) resolve(ctx context.Context, uri model.CrawlURI) (model.URIMetadata, error) {
	if err := s.requests.Acquire(ctx, 1); err != nil {
		return model.URIMetadata{}, err
	}
	defer s.requests.Release(1)

	resp, err := s.fetcher.Fetch(ctx, uri)
	if err != nil {
		return model.URIMetadata{}, err
	}
	defer resp.Body.Close()

	metadata := s.classifier.Classify(uri, resp.ContentType)
	if !metadata.IsExpand() {
		return metadata, nil
	}

	s.logger.Info("expanding page", slog.String("uri", uri.String()))
	children, err := s.extractor.Extract(uri, resp)
	if err != nil {
		return model.URIMetadata{}, err
	}
	s.pagesExpanded.Add(1)
	return model.ExpandMetadata(children), nil
}

// expand visits every child not already on path concurrently and waits for
// all of them. No semaphore is held while waiting.
func (s *Spider) expand(ctx context.Context, uri model.CrawlURI, children []model.CrawlURI, path *ancestorPath) error {
	s.logger.Debug("visiting children",
		slog.String("uri", uri.String()),
		slog.Int("children", len(children)),
		slog.Int("level", path.Len()),
	)

	var g errgroup.Group
	for _, child := range children {
		if path.Contains(child) {
			continue
		}
		g.Go(func() error {
			s.visit(ctx, child, path)
			return nil
		})
	}
	return g.Wait()
}

// fail records that processing uri failed: the cache entry becomes the
// ignore sentinel and a warning carrying the root cause is logged.
func (s *Spider) fail(ctx context.Context, uri model.CrawlURI, err error) {
	s.cache.MarkIgnored(uri)

	if ctx.Err() != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
		s.logger.Debug("processing cancelled", slog.String("uri", uri.String()))
		return
	}
	s.logger.Warn("processing failed",
		slog.String("uri", uri.String()),
		slog.String("cause", RootCause(err).Error()),
	)
}

// record appends a completed transfer to the summary.
func (s *Spider) record(rec model.DownloadRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, rec)
}

// downloadRecords returns a copy of the completed transfers.
func (s *Spider) downloadRecords() []model.DownloadRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.DownloadRecord(nil), s.records...)
}
