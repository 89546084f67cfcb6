package crawler

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dustin/go-humanize"
	"github.com/nao1215/sponge/internal/model"
)

// download transfers uri to path unless another branch already claimed it.
//
// The claim flips the cache entry from Download to Ignore before the
// transfer starts, so concurrent branches reaching the same file perform a
// single transfer and later visits treat the URI as done. Transfer errors
// are returned to the visit, which logs them.
func (s *Spider) download(ctx context.Context, uri model.CrawlURI, path string) error {
	claimed, ok := s.cache.Claim(uri)
	if !ok {
		s.logger.Debug("download already claimed", slog.String("uri", uri.String()))
		return nil
	}

	if err := s.downloads.Acquire(ctx, 1); err != nil {
		return err
	}
	defer s.downloads.Release(1)

	n, err := s.downloader.Download(ctx, uri, claimed)
	if err != nil {
		return fmt.Errorf("failed to download %s: %w", uri, err)
	}

	s.record(model.DownloadRecord{URI: uri, Path: claimed, Bytes: n})
	s.logger.Info("downloaded",
		slog.String("uri", uri.String()),
		slog.String("path", claimed),
		slog.String("size", humanize.Bytes(uint64(max(n, 0)))),
	)
	return nil
}
