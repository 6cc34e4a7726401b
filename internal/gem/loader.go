package gem

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
)

// Loader fetches every configured source and merges the results into one catalog.
type Loader struct {
	sources []Source
	timeout time.Duration
	logger  *slog.Logger
}

// NewLoader creates a loader. A zero timeout leaves the caller's context untouched.
func NewLoader(logger *slog.Logger, timeout time.Duration, sources ...Source) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{sources: sources, timeout: timeout, logger: logger}
}

// Load fetches all sources concurrently. A failing source is logged and contributes
// nothing without cancelling the others; Load itself never fails, so an unreachable
// catalog yields an empty one. Records are merged in source order and the first occurrence of an id wins.
func (l *Loader) Load(ctx context.Context) Catalog {
	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	results := make([][]Gem, len(l.sources))

	var g errgroup.Group
	for i, src := range l.sources {
		g.Go(func() error {
			gems, err := src.Fetch(ctx)
			if err != nil {
				l.logger.Error("catalog source failed", slog.String("source", src.Name()), slog.Any("error", err))
				return nil
			}
			results[i] = gems
			return nil
		})
	}
	g.Wait()

	var merged []Gem
	for _, gems := range results {
		merged = append(merged, gems...)
	}

	catalog, dropped := NewCatalog(merged)
	if len(dropped) > 0 {
		l.logger.Warn("duplicate gem ids dropped", slog.Any("ids", dropped))
	}
	l.logger.Info("catalog loaded", slog.Int("gems", catalog.Len()), slog.Int("sources", len(l.sources)))
	return catalog
}
