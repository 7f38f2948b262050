package scraper

import (
	"context"
	"fmt"
	"strings"

	"github.com/mikey/conf-reminder/internal/core"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// MultiSource fetches several sources concurrently and merges their results
type MultiSource struct {
	sources []Source
	logger  *zap.Logger
}

// NewMultiSource creates a fetcher over sources, in priority order
func NewMultiSource(logger *zap.Logger, sources ...Source) *MultiSource {
	return &MultiSource{
		sources: sources,
		logger:  logger,
	}
}

// Fetch runs every source at once. Results keep the configured source order
// and the first record seen for an acronym wins. A failing source is logged
// and skipped; an error is returned only when every source failed.
func (m *MultiSource) Fetch(ctx context.Context) ([]core.RawConference, error) {
	if len(m.sources) == 0 {
		return nil, nil
	}

	results := make([][]core.RawConference, len(m.sources))
	failures := make([]error, len(m.sources))

	var g errgroup.Group
	for i, src := range m.sources {
		g.Go(func() error {
			recs, err := src.Fetch(ctx)
			if err != nil {
				failures[i] = err
				m.logger.Warn("Conference source failed",
					zap.String("source", src.Name()),
					zap.Error(err))
				return nil
			}
			results[i] = recs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	failed := 0
	for _, err := range failures {
		if err != nil {
			failed++
		}
	}
	if failed == len(m.sources) {
		return nil, fmt.Errorf("all %d conference sources failed: %w", failed, failures[0])
	}

	var merged []core.RawConference
	seen := make(map[string]bool)
	for i, recs := range results {
		kept := 0
		for _, rc := range recs {
			key := strings.ToUpper(strings.TrimSpace(rc.Acronym))
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			merged = append(merged, rc)
			kept++
		}
		m.logger.Debug("Merged source results",
			zap.String("source", m.sources[i].Name()),
			zap.Int("fetched", len(recs)),
			zap.Int("kept", kept))
	}

	return merged, nil
}
