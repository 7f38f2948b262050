package factory

import (
	"fmt"
	"strings"

	"github.com/mikey/conf-reminder/internal/adapters/scraper"
	"github.com/mikey/conf-reminder/internal/config"
	"github.com/mikey/conf-reminder/internal/core"
	"go.uber.org/zap"
)

// FetcherFactory creates the conference fetcher from the configured sources
type FetcherFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewFetcherFactory creates a new fetcher factory
func NewFetcherFactory(cfg *config.Config, logger *zap.Logger) *FetcherFactory {
	return &FetcherFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateFetcher creates a fetcher over every configured source, in order
func (f *FetcherFactory) CreateFetcher() (core.ConferenceFetcher, error) {
	scraperCfg := f.cfg.GetScraper()

	pageFetcher := scraper.NewHTTPFetcher(scraper.HTTPOptions{
		UserAgent:       scraperCfg.UserAgent,
		Timeout:         scraperCfg.Timeout,
		RequestInterval: scraperCfg.RequestInterval,
	}, f.logger)

	var sources []scraper.Source
	for _, name := range scraperCfg.Sources {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "wikicfp":
			sources = append(sources, scraper.NewWikiCFPSource(scraperCfg.WikiCFPURL, scraperCfg.WikiCFPPages, pageFetcher, f.logger))
		case "ccf":
			sources = append(sources, scraper.NewCCFSource(scraperCfg.CCFURL, pageFetcher, f.logger))
		case "manual":
			sources = append(sources, scraper.NewManualSource(scraperCfg.ManualPath, f.logger))
		default:
			return nil, fmt.Errorf("unsupported conference source: %s", name)
		}
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("no conference sources configured")
	}

	names := make([]string, len(sources))
	for i, s := range sources {
		names[i] = s.Name()
	}
	f.logger.Info("Configured conference sources", zap.Strings("sources", names))

	return scraper.NewMultiSource(f.logger, sources...), nil
}
