package scraper

import (
	"context"
	"fmt"
	"net/url"

	"github.com/PuerkitoBio/goquery"
	"github.com/mikey/conf-reminder/internal/core"
	"go.uber.org/zap"
)

// CCFSource reads the CCF recommended conference listing
type CCFSource struct {
	listURL string
	fetcher *HTTPFetcher
	logger  *zap.Logger
}

// NewCCFSource creates a new CCF listing source
func NewCCFSource(listURL string, fetcher *HTTPFetcher, logger *zap.Logger) *CCFSource {
	return &CCFSource{
		listURL: listURL,
		fetcher: fetcher,
		logger:  logger,
	}
}

// Name returns the source name
func (s *CCFSource) Name() string {
	return "ccf"
}

// Fetch reads the listing table. Rows with fewer than six cells, which
// includes the header, are skipped.
func (s *CCFSource) Fetch(ctx context.Context) ([]core.RawConference, error) {
	base, err := url.Parse(s.listURL)
	if err != nil {
		return nil, fmt.Errorf("invalid CCF url %q: %w", s.listURL, err)
	}

	doc, err := s.fetcher.Document(ctx, s.listURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch CCF listing: %w", err)
	}

	var out []core.RawConference
	skipped := 0
	doc.Find("table tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.ChildrenFiltered("td")
		if cells.Length() < 6 {
			skipped++
			return
		}

		acronym := cellText(cells.Eq(1))
		if acronym == "" {
			skipped++
			return
		}

		out = append(out, core.RawConference{
			Acronym:      acronym,
			FullName:     cellText(cells.Eq(2)),
			Rank:         cellText(cells.Eq(3)),
			Link:         resolveLink(base, cells.Eq(1).Find("a[href]").First().AttrOr("href", "")),
			DeadlineText: blockText(cells.Eq(5)),
			Source:       s.Name(),
		})
	})

	s.logger.Debug("Parsed CCF listing",
		zap.Int("rows", len(out)),
		zap.Int("skipped", skipped))

	return out, nil
}
