package scraper

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/PuerkitoBio/goquery"
	"github.com/mikey/conf-reminder/internal/core"
	"go.uber.org/zap"
)

// WikiCFPSource reads the call-for-papers listing of wikicfp.com
type WikiCFPSource struct {
	listURL string
	pages   int
	fetcher *HTTPFetcher
	logger  *zap.Logger
}

// NewWikiCFPSource creates a new WikiCFP source reading up to pages pages
func NewWikiCFPSource(listURL string, pages int, fetcher *HTTPFetcher, logger *zap.Logger) *WikiCFPSource {
	if pages < 1 {
		pages = 1
	}
	return &WikiCFPSource{
		listURL: listURL,
		pages:   pages,
		fetcher: fetcher,
		logger:  logger,
	}
}

// Name returns the source name
func (s *WikiCFPSource) Name() string {
	return "wikicfp"
}

// Fetch reads the listing pages in order. Paging stops early at the first
// page without rows; a failure after the first page keeps what was read.
func (s *WikiCFPSource) Fetch(ctx context.Context) ([]core.RawConference, error) {
	var out []core.RawConference

	for page := 1; page <= s.pages; page++ {
		pageURL, err := s.pageURL(page)
		if err != nil {
			return nil, err
		}

		doc, err := s.fetcher.Document(ctx, pageURL)
		if err != nil {
			if len(out) > 0 {
				s.logger.Warn("Stopping WikiCFP paging after error",
					zap.Int("page", page),
					zap.Error(err))
				break
			}
			return nil, fmt.Errorf("failed to fetch WikiCFP page %d: %w", page, err)
		}

		rows := s.parse(doc)
		s.logger.Debug("Parsed WikiCFP page",
			zap.Int("page", page),
			zap.Int("rows", len(rows)))
		if len(rows) == 0 {
			break
		}
		out = append(out, rows...)
	}

	return out, nil
}

func (s *WikiCFPSource) pageURL(page int) (string, error) {
	u, err := url.Parse(s.listURL)
	if err != nil {
		return "", fmt.Errorf("invalid WikiCFP url %q: %w", s.listURL, err)
	}
	if page > 1 {
		q := u.Query()
		q.Set("page", strconv.Itoa(page))
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

func (s *WikiCFPSource) parse(doc *goquery.Document) []core.RawConference {
	base, _ := url.Parse(s.listURL)

	var out []core.RawConference
	doc.Find("div.contsec table table tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.ChildrenFiltered("td")
		if cells.Length() < 4 {
			return
		}

		link := cells.Eq(0).Find("a").First()
		if link.Length() == 0 {
			return
		}
		acronym := cellText(link)
		if acronym == "" {
			return
		}

		fullName := link.AttrOr("title", "")
		if fullName == "" {
			fullName = acronym
		}

		rc := core.RawConference{
			Acronym:  acronym,
			FullName: fullName,
			Location: cellText(cells.Eq(1)),
			When:     cellText(cells.Eq(2)),
			Link:     resolveLink(base, link.AttrOr("href", "")),
			Source:   s.Name(),
		}
		if d := cellText(cells.Eq(3)); d != "" {
			rc.DeadlineText = "Submission Deadline: " + d
		}
		out = append(out, rc)
	})

	return out
}
