package core

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mikey/conf-reminder/internal/deadline"
	"go.uber.org/zap"
)

// RefreshSummary reports the outcome of one refresh pass
type RefreshSummary struct {
	Fetched            int
	Kept               int
	WithDeadlines      int
	AssistantUsed      int
	ConversionFailures int
	Replaced           bool
}

// ConferenceService runs the scrape and parse pipeline and owns the catalog
type ConferenceService struct {
	fetcher   ConferenceFetcher
	extractor *deadline.Extractor
	converter *deadline.Converter
	assistant DeadlineAssistant
	state     *State
	logger    *zap.Logger
}

// NewConferenceService creates a new conference service. assistant may be
// nil, in which case blocks the keyword table cannot read stay empty.
func NewConferenceService(
	fetcher ConferenceFetcher,
	extractor *deadline.Extractor,
	converter *deadline.Converter,
	assistant DeadlineAssistant,
	state *State,
	logger *zap.Logger,
) *ConferenceService {
	return &ConferenceService{
		fetcher:   fetcher,
		extractor: extractor,
		converter: converter,
		assistant: assistant,
		state:     state,
		logger:    logger,
	}
}

// ExtractDeadlines returns the raw deadlines found in text
func (s *ConferenceService) ExtractDeadlines(text string) map[deadline.Type]deadline.Extracted {
	return s.extractor.Extract(text)
}

// ConvertToReferenceZone converts one extracted date to the reference zone
func (s *ConferenceService) ConvertToReferenceZone(dateStr, tzLabel string) (time.Time, bool) {
	return s.converter.Convert(dateStr, tzLabel)
}

// Conferences returns the current catalog
func (s *ConferenceService) Conferences() []ConferenceRecord {
	return s.state.Conferences.All()
}

// Refresh fetches every source, rebuilds the catalog and saves it. When the
// fetch yields nothing the existing catalog is kept.
func (s *ConferenceService) Refresh(ctx context.Context) (*RefreshSummary, error) {
	start := time.Now()

	raw, err := s.fetcher.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch conferences: %w", err)
	}

	summary := &RefreshSummary{Fetched: len(raw)}
	if len(raw) == 0 {
		s.logger.Warn("Fetch returned no conferences, keeping current catalog",
			zap.Int("current", s.state.Conferences.Len()))
		return summary, nil
	}

	records := make([]ConferenceRecord, 0, len(raw))
	seen := make(map[string]bool, len(raw))
	for _, rc := range raw {
		acronym := strings.TrimSpace(rc.Acronym)
		if acronym == "" {
			s.logger.Debug("Skipping conference without acronym", zap.String("name", rc.FullName))
			continue
		}
		if seen[acronym] {
			continue
		}
		seen[acronym] = true

		rec := s.buildRecord(ctx, rc, summary)
		if len(rec.ParsedDeadlines) > 0 {
			summary.WithDeadlines++
		}
		records = append(records, rec)
	}
	summary.Kept = len(records)

	s.state.Conferences.Replace(records)
	summary.Replaced = true
	if err := s.state.FlushConferences(ctx); err != nil {
		return summary, err
	}

	s.logger.Info("Refreshed conference catalog",
		zap.Int("fetched", summary.Fetched),
		zap.Int("kept", summary.Kept),
		zap.Int("with_deadlines", summary.WithDeadlines),
		zap.Int("assistant_used", summary.AssistantUsed),
		zap.Int("conversion_failures", summary.ConversionFailures),
		zap.Duration("duration", time.Since(start)))

	return summary, nil
}

// buildRecord runs extraction and conversion for one raw conference. A
// failure only costs this record its deadlines.
func (s *ConferenceService) buildRecord(ctx context.Context, rc RawConference, summary *RefreshSummary) ConferenceRecord {
	acronym := strings.TrimSpace(rc.Acronym)

	extracted := s.extractor.Extract(rc.DeadlineText)
	if len(extracted) == 0 && s.assistant != nil && strings.TrimSpace(rc.DeadlineText) != "" {
		found, err := s.assistant.ExtractDeadlines(ctx, rc.DeadlineText)
		if err != nil {
			s.logger.Warn("Assistant extraction failed",
				zap.String("acronym", acronym),
				zap.Error(err))
		} else if len(found) > 0 {
			extracted = found
			summary.AssistantUsed++
		}
	}
	if len(extracted) == 0 {
		s.logger.Debug("No deadlines found", zap.String("acronym", acronym))
	}

	parsed := make(map[deadline.Type]time.Time, len(extracted))
	for kind, ex := range extracted {
		at, ok := s.converter.Convert(ex.DateStr, ex.TZStr)
		if !ok {
			summary.ConversionFailures++
			s.logger.Warn("Could not convert deadline",
				zap.String("acronym", acronym),
				zap.String("type", string(kind)),
				zap.String("date", ex.DateStr),
				zap.String("tz", ex.TZStr))
			continue
		}
		parsed[kind] = at
	}

	return ConferenceRecord{
		Acronym:            acronym,
		FullName:           strings.TrimSpace(rc.FullName),
		Rank:               strings.TrimSpace(rc.Rank),
		Location:           strings.TrimSpace(rc.Location),
		When:               strings.TrimSpace(rc.When),
		Link:               rc.Link,
		Source:             rc.Source,
		RawDeadlines:       rc.DeadlineText,
		ExtractedDeadlines: extracted,
		ParsedDeadlines:    parsed,
	}
}
