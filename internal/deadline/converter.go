package deadline

import (
	"strings"
	"time"

	"github.com/mikey/conf-reminder/internal/timezone"
	"go.uber.org/zap"
)

// Converter turns an extracted date and timezone label into an instant in
// the reference zone.
type Converter struct {
	resolver   *timezone.Resolver
	normalizer *Normalizer
	logger     *zap.Logger
}

// NewConverter creates a new converter
func NewConverter(resolver *timezone.Resolver, normalizer *Normalizer, logger *zap.Logger) *Converter {
	return &Converter{
		resolver:   resolver,
		normalizer: normalizer,
		logger:     logger,
	}
}

// Convert returns the reference-zone instant for dateStr read in the zone
// named by tzLabel. AoE deadlines always land on 23:59:59 UTC-12 of their
// calendar date. A zone that cannot be resolved falls back to UTC. The
// boolean is false when the date cannot be parsed.
func (c *Converter) Convert(dateStr, tzLabel string) (time.Time, bool) {
	if strings.TrimSpace(dateStr) == "" {
		return time.Time{}, false
	}

	zone := c.resolver.Resolve(tzLabel)

	res, ok := c.normalizer.Normalize(dateStr)
	if !ok {
		c.logger.Warn("Unparseable deadline date",
			zap.String("date", dateStr),
			zap.String("tz", tzLabel))
		return time.Time{}, false
	}

	if zone.AoE {
		y, m, d := res.Date()
		return time.Date(y, m, d, 23, 59, 59, 0, timezone.AoE).In(timezone.Reference), true
	}

	if res.Explicit {
		return res.Wall.In(timezone.Reference), true
	}

	loc := zone.Location
	if !zone.Resolved() {
		if strings.TrimSpace(tzLabel) != "" {
			c.logger.Warn("Unrecognized timezone, assuming UTC",
				zap.String("date", dateStr),
				zap.String("tz", tzLabel))
		} else {
			c.logger.Info("No timezone given, assuming UTC",
				zap.String("date", dateStr))
		}
		loc = time.UTC
	}

	return res.In(loc).In(timezone.Reference), true
}

// ConvertAll converts every extracted deadline. Types whose date cannot be
// parsed are left out of the result.
func (c *Converter) ConvertAll(extracted map[Type]Extracted) map[Type]time.Time {
	parsed := make(map[Type]time.Time, len(extracted))
	for kind, ex := range extracted {
		t, ok := c.Convert(ex.DateStr, ex.TZStr)
		if !ok {
			c.logger.Debug("Dropping deadline without a usable date",
				zap.String("type", string(kind)),
				zap.String("date", ex.DateStr))
			continue
		}
		parsed[kind] = t
	}
	return parsed
}
