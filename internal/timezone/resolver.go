package timezone

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	// Embedded zone database so IANA labels resolve on minimal hosts.
	_ "time/tzdata"
)

// Reference is the zone every deadline is normalized into (UTC+8).
var Reference = time.FixedZone("UTC+8", 8*60*60)

// AoE is "Anywhere on Earth", the last zone to finish a calendar day.
var AoE = time.FixedZone("AoE", -12*60*60)

// Zone is the outcome of resolving a timezone label.
type Zone struct {
	// Label is the canonical label, upper-cased for abbreviations and offsets.
	Label string
	// Location is nil when the label could not be resolved.
	Location *time.Location
	// AoE marks the end-of-day convention: the instant is 23:59:59 of the
	// calendar date in UTC-12 regardless of any time component in the text.
	AoE bool
}

// Unresolved is returned when a label is empty or not recognized.
var Unresolved = Zone{}

// Resolved reports whether the zone maps to a concrete location.
func (z Zone) Resolved() bool {
	return z.Location != nil
}

// abbreviations maps the recognized labels to fixed UTC offsets in hours.
// Abbreviations that name a daylight-saving variant carry that variant's offset.
var abbreviations = map[string]int{
	"UTC":  0,
	"GMT":  0,
	"Z":    0,
	"PST":  -8,
	"PDT":  -7,
	"MST":  -7,
	"MDT":  -6,
	"CST":  -6,
	"CDT":  -5,
	"EST":  -5,
	"EDT":  -4,
	"JST":  9,
	"CET":  1,
	"CEST": 2,
}

var offsetPattern = regexp.MustCompile(`^(UTC|GMT)\s*([+-])\s*(\d{1,2})(?::?(\d{2}))?$`)

// Resolver maps timezone labels found in scraped text to locations.
type Resolver struct{}

// NewResolver creates a new resolver
func NewResolver() *Resolver {
	return &Resolver{}
}

// Resolve maps a label such as "AoE", "PST", "UTC-7" or "Asia/Tokyo" to a
// zone. It never fails; unknown labels yield Unresolved so the caller can
// apply its own fallback.
func (r *Resolver) Resolve(label string) Zone {
	trimmed := strings.TrimSpace(strings.Trim(strings.TrimSpace(label), "()"))
	if trimmed == "" {
		return Unresolved
	}
	upper := strings.ToUpper(trimmed)

	if upper == "AOE" {
		return Zone{Label: "AOE", Location: AoE, AoE: true}
	}

	if m := offsetPattern.FindStringSubmatch(upper); m != nil {
		return parseOffset(m)
	}

	if hours, ok := abbreviations[upper]; ok {
		return Zone{Label: upper, Location: time.FixedZone(upper, hours*60*60)}
	}

	if strings.Contains(trimmed, "/") {
		loc, err := time.LoadLocation(trimmed)
		if err == nil {
			return Zone{Label: trimmed, Location: loc}
		}
	}

	return Unresolved
}

// parseOffset builds a fixed zone from the submatches of offsetPattern.
func parseOffset(m []string) Zone {
	hours, err := strconv.Atoi(m[3])
	if err != nil || hours > 14 {
		return Unresolved
	}
	minutes := 0
	if m[4] != "" {
		minutes, err = strconv.Atoi(m[4])
		if err != nil || minutes >= 60 {
			return Unresolved
		}
	}

	seconds := hours*3600 + minutes*60
	if m[2] == "-" {
		seconds = -seconds
	}

	label := fmt.Sprintf("%s%s%d", m[1], m[2], hours)
	if minutes != 0 {
		label = fmt.Sprintf("%s:%02d", label, minutes)
	}

	return Zone{Label: label, Location: time.FixedZone(label, seconds)}
}
