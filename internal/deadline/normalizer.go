package deadline

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Result is a calendar date with an optional clock time.
type Result struct {
	// Wall holds the parsed fields. Its location is UTC unless Explicit.
	Wall time.Time
	// HasTime is false when only a date was found; Wall is then midnight.
	HasTime bool
	// Explicit is set when the text carried its own UTC offset, making Wall
	// an absolute instant.
	Explicit bool
}

// Date returns the civil date.
func (r Result) Date() (int, time.Month, int) {
	return r.Wall.Date()
}

// In interprets the wall clock fields in loc.
func (r Result) In(loc *time.Location) time.Time {
	y, m, d := r.Wall.Date()
	return time.Date(y, m, d, r.Wall.Hour(), r.Wall.Minute(), r.Wall.Second(), 0, loc)
}

type layout struct {
	format string
	zoned  bool
}

// Layouts carrying both date and clock, tried against the whole string.
var dateTimeLayouts = []layout{
	{time.RFC3339, true},
	{"2006-01-02 15:04:05 -07:00", true},
	{"2006-01-02 15:04:05 -0700", true},
	{"2006-01-02T15:04:05", false},
	{"2006-01-02 15:04:05", false},
	{"2006-01-02 15:04", false},
	{"2006/01/02 15:04:05", false},
	{"2006/01/02 15:04", false},
}

// Date-only layouts. Any clock found alongside is reattached after a match.
var dateLayouts = []string{
	"2006-1-2",
	"2006/1/2",
	"2006.1.2",
	"January 2, 2006",
	"January 2 2006",
	"Jan 2, 2006",
	"Jan 2 2006",
	"2 January 2006",
	"2 January, 2006",
	"2 Jan 2006",
	"2 Jan, 2006",
	"2-Jan-2006",
	"January 2006",
	"1/2/2006",
	"2006年1月2日",
}

var (
	digitRun     = regexp.MustCompile(`\d+`)
	monthToken   = regexp.MustCompile(`(?i)(january|february|march|april|may|june|july|august|september|october|november|december|jan|feb|mar|apr|jun|jul|aug|sept|sep|oct|nov|dec)`)
	weekdayToken = regexp.MustCompile(`(?i)(monday|tuesday|wednesday|thursday|friday|saturday|sunday|mon|tues|tue|wed|thurs|thur|thu|fri|sat|sun)`)
	ordinal      = regexp.MustCompile(`(?i)\b(\d{1,2})(?:st|nd|rd|th)\b`)
	joiner       = regexp.MustCompile(`(?i)\b(?:at|on)\b`)
	dayRange     = regexp.MustCompile(`([A-Za-z]{3,}\.?\s+)(\d{1,2})\s*[-–]\s*\d{1,2}\b`)
	meridiem     = regexp.MustCompile(`(?i)(\d)\s*([ap])\.?m\b\.?`)
	clockPattern = regexp.MustCompile(`(?i)\b(\d{1,2}):(\d{2})(?::(\d{2}))?(?:\s*([AP]M))?\b`)
	commaSpacing = regexp.MustCompile(`\s*,\s*`)
	edgeNoise    = regexp.MustCompile(`^[\s,.;:\-–—/]+|[\s,.;:\-–—/]+$`)
)

// Normalizer parses the date text pulled out by the Extractor
type Normalizer struct{}

// NewNormalizer creates a new normalizer
func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// Normalize parses raw into a calendar date and optional time. When several
// dates were concatenated by the scraper the last one is used; if that
// segment does not parse the whole string is tried before giving up.
func (n *Normalizer) Normalize(raw string) (Result, bool) {
	s := strings.Join(strings.Fields(raw), " ")
	if s == "" {
		return Result{}, false
	}

	candidates := make([]string, 0, 2)
	if seg, ok := lastSegment(s); ok {
		candidates = append(candidates, seg)
	}
	candidates = append(candidates, s)

	for _, c := range candidates {
		if r, ok := n.parse(c); ok {
			return r, true
		}
	}
	return Result{}, false
}

func (n *Normalizer) parse(candidate string) (Result, bool) {
	s := preprocess(candidate)
	if s == "" {
		return Result{}, false
	}

	for _, l := range dateTimeLayouts {
		if t, err := time.Parse(l.format, s); err == nil {
			return Result{Wall: t, HasTime: true, Explicit: l.zoned}, true
		}
	}

	c, datePart, hasClock := splitClock(s)
	for _, format := range dateLayouts {
		t, err := time.Parse(format, datePart)
		if err != nil {
			continue
		}
		if hasClock {
			t = c.on(t)
		}
		return Result{Wall: t, HasTime: hasClock}, true
	}

	if t, ok := parseAny(s); ok {
		explicit := t.Location() != time.UTC
		timed := hasClock || t.Hour() != 0 || t.Minute() != 0 || t.Second() != 0
		return Result{Wall: t, HasTime: timed, Explicit: explicit}, true
	}

	return Result{}, false
}

// parseAny is the last resort for shapes the layout lists do not cover.
// Text without any digit is never a date.
func parseAny(s string) (t time.Time, ok bool) {
	if !digitRun.MatchString(s) {
		return time.Time{}, false
	}
	defer func() {
		if recover() != nil {
			t, ok = time.Time{}, false
		}
	}()
	parsed, err := dateparse.ParseIn(s, time.UTC)
	if err != nil || parsed.Year() < 1900 {
		return time.Time{}, false
	}
	return parsed, true
}

// span is a half-open byte range in a string
type span struct{ start, end int }

// findTokens returns the matches of re that are not glued to other letters,
// so "Mar" in "Summary" or "Wed" in "Wedding" are ignored while "2024Wed"
// still yields "Wed".
func findTokens(re *regexp.Regexp, s string) []span {
	var out []span
	for _, loc := range re.FindAllStringIndex(s, -1) {
		if loc[0] > 0 && isLetter(s[loc[0]-1]) {
			continue
		}
		if loc[1] < len(s) && isLetter(s[loc[1]]) {
			continue
		}
		out = append(out, span{loc[0], loc[1]})
	}
	return out
}

func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isYear(digits string) bool {
	return len(digits) == 4 && (strings.HasPrefix(digits, "19") || strings.HasPrefix(digits, "20"))
}

// lastSegment splits concatenated dates on repeated years, then repeated
// month names, then repeated weekdays, and returns the final segment.
func lastSegment(s string) (string, bool) {
	var years []span
	for _, loc := range digitRun.FindAllStringIndex(s, -1) {
		if isYear(s[loc[0]:loc[1]]) {
			years = append(years, span{loc[0], loc[1]})
		}
	}
	if len(years) >= 2 {
		return trimSegment(s[years[len(years)-2].end:])
	}

	if months := findTokens(monthToken, s); len(months) >= 2 {
		return trimSegment(s[monthSegmentStart(s, months):])
	}

	if days := findTokens(weekdayToken, s); len(days) >= 2 {
		return trimSegment(s[days[len(days)-1].start:])
	}

	return "", false
}

// monthSegmentStart finds where the date holding the last month token
// begins. Month-first dates ("Mar 20") start at the month; day-first dates
// ("Fri 20 Mar") also take the day and weekday written before it. The scan
// never crosses the previous month token.
func monthSegmentStart(s string, months []span) int {
	last := months[len(months)-1]
	floor := months[len(months)-2].end

	rest := strings.TrimLeft(s[last.end:], " .,")
	if loc := digitRun.FindStringIndex(rest); loc != nil && loc[0] == 0 && loc[1] <= 2 {
		return last.start
	}

	i := skipBack(s, last.start, floor, " ,")
	i = trimOrdinalBack(s, i, floor)
	j := i
	for j > floor && i-j < 2 && isDigit(s[j-1]) {
		j--
	}
	if j == i || (j > floor && isDigit(s[j-1])) {
		return last.start
	}

	start := j
	k := skipBack(s, start, floor, " ,")
	for _, wd := range findTokens(weekdayToken, s[floor:k]) {
		if floor+wd.end == k {
			start = floor + wd.start
		}
	}
	return start
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

// skipBack moves i left over any of the cutset characters, not past floor.
func skipBack(s string, i, floor int, cutset string) int {
	for i > floor && strings.IndexByte(cutset, s[i-1]) >= 0 {
		i--
	}
	return i
}

// trimOrdinalBack steps over an ordinal suffix ("st", "nd", "rd", "th")
// ending at i when a digit precedes it.
func trimOrdinalBack(s string, i, floor int) int {
	if i-3 < floor {
		return i
	}
	switch strings.ToLower(s[i-2 : i]) {
	case "st", "nd", "rd", "th":
		if isDigit(s[i-3]) {
			return i - 2
		}
	}
	return i
}

func trimSegment(seg string) (string, bool) {
	seg = edgeNoise.ReplaceAllString(seg, "")
	if seg == "" {
		return "", false
	}
	return seg, true
}

// preprocess strips weekdays, ordinals and joiner words and canonicalizes
// month names and meridiem markers so the layouts can match.
func preprocess(s string) string {
	s = removeSpans(s, findTokens(weekdayToken, s), ".,")
	s = ordinal.ReplaceAllString(s, "$1")
	s = joiner.ReplaceAllString(s, " ")
	s = dayRange.ReplaceAllString(s, "$1$2")
	s = canonicalMonths(s)
	s = meridiem.ReplaceAllStringFunc(s, func(m string) string {
		sub := meridiem.FindStringSubmatch(m)
		return sub[1] + " " + strings.ToUpper(sub[2]) + "M"
	})
	s = strings.NewReplacer("(", " ", ")", " ").Replace(s)
	s = strings.Join(strings.Fields(s), " ")
	s = commaSpacing.ReplaceAllString(s, ", ")
	return edgeNoise.ReplaceAllString(s, "")
}

// removeSpans cuts the spans out of s together with any directly following
// characters from trail.
func removeSpans(s string, spans []span, trail string) string {
	if len(spans) == 0 {
		return s
	}
	var b strings.Builder
	prev := 0
	for _, sp := range spans {
		b.WriteString(s[prev:sp.start])
		b.WriteByte(' ')
		end := sp.end
		for end < len(s) && strings.IndexByte(trail, s[end]) >= 0 {
			end++
		}
		prev = end
	}
	b.WriteString(s[prev:])
	return b.String()
}

func canonicalMonths(s string) string {
	spans := findTokens(monthToken, s)
	if len(spans) == 0 {
		return s
	}
	caser := cases.Title(language.English)
	var b strings.Builder
	prev := 0
	for _, sp := range spans {
		b.WriteString(s[prev:sp.start])
		name := caser.String(s[sp.start:sp.end])
		if name == "Sept" {
			name = "Sep"
		}
		b.WriteString(name)
		prev = sp.end
		if prev < len(s) && s[prev] == '.' {
			prev++
		}
	}
	b.WriteString(s[prev:])
	return b.String()
}

// clock is a time of day found in the text
type clock struct {
	hour, minute, second int
}

func (c clock) on(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, c.hour, c.minute, c.second, 0, time.UTC)
}

// splitClock finds an H:MM[:SS][ AM/PM] substring and returns it parsed
// along with the text that remains once it is removed.
func splitClock(s string) (clock, string, bool) {
	loc := clockPattern.FindStringSubmatchIndex(s)
	if loc == nil {
		return clock{}, s, false
	}

	group := func(i int) string {
		if loc[2*i] < 0 {
			return ""
		}
		return s[loc[2*i]:loc[2*i+1]]
	}

	hour, _ := strconv.Atoi(group(1))
	minute, _ := strconv.Atoi(group(2))
	second := 0
	if sec := group(3); sec != "" {
		second, _ = strconv.Atoi(sec)
	}

	switch strings.ToUpper(group(4)) {
	case "PM":
		if hour < 12 {
			hour += 12
		}
	case "AM":
		if hour == 12 {
			hour = 0
		}
	}

	if hour == 24 && minute == 0 && second == 0 {
		hour, minute, second = 23, 59, 59
	}
	if hour > 23 || minute > 59 || second > 59 {
		return clock{}, s, false
	}

	rest := s[:loc[0]] + " " + s[loc[1]:]
	rest = strings.Join(strings.Fields(rest), " ")
	rest = commaSpacing.ReplaceAllString(rest, ", ")
	rest = edgeNoise.ReplaceAllString(rest, "")

	return clock{hour, minute, second}, rest, true
}
