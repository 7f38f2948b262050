package deadline

import (
	"regexp"
	"strings"
)

// keywordRule pairs a keyword pattern with the deadline type it announces.
type keywordRule struct {
	pattern *regexp.Regexp
	kind    Type
}

// defaultKeywordTable is evaluated top to bottom and the first rule that
// matches a line decides its type. A phrase that contains a more generic one
// must sit above it: "abstract submission deadline" and "final version
// deadline" both contain "submission"/"deadline" wording that the generic
// submission rule would otherwise claim.
var defaultKeywordTable = []keywordRule{
	{regexp.MustCompile(`(?i)(?:workshop|tutorial)s?\s+proposals?\s+(?:submission\s+)?(?:deadline|due)`), WorkshopProposalDeadline},
	{regexp.MustCompile(`(?i)abstracts?\s+(?:submission\s+|registration\s+)?(?:deadline|due)`), AbstractDeadline},
	{regexp.MustCompile(`(?i)(?:camera[\s-]*ready|final\s+version)(?:\s+(?:paper|papers|version|submission))?(?:\s+(?:deadline|due))?`), CameraReady},
	{regexp.MustCompile(`(?i)notification\s+date|notification\s+due|acceptance\s+notice\s+date|author\s+notification|paper\s+decision\s+date|notification\s+of\s+acceptance|\bnotification\b`), NotificationDate},
	{regexp.MustCompile(`(?i)registration\s+deadline`), RegistrationDeadline},
	{regexp.MustCompile(`(?i)(?:paper|full\s+paper|manuscript|submission)\s+deadline|submission\s+due|deadline\s+for\s+submissions?`), SubmissionDeadline},
	{regexp.MustCompile(`(?i)start\s+date|conference\s+dates?`), StartDate},
	{regexp.MustCompile(`(?i)end\s+date`), EndDate},
}

// Explicit numeric offsets win over abbreviations because they are unambiguous.
var offsetToken = regexp.MustCompile(`(?i)\b(?:UTC|GMT)\s*[+-]\s*\d{1,2}(?::\d{2})?\b`)

// tzToken is a recognized abbreviation, matched bare or in parentheses.
type tzToken struct {
	label   string
	pattern *regexp.Regexp
}

var tzTokens = buildTZTokens("AoE", "UTC", "GMT", "PST", "PDT", "EST", "EDT", "CST", "CDT", "MST", "MDT", "JST", "CET", "CEST")

func buildTZTokens(labels ...string) []tzToken {
	tokens := make([]tzToken, 0, len(labels))
	for _, label := range labels {
		tokens = append(tokens, tzToken{
			label:   strings.ToUpper(label),
			pattern: regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(label) + `\b`),
		})
	}
	return tokens
}

var (
	deadlineWord   = regexp.MustCompile(`(?i)\bdeadline\b|截止日期`)
	emptyParens    = regexp.MustCompile(`\(\s*\)`)
	leadingNoise   = regexp.MustCompile(`^[\s:：\-–—]+`)
	trailingNoise  = regexp.MustCompile(`[\s,.;:：\-–—(]+$`)
	repeatedSpaces = regexp.MustCompile(`\s+`)
)

// Extractor finds deadline mentions in free text
type Extractor struct {
	rules []keywordRule
}

// NewExtractor creates an extractor using the built-in keyword table
func NewExtractor() *Extractor {
	return &Extractor{rules: defaultKeywordTable}
}

// Extract scans text line by line and returns the raw date and timezone
// label found for each deadline type. A line contributes at most one type
// and the first line seen for a type wins. Lines without a keyword are
// skipped; the result may be empty but is never nil.
func (e *Extractor) Extract(text string) map[Type]Extracted {
	found := make(map[Type]Extracted)

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		kind, region, ok := e.classify(line)
		if !ok {
			continue
		}
		if _, seen := found[kind]; seen {
			continue
		}

		date, tz := splitTimezone(region)
		date = cleanDate(date)
		if date == "" {
			continue
		}

		found[kind] = Extracted{DateStr: date, TZStr: tz}
	}

	return found
}

// classify returns the type of the first matching rule and the text after
// the keyword.
func (e *Extractor) classify(line string) (Type, string, bool) {
	for _, rule := range e.rules {
		loc := rule.pattern.FindStringIndex(line)
		if loc == nil {
			continue
		}
		region := strings.TrimSpace(line[loc[1]:])
		region = strings.TrimSpace(strings.TrimLeft(region, ":："))
		return rule.kind, region, true
	}
	return "", "", false
}

// splitTimezone removes the timezone label from region and returns the
// remaining date text together with the canonical label.
func splitTimezone(region string) (string, string) {
	label := ""

	if loc := offsetToken.FindStringIndex(region); loc != nil {
		label = strings.ToUpper(strings.Join(strings.Fields(region[loc[0]:loc[1]]), ""))
		region = cutToken(region, loc[0], loc[1])
	}

	for _, tok := range tzTokens {
		for {
			loc := tok.pattern.FindStringIndex(region)
			if loc == nil {
				break
			}
			if label == "" {
				label = tok.label
			}
			region = cutToken(region, loc[0], loc[1])
		}
	}

	return region, label
}

// cutToken removes region[start:end] and the parentheses around it, if any.
func cutToken(region string, start, end int) string {
	before := strings.TrimRight(region[:start], " \t")
	after := strings.TrimLeft(region[end:], " \t")
	if strings.HasSuffix(before, "(") && strings.HasPrefix(after, ")") {
		before = strings.TrimSuffix(before, "(")
		after = strings.TrimPrefix(after, ")")
	}
	return before + " " + after
}

func cleanDate(s string) string {
	s = deadlineWord.ReplaceAllString(s, " ")
	s = emptyParens.ReplaceAllString(s, " ")
	s = repeatedSpaces.ReplaceAllString(s, " ")
	s = leadingNoise.ReplaceAllString(s, "")
	s = trailingNoise.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}
