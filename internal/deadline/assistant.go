package deadline

import (
	"fmt"
	"strings"

	"github.com/mikey/conf-reminder/internal/utils"
)

// AssistantPrompt is the instruction sent to a language model when the
// keyword table finds nothing in a deadline block. The single %s verb takes
// the block itself.
const AssistantPrompt = `You extract academic conference deadlines from scraped text.
Read the text below and return a JSON object whose keys are deadline types and
whose values are objects with:
- date_str: the date exactly as written in the text (keep any time of day)
- tz_str: the timezone label as written (for example AoE, UTC-7, PST), or "" if none

Allowed keys: workshop_proposal_deadline, abstract_deadline, submission_deadline,
notification_date, camera_ready, registration_deadline, start_date, end_date.
Leave out any type that the text does not mention. If nothing is found return {}.

Text:
%s

Respond only with the JSON object and nothing else.`

// AssistantSystemPrompt is the system message paired with AssistantPrompt.
const AssistantSystemPrompt = "You are a deadline extraction system. Respond only with JSON."

// FormatAssistantPrompt fills AssistantPrompt with block.
func FormatAssistantPrompt(block string) string {
	return fmt.Sprintf(AssistantPrompt, block)
}

// ParseAssistantResponse decodes a model answer into extracted deadlines.
// Unknown keys and entries without a date are ignored, and timezone labels
// are upper-cased to match what the Extractor produces. IANA names keep
// their case.
func ParseAssistantResponse(text string) (map[Type]Extracted, error) {
	var raw map[string]Extracted
	if err := utils.DecodeJSONObject(text, &raw); err != nil {
		return nil, err
	}

	found := make(map[Type]Extracted, len(raw))
	for key, ex := range raw {
		kind, err := ParseType(key)
		if err != nil {
			continue
		}
		date := strings.TrimSpace(ex.DateStr)
		if date == "" {
			continue
		}
		found[kind] = Extracted{DateStr: date, TZStr: canonicalLabel(ex.TZStr)}
	}
	return found, nil
}

func canonicalLabel(label string) string {
	label = strings.TrimSpace(label)
	if strings.Contains(label, "/") {
		return label
	}
	return strings.ToUpper(strings.Join(strings.Fields(label), ""))
}
