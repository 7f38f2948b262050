package deadline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAssistantResponse(t *testing.T) {
	answer := "Here is the result:\n```json\n" + `{
  "submission_deadline": {"date_str": "March 15, 2024 23:59", "tz_str": "aoe"},
  "notification_date": {"date_str": "May 1, 2024", "tz_str": ""},
  "camera_ready": {"date_str": "", "tz_str": "UTC"},
  "rebuttal": {"date_str": "April 2, 2024", "tz_str": "UTC"},
  "end_date": {"date_str": "June 9, 2024", "tz_str": "Europe/Vienna"}
}` + "\n```"

	got, err := ParseAssistantResponse(answer)
	require.NoError(t, err)

	assert.Equal(t, map[Type]Extracted{
		SubmissionDeadline: {DateStr: "March 15, 2024 23:59", TZStr: "AOE"},
		NotificationDate:   {DateStr: "May 1, 2024"},
		EndDate:            {DateStr: "June 9, 2024", TZStr: "Europe/Vienna"},
	}, got)
}

func TestParseAssistantResponse_Empty(t *testing.T) {
	got, err := ParseAssistantResponse("{}")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestParseAssistantResponse_Garbage(t *testing.T) {
	_, err := ParseAssistantResponse("I could not find any deadlines.")
	assert.Error(t, err)
}

func TestFormatAssistantPrompt(t *testing.T) {
	prompt := FormatAssistantPrompt("Deadline: soon")
	assert.Contains(t, prompt, "Deadline: soon")
	assert.Contains(t, prompt, "submission_deadline")
}
