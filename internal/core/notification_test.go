package core

import (
	"testing"

	"github.com/mikey/conf-reminder/internal/deadline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeLeftText(t *testing.T) {
	assert.Equal(t, "就是今天！", TimeLeftText(0))
	assert.Equal(t, "仅剩 1 天！", TimeLeftText(1))
	assert.Equal(t, "还有 5 天。", TimeLeftText(5))
}

func TestFormatReminder(t *testing.T) {
	mail, err := FormatReminder(DueReminder{
		Email:             "alice@example.com",
		ConferenceAcronym: "ICML",
		ConferenceName:    "Machine Learning <Conf>",
		Type:              deadline.CameraReady,
		Deadline:          at(2024, 3, 17, 23, 59),
		DeadlineDate:      "2024-03-17",
		DaysRemaining:     1,
	})
	require.NoError(t, err)

	assert.Equal(t, "alice@example.com", mail.To)
	assert.Equal(t, "会议提醒: Machine Learning <Conf> - Camera Ready 即将截止", mail.Subject)
	assert.Contains(t, mail.HTMLBody, "Machine Learning &lt;Conf&gt;")
	assert.Contains(t, mail.HTMLBody, "2024-03-17 23:59")
	assert.Contains(t, mail.HTMLBody, "仅剩 1 天！")
	assert.Contains(t, mail.HTMLBody, "北京时间")
}

func TestFormatReminder_FallsBackToAcronym(t *testing.T) {
	mail, err := FormatReminder(DueReminder{
		Email:             "alice@example.com",
		ConferenceAcronym: "ICML",
		Type:              deadline.SubmissionDeadline,
		Deadline:          at(2024, 3, 17, 23, 59),
	})
	require.NoError(t, err)
	assert.Equal(t, "会议提醒: ICML - Submission Deadline 即将截止", mail.Subject)
}
