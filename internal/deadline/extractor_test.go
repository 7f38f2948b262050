package deadline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractor_SubmissionWithAoE(t *testing.T) {
	got := NewExtractor().Extract("Paper Submission Deadline: March 15, 2024, 23:59 AoE")

	require.Contains(t, got, SubmissionDeadline)
	assert.Contains(t, got[SubmissionDeadline].DateStr, "March 15, 2024")
	assert.Equal(t, "AOE", got[SubmissionDeadline].TZStr)
}

func TestExtractor_Lines(t *testing.T) {
	tests := []struct {
		name string
		line string
		kind Type
		want Extracted
	}{
		{
			name: "parenthesized offset",
			line: "Abstract Deadline: March 1, 2024 (UTC-7)",
			kind: AbstractDeadline,
			want: Extracted{DateStr: "March 1, 2024", TZStr: "UTC-7"},
		},
		{
			name: "camera ready before generic deadline",
			line: "Camera-ready Deadline: May 1, 2024",
			kind: CameraReady,
			want: Extracted{DateStr: "May 1, 2024"},
		},
		{
			name: "final version",
			line: "Final version submission deadline: June 2, 2024 AoE",
			kind: CameraReady,
			want: Extracted{DateStr: "June 2, 2024", TZStr: "AOE"},
		},
		{
			name: "notification",
			line: "Notification of Acceptance: June 10, 2024",
			kind: NotificationDate,
			want: Extracted{DateStr: "June 10, 2024"},
		},
		{
			name: "leading dash and bare abbreviation",
			line: "Full Paper Deadline - 2024-04-01 23:59 PST",
			kind: SubmissionDeadline,
			want: Extracted{DateStr: "2024-04-01 23:59", TZStr: "PST"},
		},
		{
			name: "offset wins over abbreviation",
			line: "Submission deadline: Jan 5, 2025 PST (UTC-8)",
			kind: SubmissionDeadline,
			want: Extracted{DateStr: "Jan 5, 2025", TZStr: "UTC-8"},
		},
		{
			name: "workshop proposal",
			line: "Workshop Proposals Due: 12 February 2024",
			kind: WorkshopProposalDeadline,
			want: Extracted{DateStr: "12 February 2024"},
		},
		{
			name: "registration",
			line: "Registration deadline: July 1, 2024",
			kind: RegistrationDeadline,
			want: Extracted{DateStr: "July 1, 2024"},
		},
	}

	e := NewExtractor()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.Extract(tt.line)
			require.Len(t, got, 1)
			assert.Equal(t, tt.want, got[tt.kind])
		})
	}
}

func TestExtractor_FirstOccurrenceWins(t *testing.T) {
	text := `Submission Deadline: April 1, 2024
Submission Deadline: April 8, 2024 (extended)`

	got := NewExtractor().Extract(text)

	require.Contains(t, got, SubmissionDeadline)
	assert.Equal(t, "April 1, 2024", got[SubmissionDeadline].DateStr)
}

func TestExtractor_OneTypePerLine(t *testing.T) {
	got := NewExtractor().Extract("Abstract Deadline: March 1, 2024 / Submission Deadline: March 8, 2024")

	assert.Contains(t, got, AbstractDeadline)
	assert.NotContains(t, got, SubmissionDeadline)
}

func TestExtractor_MultiLineBlock(t *testing.T) {
	text := `
Important dates
Abstract Deadline: March 1, 2024
Paper Submission Deadline: March 8, 2024 AoE

Notification: May 15, 2024
Camera Ready: June 1, 2024
`
	got := NewExtractor().Extract(text)

	assert.Len(t, got, 4)
	assert.Equal(t, "March 1, 2024", got[AbstractDeadline].DateStr)
	assert.Equal(t, Extracted{DateStr: "March 8, 2024", TZStr: "AOE"}, got[SubmissionDeadline])
	assert.Equal(t, "May 15, 2024", got[NotificationDate].DateStr)
	assert.Equal(t, "June 1, 2024", got[CameraReady].DateStr)
}

func TestExtractor_NoMatches(t *testing.T) {
	e := NewExtractor()

	for _, text := range []string{"", "Welcome to the conference", "Submission Deadline:", "Submission Deadline: AoE"} {
		got := e.Extract(text)
		assert.NotNil(t, got, text)
		assert.Empty(t, got, text)
	}
}
