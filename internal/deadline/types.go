package deadline

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Type is a conference milestone category
type Type string

const (
	AbstractDeadline         Type = "abstract_deadline"
	SubmissionDeadline       Type = "submission_deadline"
	NotificationDate         Type = "notification_date"
	CameraReady              Type = "camera_ready"
	RegistrationDeadline     Type = "registration_deadline"
	StartDate                Type = "start_date"
	EndDate                  Type = "end_date"
	WorkshopProposalDeadline Type = "workshop_proposal_deadline"
)

// allTypes is ordered by the usual conference timeline.
var allTypes = []Type{
	WorkshopProposalDeadline,
	AbstractDeadline,
	SubmissionDeadline,
	NotificationDate,
	CameraReady,
	RegistrationDeadline,
	StartDate,
	EndDate,
}

// AllTypes returns every deadline type in timeline order
func AllTypes() []Type {
	out := make([]Type, len(allTypes))
	copy(out, allTypes)
	return out
}

// ParseType validates a deadline type name
func ParseType(s string) (Type, error) {
	t := Type(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("unknown deadline type: %q", s)
	}
	return t, nil
}

// Valid reports whether t is one of the known types
func (t Type) Valid() bool {
	return t.Rank() >= 0
}

// Rank is the position of t in timeline order, or -1 for unknown types.
func (t Type) Rank() int {
	for i, known := range allTypes {
		if known == t {
			return i
		}
	}
	return -1
}

// Title renders the type for humans, e.g. "Submission Deadline".
func (t Type) Title() string {
	return cases.Title(language.English).String(strings.ReplaceAll(string(t), "_", " "))
}

// Extracted is the raw date text and timezone label found for one deadline type.
type Extracted struct {
	DateStr string `json:"date_str"`
	TZStr   string `json:"tz_str,omitempty"`
}
