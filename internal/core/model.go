package core

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/mikey/conf-reminder/internal/deadline"
)

// LedgerDateLayout is the format of the deadline date in a ledger key.
const LedgerDateLayout = "2006-01-02"

// FallbackReminderDays applies to deadline types without a reference default.
const FallbackReminderDays = 7

// MaxReminderDays bounds the lead time a user may configure.
const MaxReminderDays = 365

// DefaultReminderDays holds the lead times a new user starts with
var DefaultReminderDays = map[deadline.Type]int{
	deadline.SubmissionDeadline: 7,
	deadline.AbstractDeadline:   7,
	deadline.NotificationDate:   3,
	deadline.CameraReady:        5,
}

// RawConference is one record as delivered by a fetch source, before any
// deadline processing.
type RawConference struct {
	Acronym      string `yaml:"acronym"`
	FullName     string `yaml:"full_name"`
	Rank         string `yaml:"rank"`
	Location     string `yaml:"location"`
	When         string `yaml:"when"`
	Link         string `yaml:"link"`
	DeadlineText string `yaml:"deadlines"`
	Source       string `yaml:"-"`
}

// ConferenceRecord is a conference with its extracted and converted deadlines
type ConferenceRecord struct {
	Acronym            string                               `json:"acronym"`
	FullName           string                               `json:"full_name"`
	Rank               string                               `json:"rank"`
	Location           string                               `json:"location"`
	When               string                               `json:"when"`
	Link               string                               `json:"link,omitempty"`
	Source             string                               `json:"source,omitempty"`
	RawDeadlines       string                               `json:"raw_deadlines"`
	ExtractedDeadlines map[deadline.Type]deadline.Extracted `json:"extracted_deadlines"`
	ParsedDeadlines    map[deadline.Type]time.Time          `json:"parsed_deadlines"`
}

// Deadline returns the converted instant for t, if one is known.
func (r ConferenceRecord) Deadline(t deadline.Type) (time.Time, bool) {
	at, ok := r.ParsedDeadlines[t]
	return at, ok
}

// DisplayName prefers the full name and falls back to the acronym.
func (r ConferenceRecord) DisplayName() string {
	if r.FullName != "" {
		return r.FullName
	}
	return r.Acronym
}

// UserPreference is a subscriber and their reminder settings
type UserPreference struct {
	Email              string                `json:"user_email"`
	Subscribed         []string              `json:"subscribed_conferences"`
	ReminderDays       map[deadline.Type]int `json:"reminder_days_before"`
	CustomReminderDays bool                  `json:"custom_reminder_days"`
}

// NewUserPreference creates a preference with no subscriptions and the
// default lead times.
func NewUserPreference(email string) *UserPreference {
	days := make(map[deadline.Type]int, len(DefaultReminderDays))
	for k, v := range DefaultReminderDays {
		days[k] = v
	}
	return &UserPreference{
		Email:        email,
		Subscribed:   []string{},
		ReminderDays: days,
	}
}

// EffectiveDays is the lead time in days used for deadline type t.
func (p *UserPreference) EffectiveDays(t deadline.Type) int {
	if days, ok := p.ReminderDays[t]; ok {
		return days
	}
	if days, ok := DefaultReminderDays[t]; ok {
		return days
	}
	return FallbackReminderDays
}

// IsSubscribed reports whether the user follows acronym
func (p *UserPreference) IsSubscribed(acronym string) bool {
	return slices.Contains(p.Subscribed, acronym)
}

// Clone returns a deep copy
func (p *UserPreference) Clone() *UserPreference {
	c := &UserPreference{
		Email:              p.Email,
		Subscribed:         slices.Clone(p.Subscribed),
		ReminderDays:       make(map[deadline.Type]int, len(p.ReminderDays)),
		CustomReminderDays: p.CustomReminderDays,
	}
	if c.Subscribed == nil {
		c.Subscribed = []string{}
	}
	for k, v := range p.ReminderDays {
		c.ReminderDays[k] = v
	}
	return c
}

// LedgerKey identifies one reminder that has been delivered. The date is
// part of the key so that a moved deadline is reminded about again.
type LedgerKey struct {
	Email   string
	Acronym string
	Type    deadline.Type
	Date    string
}

var (
	keyEscaper   = strings.NewReplacer("%", "%25", "|", "%7C")
	keyUnescaper = strings.NewReplacer("%7C", "|", "%7c", "|", "%25", "%")
)

// String encodes the key as its four fields joined by '|'. Field contents
// are percent-escaped so the encoding is lossless.
func (k LedgerKey) String() string {
	return strings.Join([]string{
		keyEscaper.Replace(k.Email),
		keyEscaper.Replace(k.Acronym),
		keyEscaper.Replace(string(k.Type)),
		keyEscaper.Replace(k.Date),
	}, "|")
}

// ParseLedgerKey decodes a key produced by LedgerKey.String
func ParseLedgerKey(s string) (LedgerKey, error) {
	parts := strings.Split(s, "|")
	if len(parts) != 4 {
		return LedgerKey{}, fmt.Errorf("%w: %q", ErrMalformedLedgerKey, s)
	}
	for i := range parts {
		parts[i] = keyUnescaper.Replace(parts[i])
	}
	return LedgerKey{
		Email:   parts[0],
		Acronym: parts[1],
		Type:    deadline.Type(parts[2]),
		Date:    parts[3],
	}, nil
}

// MarshalText lets LedgerKey be used as a JSON object key.
func (k LedgerKey) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (k *LedgerKey) UnmarshalText(text []byte) error {
	parsed, err := ParseLedgerKey(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Compare orders keys field by field.
func (k LedgerKey) Compare(other LedgerKey) int {
	if c := strings.Compare(k.Email, other.Email); c != 0 {
		return c
	}
	if c := strings.Compare(k.Acronym, other.Acronym); c != 0 {
		return c
	}
	if c := strings.Compare(string(k.Type), string(other.Type)); c != 0 {
		return c
	}
	return strings.Compare(k.Date, other.Date)
}

// DueReminder is a reminder whose window is open and which has not been sent
type DueReminder struct {
	Email             string
	ConferenceAcronym string
	ConferenceName    string
	Type              deadline.Type
	Deadline          time.Time
	DeadlineDate      string
	DaysRemaining     int
}

// Key is the ledger key that records delivery of r.
func (r DueReminder) Key() LedgerKey {
	return LedgerKey{
		Email:   r.Email,
		Acronym: r.ConferenceAcronym,
		Type:    r.Type,
		Date:    r.DeadlineDate,
	}
}

// OutgoingMail is a rendered message ready for a Mailer
type OutgoingMail struct {
	To       string
	Subject  string
	HTMLBody string
}
