package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mikey/conf-reminder/internal/core"
	"github.com/mikey/conf-reminder/internal/deadline"
	"github.com/mikey/conf-reminder/internal/timezone"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func sampleConferences() []core.ConferenceRecord {
	return []core.ConferenceRecord{
		{
			Acronym:      "ICML",
			FullName:     "International Conference on Machine Learning",
			Rank:         "A",
			Location:     "Vienna, Austria",
			When:         "Jul 21, 2024 - Jul 27, 2024",
			RawDeadlines: "Submission Deadline: Feb 1, 2024 AoE",
			ExtractedDeadlines: map[deadline.Type]deadline.Extracted{
				deadline.SubmissionDeadline: {DateStr: "Feb 1, 2024", TZStr: "AOE"},
			},
			ParsedDeadlines: map[deadline.Type]time.Time{
				deadline.SubmissionDeadline: time.Date(2024, 2, 2, 19, 59, 59, 0, timezone.Reference),
			},
		},
		{
			Acronym:            "CVPR",
			FullName:           "Computer Vision and Pattern Recognition",
			ExtractedDeadlines: map[deadline.Type]deadline.Extracted{},
			ParsedDeadlines:    map[deadline.Type]time.Time{},
		},
	}
}

func samplePreferences() map[string]*core.UserPreference {
	p := core.NewUserPreference("alice@example.com")
	p.Subscribed = []string{"ICML", "CVPR"}
	p.ReminderDays[deadline.CameraReady] = 2
	p.CustomReminderDays = true
	return map[string]*core.UserPreference{p.Email: p}
}

func sampleLedger() map[core.LedgerKey]time.Time {
	return map[core.LedgerKey]time.Time{
		{Email: "alice@example.com", Acronym: "ICML", Type: deadline.SubmissionDeadline, Date: "2024-02-02"}: time.Date(2024, 1, 27, 8, 0, 0, 0, timezone.Reference),
		{Email: "a|b@example.com", Acronym: "X%Y", Type: deadline.CameraReady, Date: "2024-05-01"}:          time.Date(2024, 4, 28, 14, 0, 0, 0, time.UTC),
	}
}

// exerciseStorage checks the snapshot contract shared by every backend.
func exerciseStorage(t *testing.T, s core.Storage) {
	t.Helper()
	ctx := context.Background()

	confs, err := s.LoadConferences(ctx)
	require.NoError(t, err)
	assert.Empty(t, confs)
	prefs, err := s.LoadPreferences(ctx)
	require.NoError(t, err)
	assert.Empty(t, prefs)
	ledger, err := s.LoadLedger(ctx)
	require.NoError(t, err)
	assert.Empty(t, ledger)

	require.NoError(t, s.SaveConferences(ctx, sampleConferences()))
	require.NoError(t, s.SavePreferences(ctx, samplePreferences()))
	require.NoError(t, s.SaveLedger(ctx, sampleLedger()))

	confs, err = s.LoadConferences(ctx)
	require.NoError(t, err)
	require.Len(t, confs, 2)
	assert.Equal(t, "ICML", confs[0].Acronym)
	assert.Equal(t, "CVPR", confs[1].Acronym)
	assert.Equal(t, sampleConferences()[0].ExtractedDeadlines, confs[0].ExtractedDeadlines)
	got, ok := confs[0].Deadline(deadline.SubmissionDeadline)
	require.True(t, ok)
	want, _ := sampleConferences()[0].Deadline(deadline.SubmissionDeadline)
	assert.True(t, want.Equal(got))

	prefs, err = s.LoadPreferences(ctx)
	require.NoError(t, err)
	assert.Equal(t, samplePreferences(), prefs)

	ledger, err = s.LoadLedger(ctx)
	require.NoError(t, err)
	require.Len(t, ledger, len(sampleLedger()))
	for k, v := range sampleLedger() {
		assert.True(t, v.Equal(ledger[k]), k.String())
	}

	// A save replaces the previous snapshot entirely.
	require.NoError(t, s.SaveConferences(ctx, sampleConferences()[1:]))
	confs, err = s.LoadConferences(ctx)
	require.NoError(t, err)
	require.Len(t, confs, 1)
	assert.Equal(t, "CVPR", confs[0].Acronym)

	require.NoError(t, s.SaveLedger(ctx, nil))
	ledger, err = s.LoadLedger(ctx)
	require.NoError(t, err)
	assert.Empty(t, ledger)
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore(zap.NewNop())
	exerciseStorage(t, s)
	assert.NoError(t, s.Close())
}

func TestJSONStore(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	s, err := NewJSONStore(dir, zap.NewNop())
	require.NoError(t, err)

	exerciseStorage(t, s)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{conferencesFile, preferencesFile, ledgerFile}, names)
}

func TestJSONStore_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, preferencesFile), []byte("{not json"), 0o600))

	s, err := NewJSONStore(dir, zap.NewNop())
	require.NoError(t, err)

	_, err = s.LoadPreferences(context.Background())
	assert.Error(t, err)
}

func TestSQLiteStore(t *testing.T) {
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "conf.db"), zap.NewNop())
	require.NoError(t, err)
	defer s.Close()

	exerciseStorage(t, s)
}
