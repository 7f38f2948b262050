package core

import (
	"context"
	"testing"

	"github.com/mikey/conf-reminder/internal/deadline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestPreferenceService(policy RecipientPolicy) (*PreferenceService, *State, *fakeStorage) {
	state, storage := newTestState()
	seedCatalog(state)
	return NewPreferenceService(state, policy, zap.NewNop()), state, storage
}

func TestPreferenceService_AddUser(t *testing.T) {
	ctx := context.Background()
	svc, _, storage := newTestPreferenceService(nil)

	created, err := svc.AddUser(ctx, "Alice <Alice@Example.com>")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, 1, storage.saveCount("preferences"))

	created, err = svc.AddUser(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, 1, storage.saveCount("preferences"))

	p, err := svc.Get("alice@example.com")
	require.NoError(t, err)
	assert.Empty(t, p.Subscribed)
	assert.False(t, p.CustomReminderDays)
	assert.Equal(t, DefaultReminderDays, p.ReminderDays)
}

func TestPreferenceService_RejectsBadAddresses(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestPreferenceService(allowDomains{"example.com"})

	_, err := svc.AddUser(ctx, "not-an-address")
	assert.ErrorIs(t, err, ErrInvalidEmail)

	_, err = svc.AddUser(ctx, "mallory@elsewhere.org")
	assert.ErrorIs(t, err, ErrDomainNotAllowed)

	created, err := svc.AddUser(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.True(t, created)
}

func TestPreferenceService_Subscribe(t *testing.T) {
	ctx := context.Background()
	svc, _, storage := newTestPreferenceService(nil)

	require.NoError(t, svc.Subscribe(ctx, "bob@example.com", "ICML"))
	require.NoError(t, svc.Subscribe(ctx, "bob@example.com", "ICML"))
	require.NoError(t, svc.Subscribe(ctx, "bob@example.com", "CVPR"))
	assert.Equal(t, 2, storage.saveCount("preferences"))

	err := svc.Subscribe(ctx, "bob@example.com", "NOPE")
	assert.ErrorIs(t, err, ErrConferenceNotFound)

	p, err := svc.Get("bob@example.com")
	require.NoError(t, err)
	assert.Equal(t, []string{"ICML", "CVPR"}, p.Subscribed)
}

func TestPreferenceService_Unsubscribe(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestPreferenceService(nil)

	err := svc.Unsubscribe(ctx, "ghost@example.com", "ICML")
	assert.ErrorIs(t, err, ErrUserNotFound)

	require.NoError(t, svc.Subscribe(ctx, "bob@example.com", "ICML"))
	require.NoError(t, svc.Subscribe(ctx, "bob@example.com", "CVPR"))
	require.NoError(t, svc.Unsubscribe(ctx, "bob@example.com", "ICML"))
	require.NoError(t, svc.Unsubscribe(ctx, "bob@example.com", "NEURIPS"))

	p, err := svc.Get("bob@example.com")
	require.NoError(t, err)
	assert.Equal(t, []string{"CVPR"}, p.Subscribed)
}

func TestPreferenceService_SetReminderDays(t *testing.T) {
	ctx := context.Background()
	svc, _, storage := newTestPreferenceService(nil)

	require.NoError(t, svc.SetReminderDays(ctx, "carol@example.com", deadline.NotificationDate, 10))

	p, err := svc.Get("carol@example.com")
	require.NoError(t, err)
	assert.True(t, p.CustomReminderDays)
	assert.Equal(t, 10, p.EffectiveDays(deadline.NotificationDate))
	assert.Equal(t, 7, p.EffectiveDays(deadline.SubmissionDeadline))
	assert.Equal(t, 1, storage.saveCount("preferences"))

	tests := []struct {
		name string
		kind deadline.Type
		days int
		want error
	}{
		{"negative", deadline.SubmissionDeadline, -1, ErrInvalidReminderDays},
		{"too large", deadline.SubmissionDeadline, 366, ErrInvalidReminderDays},
		{"unknown type", deadline.Type("rebuttal"), 3, ErrUnknownDeadlineType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.SetReminderDays(ctx, "carol@example.com", tt.kind, tt.days)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestPreferenceService_List(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestPreferenceService(nil)

	for _, email := range []string{"zed@example.com", "amy@example.com"} {
		_, err := svc.AddUser(ctx, email)
		require.NoError(t, err)
	}

	users := svc.List()
	require.Len(t, users, 2)
	assert.Equal(t, "amy@example.com", users[0].Email)
	assert.Equal(t, "zed@example.com", users[1].Email)

	_, err := svc.Get("nobody@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
