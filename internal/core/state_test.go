package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestState_LoadEmptyStorage(t *testing.T) {
	state, _ := newTestState()

	require.NoError(t, state.Load(context.Background()))
	assert.Zero(t, state.Conferences.Len())
	assert.Zero(t, state.Preferences.Len())
	assert.Zero(t, state.Ledger.Len())
}

func TestState_FlushAndReload(t *testing.T) {
	ctx := context.Background()
	state, storage := newTestState()
	seedCatalog(state)
	subscribe(state, "alice@example.com", "ICML")
	state.Ledger.Mark(LedgerKey{Email: "alice@example.com", Acronym: "ICML", Type: "camera_ready", Date: "2024-03-09"}, fixedNow)

	require.NoError(t, state.Flush(ctx))

	reloaded := NewState(storage, state.logger)
	require.NoError(t, reloaded.Load(ctx))
	assert.Equal(t, 2, reloaded.Conferences.Len())
	assert.Equal(t, []string{"alice@example.com"}, reloaded.Preferences.Emails())
	assert.Equal(t, 1, reloaded.Ledger.Len())
}

func TestConferenceCatalog_FirstAcronymWins(t *testing.T) {
	c := NewConferenceCatalog()
	c.Replace([]ConferenceRecord{
		{Acronym: "ICML", FullName: "first"},
		{Acronym: "ICML", FullName: "second"},
	})

	rec, ok := c.Get("ICML")
	require.True(t, ok)
	assert.Equal(t, "first", rec.FullName)
}

func TestPreferenceRegistry_ReturnsCopies(t *testing.T) {
	r := NewPreferenceRegistry()
	_, err := r.Update("alice@example.com", true, func(p *UserPreference) (bool, error) {
		p.Subscribed = append(p.Subscribed, "ICML")
		return true, nil
	})
	require.NoError(t, err)

	p, ok := r.Get("alice@example.com")
	require.True(t, ok)
	p.Subscribed[0] = "MUTATED"

	again, _ := r.Get("alice@example.com")
	assert.Equal(t, []string{"ICML"}, again.Subscribed)

	_, err = r.Update("ghost@example.com", false, func(p *UserPreference) (bool, error) { return true, nil })
	assert.ErrorIs(t, err, ErrUserNotFound)
}
