package timezone

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func offsetOf(t *testing.T, z Zone) int {
	t.Helper()
	require.True(t, z.Resolved())
	_, offset := time.Date(2024, 1, 15, 12, 0, 0, 0, z.Location).Zone()
	return offset
}

func TestResolver_ExplicitOffsets(t *testing.T) {
	r := NewResolver()

	tests := []struct {
		label      string
		wantLabel  string
		wantOffset int
	}{
		{"UTC+2", "UTC+2", 2 * 3600},
		{"UTC-7", "UTC-7", -7 * 3600},
		{"utc+8", "UTC+8", 8 * 3600},
		{"UTC+5:30", "UTC+5:30", 5*3600 + 30*60},
		{"GMT-3", "GMT-3", -3 * 3600},
		{"(UTC-12)", "UTC-12", -12 * 3600},
		{"UTC + 9", "UTC+9", 9 * 3600},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			z := r.Resolve(tt.label)
			assert.Equal(t, tt.wantLabel, z.Label)
			assert.False(t, z.AoE)
			assert.Equal(t, tt.wantOffset, offsetOf(t, z))
		})
	}
}

func TestResolver_Abbreviations(t *testing.T) {
	r := NewResolver()

	tests := []struct {
		label string
		hours int
	}{
		{"PST", -8},
		{"pdt", -7},
		{"EST", -5},
		{"EDT", -4},
		{"CST", -6},
		{"CDT", -5},
		{"MST", -7},
		{"MDT", -6},
		{"JST", 9},
		{"GMT", 0},
		{"UTC", 0},
		{"CET", 1},
		{"CEST", 2},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			z := r.Resolve(tt.label)
			assert.Equal(t, tt.hours*3600, offsetOf(t, z))
		})
	}
}

func TestResolver_AoE(t *testing.T) {
	r := NewResolver()

	for _, label := range []string{"AoE", "AOE", "aoe", " (AoE) "} {
		z := r.Resolve(label)
		assert.True(t, z.AoE, label)
		assert.Equal(t, "AOE", z.Label)
		assert.Equal(t, -12*3600, offsetOf(t, z))
	}
}

func TestResolver_NamedZone(t *testing.T) {
	z := NewResolver().Resolve("Asia/Shanghai")
	assert.Equal(t, "Asia/Shanghai", z.Label)
	assert.Equal(t, 8*3600, offsetOf(t, z))
}

func TestResolver_Unresolved(t *testing.T) {
	r := NewResolver()

	for _, label := range []string{"", "   ", "XYZ", "UTC+99", "UTC+5:75", "Mars/Olympus"} {
		z := r.Resolve(label)
		assert.False(t, z.Resolved(), label)
		assert.Equal(t, Unresolved, z)
	}
}
