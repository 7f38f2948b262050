package whitelist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestChecker_EmptyAllowsAll(t *testing.T) {
	c := NewChecker(nil, zap.NewNop())
	assert.True(t, c.IsAllowed("anyone@anywhere.org"))

	c = NewChecker([]string{" ", ""}, zap.NewNop())
	assert.True(t, c.IsAllowed("anyone@anywhere.org"))
}

func TestChecker_IsAllowed(t *testing.T) {
	c := NewChecker([]string{"Example.com", "@uni.edu", "*.lab.org"}, zap.NewNop())

	tests := []struct {
		email string
		want  bool
	}{
		{"alice@example.com", true},
		{"alice@EXAMPLE.COM", true},
		{"bob@uni.edu", true},
		{"carol@cs.lab.org", true},
		{"carol@lab.org", true},
		{"dave@mail.example.com", false},
		{"eve@otherlab.org", false},
		{"no-at-sign", false},
		{"trailing@", false},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			assert.Equal(t, tt.want, c.IsAllowed(tt.email))
		})
	}
}
