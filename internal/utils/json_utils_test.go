package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeJSONObject(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		want    map[string]string
		wantErr bool
	}{
		{"plain", `{"a": "1"}`, map[string]string{"a": "1"}, false},
		{"fenced", "```json\n{\"a\": \"1\"}\n```", map[string]string{"a": "1"}, false},
		{"prose around", `Here you go: {"a": "1"} hope that helps`, map[string]string{"a": "1"}, false},
		{"no object", "nothing to see", nil, true},
		{"broken object", `{"a": }`, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got map[string]string
			err := DecodeJSONObject(tt.text, &got)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
