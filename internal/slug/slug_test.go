package slug

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMake(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Simple name", "Krishna Chaturvedi", "krishna-chaturvedi"},
		{"Punctuation stripped", "Jane Q. Public", "jane-q-public"},
		{"Surrounding whitespace", "  Jane Public  ", "jane-public"},
		{"Multiple spaces collapsed", "Jane   Public", "jane-public"},
		{"Already lowercase", "jane", "jane"},
		{"Empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Make(tt.input))
		})
	}
}

func TestFinal(t *testing.T) {
	s := Final("Jane Public")
	assert.True(t, strings.HasPrefix(s, "jane-public-"))

	suffix := strings.TrimPrefix(s, "jane-public-")
	assert.Len(t, suffix, 4)
}

func TestTemporary(t *testing.T) {
	s := Temporary()
	assert.True(t, strings.HasPrefix(s, "user-"))
	assert.Len(t, s, len("user-")+6)
}
