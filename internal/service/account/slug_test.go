package account

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "Ace Cafe", "ace-cafe"},
		{"already clean", "acecafe", "acecafe"},
		{"punctuation folded", "Bob's Diner & Grill", "bob-s-diner-grill"},
		{"leading and trailing junk", "  --Ace Cafe--  ", "ace-cafe"},
		{"digits kept", "Cafe 42", "cafe-42"},
		{"consecutive separators", "a   b___c", "a-b-c"},
		{"uppercase folded", "ACE CAFE", "ace-cafe"},
		{"nothing usable", "!!!", "account"},
		{"empty", "", "account"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, slugify(tt.in))
		})
	}
}

func TestSlugCandidate(t *testing.T) {
	assert.Equal(t, "ace-cafe", slugCandidate("ace-cafe", 0))
	assert.Equal(t, "ace-cafe-1", slugCandidate("ace-cafe", 1))
	assert.Equal(t, "ace-cafe-2", slugCandidate("ace-cafe", 2))
}
