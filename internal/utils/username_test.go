package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveUsername(t *testing.T) {
	tests := []struct {
		email string
		want  string
	}{
		{"jane@example.com", "jane"},
		{"Jane.Doe@Example.com", "jane.doe"},
		{"john+todo@example.com", "johntodo"},
		{"a_b-c@example.com", "a_b-c"},
		{"+++@example.com", "user"},
		{"no-at-sign", "no-at-sign"},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveUsername(tt.email))
		})
	}
}

func TestDeriveUsername_LeavesRoomForSuffix(t *testing.T) {
	name := DeriveUsername(strings.Repeat("a", 100) + "@example.com")
	assert.Len(t, name, 60)
}

func TestUsernameCandidate(t *testing.T) {
	assert.Equal(t, "jane", UsernameCandidate("jane", 0))
	assert.Equal(t, "jane", UsernameCandidate("jane", 1))
	assert.Equal(t, "jane2", UsernameCandidate("jane", 2))
	assert.Equal(t, "jane10", UsernameCandidate("jane", 10))
}
