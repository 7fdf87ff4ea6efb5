package utils

import (
	"strconv"
	"strings"

	"github.com/yukikurage/todo-api/internal/constants"
)

const fallbackUsername = "user"

// DeriveUsername builds a username from the local part of an email address.
// Everything outside [a-z0-9._-] is dropped.
func DeriveUsername(email string) string {
	local, _, _ := strings.Cut(strings.ToLower(email), "@")

	var b strings.Builder
	for _, r := range local {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '.', r == '_', r == '-':
			b.WriteRune(r)
		}
	}

	name := b.String()
	if name == "" {
		return fallbackUsername
	}
	if len(name) > constants.MaxUsernameLength-4 {
		name = name[:constants.MaxUsernameLength-4]
	}
	return name
}

// UsernameCandidate returns the username to try on the given attempt:
// base, base2, base3, ...
func UsernameCandidate(base string, attempt int) string {
	if attempt <= 1 {
		return base
	}
	return base + strconv.Itoa(attempt)
}
