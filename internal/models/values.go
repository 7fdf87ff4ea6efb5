package models

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/yukikurage/todo-api/internal/constants"
)

var (
	ErrTitleRequired     = errors.New("title is required")
	ErrTitleTooLong      = fmt.Errorf("title must be at most %d characters", constants.MaxTitleLength)
	ErrTitleInvalidChars = errors.New("title must not contain control characters")
	ErrInvalidPriority   = errors.New("priority must be one of low, medium, high")
	ErrInvalidEmail      = errors.New("email must be a valid email address")
	ErrNameRequired      = errors.New("name is required")
	ErrNameTooLong       = fmt.Errorf("name must be at most %d characters", constants.MaxNameLength)
	ErrNameInvalidChars  = errors.New("name may only contain letters, spaces, apostrophes and hyphens")
)

var emailValidator = validator.New()

// Title is a trimmed, non-empty todo title.
type Title string

func NewTitle(raw string) (Title, error) {
	title := strings.TrimSpace(raw)
	if title == "" {
		return "", ErrTitleRequired
	}
	if utf8.RuneCountInString(title) > constants.MaxTitleLength {
		return "", ErrTitleTooLong
	}
	for _, r := range title {
		if unicode.IsControl(r) {
			return "", ErrTitleInvalidChars
		}
	}
	return Title(title), nil
}

func (t Title) String() string {
	return string(t)
}

// ParsePriority accepts a priority name case-insensitively. An empty string
// yields the default medium priority.
func ParsePriority(raw string) (Priority, error) {
	p := Priority(strings.ToLower(strings.TrimSpace(raw)))
	if p == "" {
		return PriorityMedium, nil
	}
	if !p.IsValid() {
		return "", ErrInvalidPriority
	}
	return p, nil
}

func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Email is a lowercased, syntactically valid address.
type Email string

func NewEmail(raw string) (Email, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" || emailValidator.Var(email, "email") != nil {
		return "", ErrInvalidEmail
	}
	return Email(email), nil
}

func (e Email) String() string {
	return string(e)
}

// LocalPart returns the part before the @.
func (e Email) LocalPart() string {
	local, _, _ := strings.Cut(string(e), "@")
	return local
}

// Name is a person's first or last name.
type Name string

func NewName(raw string) (Name, error) {
	name := strings.Join(strings.Fields(raw), " ")
	if name == "" {
		return "", ErrNameRequired
	}
	if utf8.RuneCountInString(name) > constants.MaxNameLength {
		return "", ErrNameTooLong
	}
	for _, r := range name {
		if unicode.IsLetter(r) || r == ' ' || r == '\'' || r == '-' {
			continue
		}
		return "", ErrNameInvalidChars
	}
	return Name(name), nil
}

func (n Name) String() string {
	return string(n)
}
