package models

import (
	"errors"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	// ErrEmptyMember is returned when a member name is blank after trimming.
	ErrEmptyMember = errors.New("member name is empty")

	// ErrDuplicateMember is returned when adding a name that is already in the group.
	ErrDuplicateMember = errors.New("member already in group")

	// ErrUnknownMember is returned when a name is not part of the current group.
	ErrUnknownMember = errors.New("member not in group")
)

// NormalizeMember trims surrounding whitespace, collapses inner runs of spaces
// and title-cases the name ("  aLICE  smith " -> "Alice Smith"). Casing
// follows Unicode word boundaries, so an apostrophe does not start a new word
// ("o'neil" -> "O'neil").
func NormalizeMember(name string) (string, error) {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return "", ErrEmptyMember
	}
	return cases.Title(language.Und).String(strings.Join(fields, " ")), nil
}
