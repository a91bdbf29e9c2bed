package registry

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"library-desk/internal/domain"
)

const (
	minNameLen = 3
	maxNameLen = 100
	minTextLen = 2
	maxTextLen = 150
)

var namePattern = regexp.MustCompile(`^[\p{L} ]+$`)

// normalizeName composes accents first so "José" typed with a combining
// acute still matches the letter class.
func normalizeName(raw string) (string, error) {
	v := strings.TrimSpace(norm.NFC.String(raw))
	if v == "" {
		return "", fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	n := utf8.RuneCountInString(v)
	if n < minNameLen {
		return "", fmt.Errorf("%w: name must be at least %d characters", domain.ErrValidation, minNameLen)
	}
	if n > maxNameLen {
		return "", fmt.Errorf("%w: name must be at most %d characters", domain.ErrValidation, maxNameLen)
	}
	if !namePattern.MatchString(v) {
		return "", fmt.Errorf("%w: name may only contain letters and spaces", domain.ErrValidation)
	}
	return v, nil
}

func checkUserType(t domain.UserType) error {
	if strings.TrimSpace(string(t)) == "" {
		return fmt.Errorf("%w: user type is required", domain.ErrValidation)
	}
	if !t.Valid() {
		return fmt.Errorf("%w: unknown user type %q", domain.ErrValidation, t)
	}
	return nil
}

func normalizeText(raw, field string) (string, error) {
	v := strings.TrimSpace(norm.NFC.String(raw))
	if v == "" {
		return "", fmt.Errorf("%w: %s is required", domain.ErrValidation, field)
	}
	n := utf8.RuneCountInString(v)
	if n < minTextLen {
		return "", fmt.Errorf("%w: %s must be at least %d characters", domain.ErrValidation, field, minTextLen)
	}
	if n > maxTextLen {
		return "", fmt.Errorf("%w: %s must be at most %d characters", domain.ErrValidation, field, maxTextLen)
	}
	return v, nil
}
