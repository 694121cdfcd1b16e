package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/yigit/ratemyteacher/internal/pkg/apperrors"
)

// Field limits shared by request DTOs and services
const (
	UsernameMinLength = 3
	UsernameMaxLength = 32

	// bcrypt ignores everything past 72 bytes
	PasswordMinLength = 6
	PasswordMaxLength = 72

	NameMaxLength           = 200
	QualificationsMaxLength = 1000
	ReviewMaxLength         = 2000
	DiscussionMaxLength     = 1000
)

// UsernamePattern restricts usernames to a URL and log friendly alphabet
var UsernamePattern = regexp.MustCompile(`^[A-Za-z0-9_.\-]+$`)

// StringRule validates a single string field
type StringRule struct {
	field    string
	value    string
	minLen   int
	maxLen   int
	pattern  *regexp.Regexp
	optional bool
}

// String starts a rule for the named field. Surrounding whitespace is ignored.
func String(field, value string) *StringRule {
	return &StringRule{field: field, value: strings.TrimSpace(value), minLen: 1}
}

// Optional allows the empty string
func (r *StringRule) Optional() *StringRule {
	r.optional = true
	return r
}

// Min sets the minimum length in characters
func (r *StringRule) Min(n int) *StringRule {
	r.minLen = n
	return r
}

// Max sets the maximum length in characters
func (r *StringRule) Max(n int) *StringRule {
	r.maxLen = n
	return r
}

// Pattern requires the value to match re
func (r *StringRule) Pattern(re *regexp.Regexp) *StringRule {
	r.pattern = re
	return r
}

// Check returns the trimmed value or a validation error
func (r *StringRule) Check() (string, error) {
	if r.value == "" {
		if r.optional {
			return "", nil
		}
		return "", apperrors.NewValidationError(r.field + " is required")
	}

	n := utf8.RuneCountInString(r.value)
	if r.minLen > 0 && n < r.minLen {
		return "", apperrors.NewValidationError(fmt.Sprintf("%s must be at least %d characters", r.field, r.minLen))
	}
	if r.maxLen > 0 && n > r.maxLen {
		return "", apperrors.NewValidationError(fmt.Sprintf("%s must be at most %d characters", r.field, r.maxLen))
	}
	if r.pattern != nil && !r.pattern.MatchString(r.value) {
		return "", apperrors.NewValidationError(r.field + " contains invalid characters")
	}

	return r.value, nil
}

// Username validates a username
func Username(value string) (string, error) {
	return String("username", value).
		Min(UsernameMinLength).
		Max(UsernameMaxLength).
		Pattern(UsernamePattern).
		Check()
}

// Password validates a plain-text password. The value is not trimmed.
func Password(value string) error {
	if len(value) < PasswordMinLength {
		return apperrors.NewValidationError(fmt.Sprintf("password must be at least %d characters", PasswordMinLength))
	}
	if len(value) > PasswordMaxLength {
		return apperrors.NewValidationError(fmt.Sprintf("password must be at most %d bytes", PasswordMaxLength))
	}
	return nil
}

// Rating validates a star value
func Rating(value int) error {
	if value < 1 || value > 5 {
		return apperrors.NewValidationError("rating must be between 1 and 5")
	}
	return nil
}
