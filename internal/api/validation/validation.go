package validation

import (
	"regexp"
	"strings"
	"unicode"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// IsValidEmail checks basic email shape. Deliverability is not verified.
func IsValidEmail(email string) bool {
	if len(email) == 0 || len(email) > 254 {
		return false
	}
	return emailRegex.MatchString(email)
}

// PasswordStrength returns an empty string for an acceptable password, or a
// human-readable reason otherwise. Minimum eight characters with at least
// one letter and one digit.
func PasswordStrength(password string) string {
	if len(password) < 8 {
		return "must be at least 8 characters"
	}
	if len(password) > 72 {
		// bcrypt truncates beyond 72 bytes
		return "must be at most 72 characters"
	}

	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return "must contain at least one letter and one digit"
	}
	return ""
}

// SanitizeString trims whitespace and strips control characters.
func SanitizeString(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			return -1
		}
		return r
	}, s)
}
