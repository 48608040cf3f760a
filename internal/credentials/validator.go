package credentials

import (
	"regexp"
	"unicode"
)

// MinPasswordLength is the shortest password accepted for ADMIN accounts.
const MinPasswordLength = 10

// MaxPasswordBytes is the longest password bcrypt can hash.
const MaxPasswordBytes = 72

var loginRegexp = regexp.MustCompile(`^[a-zA-Z0-9_-]{3,20}$`)

// IsLoginValid reports whether login has the allowed format.
func IsLoginValid(login string) bool {
	return loginRegexp.MatchString(login)
}

// IsPasswordValid reports whether password satisfies the strength policy:
// at least MinPasswordLength characters and at most MaxPasswordBytes bytes,
// with a lowercase letter, an uppercase letter and a digit.
func IsPasswordValid(password string) bool {
	if len([]rune(password)) < MinPasswordLength || len(password) > MaxPasswordBytes {
		return false
	}

	var lower, upper, digit bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		}
	}

	return lower && upper && digit
}
