package services

import (
	"errors"
	"unicode"
	"unicode/utf8"
)

const minPasswordRunes = 8

var ErrWeakPassword = errors.New("password too weak")

// ValidatePasswordStrength enforces the account password policy: at least
// eight characters mixing upper case, lower case, and digits. Everything
// beyond those three classes (symbols, spaces, emoji) is allowed but does
// not count toward any of them.
func ValidatePasswordStrength(password string) error {
	if utf8.RuneCountInString(password) < minPasswordRunes {
		return ErrWeakPassword
	}

	var upper, lower, digit int
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper++
		case unicode.IsLower(r):
			lower++
		case unicode.IsDigit(r):
			digit++
		}
	}
	if upper == 0 || lower == 0 || digit == 0 {
		return ErrWeakPassword
	}
	return nil
}
