package services

import (
	"errors"
	"net/mail"
	"strings"
)

var (
	ErrCredentialsMalformed  = errors.New("credentials malformed")
	ErrRecoveryCodeMalformed = errors.New("recovery code malformed")
)

// NormalizeCredentialsInput lower-cases and address-validates the email
// and trims the password. Both failures collapse into one generic error so
// responses never hint which part was wrong.
func NormalizeCredentialsInput(rawEmail string, rawPassword string) (string, string, error) {
	email := NormalizeAuthEmail(rawEmail)
	password := strings.TrimSpace(rawPassword)
	if email == "" || password == "" {
		return "", "", ErrCredentialsMalformed
	}
	return email, password, nil
}

func NormalizeAuthEmail(raw string) string {
	candidate := strings.ToLower(strings.TrimSpace(raw))
	if candidate == "" {
		return ""
	}
	address, err := mail.ParseAddress(candidate)
	if err != nil {
		return ""
	}
	return address.Address
}

// ValidateRecoveryCodeFormat checks the canonical SUKARI-XXXX-XXXX-XXXX
// shape without touching the datastore.
func ValidateRecoveryCodeFormat(code string) error {
	parts := strings.Split(strings.TrimSpace(code), "-")
	if len(parts) != 4 || parts[0] != recoveryCodePrefix {
		return ErrRecoveryCodeMalformed
	}
	for _, group := range parts[1:] {
		if len(group) != 4 {
			return ErrRecoveryCodeMalformed
		}
		for _, r := range group {
			if (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
				return ErrRecoveryCodeMalformed
			}
		}
	}
	return nil
}
