package services

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/YahyaMS/sukari/internal/security"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	recoveryCodePrefix   = "SUKARI"
	recoveryCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	resetTokenIssuer     = "sukari/password-reset"
	defaultResetTokenTTL = 30 * time.Minute
)

var (
	ErrResetTokenInvalid = errors.New("reset token invalid")
	ErrResetTokenExpired = errors.New("reset token expired")
)

type passwordResetClaims struct {
	Fingerprint string `json:"pwd_fp"`
	jwt.RegisteredClaims
}

// BuildPasswordResetToken issues a short-lived token bound to the user's
// current password hash. Rotating the password changes the fingerprint and
// kills the token, which makes it effectively single-use.
func BuildPasswordResetToken(secretKey []byte, userID uint, passwordHash string, ttl time.Duration, now time.Time) (string, error) {
	if ttl <= 0 {
		ttl = defaultResetTokenTTL
	}
	if now.IsZero() {
		now = time.Now()
	}

	fingerprint := passwordFingerprint(passwordHash)
	if fingerprint == "" {
		return "", ErrResetTokenInvalid
	}

	claims := passwordResetClaims{
		Fingerprint: fingerprint,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    resetTokenIssuer,
			Subject:   strconv.FormatUint(uint64(userID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secretKey)
}

// ParsePasswordResetToken verifies signature, issuer, and expiry, and
// returns the user id and password fingerprint the token carries.
func ParsePasswordResetToken(secretKey []byte, rawToken string, now time.Time) (uint, string, error) {
	if strings.TrimSpace(rawToken) == "" {
		return 0, "", ErrResetTokenInvalid
	}
	if now.IsZero() {
		now = time.Now()
	}

	claims := &passwordResetClaims{}
	_, err := jwt.ParseWithClaims(rawToken, claims,
		func(*jwt.Token) (interface{}, error) { return secretKey, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(resetTokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, "", ErrResetTokenExpired
		}
		return 0, "", ErrResetTokenInvalid
	}

	userID, err := strconv.ParseUint(claims.Subject, 10, 32)
	if err != nil || userID == 0 || claims.Fingerprint == "" {
		return 0, "", ErrResetTokenInvalid
	}
	return uint(userID), claims.Fingerprint, nil
}

// passwordFingerprint condenses the stored hash into an opaque value safe
// to embed in a token. Tokens never carry the bcrypt hash itself.
func passwordFingerprint(passwordHash string) string {
	trimmed := strings.TrimSpace(passwordHash)
	if trimmed == "" {
		return ""
	}
	sum := sha256.Sum256([]byte("sukari.pwd-state.v1|" + trimmed))
	return hex.EncodeToString(sum[:])
}

func passwordFingerprintMatches(fingerprint string, passwordHash string) bool {
	current := passwordFingerprint(passwordHash)
	if fingerprint == "" || current == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(fingerprint), []byte(current)) == 1
}

// GenerateRecoveryCodeHash mints a recovery code together with the bcrypt
// hash stored in its place. The plain code goes to the user exactly once.
func GenerateRecoveryCodeHash() (string, string, error) {
	code, err := GenerateRecoveryCode()
	if err != nil {
		return "", "", err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return "", "", err
	}
	return code, string(hash), nil
}

// GenerateRecoveryCode builds a SUKARI-XXXX-XXXX-XXXX code. The alphabet
// leaves out 0/O and 1/I so codes survive being read aloud or written down.
func GenerateRecoveryCode() (string, error) {
	groups := make([]string, 0, 4)
	groups = append(groups, recoveryCodePrefix)
	for i := 0; i < 3; i++ {
		group, err := security.RandomString(4, recoveryCodeAlphabet)
		if err != nil {
			return "", err
		}
		groups = append(groups, group)
	}
	return strings.Join(groups, "-"), nil
}

// NormalizeRecoveryCode maps free-form input (lower case, stray spaces or
// dashes, missing prefix) onto the canonical form. Input that does not
// reduce to twelve code characters comes back upper-cased as typed so the
// format check rejects it with the original shape intact.
func NormalizeRecoveryCode(raw string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r - ('a' - 'A')
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return -1
		}
	}, raw)
	cleaned = strings.TrimPrefix(cleaned, recoveryCodePrefix)
	if len(cleaned) != 12 {
		return strings.ToUpper(strings.TrimSpace(raw))
	}
	return strings.Join([]string{recoveryCodePrefix, cleaned[:4], cleaned[4:8], cleaned[8:]}, "-")
}
