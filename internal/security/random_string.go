package security

import (
	"crypto/rand"
	"errors"
)

var (
	errBadLength   = errors.New("length must be non-negative")
	errBadAlphabet = errors.New("alphabet must have between 1 and 256 characters")
)

// RandomString draws length characters uniformly from alphabet using
// crypto/rand. Random bytes at or above the largest multiple of the
// alphabet size are rejected, so no character is favored.
func RandomString(length int, alphabet string) (string, error) {
	if length < 0 {
		return "", errBadLength
	}
	if len(alphabet) == 0 || len(alphabet) > 256 {
		return "", errBadAlphabet
	}
	if length == 0 {
		return "", nil
	}

	ceiling := 256 - 256%len(alphabet)
	out := make([]byte, 0, length)
	buf := make([]byte, length)
	for len(out) < length {
		if _, err := rand.Read(buf); err != nil {
			return "", err
		}
		for _, b := range buf {
			if int(b) >= ceiling {
				continue
			}
			out = append(out, alphabet[int(b)%len(alphabet)])
			if len(out) == length {
				break
			}
		}
	}
	return string(out), nil
}
