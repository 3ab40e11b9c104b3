package utils

import (
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"math/big"
	"regexp"
)

var phonePattern = regexp.MustCompile(`^09\d{9}$`)

// ValidPhone reports whether the phone matches the accepted mobile format.
func ValidPhone(phone string) bool {
	return phonePattern.MatchString(phone)
}

// GenerateOtpCode returns a uniform random 6-digit code with leading
// zeros preserved.
func GenerateOtpCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// SecureCompare compares a supplied code against the stored one without
// leaking timing. Length is checked first, then every byte is examined
// regardless of where the first mismatch sits.
func SecureCompare(supplied, stored string) bool {
	if len(supplied) != len(stored) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(supplied), []byte(stored)) == 1
}
