// File: internal/platform/crypto/generator.go
package crypto

import (
	"crypto/rand"
	"encoding/hex"
)

// GenerateSecureRandomString returns a cryptographically secure random string
// safe for use in object keys and URLs. n is the number of random bytes; the
// hex-encoded result is 2n characters long.
func GenerateSecureRandomString(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
