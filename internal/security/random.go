package security

import (
	"crypto/rand"
	"encoding/hex"
)

// GenerateRandomString returns a hex string built from n random bytes.
func GenerateRandomString(n int) (string, error) {
	if n <= 0 {
		n = 32
	}
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
