// Package randx provides helpers for generating random strings.
package randx

import (
	"crypto/rand"
	"encoding/hex"
)

// HexString generates a random hexadecimal string from size random bytes.
// The resulting string is twice the size (each byte expands to two hex
// characters). It returns an error if the random number generator fails.
func HexString(size int) (string, error) {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
