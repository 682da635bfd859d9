// Package token mints the opaque secrets used for magic links and session ids.
package token

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

const tokenBytes = 32

// Generate returns a hex-encoded 256-bit token from the OS entropy source.
// Failure to read entropy is returned as an error; there is no weaker
// fallback.
func Generate() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
