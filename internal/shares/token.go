package shares

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

const (
	tokenBytes  = 32
	tokenLength = tokenBytes * 2
)

// GenerateToken returns 32 bytes from the system CSPRNG as lowercase hex.
func GenerateToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate share token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// wellFormedToken reports whether token could have come from GenerateToken.
func wellFormedToken(token string) bool {
	if len(token) != tokenLength {
		return false
	}
	for i := 0; i < len(token); i++ {
		c := token[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
