package security

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// NormalizeEmail lowercases and trims an email address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Identity derives the opaque public identifier for an email address:
// the hex SHA-256 digest of the normalized address.
func Identity(email string) string {
	sum := sha256.Sum256([]byte(NormalizeEmail(email)))
	return hex.EncodeToString(sum[:])
}
