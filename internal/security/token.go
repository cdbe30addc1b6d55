package security

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"strings"
)

// tokenBytes gives 256 bits of entropy per session token
const tokenBytes = 32

// GenerateSessionToken creates an unguessable hex-encoded bearer token
func GenerateSessionToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// TokenFromRequest extracts a bearer token from the Authorization header
func TokenFromRequest(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
