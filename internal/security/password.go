package security

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// DefaultIterations is the PBKDF2 work factor used when none is configured
	DefaultIterations = 200000

	saltLength = 16
	keyLength  = 32
	hashPrefix = "pbkdf2_sha256"
)

// Hasher derives and verifies PBKDF2-HMAC-SHA256 password hashes encoded as
// pbkdf2_sha256$<iterations>$<salt>$<key>.
type Hasher struct {
	iterations int
}

// NewHasher creates a hasher with the given iteration count
func NewHasher(iterations int) *Hasher {
	if iterations <= 0 {
		iterations = DefaultIterations
	}
	return &Hasher{iterations: iterations}
}

// Iterations returns the work factor new hashes are created with
func (h *Hasher) Iterations() int {
	return h.iterations
}

// HashPassword derives a salted hash of password
func (h *Hasher) HashPassword(password string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	key := pbkdf2.Key([]byte(password), salt, h.iterations, keyLength, sha256.New)

	return fmt.Sprintf("%s$%d$%s$%s",
		hashPrefix,
		h.iterations,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// CheckPassword reports whether password matches encodedHash. Malformed
// hashes never match. The iteration count is read from the hash, so hashes
// made under an older work factor keep verifying.
func (h *Hasher) CheckPassword(password, encodedHash string) bool {
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 4 || parts[0] != hashPrefix {
		return false
	}

	iterations, err := strconv.Atoi(parts[1])
	if err != nil || iterations <= 0 {
		return false
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[2])
	if err != nil || len(salt) == 0 {
		return false
	}

	want, err := base64.RawStdEncoding.DecodeString(parts[3])
	if err != nil || len(want) == 0 {
		return false
	}

	got := pbkdf2.Key([]byte(password), salt, iterations, len(want), sha256.New)
	return subtle.ConstantTimeCompare(got, want) == 1
}
