package esign

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// tokenBytes is the entropy behind a signing token: 128 bits from the
// OS CSPRNG, hex-encoded to 32 characters. The token is the sole
// credential at the public signing boundary, so it is generated directly
// from crypto/rand rather than by hashing a clock-seeded value.
const tokenBytes = 16

// HashBytes returns the lowercase hex SHA-256 digest of the given bytes.
// Used for the original document, the completed artifact and every
// captured signature payload; stable across runs for the same input.
func HashBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// VerifyHash recomputes the digest of data and compares it to the stored
// hex digest. A mismatch means the payload was altered after capture.
func VerifyHash(data []byte, expected string) bool {
	return HashBytes(data) == expected
}

// NewSigningToken mints an opaque, unguessable signing token.
func NewSigningToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating signing token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
