package tokenauthority

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
)

// TokenSource produces refresh token plaintexts and their storable digests.
// It exists as an interface so tests can substitute a deterministic source;
// production always uses RandomSource.
type TokenSource interface {
	// New returns a fresh plaintext token
	New() (string, error)

	// Hash returns the deterministic one-way digest of a plaintext
	Hash(plaintext string) string
}

// RandomSource generates 32 byte tokens from the crypto random source,
// encoded url safe, and hashes with sha256.
type RandomSource struct{}

func (RandomSource) New() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("error while reading random source. Err: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func (RandomSource) Hash(plaintext string) string {
	sum := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(sum[:])
}
