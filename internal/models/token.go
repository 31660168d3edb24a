package models

import (
	"time"

	"github.com/google/uuid"
)

// RefreshToken is the persisted form of a refresh token. Only the sha256
// hash of the plaintext ever reaches the database; the plaintext is handed
// to the client once at issuance and never seen again.
type RefreshToken struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	TokenHash string
	CreatedAt time.Time
	ExpiresAt time.Time
	RevokedAt *time.Time // nil while the token is active
}

// Revoked reports whether the token reached its terminal state.
func (t RefreshToken) Revoked() bool {
	return t.RevokedAt != nil
}

type IssuedToken struct {
	Value     string
	ExpiresAt time.Time
}

// TokenPair is what a successful login, register or refresh hands back.
type TokenPair struct {
	Access  IssuedToken
	Refresh IssuedToken
}
