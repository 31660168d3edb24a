package tokenauthority

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/kanato-tk51/study-manager/internal/apperrors"
	"github.com/kanato-tk51/study-manager/internal/logger"
	"github.com/kanato-tk51/study-manager/internal/models"
	"github.com/kanato-tk51/study-manager/internal/repository"
)

const (
	defaultAccessTokenTTL      = 15 * time.Minute
	defaultSigningMethod       = "HS256"
	defaultRefreshTokenTTLDays = 30
)

type AccessTokenClaims struct {
	jwt.RegisteredClaims
	UserID uuid.UUID `json:"uid"`
}

// Authority config with sensible defaults
type Config struct {
	// Secret key to sign access tokens
	// Required to be set
	SecretKey string

	// JWT MAC (Message Authentication Code) algorithm
	// If not set the default is used
	Alg string

	// Access token lifetime
	AccessTTL time.Duration

	// Refresh token lifetime in whole days
	RefreshTTLDays int

	// Source of refresh token plaintexts and hashes
	// RandomSource is used when nil
	Source TokenSource

	// Clock, defaults to time.Now. Tests override it to reach expiry
	// without sleeping.
	Now func() time.Time
}

// Authority owns the refresh token lifecycle: it issues tokens, rotates
// them on use and turns reuse of a dead token into mass revocation.
// All authoritative state lives in the repository; the authority keeps no
// mutable state of its own and is safe for concurrent use.
type Authority struct {
	key            string
	alg            jwt.SigningMethod
	accessTTL      time.Duration
	refreshTTLDays int

	source TokenSource
	now    func() time.Time
	log    logger.Logger

	refreshRepo repository.RefreshTokenRepo
}

func New(cfg Config, refreshRepo repository.RefreshTokenRepo, log logger.Logger) (*Authority, error) {
	if cfg.SecretKey == "" {
		return nil, errors.New("secret key must not be empty")
	}

	if cfg.Alg == "" {
		cfg.Alg = defaultSigningMethod
	}
	if cfg.AccessTTL == 0 {
		cfg.AccessTTL = defaultAccessTokenTTL
	}
	if cfg.RefreshTTLDays == 0 {
		cfg.RefreshTTLDays = defaultRefreshTokenTTLDays
	}
	if cfg.Source == nil {
		cfg.Source = RandomSource{}
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if log == nil {
		log = logger.NewNoOpLogger()
	}

	return &Authority{
		key:            cfg.SecretKey,
		alg:            jwt.GetSigningMethod(cfg.Alg),
		accessTTL:      cfg.AccessTTL,
		refreshTTLDays: cfg.RefreshTTLDays,
		source:         cfg.Source,
		now:            cfg.Now,
		log:            log,
		refreshRepo:    refreshRepo,
	}, nil
}

// Issue creates a refresh token for the user and persists its hash.
// The returned plaintext is the only copy that will ever exist.
func (a *Authority) Issue(ctx context.Context, userID uuid.UUID) (models.IssuedToken, error) {
	now := a.now().Truncate(time.Second)

	plaintext, err := a.source.New()
	if err != nil {
		return models.IssuedToken{}, fmt.Errorf("error while generating refresh token. Err: %w", err)
	}

	expiresAt := now.AddDate(0, 0, a.refreshTTLDays)
	_, err = a.refreshRepo.Save(ctx, models.RefreshToken{
		ID:        uuid.New(),
		UserID:    userID,
		TokenHash: a.source.Hash(plaintext),
		CreatedAt: now,
		ExpiresAt: expiresAt,
		RevokedAt: nil,
	})
	if err != nil {
		return models.IssuedToken{}, fmt.Errorf("error while saving refresh token. Err: %w", err)
	}

	return models.IssuedToken{Value: plaintext, ExpiresAt: expiresAt}, nil
}

// Rotate exchanges a refresh token for a fresh access and refresh pair.
//
// State machine per presented token:
//   - unknown hash: ErrRefreshTokenInvalid, no state change
//   - already revoked: the token was rotated out before and has come back,
//     so someone holds a stolen or replayed copy. Every token of the user
//     is revoked and ErrRefreshTokenReuseDetected returned.
//   - expired: the token is revoked in place, ErrRefreshTokenExpired
//   - active: the token is revoked by a conditional update and a successor
//     issued. Losing the conditional update to a concurrent rotation is
//     treated the same as presenting a revoked token.
//
// If storage fails between the revoke and the successor insert the old
// token stays revoked and no new one exists. The client has to log in
// again; a retry here could issue two successors.
func (a *Authority) Rotate(ctx context.Context, plaintext string) (models.TokenPair, error) {
	var pair models.TokenPair
	now := a.now().Truncate(time.Second)
	hash := a.source.Hash(plaintext)

	token, err := a.refreshRepo.GetByHash(ctx, hash)
	if err != nil {
		return pair, fmt.Errorf("error while looking up refresh token. Err: %w", err)
	}

	if token.Revoked() {
		return pair, a.onReuse(ctx, token.UserID, "revoked token presented")
	}

	if !token.ExpiresAt.After(now) {
		// Mark the expired token dead so the next presentation is a
		// reuse signal, not another expiry
		if _, err := a.refreshRepo.Revoke(ctx, hash, now); err != nil {
			return pair, fmt.Errorf("error while revoking expired token. Err: %w", err)
		}
		return pair, fmt.Errorf("refresh rejected. Err: %w", apperrors.ErrRefreshTokenExpired)
	}

	revoked, err := a.refreshRepo.Revoke(ctx, hash, now)
	if err != nil {
		return pair, fmt.Errorf("error while revoking refresh token. Err: %w", err)
	}
	if !revoked {
		// A concurrent rotation won the conditional update. For this
		// caller the token is as dead as a replayed one.
		return pair, a.onReuse(ctx, token.UserID, "lost revocation race")
	}

	refresh, err := a.Issue(ctx, token.UserID)
	if err != nil {
		return pair, fmt.Errorf("error while issuing successor token. Err: %w", err)
	}

	access, err := a.mintAccess(token.UserID, now)
	if err != nil {
		return pair, fmt.Errorf("error while minting access token. Err: %w", err)
	}

	return models.TokenPair{Access: access, Refresh: refresh}, nil
}

// Revoke marks the token dead. Idempotent: revoking an already revoked or
// unknown token is not an error, so logout never fails on a stale token.
func (a *Authority) Revoke(ctx context.Context, plaintext string) error {
	_, err := a.refreshRepo.Revoke(ctx, a.source.Hash(plaintext), a.now().Truncate(time.Second))
	if err != nil {
		return fmt.Errorf("error while revoking refresh token. Err: %w", err)
	}
	return nil
}

// RevokeAll terminates every active session of the user
func (a *Authority) RevokeAll(ctx context.Context, userID uuid.UUID) error {
	_, err := a.refreshRepo.RevokeAllForUser(ctx, userID, a.now().Truncate(time.Second))
	if err != nil {
		return fmt.Errorf("error while revoking user tokens. Err: %w", err)
	}
	return nil
}

// GeneratePair issues a refresh token and mints a matching access token.
// Used on login and register where no predecessor exists.
func (a *Authority) GeneratePair(ctx context.Context, userID uuid.UUID) (models.TokenPair, error) {
	now := a.now().Truncate(time.Second)

	refresh, err := a.Issue(ctx, userID)
	if err != nil {
		return models.TokenPair{}, err
	}

	access, err := a.mintAccess(userID, now)
	if err != nil {
		return models.TokenPair{}, fmt.Errorf("error while minting access token. Err: %w", err)
	}

	return models.TokenPair{Access: access, Refresh: refresh}, nil
}

// ParseAccess parses and validates an access token
func (a *Authority) ParseAccess(access string) (userID uuid.UUID, err error) {
	claims := &AccessTokenClaims{}

	_, err = jwt.ParseWithClaims(
		access,
		claims,
		func(t *jwt.Token) (any, error) { return []byte(a.key), nil },
		jwt.WithValidMethods([]string{a.alg.Alg()}),
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("error while parsing or validating token. Err: %w", err)
	}

	return claims.UserID, nil
}

func (a *Authority) mintAccess(userID uuid.UUID, now time.Time) (models.IssuedToken, error) {
	expiresAt := now.Add(a.accessTTL)

	token := jwt.NewWithClaims(
		a.alg,
		AccessTokenClaims{
			RegisteredClaims: jwt.RegisteredClaims{
				ID:        uuid.NewString(),
				Subject:   userID.String(),
				IssuedAt:  jwt.NewNumericDate(now),
				ExpiresAt: jwt.NewNumericDate(expiresAt),
			},
			UserID: userID,
		},
	)
	signed, err := token.SignedString([]byte(a.key))
	if err != nil {
		return models.IssuedToken{}, fmt.Errorf("error while signing access token. Err: %w", err)
	}

	return models.IssuedToken{Value: signed, ExpiresAt: expiresAt}, nil
}

// onReuse runs the mandatory breach response: every token of the user dies.
// The mass revocation is not optional and not skippable by callers.
func (a *Authority) onReuse(ctx context.Context, userID uuid.UUID, reason string) error {
	count, err := a.refreshRepo.RevokeAllForUser(ctx, userID, a.now().Truncate(time.Second))
	if err != nil {
		return fmt.Errorf("error while revoking user tokens after reuse. Err: %w", err)
	}

	a.log.Warn("refresh token reuse detected, all user sessions revoked",
		"security", true,
		"user_id", userID,
		"reason", reason,
		"revoked", count,
	)

	return fmt.Errorf("refresh rejected. Err: %w", apperrors.ErrRefreshTokenReuseDetected)
}
