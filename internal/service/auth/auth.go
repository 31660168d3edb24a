package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/kanato-tk51/study-manager/internal/apperrors"
	"github.com/kanato-tk51/study-manager/internal/models"
	"github.com/kanato-tk51/study-manager/internal/repository"
	"github.com/kanato-tk51/study-manager/internal/service/auth/tokenauthority"
)

const bearerScheme = "Bearer "

type Config struct {
	// Hasher used during registration and login
	// BcryptHasher is used when nil
	Hasher PasswordHasher
}

// Service handles registration, login and everything token shaped.
// The refresh token lifecycle itself lives in the authority; this service
// adds users and passwords on top.
type Service struct {
	authority *tokenauthority.Authority
	hasher    PasswordHasher
	userRepo  repository.UserRepo
}

func NewService(cfg Config, authority *tokenauthority.Authority, userRepo repository.UserRepo) (*Service, error) {
	if authority == nil || userRepo == nil {
		return nil, errors.New("authority and user repo must not be nil")
	}

	hasher := cfg.Hasher
	if hasher == nil {
		hasher = DefaultHasher
	}

	return &Service{
		authority: authority,
		hasher:    hasher,
		userRepo:  userRepo,
	}, nil
}

func (s *Service) Register(ctx context.Context, email string, password string, displayName *string) (models.User, models.TokenPair, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return models.User{}, models.TokenPair{}, fmt.Errorf("can't use this as password. Err: %w", err)
	}

	user, err := s.userRepo.CreateUser(ctx, email, hash, displayName)
	if err != nil {
		return models.User{}, models.TokenPair{}, err
	}

	pair, err := s.authority.GeneratePair(ctx, user.ID)
	if err != nil {
		return models.User{}, models.TokenPair{}, fmt.Errorf("token could not be generated. Err: %w", err)
	}

	return user, pair, nil
}

func (s *Service) Login(ctx context.Context, email string, password string) (models.User, models.TokenPair, error) {
	user, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		// Unknown user and wrong password must be indistinguishable
		return models.User{}, models.TokenPair{}, apperrors.ErrUserNotFound
	}

	if err := s.hasher.Compare(user.HashedPassword, password); err != nil {
		return models.User{}, models.TokenPair{}, apperrors.ErrUserNotFound
	}

	pair, err := s.authority.GeneratePair(ctx, user.ID)
	if err != nil {
		return models.User{}, models.TokenPair{}, fmt.Errorf("token could not be generated. Err: %w", err)
	}

	return user, pair, nil
}

// Refresh rotates the presented refresh token for a new pair
func (s *Service) Refresh(ctx context.Context, refresh string) (models.TokenPair, error) {
	return s.authority.Rotate(ctx, refresh)
}

// Logout revokes the presented refresh token. Stale or unknown tokens
// log out fine.
func (s *Service) Logout(ctx context.Context, refresh string) error {
	return s.authority.Revoke(ctx, refresh)
}

// LogoutAll terminates every session of the user
func (s *Service) LogoutAll(ctx context.Context, userID uuid.UUID) error {
	return s.authority.RevokeAll(ctx, userID)
}

func (s *Service) GetUser(ctx context.Context, userID uuid.UUID) (models.User, error) {
	return s.userRepo.GetUserByID(ctx, userID)
}

// Auth resolves the request's bearer access token to a user
func (s *Service) Auth(ctx context.Context, r *http.Request) (models.User, error) {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, bearerScheme) {
		return models.User{}, apperrors.ErrUserNotFound
	}

	userID, err := s.authority.ParseAccess(strings.TrimPrefix(header, bearerScheme))
	if err != nil {
		return models.User{}, fmt.Errorf("invalid access token. Err: %w", err)
	}

	return s.userRepo.GetUserByID(ctx, userID)
}
