package apperrors

import (
	"errors"
)

var (
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrUserNotFound      = errors.New("user not found")

	// Refresh token lifecycle errors. All of them surface as a plain
	// unauthorized response; handlers must not leak which one happened.
	ErrRefreshTokenInvalid       = errors.New("refresh token invalid")
	ErrRefreshTokenReuseDetected = errors.New("refresh token reuse detected")
	ErrRefreshTokenExpired       = errors.New("refresh token is expired")

	ErrNotFound         = errors.New("resource not found")
	ErrInvalidDateRange = errors.New("end date is before start date")
	ErrNoteExists       = errors.New("daily note already exists for this date")
)
