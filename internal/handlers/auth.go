package handlers

import (
	"errors"
	"net/http"

	"github.com/kanato-tk51/study-manager/internal/apperrors"
	"github.com/kanato-tk51/study-manager/internal/handlers/render"
	"github.com/kanato-tk51/study-manager/internal/logger"
)

type AuthHandler struct {
	authService authService
	logger      logger.Logger
}

func NewAuth(as authService, l logger.Logger) *AuthHandler {
	if l == nil {
		l = logger.NewNoOpLogger()
	}
	return &AuthHandler{authService: as, logger: l}
}

func (h *AuthHandler) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /register", h.register)
	mux.HandleFunc("POST /login", h.login)
	mux.HandleFunc("POST /refresh", h.refresh)
	mux.HandleFunc("POST /logout", h.logout)

	return mux
}

type tokenResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

func (h *AuthHandler) register(w http.ResponseWriter, r *http.Request) {
	type RegisterRequest struct {
		Email       string  `json:"email" validate:"required,email"`
		Password    string  `json:"password" validate:"required,min=8"`
		DisplayName *string `json:"displayName" validate:"omitempty,max=100"`
	}
	type RegisterResponse struct {
		User UserResponse `json:"user"`
		tokenResponse
	}

	data, err := render.BindAndValidate[RegisterRequest](w, r)
	if err != nil {
		return
	}

	user, pair, err := h.authService.Register(r.Context(), data.Email, data.Password, data.DisplayName)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrUserAlreadyExists):
			render.ServiceError(w, "Email already registered", http.StatusConflict)
		default:
			h.logger.Error("register failed", "error", err.Error())
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	render.JSONWithStatus(w, RegisterResponse{
		User: toUserResponse(user),
		tokenResponse: tokenResponse{
			AccessToken:  pair.Access.Value,
			RefreshToken: pair.Refresh.Value,
		},
	}, http.StatusCreated)
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	type LoginRequest struct {
		Email    string `json:"email" validate:"required"`
		Password string `json:"password" validate:"required"`
	}
	type LoginResponse struct {
		User UserResponse `json:"user"`
		tokenResponse
	}

	data, err := render.BindAndValidate[LoginRequest](w, r)
	if err != nil {
		return
	}

	user, pair, err := h.authService.Login(r.Context(), data.Email, data.Password)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrUserNotFound):
			render.ServiceError(w, "Invalid credentials", http.StatusUnauthorized)
		default:
			h.logger.Error("login failed", "error", err.Error())
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	render.JSON(w, LoginResponse{
		User: toUserResponse(user),
		tokenResponse: tokenResponse{
			AccessToken:  pair.Access.Value,
			RefreshToken: pair.Refresh.Value,
		},
	})
}

func (h *AuthHandler) refresh(w http.ResponseWriter, r *http.Request) {
	type RefreshRequest struct {
		RefreshToken string `json:"refreshToken" validate:"required"`
	}

	data, err := render.BindAndValidate[RefreshRequest](w, r)
	if err != nil {
		return
	}

	pair, err := h.authService.Refresh(r.Context(), data.RefreshToken)
	if err != nil {
		// Every rejection looks the same to the client. The reasons are
		// kept apart in logs only: reuse is a breach signal, the rest is
		// routine.
		switch {
		case errors.Is(err, apperrors.ErrRefreshTokenReuseDetected):
			// Already logged by the authority with the revocation count
		case errors.Is(err, apperrors.ErrRefreshTokenExpired),
			errors.Is(err, apperrors.ErrRefreshTokenInvalid):
			h.logger.Info("refresh rejected", "error", err.Error())
		default:
			h.logger.Error("refresh failed", "error", err.Error())
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}
		render.ServiceError(w, "Invalid refresh token", http.StatusUnauthorized)
		return
	}

	render.JSON(w, tokenResponse{
		AccessToken:  pair.Access.Value,
		RefreshToken: pair.Refresh.Value,
	})
}

func (h *AuthHandler) logout(w http.ResponseWriter, r *http.Request) {
	type LogoutRequest struct {
		RefreshToken string `json:"refreshToken" validate:"required"`
	}

	data, err := render.BindAndValidate[LogoutRequest](w, r)
	if err != nil {
		return
	}

	if err := h.authService.Logout(r.Context(), data.RefreshToken); err != nil {
		h.logger.Error("logout failed", "error", err.Error())
		render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// logoutAll terminates every session of the authenticated user.
// Mounted behind the auth middleware, unlike the other auth routes.
func (h *AuthHandler) logoutAll(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		render.ServiceError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := h.authService.LogoutAll(r.Context(), user.ID); err != nil {
		h.logger.Error("logout all failed", "error", err.Error())
		render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
