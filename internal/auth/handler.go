package auth

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/expense-dashboard/internal"
	"github.com/frahmantamala/expense-dashboard/internal/rbac"
	"github.com/frahmantamala/expense-dashboard/internal/transport"
	"github.com/frahmantamala/expense-dashboard/pkg/logger"
)

type ServiceAPI interface {
	Authenticate(ctx context.Context, dto LoginDTO) (AuthTokens, error)
	RefreshTokens(ctx context.Context, refreshToken string) (AuthTokens, error)
	ValidateAccessToken(tokenString string) (*Claims, error)
}

// IdentityLoader resolves the user behind a validated token.
type IdentityLoader interface {
	Identity(ctx context.Context, userID string) (*rbac.User, error)
}

type Handler struct {
	*transport.BaseHandler
	Service    ServiceAPI
	Identities IdentityLoader
}

func NewHandler(svc ServiceAPI, identities IdentityLoader) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
		Identities:  identities,
	}
}

// Login handles POST /auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tokens, err := h.Service.Authenticate(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, tokens)
}

// RefreshToken handles POST /auth/refresh
func (h *Handler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var dto RefreshTokenDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if appErr := dto.Validate(); appErr != nil {
		h.HandleServiceError(w, appErr)
		return
	}

	tokens, err := h.Service.RefreshTokens(r.Context(), dto.RefreshToken)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, tokens)
}

// Logout handles POST /auth/logout. Tokens are stateless, so this only
// confirms the presented token is valid.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	token := h.ExtractTokenFromHeader(r)
	if token == "" {
		h.HandleServiceError(w, internal.ErrUnauthenticated)
		return
	}

	if _, err := h.Service.ValidateAccessToken(token); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AuthMiddleware validates the bearer token, loads the identity and stores
// it in the request context together with a user-scoped logger.
func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := h.ExtractTokenFromHeader(r)
		if token == "" {
			h.HandleServiceError(w, internal.ErrUnauthenticated)
			return
		}

		claims, err := h.Service.ValidateAccessToken(token)
		if err != nil {
			h.Logger.Warn("auth middleware: token rejected", "error", err)
			h.HandleServiceError(w, err)
			return
		}

		identity, err := h.Identities.Identity(r.Context(), claims.UserID)
		if err != nil {
			if internal.IsCode(err, internal.ErrCodeUserNotFound) {
				err = internal.ErrInvalidToken
			}
			h.Logger.Warn("auth middleware: identity not loaded", "user_id", claims.UserID, "error", err)
			h.HandleServiceError(w, err)
			return
		}

		ctx := internal.ContextWithIdentity(r.Context(), identity)
		ctx = logger.With(ctx, "user_id", identity.ID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
