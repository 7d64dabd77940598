package auth

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/acfortier/garage-backoffice/internal/transport"
	"github.com/acfortier/garage-backoffice/pkg/logger"
)

type actorCtxKey string

const actorKey actorCtxKey = "actor"

func ContextWithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

func ActorFromContext(ctx context.Context) (Actor, bool) {
	actor, ok := ctx.Value(actorKey).(Actor)
	return actor, ok
}

type Handler struct {
	*transport.BaseHandler
	Service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(logger.LoggerWrapper()),
		Service:     service,
	}
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, tokens, err := h.Service.Login(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"user": map[string]interface{}{
			"id":          user.ID,
			"idPersonnel": user.IDPersonnel,
			"prenom":      user.Prenom,
			"nom":         user.Nom,
			"grade":       user.Grade,
			"photoUrl":    user.PhotoURL,
		},
		"tokens": tokens,
	})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.Service.Logout()
	h.WriteJSON(w, http.StatusOK, map[string]string{"status": "logged_out"})
}

func (h *Handler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var dto RefreshDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tokens, err := h.Service.RefreshTokens(dto.RefreshToken)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, tokens)
}

// EmployeeGate unlocks the legacy shared-password dashboard access.
func (h *Handler) EmployeeGate(w http.ResponseWriter, r *http.Request) {
	var dto EmployeeGateDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if !h.Service.UnlockEmployeeGate(dto.Password) {
		h.WriteError(w, http.StatusUnauthorized, "invalid employee password")
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]string{"status": "unlocked"})
}

// AuthMiddleware resolves the acting identity from the bearer token and
// stores it in the request context.
func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := h.ExtractTokenFromHeader(r)
		if token == "" {
			h.WriteError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}

		claims, err := h.Service.ValidateAccessToken(token)
		if err != nil {
			h.HandleServiceError(w, err)
			return
		}

		actor, err := h.Service.ActorForClaims(claims)
		if err != nil {
			h.WriteError(w, http.StatusUnauthorized, "unknown identity")
			return
		}

		ctx := ContextWithActor(r.Context(), actor)
		ctx = logger.With(ctx, "user_id", actor.UserID, "grade", actor.Grade)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GateOrAuthMiddleware admits either an authenticated identity or, when the
// legacy employee gate has been unlocked, an identity-less employee actor.
func (h *Handler) GateOrAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := h.ExtractTokenFromHeader(r)
		if token != "" {
			h.AuthMiddleware(next).ServeHTTP(w, r)
			return
		}

		if h.Service.EmployeeGateUnlocked() {
			ctx := ContextWithActor(r.Context(), Actor{EmployeeGate: true})
			next.ServeHTTP(w, r.WithContext(ctx))
			return
		}

		h.WriteError(w, http.StatusUnauthorized, "missing bearer token")
	})
}
