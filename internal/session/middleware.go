package session

import (
	"net/http"

	"github.com/frahmantamala/community-ops/internal"
	"github.com/frahmantamala/community-ops/pkg/logger"
)

// AuthMiddleware resolves the acting user for the request and stores the
// principal (role + resolved access config snapshot) in the context. Bearer
// tokens win; in demo mode the current provider snapshot is an accepted
// fallback so the role switcher works without re-authenticating.
func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var user *User

		if token := h.ExtractTokenFromHeader(r); token != "" {
			u, err := h.Service.UserFromToken(token)
			if err != nil {
				h.Logger.Warn("auth middleware: token rejected", "error", err)
				h.WriteAppError(w, err)
				return
			}
			user = u
		} else if h.demoMode {
			if u, ok := h.Service.Provider().CurrentUser(); ok {
				user = u
			}
		}

		if user == nil {
			h.WriteError(w, http.StatusUnauthorized, "authentication required")
			return
		}

		principal, err := user.ToPrincipal()
		if err != nil {
			h.Logger.Error("auth middleware: cannot resolve access config", "user_id", user.ID, "error", err)
			h.WriteError(w, http.StatusInternalServerError, "cannot resolve access configuration")
			return
		}

		ctx := internal.ContextWithPrincipal(r.Context(), principal)
		ctx = internal.ContextWithUserID(ctx, user.ID)
		ctx = logger.With(ctx, "user_id", user.ID, "role", string(user.Role))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
