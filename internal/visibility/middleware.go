package visibility

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/community-ops/internal"
)

// Middleware guards chi routes with visibility checks, answering denials with
// a 403 carrying the placeholder the UI renders.
type Middleware struct {
	gate   *Gate
	logger *slog.Logger
}

func NewMiddleware(gate *Gate, logger *slog.Logger) *Middleware {
	return &Middleware{gate: gate, logger: logger}
}

// RequireCommunity gates routes that address one community via the named URL
// parameter.
func (m *Middleware) RequireCommunity(param string) func(http.Handler) http.Handler {
	return m.require(KindCommunity, param)
}

// RequireMetric gates routes that address one metric via the named URL
// parameter.
func (m *Middleware) RequireMetric(param string) func(http.Handler) http.Handler {
	return m.require(KindMetric, param)
}

// RequireCategory gates routes that address one data category via the named
// URL parameter.
func (m *Middleware) RequireCategory(param string) func(http.Handler) http.Handler {
	return m.require(KindCategory, param)
}

func (m *Middleware) require(kind ResourceKind, param string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := internal.PrincipalFromContext(r.Context())
			if !ok {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			resourceID := chi.URLParam(r, param)
			if resourceID == "" {
				http.Error(w, "Bad Request", http.StatusBadRequest)
				return
			}

			decision := m.gate.Evaluate(p.Role, p.Config, ResourceRef{Kind: kind, ID: resourceID}, ModeStandalone)
			if !decision.Allowed {
				m.logger.Warn("visibility gate denied request",
					"user_id", p.UserID,
					"role", string(p.Role),
					"resource_kind", string(kind),
					"resource_id", resourceID)
				writePlaceholder(w, decision.Placeholder)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func writePlaceholder(w http.ResponseWriter, placeholder *Placeholder) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusForbidden)
	_ = json.NewEncoder(w).Encode(Decision{Allowed: false, Placeholder: placeholder})
}
