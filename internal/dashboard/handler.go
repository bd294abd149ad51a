package dashboard

import (
	"net/http"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/community-ops/internal"
	"github.com/frahmantamala/community-ops/internal/transport"
	"github.com/frahmantamala/community-ops/internal/visibility"
)

type ServiceAPI interface {
	Build(p *internal.Principal, communityID string, mode visibility.RenderMode) (*Response, *visibility.Placeholder, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

// GetDashboard handles GET /dashboard/{communityID}?mode=overlay
func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	p, ok := internal.PrincipalFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "no active session")
		return
	}

	communityID := chi.URLParam(r, "communityID")
	mode := visibility.RenderMode(r.URL.Query().Get("mode"))
	if mode != visibility.ModeOverlay {
		mode = visibility.ModeStandalone
	}

	resp, placeholder, err := h.Service.Build(p, communityID, mode)
	if err != nil {
		h.Logger.Error("GetDashboard: failed to build dashboard", "community_id", communityID, "error", err)
		h.WriteError(w, http.StatusInternalServerError, "failed to build dashboard")
		return
	}

	if placeholder != nil {
		h.WriteJSON(w, http.StatusForbidden, visibility.Decision{Allowed: false, Placeholder: placeholder})
		return
	}

	h.WriteJSON(w, http.StatusOK, resp)
}
