package community

import (
	"net/http"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/community-ops/internal"
	"github.com/frahmantamala/community-ops/internal/accesscontrol"
	"github.com/frahmantamala/community-ops/internal/transport"
)

type ServiceAPI interface {
	ListVisible(role accesscontrol.Role, cfg accesscontrol.Config) ([]*Community, error)
	Get(role accesscontrol.Role, cfg accesscontrol.Config, id string) (*Community, error)
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

// GetCommunities lists the communities visible to the acting user.
func (h *Handler) GetCommunities(w http.ResponseWriter, r *http.Request) {
	p, ok := internal.PrincipalFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "no active session")
		return
	}

	communities, err := h.Service.ListVisible(p.Role, p.Config)
	if err != nil {
		h.Logger.Error("GetCommunities: failed to list communities", "error", err)
		h.WriteError(w, http.StatusInternalServerError, "failed to list communities")
		return
	}

	h.WriteJSON(w, http.StatusOK, ListResponse{
		Communities: communities,
		Total:       len(communities),
	})
}

func (h *Handler) GetCommunity(w http.ResponseWriter, r *http.Request) {
	p, ok := internal.PrincipalFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "no active session")
		return
	}

	c, err := h.Service.Get(p.Role, p.Config, chi.URLParam(r, "id"))
	if err != nil {
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, c)
}
