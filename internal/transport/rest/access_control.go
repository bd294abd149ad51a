package rest

import (
	"net/http"

	"github.com/frahmantamala/community-ops/internal"
	"github.com/frahmantamala/community-ops/internal/accesscontrol"
	"github.com/frahmantamala/community-ops/internal/transport"
)

// AccessControlService is the resolver-backed surface the access endpoints
// need. It lives here rather than in the accesscontrol package so that
// package stays free of HTTP and principal plumbing.
type AccessControlService interface {
	Summarize(role accesscontrol.Role, cfg accesscontrol.Config) (accesscontrol.Summary, error)
	Check(role accesscontrol.Role, cfg accesscontrol.Config, resourceType, resourceID string) (accesscontrol.CheckResponse, error)
	ListTemplates() []accesscontrol.Template
}

type AccessControlHandler struct {
	*transport.BaseHandler
	Service AccessControlService
}

func NewAccessControlHandler(baseHandler *transport.BaseHandler, service AccessControlService) *AccessControlHandler {
	return &AccessControlHandler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

// GetSummary returns the accessible/total counts for the acting user.
func (h *AccessControlHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	p, ok := internal.PrincipalFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "no active session")
		return
	}

	summary, err := h.Service.Summarize(p.Role, p.Config)
	if err != nil {
		h.Logger.Error("GetSummary: failed to build access summary", "error", err)
		h.WriteError(w, http.StatusInternalServerError, "failed to build access summary")
		return
	}

	h.WriteJSON(w, http.StatusOK, accesscontrol.SummaryResponse{
		Role:    string(p.Role),
		Summary: summary,
	})
}

// CheckAccess answers one allow/deny question:
// GET /access/check?type=metric&id=noi
func (h *AccessControlHandler) CheckAccess(w http.ResponseWriter, r *http.Request) {
	p, ok := internal.PrincipalFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "no active session")
		return
	}

	resourceType := r.URL.Query().Get("type")
	resourceID := r.URL.Query().Get("id")
	if resourceType == "" || resourceID == "" {
		h.WriteError(w, http.StatusBadRequest, "type and id query parameters are required")
		return
	}

	resp, err := h.Service.Check(p.Role, p.Config, resourceType, resourceID)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.WriteJSON(w, http.StatusOK, resp)
}

// GetTemplates lists the immutable access template catalog.
func (h *AccessControlHandler) GetTemplates(w http.ResponseWriter, r *http.Request) {
	h.WriteJSON(w, http.StatusOK, accesscontrol.TemplatesResponse{
		Templates: h.Service.ListTemplates(),
	})
}
