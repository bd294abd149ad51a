package visibility

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/frahmantamala/community-ops/internal"
	coreevents "github.com/frahmantamala/community-ops/internal/core/events"
	"github.com/frahmantamala/community-ops/internal/transport"
)

type EventPublisher interface {
	PublishSync(ctx context.Context, event coreevents.Event) error
}

// Handler exposes the request-access composition endpoint. The response is
// the mailto link the UI opens; composing one is also recorded on the event
// bus for the audit trail. The audit record is written synchronously so the
// trail is complete before the link is handed back.
type Handler struct {
	*transport.BaseHandler
	Gate *Gate
	bus  EventPublisher
}

func NewHandler(baseHandler *transport.BaseHandler, gate *Gate, bus EventPublisher) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Gate:        gate,
		bus:         bus,
	}
}

type accessRequestDTO struct {
	Kind        string `json:"kind"`
	ID          string `json:"id"`
	DisplayName string `json:"display_name,omitempty"`
}

type accessRequestResponse struct {
	RequestAccessURL string `json:"request_access_url"`
}

// ComposeAccessRequest handles POST /access/request.
func (h *Handler) ComposeAccessRequest(w http.ResponseWriter, r *http.Request) {
	p, ok := internal.PrincipalFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "no active session")
		return
	}

	var dto accessRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	kind := ResourceKind(dto.Kind)
	switch kind {
	case KindCommunity, KindCategory, KindMetric:
	default:
		h.WriteError(w, http.StatusBadRequest, "kind must be community, category or metric")
		return
	}
	if dto.ID == "" {
		h.WriteError(w, http.StatusBadRequest, "id is required")
		return
	}

	ref := ResourceRef{Kind: kind, ID: dto.ID, DisplayName: dto.DisplayName}
	mailto := h.Gate.RequestAccessMailto(ref)

	if h.bus != nil {
		if err := h.bus.PublishSync(r.Context(), coreevents.NewAccessRequestedEvent(string(kind), dto.ID, p.UserID)); err != nil {
			h.Logger.Error("failed to record access request event", "error", err)
		}
	}

	h.WriteJSON(w, http.StatusOK, accessRequestResponse{RequestAccessURL: mailto})
}
