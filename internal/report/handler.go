package report

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/community-ops/internal"
	"github.com/frahmantamala/community-ops/internal/transport"
)

type ServiceAPI interface {
	Create(ctx context.Context, actorID string, dto CreateDTO) (*Report, error)
	CreateFromTemplate(ctx context.Context, actorID string, dto CreateFromTemplateDTO) (*Report, error)
	Get(id string) (*Report, error)
	List(isTemplate bool, searchTerm string) ([]*Report, error)
	Update(ctx context.Context, actorID, id string, dto UpdateDTO) (*Report, error)
	Delete(ctx context.Context, actorID, id string) error
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

// ListReports handles GET /reports?kind=templates&search=manor
func (h *Handler) ListReports(w http.ResponseWriter, r *http.Request) {
	kind := r.URL.Query().Get("kind")
	searchTerm := r.URL.Query().Get("search")
	isTemplate := kind == "templates"

	reports, err := h.Service.List(isTemplate, searchTerm)
	if err != nil {
		h.Logger.Error("ListReports: failed to list reports", "error", err)
		h.WriteError(w, http.StatusInternalServerError, "failed to list reports")
		return
	}

	h.WriteJSON(w, http.StatusOK, ListResponse{Reports: reports})
}

func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	rpt, err := h.Service.Get(id)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, rpt)
}

func (h *Handler) CreateReport(w http.ResponseWriter, r *http.Request) {
	p, ok := internal.PrincipalFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "no active session")
		return
	}

	var dto CreateDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rpt, err := h.Service.Create(r.Context(), p.UserID, dto)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, rpt)
}

func (h *Handler) CreateFromTemplate(w http.ResponseWriter, r *http.Request) {
	p, ok := internal.PrincipalFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "no active session")
		return
	}

	var dto CreateFromTemplateDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rpt, err := h.Service.CreateFromTemplate(r.Context(), p.UserID, dto)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, rpt)
}

func (h *Handler) UpdateReport(w http.ResponseWriter, r *http.Request) {
	p, ok := internal.PrincipalFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "no active session")
		return
	}

	id := chi.URLParam(r, "id")

	var dto UpdateDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rpt, err := h.Service.Update(r.Context(), p.UserID, id, dto)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, rpt)
}

func (h *Handler) DeleteReport(w http.ResponseWriter, r *http.Request) {
	p, ok := internal.PrincipalFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "no active session")
		return
	}

	id := chi.URLParam(r, "id")

	if err := h.Service.Delete(r.Context(), p.UserID, id); err != nil {
		h.writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	if _, ok := err.(ValidationError); ok {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.WriteAppError(w, err)
}
