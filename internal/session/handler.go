package session

import (
	"encoding/json"
	"net/http"

	"github.com/frahmantamala/community-ops/internal"
	"github.com/frahmantamala/community-ops/internal/accesscontrol"
	"github.com/frahmantamala/community-ops/internal/transport"
)

type ServiceAPI interface {
	Authenticate(dto LoginDTO) (Tokens, error)
	RefreshTokens(refreshToken string) (Tokens, error)
	UserFromToken(tokenString string) (*User, error)
	SwitchRole(role accesscontrol.Role) (*User, error)
	Provider() *Provider
}

type Handler struct {
	*transport.BaseHandler
	Service  ServiceAPI
	demoMode bool
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI, demoMode bool) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
		demoMode:    demoMode,
	}
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tokens, err := h.Service.Authenticate(dto)
	if err != nil {
		if _, ok := err.(ValidationError); ok {
			h.WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, tokens)
}

func (h *Handler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var dto RefreshTokenDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := dto.Validate(); err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	tokens, err := h.Service.RefreshTokens(dto.RefreshToken)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, tokens)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.Service.Provider().Clear()
	h.WriteJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

// GetCurrentUser returns the acting user for the request.
func (h *Handler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	p, ok := internal.PrincipalFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "no active session")
		return
	}

	h.WriteJSON(w, http.StatusOK, CurrentUserResponse{
		ID:    p.UserID,
		Email: p.Email,
		Name:  p.Name,
		Role:  string(p.Role),
	})
}

// SwitchRole is the demo role switcher: an explicit session replacement.
func (h *Handler) SwitchRole(w http.ResponseWriter, r *http.Request) {
	var dto SwitchRoleDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := dto.Validate(); err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.Service.SwitchRole(accesscontrol.Role(dto.Role))
	if err != nil {
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, user.ToResponse())
}
