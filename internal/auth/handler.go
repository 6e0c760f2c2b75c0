package auth

import (
	"encoding/json"
	"net/http"

	"github.com/symplora/leave-management/internal"
	"github.com/symplora/leave-management/internal/transport"
	"github.com/symplora/leave-management/pkg/logger"
)

type ServiceAPI interface {
	Login(dto LoginDTO) (*LoginResponse, error)
	Refresh(dto RefreshDTO) (*LoginResponse, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(logger.L()),
		Service:     service,
	}
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Warn("Login: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body", string(internal.ErrCodeValidationFailed))
		return
	}

	resp, err := h.Service.Login(dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, "Login successful", resp)
}

func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	var dto RefreshDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Warn("Refresh: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body", string(internal.ErrCodeValidationFailed))
		return
	}

	resp, err := h.Service.Refresh(dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, "Token refreshed", resp)
}
