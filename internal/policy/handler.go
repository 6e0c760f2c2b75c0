package policy

import (
	"net/http"

	"github.com/go-chi/chi"
	"github.com/symplora/leave-management/internal/transport"
	"github.com/symplora/leave-management/pkg/logger"
)

type ServiceAPI interface {
	ListPolicies() ([]*LeavePolicy, error)
	GetPolicy(leaveType string) (*LeavePolicy, error)
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

func (h *Handler) ListPolicies(w http.ResponseWriter, r *http.Request) {
	policies, err := h.Service.ListPolicies()
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, "Leave policies retrieved successfully", policies)
}

func (h *Handler) GetPolicy(w http.ResponseWriter, r *http.Request) {
	leaveType := chi.URLParam(r, "leaveType")

	p, err := h.Service.GetPolicy(leaveType)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, "Leave policy retrieved successfully", p)
}
