package employee

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/symplora/leave-management/internal"
	"github.com/symplora/leave-management/internal/transport"
	"github.com/symplora/leave-management/pkg/logger"
)

type ServiceAPI interface {
	CreateEmployee(dto CreateEmployeeDTO) (*Employee, error)
	GetEmployee(id int64) (*Employee, error)
	ListEmployees() ([]*Employee, error)
	LeaveBalance(id int64) (*LeaveBalanceResponse, error)
	DepartmentStats() (*DepartmentStatsResponse, error)
	AdjustBalance(id int64, dto AdjustBalanceDTO) (*AdjustBalanceResponse, error)
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

func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var dto CreateEmployeeDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Warn("CreateEmployee: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body", string(internal.ErrCodeValidationFailed))
		return
	}

	emp, err := h.Service.CreateEmployee(dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteSuccess(w, http.StatusCreated, "Employee created successfully", emp)
}

func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Service.ListEmployees()
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, "Employees retrieved successfully", employees)
}

func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	id, ok := h.employeeID(w, r)
	if !ok {
		return
	}

	emp, err := h.Service.GetEmployee(id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, "Employee retrieved successfully", emp)
}

func (h *Handler) LeaveBalance(w http.ResponseWriter, r *http.Request) {
	id, ok := h.employeeID(w, r)
	if !ok {
		return
	}

	balance, err := h.Service.LeaveBalance(id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, "Leave balance retrieved successfully", balance)
}

func (h *Handler) DepartmentStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Service.DepartmentStats()
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, "Department statistics retrieved successfully", stats)
}

func (h *Handler) AdjustBalance(w http.ResponseWriter, r *http.Request) {
	id, ok := h.employeeID(w, r)
	if !ok {
		return
	}

	var dto AdjustBalanceDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Warn("AdjustBalance: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body", string(internal.ErrCodeValidationFailed))
		return
	}

	result, err := h.Service.AdjustBalance(id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, "Leave balance "+dto.Operation+"ed successfully", result)
}

func (h *Handler) employeeID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		h.Logger.Warn("invalid employee ID", "id", idStr)
		h.WriteError(w, http.StatusBadRequest, "Employee ID must be a number", string(internal.ErrCodeInvalidID))
		return 0, false
	}
	return id, true
}
