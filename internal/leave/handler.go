package leave

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi"
	"github.com/symplora/leave-management/internal"
	"github.com/symplora/leave-management/internal/transport"
	"github.com/symplora/leave-management/pkg/logger"
)

type ServiceAPI interface {
	Submit(dto SubmitLeaveDTO) (*SubmitLeaveResponse, error)
	Approve(requestID int64, dto ApproveDTO) (*DecisionResponse, error)
	Reject(requestID int64, dto RejectDTO) (*DecisionResponse, error)
	Cancel(requestID int64, dto CancelDTO) (*DecisionResponse, error)
	GetRequest(id int64) (*LeaveRequestResponse, error)
	ListRequests(filters ListFilters) ([]*LeaveRequestResponse, error)
	EmployeeRequests(employeeID int64, status Status) ([]*LeaveRequest, error)
	StatsOverview(year int) (*StatsOverviewResponse, error)
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

func (h *Handler) SubmitLeave(w http.ResponseWriter, r *http.Request) {
	var dto SubmitLeaveDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Warn("SubmitLeave: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body", string(internal.ErrCodeValidationFailed))
		return
	}

	resp, err := h.Service.Submit(dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteSuccess(w, http.StatusCreated, "Leave request submitted successfully", resp)
}

func (h *Handler) ListLeaveRequests(w http.ResponseWriter, r *http.Request) {
	filters, err := parseListFilters(r)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	reqs, err := h.Service.ListRequests(filters)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, "Leave requests retrieved successfully", reqs)
}

func (h *Handler) GetLeaveRequest(w http.ResponseWriter, r *http.Request) {
	id, ok := h.requestID(w, r)
	if !ok {
		return
	}

	req, err := h.Service.GetRequest(id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, "Leave request retrieved successfully", req)
}

func (h *Handler) EmployeeLeaveRequests(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	employeeID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "Employee ID must be a number", string(internal.ErrCodeInvalidID))
		return
	}

	status := Status(r.URL.Query().Get("status"))

	reqs, err := h.Service.EmployeeRequests(employeeID, status)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, "Leave requests retrieved successfully", reqs)
}

func (h *Handler) ApproveLeave(w http.ResponseWriter, r *http.Request) {
	id, ok := h.requestID(w, r)
	if !ok {
		return
	}

	var dto ApproveDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Warn("ApproveLeave: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body", string(internal.ErrCodeValidationFailed))
		return
	}

	resp, err := h.Service.Approve(id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, "Leave request approved successfully", resp)
}

func (h *Handler) RejectLeave(w http.ResponseWriter, r *http.Request) {
	id, ok := h.requestID(w, r)
	if !ok {
		return
	}

	var dto RejectDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Warn("RejectLeave: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body", string(internal.ErrCodeValidationFailed))
		return
	}

	resp, err := h.Service.Reject(id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, "Leave request rejected", resp)
}

func (h *Handler) CancelLeave(w http.ResponseWriter, r *http.Request) {
	id, ok := h.requestID(w, r)
	if !ok {
		return
	}

	var dto CancelDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Warn("CancelLeave: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body", string(internal.ErrCodeValidationFailed))
		return
	}

	resp, err := h.Service.Cancel(id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, "Leave request cancelled successfully", resp)
}

func (h *Handler) StatsOverview(w http.ResponseWriter, r *http.Request) {
	year := 0
	if yearStr := r.URL.Query().Get("year"); yearStr != "" {
		y, err := strconv.Atoi(yearStr)
		if err != nil {
			h.WriteError(w, http.StatusBadRequest, "Year must be a number", string(internal.ErrCodeValidationFailed))
			return
		}
		year = y
	}

	stats, err := h.Service.StatsOverview(year)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, "Leave statistics retrieved successfully", stats)
}

func (h *Handler) requestID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		h.Logger.Warn("invalid leave request ID", "id", idStr)
		h.WriteError(w, http.StatusBadRequest, "Leave request ID must be a number", string(internal.ErrCodeInvalidID))
		return 0, false
	}
	return id, true
}

func parseListFilters(r *http.Request) (ListFilters, error) {
	q := r.URL.Query()
	filters := ListFilters{
		Status:     Status(q.Get("status")),
		Department: q.Get("department"),
		LeaveType:  LeaveType(q.Get("leave_type")),
	}

	var err error
	if filters.StartDate, err = parseOptionalDate(q.Get("start_date")); err != nil {
		return filters, internal.NewValidationError("start_date: "+err.Error(), internal.ErrCodeInvalidDate)
	}
	if filters.EndDate, err = parseOptionalDate(q.Get("end_date")); err != nil {
		return filters, internal.NewValidationError("end_date: "+err.Error(), internal.ErrCodeInvalidDate)
	}
	return filters, nil
}

func parseOptionalDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	return internal.ParseDate(value)
}
