package transport

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/symplora/leave-management/internal"
	"github.com/symplora/leave-management/pkg/logger"
)

// Envelope is the response shape every endpoint returns, kept compatible
// with the existing frontend client.
type Envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// BaseHandler provides common functionality for HTTP handlers
type BaseHandler struct {
	Logger *slog.Logger
}

func NewBaseHandler(lg *slog.Logger) *BaseHandler {
	if lg == nil {
		lg = logger.L()
	}
	return &BaseHandler{Logger: lg}
}

// WriteSuccess writes a success envelope.
func (h *BaseHandler) WriteSuccess(w http.ResponseWriter, status int, message string, data interface{}) {
	h.writeEnvelope(w, status, Envelope{Success: true, Message: message, Data: data})
}

// WriteError writes a failure envelope with a plain message.
func (h *BaseHandler) WriteError(w http.ResponseWriter, status int, message string, errCode string) {
	h.Logger.Warn("http error", "status", status, "message", message, "error", errCode)
	h.writeEnvelope(w, status, Envelope{Success: false, Message: message, Error: errCode})
}

// HandleServiceError maps a service error to the response taxonomy. Unexpected
// errors become a 500 without leaking internals.
func (h *BaseHandler) HandleServiceError(w http.ResponseWriter, err error) {
	if appErr, ok := internal.IsAppError(err); ok {
		env := Envelope{
			Success: false,
			Message: appErr.DetailedMessage(),
			Error:   string(appErr.Code),
		}
		if appErr.Type == internal.ErrorTypeInternal || appErr.Type == internal.ErrorTypeTransient {
			h.Logger.Error("service error", "error", err, "type", appErr.Type)
			env.Message = "Something went wrong on our end. Please try again later."
		}
		h.writeEnvelope(w, appErr.StatusCode, env)
		return
	}

	h.Logger.Error("unexpected service error", "error", err)
	h.writeEnvelope(w, http.StatusInternalServerError, Envelope{
		Success: false,
		Message: "Something went wrong on our end. Please try again later.",
		Error:   "INTERNAL_ERROR",
	})
}

func (h *BaseHandler) writeEnvelope(w http.ResponseWriter, status int, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		h.Logger.Error("failed to encode JSON response", "error", err)
	}
}

// ExtractTokenFromHeader extracts Bearer token from Authorization header
func (h *BaseHandler) ExtractTokenFromHeader(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
		return ""
	}

	return authHeader[7:]
}
