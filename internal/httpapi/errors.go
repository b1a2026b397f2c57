package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/crosslogic/bookingcore/internal/apperr"
)

// errorEnvelope is the JSON error wire shape: {error: string, code?: string}.
type errorEnvelope struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message, code string) {
	writeJSON(w, status, errorEnvelope{Error: message, Code: code})
}

// writeAppError maps an *apperr.Error to its HTTP status and writes the
// envelope. Non-apperr errors are treated as a 500, since the engine never
// swallows errors.
func writeAppError(w http.ResponseWriter, err error) {
	ae, ok := err.(*apperr.Error)
	if !ok {
		writeError(w, http.StatusInternalServerError, err.Error(), "")
		return
	}
	writeError(w, statusFor(ae.Kind, ae.Code), ae.Message, ae.Code)
}

func statusFor(kind apperr.Kind, code string) int {
	if code == apperr.CodeCaptureFailed {
		return http.StatusConflict
	}
	switch kind {
	case apperr.Validation:
		return http.StatusBadRequest
	case apperr.Authorization:
		return http.StatusForbidden
	case apperr.State:
		return http.StatusBadRequest
	case apperr.NotFound:
		return http.StatusNotFound
	case apperr.Conflict:
		return http.StatusConflict
	case apperr.External:
		return http.StatusBadGateway
	case apperr.Fatal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
