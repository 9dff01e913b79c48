package server

import (
	"encoding/json"
	"net/http"

	errs "github.com/matzehuels/diagramkit/pkg/errors"
)

// Envelope wraps every JSON response.
type Envelope struct {
	OK    bool      `json:"ok"`
	Data  any       `json:"data,omitempty"`
	Error *APIError `json:"error,omitempty"`
}

// APIError is the error payload of an [Envelope].
type APIError struct {
	Code    errs.Code `json:"code"`
	Message string    `json:"message"`
	Details any       `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(env)
}

func writeOK(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, Envelope{OK: true, Data: data})
}

func writeError(w http.ResponseWriter, status int, code errs.Code, message string, details any) {
	writeJSON(w, status, Envelope{Error: &APIError{Code: code, Message: message, Details: details}})
}

// writeErr maps a coded error to its HTTP status. Uncoded and internal
// errors are reported without their message.
func writeErr(w http.ResponseWriter, err error) {
	code := errs.GetCode(err)
	status := statusFor(code)
	if status == http.StatusInternalServerError {
		writeError(w, status, errs.ErrCodeInternal, "internal error", nil)
		return
	}
	writeError(w, status, code, errs.UserMessage(err), errs.Details(err))
}

func statusFor(code errs.Code) int {
	switch code {
	case errs.ErrCodeInvalidInput, errs.ErrCodeInvalidFormat, errs.ErrCodeInvalidID:
		return http.StatusBadRequest
	case errs.ErrCodeInvalidDiagram, errs.ErrCodeUnsupported:
		return http.StatusUnprocessableEntity
	case errs.ErrCodeNotFound, errs.ErrCodeSessionNotFound:
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
