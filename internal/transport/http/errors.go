package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Germanaz0/phpconfar/internal/domain"
)

const (
	codeMethodNotAllowed    = "method_not_allowed"
	codeNotFound            = "not_found"
	codeInvalidField        = "invalid_field"
	codeInvalidLimit        = "invalid_limit"
	codeInvalidRole         = "invalid_role"
	codeRolesRequired       = "roles_required"
	codeCodeRequired        = "code_required"
	codeNoMatch             = "no_match"
	codeAttendeeNotFound    = "attendee_not_found"
	codeNoCandidates        = "no_candidates"
	codeNoSourcesConfigured = "no_sources_configured"
	codeForbidden           = "forbidden"
	codeUnavailable         = "unavailable"
	codeInternalError       = "internal_error"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	payload, err := json.Marshal(errorResponse{Error: msg, Code: code})
	if err != nil {
		payload = []byte(`{"error":"internal error","code":"internal_error"}`)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(payload)
}

// writeDomainError maps service errors onto HTTP statuses. Unknown errors
// are reported as 500 without leaking their text.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidField):
		writeError(w, http.StatusBadRequest, codeInvalidField, err.Error())
	case errors.Is(err, domain.ErrInvalidLimit):
		writeError(w, http.StatusBadRequest, codeInvalidLimit, err.Error())
	case errors.Is(err, domain.ErrInvalidRole):
		writeError(w, http.StatusBadRequest, codeInvalidRole, err.Error())
	case errors.Is(err, domain.ErrRolesRequired):
		writeError(w, http.StatusBadRequest, codeRolesRequired, err.Error())
	case errors.Is(err, domain.ErrNoMatch):
		writeError(w, http.StatusNotFound, codeNoMatch, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
