package utils

import (
	"encoding/json"
	"net/http"

	"ms-booths/internal/apperr"
)

type ErrorBody struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// StatusFor maps an error kind to its HTTP status.
func StatusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.Unauthenticated:
		return http.StatusUnauthorized
	case apperr.Forbidden:
		return http.StatusForbidden
	case apperr.NotFound:
		return http.StatusNotFound
	case apperr.Conflict, apperr.Closed:
		return http.StatusConflict
	case apperr.InvalidArgument:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func WriteJSON(w http.ResponseWriter, status int, body any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(body)
}

// WriteError renders err as {"error": message}. A closed booth additionally
// carries "code": "BOOTH_CLOSED". Errors without a kind become a generic 500.
func WriteError(w http.ResponseWriter, err error) error {
	kind := apperr.KindOf(err)
	body := ErrorBody{Error: apperr.Message(err)}
	if kind == apperr.Unknown {
		body.Error = "internal server error"
	}
	if kind == apperr.Closed {
		body.Code = kind.String()
	}
	return WriteJSON(w, StatusFor(kind), body)
}
