package api

import (
	"encoding/json"
	"net/http"

	"github.com/matzehuels/mutmap/pkg/errors"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeRaw(w http.ResponseWriter, status int, data []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

func writeError(w http.ResponseWriter, status int, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	writeJSON(w, status, ErrorResponse{Code: code, Message: errors.Detail(err)})
}

// inputStatus maps a pipeline error to a status. Coded errors describe bad
// input; anything else is a server fault.
func inputStatus(err error) int {
	switch errors.GetCode(err) {
	case "", errors.ErrCodeInternal:
		return http.StatusInternalServerError
	case errors.ErrCodeInvalidFormat:
		return http.StatusBadRequest
	default:
		return http.StatusUnprocessableEntity
	}
}
