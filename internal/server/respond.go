package server

import (
	"encoding/json"
	"net/http"

	"github.com/ghostdevv/npm-alt/pkg/errors"
)

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps the error taxonomy onto HTTP statuses. Unknown errors
// surface as a generic 500 without leaking internals.
func writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	status := http.StatusInternalServerError

	switch code {
	case errors.ErrCodeNotFound, errors.ErrCodePackageNotFound, errors.ErrCodeVersionNotFound:
		status = http.StatusNotFound
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidPackage, errors.ErrCodeInvalidSpecifier:
		status = http.StatusBadRequest
	case errors.ErrCodeNetwork, errors.ErrCodeTimeout:
		status = http.StatusBadGateway
	case errors.ErrCodeRateLimited:
		status = http.StatusTooManyRequests
	}

	if code == "" {
		code = errors.ErrCodeInternal
	}
	msg := errors.UserMessage(err)
	if status == http.StatusInternalServerError {
		msg = "internal error"
	}

	writeJSON(w, status, errorBody{Error: errorDetail{Code: code, Message: msg}})
}
