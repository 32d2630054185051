package httpvalidate

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrymomot/modelguard/pkg/validator"
)

// Result is the body of a validation response.
type Result struct {
	Valid  bool             `json:"valid"`
	Model  string           `json:"model,omitempty"`
	Errors validator.Errors `json:"errors,omitempty"`
}

// ErrorResponse is returned for requests that never reached a validator.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail is a machine-readable code with a human message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeResult(w http.ResponseWriter, model string, errs validator.Errors) {
	if len(errs) == 0 {
		writeJSON(w, http.StatusOK, Result{Valid: true, Model: model})
		return
	}
	writeJSON(w, http.StatusUnprocessableEntity, Result{Model: model, Errors: errs})
}

// writeError maps package errors to status codes.
func writeError(w http.ResponseWriter, err error) {
	status, code := http.StatusInternalServerError, "internal_error"
	switch {
	case errors.Is(err, ErrUnknownModel):
		status, code = http.StatusNotFound, "unknown_model"
	case errors.Is(err, ErrBodyTooLarge):
		status, code = http.StatusRequestEntityTooLarge, "body_too_large"
	case errors.Is(err, ErrUnsupportedMediaType):
		status, code = http.StatusUnsupportedMediaType, "unsupported_media_type"
	case errors.Is(err, ErrInvalidJSON):
		status, code = http.StatusBadRequest, "invalid_json"
	}
	writeJSON(w, status, ErrorResponse{Error: ErrorDetail{Code: code, Message: err.Error()}})
}
