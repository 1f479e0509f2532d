package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"restaurant-console/internal/middleware"
	"restaurant-console/internal/model"

	"github.com/rs/zerolog"
)

// fieldUpdate is the body of every single-field edit.
type fieldUpdate struct {
	Field string `json:"field"`
	Value any    `json:"value"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but don't expose it to the client
		return
	}
}

// writeError writes an error response with the given status, code and message.
func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string, logger zerolog.Logger) {
	requestID := middleware.RequestIDFromContext(r.Context())
	event := logger.Warn()
	if status >= http.StatusInternalServerError {
		event = logger.Error()
	}
	event.
		Str("request_id", requestID).
		Str("code", code).
		Str("error", message).
		Int("status", status).
		Msg("handler error")

	writeJSON(w, status, model.ErrorResponse{
		Error:         code,
		Message:       message,
		CorrelationID: requestID,
	})
}

// writeDomainError maps err onto a status code and writes it.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error, logger zerolog.Logger) {
	var de *model.DomainError
	if !errors.As(err, &de) {
		writeError(w, r, http.StatusInternalServerError, model.ErrCodeInternalError, "internal error", logger)
		return
	}

	status := http.StatusInternalServerError
	switch de.Code {
	case model.ErrCodeUnknownField, model.ErrCodeInvalidFieldValue:
		status = http.StatusBadRequest
	case model.ErrCodeItemNotFound, model.ErrCodeRestaurantNotFound:
		status = http.StatusNotFound
	case model.ErrCodeInvalidState, model.ErrCodeBusy, model.ErrCodeGateClosed:
		status = http.StatusConflict
	case model.ErrCodeFetchFailed, model.ErrCodeMutationFailed:
		status = http.StatusBadGateway
	}

	writeError(w, r, status, de.Code, err.Error(), logger)
}

// decodeJSON decodes the request body into dst. An empty body is an error
// unless allowEmpty is set, in which case dst is left untouched.
func decodeJSON(r *http.Request, dst any, allowEmpty bool) error {
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(dst); err != nil {
		if allowEmpty && errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	return nil
}

func writeInvalidJSON(w http.ResponseWriter, r *http.Request, logger zerolog.Logger) {
	writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", logger)
}
