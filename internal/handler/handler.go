package handler

import (
	"encoding/json"
	"net/http"

	"restaurant-orders/internal/middleware"
	"restaurant-orders/internal/model"

	"github.com/rs/zerolog"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes an error response with the given status code.
func writeError(w http.ResponseWriter, r *http.Request, status int, body model.ErrorResponse, logger zerolog.Logger) {
	body.CorrelationID = middleware.CorrelationIDFromContext(r.Context())

	event := logger.Warn()
	if status >= http.StatusInternalServerError {
		event = logger.Error()
	}
	event.
		Str("error", body.Error).
		Str("message", body.Message).
		Int("status", status).
		Str("correlation_id", body.CorrelationID).
		Msg("handler error")

	writeJSON(w, status, body)
}

// writeDomainError maps err onto an HTTP status. Errors that carry no
// domain code are reported as internal errors without leaking their text.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error, logger zerolog.Logger) {
	de, ok := model.AsDomainError(err)
	if !ok {
		logger.Error().Err(err).Msg("unexpected error")
		writeError(w, r, http.StatusInternalServerError, model.ErrorResponse{
			Error:   model.ErrCodeInternalError,
			Message: "internal server error",
		}, logger)
		return
	}

	if de.Code == model.ErrCodeDatabase || de.Code == model.ErrCodeConcurrentModification {
		logger.Error().Err(err).Str("code", de.Code).Msg("storage failure")
	}

	writeError(w, r, statusFor(de.Code), model.ErrorResponse{
		Error:   de.Code,
		Message: de.Message,
		Details: de.Details,
	}, logger)
}

func statusFor(code string) int {
	switch code {
	case model.ErrCodeRestaurantNotFound,
		model.ErrCodeAddressNotFound,
		model.ErrCodeVariantsNotFound,
		model.ErrCodeIngredientsNotFound,
		model.ErrCodeOrderNotFound:
		return http.StatusNotFound
	case model.ErrCodeInvalidRequest,
		model.ErrCodePriceMismatch,
		model.ErrCodeNameMismatch,
		model.ErrCodeRestaurantMismatch,
		model.ErrCodeQuantityMismatch,
		model.ErrCodeInvalidIngredients,
		model.ErrCodeActionNotSupported:
		return http.StatusUnprocessableEntity
	case model.ErrCodeInvalidJSON:
		return http.StatusBadRequest
	case model.ErrCodeUnauthorised:
		return http.StatusUnauthorized
	case model.ErrCodeUserBanned, model.ErrCodeForbidden:
		return http.StatusForbidden
	case model.ErrCodeInvalidStatusTransition:
		return http.StatusConflict
	case model.ErrCodeConcurrentModification:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
