package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"brewbox/internal/middleware"
	"brewbox/internal/model"
	"brewbox/internal/service"

	"github.com/rs/zerolog"
)

// writeJSON writes a JSON response with the given status code. Encode
// errors are dropped since the status line is already sent.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes an error response with the given status code, code and message.
func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string, logger zerolog.Logger) {
	logger.Error().Str("error", message).Str("code", code).Int("status", status).Msg("handler error")
	writeJSON(w, status, model.ErrorResponse{
		Error:         code,
		Message:       message,
		CorrelationID: middleware.RequestIDFromContext(r.Context()),
	})
}

// writeServiceError maps an engine error to its HTTP status and writes it
// with any shortage or refund detail it carries.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, logger zerolog.Logger) {
	status, code := classify(err)

	resp := model.ErrorResponse{
		Error:         code,
		Message:       err.Error(),
		CorrelationID: middleware.RequestIDFromContext(r.Context()),
	}
	if status == http.StatusInternalServerError {
		resp.Message = "internal server error"
	}

	var stockErr *model.StockError
	if errors.As(err, &stockErr) {
		resp.Shortages = stockErr.Shortages
	}

	var abortErr *service.AbortError
	if errors.As(err, &abortErr) {
		resp.Refund = abortErr.Refund.String()
		resp.RefundCents = abortErr.Refund
	}

	if status >= http.StatusInternalServerError && status != http.StatusServiceUnavailable {
		logger.Error().Err(err).Str("code", code).Int("status", status).Msg("handler error")
	} else {
		logger.Warn().Err(err).Str("code", code).Int("status", status).Msg("request rejected")
	}

	writeJSON(w, status, resp)
}

// classify returns the HTTP status and error code for err. Specific codes
// are checked before InvalidInput, which they also match.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, model.ErrFulfillmentRace):
		return http.StatusConflict, model.ErrCodeFulfillmentRace
	case errors.Is(err, model.ErrMaintenanceMode):
		return http.StatusServiceUnavailable, model.ErrCodeMaintenanceMode
	case errors.Is(err, model.ErrInsufficientStock):
		return http.StatusConflict, model.ErrCodeInsufficientStock
	case errors.Is(err, model.ErrInsufficientFunds):
		return http.StatusPaymentRequired, model.ErrCodeInsufficientFunds
	case errors.Is(err, model.ErrInvalidSelection):
		return http.StatusBadRequest, model.ErrCodeInvalidSelection
	case errors.Is(err, model.ErrInvalidInput):
		return http.StatusBadRequest, model.ErrCodeInvalidInput
	case errors.Is(err, model.ErrInvalidState):
		return http.StatusConflict, model.ErrCodeInvalidState
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound, model.ErrCodeNotFound
	default:
		return http.StatusInternalServerError, model.ErrCodeInternalError
	}
}
