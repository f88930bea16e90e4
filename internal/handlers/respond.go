package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/vavassoriluca/MongoDB-RAG/internal/contextutil"
	"github.com/vavassoriluca/MongoDB-RAG/internal/service"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// decodeJSON decodes the request body into dst.
func decodeJSON(r *http.Request, dst any) error {
	return json.NewDecoder(r.Body).Decode(dst)
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, ErrorResponse{Error: message})
}

// handleError maps the error taxonomy to HTTP status codes: validation
// errors are the client's fault, provider errors are a bad gateway, store
// errors mean the database is unavailable. Everything else is a 500.
func handleError(w http.ResponseWriter, ctx context.Context, err error) {
	logger := contextutil.LoggerFromContext(ctx)

	var ve *service.ValidationError
	var pe *service.ProviderError
	var se *service.StoreError

	switch {
	case errors.As(err, &ve):
		logger.WarnContext(ctx, "validation failed", "field", ve.Field, "error", err)
		writeError(w, http.StatusBadRequest, ve.Error())
	case errors.As(err, &pe):
		logger.ErrorContext(ctx, "provider call failed", "provider", pe.Provider, "error", err)
		writeError(w, http.StatusBadGateway, pe.Error())
	case errors.As(err, &se):
		logger.ErrorContext(ctx, "store operation failed", "op", se.Op, "error", err)
		writeError(w, http.StatusServiceUnavailable, se.Error())
	default:
		logger.ErrorContext(ctx, "internal error", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}
