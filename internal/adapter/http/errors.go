package http

import (
	"errors"
	"net/http"

	"github.com/couchcryptid/neo-impact-service/internal/domain"
)

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// writeError maps err to a status code. Validation errors use
// validationStatus; upstream failures report only the failure kind.
// Anything unrecognized is logged in full and surfaced as a generic 500.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error, validationStatus int) {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		s.writeJSON(w, validationStatus, errorResponse{Error: ve.Error(), Field: ve.Field})
	case errors.Is(err, domain.ErrNotFound):
		s.writeJSON(w, http.StatusNotFound, errorResponse{Error: domain.ErrNotFound.Error()})
	case errors.Is(err, domain.ErrRateLimited):
		s.writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: domain.ErrRateLimited.Error()})
	case errors.Is(err, domain.ErrUpstreamUnavailable):
		s.logger.Warn("upstream unavailable", "method", r.Method, "path", r.URL.Path, "error", err)
		s.writeJSON(w, http.StatusBadGateway, errorResponse{Error: domain.ErrUpstreamUnavailable.Error()})
	case errors.Is(err, domain.ErrUpstreamTimeout):
		s.logger.Warn("upstream request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		s.writeJSON(w, http.StatusGatewayTimeout, errorResponse{Error: domain.ErrUpstreamTimeout.Error()})
	default:
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		s.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}
