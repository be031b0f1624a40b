package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"storefront/internal/model"
	"storefront/internal/session"

	"github.com/rs/zerolog"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Headers are already sent; nothing useful can be reported.
		return
	}
}

// writeError writes an error response with the given status code.
func writeError(w http.ResponseWriter, status int, resp model.ErrorResponse, logger zerolog.Logger) {
	event := logger.Warn()
	if status >= http.StatusInternalServerError {
		event = logger.Error()
	}
	event.Str("error", resp.Error).Str("message", resp.Message).Int("status", status).Msg("handler error")
	writeJSON(w, status, resp)
}

// writeServiceError maps a service error onto an HTTP status and body.
func writeServiceError(w http.ResponseWriter, err error, logger zerolog.Logger) {
	var (
		verr   *model.ValidationError
		perr   *model.PersistenceError
		domain *model.DomainError
	)

	switch {
	case errors.As(err, &verr):
		writeError(w, http.StatusBadRequest, model.ErrorResponse{
			Error:   model.ErrCodeValidation,
			Message: verr.Error(),
			Field:   verr.Field,
		}, logger)
	case errors.As(err, &perr):
		w.Header().Set("Retry-After", "1")
		writeError(w, http.StatusServiceUnavailable, model.ErrorResponse{
			Error:   model.ErrCodePersistenceFailure,
			Message: "the request could not be saved, please retry",
		}, logger)
	case errors.As(err, &domain):
		writeError(w, domainStatus(domain), model.ErrorResponse{
			Error:   domain.Code,
			Message: err.Error(),
		}, logger)
	default:
		logger.Error().Err(err).Msg("unexpected service error")
		writeError(w, http.StatusInternalServerError, model.ErrorResponse{
			Error:   model.ErrCodeInternalError,
			Message: "internal server error",
		}, logger)
	}
}

func domainStatus(e *model.DomainError) int {
	switch e.Code {
	case model.ErrCodeProductNotFound, model.ErrCodeOrderNotFound, model.ErrCodeLineNotFound:
		return http.StatusNotFound
	case model.ErrCodeIllegalTransition, model.ErrCodeTerminalStatus:
		return http.StatusConflict
	case model.ErrCodeForbidden:
		return http.StatusForbidden
	case model.ErrCodeUnauthorised:
		return http.StatusUnauthorized
	default:
		return http.StatusBadRequest
	}
}

// decodeJSON decodes the request body into dst, writing a 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}, logger zerolog.Logger) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrorResponse{
			Error:   model.ErrCodeInvalidJSON,
			Message: "invalid request body",
		}, logger)
		return false
	}
	return true
}

// pagination parses the limit and offset query parameters.
func pagination(w http.ResponseWriter, r *http.Request, logger zerolog.Logger) (limit, offset int, ok bool) {
	limit, offset = 10, 0

	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, model.ErrorResponse{
				Error: model.ErrCodeValidation, Message: "invalid limit parameter", Field: "limit",
			}, logger)
			return 0, 0, false
		}
		limit = n
	}

	if v := r.URL.Query().Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, model.ErrorResponse{
				Error: model.ErrCodeValidation, Message: "invalid offset parameter", Field: "offset",
			}, logger)
			return 0, 0, false
		}
		offset = n
	}

	return limit, offset, true
}

// currentSession returns the request's session. Routes that need one sit
// behind the session middleware, so a missing session is a wiring error.
func currentSession(r *http.Request) session.Session {
	sess, _ := session.FromContext(r.Context())
	return sess
}
