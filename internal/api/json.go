package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/starford/exhyte/internal/apperr"
	"github.com/starford/exhyte/internal/survey"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode failed", slog.String("error", err.Error()))
	}
}

// statusClientClosedRequest is nginx's code for a client that went away
// before the response was ready.
const statusClientClosedRequest = 499

type errResponse struct {
	Error string `json:"error" validate:"required"`
}

func errorBody(msg string) errResponse {
	return errResponse{Error: msg}
}

// writeError maps domain errors onto status codes. Unclassified errors are
// logged under op and reported as a bare 500.
func writeError(w http.ResponseWriter, op string, err error) {
	var apiErr *survey.APIError
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody(err.Error()))
	case errors.Is(err, apperr.ErrInvalidArgument), errors.Is(err, apperr.ErrNoSelection):
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
	case errors.Is(err, apperr.ErrSurveyUnavailable):
		writeJSON(w, http.StatusServiceUnavailable, errorBody(err.Error()))
	case survey.IsRateLimited(err):
		writeJSON(w, http.StatusTooManyRequests, errorBody(err.Error()))
	case survey.IsAuthError(err):
		slog.Error(op+" rejected by completion endpoint, check llm.api_key", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadGateway, errorBody(err.Error()))
	case errors.As(err, &apiErr), errors.Is(err, survey.ErrEmptyResponse), errors.Is(err, survey.ErrInvalidResponse):
		slog.Warn(op+" failed upstream", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadGateway, errorBody(err.Error()))
	case errors.Is(err, context.DeadlineExceeded):
		writeJSON(w, http.StatusGatewayTimeout, errorBody("completion timed out"))
	case errors.Is(err, context.Canceled):
		slog.Debug(op+" cancelled by client")
		writeJSON(w, statusClientClosedRequest, errorBody("request cancelled"))
	default:
		slog.Error(op+" failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
	}
}
