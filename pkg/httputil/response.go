package httputil

import (
	"encoding/json"
	"log/slog"
	"net/http"

	apperrors "github.com/backbonehq/catalog-service/pkg/errors"
	"github.com/backbonehq/catalog-service/pkg/logger"
)

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Headers are already sent; nothing meaningful can be done if encoding fails.
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError maps the error onto its HTTP status and writes the bare status
// with an empty body. The external contract carries no error detail in
// response bodies; the detail goes to the log instead. It prefers the
// request-scoped logger from context (set by the RequestLogger middleware)
// over the fallback logger.
func WriteError(w http.ResponseWriter, r *http.Request, err error, fallback *slog.Logger) {
	l := logger.FromContext(r.Context())
	if l == slog.Default() {
		l = fallback
	}

	status := apperrors.HTTPStatus(err)

	switch status {
	case http.StatusExpectationFailed:
		l.ErrorContext(r.Context(), "unexpected failure",
			slog.String("error", err.Error()),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
		)
	case http.StatusNotFound, http.StatusNoContent:
		l.WarnContext(r.Context(), "empty result",
			slog.Int("status", status),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
		)
	default:
		l.WarnContext(r.Context(), "request rejected",
			slog.Int("status", status),
			slog.String("error", err.Error()),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
		)
	}

	w.WriteHeader(status)
}
