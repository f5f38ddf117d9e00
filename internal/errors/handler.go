package errors

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"holdcost/internal/coefficients"
	"holdcost/internal/dataload"
)

// ErrorHandler converts errors to the standard envelope and logs them.
type ErrorHandler struct {
	logger *slog.Logger
}

// NewErrorHandler creates an error handler.
func NewErrorHandler(logger *slog.Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger.With(slog.String("component", "error_handler"))}
}

// HandleError logs err and writes its API representation. Domain errors
// from the pipeline stages map onto the fixed taxonomy; anything
// unrecognized becomes an internal server error.
func (h *ErrorHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}

	h.logger.ErrorContext(r.Context(), "request failed",
		slog.String("error", err.Error()),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
	)

	render.Render(w, r, NewErrorResponse(toAPIError(err)))
}

func toAPIError(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	var missing *dataload.MissingColumnError
	if errors.As(err, &missing) {
		return MissingColumnError(missing.Column)
	}
	if errors.Is(err, coefficients.ErrNoMedianRow) {
		return ErrNoMedianRow
	}
	if errors.Is(err, coefficients.ErrDefaultMissing) {
		return ErrDefaultMissing
	}
	return FileProcessingError(err)
}
