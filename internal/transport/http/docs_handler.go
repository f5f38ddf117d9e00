package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	apierrors "holdcost/internal/errors"
	"holdcost/internal/services"
)

// DocsHandler serves the rendered developer and user manuals.
type DocsHandler struct {
	service      *services.DocsService
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewDocsHandler creates a docs handler.
func NewDocsHandler(service *services.DocsService, logger *slog.Logger) *DocsHandler {
	return &DocsHandler{
		service:      service,
		logger:       logger,
		errorHandler: apierrors.NewErrorHandler(logger),
	}
}

// RegisterRoutes registers the docs routes.
func (h *DocsHandler) RegisterRoutes(r chi.Router) {
	r.Get("/docs/{manual}", h.Manual)
}

// Manual renders one of the static markdown manuals to HTML.
func (h *DocsHandler) Manual(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "manual")

	html, err := h.service.Render(r.Context(), name)
	if err != nil {
		h.errorHandler.HandleError(w, r,
			apierrors.NewWithDetails(http.StatusNotFound, "MANUAL_NOT_FOUND", "Manual not found", err.Error()))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(html)
}
