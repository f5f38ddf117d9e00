package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"holdcost/internal/coefficients"
	apierrors "holdcost/internal/errors"
	"holdcost/internal/services"
)

// CoefficientHandler serves the cost rate calculator tab.
type CoefficientHandler struct {
	service      *services.CoefficientService
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
	maxUpload    int64
}

// NewCoefficientHandler creates a coefficient handler.
func NewCoefficientHandler(service *services.CoefficientService, logger *slog.Logger, maxUpload int64) *CoefficientHandler {
	return &CoefficientHandler{
		service:      service,
		logger:       logger,
		errorHandler: apierrors.NewErrorHandler(logger),
		maxUpload:    maxUpload,
	}
}

// RegisterRoutes registers the coefficient routes.
func (h *CoefficientHandler) RegisterRoutes(r chi.Router) {
	r.Route("/coefficients", func(r chi.Router) {
		r.Get("/default", h.Default)
		r.Get("/artifacts", h.Artifacts)
		r.Get("/artifacts/{name}", h.Artifact)
		r.Post("/derive", h.Derive)
	})
}

// Default returns the read-only default coefficient table.
func (h *CoefficientHandler) Default(w http.ResponseWriter, r *http.Request) {
	table, err := h.service.Default(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	if wantsCSV(r) {
		csvHeaders(w, coefficients.DefaultFileName)
		if err := coefficients.WriteCSV(w, table); err != nil {
			h.logger.ErrorContext(r.Context(), "CSV download failed", slog.String("error", err.Error()))
		}
		return
	}
	render.JSON(w, r, table)
}

// Artifacts lists previously persisted coefficient artifacts.
func (h *CoefficientHandler) Artifacts(w http.ResponseWriter, r *http.Request) {
	artifacts, err := h.service.Artifacts(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, artifacts)
}

// Artifact returns one persisted coefficient artifact by name.
func (h *CoefficientHandler) Artifact(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	table, err := h.service.Artifact(r.Context(), name)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	if wantsCSV(r) {
		csvHeaders(w, name)
		if err := coefficients.WriteCSV(w, table); err != nil {
			h.logger.ErrorContext(r.Context(), "CSV download failed", slog.String("error", err.Error()))
		}
		return
	}
	render.JSON(w, r, table)
}

// deriveResponse carries the derived table and its artifact name.
type deriveResponse struct {
	Artifact string              `json:"artifact"`
	Table    *coefficients.Table `json:"table"`
}

// Derive computes new coefficients from an uploaded cost ledger and
// inventory export and persists the timestamped artifact.
func (h *CoefficientHandler) Derive(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrInvalidRequest)
		return
	}

	costFile, apiErr := formFile(r, "cost_file", ".xlsx")
	if apiErr != nil {
		h.errorHandler.HandleError(w, r, apiErr)
		return
	}
	defer costFile.Close()

	invFile, apiErr := formFile(r, "inventory_file", ".xlsx")
	if apiErr != nil {
		h.errorHandler.HandleError(w, r, apiErr)
		return
	}
	defer invFile.Close()

	table, artifact, err := h.service.Derive(r.Context(), costFile, invFile)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	if wantsCSV(r) {
		csvHeaders(w, artifact)
		if err := coefficients.WriteCSV(w, table); err != nil {
			h.logger.ErrorContext(r.Context(), "CSV download failed", slog.String("error", err.Error()))
		}
		return
	}
	render.JSON(w, r, deriveResponse{Artifact: artifact, Table: table})
}
