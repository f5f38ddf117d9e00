package http

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "holdcost/internal/errors"
	"holdcost/internal/estimate"
	"holdcost/internal/services"
)

// EstimateHandler serves the holding cost estimator tab.
type EstimateHandler struct {
	service      *services.EstimateService
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
	maxUpload    int64
}

// NewEstimateHandler creates an estimate handler.
func NewEstimateHandler(service *services.EstimateService, logger *slog.Logger, maxUpload int64) *EstimateHandler {
	return &EstimateHandler{
		service:      service,
		logger:       logger,
		errorHandler: apierrors.NewErrorHandler(logger),
		maxUpload:    maxUpload,
	}
}

// RegisterRoutes registers the estimate routes.
func (h *EstimateHandler) RegisterRoutes(r chi.Router) {
	r.Post("/estimates", h.Estimate)
}

// Estimate computes holding cost estimates from an uploaded inventory
// export. An optional coefficient_file overrides the default table, and
// an optional comma-separated budget_codes field narrows the result.
func (h *EstimateHandler) Estimate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrInvalidRequest)
		return
	}

	invFile, apiErr := formFile(r, "inventory_file", ".xlsx")
	if apiErr != nil {
		h.errorHandler.HandleError(w, r, apiErr)
		return
	}
	defer invFile.Close()

	codes := h.parseBudgetCodes(r.FormValue("budget_codes"))

	// The coefficient upload is optional; absence selects the default
	// table from the data directory.
	var estimates []estimate.Row
	var err error
	if len(r.MultipartForm.File["coefficient_file"]) > 0 {
		coeffFile, coeffErr := formFile(r, "coefficient_file", ".csv")
		if coeffErr != nil {
			h.errorHandler.HandleError(w, r, coeffErr)
			return
		}
		defer coeffFile.Close()
		estimates, err = h.service.Estimate(r.Context(), invFile, coeffFile, codes)
	} else {
		estimates, err = h.service.Estimate(r.Context(), invFile, nil, codes)
	}
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	if wantsCSV(r) {
		csvHeaders(w, "estimated_holding_costs.csv")
		if err := estimate.WriteCSV(w, estimates); err != nil {
			h.logger.ErrorContext(r.Context(), "CSV download failed", slog.String("error", err.Error()))
		}
		return
	}
	render.JSON(w, r, estimates)
}

func (h *EstimateHandler) parseBudgetCodes(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	codes := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			codes = append(codes, p)
		}
	}
	return codes
}
