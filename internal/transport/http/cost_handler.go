package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"holdcost/internal/costs"
	apierrors "holdcost/internal/errors"
	"holdcost/internal/services"
)

// CostHandler serves the warehouse cost overview tab.
type CostHandler struct {
	service      *services.CostService
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
	maxUpload    int64
}

// NewCostHandler creates a cost handler.
func NewCostHandler(service *services.CostService, logger *slog.Logger, maxUpload int64) *CostHandler {
	return &CostHandler{
		service:      service,
		logger:       logger,
		errorHandler: apierrors.NewErrorHandler(logger),
		maxUpload:    maxUpload,
	}
}

// RegisterRoutes registers the cost routes.
func (h *CostHandler) RegisterRoutes(r chi.Router) {
	r.Route("/costs", func(r chi.Router) {
		r.Post("/overview", h.Overview)
		r.Post("/breakdown", h.Breakdown)
	})
}

// Overview processes an uploaded cost ledger and returns the annual
// summary and monthly grouping. With ?format=csv the monthly grouping
// is returned as a download.
func (h *CostHandler) Overview(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrInvalidRequest)
		return
	}

	file, apiErr := formFile(r, "cost_file", ".xlsx")
	if apiErr != nil {
		h.errorHandler.HandleError(w, r, apiErr)
		return
	}
	defer file.Close()

	overview, err := h.service.Overview(r.Context(), file)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	if wantsCSV(r) {
		csvHeaders(w, "monthly_costs.csv")
		if err := costs.WritePeriodCSV(w, overview.MonthlyGroups); err != nil {
			h.logger.ErrorContext(r.Context(), "CSV download failed", slog.String("error", err.Error()))
		}
		return
	}
	render.JSON(w, r, overview)
}

// Breakdown returns the per-category spend for one project and year.
func (h *CostHandler) Breakdown(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrInvalidRequest)
		return
	}

	req := breakdownRequest{
		BudgetCode: r.FormValue("budget_code"),
		Year:       r.FormValue("year"),
	}
	if err := validate.Struct(req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("budget_code/year",
			"budget_code must be a two-letter-three-digit project code and year a four-digit year"))
		return
	}

	file, apiErr := formFile(r, "cost_file", ".xlsx")
	if apiErr != nil {
		h.errorHandler.HandleError(w, r, apiErr)
		return
	}
	defer file.Close()

	breakdown, err := h.service.Breakdown(r.Context(), file, req.BudgetCode, req.Year)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	if wantsCSV(r) {
		csvHeaders(w, req.BudgetCode+"_"+req.Year+"_categories.csv")
		if err := costs.WriteBreakdownCSV(w, breakdown); err != nil {
			h.logger.ErrorContext(r.Context(), "CSV download failed", slog.String("error", err.Error()))
		}
		return
	}
	render.JSON(w, r, breakdown)
}
