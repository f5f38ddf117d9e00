// Package http contains the HTTP handlers for the holding cost tool.
// Handlers parse and validate requests, delegate to the services, and
// convert failures to API errors at this boundary.
package http

import (
	"mime/multipart"
	"net/http"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	apierrors "holdcost/internal/errors"
)

// validate is the shared validator instance for request structs.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterValidation("budgetcode", isBudgetCode)
	v.RegisterValidation("year", isYear)
	return v
}

var (
	budgetCodeRe = regexp.MustCompile(`^[A-Z]{2}\d{3}$`)
	yearRe       = regexp.MustCompile(`^\d{4}$`)
)

func isBudgetCode(fl validator.FieldLevel) bool {
	return budgetCodeRe.MatchString(fl.Field().String())
}

func isYear(fl validator.FieldLevel) bool {
	return yearRe.MatchString(fl.Field().String())
}

// loginRequest is the credential payload for the access gate.
type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// breakdownRequest selects a project and year for the category view.
type breakdownRequest struct {
	BudgetCode string `json:"budget_code" validate:"required,budgetcode"`
	Year       string `json:"year" validate:"required,year"`
}

// formFile fetches a multipart file field and checks its extension.
func formFile(r *http.Request, field, wantExt string) (multipart.File, *apierrors.APIError) {
	file, header, err := r.FormFile(field)
	if err != nil {
		return nil, apierrors.MissingFileError(field)
	}
	if ext := strings.ToLower(filepath.Ext(header.Filename)); ext != wantExt {
		file.Close()
		return nil, apierrors.ErrValidation(field,
			"expected a "+wantExt+" file, got "+header.Filename)
	}
	return file, nil
}

// wantsCSV reports whether the client asked for a CSV download.
func wantsCSV(r *http.Request) bool {
	if r.URL.Query().Get("format") == "csv" {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), "text/csv")
}

// csvHeaders sets download headers for a CSV response.
func csvHeaders(w http.ResponseWriter, filename string) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
}
