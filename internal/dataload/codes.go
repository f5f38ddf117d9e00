package dataload

import (
	"regexp"
	"strings"
)

// budgetCodePattern matches a valid project identifier: two letters
// followed by three digits, e.g. "AB123".
var budgetCodePattern = regexp.MustCompile(`^[A-Z]{2}\d{3}$`)

// NormalizeBudgetCode trims and uppercases a raw identifier cell.
func NormalizeBudgetCode(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// ValidBudgetCode reports whether a normalized identifier is a usable
// project code. The literal "TOTAL" marks spreadsheet footer rows and is
// rejected along with anything not matching the two-letter-three-digit
// pattern.
func ValidBudgetCode(code string) bool {
	if code == "" || code == "TOTAL" {
		return false
	}
	return budgetCodePattern.MatchString(code)
}
