package domain

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// OtherCategory is used when a transaction carries no category.
const OtherCategory = "Other"

var (
	IncomeCategories = []string{"Salary", "Interest", "Capital Gains", "Refunds", "Other Income"}

	ExpenseCategories = []string{
		"Housing", "Transportation", "Food", "Health", "Fitness", "Entertainment",
		"Education", "Personal Care", "Debt Payment", "Saving", "Insurance", "Travel", "Miscellaneous",
	}
)

// CategoriesFor returns the vocabulary for a transaction type.
func CategoriesFor(t TransactionType) []string {
	if t.IsIncome() {
		return IncomeCategories
	}
	return ExpenseCategories
}

// CanonicalCategory returns the vocabulary spelling of name, if any.
func CanonicalCategory(t TransactionType, name string) (string, bool) {
	name = strings.TrimSpace(name)
	for _, c := range CategoriesFor(t) {
		if strings.EqualFold(c, name) {
			return c, true
		}
	}
	return "", false
}

// SuggestCategory proposes the closest vocabulary entry for a mistyped name.
// Suggestions further than a third of the candidate length are dropped.
func SuggestCategory(t TransactionType, name string) (string, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return "", false
	}
	best, bestDist := "", -1
	for _, c := range CategoriesFor(t) {
		d := levenshtein.ComputeDistance(name, strings.ToLower(c))
		if bestDist < 0 || d < bestDist {
			best, bestDist = c, d
		}
	}
	if bestDist < 0 || bestDist > max(2, len(best)/3) {
		return "", false
	}
	return best, true
}
