// Package pantry implements ingredient assignment: matching pantry
// items to a step's declared requirements, issuing deduction requests,
// and marking steps complete.
package pantry

import (
	"strings"

	"github.com/hammamikhairi/sousdeck/internal/domain"
)

// MatchIngredient reports whether a pantry item automatically matches
// a requirement: either name's leading token must be a case-insensitive
// substring of the other's leading token. On failure the caller falls
// back to explicit user confirmation — a non-match is not an error.
func MatchIngredient(item domain.PantryItem, req domain.IngredientReq) bool {
	a := leadingToken(item.Name)
	b := leadingToken(req.Name)
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}

// AutoMatch returns the first requirement of the step that the pantry
// item automatically matches, in declaration order.
func AutoMatch(item domain.PantryItem, step domain.Step) (domain.IngredientReq, bool) {
	for _, req := range step.Ingredients {
		if MatchIngredient(item, req) {
			return req, true
		}
	}
	return domain.IngredientReq{}, false
}

// leadingToken returns the lowercased first whitespace-separated token.
func leadingToken(s string) string {
	fields := strings.Fields(strings.ToLower(s))
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
