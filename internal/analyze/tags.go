// Package analyze implements the batch analysis passes over a transaction
// snapshot: essential/discretionary tagging, recurring-charge detection,
// weekly anomaly detection and the personalized insight generator.
package analyze

import (
	"math"
	"strings"

	"github.com/spendwise/spendwise/internal/domain"
)

// The tag predictor is a fixed decision list, not a classifier: the same
// description can match both keyword lists below, and evaluation order
// decides the outcome. Do not reorder.

var essentialCategories = []string{
	"Housing",
	"Bills & Utilities",
	"Health & Fitness",
	"Transportation",
}

var discretionaryCategories = []string{
	"Entertainment",
	"Shopping",
	"Travel",
	"Food & Dining",
}

var essentialKeywords = []string{
	"rent", "mortgage", "insurance", "electric", "water", "pharmacy",
	"grocery", "groceries", "utility", "daycare", "tuition", "loan payment",
}

var discretionaryKeywords = []string{
	"restaurant", "coffee", "bar", "netflix", "spotify", "game", "cinema",
	"hotel", "spa", "boutique", "delivery",
}

// Amount heuristic bounds for the final fallback steps.
const (
	smallAmountDiscretionary = 20
	largeAmountEssential     = 200
)

// PredictTag classifies a transaction as essential or discretionary.
// Precedence, first match wins: existing tag, essential category,
// discretionary category, essential keyword, discretionary keyword, amount
// heuristic, default discretionary.
func PredictTag(t domain.Transaction) domain.Tag {
	if t.Tag == domain.TagEssential || t.Tag == domain.TagDiscretionary {
		return t.Tag
	}

	for _, c := range essentialCategories {
		if t.Category == c {
			return domain.TagEssential
		}
	}
	for _, c := range discretionaryCategories {
		if t.Category == c {
			return domain.TagDiscretionary
		}
	}

	desc := strings.ToLower(t.Description)
	for _, kw := range essentialKeywords {
		if strings.Contains(desc, kw) {
			return domain.TagEssential
		}
	}
	for _, kw := range discretionaryKeywords {
		if strings.Contains(desc, kw) {
			return domain.TagDiscretionary
		}
	}

	abs := math.Abs(t.Amount)
	if abs < smallAmountDiscretionary {
		return domain.TagDiscretionary
	}
	if abs > largeAmountEssential {
		return domain.TagEssential
	}

	return domain.TagDiscretionary
}
