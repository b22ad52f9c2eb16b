package analyze

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/spendwise/spendwise/internal/domain"
)

// Analysis windows and thresholds. These are product parameters, not
// derived values.
const (
	trailingWeeks = 4

	splitWindowDays       = 30
	highDiscretionaryPct  = 40
	goodBalanceMinPct     = 15
	goodBalanceMaxPct     = 30
	discretionaryCutRatio = 0.20
	emergencyFundMonths   = 6

	subcategoryWindowDays    = 60
	subcategoryTopN          = 3
	subcategoryMonthlyFloor  = 100
	coffeeMonthlyThreshold   = 40
	coffeeBrewAtHomeSavings  = 0.70
	fastFoodGroceryRatio     = 0.5
	streamingServiceCountMin = 3
)

// Anomaly is a category whose current-week spend exceeds its trailing
// weekly average.
type Anomaly struct {
	Category      string  `json:"category"`
	ThisWeek      float64 `json:"this_week"`
	WeeklyAverage float64 `json:"weekly_average"`
}

// StartOfWeek returns midnight of the Sunday beginning the calendar week
// containing t.
func StartOfWeek(t time.Time) time.Time {
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return d.AddDate(0, 0, -int(d.Weekday()))
}

// WeeklySpending sums the absolute value of discretionary expenses posted in
// the calendar week starting at weekStart.
func WeeklySpending(transactions []domain.Transaction, weekStart time.Time) float64 {
	weekEnd := weekStart.AddDate(0, 0, 7)
	var total float64
	for _, t := range transactions {
		if !t.IsExpense() || t.Tag != domain.TagDiscretionary {
			continue
		}
		if t.PostedDate.Before(weekStart) || !t.PostedDate.Before(weekEnd) {
			continue
		}
		total += math.Abs(t.Amount)
	}
	return total
}

// DetectAnomalies compares each category's current-week spending against its
// trailing weekly average (the prior trailingWeeks weeks, current week
// excluded) and reports categories that are strictly above average.
func DetectAnomalies(transactions []domain.Transaction, now time.Time) []Anomaly {
	weekStart := StartOfWeek(now)
	trailingStart := weekStart.AddDate(0, 0, -7*trailingWeeks)

	thisWeek := make(map[string]float64)
	trailing := make(map[string]float64)
	var categories []string
	seen := make(map[string]bool)

	for _, t := range transactions {
		if !t.IsExpense() {
			continue
		}
		cat := t.Category
		if cat == "" {
			continue
		}
		amount := math.Abs(t.Amount)
		switch {
		case !t.PostedDate.Before(weekStart):
			thisWeek[cat] += amount
		case !t.PostedDate.Before(trailingStart):
			trailing[cat] += amount
		default:
			continue
		}
		if !seen[cat] {
			seen[cat] = true
			categories = append(categories, cat)
		}
	}

	var anomalies []Anomaly
	for _, cat := range categories {
		avg := trailing[cat] / trailingWeeks
		if thisWeek[cat] > avg && thisWeek[cat] > 0 {
			anomalies = append(anomalies, Anomaly{
				Category:      cat,
				ThisWeek:      thisWeek[cat],
				WeeklyAverage: avg,
			})
		}
	}
	return anomalies
}

// splitTotals holds essential vs discretionary expense totals for a window.
type splitTotals struct {
	essential     float64
	discretionary float64
}

func computeSplit(transactions []domain.Transaction, since, until time.Time) splitTotals {
	var s splitTotals
	for _, t := range transactions {
		if !t.IsExpense() {
			continue
		}
		if t.PostedDate.Before(since) || t.PostedDate.After(until) {
			continue
		}
		switch t.Tag {
		case domain.TagEssential:
			s.essential += math.Abs(t.Amount)
		case domain.TagDiscretionary:
			s.discretionary += math.Abs(t.Amount)
		}
	}
	return s
}

// SpendingBalanceInsights analyzes the essential/discretionary split over the
// last 30 days and always sizes an emergency-fund recommendation off monthly
// essential spend.
func SpendingBalanceInsights(transactions []domain.Transaction, now time.Time) []domain.PersonalizedInsight {
	split := computeSplit(transactions, now.AddDate(0, 0, -splitWindowDays), now)
	total := split.essential + split.discretionary

	var out []domain.PersonalizedInsight
	if total > 0 {
		pct := split.discretionary / total * 100
		if pct > highDiscretionaryPct {
			savings := split.discretionary * discretionaryCutRatio
			out = append(out, domain.PersonalizedInsight{
				Type:    domain.InsightSpendingPattern,
				Title:   "High discretionary spending",
				Message: fmt.Sprintf("%.0f%% of your spending in the last 30 days was discretionary ($%.2f of $%.2f).", pct, split.discretionary, total),
				ActionableAdvice: []string{
					fmt.Sprintf("Cutting discretionary spending by 20%% would free up $%.2f per month.", savings),
				},
				ConfidenceScore: 0.85,
			})
		} else if pct >= goodBalanceMinPct && pct <= goodBalanceMaxPct {
			out = append(out, domain.PersonalizedInsight{
				Type:    domain.InsightPositive,
				Title:   "Healthy spending balance",
				Message: fmt.Sprintf("Only %.0f%% of your last 30 days of spending was discretionary. Nice balance.", pct),
				ActionableAdvice: []string{
					"Keep the current split and consider putting the slack toward a savings goal.",
				},
				ConfidenceScore: 0.75,
			})
		}
	}

	if split.essential > 0 {
		fund := split.essential * emergencyFundMonths
		out = append(out, domain.PersonalizedInsight{
			Type:    domain.InsightEmergencyFund,
			Title:   "Emergency fund target",
			Message: fmt.Sprintf("Your essential spending runs about $%.2f per month.", split.essential),
			ActionableAdvice: []string{
				fmt.Sprintf("An emergency fund of $%.2f would cover %d months of essentials.", fund, emergencyFundMonths),
			},
			ConfidenceScore: 0.7,
		})
	}

	return out
}

// SubcategoryInsights aggregates 60 days of expenses by category >
// subcategory, surfaces the largest buckets, and emits the canned
// coffee / fast-food-vs-grocery / streaming observations.
func SubcategoryInsights(transactions []domain.Transaction, now time.Time) []domain.PersonalizedInsight {
	since := now.AddDate(0, 0, -subcategoryWindowDays)

	totals := make(map[string]float64)
	var keys []string
	streamingMerchants := make(map[string]bool)

	for _, t := range transactions {
		if !t.IsExpense() || t.PostedDate.Before(since) || t.PostedDate.After(now) {
			continue
		}
		if t.Category == "" || t.Subcategory == "" {
			continue
		}
		key := t.Category + " > " + t.Subcategory
		if _, ok := totals[key]; !ok {
			keys = append(keys, key)
		}
		totals[key] += math.Abs(t.Amount)

		if t.Subcategory == "Streaming" {
			if fields := strings.Fields(t.Description); len(fields) > 0 {
				streamingMerchants[strings.ToLower(fields[0])] = true
			}
		}
	}

	sort.Slice(keys, func(i, j int) bool {
		if totals[keys[i]] != totals[keys[j]] {
			return totals[keys[i]] > totals[keys[j]]
		}
		return keys[i] < keys[j]
	})

	var out []domain.PersonalizedInsight
	emitted := 0
	for _, key := range keys {
		if emitted >= subcategoryTopN {
			break
		}
		monthly := totals[key] / 2
		if monthly <= subcategoryMonthlyFloor {
			continue
		}
		out = append(out, domain.PersonalizedInsight{
			Type:    domain.InsightSubcategory,
			Title:   "Top spending area: " + key,
			Message: fmt.Sprintf("You averaged $%.2f per month on %s over the last two months.", monthly, key),
			ActionableAdvice: []string{
				fmt.Sprintf("Review %s spending and set a monthly budget below $%.2f.", key, monthly),
			},
			ConfidenceScore: 0.72,
		})
		emitted++
	}

	coffeeMonthly := totals["Food & Dining > Coffee & Tea"] / 2
	if coffeeMonthly > coffeeMonthlyThreshold {
		out = append(out, domain.PersonalizedInsight{
			Type:    domain.InsightSubcategory,
			Title:   "Coffee habit check",
			Message: fmt.Sprintf("You spend about $%.2f per month on coffee and tea.", coffeeMonthly),
			ActionableAdvice: []string{
				fmt.Sprintf("Brewing at home most days could save roughly $%.2f per month.", coffeeMonthly*coffeeBrewAtHomeSavings),
			},
			ConfidenceScore: 0.7,
		})
	}

	fastFood := totals["Food & Dining > Fast Food"]
	groceries := totals["Food & Dining > Groceries"]
	if groceries > 0 && fastFood > groceries*fastFoodGroceryRatio {
		out = append(out, domain.PersonalizedInsight{
			Type:    domain.InsightSubcategory,
			Title:   "Fast food outpacing groceries",
			Message: fmt.Sprintf("Fast food ($%.2f) is more than half of your grocery spend ($%.2f) over two months.", fastFood, groceries),
			ActionableAdvice: []string{
				"Shifting two fast-food meals a week to home cooking typically cuts the gap in half.",
			},
			ConfidenceScore: 0.7,
		})
	}

	if len(streamingMerchants) >= streamingServiceCountMin {
		monthly := totals["Entertainment > Streaming"] / 2
		out = append(out, domain.PersonalizedInsight{
			Type:    domain.InsightSubcategory,
			Title:   "Multiple streaming subscriptions",
			Message: fmt.Sprintf("You pay for %d streaming services, about $%.2f per month combined.", len(streamingMerchants), monthly),
			ActionableAdvice: []string{
				"Rotate services month to month instead of keeping all of them active.",
			},
			ConfidenceScore: 0.8,
		})
	}

	return out
}
