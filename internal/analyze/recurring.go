package analyze

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/spendwise/spendwise/internal/domain"
)

const (
	// A pair of charges qualifies as monthly when the day gap falls in
	// [minMonthlyGapDays, maxMonthlyGapDays] inclusive.
	minMonthlyGapDays = 28
	maxMonthlyGapDays = 32
	// recurringAmountTolerance is the allowed relative drift between the two
	// amounts of a qualifying pair.
	recurringAmountTolerance = 0.15
)

// DetectRecurring flags merchants with a monthly cadence. Expenses are
// grouped by the first whitespace-delimited token of the description,
// sorted chronologically, and the first adjacent pair with a ~30 day gap
// and a stable amount produces one result per group.
//
// The first-token grouping key is deliberately kept as-is: the same
// merchant with varying prefixes is missed and unrelated merchants sharing
// a first token are grouped together. Downstream consumers treat the output
// as ephemeral hints, not authoritative.
func DetectRecurring(transactions []domain.Transaction) []domain.RecurringTransaction {
	groups := make(map[string][]domain.Transaction)
	var order []string
	for _, t := range transactions {
		if !t.IsExpense() {
			continue
		}
		fields := strings.Fields(t.Description)
		if len(fields) == 0 {
			continue
		}
		key := strings.ToLower(fields[0])
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], t)
	}

	found := make(map[string]domain.RecurringTransaction)
	for key, group := range groups {
		if len(group) < 2 {
			continue
		}
		sort.Slice(group, func(i, j int) bool {
			return group[i].PostedDate.Before(group[j].PostedDate)
		})

		for i := 1; i < len(group); i++ {
			t1, t2 := group[i-1], group[i]
			gap := daysBetween(t1.PostedDate, t2.PostedDate)
			if gap < minMonthlyGapDays || gap > maxMonthlyGapDays {
				continue
			}
			if math.Abs(t1.Amount-t2.Amount) >= math.Abs(t1.Amount)*recurringAmountTolerance {
				continue
			}
			found[key] = domain.RecurringTransaction{
				Name:       key,
				Amount:     math.Abs(t2.Amount),
				LastDate:   t2.PostedDate,
				NextDate:   t2.PostedDate.AddDate(0, 1, 0),
				Confidence: domain.RecurringConfidenceHigh,
				Period:     domain.PeriodMonthly,
			}
			// First qualifying pair wins; no duplicates per group.
			break
		}
	}

	out := make([]domain.RecurringTransaction, 0, len(found))
	for _, key := range order {
		if r, ok := found[key]; ok {
			out = append(out, r)
		}
	}
	return out
}

// daysBetween returns calendar days from a to b, ignoring time of day.
func daysBetween(a, b time.Time) int {
	at := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	bt := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(bt.Sub(at).Hours() / 24)
}
