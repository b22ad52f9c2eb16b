package analyze

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/spendwise/spendwise/internal/domain"
	"github.com/spendwise/spendwise/internal/goals"
)

// Input is the snapshot the insight generator works over. Goals and Debts
// are optional; AcceptanceRate is the user's historical suggestion
// acceptance rate in [0,1] (use 1 when there is no history yet).
type Input struct {
	Transactions   []domain.Transaction
	Goals          []domain.Goal
	Debts          []domain.Debt
	ExtraPayment   float64
	AcceptanceRate float64
	Now            time.Time
}

// GeneratePersonalized composes every analysis signal into a single ranked
// insight list. Raw confidences are scaled by the acceptance rate, anything
// at or below the confidence floor is dropped, and the rest is sorted by
// confidence descending.
func GeneratePersonalized(in Input) []domain.PersonalizedInsight {
	now := in.Now
	if now.IsZero() {
		now = time.Now()
	}

	var out []domain.PersonalizedInsight

	for _, a := range DetectAnomalies(in.Transactions, now) {
		out = append(out, domain.PersonalizedInsight{
			Type:    domain.InsightAnomaly,
			Title:   "Unusual spending: " + a.Category,
			Message: fmt.Sprintf("You spent $%.2f on %s this week, above your $%.2f weekly average.", a.ThisWeek, a.Category, a.WeeklyAverage),
			ActionableAdvice: []string{
				fmt.Sprintf("Hold %s spending for the rest of the week to get back to $%.2f.", a.Category, a.WeeklyAverage),
			},
			ConfidenceScore: 0.8,
		})
	}

	if recurring := DetectRecurring(in.Transactions); len(recurring) > 0 {
		var total float64
		for _, r := range recurring {
			total += r.Amount
		}
		out = append(out, domain.PersonalizedInsight{
			Type:    domain.InsightRecurring,
			Title:   "Recurring charges",
			Message: fmt.Sprintf("Detected %d recurring monthly charges totaling $%.2f.", len(recurring), total),
			ActionableAdvice: []string{
				"Review the list and cancel anything you no longer use.",
			},
			ConfidenceScore: 0.75,
		})
	}

	out = append(out, SpendingBalanceInsights(in.Transactions, now)...)
	out = append(out, SubcategoryInsights(in.Transactions, now)...)

	surplus, optional := monthlyCashTotals(in.Transactions, now)
	for _, g := range in.Goals {
		f := goals.GoalFeasibility(g, surplus, optional, now)
		insight := domain.PersonalizedInsight{
			Type:            domain.InsightGoalFeasibility,
			ConfidenceScore: 0.78,
		}
		switch {
		case f.Feasible && !f.WithReduction:
			insight.Title = "On track: " + g.Name
			insight.Message = fmt.Sprintf("Saving $%.2f per month gets you to %q by %s.", f.MonthlyRequired, g.Name, g.TargetDate.Format("Jan 2006"))
			insight.ActionableAdvice = []string{
				fmt.Sprintf("Keep contributing at least $%.2f per month.", f.MonthlyRequired),
			}
		case f.Feasible:
			insight.Title = "Reachable with cuts: " + g.Name
			insight.Message = fmt.Sprintf("%q needs $%.2f per month, $%.2f more than your current surplus.", g.Name, f.MonthlyRequired, f.Shortfall)
			insight.ActionableAdvice = []string{
				fmt.Sprintf("Redirect $%.2f per month from discretionary spending to close the gap.", f.Shortfall),
			}
		default:
			insight.Title = "Off track: " + g.Name
			insight.Message = fmt.Sprintf("%q needs $%.2f per month but your surplus covers $%.2f.", g.Name, f.MonthlyRequired, surplus)
			insight.ActionableAdvice = []string{
				"Extend the target date or lower the target amount.",
				fmt.Sprintf("The current shortfall is $%.2f per month.", f.Shortfall),
			}
		}
		out = append(out, insight)
	}

	if len(in.Debts) > 0 {
		cmp := goals.CompareStrategies(in.Debts, in.ExtraPayment)
		if cmp.InterestSaved > 0 {
			out = append(out, domain.PersonalizedInsight{
				Type:    domain.InsightSpendingPattern,
				Title:   "Debt payoff strategy",
				Message: fmt.Sprintf("Paying highest-rate debt first (avalanche) saves about $%.2f in interest over snowball.", cmp.InterestSaved),
				ActionableAdvice: []string{
					fmt.Sprintf("Direct extra payments at %s first.", cmp.Avalanche.Debts[0].Debt.Name),
				},
				ConfidenceScore: 0.82,
			})
		}
	}

	scale := 0.5 + clamp01(in.AcceptanceRate)*0.5
	filtered := out[:0]
	for _, ins := range out {
		ins.ConfidenceScore *= scale
		if ins.ConfidenceScore <= domain.InsightConfidenceFloor {
			continue
		}
		ins.ID = uuid.NewString()
		ins.CreatedAt = now
		filtered = append(filtered, ins)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].ConfidenceScore > filtered[j].ConfidenceScore
	})
	return filtered
}

// monthlyCashTotals derives the surplus (income minus expenses) and the
// optional (discretionary) spend over the trailing 30 days.
func monthlyCashTotals(transactions []domain.Transaction, now time.Time) (surplus, optional float64) {
	since := now.AddDate(0, 0, -splitWindowDays)
	var income, expenses float64
	for _, t := range transactions {
		if t.PostedDate.Before(since) || t.PostedDate.After(now) {
			continue
		}
		switch {
		case t.IsIncome():
			income += t.Amount
		case t.IsExpense():
			expenses += math.Abs(t.Amount)
			if t.Tag == domain.TagDiscretionary {
				optional += math.Abs(t.Amount)
			}
		}
	}
	return income - expenses, optional
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
