package goals

import (
	"math"
	"time"

	"github.com/spendwise/spendwise/internal/domain"
)

// feasibleReductionShare is the fraction of optional spending a user is
// assumed able to redirect toward a goal before it is called infeasible.
const feasibleReductionShare = 0.5

// Feasibility is the verdict for a single savings goal.
type Feasibility struct {
	GoalID          string  `json:"goal_id"`
	Feasible        bool    `json:"feasible"`
	WithReduction   bool    `json:"with_reduction"`
	MonthlyRequired float64 `json:"monthly_required"`
	Shortfall       float64 `json:"shortfall"`
	MonthsRemaining int     `json:"months_remaining"`
}

// GoalFeasibility checks whether a goal's remaining amount can be saved by
// its target date given the user's monthly surplus. When the surplus falls
// short, the gap is compared against half of the user's optional spending
// to decide between feasible-with-reduction and infeasible.
func GoalFeasibility(g domain.Goal, monthlySurplus, optionalSpend float64, now time.Time) Feasibility {
	months := monthsUntil(now, g.TargetDate)
	if months < 1 {
		months = 1
	}

	remaining := g.TargetAmount - g.CurrentAmountSaved
	if remaining < 0 {
		remaining = 0
	}
	required := remaining / float64(months)

	f := Feasibility{
		GoalID:          g.GoalID,
		MonthlyRequired: required,
		MonthsRemaining: months,
	}

	if required <= monthlySurplus {
		f.Feasible = true
		return f
	}

	shortfall := required - monthlySurplus
	f.Shortfall = shortfall
	if shortfall <= optionalSpend*feasibleReductionShare {
		f.Feasible = true
		f.WithReduction = true
	}
	return f
}

// GoalProgress returns the post-contribution progress percentage, rounded.
// Over-funded goals report more than 100.
func GoalProgress(current, contribution, target float64) int {
	if target <= 0 {
		return 0
	}
	return int(math.Round((current + contribution) / target * 100))
}

// monthsUntil counts whole calendar months from now to the target date.
func monthsUntil(now, target time.Time) int {
	if !target.After(now) {
		return 0
	}
	months := (target.Year()-now.Year())*12 + int(target.Month()) - int(now.Month())
	if target.Day() < now.Day() {
		months--
	}
	if months < 0 {
		months = 0
	}
	return months
}
