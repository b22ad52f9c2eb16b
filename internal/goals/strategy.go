package goals

import (
	"sort"

	"github.com/spendwise/spendwise/internal/domain"
)

// Strategy names a debt-payoff ordering.
type Strategy string

const (
	// StrategySnowball pays the smallest balance first (motivational).
	StrategySnowball Strategy = "snowball"
	// StrategyAvalanche pays the highest interest rate first (cost-optimal).
	StrategyAvalanche Strategy = "avalanche"
)

// DebtPlan is the projected payoff for a single debt within a strategy.
// Months is cumulative: it reflects total elapsed time since the start of
// the plan, not months in isolation.
type DebtPlan struct {
	Debt          domain.Debt `json:"debt"`
	Payment       float64     `json:"payment"`
	Months        float64     `json:"months"`
	TotalInterest float64     `json:"total_interest"`
}

// StrategyResult is the projected outcome of applying a payoff ordering.
type StrategyResult struct {
	Strategy      Strategy   `json:"strategy"`
	Debts         []DebtPlan `json:"debts"`
	TotalMonths   float64    `json:"total_months"`
	TotalInterest float64    `json:"total_interest"`
}

// StrategyComparison pairs both orderings for the same debt set.
type StrategyComparison struct {
	Snowball      StrategyResult `json:"snowball"`
	Avalanche     StrategyResult `json:"avalanche"`
	InterestSaved float64        `json:"interest_saved"`
}

// Snowball orders debts ascending by balance and applies the cascading
// payment plan with extraAmount directed at the first debt.
func Snowball(debts []domain.Debt, extraAmount float64) StrategyResult {
	ordered := make([]domain.Debt, len(debts))
	copy(ordered, debts)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Balance < ordered[j].Balance
	})
	return cascade(StrategySnowball, ordered, extraAmount)
}

// Avalanche orders debts descending by interest rate and applies the same
// cascading plan.
func Avalanche(debts []domain.Debt, extraAmount float64) StrategyResult {
	ordered := make([]domain.Debt, len(debts))
	copy(ordered, debts)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].InterestRate > ordered[j].InterestRate
	})
	return cascade(StrategyAvalanche, ordered, extraAmount)
}

// CompareStrategies runs both orderings and reports the interest delta
// (positive when avalanche is cheaper).
func CompareStrategies(debts []domain.Debt, extraAmount float64) StrategyComparison {
	snow := Snowball(debts, extraAmount)
	aval := Avalanche(debts, extraAmount)
	return StrategyComparison{
		Snowball:      snow,
		Avalanche:     aval,
		InterestSaved: snow.TotalInterest - aval.TotalInterest,
	}
}

// cascade applies the rolling-payment plan to an already-ordered debt list.
// The first debt gets its minimum plus the extra amount; each later debt is
// projected at its own minimum. Once a debt clears, its minimum rolls into
// the pool available for the next one, which the plan accounts for by
// accumulating elapsed months across the sequence.
func cascade(strategy Strategy, ordered []domain.Debt, extraAmount float64) StrategyResult {
	result := StrategyResult{Strategy: strategy}
	extraPool := extraAmount

	var cumulativeMonths float64
	for i, d := range ordered {
		payment := d.MinPayment
		if i == 0 {
			payment += extraPool
		}

		months := DebtPayoffMonths(d.Balance, payment, d.InterestRate)
		interest := TotalInterest(d.Balance, payment, d.InterestRate)

		if months != NeverPaysOffMonths {
			cumulativeMonths += months
		} else {
			cumulativeMonths = NeverPaysOffMonths
		}

		result.Debts = append(result.Debts, DebtPlan{
			Debt:          d,
			Payment:       payment,
			Months:        cumulativeMonths,
			TotalInterest: interest,
		})
		result.TotalInterest += interest
		if cumulativeMonths > result.TotalMonths {
			result.TotalMonths = cumulativeMonths
		}

		// This debt's minimum joins the pool once it clears.
		extraPool += d.MinPayment
	}

	return result
}
