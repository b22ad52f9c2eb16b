package domain

import (
	"time"
)

// Goal is a user-entered savings goal. CurrentAmountSaved only moves up
// through contributions; manual resets are not modeled.
type Goal struct {
	GoalID              string    `json:"goal_id"`
	Name                string    `json:"name"`
	TargetAmount        float64   `json:"target_amount"`
	CurrentAmountSaved  float64   `json:"current_amount_saved"`
	TargetDate          time.Time `json:"target_date"`
	MonthlyContribution float64   `json:"monthly_contribution"`
	Priority            int       `json:"priority"`
	Category            string    `json:"category,omitempty"`
}

// Debt is a read-only input to the payoff calculators. InterestRate is an
// annual percentage, e.g. 18.9 for 18.9% APR.
type Debt struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Balance      float64   `json:"balance"`
	MinPayment   float64   `json:"min_payment"`
	InterestRate float64   `json:"interest_rate"`
	PayoffDate   time.Time `json:"payoff_date,omitzero"`
}
