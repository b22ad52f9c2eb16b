// Package goals implements the loan, debt-payoff and goal-feasibility math.
// The calculators are pure functions; invalid input produces documented
// sentinels (0 or NeverPaysOffMonths) rather than errors, so callers must
// treat those values as "no answer", not absence of error.
package goals

import (
	"math"
	"strconv"
	"strings"
)

const (
	// NeverPaysOffMonths is the sentinel returned when the payment does not
	// cover monthly interest. It is an explicit "infinite" marker, never a
	// real month count.
	NeverPaysOffMonths = 999

	// neverPaysOffInterestFactor sizes the placeholder interest figure for
	// the non-convergent case (balance * factor). It is a large placeholder
	// for ranking purposes, not a real financial figure.
	neverPaysOffInterestFactor = 10
)

// parseAmount converts a user-entered numeric string to a float. Anything
// non-numeric yields 0.
func parseAmount(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// LoanPayment computes the standard amortized monthly payment
// P*r*(1+r)^n / ((1+r)^n - 1) from user-entered strings. Returns 0 when any
// input is missing, non-numeric or zero.
func LoanPayment(principal, annualRatePct, termYears string) float64 {
	p := parseAmount(principal)
	rate := parseAmount(annualRatePct)
	years := parseAmount(termYears)
	if p <= 0 || rate <= 0 || years <= 0 {
		return 0
	}

	r := rate / 100 / 12
	n := years * 12
	factor := math.Pow(1+r, n)
	return p * r * factor / (factor - 1)
}

// DebtPayoffMonths returns the number of months needed to clear a balance at
// the given monthly payment and annual percentage rate. When the payment
// does not cover the monthly interest the debt never pays off and the
// NeverPaysOffMonths sentinel is returned.
func DebtPayoffMonths(balance, payment, annualRatePct float64) float64 {
	if balance <= 0 || payment <= 0 {
		return 0
	}
	r := annualRatePct / 100 / 12
	if r <= 0 {
		return math.Ceil(balance / payment)
	}
	if payment <= balance*r {
		return NeverPaysOffMonths
	}
	return math.Log(1+balance*r/payment) / math.Log(1+r)
}

// TotalInterest returns payment*months - balance for a convergent payoff.
// For the never-pays-off case it returns balance*10, an intentionally
// approximate placeholder.
func TotalInterest(balance, payment, annualRatePct float64) float64 {
	months := DebtPayoffMonths(balance, payment, annualRatePct)
	if months == 0 {
		return 0
	}
	if months == NeverPaysOffMonths {
		return balance * neverPaysOffInterestFactor
	}
	return payment*months - balance
}
