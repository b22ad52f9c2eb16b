package goals

import (
	"math"
	"testing"
)

func TestLoanPayment(t *testing.T) {
	tests := []struct {
		name      string
		principal string
		rate      string
		years     string
		want      float64
		tolerance float64
	}{
		{"standard car loan", "25000", "5.5", "5", 477.53, 0.1},
		{"thirty year mortgage", "300000", "6", "30", 1798.65, 0.5},
		{"empty principal", "", "5.5", "5", 0, 0},
		{"non-numeric rate", "25000", "abc", "5", 0, 0},
		{"zero term", "25000", "5.5", "0", 0, 0},
		{"negative principal", "-1000", "5.5", "5", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LoanPayment(tt.principal, tt.rate, tt.years)
			if math.Abs(got-tt.want) > tt.tolerance {
				t.Errorf("LoanPayment(%q, %q, %q) = %v, want %v", tt.principal, tt.rate, tt.years, got, tt.want)
			}
		})
	}
}

func TestDebtPayoffMonths(t *testing.T) {
	t.Run("credit card fixture", func(t *testing.T) {
		got := DebtPayoffMonths(4200, 105, 18.9)
		if got <= 20 || got >= 60 {
			t.Errorf("Expected months in (20, 60), got %v", got)
		}
	})

	t.Run("zero rate divides evenly", func(t *testing.T) {
		if got := DebtPayoffMonths(1200, 100, 0); got != 12 {
			t.Errorf("Expected 12 months, got %v", got)
		}
	})

	t.Run("zero rate rounds up", func(t *testing.T) {
		if got := DebtPayoffMonths(1250, 100, 0); got != 13 {
			t.Errorf("Expected 13 months, got %v", got)
		}
	})

	t.Run("zero balance", func(t *testing.T) {
		if got := DebtPayoffMonths(0, 100, 10); got != 0 {
			t.Errorf("Expected 0 months, got %v", got)
		}
	})

	t.Run("zero payment", func(t *testing.T) {
		if got := DebtPayoffMonths(1000, 0, 10); got != 0 {
			t.Errorf("Expected 0 months, got %v", got)
		}
	})
}

// The sentinel fires exactly when the payment fails to cover one month of
// interest.
func TestDebtPayoffMonths_NeverPaysOff(t *testing.T) {
	// 6000 at 24% APR accrues $120/month.
	if got := DebtPayoffMonths(6000, 120, 24); got != NeverPaysOffMonths {
		t.Errorf("Expected sentinel at payment == interest, got %v", got)
	}
	if got := DebtPayoffMonths(6000, 119, 24); got != NeverPaysOffMonths {
		t.Errorf("Expected sentinel below interest, got %v", got)
	}
	if got := DebtPayoffMonths(6000, 121, 24); got == NeverPaysOffMonths {
		t.Error("Expected convergence just above interest")
	}
}

func TestDebtPayoffMonths_MonotonicInPayment(t *testing.T) {
	prev := math.Inf(1)
	for _, payment := range []float64{110, 150, 200, 300, 500} {
		got := DebtPayoffMonths(4200, payment, 18.9)
		if got >= prev {
			t.Errorf("Expected months to decrease as payment grows, got %v after %v", got, prev)
		}
		prev = got
	}
}

func TestTotalInterest(t *testing.T) {
	t.Run("zero rate has zero interest at even split", func(t *testing.T) {
		if got := TotalInterest(1200, 100, 0); got != 0 {
			t.Errorf("Expected 0 interest, got %v", got)
		}
	})

	t.Run("never pays off placeholder", func(t *testing.T) {
		if got := TotalInterest(6000, 100, 24); got != 60000 {
			t.Errorf("Expected balance*10 placeholder, got %v", got)
		}
	})

	t.Run("zero balance", func(t *testing.T) {
		if got := TotalInterest(0, 100, 10); got != 0 {
			t.Errorf("Expected 0, got %v", got)
		}
	})
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"100.50", 100.50},
		{"  42 ", 42},
		{"", 0},
		{"abc", 0},
		{"NaN", 0},
		{"Inf", 0},
		{"-5", -5},
	}

	for _, tt := range tests {
		if got := parseAmount(tt.in); got != tt.want {
			t.Errorf("parseAmount(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
