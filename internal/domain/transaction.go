// Package domain defines the core types shared across the insight pipeline.
package domain

import (
	"time"
)

// Tag is the coarse two-way spending classification used by the budgeting
// features. Empty means the transaction has not been tagged yet.
type Tag string

const (
	TagEssential     Tag = "essential"
	TagDiscretionary Tag = "discretionary"
)

// Transaction is one normalized bank transaction. Amount is signed:
// negative for money out, positive for money in. Once categorized a
// transaction is only mutated by user corrections to Category/Tag.
type Transaction struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	AccountID   string    `json:"account_id"`
	Amount      float64   `json:"amount"`
	Description string    `json:"description"`
	PostedDate  time.Time `json:"posted_date"`
	Category    string    `json:"category,omitempty"`
	Subcategory string    `json:"subcategory,omitempty"`
	Tag         Tag       `json:"tag,omitempty"`
	Balance     *float64  `json:"balance,omitempty"`
}

// IsExpense reports whether the transaction is money out.
func (t Transaction) IsExpense() bool {
	return t.Amount < 0
}

// IsIncome reports whether the transaction is money in.
func (t Transaction) IsIncome() bool {
	return t.Amount > 0
}
