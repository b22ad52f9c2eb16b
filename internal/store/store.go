// Package store defines the repository interfaces over the Supabase
// Postgres database. The pipeline only needs row CRUD; everything else is
// computed in memory over a snapshot fetched per request.
package store

import (
	"context"

	"github.com/spendwise/spendwise/internal/domain"
)

// TransactionPatch carries a user-driven correction. Nil fields are left
// untouched.
type TransactionPatch struct {
	Category    *string     `json:"category,omitempty"`
	Subcategory *string     `json:"subcategory,omitempty"`
	Tag         *domain.Tag `json:"tag,omitempty"`
}

// TransactionRepository is the row store for transactions.
type TransactionRepository interface {
	ListByUser(ctx context.Context, userID string) ([]domain.Transaction, error)
	Insert(ctx context.Context, transactions []domain.Transaction) error
	Update(ctx context.Context, id string, patch TransactionPatch) error
}

// FeedbackRepository tracks suggestion accept/reject events so insight
// confidence can be scaled by the user's historical acceptance rate.
type FeedbackRepository interface {
	RecordFeedback(ctx context.Context, userID string, accepted bool) error
	// AcceptanceRate returns the fraction of accepted suggestions in [0,1],
	// or 1 when the user has no feedback history yet.
	AcceptanceRate(ctx context.Context, userID string) (float64, error)
}
