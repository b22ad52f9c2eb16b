// Package postgres implements the store repositories against the Supabase
// Postgres database over the standard database/sql driver.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"github.com/spendwise/spendwise/internal/domain"
	"github.com/spendwise/spendwise/internal/store"
)

// Store holds the shared connection pool. One Store serves all
// repositories; Close releases the pool.
type Store struct {
	db *sql.DB
}

// Open connects to the database and verifies the connection.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres.Open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetConnMaxIdleTime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("postgres.Open: ping: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// ListByUser returns all transactions for a user, newest first.
func (s *Store) ListByUser(ctx context.Context, userID string) ([]domain.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, account_id, amount, description, posted_date,
		       COALESCE(category, ''), COALESCE(subcategory, ''), COALESCE(tag, ''), balance
		FROM transactions
		WHERE user_id = $1
		ORDER BY posted_date DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("ListByUser: query: %w", err)
	}
	defer rows.Close()

	var out []domain.Transaction
	for rows.Next() {
		var t domain.Transaction
		var tag string
		var balance sql.NullFloat64
		if err := rows.Scan(&t.ID, &t.UserID, &t.AccountID, &t.Amount, &t.Description,
			&t.PostedDate, &t.Category, &t.Subcategory, &tag, &balance); err != nil {
			return nil, fmt.Errorf("ListByUser: scan: %w", err)
		}
		t.Tag = domain.Tag(tag)
		if balance.Valid {
			b := balance.Float64
			t.Balance = &b
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListByUser: rows: %w", err)
	}
	return out, nil
}

// Insert writes a batch of transactions, generating IDs where missing.
func (s *Store) Insert(ctx context.Context, transactions []domain.Transaction) error {
	if len(transactions) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("Insert: begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO transactions
			(id, user_id, account_id, amount, description, posted_date, category, subcategory, tag, balance)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NULLIF($9, ''), $10)`)
	if err != nil {
		return fmt.Errorf("Insert: prepare: %w", err)
	}
	defer stmt.Close()

	for _, t := range transactions {
		if t.ID == "" {
			t.ID = uuid.NewString()
		}
		var balance interface{}
		if t.Balance != nil {
			balance = *t.Balance
		}
		if _, err := stmt.ExecContext(ctx, t.ID, t.UserID, t.AccountID, t.Amount,
			t.Description, t.PostedDate, t.Category, t.Subcategory, string(t.Tag), balance); err != nil {
			return fmt.Errorf("Insert: exec: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("Insert: commit: %w", err)
	}
	return nil
}

// Update applies a user correction to a single transaction.
func (s *Store) Update(ctx context.Context, id string, patch store.TransactionPatch) error {
	sets := make([]string, 0, 3)
	args := make([]interface{}, 0, 4)

	if patch.Category != nil {
		args = append(args, *patch.Category)
		sets = append(sets, fmt.Sprintf("category = $%d", len(args)))
	}
	if patch.Subcategory != nil {
		args = append(args, *patch.Subcategory)
		sets = append(sets, fmt.Sprintf("subcategory = $%d", len(args)))
	}
	if patch.Tag != nil {
		args = append(args, string(*patch.Tag))
		sets = append(sets, fmt.Sprintf("tag = NULLIF($%d, '')", len(args)))
	}
	if len(sets) == 0 {
		return nil
	}

	args = append(args, id)
	query := fmt.Sprintf("UPDATE transactions SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("Update: exec: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("Update: transaction %s not found", id)
	}
	return nil
}

// Load returns learned patterns at or above the confidence threshold.
// Negative patterns are always included regardless of threshold.
func (s *Store) Load(ctx context.Context, minConfidence float64) ([]domain.LearnedPattern, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT pattern, category, COALESCE(subcategory, ''), kind, confidence, occurrences, last_seen
		FROM learned_patterns
		WHERE confidence >= $1 OR kind = $2`,
		minConfidence, string(domain.PatternNegative))
	if err != nil {
		return nil, fmt.Errorf("Load: query: %w", err)
	}
	defer rows.Close()

	var out []domain.LearnedPattern
	for rows.Next() {
		var p domain.LearnedPattern
		var kind string
		if err := rows.Scan(&p.Pattern, &p.Category, &p.Subcategory, &kind,
			&p.Confidence, &p.Occurrences, &p.LastSeen); err != nil {
			return nil, fmt.Errorf("Load: scan: %w", err)
		}
		p.Kind = domain.PatternKind(kind)
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("Load: rows: %w", err)
	}
	return out, nil
}

// Save upserts a learned pattern keyed by (pattern, category, subcategory).
func (s *Store) Save(ctx context.Context, p domain.LearnedPattern) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO learned_patterns (pattern, category, subcategory, kind, confidence, occurrences, last_seen)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (pattern, category, subcategory) DO UPDATE
		SET kind = EXCLUDED.kind,
		    confidence = EXCLUDED.confidence,
		    occurrences = EXCLUDED.occurrences,
		    last_seen = EXCLUDED.last_seen`,
		p.Pattern, p.Category, p.Subcategory, string(p.Kind), p.Confidence, p.Occurrences, p.LastSeen)
	if err != nil {
		return fmt.Errorf("Save: exec: %w", err)
	}
	return nil
}

// Delete removes a learned pattern.
func (s *Store) Delete(ctx context.Context, pattern, category, subcategory string) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM learned_patterns
		WHERE pattern = $1 AND category = $2 AND subcategory = $3`,
		pattern, category, subcategory)
	if err != nil {
		return fmt.Errorf("Delete: exec: %w", err)
	}
	return nil
}

// RecordFeedback appends one accept/reject event.
func (s *Store) RecordFeedback(ctx context.Context, userID string, accepted bool) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO suggestion_feedback (id, user_id, accepted, created_at)
		VALUES ($1, $2, $3, $4)`,
		uuid.NewString(), userID, accepted, time.Now())
	if err != nil {
		return fmt.Errorf("RecordFeedback: exec: %w", err)
	}
	return nil
}

// AcceptanceRate returns the fraction of accepted suggestions, or 1 when the
// user has no history.
func (s *Store) AcceptanceRate(ctx context.Context, userID string) (float64, error) {
	var total, accepted int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE accepted)
		FROM suggestion_feedback
		WHERE user_id = $1`, userID).Scan(&total, &accepted)
	if err != nil {
		return 0, fmt.Errorf("AcceptanceRate: query: %w", err)
	}
	if total == 0 {
		return 1, nil
	}
	return float64(accepted) / float64(total), nil
}

// Interface checks.
var (
	_ store.TransactionRepository = (*Store)(nil)
	_ store.FeedbackRepository    = (*Store)(nil)
)
