package repository

import (
	"context"
	"database/sql"
	"time"
)

// SuspectRepo handles the duplicate_suspects review queue. Pairs are unique
// per (a, b) ordering so a rescan never re-queues a pair already recorded.
type SuspectRepo struct {
	db *sql.DB
}

func NewSuspectRepo(db *sql.DB) *SuspectRepo { return &SuspectRepo{db: db} }

// Add queues a suspect pair, ignoring pairs already present.
// Reports whether a new row was written.
func (r *SuspectRepo) Add(ctx context.Context, s DuplicateSuspect) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
	INSERT OR IGNORE INTO duplicate_suspects(id, transaction_a_id, transaction_b_id, similarity, status)
	VALUES(?, ?, ?, ?, 'pending')`,
		s.ID, s.TransactionAID, s.TransactionBID, s.Similarity)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// ListPending returns the pairs awaiting review, most similar first.
func (r *SuspectRepo) ListPending(ctx context.Context) ([]DuplicateSuspect, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT id, transaction_a_id, transaction_b_id, similarity, status, created_at
	FROM duplicate_suspects
	WHERE status = 'pending'
	ORDER BY similarity DESC, created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DuplicateSuspect
	for rows.Next() {
		var s DuplicateSuspect
		var created string
		if err := rows.Scan(&s.ID, &s.TransactionAID, &s.TransactionBID, &s.Similarity, &s.Status, &created); err != nil {
			return nil, err
		}
		if ts, err := time.Parse("2006-01-02 15:04:05", created); err == nil {
			s.CreatedAt = ts
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Resolve marks a suspect pair reviewed.
func (r *SuspectRepo) Resolve(ctx context.Context, id, status string) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE duplicate_suspects SET status = ? WHERE id = ?", status, id)
	return err
}
