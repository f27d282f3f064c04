package sqlite

import (
	"context"
	"fmt"

	"github.com/fwojciec/hndigest"
)

// Compile-time interface verification.
var _ hndigest.SummaryStore = (*SummaryStore)(nil)

// SummaryStore implements hndigest.SummaryStore on the summaries table.
// Rows keep the order of the last saved list.
type SummaryStore struct {
	db *DB
}

// NewSummaryStore creates a new SummaryStore.
func NewSummaryStore(db *DB) *SummaryStore {
	return &SummaryStore{db: db}
}

// LoadSummaries returns all summaries in saved order. An empty table
// yields an empty list, not ENOTFOUND.
func (s *SummaryStore) LoadSummaries(ctx context.Context) ([]*hndigest.Summary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, url, ai_summary, content_hash
		FROM summaries
		ORDER BY position
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []*hndigest.Summary
	for rows.Next() {
		var sum hndigest.Summary
		var id string
		if err := rows.Scan(&id, &sum.Title, &sum.URL, &sum.AISummary, &sum.ContentHash); err != nil {
			return nil, err
		}
		sum.ID = hndigest.ItemID(id)
		summaries = append(summaries, &sum)
	}
	return summaries, rows.Err()
}

// SaveSummaries replaces the table contents with summaries in one
// transaction. Later duplicates of an ID replace earlier ones.
func (s *SummaryStore) SaveSummaries(ctx context.Context, summaries []*hndigest.Summary) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM summaries`); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO summaries (id, position, title, url, ai_summary, content_hash)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, sum := range summaries {
		if sum.ID == "" {
			return hndigest.Errorf(hndigest.EINVALID, "summary %d: id required", i)
		}
		if _, err := stmt.ExecContext(ctx, string(sum.ID), i, sum.Title, sum.URL, sum.AISummary, sum.ContentHash); err != nil {
			return fmt.Errorf("insert summary %s: %w", sum.ID, err)
		}
	}

	return tx.Commit()
}
