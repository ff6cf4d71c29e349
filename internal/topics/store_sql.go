package topics

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// SQLStore persists topics in the "topics" table, ordered by position.
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) List(ctx context.Context) ([]Topic, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT title, description FROM topics ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("list topics: %w", err)
	}
	defer rows.Close()
	var out []Topic
	for rows.Next() {
		var t Topic
		if err := rows.Scan(&t.Title, &t.Description); err != nil {
			return nil, fmt.Errorf("scan topic: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Replace swaps the whole list in one transaction.
func (s *SQLStore) Replace(ctx context.Context, list []Topic) (err error) {
	list = Clean(list)
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM topics`); err != nil {
		return fmt.Errorf("clear topics: %w", err)
	}
	now := time.Now().Unix()
	for i, t := range list {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO topics (position, title, description, updated_at) VALUES ($1,$2,$3,$4)`,
			i+1, t.Title, t.Description, now); err != nil {
			return fmt.Errorf("insert topic %d: %w", i+1, err)
		}
	}
	return nil
}
