package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/go-pkgz/repeater/v2"
	"github.com/jmoiron/sqlx"

	"github.com/umputun/newsboard/pkg/domain"
)

// FetchRepository handles the search log
type FetchRepository struct {
	db *sqlx.DB
}

// fetchRow is the database representation of domain.FetchRecord
type fetchRow struct {
	ID        int64     `db:"id"`
	Session   string    `db:"session"`
	Query     string    `db:"query"`
	Source    string    `db:"source"`
	Status    string    `db:"status"`
	Message   string    `db:"message"`
	Articles  int       `db:"articles"`
	CreatedAt time.Time `db:"created_at"`
}

// NewFetchRepository creates a new fetch repository
func NewFetchRepository(db *sqlx.DB) *FetchRepository {
	return &FetchRepository{db: db}
}

// RecordFetch stores a search outcome, sets ID and CreatedAt of the record.
// Lock errors are retried with backoff.
func (r *FetchRepository) RecordFetch(ctx context.Context, rec *domain.FetchRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	row := fetchRow{
		Session:   rec.Session,
		Query:     rec.Query,
		Source:    rec.Source,
		Status:    string(rec.Status),
		Message:   rec.Message,
		Articles:  rec.Articles,
		CreatedAt: rec.CreatedAt.UTC(),
	}

	query := `
		INSERT INTO fetches (session, query, source, status, message, articles, created_at)
		VALUES (:session, :query, :source, :status, :message, :articles, :created_at)
	`

	retrier := repeater.NewBackoff(5, 50*time.Millisecond, repeater.WithMaxDelay(2*time.Second))
	return retrier.Do(ctx, func() error {
		res, err := r.db.NamedExecContext(ctx, query, row)
		if err != nil {
			if isLockError(err) {
				return err // retry
			}
			return &criticalError{err: fmt.Errorf("record fetch: %w", err)}
		}
		id, err := res.LastInsertId()
		if err != nil {
			return &criticalError{err: fmt.Errorf("get insert id: %w", err)}
		}
		rec.ID = id
		return nil
	}, errCritical)
}

// RecentFetches returns latest records, newest first. Empty session means all sessions.
func (r *FetchRepository) RecentFetches(ctx context.Context, session string, limit int) ([]domain.FetchRecord, error) {
	if limit <= 0 {
		limit = 10
	}

	var rows []fetchRow
	var err error
	if session == "" {
		err = r.db.SelectContext(ctx, &rows, "SELECT * FROM fetches ORDER BY created_at DESC, id DESC LIMIT ?", limit)
	} else {
		err = r.db.SelectContext(ctx, &rows,
			"SELECT * FROM fetches WHERE session = ? ORDER BY created_at DESC, id DESC LIMIT ?", session, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("get recent fetches: %w", err)
	}

	res := make([]domain.FetchRecord, 0, len(rows))
	for _, row := range rows {
		res = append(res, domain.FetchRecord{
			ID:        row.ID,
			Session:   row.Session,
			Query:     row.Query,
			Source:    row.Source,
			Status:    domain.FetchStatus(row.Status),
			Message:   row.Message,
			Articles:  row.Articles,
			CreatedAt: row.CreatedAt,
		})
	}
	return res, nil
}

// DeleteOlderThan removes records created before the given time, returns number of deleted records
func (r *FetchRepository) DeleteOlderThan(ctx context.Context, before time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM fetches WHERE created_at < ?", before.UTC())
	if err != nil {
		return 0, fmt.Errorf("delete old fetches: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("get affected rows: %w", err)
	}
	return n, nil
}
