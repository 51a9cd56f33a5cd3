// Package postgres stores resumes, postings and application statuses in
// PostgreSQL.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spigell/jobrank/internal/postings"
	"github.com/spigell/jobrank/internal/profile"
	"github.com/spigell/jobrank/internal/store"
)

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS resumes (
		candidate_id TEXT PRIMARY KEY,
		document     JSONB NOT NULL,
		updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS postings (
		id          TEXT PRIMARY KEY,
		title       TEXT NOT NULL DEFAULT '',
		company     TEXT NOT NULL DEFAULT '',
		location    TEXT NOT NULL DEFAULT '',
		url         TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		date_posted TEXT NOT NULL DEFAULT '',
		experience  TEXT NOT NULL DEFAULT '',
		salary      TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS postings_date_posted ON postings (date_posted)`,
	`ALTER TABLE postings ADD COLUMN IF NOT EXISTS experience TEXT NOT NULL DEFAULT ''`,
	`ALTER TABLE postings ADD COLUMN IF NOT EXISTS salary TEXT NOT NULL DEFAULT ''`,
	`CREATE TABLE IF NOT EXISTS application_status (
		candidate_id TEXT NOT NULL,
		posting_id   TEXT NOT NULL,
		status       TEXT NOT NULL,
		updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (candidate_id, posting_id)
	)`,
}

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool and applies migrations.
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db := &DB{pool: pool}
	if err := db.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return db, nil
}

func (db *DB) migrate(ctx context.Context) error {
	for _, m := range migrations {
		if _, err := db.pool.Exec(ctx, m); err != nil {
			return fmt.Errorf("failed to migrate: %w", err)
		}
	}
	return nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

func (db *DB) Resume(ctx context.Context, candidateID string) (*profile.Resume, error) {
	var document []byte
	err := db.pool.QueryRow(ctx,
		`SELECT document FROM resumes WHERE candidate_id = $1`, candidateID,
	).Scan(&document)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("resume for %q: %w", candidateID, store.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get resume: %w", err)
	}

	var resume profile.Resume
	if err := json.Unmarshal(document, &resume); err != nil {
		return nil, fmt.Errorf("failed to unmarshal resume: %w", err)
	}
	return &resume, nil
}

func (db *DB) SaveResume(ctx context.Context, candidateID string, resume *profile.Resume) error {
	document, err := json.Marshal(resume)
	if err != nil {
		return fmt.Errorf("failed to marshal resume: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO resumes (candidate_id, document) VALUES ($1, $2)
		 ON CONFLICT (candidate_id) DO UPDATE SET document = $2, updated_at = NOW()`,
		candidateID, document,
	)
	if err != nil {
		return fmt.Errorf("failed to save resume: %w", err)
	}
	return nil
}

// Postings returns the postings matching q, newest first.
func (db *DB) Postings(ctx context.Context, q postings.Query) (*postings.Postings, error) {
	query := `SELECT id, title, company, location, url, description, date_posted, experience, salary
		FROM postings
		WHERE ($1::text = '' OR title ILIKE '%' || $1 || '%' OR description ILIKE '%' || $1 || '%')
		  AND ($2::text = '' OR location ILIKE '%' || $2 || '%')
		  AND ($3::text = '' OR date_posted >= $3)
		ORDER BY date_posted DESC, id`
	args := []any{q.Text, q.Location, q.Since}
	if q.Limit > 0 {
		query += ` LIMIT $4`
		args = append(args, q.Limit)
	}

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query postings: %w", err)
	}

	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*postings.Posting, error) {
		p := &postings.Posting{}
		err := row.Scan(&p.ID, &p.Title, &p.Company, &p.Location, &p.URL, &p.Description, &p.DatePosted, &p.Experience, &p.Salary)
		return p, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan postings: %w", err)
	}

	return &postings.Postings{Items: items}, nil
}

// SavePostings upserts items in one batch.
func (db *DB) SavePostings(ctx context.Context, items []*postings.Posting) error {
	batch := &pgx.Batch{}
	for _, p := range items {
		batch.Queue(
			`INSERT INTO postings (id, title, company, location, url, description, date_posted, experience, salary)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			 ON CONFLICT (id) DO UPDATE SET title = $2, company = $3, location = $4,
				url = $5, description = $6, date_posted = $7, experience = $8, salary = $9`,
			p.ID, p.Title, p.Company, p.Location, p.URL, p.Description, p.DatePosted, p.Experience, p.Salary,
		)
	}

	if err := db.pool.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to save postings: %w", err)
	}
	return nil
}

func (db *DB) Status(ctx context.Context, candidateID, postingID string) (string, error) {
	var status string
	err := db.pool.QueryRow(ctx,
		`SELECT status FROM application_status WHERE candidate_id = $1 AND posting_id = $2`,
		candidateID, postingID,
	).Scan(&status)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", store.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get status: %w", err)
	}
	return status, nil
}

func (db *DB) SetStatus(ctx context.Context, candidateID, postingID, status string) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO application_status (candidate_id, posting_id, status) VALUES ($1, $2, $3)
		 ON CONFLICT (candidate_id, posting_id) DO UPDATE SET status = $3, updated_at = NOW()`,
		candidateID, postingID, status,
	)
	if err != nil {
		return fmt.Errorf("failed to set status: %w", err)
	}
	return nil
}

// Applied returns the sorted IDs of postings with a non-pending status.
func (db *DB) Applied(ctx context.Context, candidateID string) ([]string, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT posting_id FROM application_status
		 WHERE candidate_id = $1 AND status <> $2 ORDER BY posting_id`,
		candidateID, postings.StatusPending,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query applied: %w", err)
	}

	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to scan applied: %w", err)
	}
	return ids, nil
}
