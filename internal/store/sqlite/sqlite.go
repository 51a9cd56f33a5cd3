// Package sqlite stores resumes, postings and application statuses in a local
// SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/spigell/jobrank/internal/postings"
	"github.com/spigell/jobrank/internal/profile"
	"github.com/spigell/jobrank/internal/store"
)

const schema = `
CREATE TABLE IF NOT EXISTS resumes (
	candidate_id TEXT PRIMARY KEY,
	document     TEXT NOT NULL,
	updated_at   TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS postings (
	id          TEXT PRIMARY KEY,
	title       TEXT NOT NULL DEFAULT '',
	company     TEXT NOT NULL DEFAULT '',
	location    TEXT NOT NULL DEFAULT '',
	url         TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	date_posted TEXT NOT NULL DEFAULT '',
	experience  TEXT NOT NULL DEFAULT '',
	salary      TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS postings_date_posted ON postings (date_posted);
CREATE TABLE IF NOT EXISTS application_status (
	candidate_id TEXT NOT NULL,
	posting_id   TEXT NOT NULL,
	status       TEXT NOT NULL,
	updated_at   TEXT NOT NULL,
	PRIMARY KEY (candidate_id, posting_id)
);`

// postingColumns were added after the first schema; older files get them on
// open.
var postingColumns = []string{"experience", "salary"}

type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path and applies the schema.
func Open(ctx context.Context, path string) (*Store, error) {
	// modernc sqlite uses DSN like: file:foo.db?_pragma=busy_timeout(5000)
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}

	// sqlite wants a single writer
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite %s: %w", path, err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate sqlite %s: %w", path, err)
	}
	if err := addPostingColumns(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate sqlite %s: %w", path, err)
	}

	return &Store{db: db}, nil
}

func addPostingColumns(ctx context.Context, db *sql.DB) error {
	for _, column := range postingColumns {
		var n int
		err := db.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM pragma_table_info('postings') WHERE name = ?`, column,
		).Scan(&n)
		if err != nil {
			return fmt.Errorf("inspect postings.%s: %w", column, err)
		}
		if n > 0 {
			continue
		}
		if _, err := db.ExecContext(ctx,
			fmt.Sprintf(`ALTER TABLE postings ADD COLUMN %s TEXT NOT NULL DEFAULT ''`, column),
		); err != nil {
			return fmt.Errorf("add postings.%s: %w", column, err)
		}
	}
	return nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) Resume(ctx context.Context, candidateID string) (*profile.Resume, error) {
	var document string
	err := s.db.QueryRowContext(ctx,
		`SELECT document FROM resumes WHERE candidate_id = ?`, candidateID,
	).Scan(&document)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("resume for %q: %w", candidateID, store.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get resume %q: %w", candidateID, err)
	}

	var resume profile.Resume
	if err := json.Unmarshal([]byte(document), &resume); err != nil {
		return nil, fmt.Errorf("decode resume %q: %w", candidateID, err)
	}
	return &resume, nil
}

func (s *Store) SaveResume(ctx context.Context, candidateID string, resume *profile.Resume) error {
	document, err := json.Marshal(resume)
	if err != nil {
		return fmt.Errorf("encode resume %q: %w", candidateID, err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO resumes (candidate_id, document, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT (candidate_id) DO UPDATE SET document = excluded.document, updated_at = excluded.updated_at`,
		candidateID, string(document), now(),
	)
	if err != nil {
		return fmt.Errorf("save resume %q: %w", candidateID, err)
	}
	return nil
}

// Postings returns the postings matching q, newest first.
func (s *Store) Postings(ctx context.Context, q postings.Query) (*postings.Postings, error) {
	query := `SELECT id, title, company, location, url, description, date_posted, experience, salary
		FROM postings
		WHERE (?1 = '' OR instr(lower(title), lower(?1)) > 0 OR instr(lower(description), lower(?1)) > 0)
		  AND (?2 = '' OR instr(lower(location), lower(?2)) > 0)
		  AND (?3 = '' OR date_posted >= ?3)
		ORDER BY date_posted DESC, id`
	args := []any{q.Text, q.Location, q.Since}
	if q.Limit > 0 {
		query += ` LIMIT ?4`
		args = append(args, q.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query postings: %w", err)
	}
	defer rows.Close()

	out := &postings.Postings{}
	for rows.Next() {
		p := &postings.Posting{}
		if err := rows.Scan(&p.ID, &p.Title, &p.Company, &p.Location, &p.URL, &p.Description, &p.DatePosted, &p.Experience, &p.Salary); err != nil {
			return nil, fmt.Errorf("scan posting: %w", err)
		}
		out.Items = append(out.Items, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate postings: %w", err)
	}

	return out, nil
}

// SavePostings upserts items in one transaction.
func (s *Store) SavePostings(ctx context.Context, items []*postings.Posting) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO postings (id, title, company, location, url, description, date_posted, experience, salary)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET
			title = excluded.title, company = excluded.company, location = excluded.location,
			url = excluded.url, description = excluded.description, date_posted = excluded.date_posted,
			experience = excluded.experience, salary = excluded.salary`)
	if err != nil {
		return fmt.Errorf("prepare posting upsert: %w", err)
	}
	defer stmt.Close()

	for _, p := range items {
		if _, err := stmt.ExecContext(ctx, p.ID, p.Title, p.Company, p.Location, p.URL, p.Description, p.DatePosted, p.Experience, p.Salary); err != nil {
			return fmt.Errorf("save posting %q: %w", p.ID, err)
		}
	}

	return tx.Commit()
}

func (s *Store) Status(ctx context.Context, candidateID, postingID string) (string, error) {
	var status string
	err := s.db.QueryRowContext(ctx,
		`SELECT status FROM application_status WHERE candidate_id = ? AND posting_id = ?`,
		candidateID, postingID,
	).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return "", store.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get status: %w", err)
	}
	return status, nil
}

func (s *Store) SetStatus(ctx context.Context, candidateID, postingID, status string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO application_status (candidate_id, posting_id, status, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT (candidate_id, posting_id) DO UPDATE SET status = excluded.status, updated_at = excluded.updated_at`,
		candidateID, postingID, status, now(),
	)
	if err != nil {
		return fmt.Errorf("set status: %w", err)
	}
	return nil
}

// Applied returns the sorted IDs of postings with a non-pending status.
func (s *Store) Applied(ctx context.Context, candidateID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT posting_id FROM application_status
		 WHERE candidate_id = ? AND status <> ? ORDER BY posting_id`,
		candidateID, postings.StatusPending,
	)
	if err != nil {
		return nil, fmt.Errorf("query applied: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan applied: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}
