package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/jobradar/jobradar/internal/model"
)

// SQLiteStore is the default JobStore backend, a single jobs table in a
// local SQLite file.
type SQLiteStore struct {
	db *sql.DB
}

const sqliteSchema = `CREATE TABLE IF NOT EXISTS jobs (
	id              TEXT PRIMARY KEY,
	title           TEXT,
	employer        TEXT,
	logo            TEXT,
	city            TEXT,
	state           TEXT,
	country         TEXT,
	description     TEXT,
	apply_link      TEXT,
	is_remote       BOOLEAN NOT NULL DEFAULT 0,
	employment_type TEXT,
	posted_at       TIMESTAMP,
	raw_data        TEXT,
	first_seen      DATETIME DEFAULT CURRENT_TIMESTAMP
)`

// NewSQLiteStore opens (or creates) a SQLite database at dbPath and ensures
// the jobs table exists.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// Writers and readers share the file; serialize access through one
	// connection so an in-progress ingest never trips SQLITE_BUSY on the
	// read path.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite db: %w", err)
	}

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating jobs table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Upsert inserts the job or replaces every field of an existing row with the
// same id. The replace is whole-record: fields absent from the incoming
// record overwrite previously populated ones. first_seen survives the
// conflict so insertion order stays stable across re-fetches.
func (s *SQLiteStore) Upsert(ctx context.Context, job model.Job) error {
	if job.ID == "" {
		return model.ErrMissingID
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO jobs (id, title, employer, logo, city, state, country,
			description, apply_link, is_remote, employment_type, posted_at, raw_data)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title           = excluded.title,
			employer        = excluded.employer,
			logo            = excluded.logo,
			city            = excluded.city,
			state           = excluded.state,
			country         = excluded.country,
			description     = excluded.description,
			apply_link      = excluded.apply_link,
			is_remote       = excluded.is_remote,
			employment_type = excluded.employment_type,
			posted_at       = excluded.posted_at,
			raw_data        = excluded.raw_data`,
		job.ID, job.Title, job.Employer, job.Logo, job.City, job.State,
		job.Country, job.Description, job.ApplyLink, job.IsRemote,
		job.EmploymentType, timeArg(job.PostedAt), job.RawData,
	)
	if err != nil {
		return fmt.Errorf("upserting job %s: %w", job.ID, err)
	}
	return nil
}

// Query returns jobs matching the filter in insertion order. All filters are
// optional and AND-combined; SQLite LIKE is case-insensitive for ASCII.
func (s *SQLiteStore) Query(ctx context.Context, f model.Filter) ([]model.Job, error) {
	query := "SELECT " + jobColumns + " FROM jobs WHERE 1=1"
	var args []any

	if f.Search != "" {
		query += " AND (title LIKE ? OR description LIKE ? OR employer LIKE ?)"
		term := "%" + f.Search + "%"
		args = append(args, term, term, term)
	}
	if f.Location != "" {
		query += " AND (city LIKE ? OR state LIKE ? OR country LIKE ?)"
		term := "%" + f.Location + "%"
		args = append(args, term, term, term)
	}
	if f.Remote != nil {
		query += " AND is_remote = ?"
		args = append(args, *f.Remote)
	}
	if f.EmploymentType != "" {
		query += " AND employment_type LIKE ?"
		args = append(args, "%"+f.EmploymentType+"%")
	}

	query += " ORDER BY first_seen, id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying jobs: %w", err)
	}
	defer rows.Close()

	return scanJobs(rows)
}

// All returns the full corpus in insertion order.
func (s *SQLiteStore) All(ctx context.Context) ([]model.Job, error) {
	return s.Query(ctx, model.Filter{})
}

// Count returns the number of stored jobs.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM jobs").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting jobs: %w", err)
	}
	return n, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

var jobColumns = strings.Join([]string{
	"id", "title", "employer", "logo", "city", "state", "country",
	"description", "apply_link", "is_remote", "employment_type",
	"posted_at", "raw_data",
}, ", ")

func scanJobs(rows *sql.Rows) ([]model.Job, error) {
	var jobs []model.Job
	for rows.Next() {
		var (
			j        model.Job
			postedAt sql.NullTime
		)
		err := rows.Scan(&j.ID, &j.Title, &j.Employer, &j.Logo, &j.City,
			&j.State, &j.Country, &j.Description, &j.ApplyLink, &j.IsRemote,
			&j.EmploymentType, &postedAt, &j.RawData)
		if err != nil {
			return nil, fmt.Errorf("scanning job row: %w", err)
		}
		if postedAt.Valid {
			t := postedAt.Time
			j.PostedAt = &t
		}
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}

// timeArg converts an optional timestamp into a driver-friendly value.
func timeArg(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}
