package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jobradar/jobradar/internal/model"
)

// PostgresStore is the JobStore backend used when a DATABASE_URL is
// configured. Same table shape and upsert contract as the SQLite backend.
type PostgresStore struct {
	pool *pgxpool.Pool
}

const postgresSchema = `CREATE TABLE IF NOT EXISTS jobs (
	id              TEXT PRIMARY KEY,
	title           TEXT,
	employer        TEXT,
	logo            TEXT,
	city            TEXT,
	state           TEXT,
	country         TEXT,
	description     TEXT,
	apply_link      TEXT,
	is_remote       BOOLEAN NOT NULL DEFAULT FALSE,
	employment_type TEXT,
	posted_at       TIMESTAMPTZ,
	raw_data        TEXT,
	first_seen      TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// NewPostgresStore connects to databaseURL and ensures the jobs table exists.
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}

	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("creating jobs table: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

// Upsert inserts the job or replaces every field of an existing row with the
// same id (whole-record replace, see SQLiteStore.Upsert).
func (s *PostgresStore) Upsert(ctx context.Context, job model.Job) error {
	if job.ID == "" {
		return model.ErrMissingID
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO jobs (id, title, employer, logo, city, state, country,
			description, apply_link, is_remote, employment_type, posted_at, raw_data)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (id) DO UPDATE SET
			title           = EXCLUDED.title,
			employer        = EXCLUDED.employer,
			logo            = EXCLUDED.logo,
			city            = EXCLUDED.city,
			state           = EXCLUDED.state,
			country         = EXCLUDED.country,
			description     = EXCLUDED.description,
			apply_link      = EXCLUDED.apply_link,
			is_remote       = EXCLUDED.is_remote,
			employment_type = EXCLUDED.employment_type,
			posted_at       = EXCLUDED.posted_at,
			raw_data        = EXCLUDED.raw_data`,
		job.ID, job.Title, job.Employer, job.Logo, job.City, job.State,
		job.Country, job.Description, job.ApplyLink, job.IsRemote,
		job.EmploymentType, job.PostedAt, job.RawData,
	)
	if err != nil {
		return fmt.Errorf("upserting job %s: %w", job.ID, err)
	}
	return nil
}

// Query returns jobs matching the filter in insertion order.
func (s *PostgresStore) Query(ctx context.Context, f model.Filter) ([]model.Job, error) {
	var (
		conds []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.Search != "" {
		p := arg("%" + f.Search + "%")
		conds = append(conds, fmt.Sprintf("(title ILIKE %[1]s OR description ILIKE %[1]s OR employer ILIKE %[1]s)", p))
	}
	if f.Location != "" {
		p := arg("%" + f.Location + "%")
		conds = append(conds, fmt.Sprintf("(city ILIKE %[1]s OR state ILIKE %[1]s OR country ILIKE %[1]s)", p))
	}
	if f.Remote != nil {
		conds = append(conds, "is_remote = "+arg(*f.Remote))
	}
	if f.EmploymentType != "" {
		conds = append(conds, "employment_type ILIKE "+arg("%"+f.EmploymentType+"%"))
	}

	query := "SELECT " + jobColumns + " FROM jobs"
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY first_seen, id"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying jobs: %w", err)
	}
	defer rows.Close()

	var jobs []model.Job
	for rows.Next() {
		var (
			j        model.Job
			postedAt *time.Time
		)
		err := rows.Scan(&j.ID, &j.Title, &j.Employer, &j.Logo, &j.City,
			&j.State, &j.Country, &j.Description, &j.ApplyLink, &j.IsRemote,
			&j.EmploymentType, &postedAt, &j.RawData)
		if err != nil {
			return nil, fmt.Errorf("scanning job row: %w", err)
		}
		j.PostedAt = postedAt
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}

// All returns the full corpus in insertion order.
func (s *PostgresStore) All(ctx context.Context) ([]model.Job, error) {
	return s.Query(ctx, model.Filter{})
}

// Count returns the number of stored jobs.
func (s *PostgresStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.pool.QueryRow(ctx, "SELECT COUNT(*) FROM jobs").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting jobs: %w", err)
	}
	return n, nil
}

// Close releases the connection pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
