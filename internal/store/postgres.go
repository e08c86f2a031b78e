package store

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/IBE160/SG-Gruppe-14-d2/internal/wbs"
)

const sessionCacheSize = 256

// PostgresStore reads and records commitments in the wbs_commitments table.
// Session listings are cached until a commitment is recorded for the session.
type PostgresStore struct {
	db    *sql.DB
	cache *lru.Cache[string, []wbs.Commitment]

	schemaMu    sync.Mutex
	schemaReady bool
}

// NewPostgres opens and pings the database at dsn.
func NewPostgres(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("pgx", strings.TrimSpace(dsn))
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	s, err := newPostgresWithDB(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func newPostgresWithDB(db *sql.DB) (*PostgresStore, error) {
	cache, err := lru.New[string, []wbs.Commitment](sessionCacheSize)
	if err != nil {
		return nil, err
	}
	return &PostgresStore{db: db, cache: cache}, nil
}

// ensureSchema creates the table on first use. A failed attempt is retried
// on the next call.
func (s *PostgresStore) ensureSchema(ctx context.Context) error {
	s.schemaMu.Lock()
	defer s.schemaMu.Unlock()
	if s.schemaReady {
		return nil
	}

	_, err := s.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS wbs_commitments (
  id TEXT PRIMARY KEY,
  session_id TEXT NOT NULL DEFAULT '',
  wbs_id TEXT NOT NULL,
  committed_duration INTEGER NOT NULL CHECK (committed_duration > 0),
  committed_cost DOUBLE PRECISION NOT NULL DEFAULT 0,
  committed_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_wbs_commitments_session_id ON wbs_commitments (session_id);
`)
	if err != nil {
		return err
	}
	s.schemaReady = true
	return nil
}

// List returns the session's commitments ordered by commit time. Callers
// own the returned slice.
func (s *PostgresStore) List(ctx context.Context, sessionID string) ([]wbs.Commitment, error) {
	sessionID = strings.TrimSpace(sessionID)
	if cached, ok := s.cache.Get(sessionID); ok {
		return slices.Clone(cached), nil
	}
	if err := s.ensureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT id, session_id, wbs_id, committed_duration, committed_cost, committed_at
FROM wbs_commitments
WHERE $1 = '' OR session_id = $1
ORDER BY committed_at, id`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query commitments: %w", err)
	}
	defer rows.Close()

	var out []wbs.Commitment
	for rows.Next() {
		c, err := scanCommitment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan commitment: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate commitments: %w", err)
	}

	s.cache.Add(sessionID, slices.Clone(out))
	return out, nil
}

// Record inserts c and invalidates the cached listing of its session.
func (s *PostgresStore) Record(ctx context.Context, c wbs.Commitment) (wbs.Commitment, error) {
	c, err := normalize(c)
	if err != nil {
		return wbs.Commitment{}, err
	}
	if err := s.ensureSchema(ctx); err != nil {
		return wbs.Commitment{}, fmt.Errorf("ensure schema: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
INSERT INTO wbs_commitments (id, session_id, wbs_id, committed_duration, committed_cost, committed_at)
VALUES ($1,$2,$3,$4,$5,$6)`,
		c.ID, c.SessionID, c.ActivityID, c.CommittedDuration, c.CommittedCost, c.CommittedAt)
	if err != nil {
		return wbs.Commitment{}, fmt.Errorf("insert commitment: %w", err)
	}

	s.invalidate(c.SessionID)
	return c, nil
}

// invalidate drops the cached listings a new commitment in sessionID makes
// stale: the session's own and the all-sessions listing.
func (s *PostgresStore) invalidate(sessionID string) {
	s.cache.Remove(sessionID)
	s.cache.Remove("")
}

// Close closes the database handle.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCommitment(row rowScanner) (wbs.Commitment, error) {
	var c wbs.Commitment
	err := row.Scan(&c.ID, &c.SessionID, &c.ActivityID, &c.CommittedDuration, &c.CommittedCost, &c.CommittedAt)
	if err != nil {
		return wbs.Commitment{}, err
	}
	c.CommittedAt = c.CommittedAt.UTC()
	return c, nil
}
