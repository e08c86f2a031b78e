package store

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/IBE160/SG-Gruppe-14-d2/internal/wbs"
)

// Source supplies the commitments of a negotiation session and records new
// ones accepted by the negotiation layer.
type Source interface {
	List(ctx context.Context, sessionID string) ([]wbs.Commitment, error)
	Record(ctx context.Context, c wbs.Commitment) (wbs.Commitment, error)
	Close() error
}

// Options selects and configures a Source.
type Options struct {
	DatabaseURL string // Postgres DSN; empty selects the file store
	FilePath    string
}

// Open returns a PostgresStore when a DSN is configured, else a FileStore.
func Open(opts Options) (Source, error) {
	if dsn := strings.TrimSpace(opts.DatabaseURL); dsn != "" {
		s, err := NewPostgres(dsn)
		if err != nil {
			return nil, fmt.Errorf("open postgres commitment store: %w", err)
		}
		slog.Debug("commitment store: postgres")
		return s, nil
	}
	slog.Debug("commitment store: file", "path", opts.FilePath)
	return NewFile(opts.FilePath), nil
}

// normalize validates c and fills in the id and timestamp.
func normalize(c wbs.Commitment) (wbs.Commitment, error) {
	c.ActivityID = strings.TrimSpace(c.ActivityID)
	c.SessionID = strings.TrimSpace(c.SessionID)
	if c.ActivityID == "" {
		return wbs.Commitment{}, fmt.Errorf("commitment has no activity id")
	}
	if c.CommittedDuration <= 0 {
		return wbs.Commitment{}, fmt.Errorf("commitment for %s: duration must be positive, got %d", c.ActivityID, c.CommittedDuration)
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.CommittedAt.IsZero() {
		c.CommittedAt = time.Now().UTC()
	}
	return c, nil
}
