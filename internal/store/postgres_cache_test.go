package store

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IBE160/SG-Gruppe-14-d2/internal/wbs"
)

func TestPostgresStore_CachedListIsACopy(t *testing.T) {
	s, err := newPostgresWithDB(nil)
	require.NoError(t, err)
	s.cache.Add("s1", []wbs.Commitment{{SessionID: "s1", ActivityID: "1.3.1", CommittedDuration: 5}})

	ctx := context.Background()
	got, err := s.List(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	got[0].CommittedDuration = 99

	again, err := s.List(ctx, " s1 ")
	require.NoError(t, err)
	require.Len(t, again, 1)
	assert.Equal(t, 5, again[0].CommittedDuration)
}

func TestPostgresStore_InvalidateDropsSessionAndAll(t *testing.T) {
	s, err := newPostgresWithDB(nil)
	require.NoError(t, err)
	s.cache.Add("s1", []wbs.Commitment{{ActivityID: "a", CommittedDuration: 1}})
	s.cache.Add("s2", []wbs.Commitment{{ActivityID: "b", CommittedDuration: 2}})
	s.cache.Add("", []wbs.Commitment{{ActivityID: "a", CommittedDuration: 1}})

	s.invalidate("s1")

	assert.False(t, s.cache.Contains("s1"))
	assert.False(t, s.cache.Contains(""))
	assert.True(t, s.cache.Contains("s2"))
}

func TestPostgresStore_SchemaRetriedAfterFailure(t *testing.T) {
	conn := &flakyConnector{failures: 1}
	db := sql.OpenDB(conn)
	defer db.Close()

	s, err := newPostgresWithDB(db)
	require.NoError(t, err)

	ctx := context.Background()
	assert.Error(t, s.ensureSchema(ctx))
	assert.NoError(t, s.ensureSchema(ctx))
	assert.NoError(t, s.ensureSchema(ctx))
	assert.Equal(t, 2, conn.execCount())
}

// flakyConnector is a database/sql connector whose first Exec calls fail.
type flakyConnector struct {
	mu       sync.Mutex
	failures int
	execs    int
}

func (c *flakyConnector) Connect(context.Context) (driver.Conn, error) { return &flakyConn{c: c}, nil }
func (c *flakyConnector) Driver() driver.Driver                       { return flakyDriver{c: c} }

func (c *flakyConnector) execCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.execs
}

type flakyDriver struct{ c *flakyConnector }

func (d flakyDriver) Open(string) (driver.Conn, error) { return &flakyConn{c: d.c}, nil }

type flakyConn struct{ c *flakyConnector }

func (fc *flakyConn) Prepare(string) (driver.Stmt, error) { return nil, errors.New("prepare not supported") }
func (fc *flakyConn) Close() error                        { return nil }
func (fc *flakyConn) Begin() (driver.Tx, error)           { return nil, errors.New("transactions not supported") }

func (fc *flakyConn) ExecContext(context.Context, string, []driver.NamedValue) (driver.Result, error) {
	fc.c.mu.Lock()
	defer fc.c.mu.Unlock()
	fc.c.execs++
	if fc.c.failures > 0 {
		fc.c.failures--
		return nil, errors.New("connection refused")
	}
	return driver.RowsAffected(0), nil
}
