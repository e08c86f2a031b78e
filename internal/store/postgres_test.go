//go:build integration

package store

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IBE160/SG-Gruppe-14-d2/internal/wbs"
)

func TestPostgresStore_RecordAndList(t *testing.T) {
	dsn := os.Getenv("WBSPLAN_TEST_PG_DSN")
	if dsn == "" {
		t.Skip("WBSPLAN_TEST_PG_DSN not set")
	}

	s, err := NewPostgres(dsn)
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()
	session := "test-" + uuid.NewString()

	got, err := s.List(ctx, session)
	require.NoError(t, err)
	assert.Empty(t, got)

	c, err := s.Record(ctx, wbs.Commitment{SessionID: session, ActivityID: "1.3.1", CommittedDuration: 20})
	require.NoError(t, err)

	// The empty listing above was cached; Record must invalidate it.
	got, err = s.List(ctx, session)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, c.ID, got[0].ID)
	assert.Equal(t, 20, got[0].CommittedDuration)
}
