package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "data", "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestAddAndList(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	require.NoError(t, s.Add(ctx, Record{
		Name: "Pixar", Library: "Movies", Mode: "franchise",
		Matched: 25, Unmatched: 2, Action: "created",
	}))
	require.NoError(t, s.Add(ctx, Record{
		Name: "A24", Library: "Movies", Mode: "studio",
		Matched: 80, Unmatched: 5, Action: "appended",
	}))

	records, err := s.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, records, 2)

	// Newest first.
	assert.Equal(t, "A24", records[0].Name)
	assert.Equal(t, "appended", records[0].Action)
	assert.Equal(t, 80, records[0].Matched)
	assert.Equal(t, "Pixar", records[1].Name)
	assert.WithinDuration(t, time.Now(), records[0].CreatedAt, time.Minute)
}

func TestListLimit(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, s.Add(ctx, Record{Name: "C", Library: "Movies", Mode: "manual", Action: "created"}))
	}

	records, err := s.List(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, records, 3)
}

func TestListEmpty(t *testing.T) {
	s := testStore(t)

	records, err := s.List(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	s1, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s1.Add(context.Background(), Record{Name: "X", Library: "Movies", Mode: "manual", Action: "created"}))
	require.NoError(t, s1.Close())

	s2, err := Open(path)
	require.NoError(t, err)
	defer s2.Close()

	records, err := s2.List(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}
