package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func backends(t *testing.T) map[string]func(*testing.T) Store {
	t.Helper()
	dir := t.TempDir()
	log, _ := test.NewNullLogger()
	return map[string]func(*testing.T) Store{
		DriverFile: func(t *testing.T) Store {
			s, err := Open(DriverFile, filepath.Join(dir, "data", "store.json"), log)
			require.NoError(t, err)
			return s
		},
		DriverSQLite: func(t *testing.T) Store {
			s, err := Open(DriverSQLite, filepath.Join(dir, "data", "store.db"), log)
			require.NoError(t, err)
			return s
		},
	}
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			s := open(t)
			defer s.Close()

			_, err := s.Get(ctx, KeyUserSpending)
			assert.ErrorIs(t, err, ErrNotFound)

			blob := []byte(`{"entertainment":10,"personal_care":5,"miscellaneous":1}`)
			require.NoError(t, s.Put(ctx, KeyUserSpending, blob))
			got, err := s.Get(ctx, KeyUserSpending)
			require.NoError(t, err)
			assert.Equal(t, blob, got)

			require.NoError(t, s.Put(ctx, KeyUserSpending, []byte("v2")))
			got, err = s.Get(ctx, KeyUserSpending)
			require.NoError(t, err)
			assert.Equal(t, "v2", string(got))

			require.NoError(t, s.Delete(ctx, KeyUserSpending))
			assert.ErrorIs(t, s.Delete(ctx, KeyUserSpending), ErrNotFound)
		})
	}
}

func TestStorePersistsAcrossOpen(t *testing.T) {
	ctx := context.Background()
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			s := open(t)
			require.NoError(t, s.Put(ctx, "k", []byte("persisted")))
			require.NoError(t, s.Close())

			s = open(t)
			defer s.Close()
			got, err := s.Get(ctx, "k")
			require.NoError(t, err)
			assert.Equal(t, "persisted", string(got))
		})
	}
}

func TestKeysAndClearPrefix(t *testing.T) {
	ctx := context.Background()
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			s := open(t)
			defer s.Close()
			for _, k := range []string{VisitedPrefix + "major", VisitedPrefix + "gender", KeyUserSpending} {
				require.NoError(t, s.Put(ctx, k, []byte("1")))
			}
			keys, err := s.Keys(ctx, VisitedPrefix)
			require.NoError(t, err)
			assert.Equal(t, []string{"visited_gender", "visited_major"}, keys)

			all, err := s.Keys(ctx, "")
			require.NoError(t, err)
			assert.Len(t, all, 3)

			n, err := ClearPrefix(ctx, s, VisitedPrefix)
			require.NoError(t, err)
			assert.Equal(t, 2, n)
			keys, err = s.Keys(ctx, VisitedPrefix)
			require.NoError(t, err)
			assert.Empty(t, keys)
		})
	}
}

func TestFileStoreEntryKeepsID(t *testing.T) {
	ctx := context.Background()
	s, err := OpenFile(filepath.Join(t.TempDir(), "s.json"), logrus.New())
	require.NoError(t, err)
	require.NoError(t, s.Put(ctx, "k", []byte("a")))
	first, ok := s.Entry("k")
	require.True(t, ok)
	assert.NotEmpty(t, first.ID)
	require.NoError(t, s.Put(ctx, "k", []byte("b")))
	second, _ := s.Entry("k")
	assert.Equal(t, first.ID, second.ID)
	assert.False(t, second.UpdatedAt.Before(first.UpdatedAt))
}

func TestFileStoreFailedWriteLeavesMemoryUnchanged(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "data")
	log, _ := test.NewNullLogger()
	s, err := OpenFile(filepath.Join(dir, "store.json"), log)
	require.NoError(t, err)
	require.NoError(t, s.Put(ctx, KeyUserSpending, []byte("old")))

	// A regular file where the directory was makes every save fail.
	require.NoError(t, os.RemoveAll(dir))
	require.NoError(t, os.WriteFile(dir, []byte("x"), 0o644))

	assert.Error(t, s.Put(ctx, VisitedPrefix+"gender", []byte("true")))
	_, err = s.Get(ctx, VisitedPrefix+"gender")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Error(t, s.Put(ctx, KeyUserSpending, []byte("new")))
	got, err := s.Get(ctx, KeyUserSpending)
	require.NoError(t, err)
	assert.Equal(t, "old", string(got))

	assert.Error(t, s.Delete(ctx, KeyUserSpending))
	keys, err := s.Keys(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{KeyUserSpending}, keys)
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open("redis", "x", nil)
	assert.Error(t, err)
}
