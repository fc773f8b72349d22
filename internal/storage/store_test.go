package storage

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type preferenceStore interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
}

func exercise(t *testing.T, s preferenceStore) {
	t.Helper()

	_, ok, err := s.Get("darkMode")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set("darkMode", "true"))
	v, ok, err := s.Get("darkMode")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "true", v)

	require.NoError(t, s.Set("darkMode", "false"))
	v, _, err = s.Get("darkMode")
	require.NoError(t, err)
	assert.Equal(t, "false", v)

	require.NoError(t, s.Delete("darkMode"))
	require.NoError(t, s.Delete("darkMode"))
	_, ok, err = s.Get("darkMode")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSQLiteStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "preferences.db")
	s, err := NewStore(path, zerolog.Nop())
	require.NoError(t, err)
	defer s.Close()

	exercise(t, s)
}

func TestSQLiteStorePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preferences.db")

	s, err := NewStore(path, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, s.Set("darkMode", "true"))
	require.NoError(t, s.Close())

	s, err = NewStore(path, zerolog.Nop())
	require.NoError(t, err)
	defer s.Close()
	v, ok, err := s.Get("darkMode")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "true", v)
}

func TestNewStoreRequiresPath(t *testing.T) {
	_, err := NewStore(" ", zerolog.Nop())
	assert.Error(t, err)
}

func TestMemoryStore(t *testing.T) {
	exercise(t, NewMemoryStore())

	m := NewMemoryStore()
	m.Err = errors.New("disk full")
	assert.Error(t, m.Set("k", "v"))
	_, _, err := m.Get("k")
	assert.Error(t, err)
}
