package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := NewDB(filepath.Join(t.TempDir(), "memocare.sqlite3"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestLoadMissingKey(t *testing.T) {
	db := newTestDB(t)

	value, ok, err := db.Load("never-saved")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, value)
}

func TestSaveAndLoad(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, db.Save(KeySettings, `{"fontSize":"large"}`))

	value, ok, err := db.Load(KeySettings)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"fontSize":"large"}`, value)
}

func TestSaveReplacesValue(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, db.Save("k", "first"))
	require.NoError(t, db.Save("k", "second"))

	value, ok, err := db.Load("k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "second", value)
}

func TestLoadJSONRoundtrip(t *testing.T) {
	db := newTestDB(t)

	type blob struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	require.NoError(t, db.SaveJSON("blob", blob{Name: "x", Count: 3}))

	var got blob
	ok, err := db.LoadJSON("blob", &got)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, blob{Name: "x", Count: 3}, got)
}

func TestLoadJSONMissingKeyLeavesDestUntouched(t *testing.T) {
	db := newTestDB(t)

	got := map[string]int{"existing": 1}
	ok, err := db.LoadJSON("absent", &got)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, map[string]int{"existing": 1}, got)
}

func TestLoadJSONCorruptBlob(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, db.Save("bad", "{not json"))

	var got map[string]string
	ok, err := db.LoadJSON("bad", &got)
	assert.False(t, ok)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "corrupt entry")
}

func TestReopenPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "memocare.sqlite3")

	db, err := NewDB(path)
	require.NoError(t, err)
	require.NoError(t, db.Save(KeyMemories, "[]"))
	require.NoError(t, db.Close())

	reopened, err := NewDB(path)
	require.NoError(t, err)
	defer reopened.Close()

	value, ok, err := reopened.Load(KeyMemories)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "[]", value)
}
