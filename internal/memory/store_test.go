package memory

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/a-marczewski/memocare/internal/storage"
)

func newTestDB(t *testing.T) *storage.DB {
	t.Helper()
	db, err := storage.NewDB(filepath.Join(t.TempDir(), "memocare.sqlite3"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestStoreAdd(t *testing.T) {
	db := newTestDB(t)
	store := NewStore(db, zap.NewNop())

	mem, err := store.Add("I parked my car in Lot B", Location, Self, Medium)
	require.NoError(t, err)

	assert.NotEmpty(t, mem.ID)
	assert.Equal(t, "I parked my car in Lot B", mem.Content)
	assert.Equal(t, Location, mem.Type)
	assert.Equal(t, Self, mem.AddedBy)
	assert.Equal(t, Medium, mem.Priority)
	assert.False(t, mem.Timestamp.IsZero())
	assert.Contains(t, mem.Tags, "location")
	assert.Contains(t, mem.Tags, "car")
}

func TestStoreAddTrimsContent(t *testing.T) {
	db := newTestDB(t)
	store := NewStore(db, zap.NewNop())

	mem, err := store.Add("  note  ", General, Self, Low)
	require.NoError(t, err)
	assert.Equal(t, "note", mem.Content)
}

func TestStoreAddRejectsEmptyContent(t *testing.T) {
	db := newTestDB(t)
	store := NewStore(db, zap.NewNop())

	_, err := store.Add("   ", General, Self, Low)
	assert.ErrorIs(t, err, ErrEmptyContent)
	assert.Equal(t, 0, store.Len())
}

func TestStoreNewestFirst(t *testing.T) {
	db := newTestDB(t)
	store := NewStore(db, zap.NewNop())

	_, err := store.Add("first", General, Self, Low)
	require.NoError(t, err)
	_, err = store.Add("second", General, Self, Low)
	require.NoError(t, err)

	all := store.All()
	require.Len(t, all, 2)
	assert.Equal(t, "second", all[0].Content)
	assert.Equal(t, "first", all[1].Content)
}

func TestStoreUniqueSortableIDs(t *testing.T) {
	db := newTestDB(t)
	store := NewStore(db, zap.NewNop())

	a, err := store.Add("a", General, Self, Low)
	require.NoError(t, err)
	b, err := store.Add("b", General, Self, Low)
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
	assert.Less(t, a.ID, b.ID) // ULIDs sort by creation order
}

func TestStorePersistsAcrossLoads(t *testing.T) {
	db := newTestDB(t)

	store := NewStore(db, zap.NewNop())
	created, err := store.Add("Took my medicine at 8am", Medication, Caregiver, High)
	require.NoError(t, err)

	reloaded := NewStore(db, zap.NewNop())
	all := reloaded.All()
	require.Len(t, all, 1)
	assert.Equal(t, created.ID, all[0].ID)
	assert.Equal(t, created.Content, all[0].Content)
	assert.Equal(t, created.Tags, all[0].Tags)
	assert.Equal(t, Caregiver, all[0].AddedBy)
}

func TestStoreCorruptEntryStartsEmpty(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.Save(storage.KeyMemories, "{broken"))

	store := NewStore(db, zap.NewNop())
	assert.Equal(t, 0, store.Len())

	// The store stays usable and the next save replaces the bad blob.
	_, err := store.Add("fresh start", General, Self, Low)
	require.NoError(t, err)
	reloaded := NewStore(db, zap.NewNop())
	assert.Equal(t, 1, reloaded.Len())
}

func TestRelationshipStoreAdd(t *testing.T) {
	db := newTestDB(t)
	store := NewRelationshipStore(db, zap.NewNop())

	fact, err := store.Add("Sam", "Alice", "brother")
	require.NoError(t, err)
	assert.NotEmpty(t, fact.ID)
	assert.Equal(t, "Sam", fact.Person1)
	assert.Equal(t, "Alice", fact.Person2)
	assert.Equal(t, "brother", fact.Relationship)

	_, err = store.Add("", "Alice", "brother")
	assert.ErrorIs(t, err, ErrEmptyContent)

	reloaded := NewRelationshipStore(db, zap.NewNop())
	assert.Len(t, reloaded.All(), 1)
}

func TestContactStoreAdd(t *testing.T) {
	db := newTestDB(t)
	store := NewContactStore(db, zap.NewNop())

	contact, err := store.Add(Contact{Name: "Dr. Patel", Phone: "555-0100", Relationship: "doctor"})
	require.NoError(t, err)
	assert.NotEmpty(t, contact.ID)
	assert.Equal(t, "Dr. Patel", contact.Name)

	_, err = store.Add(Contact{Name: "  "})
	assert.ErrorIs(t, err, ErrEmptyContent)

	reloaded := NewContactStore(db, zap.NewNop())
	require.Len(t, reloaded.All(), 1)
	assert.Equal(t, "555-0100", reloaded.All()[0].Phone)
}
