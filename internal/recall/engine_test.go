package recall

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/a-marczewski/memocare/internal/memory"
	"github.com/a-marczewski/memocare/internal/storage"
)

type testFixture struct {
	db            *storage.DB
	memories      *memory.Store
	relationships *memory.RelationshipStore
	cache         *Cache
	engine        *Engine
}

func newFixture(t *testing.T) *testFixture {
	t.Helper()
	db, err := storage.NewDB(filepath.Join(t.TempDir(), "memocare.sqlite3"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	logger := zap.NewNop()
	memories := memory.NewStore(db, logger)
	relationships := memory.NewRelationshipStore(db, logger)
	cache := NewCache(db, logger)
	return &testFixture{
		db:            db,
		memories:      memories,
		relationships: relationships,
		cache:         cache,
		engine:        NewEngine(memories, relationships, cache, logger),
	}
}

func TestQueryLocation(t *testing.T) {
	f := newFixture(t)
	_, err := f.memories.Add("I parked my car in Lot B", memory.Location, memory.Self, memory.Medium)
	require.NoError(t, err)

	result := f.engine.Query("Where did I park my car?")

	assert.Contains(t, result.Answer, "Lot B")
	assert.Equal(t, memory.ConfidenceWeak, result.Confidence)
	require.Len(t, result.RelatedMemories, 1)
	assert.Equal(t, "I parked my car in Lot B", result.RelatedMemories[0].Content)
	assert.False(t, result.Timestamp.IsZero())
}

func TestQueryMedicationToday(t *testing.T) {
	f := newFixture(t)
	_, err := f.memories.Add("Took my medicine at 8am", memory.Medication, memory.Self, memory.High)
	require.NoError(t, err)

	result := f.engine.Query("Did I take my medicine today?")

	assert.Contains(t, result.Answer, "8am")
	assert.Equal(t, memory.ConfidenceStrong, result.Confidence)
	require.NotEmpty(t, result.RelatedMemories)
}

func TestQueryMedicationTodayFallsBackToRecent(t *testing.T) {
	f := newFixture(t)
	_, err := f.memories.Add("Took my pill with breakfast", memory.Medication, memory.Self, memory.High)
	require.NoError(t, err)

	// Pretend the note was created a week ago.
	f.engine.now = func() time.Time { return time.Now().AddDate(0, 0, 7) }

	result := f.engine.Query("Did I take my medicine today?")

	assert.Contains(t, result.Answer, "couldn't find any medication notes for today")
	assert.Contains(t, result.Answer, "Took my pill with breakfast")
	assert.Equal(t, memory.ConfidenceStrong, result.Confidence)
}

func TestQueryAppointmentNoData(t *testing.T) {
	f := newFixture(t)

	result := f.engine.Query("When is my appointment?")

	assert.Equal(t, "I don't have any appointment records. Would you like to add one?", result.Answer)
	assert.Equal(t, memory.ConfidenceNone, result.Confidence)
	assert.Empty(t, result.RelatedMemories)
}

func TestQueryAppointment(t *testing.T) {
	f := newFixture(t)
	_, err := f.memories.Add("Dentist visit on Friday at 2pm", memory.Appointment, memory.Caregiver, memory.High)
	require.NoError(t, err)

	result := f.engine.Query("What appointments do I have?")

	assert.Contains(t, result.Answer, "Dentist visit on Friday at 2pm")
	assert.Equal(t, memory.ConfidenceStrong, result.Confidence)
	require.Len(t, result.RelatedMemories, 1)
}

func TestQueryGeneral(t *testing.T) {
	f := newFixture(t)
	for _, content := range []string{
		"watered the plants",
		"the bakery closes early on Sundays",
		"Sam visited for lunch",
	} {
		_, err := f.memories.Add(content, memory.General, memory.Self, memory.Low)
		require.NoError(t, err)
	}

	result := f.engine.Query("Sam")

	// Only the one memory containing "sam" counts.
	assert.Contains(t, result.Answer, "Found 1 related memories")
	assert.Contains(t, result.Answer, "Sam visited for lunch")
	assert.Equal(t, memory.ConfidenceGeneral, result.Confidence)
	require.Len(t, result.RelatedMemories, 1)
}

func TestQueryGeneralNoMatch(t *testing.T) {
	f := newFixture(t)
	_, err := f.memories.Add("watered the plants", memory.General, memory.Self, memory.Low)
	require.NoError(t, err)

	result := f.engine.Query("zebra")

	assert.Equal(t, noDataAnswer, result.Answer)
	assert.Equal(t, memory.ConfidenceNone, result.Confidence)
	assert.Empty(t, result.RelatedMemories)
}

func TestQueryRelationship(t *testing.T) {
	f := newFixture(t)
	_, err := f.relationships.Add("Sam", "Alice", "brother")
	require.NoError(t, err)

	result := f.engine.Query("Who is Sam's brother?")

	assert.Contains(t, result.Answer, "Sam is Alice's brother")
	assert.Equal(t, memory.ConfidenceStrong, result.Confidence)
}

func TestQueryRelationshipByPersonOnly(t *testing.T) {
	f := newFixture(t)
	_, err := f.relationships.Add("Maria", "Alice", "neighbor")
	require.NoError(t, err)

	// No relationship keyword matches "neighbor"; the person name does.
	result := f.engine.Query("Who is in my family, like Maria?")

	assert.Contains(t, result.Answer, "Maria is Alice's neighbor")
}

func TestQueryScheduleWithoutAppointmentWord(t *testing.T) {
	f := newFixture(t)
	_, err := f.memories.Add("Lunch with Sarah tomorrow", memory.General, memory.Self, memory.Medium)
	require.NoError(t, err)

	// "today" alone classifies as schedule; appointment needs its own words.
	result := f.engine.Query("what is happening today")

	assert.Contains(t, result.Answer, "Here's your schedule")
	assert.Contains(t, result.Answer, "Lunch with Sarah tomorrow")
	assert.Equal(t, memory.ConfidenceWeak, result.Confidence)
}

func TestQueryCacheReturnsVerbatim(t *testing.T) {
	f := newFixture(t)
	_, err := f.memories.Add("I parked my car in Lot B", memory.Location, memory.Self, memory.Medium)
	require.NoError(t, err)

	first := f.engine.Query("Where did I park my car?")
	assert.Contains(t, first.Answer, "Lot B")

	// A newer memory does not invalidate the cached answer.
	_, err = f.memories.Add("I parked my car in Lot C", memory.Location, memory.Self, memory.Medium)
	require.NoError(t, err)

	second := f.engine.Query("Where did I park my car?")
	assert.Equal(t, first, second)

	// A differently worded query recomputes.
	third := f.engine.Query("where is the car parked")
	assert.Contains(t, third.Answer, "Lot C")
}

func TestQueryCacheKeyNormalization(t *testing.T) {
	f := newFixture(t)

	first := f.engine.Query("  Where did I park my CAR?  ")
	second := f.engine.Query("where did i park my car?")

	assert.Equal(t, first, second)
	assert.Equal(t, 1, f.cache.Len())
}

func TestQueryCachePersistsAcrossSessions(t *testing.T) {
	f := newFixture(t)
	_, err := f.memories.Add("I parked my car in Lot B", memory.Location, memory.Self, memory.Medium)
	require.NoError(t, err)
	original := f.engine.Query("Where did I park my car?")

	logger := zap.NewNop()
	reloaded := NewCache(f.db, logger)
	cached, ok := reloaded.Get("where did i park my car?")
	require.True(t, ok)
	assert.Equal(t, original.Answer, cached.Answer)
	assert.InDelta(t, original.Confidence, cached.Confidence, 0.0001)
}

func TestQueryNewestMemoryWins(t *testing.T) {
	f := newFixture(t)
	_, err := f.memories.Add("I parked my car in Lot A", memory.Location, memory.Self, memory.Medium)
	require.NoError(t, err)
	_, err = f.memories.Add("I parked my car in Lot B", memory.Location, memory.Self, memory.Medium)
	require.NoError(t, err)

	result := f.engine.Query("Where did I park my car?")

	assert.Contains(t, result.Answer, "Lot B")
	assert.NotContains(t, result.Answer, "Lot A")
}

func TestQueryRelatedMemoryCaps(t *testing.T) {
	f := newFixture(t)
	for _, content := range []string{
		"Dentist visit on Monday",
		"Doctor appointment on Tuesday",
		"Team meeting on Wednesday",
		"Eye appointment on Thursday",
	} {
		_, err := f.memories.Add(content, memory.Appointment, memory.Self, memory.Medium)
		require.NoError(t, err)
	}

	result := f.engine.Query("What appointments do I have?")
	assert.Len(t, result.RelatedMemories, 3)
}
