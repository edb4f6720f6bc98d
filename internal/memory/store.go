package memory

import (
	"fmt"
	mrand "math/rand"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/a-marczewski/memocare/internal/extract"
	"github.com/a-marczewski/memocare/internal/storage"
)

// ErrEmptyContent is returned when a memory or relationship would be created
// from content that is empty after trimming. It is the only input validation
// the store performs; the closed type and priority sets are enforced by the
// caller's input choices.
var ErrEmptyContent = fmt.Errorf("content is empty")

// idSource issues ULIDs that sort by creation time and cannot collide within
// a session (monotonic entropy).
type idSource struct {
	entropy *ulid.MonotonicEntropy
}

func newIDSource() *idSource {
	seed := mrand.New(mrand.NewSource(time.Now().UnixNano()))
	return &idSource{entropy: ulid.Monotonic(seed, 0)}
}

func (s *idSource) next() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), s.entropy).String()
}

// Store is the ordered, append-only collection of memories, newest first.
// Every mutation is persisted to the key-value layer; persistence is
// fire-and-forget, so a failed save is logged and the in-memory state stands.
type Store struct {
	db    *storage.DB
	log   *zap.Logger
	ids   *idSource
	items []Memory
}

// NewStore loads the persisted memories. A corrupt blob is treated as no
// prior data: the store starts empty and the corruption is logged.
func NewStore(db *storage.DB, logger *zap.Logger) *Store {
	s := &Store{db: db, log: logger, ids: newIDSource()}
	if _, err := db.LoadJSON(storage.KeyMemories, &s.items); err != nil {
		logger.Warn("Discarding unreadable memories entry", zap.Error(err))
		s.items = nil
	}
	return s
}

// Add creates a memory from the given content. Tags are derived exactly once
// here, as a pure function of content and type.
func (s *Store) Add(content string, memType Type, addedBy AddedBy, priority Priority) (Memory, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return Memory{}, ErrEmptyContent
	}

	mem := Memory{
		ID:        s.ids.next(),
		Content:   content,
		Type:      memType,
		Timestamp: time.Now(),
		Tags:      extract.Tags(content, string(memType)),
		AddedBy:   addedBy,
		Priority:  priority,
	}

	s.items = append([]Memory{mem}, s.items...)
	s.persist()
	return mem, nil
}

// All returns the memories, newest first.
func (s *Store) All() []Memory {
	return s.items
}

func (s *Store) Len() int {
	return len(s.items)
}

func (s *Store) persist() {
	if err := s.db.SaveJSON(storage.KeyMemories, s.items); err != nil {
		s.log.Error("Failed to persist memories", zap.Error(err))
	}
}

// RelationshipStore is the parallel collection of person-to-person facts,
// independent of the memory store. Same create-only lifecycle, no tags.
type RelationshipStore struct {
	db    *storage.DB
	log   *zap.Logger
	ids   *idSource
	items []RelationshipFact
}

func NewRelationshipStore(db *storage.DB, logger *zap.Logger) *RelationshipStore {
	s := &RelationshipStore{db: db, log: logger, ids: newIDSource()}
	if _, err := db.LoadJSON(storage.KeyRelationships, &s.items); err != nil {
		logger.Warn("Discarding unreadable relationships entry", zap.Error(err))
		s.items = nil
	}
	return s
}

func (s *RelationshipStore) Add(person1, person2, relationship string) (RelationshipFact, error) {
	person1 = strings.TrimSpace(person1)
	person2 = strings.TrimSpace(person2)
	relationship = strings.TrimSpace(relationship)
	if person1 == "" || person2 == "" || relationship == "" {
		return RelationshipFact{}, ErrEmptyContent
	}

	fact := RelationshipFact{
		ID:           s.ids.next(),
		Person1:      person1,
		Person2:      person2,
		Relationship: relationship,
		Timestamp:    time.Now(),
	}

	s.items = append([]RelationshipFact{fact}, s.items...)
	if err := s.db.SaveJSON(storage.KeyRelationships, s.items); err != nil {
		s.log.Error("Failed to persist relationships", zap.Error(err))
	}
	return fact, nil
}

func (s *RelationshipStore) All() []RelationshipFact {
	return s.items
}

// ContactStore holds contacts. The query engine never reads or writes these;
// they exist for the caller's address-book features only.
type ContactStore struct {
	db    *storage.DB
	log   *zap.Logger
	ids   *idSource
	items []Contact
}

func NewContactStore(db *storage.DB, logger *zap.Logger) *ContactStore {
	s := &ContactStore{db: db, log: logger, ids: newIDSource()}
	if _, err := db.LoadJSON(storage.KeyContacts, &s.items); err != nil {
		logger.Warn("Discarding unreadable contacts entry", zap.Error(err))
		s.items = nil
	}
	return s
}

func (s *ContactStore) Add(contact Contact) (Contact, error) {
	contact.Name = strings.TrimSpace(contact.Name)
	if contact.Name == "" {
		return Contact{}, ErrEmptyContent
	}

	contact.ID = s.ids.next()
	s.items = append([]Contact{contact}, s.items...)
	if err := s.db.SaveJSON(storage.KeyContacts, s.items); err != nil {
		s.log.Error("Failed to persist contacts", zap.Error(err))
	}
	return contact, nil
}

func (s *ContactStore) All() []Contact {
	return s.items
}
