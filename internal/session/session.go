// Package session owns the shared state of one run. There is no module-level
// singleton: the session is created at startup from persisted state and passed
// by reference to whoever needs it.
package session

import (
	"go.uber.org/zap"

	"github.com/a-marczewski/memocare/internal/memory"
	"github.com/a-marczewski/memocare/internal/recall"
	"github.com/a-marczewski/memocare/internal/storage"
)

// Session groups the memory store, relationship store, contact store and
// query cache. The stores are written only through their add operations and
// flush to the key-value layer on every mutation; the cache is written only
// by the query engine. All access happens on a single goroutine.
type Session struct {
	Memories      *memory.Store
	Relationships *memory.RelationshipStore
	Contacts      *memory.ContactStore
	Cache         *recall.Cache
	Engine        *recall.Engine
}

// Load restores the session from the key-value store. Unreadable entries
// degrade to empty collections; loading never fails on corrupt data.
func Load(db *storage.DB, logger *zap.Logger) *Session {
	s := &Session{
		Memories:      memory.NewStore(db, logger),
		Relationships: memory.NewRelationshipStore(db, logger),
		Contacts:      memory.NewContactStore(db, logger),
		Cache:         recall.NewCache(db, logger),
	}
	s.Engine = recall.NewEngine(s.Memories, s.Relationships, s.Cache, logger)
	return s
}
