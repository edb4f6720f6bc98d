// Package recall implements the query engine: it classifies a query's intent,
// selects and ranks candidate memories per intent, composes a natural-language
// answer with a confidence score, and caches results by normalized query.
package recall

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/a-marczewski/memocare/internal/intent"
	"github.com/a-marczewski/memocare/internal/memory"
)

const (
	// Per-branch caps on related memories returned with an answer.
	appointmentFallbackLimit = 2
	appointmentRelatedLimit  = 3
	scheduleRelatedLimit     = 3
	generalRelatedLimit      = 3
)

const noDataAnswer = "I couldn't find any specific information about that."

// Matching keyword sets per intent branch. These deliberately differ from the
// intent triggers: classification decides the strategy, these decide which
// memories the strategy accepts.
var (
	appointmentContentWords = []string{"appointment", "meeting", "meet"}
	appointmentTagWords     = []string{"appointment", "meeting"}
	medicationWords         = []string{"medicine", "medication", "pill", "drug"}
	locationContentWords    = []string{"park", "car", "left", "placed", "put"}
	locationTagWords        = []string{"location", "parking"}
	scheduleContentWords    = []string{"schedule", "today", "tomorrow"}
)

// stopWords are removed from a general query before term matching.
var stopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "but": {},
	"is": {}, "are": {}, "was": {}, "were": {}, "did": {}, "do": {}, "does": {},
	"i": {}, "my": {}, "me": {}, "you": {}, "your": {},
	"what": {}, "when": {}, "where": {}, "who": {}, "why": {}, "how": {},
	"to": {}, "of": {}, "in": {}, "on": {}, "at": {}, "for": {}, "with": {},
	"about": {}, "have": {}, "has": {}, "had": {},
}

// Engine answers queries against the memory and relationship stores. It reads
// the stores and exclusively owns writes to the query cache.
type Engine struct {
	memories      *memory.Store
	relationships *memory.RelationshipStore
	cache         *Cache
	log           *zap.Logger
	now           func() time.Time
}

// NewEngine creates a query engine over the given stores and cache.
func NewEngine(memories *memory.Store, relationships *memory.RelationshipStore, cache *Cache, logger *zap.Logger) *Engine {
	return &Engine{
		memories:      memories,
		relationships: relationships,
		cache:         cache,
		log:           logger,
		now:           time.Now,
	}
}

// Query answers a free-text question. The result for a given normalized query
// string is computed at most once for the lifetime of the cache: a hit is
// returned verbatim with no staleness check, regardless of store mutations
// since it was computed. Absence of data is never an error, only a
// low-confidence answer.
func (e *Engine) Query(text string) memory.QueryResult {
	key := strings.ToLower(strings.TrimSpace(text))

	if cached, ok := e.cache.Get(key); ok {
		e.log.Debug("Query cache hit", zap.String("key", key))
		return cached
	}

	classified := intent.Analyze(text)
	e.log.Debug("Classified query",
		zap.String("key", key),
		zap.String("intent", string(classified.Type)),
		zap.String("timeframe", classified.Timeframe))

	result := memory.QueryResult{
		Answer:     noDataAnswer,
		Confidence: memory.ConfidenceNone,
	}

	switch classified.Type {
	case intent.Appointment:
		e.answerAppointment(&result, classified)
	case intent.Medication:
		e.answerMedication(&result, classified)
	case intent.Location:
		e.answerLocation(&result)
	case intent.Schedule:
		e.answerSchedule(&result)
	case intent.Relationship:
		e.answerRelationship(&result, classified)
	default:
		e.answerGeneral(&result, key)
	}

	result.Timestamp = e.now()
	e.cache.Put(key, result)
	return result
}

func (e *Engine) answerAppointment(result *memory.QueryResult, classified intent.Intent) {
	matches := e.filterMemories(func(m memory.Memory) bool {
		return m.Type == memory.Appointment ||
			contentHasAny(m, appointmentContentWords) ||
			tagsHaveAny(m, appointmentTagWords)
	})
	if len(matches) == 0 {
		result.Answer = "I don't have any appointment records. Would you like to add one?"
		return
	}

	if classified.Timeframe == "today" {
		todays := filterToday(matches, e.now())
		if len(todays) > 0 {
			result.Answer = "Today's appointments: " + joinContents(todays)
		} else {
			fallback := capped(matches, appointmentFallbackLimit)
			result.Answer = "I couldn't find any appointments for today. Your most recent appointment notes: " + joinContents(fallback)
			todays = fallback
		}
		result.RelatedMemories = todays
		result.Confidence = memory.ConfidenceStrong
		return
	}

	result.RelatedMemories = capped(matches, appointmentRelatedLimit)
	result.Answer = "Your appointment notes: " + joinContents(result.RelatedMemories)
	result.Confidence = memory.ConfidenceStrong
}

func (e *Engine) answerMedication(result *memory.QueryResult, classified intent.Intent) {
	matches := e.filterMemories(func(m memory.Memory) bool {
		return m.Type == memory.Medication ||
			contentHasAny(m, medicationWords) ||
			tagsHaveAny(m, medicationWords)
	})
	if len(matches) == 0 {
		result.Answer = "I don't have any medication records. Would you like to add one?"
		return
	}

	if classified.Timeframe == "today" {
		todays := filterToday(matches, e.now())
		if len(todays) > 0 {
			result.Answer = "Today's medication notes: " + joinContents(todays)
		} else {
			fallback := capped(matches, appointmentFallbackLimit)
			result.Answer = "I couldn't find any medication notes for today. Your most recent: " + joinContents(fallback)
			todays = fallback
		}
		result.RelatedMemories = todays
		result.Confidence = memory.ConfidenceStrong
		return
	}

	result.RelatedMemories = capped(matches, appointmentRelatedLimit)
	result.Answer = "Based on your records: " + matches[0].Content
	result.Confidence = memory.ConfidenceStrong
}

func (e *Engine) answerLocation(result *memory.QueryResult) {
	matches := e.filterMemories(func(m memory.Memory) bool {
		return m.Type == memory.Location ||
			contentHasAny(m, locationContentWords) ||
			tagsHaveAny(m, locationTagWords)
	})
	if len(matches) == 0 {
		return
	}

	// Only the single most recent note is cited.
	result.Answer = "Last location note: " + matches[0].Content
	result.RelatedMemories = matches[:1]
	result.Confidence = memory.ConfidenceWeak
}

func (e *Engine) answerSchedule(result *memory.QueryResult) {
	matches := e.filterMemories(func(m memory.Memory) bool {
		return m.Type == memory.Appointment ||
			contentHasAny(m, scheduleContentWords) ||
			tagsHaveAny(m, []string{"schedule"})
	})
	if len(matches) == 0 {
		return
	}

	result.RelatedMemories = capped(matches, scheduleRelatedLimit)
	result.Answer = "Here's your schedule: " + joinContents(result.RelatedMemories)
	result.Confidence = memory.ConfidenceWeak
}

func (e *Engine) answerRelationship(result *memory.QueryResult, classified intent.Intent) {
	var parts []string
	for _, fact := range e.relationships.All() {
		if !relationshipMatches(fact, classified) {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s is %s's %s", fact.Person1, fact.Person2, fact.Relationship))
	}
	if len(parts) == 0 {
		return
	}

	result.Answer = "Family relationships: " + strings.Join(parts, ", ")
	result.Confidence = memory.ConfidenceStrong
}

func (e *Engine) answerGeneral(result *memory.QueryResult, normalizedQuery string) {
	terms := searchTerms(normalizedQuery)

	matches := e.filterMemories(func(m memory.Memory) bool {
		if strings.Contains(string(m.Type), normalizedQuery) {
			return true
		}
		content := strings.ToLower(m.Content)
		for _, term := range terms {
			if strings.Contains(content, term) {
				return true
			}
			for _, tag := range m.Tags {
				if strings.Contains(tag, term) {
					return true
				}
			}
		}
		return false
	})
	if len(matches) == 0 {
		return
	}

	result.Answer = fmt.Sprintf("Found %d related memories. Most recent: %s", len(matches), matches[0].Content)
	result.RelatedMemories = capped(matches, generalRelatedLimit)
	result.Confidence = memory.ConfidenceGeneral
}

// filterMemories returns the matching memories sorted by timestamp descending
// with a stable ID tiebreaker.
func (e *Engine) filterMemories(match func(memory.Memory) bool) []memory.Memory {
	var matches []memory.Memory
	for _, m := range e.memories.All() {
		if match(m) {
			matches = append(matches, m)
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Timestamp.Equal(matches[j].Timestamp) {
			return matches[i].ID > matches[j].ID
		}
		return matches[i].Timestamp.After(matches[j].Timestamp)
	})
	return matches
}

func relationshipMatches(fact memory.RelationshipFact, classified intent.Intent) bool {
	if classified.RelationshipType != "" &&
		strings.Contains(strings.ToLower(fact.Relationship), classified.RelationshipType) {
		return true
	}
	if classified.Person != "" {
		if strings.Contains(strings.ToLower(fact.Person1), classified.Person) ||
			strings.Contains(strings.ToLower(fact.Person2), classified.Person) {
			return true
		}
	}
	return false
}

// filterToday keeps entries created on the current date or whose content
// literally mentions "today".
func filterToday(matches []memory.Memory, now time.Time) []memory.Memory {
	var todays []memory.Memory
	for _, m := range matches {
		if sameDay(m.Timestamp, now) || strings.Contains(strings.ToLower(m.Content), "today") {
			todays = append(todays, m)
		}
	}
	return todays
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// searchTerms tokenizes a normalized query, dropping stop words and tokens of
// 2 characters or fewer.
func searchTerms(normalizedQuery string) []string {
	var terms []string
	for _, token := range strings.Fields(normalizedQuery) {
		token = strings.Trim(token, "?!.,;:'\"")
		if len(token) <= 2 {
			continue
		}
		if _, stop := stopWords[token]; stop {
			continue
		}
		terms = append(terms, token)
	}
	return terms
}

func contentHasAny(m memory.Memory, words []string) bool {
	content := strings.ToLower(m.Content)
	for _, word := range words {
		if strings.Contains(content, word) {
			return true
		}
	}
	return false
}

func tagsHaveAny(m memory.Memory, words []string) bool {
	for _, tag := range m.Tags {
		for _, word := range words {
			if tag == word {
				return true
			}
		}
	}
	return false
}

func joinContents(matches []memory.Memory) string {
	parts := make([]string, 0, len(matches))
	for _, m := range matches {
		parts = append(parts, m.Content)
	}
	return strings.Join(parts, "; ")
}

func capped(matches []memory.Memory, limit int) []memory.Memory {
	if len(matches) > limit {
		return matches[:limit]
	}
	return matches
}
