package memory

import (
	"time"
)

// Type represents the type of a memory entry
type Type string

const (
	General      Type = "general"
	Relationship Type = "relationship"
	Medication   Type = "medication"
	Appointment  Type = "appointment"
	Location     Type = "location"
)

// AddedBy records the provenance of a memory entry
type AddedBy string

const (
	Self      AddedBy = "self"
	Caregiver AddedBy = "caregiver"
)

// Priority is set by the caller at creation, never derived
type Priority string

const (
	Low    Priority = "low"
	Medium Priority = "medium"
	High   Priority = "high"
)

// Memory represents a single recorded note. Content, tags and timestamp are
// immutable after creation; there is no update or delete operation.
type Memory struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Type      Type      `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Tags      []string  `json:"tags"`
	AddedBy   AddedBy   `json:"addedBy"`
	Priority  Priority  `json:"priority"`
}

// RelationshipFact links two named people with a free-text label.
type RelationshipFact struct {
	ID           string    `json:"id"`
	Person1      string    `json:"person1"`
	Person2      string    `json:"person2"`
	Relationship string    `json:"relationship"`
	Timestamp    time.Time `json:"timestamp"`
}

// Contact is populated and consumed entirely outside the query engine.
type Contact struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Phone        string `json:"phone,omitempty"`
	Email        string `json:"email,omitempty"`
	Relationship string `json:"relationship,omitempty"`
	Notes        string `json:"notes,omitempty"`
}

// QueryResult is the derived, cacheable artifact of a query.
type QueryResult struct {
	Answer          string    `json:"answer"`
	Confidence      float64   `json:"confidence"`
	RelatedMemories []Memory  `json:"relatedMemories"`
	Timestamp       time.Time `json:"timestamp"`
}

// Confidence levels produced by the query engine.
const (
	ConfidenceNone    = 0.3 // no matching data
	ConfidenceGeneral = 0.7 // general search hit
	ConfidenceWeak    = 0.8 // weak specific hit (location, schedule)
	ConfidenceStrong  = 0.9 // strong specific hit (appointment, medication, relationship)
)

func (t Type) IsValid() bool {
	switch t {
	case General, Relationship, Medication, Appointment, Location:
		return true
	default:
		return false
	}
}

func (a AddedBy) IsValid() bool {
	return a == Self || a == Caregiver
}

func (p Priority) IsValid() bool {
	switch p {
	case Low, Medium, High:
		return true
	default:
		return false
	}
}
