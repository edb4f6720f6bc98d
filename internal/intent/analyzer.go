// Package intent classifies natural-language queries into a fixed set of
// intent categories through a priority-ordered chain of keyword checks.
package intent

import (
	"strings"
	"unicode"
)

// Type is the classified intent category of a query.
type Type string

const (
	Appointment  Type = "appointment"
	Medication   Type = "medication"
	Location     Type = "location"
	Schedule     Type = "schedule"
	Relationship Type = "relationship"
	General      Type = "general"
)

// Intent is the result of analyzing a query: the matched category plus any
// auxiliary parameters found in the text.
type Intent struct {
	Type             Type
	Timeframe        string // today, tomorrow or yesterday; empty if absent
	Person           string // probable person name, lowercased; empty if absent
	RelationshipType string // brother, sister, ...; empty if absent
}

// Keyword triggers per category, checked in priority order. First match wins;
// "schedule" appears in both the appointment and schedule triggers, and the
// appointment check running first is the designed tie-break.
var (
	appointmentTriggers  = []string{"appointment", "meeting", "meet", "schedule", "visit"}
	medicationTriggers   = []string{"medicine", "medication", "pill", "drug", "took", "take"}
	locationTriggers     = []string{"park", "car", "where", "left", "placed"}
	scheduleTriggers     = []string{"schedule", "today", "tomorrow"}
	relationshipTriggers = []string{"brother", "sister", "mother", "father", "family", "who is"}
)

var timeframes = []string{"today", "tomorrow", "yesterday"}

var relationshipTypes = []string{"brother", "sister", "mother", "father", "friend", "cousin"}

// Analyze classifies a query. It is a pure function of the query text and is
// case-insensitive: the category and parameters depend only on the lowercased
// content, except person extraction, which reads the original capitalization.
func Analyze(query string) Intent {
	lower := strings.ToLower(query)

	result := Intent{Type: General}
	switch {
	case containsAny(lower, appointmentTriggers):
		result.Type = Appointment
	case containsAny(lower, medicationTriggers):
		result.Type = Medication
	case containsAny(lower, locationTriggers):
		result.Type = Location
	case containsAny(lower, scheduleTriggers):
		result.Type = Schedule
	case containsAny(lower, relationshipTriggers):
		result.Type = Relationship
	}

	result.Timeframe = firstContained(lower, timeframes)
	result.RelationshipType = firstContained(lower, relationshipTypes)
	result.Person = extractPerson(query)

	return result
}

func containsAny(text string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}

func firstContained(text string, keywords []string) string {
	for _, keyword := range keywords {
		if strings.Contains(text, keyword) {
			return keyword
		}
	}
	return ""
}

// extractPerson finds the first non-leading token that looks like a proper
// name: longer than 2 characters, first rune uppercase, rest lowercase after
// stripping a trailing possessive or punctuation. The leading token is skipped
// so sentence capitalization ("Who is...") is not mistaken for a name.
// Lowercased on return so it compares against stored person fields
// case-insensitively.
func extractPerson(query string) string {
	fields := strings.Fields(query)
	if len(fields) < 2 {
		return ""
	}
	for _, token := range fields[1:] {
		token = strings.TrimSuffix(token, "'s")
		token = strings.TrimFunc(token, unicode.IsPunct)
		runes := []rune(token)
		if len(runes) <= 2 || !unicode.IsUpper(runes[0]) {
			continue
		}
		rest := runes[1:]
		allLower := true
		for _, r := range rest {
			if !unicode.IsLower(r) {
				allLower = false
				break
			}
		}
		if allLower {
			return strings.ToLower(token)
		}
	}
	return ""
}
