// Package extract derives semantic tags from freeform memory text at write
// time. Extraction is deterministic: the same content and declared type always
// produce the same tag set.
package extract

import (
	"sort"
	"strings"
	"unicode"
)

// keywordTable maps each memory category to the keywords that signal it.
// A hit adds the keyword itself as a tag, and promotes the category name as a
// cross-category tag when it differs from the declared type.
var keywordTable = map[string][]string{
	"medication":   {"medicine", "medication", "pill", "pills", "drug", "dose", "prescription"},
	"appointment":  {"appointment", "meeting", "doctor", "dentist", "visit", "schedule"},
	"location":     {"park", "car", "home", "work", "left", "placed", "put", "keys"},
	"relationship": {"brother", "sister", "mother", "father", "family", "friend", "cousin"},
	"general":      {"remember", "forgot", "important", "lunch", "dinner", "call"},
}

// timeKeywords are added verbatim as tags on any occurrence.
var timeKeywords = []string{
	"today", "tomorrow", "yesterday",
	"morning", "afternoon", "evening", "night",
}

// Tags derives the set of normalized lowercase tags for a memory at creation
// time from its content and declared type. Tags are computed once and never
// recomputed afterward.
func Tags(content, declaredType string) []string {
	lower := strings.ToLower(content)
	seen := make(map[string]struct{})

	// The declared type is always a tag.
	seen[declaredType] = struct{}{}

	for category, keywords := range keywordTable {
		for _, keyword := range keywords {
			if !strings.Contains(lower, keyword) {
				continue
			}
			seen[keyword] = struct{}{}
			if category != declaredType {
				seen[category] = struct{}{}
			}
		}
	}

	for _, keyword := range timeKeywords {
		if strings.Contains(lower, keyword) {
			seen[keyword] = struct{}{}
		}
	}

	for _, name := range probableNames(content) {
		seen[name] = struct{}{}
	}

	tags := make([]string, 0, len(seen))
	for tag := range seen {
		tags = append(tags, tag)
	}
	// Set semantics; sorted so serialized memories are byte-stable.
	sort.Strings(tags)
	return tags
}

// probableNames applies the capitalization heuristic: any whitespace-separated
// token longer than 2 characters whose first rune is uppercase and remaining
// runes are lowercase is treated as a proper name. Deliberately imprecise;
// kept reproducible rather than replaced with real entity recognition.
func probableNames(content string) []string {
	var names []string
	for _, token := range strings.Fields(content) {
		if looksLikeName(token) {
			names = append(names, strings.ToLower(token))
		}
	}
	return names
}

func looksLikeName(token string) bool {
	runes := []rune(token)
	if len(runes) <= 2 {
		return false
	}
	if !unicode.IsUpper(runes[0]) {
		return false
	}
	for _, r := range runes[1:] {
		if !unicode.IsLower(r) {
			return false
		}
	}
	return true
}
