package ingest

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	DefaultName     = "Unknown"
	DefaultItemName = "Unknown Item"
	DefaultNPCName  = "Unknown NPC"
)

var (
	markupTagPattern  = regexp.MustCompile(`<[^>]*>`)
	levelSuffixMarker = regexp.MustCompile(`(?i)\(\s*level[\s-]`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// NormalizeName canonicalizes a freeform display string into a stable entity
// key: inline markup tags are stripped, a trailing "(level ...)" suffix and
// everything after it is cut, and whitespace is collapsed. The result is never
// empty; missing or fully-cleaned-away input yields the fallback.
func NormalizeName(raw interface{}) string {
	return normalizeWithDefault(raw, DefaultName)
}

func NormalizeItemName(raw interface{}) string {
	return normalizeWithDefault(raw, DefaultItemName)
}

func NormalizeNPCName(raw interface{}) string {
	return normalizeWithDefault(raw, DefaultNPCName)
}

// HasLevelSuffix reports whether the raw target text carries a combat-level
// suffix, which upstream only attaches to characters.
func HasLevelSuffix(raw string) bool {
	return levelSuffixMarker.MatchString(raw)
}

func normalizeWithDefault(raw interface{}, fallback string) string {
	s := coerceString(raw)
	if s == "" {
		return fallback
	}
	s = markupTagPattern.ReplaceAllString(s, "")
	if loc := levelSuffixMarker.FindStringIndex(s); loc != nil {
		s = s[:loc[0]]
	}
	s = whitespacePattern.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)
	if s == "" {
		return fallback
	}
	return s
}

func coerceString(v interface{}) string {
	if v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case []byte:
		return strings.TrimSpace(string(t))
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}
