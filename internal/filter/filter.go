// Package filter builds inclusion and exclusion predicates over entry names.
package filter

import (
	"path/filepath"
	"strings"
)

// wildcardCharacters are the glob metacharacters recognized in patterns.
const wildcardCharacters = "*?"

// Predicate reports whether an entry name passes a filter.
type Predicate func(entryName string) bool

// Matches reports whether entryName matches the provided pattern.
// Patterns containing a wildcard character are evaluated with
// filepath.Match semantics against the bare name; patterns without
// wildcards require exact equality. Matching is case sensitive.
func Matches(entryName string, pattern string) bool {
	if !strings.ContainsAny(pattern, wildcardCharacters) {
		return entryName == pattern
	}
	isMatched, matchError := filepath.Match(pattern, entryName)
	if matchError != nil {
		return false
	}
	return isMatched
}

// BuildPredicate composes include and exclude pattern lists into a single
// predicate. A non-empty include list admits only matching names and makes
// the exclude list irrelevant. Otherwise a name matching any exclude
// pattern is rejected. An empty specification accepts every name.
func BuildPredicate(includePatterns []string, excludePatterns []string) Predicate {
	if len(includePatterns) > 0 {
		included := append([]string(nil), includePatterns...)
		return func(entryName string) bool {
			for _, includePattern := range included {
				if Matches(entryName, includePattern) {
					return true
				}
			}
			return false
		}
	}

	if len(excludePatterns) == 0 {
		return func(string) bool { return true }
	}

	excluded := append([]string(nil), excludePatterns...)
	return func(entryName string) bool {
		for _, excludePattern := range excluded {
			if Matches(entryName, excludePattern) {
				return false
			}
		}
		return true
	}
}
