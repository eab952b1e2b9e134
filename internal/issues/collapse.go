package issues

import (
	"sort"
	"strings"
)

// CollapsedSet is an immutable set of collapsed repo keys.
// The zero value is the empty set.
type CollapsedSet struct {
	keys map[string]struct{}
}

// NewCollapsedSet builds a set from repo keys. Empty keys are ignored.
func NewCollapsedSet(keys ...string) CollapsedSet {
	s := CollapsedSet{keys: make(map[string]struct{}, len(keys))}
	for _, k := range keys {
		if k != "" {
			s.keys[k] = struct{}{}
		}
	}
	return s
}

// ParseCollapsed decodes the comma-separated form produced by String.
func ParseCollapsed(s string) CollapsedSet {
	if s == "" {
		return CollapsedSet{}
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return NewCollapsedSet(parts...)
}

// Contains reports whether key is collapsed.
func (s CollapsedSet) Contains(key string) bool {
	_, ok := s.keys[key]
	return ok
}

// Len returns the number of collapsed keys.
func (s CollapsedSet) Len() int {
	return len(s.keys)
}

// Toggle returns a copy of the set with key's membership flipped.
func (s CollapsedSet) Toggle(key string) CollapsedSet {
	next := CollapsedSet{keys: make(map[string]struct{}, len(s.keys)+1)}
	for k := range s.keys {
		next.keys[k] = struct{}{}
	}
	if _, ok := next.keys[key]; ok {
		delete(next.keys, key)
	} else {
		next.keys[key] = struct{}{}
	}
	return next
}

// Keys returns the collapsed keys sorted.
func (s CollapsedSet) Keys() []string {
	keys := make([]string, 0, len(s.keys))
	for k := range s.keys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// String encodes the set as sorted, comma-separated keys.
func (s CollapsedSet) String() string {
	return strings.Join(s.Keys(), ",")
}

// Equal reports whether both sets hold the same keys.
func (s CollapsedSet) Equal(other CollapsedSet) bool {
	if len(s.keys) != len(other.keys) {
		return false
	}
	for k := range s.keys {
		if !other.Contains(k) {
			return false
		}
	}
	return true
}
