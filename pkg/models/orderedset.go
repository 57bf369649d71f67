package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// OrderedSet is an insertion-ordered set of strings. List-valued properties
// such as druid.extensions.loadList are JSON arrays on the wire; they are
// parsed into an OrderedSet and serialized back only at that boundary.
type OrderedSet struct {
	items []string
	index map[string]struct{}
}

// NewOrderedSet builds a set from items, dropping duplicates
func NewOrderedSet(items ...string) *OrderedSet {
	s := &OrderedSet{index: make(map[string]struct{}, len(items))}
	for _, item := range items {
		s.Add(item)
	}
	return s
}

// ParseOrderedSet decodes a JSON array of strings. Blank input is an empty set.
func ParseOrderedSet(text string) (*OrderedSet, error) {
	if strings.TrimSpace(text) == "" {
		return NewOrderedSet(), nil
	}
	var items []string
	if err := json.Unmarshal([]byte(text), &items); err != nil {
		return nil, fmt.Errorf("invalid list value %q: %w", text, err)
	}
	return NewOrderedSet(items...), nil
}

// Add appends item if it is not already present
func (s *OrderedSet) Add(item string) {
	if s.index == nil {
		s.index = map[string]struct{}{}
	}
	if _, ok := s.index[item]; ok {
		return
	}
	s.index[item] = struct{}{}
	s.items = append(s.items, item)
}

// Remove deletes item, keeping the order of the others
func (s *OrderedSet) Remove(item string) {
	if _, ok := s.index[item]; !ok {
		return
	}
	delete(s.index, item)
	for i, v := range s.items {
		if v == item {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return
		}
	}
}

// Contains reports membership
func (s *OrderedSet) Contains(item string) bool {
	_, ok := s.index[item]
	return ok
}

// Len returns the number of items
func (s *OrderedSet) Len() int {
	return len(s.items)
}

// Items returns a copy of the items in insertion order
func (s *OrderedSet) Items() []string {
	out := make([]string, len(s.items))
	copy(out, s.items)
	return out
}

// String renders the set as a JSON array in the `["a", "b"]` layout the
// cluster configuration files use.
func (s *OrderedSet) String() string {
	parts := make([]string, 0, len(s.items))
	for _, item := range s.items {
		b, _ := json.Marshal(item)
		parts = append(parts, string(b))
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
