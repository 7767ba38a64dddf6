package state

import (
	"sort"

	"gopkg.in/yaml.v3"
)

// ModuleSet is an unordered, unique set of module names.
type ModuleSet map[string]struct{}

// NewModuleSet builds a set from the given names.
func NewModuleSet(names ...string) ModuleSet {
	s := make(ModuleSet, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

// Has reports membership.
func (s ModuleSet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Add inserts a name.
func (s ModuleSet) Add(name string) {
	s[name] = struct{}{}
}

// Remove deletes a name.
func (s ModuleSet) Remove(name string) {
	delete(s, name)
}

// Len returns the set size.
func (s ModuleSet) Len() int {
	return len(s)
}

// Clone returns an independent copy.
func (s ModuleSet) Clone() ModuleSet {
	out := make(ModuleSet, len(s))
	for n := range s {
		out[n] = struct{}{}
	}
	return out
}

// Sorted returns the members in lexical order, for deterministic iteration
// and reproducible logs.
func (s ModuleSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for n := range s {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Difference returns the members of s not present in other.
func (s ModuleSet) Difference(other ModuleSet) ModuleSet {
	out := make(ModuleSet)
	for n := range s {
		if !other.Has(n) {
			out[n] = struct{}{}
		}
	}
	return out
}

// SymmetricDifference returns the members present in exactly one of the
// two sets.
func (s ModuleSet) SymmetricDifference(other ModuleSet) ModuleSet {
	out := s.Difference(other)
	for n := range other.Difference(s) {
		out[n] = struct{}{}
	}
	return out
}

// Equal reports whether both sets hold the same members.
func (s ModuleSet) Equal(other ModuleSet) bool {
	if len(s) != len(other) {
		return false
	}
	for n := range s {
		if !other.Has(n) {
			return false
		}
	}
	return true
}

// MarshalYAML persists the set as a sorted sequence.
func (s ModuleSet) MarshalYAML() (interface{}, error) {
	return s.Sorted(), nil
}

// UnmarshalYAML reads the set back from a sequence of names.
func (s *ModuleSet) UnmarshalYAML(value *yaml.Node) error {
	var names []string
	if err := value.Decode(&names); err != nil {
		return err
	}
	*s = NewModuleSet(names...)
	return nil
}
