package deps

// OrderedSet is an insertion-ordered set of strings. The first occurrence of
// a value fixes its position; later additions of the same value are ignored.
type OrderedSet struct {
	seen  map[string]struct{}
	items []string
}

// NewOrderedSet returns an empty set.
func NewOrderedSet() *OrderedSet {
	return &OrderedSet{seen: make(map[string]struct{})}
}

// Add inserts v and reports whether it was new.
func (s *OrderedSet) Add(v string) bool {
	if _, ok := s.seen[v]; ok {
		return false
	}
	s.seen[v] = struct{}{}
	s.items = append(s.items, v)
	return true
}

// Len returns the number of distinct values.
func (s *OrderedSet) Len() int { return len(s.items) }

// Slice returns a copy of the values in insertion order. It is never nil.
func (s *OrderedSet) Slice() []string {
	out := make([]string, len(s.items))
	copy(out, s.items)
	return out
}
