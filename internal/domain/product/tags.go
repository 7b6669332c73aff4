package product

// TagSet is an ordered set of product tags (bundle names, sizes, labels).
// It preserves insertion order and rejects duplicates, replacing the
// loosely-typed list-or-map bag the catalog API accepts on input.
type TagSet struct {
	tags []string
}

// NewTagSet builds a TagSet from the given tags, dropping duplicates while
// keeping first-seen order.
func NewTagSet(tags ...string) TagSet {
	var s TagSet
	for _, t := range tags {
		s.Add(t)
	}
	return s
}

// Add appends tag to the set. It reports whether the tag was added; adding an
// empty or already present tag is a no-op.
func (s *TagSet) Add(tag string) bool {
	if tag == "" || s.Contains(tag) {
		return false
	}
	s.tags = append(s.tags, tag)
	return true
}

// Remove deletes tag from the set, reporting whether it was present.
func (s *TagSet) Remove(tag string) bool {
	for i, t := range s.tags {
		if t == tag {
			s.tags = append(s.tags[:i], s.tags[i+1:]...)
			return true
		}
	}
	return false
}

// Contains reports whether tag is in the set.
func (s *TagSet) Contains(tag string) bool {
	for _, t := range s.tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Len returns the number of tags in the set.
func (s *TagSet) Len() int {
	return len(s.tags)
}

// Slice returns the tags in insertion order. The returned slice is a copy.
func (s *TagSet) Slice() []string {
	out := make([]string, len(s.tags))
	copy(out, s.tags)
	return out
}
