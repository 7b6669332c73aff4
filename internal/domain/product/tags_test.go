package product

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTagSet_AddPreservesOrderAndUniqueness(t *testing.T) {
	s := NewTagSet("summer", "bundle-a", "summer", "clearance")

	assert.Equal(t, []string{"summer", "bundle-a", "clearance"}, s.Slice())
	assert.Equal(t, 3, s.Len())

	assert.False(t, s.Add("bundle-a"))
	assert.False(t, s.Add(""))
	assert.True(t, s.Add("new"))
	assert.Equal(t, []string{"summer", "bundle-a", "clearance", "new"}, s.Slice())
}

func TestTagSet_Remove(t *testing.T) {
	s := NewTagSet("a", "b", "c")

	assert.True(t, s.Remove("b"))
	assert.False(t, s.Remove("b"))
	assert.False(t, s.Contains("b"))
	assert.Equal(t, []string{"a", "c"}, s.Slice())
}

func TestTagSet_SliceIsCopy(t *testing.T) {
	s := NewTagSet("a", "b")
	out := s.Slice()
	out[0] = "mutated"

	assert.True(t, s.Contains("a"))
	assert.Equal(t, []string{"a", "b"}, s.Slice())
}
