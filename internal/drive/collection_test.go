package drive

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCollection_Subtree(t *testing.T) {
	c := NewCollection([]Entry{
		NewFolder("a", RootID, "a", testDay),
		NewFolder("b", "a", "b", testDay),
		NewFile("c", "b", "c.txt", 1, testDay),
		NewFile("d", "a", "d.txt", 1, testDay),
		NewFile("e", RootID, "e.txt", 1, testDay),
	})

	assert.Equal(t, []string{"a", "b", "d", "c"}, c.Subtree("a"))
	assert.Equal(t, []string{"e"}, c.Subtree("e"))
	assert.Nil(t, c.Subtree("zz"))
}

func TestCollection_SubtreeToleratesCycles(t *testing.T) {
	c := NewCollection([]Entry{
		NewFolder("x", "y", "x", testDay),
		NewFolder("y", "x", "y", testDay),
	})
	assert.Equal(t, []string{"x", "y"}, c.Subtree("x"))
}

func TestNewCollection_DropsDuplicateIDs(t *testing.T) {
	c := NewCollection([]Entry{
		NewFolder("a", RootID, "first", testDay),
		NewFolder("a", RootID, "second", testDay),
	})
	assert.Equal(t, 1, c.Len())
	a, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, "first", a.Name)
	assert.Equal(t, []string{"a"}, c.Children(RootID))
}

func TestPathTo_Errors(t *testing.T) {
	c := NewCollection([]Entry{
		NewFile("orphan", "gone", "o.txt", 1, testDay),
	})
	_, err := PathTo(c, "orphan")
	assert.ErrorIs(t, err, ErrDetached)

	_, err = PathTo(c, "nobody")
	assert.ErrorIs(t, err, ErrEntryNotFound)

	_, err = PathTo(NewCollection([]Entry{NewFolder("self", "self", "s", testDay)}), "self")
	assert.ErrorIs(t, err, ErrCycle)
}
