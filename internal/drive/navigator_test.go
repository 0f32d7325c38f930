package drive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNavigator_SwitchModeResets(t *testing.T) {
	n := NewNavigator()
	assert.Equal(t, ModeDrive, n.Mode())
	assert.Equal(t, []Crumb{{ID: RootID, Name: "My Drive"}}, n.Path())

	require.NoError(t, n.DescendInto(NewFolder("A", RootID, "Docs", testDay)))
	n.SetSearch("abc")
	n.SetTypeFilter(".PDF")
	n.SetUI(UIState{Modal: ModalShare, MenuEntryID: "A", RenamingID: "A"})
	assert.Equal(t, "pdf", n.State().TypeFilter)

	require.NoError(t, n.SwitchMode(ModeShared))
	st := n.State()
	assert.Equal(t, ModeShared, st.Mode)
	assert.Equal(t, []Crumb{{ID: RootID, Name: "Shared with me"}}, st.Path)
	assert.Empty(t, st.Search)
	assert.Empty(t, st.TypeFilter)
	assert.Equal(t, UIState{}, st.UI)

	assert.ErrorIs(t, n.SwitchMode("photos"), ErrInvalidMode)
	assert.Equal(t, ModeShared, n.Mode())
}

func TestNavigator_DescendInto(t *testing.T) {
	folder := NewFolder("A", RootID, "Docs", testDay)
	file := NewFile("B", "A", "a.txt", 1, testDay)

	tests := []struct {
		mode    Mode
		entry   Entry
		wantErr error
	}{
		{ModeDrive, folder, nil},
		{ModeStarred, folder, nil},
		{ModeShared, folder, nil},
		{ModeRecent, folder, ErrInvalidNavigation},
		{ModeTrash, folder, ErrInvalidNavigation},
		{ModeDrive, file, ErrInvalidNavigation},
	}
	for _, tt := range tests {
		n := NewNavigator()
		require.NoError(t, n.SwitchMode(tt.mode))
		err := n.DescendInto(tt.entry)
		if tt.wantErr != nil {
			assert.ErrorIs(t, err, tt.wantErr, "mode %s", tt.mode)
			assert.Len(t, n.Path(), 1)
			assert.Equal(t, tt.mode, n.Mode())
			continue
		}
		assert.NoError(t, err)
		assert.Equal(t, ModeDrive, n.Mode(), "descending always continues as drive browsing")
		assert.Equal(t, Crumb{ID: "A", Name: "Docs"}, n.Current())
		assert.Len(t, n.Path(), 2)
	}
}

func TestNavigator_DescendFromSearchResult(t *testing.T) {
	c := NewCollection([]Entry{
		NewFolder("a", RootID, "Work", testDay),
		NewFolder("b", "a", "2024", testDay),
		NewFolder("c", "b", "Q1", testDay),
	})
	n := NewNavigator()
	require.NoError(t, n.SwitchMode(ModeTrash))
	n.SetSearch("q1")
	n.SetTypeFilter("txt")

	q1, _ := c.Get("c")
	require.NoError(t, n.DescendFromSearchResult(c, q1))
	st := n.State()
	assert.Equal(t, ModeDrive, st.Mode)
	assert.Empty(t, st.Search)
	assert.Empty(t, st.TypeFilter)
	assert.Equal(t, []Crumb{
		{ID: RootID, Name: "My Drive"},
		{ID: "a", Name: "Work"},
		{ID: "b", Name: "2024"},
		{ID: "c", Name: "Q1"},
	}, st.Path)

	cyclic := NewCollection([]Entry{
		NewFolder("x", "y", "x", testDay),
		NewFolder("y", "x", "y", testDay),
	})
	x, _ := cyclic.Get("x")
	assert.ErrorIs(t, n.DescendFromSearchResult(cyclic, x), ErrCycle)
	assert.Equal(t, st.Path, n.Path(), "a failed descend leaves the path alone")
}

func TestNavigator_TruncateTo(t *testing.T) {
	n := NewNavigator()
	require.NoError(t, n.DescendInto(NewFolder("a", RootID, "a", testDay)))
	require.NoError(t, n.DescendInto(NewFolder("b", "a", "b", testDay)))
	path := n.Path()

	assert.ErrorIs(t, n.TruncateTo(3), ErrInvalidCrumb)
	assert.ErrorIs(t, n.TruncateTo(-1), ErrInvalidCrumb)
	assert.Equal(t, path, n.Path())

	require.NoError(t, n.TruncateTo(2))
	assert.Equal(t, path, n.Path())

	require.NoError(t, n.TruncateTo(1))
	assert.Equal(t, path[:2], n.Path())

	require.NoError(t, n.TruncateTo(0))
	assert.Equal(t, []Crumb{RootCrumb(ModeDrive)}, n.Path())

	require.NoError(t, n.SwitchMode(ModeRecent))
	assert.ErrorIs(t, n.TruncateTo(0), ErrInvalidNavigation)
}

func TestNavigator_Open(t *testing.T) {
	c := docsCollection()
	docs, _ := c.Get("A")
	file, _ := c.Get("B")

	n := NewNavigator()
	moved, err := n.Open(c, file)
	assert.NoError(t, err)
	assert.False(t, moved)

	moved, err = n.Open(c, docs)
	assert.NoError(t, err)
	assert.True(t, moved)
	assert.Equal(t, "A", n.Current().ID)

	require.NoError(t, n.SwitchMode(ModeRecent))
	moved, err = n.Open(c, docs)
	assert.NoError(t, err)
	assert.False(t, moved)
	assert.Equal(t, ModeRecent, n.Mode())

	n.SetSearch("doc")
	moved, err = n.Open(c, docs)
	assert.NoError(t, err)
	assert.True(t, moved)
	assert.Equal(t, ModeDrive, n.Mode())
	assert.False(t, n.Searching())
	assert.Equal(t, []Crumb{RootCrumb(ModeDrive), {ID: "A", Name: "Docs"}}, n.Path())
}

func TestNavigator_QueryFollowsState(t *testing.T) {
	c := docsCollection()
	n := NewNavigator()
	docs, _ := c.Get("A")
	require.NoError(t, n.DescendInto(docs))

	got := Resolve(c, n.Query("me@example.com"))
	if assert.Len(t, got, 1) {
		assert.Equal(t, "2 KB", got[0].Size())
	}

	n.SetTypeFilter("txt")
	q := n.Query("me@example.com")
	assert.True(t, q.Searching())
	assert.Equal(t, "me@example.com", q.Viewer)
	assert.Equal(t, []string{"B"}, ids(Resolve(c, q)))
}
