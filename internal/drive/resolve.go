package drive

import (
	"sort"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Mode is a top-level navigation state.
type Mode string

const (
	ModeDrive   Mode = "drive"
	ModeRecent  Mode = "recent"
	ModeStarred Mode = "starred"
	ModeShared  Mode = "shared"
	ModeTrash   Mode = "trash"
)

// RecentLimit caps the recent view.
const RecentLimit = 20

var rootNames = map[Mode]string{
	ModeDrive:   "My Drive",
	ModeRecent:  "Recent",
	ModeStarred: "Starred",
	ModeShared:  "Shared with me",
	ModeTrash:   "Trash",
}

// Valid reports whether m is one of the five modes.
func (m Mode) Valid() bool {
	_, ok := rootNames[m]
	return ok
}

// ParseMode 解析导航模式
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	if !m.Valid() {
		return "", ErrInvalidMode
	}
	return m, nil
}

// RootCrumb returns the synthetic root crumb of mode.
func RootCrumb(m Mode) Crumb {
	return Crumb{ID: RootID, Name: rootNames[m]}
}

// Query is everything the visible list depends on.
type Query struct {
	Mode       Mode
	Path       []Crumb
	Search     string
	TypeFilter string
	// Viewer is the email of the session user, read by the shared view.
	Viewer string
}

// Searching reports whether the search view overrides the mode.
func (q Query) Searching() bool {
	return strings.TrimSpace(q.Search) != "" || NormalizeExt(q.TypeFilter) != ""
}

// NormalizeExt lower-cases a type filter and strips a leading '.'.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
}

// Resolve returns the ordered entries visible for q. It never returns nil.
func Resolve(c *Collection, q Query) []Entry {
	if q.Searching() {
		return resolveSearch(c, q)
	}

	var out []Entry
	switch q.Mode {
	case ModeDrive:
		if len(q.Path) == 0 {
			return []Entry{}
		}
		parent := q.Path[len(q.Path)-1].ID
		for _, id := range c.Children(parent) {
			if e, ok := c.Get(id); ok && !e.IsTrashed() {
				out = append(out, e)
			}
		}
		sortFoldersFirst(out)
	case ModeRecent:
		out = collect(c, func(e *Entry) bool { return !e.IsTrashed() && e.LastAccessedAt != nil })
		sortByTimeDesc(out, func(e Entry) time.Time { return *e.LastAccessedAt })
		if len(out) > RecentLimit {
			out = out[:RecentLimit]
		}
	case ModeStarred:
		out = collect(c, func(e *Entry) bool { return !e.IsTrashed() && e.IsStarred })
		sortFoldersFirst(out)
	case ModeShared:
		viewer := strings.TrimSpace(q.Viewer)
		if viewer == "" {
			return []Entry{}
		}
		out = collect(c, func(e *Entry) bool { return !e.IsTrashed() && e.SharedWithEmail(viewer) })
		sortFoldersFirst(out)
	case ModeTrash:
		out = collect(c, func(e *Entry) bool { return e.IsTrashed() })
		sortByTimeDesc(out, func(e Entry) time.Time { return *e.DeletedAt })
	}
	if out == nil {
		return []Entry{}
	}
	return out
}

func resolveSearch(c *Collection, q Query) []Entry {
	needle := strings.ToLower(strings.TrimSpace(q.Search))
	filter := NormalizeExt(q.TypeFilter)

	out := collect(c, func(e *Entry) bool {
		if e.IsTrashed() {
			return false
		}
		if needle != "" && !strings.Contains(strings.ToLower(e.Name), needle) {
			return false
		}
		if filter != "" {
			ext, ok := e.Extension()
			return ok && ext == filter
		}
		return true
	})
	sortByName(out)
	if out == nil {
		return []Entry{}
	}
	return out
}

func collect(c *Collection, keep func(e *Entry) bool) []Entry {
	var out []Entry
	c.each(func(e *Entry) {
		if keep(e) {
			out = append(out, e.clone())
		}
	})
	return out
}

// newCollator returns a case-insensitive collator. collate.Collator is not
// safe for concurrent use, so each sort gets its own.
func newCollator() *collate.Collator {
	return collate.New(language.Und, collate.IgnoreCase)
}

func sortByName(es []Entry) {
	col := newCollator()
	sort.SliceStable(es, func(i, j int) bool {
		return col.CompareString(es[i].Name, es[j].Name) < 0
	})
}

func sortFoldersFirst(es []Entry) {
	col := newCollator()
	sort.SliceStable(es, func(i, j int) bool {
		if fi, fj := es[i].IsFolder(), es[j].IsFolder(); fi != fj {
			return fi
		}
		return col.CompareString(es[i].Name, es[j].Name) < 0
	})
}

func sortByTimeDesc(es []Entry, at func(Entry) time.Time) {
	sort.SliceStable(es, func(i, j int) bool {
		return at(es[i]).After(at(es[j]))
	})
}
