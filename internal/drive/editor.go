package drive

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/haierkeys/fast-drive-service/pkg/timex"
)

// Upload is a raw upload descriptor. Only the name and size are modeled.
type Upload struct {
	Name  string `json:"name"`
	Bytes int64  `json:"bytes"`
}

// Editor applies mutations to a collection. Every method returns the next
// snapshot and leaves its input untouched; an unknown id returns the input.
type Editor struct {
	now   func() time.Time
	newID func() string
}

// EditorOption 编辑器配置项
type EditorOption func(*Editor)

// WithClock sets the time source.
func WithClock(now func() time.Time) EditorOption {
	return func(e *Editor) { e.now = now }
}

// WithIDFunc sets the id generator.
func WithIDFunc(fn func() string) EditorOption {
	return func(e *Editor) { e.newID = fn }
}

func NewEditor(opts ...EditorOption) *Editor {
	e := &Editor{now: time.Now, newID: uuid.NewString}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// CreateFolder adds a folder under parentID. A blank name is a no-op and
// returns a nil entry.
func (ed *Editor) CreateFolder(c *Collection, name, parentID string) (*Collection, *Entry) {
	name = strings.TrimSpace(name)
	if name == "" {
		return c, nil
	}
	f := NewFolder(ed.newID(), parentID, name, timex.DateOf(ed.now()))
	return c.with(f), &f
}

// UploadFiles adds one file per descriptor under parentID. Blank names are
// skipped.
func (ed *Editor) UploadFiles(c *Collection, files []Upload, parentID string) (*Collection, []Entry) {
	now := ed.now()
	today := timex.DateOf(now)
	added := make([]Entry, 0, len(files))
	for _, u := range files {
		name := strings.TrimSpace(u.Name)
		if name == "" {
			continue
		}
		f := NewFile(ed.newID(), parentID, name, u.Bytes, today)
		if f.File.Bytes < 0 {
			f.File.Bytes = 0
		}
		at := now
		f.LastAccessedAt = &at
		added = append(added, f)
	}
	if len(added) == 0 {
		return c, added
	}
	return c.with(added...), added
}

// Rename sets the trimmed name. ModifiedDate is left as is.
func (ed *Editor) Rename(c *Collection, id, name string) *Collection {
	name = strings.TrimSpace(name)
	if name == "" || !c.Has(id) {
		return c
	}
	return c.update([]string{id}, func(e *Entry) { e.Name = name })
}

// TouchAccess records an open of a file or folder.
func (ed *Editor) TouchAccess(c *Collection, id string) *Collection {
	if !c.Has(id) {
		return c
	}
	now := ed.now()
	return c.update([]string{id}, func(e *Entry) { e.LastAccessedAt = &now })
}

func (ed *Editor) ToggleStar(c *Collection, id string) *Collection {
	if !c.Has(id) {
		return c
	}
	return c.update([]string{id}, func(e *Entry) { e.IsStarred = !e.IsStarred })
}

// SetColor recolors a folder. Files have no color slot and are left alone.
func (ed *Editor) SetColor(c *Collection, id string, color Color) *Collection {
	e, ok := c.Get(id)
	if !ok || !e.IsFolder() {
		return c
	}
	return c.update([]string{id}, func(e *Entry) {
		if e.Folder == nil {
			e.Folder = &FolderAttrs{}
		}
		e.Folder.Color = color
	})
}

// SoftDelete marks id and its subtree as trashed.
func (ed *Editor) SoftDelete(c *Collection, id string) *Collection {
	now := ed.now()
	return c.update(c.Subtree(id), func(e *Entry) {
		at := now
		e.DeletedAt = &at
	})
}

// Restore clears the trash mark on id and its current subtree.
func (ed *Editor) Restore(c *Collection, id string) *Collection {
	return c.update(c.Subtree(id), func(e *Entry) { e.DeletedAt = nil })
}

// PermanentlyDelete removes id and its subtree.
func (ed *Editor) PermanentlyDelete(c *Collection, id string) *Collection {
	ids := c.Subtree(id)
	if len(ids) == 0 {
		return c
	}
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return c.without(func(e *Entry) bool {
		_, ok := set[e.ID]
		return ok
	})
}

// ClearTrash removes every trashed entry.
func (ed *Editor) ClearTrash(c *Collection) *Collection {
	return c.without(func(e *Entry) bool { return e.IsTrashed() })
}

// PurgeTrashedBefore removes trashed entries deleted before cutoff.
func (ed *Editor) PurgeTrashedBefore(c *Collection, cutoff time.Time) *Collection {
	return c.without(func(e *Entry) bool {
		return e.DeletedAt != nil && e.DeletedAt.Before(cutoff)
	})
}

// UpdateSharing replaces the share list of id, keeping the given order.
// owner may not appear in the list and emails must be unique, both compared
// case-insensitively.
func (ed *Editor) UpdateSharing(c *Collection, id, owner string, shares []Share) (*Collection, error) {
	if !c.Has(id) {
		return c, ErrEntryNotFound
	}
	owner = strings.ToLower(strings.TrimSpace(owner))
	seen := make(map[string]struct{}, len(shares))
	next := make([]Share, 0, len(shares))
	for _, s := range shares {
		email := strings.TrimSpace(s.Email)
		key := strings.ToLower(email)
		if owner != "" && key == owner {
			return c, ErrSelfShare
		}
		if _, dup := seen[key]; dup {
			return c, ErrDuplicateShare
		}
		if !s.Access.Valid() {
			return c, ErrInvalidAccess
		}
		seen[key] = struct{}{}
		next = append(next, Share{Email: email, Access: s.Access})
	}
	return c.update([]string{id}, func(e *Entry) { e.SharedWith = next }), nil
}
