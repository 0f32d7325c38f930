// Package drive implements the drive tree model: the entry forest, the
// visibility rules of every navigation mode, the navigation state machine and
// the mutations applied to an entry collection.
//
// Everything in this package is pure and synchronous. Mutations never touch
// the collection they receive; they return the next snapshot.
package drive

import (
	"strings"
	"time"

	"github.com/haierkeys/fast-drive-service/pkg/timex"
)

// RootID is the parent id of top-level entries ("My Drive").
const RootID = ""

// Kind 条目类型
type Kind string

const (
	KindFolder Kind = "folder"
	KindFile   Kind = "file"
)

// Color is a folder color from the fixed palette. The empty value means default.
type Color string

const (
	ColorDefault Color = ""
	ColorGray    Color = "gray"
	ColorRed     Color = "red"
	ColorOrange  Color = "orange"
	ColorYellow  Color = "yellow"
	ColorGreen   Color = "green"
	ColorTeal    Color = "teal"
	ColorBlue    Color = "blue"
	ColorPurple  Color = "purple"
	ColorPink    Color = "pink"
)

// Palette lists the selectable folder colors in display order.
var Palette = []Color{ColorGray, ColorRed, ColorOrange, ColorYellow, ColorGreen, ColorTeal, ColorBlue, ColorPurple, ColorPink}

// Valid reports whether c is the default color or a palette color.
func (c Color) Valid() bool {
	if c == ColorDefault {
		return true
	}
	for _, p := range Palette {
		if p == c {
			return true
		}
	}
	return false
}

// Access 分享权限
type Access string

const (
	AccessView Access = "view"
	AccessEdit Access = "edit"
)

// Valid reports whether a is a known access level.
func (a Access) Valid() bool {
	return a == AccessView || a == AccessEdit
}

// Share grants one email access to an entry.
type Share struct {
	Email  string `json:"email"`
	Access Access `json:"access"`
}

// FolderAttrs holds the attributes only folders carry.
type FolderAttrs struct {
	Color Color `json:"color,omitempty"`
}

// FileAttrs holds the attributes only files carry.
type FileAttrs struct {
	// Size is the human readable size computed at upload time.
	Size  string `json:"size"`
	Bytes int64  `json:"bytes"`
}

// Entry is a node of the drive forest. Exactly one of Folder and File is set,
// matching Kind.
type Entry struct {
	ID             string       `json:"id"`
	ParentID       string       `json:"parentId"`
	Kind           Kind         `json:"kind"`
	Name           string       `json:"name"`
	ModifiedDate   timex.Date   `json:"modifiedDate"`
	IsStarred      bool         `json:"isStarred"`
	LastAccessedAt *time.Time   `json:"lastAccessedAt,omitempty"`
	DeletedAt      *time.Time   `json:"deletedAt,omitempty"`
	SharedWith     []Share      `json:"sharedWith"`
	Folder         *FolderAttrs `json:"folder,omitempty"`
	File           *FileAttrs   `json:"file,omitempty"`
}

// NewFolder builds a live folder entry.
func NewFolder(id, parentID, name string, modified timex.Date) Entry {
	return Entry{
		ID:           id,
		ParentID:     parentID,
		Kind:         KindFolder,
		Name:         name,
		ModifiedDate: modified,
		SharedWith:   []Share{},
		Folder:       &FolderAttrs{},
	}
}

// NewFile builds a live file entry whose size is formatted from bytes.
func NewFile(id, parentID, name string, bytes int64, modified timex.Date) Entry {
	return Entry{
		ID:           id,
		ParentID:     parentID,
		Kind:         KindFile,
		Name:         name,
		ModifiedDate: modified,
		SharedWith:   []Share{},
		File:         &FileAttrs{Size: FormatSize(bytes), Bytes: bytes},
	}
}

func (e Entry) IsFolder() bool {
	return e.Kind == KindFolder
}

// IsTrashed reports whether the entry itself carries a deletion mark.
func (e Entry) IsTrashed() bool {
	return e.DeletedAt != nil
}

// Color returns the folder color, or the default for files.
func (e Entry) Color() Color {
	if e.Folder == nil {
		return ColorDefault
	}
	return e.Folder.Color
}

// Size returns the formatted size of a file, or "" for folders.
func (e Entry) Size() string {
	if e.File == nil {
		return ""
	}
	return e.File.Size
}

// Extension returns the lower-cased text after the last '.' of the name, and
// false when the entry is a folder or the name has no '.'.
func (e Entry) Extension() (string, bool) {
	if e.IsFolder() {
		return "", false
	}
	return extensionOf(e.Name)
}

// SharedWithEmail reports whether email appears in the share list.
func (e Entry) SharedWithEmail(email string) bool {
	for _, s := range e.SharedWith {
		if strings.EqualFold(s.Email, email) {
			return true
		}
	}
	return false
}

func extensionOf(name string) (string, bool) {
	i := strings.LastIndex(name, ".")
	if i < 0 {
		return "", false
	}
	return strings.ToLower(name[i+1:]), true
}

// clone returns a deep copy so snapshots never share mutable state.
func (e Entry) clone() Entry {
	out := e
	if e.LastAccessedAt != nil {
		t := *e.LastAccessedAt
		out.LastAccessedAt = &t
	}
	if e.DeletedAt != nil {
		t := *e.DeletedAt
		out.DeletedAt = &t
	}
	out.SharedWith = make([]Share, len(e.SharedWith))
	copy(out.SharedWith, e.SharedWith)
	if e.Folder != nil {
		f := *e.Folder
		out.Folder = &f
	}
	if e.File != nil {
		f := *e.File
		out.File = &f
	}
	return out
}
