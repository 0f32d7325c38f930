package drive

import (
	"errors"
	"strings"
)

// Modal names the dialog currently open in the presentation layer.
type Modal string

const (
	ModalNone    Modal = ""
	ModalCreate  Modal = "create"
	ModalUpload  Modal = "upload"
	ModalShare   Modal = "share"
	ModalColor   Modal = "color"
	ModalDetails Modal = "details"
)

// UIState is transient presentation state that mode switches reset.
type UIState struct {
	Modal       Modal  `json:"modal,omitempty"`
	MenuEntryID string `json:"menuEntryId,omitempty"`
	RenamingID  string `json:"renamingId,omitempty"`
}

// Navigator owns the mode, breadcrumb path, search state and UI state of one
// session. It is not safe for concurrent use.
type Navigator struct {
	mode       Mode
	path       []Crumb
	search     string
	typeFilter string
	ui         UIState
}

// NewNavigator starts at the "My Drive" root.
func NewNavigator() *Navigator {
	n := &Navigator{}
	n.SwitchMode(ModeDrive)
	return n
}

// NavigatorState is a read-only copy of a Navigator.
type NavigatorState struct {
	Mode       Mode    `json:"mode"`
	Path       []Crumb `json:"path"`
	Search     string  `json:"search"`
	TypeFilter string  `json:"typeFilter"`
	UI         UIState `json:"ui"`
}

func (n *Navigator) State() NavigatorState {
	return NavigatorState{
		Mode:       n.mode,
		Path:       n.Path(),
		Search:     n.search,
		TypeFilter: n.typeFilter,
		UI:         n.ui,
	}
}

func (n *Navigator) Mode() Mode {
	return n.mode
}

// Path returns a copy of the breadcrumb path.
func (n *Navigator) Path() []Crumb {
	out := make([]Crumb, len(n.path))
	copy(out, n.path)
	return out
}

// Current returns the last crumb.
func (n *Navigator) Current() Crumb {
	return n.path[len(n.path)-1]
}

// Searching reports whether a search or type filter is active.
func (n *Navigator) Searching() bool {
	return strings.TrimSpace(n.search) != "" || NormalizeExt(n.typeFilter) != ""
}

// SwitchMode collapses the path to the mode root and clears search, filter
// and UI state.
func (n *Navigator) SwitchMode(m Mode) error {
	if !m.Valid() {
		return ErrInvalidMode
	}
	n.mode = m
	n.path = []Crumb{RootCrumb(m)}
	n.search = ""
	n.typeFilter = ""
	n.ui = UIState{}
	return nil
}

// DescendInto appends folder to the path and continues as drive browsing.
// Only drive, starred and shared allow it.
func (n *Navigator) DescendInto(folder Entry) error {
	switch n.mode {
	case ModeDrive, ModeStarred, ModeShared:
	default:
		return ErrInvalidNavigation
	}
	if !folder.IsFolder() {
		return ErrInvalidNavigation
	}
	n.path = append(n.Path(), Crumb{ID: folder.ID, Name: folder.Name})
	n.mode = ModeDrive
	return nil
}

// DescendFromSearchResult replaces the path with the full ancestor chain of
// folder and leaves the search view.
func (n *Navigator) DescendFromSearchResult(c *Collection, folder Entry) error {
	if !folder.IsFolder() {
		return ErrInvalidNavigation
	}
	path, err := PathTo(c, folder.ID)
	if err != nil {
		return err
	}
	n.path = path
	n.mode = ModeDrive
	n.search = ""
	n.typeFilter = ""
	return nil
}

// TruncateTo keeps path[:index+1]. Drive mode only.
func (n *Navigator) TruncateTo(index int) error {
	if n.mode != ModeDrive {
		return ErrInvalidNavigation
	}
	if index < 0 || index >= len(n.path) {
		return ErrInvalidCrumb
	}
	n.path = n.Path()[:index+1]
	return nil
}

func (n *Navigator) SetSearch(q string) {
	n.search = q
}

func (n *Navigator) SetTypeFilter(ext string) {
	n.typeFilter = NormalizeExt(ext)
}

func (n *Navigator) SetUI(s UIState) {
	n.ui = s
}

// Query builds the resolver input for viewer.
func (n *Navigator) Query(viewer string) Query {
	return Query{
		Mode:       n.mode,
		Path:       n.Path(),
		Search:     n.search,
		TypeFilter: n.typeFilter,
		Viewer:     viewer,
	}
}

// Open handles a double activation. Folders navigate when the current state
// allows it; files never do. It reports whether the path changed.
func (n *Navigator) Open(c *Collection, e Entry) (bool, error) {
	if !e.IsFolder() {
		return false, nil
	}
	if n.Searching() {
		if err := n.DescendFromSearchResult(c, e); err != nil {
			return false, err
		}
		return true, nil
	}
	if err := n.DescendInto(e); err != nil {
		if errors.Is(err, ErrInvalidNavigation) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
