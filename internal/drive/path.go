package drive

import (
	"sort"
)

// Crumb is one step of a breadcrumb path.
type Crumb struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// PathTo returns the breadcrumb chain from the "My Drive" root to id, both
// ends included.
//
// The walk visits at most Len() entries; meeting an id twice returns
// ErrCycle. A parent id that is neither RootID nor a stored entry returns
// ErrDetached.
func PathTo(c *Collection, id string) ([]Crumb, error) {
	e, ok := c.Get(id)
	if !ok {
		return nil, ErrEntryNotFound
	}

	chain := []Crumb{{ID: e.ID, Name: e.Name}}
	visited := map[string]struct{}{e.ID: {}}
	parent := e.ParentID
	for parent != RootID {
		if len(visited) > c.Len() {
			return nil, ErrCycle
		}
		if _, loop := visited[parent]; loop {
			return nil, ErrCycle
		}
		p, ok := c.Get(parent)
		if !ok {
			return nil, ErrDetached
		}
		visited[parent] = struct{}{}
		chain = append(chain, Crumb{ID: p.ID, Name: p.Name})
		parent = p.ParentID
	}
	chain = append(chain, RootCrumb(ModeDrive))

	// reverse into root-first order
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain, nil
}

// Extensions lists the distinct lower-cased extensions of every file name
// that contains a '.', trashed entries included, sorted.
func Extensions(c *Collection) []string {
	set := make(map[string]struct{})
	c.each(func(e *Entry) {
		if ext, ok := e.Extension(); ok && ext != "" {
			set[ext] = struct{}{}
		}
	})
	out := make([]string, 0, len(set))
	for ext := range set {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}
