package drive

// Collection is an immutable snapshot of a drive forest.
//
// It keeps the entries in insertion order plus two indexes: id to position
// and parent id to child ids. Callers only ever see copies of the stored
// entries.
type Collection struct {
	entries  []Entry
	byID     map[string]int
	children map[string][]string
}

// NewCollection builds a snapshot from entries. Later duplicates of an id
// are dropped.
func NewCollection(entries []Entry) *Collection {
	c := &Collection{
		entries:  make([]Entry, 0, len(entries)),
		byID:     make(map[string]int, len(entries)),
		children: make(map[string][]string),
	}
	for _, e := range entries {
		if _, dup := c.byID[e.ID]; dup {
			continue
		}
		c.byID[e.ID] = len(c.entries)
		c.entries = append(c.entries, e.clone())
		c.children[e.ParentID] = append(c.children[e.ParentID], e.ID)
	}
	return c
}

// Len returns the number of entries, trashed ones included.
func (c *Collection) Len() int {
	if c == nil {
		return 0
	}
	return len(c.entries)
}

// Get returns a copy of the entry with id.
func (c *Collection) Get(id string) (Entry, bool) {
	if c == nil {
		return Entry{}, false
	}
	i, ok := c.byID[id]
	if !ok {
		return Entry{}, false
	}
	return c.entries[i].clone(), true
}

// Has reports whether id is present.
func (c *Collection) Has(id string) bool {
	if c == nil {
		return false
	}
	_, ok := c.byID[id]
	return ok
}

// Entries returns copies of all entries in collection order.
func (c *Collection) Entries() []Entry {
	if c == nil {
		return []Entry{}
	}
	out := make([]Entry, len(c.entries))
	for i, e := range c.entries {
		out[i] = e.clone()
	}
	return out
}

// Children returns the ids whose parent is parentID, in collection order.
func (c *Collection) Children(parentID string) []string {
	if c == nil {
		return nil
	}
	ids := c.children[parentID]
	out := make([]string, len(ids))
	copy(out, ids)
	return out
}

// Subtree returns id followed by all of its transitive descendants, walking
// the parent index breadth first. Unknown ids yield nil. Every id is visited
// once, so a corrupt cycle cannot loop forever.
func (c *Collection) Subtree(id string) []string {
	if !c.Has(id) {
		return nil
	}
	seen := map[string]struct{}{id: {}}
	out := []string{id}
	for i := 0; i < len(out); i++ {
		for _, child := range c.children[out[i]] {
			if _, ok := seen[child]; ok {
				continue
			}
			seen[child] = struct{}{}
			out = append(out, child)
		}
	}
	return out
}

// each calls fn for every stored entry without copying. fn must not retain
// or modify the entry.
func (c *Collection) each(fn func(e *Entry)) {
	if c == nil {
		return
	}
	for i := range c.entries {
		fn(&c.entries[i])
	}
}

// update returns a new snapshot where each entry in ids has been passed
// through fn. Entries outside ids are copied unchanged.
func (c *Collection) update(ids []string, fn func(e *Entry)) *Collection {
	if len(ids) == 0 {
		return c
	}
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	next := make([]Entry, len(c.entries))
	for i, e := range c.entries {
		next[i] = e.clone()
		if _, ok := set[e.ID]; ok {
			fn(&next[i])
		}
	}
	return NewCollection(next)
}

// without returns a new snapshot with every entry for which drop returns
// true removed.
func (c *Collection) without(drop func(e *Entry) bool) *Collection {
	next := make([]Entry, 0, len(c.entries))
	for i := range c.entries {
		if drop(&c.entries[i]) {
			continue
		}
		next = append(next, c.entries[i])
	}
	if len(next) == len(c.entries) {
		return c
	}
	return NewCollection(next)
}

// with returns a new snapshot with added appended.
func (c *Collection) with(added ...Entry) *Collection {
	next := make([]Entry, 0, c.Len()+len(added))
	if c != nil {
		next = append(next, c.entries...)
	}
	next = append(next, added...)
	return NewCollection(next)
}
