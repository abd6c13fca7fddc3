package usecase

import (
	"main/model"
)

// noteCollection is the in-memory mirror of a user's notes plus the
// current/selected pointers UI consumers hold into it. It is not
// self-locking: the owning SyncEngine serializes all access.
//
// Change delivery is at-least-once and possibly out of order, so every
// apply method is idempotent. Deleted ids are remembered as tombstones
// so a stale insert or update can never resurrect a note.
type noteCollection struct {
	notes    []*model.Note
	current  *model.Note
	selected *model.Note
	deleted  map[string]struct{}
}

func newNoteCollection() *noteCollection {
	return &noteCollection{
		deleted: make(map[string]struct{}),
	}
}

// reset replaces the collection with a fresh bulk load. The load is
// authoritative, so tombstones are cleared. Current/selected pointers
// are remapped onto the new copies by id, or cleared when the id is
// gone.
func (c *noteCollection) reset(notes []model.Note) {
	c.notes = make([]*model.Note, len(notes))
	for i := range notes {
		n := notes[i]
		c.notes[i] = &n
	}
	c.deleted = make(map[string]struct{})

	c.current = c.remap(c.current)
	c.selected = c.remap(c.selected)
}

func (c *noteCollection) remap(ptr *model.Note) *model.Note {
	if ptr == nil {
		return nil
	}
	if i := c.index(ptr.ID); i >= 0 {
		return c.notes[i]
	}
	return nil
}

// applyInsert folds an insert event in. Redelivered inserts (same id)
// and inserts of already-deleted ids are dropped. New notes are
// prepended: newest first.
func (c *noteCollection) applyInsert(note model.Note) bool {
	if _, gone := c.deleted[note.ID]; gone {
		return false
	}
	if c.index(note.ID) >= 0 {
		return false
	}
	n := note
	c.notes = append([]*model.Note{&n}, c.notes...)
	return true
}

// applyUpdate replaces the entry with a matching id, refreshing the
// current/selected pointers so open editors see live data. An update
// for an unknown id falls back to insert (it may have raced ahead of
// its insert event) unless the id was already deleted: the delete wins.
func (c *noteCollection) applyUpdate(note model.Note) bool {
	if _, gone := c.deleted[note.ID]; gone {
		return false
	}

	i := c.index(note.ID)
	if i < 0 {
		return c.applyInsert(note)
	}

	n := note
	c.notes[i] = &n
	if c.current != nil && c.current.ID == note.ID {
		c.current = c.notes[i]
	}
	if c.selected != nil && c.selected.ID == note.ID {
		c.selected = c.notes[i]
	}
	return true
}

// applyDelete removes the entry, records a tombstone, and clears any
// pointer that referenced it. Redelivery is a no-op.
func (c *noteCollection) applyDelete(noteID string) bool {
	c.deleted[noteID] = struct{}{}

	i := c.index(noteID)
	if i < 0 {
		return false
	}
	c.notes = append(c.notes[:i], c.notes[i+1:]...)

	if c.current != nil && c.current.ID == noteID {
		c.current = nil
	}
	if c.selected != nil && c.selected.ID == noteID {
		c.selected = nil
	}
	return true
}

// setCurrent points the current-note pointer at the collection's copy.
// Empty id clears the pointer. Returns false when the id is unknown.
func (c *noteCollection) setCurrent(noteID string) bool {
	if noteID == "" {
		c.current = nil
		return true
	}
	i := c.index(noteID)
	if i < 0 {
		return false
	}
	c.current = c.notes[i]
	return true
}

func (c *noteCollection) setSelected(noteID string) bool {
	if noteID == "" {
		c.selected = nil
		return true
	}
	i := c.index(noteID)
	if i < 0 {
		return false
	}
	c.selected = c.notes[i]
	return true
}

// snapshot returns value copies for handing out past the engine's lock.
func (c *noteCollection) snapshot() []model.Note {
	notes := make([]model.Note, len(c.notes))
	for i, n := range c.notes {
		notes[i] = *n
	}
	return notes
}

// filtered returns value copies of the notes passing the filter.
func (c *noteCollection) filtered(filter model.NoteFilter) []model.Note {
	notes := make([]model.Note, 0, len(c.notes))
	for _, n := range c.notes {
		if filter.Matches(*n) {
			notes = append(notes, *n)
		}
	}
	return notes
}

func (c *noteCollection) index(noteID string) int {
	for i, n := range c.notes {
		if n.ID == noteID {
			return i
		}
	}
	return -1
}
