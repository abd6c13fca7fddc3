package usecase

import (
	"testing"
	"time"

	"main/model"
)

func makeNote(id, title string) model.Note {
	now := time.Now()
	return model.Note{
		ID:                id,
		UserID:            "user-1",
		Title:             title,
		Category:          model.DefaultCategory,
		Tags:              []string{},
		ReminderStatus:    model.DefaultReminderStatus,
		ReminderFrequency: model.DefaultReminderFrequency,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

func TestApplyInsertDeduplicates(t *testing.T) {
	c := newNoteCollection()

	if !c.applyInsert(makeNote("n1", "First")) {
		t.Fatal("first insert should apply")
	}
	if c.applyInsert(makeNote("n1", "First again")) {
		t.Error("redelivered insert should be dropped")
	}

	if len(c.notes) != 1 {
		t.Errorf("expected exactly 1 note, got %d", len(c.notes))
	}
	if c.notes[0].Title != "First" {
		t.Errorf("duplicate insert overwrote the original: %q", c.notes[0].Title)
	}
}

func TestApplyInsertPrependsNewest(t *testing.T) {
	c := newNoteCollection()
	c.applyInsert(makeNote("n1", "Older"))
	c.applyInsert(makeNote("n2", "Newer"))

	if c.notes[0].ID != "n2" || c.notes[1].ID != "n1" {
		t.Errorf("expected newest-first ordering, got [%s %s]", c.notes[0].ID, c.notes[1].ID)
	}
}

func TestApplyUpdateIsIdempotent(t *testing.T) {
	c := newNoteCollection()
	c.applyInsert(makeNote("n1", "Before"))

	updated := makeNote("n1", "After")
	c.applyUpdate(updated)
	first := c.snapshot()

	c.applyUpdate(updated)
	second := c.snapshot()

	if len(first) != 1 || len(second) != 1 {
		t.Fatalf("expected 1 note after updates, got %d then %d", len(first), len(second))
	}
	if first[0].Title != "After" || second[0].Title != "After" {
		t.Errorf("update not applied: %q / %q", first[0].Title, second[0].Title)
	}
}

func TestApplyUpdateUnknownIDFallsBackToInsert(t *testing.T) {
	c := newNoteCollection()

	if !c.applyUpdate(makeNote("n9", "Raced ahead")) {
		t.Fatal("update for unknown id should insert defensively")
	}
	if len(c.notes) != 1 || c.notes[0].ID != "n9" {
		t.Errorf("expected defensive insert of n9, got %d notes", len(c.notes))
	}
}

func TestDeleteWinsOverStaleUpdate(t *testing.T) {
	c := newNoteCollection()
	c.applyInsert(makeNote("n1", "Doomed"))

	c.applyDelete("n1")
	if c.applyUpdate(makeNote("n1", "Zombie")) {
		t.Error("stale update after delete should be dropped")
	}
	if c.applyInsert(makeNote("n1", "Zombie")) {
		t.Error("redelivered insert after delete should be dropped")
	}

	if len(c.notes) != 0 {
		t.Errorf("deleted note was resurrected: %d notes", len(c.notes))
	}
}

func TestApplyDeleteIsIdempotent(t *testing.T) {
	c := newNoteCollection()
	c.applyInsert(makeNote("n1", "Once"))

	if !c.applyDelete("n1") {
		t.Fatal("first delete should apply")
	}
	if c.applyDelete("n1") {
		t.Error("second delete should be a no-op")
	}
}

func TestUpdateRefreshesCurrentPointer(t *testing.T) {
	c := newNoteCollection()
	c.applyInsert(makeNote("n1", "X"))
	if !c.setCurrent("n1") {
		t.Fatal("setCurrent failed for existing note")
	}

	c.applyUpdate(makeNote("n1", "Y"))

	if c.current == nil {
		t.Fatal("current pointer was lost on update")
	}
	if c.current.Title != "Y" {
		t.Errorf("current note shows stale data: %q", c.current.Title)
	}
	if c.current != c.notes[0] {
		t.Error("current pointer is not identical to the collection's copy")
	}
}

func TestDeleteClearsPointers(t *testing.T) {
	c := newNoteCollection()
	c.applyInsert(makeNote("n1", "X"))
	c.setCurrent("n1")
	c.setSelected("n1")

	c.applyDelete("n1")

	if c.current != nil {
		t.Error("current pointer not cleared by delete")
	}
	if c.selected != nil {
		t.Error("selected pointer not cleared by delete")
	}
}

func TestSetCurrentUnknownID(t *testing.T) {
	c := newNoteCollection()
	if c.setCurrent("missing") {
		t.Error("setCurrent should fail for unknown id")
	}
	if !c.setCurrent("") {
		t.Error("empty id should clear the pointer")
	}
}

func TestResetRemapsPointersAndClearsTombstones(t *testing.T) {
	c := newNoteCollection()
	c.applyInsert(makeNote("n1", "Kept"))
	c.applyInsert(makeNote("n2", "Dropped"))
	c.setCurrent("n1")
	c.setSelected("n2")
	c.applyDelete("n3")

	c.reset([]model.Note{makeNote("n1", "Kept v2"), makeNote("n3", "Back")})

	if c.current == nil || c.current.Title != "Kept v2" {
		t.Error("current pointer not remapped onto the fresh copy")
	}
	if c.selected != nil {
		t.Error("selected pointer should clear when the id is gone")
	}
	// reset is authoritative: n3 is live again
	if c.index("n3") < 0 {
		t.Error("bulk load should override earlier tombstones")
	}
}

func TestFilteredNotes(t *testing.T) {
	c := newNoteCollection()

	work := makeNote("n1", "Standup notes")
	work.Category = "work"
	work.Tags = []string{"meetings"}
	fav := makeNote("n2", "Groceries")
	fav.IsFavorite = true
	c.applyInsert(work)
	c.applyInsert(fav)

	tests := []struct {
		name   string
		filter model.NoteFilter
		want   int
	}{
		{"no filter", model.NoteFilter{}, 2},
		{"by category", model.NoteFilter{Category: "work"}, 1},
		{"favorites only", model.NoteFilter{FavoriteOnly: true}, 1},
		{"search", model.NoteFilter{Search: "standup"}, 1},
		{"by tag", model.NoteFilter{Tags: []string{"meetings"}}, 1},
		{"no match", model.NoteFilter{Category: "personal"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := len(c.filtered(tt.filter)); got != tt.want {
				t.Errorf("expected %d notes, got %d", tt.want, got)
			}
		})
	}
}
