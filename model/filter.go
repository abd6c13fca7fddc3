package model

import "strings"

// NoteFilter narrows the in-memory collection for UI consumers. Zero
// value matches everything.
type NoteFilter struct {
	Category     string   `json:"category"`
	FavoriteOnly bool     `json:"favorite_only"`
	Search       string   `json:"search"`
	Tags         []string `json:"tags"`
}

// Matches reports whether a note passes the filter. Search is a
// case-insensitive substring match over title and content; tags match
// when the note carries every requested tag.
func (f NoteFilter) Matches(n Note) bool {
	if f.Category != "" && n.Category != f.Category {
		return false
	}
	if f.FavoriteOnly && !n.IsFavorite {
		return false
	}
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(n.Title), q) &&
			!strings.Contains(strings.ToLower(n.Content), q) {
			return false
		}
	}
	for _, want := range f.Tags {
		found := false
		for _, tag := range n.Tags {
			if tag == want {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
