package dto

import (
	"time"

	"main/model"
)

// RowToNote maps a remote store row to the application Note. It never
// fails: missing or malformed optional fields degrade to documented
// defaults so a single bad row cannot poison reconciliation.
func RowToNote(row model.NoteRow) model.Note {
	note := model.Note{
		ID:                row.ID,
		UserID:            row.UserID,
		Category:          model.DefaultCategory,
		Tags:              []string{},
		ReminderStatus:    model.DefaultReminderStatus,
		ReminderFrequency: model.DefaultReminderFrequency,
	}

	if row.Title != nil {
		note.Title = *row.Title
	}
	if row.Content != nil {
		note.Content = *row.Content
	}
	if row.Category != nil && *row.Category != "" {
		note.Category = *row.Category
	}
	if len(row.Tags) > 0 {
		note.Tags = append(note.Tags, row.Tags...)
	}
	if row.IsFavorite != nil {
		note.IsFavorite = *row.IsFavorite
	}
	if row.FolderID != nil {
		note.FolderID = *row.FolderID
	}
	if row.ReminderDate != nil {
		d := *row.ReminderDate
		note.ReminderDate = &d
	}
	if row.ReminderStatus != nil && *row.ReminderStatus != "" {
		note.ReminderStatus = *row.ReminderStatus
	}
	if row.ReminderFrequency != nil && *row.ReminderFrequency != "" {
		note.ReminderFrequency = *row.ReminderFrequency
	}
	if row.ReminderEnabled != nil {
		note.ReminderEnabled = *row.ReminderEnabled
	}
	if row.CreatedAt != nil {
		note.CreatedAt = *row.CreatedAt
	}
	if row.UpdatedAt != nil {
		note.UpdatedAt = *row.UpdatedAt
	}

	// updated_at may never precede created_at
	if note.UpdatedAt.Before(note.CreatedAt) {
		note.UpdatedAt = note.CreatedAt
	}

	return note
}

// RowsToNotes maps a bulk load result.
func RowsToNotes(rows []model.NoteRow) []model.Note {
	notes := make([]model.Note, len(rows))
	for i, row := range rows {
		notes[i] = RowToNote(row)
	}
	return notes
}

// CreateNoteRequest is the JSON body for creating a note.
type CreateNoteRequest struct {
	Title             string     `json:"title" binding:"required"`
	Content           string     `json:"content"`
	Category          string     `json:"category"`
	Tags              []string   `json:"tags"`
	FolderID          string     `json:"folder_id"`
	ReminderDate      *time.Time `json:"reminder_date"`
	ReminderStatus    string     `json:"reminder_status"`
	ReminderFrequency string     `json:"reminder_frequency" binding:"omitempty,reminderfreq"`
	ReminderEnabled   bool       `json:"reminder_enabled"`
}

// ToDraft converts the request into a store draft.
func (r CreateNoteRequest) ToDraft() model.NoteDraft {
	return model.NoteDraft{
		Title:             r.Title,
		Content:           r.Content,
		Category:          r.Category,
		Tags:              r.Tags,
		FolderID:          r.FolderID,
		ReminderDate:      r.ReminderDate,
		ReminderStatus:    r.ReminderStatus,
		ReminderFrequency: r.ReminderFrequency,
		ReminderEnabled:   r.ReminderEnabled,
	}
}

// UpdateNoteRequest is the JSON body for a partial note update. Absent
// fields stay untouched remotely.
type UpdateNoteRequest struct {
	Title             *string    `json:"title"`
	Content           *string    `json:"content"`
	Category          *string    `json:"category"`
	Tags              []string   `json:"tags"`
	IsFavorite        *bool      `json:"is_favorite"`
	FolderID          *string    `json:"folder_id"`
	ReminderDate      *time.Time `json:"reminder_date"`
	ReminderStatus    *string    `json:"reminder_status"`
	ReminderFrequency *string    `json:"reminder_frequency" binding:"omitempty,reminderfreq"`
	ReminderEnabled   *bool      `json:"reminder_enabled"`
}

// ToUpdate converts the request into a store update.
func (r UpdateNoteRequest) ToUpdate() model.NoteUpdate {
	return model.NoteUpdate{
		Title:             r.Title,
		Content:           r.Content,
		Category:          r.Category,
		Tags:              r.Tags,
		IsFavorite:        r.IsFavorite,
		FolderID:          r.FolderID,
		ReminderDate:      r.ReminderDate,
		ReminderStatus:    r.ReminderStatus,
		ReminderFrequency: r.ReminderFrequency,
		ReminderEnabled:   r.ReminderEnabled,
	}
}
