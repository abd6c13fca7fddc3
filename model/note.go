package model

import (
	"time"
)

// Defaults applied when a remote row omits an optional field.
const (
	DefaultCategory          = "general"
	DefaultReminderStatus    = "none"
	DefaultReminderFrequency = "once"
)

// Note is the application-side representation of a note. Every field is
// populated; optional remote fields are filled with defaults by the mapper.
type Note struct {
	ID                string     `json:"id"`
	UserID            string     `json:"user_id"`
	Title             string     `json:"title"`
	Content           string     `json:"content"`
	Category          string     `json:"category"`
	Tags              []string   `json:"tags"`
	IsFavorite        bool       `json:"is_favorite"`
	FolderID          string     `json:"folder_id,omitempty"`
	ReminderDate      *time.Time `json:"reminder_date,omitempty"`
	ReminderStatus    string     `json:"reminder_status"`
	ReminderFrequency string     `json:"reminder_frequency"`
	ReminderEnabled   bool       `json:"reminder_enabled"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// NoteRow is the raw shape the remote store persists and broadcasts.
// Optional fields are pointers so absence survives the wire.
type NoteRow struct {
	ID                string     `bson:"_id,omitempty" json:"id"`
	UserID            string     `bson:"user_id" json:"user_id"`
	Title             *string    `bson:"title,omitempty" json:"title,omitempty"`
	Content           *string    `bson:"content,omitempty" json:"content,omitempty"`
	Category          *string    `bson:"category,omitempty" json:"category,omitempty"`
	Tags              []string   `bson:"tags,omitempty" json:"tags,omitempty"`
	IsFavorite        *bool      `bson:"is_favorite,omitempty" json:"is_favorite,omitempty"`
	FolderID          *string    `bson:"folder_id,omitempty" json:"folder_id,omitempty"`
	ReminderDate      *time.Time `bson:"reminder_date,omitempty" json:"reminder_date,omitempty"`
	ReminderStatus    *string    `bson:"reminder_status,omitempty" json:"reminder_status,omitempty"`
	ReminderFrequency *string    `bson:"reminder_frequency,omitempty" json:"reminder_frequency,omitempty"`
	ReminderEnabled   *bool      `bson:"reminder_enabled,omitempty" json:"reminder_enabled,omitempty"`
	CreatedAt         *time.Time `bson:"created_at,omitempty" json:"created_at,omitempty"`
	UpdatedAt         *time.Time `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}

// NoteDraft is the input for creating a note. No id or timestamps; the
// store assigns those.
type NoteDraft struct {
	Title             string     `json:"title"`
	Content           string     `json:"content"`
	Category          string     `json:"category"`
	Tags              []string   `json:"tags"`
	FolderID          string     `json:"folder_id"`
	ReminderDate      *time.Time `json:"reminder_date"`
	ReminderStatus    string     `json:"reminder_status"`
	ReminderFrequency string     `json:"reminder_frequency"`
	ReminderEnabled   bool       `json:"reminder_enabled"`
}

// NoteUpdate is a partial field set for updating a note. Nil fields are
// left untouched by the store.
type NoteUpdate struct {
	Title             *string    `json:"title"`
	Content           *string    `json:"content"`
	Category          *string    `json:"category"`
	Tags              []string   `json:"tags"`
	IsFavorite        *bool      `json:"is_favorite"`
	FolderID          *string    `json:"folder_id"`
	ReminderDate      *time.Time `json:"reminder_date"`
	ReminderStatus    *string    `json:"reminder_status"`
	ReminderFrequency *string    `json:"reminder_frequency"`
	ReminderEnabled   *bool      `json:"reminder_enabled"`
}
