package model

// ChangeAction identifies the kind of change broadcast on a user's channel.
type ChangeAction string

const (
	ChangeInsert ChangeAction = "insert"
	ChangeUpdate ChangeAction = "update"
	ChangeDelete ChangeAction = "delete"
)

// ChangeEvent is the envelope broadcast after every successful write.
// Insert and update events carry the full row; delete events carry only
// the note id. Delivery is at-least-once and possibly out of order, so
// consumers must apply events idempotently.
type ChangeEvent struct {
	Action ChangeAction `json:"action"`
	NoteID string       `json:"note_id"`
	Row    *NoteRow     `json:"row,omitempty"`
}
