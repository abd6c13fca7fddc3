package repository

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"main/model"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	maxTitleLength   = 200
	maxContentLength = 50000
	maxTags          = 10
)

// EventPublisher broadcasts a change event on the owning user's channel
// after a successful write.
type EventPublisher interface {
	Publish(ctx context.Context, userID string, event model.ChangeEvent) error
}

// NotesRepo persists notes in MongoDB and broadcasts every successful
// write on the user's change channel. It is the remote store adapter:
// it never touches the in-memory collection.
type NotesRepo struct {
	MongoCollection *mongo.Collection
	Feed            EventPublisher
}

func GetNotesRepo(client *mongo.Client, feed EventPublisher) *NotesRepo {
	return &NotesRepo{
		MongoCollection: client.Database(os.Getenv("MONGO_DB")).Collection("notes"),
		Feed:            feed,
	}
}

// ListNotes retrieves all note rows for a user, newest first.
func (r *NotesRepo) ListNotes(ctx context.Context, userID string) ([]model.NoteRow, error) {
	opts := options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}})

	cursor, err := r.MongoCollection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrStoreUnavailable, err)
	}
	defer cursor.Close(ctx)

	var rows []model.NoteRow
	if err = cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrStoreUnavailable, err)
	}
	return rows, nil
}

// InsertNote validates a draft, persists it, and broadcasts an insert
// event. Returns the created row so callers get the id immediately.
func (r *NotesRepo) InsertNote(ctx context.Context, userID string, draft model.NoteDraft) (model.NoteRow, error) {
	if err := validateDraft(&draft); err != nil {
		return model.NoteRow{}, err
	}

	now := time.Now().UTC()
	row := model.NoteRow{
		ID:              uuid.New().String(),
		UserID:          userID,
		Title:           &draft.Title,
		Content:         &draft.Content,
		Tags:            draft.Tags,
		ReminderEnabled: &draft.ReminderEnabled,
		CreatedAt:       &now,
		UpdatedAt:       &now,
	}
	if draft.Category != "" {
		row.Category = &draft.Category
	}
	if draft.FolderID != "" {
		row.FolderID = &draft.FolderID
	}
	if draft.ReminderDate != nil {
		row.ReminderDate = draft.ReminderDate
	}
	if draft.ReminderStatus != "" {
		row.ReminderStatus = &draft.ReminderStatus
	}
	if draft.ReminderFrequency != "" {
		row.ReminderFrequency = &draft.ReminderFrequency
	}

	if _, err := r.MongoCollection.InsertOne(ctx, row); err != nil {
		return model.NoteRow{}, fmt.Errorf("%w: %v", model.ErrStoreUnavailable, err)
	}

	r.broadcast(ctx, userID, model.ChangeEvent{
		Action: model.ChangeInsert,
		NoteID: row.ID,
		Row:    &row,
	})
	return row, nil
}

// UpdateNote applies a partial update and broadcasts the resulting row.
// Returns ErrNoteNotFound when the id does not exist for this user.
func (r *NotesRepo) UpdateNote(ctx context.Context, noteID string, userID string, updates model.NoteUpdate) (model.NoteRow, error) {
	set, err := updateFields(updates)
	if err != nil {
		return model.NoteRow{}, err
	}
	set["updated_at"] = time.Now().UTC()

	filter := bson.M{"_id": noteID, "user_id": userID}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var row model.NoteRow
	err = r.MongoCollection.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&row)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return model.NoteRow{}, model.ErrNoteNotFound
		}
		return model.NoteRow{}, fmt.Errorf("%w: %v", model.ErrStoreUnavailable, err)
	}

	r.broadcast(ctx, userID, model.ChangeEvent{
		Action: model.ChangeUpdate,
		NoteID: row.ID,
		Row:    &row,
	})
	return row, nil
}

// DeleteNote removes a note and broadcasts a delete event. The boolean
// reports whether a document was actually removed.
func (r *NotesRepo) DeleteNote(ctx context.Context, noteID string, userID string) (bool, error) {
	result, err := r.MongoCollection.DeleteOne(ctx, bson.M{"_id": noteID, "user_id": userID})
	if err != nil {
		return false, fmt.Errorf("%w: %v", model.ErrStoreUnavailable, err)
	}
	if result.DeletedCount == 0 {
		return false, nil
	}

	r.broadcast(ctx, userID, model.ChangeEvent{
		Action: model.ChangeDelete,
		NoteID: noteID,
	})
	return true, nil
}

// ToggleFavorite flips the favorite flag atomically with an aggregation
// pipeline update and broadcasts the resulting row.
func (r *NotesRepo) ToggleFavorite(ctx context.Context, noteID string, userID string) (model.NoteRow, error) {
	filter := bson.M{"_id": noteID, "user_id": userID}
	pipeline := bson.A{
		bson.M{"$set": bson.M{
			"is_favorite": bson.M{"$not": bson.A{"$is_favorite"}},
			"updated_at":  time.Now().UTC(),
		}},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var row model.NoteRow
	err := r.MongoCollection.FindOneAndUpdate(ctx, filter, pipeline, opts).Decode(&row)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return model.NoteRow{}, model.ErrNoteNotFound
		}
		return model.NoteRow{}, fmt.Errorf("%w: %v", model.ErrStoreUnavailable, err)
	}

	r.broadcast(ctx, userID, model.ChangeEvent{
		Action: model.ChangeUpdate,
		NoteID: row.ID,
		Row:    &row,
	})
	return row, nil
}

// broadcast publishes best-effort: the write already persisted, so a
// publish failure is logged rather than surfaced to the caller. Remote
// clients catch up on their next bulk load.
func (r *NotesRepo) broadcast(ctx context.Context, userID string, event model.ChangeEvent) {
	if r.Feed == nil {
		return
	}
	if err := r.Feed.Publish(ctx, userID, event); err != nil {
		log.Printf("notes repo: failed to publish %s event for note %s: %v",
			event.Action, event.NoteID, err)
	}
}

func validateDraft(draft *model.NoteDraft) error {
	draft.Title = strings.TrimSpace(draft.Title)
	if draft.Title == "" {
		return fmt.Errorf("%w: note title is required", model.ErrValidation)
	}
	if len(draft.Title) > maxTitleLength {
		return fmt.Errorf("%w: note title exceeds maximum length", model.ErrValidation)
	}
	if len(draft.Content) > maxContentLength {
		return fmt.Errorf("%w: note content exceeds maximum length", model.ErrValidation)
	}
	draft.Tags = normalizeTags(draft.Tags)
	if len(draft.Tags) > maxTags {
		return fmt.Errorf("%w: maximum %d tags allowed", model.ErrValidation, maxTags)
	}
	return nil
}

func updateFields(updates model.NoteUpdate) (bson.M, error) {
	set := bson.M{}
	if updates.Title != nil {
		title := strings.TrimSpace(*updates.Title)
		if title == "" {
			return nil, fmt.Errorf("%w: note title cannot be empty", model.ErrValidation)
		}
		if len(title) > maxTitleLength {
			return nil, fmt.Errorf("%w: note title exceeds maximum length", model.ErrValidation)
		}
		set["title"] = title
	}
	if updates.Content != nil {
		if len(*updates.Content) > maxContentLength {
			return nil, fmt.Errorf("%w: note content exceeds maximum length", model.ErrValidation)
		}
		set["content"] = *updates.Content
	}
	if updates.Category != nil {
		set["category"] = *updates.Category
	}
	if updates.Tags != nil {
		tags := normalizeTags(updates.Tags)
		if len(tags) > maxTags {
			return nil, fmt.Errorf("%w: maximum %d tags allowed", model.ErrValidation, maxTags)
		}
		set["tags"] = tags
	}
	if updates.IsFavorite != nil {
		set["is_favorite"] = *updates.IsFavorite
	}
	if updates.FolderID != nil {
		set["folder_id"] = *updates.FolderID
	}
	if updates.ReminderDate != nil {
		set["reminder_date"] = *updates.ReminderDate
	}
	if updates.ReminderStatus != nil {
		set["reminder_status"] = *updates.ReminderStatus
	}
	if updates.ReminderFrequency != nil {
		set["reminder_frequency"] = *updates.ReminderFrequency
	}
	if updates.ReminderEnabled != nil {
		set["reminder_enabled"] = *updates.ReminderEnabled
	}
	if len(set) == 0 {
		return nil, fmt.Errorf("%w: no fields to update", model.ErrValidation)
	}
	return set, nil
}

// normalizeTags trims whitespace, drops empties, and deduplicates while
// preserving order.
func normalizeTags(tags []string) []string {
	normalized := make([]string, 0, len(tags))
	seen := make(map[string]bool)
	for _, tag := range tags {
		trimmed := strings.TrimSpace(tag)
		if trimmed == "" || seen[trimmed] {
			continue
		}
		seen[trimmed] = true
		normalized = append(normalized, trimmed)
	}
	return normalized
}
