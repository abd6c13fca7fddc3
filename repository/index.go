package repository

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func SetupIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	notesCollection := db.Collection("notes")

	noteIndexes := []mongo.IndexModel{
		// Bulk load order
		{
			Keys: bson.D{
				{Key: "user_id", Value: 1},
				{Key: "updated_at", Value: -1},
			},
			Options: options.Index().
				SetName("user_notes_recency").
				SetUnique(false),
		},
		// User ID index
		{
			Keys: bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().
				SetName("user_id_index"),
		},
		// Category filter
		{
			Keys: bson.D{
				{Key: "user_id", Value: 1},
				{Key: "category", Value: 1},
			},
			Options: options.Index().
				SetName("user_category"),
		},
		// Favorites filter
		{
			Keys: bson.D{
				{Key: "user_id", Value: 1},
				{Key: "is_favorite", Value: 1},
				{Key: "updated_at", Value: -1},
			},
			Options: options.Index().
				SetName("user_favorite_notes"),
		},
		// Text search index
		{
			Keys: bson.D{
				{Key: "title", Value: "text"},
				{Key: "content", Value: "text"},
				{Key: "tags", Value: "text"},
			},
			Options: options.Index().
				SetName("text_search").
				SetDefaultLanguage("english").
				SetWeights(bson.D{
					{Key: "title", Value: 10},
					{Key: "content", Value: 5},
					{Key: "tags", Value: 3},
				}),
		},
	}

	_, err := notesCollection.Indexes().CreateMany(ctx, noteIndexes)
	if err != nil {
		return fmt.Errorf("failed to create notes indexes: %w", err)
	}

	log.Println("Successfully created all indexes")
	return nil
}
