package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kart-io/docqa/internal/model"
	"github.com/kart-io/docqa/pkg/component/mongodb"
)

// MongoDB collection names.
const (
	documentsCollection     = "documents"
	conversationsCollection = "conversations"
)

// MongoStore implements DocumentStore backed by MongoDB.
type MongoStore struct {
	client *mongodb.Client
}

// NewMongoStore creates a MongoDB-backed document store.
func NewMongoStore(client *mongodb.Client) *MongoStore {
	return &MongoStore{client: client}
}

func (s *MongoStore) documents() *mongo.Collection {
	return s.client.Collection(documentsCollection)
}

func (s *MongoStore) conversations() *mongo.Collection {
	return s.client.Collection(conversationsCollection)
}

// EnsureIndexes creates the collection indexes if they do not exist.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.documents().Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "document_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create documents index: %w", err)
	}

	_, err = s.conversations().Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "timestamp", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create conversations index: %w", err)
	}

	return nil
}

// InsertDocument records an ingested document's metadata.
func (s *MongoStore) InsertDocument(ctx context.Context, doc *model.Document) error {
	if _, err := s.documents().InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to insert document: %w", err)
	}
	return nil
}

// ListDocuments returns all documents, newest first. The original content is
// omitted to keep listings small.
func (s *MongoStore) ListDocuments(ctx context.Context) ([]*model.Document, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "upload_timestamp", Value: -1}}).
		SetProjection(bson.D{{Key: "original_content", Value: 0}})

	cursor, err := s.documents().Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []*model.Document
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode documents: %w", err)
	}

	return docs, nil
}

// CountDocuments returns the number of stored documents.
func (s *MongoStore) CountDocuments(ctx context.Context) (int64, error) {
	count, err := s.documents().CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("failed to count documents: %w", err)
	}
	return count, nil
}

// InsertTurn appends a completed conversation turn.
func (s *MongoStore) InsertTurn(ctx context.Context, turn *model.ConversationTurn) error {
	if _, err := s.conversations().InsertOne(ctx, turn); err != nil {
		return fmt.Errorf("failed to insert conversation turn: %w", err)
	}
	return nil
}

// RecentTurns returns up to limit most recent turns for the user, ordered
// oldest first so they read as a conversation.
func (s *MongoStore) RecentTurns(ctx context.Context, userID string, limit int) ([]*model.ConversationTurn, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := s.conversations().Find(ctx, bson.D{{Key: "user_id", Value: userID}}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch recent turns: %w", err)
	}
	defer cursor.Close(ctx)

	var turns []*model.ConversationTurn
	if err := cursor.All(ctx, &turns); err != nil {
		return nil, fmt.Errorf("failed to decode conversation turns: %w", err)
	}

	// Reverse from newest-first to oldest-first.
	for i, j := 0, len(turns)-1; i < j; i, j = i+1, j-1 {
		turns[i], turns[j] = turns[j], turns[i]
	}

	return turns, nil
}

// ListTurns returns the full history for the user, newest first.
func (s *MongoStore) ListTurns(ctx context.Context, userID string) ([]*model.ConversationTurn, error) {
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})

	cursor, err := s.conversations().Find(ctx, bson.D{{Key: "user_id", Value: userID}}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversation turns: %w", err)
	}
	defer cursor.Close(ctx)

	var turns []*model.ConversationTurn
	if err := cursor.All(ctx, &turns); err != nil {
		return nil, fmt.Errorf("failed to decode conversation turns: %w", err)
	}

	return turns, nil
}

// Clear removes all documents and conversation turns.
func (s *MongoStore) Clear(ctx context.Context) error {
	if _, err := s.documents().DeleteMany(ctx, bson.D{}); err != nil {
		return fmt.Errorf("failed to clear documents: %w", err)
	}
	if _, err := s.conversations().DeleteMany(ctx, bson.D{}); err != nil {
		return fmt.Errorf("failed to clear conversations: %w", err)
	}
	return nil
}

// Close closes the connection.
func (s *MongoStore) Close() error {
	return s.client.Close()
}
