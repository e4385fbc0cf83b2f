package services

import (
	"context"
	"os"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"nid-extraction-service/internal/database"
	"nid-extraction-service/models"
)

// Requires a reachable MongoDB; skipped otherwise.
func TestMongoSequenceAllocator(t *testing.T) {
	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		t.Skip("MONGO_TEST_URI not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		t.Skipf("mongo connect failed: %v", err)
	}
	defer client.Disconnect(ctx)

	dbName := "nid_sequence_test"
	defer client.Database(dbName).Drop(ctx)

	repo := database.NewDocumentRepository(client, dbName)
	allocator := NewMongoSequenceAllocator(client, dbName, repo)

	// Empty store: first id is 1.
	if err := allocator.Seed(ctx); err != nil {
		t.Fatalf("seed: %v", err)
	}
	id, err := allocator.NextID(ctx)
	if err != nil {
		t.Fatalf("next id: %v", err)
	}
	if id != 1 {
		t.Fatalf("expected first id 1, got %d", id)
	}

	id, err = allocator.NextID(ctx)
	if err != nil {
		t.Fatalf("next id: %v", err)
	}
	if id != 2 {
		t.Fatalf("expected second id 2, got %d", id)
	}

	// Pre-existing store without a counter: seed picks up from max id.
	dbName2 := "nid_sequence_test_seeded"
	defer client.Database(dbName2).Drop(ctx)

	repo2 := database.NewDocumentRepository(client, dbName2)
	doc := &models.ExtractedDocument{
		ID:            7,
		ExtractedData: models.NormalizeFields(nil),
		ImageURL:      "https://storage.googleapis.com/mongo_nid/7",
		Status:        models.StatusPending,
		CreatedAt:     time.Now().UTC(),
	}
	if err := repo2.Create(ctx, doc); err != nil {
		t.Fatalf("create: %v", err)
	}

	allocator2 := NewMongoSequenceAllocator(client, dbName2, repo2)
	if err := allocator2.Seed(ctx); err != nil {
		t.Fatalf("seed: %v", err)
	}
	id, err = allocator2.NextID(ctx)
	if err != nil {
		t.Fatalf("next id: %v", err)
	}
	if id != 8 {
		t.Fatalf("expected id 8 after max id 7, got %d", id)
	}
}
