package services

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"nid-extraction-service/internal/database"
)

const countersCollection = "counters"
const documentCounterID = "extracted_text"

// MongoSequenceAllocator hands out monotonically increasing document ids.
// Instead of the read-max-then-increment pattern, it increments a counter
// document atomically, so two concurrent requests can never allocate the same
// id. The counter is seeded from the current maximum document id, which keeps
// the observable behavior: 1 on an empty store, max+1 otherwise.
type MongoSequenceAllocator struct {
	counters  *mongo.Collection
	documents *database.DocumentRepository
}

func NewMongoSequenceAllocator(client *mongo.Client, dbName string, documents *database.DocumentRepository) *MongoSequenceAllocator {
	return &MongoSequenceAllocator{
		counters:  client.Database(dbName).Collection(countersCollection),
		documents: documents,
	}
}

// Seed creates the counter document from the largest existing id when it does
// not exist yet. Called once at startup, before the server accepts requests.
func (a *MongoSequenceAllocator) Seed(ctx context.Context) error {
	err := a.counters.FindOne(ctx, bson.M{"_id": documentCounterID}).Err()
	if err == nil {
		return nil
	}
	if err != mongo.ErrNoDocuments {
		return fmt.Errorf("read sequence counter: %w", err)
	}

	maxID, err := a.documents.MaxID(ctx)
	if err != nil {
		return fmt.Errorf("read max document id: %w", err)
	}

	_, err = a.counters.InsertOne(ctx, bson.M{"_id": documentCounterID, "seq": maxID})
	if err != nil && !mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("seed sequence counter: %w", err)
	}
	return nil
}

// NextID atomically increments and returns the sequence counter.
func (a *MongoSequenceAllocator) NextID(ctx context.Context) (int64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}

	err := a.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": documentCounterID},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("allocate document id: %w", err)
	}

	return counter.Seq, nil
}
