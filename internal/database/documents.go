package database

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"nid-extraction-service/models"
)

// ErrNotFound is returned when a document id has no record.
var ErrNotFound = errors.New("document not found")

const documentsCollection = "extracted_text"

// DocumentRepository persists extracted documents. The pipeline only ever
// calls Create; the remaining CRUD surface backs the read/update/delete
// utility endpoints.
type DocumentRepository struct {
	collection *mongo.Collection
}

func NewDocumentRepository(client *mongo.Client, dbName string) *DocumentRepository {
	return &DocumentRepository{
		collection: client.Database(dbName).Collection(documentsCollection),
	}
}

// Create inserts the document under its pre-allocated id. A duplicate id
// surfaces as a driver duplicate-key error; there is no upsert path.
func (r *DocumentRepository) Create(ctx context.Context, doc *models.ExtractedDocument) error {
	_, err := r.collection.InsertOne(ctx, doc)
	return err
}

func (r *DocumentRepository) Get(ctx context.Context, id int64) (*models.ExtractedDocument, error) {
	var doc models.ExtractedDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *DocumentRepository) List(ctx context.Context) ([]models.ExtractedDocument, error) {
	cursor, err := r.collection.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	docs := []models.ExtractedDocument{}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

func (r *DocumentRepository) Update(ctx context.Context, id int64, fields map[string]string) error {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"extracted_data": fields}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *DocumentRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// MaxID returns the largest existing document id, or 0 when the collection is
// empty. Used to seed the sequence counter on first boot.
func (r *DocumentRepository) MaxID(ctx context.Context) (int64, error) {
	var doc models.ExtractedDocument
	err := r.collection.FindOne(ctx, bson.M{},
		options.FindOne().SetSort(bson.D{{Key: "_id", Value: -1}})).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return doc.ID, nil
}
