package repositories

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"blog-catalog/models"
)

// MongoPostRowRepository reads post rows stored as flat documents, one per row,
// using the same field names as the SQL table.
type MongoPostRowRepository struct {
	col *mongo.Collection
}

func NewMongoPostRowRepository(col *mongo.Collection) *MongoPostRowRepository {
	return &MongoPostRowRepository{col: col}
}

func (r *MongoPostRowRepository) Kind() models.SourceKind { return models.SourceMongo }

// FetchRecords returns every document sorted by created_at desc, without content.
func (r *MongoPostRowRepository) FetchRecords(ctx context.Context) ([]models.RawRecord, error) {
	const op = "repositories.MongoPostRowRepository.FetchRecords"

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetProjection(bson.M{"content": 0})
	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, models.ErrUpstreamUnavailable, err)
	}
	defer cur.Close(ctx)

	var out []models.RawRecord
	for cur.Next(ctx) {
		var row models.RawTableRow
		if err := cur.Decode(&row); err != nil {
			// documents with mismatched field types are skipped
			continue
		}
		out = append(out, &row)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, models.ErrUpstreamUnavailable, err)
	}
	return out, nil
}

// FetchContent returns the content field of the document with the given id.
func (r *MongoPostRowRepository) FetchContent(ctx context.Context, id string) (string, error) {
	const op = "repositories.MongoPostRowRepository.FetchContent"

	var doc struct {
		Content *string `bson:"content"`
	}
	opts := options.FindOne().SetProjection(bson.M{"content": 1})
	err := r.col.FindOne(ctx, bson.M{"id": id}, opts).Decode(&doc)
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return "", fmt.Errorf("%s: %w", op, ErrNotFound)
	case err != nil:
		return "", fmt.Errorf("%s: %w: %v", op, models.ErrUpstreamUnavailable, err)
	}
	if doc.Content == nil {
		return "", nil
	}
	return *doc.Content, nil
}
