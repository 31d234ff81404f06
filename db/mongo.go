package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// InitMongo connects to uri, verifies the connection and ensures the posts indexes.
func InitMongo(ctx context.Context, uri, dbName, collection string) (*mongo.Client, *mongo.Collection, error) {
	if uri == "" {
		// local docker-compose default
		uri = "mongodb://localhost:27017"
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cl, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := cl.Ping(ctx, readpref.Primary()); err != nil {
		_ = cl.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("ping mongo: %w", err)
	}

	col := cl.Database(dbName).Collection(collection)
	if err := ensureIndexes(ctx, col); err != nil {
		_ = cl.Disconnect(context.Background())
		return nil, nil, err
	}
	return cl, col, nil
}

func ensureIndexes(ctx context.Context, col *mongo.Collection) error {
	// posts: unique id, created_at desc for newest-first listing
	if _, err := col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "id", Value: 1}},
		Options: options.Index().SetName("uniq_id").SetUnique(true),
	}); err != nil {
		return fmt.Errorf("ensure index uniq_id: %w", err)
	}
	if _, err := col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "created_at", Value: -1}},
		Options: options.Index().SetName("idx_created_at_desc"),
	}); err != nil {
		return fmt.Errorf("ensure index idx_created_at_desc: %w", err)
	}
	return nil
}
