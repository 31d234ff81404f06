package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"blog-catalog/models"
)

func TestMongoPostRowRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("fetch records", func(mt *mtest.T) {
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		created := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
		mt.AddMockResponses(
			mtest.CreateCursorResponse(1, ns, mtest.FirstBatch,
				bson.D{
					{Key: "id", Value: "m1"},
					{Key: "title", Value: "From Mongo"},
					{Key: "category", Value: "Design"},
					{Key: "tags", Value: "ui,ux"},
					{Key: "mins_read", Value: int32(6)},
					{Key: "created_at", Value: created},
				},
			),
			mtest.CreateCursorResponse(0, ns, mtest.NextBatch,
				bson.D{{Key: "id", Value: "m2"}},
			),
		)

		repo := NewMongoPostRowRepository(mt.Coll)
		assert.Equal(t, models.SourceMongo, repo.Kind())

		records, err := repo.FetchRecords(context.Background())
		require.NoError(t, err)
		require.Len(t, records, 2)

		first := records[0].(*models.RawTableRow)
		assert.Equal(t, "m1", first.ID)
		require.NotNil(t, first.Title)
		assert.Equal(t, "From Mongo", *first.Title)
		require.NotNil(t, first.MinsRead)
		assert.Equal(t, 6, *first.MinsRead)
		assert.Equal(t, "m2", records[1].(*models.RawTableRow).ID)
	})

	mt.Run("fetch records failure", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    11600,
			Message: "interrupted at shutdown",
		}))

		_, err := NewMongoPostRowRepository(mt.Coll).FetchRecords(context.Background())
		require.ErrorIs(t, err, models.ErrUpstreamUnavailable)
	})

	mt.Run("fetch content", func(mt *mtest.T) {
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			bson.D{{Key: "content", Value: "body text"}},
		))

		content, err := NewMongoPostRowRepository(mt.Coll).FetchContent(context.Background(), "m1")
		require.NoError(t, err)
		assert.Equal(t, "body text", content)
	})

	mt.Run("fetch content not found", func(mt *mtest.T) {
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		_, err := NewMongoPostRowRepository(mt.Coll).FetchContent(context.Background(), "nope")
		require.ErrorIs(t, err, ErrNotFound)
	})
}
