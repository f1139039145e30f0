package mongo

import (
	"context"

	"github.com/jlvrmt/cafe-guide-services/api/internal/public/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ReviewRepository implements the public raw review projection.
type ReviewRepository struct {
	collection *mongo.Collection
}

func NewReviewRepository(db *mongo.Database, collectionName string) *ReviewRepository {
	return &ReviewRepository{collection: db.Collection(collectionName)}
}

// ListRaw returns the aggregation projection of every review row.
// 表示用の join とは切り離し、集計に必要な 3 フィールドだけを取得する。
func (r *ReviewRepository) ListRaw(ctx context.Context) ([]domain.ReviewRow, error) {
	opts := options.Find().SetProjection(bson.M{
		"cafeId":     1,
		"categoryId": 1,
		"score":      1,
	})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	rows := make([]domain.ReviewRow, 0)
	for cursor.Next(ctx) {
		var doc ReviewDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		rows = append(rows, domain.ReviewRow{
			CafeID:     doc.CafeID.Hex(),
			CategoryID: doc.CategoryID.Hex(),
			Score:      doc.Score,
		})
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return rows, nil
}
