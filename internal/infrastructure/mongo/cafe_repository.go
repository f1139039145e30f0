package mongo

import (
	"context"
	"time"

	"github.com/jlvrmt/cafe-guide-services/api/internal/public/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CafeRepository implements application.CafeRepository using MongoDB.
type CafeRepository struct {
	collection *mongo.Collection
}

// NewCafeRepository creates a new Mongo-backed cafe repository.
func NewCafeRepository(db *mongo.Database, collectionName string) *CafeRepository {
	return &CafeRepository{collection: db.Collection(collectionName)}
}

// ListByScoreDescending returns all cafes ordered by overall score.
// 整列はバックエンド側で行い、以降のフィルタはこのフェッチ順を基準とする。
func (r *CafeRepository) ListByScoreDescending(ctx context.Context) ([]domain.Cafe, error) {
	opts := options.Find().SetSort(bson.D{{Key: "score", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	cafes := make([]domain.Cafe, 0)
	for cursor.Next(ctx) {
		var doc CafeDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		cafes = append(cafes, mapCafeDocument(doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return cafes, nil
}

func mapCafeDocument(doc CafeDocument) domain.Cafe {
	createdAt := time.Time{}
	if doc.CreatedAt != nil {
		createdAt = *doc.CreatedAt
	}
	updatedAt := time.Time{}
	if doc.UpdatedAt != nil {
		updatedAt = *doc.UpdatedAt
	}
	return domain.Cafe{
		ID:        doc.ID.Hex(),
		Name:      doc.Name,
		City:      doc.City,
		Score:     doc.Score,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}
}
