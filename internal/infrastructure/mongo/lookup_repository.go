package mongo

import (
	"context"

	admindomain "github.com/jlvrmt/cafe-guide-services/api/internal/admin/domain"
	publicdomain "github.com/jlvrmt/cafe-guide-services/api/internal/public/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// LookupRepository serves the category/evaluator master data for the admin
// context and the category lookup for the public context.
// マスタは名前順で返す。
type LookupRepository struct {
	categories *mongo.Collection
	evaluators *mongo.Collection
}

func NewLookupRepository(db *mongo.Database, categoryCollection, evaluatorCollection string) *LookupRepository {
	return &LookupRepository{
		categories: db.Collection(categoryCollection),
		evaluators: db.Collection(evaluatorCollection),
	}
}

// ListCategories returns all categories ordered by name.
func (r *LookupRepository) ListCategories(ctx context.Context) ([]admindomain.Category, error) {
	docs, err := r.categoryDocuments(ctx)
	if err != nil {
		return nil, err
	}
	categories := make([]admindomain.Category, 0, len(docs))
	for _, doc := range docs {
		categories = append(categories, admindomain.Category{
			ID:     doc.ID.Hex(),
			Name:   doc.Name,
			Weight: doc.Weight,
		})
	}
	return categories, nil
}

// ListEvaluators returns all evaluators ordered by name.
func (r *LookupRepository) ListEvaluators(ctx context.Context) ([]admindomain.Evaluator, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.evaluators.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	evaluators := make([]admindomain.Evaluator, 0)
	for cursor.Next(ctx) {
		var doc EvaluatorDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		evaluators = append(evaluators, admindomain.Evaluator{ID: doc.ID.Hex(), Name: doc.Name})
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return evaluators, nil
}

func (r *LookupRepository) categoryDocuments(ctx context.Context) ([]CategoryDocument, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.categories.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	docs := make([]CategoryDocument, 0)
	for cursor.Next(ctx) {
		var doc CategoryDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return docs, nil
}

// PublicCategoryRepository adapts the category lookup to the public context.
type PublicCategoryRepository struct {
	lookup *LookupRepository
}

func NewPublicCategoryRepository(lookup *LookupRepository) *PublicCategoryRepository {
	return &PublicCategoryRepository{lookup: lookup}
}

// ListCategories returns the categories as public domain values.
func (r *PublicCategoryRepository) ListCategories(ctx context.Context) ([]publicdomain.Category, error) {
	docs, err := r.lookup.categoryDocuments(ctx)
	if err != nil {
		return nil, err
	}
	categories := make([]publicdomain.Category, 0, len(docs))
	for _, doc := range docs {
		categories = append(categories, publicdomain.Category{
			ID:     doc.ID.Hex(),
			Name:   doc.Name,
			Weight: doc.Weight,
		})
	}
	return categories, nil
}
