package mongo

import (
	"context"
	"math"
	"strings"
	"time"

	adminapp "github.com/jlvrmt/cafe-guide-services/api/internal/admin/application"
	admindomain "github.com/jlvrmt/cafe-guide-services/api/internal/admin/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// AdminReviewRepository は管理者向けレビュー永続化の Mongo 実装。
// レビューを変更するたびに対象カフェの重み付き総合点を再計算して
// cafes コレクションへ反映する。集計ロジック側はこの値を読むだけで済む。
type AdminReviewRepository struct {
	reviews    *mongo.Collection
	cafes      *mongo.Collection
	categories *mongo.Collection
	evaluators *mongo.Collection
}

func NewAdminReviewRepository(db *mongo.Database, reviewCollection, cafeCollection, categoryCollection, evaluatorCollection string) *AdminReviewRepository {
	return &AdminReviewRepository{
		reviews:    db.Collection(reviewCollection),
		cafes:      db.Collection(cafeCollection),
		categories: db.Collection(categoryCollection),
		evaluators: db.Collection(evaluatorCollection),
	}
}

// ListJoined は表示用フィールドを join したレビュー一覧を作成日時の降順で返す。
func (r *AdminReviewRepository) ListJoined(ctx context.Context) ([]admindomain.Review, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.reviews.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	docs := make([]ReviewDocument, 0)
	for cursor.Next(ctx) {
		var doc ReviewDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}

	cafeMap, err := r.loadCafeMap(ctx, docs)
	if err != nil {
		return nil, err
	}
	evaluatorMap, categoryMap, err := r.loadLookupMaps(ctx)
	if err != nil {
		return nil, err
	}

	reviews := make([]admindomain.Review, 0, len(docs))
	for _, doc := range docs {
		review := admindomain.Review{
			ID:          doc.ID.Hex(),
			CafeID:      doc.CafeID.Hex(),
			EvaluatorID: doc.EvaluatorID.Hex(),
			CategoryID:  doc.CategoryID.Hex(),
			CreatedAt:   doc.CreatedAt,
		}
		if doc.Score != nil {
			review.Score = *doc.Score
		}
		if cafe, ok := cafeMap[doc.CafeID]; ok {
			review.CafeName = cafe.Name
			review.CafeCity = cafe.City
		}
		if evaluator, ok := evaluatorMap[doc.EvaluatorID]; ok {
			review.EvaluatorName = evaluator.Name
		}
		if category, ok := categoryMap[doc.CategoryID]; ok {
			review.CategoryName = category.Name
		}
		reviews = append(reviews, review)
	}
	return reviews, nil
}

// UpsertBatch は全行を (cafeId, evaluatorId, categoryId) キーで upsert する。
// 編集時は差分ではなく常にグリッド全体を書き直す。
func (r *AdminReviewRepository) UpsertBatch(ctx context.Context, rows []adminapp.ReviewUpsertRow) error {
	if len(rows) == 0 {
		return nil
	}

	var cafeID primitive.ObjectID
	now := time.Now().UTC()
	for _, row := range rows {
		cafe, err := primitive.ObjectIDFromHex(strings.TrimSpace(row.CafeID))
		if err != nil {
			return err
		}
		evaluator, err := primitive.ObjectIDFromHex(strings.TrimSpace(row.EvaluatorID))
		if err != nil {
			return err
		}
		category, err := primitive.ObjectIDFromHex(strings.TrimSpace(row.CategoryID))
		if err != nil {
			return err
		}
		cafeID = cafe

		filter := bson.M{"cafeId": cafe, "evaluatorId": evaluator, "categoryId": category}
		update := bson.M{
			"$set":         bson.M{"score": row.Score, "updatedAt": now},
			"$setOnInsert": bson.M{"createdAt": now},
		}
		opts := options.Update().SetUpsert(true)
		if _, err := r.reviews.UpdateOne(ctx, filter, update, opts); err != nil {
			return err
		}
	}

	return r.recalculateCafeScore(ctx, cafeID)
}

// DeleteByCafe はカフェを参照する全レビュー行を削除する。カフェ削除の前段として呼ばれる。
func (r *AdminReviewRepository) DeleteByCafe(ctx context.Context, cafeID string) error {
	objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(cafeID))
	if err != nil {
		return err
	}
	_, err = r.reviews.DeleteMany(ctx, bson.M{"cafeId": objectID})
	return err
}

// DeleteByID はレビュー 1 行を削除し、残った行で総合点を再計算する。
func (r *AdminReviewRepository) DeleteByID(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return err
	}

	var doc ReviewDocument
	if err := r.reviews.FindOne(ctx, bson.M{"_id": objectID}).Decode(&doc); err != nil {
		return err
	}
	result, err := r.reviews.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return r.recalculateCafeScore(ctx, doc.CafeID)
}

// recalculateCafeScore はカテゴリ平均の重み付き平均を求め、cafes.score を更新する。
// 有効な数値を持たない行は分子・分母のどちらにも入れない。
func (r *AdminReviewRepository) recalculateCafeScore(ctx context.Context, cafeID primitive.ObjectID) error {
	cursor, err := r.reviews.Find(ctx, bson.M{"cafeId": cafeID})
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	type accumulator struct {
		sum   float64
		count int
	}
	perCategory := make(map[primitive.ObjectID]*accumulator)
	for cursor.Next(ctx) {
		var doc ReviewDocument
		if err := cursor.Decode(&doc); err != nil {
			return err
		}
		if doc.Score == nil || math.IsNaN(*doc.Score) {
			continue
		}
		acc, ok := perCategory[doc.CategoryID]
		if !ok {
			acc = &accumulator{}
			perCategory[doc.CategoryID] = acc
		}
		acc.sum += *doc.Score
		acc.count++
	}
	if err := cursor.Err(); err != nil {
		return err
	}

	weights, err := r.loadCategoryWeights(ctx)
	if err != nil {
		return err
	}

	weightedSum := 0.0
	weightTotal := 0.0
	for categoryID, acc := range perCategory {
		weight, ok := weights[categoryID]
		if !ok || weight <= 0 {
			weight = 1
		}
		weightedSum += weight * (acc.sum / float64(acc.count))
		weightTotal += weight
	}

	score := 0.0
	if weightTotal > 0 {
		score = math.Round(weightedSum/weightTotal*100) / 100
	}

	update := bson.M{"$set": bson.M{"score": score, "updatedAt": time.Now().UTC()}}
	_, err = r.cafes.UpdateByID(ctx, cafeID, update)
	return err
}

func (r *AdminReviewRepository) loadCategoryWeights(ctx context.Context) (map[primitive.ObjectID]float64, error) {
	cursor, err := r.categories.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	weights := make(map[primitive.ObjectID]float64)
	for cursor.Next(ctx) {
		var doc CategoryDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		weights[doc.ID] = doc.Weight
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return weights, nil
}

func (r *AdminReviewRepository) loadCafeMap(ctx context.Context, docs []ReviewDocument) (map[primitive.ObjectID]CafeDocument, error) {
	ids := make([]primitive.ObjectID, 0, len(docs))
	seen := make(map[primitive.ObjectID]struct{}, len(docs))
	for _, doc := range docs {
		if _, ok := seen[doc.CafeID]; ok {
			continue
		}
		seen[doc.CafeID] = struct{}{}
		ids = append(ids, doc.CafeID)
	}
	if len(ids) == 0 {
		return map[primitive.ObjectID]CafeDocument{}, nil
	}

	cursor, err := r.cafes.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	cafeMap := make(map[primitive.ObjectID]CafeDocument, len(ids))
	for cursor.Next(ctx) {
		var doc CafeDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		cafeMap[doc.ID] = doc
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return cafeMap, nil
}

func (r *AdminReviewRepository) loadLookupMaps(ctx context.Context) (map[primitive.ObjectID]EvaluatorDocument, map[primitive.ObjectID]CategoryDocument, error) {
	evaluatorCursor, err := r.evaluators.Find(ctx, bson.M{})
	if err != nil {
		return nil, nil, err
	}
	defer evaluatorCursor.Close(ctx)

	evaluatorMap := make(map[primitive.ObjectID]EvaluatorDocument)
	for evaluatorCursor.Next(ctx) {
		var doc EvaluatorDocument
		if err := evaluatorCursor.Decode(&doc); err != nil {
			return nil, nil, err
		}
		evaluatorMap[doc.ID] = doc
	}
	if err := evaluatorCursor.Err(); err != nil {
		return nil, nil, err
	}

	categoryCursor, err := r.categories.Find(ctx, bson.M{})
	if err != nil {
		return nil, nil, err
	}
	defer categoryCursor.Close(ctx)

	categoryMap := make(map[primitive.ObjectID]CategoryDocument)
	for categoryCursor.Next(ctx) {
		var doc CategoryDocument
		if err := categoryCursor.Decode(&doc); err != nil {
			return nil, nil, err
		}
		categoryMap[doc.ID] = doc
	}
	if err := categoryCursor.Err(); err != nil {
		return nil, nil, err
	}

	return evaluatorMap, categoryMap, nil
}
