package mongo

import (
	"context"
	"errors"
	"strings"
	"time"

	admindomain "github.com/jlvrmt/cafe-guide-services/api/internal/admin/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// AdminCafeRepository は管理者向け Cafe 集約の Mongo 実装。
type AdminCafeRepository struct {
	collection *mongo.Collection
}

// NewAdminCafeRepository は MongoDB コレクションを束縛した AdminCafeRepository を生成する。
func NewAdminCafeRepository(db *mongo.Database, collectionName string) *AdminCafeRepository {
	return &AdminCafeRepository{collection: db.Collection(collectionName)}
}

// List は管理パネルの選択肢に使うカフェ一覧を名前順で返す。
func (r *AdminCafeRepository) List(ctx context.Context) ([]admindomain.Cafe, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	cafes := make([]admindomain.Cafe, 0)
	for cursor.Next(ctx) {
		var doc CafeDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		cafe, err := mapAdminCafe(doc)
		if err != nil {
			return nil, err
		}
		cafes = append(cafes, cafe)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return cafes, nil
}

// Create は名前+都市の重複チェックを行った上でカフェを新規作成し、採番した ID を返す。
func (r *AdminCafeRepository) Create(ctx context.Context, name, city string) (string, error) {
	filter := bson.M{"name": strings.TrimSpace(name), "city": strings.TrimSpace(city)}
	if err := r.collection.FindOne(ctx, filter).Err(); err == nil {
		return "", errors.New("同名のカフェが既に登録されています")
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		return "", err
	}

	now := time.Now().UTC()
	doc := CafeDocument{
		ID:        primitive.NewObjectID(),
		Name:      strings.TrimSpace(name),
		City:      strings.TrimSpace(city),
		Score:     0,
		CreatedAt: &now,
		UpdatedAt: &now,
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return "", err
	}
	return doc.ID.Hex(), nil
}

// Update は ID を保ったまま名前と都市を差し替える。
func (r *AdminCafeRepository) Update(ctx context.Context, id, name, city string) error {
	objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return err
	}
	update := bson.M{"$set": bson.M{
		"name":      strings.TrimSpace(name),
		"city":      strings.TrimSpace(city),
		"updatedAt": time.Now().UTC(),
	}}
	result, err := r.collection.UpdateByID(ctx, objectID, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// Delete はカフェ本体を削除する。参照するレビュー行の削除は呼び出し側の責務。
func (r *AdminCafeRepository) Delete(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return err
	}
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// mapAdminCafe は Mongo ドキュメントを Admin ドメインの Cafe に変換する。
func mapAdminCafe(doc CafeDocument) (admindomain.Cafe, error) {
	name, err := admindomain.NewCafeName(doc.Name)
	if err != nil {
		return admindomain.Cafe{}, err
	}
	city, err := admindomain.NewCity(doc.City)
	if err != nil {
		return admindomain.Cafe{}, err
	}

	cafe := admindomain.Cafe{
		ID:    doc.ID.Hex(),
		Name:  name,
		City:  city,
		Score: doc.Score,
	}
	if doc.CreatedAt != nil {
		cafe.CreatedAt = *doc.CreatedAt
	}
	if doc.UpdatedAt != nil {
		cafe.UpdatedAt = *doc.UpdatedAt
	}
	return cafe, nil
}
