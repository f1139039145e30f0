package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CafeDocument は MongoDB 上でのカフェスキーマを Go 構造体として表現したもの。
// score は管理側のレビュー変更のたびに再計算される重み付き総合点。
type CafeDocument struct {
	ID        primitive.ObjectID `bson:"_id"`
	Name      string             `bson:"name"`
	City      string             `bson:"city"`
	Score     float64            `bson:"score"`
	CreatedAt *time.Time         `bson:"createdAt,omitempty"`
	UpdatedAt *time.Time         `bson:"updatedAt,omitempty"`
}

// CategoryDocument は評価カテゴリのマスタスキーマ。
type CategoryDocument struct {
	ID     primitive.ObjectID `bson:"_id"`
	Name   string             `bson:"name"`
	Weight float64            `bson:"weight"`
}

// EvaluatorDocument は評価者のマスタスキーマ。
type EvaluatorDocument struct {
	ID   primitive.ObjectID `bson:"_id"`
	Name string             `bson:"name"`
}

// ReviewDocument はレビュー 1 行分のスキーマ。
// (cafeId, evaluatorId, categoryId) にユニークインデックスを張る前提で、
// upsert のコンフリクトキーとして使う。score は欠損値を許容する。
type ReviewDocument struct {
	ID          primitive.ObjectID `bson:"_id"`
	CafeID      primitive.ObjectID `bson:"cafeId"`
	EvaluatorID primitive.ObjectID `bson:"evaluatorId"`
	CategoryID  primitive.ObjectID `bson:"categoryId"`
	Score       *float64           `bson:"score"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

// AdminAccountDocument は管理者アカウントのスキーマ。パスワードは bcrypt ハッシュのみ保持する。
type AdminAccountDocument struct {
	ID           primitive.ObjectID `bson:"_id"`
	Email        string             `bson:"email"`
	PasswordHash string             `bson:"passwordHash"`
	CreatedAt    time.Time          `bson:"createdAt"`
}
