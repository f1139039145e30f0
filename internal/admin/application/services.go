package application

import (
	"context"

	admindomain "github.com/jlvrmt/cafe-guide-services/api/internal/admin/domain"
)

// CafeRepository exposes admin CRUD on cafes.
// CafeRepository は管理コンテキストのカフェ永続化ポート。
type CafeRepository interface {
	List(ctx context.Context) ([]admindomain.Cafe, error)
	Create(ctx context.Context, name, city string) (string, error)
	Update(ctx context.Context, id, name, city string) error
	Delete(ctx context.Context, id string) error
}

// ReviewRepository exposes admin review persistence.
// UpsertBatch は (cafe, evaluator, category) の三つ組をコンフリクトキーとして
// 全行を upsert する。
type ReviewRepository interface {
	ListJoined(ctx context.Context) ([]admindomain.Review, error)
	UpsertBatch(ctx context.Context, rows []ReviewUpsertRow) error
	DeleteByCafe(ctx context.Context, cafeID string) error
	DeleteByID(ctx context.Context, id string) error
}

// LookupRepository provides the category/evaluator master data.
type LookupRepository interface {
	ListCategories(ctx context.Context) ([]admindomain.Category, error)
	ListEvaluators(ctx context.Context) ([]admindomain.Evaluator, error)
}

// ReviewUpsertRow is one row of the full evaluator×category batch.
type ReviewUpsertRow struct {
	CafeID      string
	EvaluatorID string
	CategoryID  string
	Score       float64
}

// SaveReviewSetCommand carries the review form input: the cafe fields and
// the complete score grid for both required evaluators.
// CafeID が空なら新規作成、指定されていれば既存カフェの更新となる。
type SaveReviewSetCommand struct {
	CafeID string
	Name   string
	City   string
	Grid   admindomain.ScoreGrid
}

// SaveResult reports what a successful save wrote.
type SaveResult struct {
	CafeID   string
	Created  bool
	RowCount int
}

// CafeService describes admin cafe use-cases.
type CafeService interface {
	List(ctx context.Context) ([]admindomain.Cafe, error)
	Delete(ctx context.Context, id string) error
}

// ReviewService describes admin review use-cases.
type ReviewService interface {
	ListGroups(ctx context.Context) ([]admindomain.CafeReviewGroup, error)
	Delete(ctx context.Context, id string) error
}

// LookupService exposes the master data to the admin panel.
type LookupService interface {
	Lookups(ctx context.Context) (*Lookups, error)
}

// Lookups bundles the three lookup tables loaded at panel start.
type Lookups struct {
	Cafes      []admindomain.Cafe
	Categories []admindomain.Category
	Evaluators []admindomain.Evaluator
}
