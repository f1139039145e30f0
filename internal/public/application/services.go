package application

import (
	"context"

	"github.com/jlvrmt/cafe-guide-services/api/internal/public/domain"
)

// CafeRepository abstracts read access to cafes.
// CafeRepository は Public コンテキストでカフェを読み取るためのポート。
type CafeRepository interface {
	ListByScoreDescending(ctx context.Context) ([]domain.Cafe, error)
}

// ReviewRepository provides the raw review projection used for aggregation.
type ReviewRepository interface {
	ListRaw(ctx context.Context) ([]domain.ReviewRow, error)
}

// CategoryRepository abstracts read access to categories.
type CategoryRepository interface {
	ListCategories(ctx context.Context) ([]domain.Category, error)
}

// AdminAccountRepository looks up operator accounts for sign-in.
type AdminAccountRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.AdminAccount, error)
}

// SortOrder controls list ordering direction.
type SortOrder string

const (
	SortDescending SortOrder = "desc"
	SortAscending  SortOrder = "asc"
)

// ListFilter expresses the public listing filter configuration.
// ゼロ値はフィルタ無しを意味する。
type ListFilter struct {
	Band       domain.Band
	City       string
	CategoryID string
	Sort       SortOrder
}

// CafeListItem is a cafe paired with its average for the filtered category.
// CategoryScore はカテゴリフィルタ指定時のみ設定され、nil は「カテゴリの記録無し」を表す。
type CafeListItem struct {
	Cafe          domain.Cafe
	CategoryScore *float64
}

// CafeListResult bundles everything the listing page renders in one load.
type CafeListResult struct {
	Items      []CafeListItem
	Categories []domain.Category
	Cities     []string
}

// CafeQueryService describes the public listing use-case.
// CafeQueryService はカフェ一覧参照ユースケースを提供するリーダーモデル。
type CafeQueryService interface {
	List(ctx context.Context, filter ListFilter) (*CafeListResult, error)
}
