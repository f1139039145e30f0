package application

import (
	"context"
	"fmt"

	"github.com/jlvrmt/cafe-guide-services/api/internal/public/domain"
	"golang.org/x/sync/errgroup"
)

// cafeQueryService implements CafeQueryService.
type cafeQueryService struct {
	cafes      CafeRepository
	reviews    ReviewRepository
	categories CategoryRepository
}

// NewCafeQueryService creates a new CafeQueryService.
func NewCafeQueryService(cafes CafeRepository, reviews ReviewRepository, categories CategoryRepository) CafeQueryService {
	return &cafeQueryService{cafes: cafes, reviews: reviews, categories: categories}
}

// List は一覧描画に必要な参照を並行取得し、集計・フィルタ・整列を適用して返す。
// いずれか 1 つの取得が失敗した場合はロード全体を失敗として扱い、部分結果は返さない。
func (s *cafeQueryService) List(ctx context.Context, filter ListFilter) (*CafeListResult, error) {
	var (
		cafes      []domain.Cafe
		rows       []domain.ReviewRow
		categories []domain.Category
	)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		found, err := s.cafes.ListByScoreDescending(groupCtx)
		if err != nil {
			return fmt.Errorf("カフェ一覧の取得に失敗しました: %w", err)
		}
		cafes = found
		return nil
	})
	group.Go(func() error {
		found, err := s.reviews.ListRaw(groupCtx)
		if err != nil {
			return fmt.Errorf("レビュー行の取得に失敗しました: %w", err)
		}
		rows = found
		return nil
	})
	group.Go(func() error {
		found, err := s.categories.ListCategories(groupCtx)
		if err != nil {
			return fmt.Errorf("カテゴリ一覧の取得に失敗しました: %w", err)
		}
		categories = found
		return nil
	})
	if err := group.Wait(); err != nil {
		return nil, err
	}

	cities := collectCities(cafes)

	sets, averages := AggregateReviewRows(rows)
	filtered := FilterCafes(cafes, sets, filter)
	SortCafes(filtered, averages, filter)

	items := make([]CafeListItem, 0, len(filtered))
	for _, cafe := range filtered {
		item := CafeListItem{Cafe: cafe}
		if filter.CategoryID != "" {
			if avg, ok := averages.Average(cafe.ID, filter.CategoryID); ok {
				value := avg
				item.CategoryScore = &value
			}
		}
		items = append(items, item)
	}

	return &CafeListResult{
		Items:      items,
		Categories: categories,
		Cities:     cities,
	}, nil
}

// collectCities は都市のユニーク値をフェッチ順で返す。空文字は落とす。
func collectCities(cafes []domain.Cafe) []string {
	seen := make(map[string]struct{}, len(cafes))
	cities := make([]string, 0, len(cafes))
	for _, cafe := range cafes {
		if cafe.City == "" {
			continue
		}
		if _, ok := seen[cafe.City]; ok {
			continue
		}
		seen[cafe.City] = struct{}{}
		cities = append(cities, cafe.City)
	}
	return cities
}
