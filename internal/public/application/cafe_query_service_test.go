package application

import (
	"context"
	"errors"
	"testing"

	"github.com/jlvrmt/cafe-guide-services/api/internal/public/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCafeRepo struct {
	cafes []domain.Cafe
	err   error
}

func (s *stubCafeRepo) ListByScoreDescending(context.Context) ([]domain.Cafe, error) {
	return s.cafes, s.err
}

type stubReviewRepo struct {
	rows []domain.ReviewRow
	err  error
}

func (s *stubReviewRepo) ListRaw(context.Context) ([]domain.ReviewRow, error) {
	return s.rows, s.err
}

type stubCategoryRepo struct {
	categories []domain.Category
	err        error
}

func (s *stubCategoryRepo) ListCategories(context.Context) ([]domain.Category, error) {
	return s.categories, s.err
}

func TestCafeQueryServiceList(t *testing.T) {
	t.Run("empty backend yields an empty, renderable result", func(t *testing.T) {
		service := NewCafeQueryService(&stubCafeRepo{}, &stubReviewRepo{}, &stubCategoryRepo{})

		result, err := service.List(context.Background(), ListFilter{})
		require.NoError(t, err)
		assert.Empty(t, result.Items)
		assert.Empty(t, result.Categories)
		assert.Empty(t, result.Cities)
	})

	t.Run("any failing load fails the whole list", func(t *testing.T) {
		boom := errors.New("mongo down")
		service := NewCafeQueryService(
			&stubCafeRepo{cafes: []domain.Cafe{{ID: "c1"}}},
			&stubReviewRepo{err: boom},
			&stubCategoryRepo{},
		)

		result, err := service.List(context.Background(), ListFilter{})
		require.Error(t, err)
		assert.ErrorIs(t, err, boom)
		assert.Nil(t, result, "no partial result on a failed load")
	})

	t.Run("cities are unique and in fetch order", func(t *testing.T) {
		service := NewCafeQueryService(
			&stubCafeRepo{cafes: []domain.Cafe{
				{ID: "c1", City: "Madrid", Score: 9},
				{ID: "c2", City: "Lisboa", Score: 8},
				{ID: "c3", City: "Madrid", Score: 7},
			}},
			&stubReviewRepo{},
			&stubCategoryRepo{},
		)

		result, err := service.List(context.Background(), ListFilter{})
		require.NoError(t, err)
		assert.Equal(t, []string{"Madrid", "Lisboa"}, result.Cities)
	})

	t.Run("cities reflect the full fetch, not the filtered page", func(t *testing.T) {
		service := NewCafeQueryService(
			&stubCafeRepo{cafes: []domain.Cafe{
				{ID: "c1", City: "Madrid", Score: 9},
				{ID: "c2", City: "Lisboa", Score: 8},
			}},
			&stubReviewRepo{},
			&stubCategoryRepo{},
		)

		result, err := service.List(context.Background(), ListFilter{City: "Madrid"})
		require.NoError(t, err)
		require.Len(t, result.Items, 1)
		assert.Equal(t, []string{"Madrid", "Lisboa"}, result.Cities)
	})

	t.Run("category filter attaches the category average to each item", func(t *testing.T) {
		service := NewCafeQueryService(
			&stubCafeRepo{cafes: []domain.Cafe{
				{ID: "c1", City: "Madrid", Score: 9},
				{ID: "c2", City: "Madrid", Score: 8},
			}},
			&stubReviewRepo{rows: []domain.ReviewRow{
				{CafeID: "c1", CategoryID: "wifi", Score: scoreOf(7)},
				{CafeID: "c1", CategoryID: "wifi", Score: scoreOf(8)},
				{CafeID: "c2", CategoryID: "wifi", Score: nil},
			}},
			&stubCategoryRepo{categories: []domain.Category{{ID: "wifi", Name: "Wifi", Weight: 1}}},
		)

		result, err := service.List(context.Background(), ListFilter{CategoryID: "wifi", Sort: SortDescending})
		require.NoError(t, err)
		require.Len(t, result.Items, 2)

		// c1 has an average, c2 only a nil-score row: included, but no average.
		assert.Equal(t, "c1", result.Items[0].Cafe.ID)
		require.NotNil(t, result.Items[0].CategoryScore)
		assert.Equal(t, 7.5, *result.Items[0].CategoryScore)

		assert.Equal(t, "c2", result.Items[1].Cafe.ID)
		assert.Nil(t, result.Items[1].CategoryScore)
	})
}
