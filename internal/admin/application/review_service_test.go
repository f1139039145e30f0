package application

import (
	"context"
	"errors"
	"testing"

	admindomain "github.com/jlvrmt/cafe-guide-services/api/internal/admin/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type listReviewRepo struct {
	fakeReviewRepo
	rows    []admindomain.Review
	listErr error
}

func (f *listReviewRepo) ListJoined(context.Context) ([]admindomain.Review, error) {
	return f.rows, f.listErr
}

func TestReviewServiceListGroups(t *testing.T) {
	t.Run("groups rows per cafe and rebuilds the grid", func(t *testing.T) {
		repo := &listReviewRepo{rows: []admindomain.Review{
			{ID: "r1", CafeID: "c1", CafeName: "Toma Café", CafeCity: "Madrid", EvaluatorID: "ev-i", CategoryID: "cat-cafe", Score: 8},
			{ID: "r2", CafeID: "c2", CafeName: "Fábrica", CafeCity: "Lisboa", EvaluatorID: "ev-i", CategoryID: "cat-cafe", Score: 7},
			{ID: "r3", CafeID: "c1", CafeName: "Toma Café", CafeCity: "Madrid", EvaluatorID: "ev-f", CategoryID: "cat-cafe", Score: 9},
		}}
		service := NewReviewService(repo)

		groups, err := service.ListGroups(context.Background())
		require.NoError(t, err)
		require.Len(t, groups, 2)

		// グループはフェッチ順(c1 が先)
		assert.Equal(t, "c1", groups[0].CafeID)
		assert.Equal(t, "Toma Café", groups[0].CafeName)
		require.Len(t, groups[0].Reviews, 2)

		score, ok := groups[0].Grid.Score("ev-f", "cat-cafe")
		require.True(t, ok)
		assert.Equal(t, 9.0, score)

		assert.Equal(t, "c2", groups[1].CafeID)
		require.Len(t, groups[1].Reviews, 1)
	})

	t.Run("fetch failure is wrapped as a fetch error", func(t *testing.T) {
		service := NewReviewService(&listReviewRepo{listErr: errors.New("mongo down")})

		_, err := service.ListGroups(context.Background())

		var fetchErr *FetchError
		assert.ErrorAs(t, err, &fetchErr)
	})
}

func TestReviewServiceDelete(t *testing.T) {
	t.Run("deletes a single row by id", func(t *testing.T) {
		repo := &listReviewRepo{}
		service := NewReviewService(repo)

		require.NoError(t, service.Delete(context.Background(), "r1"))
		assert.Equal(t, []string{"r1"}, repo.deletedReviews)
	})

	t.Run("wraps repository failure", func(t *testing.T) {
		repo := &listReviewRepo{}
		repo.deleteByIDErr = errors.New("not found")
		service := NewReviewService(repo)

		err := service.Delete(context.Background(), "r1")

		var deleteErr *DeleteError
		require.ErrorAs(t, err, &deleteErr)
		assert.Equal(t, "review", deleteErr.Step)
	})
}

func TestLookupServiceLookups(t *testing.T) {
	t.Run("loads all three masters", func(t *testing.T) {
		service := NewLookupService(&fakeCafeRepo{}, testLookups())

		lookups, err := service.Lookups(context.Background())
		require.NoError(t, err)
		assert.Len(t, lookups.Categories, 2)
		assert.Len(t, lookups.Evaluators, 2)
	})

	t.Run("any failing master fails the whole load", func(t *testing.T) {
		lookups := testLookups()
		lookups.evaluatorsErr = errors.New("mongo down")
		service := NewLookupService(&fakeCafeRepo{}, lookups)

		_, err := service.Lookups(context.Background())

		var fetchErr *FetchError
		assert.ErrorAs(t, err, &fetchErr)
	})
}
