package application

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCafeServiceDelete(t *testing.T) {
	t.Run("deletes the reviews first, then the cafe", func(t *testing.T) {
		cafes := &fakeCafeRepo{}
		reviews := &fakeReviewRepo{}
		service := NewCafeService(discardLogger(), cafes, reviews)

		err := service.Delete(context.Background(), "cafe-9")
		require.NoError(t, err)

		assert.Equal(t, []string{"cafe-9"}, reviews.deletedCafes)
		assert.Equal(t, []string{"cafe-9"}, cafes.deleted)
	})

	t.Run("a failed review deletion leaves the cafe untouched", func(t *testing.T) {
		cafes := &fakeCafeRepo{}
		reviews := &fakeReviewRepo{deleteCafeErr: errors.New("mongo down")}
		service := NewCafeService(discardLogger(), cafes, reviews)

		err := service.Delete(context.Background(), "cafe-9")

		var deleteErr *DeleteError
		require.ErrorAs(t, err, &deleteErr)
		assert.Equal(t, "reviews", deleteErr.Step)
		assert.Empty(t, cafes.deleted)
	})

	t.Run("a failed cafe deletion after the reviews reports the cafe step", func(t *testing.T) {
		cafes := &fakeCafeRepo{deleteErr: errors.New("write conflict")}
		reviews := &fakeReviewRepo{}
		service := NewCafeService(discardLogger(), cafes, reviews)

		err := service.Delete(context.Background(), "cafe-9")

		var deleteErr *DeleteError
		require.ErrorAs(t, err, &deleteErr)
		assert.Equal(t, "cafe", deleteErr.Step)
		// レビューは既に削除済みで、補償はしない
		assert.Equal(t, []string{"cafe-9"}, reviews.deletedCafes)
	})
}
