package application

import (
	"math"
	"testing"

	"github.com/jlvrmt/cafe-guide-services/api/internal/public/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scoreOf(v float64) *float64 {
	return &v
}

func TestAggregateReviewRows(t *testing.T) {
	t.Run("averages both evaluators per category", func(t *testing.T) {
		rows := []domain.ReviewRow{
			{CafeID: "c1", CategoryID: "cafe", Score: scoreOf(8)},
			{CafeID: "c1", CategoryID: "cafe", Score: scoreOf(9)},
		}

		_, averages := AggregateReviewRows(rows)

		avg, ok := averages.Average("c1", "cafe")
		require.True(t, ok)
		assert.Equal(t, 8.5, avg)
	})

	t.Run("rounds to two decimals half away from zero", func(t *testing.T) {
		rows := []domain.ReviewRow{
			{CafeID: "c1", CategoryID: "cafe", Score: scoreOf(7)},
			{CafeID: "c1", CategoryID: "cafe", Score: scoreOf(7.005)},
		}

		_, averages := AggregateReviewRows(rows)

		avg, ok := averages.Average("c1", "cafe")
		require.True(t, ok)
		// (7 + 7.005) / 2 = 7.0025 → 7.0 (to 2 decimals)
		assert.InDelta(t, 7.0, avg, 0.0001)
	})

	t.Run("nil scores join the category set but not the average", func(t *testing.T) {
		rows := []domain.ReviewRow{
			{CafeID: "c1", CategoryID: "cafe", Score: scoreOf(6)},
			{CafeID: "c1", CategoryID: "cafe", Score: nil},
			{CafeID: "c1", CategoryID: "wifi", Score: nil},
		}

		sets, averages := AggregateReviewRows(rows)

		assert.True(t, sets.Has("c1", "cafe"))
		assert.True(t, sets.Has("c1", "wifi"))

		avg, ok := averages.Average("c1", "cafe")
		require.True(t, ok)
		assert.Equal(t, 6.0, avg)

		_, ok = averages.Average("c1", "wifi")
		assert.False(t, ok, "only nil scores should yield no average")
	})

	t.Run("non-finite scores are excluded from the average", func(t *testing.T) {
		rows := []domain.ReviewRow{
			{CafeID: "c1", CategoryID: "cafe", Score: scoreOf(math.NaN())},
			{CafeID: "c1", CategoryID: "cafe", Score: scoreOf(math.Inf(1))},
			{CafeID: "c1", CategoryID: "cafe", Score: scoreOf(5)},
		}

		_, averages := AggregateReviewRows(rows)

		avg, ok := averages.Average("c1", "cafe")
		require.True(t, ok)
		assert.Equal(t, 5.0, avg)
	})

	t.Run("result does not depend on input order", func(t *testing.T) {
		forward := []domain.ReviewRow{
			{CafeID: "c1", CategoryID: "cafe", Score: scoreOf(7.1)},
			{CafeID: "c1", CategoryID: "cafe", Score: scoreOf(8.2)},
			{CafeID: "c2", CategoryID: "ambiente", Score: scoreOf(9.3)},
		}
		backward := []domain.ReviewRow{forward[2], forward[1], forward[0]}

		_, a := AggregateReviewRows(forward)
		_, b := AggregateReviewRows(backward)

		assert.Equal(t, a, b)
	})

	t.Run("empty input yields empty maps", func(t *testing.T) {
		sets, averages := AggregateReviewRows(nil)
		assert.Empty(t, sets)
		assert.Empty(t, averages)
	})
}
