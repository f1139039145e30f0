package application

import (
	"math"
	"sort"

	"github.com/jlvrmt/cafe-guide-services/api/internal/public/domain"
)

// FilterCafes applies the band, city and category filters with logical AND.
// 副作用を持たない純粋な関数で、入力スライスは変更しない。
func FilterCafes(cafes []domain.Cafe, sets domain.CategorySetMap, filter ListFilter) []domain.Cafe {
	result := make([]domain.Cafe, 0, len(cafes))
	for _, cafe := range cafes {
		if !filter.Band.Contains(cafe.Score) {
			continue
		}
		if filter.City != "" && cafe.City != filter.City {
			continue
		}
		if filter.CategoryID != "" && !sets.Has(cafe.ID, filter.CategoryID) {
			continue
		}
		result = append(result, cafe)
	}
	return result
}

// SortCafes orders cafes by the configured key: the category average when a
// category is filtered, the overall score otherwise. Stable so ties keep the
// original fetch order.
// カテゴリ平均が存在しないカフェは -Inf 扱いとなる。降順では末尾、昇順では
// 先頭に並ぶ非対称があるが、現仕様のまま維持する。
func SortCafes(cafes []domain.Cafe, averages domain.CategoryAverageMap, filter ListFilter) {
	key := func(cafe domain.Cafe) float64 {
		if filter.CategoryID == "" {
			return cafe.Score
		}
		avg, ok := averages.Average(cafe.ID, filter.CategoryID)
		if !ok {
			return math.Inf(-1)
		}
		return avg
	}

	if filter.Sort == SortAscending {
		sort.SliceStable(cafes, func(i, j int) bool {
			return key(cafes[i]) < key(cafes[j])
		})
		return
	}
	sort.SliceStable(cafes, func(i, j int) bool {
		return key(cafes[i]) > key(cafes[j])
	})
}
