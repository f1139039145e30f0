package application

import (
	"math"

	"github.com/jlvrmt/cafe-guide-services/api/internal/public/domain"
)

// AggregateReviewRows turns the flat review rows into the two derived maps:
// which categories each cafe has been reviewed in, and the per-category
// average score rounded to 2 decimal places.
// 集計は毎回ゼロから行い、入力順に依存しない決定的な結果を返す。
// Score が nil もしくは数値でない行は平均の分子・分母から除外するが、
// カテゴリ集合には含める(部分データ許容)。
func AggregateReviewRows(rows []domain.ReviewRow) (domain.CategorySetMap, domain.CategoryAverageMap) {
	sets := make(domain.CategorySetMap)
	sums := make(map[string]map[string]*scoreAccumulator)

	for _, row := range rows {
		if row.CafeID == "" || row.CategoryID == "" {
			continue
		}

		categories, ok := sets[row.CafeID]
		if !ok {
			categories = make(map[string]struct{})
			sets[row.CafeID] = categories
		}
		categories[row.CategoryID] = struct{}{}

		if row.Score == nil || math.IsNaN(*row.Score) || math.IsInf(*row.Score, 0) {
			continue
		}

		accs, ok := sums[row.CafeID]
		if !ok {
			accs = make(map[string]*scoreAccumulator)
			sums[row.CafeID] = accs
		}
		acc, ok := accs[row.CategoryID]
		if !ok {
			acc = &scoreAccumulator{}
			accs[row.CategoryID] = acc
		}
		acc.sum += *row.Score
		acc.count++
	}

	averages := make(domain.CategoryAverageMap, len(sums))
	for cafeID, accs := range sums {
		perCategory := make(map[string]float64, len(accs))
		for categoryID, acc := range accs {
			perCategory[categoryID] = roundScore(acc.sum / float64(acc.count))
		}
		averages[cafeID] = perCategory
	}

	return sets, averages
}

type scoreAccumulator struct {
	sum   float64
	count int
}

// roundScore rounds half away from zero at the 2nd decimal.
func roundScore(value float64) float64 {
	return math.Round(value*100) / 100
}
