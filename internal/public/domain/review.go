package domain

// ReviewRow is the raw projection of a review used for aggregation,
// decoupled from the display-joined form.
// Score が nil の行は集計から除外されるが、行自体は存在扱いとなる。
type ReviewRow struct {
	CafeID     string
	CategoryID string
	Score      *float64
}

// CategorySetMap maps cafe → set of category ids that have at least one review.
type CategorySetMap map[string]map[string]struct{}

// Has reports whether the cafe has any review in the category.
func (m CategorySetMap) Has(cafeID, categoryID string) bool {
	categories, ok := m[cafeID]
	if !ok {
		return false
	}
	_, ok = categories[categoryID]
	return ok
}

// CategoryAverageMap maps cafe → category → average score (2 decimals).
// エントリが無いことは「データ無し」を意味し、0 点とは区別される。
type CategoryAverageMap map[string]map[string]float64

// Average returns the average for the pair and whether it exists.
func (m CategoryAverageMap) Average(cafeID, categoryID string) (float64, bool) {
	categories, ok := m[cafeID]
	if !ok {
		return 0, false
	}
	avg, ok := categories[categoryID]
	return avg, ok
}
