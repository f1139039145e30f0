package domain

import "time"

// Review is one evaluator's numeric score for one cafe in one category.
// (cafe, evaluator, category) の三つ組につき高々 1 件しか存在しない。
type Review struct {
	ID            string
	CafeID        string
	CafeName      string
	CafeCity      string
	EvaluatorID   string
	EvaluatorName string
	CategoryID    string
	CategoryName  string
	Score         float64
	CreatedAt     time.Time
}

// ScoreGrid holds the evaluator×category score grid of the review form.
// 外側キーは評価者 ID、内側キーはカテゴリ ID。キーが無いことは未入力を意味し、
// 0 点の入力とは区別される。
type ScoreGrid map[string]map[string]float64

// Score returns the entry for the pair and whether it is present.
func (g ScoreGrid) Score(evaluatorID, categoryID string) (float64, bool) {
	categories, ok := g[evaluatorID]
	if !ok {
		return 0, false
	}
	score, ok := categories[categoryID]
	return score, ok
}

// Set records a score for the pair, allocating the inner map on demand.
func (g ScoreGrid) Set(evaluatorID, categoryID string, score float64) {
	categories, ok := g[evaluatorID]
	if !ok {
		categories = make(map[string]float64)
		g[evaluatorID] = categories
	}
	categories[categoryID] = score
}

// CafeReviewGroup is a cafe together with its full score grid,
// the unit the admin panel edits and deletes.
type CafeReviewGroup struct {
	CafeID   string
	CafeName string
	CafeCity string
	Grid     ScoreGrid
	Reviews  []Review
}
