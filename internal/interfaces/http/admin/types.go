package admin

import (
	"time"

	admindomain "github.com/jlvrmt/cafe-guide-services/api/internal/admin/domain"
)

type saveReviewSetRequest struct {
	CafeID string `json:"cafeId"`
	Name   string `json:"name"`
	City   string `json:"city"`
	// 外側キーは評価者 ID、内側キーはカテゴリ ID。
	ScoresByEvaluator map[string]map[string]float64 `json:"scoresByEvaluator"`
}

type saveReviewSetResponse struct {
	CafeID   string `json:"cafeId"`
	Created  bool   `json:"created"`
	RowCount int    `json:"rowCount"`
}

type adminCafeResponse struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	City  string  `json:"city"`
	Score float64 `json:"score"`
}

type adminCategoryResponse struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
}

type adminEvaluatorResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type lookupResponse struct {
	Cafes      []adminCafeResponse      `json:"cafes"`
	Categories []adminCategoryResponse  `json:"categories"`
	Evaluators []adminEvaluatorResponse `json:"evaluators"`
}

type adminReviewResponse struct {
	ID            string    `json:"id"`
	CafeID        string    `json:"cafeId"`
	EvaluatorID   string    `json:"evaluatorId"`
	EvaluatorName string    `json:"evaluatorName"`
	CategoryID    string    `json:"categoryId"`
	CategoryName  string    `json:"categoryName"`
	Score         float64   `json:"score"`
	CreatedAt     time.Time `json:"createdAt"`
}

type reviewGroupResponse struct {
	Cafe              adminCafeRef                  `json:"cafe"`
	ScoresByEvaluator map[string]map[string]float64 `json:"scoresByEvaluator"`
	Reviews           []adminReviewResponse         `json:"reviews"`
}

type adminCafeRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	City string `json:"city"`
}

func reviewGroupToResponse(group admindomain.CafeReviewGroup) reviewGroupResponse {
	reviews := make([]adminReviewResponse, 0, len(group.Reviews))
	for _, review := range group.Reviews {
		reviews = append(reviews, adminReviewResponse{
			ID:            review.ID,
			CafeID:        review.CafeID,
			EvaluatorID:   review.EvaluatorID,
			EvaluatorName: review.EvaluatorName,
			CategoryID:    review.CategoryID,
			CategoryName:  review.CategoryName,
			Score:         review.Score,
			CreatedAt:     review.CreatedAt,
		})
	}

	return reviewGroupResponse{
		Cafe: adminCafeRef{
			ID:   group.CafeID,
			Name: group.CafeName,
			City: group.CafeCity,
		},
		ScoresByEvaluator: map[string]map[string]float64(group.Grid),
		Reviews:           reviews,
	}
}
