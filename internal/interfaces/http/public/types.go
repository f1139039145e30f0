package public

import (
	publicapp "github.com/jlvrmt/cafe-guide-services/api/internal/public/application"
)

type cafeResponse struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	City          string   `json:"city"`
	Score         float64  `json:"score"`
	CategoryScore *float64 `json:"categoryScore,omitempty"`
}

type categoryResponse struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
}

type cafeListResponse struct {
	Items      []cafeResponse     `json:"items"`
	Categories []categoryResponse `json:"categories"`
	Cities     []string           `json:"cities"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expiresAt"`
	UserID    string `json:"userId"`
	Email     string `json:"email"`
}

func cafeListResultToResponse(result *publicapp.CafeListResult) cafeListResponse {
	items := make([]cafeResponse, 0, len(result.Items))
	for _, item := range result.Items {
		items = append(items, cafeResponse{
			ID:            item.Cafe.ID,
			Name:          item.Cafe.Name,
			City:          item.Cafe.City,
			Score:         item.Cafe.Score,
			CategoryScore: item.CategoryScore,
		})
	}

	categories := make([]categoryResponse, 0, len(result.Categories))
	for _, category := range result.Categories {
		categories = append(categories, categoryResponse{
			ID:     category.ID,
			Name:   category.Name,
			Weight: category.Weight,
		})
	}

	return cafeListResponse{
		Items:      items,
		Categories: categories,
		Cities:     result.Cities,
	}
}
