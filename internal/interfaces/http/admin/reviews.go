package admin

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	adminapp "github.com/jlvrmt/cafe-guide-services/api/internal/admin/application"
	admindomain "github.com/jlvrmt/cafe-guide-services/api/internal/admin/domain"
	"github.com/jlvrmt/cafe-guide-services/api/internal/interfaces/http/common"
)

func (h *Handler) lookupHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		lookups, err := h.lookupService.Lookups(ctx)
		if err != nil {
			h.writeWorkflowError(w, err)
			return
		}

		cafes := make([]adminCafeResponse, 0, len(lookups.Cafes))
		for _, cafe := range lookups.Cafes {
			cafes = append(cafes, adminCafeResponse{
				ID:    cafe.ID,
				Name:  cafe.Name.String(),
				City:  cafe.City.String(),
				Score: cafe.Score,
			})
		}
		categories := make([]adminCategoryResponse, 0, len(lookups.Categories))
		for _, category := range lookups.Categories {
			categories = append(categories, adminCategoryResponse{
				ID:     category.ID,
				Name:   category.Name,
				Weight: category.Weight,
			})
		}
		evaluators := make([]adminEvaluatorResponse, 0, len(lookups.Evaluators))
		for _, evaluator := range lookups.Evaluators {
			evaluators = append(evaluators, adminEvaluatorResponse{ID: evaluator.ID, Name: evaluator.Name})
		}

		common.WriteJSON(h.logger, w, http.StatusOK, lookupResponse{
			Cafes:      cafes,
			Categories: categories,
			Evaluators: evaluators,
		})
	}
}

func (h *Handler) reviewGroupListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		groups, err := h.reviewService.ListGroups(ctx)
		if err != nil {
			h.writeWorkflowError(w, err)
			return
		}

		items := make([]reviewGroupResponse, 0, len(groups))
		for _, group := range groups {
			items = append(items, reviewGroupToResponse(group))
		}

		common.WriteJSON(h.logger, w, http.StatusOK, map[string]any{"items": items})
	}
}

// reviewSaveHandler はカフェ情報とスコアグリッドを 1 回の送信として保存する。
func (h *Handler) reviewSaveHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req saveReviewSetRequest
		if err := json.NewDecoder(io.LimitReader(r.Body, common.MaxRequestBody)).Decode(&req); err != nil {
			common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{"error": "リクエストの形式が不正です"})
			return
		}

		grid := make(admindomain.ScoreGrid, len(req.ScoresByEvaluator))
		for evaluatorID, categories := range req.ScoresByEvaluator {
			for categoryID, score := range categories {
				grid.Set(evaluatorID, categoryID, score)
			}
		}

		cmd := adminapp.SaveReviewSetCommand{
			CafeID: strings.TrimSpace(req.CafeID),
			Name:   req.Name,
			City:   req.City,
			Grid:   grid,
		}

		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		result, err := h.saveWorkflow.Save(ctx, cmd)
		if err != nil {
			h.writeWorkflowError(w, err)
			return
		}

		status := http.StatusOK
		if result.Created {
			status = http.StatusCreated
		}
		common.WriteJSON(h.logger, w, status, saveReviewSetResponse{
			CafeID:   result.CafeID,
			Created:  result.Created,
			RowCount: result.RowCount,
		})
	}
}

func (h *Handler) reviewDeleteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(chi.URLParam(r, "id"))
		if id == "" {
			common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{"error": "レビューIDが指定されていません"})
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := h.reviewService.Delete(ctx, id); err != nil {
			h.writeWorkflowError(w, err)
			return
		}

		common.WriteJSON(h.logger, w, http.StatusOK, map[string]string{"status": "deleted"})
	}
}
