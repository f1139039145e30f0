package public

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/jlvrmt/cafe-guide-services/api/internal/interfaces/http/common"
	publicapp "github.com/jlvrmt/cafe-guide-services/api/internal/public/application"
	"github.com/jlvrmt/cafe-guide-services/api/internal/public/domain"
)

// cafeListHandler は band/city/categoryId/sort のフィルタ設定つきで一覧を返す。
func (h *Handler) cafeListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		queryValues := r.URL.Query()
		band, err := domain.ParseBand(queryValues.Get("band"))
		if err != nil {
			common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}

		sortOrder := publicapp.SortDescending
		if strings.TrimSpace(queryValues.Get("sort")) == string(publicapp.SortAscending) {
			sortOrder = publicapp.SortAscending
		}

		filter := publicapp.ListFilter{
			Band:       band,
			City:       strings.TrimSpace(queryValues.Get("city")),
			CategoryID: strings.TrimSpace(queryValues.Get("categoryId")),
			Sort:       sortOrder,
		}

		result, err := h.cafeQueries.List(ctx, filter)
		if err != nil {
			h.logger.Printf("public cafe list failed: %v", err)
			common.WriteJSON(h.logger, w, http.StatusInternalServerError, map[string]string{"error": "カフェ一覧を読み込めませんでした"})
			return
		}

		common.WriteJSON(h.logger, w, http.StatusOK, cafeListResultToResponse(result))
	}
}

// cityListHandler は都市ドロップダウン用の選択肢だけを返す軽量エンドポイント。
func (h *Handler) cityListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		result, err := h.cafeQueries.List(ctx, publicapp.ListFilter{})
		if err != nil {
			h.logger.Printf("public city list failed: %v", err)
			common.WriteJSON(h.logger, w, http.StatusInternalServerError, map[string]string{"error": "都市一覧を読み込めませんでした"})
			return
		}

		common.WriteJSON(h.logger, w, http.StatusOK, map[string][]string{"cities": result.Cities})
	}
}
