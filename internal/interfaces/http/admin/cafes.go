package admin

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jlvrmt/cafe-guide-services/api/internal/interfaces/http/common"
)

// cafeDeleteHandler はカフェ本体と参照レビューを順序付きで削除する。
func (h *Handler) cafeDeleteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(chi.URLParam(r, "id"))
		if id == "" {
			common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{"error": "カフェIDが指定されていません"})
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		if err := h.cafeService.Delete(ctx, id); err != nil {
			h.writeWorkflowError(w, err)
			return
		}

		common.WriteJSON(h.logger, w, http.StatusOK, map[string]string{"status": "deleted"})
	}
}
