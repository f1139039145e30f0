package admin

import (
	"errors"
	"net/http"

	adminapp "github.com/jlvrmt/cafe-guide-services/api/internal/admin/application"
	"github.com/jlvrmt/cafe-guide-services/api/internal/interfaces/http/common"
)

// writeWorkflowError はアプリケーション層のエラー分類を HTTP ステータスへ写像する。
// 利用者向けメッセージはエラー側が既にローカライズ済みなのでそのまま返す。
func (h *Handler) writeWorkflowError(w http.ResponseWriter, err error) {
	var validationErr *adminapp.ValidationError
	if errors.As(err, &validationErr) {
		common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{"error": validationErr.Message})
		return
	}
	if errors.Is(err, adminapp.ErrSaveInFlight) {
		common.WriteJSON(h.logger, w, http.StatusConflict, map[string]string{"error": err.Error()})
		return
	}

	var writeErr *adminapp.WriteError
	if errors.As(err, &writeErr) {
		h.logger.Printf("admin save write failed step=%s err=%v", writeErr.Step, writeErr.Err)
		common.WriteJSON(h.logger, w, http.StatusBadGateway, map[string]string{"error": writeErr.Error()})
		return
	}

	var deleteErr *adminapp.DeleteError
	if errors.As(err, &deleteErr) {
		h.logger.Printf("admin delete failed step=%s err=%v", deleteErr.Step, deleteErr.Err)
		common.WriteJSON(h.logger, w, http.StatusInternalServerError, map[string]string{"error": "削除できませんでした"})
		return
	}

	var fetchErr *adminapp.FetchError
	if errors.As(err, &fetchErr) {
		h.logger.Printf("admin fetch failed: %v", fetchErr.Err)
		common.WriteJSON(h.logger, w, http.StatusInternalServerError, map[string]string{"error": "データを読み込めませんでした"})
		return
	}

	h.logger.Printf("admin request failed: %v", err)
	common.WriteJSON(h.logger, w, http.StatusInternalServerError, map[string]string{"error": "処理に失敗しました"})
}
