package public

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jlvrmt/cafe-guide-services/api/internal/interfaces/http/common"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

type sessionClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// loginHandler はメールとパスワードを検証し、HS256 の JWT を発行する。
// 失敗理由は漏らさず、常に同じ認証エラーメッセージを返す。
func (h *Handler) loginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(io.LimitReader(r.Body, common.MaxRequestBody)).Decode(&req); err != nil {
			common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{"error": "リクエストの形式が不正です"})
			return
		}

		email := strings.ToLower(strings.TrimSpace(req.Email))
		if email == "" || req.Password == "" {
			common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{"error": "メールアドレスとパスワードを入力してください"})
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		account, err := h.accounts.FindByEmail(ctx, email)
		if err != nil {
			if !errors.Is(err, mongo.ErrNoDocuments) {
				h.logger.Printf("login account fetch failed: %v", err)
			}
			common.WriteJSON(h.logger, w, http.StatusUnauthorized, map[string]string{"error": "サインインに失敗しました"})
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.Password)); err != nil {
			common.WriteJSON(h.logger, w, http.StatusUnauthorized, map[string]string{"error": "サインインに失敗しました"})
			return
		}

		expiresAt := time.Now().Add(h.tokenTTL)
		claims := jwt.RegisteredClaims{
			Issuer:    h.jwtIssuer,
			Subject:   account.ID,
			Audience:  jwt.ClaimStrings{h.jwtAudience},
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		}
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
			RegisteredClaims: claims,
			Email:            account.Email,
		})

		signed, err := token.SignedString(h.jwtSecret)
		if err != nil {
			h.logger.Printf("login token signing failed: %v", err)
			common.WriteJSON(h.logger, w, http.StatusInternalServerError, map[string]string{"error": "サインインに失敗しました"})
			return
		}

		h.sessions.Publish(common.SessionEvent{
			SignedIn: true,
			User:     common.AuthenticatedUser{ID: account.ID, Email: account.Email},
		})

		common.WriteJSON(h.logger, w, http.StatusOK, sessionResponse{
			Token:     signed,
			ExpiresAt: expiresAt.Format(time.RFC3339),
			UserID:    account.ID,
			Email:     account.Email,
		})
	}
}

// sessionHandler は検証済みトークンから現在のセッション情報を返す。
func (h *Handler) sessionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := common.UserFromContext(r.Context())
		if !ok {
			common.WriteJSON(h.logger, w, http.StatusInternalServerError, map[string]string{"error": "認証情報の取得に失敗しました"})
			return
		}

		common.WriteJSON(h.logger, w, http.StatusOK, map[string]any{
			"status": "ok",
			"user":   user,
		})
	}
}

// logoutHandler はサインアウト遷移を通知する。トークン自体は有効期限まで
// 生きるため、破棄はクライアント側の責務となる。
func (h *Handler) logoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, _ := common.UserFromContext(r.Context())
		h.sessions.Publish(common.SessionEvent{SignedIn: false, User: user})
		common.WriteJSON(h.logger, w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
