package admin

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	adminapp "github.com/jlvrmt/cafe-guide-services/api/internal/admin/application"
	admindomain "github.com/jlvrmt/cafe-guide-services/api/internal/admin/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAdminCafeRepo struct {
	deleteErr error
}

func (s *stubAdminCafeRepo) List(context.Context) ([]admindomain.Cafe, error) { return nil, nil }
func (s *stubAdminCafeRepo) Create(context.Context, string, string) (string, error) {
	return "cafe-new", nil
}
func (s *stubAdminCafeRepo) Update(context.Context, string, string, string) error { return nil }
func (s *stubAdminCafeRepo) Delete(context.Context, string) error                 { return s.deleteErr }

type stubAdminReviewRepo struct {
	rows      []admindomain.Review
	upsertErr error
}

func (s *stubAdminReviewRepo) ListJoined(context.Context) ([]admindomain.Review, error) {
	return s.rows, nil
}
func (s *stubAdminReviewRepo) UpsertBatch(context.Context, []adminapp.ReviewUpsertRow) error {
	return s.upsertErr
}
func (s *stubAdminReviewRepo) DeleteByCafe(context.Context, string) error { return nil }
func (s *stubAdminReviewRepo) DeleteByID(context.Context, string) error   { return nil }

type stubAdminLookupRepo struct{}

func (s *stubAdminLookupRepo) ListCategories(context.Context) ([]admindomain.Category, error) {
	return []admindomain.Category{{ID: "cat-cafe", Name: "Café", Weight: 3}}, nil
}

func (s *stubAdminLookupRepo) ListEvaluators(context.Context) ([]admindomain.Evaluator, error) {
	return []admindomain.Evaluator{{ID: "ev-i", Name: "I"}, {ID: "ev-f", Name: "F"}}, nil
}

func newAdminTestRouter(cafes *stubAdminCafeRepo, reviews *stubAdminReviewRepo) http.Handler {
	logger := log.New(io.Discard, "", 0)
	lookups := &stubAdminLookupRepo{}
	handler := NewHandler(Config{
		Logger:        logger,
		LookupService: adminapp.NewLookupService(cafes, lookups),
		CafeService:   adminapp.NewCafeService(logger, cafes, reviews),
		ReviewService: adminapp.NewReviewService(reviews),
		SaveWorkflow:  adminapp.NewSaveWorkflow(logger, cafes, reviews, lookups),
	})
	router := chi.NewRouter()
	handler.Register(router)
	return router
}

func saveBody(t *testing.T, cafeID string, scores map[string]map[string]float64) io.Reader {
	t.Helper()
	payload, err := json.Marshal(map[string]any{
		"cafeId":            cafeID,
		"name":              "Toma Café",
		"city":              "Madrid",
		"scoresByEvaluator": scores,
	})
	require.NoError(t, err)
	return strings.NewReader(string(payload))
}

func completeScores() map[string]map[string]float64 {
	return map[string]map[string]float64{
		"ev-i": {"cat-cafe": 8},
		"ev-f": {"cat-cafe": 9},
	}
}

func TestReviewSaveHandler(t *testing.T) {
	t.Run("a new cafe answers 201", func(t *testing.T) {
		router := newAdminTestRouter(&stubAdminCafeRepo{}, &stubAdminReviewRepo{})

		req := httptest.NewRequest(http.MethodPost, "/reviews", saveBody(t, "", completeScores()))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)

		var resp saveReviewSetResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, resp.Created)
		assert.Equal(t, "cafe-new", resp.CafeID)
		assert.Equal(t, 2, resp.RowCount)
	})

	t.Run("an existing cafe answers 200", func(t *testing.T) {
		router := newAdminTestRouter(&stubAdminCafeRepo{}, &stubAdminReviewRepo{})

		req := httptest.NewRequest(http.MethodPost, "/reviews", saveBody(t, "cafe-7", completeScores()))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("an incomplete grid answers 400 with the message", func(t *testing.T) {
		router := newAdminTestRouter(&stubAdminCafeRepo{}, &stubAdminReviewRepo{})

		req := httptest.NewRequest(http.MethodPost, "/reviews", saveBody(t, "", map[string]map[string]float64{
			"ev-i": {"cat-cafe": 8},
		}))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)

		var resp map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Contains(t, resp["error"], "F")
	})

	t.Run("a failed review batch answers 502", func(t *testing.T) {
		router := newAdminTestRouter(&stubAdminCafeRepo{}, &stubAdminReviewRepo{upsertErr: errors.New("duplicate key")})

		req := httptest.NewRequest(http.MethodPost, "/reviews", saveBody(t, "", completeScores()))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadGateway, rec.Code)
	})

	t.Run("a malformed body answers 400", func(t *testing.T) {
		router := newAdminTestRouter(&stubAdminCafeRepo{}, &stubAdminReviewRepo{})

		req := httptest.NewRequest(http.MethodPost, "/reviews", strings.NewReader("{"))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestCafeDeleteHandler(t *testing.T) {
	t.Run("deletes and answers 200", func(t *testing.T) {
		router := newAdminTestRouter(&stubAdminCafeRepo{}, &stubAdminReviewRepo{})

		req := httptest.NewRequest(http.MethodDelete, "/cafes/cafe-9", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("a failed deletion answers 500", func(t *testing.T) {
		router := newAdminTestRouter(&stubAdminCafeRepo{deleteErr: errors.New("write conflict")}, &stubAdminReviewRepo{})

		req := httptest.NewRequest(http.MethodDelete, "/cafes/cafe-9", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestReviewGroupListHandler(t *testing.T) {
	t.Run("groups rows per cafe", func(t *testing.T) {
		reviews := &stubAdminReviewRepo{rows: []admindomain.Review{
			{ID: "r1", CafeID: "c1", CafeName: "Toma Café", CafeCity: "Madrid", EvaluatorID: "ev-i", CategoryID: "cat-cafe", Score: 8},
			{ID: "r2", CafeID: "c1", CafeName: "Toma Café", CafeCity: "Madrid", EvaluatorID: "ev-f", CategoryID: "cat-cafe", Score: 9},
		}}
		router := newAdminTestRouter(&stubAdminCafeRepo{}, reviews)

		req := httptest.NewRequest(http.MethodGet, "/reviews", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var payload struct {
			Items []reviewGroupResponse `json:"items"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
		require.Len(t, payload.Items, 1)
		assert.Equal(t, "c1", payload.Items[0].Cafe.ID)
		assert.Len(t, payload.Items[0].Reviews, 2)
		assert.Equal(t, 9.0, payload.Items[0].ScoresByEvaluator["ev-f"]["cat-cafe"])
	})
}
