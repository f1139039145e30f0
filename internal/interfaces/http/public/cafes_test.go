package public

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	publicapp "github.com/jlvrmt/cafe-guide-services/api/internal/public/application"
	"github.com/jlvrmt/cafe-guide-services/api/internal/public/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubQueryService struct {
	lastFilter publicapp.ListFilter
	result     *publicapp.CafeListResult
	err        error
}

func (s *stubQueryService) List(_ context.Context, filter publicapp.ListFilter) (*publicapp.CafeListResult, error) {
	s.lastFilter = filter
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func newCafeTestRouter(queries publicapp.CafeQueryService) http.Handler {
	handler := NewHandler(Config{
		Logger:      log.New(io.Discard, "", 0),
		CafeQueries: queries,
		JWTSecret:   []byte("test-secret"),
	})
	router := chi.NewRouter()
	passthrough := func(next http.Handler) http.Handler { return next }
	handler.Register(router, passthrough)
	return router
}

func TestCafeListHandler(t *testing.T) {
	t.Run("passes the query filters to the service", func(t *testing.T) {
		queries := &stubQueryService{result: &publicapp.CafeListResult{}}
		router := newCafeTestRouter(queries)

		req := httptest.NewRequest(http.MethodGet, "/cafes?band=excelente&city=Madrid&categoryId=wifi&sort=asc", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, domain.BandExcellent, queries.lastFilter.Band)
		assert.Equal(t, "Madrid", queries.lastFilter.City)
		assert.Equal(t, "wifi", queries.lastFilter.CategoryID)
		assert.Equal(t, publicapp.SortAscending, queries.lastFilter.Sort)
	})

	t.Run("defaults to descending sort", func(t *testing.T) {
		queries := &stubQueryService{result: &publicapp.CafeListResult{}}
		router := newCafeTestRouter(queries)

		req := httptest.NewRequest(http.MethodGet, "/cafes", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, publicapp.SortDescending, queries.lastFilter.Sort)
	})

	t.Run("rejects an unknown band", func(t *testing.T) {
		queries := &stubQueryService{result: &publicapp.CafeListResult{}}
		router := newCafeTestRouter(queries)

		req := httptest.NewRequest(http.MethodGet, "/cafes?band=mediocre", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("renders items with the optional category score", func(t *testing.T) {
		score := 7.5
		queries := &stubQueryService{result: &publicapp.CafeListResult{
			Items: []publicapp.CafeListItem{
				{Cafe: domain.Cafe{ID: "c1", Name: "Toma Café", City: "Madrid", Score: 8.9}, CategoryScore: &score},
				{Cafe: domain.Cafe{ID: "c2", Name: "Hola Coffee", City: "Madrid", Score: 8.4}},
			},
			Categories: []domain.Category{{ID: "wifi", Name: "Wifi", Weight: 1}},
			Cities:     []string{"Madrid"},
		}}
		router := newCafeTestRouter(queries)

		req := httptest.NewRequest(http.MethodGet, "/cafes?categoryId=wifi", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var payload cafeListResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
		require.Len(t, payload.Items, 2)
		require.NotNil(t, payload.Items[0].CategoryScore)
		assert.Equal(t, 7.5, *payload.Items[0].CategoryScore)
		assert.Nil(t, payload.Items[1].CategoryScore)
		assert.Equal(t, []string{"Madrid"}, payload.Cities)
	})

	t.Run("the city list endpoint returns only the dropdown options", func(t *testing.T) {
		queries := &stubQueryService{result: &publicapp.CafeListResult{Cities: []string{"Madrid", "Lisboa"}}}
		router := newCafeTestRouter(queries)

		req := httptest.NewRequest(http.MethodGet, "/cafes/cities", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var payload map[string][]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
		assert.Equal(t, []string{"Madrid", "Lisboa"}, payload["cities"])
	})

	t.Run("maps a failed load to 500", func(t *testing.T) {
		queries := &stubQueryService{err: errors.New("mongo down")}
		router := newCafeTestRouter(queries)

		req := httptest.NewRequest(http.MethodGet, "/cafes", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}
