package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/backbonehq/catalog-service/internal/domain"
	"github.com/backbonehq/catalog-service/internal/service"
	apperrors "github.com/backbonehq/catalog-service/pkg/errors"
	"github.com/backbonehq/catalog-service/pkg/health"
	"github.com/backbonehq/catalog-service/pkg/middleware"
)

// stubRepo is a canned-response repository; lastPage/lastSize capture the
// paging the handler passed down.
type stubRepo struct {
	products   map[int]domain.Product
	categories []string
	pages      []domain.Product
	failing    bool

	lastPage int
	lastSize int
}

var errStoreDown = errors.New("store down")

func (s *stubRepo) GetByID(_ context.Context, id int) (*domain.Product, error) {
	if s.failing {
		return nil, errStoreDown
	}
	p, ok := s.products[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &p, nil
}

func (s *stubRepo) List(_ context.Context, page, size int) ([]domain.Product, error) {
	if s.failing {
		return nil, errStoreDown
	}
	s.lastPage, s.lastSize = page, size
	return s.pages, nil
}

func (s *stubRepo) ListByCategory(_ context.Context, _ string, page, size int) ([]domain.Product, error) {
	if s.failing {
		return nil, errStoreDown
	}
	s.lastPage, s.lastSize = page, size
	return s.pages, nil
}

func (s *stubRepo) DistinctCategories(context.Context) ([]string, error) {
	if s.failing {
		return nil, errStoreDown
	}
	return s.categories, nil
}

func (s *stubRepo) Upsert(_ context.Context, p *domain.Product) error {
	if s.failing {
		return errStoreDown
	}
	if p.ID == 0 {
		p.ID = 42
	}
	return nil
}

func (s *stubRepo) Delete(context.Context, int) error {
	if s.failing {
		return errStoreDown
	}
	return nil
}

type stubReviews struct {
	reviews []domain.Review
	err     error
}

func (s *stubReviews) FetchReviews(context.Context, int) ([]domain.Review, error) {
	return s.reviews, s.err
}

func newTestRouter(repo *stubRepo, reviews *stubReviews) http.Handler {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := service.NewCatalogService(repo, reviews, nil, log)
	cfg := RouterConfig{CORS: middleware.DefaultCORSConfig()}
	return NewRouter(svc, health.NewHandler(), cfg, log)
}

func doRequest(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestGetProduct_OK(t *testing.T) {
	repo := &stubRepo{products: map[int]domain.Product{
		1: {ID: 1, Title: "Mechanical Keyboard", Category: "electronics"},
	}}
	reviews := &stubReviews{reviews: []domain.Review{{ID: 7, ProductID: 1, UserName: "alice"}}}
	router := newTestRouter(repo, reviews)

	rec := doRequest(t, router, http.MethodGet, "/product/1", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var got domain.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, 1, got.ID)
	require.Len(t, got.Reviews, 1)
	assert.Equal(t, "alice", got.Reviews[0].UserName)
}

func TestGetProduct_BadID(t *testing.T) {
	router := newTestRouter(&stubRepo{}, &stubReviews{})

	rec := doRequest(t, router, http.MethodGet, "/product/abc", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestGetProduct_NotFound(t *testing.T) {
	router := newTestRouter(&stubRepo{products: map[int]domain.Product{}}, &stubReviews{})

	rec := doRequest(t, router, http.MethodGet, "/product/99", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestGetProduct_StoreFailureIs417(t *testing.T) {
	router := newTestRouter(&stubRepo{failing: true}, &stubReviews{})

	rec := doRequest(t, router, http.MethodGet, "/product/1", "")

	assert.Equal(t, http.StatusExpectationFailed, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestGetProduct_ReviewFailureStill200(t *testing.T) {
	repo := &stubRepo{products: map[int]domain.Product{1: {ID: 1, Title: "Desk Lamp"}}}
	router := newTestRouter(repo, &stubReviews{err: errors.New("review service down")})

	rec := doRequest(t, router, http.MethodGet, "/product/1", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "reviews")
}

func TestListProducts_DefaultsApplied(t *testing.T) {
	repo := &stubRepo{pages: []domain.Product{{ID: 1, Title: "A"}}}
	router := newTestRouter(repo, &stubReviews{})

	rec := doRequest(t, router, http.MethodGet, "/products", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, repo.lastPage)
	assert.Equal(t, 10, repo.lastSize)
}

func TestListProducts_PagePathParams(t *testing.T) {
	repo := &stubRepo{pages: []domain.Product{{ID: 1, Title: "A"}}}
	router := newTestRouter(repo, &stubReviews{})

	rec := doRequest(t, router, http.MethodGet, "/products/page/2/size/5", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, repo.lastPage)
	assert.Equal(t, 5, repo.lastSize)
}

func TestListProducts_NonNumericPageIs400(t *testing.T) {
	router := newTestRouter(&stubRepo{}, &stubReviews{})

	rec := doRequest(t, router, http.MethodGet, "/products/page/x/size/10", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestListProducts_EmptyPageIs204(t *testing.T) {
	router := newTestRouter(&stubRepo{pages: []domain.Product{}}, &stubReviews{})

	rec := doRequest(t, router, http.MethodGet, "/products/page/20/size/10", "")

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestListCategories_OK(t *testing.T) {
	router := newTestRouter(&stubRepo{categories: []string{"electronics", "books"}}, &stubReviews{})

	rec := doRequest(t, router, http.MethodGet, "/products/category", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var got []string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, []string{"electronics", "books"}, got)
}

func TestListCategories_EmptyIs404(t *testing.T) {
	router := newTestRouter(&stubRepo{}, &stubReviews{})

	rec := doRequest(t, router, http.MethodGet, "/products/category", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestListByCategory_OK(t *testing.T) {
	repo := &stubRepo{pages: []domain.Product{{ID: 1, Category: "books", Title: "Novel"}}}
	router := newTestRouter(repo, &stubReviews{})

	rec := doRequest(t, router, http.MethodGet, "/products/category/books/page/1/size/3", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, repo.lastPage)
	assert.Equal(t, 3, repo.lastSize)
}

func TestSaveProduct_AssignsID(t *testing.T) {
	router := newTestRouter(&stubRepo{}, &stubReviews{})

	rec := doRequest(t, router, http.MethodPost, "/product",
		`{"category":"home","title":"Desk Lamp","rating":4}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var got domain.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, 42, got.ID)
	assert.Equal(t, "Desk Lamp", got.Title)
}

func TestSaveProduct_MalformedJSONIs400(t *testing.T) {
	router := newTestRouter(&stubRepo{}, &stubReviews{})

	rec := doRequest(t, router, http.MethodPost, "/product", `{not json`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestSaveProduct_MissingTitleIs400(t *testing.T) {
	router := newTestRouter(&stubRepo{}, &stubReviews{})

	rec := doRequest(t, router, http.MethodPost, "/product", `{"category":"home"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestSaveProduct_RatingOutOfRangeIs400(t *testing.T) {
	router := newTestRouter(&stubRepo{}, &stubReviews{})

	rec := doRequest(t, router, http.MethodPost, "/product", `{"title":"Desk Lamp","rating":9}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSaveProduct_StoreFailureIs417(t *testing.T) {
	router := newTestRouter(&stubRepo{failing: true}, &stubReviews{})

	rec := doRequest(t, router, http.MethodPost, "/product", `{"title":"Desk Lamp"}`)

	assert.Equal(t, http.StatusExpectationFailed, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestDeleteProduct_OK(t *testing.T) {
	router := newTestRouter(&stubRepo{}, &stubReviews{})

	rec := doRequest(t, router, http.MethodDelete, "/product/5", "")

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestDeleteProduct_BadIDIs400(t *testing.T) {
	router := newTestRouter(&stubRepo{}, &stubReviews{})

	rec := doRequest(t, router, http.MethodDelete, "/product/abc", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestHealthLive(t *testing.T) {
	router := newTestRouter(&stubRepo{}, &stubReviews{})

	rec := doRequest(t, router, http.MethodGet, "/health/live", "")

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	router := newTestRouter(&stubRepo{}, &stubReviews{})

	rec := doRequest(t, router, http.MethodGet, "/metrics", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
