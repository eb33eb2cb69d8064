package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/backbonehq/catalog-service/internal/domain"
	"github.com/backbonehq/catalog-service/internal/service"
	apperrors "github.com/backbonehq/catalog-service/pkg/errors"
	"github.com/backbonehq/catalog-service/pkg/httputil"
	"github.com/backbonehq/catalog-service/pkg/validator"
)

// ProductHandler handles HTTP requests for the catalog endpoints.
type ProductHandler struct {
	service *service.CatalogService
	logger  *slog.Logger
}

// NewProductHandler creates a catalog HTTP handler.
func NewProductHandler(svc *service.CatalogService, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		service: svc,
		logger:  logger,
	}
}

// SaveProductRequest is the JSON request body for saving a product. The id
// is advisory: zero or absent means create, a present id means overwrite.
type SaveProductRequest struct {
	ID               int    `json:"id" validate:"gte=0"`
	Category         string `json:"category" validate:"max=200"`
	Title            string `json:"title" validate:"required,min=1,max=500"`
	SubTitle         string `json:"subTitle" validate:"max=500"`
	Brand            string `json:"brand" validate:"max=200"`
	Rating           int    `json:"rating" validate:"gte=0,lte=5"`
	ShortDescription string `json:"shortDescription"`
	Description      string `json:"description"`
}

// GetProduct handles GET /product/{id}.
// 200 with the product (reviews attached when available), 400 on a
// non-numeric id, 404 when absent, 417 on unexpected failure.
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, apperrors.InvalidInput("product id must be an integer"), h.logger)
		return
	}

	product, err := h.service.GetProduct(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, product)
}

// ListProducts handles GET /products and its /page/{page}/size/{size}
// variants. Omitted path params fall back to page=0, size=10.
// 200 with the page, 400 on non-numeric paging, 204 past the data, 417 on
// unexpected failure.
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	page, size, err := pagingParams(r)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	products, err := h.service.ListProducts(r.Context(), page, size)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, products)
}

// ListCategories handles GET /products/category.
// 200 with the distinct categories, 404 when the catalog is empty, 417 on
// unexpected failure.
func (h *ProductHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.ListCategories(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, categories)
}

// ListByCategory handles GET /products/category/{category} and its paged
// variants. 200 with the page, 204 when the category page is empty, 417 on
// unexpected failure.
func (h *ProductHandler) ListByCategory(w http.ResponseWriter, r *http.Request) {
	page, size, err := pagingParams(r)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	products, err := h.service.ListByCategory(r.Context(), chi.URLParam(r, "category"), page, size)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, products)
}

// SaveProduct handles POST /product.
// 200 with the persisted product (including its assigned id), 400 on a
// malformed or invalid payload, 417 on unexpected failure.
func (h *ProductHandler) SaveProduct(w http.ResponseWriter, r *http.Request) {
	var req SaveProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, r, apperrors.InvalidInput("request body must be valid JSON"), h.logger)
		return
	}
	if err := validator.Validate(req); err != nil {
		httputil.WriteError(w, r, apperrors.InvalidInput(err.Error()), h.logger)
		return
	}

	product, err := h.service.SaveProduct(r.Context(), domain.Product{
		ID:               req.ID,
		Category:         req.Category,
		Title:            req.Title,
		SubTitle:         req.SubTitle,
		Brand:            req.Brand,
		Rating:           req.Rating,
		ShortDescription: req.ShortDescription,
		Description:      req.Description,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, product)
}

// DeleteProduct handles DELETE /product/{id}.
// 200 on success (deleting an absent id succeeds), 400 on a non-numeric id,
// 417 on unexpected failure.
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, apperrors.InvalidInput("product id must be an integer"), h.logger)
		return
	}

	if err := h.service.DeleteProduct(r.Context(), id); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// pagingParams reads the optional page and size path params, applying the
// defaults when they are absent. Non-numeric values are caller errors.
func pagingParams(r *http.Request) (page, size int, err error) {
	page, size = service.DefaultPage, service.DefaultSize

	if v := chi.URLParam(r, "page"); v != "" {
		page, err = strconv.Atoi(v)
		if err != nil {
			return 0, 0, apperrors.InvalidInput("page must be an integer")
		}
	}
	if v := chi.URLParam(r, "size"); v != "" {
		size, err = strconv.Atoi(v)
		if err != nil {
			return 0, 0, apperrors.InvalidInput("size must be an integer")
		}
	}

	return page, size, nil
}
