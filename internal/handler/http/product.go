package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/PriyankaPriyadarsini7/ecommerce-dashboard/internal/domain"
	"github.com/PriyankaPriyadarsini7/ecommerce-dashboard/internal/store"
	"github.com/PriyankaPriyadarsini7/ecommerce-dashboard/internal/view"
	"github.com/PriyankaPriyadarsini7/ecommerce-dashboard/pkg/httputil"
	"github.com/PriyankaPriyadarsini7/ecommerce-dashboard/pkg/validator"
)

// CatalogReader is the read-through path to the remote catalog for a single
// product, bypassing the in-memory list.
type CatalogReader interface {
	Get(ctx context.Context, id int64) (domain.Product, error)
}

// ProductHandler handles HTTP requests for product endpoints.
type ProductHandler struct {
	store   *store.ProductStore
	catalog CatalogReader
	logger  *slog.Logger
}

// NewProductHandler creates a new product HTTP handler.
func NewProductHandler(s *store.ProductStore, catalog CatalogReader, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		store:   s,
		catalog: catalog,
		logger:  logger,
	}
}

// --- Request DTOs ---

// CreateProductRequest is the JSON request body for creating a product.
type CreateProductRequest struct {
	Title       string   `json:"title" validate:"required,min=1,max=500"`
	Description string   `json:"description"`
	Price       float64  `json:"price" validate:"gte=0"`
	Stock       *int     `json:"stock" validate:"omitempty,gte=0"`
	Category    string   `json:"category"`
	Thumbnail   string   `json:"thumbnail" validate:"omitempty,url"`
	Images      []string `json:"images" validate:"omitempty,dive,url"`
	Rating      float64  `json:"rating" validate:"gte=0,lte=5"`
}

// UpdateProductRequest is the JSON request body for a partial product update.
type UpdateProductRequest struct {
	Title       *string  `json:"title" validate:"omitempty,min=1,max=500"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price" validate:"omitempty,gte=0"`
	Stock       *int     `json:"stock" validate:"omitempty,gte=0"`
	Category    *string  `json:"category"`
	Thumbnail   *string  `json:"thumbnail" validate:"omitempty,url"`
	Images      []string `json:"images" validate:"omitempty,dive,url"`
	Rating      *float64 `json:"rating" validate:"omitempty,gte=0,lte=5"`
}

// SearchFilterRequest carries a search term intent. The commit is debounced.
type SearchFilterRequest struct {
	Term string `json:"term" validate:"max=500"`
}

// CategoryFilterRequest carries a category filter; empty clears it.
type CategoryFilterRequest struct {
	Category string `json:"category" validate:"max=200"`
}

// --- Response DTOs ---

// ProductListResponse is the projected product view plus store state.
type ProductListResponse struct {
	Products       []domain.Product `json:"products"`
	Total          int              `json:"total"`
	Loading        bool             `json:"loading"`
	Error          string           `json:"error,omitempty"`
	SearchTerm     string           `json:"search_term"`
	CategoryFilter string           `json:"category_filter"`
}

// UpdateProductResponse reports the merged record and whether the in-memory
// list actually contained it.
type UpdateProductResponse struct {
	Product domain.Product `json:"product"`
	Applied bool           `json:"applied"`
}

// --- Handlers ---

// List handles GET /api/v1/products
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	snap := h.store.Snapshot()
	projected := view.Project(snap.Products, snap.SearchTerm, snap.CategoryFilter)
	if projected == nil {
		projected = []domain.Product{}
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: ProductListResponse{
		Products:       projected,
		Total:          len(projected),
		Loading:        snap.Loading,
		Error:          snap.Err,
		SearchTerm:     snap.SearchTerm,
		CategoryFilter: snap.CategoryFilter,
	}})
}

// Refresh handles POST /api/v1/products/refresh
func (h *ProductHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	if err := h.store.FetchAll(r.Context()); err != nil {
		// The failure is already captured in the store's error slot; surface
		// it to the dispatcher as well.
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	h.List(w, r)
}

// Get handles GET /api/v1/products/{id}
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	product, err := h.catalog.Get(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: product})
}

// Create handles POST /api/v1/products
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	created, err := h.store.Create(r.Context(), domain.Product{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		Category:    req.Category,
		Thumbnail:   req.Thumbnail,
		Images:      req.Images,
		Rating:      req.Rating,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: created})
}

// Update handles PUT /api/v1/products/{id}
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	var req UpdateProductRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	updated, outcome, err := h.store.Update(r.Context(), id, domain.ProductPatch{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		Category:    req.Category,
		Thumbnail:   req.Thumbnail,
		Images:      req.Images,
		Rating:      req.Rating,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: UpdateProductResponse{
		Product: updated,
		Applied: outcome == store.UpdateReplaced,
	}})
}

// Delete handles DELETE /api/v1/products/{id}
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	if err := h.store.Delete(r.Context(), id); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]string{"status": "deleted"}})
}

// Categories handles GET /api/v1/products/categories
func (h *ProductHandler) Categories(w http.ResponseWriter, r *http.Request) {
	snap := h.store.Snapshot()
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: view.Categories(snap.Products)})
}

// SetSearch handles PUT /api/v1/filters/search. The term is committed after
// the debounce window, so the response reflects the intent, not yet the
// committed state.
func (h *ProductHandler) SetSearch(w http.ResponseWriter, r *http.Request) {
	var req SearchFilterRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	h.store.SetSearchTerm(req.Term)

	httputil.WriteJSON(w, http.StatusAccepted, httputil.Response{Data: map[string]string{"term": req.Term}})
}

// SetCategory handles PUT /api/v1/filters/category
func (h *ProductHandler) SetCategory(w http.ResponseWriter, r *http.Request) {
	var req CategoryFilterRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	h.store.SetCategoryFilter(req.Category)

	h.List(w, r)
}
