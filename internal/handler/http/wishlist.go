package http

import (
	"log/slog"
	"net/http"

	"github.com/PriyankaPriyadarsini7/ecommerce-dashboard/internal/domain"
	"github.com/PriyankaPriyadarsini7/ecommerce-dashboard/internal/wishlist"
	"github.com/PriyankaPriyadarsini7/ecommerce-dashboard/pkg/httputil"
	"github.com/PriyankaPriyadarsini7/ecommerce-dashboard/pkg/validator"
)

// WishlistHandler handles HTTP requests for wishlist endpoints.
type WishlistHandler struct {
	store  *wishlist.Store
	logger *slog.Logger
}

// NewWishlistHandler creates a new wishlist HTTP handler.
func NewWishlistHandler(s *wishlist.Store, logger *slog.Logger) *WishlistHandler {
	return &WishlistHandler{
		store:  s,
		logger: logger,
	}
}

// ToggleRequest is the full product snapshot being favorited or unfavorited.
type ToggleRequest struct {
	domain.Product
}

// WishlistResponse is the wishlist content after an operation.
type WishlistResponse struct {
	Products []domain.Product `json:"products"`
	Total    int              `json:"total"`
}

// List handles GET /api/v1/wishlist
func (h *WishlistHandler) List(w http.ResponseWriter, r *http.Request) {
	list := h.store.List()
	if list == nil {
		list = []domain.Product{}
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: WishlistResponse{
		Products: list,
		Total:    len(list),
	}})
}

// Toggle handles POST /api/v1/wishlist/toggle
func (h *WishlistHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	var req ToggleRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	if !req.HasID() {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "product id is required"},
		})
		return
	}

	list := h.store.Toggle(r.Context(), req.Product)

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: WishlistResponse{
		Products: list,
		Total:    len(list),
	}})
}

// Clear handles DELETE /api/v1/wishlist
func (h *WishlistHandler) Clear(w http.ResponseWriter, r *http.Request) {
	h.store.Clear(r.Context())

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]string{"status": "cleared"}})
}
