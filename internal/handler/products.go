package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/capitalize-ai/telegram-storefront/internal/middleware"
	"github.com/capitalize-ai/telegram-storefront/internal/model"
	"github.com/capitalize-ai/telegram-storefront/internal/service"
	"github.com/capitalize-ai/telegram-storefront/pkg/logger"
)

const (
	defaultPerPage = 20
	maxPerPage     = 100
)

// ProductHandler handles catalog endpoints.
type ProductHandler struct {
	catalog service.Catalog
	logger  *logger.Logger
}

// NewProductHandler creates a new product handler.
func NewProductHandler(catalog service.Catalog, log *logger.Logger) *ProductHandler {
	return &ProductHandler{
		catalog: catalog,
		logger:  log,
	}
}

// List handles GET /api/products
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	search := r.URL.Query().Get("search")
	if err := middleware.ValidateSearch(search); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	perPage := queryInt(r, "per_page", defaultPerPage)
	if perPage > maxPerPage {
		perPage = maxPerPage
	}

	products, err := h.catalog.ListProducts(r.Context(), model.ProductQuery{
		Search:   search,
		Category: r.URL.Query().Get("category"),
		Page:     queryInt(r, "page", 1),
		PerPage:  perPage,
	})
	if err != nil {
		writeServiceError(w, h.logger, err, MsgProductNotFound)
		return
	}

	writeJSON(w, http.StatusOK, products)
}

// Get handles GET /api/products/:id
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, MsgInvalidProductID)
		return
	}

	product, err := h.catalog.GetProduct(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.logger, err, MsgProductNotFound)
		return
	}

	writeJSON(w, http.StatusOK, product)
}

// Categories handles GET /api/categories
func (h *ProductHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalog.ListCategories(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, err, MsgProductNotFound)
		return
	}

	writeJSON(w, http.StatusOK, categories)
}
