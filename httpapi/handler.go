// Package httpapi exposes the catalog engine over HTTP for the
// storefront UI: the pass-through product endpoints plus a query
// endpoint that runs the filter/sort/pagination engine server-side.
package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/abdulhalimzhr/tokotok/catalog"
	"github.com/abdulhalimzhr/tokotok/config"
	"github.com/abdulhalimzhr/tokotok/models"
	"github.com/abdulhalimzhr/tokotok/query"
	"github.com/go-chi/chi/v5"
)

// Handler wires the catalog store and query engine to HTTP routes.
type Handler struct {
	store *catalog.Store
	cfg   *config.Config
}

// NewHandler builds a handler over the given store.
func NewHandler(store *catalog.Store, cfg *config.Config) *Handler {
	return &Handler{store: store, cfg: cfg}
}

// RegisterRoutes mounts all catalog routes on r.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/products", h.listProducts)
		r.Get("/products/categories", h.listCategories)
		r.Get("/products/{id}", h.getProduct)
		r.Get("/catalog", h.queryCatalog)
	})
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	if err := h.store.LoadAll(r.Context()); err != nil {
		h.respondFetchError(w, err)
		return
	}
	respond(w, http.StatusOK, h.store.Products())
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, "product id must be a positive integer")
		return
	}

	product, err := h.store.LoadByID(r.Context(), id)
	if err != nil {
		if catalog.IsNotFound(err) {
			respondError(w, http.StatusNotFound, "product not found")
			return
		}
		h.respondFetchError(w, err)
		return
	}
	respond(w, http.StatusOK, product)
}

func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request) {
	// Category fetch failures degrade to cached or derived data.
	respond(w, http.StatusOK, h.store.LoadCategories(r.Context()))
}

func (h *Handler) queryCatalog(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	m := query.NewManager(h.store, h.cfg.DefaultPageSize)

	if category := params.Get("category"); category != h.store.Scope() {
		patch := query.FilterPatch{Category: &category}
		if err := m.SetFilters(r.Context(), patch); err != nil {
			h.respondFetchError(w, err)
			return
		}
	} else if !h.store.HasProducts() {
		if err := h.store.LoadAll(r.Context()); err != nil {
			h.respondFetchError(w, err)
			return
		}
	}

	if q := params.Get("q"); q != "" {
		m.SetSearchText(q)
	}

	var patch query.FilterPatch
	priceRange := models.DefaultSearchState().Filters.PriceRange
	havePrice := false
	if raw := params.Get("min"); raw != "" {
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			respondError(w, http.StatusBadRequest, "min must be a number")
			return
		}
		priceRange.Min = value
		havePrice = true
	}
	if raw := params.Get("max"); raw != "" {
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			respondError(w, http.StatusBadRequest, "max must be a number")
			return
		}
		priceRange.Max = value
		havePrice = true
	}
	if havePrice {
		patch.PriceRange = &priceRange
	}
	if raw := params.Get("rating"); raw != "" {
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil || value < 0 || value > 5 {
			respondError(w, http.StatusBadRequest, "rating must be between 0 and 5")
			return
		}
		patch.Rating = &value
	}
	if patch.PriceRange != nil || patch.Rating != nil {
		// Local-only patch: no category field, so no fetch is triggered.
		if err := m.SetFilters(r.Context(), patch); err != nil {
			h.respondFetchError(w, err)
			return
		}
	}

	if sortBy := params.Get("sort"); sortBy != "" {
		order := models.SortOrder(params.Get("order"))
		if order == "" {
			order = models.OrderAsc
		}
		if err := m.SetSort(models.SortKey(sortBy), order); err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	if raw := params.Get("per"); raw != "" {
		per, err := strconv.Atoi(raw)
		if err != nil || per <= 0 || per > h.cfg.MaxPageSize {
			respondError(w, http.StatusBadRequest, "per must be a positive integer within limits")
			return
		}
		m.SetItemsPerPage(per)
	}
	if raw := params.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			respondError(w, http.StatusBadRequest, "page must be a positive integer")
			return
		}
		m.SetPage(page)
	}

	respond(w, http.StatusOK, m.View())
}

func (h *Handler) respondFetchError(w http.ResponseWriter, err error) {
	slog.Error("catalog fetch failed", slog.Any("error", err))
	message := h.store.Err()
	if message == "" {
		message = "catalog temporarily unavailable"
	}
	respondError(w, http.StatusBadGateway, message)
}

func respond(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Debug("response encode failed", slog.Any("error", err))
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respond(w, status, map[string]string{"error": message})
}
