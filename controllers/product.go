package controllers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/LorenaGrigorcea/mern-bookstore-backend/storage"
	"github.com/LorenaGrigorcea/mern-bookstore-backend/utils"
)

// ProductController handles the public storefront catalog.
type ProductController struct {
	Store *storage.ProductStore
	Log   *zap.Logger
}

// NewProductController creates a new ProductController.
func NewProductController(store *storage.ProductStore, log *zap.Logger) *ProductController {
	return &ProductController{Store: store, Log: log}
}

// GetProducts lists active products with optional category, search and
// sort query parameters.
func (pc *ProductController) GetProducts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := storage.CatalogFilter{
		Category: query.Get("category"),
		Search:   query.Get("search"),
		Sort:     query.Get("sort"),
	}

	products, err := pc.Store.ListActive(filter)
	if err != nil {
		pc.Log.Error("list products failed", zap.Error(err))
		utils.WriteError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"products": products,
		"total":    len(products),
		"filters": map[string]any{
			"category": orNil(filter.Category),
			"search":   orNil(filter.Search),
			"sort":     orNil(filter.Sort),
		},
	})
}

// orNil echoes a query parameter back as null when it was absent.
func orNil(s string) any {
	if s == "" {
		return nil
	}
	return s
}
