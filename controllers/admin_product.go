package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/LorenaGrigorcea/mern-bookstore-backend/apperrors"
	"github.com/LorenaGrigorcea/mern-bookstore-backend/middleware"
	"github.com/LorenaGrigorcea/mern-bookstore-backend/models"
	"github.com/LorenaGrigorcea/mern-bookstore-backend/storage"
	"github.com/LorenaGrigorcea/mern-bookstore-backend/utils"
)

// AdminProductController handles admin product management. All routes are
// behind the auth and admin middlewares.
type AdminProductController struct {
	Store *storage.ProductStore
	Log   *zap.Logger
}

// NewAdminProductController creates a new AdminProductController.
func NewAdminProductController(store *storage.ProductStore, log *zap.Logger) *AdminProductController {
	return &AdminProductController{Store: store, Log: log}
}

// ListProducts returns one filtered, sorted and paginated page of the full
// catalog with aggregate statistics.
func (ac *AdminProductController) ListProducts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	page, _ := strconv.Atoi(query.Get("page"))
	limit, _ := strconv.Atoi(query.Get("limit"))
	status := query.Get("status")
	if status == "" {
		status = "all"
	}
	sortBy := query.Get("sortBy")
	if sortBy == "" {
		sortBy = "createdAt"
	}
	sortOrder := query.Get("sortOrder")
	if sortOrder == "" {
		sortOrder = "desc"
	}

	listing, err := ac.Store.ListAdmin(storage.AdminQuery{
		Category:  query.Get("category"),
		Search:    query.Get("search"),
		Status:    status,
		Page:      page,
		Limit:     limit,
		SortBy:    sortBy,
		SortOrder: sortOrder,
	})
	if err != nil {
		ac.Log.Error("admin list products failed", zap.Error(err))
		utils.WriteError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"products":   listing.Products,
		"pagination": listing.Pagination,
		"statistics": listing.Statistics,
		"filters": map[string]any{
			"category":  query.Get("category"),
			"search":    query.Get("search"),
			"status":    status,
			"sortBy":    sortBy,
			"sortOrder": sortOrder,
		},
	})
}

// CreateProduct adds a new product to the catalog.
func (ac *AdminProductController) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var input models.ProductInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.WriteError(w, apperrors.New(apperrors.Validation, "Invalid request body"))
		return
	}

	creatorID := ""
	if claims, ok := middleware.CallerClaims(r); ok {
		creatorID = claims.UserID
	}

	product, err := ac.Store.Create(input, creatorID)
	if err != nil {
		if !apperrors.IsKind(err, apperrors.Validation) {
			ac.Log.Error("create product failed", zap.Error(err))
		}
		utils.WriteError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": "Product created",
		"product": product,
	})
}

// GetProduct returns a single product, active or not.
func (ac *AdminProductController) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := productID(r)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	product, err := ac.Store.GetByID(id)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"product": product,
	})
}

// UpdateProduct shallow-merges the request body into an existing product.
func (ac *AdminProductController) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := productID(r)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	var fields map[string]any
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		utils.WriteError(w, apperrors.New(apperrors.Validation, "Invalid request body"))
		return
	}

	product, err := ac.Store.Update(id, fields)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Product updated",
		"product": product,
	})
}

// DeleteProduct soft-deletes a product, or removes it permanently when the
// permanent query flag is set.
func (ac *AdminProductController) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := productID(r)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	permanent := r.URL.Query().Get("permanent") == "true"
	if err := ac.Store.Deactivate(id, permanent); err != nil {
		utils.WriteError(w, err)
		return
	}

	message := "Product deactivated"
	if permanent {
		message = "Product permanently deleted"
	}
	utils.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": message,
	})
}

func productID(r *http.Request) (int, error) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		return 0, apperrors.New(apperrors.Validation, "Invalid product id")
	}
	return id, nil
}
