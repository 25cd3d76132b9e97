package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/LorenaGrigorcea/mern-bookstore-backend/apperrors"
	"github.com/LorenaGrigorcea/mern-bookstore-backend/storage"
	"github.com/LorenaGrigorcea/mern-bookstore-backend/utils"
)

// CartSessionHeader carries the client's cart session id. A request
// without it gets a fresh id, echoed back in the response, so a browsing
// session converges on one cart.
const CartSessionHeader = "X-Cart-Session"

// CartController handles cart reads and mutations. Stock checks are
// advisory at add time only; no cart operation touches catalog stock.
type CartController struct {
	Carts    *storage.CartStore
	Products *storage.ProductStore
	Log      *zap.Logger
}

// NewCartController creates a new CartController.
func NewCartController(carts *storage.CartStore, products *storage.ProductStore, log *zap.Logger) *CartController {
	return &CartController{Carts: carts, Products: products, Log: log}
}

// resolveCartID reads the cart session header, minting and echoing a fresh
// id when the client has none yet.
func resolveCartID(w http.ResponseWriter, r *http.Request) string {
	id := r.Header.Get(CartSessionHeader)
	if id == "" {
		id = uuid.NewString()
	}
	w.Header().Set(CartSessionHeader, id)
	return id
}

// AddToCart adds a product to the cart after checking that it exists, is
// active, and has enough stock for the requested quantity.
func (cc *CartController) AddToCart(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ProductID int `json:"productId"`
		Quantity  int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.WriteError(w, apperrors.New(apperrors.Validation, "Invalid request body"))
		return
	}
	if body.ProductID == 0 {
		utils.WriteError(w, apperrors.New(apperrors.Validation, "Product id is required"))
		return
	}
	if body.Quantity == 0 {
		body.Quantity = 1
	}
	if body.Quantity < 0 {
		utils.WriteError(w, apperrors.New(apperrors.Validation, "Quantity must be positive"))
		return
	}

	product, err := cc.Products.GetByID(body.ProductID)
	if err != nil || !product.IsActive {
		utils.WriteError(w, apperrors.New(apperrors.NotFound, "Product not found"))
		return
	}
	if product.Stock < body.Quantity {
		utils.WriteError(w, apperrors.New(apperrors.InsufficientStock, "Insufficient stock"))
		return
	}

	cartID := resolveCartID(w, r)
	cart, err := cc.Carts.AddItem(cartID, product, body.Quantity)
	if err != nil {
		cc.Log.Error("add to cart failed", zap.Error(err))
		utils.WriteError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Product added to cart",
		"cart":    cart,
	})
}

// GetCart returns the cart for the caller's session.
func (cc *CartController) GetCart(w http.ResponseWriter, r *http.Request) {
	cartID := resolveCartID(w, r)
	cart, err := cc.Carts.Get(cartID)
	if err != nil {
		cc.Log.Error("get cart failed", zap.Error(err))
		utils.WriteError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"cart":    cart,
	})
}

// RemoveFromCart removes every line matching the product id. Removing a
// product that is not in the cart succeeds as a no-op.
func (cc *CartController) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	productID, err := strconv.Atoi(mux.Vars(r)["productId"])
	if err != nil {
		utils.WriteError(w, apperrors.New(apperrors.Validation, "Invalid product id"))
		return
	}

	cartID := resolveCartID(w, r)
	cart, err := cc.Carts.RemoveItem(cartID, productID)
	if err != nil {
		cc.Log.Error("remove from cart failed", zap.Error(err))
		utils.WriteError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Product removed from cart",
		"cart":    cart,
	})
}

// ClearCart empties the caller's cart.
func (cc *CartController) ClearCart(w http.ResponseWriter, r *http.Request) {
	cartID := resolveCartID(w, r)
	if _, err := cc.Carts.Clear(cartID); err != nil {
		cc.Log.Error("clear cart failed", zap.Error(err))
		utils.WriteError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Cart cleared",
	})
}
