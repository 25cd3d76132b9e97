package controllers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/LorenaGrigorcea/mern-bookstore-backend/apperrors"
	"github.com/LorenaGrigorcea/mern-bookstore-backend/models"
	"github.com/LorenaGrigorcea/mern-bookstore-backend/payment"
	"github.com/LorenaGrigorcea/mern-bookstore-backend/storage"
	"github.com/LorenaGrigorcea/mern-bookstore-backend/utils"
)

// OrderController links payment and inventory: once a checkout session has
// settled, it decrements stock, records the order and clears the cart,
// keyed and deduplicated by the session id.
type OrderController struct {
	Orders   *storage.OrderStore
	Carts    *storage.CartStore
	Products *storage.ProductStore
	Gateway  payment.Gateway
	Email    *utils.EmailService
	Log      *zap.Logger
}

// NewOrderController creates a new OrderController.
func NewOrderController(orders *storage.OrderStore, carts *storage.CartStore, products *storage.ProductStore, gateway payment.Gateway, email *utils.EmailService, log *zap.Logger) *OrderController {
	return &OrderController{
		Orders:   orders,
		Carts:    carts,
		Products: products,
		Gateway:  gateway,
		Email:    email,
		Log:      log,
	}
}

// ConfirmOrder finalizes a paid checkout session. A session that was
// already confirmed returns the recorded order without touching stock or
// cart.
func (oc *OrderController) ConfirmOrder(w http.ResponseWriter, r *http.Request) {
	var body struct {
		SessionID string `json:"sessionId"`
		Email     string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.WriteError(w, apperrors.New(apperrors.Validation, "Invalid request body"))
		return
	}
	if body.SessionID == "" {
		utils.WriteError(w, apperrors.New(apperrors.Validation, "Session id is required"))
		return
	}

	existing, found, err := oc.Orders.FindBySession(body.SessionID)
	if err != nil {
		oc.Log.Error("order lookup failed", zap.Error(err))
		utils.WriteError(w, err)
		return
	}
	if found {
		utils.WriteJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"message": "Order already confirmed",
			"order":   existing,
		})
		return
	}

	status, err := oc.Gateway.SessionStatus(r.Context(), body.SessionID)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	if status != "paid" {
		utils.WriteError(w, apperrors.New(apperrors.Validation, "Payment not settled"))
		return
	}

	cartID := resolveCartID(w, r)
	cart, err := oc.Carts.Get(cartID)
	if err != nil {
		oc.Log.Error("cart read failed", zap.Error(err))
		utils.WriteError(w, err)
		return
	}
	if len(cart.Items) == 0 {
		utils.WriteError(w, apperrors.New(apperrors.Validation, "Cart is empty"))
		return
	}

	if err := oc.Products.DecrementStock(cart.Items); err != nil {
		oc.Log.Error("stock decrement failed", zap.Error(err))
		utils.WriteError(w, err)
		return
	}

	order := models.Order{
		ID:          uuid.NewString(),
		SessionID:   body.SessionID,
		CartID:      cartID,
		Items:       cart.Items,
		Total:       cart.Total,
		Status:      "confirmed",
		ConfirmedAt: time.Now().UTC(),
	}
	if err := oc.Orders.Append(order); err != nil {
		oc.Log.Error("order write failed", zap.Error(err))
		utils.WriteError(w, err)
		return
	}

	if _, err := oc.Carts.Clear(cartID); err != nil {
		oc.Log.Error("cart clear after confirmation failed",
			zap.String("cartId", cartID), zap.Error(err))
	}

	if oc.Email != nil && body.Email != "" {
		if err := oc.Email.SendOrderConfirmationEmail(body.Email, order); err != nil {
			oc.Log.Warn("confirmation email failed",
				zap.String("orderId", order.ID), zap.Error(err))
		}
	}

	oc.Log.Info("order confirmed",
		zap.String("orderId", order.ID),
		zap.String("sessionId", order.SessionID))

	utils.WriteJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": "Order confirmed",
		"order":   order,
	})
}
