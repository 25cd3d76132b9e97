package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/LorenaGrigorcea/mern-bookstore-backend/apperrors"
	"github.com/LorenaGrigorcea/mern-bookstore-backend/models"
	"github.com/LorenaGrigorcea/mern-bookstore-backend/payment"
	"github.com/LorenaGrigorcea/mern-bookstore-backend/utils"
)

// CheckoutController delegates to the payment gateway. It holds no local
// state; cart clearing and stock decrement happen at order confirmation.
type CheckoutController struct {
	Gateway     payment.Gateway
	FrontendURL string
	Log         *zap.Logger
}

// NewCheckoutController creates a new CheckoutController.
func NewCheckoutController(gateway payment.Gateway, frontendURL string, log *zap.Logger) *CheckoutController {
	return &CheckoutController{Gateway: gateway, FrontendURL: frontendURL, Log: log}
}

// CreateCheckoutSession opens a hosted checkout session for the given cart
// items. Redirects anchor on the request Origin, falling back to the
// configured frontend URL.
func (cc *CheckoutController) CreateCheckoutSession(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Amount    float64           `json:"amount"`
		CartItems []models.CartItem `json:"cartItems"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.WriteError(w, apperrors.New(apperrors.Validation, "Invalid request body"))
		return
	}
	if body.Amount < 1 {
		utils.WriteError(w, apperrors.New(apperrors.Validation, "Invalid amount"))
		return
	}

	origin := r.Header.Get("Origin")
	if origin == "" {
		origin = cc.FrontendURL
	}

	session, err := cc.Gateway.CreateSession(r.Context(), origin, body.CartItems)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"sessionId":  session.ID,
		"sessionUrl": session.URL,
	})
}

// CheckPaymentStatus reports the settlement status of a checkout session.
func (cc *CheckoutController) CheckPaymentStatus(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]

	status, err := cc.Gateway.SessionStatus(r.Context(), sessionID)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]any{
		"success":       true,
		"paymentStatus": status,
	})
}
