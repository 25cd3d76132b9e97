package routes

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/LorenaGrigorcea/mern-bookstore-backend/controllers"
	"github.com/LorenaGrigorcea/mern-bookstore-backend/middleware"
	"github.com/LorenaGrigorcea/mern-bookstore-backend/utils"
)

// RegisterRoutes sets up all the routes for the application.
func RegisterRoutes(
	router *mux.Router,
	productController *controllers.ProductController,
	adminController *controllers.AdminProductController,
	cartController *controllers.CartController,
	checkoutController *controllers.CheckoutController,
	orderController *controllers.OrderController,
	userController *controllers.UserController,
) {
	router.Use(middleware.MetricsMiddleware)

	router.Handle("/metrics", promhttp.Handler()).Methods("GET")
	router.HandleFunc("/", apiInfo).Methods("GET")

	// Storefront routes
	router.HandleFunc("/api/products", productController.GetProducts).Methods("GET")

	// Cart routes
	router.HandleFunc("/api/cart", cartController.AddToCart).Methods("POST")
	router.HandleFunc("/api/cart", cartController.GetCart).Methods("GET")
	router.HandleFunc("/api/cart/{productId}", cartController.RemoveFromCart).Methods("DELETE")
	router.HandleFunc("/api/clear-cart", cartController.ClearCart).Methods("POST")

	// Checkout routes
	router.HandleFunc("/api/create-checkout-session", checkoutController.CreateCheckoutSession).Methods("POST")
	router.HandleFunc("/api/check-payment-status/{sessionId}", checkoutController.CheckPaymentStatus).Methods("GET")
	router.HandleFunc("/api/orders/confirm", orderController.ConfirmOrder).Methods("POST")

	// Admin routes
	router.HandleFunc("/api/admin/login", userController.Login).Methods("POST")

	admin := router.PathPrefix("/api/admin/products").Subrouter()
	admin.Use(middleware.AuthMiddleware)
	admin.Use(middleware.AdminMiddleware)
	admin.HandleFunc("", adminController.ListProducts).Methods("GET")
	admin.HandleFunc("", adminController.CreateProduct).Methods("POST")
	admin.HandleFunc("/{id}", adminController.GetProduct).Methods("GET")
	admin.HandleFunc("/{id}", adminController.UpdateProduct).Methods("PUT")
	admin.HandleFunc("/{id}", adminController.DeleteProduct).Methods("DELETE")
}

func apiInfo(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, map[string]any{
		"message":     "BookStore API v1",
		"description": "Simple API for a book catalog",
		"version":     "1.0.0",
		"endpoints": map[string]string{
			"GET /api/products":              "List all active products",
			"GET /api/products?category=...": "Filter by category",
		},
	})
}
