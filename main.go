// main.go
package main

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/LorenaGrigorcea/mern-bookstore-backend/controllers"
	"github.com/LorenaGrigorcea/mern-bookstore-backend/payment"
	"github.com/LorenaGrigorcea/mern-bookstore-backend/routes"
	"github.com/LorenaGrigorcea/mern-bookstore-backend/storage"
	"github.com/LorenaGrigorcea/mern-bookstore-backend/utils"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		logger.Info("no .env file found, proceeding with environment variables")
	}

	// Set the JWT secret key
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		utils.JwtKey = []byte(secret)
	} else {
		logger.Warn("JWT_SECRET not set, using insecure fallback secret")
	}

	dataDir := os.Getenv("DATA_DIR")
	if dataDir == "" {
		dataDir = "data"
	}

	// Initialize stores
	productStore := storage.NewProductStore(filepath.Join(dataDir, "books.json"), logger)
	cartStore := storage.NewCartStore(filepath.Join(dataDir, "cart.json"))
	userStore := storage.NewUserStore(filepath.Join(dataDir, "users.json"))
	orderStore := storage.NewOrderStore(filepath.Join(dataDir, "orders.json"))

	// Initialize the payment gateway and email service
	gateway := payment.NewStripeGateway(os.Getenv("STRIPE_SECRET_KEY"), logger)
	emailService := utils.NewEmailService()
	if emailService == nil {
		logger.Info("POSTMARK_API_TOKEN not set, email sending disabled")
	}

	// Initialize controllers
	productController := controllers.NewProductController(productStore, logger)
	adminController := controllers.NewAdminProductController(productStore, logger)
	cartController := controllers.NewCartController(cartStore, productStore, logger)
	checkoutController := controllers.NewCheckoutController(gateway, os.Getenv("FRONTEND_URL"), logger)
	orderController := controllers.NewOrderController(orderStore, cartStore, productStore, gateway, emailService, logger)
	userController := controllers.NewUserController(userStore, logger)

	// Set up the router
	router := mux.NewRouter()
	routes.RegisterRoutes(router, productController, adminController, cartController, checkoutController, orderController, userController)

	// Start the server
	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}
	logger.Info("server listening", zap.String("port", port))
	if err := http.ListenAndServe(":"+port, router); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
