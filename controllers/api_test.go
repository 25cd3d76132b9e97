package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/LorenaGrigorcea/mern-bookstore-backend/apperrors"
	"github.com/LorenaGrigorcea/mern-bookstore-backend/controllers"
	"github.com/LorenaGrigorcea/mern-bookstore-backend/models"
	"github.com/LorenaGrigorcea/mern-bookstore-backend/payment"
	"github.com/LorenaGrigorcea/mern-bookstore-backend/routes"
	"github.com/LorenaGrigorcea/mern-bookstore-backend/storage"
	"github.com/LorenaGrigorcea/mern-bookstore-backend/utils"
)

const (
	adminEmail    = "admin@bookstore.ro"
	adminPassword = "parola123"
)

// fakeGateway stands in for Stripe: session creation always succeeds and
// status lookups answer from a fixed map.
type fakeGateway struct {
	status map[string]string
}

func (f *fakeGateway) CreateSession(_ context.Context, _ string, _ []models.CartItem) (payment.Session, error) {
	return payment.Session{ID: "cs_test_123", URL: "https://checkout.stripe.test/cs_test_123"}, nil
}

func (f *fakeGateway) SessionStatus(_ context.Context, sessionID string) (string, error) {
	status, ok := f.status[sessionID]
	if !ok {
		return "", apperrors.New(apperrors.Payment, "Failed to verify payment status")
	}
	return status, nil
}

type testEnv struct {
	router   *mux.Router
	products *storage.ProductStore
	carts    *storage.CartStore
	gateway  *fakeGateway
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()
	logger := zap.NewNop()

	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.MinCost)
	require.NoError(t, err)
	usersDoc := fmt.Sprintf(
		`{"users":[{"id":"u1","email":%q,"password":%q,"role":"admin","name":"Admin"}]}`,
		adminEmail, hash)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "users.json"), []byte(usersDoc), 0o644))

	products := storage.NewProductStore(filepath.Join(dir, "books.json"), logger)
	carts := storage.NewCartStore(filepath.Join(dir, "cart.json"))
	users := storage.NewUserStore(filepath.Join(dir, "users.json"))
	orders := storage.NewOrderStore(filepath.Join(dir, "orders.json"))
	gateway := &fakeGateway{status: map[string]string{}}

	router := mux.NewRouter()
	routes.RegisterRoutes(router,
		controllers.NewProductController(products, logger),
		controllers.NewAdminProductController(products, logger),
		controllers.NewCartController(carts, products, logger),
		controllers.NewCheckoutController(gateway, "https://shop.test", logger),
		controllers.NewOrderController(orders, carts, products, gateway, nil, logger),
		controllers.NewUserController(users, logger),
	)

	return &testEnv{router: router, products: products, carts: carts, gateway: gateway}
}

func (env *testEnv) do(t *testing.T, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

func adminToken(t *testing.T) string {
	t.Helper()
	token, err := utils.GenerateJWT(models.User{ID: "u1", Email: adminEmail, Role: "admin", Name: "Admin"})
	require.NoError(t, err)
	return token
}

func authHeader(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

func seedProduct(t *testing.T, env *testEnv, title string, price float64, stock int) models.Product {
	t.Helper()
	product, err := env.products.Create(models.ProductInput{
		Title:  title,
		Author: "Autor",
		Price:  &price,
		Stock:  &stock,
	}, "u1")
	require.NoError(t, err)
	return product
}

func TestAdminAuthGate(t *testing.T) {
	env := newTestEnv(t)

	t.Run("missing token", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/admin/products", nil, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("invalid token", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/admin/products", nil, authHeader("bogus"))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("non-admin role", func(t *testing.T) {
		token, err := utils.GenerateJWT(models.User{ID: "u2", Email: "user@bookstore.ro", Role: "user"})
		require.NoError(t, err)
		rec := env.do(t, http.MethodGet, "/api/admin/products", nil, authHeader(token))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("admin role", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/admin/products", nil, authHeader(adminToken(t)))
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestAdminLogin(t *testing.T) {
	env := newTestEnv(t)

	t.Run("success", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/admin/login",
			map[string]string{"email": adminEmail, "password": adminPassword}, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Success bool              `json:"success"`
			Token   string            `json:"token"`
			User    models.PublicUser `json:"user"`
		}
		decode(t, rec, &resp)
		assert.True(t, resp.Success)
		assert.NotEmpty(t, resp.Token)
		assert.Equal(t, adminEmail, resp.User.Email)
		assert.NotContains(t, rec.Body.String(), "password")

		claims, err := utils.ParseToken(resp.Token)
		require.NoError(t, err)
		assert.Equal(t, "admin", claims.Role)
	})

	t.Run("wrong password", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/admin/login",
			map[string]string{"email": adminEmail, "password": "gresit"}, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("unknown email gets the generic answer", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/admin/login",
			map[string]string{"email": "nimeni@bookstore.ro", "password": "x"}, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "Restricted access")
	})
}

func TestPublicListingIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	seedProduct(t, env, "Ion", 30, 10)
	seedProduct(t, env, "Baltagul", 25, 5)

	first := env.do(t, http.MethodGet, "/api/products?sort=price_asc", nil, nil)
	second := env.do(t, http.MethodGet, "/api/products?sort=price_asc", nil, nil)

	require.Equal(t, http.StatusOK, first.Code)
	assert.JSONEq(t, first.Body.String(), second.Body.String())
}

func TestStockGate(t *testing.T) {
	env := newTestEnv(t)
	product := seedProduct(t, env, "Rar", 10, 2)
	headers := map[string]string{controllers.CartSessionHeader: "s1"}

	rec := env.do(t, http.MethodPost, "/api/cart",
		map[string]any{"productId": product.ID, "quantity": 3}, headers)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Insufficient stock")

	// Cart must be untouched by the rejected add.
	cart, err := env.carts.Get("s1")
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestCartSessionIsMintedWhenHeaderAbsent(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/cart", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(controllers.CartSessionHeader))
}

func TestAddToCartValidation(t *testing.T) {
	env := newTestEnv(t)

	t.Run("missing product id", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/cart", map[string]any{"quantity": 1}, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown product", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/cart", map[string]any{"productId": 404}, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("inactive product", func(t *testing.T) {
		product := seedProduct(t, env, "Ascuns", 10, 5)
		require.NoError(t, env.products.Deactivate(product.ID, false))
		rec := env.do(t, http.MethodPost, "/api/cart", map[string]any{"productId": product.ID}, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestEndToEndScenario(t *testing.T) {
	env := newTestEnv(t)
	token := adminToken(t)
	cartHeaders := map[string]string{controllers.CartSessionHeader: "e2e"}

	// Admin creates a product.
	rec := env.do(t, http.MethodPost, "/api/admin/products",
		map[string]any{"title": "X", "author": "Y", "price": 10, "stock": 5},
		authHeader(token))
	require.Equal(t, http.StatusCreated, rec.Code)

	var created struct {
		Product models.Product `json:"product"`
	}
	decode(t, rec, &created)
	id := created.Product.ID
	require.NotZero(t, id)

	// It shows up in the public listing.
	rec = env.do(t, http.MethodGet, "/api/products", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var listing struct {
		Products []models.Product `json:"products"`
		Total    int              `json:"total"`
	}
	decode(t, rec, &listing)
	require.Equal(t, 1, listing.Total)
	assert.Equal(t, "X", listing.Products[0].Title)

	// Add two to the cart.
	rec = env.do(t, http.MethodPost, "/api/cart",
		map[string]any{"productId": id, "quantity": 2}, cartHeaders)
	require.Equal(t, http.StatusOK, rec.Code)
	var withItem struct {
		Cart models.Cart `json:"cart"`
	}
	decode(t, rec, &withItem)
	assert.Equal(t, 20.0, withItem.Cart.Total)
	assert.Equal(t, 2, withItem.Cart.TotalItems)

	// Remove it again.
	rec = env.do(t, http.MethodDelete, fmt.Sprintf("/api/cart/%d", id), nil, cartHeaders)
	require.Equal(t, http.StatusOK, rec.Code)
	var emptied struct {
		Cart models.Cart `json:"cart"`
	}
	decode(t, rec, &emptied)
	assert.Empty(t, emptied.Cart.Items)
	assert.Zero(t, emptied.Cart.Total)
}

func TestCreateCheckoutSession(t *testing.T) {
	env := newTestEnv(t)

	t.Run("invalid amount", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/create-checkout-session",
			map[string]any{"amount": 0, "cartItems": []models.CartItem{}}, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("success", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/create-checkout-session",
			map[string]any{
				"amount":    49.9,
				"cartItems": []models.CartItem{{ProductID: 1, Quantity: 1, Title: "Ion", Author: "LR", Price: 30}},
			}, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			SessionID  string `json:"sessionId"`
			SessionURL string `json:"sessionUrl"`
		}
		decode(t, rec, &resp)
		assert.Equal(t, "cs_test_123", resp.SessionID)
		assert.NotEmpty(t, resp.SessionURL)
	})
}

func TestCheckPaymentStatus(t *testing.T) {
	env := newTestEnv(t)
	env.gateway.status["cs_1"] = "paid"

	rec := env.do(t, http.MethodGet, "/api/check-payment-status/cs_1", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		PaymentStatus string `json:"paymentStatus"`
	}
	decode(t, rec, &resp)
	assert.Equal(t, "paid", resp.PaymentStatus)

	rec = env.do(t, http.MethodGet, "/api/check-payment-status/cs_missing", nil, nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestOrderConfirmation(t *testing.T) {
	env := newTestEnv(t)
	product := seedProduct(t, env, "Comanda", 10, 5)
	cartHeaders := map[string]string{controllers.CartSessionHeader: "buyer"}

	rec := env.do(t, http.MethodPost, "/api/cart",
		map[string]any{"productId": product.ID, "quantity": 2}, cartHeaders)
	require.Equal(t, http.StatusOK, rec.Code)

	env.gateway.status["cs_paid"] = "paid"

	rec = env.do(t, http.MethodPost, "/api/orders/confirm",
		map[string]any{"sessionId": "cs_paid"}, cartHeaders)
	require.Equal(t, http.StatusCreated, rec.Code)

	var confirmed struct {
		Order models.Order `json:"order"`
	}
	decode(t, rec, &confirmed)
	assert.Equal(t, "confirmed", confirmed.Order.Status)
	assert.Equal(t, 20.0, confirmed.Order.Total)

	// Stock decremented, cart cleared.
	got, err := env.products.GetByID(product.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Stock)

	cart, err := env.carts.Get("buyer")
	require.NoError(t, err)
	assert.Empty(t, cart.Items)

	// A duplicate confirmation is answered from the order log and leaves
	// stock alone.
	rec = env.do(t, http.MethodPost, "/api/orders/confirm",
		map[string]any{"sessionId": "cs_paid"}, cartHeaders)
	require.Equal(t, http.StatusOK, rec.Code)
	var duplicate struct {
		Message string       `json:"message"`
		Order   models.Order `json:"order"`
	}
	decode(t, rec, &duplicate)
	assert.Equal(t, confirmed.Order.ID, duplicate.Order.ID)

	got, err = env.products.GetByID(product.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Stock)
}

func TestOrderConfirmationRejectsUnsettledPayment(t *testing.T) {
	env := newTestEnv(t)
	product := seedProduct(t, env, "Neplatit", 10, 5)
	cartHeaders := map[string]string{controllers.CartSessionHeader: "buyer"}

	rec := env.do(t, http.MethodPost, "/api/cart",
		map[string]any{"productId": product.ID}, cartHeaders)
	require.Equal(t, http.StatusOK, rec.Code)

	env.gateway.status["cs_open"] = "unpaid"

	rec = env.do(t, http.MethodPost, "/api/orders/confirm",
		map[string]any{"sessionId": "cs_open"}, cartHeaders)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	got, err := env.products.GetByID(product.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Stock, "stock untouched until payment settles")
}

func TestAdminNotFoundIsConsistent(t *testing.T) {
	env := newTestEnv(t)
	headers := authHeader(adminToken(t))

	rec := env.do(t, http.MethodPut, "/api/admin/products/42", map[string]any{"title": "X"}, headers)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodDelete, "/api/admin/products/42", nil, headers)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/admin/products/42", nil, headers)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestClearCart(t *testing.T) {
	env := newTestEnv(t)
	product := seedProduct(t, env, "DeGolit", 10, 5)
	headers := map[string]string{controllers.CartSessionHeader: "s1"}

	rec := env.do(t, http.MethodPost, "/api/cart", map[string]any{"productId": product.ID}, headers)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/clear-cart", nil, headers)
	require.Equal(t, http.StatusOK, rec.Code)

	cart, err := env.carts.Get("s1")
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.Zero(t, cart.Total)
	assert.Zero(t, cart.TotalItems)
}
