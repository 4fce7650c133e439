package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"storefront/internal/app"
	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/models"
	"storefront/internal/services"
	"storefront/pkg/logger"
	"storefront/pkg/metrics"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// fakeGateway stands in for Stripe.
type fakeGateway struct {
	rejectBelow int64
	calls       []int64
}

func (g *fakeGateway) CreatePaymentIntent(_ context.Context, amount int64, currency string) (string, error) {
	g.calls = append(g.calls, amount)
	if amount < g.rejectBelow {
		return "", &services.ProcessorError{Message: "Amount must be at least $0.50 " + currency}
	}
	return "pi_test_secret_" + uuid.NewString(), nil
}

type testEnv struct {
	app     *fiber.App
	db      *gorm.DB
	gateway *fakeGateway
}

func testConfig() *config.Config {
	return &config.Config{
		Port:            "8000",
		DBDriver:        config.DriverSQLite,
		BodyLimitMB:     10,
		StripePublicKey: "pk_test_123",
		PaymentCurrency: "usd",
		OrderPricing:    config.PricingClient,
	}
}

// setupApp builds the full application on a private in-memory SQLite database.
func setupApp(t *testing.T, cfg *config.Config) *testEnv {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	store := database.NewGORMStore(db)
	require.NoError(t, store.Migrate(context.Background()))
	t.Cleanup(func() { _ = store.Close(context.Background()) })

	gateway := &fakeGateway{rejectBelow: 50}
	application := app.New(cfg, app.Dependencies{
		Store:   store,
		Gateway: gateway,
		Metrics: metrics.New(),
		Logger:  logger.Nop(),
	})
	return &testEnv{app: application, db: db, gateway: gateway}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) (int, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, raw
}

func (e *testEnv) doJSON(t *testing.T, method, path string, body any) (int, map[string]any) {
	t.Helper()
	status, raw := e.do(t, method, path, body)
	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	return status, out
}

func (e *testEnv) signup(t *testing.T, email, password string) {
	t.Helper()
	status, body := e.doJSON(t, "POST", "/signup", fiber.Map{
		"name":            "Ada",
		"email":           email,
		"password":        password,
		"confirmPassword": password,
	})
	require.Equal(t, fiber.StatusOK, status, body)
}

func (e *testEnv) login(t *testing.T, email, password string) (int, map[string]any) {
	t.Helper()
	return e.doJSON(t, "POST", "/login", fiber.Map{"email": email, "password": password})
}

func orderBody(user string) fiber.Map {
	return fiber.Map{
		"user":     user,
		"username": "Ada",
		"orderItems": []fiber.Map{
			{"name": "Oak table", "qty": 1, "image": "table.png", "price": 120, "product": "prod-1"},
		},
		"shippingAddress": fiber.Map{
			"name":                "Ada",
			"phoneNumber":         "0123",
			"address":             "1 Loom St",
			"city":                "Leeds",
			"postalCode":          "LS1",
			"country":             "UK",
			"specialInstructions": "None",
		},
		"shippingPrice": 5,
		"totalPrice":    125,
	}
}

func TestRootAndConfig(t *testing.T) {
	env := setupApp(t, testConfig())

	status, raw := env.do(t, "GET", "/", nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "Server is running", string(raw))

	status, body := env.doJSON(t, "GET", "/config", nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "pk_test_123", body["publishableKey"])
	assert.Equal(t, true, body["alert"])
}

func TestSignupDuplicateEmail(t *testing.T) {
	env := setupApp(t, testConfig())
	env.signup(t, "ada@example.com", "secret123")

	status, body := env.doJSON(t, "POST", "/signup", fiber.Map{"email": "ada@example.com", "password": "other"})
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, false, body["alert"])
	assert.Equal(t, "Email id is already registered", body["message"])

	var count int64
	require.NoError(t, env.db.Model(&models.User{}).Where("email = ?", "ada@example.com").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestSignupStoresHashAndNoAdmin(t *testing.T) {
	env := setupApp(t, testConfig())

	status, _ := env.doJSON(t, "POST", "/signup", fiber.Map{
		"email":    "eve@example.com",
		"password": "secret123",
		"isAdmin":  true,
	})
	require.Equal(t, fiber.StatusOK, status)

	var user models.User
	require.NoError(t, env.db.First(&user, "email = ?", "eve@example.com").Error)
	assert.NotEqual(t, "secret123", user.Password)
	assert.False(t, user.IsAdmin)
}

func TestSignupRequiresEmailAndPassword(t *testing.T) {
	env := setupApp(t, testConfig())

	status, body := env.doJSON(t, "POST", "/signup", fiber.Map{"name": "Nobody"})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, false, body["alert"])
}

func TestLogin(t *testing.T) {
	env := setupApp(t, testConfig())
	env.signup(t, "ada@example.com", "secret123")

	t.Run("correct credentials", func(t *testing.T) {
		status, body := env.login(t, "ada@example.com", "secret123")
		assert.Equal(t, fiber.StatusOK, status)
		assert.Equal(t, true, body["alert"])
		assert.Equal(t, "Login is successful", body["message"])

		data, ok := body["data"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "ada@example.com", data["email"])
		assert.NotEmpty(t, data["_id"])
		assert.NotContains(t, data, "password")
		assert.NotContains(t, data, "isAdmin")
	})

	t.Run("wrong password", func(t *testing.T) {
		status, body := env.login(t, "ada@example.com", "wrong")
		assert.Equal(t, fiber.StatusUnauthorized, status)
		assert.Equal(t, false, body["alert"])
		assert.Equal(t, "Invalid email or password", body["message"])
	})

	t.Run("unknown email is reported distinctly", func(t *testing.T) {
		status, body := env.login(t, "nobody@example.com", "secret123")
		assert.Equal(t, fiber.StatusNotFound, status)
		assert.Equal(t, false, body["alert"])
		assert.Equal(t, "Email is not available, please sign up", body["message"])
	})
}

func TestUpdateUser(t *testing.T) {
	env := setupApp(t, testConfig())
	env.signup(t, "ada@example.com", "secret123")
	env.signup(t, "bob@example.com", "secret123")

	_, loginBody := env.login(t, "ada@example.com", "secret123")
	userID := loginBody["data"].(map[string]any)["_id"].(string)

	status, body := env.doJSON(t, "PUT", "/users/"+userID, fiber.Map{
		"city":     "Leeds",
		"isAdmin":  true,
		"password": "newsecret",
	})
	require.Equal(t, fiber.StatusOK, status, body)
	assert.Equal(t, "User updated successfully", body["message"])
	assert.Equal(t, "Leeds", body["data"].(map[string]any)["city"])

	var stored models.User
	require.NoError(t, env.db.First(&stored, "id = ?", userID).Error)
	assert.False(t, stored.IsAdmin)
	assert.NotEqual(t, "newsecret", stored.Password)

	status, _ = env.login(t, "ada@example.com", "newsecret")
	assert.Equal(t, fiber.StatusOK, status)

	status, body = env.doJSON(t, "PUT", "/users/"+userID, fiber.Map{"email": "bob@example.com"})
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, false, body["alert"])

	status, body = env.doJSON(t, "PUT", "/users/"+uuid.NewString(), fiber.Map{"city": "York"})
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "User not found", body["message"])
}

func TestCreateOrderForcesUnpaidUndelivered(t *testing.T) {
	env := setupApp(t, testConfig())

	req := orderBody("user-1")
	req["isPaid"] = true
	req["isDelivered"] = true
	req["paidAt"] = time.Now().Format(time.RFC3339)

	status, body := env.doJSON(t, "POST", "/orders", req)
	require.Equal(t, fiber.StatusOK, status, body)
	assert.Equal(t, "Order placed successfully", body["message"])

	order := body["order"].(map[string]any)
	assert.Equal(t, false, order["isPaid"])
	assert.Equal(t, false, order["isDelivered"])
	assert.NotContains(t, order, "paidAt")
	assert.Equal(t, "Paypal", order["paymentMethod"])
	assert.Equal(t, "Pending", order["orderStatus"])

	var stored models.Order
	require.NoError(t, env.db.First(&stored, "id = ?", order["_id"]).Error)
	assert.False(t, stored.IsPaid)
	assert.False(t, stored.IsDelivered)
	assert.Nil(t, stored.PaidAt)
}

func TestCreateOrderAcceptsNumericStrings(t *testing.T) {
	env := setupApp(t, testConfig())

	req := orderBody("user-1")
	req["orderItems"] = []fiber.Map{
		{"name": "Oak table", "qty": "2", "image": "table.png", "price": "12.50", "product": "prod-1"},
	}
	req["shippingPrice"] = "5"
	req["totalPrice"] = "30"

	status, body := env.doJSON(t, "POST", "/orders", req)
	require.Equal(t, fiber.StatusOK, status, body)

	order := body["order"].(map[string]any)
	assert.Equal(t, 30.0, order["totalPrice"])
	assert.Equal(t, 5.0, order["shippingPrice"])
	item := order["orderItems"].([]any)[0].(map[string]any)
	assert.Equal(t, 2.0, item["qty"])
	assert.Equal(t, 12.5, item["price"])

	var stored models.Order
	require.NoError(t, env.db.First(&stored, "id = ?", order["_id"]).Error)
	assert.Equal(t, 30.0, stored.TotalPrice)
	require.Len(t, stored.OrderItems, 1)
	assert.Equal(t, 12.5, stored.OrderItems[0].Price)

	req["totalPrice"] = "not a number"
	status, body = env.doJSON(t, "POST", "/orders", req)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "Invalid request body", body["message"])
}

func TestCreateOrderValidation(t *testing.T) {
	env := setupApp(t, testConfig())

	req := orderBody("user-1")
	delete(req, "shippingAddress")

	status, body := env.doJSON(t, "POST", "/orders", req)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, false, body["alert"])
	assert.Contains(t, body["message"], "shippingAddress.city")
}

func TestListOrdersReturnsOnlyUsersOrders(t *testing.T) {
	env := setupApp(t, testConfig())

	for _, user := range []string{"user-u", "user-v", "user-u"} {
		status, body := env.doJSON(t, "POST", "/orders", orderBody(user))
		require.Equal(t, fiber.StatusOK, status, body)
	}

	status, raw := env.do(t, "GET", "/orders/user-u", nil)
	require.Equal(t, fiber.StatusOK, status)

	var orders []models.Order
	require.NoError(t, json.Unmarshal(raw, &orders))
	require.Len(t, orders, 2)
	for _, o := range orders {
		assert.Equal(t, "user-u", o.User)
	}

	status, raw = env.do(t, "GET", "/orders/nobody", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.JSONEq(t, "[]", string(raw))
}

func TestCatalogPricing(t *testing.T) {
	cfg := testConfig()
	cfg.OrderPricing = config.PricingCatalog
	env := setupApp(t, cfg)

	status, body := env.doJSON(t, "POST", "/orders", orderBody("user-1"))
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
	assert.Equal(t, false, body["alert"])

	product := models.Product{ID: "prod-1", Name: "Oak table", PricePound: "£99.99"}
	require.NoError(t, env.db.Create(&product).Error)

	status, body = env.doJSON(t, "POST", "/orders", orderBody("user-1"))
	require.Equal(t, fiber.StatusOK, status, body)
	order := body["order"].(map[string]any)
	assert.Equal(t, 104.99, order["totalPrice"])
}

func TestPaymentIntent(t *testing.T) {
	env := setupApp(t, testConfig())

	t.Run("valid amount", func(t *testing.T) {
		status, body := env.doJSON(t, "POST", "/create-payment-intent", fiber.Map{"amount": 1050})
		assert.Equal(t, fiber.StatusOK, status)
		assert.NotEmpty(t, body["clientSecret"])
	})

	t.Run("numeric string", func(t *testing.T) {
		status, body := env.doJSON(t, "POST", "/create-payment-intent", fiber.Map{"amount": "1050"})
		assert.Equal(t, fiber.StatusOK, status)
		assert.NotEmpty(t, body["clientSecret"])
	})

	for _, amount := range []any{-5, "abc", nil} {
		status, body := env.doJSON(t, "POST", "/create-payment-intent", fiber.Map{"amount": amount})
		assert.Equal(t, fiber.StatusBadRequest, status)
		assert.Equal(t, false, body["alert"])
		errBody, ok := body["error"].(map[string]any)
		require.True(t, ok)
		assert.NotEmpty(t, errBody["message"])
	}

	t.Run("processor rejection", func(t *testing.T) {
		status, body := env.doJSON(t, "POST", "/create-payment-intent", fiber.Map{"amount": 10})
		assert.Equal(t, fiber.StatusBadRequest, status)
		assert.Equal(t, "Amount must be at least $0.50 usd", body["error"].(map[string]any)["message"])
	})

	assert.Equal(t, []int64{1050, 1050, 10}, env.gateway.calls)
}

func TestUploadProductWithOnlyName(t *testing.T) {
	env := setupApp(t, testConfig())

	status, body := env.doJSON(t, "POST", "/uploadProduct", fiber.Map{"name": "Stool"})
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "Upload successfully", body["message"])
	assert.Equal(t, true, body["alert"])

	status, raw := env.do(t, "GET", "/product", nil)
	require.Equal(t, fiber.StatusOK, status)
	var products []models.Product
	require.NoError(t, json.Unmarshal(raw, &products))
	require.Len(t, products, 1)
	assert.Equal(t, "Stool", products[0].Name)

	status, body = env.doJSON(t, "GET", "/product/"+products[0].ID, nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "Stool", body["data"].(map[string]any)["name"])
	status, _ = env.doJSON(t, "GET", "/product/missing", nil)
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestContactMessageOnePerEmail(t *testing.T) {
	env := setupApp(t, testConfig())

	status, body := env.doJSON(t, "POST", "/message", fiber.Map{"email": "ada@example.com", "message": "Hello"})
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "Message Sent successfully", body["message"])

	status, body = env.doJSON(t, "POST", "/message", fiber.Map{"email": "ada@example.com", "message": "Again"})
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, false, body["alert"])

	status, _ = env.doJSON(t, "POST", "/message", fiber.Map{"email": "bob@example.com"})
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestHealthAndMetrics(t *testing.T) {
	env := setupApp(t, testConfig())

	status, body := env.doJSON(t, "GET", "/health", nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "connected", body["database"])

	status, raw := env.do(t, "GET", "/metrics", nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, string(raw), "storefront_http_requests_total")
}

func TestDatabaseUnavailable(t *testing.T) {
	application := app.New(testConfig(), app.Dependencies{Logger: logger.Nop()})

	req := httptest.NewRequest("GET", "/product", nil)
	resp, err := application.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)

	resp, err = application.Test(httptest.NewRequest("GET", "/", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = application.Test(httptest.NewRequest("GET", "/config", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = application.Test(httptest.NewRequest("GET", "/health", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
}

func TestStaticBundleServedWhenPresent(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.js"), []byte("console.log('shop')"), 0o644))

	cfg := testConfig()
	cfg.StaticDir = dir
	application := app.New(cfg, app.Dependencies{Store: database.NewMemoryStore(), Logger: logger.Nop()})

	resp, err := application.Test(httptest.NewRequest("GET", "/app.js", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = application.Test(httptest.NewRequest("GET", "/product", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
