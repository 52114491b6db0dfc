package controllers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"

	"inventory-backend/database"
	"inventory-backend/middlewares"
	"inventory-backend/models"
	"inventory-backend/routes"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	appOnce sync.Once
	appErr  error
)

// setupApp wires the full router against the postgres instance named by
// TEST_DATABASE_DSN and truncates all tables. Tests are skipped when the
// variable is unset.
func setupApp(t *testing.T) *fiber.App {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("TEST_DATABASE_DSN not set; skipping API test")
	}
	if os.Getenv("JWT_SECRET_KEY") == "" {
		t.Setenv("JWT_SECRET_KEY", "api-test-secret")
	}

	appOnce.Do(func() {
		database.DB, appErr = gorm.Open(postgres.Open(dsn), &gorm.Config{
			Logger:         logger.Default.LogMode(logger.Silent),
			TranslateError: true,
		})
		if appErr != nil {
			return
		}
		database.AutoMigrate()
	})
	require.NoError(t, appErr)

	err := database.DB.Exec(
		`TRUNCATE TABLE invoices, order_parts, order_cards, product_media, products, idempotency_keys, users RESTART IDENTITY CASCADE`,
	).Error
	require.NoError(t, err)

	app := fiber.New(fiber.Config{ErrorHandler: middlewares.ErrorHandler})
	routes.Register(app)
	return app
}

// request performs one JSON round trip and decodes the body into a generic map
// (nil when the response has none).
func request(t *testing.T, app *fiber.App, method, path string, payload any) (int, map[string]any) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) == 0 {
		return resp.StatusCode, nil
	}
	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		// list endpoints answer with arrays; callers decode those themselves
		return resp.StatusCode, nil
	}
	return resp.StatusCode, decoded
}

func requestList(t *testing.T, app *fiber.App, path string) (int, []map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp.StatusCode, decoded
}

func createOrder(t *testing.T, app *fiber.App) string {
	t.Helper()
	status, body := request(t, app, http.MethodPost, "/orders/create", fiber.Map{
		"customer_name":    "Asha Verma",
		"customer_address": "12 Workshop Lane",
		"customer_phone":   "9876543210",
		"customer_email":   "asha@example.com",
	})
	require.Equal(t, http.StatusCreated, status)
	return body["id"].(string)
}

func createProduct(t *testing.T, name string, quantity int, mrp string) *models.Product {
	t.Helper()
	m := decimal.RequireFromString(mrp)
	nine := decimal.RequireFromString("9")
	gst := decimal.RequireFromString("18")
	sku := "SKU-" + name
	product := models.Product{
		Name:     name,
		Sku:      &sku,
		Quantity: quantity,
		Price:    m,
		Mrp:      &m,
		Gst:      &gst,
		Cgst:     &nine,
		Sgst:     &nine,
	}
	require.NoError(t, database.DB.Create(&product).Error)
	return &product
}
