package controllers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"inventory-backend/database"
	"inventory-backend/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

func authedRequest(t *testing.T, app *fiber.App, token, method, path string, payload any) (int, map[string]any) {
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
	req.Header.Set("Authorization", "Bearer "+token)

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
		return resp.StatusCode, nil
	}
	return resp.StatusCode, decoded
}

func TestProductMutationsRequireAuth(t *testing.T) {
	app := setupApp(t)

	status, body := request(t, app, http.MethodPost, "/products/create", fiber.Map{
		"name":  "Brake Pad",
		"price": "100",
	})
	require.Equal(t, http.StatusUnauthorized, status)
	require.Contains(t, body["message"], "Authorization")
}

func TestProductCRUD(t *testing.T) {
	app := setupApp(t)
	token := registerAndLogin(t, app)

	status, created := authedRequest(t, app, token, http.MethodPost, "/products/create", fiber.Map{
		"name":     "Brake Pad",
		"sku":      "BP-001",
		"quantity": 10,
		"price":    "100",
		"mrp":      "120",
		"cgst":     "9",
		"sgst":     "9",
	})
	require.Equal(t, http.StatusCreated, status)
	productID := created["id"].(string)
	require.Equal(t, models.MobisStatusNonMobis, created["mobis_status"])

	// reads are open
	status, detail := request(t, app, http.MethodGet, "/products/"+productID, nil)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "Brake Pad", detail["name"])

	status, _ = authedRequest(t, app, token, http.MethodPut, "/products/"+productID+"/update", fiber.Map{
		"quantity": 25,
	})
	require.Equal(t, http.StatusOK, status)

	var product models.Product
	require.NoError(t, database.DB.First(&product, "id = ?", productID).Error)
	require.Equal(t, 25, product.Quantity)

	status, _ = authedRequest(t, app, token, http.MethodDelete, "/products/"+productID+"/delete", nil)
	require.Equal(t, http.StatusNoContent, status)

	status, _ = request(t, app, http.MethodGet, "/products/"+productID, nil)
	require.Equal(t, http.StatusNotFound, status)
}

func TestProductListFilters(t *testing.T) {
	app := setupApp(t)
	createProduct(t, "Brake Pad", 10, "100")
	createProduct(t, "Oil Filter", 10, "200")

	status, products := requestList(t, app, "/products?name=brake")
	require.Equal(t, http.StatusOK, status)
	require.Len(t, products, 1)
	require.Equal(t, "Brake Pad", products[0]["name"])

	status, products = requestList(t, app, "/products?sku=SKU-Oil")
	require.Equal(t, http.StatusOK, status)
	require.Len(t, products, 1)
	require.Equal(t, "Oil Filter", products[0]["name"])

	status, products = requestList(t, app, "/products?limit=1")
	require.Equal(t, http.StatusOK, status)
	require.Len(t, products, 1)
}

func TestProductMediaLifecycle(t *testing.T) {
	app := setupApp(t)
	token := registerAndLogin(t, app)
	product := createProduct(t, "Head Lamp", 10, "100")

	status, media := authedRequest(t, app, token, http.MethodPost,
		"/products/"+product.Id+"/media", fiber.Map{
			"media_type":  "image",
			"preview_url": "https://cdn.example.com/head-lamp.jpg",
		})
	require.Equal(t, http.StatusCreated, status)
	mediaID := media["id"].(string)

	status, detail := request(t, app, http.MethodGet, "/products/"+product.Id, nil)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, detail["media"], 1)

	status, _ = authedRequest(t, app, token, http.MethodDelete, "/products/media/"+mediaID, nil)
	require.Equal(t, http.StatusNoContent, status)

	var count int64
	require.NoError(t, database.DB.Model(&models.ProductMedia{}).
		Where("product_id = ?", product.Id).Count(&count).Error)
	require.Zero(t, count)
}
