package paypal

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tokenHandler(calls *int32) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if calls != nil {
			atomic.AddInt32(calls, 1)
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != "client-id" || pass != "client-secret" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":"invalid_client"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token": "test-token",
			"token_type":   "Bearer",
			"expires_in":   3600,
		})
	}
}

func TestCreateOrderPayload(t *testing.T) {
	var gotBody map[string]interface{}
	var gotAuth string
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/oauth2/token", tokenHandler(nil))
	mux.HandleFunc("/v2/checkout/orders", func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":"ORDER1","status":"CREATED","links":[{"href":"https://approve","rel":"approve"}]}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := NewClient(srv.URL, "client-id", "client-secret")
	order, err := c.CreateOrder(context.Background(), OrderParams{
		Amount:      Amount{CurrencyCode: "USD", Value: "10.00"},
		CustomID:    "camp1",
		ReferenceID: "don1",
		BrandName:   "mycompany.com",
		ReturnURL:   "https://pay.test/capture-order",
		CancelURL:   "https://pay.test/cancel-order",
	})
	require.NoError(t, err)
	assert.Equal(t, "ORDER1", order.ID)
	assert.Equal(t, StatusCreated, order.Status)

	assert.Equal(t, "Bearer test-token", gotAuth)
	assert.Equal(t, "CAPTURE", gotBody["intent"])
	units := gotBody["purchase_units"].([]interface{})
	require.Len(t, units, 1)
	unit := units[0].(map[string]interface{})
	assert.Equal(t, "camp1", unit["custom_id"])
	assert.Equal(t, "don1", unit["reference_id"])
	amount := unit["amount"].(map[string]interface{})
	assert.Equal(t, "10.00", amount["value"])
	assert.Equal(t, "USD", amount["currency_code"])
	appCtx := gotBody["application_context"].(map[string]interface{})
	assert.Equal(t, "https://pay.test/capture-order", appCtx["return_url"])
	assert.Equal(t, "https://pay.test/cancel-order", appCtx["cancel_url"])
}

func TestTokenReusedAcrossCalls(t *testing.T) {
	var tokenCalls int32
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/oauth2/token", tokenHandler(&tokenCalls))
	mux.HandleFunc("/v2/checkout/orders/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"ORDER1","status":"CREATED"}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := NewClient(srv.URL, "client-id", "client-secret")
	for i := 0; i < 3; i++ {
		_, err := c.GetOrder(context.Background(), "ORDER1")
		require.NoError(t, err)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&tokenCalls), "unexpired token must be reused")
}

func TestTokenExchangeFailure(t *testing.T) {
	var orderCalls int32
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/oauth2/token", tokenHandler(nil))
	mux.HandleFunc("/v2/checkout/orders", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&orderCalls, 1)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := NewClient(srv.URL, "client-id", "wrong-secret")
	_, err := c.CreateOrder(context.Background(), OrderParams{
		Amount: Amount{CurrencyCode: "USD", Value: "10.00"},
	})
	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, http.StatusUnauthorized, authErr.StatusCode)
	assert.Equal(t, int32(0), atomic.LoadInt32(&orderCalls), "order endpoint must not be called without a token")
}

func TestCaptureOrderParsesNestedCapture(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/oauth2/token", tokenHandler(nil))
	mux.HandleFunc("/v2/checkout/orders/ORDER1/capture", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{
			"id": "ORDER1",
			"status": "COMPLETED",
			"purchase_units": [{"payments": {"captures": [{"id": "cap123", "status": "COMPLETED"}]}}]
		}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := NewClient(srv.URL, "client-id", "client-secret")
	order, err := c.CaptureOrder(context.Background(), "ORDER1")
	require.NoError(t, err)
	require.Len(t, order.PurchaseUnits, 1)
	require.NotNil(t, order.PurchaseUnits[0].Payments)
	require.Len(t, order.PurchaseUnits[0].Payments.Captures, 1)
	assert.Equal(t, "cap123", order.PurchaseUnits[0].Payments.Captures[0].ID)
}

func TestGetCaptureErrorKeepsBody(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/oauth2/token", tokenHandler(nil))
	mux.HandleFunc("/v2/payments/captures/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"name":"RESOURCE_NOT_FOUND","message":"The specified resource does not exist."}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := NewClient(srv.URL, "client-id", "client-secret")
	_, err := c.GetCapture(context.Background(), "cap123")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Contains(t, string(apiErr.Body), "RESOURCE_NOT_FOUND")
	assert.Equal(t, "get capture", apiErr.Op)
}
