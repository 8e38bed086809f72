package payments

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateOrderReturnsGatewayHandle(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/orders", r.URL.Path)

		var req map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, float64(24999), req["amount"])
		assert.Equal(t, "INR", req["currency"])

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(GatewayOrder{
			ID: "order_test_1", Amount: 24999, Currency: "INR", Status: "created",
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, "key", "secret")

	order, err := client.CreateOrder(24999, "INR", "rcpt-1")
	require.NoError(t, err)
	assert.Equal(t, "order_test_1", order.ID)
	assert.Equal(t, "created", order.Status)
}

func TestCreateOrderMapsGatewayErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad key", http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClient(server.URL, "key", "secret")

	_, err := client.CreateOrder(100, "INR", "")
	require.Error(t, err)

	var upstream *UpstreamError
	assert.ErrorAs(t, err, &upstream)
}

func TestBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(server.URL, "key", "secret")

	for i := 0; i < 3; i++ {
		_, err := client.CreateOrder(100, "INR", "")
		require.Error(t, err)
	}

	// breaker is open now; the request fails without reaching the gateway
	server.Close()
	_, err := client.CreateOrder(100, "INR", "")
	require.Error(t, err)
}

func TestMinorUnits(t *testing.T) {
	assert.Equal(t, int64(24999), MinorUnits(249.99))
	assert.Equal(t, int64(2000), MinorUnits(19.999))
	assert.Equal(t, int64(0), MinorUnits(0))
}
