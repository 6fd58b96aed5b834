package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(baseURL string) *PriceClient {
	return &PriceClient{
		BaseURL:    baseURL,
		APIKey:     "sk_test_123",
		Currency:   "usd",
		HTTPClient: http.DefaultClient,
		Logger:     zap.NewNop(),
	}
}

func TestPriceClient_CreatePrice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/prices", r.URL.Path)
		assert.Equal(t, "Bearer sk_test_123", r.Header.Get("Authorization"))
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "2500", r.PostForm.Get("unit_amount"))
		assert.Equal(t, "usd", r.PostForm.Get("currency"))
		assert.Equal(t, "Logo design for startups (Basic)", r.PostForm.Get("product_data[name]"))
		assert.Equal(t, "Basic", r.PostForm.Get("metadata[tier]"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"price_1Abc","currency":"usd","unit_amount":2500}`))
	}))
	defer srv.Close()

	p, err := newTestClient(srv.URL).CreatePrice(context.Background(), PriceInput{
		Title:      "Logo design for startups",
		Tier:       "Basic",
		UnitAmount: 2500,
	})
	require.NoError(t, err)
	assert.Equal(t, "price_1Abc", p.ID)
	assert.Equal(t, int64(2500), p.UnitAmount)
}

func TestPriceClient_CreatePrice_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"Invalid currency","type":"invalid_request_error"}}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).CreatePrice(context.Background(), PriceInput{Title: "x", Tier: "Basic", UnitAmount: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid currency")
	assert.Contains(t, err.Error(), "400")
}

func TestPriceClient_CreatePrice_Local(t *testing.T) {
	p, err := newTestClient("").CreatePrice(context.Background(), PriceInput{Title: "x", Tier: "Premium", UnitAmount: 9900})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(p.ID, "price_local_"))
	assert.NotContains(t, p.ID, "-")
	assert.Equal(t, int64(9900), p.UnitAmount)
}
