package httpclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gigmarket/gigmarket/internal/config"
	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

// PriceClient creates price objects on a Stripe-compatible payments API.
type PriceClient struct {
	BaseURL    string
	APIKey     string
	Currency   string
	HTTPClient *http.Client
	Logger     *zap.Logger
}

func NewPriceClient(cfg *config.Config, log *zap.Logger) *PriceClient {
	return &PriceClient{
		BaseURL:  strings.TrimRight(cfg.Pricing.BaseURL, "/"),
		APIKey:   cfg.Pricing.APIKey,
		Currency: cfg.Pricing.Currency,
		HTTPClient: &http.Client{
			Timeout:   30 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		Logger: log,
	}
}

type PriceInput struct {
	Title string
	Tier  string
	// UnitAmount is in the smallest currency unit.
	UnitAmount int64
}

type Price struct {
	ID         string `json:"id"`
	Currency   string `json:"currency"`
	UnitAmount int64  `json:"unit_amount"`
}

type apiError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// CreatePrice registers a one-off price. Without a BaseURL it returns a
// locally minted reference so development setups need no payments account.
func (c *PriceClient) CreatePrice(ctx context.Context, in PriceInput) (*Price, error) {
	if c.BaseURL == "" {
		return &Price{
			ID:         "price_local_" + strings.ReplaceAll(uuid.NewString(), "-", ""),
			Currency:   c.Currency,
			UnitAmount: in.UnitAmount,
		}, nil
	}

	form := url.Values{}
	form.Set("unit_amount", strconv.FormatInt(in.UnitAmount, 10))
	form.Set("currency", c.Currency)
	form.Set("product_data[name]", fmt.Sprintf("%s (%s)", in.Title, in.Tier))
	form.Set("metadata[tier]", in.Tier)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/v1/prices", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if c.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.APIKey)
	}

	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr apiError
		msg := string(respBody)
		if sonic.Unmarshal(respBody, &apiErr) == nil && apiErr.Error.Message != "" {
			msg = apiErr.Error.Message
		}
		c.Logger.Error("create_price request failed",
			zap.Int("status_code", resp.StatusCode),
			zap.String("error", msg))
		return nil, fmt.Errorf("create price failed with status %d: %s", resp.StatusCode, msg)
	}

	var result Price
	if err := sonic.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	if result.ID == "" {
		return nil, fmt.Errorf("create price: empty id in response")
	}
	return &result, nil
}
