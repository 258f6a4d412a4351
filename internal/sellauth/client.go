// Package sellauth is a thin client for the SellAuth storefront API.
package sellauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/router-for-me/storefront/internal/config"
	log "github.com/sirupsen/logrus"
)

// ErrNotConfigured is returned when the API key or shop id is missing.
var ErrNotConfigured = errors.New("sellauth: credentials not configured")

// CartItem is one line of a checkout cart.
type CartItem struct {
	ProductID int64 `json:"productId"`
	VariantID int64 `json:"variantId"`
	Quantity  int   `json:"quantity"`
}

// CheckoutRequest is the body of POST /shops/{shop}/checkout.
type CheckoutRequest struct {
	Cart        []CartItem `json:"cart"`
	IP          string     `json:"ip"`
	CountryCode string     `json:"country_code"`
	UserAgent   string     `json:"user_agent"`
	Email       string     `json:"email"`
	Gateway     string     `json:"gateway,omitempty"`
	Coupon      *string    `json:"coupon,omitempty"`
	Newsletter  bool       `json:"newsletter"`
}

// CheckoutResponse is SellAuth's checkout reply.
type CheckoutResponse struct {
	Success    bool   `json:"success"`
	InvoiceID  int64  `json:"invoice_id"`
	InvoiceURL string `json:"invoice_url"`
	URL        string `json:"url"`
}

// Payment is the subset of a payment record the storefront inspects; Raw keeps the full body.
type Payment struct {
	ID     string
	Status string
	Raw    map[string]any
}

// APIError carries a non-2xx response.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("sellauth api error: %d - %s", e.StatusCode, e.Body)
}

// Client talks to the SellAuth REST API.
type Client struct {
	http               *resty.Client
	shopID             string
	shopScopedPayments bool
	configured         bool
}

// NewClient builds a client from config. A client without credentials is returned
// usable but every call fails with ErrNotConfigured.
func NewClient(cfg config.SellAuthConfig) *Client {
	apiKey := strings.TrimSpace(cfg.APIKey)
	shopID := strings.TrimSpace(cfg.ShopID)
	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json").
		SetHeader("Content-Type", "application/json").
		SetAuthToken(apiKey)
	return &Client{
		http:               httpClient,
		shopID:             shopID,
		shopScopedPayments: cfg.ShopScopedPayments,
		configured:         apiKey != "" && shopID != "",
	}
}

// Configured reports whether API credentials are present.
func (c *Client) Configured() bool {
	return c != nil && c.configured
}

// CreateCheckout submits a cart and returns the hosted invoice.
func (c *Client) CreateCheckout(ctx context.Context, req CheckoutRequest) (CheckoutResponse, error) {
	var out CheckoutResponse
	if !c.Configured() {
		return out, ErrNotConfigured
	}
	endpoint := "/shops/" + url.PathEscape(c.shopID) + "/checkout"
	log.WithFields(log.Fields{"endpoint": endpoint, "email": req.Email, "items": len(req.Cart)}).Debug("sellauth: create checkout")

	resp, errPost := c.http.R().SetContext(ctx).SetBody(req).Post(endpoint)
	if errPost != nil {
		return out, fmt.Errorf("sellauth: create checkout: %w", errPost)
	}
	if resp.IsError() {
		return out, &APIError{StatusCode: resp.StatusCode(), Body: resp.String()}
	}
	if errDecode := json.Unmarshal(resp.Body(), &out); errDecode != nil {
		return out, fmt.Errorf("sellauth: invalid json response: %s", resp.String())
	}
	return out, nil
}

// GetPayment fetches a payment record.
func (c *Client) GetPayment(ctx context.Context, paymentID string) (Payment, error) {
	if !c.Configured() {
		return Payment{}, ErrNotConfigured
	}
	paymentID = strings.TrimSpace(paymentID)
	if paymentID == "" {
		return Payment{}, errors.New("sellauth: empty payment id")
	}
	endpoint := "/payments/" + url.PathEscape(paymentID)
	if c.shopScopedPayments {
		endpoint = "/shops/" + url.PathEscape(c.shopID) + endpoint
	}

	resp, errGet := c.http.R().SetContext(ctx).Get(endpoint)
	if errGet != nil {
		return Payment{}, fmt.Errorf("sellauth: get payment: %w", errGet)
	}
	if resp.IsError() {
		return Payment{}, &APIError{StatusCode: resp.StatusCode(), Body: resp.String()}
	}
	raw := map[string]any{}
	if errDecode := json.Unmarshal(resp.Body(), &raw); errDecode != nil {
		return Payment{}, fmt.Errorf("sellauth: invalid json response: %s", resp.String())
	}
	payment := Payment{ID: paymentID, Raw: raw}
	if status, ok := raw["status"].(string); ok {
		payment.Status = status
	}
	if id, ok := raw["id"]; ok && id != nil {
		payment.ID = fmt.Sprint(id)
	}
	return payment, nil
}
