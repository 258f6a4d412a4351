package sellauth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/router-for-me/storefront/internal/config"
)

func testConfig(baseURL string) config.SellAuthConfig {
	return config.SellAuthConfig{
		BaseURL: baseURL,
		APIKey:  "key-123",
		ShopID:  "174522",
		Timeout: 5 * time.Second,
	}
}

func TestCreateCheckout(t *testing.T) {
	var got CheckoutRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/shops/174522/checkout" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer key-123" {
			t.Errorf("unexpected auth header %q", auth)
		}
		if errDecode := json.NewDecoder(r.Body).Decode(&got); errDecode != nil {
			t.Errorf("decode body: %v", errDecode)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"invoice_id":42,"invoice_url":"https://pay/i/42","url":"https://pay/c/42"}`))
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL))
	resp, err := client.CreateCheckout(context.Background(), CheckoutRequest{
		Cart:        []CartItem{{ProductID: 436109, VariantID: 634959, Quantity: 1}},
		IP:          "10.0.0.1",
		CountryCode: "US",
		UserAgent:   "Kernal.wtf Website",
		Email:       "buyer@example.com",
		Gateway:     "STRIPE",
	})
	if err != nil {
		t.Fatalf("CreateCheckout: %v", err)
	}
	if !resp.Success || resp.InvoiceID != 42 || resp.URL != "https://pay/c/42" {
		t.Fatalf("unexpected response %+v", resp)
	}
	if len(got.Cart) != 1 || got.Cart[0].VariantID != 634959 || got.Email != "buyer@example.com" {
		t.Fatalf("unexpected request body %+v", got)
	}
}

func TestGetPayment_Paths(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"pay_1","status":"completed","amount":9.99}`))
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	payment, err := NewClient(cfg).GetPayment(context.Background(), "pay_1")
	if err != nil {
		t.Fatalf("GetPayment: %v", err)
	}
	if payment.Status != "completed" || payment.ID != "pay_1" || payment.Raw["amount"] != 9.99 {
		t.Fatalf("unexpected payment %+v", payment)
	}

	cfg.ShopScopedPayments = true
	if _, err = NewClient(cfg).GetPayment(context.Background(), "pay_1"); err != nil {
		t.Fatalf("GetPayment scoped: %v", err)
	}
	if len(paths) != 2 || paths[0] != "/payments/pay_1" || paths[1] != "/shops/174522/payments/pay_1" {
		t.Fatalf("unexpected paths %v", paths)
	}
}

func TestAPIErrorAndNotConfigured(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"message":"bad cart"}`))
	}))
	defer srv.Close()

	_, err := NewClient(testConfig(srv.URL)).CreateCheckout(context.Background(), CheckoutRequest{})
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected APIError 422, got %v", err)
	}

	unconfigured := NewClient(config.SellAuthConfig{BaseURL: srv.URL})
	if unconfigured.Configured() {
		t.Fatalf("expected unconfigured client")
	}
	if _, err = unconfigured.GetPayment(context.Background(), "x"); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}
