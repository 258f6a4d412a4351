// Package checkout bridges storefront products to SellAuth hosted checkouts and payment webhooks.
package checkout

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/router-for-me/storefront/internal/apperr"
	"github.com/router-for-me/storefront/internal/config"
	"github.com/router-for-me/storefront/internal/models"
	"github.com/router-for-me/storefront/internal/sellauth"
	log "github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	// ProviderSellAuth labels persisted SellAuth webhook events.
	ProviderSellAuth = "sellauth"
	// EventPaymentCompleted is the only event type acted on.
	EventPaymentCompleted = "payment.completed"
	// StatusCompleted is the terminal payment status.
	StatusCompleted = "completed"

	defaultWebhookListLimit = 50
	maxWebhookListLimit     = 500

	// Column widths of webhook_events.
	maxEventTypeLen = 64
	maxPaymentIDLen = 128
)

// ErrInvalidSignature is returned when webhook verification is enabled and the signature does not match.
var ErrInvalidSignature = apperr.WithMessage(apperr.ErrInvalidCredentials, "Invalid webhook signature")

// PaymentClient is the subset of the SellAuth client used by the bridge.
type PaymentClient interface {
	CreateCheckout(ctx context.Context, req sellauth.CheckoutRequest) (sellauth.CheckoutResponse, error)
	GetPayment(ctx context.Context, paymentID string) (sellauth.Payment, error)
}

// Catalog resolves products and their variants.
type Catalog interface {
	GetProduct(ctx context.Context, id string) (models.Product, error)
	ListVariants(ctx context.Context, productID string) ([]models.ProductVariant, error)
}

// Bridge creates checkouts and records payment notifications.
type Bridge struct {
	db      *gorm.DB
	client  PaymentClient
	catalog Catalog
	cfg     config.SellAuthConfig
	now     func() time.Time
}

// NewBridge constructs a checkout bridge.
func NewBridge(db *gorm.DB, client PaymentClient, catalog Catalog, cfg config.SellAuthConfig) *Bridge {
	return &Bridge{db: db, client: client, catalog: catalog, cfg: cfg, now: time.Now}
}

// Input is a storefront checkout request.
type Input struct {
	ProductID string
	Plan      string
	Email     string
	ClientIP  string
}

// PaymentStatus summarises a payment lookup.
type PaymentStatus struct {
	PaymentID string
	Status    string
	Completed bool
	Raw       map[string]any // Full SellAuth payment body.
}

// CreateCheckout resolves the product and submits a one-item cart to SellAuth.
func (b *Bridge) CreateCheckout(ctx context.Context, in Input) (sellauth.CheckoutResponse, error) {
	in.ProductID = strings.TrimSpace(in.ProductID)
	in.Plan = strings.TrimSpace(in.Plan)
	in.Email = strings.TrimSpace(in.Email)
	if in.ProductID == "" || in.Plan == "" || in.Email == "" {
		return sellauth.CheckoutResponse{}, apperr.Validation("Product ID, plan, and email are required")
	}

	product, errProduct := b.catalog.GetProduct(ctx, in.ProductID)
	if errProduct != nil {
		return sellauth.CheckoutResponse{}, errProduct
	}

	item := sellauth.CartItem{
		ProductID: b.cfg.CheckoutProductID,
		VariantID: b.cfg.CheckoutVariantID,
		Quantity:  1,
	}
	if b.cfg.ResolveVariantByPlan {
		resolved, errResolve := b.resolveCartItem(ctx, product, in.Plan)
		if errResolve != nil {
			return sellauth.CheckoutResponse{}, errResolve
		}
		item = resolved
	}

	clientIP := strings.TrimSpace(in.ClientIP)
	if clientIP == "" {
		clientIP = "127.0.0.1"
	}
	resp, errCheckout := b.client.CreateCheckout(ctx, sellauth.CheckoutRequest{
		Cart:        []sellauth.CartItem{item},
		IP:          clientIP,
		CountryCode: b.cfg.CountryCode,
		UserAgent:   b.cfg.UserAgent,
		Email:       in.Email,
		Gateway:     b.cfg.Gateway,
	})
	if errCheckout != nil {
		return sellauth.CheckoutResponse{}, apperr.Dependency("create checkout", errCheckout)
	}
	log.WithFields(log.Fields{
		"product_id": product.ID,
		"plan":       in.Plan,
		"invoice_id": resp.InvoiceID,
	}).Info("checkout: invoice created")
	return resp, nil
}

// resolveCartItem maps a plan to the product's SellAuth variant with the same period.
func (b *Bridge) resolveCartItem(ctx context.Context, product models.Product, plan string) (sellauth.CartItem, error) {
	productID, errProductID := strconv.ParseInt(strings.TrimSpace(product.SellAuthProductID), 10, 64)
	if errProductID != nil || productID <= 0 {
		return sellauth.CartItem{}, apperr.Validation("Product has no SellAuth product ID")
	}
	variants, errVariants := b.catalog.ListVariants(ctx, product.ID)
	if errVariants != nil {
		return sellauth.CartItem{}, errVariants
	}
	for _, variant := range variants {
		if variant.Period != plan {
			continue
		}
		variantID, errVariantID := strconv.ParseInt(strings.TrimSpace(variant.SellAuthVariantID), 10, 64)
		if errVariantID != nil || variantID <= 0 {
			return sellauth.CartItem{}, apperr.Validationf("Variant %s has an invalid SellAuth variant ID", variant.Name)
		}
		return sellauth.CartItem{ProductID: productID, VariantID: variantID, Quantity: 1}, nil
	}
	return sellauth.CartItem{}, apperr.Validationf("No variant available for plan: %s", plan)
}

// VerifyPayment looks up a payment; only "completed" counts as resolved.
func (b *Bridge) VerifyPayment(ctx context.Context, paymentID string) (PaymentStatus, error) {
	paymentID = strings.TrimSpace(paymentID)
	if paymentID == "" {
		return PaymentStatus{}, apperr.Validation("Payment ID is required")
	}
	payment, errGet := b.client.GetPayment(ctx, paymentID)
	if errGet != nil {
		return PaymentStatus{}, apperr.Dependency("verify payment", errGet)
	}
	return PaymentStatus{
		PaymentID: paymentID,
		Status:    payment.Status,
		Completed: strings.EqualFold(payment.Status, StatusCompleted),
		Raw:       payment.Raw,
	}, nil
}

type webhookEnvelope struct {
	Event string `json:"event"`
	Data  struct {
		PaymentID json.RawMessage `json:"payment_id"`
	} `json:"data"`
}

// HandleWebhook persists a SellAuth notification and verifies completed payments.
func (b *Bridge) HandleWebhook(ctx context.Context, body []byte, signature string) (models.WebhookEvent, error) {
	var envelope webhookEnvelope
	if errDecode := json.Unmarshal(body, &envelope); errDecode != nil {
		return models.WebhookEvent{}, apperr.Validation("Invalid webhook payload")
	}

	event := models.WebhookEvent{
		Provider:  ProviderSellAuth,
		EventType: truncate(strings.TrimSpace(envelope.Event), maxEventTypeLen),
		PaymentID: truncate(rawID(envelope.Data.PaymentID), maxPaymentIDLen),
		Payload:   datatypes.JSON(body),
	}
	if event.EventType == "" {
		event.EventType = "unknown"
	}

	if b.cfg.VerifyWebhookSignature {
		valid := VerifySignature(b.cfg.WebhookSecret, body, signature)
		event.SignatureValid = &valid
	} else {
		log.WithField("event", event.EventType).Warn("checkout: webhook signature verification disabled")
	}

	if errCreate := b.db.WithContext(ctx).Create(&event).Error; errCreate != nil {
		return event, fmt.Errorf("store webhook event: %w", errCreate)
	}
	if event.SignatureValid != nil && !*event.SignatureValid {
		b.markFailed(ctx, &event, ErrInvalidSignature)
		return event, ErrInvalidSignature
	}
	if event.EventType != EventPaymentCompleted {
		return event, nil
	}

	status, errVerify := b.VerifyPayment(ctx, event.PaymentID)
	if errVerify != nil {
		b.markFailed(ctx, &event, errVerify)
		return event, errVerify
	}
	if status.Completed {
		log.WithField("payment_id", status.PaymentID).Info("checkout: payment verified")
	} else {
		log.WithFields(log.Fields{"payment_id": status.PaymentID, "status": status.Status}).Warn("checkout: payment not completed")
	}

	now := b.now().UTC()
	if errUpdate := b.db.WithContext(ctx).Model(&models.WebhookEvent{}).
		Where("id = ?", event.ID).
		Updates(map[string]any{"processed_at": now, "processing_error": ""}).Error; errUpdate != nil {
		return event, fmt.Errorf("mark webhook processed: %w", errUpdate)
	}
	event.ProcessedAt = &now
	return event, nil
}

func (b *Bridge) markFailed(ctx context.Context, event *models.WebhookEvent, cause error) {
	event.ProcessingError = cause.Error()
	if errUpdate := b.db.WithContext(ctx).Model(&models.WebhookEvent{}).
		Where("id = ?", event.ID).
		Update("processing_error", event.ProcessingError).Error; errUpdate != nil {
		log.WithError(errUpdate).Error("checkout: record webhook failure")
	}
}

// ListWebhookEvents returns the most recent events, newest first.
func (b *Bridge) ListWebhookEvents(ctx context.Context, limit int) ([]models.WebhookEvent, error) {
	if limit <= 0 {
		limit = defaultWebhookListLimit
	}
	if limit > maxWebhookListLimit {
		limit = maxWebhookListLimit
	}
	var events []models.WebhookEvent
	if errFind := b.db.WithContext(ctx).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&events).Error; errFind != nil {
		return nil, fmt.Errorf("list webhook events: %w", errFind)
	}
	return events, nil
}

// VerifySignature checks a hex HMAC-SHA256 of body keyed with secret.
func VerifySignature(secret string, body []byte, signature string) bool {
	if secret == "" || signature == "" {
		return false
	}
	expected, errDecode := hex.DecodeString(strings.TrimSpace(signature))
	if errDecode != nil {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hmac.Equal(mac.Sum(nil), expected)
}

// rawID accepts numeric or string payment ids.
// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

func rawID(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if errString := json.Unmarshal(raw, &s); errString == nil {
		return strings.TrimSpace(s)
	}
	var n json.Number
	if errNumber := json.Unmarshal(raw, &n); errNumber == nil {
		return n.String()
	}
	return ""
}
