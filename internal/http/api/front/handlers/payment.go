package handlers

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/router-for-me/storefront/internal/apperr"
	"github.com/router-for-me/storefront/internal/checkout"
	"github.com/router-for-me/storefront/internal/http/response"
	log "github.com/sirupsen/logrus"
)

const (
	signatureHeader    = "x-sellauth-signature"
	maxWebhookBodySize = 1 << 20
)

// PaymentHandler bridges checkout and payment notification endpoints.
type PaymentHandler struct {
	bridge *checkout.Bridge
}

// NewPaymentHandler constructs a PaymentHandler.
func NewPaymentHandler(bridge *checkout.Bridge) *PaymentHandler {
	return &PaymentHandler{bridge: bridge}
}

type checkoutRequest struct {
	ProductID string `json:"productId"`
	Plan      string `json:"plan"`
	Email     string `json:"email"`
}

// Checkout creates a hosted SellAuth invoice.
func (h *PaymentHandler) Checkout(c *gin.Context) {
	var body checkoutRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		response.Message(c, http.StatusBadRequest, "Product ID, plan, and email are required")
		return
	}
	resp, err := h.bridge.CreateCheckout(c.Request.Context(), checkout.Input{
		ProductID: body.ProductID,
		Plan:      body.Plan,
		Email:     body.Email,
		ClientIP:  c.ClientIP(),
	})
	if err != nil {
		response.Error(c, err, "Failed to create checkout")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":     resp.Success,
		"invoice_id":  resp.InvoiceID,
		"invoice_url": resp.InvoiceURL,
		"url":         resp.URL,
	})
}

// Verify reports a payment's status.
func (h *PaymentHandler) Verify(c *gin.Context) {
	status, err := h.bridge.VerifyPayment(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		response.Error(c, err, "Failed to verify payment")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"paymentId": status.PaymentID,
		"status":    status.Status,
		"completed": status.Completed,
		"payment":   status.Raw,
	})
}

// Webhook records a SellAuth notification.
func (h *PaymentHandler) Webhook(c *gin.Context) {
	body, errRead := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBodySize))
	if errRead != nil {
		response.Message(c, http.StatusBadRequest, "Invalid webhook payload")
		return
	}
	event, err := h.bridge.HandleWebhook(c.Request.Context(), body, c.GetHeader(signatureHeader))
	if err != nil {
		if errors.Is(err, apperr.ErrValidation) || errors.Is(err, apperr.ErrInvalidCredentials) {
			response.Error(c, err, "Webhook processing failed")
			return
		}
		log.WithError(err).WithField("event_id", event.ID).Error("webhook processing failed")
		response.Message(c, http.StatusInternalServerError, "Webhook processing failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"received": true})
}
