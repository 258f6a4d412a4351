package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/router-for-me/storefront/internal/checkout"
	"github.com/router-for-me/storefront/internal/http/api/views"
	"github.com/router-for-me/storefront/internal/http/response"
)

// WebhookHandler lists recorded payment notifications.
type WebhookHandler struct {
	bridge *checkout.Bridge
}

// NewWebhookHandler constructs a WebhookHandler.
func NewWebhookHandler(bridge *checkout.Bridge) *WebhookHandler {
	return &WebhookHandler{bridge: bridge}
}

// List returns recent webhook events, newest first.
func (h *WebhookHandler) List(c *gin.Context) {
	limit := 0
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		parsed, errParse := strconv.Atoi(raw)
		if errParse != nil || parsed < 0 {
			response.Message(c, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = parsed
	}
	events, err := h.bridge.ListWebhookEvents(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, err, "Failed to list webhook events")
		return
	}
	out := make([]gin.H, 0, len(events))
	for _, event := range events {
		out = append(out, views.WebhookEvent(event))
	}
	c.JSON(http.StatusOK, gin.H{"events": out})
}
