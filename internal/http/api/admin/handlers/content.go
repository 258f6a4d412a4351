package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/router-for-me/storefront/internal/catalog"
	"github.com/router-for-me/storefront/internal/http/api/views"
	"github.com/router-for-me/storefront/internal/http/response"
)

// ContentHandler manages FAQ entries and Discord stats.
type ContentHandler struct {
	catalog *catalog.Service
}

// NewContentHandler constructs a ContentHandler.
func NewContentHandler(catalog *catalog.Service) *ContentHandler {
	return &ContentHandler{catalog: catalog}
}

type createFaqRequest struct {
	Question string        `json:"question"`
	Answer   string        `json:"answer"`
	Order    views.Decimal `json:"order"`
}

// CreateFaq inserts a FAQ entry.
func (h *ContentHandler) CreateFaq(c *gin.Context) {
	var body createFaqRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		response.Message(c, http.StatusBadRequest, "Question and answer are required")
		return
	}
	order := 0
	if raw := strings.TrimSpace(body.Order.String()); raw != "" {
		parsed, errOrder := strconv.Atoi(raw)
		if errOrder != nil {
			response.Message(c, http.StatusBadRequest, "Order must be a whole number")
			return
		}
		order = parsed
	}
	item, err := h.catalog.CreateFaq(c.Request.Context(), catalog.FaqInput{
		Question: body.Question,
		Answer:   body.Answer,
		Order:    order,
	})
	if err != nil {
		response.Error(c, err, "Failed to create FAQ item")
		return
	}
	c.JSON(http.StatusOK, views.FaqItem(item))
}

// DeleteFaq removes a FAQ entry.
func (h *ContentHandler) DeleteFaq(c *gin.Context) {
	if err := h.catalog.DeleteFaq(c.Request.Context(), strings.TrimSpace(c.Param("id"))); err != nil {
		response.Error(c, err, "Failed to delete FAQ item")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "FAQ item deleted successfully"})
}

type discordRequest struct {
	ServerID     string `json:"serverId"`
	MemberCount  int    `json:"memberCount" binding:"gte=0"`
	OnlineCount  int    `json:"onlineCount" binding:"gte=0"`
	ReferralCode string `json:"referralCode"`
	InviteURL    string `json:"inviteUrl"`
}

// UpsertDiscord overwrites the community stats.
func (h *ContentHandler) UpsertDiscord(c *gin.Context) {
	var body discordRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		response.Message(c, http.StatusBadRequest, "Invalid Discord data")
		return
	}
	data, err := h.catalog.UpsertDiscord(c.Request.Context(), catalog.DiscordInput{
		ServerID:     body.ServerID,
		MemberCount:  body.MemberCount,
		OnlineCount:  body.OnlineCount,
		ReferralCode: body.ReferralCode,
		InviteURL:    body.InviteURL,
	})
	if err != nil {
		response.Error(c, err, "Failed to update Discord data")
		return
	}
	c.JSON(http.StatusOK, views.Discord(data))
}
