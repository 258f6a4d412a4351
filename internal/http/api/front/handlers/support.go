package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/router-for-me/storefront/internal/http/response"
	"github.com/router-for-me/storefront/internal/support"
)

// SupportHandler accepts customer support requests.
type SupportHandler struct {
	support *support.Service
}

// NewSupportHandler constructs a SupportHandler.
func NewSupportHandler(support *support.Service) *SupportHandler {
	return &SupportHandler{support: support}
}

type supportMessageRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// Submit records a ticket and sends the notification emails.
func (h *SupportHandler) Submit(c *gin.Context) {
	var body supportMessageRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		response.Message(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	ticket, err := h.support.SubmitTicket(c.Request.Context(), support.Submission{
		Name:    body.Name,
		Email:   body.Email,
		Subject: body.Subject,
		Message: body.Message,
	})
	if err != nil {
		response.Error(c, err, "Failed to send support request")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"message":  "Support request sent successfully. Check your email for confirmation.",
		"ticketId": ticket.ID,
	})
}
