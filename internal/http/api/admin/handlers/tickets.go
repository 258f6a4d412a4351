package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/router-for-me/storefront/internal/http/api/views"
	"github.com/router-for-me/storefront/internal/http/response"
	"github.com/router-for-me/storefront/internal/http/validation"
	"github.com/router-for-me/storefront/internal/support"
)

// TicketHandler serves the admin helpdesk.
type TicketHandler struct {
	support *support.Service
}

// NewTicketHandler constructs a TicketHandler.
func NewTicketHandler(support *support.Service) *TicketHandler {
	return &TicketHandler{support: support}
}

type ticketListQuery struct {
	Status   string `form:"status" binding:"omitempty,ticketstatus"`
	Priority string `form:"priority" binding:"omitempty,ticketpriority"`
	Search   string `form:"q"`
}

// List returns tickets newest first with reply counts.
func (h *TicketHandler) List(c *gin.Context) {
	var query ticketListQuery
	if errBind := c.ShouldBindQuery(&query); errBind != nil {
		response.Message(c, http.StatusBadRequest, validation.Message(errBind))
		return
	}
	tickets, err := h.support.ListTickets(c.Request.Context(), support.TicketFilter{
		Status:   strings.TrimSpace(query.Status),
		Priority: strings.TrimSpace(query.Priority),
		Search:   strings.TrimSpace(query.Search),
	})
	if err != nil {
		response.Error(c, err, "Failed to get support tickets")
		return
	}
	c.JSON(http.StatusOK, views.TicketSummaries(tickets))
}

// Stats returns ticket counts per status.
func (h *TicketHandler) Stats(c *gin.Context) {
	stats, err := h.support.TicketStats(c.Request.Context())
	if err != nil {
		response.Error(c, err, "Failed to get support stats")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"total":      stats.Total,
		"open":       stats.Open,
		"inProgress": stats.InProgress,
		"closed":     stats.Closed,
	})
}

// Get returns a ticket and its replies.
func (h *TicketHandler) Get(c *gin.Context) {
	ticket, err := h.support.GetTicket(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		response.Error(c, err, "Failed to get support ticket")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"ticket":  views.Ticket(ticket),
		"replies": views.Replies(ticket.Replies),
	})
}

type replyRequest struct {
	Message string `json:"message"`
}

// Reply appends an admin reply and emails the customer.
func (h *TicketHandler) Reply(c *gin.Context) {
	var body replyRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		response.Message(c, http.StatusBadRequest, "Message is required")
		return
	}
	reply, err := h.support.Reply(c.Request.Context(), strings.TrimSpace(c.Param("id")), body.Message)
	if err != nil {
		response.Error(c, err, "Failed to send reply")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Reply sent successfully",
		"reply":   views.Reply(reply),
	})
}

type updateTicketRequest struct {
	Status     *string `json:"status"`
	Priority   *string `json:"priority"`
	AssignedTo *string `json:"assignedTo"`
}

// Update changes status, priority or assignee. Empty status or priority values are ignored.
func (h *TicketHandler) Update(c *gin.Context) {
	var body updateTicketRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		response.Message(c, http.StatusBadRequest, validation.Message(errBind))
		return
	}
	ticket, err := h.support.UpdateTicket(c.Request.Context(), strings.TrimSpace(c.Param("id")), support.TicketPatch{
		Status:     body.Status,
		Priority:   body.Priority,
		AssignedTo: body.AssignedTo,
	})
	if err != nil {
		response.Error(c, err, "Failed to update ticket")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "ticket": views.Ticket(ticket)})
}

// Delete removes a ticket and its replies.
func (h *TicketHandler) Delete(c *gin.Context) {
	if err := h.support.DeleteTicket(c.Request.Context(), strings.TrimSpace(c.Param("id"))); err != nil {
		response.Error(c, err, "Failed to delete ticket")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Ticket deleted successfully"})
}
