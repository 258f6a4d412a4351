// Package views renders storefront records as camelCase JSON objects.
package views

import (
	"github.com/gin-gonic/gin"
	"github.com/router-for-me/storefront/internal/catalog"
	"github.com/router-for-me/storefront/internal/models"
	"github.com/router-for-me/storefront/internal/support"
)

// Product renders a product.
func Product(p models.Product) gin.H {
	return gin.H{
		"id":                p.ID,
		"name":              p.Name,
		"description":       p.Description,
		"price":             catalog.FormatPrice(p.Price),
		"period":            p.Period,
		"features":          catalog.Features(p),
		"imageUrl":          emptyToNil(p.ImageURL),
		"category":          p.Category,
		"isPopular":         p.IsPopular,
		"isNew":             p.IsNew,
		"isBestseller":      p.IsBestseller,
		"sellAuthProductId": emptyToNil(p.SellAuthProductID),
		"sellAuthShopId":    emptyToNil(p.SellAuthShopID),
		"createdAt":         p.CreatedAt,
		"updatedAt":         p.UpdatedAt,
	}
}

// Products renders a product list.
func Products(rows []models.Product) []gin.H {
	out := make([]gin.H, 0, len(rows))
	for _, row := range rows {
		out = append(out, Product(row))
	}
	return out
}

// Variant renders a product variant.
func Variant(v models.ProductVariant) gin.H {
	return gin.H{
		"id":                v.ID,
		"productId":         v.ProductID,
		"name":              v.Name,
		"period":            v.Period,
		"price":             catalog.FormatPrice(v.Price),
		"discount":          v.Discount,
		"sellAuthVariantId": v.SellAuthVariantID,
		"isDefault":         v.IsDefault,
		"createdAt":         v.CreatedAt,
	}
}

// Variants renders a variant list.
func Variants(rows []models.ProductVariant) []gin.H {
	out := make([]gin.H, 0, len(rows))
	for _, row := range rows {
		out = append(out, Variant(row))
	}
	return out
}

// PlanQuotes renders advisory plan prices.
func PlanQuotes(productID string, quotes []catalog.PlanQuote) gin.H {
	plans := make([]gin.H, 0, len(quotes))
	for _, q := range quotes {
		plans = append(plans, gin.H{"period": q.Period, "price": catalog.FormatPrice(q.Price)})
	}
	return gin.H{"productId": productID, "plans": plans}
}

// Faq renders FAQ entries.
func Faq(rows []models.FaqItem) []gin.H {
	out := make([]gin.H, 0, len(rows))
	for _, row := range rows {
		out = append(out, FaqItem(row))
	}
	return out
}

// FaqItem renders one FAQ entry.
func FaqItem(f models.FaqItem) gin.H {
	return gin.H{
		"id":       f.ID,
		"question": f.Question,
		"answer":   f.Answer,
		"order":    f.SortOrder,
	}
}

// Discord renders the community stats singleton.
func Discord(d models.DiscordData) gin.H {
	return gin.H{
		"id":           d.ID,
		"serverId":     d.ServerID,
		"memberCount":  d.MemberCount,
		"onlineCount":  d.OnlineCount,
		"referralCode": d.ReferralCode,
		"inviteUrl":    d.InviteURL,
		"updatedAt":    d.UpdatedAt,
	}
}

// Ticket renders a support ticket without its replies.
func Ticket(t models.SupportTicket) gin.H {
	return gin.H{
		"id":            t.ID,
		"customerName":  t.CustomerName,
		"customerEmail": t.CustomerEmail,
		"subject":       t.Subject,
		"message":       t.Message,
		"status":        t.Status,
		"priority":      t.Priority,
		"assignedTo":    t.AssignedTo,
		"createdAt":     t.CreatedAt,
		"updatedAt":     t.UpdatedAt,
	}
}

// TicketSummaries renders the admin ticket list.
func TicketSummaries(rows []support.TicketSummary) []gin.H {
	out := make([]gin.H, 0, len(rows))
	for _, row := range rows {
		item := Ticket(row.SupportTicket)
		item["replyCount"] = row.ReplyCount
		out = append(out, item)
	}
	return out
}

// Reply renders a ticket reply.
func Reply(r models.SupportReply) gin.H {
	return gin.H{
		"id":          r.ID,
		"ticketId":    r.TicketID,
		"message":     r.Message,
		"isFromAdmin": r.IsFromAdmin,
		"senderName":  r.SenderName,
		"senderEmail": r.SenderEmail,
		"createdAt":   r.CreatedAt,
	}
}

// Replies renders a reply list.
func Replies(rows []models.SupportReply) []gin.H {
	out := make([]gin.H, 0, len(rows))
	for _, row := range rows {
		out = append(out, Reply(row))
	}
	return out
}

// Admin renders the public fields of an admin account.
func Admin(a models.AdminUser) gin.H {
	return gin.H{
		"id":               a.ID,
		"username":         a.Username,
		"twoFactorEnabled": a.TwoFactorEnabled,
	}
}

// WebhookEvent renders a stored webhook notification.
func WebhookEvent(e models.WebhookEvent) gin.H {
	return gin.H{
		"id":              e.ID,
		"provider":        e.Provider,
		"eventType":       e.EventType,
		"paymentId":       e.PaymentID,
		"payload":         e.Payload,
		"signatureValid":  e.SignatureValid,
		"processedAt":     e.ProcessedAt,
		"processingError": e.ProcessingError,
		"createdAt":       e.CreatedAt,
	}
}

func emptyToNil(s string) any {
	if s == "" {
		return nil
	}
	return s
}
