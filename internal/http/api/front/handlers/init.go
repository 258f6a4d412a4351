package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/router-for-me/storefront/internal/auth"
	"github.com/router-for-me/storefront/internal/http/api/views"
	"github.com/router-for-me/storefront/internal/http/response"
)

// InitHandler exposes first-run admin bootstrap.
type InitHandler struct {
	auth *auth.Service
}

// NewInitHandler constructs an InitHandler.
func NewInitHandler(auth *auth.Service) *InitHandler {
	return &InitHandler{auth: auth}
}

// Status reports whether an admin account exists.
func (h *InitHandler) Status(c *gin.Context) {
	initialized, err := h.auth.HasAdmin(c.Request.Context())
	if err != nil {
		response.Error(c, err, "Failed to check initialization")
		return
	}
	c.JSON(http.StatusOK, gin.H{"initialized": initialized})
}

type setupRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Setup creates the first admin; it is refused once any admin exists.
func (h *InitHandler) Setup(c *gin.Context) {
	var body setupRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		response.Message(c, http.StatusBadRequest, "Username and password required")
		return
	}
	admin, err := h.auth.CreateAdmin(c.Request.Context(), body.Username, body.Password)
	if err != nil {
		response.Error(c, err, "Failed to create admin")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Initialization successful", "user": views.Admin(admin)})
}
