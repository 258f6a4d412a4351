package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/router-for-me/storefront/internal/auth"
	"github.com/router-for-me/storefront/internal/http/api/views"
	"github.com/router-for-me/storefront/internal/http/middleware"
	"github.com/router-for-me/storefront/internal/http/response"
	log "github.com/sirupsen/logrus"
)

// AuthHandler handles admin login, logout and two-factor enrolment.
type AuthHandler struct {
	auth     *auth.Service
	sessions *middleware.Sessions
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(auth *auth.Service, sessions *middleware.Sessions) *AuthHandler {
	return &AuthHandler{auth: auth, sessions: sessions}
}

type loginRequest struct {
	Username      string `json:"username"`
	Password      string `json:"password"`
	TwoFactorCode string `json:"twoFactorCode"`
}

// Login checks credentials and issues a session cookie.
func (h *AuthHandler) Login(c *gin.Context) {
	var body loginRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		response.Message(c, http.StatusBadRequest, "Username and password required")
		return
	}
	result, err := h.auth.Login(c.Request.Context(), body.Username, body.Password, body.TwoFactorCode)
	if err != nil {
		response.Error(c, err, "Login failed")
		return
	}
	if result.TwoFactorRequired {
		c.JSON(http.StatusOK, gin.H{
			"requires2FA": true,
			"message":     "Two-factor authentication code required",
		})
		return
	}
	if errIssue := h.sessions.Issue(c, result.Admin); errIssue != nil {
		response.Error(c, errIssue, "Login failed")
		return
	}
	log.WithField("admin", result.Admin.Username).Info("admin logged in")
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Login successful",
		"user":    views.Admin(result.Admin),
	})
}

// Logout destroys the session; a missing session is not an error.
func (h *AuthHandler) Logout(c *gin.Context) {
	if errDestroy := h.sessions.Destroy(c); errDestroy != nil {
		response.Error(c, errDestroy, "Logout failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logout successful"})
}

// User returns the signed-in admin.
func (h *AuthHandler) User(c *gin.Context) {
	admin, err := h.auth.CurrentUser(c.Request.Context(), middleware.AdminID(c))
	if err != nil {
		response.Error(c, err, "Failed to get user")
		return
	}
	c.JSON(http.StatusOK, views.Admin(admin))
}

// SetupTwoFactor provisions a pending TOTP secret.
func (h *AuthHandler) SetupTwoFactor(c *gin.Context) {
	setup, err := h.auth.SetupTwoFactor(c.Request.Context(), middleware.AdminID(c))
	if err != nil {
		response.Error(c, err, "Failed to setup 2FA")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"secret":         setup.Secret,
		"otpauthUrl":     setup.OTPAuthURL,
		"qrCodeUrl":      setup.QRCodeURL,
		"manualEntryKey": setup.ManualEntryKey,
	})
}

type codeRequest struct {
	Code string `json:"code"`
}

// EnableTwoFactor confirms the pending secret with a code.
func (h *AuthHandler) EnableTwoFactor(c *gin.Context) {
	var body codeRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		response.Message(c, http.StatusBadRequest, "Verification code required")
		return
	}
	if err := h.auth.EnableTwoFactor(c.Request.Context(), middleware.AdminID(c), body.Code); err != nil {
		response.Error(c, err, "Failed to enable 2FA")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Two-factor authentication enabled successfully"})
}

type passwordRequest struct {
	Password string `json:"password"`
}

// DisableTwoFactor turns 2FA off after re-checking the password.
func (h *AuthHandler) DisableTwoFactor(c *gin.Context) {
	var body passwordRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		response.Message(c, http.StatusBadRequest, "Password required to disable 2FA")
		return
	}
	if err := h.auth.DisableTwoFactor(c.Request.Context(), middleware.AdminID(c), body.Password); err != nil {
		response.Error(c, err, "Failed to disable 2FA")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Two-factor authentication disabled"})
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// ChangePassword replaces the signed-in admin's password.
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var body changePasswordRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		response.Message(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.auth.ChangePassword(c.Request.Context(), middleware.AdminID(c), body.CurrentPassword, body.NewPassword); err != nil {
		response.Error(c, err, "Failed to change password")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password updated"})
}
