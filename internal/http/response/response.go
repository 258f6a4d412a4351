// Package response writes JSON error bodies for service errors.
package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/router-for-me/storefront/internal/apperr"
	log "github.com/sirupsen/logrus"
)

// Status maps a service error to an HTTP status code.
func Status(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, apperr.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperr.ErrUnauthenticated),
		errors.Is(err, apperr.ErrInvalidCredentials),
		errors.Is(err, apperr.ErrInvalidTwoFactorCode):
		return http.StatusUnauthorized
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperr.ErrRateLimited):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

var defaultMessages = map[int]string{
	http.StatusUnauthorized:    "Authentication required",
	http.StatusNotFound:        "Not found",
	http.StatusTooManyRequests: "too many requests",
}

// Error writes {"message": ...} for err. Caller-facing messages attached with apperr are
// surfaced for 4xx responses; 5xx responses use fallback and log the cause.
func Error(c *gin.Context, err error, fallback string) {
	status := Status(err)
	if status >= http.StatusInternalServerError {
		log.WithError(err).WithFields(log.Fields{
			"method": c.Request.Method,
			"path":   c.FullPath(),
		}).Error(fallback)
		Message(c, status, fallback)
		return
	}
	msg, ok := apperr.Message(err)
	if !ok {
		msg = defaultMessages[status]
	}
	if msg == "" {
		msg = fallback
	}
	Message(c, status, msg)
}

// Message aborts with a bare {"message": msg} body.
func Message(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"message": msg})
}
