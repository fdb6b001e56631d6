package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SamriekLeeuwin/righthand-ops-hub/forms"
	"github.com/SamriekLeeuwin/righthand-ops-hub/middleware"
	"github.com/SamriekLeeuwin/righthand-ops-hub/service"
	"github.com/gin-gonic/gin"
)

// AuthController handles the token lifecycle endpoints.
type AuthController struct {
	auth *service.AuthService
}

// NewAuthController creates and returns a new AuthController instance
func NewAuthController(auth *service.AuthService) *AuthController {
	return &AuthController{auth: auth}
}

// Me returns the identity the auth guard resolved for this request.
func (ctrl AuthController) Me(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication_required", "message": "Authentication is required before this action"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Authenticated",
		"user":    user,
	})
}

// Logout is advisory: tokens are stateless and there is no server-side
// revocation list, so the issued token stays valid until its natural expiry.
// The response says so instead of pretending otherwise.
func (ctrl AuthController) Logout(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication_required", "message": "Authentication is required before this action"})
		return
	}

	slog.Info("user logged out", "user_id", user.ID, "email", user.Email)

	c.JSON(http.StatusOK, gin.H{
		"message": "Logged out",
		"note":    "Tokens are stateless; discard them client-side. The current token remains valid until it expires.",
	})
}

// Refresh rotates a full token pair from a valid refresh token. The identity
// is re-resolved from the credential store first, so a token for a deleted
// user mints nothing.
func (ctrl AuthController) Refresh(c *gin.Context) {
	var refreshForm forms.RefreshForm

	if err := c.ShouldBindJSON(&refreshForm); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid_input", "message": "A refreshToken field is required"})
		return
	}

	pair, _, err := ctrl.auth.Refresh(c.Request.Context(), refreshForm.RefreshToken)
	switch {
	case err == nil:
	case errors.Is(err, service.ErrTokenExpired),
		errors.Is(err, service.ErrTokenMalformed),
		errors.Is(err, service.ErrAudienceMismatch),
		errors.Is(err, service.ErrIssuerMismatch),
		errors.Is(err, service.ErrIdentityNotFound):
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_refresh_token", "message": "Invalid refresh token, please log in again"})
		return
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal_error", "message": "Something went wrong, please try again later"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "Token pair refreshed",
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
		"expiresIn":    pair.ExpiresIn,
		"tokenType":    pair.TokenType,
	})
}
