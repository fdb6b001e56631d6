package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SamriekLeeuwin/righthand-ops-hub/db"
	"github.com/SamriekLeeuwin/righthand-ops-hub/models"
	"github.com/SamriekLeeuwin/righthand-ops-hub/service"
	"github.com/gin-gonic/gin"
)

// userKey is the gin context key the authenticated identity is stored under.
const userKey = "currentUser"

// CurrentUser returns the identity a preceding auth guard attached to the
// request, if any.
func CurrentUser(c *gin.Context) (models.User, bool) {
	value, exists := c.Get(userKey)
	if !exists {
		return models.User{}, false
	}

	user, ok := value.(models.User)
	return user, ok
}

// RequireAuth authenticates the request from its Authorization header. The
// token must carry the access audience; a refresh token is rejected here. On
// success the resolved user is attached to the context, otherwise the request
// is aborted with a structured {error, message} body.
func RequireAuth(auth *service.AuthService, store db.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, code, status, message := resolveIdentity(c, auth, store)
		if code != "" {
			c.AbortWithStatusJSON(status, gin.H{"error": code, "message": message})
			return
		}

		c.Set(userKey, user)
		c.Next()
	}
}

// OptionalAuth attaches an identity when a valid token is presented but never
// rejects the request. Anonymous callers simply proceed without one.
func OptionalAuth(auth *service.AuthService, store db.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, code, _, _ := resolveIdentity(c, auth, store)
		if code == "" {
			c.Set(userKey, user)
		}
		c.Next()
	}
}

// resolveIdentity runs the shared authentication chain. An empty code means
// success; otherwise code/status/message describe the rejection.
func resolveIdentity(c *gin.Context, auth *service.AuthService, store db.Database) (models.User, string, int, string) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return models.User{}, "missing_authorization", http.StatusUnauthorized, "Authorization header is required"
	}

	token, err := service.ExtractBearerToken(header)
	if err != nil {
		return models.User{}, "invalid_header", http.StatusUnauthorized, "Authorization header must be of the form \"Bearer <token>\""
	}

	claims, err := auth.Verify(token, service.AudienceAccess)
	if errors.Is(err, service.ErrTokenExpired) {
		return models.User{}, "token_expired", http.StatusUnauthorized, "Token has expired, please log in again"
	}
	if err != nil {
		return models.User{}, "invalid_token", http.StatusUnauthorized, "Token is invalid"
	}

	user, err := store.FindByID(c.Request.Context(), claims.UserID)
	if errors.Is(err, db.ErrNotFound) {
		return models.User{}, "user_not_found", http.StatusUnauthorized, "User no longer exists"
	}
	if err != nil {
		slog.Error("failed to resolve authenticated user", "error", err, "user_id", claims.UserID)
		return models.User{}, "internal_error", http.StatusInternalServerError, "Something went wrong, please try again later"
	}

	return user, "", 0, ""
}
