package controllers

import (
	"errors"
	"net/http"

	"github.com/SamriekLeeuwin/righthand-ops-hub/forms"
	"github.com/SamriekLeeuwin/righthand-ops-hub/service"
	"github.com/gin-gonic/gin"
)

// UserController handles registration and credential login.
type UserController struct {
	users *service.UserService
}

// NewUserController creates and returns a new UserController instance
func NewUserController(users *service.UserService) *UserController {
	return &UserController{users: users}
}

var userForm = new(forms.UserForm)

// Register handles new user registration requests, validates input and
// creates a new viewer account.
func (ctrl UserController) Register(c *gin.Context) {
	var registerForm forms.RegisterForm

	if err := c.ShouldBindJSON(&registerForm); err != nil {
		message := userForm.Register(err)
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid_input", "message": message})
		return
	}

	user, err := ctrl.users.Register(c.Request.Context(), registerForm)
	if errors.Is(err, service.ErrEmailTaken) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "email_taken", "message": "This email is already registered"})
		return
	}
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal_error", "message": "Something went wrong, please try again later"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"user":    user,
	})
}

// Login handles user authentication requests, validates credentials and
// returns a token pair. Unknown email and wrong password produce the same
// response so the endpoint cannot be used to enumerate accounts.
func (ctrl UserController) Login(c *gin.Context) {
	var loginForm forms.LoginForm

	if err := c.ShouldBindJSON(&loginForm); err != nil {
		message := userForm.Login(err)
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid_input", "message": message})
		return
	}

	user, pair, err := ctrl.users.Login(c.Request.Context(), loginForm)
	if errors.Is(err, service.ErrTooManyAttempts) {
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too_many_attempts", "message": "Too many failed login attempts, please try again later"})
		return
	}
	if errors.Is(err, service.ErrInvalidCredentials) {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_credentials", "message": "Invalid email or password"})
		return
	}
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal_error", "message": "Something went wrong, please try again later"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "Login successful",
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
		"expiresIn":    pair.ExpiresIn,
		"tokenType":    pair.TokenType,
		"user":         user,
	})
}
