package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gramseva/api/internal/auth"
	"github.com/gramseva/api/internal/model"
	"github.com/gramseva/api/internal/service"
)

type AuthHandler struct {
	lifecycle *service.Lifecycle
	jwtSecret string
}

func NewAuthHandler(lifecycle *service.Lifecycle, jwtSecret string) *AuthHandler {
	return &AuthHandler{lifecycle: lifecycle, jwtSecret: jwtSecret}
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type TokenResponse struct {
	AccessToken string      `json:"accessToken"`
	ExpiresIn   int         `json:"expiresIn"`
	User        *model.User `json:"user"`
}

// Login exchanges a username/password pair for an access token
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
		return
	}

	user, err := h.lifecycle.Authenticate(c.Request.Context(), req.Username, req.Password)
	if errors.Is(err, service.ErrInvalidCredentials) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid username or password"})
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}

	accessToken, err := auth.GenerateAccessToken(user, h.jwtSecret)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, TokenResponse{
		AccessToken: accessToken,
		ExpiresIn:   int(auth.AccessTokenExpiry.Seconds()),
		User:        user,
	})
}

// Me returns the authenticated principal
func (h *AuthHandler) Me(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	user, err := h.lifecycle.GetUser(c.Request.Context(), userID.(string))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}
