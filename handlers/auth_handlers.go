// api/handlers/auth_handlers.go
package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"portfolio/api/logger"
	"portfolio/api/middleware"
	"portfolio/api/models"
	"portfolio/api/store"
	"portfolio/api/utils"
)

type UserRepository interface {
	CreateUser(ctx context.Context, email string, hashedPassword []byte) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	CountUsers(ctx context.Context) (int, error)
}

type TokenRevoker interface {
	Revoke(tokenString string)
}

type AuthHandlers struct {
	Users        UserRepository
	Revoker      TokenRevoker
	Secret       []byte
	TokenTTL     time.Duration
	CookieSecure bool
}

func NewAuthHandlers(users UserRepository, revoker TokenRevoker, secret []byte, ttl time.Duration, cookieSecure bool) *AuthHandlers {
	return &AuthHandlers{
		Users:        users,
		Revoker:      revoker,
		Secret:       secret,
		TokenTTL:     ttl,
		CookieSecure: cookieSecure,
	}
}

// Login handles admin authentication and JWT cookie issuance.
func (h *AuthHandlers) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), queryTimeout)
	defer cancel()

	user, err := h.Users.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if !errors.Is(err, store.ErrUserNotFound) {
			logger.Error().Err(err).Msg("Failed to look up user during login")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process login"})
			return
		}
		logger.Info().Str("email", req.Email).Msg("Login failed: unknown email")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	if err := bcrypt.CompareHashAndPassword(user.HashedPassword, []byte(req.Password)); err != nil {
		logger.Info().Str("email", req.Email).Msg("Login failed: password mismatch")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	tokenString, err := utils.GenerateJWT(user, h.Secret, h.TokenTTL)
	if err != nil {
		logger.Error().Err(err).Int("user_id", user.ID).Msg("Failed to generate JWT")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate authentication token"})
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.TokenCookieName, tokenString, int(h.TokenTTL/time.Second), "/", "", h.CookieSecure, true)

	logger.Info().Int("user_id", user.ID).Msg("User logged in")
	c.JSON(http.StatusOK, gin.H{
		"message":    "Login successful",
		"user_email": user.Email,
		"token":      tokenString,
	})
}

// Logout clears the cookie and revokes the presented token if there is one.
func (h *AuthHandlers) Logout(c *gin.Context) {
	if token := middleware.TokenFromRequest(c); token != "" {
		h.Revoker.Revoke(token)
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.TokenCookieName, "", -1, "/", "", h.CookieSecure, true)

	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// BootstrapAdmin makes sure the configured admin account exists. With no email
// configured it only warns when the users table is empty, since nobody could log in.
func BootstrapAdmin(ctx context.Context, users UserRepository, email, password string) error {
	if email == "" {
		n, err := users.CountUsers(ctx)
		if err != nil {
			return fmt.Errorf("failed to count users: %w", err)
		}
		if n == 0 {
			logger.Warn().Msg("No admin user exists and ADMIN_EMAIL is not set; dashboard login is disabled")
		}
		return nil
	}

	_, err := users.GetUserByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, store.ErrUserNotFound) {
		return fmt.Errorf("failed to look up admin user: %w", err)
	}
	if password == "" {
		return fmt.Errorf("admin user %s does not exist and ADMIN_PASSWORD is not set", email)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	user, err := users.CreateUser(ctx, email, hashed)
	if err != nil && !errors.Is(err, store.ErrUserExists) {
		return fmt.Errorf("failed to create admin user: %w", err)
	}
	if user != nil {
		logger.Info().Int("user_id", user.ID).Str("email", user.Email).Msg("Admin user created")
	}
	return nil
}
