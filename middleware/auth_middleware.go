package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	cache "github.com/patrickmn/go-cache"

	"portfolio/api/logger"
	"portfolio/api/utils"
)

const (
	TokenCookieName = "jwt_token"
	apiKeyHeader    = "X-API-KEY"

	// Context keys set for authenticated requests.
	UserIDKey    = "user_id"
	UserEmailKey = "user_email"
)

// Authenticator guards the dashboard routes. A request passes with the static API key
// or a valid, unrevoked JWT from the jwt_token cookie or an Authorization: Bearer header.
type Authenticator struct {
	secret    []byte
	apiKey    string
	validated *cache.Cache // token -> *utils.Claims
	revoked   *cache.Cache // jti -> struct{}
}

func NewAuthenticator(secret []byte, apiKey string) *Authenticator {
	return &Authenticator{
		secret:    secret,
		apiKey:    apiKey,
		validated: cache.New(5*time.Minute, 10*time.Minute),
		revoked:   cache.New(24*time.Hour, time.Hour),
	}
}

// TokenFromRequest returns the JWT carried by the cookie, falling back to the
// Authorization header. Empty when neither is present.
func TokenFromRequest(c *gin.Context) string {
	if token, err := c.Cookie(TokenCookieName); err == nil && token != "" {
		return token
	}
	return strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
}

func (a *Authenticator) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if key := c.GetHeader(apiKeyHeader); a.apiKey != "" && key != "" &&
			subtle.ConstantTimeCompare([]byte(key), []byte(a.apiKey)) == 1 {
			c.Next()
			return
		}

		tokenString := TokenFromRequest(c)
		if tokenString == "" {
			logger.Debug().Str("path", c.FullPath()).Msg("No JWT token found in cookie or header")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: No token provided"})
			return
		}

		claims, err := a.validate(tokenString)
		if err != nil {
			logger.Debug().Err(err).Msg("Rejected JWT token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: Invalid or expired token"})
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(UserEmailKey, claims.Email)
		c.Next()
	}
}

func (a *Authenticator) validate(tokenString string) (*utils.Claims, error) {
	if cached, found := a.validated.Get(tokenString); found {
		claims := cached.(*utils.Claims)
		if _, revoked := a.revoked.Get(claims.ID); !revoked && claims.ExpiresAt.After(time.Now()) {
			return claims, nil
		}
		a.validated.Delete(tokenString)
	}

	claims, err := utils.ValidateJWT(tokenString, a.secret)
	if err != nil {
		return nil, err
	}
	if _, revoked := a.revoked.Get(claims.ID); revoked {
		return nil, errTokenRevoked
	}

	ttl := min(time.Until(claims.ExpiresAt.Time), 5*time.Minute)
	if ttl > 0 {
		a.validated.Set(tokenString, claims, ttl)
	}
	return claims, nil
}

// Revoke rejects tokenString for the rest of its lifetime. Invalid tokens are ignored.
func (a *Authenticator) Revoke(tokenString string) {
	claims, err := utils.ValidateJWT(tokenString, a.secret)
	if err != nil {
		return
	}
	a.validated.Delete(tokenString)
	if ttl := time.Until(claims.ExpiresAt.Time); ttl > 0 {
		a.revoked.Set(claims.ID, struct{}{}, ttl)
	}
	logger.Info().Int("user_id", claims.UserID).Msg("Token revoked")
}
