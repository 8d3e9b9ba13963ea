package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/batchtrack/backend/internal/infrastructure/auth"
	"github.com/batchtrack/backend/internal/infrastructure/config"
	"github.com/batchtrack/backend/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTService(expiration time.Duration) *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                "test-secret-key-at-least-32-chars",
		AccessTokenExpiration: expiration,
		Issuer:                "test-issuer",
	})
}

func issueToken(t *testing.T, svc *auth.JWTService) string {
	t.Helper()
	token, err := svc.GenerateAccessToken("admin")
	require.NoError(t, err)
	return token.AccessToken
}

type failingBlacklist struct{}

func (failingBlacklist) AddToBlacklist(context.Context, string, time.Duration) error {
	return errors.New("redis down")
}

func (failingBlacklist) IsBlacklisted(context.Context, string) (bool, error) {
	return false, errors.New("redis down")
}

func newAuthRouter(cfg JWTMiddlewareConfig) *gin.Engine {
	router := gin.New()
	router.Use(JWTAuthMiddlewareWithConfig(cfg))
	router.GET("/admin", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"username": GetJWTUsername(c),
			"subject":  logger.GetSubject(c.Request.Context()),
		})
	})
	router.GET("/public", okHandler)
	return router
}

func doGet(router *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set(AuthHeaderKey, token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestJWTAuthMiddleware(t *testing.T) {
	svc := newTestJWTService(15 * time.Minute)
	router := newAuthRouter(JWTMiddlewareConfig{JWTService: svc, SkipPaths: []string{"/public"}})

	t.Run("valid token", func(t *testing.T) {
		w := doGet(router, "/admin", BearerPrefix+issueToken(t, svc))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"username":"admin","subject":"admin"}`, w.Body.String())
	})

	t.Run("missing header", func(t *testing.T) {
		w := doGet(router, "/admin", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "ERR_TOKEN_INVALID")
	})

	t.Run("wrong scheme", func(t *testing.T) {
		w := doGet(router, "/admin", "Basic abc")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		w := doGet(router, "/admin", BearerPrefix+"not.a.jwt")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "ERR_TOKEN_INVALID")
	})

	t.Run("token signed with another secret", func(t *testing.T) {
		other := auth.NewJWTService(config.JWTConfig{
			Secret:                "another-secret-key-at-least-32-ch",
			AccessTokenExpiration: time.Minute,
			Issuer:                "test-issuer",
		})
		w := doGet(router, "/admin", BearerPrefix+issueToken(t, other))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("skip path", func(t *testing.T) {
		w := doGet(router, "/public", "")
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestJWTAuthMiddleware_Expired(t *testing.T) {
	svc := newTestJWTService(-time.Minute)
	router := newAuthRouter(JWTMiddlewareConfig{JWTService: svc})

	w := doGet(router, "/admin", BearerPrefix+issueToken(t, svc))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "ERR_TOKEN_EXPIRED")
}

func TestJWTAuthMiddleware_Blacklist(t *testing.T) {
	svc := newTestJWTService(15 * time.Minute)

	t.Run("revoked token", func(t *testing.T) {
		blacklist := auth.NewInMemoryTokenBlacklist()
		router := newAuthRouter(JWTMiddlewareConfig{JWTService: svc, TokenBlacklist: blacklist})

		token := issueToken(t, svc)
		claims, err := svc.ValidateAccessToken(token)
		require.NoError(t, err)
		require.NoError(t, blacklist.AddToBlacklist(context.Background(), claims.ID, time.Minute))

		w := doGet(router, "/admin", BearerPrefix+token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "ERR_TOKEN_REVOKED")
	})

	t.Run("blacklist failure fails open", func(t *testing.T) {
		router := newAuthRouter(JWTMiddlewareConfig{JWTService: svc, TokenBlacklist: failingBlacklist{}})

		w := doGet(router, "/admin", BearerPrefix+issueToken(t, svc))
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
