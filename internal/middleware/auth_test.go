package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/ssp-api/internal/models"
	"github.com/noah-isme/ssp-api/internal/service"
)

func newProtectedRouter(tokens *service.TokenService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/catalog/sections", JWT(tokens), RequireRoles(models.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})
	return router
}

func callWithToken(router *gin.Engine, header string) int {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/catalog/sections", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	router.ServeHTTP(w, req)
	return w.Code
}

func TestJWTAndRBAC(t *testing.T) {
	tokens := service.NewTokenService("test-secret")
	router := newProtectedRouter(tokens)

	admin, err := tokens.Issue("u-1", models.RoleAdmin, "admin@example.edu", time.Hour)
	require.NoError(t, err)
	root, err := tokens.Issue("u-2", models.RoleRoot, "root@example.edu", time.Hour)
	require.NoError(t, err)
	student, err := tokens.Issue("u-3", models.RoleStudent, "student@example.edu", time.Hour)
	require.NoError(t, err)
	expired, err := tokens.Issue("u-1", models.RoleAdmin, "admin@example.edu", -time.Minute)
	require.NoError(t, err)
	foreign, err := service.NewTokenService("other-secret").Issue("u-1", models.RoleAdmin, "", time.Hour)
	require.NoError(t, err)

	assert.Equal(t, http.StatusCreated, callWithToken(router, "Bearer "+admin))
	assert.Equal(t, http.StatusCreated, callWithToken(router, "bearer "+root))
	assert.Equal(t, http.StatusForbidden, callWithToken(router, "Bearer "+student))
	assert.Equal(t, http.StatusUnauthorized, callWithToken(router, "Bearer "+expired))
	assert.Equal(t, http.StatusUnauthorized, callWithToken(router, "Bearer "+foreign))
	assert.Equal(t, http.StatusUnauthorized, callWithToken(router, ""))
	assert.Equal(t, http.StatusUnauthorized, callWithToken(router, "Token "+admin))
}

func TestRBACWithoutClaims(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/", RBAC(string(models.RoleAdmin)), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestOptionalJWTAttachesValidClaims(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tokens := service.NewTokenService("test-secret")
	token, err := tokens.Issue("u-9", models.RoleStudent, "", time.Hour)
	require.NoError(t, err)

	var seen *models.JWTClaims
	router := gin.New()
	router.GET("/", OptionalJWT(tokens), func(c *gin.Context) {
		if v, ok := c.Get(ContextUserKey); ok {
			seen = v.(*models.JWTClaims)
		}
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)
	require.NotNil(t, seen)
	assert.Equal(t, "u-9", seen.UserID)

	seen = nil
	w = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, seen)
}

func TestResponseMetaCarriesTimingAndRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var meta map[string]interface{}
	router := gin.New()
	router.Use(WithResponseMeta())
	router.GET("/", func(c *gin.Context) {
		SetMeta(c, "source", "catalog")
		meta = ExtractMeta(c)
		c.Status(http.StatusOK)
	})

	req, _ := http.NewRequest(http.MethodGet, "/", nil)
	router.ServeHTTP(httptest.NewRecorder(), req)
	require.NotNil(t, meta)
	assert.Equal(t, "catalog", meta["source"])
	assert.Contains(t, meta, processingTimeMs)
}
