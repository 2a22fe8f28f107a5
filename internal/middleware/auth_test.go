package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"qurio_backend/internal/config"
	"qurio_backend/internal/model"
	"qurio_backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCfg() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			Secret:     "test-secret-0123456789abcdef-0123456789",
			ExpireTime: time.Hour,
		},
	}
}

func tokenFor(t *testing.T, cfg *config.Config, role model.UserRole) string {
	t.Helper()
	user := &model.User{Name: "Andi", Username: "andi", Role: role}
	user.ID = 7
	token, err := util.GenerateJWT(user, cfg.JWT.Secret, cfg.JWT.ExpireTime)
	require.NoError(t, err)
	return token
}

func newTestRouter(cfg *config.Config, roles ...model.UserRole) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	group := router.Group("/", AuthMiddleware(cfg))
	if len(roles) > 0 {
		group.Use(RoleMiddleware(roles...))
	}
	group.GET("/ping", func(c *gin.Context) {
		claims := util.GetUserFromContext(c)
		util.Success(c, gin.H{"userId": claims.UserID})
	})
	return router
}

func TestAuthMiddlewareRejectsMissingToken(t *testing.T) {
	router := newTestRouter(testCfg())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var body util.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.NotEmpty(t, body.Message)
}

func TestAuthMiddlewareRejectsBadToken(t *testing.T) {
	router := newTestRouter(testCfg())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Authorization", "Bearer bukan-token")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareAcceptsValidToken(t *testing.T) {
	cfg := testCfg()
	router := newTestRouter(cfg)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, cfg, model.Participant))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var body util.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
}

func TestRoleMiddleware(t *testing.T) {
	cfg := testCfg()
	router := newTestRouter(cfg, model.Author)

	// 参与者不能访问作者路由
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, cfg, model.Participant))
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// 作者可以
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, cfg, model.Author))
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	// 管理员对角色路由直接放行
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, cfg, model.Admin))
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
