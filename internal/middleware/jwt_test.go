package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/prepnest/prepnest-backend/internal/config"
	"github.com/prepnest/prepnest-backend/internal/middleware"
	"github.com/prepnest/prepnest-backend/internal/model"
	"github.com/prepnest/prepnest-backend/internal/service"
)

func newAuthService() *service.AuthService {
	cfg := &config.Config{JWTSecret: "test-secret", JWTExpiry: time.Hour}
	return service.NewAuthService(cfg, nil, nil, zerolog.Nop())
}

func signToken(t *testing.T, authService *service.AuthService, user *model.User) string {
	t.Helper()
	token, err := authService.GenerateToken(user)
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}
	return token
}

func protectedRouter(authService *service.AuthService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/private", middleware.RequireJWT(authService), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": middleware.GetClaims(c).UserID})
	})
	r.GET("/admin", middleware.RequireJWT(authService), middleware.RequireAdmin(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	r.GET("/open", middleware.OptionalJWT(authService, zerolog.Nop()), func(c *gin.Context) {
		identity := middleware.Identity(c)
		if id, ok := identity.UserID(); ok {
			c.JSON(http.StatusOK, gin.H{"user_id": id})
			return
		}
		c.JSON(http.StatusOK, gin.H{"guest": true})
	})
	return r
}

func doRequest(r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireJWT(t *testing.T) {
	authService := newAuthService()
	r := protectedRouter(authService)

	if w := doRequest(r, "/private", ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", w.Code)
	}
	if w := doRequest(r, "/private", "garbage"); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for invalid token, got %d", w.Code)
	}

	token := signToken(t, authService, &model.User{ID: 42, Role: model.RoleUser})
	if w := doRequest(r, "/private", token); w.Code != http.StatusOK {
		t.Fatalf("expected 200 with valid token, got %d: %s", w.Code, w.Body.String())
	}
}

func TestRequireAdmin(t *testing.T) {
	authService := newAuthService()
	r := protectedRouter(authService)

	userToken := signToken(t, authService, &model.User{ID: 1, Role: model.RoleUser})
	if w := doRequest(r, "/admin", userToken); w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin, got %d", w.Code)
	}

	adminToken := signToken(t, authService, &model.User{ID: 2, Role: model.RoleAdmin})
	if w := doRequest(r, "/admin", adminToken); w.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin, got %d", w.Code)
	}
}

func TestOptionalJWT(t *testing.T) {
	authService := newAuthService()
	r := protectedRouter(authService)

	if w := doRequest(r, "/open", ""); w.Code != http.StatusOK {
		t.Fatalf("expected 200 without token, got %d", w.Code)
	}

	// An expired or garbage token is ignored, not rejected.
	if w := doRequest(r, "/open", "garbage"); w.Code != http.StatusOK {
		t.Fatalf("expected 200 with invalid token, got %d", w.Code)
	}

	token := signToken(t, authService, &model.User{ID: 42, Role: model.RoleUser})
	w := doRequest(r, "/open", token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 with valid token, got %d", w.Code)
	}
	if body := w.Body.String(); body != `{"user_id":42}` {
		t.Fatalf("expected authenticated identity, got %s", body)
	}
}
