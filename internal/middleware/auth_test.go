package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"trailhunt_backend/internal/config"
	"trailhunt_backend/internal/model"
	"trailhunt_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type fakeDeviceVerifier struct {
	device string
	err    error
}

func (f *fakeDeviceVerifier) CurrentDeviceID(userID uint) (string, error) {
	return f.device, f.err
}

func testConfig() *config.Config {
	return &config.Config{JWT: config.JWTConfig{Secret: "test-secret"}}
}

func signToken(t *testing.T, userID uint, role model.UserRole, deviceID string) string {
	t.Helper()
	user := &model.User{Username: "runner", Role: role}
	user.ID = userID
	token, err := util.GenerateJWT(user, deviceID, "test-secret", time.Hour)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func newRouter(cfg *config.Config, devices DeviceVerifier, extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := append([]gin.HandlerFunc{AuthMiddleware(cfg, devices)}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	r.GET("/protected", handlers...)
	return r
}

func TestAuthMiddlewareMatchingDevice(t *testing.T) {
	cfg := testConfig()
	r := newRouter(cfg, &fakeDeviceVerifier{device: "device-1"})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, 1, model.Participant, "device-1"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestAuthMiddlewareSupersededDevice(t *testing.T) {
	cfg := testConfig()
	// 库里的当前设备已经被新登录改写
	r := newRouter(cfg, &fakeDeviceVerifier{device: "device-2"})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, 1, model.Participant, "device-1"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	var resp util.Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if !resp.SessionExpired {
		t.Fatal("superseded session must set sessionExpired so the client can distinguish it from bad credentials")
	}
}

func TestAuthMiddlewareMissingToken(t *testing.T) {
	cfg := testConfig()
	r := newRouter(cfg, &fakeDeviceVerifier{device: "device-1"})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	var resp util.Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if resp.SessionExpired {
		t.Fatal("a plain missing token is not a superseded session")
	}
}

func TestAuthMiddlewareBadToken(t *testing.T) {
	cfg := testConfig()
	r := newRouter(cfg, &fakeDeviceVerifier{device: "device-1"})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestRoleMiddlewareBlocksParticipant(t *testing.T) {
	cfg := testConfig()
	r := newRouter(cfg, &fakeDeviceVerifier{device: "device-1"}, RoleMiddleware(model.Admin))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, 1, model.Participant, "device-1"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for participant on admin route, got %d", w.Code)
	}
}

func TestRoleMiddlewareAllowsAdmin(t *testing.T) {
	cfg := testConfig()
	r := newRouter(cfg, &fakeDeviceVerifier{device: "device-1"}, RoleMiddleware(model.Admin))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, 1, model.Admin, "device-1"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin, got %d", w.Code)
	}
}

func TestTokenMiddlewareSkipsDeviceCheck(t *testing.T) {
	cfg := testConfig()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/logout", TokenMiddleware(cfg), func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	// 设备已被顶替，logout 仍然要放行
	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, 1, model.Participant, "stale-device"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("superseded device must still be able to log out, got %d", w.Code)
	}
}
