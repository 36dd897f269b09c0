package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"aether-lms/backend/config"
	"aether-lms/backend/internal/model"
	"aether-lms/backend/pkg/jwt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ── 测试辅助 ──

type fakeBlacklist struct {
	revoked map[string]bool
	err     error
}

func (f *fakeBlacklist) IsBlacklisted(_ context.Context, jti string) (bool, error) {
	return f.revoked[jti], f.err
}

type fakeLimiter struct {
	calls int
	limit int
	err   error
}

func (f *fakeLimiter) CheckRateLimit(_ context.Context, _ string, limit int, _ time.Duration) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	f.calls++
	return f.calls <= limit, nil
}

func newJWTManager() *jwt.Manager {
	return jwt.NewManager(&config.AuthConfig{
		JWTSecret:      "test-secret-key-for-unit-testing-2026",
		AccessTokenTTL: time.Hour,
	})
}

// protectedEngine 挂载 JWTAuth 的测试路由，回显注入的上下文
func protectedEngine(mgr *jwt.Manager, bl TokenChecker, extra ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	handlers := append([]gin.HandlerFunc{JWTAuth(mgr, bl, zap.NewNop())}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		role, _ := c.Get(CtxRole)
		c.String(http.StatusOK, c.GetString(CtxUserID)+"|"+string(role.(model.Role)))
	})
	r.GET("/p", handlers...)
	return r
}

func doGet(r *gin.Engine, token string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/p", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	r.ServeHTTP(w, req)
	return w
}

// ── JWTAuth 测试 ──

func TestJWTAuth_Success(t *testing.T) {
	mgr := newJWTManager()
	token, _ := mgr.GenerateAccessToken("u-1", "a@lms.test", "TEACHER")

	w := doGet(protectedEngine(mgr, nil), token)
	if w.Code != http.StatusOK {
		t.Fatalf("期望 200，实际 %d: %s", w.Code, w.Body.String())
	}
	if w.Body.String() != "u-1|TEACHER" {
		t.Errorf("上下文注入不正确: %s", w.Body.String())
	}
}

func TestJWTAuth_MissingOrMalformed(t *testing.T) {
	r := protectedEngine(newJWTManager(), nil)

	if w := doGet(r, ""); w.Code != http.StatusUnauthorized {
		t.Errorf("缺少认证头应返回 401，实际 %d", w.Code)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/p", nil)
	req.Header.Set("Authorization", "Token abc")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("非 Bearer 认证头应返回 401，实际 %d", w.Code)
	}

	if w := doGet(r, "not-a-jwt"); w.Code != http.StatusUnauthorized {
		t.Errorf("无效 Token 应返回 401，实际 %d", w.Code)
	}
}

func TestJWTAuth_Expired(t *testing.T) {
	mgr := jwt.NewManager(&config.AuthConfig{
		JWTSecret:      "test-secret-key-for-unit-testing-2026",
		AccessTokenTTL: -time.Minute,
	})
	token, _ := mgr.GenerateAccessToken("u-1", "a@lms.test", "STUDENT")

	w := doGet(protectedEngine(mgr, nil), token)
	if w.Code != http.StatusUnauthorized || !strings.Contains(w.Body.String(), "过期") {
		t.Errorf("过期 Token 应返回 401 且提示过期，实际 %d: %s", w.Code, w.Body.String())
	}
}

func TestJWTAuth_UnknownRole(t *testing.T) {
	mgr := newJWTManager()
	token, _ := mgr.GenerateAccessToken("u-1", "a@lms.test", "ROOT")

	if w := doGet(protectedEngine(mgr, nil), token); w.Code != http.StatusUnauthorized {
		t.Errorf("未知角色应返回 401，实际 %d", w.Code)
	}
}

func TestJWTAuth_Blacklisted(t *testing.T) {
	mgr := newJWTManager()
	token, _ := mgr.GenerateAccessToken("u-1", "a@lms.test", "STUDENT")
	claims, err := mgr.ParseToken(token)
	if err != nil {
		t.Fatalf("解析 Token 失败: %v", err)
	}

	bl := &fakeBlacklist{revoked: map[string]bool{claims.ID: true}}
	if w := doGet(protectedEngine(mgr, bl), token); w.Code != http.StatusUnauthorized {
		t.Errorf("已注销 Token 应返回 401，实际 %d", w.Code)
	}

	// Redis 故障时降级放行
	bl = &fakeBlacklist{err: errors.New("redis down")}
	if w := doGet(protectedEngine(mgr, bl), token); w.Code != http.StatusOK {
		t.Errorf("黑名单查询失败时应放行，实际 %d", w.Code)
	}
}

// ── RoleAuth 测试 ──

func TestRoleAuth(t *testing.T) {
	mgr := newJWTManager()
	r := protectedEngine(mgr, nil, RoleAuth(model.RoleAdmin))

	admin, _ := mgr.GenerateAccessToken("u-1", "a@lms.test", "ADMIN")
	if w := doGet(r, admin); w.Code != http.StatusOK {
		t.Errorf("管理员应放行，实际 %d", w.Code)
	}
	student, _ := mgr.GenerateAccessToken("u-2", "s@lms.test", "STUDENT")
	if w := doGet(r, student); w.Code != http.StatusForbidden {
		t.Errorf("学生应返回 403，实际 %d", w.Code)
	}
}

// ── RateLimit 测试 ──

func TestRateLimit(t *testing.T) {
	limiter := &fakeLimiter{}
	r := gin.New()
	r.POST("/login", RateLimit(limiter, 2, time.Minute, zap.NewNop()), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
		codes = append(codes, w.Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Errorf("期望 200/200/429，实际 %v", codes)
	}
}

func TestRateLimit_NilLimiterPasses(t *testing.T) {
	r := gin.New()
	r.POST("/login", RateLimit(nil, 1, time.Minute, zap.NewNop()), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("未启用 Redis 时应放行，第 %d 次返回 %d", i+1, w.Code)
		}
	}
}

// ── 其他中间件 ──

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(requestIDKey)) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	r.ServeHTTP(w, req)
	if w.Header().Get(requestIDHeader) != "abc-123" || w.Body.String() != "abc-123" {
		t.Errorf("应沿用传入的 Request-ID，实际 header=%q body=%q", w.Header().Get(requestIDHeader), w.Body.String())
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if len(w.Header().Get(requestIDHeader)) != 36 {
		t.Errorf("缺失时应生成 UUID，实际=%q", w.Header().Get(requestIDHeader))
	}
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"https://app.lms.test/"}))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "https://app.lms.test")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent || w.Header().Get("Access-Control-Allow-Origin") != "https://app.lms.test" {
		t.Errorf("白名单预检应返回 204 并回写 Origin，实际 %d %q", w.Code, w.Header().Get("Access-Control-Allow-Origin"))
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://evil.test")
	r.ServeHTTP(w, req)
	if w.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Error("非白名单 Origin 不应回写允许头")
	}
}

func TestBodyLimit(t *testing.T) {
	r := gin.New()
	r.Use(BodyLimit(8))
	r.POST("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("0123456789")))
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("超限请求体应返回 413，实际 %d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("ok")))
	if w.Code != http.StatusOK {
		t.Errorf("未超限请求应放行，实际 %d", w.Code)
	}
}

func TestLogger_LevelsAndHealthSkip(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	r := gin.New()
	r.Use(RequestID(), Logger(zap.New(core)))
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/items/:id", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))
	if logs.Len() != 0 {
		t.Fatalf("探活成功不应记日志，实际 %d 条", logs.Len())
	}

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/items/42", nil))
	entries := logs.All()
	if len(entries) != 1 || entries[0].Level != zap.WarnLevel {
		t.Fatalf("4xx 应记录 1 条 Warn 日志，实际 %+v", entries)
	}
	fields := entries[0].ContextMap()
	if fields["route"] != "/items/:id" || fields["request_id"] == "" {
		t.Errorf("日志字段不正确: %v", fields)
	}
}
