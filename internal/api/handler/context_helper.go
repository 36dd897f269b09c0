package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"aether-lms/backend/internal/api/middleware"
	"aether-lms/backend/internal/model"
	"aether-lms/backend/internal/policy"
	"aether-lms/backend/pkg/response"
	"aether-lms/backend/pkg/validate"
)

// MustGetActor 从 Gin 上下文中提取当前操作者。
// 如果 JWT 中间件未正确注入 user_id/role，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetActor(c *gin.Context) (policy.Actor, bool) {
	id := c.GetString(middleware.CtxUserID)
	v, exists := c.Get(middleware.CtxRole)
	role, ok := v.(model.Role)
	if id == "" || !exists || !ok {
		response.Unauthorized(c, 10002, "未认证")
		return policy.Actor{}, false
	}
	return policy.Actor{ID: id, Role: role}, true
}

// tokenMeta 当前 Token 的 JTI 与过期时间（登出时使用）
func tokenMeta(c *gin.Context) (string, time.Time) {
	exp, _ := c.Get(middleware.CtxTokenExp)
	expiresAt, _ := exp.(time.Time)
	return c.GetString(middleware.CtxTokenID), expiresAt
}

// bindJSON 绑定并校验请求体，失败时写入 400
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		badRequest(c, err)
		return false
	}
	return true
}

// bindQuery 绑定并校验查询参数，失败时写入 400
func bindQuery(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		badRequest(c, err)
		return false
	}
	return true
}

func badRequest(c *gin.Context, err error) {
	if fields := validate.FieldErrors(err); len(fields) > 0 {
		response.ErrorWithDetails(c, http.StatusBadRequest, 10001, "参数校验失败", strings.Join(fields, "; "))
		return
	}
	response.BadRequest(c, 10001, "参数校验失败")
}

// writeError 按业务错误分类输出；非业务错误记入 c.Errors 由日志中间件输出
func writeError(c *gin.Context, err error) {
	if !response.FromError(c, err) {
		_ = c.Error(err)
	}
}
