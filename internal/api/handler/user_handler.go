package handler

import (
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"aether-lms/backend/internal/dto"
	"aether-lms/backend/internal/service"
	"aether-lms/backend/pkg/response"
)

// maxImportFileSize 批量导入文件大小上限
const maxImportFileSize = 5 << 20

// UserHandler 用户模块 HTTP 处理器（管理员）
type UserHandler struct {
	userSvc service.UserService
}

// NewUserHandler 创建 UserHandler
func NewUserHandler(userSvc service.UserService) *UserHandler {
	return &UserHandler{userSvc: userSvc}
}

// ListUsers 用户列表（分页，可按角色过滤）
// GET /api/v1/users
func (h *UserHandler) ListUsers(c *gin.Context) {
	var req dto.UserListRequest
	if !bindQuery(c, &req) {
		return
	}

	users, total, err := h.userSvc.List(c.Request.Context(), &req)
	if err != nil {
		writeError(c, err)
		return
	}

	response.OKPage(c, users, total, req.GetPage(), req.GetPageSize())
}

// CreateUser 创建用户
// POST /api/v1/users
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req dto.CreateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.userSvc.Create(c.Request.Context(), &req)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Created(c, user)
}

// GetUser 用户详情
// GET /api/v1/users/:id
func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.userSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	response.OK(c, user)
}

// UpdateUser 更新用户资料
// PATCH /api/v1/users/:id
func (h *UserHandler) UpdateUser(c *gin.Context) {
	var req dto.UpdateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.userSvc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		writeError(c, err)
		return
	}

	response.OK(c, user)
}

// DeleteUser 删除用户（不能删除自己）
// DELETE /api/v1/users/:id
func (h *UserHandler) DeleteUser(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	if err := h.userSvc.Delete(c.Request.Context(), actor, c.Param("id")); err != nil {
		writeError(c, err)
		return
	}

	response.OK(c, nil)
}

// ChangeRole 变更用户角色（管理员名额上限在 Service 层校验）
// PATCH /api/v1/users/:id/role
func (h *UserHandler) ChangeRole(c *gin.Context) {
	var req dto.ChangeRoleRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.userSvc.ChangeRole(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		writeError(c, err)
		return
	}

	response.OK(c, result)
}

// ResetPassword 重置为临时密码
// POST /api/v1/users/:id/reset-password
func (h *UserHandler) ResetPassword(c *gin.Context) {
	result, err := h.userSvc.ResetPassword(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	response.OK(c, result)
}

// ImportUsers 通过 Excel 批量导入用户
// POST /api/v1/users/import (multipart, 字段名 file)
func (h *UserHandler) ImportUsers(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, 10001, "请上传 Excel 文件（字段名 file）")
		return
	}
	if !strings.EqualFold(filepath.Ext(fh.Filename), ".xlsx") {
		response.BadRequest(c, 10006, "仅支持 .xlsx 文件")
		return
	}
	if fh.Size > maxImportFileSize {
		response.BadRequest(c, 10006, "文件大小不能超过 5MB")
		return
	}

	file, err := fh.Open()
	if err != nil {
		response.BadRequest(c, 10006, "无法读取上传文件")
		return
	}
	defer file.Close()

	rows, err := h.userSvc.ParseImportFile(file)
	if err != nil {
		response.BadRequest(c, 10006, err.Error())
		return
	}

	result, err := h.userSvc.ImportUsers(c.Request.Context(), rows)
	if err != nil {
		writeError(c, err)
		return
	}

	response.OK(c, result)
}
