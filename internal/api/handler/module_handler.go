package handler

import (
	"github.com/gin-gonic/gin"

	"aether-lms/backend/internal/dto"
	"aether-lms/backend/internal/service"
	"aether-lms/backend/pkg/response"
)

// ModuleHandler 章节与课时 HTTP 处理器
type ModuleHandler struct {
	moduleSvc service.ModuleService
}

// NewModuleHandler 创建 ModuleHandler
func NewModuleHandler(moduleSvc service.ModuleService) *ModuleHandler {
	return &ModuleHandler{moduleSvc: moduleSvc}
}

// ── 章节 ──

// CreateModule POST /api/v1/modules
func (h *ModuleHandler) CreateModule(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	var req dto.CreateModuleRequest
	if !bindJSON(c, &req) {
		return
	}

	module, err := h.moduleSvc.Create(c.Request.Context(), actor, &req)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Created(c, module)
}

// GetModule GET /api/v1/modules/:id
func (h *ModuleHandler) GetModule(c *gin.Context) {
	module, err := h.moduleSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	response.OK(c, module)
}

// UpdateModule PATCH /api/v1/modules/:id
func (h *ModuleHandler) UpdateModule(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	var req dto.UpdateModuleRequest
	if !bindJSON(c, &req) {
		return
	}

	module, err := h.moduleSvc.Update(c.Request.Context(), actor, c.Param("id"), &req)
	if err != nil {
		writeError(c, err)
		return
	}

	response.OK(c, module)
}

// DeleteModule 删除章节（仍有课时时拒绝）
// DELETE /api/v1/modules/:id
func (h *ModuleHandler) DeleteModule(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	if err := h.moduleSvc.Delete(c.Request.Context(), actor, c.Param("id")); err != nil {
		writeError(c, err)
		return
	}

	response.OK(c, nil)
}

// ListLessons GET /api/v1/modules/:id/lessons
func (h *ModuleHandler) ListLessons(c *gin.Context) {
	lessons, err := h.moduleSvc.ListLessons(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	response.OK(c, gin.H{"list": lessons})
}

// ── 课时 ──

// CreateLesson POST /api/v1/lessons
func (h *ModuleHandler) CreateLesson(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	var req dto.CreateLessonRequest
	if !bindJSON(c, &req) {
		return
	}

	lesson, err := h.moduleSvc.CreateLesson(c.Request.Context(), actor, &req)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Created(c, lesson)
}

// GetLesson GET /api/v1/lessons/:id
func (h *ModuleHandler) GetLesson(c *gin.Context) {
	lesson, err := h.moduleSvc.GetLesson(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	response.OK(c, lesson)
}

// UpdateLesson PATCH /api/v1/lessons/:id
func (h *ModuleHandler) UpdateLesson(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	var req dto.UpdateLessonRequest
	if !bindJSON(c, &req) {
		return
	}

	lesson, err := h.moduleSvc.UpdateLesson(c.Request.Context(), actor, c.Param("id"), &req)
	if err != nil {
		writeError(c, err)
		return
	}

	response.OK(c, lesson)
}

// DeleteLesson DELETE /api/v1/lessons/:id
func (h *ModuleHandler) DeleteLesson(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	if err := h.moduleSvc.DeleteLesson(c.Request.Context(), actor, c.Param("id")); err != nil {
		writeError(c, err)
		return
	}

	response.OK(c, nil)
}
