package handler

import (
	"github.com/gin-gonic/gin"

	"aether-lms/backend/internal/dto"
	"aether-lms/backend/internal/service"
	"aether-lms/backend/pkg/response"
)

// CourseHandler 课程模块 HTTP 处理器
type CourseHandler struct {
	courseSvc service.CourseService
}

// NewCourseHandler 创建 CourseHandler
func NewCourseHandler(courseSvc service.CourseService) *CourseHandler {
	return &CourseHandler{courseSvc: courseSvc}
}

// ListCourses 上架课程列表（公开）
// GET /api/v1/courses
func (h *CourseHandler) ListCourses(c *gin.Context) {
	courses, err := h.courseSvc.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	response.OK(c, gin.H{"list": courses})
}

// GetCourse 课程详情，含章节与课时（公开）
// GET /api/v1/courses/:id
func (h *CourseHandler) GetCourse(c *gin.Context) {
	course, err := h.courseSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	response.OK(c, course)
}

// ListModules 课程章节（含课时，公开）
// GET /api/v1/courses/:id/modules
func (h *CourseHandler) ListModules(c *gin.Context) {
	modules, err := h.courseSvc.ListModules(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	response.OK(c, gin.H{"list": modules})
}

// CreateCourse 创建课程
// POST /api/v1/courses
func (h *CourseHandler) CreateCourse(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	var req dto.CreateCourseRequest
	if !bindJSON(c, &req) {
		return
	}

	course, err := h.courseSvc.Create(c.Request.Context(), actor, &req)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Created(c, course)
}

// UpdateCourse 更新课程
// PATCH /api/v1/courses/:id
func (h *CourseHandler) UpdateCourse(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	var req dto.UpdateCourseRequest
	if !bindJSON(c, &req) {
		return
	}

	course, err := h.courseSvc.Update(c.Request.Context(), actor, c.Param("id"), &req)
	if err != nil {
		writeError(c, err)
		return
	}

	response.OK(c, course)
}

// DeleteCourse 下架课程（软删除）
// DELETE /api/v1/courses/:id
func (h *CourseHandler) DeleteCourse(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	if err := h.courseSvc.Delete(c.Request.Context(), actor, c.Param("id")); err != nil {
		writeError(c, err)
		return
	}

	response.OK(c, nil)
}
