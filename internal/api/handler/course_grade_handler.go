package handler

import (
	"github.com/gin-gonic/gin"

	"aether-lms/backend/internal/dto"
	"aether-lms/backend/internal/service"
	"aether-lms/backend/pkg/response"
)

// CourseGradeHandler 课程总评 HTTP 处理器
type CourseGradeHandler struct {
	courseGradeSvc service.CourseGradeService
}

// NewCourseGradeHandler 创建 CourseGradeHandler
func NewCourseGradeHandler(courseGradeSvc service.CourseGradeService) *CourseGradeHandler {
	return &CourseGradeHandler{courseGradeSvc: courseGradeSvc}
}

// CreateCourseGrade POST /api/v1/course-grades
func (h *CourseGradeHandler) CreateCourseGrade(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	var req dto.CreateCourseGradeRequest
	if !bindJSON(c, &req) {
		return
	}

	grade, err := h.courseGradeSvc.Create(c.Request.Context(), actor, &req)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Created(c, grade)
}

// ListCourseGrades GET /api/v1/course-grades
func (h *CourseGradeHandler) ListCourseGrades(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	list, err := h.courseGradeSvc.List(c.Request.Context(), actor)
	if err != nil {
		writeError(c, err)
		return
	}

	response.OK(c, gin.H{"list": list})
}

// ListByStudent GET /api/v1/course-grades/student/:studentId
func (h *CourseGradeHandler) ListByStudent(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	list, err := h.courseGradeSvc.ListByStudent(c.Request.Context(), actor, c.Param("studentId"))
	if err != nil {
		writeError(c, err)
		return
	}

	response.OK(c, gin.H{"list": list})
}

// ListByCourse GET /api/v1/course-grades/course/:courseId
func (h *CourseGradeHandler) ListByCourse(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	list, err := h.courseGradeSvc.ListByCourse(c.Request.Context(), actor, c.Param("courseId"))
	if err != nil {
		writeError(c, err)
		return
	}

	response.OK(c, gin.H{"list": list})
}

// GetCourseGrade GET /api/v1/course-grades/:id
func (h *CourseGradeHandler) GetCourseGrade(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	grade, err := h.courseGradeSvc.GetByID(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	response.OK(c, grade)
}

// UpdateCourseGrade PATCH /api/v1/course-grades/:id
func (h *CourseGradeHandler) UpdateCourseGrade(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	var req dto.UpdateCourseGradeRequest
	if !bindJSON(c, &req) {
		return
	}

	grade, err := h.courseGradeSvc.Update(c.Request.Context(), actor, c.Param("id"), &req)
	if err != nil {
		writeError(c, err)
		return
	}

	response.OK(c, grade)
}

// DeleteCourseGrade 仅管理员
// DELETE /api/v1/course-grades/:id
func (h *CourseGradeHandler) DeleteCourseGrade(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	if err := h.courseGradeSvc.Delete(c.Request.Context(), actor, c.Param("id")); err != nil {
		writeError(c, err)
		return
	}

	response.OK(c, nil)
}
