package handler

import (
	"github.com/gin-gonic/gin"

	"aether-lms/backend/internal/dto"
	"aether-lms/backend/internal/service"
	"aether-lms/backend/pkg/response"
)

// EnrollmentHandler 选课模块 HTTP 处理器
type EnrollmentHandler struct {
	enrollmentSvc service.EnrollmentService
}

// NewEnrollmentHandler 创建 EnrollmentHandler
func NewEnrollmentHandler(enrollmentSvc service.EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{enrollmentSvc: enrollmentSvc}
}

// Enroll 选课（学生为本人选课，教师/管理员可为学生选课）
// POST /api/v1/enrollments
func (h *EnrollmentHandler) Enroll(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	var req dto.CreateEnrollmentRequest
	if !bindJSON(c, &req) {
		return
	}

	enrollment, err := h.enrollmentSvc.Enroll(c.Request.Context(), actor, &req)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Created(c, enrollment)
}

// ListEnrollments GET /api/v1/enrollments
func (h *EnrollmentHandler) ListEnrollments(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	list, err := h.enrollmentSvc.List(c.Request.Context(), actor)
	if err != nil {
		writeError(c, err)
		return
	}

	response.OK(c, gin.H{"list": list})
}

// ListByStudent GET /api/v1/enrollments/student/:studentId
func (h *EnrollmentHandler) ListByStudent(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	list, err := h.enrollmentSvc.ListByStudent(c.Request.Context(), actor, c.Param("studentId"))
	if err != nil {
		writeError(c, err)
		return
	}

	response.OK(c, gin.H{"list": list})
}

// ListByCourse GET /api/v1/enrollments/course/:courseId
func (h *EnrollmentHandler) ListByCourse(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	list, err := h.enrollmentSvc.ListByCourse(c.Request.Context(), actor, c.Param("courseId"))
	if err != nil {
		writeError(c, err)
		return
	}

	response.OK(c, gin.H{"list": list})
}

// GetEnrollment GET /api/v1/enrollments/:id
func (h *EnrollmentHandler) GetEnrollment(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	enrollment, err := h.enrollmentSvc.GetByID(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	response.OK(c, enrollment)
}

// UpdateStatus PATCH /api/v1/enrollments/:id
func (h *EnrollmentHandler) UpdateStatus(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	var req dto.UpdateEnrollmentRequest
	if !bindJSON(c, &req) {
		return
	}

	enrollment, err := h.enrollmentSvc.UpdateStatus(c.Request.Context(), actor, c.Param("id"), &req)
	if err != nil {
		writeError(c, err)
		return
	}

	response.OK(c, enrollment)
}

// DeleteEnrollment 退课 / 移除选课记录
// DELETE /api/v1/enrollments/:id
func (h *EnrollmentHandler) DeleteEnrollment(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	if err := h.enrollmentSvc.Delete(c.Request.Context(), actor, c.Param("id")); err != nil {
		writeError(c, err)
		return
	}

	response.OK(c, nil)
}
