package handler

import (
	"github.com/gin-gonic/gin"

	"aether-lms/backend/internal/dto"
	"aether-lms/backend/internal/service"
	"aether-lms/backend/pkg/response"
)

// GradeHandler 成绩记录与作业成绩 HTTP 处理器
type GradeHandler struct {
	gradeSvc           service.GradeService
	assignmentGradeSvc service.AssignmentGradeService
}

// NewGradeHandler 创建 GradeHandler
func NewGradeHandler(gradeSvc service.GradeService, assignmentGradeSvc service.AssignmentGradeService) *GradeHandler {
	return &GradeHandler{gradeSvc: gradeSvc, assignmentGradeSvc: assignmentGradeSvc}
}

// ── 成绩记录 ──

// CreateGrade POST /api/v1/grades
func (h *GradeHandler) CreateGrade(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	var req dto.CreateGradeRequest
	if !bindJSON(c, &req) {
		return
	}

	grade, err := h.gradeSvc.Create(c.Request.Context(), actor, &req)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Created(c, grade)
}

// GetGrade GET /api/v1/grades/:id
func (h *GradeHandler) GetGrade(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	grade, err := h.gradeSvc.GetByID(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	response.OK(c, grade)
}

// ListByStudent GET /api/v1/grades/student/:studentId
func (h *GradeHandler) ListByStudent(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	list, err := h.gradeSvc.ListByStudent(c.Request.Context(), actor, c.Param("studentId"))
	if err != nil {
		writeError(c, err)
		return
	}

	response.OK(c, gin.H{"list": list})
}

// ListByCourse GET /api/v1/grades/course/:courseId
func (h *GradeHandler) ListByCourse(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	list, err := h.gradeSvc.ListByCourse(c.Request.Context(), actor, c.Param("courseId"))
	if err != nil {
		writeError(c, err)
		return
	}

	response.OK(c, gin.H{"list": list})
}

// GetStudentGPA 学分加权 GPA
// GET /api/v1/grades/student/:studentId/gpa
func (h *GradeHandler) GetStudentGPA(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	gpa, err := h.gradeSvc.GetStudentGPA(c.Request.Context(), actor, c.Param("studentId"))
	if err != nil {
		writeError(c, err)
		return
	}

	response.OK(c, gpa)
}

// UpdateGrade PATCH /api/v1/grades/:id
func (h *GradeHandler) UpdateGrade(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	var req dto.UpdateGradeRequest
	if !bindJSON(c, &req) {
		return
	}

	grade, err := h.gradeSvc.Update(c.Request.Context(), actor, c.Param("id"), &req)
	if err != nil {
		writeError(c, err)
		return
	}

	response.OK(c, grade)
}

// DeleteGrade DELETE /api/v1/grades/:id
func (h *GradeHandler) DeleteGrade(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	if err := h.gradeSvc.Delete(c.Request.Context(), actor, c.Param("id")); err != nil {
		writeError(c, err)
		return
	}

	response.OK(c, nil)
}

// ── 作业成绩 ──

// RecordAssignmentGrade 登记（覆盖）作业成绩
// POST /api/v1/assignment-grades
func (h *GradeHandler) RecordAssignmentGrade(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	var req dto.RecordAssignmentGradeRequest
	if !bindJSON(c, &req) {
		return
	}

	grade, err := h.assignmentGradeSvc.Record(c.Request.Context(), actor, &req)
	if err != nil {
		writeError(c, err)
		return
	}

	response.OK(c, grade)
}

// ListAssignmentGrades GET /api/v1/assignment-grades?student_id=&course_id=&assignment_id=
func (h *GradeHandler) ListAssignmentGrades(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	var req dto.AssignmentGradeListRequest
	if !bindQuery(c, &req) {
		return
	}

	list, err := h.assignmentGradeSvc.List(c.Request.Context(), actor, &req)
	if err != nil {
		writeError(c, err)
		return
	}

	response.OK(c, gin.H{"list": list})
}
