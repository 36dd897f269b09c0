package handler

import (
	"github.com/gin-gonic/gin"

	"aether-lms/backend/internal/dto"
	"aether-lms/backend/internal/service"
	"aether-lms/backend/pkg/response"
)

// AssignmentHandler 作业模块 HTTP 处理器
type AssignmentHandler struct {
	assignmentSvc service.AssignmentService
}

// NewAssignmentHandler 创建 AssignmentHandler
func NewAssignmentHandler(assignmentSvc service.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{assignmentSvc: assignmentSvc}
}

// CreateAssignment POST /api/v1/assignments
func (h *AssignmentHandler) CreateAssignment(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	var req dto.CreateAssignmentRequest
	if !bindJSON(c, &req) {
		return
	}

	assignment, err := h.assignmentSvc.Create(c.Request.Context(), actor, &req)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Created(c, assignment)
}

// ListAssignments 作业列表，按角色收窄范围，可选 course_id 过滤
// GET /api/v1/assignments?course_id=xxx
func (h *AssignmentHandler) ListAssignments(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	list, err := h.assignmentSvc.List(c.Request.Context(), actor, c.Query("course_id"))
	if err != nil {
		writeError(c, err)
		return
	}

	response.OK(c, gin.H{"list": list})
}

// GetAssignment GET /api/v1/assignments/:id
func (h *AssignmentHandler) GetAssignment(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	assignment, err := h.assignmentSvc.GetByID(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	response.OK(c, assignment)
}

// UpdateAssignment PATCH /api/v1/assignments/:id
func (h *AssignmentHandler) UpdateAssignment(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	var req dto.UpdateAssignmentRequest
	if !bindJSON(c, &req) {
		return
	}

	assignment, err := h.assignmentSvc.Update(c.Request.Context(), actor, c.Param("id"), &req)
	if err != nil {
		writeError(c, err)
		return
	}

	response.OK(c, assignment)
}

// DeleteAssignment 删除作业（已有提交时拒绝）
// DELETE /api/v1/assignments/:id
func (h *AssignmentHandler) DeleteAssignment(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	if err := h.assignmentSvc.Delete(c.Request.Context(), actor, c.Param("id")); err != nil {
		writeError(c, err)
		return
	}

	response.OK(c, nil)
}
