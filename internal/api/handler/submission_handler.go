package handler

import (
	"github.com/gin-gonic/gin"

	"aether-lms/backend/internal/dto"
	"aether-lms/backend/internal/service"
	"aether-lms/backend/pkg/response"
)

// SubmissionHandler 作业提交 HTTP 处理器
type SubmissionHandler struct {
	submissionSvc service.SubmissionService
}

// NewSubmissionHandler 创建 SubmissionHandler
func NewSubmissionHandler(submissionSvc service.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{submissionSvc: submissionSvc}
}

// Submit 学生提交作业
// POST /api/v1/submissions
func (h *SubmissionHandler) Submit(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	var req dto.CreateSubmissionRequest
	if !bindJSON(c, &req) {
		return
	}

	submission, err := h.submissionSvc.Submit(c.Request.Context(), actor, &req)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Created(c, submission)
}

// ListSubmissions GET /api/v1/submissions
func (h *SubmissionHandler) ListSubmissions(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	list, err := h.submissionSvc.List(c.Request.Context(), actor)
	if err != nil {
		writeError(c, err)
		return
	}

	response.OK(c, gin.H{"list": list})
}

// ListByAssignment GET /api/v1/submissions/assignment/:assignmentId
func (h *SubmissionHandler) ListByAssignment(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	list, err := h.submissionSvc.ListByAssignment(c.Request.Context(), actor, c.Param("assignmentId"))
	if err != nil {
		writeError(c, err)
		return
	}

	response.OK(c, gin.H{"list": list})
}

// GetSubmission GET /api/v1/submissions/:id
func (h *SubmissionHandler) GetSubmission(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	submission, err := h.submissionSvc.GetByID(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	response.OK(c, submission)
}

// UpdateSubmission 修改提交内容（本人、未批改）
// PATCH /api/v1/submissions/:id
func (h *SubmissionHandler) UpdateSubmission(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	var req dto.UpdateSubmissionRequest
	if !bindJSON(c, &req) {
		return
	}

	submission, err := h.submissionSvc.Update(c.Request.Context(), actor, c.Param("id"), &req)
	if err != nil {
		writeError(c, err)
		return
	}

	response.OK(c, submission)
}

// GradeSubmission 批改
// POST /api/v1/submissions/:id/grade
func (h *SubmissionHandler) GradeSubmission(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	var req dto.GradeSubmissionRequest
	if !bindJSON(c, &req) {
		return
	}

	submission, err := h.submissionSvc.Grade(c.Request.Context(), actor, c.Param("id"), &req)
	if err != nil {
		writeError(c, err)
		return
	}

	response.OK(c, submission)
}

// DeleteSubmission DELETE /api/v1/submissions/:id
func (h *SubmissionHandler) DeleteSubmission(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	if err := h.submissionSvc.Delete(c.Request.Context(), actor, c.Param("id")); err != nil {
		writeError(c, err)
		return
	}

	response.OK(c, nil)
}
