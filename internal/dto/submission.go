package dto

import "time"

// ── 提交模块 DTO ──

// CreateSubmissionRequest 提交作业请求（学生本人提交时 StudentID 可省略）
type CreateSubmissionRequest struct {
	AssignmentID string `json:"assignment_id" binding:"required,uuid"`
	StudentID    string `json:"student_id"    binding:"omitempty,uuid"`
	Content      string `json:"content"       binding:"required,min=1"`
}

// UpdateSubmissionRequest 修改提交内容请求
type UpdateSubmissionRequest struct {
	Content string `json:"content" binding:"required,min=1"`
}

// GradeSubmissionRequest 批改请求
type GradeSubmissionRequest struct {
	Score    *float64 `json:"score"    binding:"required,min=0"`
	Feedback *string  `json:"feedback" binding:"omitempty,max=10000"`
}

// SubmissionResponse 提交响应
type SubmissionResponse struct {
	ID           string           `json:"id"`
	StudentID    string           `json:"student_id"`
	Student      *UserBrief       `json:"student,omitempty"`
	AssignmentID string           `json:"assignment_id"`
	Assignment   *AssignmentBrief `json:"assignment,omitempty"`
	Content      string           `json:"content"`
	Score        *float64         `json:"score"`
	Feedback     *string          `json:"feedback"`
	State        string           `json:"state"`
	SubmittedAt  time.Time        `json:"submitted_at"`
	GradedAt     *time.Time       `json:"graded_at"`
}

// AssignmentBrief 关联展示用的作业简要信息
type AssignmentBrief struct {
	ID       string       `json:"id"`
	Title    string       `json:"title"`
	MaxScore float64      `json:"max_score"`
	Course   *CourseBrief `json:"course,omitempty"`
}
