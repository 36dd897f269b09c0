package dto

import "time"

// ── 作业模块 DTO ──

// CreateAssignmentRequest 创建作业请求
type CreateAssignmentRequest struct {
	Title       string     `json:"title"       binding:"required,min=1,max=200"`
	Description string     `json:"description" binding:"omitempty,max=10000"`
	CourseID    string     `json:"course_id"   binding:"required,uuid"`
	ModuleID    *string    `json:"module_id"   binding:"omitempty,uuid"`
	MaxScore    *float64   `json:"max_score"   binding:"omitempty,min=0"`
	DueDate     *time.Time `json:"due_date"`
	Type        string     `json:"type"        binding:"omitempty,max=50"`
}

// UpdateAssignmentRequest 更新作业请求
type UpdateAssignmentRequest struct {
	Title       *string    `json:"title"       binding:"omitempty,min=1,max=200"`
	Description *string    `json:"description" binding:"omitempty,max=10000"`
	ModuleID    *string    `json:"module_id"   binding:"omitempty,uuid"`
	MaxScore    *float64   `json:"max_score"   binding:"omitempty,min=0"`
	DueDate     *time.Time `json:"due_date"`
	Type        *string    `json:"type"        binding:"omitempty,max=50"`
	IsActive    *bool      `json:"is_active"`
}

// AssignmentResponse 作业响应
type AssignmentResponse struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	CourseID    string       `json:"course_id"`
	Course      *CourseBrief `json:"course,omitempty"`
	ModuleID    *string      `json:"module_id,omitempty"`
	MaxScore    float64      `json:"max_score"`
	DueDate     *time.Time   `json:"due_date,omitempty"`
	Type        string       `json:"type"`
	IsActive    bool         `json:"is_active"`
	CreatedAt   time.Time    `json:"created_at"`
}
