package dto

import "time"

// ── 选课模块 DTO ──

// CreateEnrollmentRequest 选课请求（学生为本人选课时 StudentID 可省略）
type CreateEnrollmentRequest struct {
	StudentID string  `json:"student_id" binding:"omitempty,uuid"`
	CourseID  string  `json:"course_id"  binding:"required,uuid"`
	Status    *string `json:"status"     binding:"omitempty,enrollment_status"`
}

// UpdateEnrollmentRequest 更新选课状态请求
type UpdateEnrollmentRequest struct {
	Status string `json:"status" binding:"required,enrollment_status"`
}

// EnrollmentResponse 选课响应
type EnrollmentResponse struct {
	ID         string       `json:"id"`
	StudentID  string       `json:"student_id"`
	Student    *UserBrief   `json:"student,omitempty"`
	CourseID   string       `json:"course_id"`
	Course     *CourseBrief `json:"course,omitempty"`
	Status     string       `json:"status"`
	EnrolledAt time.Time    `json:"enrolled_at"`
}
