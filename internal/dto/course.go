package dto

import "time"

// ── 课程模块 DTO ──

// CreateCourseRequest 创建课程请求
// 教师创建时 TeacherID 忽略（本人为授课教师）；管理员创建时必填
type CreateCourseRequest struct {
	Title       string `json:"title"       binding:"required,min=1,max=200"`
	Description string `json:"description" binding:"omitempty,max=5000"`
	Code        string `json:"code"        binding:"required,min=1,max=50"`
	Credits     *int   `json:"credits"     binding:"omitempty,min=1,max=6"`
	TeacherID   string `json:"teacher_id"  binding:"omitempty,uuid"`
}

// UpdateCourseRequest 更新课程请求
type UpdateCourseRequest struct {
	Title       *string `json:"title"       binding:"omitempty,min=1,max=200"`
	Description *string `json:"description" binding:"omitempty,max=5000"`
	Code        *string `json:"code"        binding:"omitempty,min=1,max=50"`
	Credits     *int    `json:"credits"     binding:"omitempty,min=1,max=6"`
	TeacherID   *string `json:"teacher_id"  binding:"omitempty,uuid"`
	IsActive    *bool   `json:"is_active"`
}

// CourseResponse 课程响应
type CourseResponse struct {
	ID              string           `json:"id"`
	Title           string           `json:"title"`
	Description     string           `json:"description"`
	Code            string           `json:"code"`
	Credits         int              `json:"credits"`
	TeacherID       string           `json:"teacher_id"`
	Teacher         *UserBrief       `json:"teacher,omitempty"`
	IsActive        bool             `json:"is_active"`
	EnrollmentCount int64            `json:"enrollment_count"`
	ModuleCount     int64            `json:"module_count"`
	Modules         []ModuleResponse `json:"modules,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
}

// ── 章节 / 课时 ──

// CreateModuleRequest 创建章节请求
type CreateModuleRequest struct {
	Title       string `json:"title"       binding:"required,min=1,max=200"`
	Description string `json:"description" binding:"omitempty,max=5000"`
	Order       int    `json:"order"       binding:"required,min=1"`
	CourseID    string `json:"course_id"   binding:"required,uuid"`
}

// UpdateModuleRequest 更新章节请求
type UpdateModuleRequest struct {
	Title       *string `json:"title"       binding:"omitempty,min=1,max=200"`
	Description *string `json:"description" binding:"omitempty,max=5000"`
	Order       *int    `json:"order"       binding:"omitempty,min=1"`
	IsActive    *bool   `json:"is_active"`
}

// ModuleResponse 章节响应
type ModuleResponse struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Order       int              `json:"order"`
	CourseID    string           `json:"course_id"`
	IsActive    bool             `json:"is_active"`
	Lessons     []LessonResponse `json:"lessons"`
}

// CreateLessonRequest 创建课时请求
type CreateLessonRequest struct {
	Title    string `json:"title"     binding:"required,min=1,max=200"`
	Content  string `json:"content"   binding:"omitempty"`
	Order    int    `json:"order"     binding:"required,min=1"`
	ModuleID string `json:"module_id" binding:"required,uuid"`
}

// UpdateLessonRequest 更新课时请求
type UpdateLessonRequest struct {
	Title    *string `json:"title"     binding:"omitempty,min=1,max=200"`
	Content  *string `json:"content"`
	Order    *int    `json:"order"     binding:"omitempty,min=1"`
	IsActive *bool   `json:"is_active"`
}

// LessonResponse 课时响应
type LessonResponse struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Content  string `json:"content"`
	Order    int    `json:"order"`
	ModuleID string `json:"module_id"`
	IsActive bool   `json:"is_active"`
}
