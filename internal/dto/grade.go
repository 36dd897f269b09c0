package dto

import "time"

// ── 成绩记录 ──

// CreateGradeRequest 创建成绩记录请求
type CreateGradeRequest struct {
	StudentID   string     `json:"student_id"  binding:"required,uuid"`
	CourseID    string     `json:"course_id"   binding:"required,uuid"`
	Title       string     `json:"title"       binding:"required,min=1,max=200"`
	Description string     `json:"description" binding:"omitempty,max=5000"`
	Type        string     `json:"type"        binding:"omitempty,max=50"`
	Score       *float64   `json:"score"       binding:"required,min=0"`
	MaxScore    float64    `json:"max_score"   binding:"required,gt=0"`
	DueDate     *time.Time `json:"due_date"`
}

// UpdateGradeRequest 更新成绩记录请求
type UpdateGradeRequest struct {
	Title       *string    `json:"title"       binding:"omitempty,min=1,max=200"`
	Description *string    `json:"description" binding:"omitempty,max=5000"`
	Type        *string    `json:"type"        binding:"omitempty,max=50"`
	Score       *float64   `json:"score"       binding:"omitempty,min=0"`
	MaxScore    *float64   `json:"max_score"   binding:"omitempty,gt=0"`
	DueDate     *time.Time `json:"due_date"`
}

// GradeResponse 成绩记录响应
type GradeResponse struct {
	ID          string       `json:"id"`
	StudentID   string       `json:"student_id"`
	Student     *UserBrief   `json:"student,omitempty"`
	CourseID    string       `json:"course_id"`
	Course      *CourseBrief `json:"course,omitempty"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Type        string       `json:"type"`
	Score       float64      `json:"score"`
	MaxScore    float64      `json:"max_score"`
	DueDate     *time.Time   `json:"due_date,omitempty"`
	SubmittedAt *time.Time   `json:"submitted_at,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
}

// GPAResponse 学生 GPA（4 分制，按学分加权）
type GPAResponse struct {
	GPA          float64 `json:"gpa"`
	TotalCredits int     `json:"total_credits"`
	TotalGrades  int     `json:"total_grades"`
}

// ── 课程总评 ──

// CreateCourseGradeRequest 创建课程总评请求
type CreateCourseGradeRequest struct {
	StudentID   string   `json:"student_id"   binding:"required,uuid"`
	CourseID    string   `json:"course_id"    binding:"required,uuid"`
	LetterGrade string   `json:"letter_grade" binding:"required,min=1,max=5"`
	Percentage  *float64 `json:"percentage"   binding:"required,min=0,max=100"`
	Comments    *string  `json:"comments"     binding:"omitempty,max=5000"`
}

// UpdateCourseGradeRequest 更新课程总评请求
type UpdateCourseGradeRequest struct {
	LetterGrade *string  `json:"letter_grade" binding:"omitempty,min=1,max=5"`
	Percentage  *float64 `json:"percentage"   binding:"omitempty,min=0,max=100"`
	Comments    *string  `json:"comments"     binding:"omitempty,max=5000"`
}

// CourseGradeResponse 课程总评响应
type CourseGradeResponse struct {
	ID          string       `json:"id"`
	StudentID   string       `json:"student_id"`
	Student     *UserBrief   `json:"student,omitempty"`
	CourseID    string       `json:"course_id"`
	Course      *CourseBrief `json:"course,omitempty"`
	LetterGrade string       `json:"letter_grade"`
	Percentage  float64      `json:"percentage"`
	Comments    *string      `json:"comments,omitempty"`
	GradedBy    *string      `json:"graded_by,omitempty"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// ── 作业成绩 ──

// RecordAssignmentGradeRequest 登记作业成绩请求（同一学生同一作业重复登记即覆盖）
type RecordAssignmentGradeRequest struct {
	StudentID    string   `json:"student_id"    binding:"required,uuid"`
	AssignmentID string   `json:"assignment_id" binding:"required,uuid"`
	Score        *float64 `json:"score"         binding:"required,min=0"`
	Feedback     *string  `json:"feedback"      binding:"omitempty,max=10000"`
}

// AssignmentGradeListRequest 作业成绩查询参数
type AssignmentGradeListRequest struct {
	StudentID    string `form:"student_id"    binding:"omitempty,uuid"`
	CourseID     string `form:"course_id"     binding:"omitempty,uuid"`
	AssignmentID string `form:"assignment_id" binding:"omitempty,uuid"`
}

// AssignmentGradeResponse 作业成绩响应
type AssignmentGradeResponse struct {
	ID           string           `json:"id"`
	StudentID    string           `json:"student_id"`
	Student      *UserBrief       `json:"student,omitempty"`
	AssignmentID string           `json:"assignment_id"`
	Assignment   *AssignmentBrief `json:"assignment,omitempty"`
	CourseID     string           `json:"course_id"`
	Score        float64          `json:"score"`
	MaxScore     float64          `json:"max_score"`
	Percentage   float64          `json:"percentage"`
	LetterGrade  string           `json:"letter_grade"`
	Feedback     *string          `json:"feedback,omitempty"`
	GradedAt     time.Time        `json:"graded_at"`
}
