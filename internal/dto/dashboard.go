package dto

import "time"

// ── 仪表盘 ──

// DashboardType 仪表盘类型（按角色）
type DashboardType string

const (
	DashboardStudent DashboardType = "student"
	DashboardTeacher DashboardType = "teacher"
	DashboardAdmin   DashboardType = "admin"
)

// DashboardResponse 按角色分发的仪表盘，Type 决定哪个视图非空
type DashboardResponse struct {
	Type    DashboardType     `json:"type"`
	Student *StudentDashboard `json:"student,omitempty"`
	Teacher *TeacherDashboard `json:"teacher,omitempty"`
	Admin   *AdminDashboard   `json:"admin,omitempty"`
}

// StudentSummary 学生概览
type StudentSummary struct {
	TotalCourses         int64   `json:"total_courses"`
	CompletedAssignments int64   `json:"completed_assignments"`
	UpcomingAssignments  int64   `json:"upcoming_assignments"`
	AverageGrade         float64 `json:"average_grade"`
}

// StudentDashboard 学生视图
type StudentDashboard struct {
	Summary           StudentSummary        `json:"summary"`
	RecentEnrollments []EnrollmentResponse  `json:"recent_enrollments"`
	RecentAssignments []AssignmentResponse  `json:"recent_assignments"`
	RecentSubmissions []SubmissionResponse  `json:"recent_submissions"`
	RecentGrades      []CourseGradeResponse `json:"recent_grades"`
}

// TeacherSummary 教师概览
type TeacherSummary struct {
	TotalCourses       int   `json:"total_courses"`
	TotalStudents      int64 `json:"total_students"`
	PendingSubmissions int64 `json:"pending_submissions"`
}

// TeacherDashboard 教师视图
type TeacherDashboard struct {
	Summary            TeacherSummary            `json:"summary"`
	Courses            []CourseResponse          `json:"courses"`
	PendingSubmissions []SubmissionResponse      `json:"pending_submissions"`
	RecentGrades       []AssignmentGradeResponse `json:"recent_grades"`
	UpcomingDueDates   []AssignmentResponse      `json:"upcoming_due_dates"`
}

// AdminSummary 管理员概览
type AdminSummary struct {
	TotalUsers       int64 `json:"total_users"`
	TotalCourses     int64 `json:"total_courses"`
	TotalEnrollments int64 `json:"total_enrollments"`
	PendingApprovals int64 `json:"pending_approvals"`
}

// AdminDashboard 管理员视图
type AdminDashboard struct {
	Summary       AdminSummary     `json:"summary"`
	UsersByRole   map[string]int64 `json:"users_by_role"`
	RecentUsers   []UserResponse   `json:"recent_users"`
	RecentCourses []CourseResponse `json:"recent_courses"`
}

// ── 反馈 ──

// FeedbackKind 反馈来源
type FeedbackKind string

const (
	FeedbackAssignmentGrade FeedbackKind = "assignment_grade"
	FeedbackSubmission      FeedbackKind = "submission"
	FeedbackCourseGrade     FeedbackKind = "course_grade"
)

// FeedbackItem 统一的反馈条目，Kind 标识来源
type FeedbackItem struct {
	Kind           FeedbackKind `json:"kind"`
	ID             string       `json:"id"`
	Title          string       `json:"title"`
	Feedback       string       `json:"feedback"`
	Score          *float64     `json:"score,omitempty"`
	MaxScore       *float64     `json:"max_score,omitempty"`
	Percentage     *float64     `json:"percentage,omitempty"`
	LetterGrade    string       `json:"letter_grade,omitempty"`
	AssignmentType string       `json:"assignment_type,omitempty"`
	Course         *CourseBrief `json:"course,omitempty"`
	Date           time.Time    `json:"date"`
}

// FeedbackSummary 各来源计数
type FeedbackSummary struct {
	TotalFeedback      int `json:"total_feedback"`
	AssignmentFeedback int `json:"assignment_feedback"`
	SubmissionFeedback int `json:"submission_feedback"`
	CourseFeedback     int `json:"course_feedback"`
}

// FeedbackResponse 最近反馈
type FeedbackResponse struct {
	RecentFeedback []FeedbackItem  `json:"recent_feedback"`
	Summary        FeedbackSummary `json:"summary"`
}

// ── 待办 ──

// TodoKind 待办类型
type TodoKind string

const (
	TodoAssignment TodoKind = "assignment"
	TodoFeedback   TodoKind = "feedback"
)

// TodoPriority 待办优先级
type TodoPriority string

const (
	PriorityHigh   TodoPriority = "high"
	PriorityMedium TodoPriority = "medium"
	PriorityLow    TodoPriority = "low"
)

// TodoItem 统一的待办条目
type TodoItem struct {
	Kind        TodoKind     `json:"kind"`
	Priority    TodoPriority `json:"priority"`
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Course      *CourseBrief `json:"course,omitempty"`
	DueDate     *time.Time   `json:"due_date,omitempty"`
	SubmittedAt *time.Time   `json:"submitted_at,omitempty"`
}

// TodoResponse 待办列表
type TodoResponse struct {
	PendingAssignments []TodoItem `json:"pending_assignments"`
	UpcomingDueDates   []TodoItem `json:"upcoming_due_dates"`
	PendingFeedback    []TodoItem `json:"pending_feedback"`
}
