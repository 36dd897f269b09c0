package model

import "time"

// SubmissionState 提交生命周期：SUBMITTED → GRADED（重新评分仍为 GRADED）
type SubmissionState string

const (
	SubmissionSubmitted SubmissionState = "SUBMITTED"
	SubmissionGraded    SubmissionState = "GRADED"
)

// Submission 作业提交表，对应 submissions，(student_id, assignment_id) 唯一
type Submission struct {
	SubmissionID string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"submission_id"`
	StudentID    string     `gorm:"type:uuid;not null"                             json:"student_id"`
	AssignmentID string     `gorm:"type:uuid;not null"                             json:"assignment_id"`
	Content      string     `gorm:"type:text;not null"                             json:"content"`
	Score        *float64   `gorm:"type:numeric(8,2)"                              json:"score"`
	Feedback     *string    `gorm:"type:text"                                      json:"feedback"`
	SubmittedAt  time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"submitted_at"`
	GradedAt     *time.Time `                                                      json:"graded_at"`
	GradedBy     *string    `gorm:"type:uuid"                                      json:"graded_by,omitempty"`
	BaseModel

	// 关联
	Assignment *Assignment `gorm:"foreignKey:AssignmentID;references:AssignmentID" json:"assignment,omitempty"`
	Student    *User       `gorm:"foreignKey:StudentID;references:UserID"         json:"student,omitempty"`
}

// TableName 指定表名
func (Submission) TableName() string { return "submissions" }

// State 当前生命周期状态
func (s *Submission) State() SubmissionState {
	if s.Score != nil {
		return SubmissionGraded
	}
	return SubmissionSubmitted
}
