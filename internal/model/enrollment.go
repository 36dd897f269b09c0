package model

import (
	"fmt"
	"time"
)

// EnrollmentStatus 选课状态
type EnrollmentStatus string

const (
	EnrollmentActive    EnrollmentStatus = "ACTIVE"
	EnrollmentCompleted EnrollmentStatus = "COMPLETED"
	EnrollmentDropped   EnrollmentStatus = "DROPPED"
	EnrollmentPending   EnrollmentStatus = "PENDING"
)

// ParseEnrollmentStatus 解析选课状态
func ParseEnrollmentStatus(s string) (EnrollmentStatus, error) {
	switch EnrollmentStatus(s) {
	case EnrollmentActive, EnrollmentCompleted, EnrollmentDropped, EnrollmentPending:
		return EnrollmentStatus(s), nil
	default:
		return "", fmt.Errorf("未知选课状态: %q", s)
	}
}

// Enrollment 选课表，对应 enrollments，(student_id, course_id) 唯一
type Enrollment struct {
	EnrollmentID string           `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"enrollment_id"`
	StudentID    string           `gorm:"type:uuid;not null"                             json:"student_id"`
	CourseID     string           `gorm:"type:uuid;not null"                             json:"course_id"`
	Status       EnrollmentStatus `gorm:"type:varchar(20);not null;default:'ACTIVE'"     json:"status"`
	EnrolledAt   time.Time        `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"enrolled_at"`
	BaseModel

	// 关联
	Student *User   `gorm:"foreignKey:StudentID;references:UserID"   json:"student,omitempty"`
	Course  *Course `gorm:"foreignKey:CourseID;references:CourseID" json:"course,omitempty"`
}

// TableName 指定表名
func (Enrollment) TableName() string { return "enrollments" }
