package model

import "time"

// Assignment 作业表，对应 assignments
type Assignment struct {
	AssignmentID string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"assignment_id"`
	Title        string     `gorm:"type:varchar(200);not null"                     json:"title"`
	Description  string     `gorm:"type:text;not null;default:''"                  json:"description"`
	CourseID     string     `gorm:"type:uuid;not null"                             json:"course_id"`
	ModuleID     *string    `gorm:"type:uuid"                                      json:"module_id,omitempty"`
	MaxScore     float64    `gorm:"type:numeric(8,2);not null;default:100"         json:"max_score"`
	DueDate      *time.Time `                                                      json:"due_date,omitempty"`
	Type         string     `gorm:"type:varchar(50);not null;default:'HOMEWORK'"   json:"type"`
	IsActive     bool       `gorm:"not null;default:true"                          json:"is_active"`
	BaseModel

	// 关联
	Course *Course `gorm:"foreignKey:CourseID;references:CourseID" json:"course,omitempty"`
}

// TableName 指定表名
func (Assignment) TableName() string { return "assignments" }

// IsPastDue now 是否已超过截止时间（未设置截止时间视为永不截止）
func (a *Assignment) IsPastDue(now time.Time) bool {
	return a.DueDate != nil && now.After(*a.DueDate)
}
