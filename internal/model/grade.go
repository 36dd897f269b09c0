package model

import "time"

// Grade 成绩记录表，对应 grades（GPA 计算来源）
type Grade struct {
	GradeID     string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"grade_id"`
	StudentID   string     `gorm:"type:uuid;not null"                             json:"student_id"`
	CourseID    string     `gorm:"type:uuid;not null"                             json:"course_id"`
	Title       string     `gorm:"type:varchar(200);not null"                     json:"title"`
	Description string     `gorm:"type:text;not null;default:''"                  json:"description"`
	Type        string     `gorm:"type:varchar(50);not null;default:'ASSIGNMENT'" json:"type"`
	Score       float64    `gorm:"type:numeric(8,2);not null"                     json:"score"`
	MaxScore    float64    `gorm:"type:numeric(8,2);not null"                     json:"max_score"`
	DueDate     *time.Time `                                                      json:"due_date,omitempty"`
	SubmittedAt *time.Time `                                                      json:"submitted_at,omitempty"`
	GradedBy    *string    `gorm:"type:uuid"                                      json:"graded_by,omitempty"`
	BaseModel

	// 关联
	Student *User   `gorm:"foreignKey:StudentID;references:UserID"   json:"student,omitempty"`
	Course  *Course `gorm:"foreignKey:CourseID;references:CourseID" json:"course,omitempty"`
}

// TableName 指定表名
func (Grade) TableName() string { return "grades" }

// CourseGrade 课程总评表，对应 course_grades，(student_id, course_id) 唯一
type CourseGrade struct {
	CourseGradeID string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"course_grade_id"`
	StudentID     string  `gorm:"type:uuid;not null"                             json:"student_id"`
	CourseID      string  `gorm:"type:uuid;not null"                             json:"course_id"`
	LetterGrade   string  `gorm:"type:varchar(5);not null"                       json:"letter_grade"`
	Percentage    float64 `gorm:"type:numeric(5,2);not null"                     json:"percentage"`
	Comments      *string `gorm:"type:text"                                      json:"comments,omitempty"`
	GradedBy      *string `gorm:"type:uuid"                                      json:"graded_by,omitempty"`
	BaseModel

	// 关联
	Student *User   `gorm:"foreignKey:StudentID;references:UserID"   json:"student,omitempty"`
	Course  *Course `gorm:"foreignKey:CourseID;references:CourseID" json:"course,omitempty"`
}

// TableName 指定表名
func (CourseGrade) TableName() string { return "course_grades" }

// AssignmentGrade 作业成绩表，对应 assignment_grades，(student_id, assignment_id) 唯一
type AssignmentGrade struct {
	AssignmentGradeID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"assignment_grade_id"`
	StudentID         string    `gorm:"type:uuid;not null"                             json:"student_id"`
	AssignmentID      string    `gorm:"type:uuid;not null"                             json:"assignment_id"`
	CourseID          string    `gorm:"type:uuid;not null"                             json:"course_id"`
	Score             float64   `gorm:"type:numeric(8,2);not null"                     json:"score"`
	MaxScore          float64   `gorm:"type:numeric(8,2);not null"                     json:"max_score"`
	Percentage        float64   `gorm:"type:numeric(5,2);not null"                     json:"percentage"`
	LetterGrade       string    `gorm:"type:varchar(5);not null"                       json:"letter_grade"`
	Feedback          *string   `gorm:"type:text"                                      json:"feedback,omitempty"`
	GradedBy          *string   `gorm:"type:uuid"                                      json:"graded_by,omitempty"`
	GradedAt          time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"graded_at"`
	BaseModel

	// 关联
	Student    *User       `gorm:"foreignKey:StudentID;references:UserID"         json:"student,omitempty"`
	Assignment *Assignment `gorm:"foreignKey:AssignmentID;references:AssignmentID" json:"assignment,omitempty"`
	Course     *Course     `gorm:"foreignKey:CourseID;references:CourseID"       json:"course,omitempty"`
}

// TableName 指定表名
func (AssignmentGrade) TableName() string { return "assignment_grades" }
