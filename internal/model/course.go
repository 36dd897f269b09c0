package model

// Course 课程表，对应 courses
// IsActive=false 表示已下架（软删除）
type Course struct {
	CourseID    string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"course_id"`
	Title       string `gorm:"type:varchar(200);not null"                     json:"title"`
	Description string `gorm:"type:text;not null;default:''"                  json:"description"`
	Code        string `gorm:"type:varchar(50);not null;uniqueIndex"          json:"code"`
	Credits     int    `gorm:"not null;default:3"                             json:"credits"`
	TeacherID   string `gorm:"type:uuid;not null"                             json:"teacher_id"`
	IsActive    bool   `gorm:"not null;default:true"                          json:"is_active"`
	BaseModel

	// 关联
	Teacher *User    `gorm:"foreignKey:TeacherID;references:UserID" json:"teacher,omitempty"`
	Modules []Module `gorm:"foreignKey:CourseID;references:CourseID" json:"modules,omitempty"`
}

// TableName 指定表名
func (Course) TableName() string { return "courses" }

// 课程学分范围
const (
	MinCredits     = 1
	MaxCredits     = 6
	DefaultCredits = 3
)
