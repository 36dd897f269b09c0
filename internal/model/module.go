package model

// Module 章节表，对应 modules，(course_id, order) 唯一
type Module struct {
	ModuleID    string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"module_id"`
	Title       string `gorm:"type:varchar(200);not null"                     json:"title"`
	Description string `gorm:"type:text;not null;default:''"                  json:"description"`
	Order       int    `gorm:"column:order;not null"                          json:"order"`
	CourseID    string `gorm:"type:uuid;not null"                             json:"course_id"`
	IsActive    bool   `gorm:"not null;default:true"                          json:"is_active"`
	BaseModel

	// 关联
	Lessons []Lesson `gorm:"foreignKey:ModuleID;references:ModuleID" json:"lessons,omitempty"`
}

// TableName 指定表名
func (Module) TableName() string { return "modules" }
