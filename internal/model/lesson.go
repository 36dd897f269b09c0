package model

// Lesson 课时表，对应 lessons，(module_id, order) 唯一
type Lesson struct {
	LessonID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"lesson_id"`
	Title    string `gorm:"type:varchar(200);not null"                     json:"title"`
	Content  string `gorm:"type:text;not null;default:''"                  json:"content"`
	Order    int    `gorm:"column:order;not null"                          json:"order"`
	ModuleID string `gorm:"type:uuid;not null"                             json:"module_id"`
	IsActive bool   `gorm:"not null;default:true"                          json:"is_active"`
	BaseModel
}

// TableName 指定表名
func (Lesson) TableName() string { return "lessons" }
