package model

// User 用户表，对应 users
type User struct {
	UserID       string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	Email        string `gorm:"type:varchar(255);not null;uniqueIndex"          json:"email"`
	PasswordHash string `gorm:"type:varchar(255);not null"                     json:"-"`
	FirstName    string `gorm:"type:varchar(100);not null"                     json:"first_name"`
	LastName     string `gorm:"type:varchar(100);not null"                     json:"last_name"`
	Role         Role   `gorm:"type:varchar(20);not null;default:'STUDENT'"    json:"role"`
	VersionedModel
}

// TableName 指定表名
func (User) TableName() string { return "users" }

// FullName 姓名
func (u *User) FullName() string { return u.FirstName + " " + u.LastName }
