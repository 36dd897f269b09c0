package model

import "fmt"

// Role 用户角色（封闭枚举）。新增角色时所有 switch 需同步补齐。
type Role string

const (
	RoleStudent Role = "STUDENT"
	RoleTeacher Role = "TEACHER"
	RoleAdmin   Role = "ADMIN"
)

// MaxAdmins 系统内 ADMIN 用户数量上限
const MaxAdmins = 5

// Roles 全部角色（用于统计与校验）
var Roles = []Role{RoleStudent, RoleTeacher, RoleAdmin}

// ParseRole 解析角色字符串，未知角色返回错误
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleStudent, RoleTeacher, RoleAdmin:
		return Role(s), nil
	default:
		return "", fmt.Errorf("未知角色: %q", s)
	}
}

// Valid 是否为合法角色
func (r Role) Valid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}

func (r Role) String() string { return string(r) }
