package dto

import "time"

// ── 用户模块 DTO ──

// UserListRequest 用户列表查询参数
type UserListRequest struct {
	PaginationRequest
	Role string `form:"role" binding:"omitempty,lms_role"`
}

// CreateUserRequest 管理员创建用户请求
type CreateUserRequest struct {
	Email     string `json:"email"      binding:"required,email,max=255"`
	Password  string `json:"password"   binding:"required,min=6,max=72"`
	FirstName string `json:"first_name" binding:"required,min=1,max=100"`
	LastName  string `json:"last_name"  binding:"required,min=1,max=100"`
	Role      string `json:"role"       binding:"omitempty,lms_role"`
}

// UpdateUserRequest 更新用户信息请求（角色变更走 ChangeRole）
type UpdateUserRequest struct {
	Email     *string `json:"email"      binding:"omitempty,email,max=255"`
	Password  *string `json:"password"   binding:"omitempty,min=6,max=72"`
	FirstName *string `json:"first_name" binding:"omitempty,min=1,max=100"`
	LastName  *string `json:"last_name"  binding:"omitempty,min=1,max=100"`
}

// ChangeRoleRequest 变更角色请求
type ChangeRoleRequest struct {
	Role   string  `json:"role"   binding:"required,lms_role"`
	Reason *string `json:"reason" binding:"omitempty,max=500"`
}

// ChangeRoleResponse 变更角色响应
type ChangeRoleResponse struct {
	Message      string       `json:"message"`
	User         UserResponse `json:"user"`
	PreviousRole string       `json:"previous_role"`
	NewRole      string       `json:"new_role"`
	Reason       *string      `json:"reason,omitempty"`
	ChangedAt    time.Time    `json:"changed_at"`
}

// ImportUserError 导入失败行
type ImportUserError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// ImportUserResponse 批量导入结果
type ImportUserResponse struct {
	Total   int               `json:"total"`
	Success int               `json:"success"`
	Failed  int               `json:"failed"`
	Errors  []ImportUserError `json:"errors,omitempty"`
	Created []ImportedUser    `json:"created,omitempty"`
}

// ImportedUser 导入成功的用户及其临时密码
type ImportedUser struct {
	Row          int    `json:"row"`
	Email        string `json:"email"`
	TempPassword string `json:"temp_password"`
}

// ResetPasswordResponse 重置密码结果
type ResetPasswordResponse struct {
	TempPassword string `json:"temp_password"`
}
