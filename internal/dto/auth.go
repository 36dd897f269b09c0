package dto

// ── 认证模块 DTO ──

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RegisterRequest 注册请求（角色固定为 STUDENT）
type RegisterRequest struct {
	Email     string `json:"email"      binding:"required,email,max=255"`
	Password  string `json:"password"   binding:"required,min=6,max=72"`
	FirstName string `json:"first_name" binding:"required,min=1,max=100"`
	LastName  string `json:"last_name"  binding:"required,min=1,max=100"`
}
