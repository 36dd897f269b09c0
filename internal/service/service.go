package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"aether-lms/backend/config"
	"aether-lms/backend/internal/repository"
	"aether-lms/backend/pkg/jwt"
)

// TokenBlacklist 登出 Token 黑名单（由 Redis 实现，未启用时为 nil）
type TokenBlacklist interface {
	BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error
	IsBlacklisted(ctx context.Context, jti string) (bool, error)
}

// Service 所有 Service 的聚合入口
type Service struct {
	Auth            AuthService
	User            UserService
	Course          CourseService
	Module          ModuleService
	Assignment      AssignmentService
	Enrollment      EnrollmentService
	Submission      SubmissionService
	Grade           GradeService
	CourseGrade     CourseGradeService
	AssignmentGrade AssignmentGradeService
	Dashboard       DashboardService
	Export          ExportService
}

// NewService 创建 Service 聚合
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	blacklist TokenBlacklist,
	logger *zap.Logger,
) *Service {
	return &Service{
		Auth:            NewAuthService(cfg, repo, jwtMgr, blacklist, logger),
		User:            NewUserService(repo, logger),
		Course:          NewCourseService(repo, logger),
		Module:          NewModuleService(repo, logger),
		Assignment:      NewAssignmentService(repo, logger),
		Enrollment:      NewEnrollmentService(repo, logger),
		Submission:      NewSubmissionService(repo, logger),
		Grade:           NewGradeService(repo, logger),
		CourseGrade:     NewCourseGradeService(repo, logger),
		AssignmentGrade: NewAssignmentGradeService(repo, logger),
		Dashboard:       NewDashboardService(repo, logger),
		Export:          NewExportService(cfg, repo, logger),
	}
}
