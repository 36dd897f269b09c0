package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"aether-lms/backend/internal/dto"
	"aether-lms/backend/internal/model"
	"aether-lms/backend/internal/policy"
	"aether-lms/backend/internal/repository"
)

// ModuleService 章节与课时业务接口
type ModuleService interface {
	Create(ctx context.Context, actor policy.Actor, req *dto.CreateModuleRequest) (*dto.ModuleResponse, error)
	GetByID(ctx context.Context, id string) (*dto.ModuleResponse, error)
	Update(ctx context.Context, actor policy.Actor, id string, req *dto.UpdateModuleRequest) (*dto.ModuleResponse, error)
	// Delete 章节下仍有课时时返回 ErrModuleHasLessons
	Delete(ctx context.Context, actor policy.Actor, id string) error

	CreateLesson(ctx context.Context, actor policy.Actor, req *dto.CreateLessonRequest) (*dto.LessonResponse, error)
	GetLesson(ctx context.Context, id string) (*dto.LessonResponse, error)
	ListLessons(ctx context.Context, moduleID string) ([]dto.LessonResponse, error)
	UpdateLesson(ctx context.Context, actor policy.Actor, id string, req *dto.UpdateLessonRequest) (*dto.LessonResponse, error)
	DeleteLesson(ctx context.Context, actor policy.Actor, id string) error
}

type moduleService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewModuleService 创建 ModuleService 实例
func NewModuleService(repo *repository.Repository, logger *zap.Logger) ModuleService {
	return &moduleService{repo: repo, logger: logger}
}

// ────────────────────── Module ──────────────────────

func (s *moduleService) Create(ctx context.Context, actor policy.Actor, req *dto.CreateModuleRequest) (*dto.ModuleResponse, error) {
	course, err := loadCourse(ctx, s.repo, req.CourseID)
	if err != nil {
		return nil, err
	}
	if err := authorizeCourse(actor, policy.ActionManageCourse, course); err != nil {
		return nil, err
	}

	module := &model.Module{
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Order:       req.Order,
		CourseID:    course.CourseID,
		IsActive:    true,
	}

	// (course_id, order) 唯一性由数据库约束保证
	if err := s.repo.Module.Create(ctx, module); err != nil {
		if isDuplicate(err) {
			return nil, ErrModuleOrderExists
		}
		s.logger.Error("创建章节失败", zap.Error(err))
		return nil, err
	}

	resp := toModuleResponse(module)
	return &resp, nil
}

func (s *moduleService) GetByID(ctx context.Context, id string) (*dto.ModuleResponse, error) {
	module, err := loadModule(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}
	resp := toModuleResponse(module)
	return &resp, nil
}

func (s *moduleService) Update(ctx context.Context, actor policy.Actor, id string, req *dto.UpdateModuleRequest) (*dto.ModuleResponse, error) {
	module, err := s.authorizeModule(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		module.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		module.Description = *req.Description
	}
	if req.Order != nil {
		module.Order = *req.Order
	}
	if req.IsActive != nil {
		module.IsActive = *req.IsActive
	}

	if err := s.repo.Module.Update(ctx, module); err != nil {
		if isDuplicate(err) {
			return nil, ErrModuleOrderExists
		}
		s.logger.Error("更新章节失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	resp := toModuleResponse(module)
	return &resp, nil
}

func (s *moduleService) Delete(ctx context.Context, actor policy.Actor, id string) error {
	if _, err := s.authorizeModule(ctx, actor, id); err != nil {
		return err
	}

	n, err := s.repo.Module.CountLessons(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return ErrModuleHasLessons
	}

	// 计数与删除之间并发新增的课时由外键 RESTRICT 拦截
	if err := s.repo.Module.Delete(ctx, id); err != nil {
		if isForeignKeyViolated(err) {
			return ErrModuleHasLessons
		}
		s.logger.Error("删除章节失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// authorizeModule 加载章节并按所属课程判定管理权限
func (s *moduleService) authorizeModule(ctx context.Context, actor policy.Actor, id string) (*model.Module, error) {
	module, err := loadModule(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}
	course, err := loadCourse(ctx, s.repo, module.CourseID)
	if err != nil {
		return nil, err
	}
	if err := authorizeCourse(actor, policy.ActionManageCourse, course); err != nil {
		return nil, err
	}
	return module, nil
}

// ────────────────────── Lesson ──────────────────────

func (s *moduleService) CreateLesson(ctx context.Context, actor policy.Actor, req *dto.CreateLessonRequest) (*dto.LessonResponse, error) {
	if _, err := s.authorizeModule(ctx, actor, req.ModuleID); err != nil {
		return nil, err
	}

	lesson := &model.Lesson{
		Title:    strings.TrimSpace(req.Title),
		Content:  req.Content,
		Order:    req.Order,
		ModuleID: req.ModuleID,
		IsActive: true,
	}

	if err := s.repo.Lesson.Create(ctx, lesson); err != nil {
		if isDuplicate(err) {
			return nil, ErrLessonOrderExists
		}
		s.logger.Error("创建课时失败", zap.Error(err))
		return nil, err
	}

	resp := toLessonResponse(lesson)
	return &resp, nil
}

func (s *moduleService) GetLesson(ctx context.Context, id string) (*dto.LessonResponse, error) {
	lesson, err := s.loadLesson(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toLessonResponse(lesson)
	return &resp, nil
}

func (s *moduleService) ListLessons(ctx context.Context, moduleID string) ([]dto.LessonResponse, error) {
	if _, err := loadModule(ctx, s.repo, moduleID); err != nil {
		return nil, err
	}
	lessons, err := s.repo.Lesson.ListByModule(ctx, moduleID)
	if err != nil {
		s.logger.Error("列出课时失败", zap.String("module_id", moduleID), zap.Error(err))
		return nil, err
	}
	return mapSlice(lessons, toLessonResponse), nil
}

func (s *moduleService) UpdateLesson(ctx context.Context, actor policy.Actor, id string, req *dto.UpdateLessonRequest) (*dto.LessonResponse, error) {
	lesson, err := s.loadLesson(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.authorizeModule(ctx, actor, lesson.ModuleID); err != nil {
		return nil, err
	}

	if req.Title != nil {
		lesson.Title = strings.TrimSpace(*req.Title)
	}
	if req.Content != nil {
		lesson.Content = *req.Content
	}
	if req.Order != nil {
		lesson.Order = *req.Order
	}
	if req.IsActive != nil {
		lesson.IsActive = *req.IsActive
	}

	if err := s.repo.Lesson.Update(ctx, lesson); err != nil {
		if isDuplicate(err) {
			return nil, ErrLessonOrderExists
		}
		s.logger.Error("更新课时失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	resp := toLessonResponse(lesson)
	return &resp, nil
}

func (s *moduleService) DeleteLesson(ctx context.Context, actor policy.Actor, id string) error {
	lesson, err := s.loadLesson(ctx, id)
	if err != nil {
		return err
	}
	if _, err := s.authorizeModule(ctx, actor, lesson.ModuleID); err != nil {
		return err
	}

	if err := s.repo.Lesson.Delete(ctx, id); err != nil {
		s.logger.Error("删除课时失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

func (s *moduleService) loadLesson(ctx context.Context, id string) (*model.Lesson, error) {
	lesson, err := s.repo.Lesson.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrLessonNotFound
		}
		return nil, err
	}
	return lesson, nil
}
