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

const (
	defaultMaxScore       = 100
	defaultAssignmentType = "HOMEWORK"
)

// AssignmentService 作业业务接口
type AssignmentService interface {
	Create(ctx context.Context, actor policy.Actor, req *dto.CreateAssignmentRequest) (*dto.AssignmentResponse, error)
	// List 按角色限定范围：学生仅见已选课程的启用作业，教师仅见自己授课的课程
	List(ctx context.Context, actor policy.Actor, courseID string) ([]dto.AssignmentResponse, error)
	// GetByID 与 List 同一可见范围：学生不可见的作业按不存在处理
	GetByID(ctx context.Context, actor policy.Actor, id string) (*dto.AssignmentResponse, error)
	Update(ctx context.Context, actor policy.Actor, id string, req *dto.UpdateAssignmentRequest) (*dto.AssignmentResponse, error)
	// Delete 已有提交时返回 ErrAssignmentHasSubmissions
	Delete(ctx context.Context, actor policy.Actor, id string) error
}

type assignmentService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewAssignmentService 创建 AssignmentService 实例
func NewAssignmentService(repo *repository.Repository, logger *zap.Logger) AssignmentService {
	return &assignmentService{repo: repo, logger: logger}
}

func (s *assignmentService) Create(ctx context.Context, actor policy.Actor, req *dto.CreateAssignmentRequest) (*dto.AssignmentResponse, error) {
	course, err := loadCourse(ctx, s.repo, req.CourseID)
	if err != nil {
		return nil, err
	}
	if err := authorizeCourse(actor, policy.ActionManageAssignment, course); err != nil {
		return nil, err
	}
	moduleID := req.ModuleID
	if moduleID != nil && *moduleID == "" {
		moduleID = nil
	}
	if err := s.checkModule(ctx, moduleID, course.CourseID); err != nil {
		return nil, err
	}

	assignment := &model.Assignment{
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		CourseID:    course.CourseID,
		ModuleID:    moduleID,
		MaxScore:    defaultMaxScore,
		DueDate:     req.DueDate,
		Type:        defaultAssignmentType,
		IsActive:    true,
	}
	if req.MaxScore != nil {
		assignment.MaxScore = *req.MaxScore
	}
	if req.Type != "" {
		assignment.Type = strings.ToUpper(req.Type)
	}

	if err := s.repo.Assignment.Create(ctx, assignment); err != nil {
		s.logger.Error("创建作业失败", zap.Error(err))
		return nil, err
	}
	assignment.Course = course

	resp := toAssignmentResponse(assignment)
	return &resp, nil
}

func (s *assignmentService) List(ctx context.Context, actor policy.Actor, courseID string) ([]dto.AssignmentResponse, error) {
	q := repository.AssignmentQuery{CourseID: courseID}
	switch actor.Role {
	case model.RoleStudent:
		q.StudentID = actor.ID
		q.ActiveOnly = true
	case model.RoleTeacher:
		q.TeacherID = actor.ID
	case model.RoleAdmin:
	default:
		return nil, policy.ErrForbidden
	}

	assignments, err := s.repo.Assignment.List(ctx, q)
	if err != nil {
		s.logger.Error("列出作业失败", zap.Error(err))
		return nil, err
	}
	return mapSlice(assignments, toAssignmentResponse), nil
}

func (s *assignmentService) GetByID(ctx context.Context, actor policy.Actor, id string) (*dto.AssignmentResponse, error) {
	var (
		assignment *model.Assignment
		err        error
	)
	switch actor.Role {
	case model.RoleStudent:
		if assignment, err = loadAssignment(ctx, s.repo, id); err != nil {
			return nil, err
		}
		if !assignment.IsActive {
			return nil, ErrAssignmentNotFound
		}
		enrollment, err := s.repo.Enrollment.GetByStudentAndCourse(ctx, actor.ID, assignment.CourseID)
		if err != nil {
			if isNotFound(err) {
				return nil, ErrAssignmentNotFound
			}
			return nil, err
		}
		if enrollment.Status != model.EnrollmentActive {
			return nil, ErrAssignmentNotFound
		}
	case model.RoleTeacher, model.RoleAdmin:
		if assignment, err = s.authorizeAssignment(ctx, actor, id); err != nil {
			return nil, err
		}
	default:
		return nil, policy.ErrForbidden
	}
	resp := toAssignmentResponse(assignment)
	return &resp, nil
}

func (s *assignmentService) Update(ctx context.Context, actor policy.Actor, id string, req *dto.UpdateAssignmentRequest) (*dto.AssignmentResponse, error) {
	assignment, err := s.authorizeAssignment(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if req.ModuleID != nil {
		if err := s.checkModule(ctx, req.ModuleID, assignment.CourseID); err != nil {
			return nil, err
		}
		assignment.ModuleID = req.ModuleID
	}
	if req.Title != nil {
		assignment.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		assignment.Description = *req.Description
	}
	if req.MaxScore != nil {
		if *req.MaxScore < assignment.MaxScore {
			n, err := s.repo.Submission.Count(ctx, repository.SubmissionQuery{AssignmentID: id, ScoreAbove: req.MaxScore})
			if err != nil {
				return nil, err
			}
			if n > 0 {
				return nil, ErrMaxScoreBelowGraded
			}
		}
		assignment.MaxScore = *req.MaxScore
	}
	if req.DueDate != nil {
		assignment.DueDate = req.DueDate
	}
	if req.Type != nil {
		assignment.Type = strings.ToUpper(*req.Type)
	}
	if req.IsActive != nil {
		assignment.IsActive = *req.IsActive
	}

	if err := s.repo.Assignment.Update(ctx, assignment); err != nil {
		s.logger.Error("更新作业失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	resp := toAssignmentResponse(assignment)
	return &resp, nil
}

func (s *assignmentService) Delete(ctx context.Context, actor policy.Actor, id string) error {
	if _, err := s.authorizeAssignment(ctx, actor, id); err != nil {
		return err
	}

	n, err := s.repo.Submission.Count(ctx, repository.SubmissionQuery{AssignmentID: id})
	if err != nil {
		return err
	}
	if n > 0 {
		return ErrAssignmentHasSubmissions
	}

	if err := s.repo.Assignment.Delete(ctx, id); err != nil {
		if isForeignKeyViolated(err) {
			return ErrAssignmentHasSubmissions
		}
		s.logger.Error("删除作业失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// authorizeAssignment 加载作业并按所属课程判定管理权限
func (s *assignmentService) authorizeAssignment(ctx context.Context, actor policy.Actor, id string) (*model.Assignment, error) {
	assignment, err := loadAssignment(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}
	course := assignment.Course
	if course == nil {
		if course, err = loadCourse(ctx, s.repo, assignment.CourseID); err != nil {
			return nil, err
		}
	}
	if err := authorizeCourse(actor, policy.ActionManageAssignment, course); err != nil {
		return nil, err
	}
	return assignment, nil
}

// checkModule 作业关联的章节必须属于同一课程
func (s *assignmentService) checkModule(ctx context.Context, moduleID *string, courseID string) error {
	if moduleID == nil || *moduleID == "" {
		return nil
	}
	module, err := loadModule(ctx, s.repo, *moduleID)
	if err != nil {
		return err
	}
	if module.CourseID != courseID {
		return ErrModuleNotInCourse
	}
	return nil
}
