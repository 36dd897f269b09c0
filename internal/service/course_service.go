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

// CourseService 课程业务接口
type CourseService interface {
	Create(ctx context.Context, actor policy.Actor, req *dto.CreateCourseRequest) (*dto.CourseResponse, error)
	// List 公开：启用课程及选课人数、章节数
	List(ctx context.Context) ([]dto.CourseResponse, error)
	// GetByID 公开：课程详情（含启用的章节与课时）
	GetByID(ctx context.Context, id string) (*dto.CourseResponse, error)
	ListModules(ctx context.Context, courseID string) ([]dto.ModuleResponse, error)
	Update(ctx context.Context, actor policy.Actor, id string, req *dto.UpdateCourseRequest) (*dto.CourseResponse, error)
	// Delete 下架课程（软删除）
	Delete(ctx context.Context, actor policy.Actor, id string) error
}

type courseService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewCourseService 创建 CourseService 实例
func NewCourseService(repo *repository.Repository, logger *zap.Logger) CourseService {
	return &courseService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *courseService) Create(ctx context.Context, actor policy.Actor, req *dto.CreateCourseRequest) (*dto.CourseResponse, error) {
	if err := policy.Authorize(actor, policy.ActionCreateCourse, policy.Resource{}); err != nil {
		return nil, err
	}

	// 教师创建时自己即为授课教师；管理员须指定一名教师
	teacherID := actor.ID
	if actor.Role == model.RoleAdmin {
		if req.TeacherID == "" {
			return nil, ErrTeacherRequired
		}
		teacherID = req.TeacherID
	}
	teacher, err := s.loadTeacher(ctx, teacherID)
	if err != nil {
		return nil, err
	}

	credits := model.DefaultCredits
	if req.Credits != nil {
		credits = *req.Credits
	}

	course := &model.Course{
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Code:        strings.TrimSpace(req.Code),
		Credits:     credits,
		TeacherID:   teacher.UserID,
		IsActive:    true,
	}

	if err := s.repo.Course.Create(ctx, course); err != nil {
		if isDuplicate(err) {
			return nil, ErrCourseCodeExists
		}
		s.logger.Error("创建课程失败", zap.Error(err))
		return nil, err
	}
	course.Teacher = teacher

	s.logger.Info("课程已创建",
		zap.String("course_id", course.CourseID),
		zap.String("code", course.Code),
		zap.String("teacher_id", course.TeacherID))

	resp := toCourseResponse(course, &courseCounts{})
	return &resp, nil
}

// ────────────────────── List / Get ──────────────────────

func (s *courseService) List(ctx context.Context) ([]dto.CourseResponse, error) {
	courses, err := s.repo.Course.ListActive(ctx)
	if err != nil {
		s.logger.Error("列出课程失败", zap.Error(err))
		return nil, err
	}

	stats, err := s.repo.Course.Stats(ctx, courseIDsOf(courses))
	if err != nil {
		s.logger.Error("统计课程数据失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.CourseResponse, 0, len(courses))
	for i := range courses {
		st := stats[courses[i].CourseID]
		result = append(result, toCourseResponse(&courses[i], &courseCounts{
			enrollments: st.Enrollments,
			modules:     st.Modules,
		}))
	}
	return result, nil
}

func (s *courseService) GetByID(ctx context.Context, id string) (*dto.CourseResponse, error) {
	course, err := s.repo.Course.GetWithContent(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrCourseNotFound
		}
		s.logger.Error("查询课程失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	if !course.IsActive {
		return nil, ErrCourseNotFound
	}

	stats, err := s.repo.Course.Stats(ctx, []string{id})
	if err != nil {
		return nil, err
	}
	st := stats[id]

	resp := toCourseResponse(course, &courseCounts{enrollments: st.Enrollments, modules: st.Modules})
	return &resp, nil
}

func (s *courseService) ListModules(ctx context.Context, courseID string) ([]dto.ModuleResponse, error) {
	if _, err := loadCourse(ctx, s.repo, courseID); err != nil {
		return nil, err
	}

	modules, err := s.repo.Module.ListByCourse(ctx, courseID)
	if err != nil {
		s.logger.Error("列出章节失败", zap.String("course_id", courseID), zap.Error(err))
		return nil, err
	}
	return mapSlice(modules, toModuleResponse), nil
}

// ────────────────────── Update / Delete ──────────────────────

func (s *courseService) Update(ctx context.Context, actor policy.Actor, id string, req *dto.UpdateCourseRequest) (*dto.CourseResponse, error) {
	course, err := loadCourse(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}
	if err := authorizeCourse(actor, policy.ActionManageCourse, course); err != nil {
		return nil, err
	}

	if req.Title != nil {
		course.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		course.Description = *req.Description
	}
	if req.Code != nil {
		course.Code = strings.TrimSpace(*req.Code)
	}
	if req.Credits != nil {
		course.Credits = *req.Credits
	}
	if req.IsActive != nil {
		course.IsActive = *req.IsActive
	}
	if req.TeacherID != nil && *req.TeacherID != course.TeacherID {
		// 更换授课教师仅管理员可操作
		if actor.Role != model.RoleAdmin {
			return nil, policy.ErrForbidden
		}
		teacher, err := s.loadTeacher(ctx, *req.TeacherID)
		if err != nil {
			return nil, err
		}
		course.TeacherID = teacher.UserID
	}

	if err := s.repo.Course.Update(ctx, course); err != nil {
		if isDuplicate(err) {
			return nil, ErrCourseCodeExists
		}
		s.logger.Error("更新课程失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	resp := toCourseResponse(course, nil)
	return &resp, nil
}

func (s *courseService) Delete(ctx context.Context, actor policy.Actor, id string) error {
	course, err := loadCourse(ctx, s.repo, id)
	if err != nil {
		return err
	}
	if err := authorizeCourse(actor, policy.ActionManageCourse, course); err != nil {
		return err
	}

	if err := s.repo.Course.SetActive(ctx, id, false); err != nil {
		s.logger.Error("下架课程失败", zap.String("id", id), zap.Error(err))
		return err
	}

	s.logger.Info("课程已下架", zap.String("id", id), zap.String("by", actor.ID))
	return nil
}

// loadTeacher 查询用户并要求其角色为 TEACHER
func (s *courseService) loadTeacher(ctx context.Context, id string) (*model.User, error) {
	user, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrTeacherNotFound
		}
		return nil, err
	}
	if user.Role != model.RoleTeacher {
		return nil, ErrTeacherNotFound
	}
	return user, nil
}
