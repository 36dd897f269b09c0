package service

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"aether-lms/backend/internal/dto"
	"aether-lms/backend/internal/model"
	"aether-lms/backend/internal/policy"
	"aether-lms/backend/internal/repository"
)

// CourseGradeService 课程总评业务接口
type CourseGradeService interface {
	Create(ctx context.Context, actor policy.Actor, req *dto.CreateCourseGradeRequest) (*dto.CourseGradeResponse, error)
	GetByID(ctx context.Context, actor policy.Actor, id string) (*dto.CourseGradeResponse, error)
	List(ctx context.Context, actor policy.Actor) ([]dto.CourseGradeResponse, error)
	ListByStudent(ctx context.Context, actor policy.Actor, studentID string) ([]dto.CourseGradeResponse, error)
	ListByCourse(ctx context.Context, actor policy.Actor, courseID string) ([]dto.CourseGradeResponse, error)
	Update(ctx context.Context, actor policy.Actor, id string, req *dto.UpdateCourseGradeRequest) (*dto.CourseGradeResponse, error)
	// Delete 仅管理员
	Delete(ctx context.Context, actor policy.Actor, id string) error
}

type courseGradeService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewCourseGradeService 创建 CourseGradeService 实例
func NewCourseGradeService(repo *repository.Repository, logger *zap.Logger) CourseGradeService {
	return &courseGradeService{repo: repo, logger: logger}
}

func (s *courseGradeService) Create(ctx context.Context, actor policy.Actor, req *dto.CreateCourseGradeRequest) (*dto.CourseGradeResponse, error) {
	student, err := loadStudent(ctx, s.repo, req.StudentID)
	if err != nil {
		return nil, err
	}
	course, err := loadCourse(ctx, s.repo, req.CourseID)
	if err != nil {
		return nil, err
	}
	if err := authorizeCourse(actor, policy.ActionWriteCourseGrade, course); err != nil {
		return nil, err
	}
	if err := requireEnrolled(ctx, s.repo, student.UserID, course.CourseID); err != nil {
		return nil, err
	}

	grade := &model.CourseGrade{
		StudentID:   student.UserID,
		CourseID:    course.CourseID,
		LetterGrade: strings.ToUpper(strings.TrimSpace(req.LetterGrade)),
		Percentage:  round2(decimal.NewFromFloat(*req.Percentage)),
		Comments:    req.Comments,
		GradedBy:    &actor.ID,
	}

	// (student_id, course_id) 唯一
	if err := s.repo.CourseGrade.Create(ctx, grade); err != nil {
		if isDuplicate(err) {
			return nil, ErrCourseGradeExists
		}
		s.logger.Error("创建课程总评失败", zap.Error(err))
		return nil, err
	}
	grade.Student = student
	grade.Course = course

	resp := toCourseGradeResponse(grade)
	return &resp, nil
}

func (s *courseGradeService) GetByID(ctx context.Context, actor policy.Actor, id string) (*dto.CourseGradeResponse, error) {
	grade, course, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorizeStudentRecords(actor, grade.StudentID, course.TeacherID); err != nil {
		return nil, err
	}
	resp := toCourseGradeResponse(grade)
	return &resp, nil
}

func (s *courseGradeService) List(ctx context.Context, actor policy.Actor) ([]dto.CourseGradeResponse, error) {
	var q repository.CourseGradeQuery
	switch actor.Role {
	case model.RoleStudent:
		q.StudentID = actor.ID
	case model.RoleTeacher:
		q.TeacherID = actor.ID
	case model.RoleAdmin:
	default:
		return nil, policy.ErrForbidden
	}
	return s.list(ctx, q)
}

func (s *courseGradeService) ListByStudent(ctx context.Context, actor policy.Actor, studentID string) ([]dto.CourseGradeResponse, error) {
	teacherID, err := studentScope(actor, studentID)
	if err != nil {
		return nil, err
	}
	return s.list(ctx, repository.CourseGradeQuery{StudentID: studentID, TeacherID: teacherID})
}

func (s *courseGradeService) ListByCourse(ctx context.Context, actor policy.Actor, courseID string) ([]dto.CourseGradeResponse, error) {
	course, err := loadCourse(ctx, s.repo, courseID)
	if err != nil {
		return nil, err
	}
	if err := authorizeCourse(actor, policy.ActionViewCourseRoster, course); err != nil {
		return nil, err
	}
	return s.list(ctx, repository.CourseGradeQuery{CourseID: courseID})
}

func (s *courseGradeService) Update(ctx context.Context, actor policy.Actor, id string, req *dto.UpdateCourseGradeRequest) (*dto.CourseGradeResponse, error) {
	grade, course, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorizeCourse(actor, policy.ActionWriteCourseGrade, course); err != nil {
		return nil, err
	}

	if req.LetterGrade != nil {
		grade.LetterGrade = strings.ToUpper(strings.TrimSpace(*req.LetterGrade))
	}
	if req.Percentage != nil {
		grade.Percentage = round2(decimal.NewFromFloat(*req.Percentage))
	}
	if req.Comments != nil {
		grade.Comments = req.Comments
	}
	grade.GradedBy = &actor.ID

	if err := s.repo.CourseGrade.Update(ctx, grade); err != nil {
		s.logger.Error("更新课程总评失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	resp := toCourseGradeResponse(grade)
	return &resp, nil
}

func (s *courseGradeService) Delete(ctx context.Context, actor policy.Actor, id string) error {
	_, course, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := authorizeCourse(actor, policy.ActionDeleteCourseGrade, course); err != nil {
		return err
	}

	if err := s.repo.CourseGrade.Delete(ctx, id); err != nil {
		s.logger.Error("删除课程总评失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

func (s *courseGradeService) list(ctx context.Context, q repository.CourseGradeQuery) ([]dto.CourseGradeResponse, error) {
	grades, err := s.repo.CourseGrade.List(ctx, q)
	if err != nil {
		s.logger.Error("列出课程总评失败", zap.Error(err))
		return nil, err
	}
	return mapSlice(grades, toCourseGradeResponse), nil
}

func (s *courseGradeService) load(ctx context.Context, id string) (*model.CourseGrade, *model.Course, error) {
	grade, err := s.repo.CourseGrade.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, nil, ErrCourseGradeNotFound
		}
		return nil, nil, err
	}
	course := grade.Course
	if course == nil {
		if course, err = loadCourse(ctx, s.repo, grade.CourseID); err != nil {
			return nil, nil, err
		}
	}
	return grade, course, nil
}
