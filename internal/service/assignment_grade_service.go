package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"aether-lms/backend/internal/dto"
	"aether-lms/backend/internal/model"
	"aether-lms/backend/internal/policy"
	"aether-lms/backend/internal/repository"
)

// AssignmentGradeService 作业成绩业务接口
type AssignmentGradeService interface {
	// Record 登记（或覆盖）学生某作业的成绩，自动计算得分率与等级
	Record(ctx context.Context, actor policy.Actor, req *dto.RecordAssignmentGradeRequest) (*dto.AssignmentGradeResponse, error)
	List(ctx context.Context, actor policy.Actor, req *dto.AssignmentGradeListRequest) ([]dto.AssignmentGradeResponse, error)
}

type assignmentGradeService struct {
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewAssignmentGradeService 创建 AssignmentGradeService 实例
func NewAssignmentGradeService(repo *repository.Repository, logger *zap.Logger) AssignmentGradeService {
	return &assignmentGradeService{repo: repo, logger: logger, now: time.Now}
}

func (s *assignmentGradeService) Record(ctx context.Context, actor policy.Actor, req *dto.RecordAssignmentGradeRequest) (*dto.AssignmentGradeResponse, error) {
	assignment, err := loadAssignment(ctx, s.repo, req.AssignmentID)
	if err != nil {
		return nil, err
	}
	course := assignment.Course
	if course == nil {
		if course, err = loadCourse(ctx, s.repo, assignment.CourseID); err != nil {
			return nil, err
		}
	}
	if err := authorizeCourse(actor, policy.ActionGradeSubmission, course); err != nil {
		return nil, err
	}

	student, err := loadStudent(ctx, s.repo, req.StudentID)
	if err != nil {
		return nil, err
	}
	if err := requireEnrolled(ctx, s.repo, student.UserID, course.CourseID); err != nil {
		return nil, err
	}

	score := *req.Score
	if score > assignment.MaxScore {
		return nil, ErrScoreExceedsMax
	}

	pct := percentageOf(score, assignment.MaxScore)
	grade := &model.AssignmentGrade{
		StudentID:    student.UserID,
		AssignmentID: assignment.AssignmentID,
		CourseID:     course.CourseID,
		Score:        round2(decimal.NewFromFloat(score)),
		MaxScore:     assignment.MaxScore,
		Percentage:   round2(pct),
		LetterGrade:  letterGrade(pct),
		Feedback:     req.Feedback,
		GradedBy:     &actor.ID,
		GradedAt:     s.now(),
	}

	if err := s.repo.AssignmentGrade.Upsert(ctx, grade); err != nil {
		s.logger.Error("登记作业成绩失败", zap.Error(err))
		return nil, err
	}
	grade.Student = student
	grade.Assignment = assignment
	grade.Course = course

	resp := toAssignmentGradeResponse(grade)
	return &resp, nil
}

func (s *assignmentGradeService) List(ctx context.Context, actor policy.Actor, req *dto.AssignmentGradeListRequest) ([]dto.AssignmentGradeResponse, error) {
	q := repository.AssignmentGradeQuery{
		StudentID:    req.StudentID,
		CourseID:     req.CourseID,
		AssignmentID: req.AssignmentID,
	}
	switch actor.Role {
	case model.RoleStudent:
		if q.StudentID != "" && q.StudentID != actor.ID {
			return nil, authorizeStudentRecords(actor, q.StudentID, "")
		}
		q.StudentID = actor.ID
	case model.RoleTeacher:
		q.TeacherID = actor.ID
	case model.RoleAdmin:
	default:
		return nil, policy.ErrForbidden
	}

	grades, err := s.repo.AssignmentGrade.List(ctx, q)
	if err != nil {
		s.logger.Error("列出作业成绩失败", zap.Error(err))
		return nil, err
	}
	return mapSlice(grades, toAssignmentGradeResponse), nil
}
