package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"aether-lms/backend/internal/dto"
	"aether-lms/backend/internal/model"
	"aether-lms/backend/internal/policy"
	"aether-lms/backend/internal/repository"
)

const defaultGradeType = "ASSIGNMENT"

// GradeService 成绩记录业务接口（GPA 计算来源）
type GradeService interface {
	Create(ctx context.Context, actor policy.Actor, req *dto.CreateGradeRequest) (*dto.GradeResponse, error)
	GetByID(ctx context.Context, actor policy.Actor, id string) (*dto.GradeResponse, error)
	ListByStudent(ctx context.Context, actor policy.Actor, studentID string) ([]dto.GradeResponse, error)
	ListByCourse(ctx context.Context, actor policy.Actor, courseID string) ([]dto.GradeResponse, error)
	Update(ctx context.Context, actor policy.Actor, id string, req *dto.UpdateGradeRequest) (*dto.GradeResponse, error)
	Delete(ctx context.Context, actor policy.Actor, id string) error
	// GetStudentGPA 学分加权 4 分制 GPA，无成绩时返回全 0
	GetStudentGPA(ctx context.Context, actor policy.Actor, studentID string) (*dto.GPAResponse, error)
}

type gradeService struct {
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewGradeService 创建 GradeService 实例
func NewGradeService(repo *repository.Repository, logger *zap.Logger) GradeService {
	return &gradeService{repo: repo, logger: logger, now: time.Now}
}

// ────────────────────── Create ──────────────────────

func (s *gradeService) Create(ctx context.Context, actor policy.Actor, req *dto.CreateGradeRequest) (*dto.GradeResponse, error) {
	student, err := loadStudent(ctx, s.repo, req.StudentID)
	if err != nil {
		return nil, err
	}
	course, err := loadCourse(ctx, s.repo, req.CourseID)
	if err != nil {
		return nil, err
	}
	if err := authorizeCourse(actor, policy.ActionGradeSubmission, course); err != nil {
		return nil, err
	}
	if err := requireEnrolled(ctx, s.repo, student.UserID, course.CourseID); err != nil {
		return nil, err
	}
	if *req.Score > req.MaxScore {
		return nil, ErrGradeScoreInvalid
	}

	now := s.now()
	grade := &model.Grade{
		StudentID:   student.UserID,
		CourseID:    course.CourseID,
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Type:        defaultGradeType,
		Score:       *req.Score,
		MaxScore:    req.MaxScore,
		DueDate:     req.DueDate,
		SubmittedAt: &now,
		GradedBy:    &actor.ID,
	}
	if req.Type != "" {
		grade.Type = strings.ToUpper(req.Type)
	}

	if err := s.repo.Grade.Create(ctx, grade); err != nil {
		s.logger.Error("创建成绩记录失败", zap.Error(err))
		return nil, err
	}
	grade.Student = student
	grade.Course = course

	resp := toGradeResponse(grade)
	return &resp, nil
}

// ────────────────────── 查询 ──────────────────────

func (s *gradeService) GetByID(ctx context.Context, actor policy.Actor, id string) (*dto.GradeResponse, error) {
	grade, course, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorizeStudentRecords(actor, grade.StudentID, course.TeacherID); err != nil {
		return nil, err
	}
	resp := toGradeResponse(grade)
	return &resp, nil
}

func (s *gradeService) ListByStudent(ctx context.Context, actor policy.Actor, studentID string) ([]dto.GradeResponse, error) {
	grades, err := s.scopedStudentGrades(ctx, actor, studentID)
	if err != nil {
		return nil, err
	}
	return mapSlice(grades, toGradeResponse), nil
}

func (s *gradeService) ListByCourse(ctx context.Context, actor policy.Actor, courseID string) ([]dto.GradeResponse, error) {
	course, err := loadCourse(ctx, s.repo, courseID)
	if err != nil {
		return nil, err
	}
	if err := authorizeCourse(actor, policy.ActionViewCourseRoster, course); err != nil {
		return nil, err
	}

	grades, err := s.repo.Grade.ListByCourse(ctx, courseID)
	if err != nil {
		s.logger.Error("列出课程成绩失败", zap.String("course_id", courseID), zap.Error(err))
		return nil, err
	}
	return mapSlice(grades, toGradeResponse), nil
}

// ────────────────────── Update / Delete ──────────────────────

func (s *gradeService) Update(ctx context.Context, actor policy.Actor, id string, req *dto.UpdateGradeRequest) (*dto.GradeResponse, error) {
	grade, course, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorizeCourse(actor, policy.ActionGradeSubmission, course); err != nil {
		return nil, err
	}

	if req.Title != nil {
		grade.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		grade.Description = *req.Description
	}
	if req.Type != nil {
		grade.Type = strings.ToUpper(*req.Type)
	}
	if req.Score != nil {
		grade.Score = *req.Score
	}
	if req.MaxScore != nil {
		grade.MaxScore = *req.MaxScore
	}
	if req.DueDate != nil {
		grade.DueDate = req.DueDate
	}
	if grade.Score > grade.MaxScore {
		return nil, ErrGradeScoreInvalid
	}
	grade.GradedBy = &actor.ID

	if err := s.repo.Grade.Update(ctx, grade); err != nil {
		s.logger.Error("更新成绩记录失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	resp := toGradeResponse(grade)
	return &resp, nil
}

func (s *gradeService) Delete(ctx context.Context, actor policy.Actor, id string) error {
	_, course, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := authorizeCourse(actor, policy.ActionGradeSubmission, course); err != nil {
		return err
	}

	if err := s.repo.Grade.Delete(ctx, id); err != nil {
		s.logger.Error("删除成绩记录失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── GPA ──────────────────────

func (s *gradeService) GetStudentGPA(ctx context.Context, actor policy.Actor, studentID string) (*dto.GPAResponse, error) {
	grades, err := s.scopedStudentGrades(ctx, actor, studentID)
	if err != nil {
		return nil, err
	}

	entries := make([]gpaEntry, 0, len(grades))
	for _, g := range grades {
		credits := model.DefaultCredits
		if g.Course != nil {
			credits = g.Course.Credits
		}
		entries = append(entries, gpaEntry{score: g.Score, maxScore: g.MaxScore, credits: credits})
	}

	gpa, totalCredits := computeGPA(entries)
	return &dto.GPAResponse{
		GPA:          gpa,
		TotalCredits: totalCredits,
		TotalGrades:  len(grades),
	}, nil
}

// ── 内部辅助方法 ──

// scopedStudentGrades 学生的成绩记录；教师仅能看到自己授课课程的部分
func (s *gradeService) scopedStudentGrades(ctx context.Context, actor policy.Actor, studentID string) ([]model.Grade, error) {
	teacherID, err := studentScope(actor, studentID)
	if err != nil {
		return nil, err
	}

	grades, err := s.repo.Grade.ListByStudent(ctx, studentID)
	if err != nil {
		s.logger.Error("列出学生成绩失败", zap.String("student_id", studentID), zap.Error(err))
		return nil, err
	}
	if teacherID == "" {
		return grades, nil
	}

	scoped := grades[:0]
	for _, g := range grades {
		if g.Course != nil && g.Course.TeacherID == teacherID {
			scoped = append(scoped, g)
		}
	}
	return scoped, nil
}

func (s *gradeService) load(ctx context.Context, id string) (*model.Grade, *model.Course, error) {
	grade, err := s.repo.Grade.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, nil, ErrGradeNotFound
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
