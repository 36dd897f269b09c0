package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"aether-lms/backend/internal/dto"
	"aether-lms/backend/internal/model"
	"aether-lms/backend/internal/policy"
	"aether-lms/backend/internal/repository"
)

// EnrollmentService 选课业务接口
type EnrollmentService interface {
	// Enroll 学生只能为本人选课；教师只能为自己授课的课程添加学生
	Enroll(ctx context.Context, actor policy.Actor, req *dto.CreateEnrollmentRequest) (*dto.EnrollmentResponse, error)
	List(ctx context.Context, actor policy.Actor) ([]dto.EnrollmentResponse, error)
	ListByStudent(ctx context.Context, actor policy.Actor, studentID string) ([]dto.EnrollmentResponse, error)
	ListByCourse(ctx context.Context, actor policy.Actor, courseID string) ([]dto.EnrollmentResponse, error)
	GetByID(ctx context.Context, actor policy.Actor, id string) (*dto.EnrollmentResponse, error)
	UpdateStatus(ctx context.Context, actor policy.Actor, id string, req *dto.UpdateEnrollmentRequest) (*dto.EnrollmentResponse, error)
	// Delete 课程授课教师、管理员或学生本人可退课
	Delete(ctx context.Context, actor policy.Actor, id string) error
}

type enrollmentService struct {
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewEnrollmentService 创建 EnrollmentService 实例
func NewEnrollmentService(repo *repository.Repository, logger *zap.Logger) EnrollmentService {
	return &enrollmentService{repo: repo, logger: logger, now: time.Now}
}

// ────────────────────── Enroll ──────────────────────

func (s *enrollmentService) Enroll(ctx context.Context, actor policy.Actor, req *dto.CreateEnrollmentRequest) (*dto.EnrollmentResponse, error) {
	studentID := req.StudentID
	if studentID == "" {
		studentID = actor.ID
	}

	// 1. 学生与课程必须存在（下架课程视为不存在）
	student, err := loadStudent(ctx, s.repo, studentID)
	if err != nil {
		return nil, err
	}
	course, err := loadCourse(ctx, s.repo, req.CourseID)
	if err != nil {
		return nil, err
	}
	if !course.IsActive {
		return nil, ErrCourseNotFound
	}

	// 2. 权限
	if err := policy.Authorize(actor, policy.ActionEnroll, policy.Resource{
		CourseTeacherID: course.TeacherID,
		StudentID:       student.UserID,
	}); err != nil {
		return nil, err
	}

	// 3. 状态：学生自助选课固定为 ACTIVE
	status := model.EnrollmentActive
	if req.Status != nil && actor.Role != model.RoleStudent {
		st, err := model.ParseEnrollmentStatus(*req.Status)
		if err != nil {
			return nil, ErrInvalidEnrollStatus
		}
		status = st
	}

	enrollment := &model.Enrollment{
		StudentID:  student.UserID,
		CourseID:   course.CourseID,
		Status:     status,
		EnrolledAt: s.now(),
	}

	// 4. (student_id, course_id) 唯一约束是重复选课的最终判定
	if err := s.repo.Enrollment.Create(ctx, enrollment); err != nil {
		if isDuplicate(err) {
			return nil, ErrEnrollmentExists
		}
		s.logger.Error("创建选课记录失败", zap.Error(err))
		return nil, err
	}
	enrollment.Student = student
	enrollment.Course = course

	s.logger.Info("学生已选课",
		zap.String("student_id", student.UserID),
		zap.String("course_id", course.CourseID),
		zap.String("status", string(status)))

	resp := toEnrollmentResponse(enrollment)
	return &resp, nil
}

// ────────────────────── 查询 ──────────────────────

func (s *enrollmentService) List(ctx context.Context, actor policy.Actor) ([]dto.EnrollmentResponse, error) {
	var q repository.EnrollmentQuery
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

func (s *enrollmentService) ListByStudent(ctx context.Context, actor policy.Actor, studentID string) ([]dto.EnrollmentResponse, error) {
	teacherID, err := studentScope(actor, studentID)
	if err != nil {
		return nil, err
	}
	return s.list(ctx, repository.EnrollmentQuery{StudentID: studentID, TeacherID: teacherID})
}

func (s *enrollmentService) ListByCourse(ctx context.Context, actor policy.Actor, courseID string) ([]dto.EnrollmentResponse, error) {
	course, err := loadCourse(ctx, s.repo, courseID)
	if err != nil {
		return nil, err
	}
	if err := authorizeCourse(actor, policy.ActionViewCourseRoster, course); err != nil {
		return nil, err
	}
	return s.list(ctx, repository.EnrollmentQuery{CourseID: courseID})
}

func (s *enrollmentService) list(ctx context.Context, q repository.EnrollmentQuery) ([]dto.EnrollmentResponse, error) {
	enrollments, err := s.repo.Enrollment.List(ctx, q)
	if err != nil {
		s.logger.Error("列出选课记录失败", zap.Error(err))
		return nil, err
	}
	return mapSlice(enrollments, toEnrollmentResponse), nil
}

func (s *enrollmentService) GetByID(ctx context.Context, actor policy.Actor, id string) (*dto.EnrollmentResponse, error) {
	enrollment, course, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorizeStudentRecords(actor, enrollment.StudentID, course.TeacherID); err != nil {
		return nil, err
	}
	resp := toEnrollmentResponse(enrollment)
	return &resp, nil
}

// ────────────────────── 修改 / 退课 ──────────────────────

func (s *enrollmentService) UpdateStatus(ctx context.Context, actor policy.Actor, id string, req *dto.UpdateEnrollmentRequest) (*dto.EnrollmentResponse, error) {
	status, err := model.ParseEnrollmentStatus(req.Status)
	if err != nil {
		return nil, ErrInvalidEnrollStatus
	}

	enrollment, course, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorizeCourse(actor, policy.ActionManageEnrollment, course); err != nil {
		return nil, err
	}

	if err := s.repo.Enrollment.UpdateStatus(ctx, id, status); err != nil {
		s.logger.Error("更新选课状态失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	enrollment.Status = status

	resp := toEnrollmentResponse(enrollment)
	return &resp, nil
}

func (s *enrollmentService) Delete(ctx context.Context, actor policy.Actor, id string) error {
	enrollment, course, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if actor.Role != model.RoleStudent || enrollment.StudentID != actor.ID {
		if err := authorizeCourse(actor, policy.ActionManageEnrollment, course); err != nil {
			return err
		}
	}

	if err := s.repo.Enrollment.Delete(ctx, id); err != nil {
		s.logger.Error("删除选课记录失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// load 加载选课记录及其课程（用于归属判定）
func (s *enrollmentService) load(ctx context.Context, id string) (*model.Enrollment, *model.Course, error) {
	enrollment, err := s.repo.Enrollment.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, nil, ErrEnrollmentNotFound
		}
		return nil, nil, err
	}
	course := enrollment.Course
	if course == nil {
		if course, err = loadCourse(ctx, s.repo, enrollment.CourseID); err != nil {
			return nil, nil, err
		}
	}
	return enrollment, course, nil
}
