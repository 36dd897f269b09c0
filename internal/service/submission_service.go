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

// SubmissionService 作业提交与批改业务接口
//
// 生命周期：SUBMITTED（提交/截止前修改）→ GRADED（批改，可重复批改覆盖）。
// 已批改的提交不可再修改或删除。
type SubmissionService interface {
	Submit(ctx context.Context, actor policy.Actor, req *dto.CreateSubmissionRequest) (*dto.SubmissionResponse, error)
	Update(ctx context.Context, actor policy.Actor, id string, req *dto.UpdateSubmissionRequest) (*dto.SubmissionResponse, error)
	Grade(ctx context.Context, actor policy.Actor, id string, req *dto.GradeSubmissionRequest) (*dto.SubmissionResponse, error)
	Delete(ctx context.Context, actor policy.Actor, id string) error
	List(ctx context.Context, actor policy.Actor) ([]dto.SubmissionResponse, error)
	ListByAssignment(ctx context.Context, actor policy.Actor, assignmentID string) ([]dto.SubmissionResponse, error)
	GetByID(ctx context.Context, actor policy.Actor, id string) (*dto.SubmissionResponse, error)
}

type submissionService struct {
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewSubmissionService 创建 SubmissionService 实例
func NewSubmissionService(repo *repository.Repository, logger *zap.Logger) SubmissionService {
	return &submissionService{repo: repo, logger: logger, now: time.Now}
}

// ────────────────────── Submit ──────────────────────

func (s *submissionService) Submit(ctx context.Context, actor policy.Actor, req *dto.CreateSubmissionRequest) (*dto.SubmissionResponse, error) {
	if actor.Role != model.RoleStudent {
		return nil, ErrOnlyStudentSubmit
	}
	if req.StudentID != "" && req.StudentID != actor.ID {
		return nil, ErrNotSubmissionOwner
	}

	// 1. 作业存在、启用且未截止
	assignment, err := loadAssignment(ctx, s.repo, req.AssignmentID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	if err := checkSubmittable(assignment, now); err != nil {
		return nil, err
	}

	// 2. 须为该课程的 ACTIVE 选课学生
	if err := s.requireActiveEnrollment(ctx, actor.ID, assignment.CourseID); err != nil {
		return nil, err
	}

	submission := &model.Submission{
		StudentID:    actor.ID,
		AssignmentID: assignment.AssignmentID,
		Content:      req.Content,
		SubmittedAt:  now,
	}

	// 3. (student_id, assignment_id) 唯一约束是重复提交的最终判定
	if err := s.repo.Submission.Create(ctx, submission); err != nil {
		if isDuplicate(err) {
			return nil, ErrSubmissionExists
		}
		s.logger.Error("创建提交失败", zap.Error(err))
		return nil, err
	}
	submission.Assignment = assignment

	resp := toSubmissionResponse(submission)
	return &resp, nil
}

// ────────────────────── Update ──────────────────────

func (s *submissionService) Update(ctx context.Context, actor policy.Actor, id string, req *dto.UpdateSubmissionRequest) (*dto.SubmissionResponse, error) {
	submission, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if submission.StudentID != actor.ID {
		return nil, ErrNotSubmissionOwner
	}
	if submission.State() == model.SubmissionGraded {
		return nil, ErrSubmissionGraded
	}

	// 按当前时间重新校验作业状态与截止时间
	assignment, err := s.assignmentOf(ctx, submission)
	if err != nil {
		return nil, err
	}
	now := s.now()
	if err := checkSubmittable(assignment, now); err != nil {
		return nil, err
	}

	submission.Content = req.Content
	submission.SubmittedAt = now
	if err := s.repo.Submission.UpdateContent(ctx, submission); err != nil {
		s.logger.Error("更新提交失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	resp := toSubmissionResponse(submission)
	return &resp, nil
}

// ────────────────────── Grade ──────────────────────

// Grade 批改提交；重复批改覆盖之前的分数与评语
func (s *submissionService) Grade(ctx context.Context, actor policy.Actor, id string, req *dto.GradeSubmissionRequest) (*dto.SubmissionResponse, error) {
	submission, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	assignment, err := s.assignmentOf(ctx, submission)
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

	score := *req.Score
	if score > assignment.MaxScore {
		return nil, ErrScoreExceedsMax
	}

	gradedAt := s.now()
	graded := *submission
	graded.Score = &score
	graded.Feedback = req.Feedback
	graded.GradedAt = &gradedAt
	graded.GradedBy = &actor.ID

	if err := s.repo.Submission.UpdateGrade(ctx, &graded); err != nil {
		s.logger.Error("批改提交失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	s.logger.Info("提交已批改",
		zap.String("submission_id", id),
		zap.Float64("score", score),
		zap.String("grader", actor.ID),
		zap.Bool("regrade", submission.State() == model.SubmissionGraded))

	resp := toSubmissionResponse(&graded)
	return &resp, nil
}

// ────────────────────── Delete ──────────────────────

func (s *submissionService) Delete(ctx context.Context, actor policy.Actor, id string) error {
	submission, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if submission.StudentID != actor.ID {
		return ErrNotSubmissionOwner
	}
	if submission.State() == model.SubmissionGraded {
		return ErrSubmissionGraded
	}

	if err := s.repo.Submission.Delete(ctx, id); err != nil {
		s.logger.Error("删除提交失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── 查询 ──────────────────────

func (s *submissionService) List(ctx context.Context, actor policy.Actor) ([]dto.SubmissionResponse, error) {
	var q repository.SubmissionQuery
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

func (s *submissionService) ListByAssignment(ctx context.Context, actor policy.Actor, assignmentID string) ([]dto.SubmissionResponse, error) {
	assignment, err := loadAssignment(ctx, s.repo, assignmentID)
	if err != nil {
		return nil, err
	}
	course := assignment.Course
	if course == nil {
		if course, err = loadCourse(ctx, s.repo, assignment.CourseID); err != nil {
			return nil, err
		}
	}
	if err := authorizeCourse(actor, policy.ActionViewCourseRoster, course); err != nil {
		return nil, err
	}
	return s.list(ctx, repository.SubmissionQuery{AssignmentID: assignmentID})
}

func (s *submissionService) GetByID(ctx context.Context, actor policy.Actor, id string) (*dto.SubmissionResponse, error) {
	submission, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	assignment, err := s.assignmentOf(ctx, submission)
	if err != nil {
		return nil, err
	}
	var teacherID string
	if assignment.Course != nil {
		teacherID = assignment.Course.TeacherID
	} else if course, err := loadCourse(ctx, s.repo, assignment.CourseID); err == nil {
		teacherID = course.TeacherID
	}
	if err := authorizeStudentRecords(actor, submission.StudentID, teacherID); err != nil {
		return nil, err
	}

	resp := toSubmissionResponse(submission)
	return &resp, nil
}

func (s *submissionService) list(ctx context.Context, q repository.SubmissionQuery) ([]dto.SubmissionResponse, error) {
	submissions, err := s.repo.Submission.List(ctx, q)
	if err != nil {
		s.logger.Error("列出提交失败", zap.Error(err))
		return nil, err
	}
	return mapSlice(submissions, toSubmissionResponse), nil
}

// ── 内部辅助方法 ──

func (s *submissionService) load(ctx context.Context, id string) (*model.Submission, error) {
	submission, err := s.repo.Submission.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrSubmissionNotFound
		}
		s.logger.Error("查询提交失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return submission, nil
}

// assignmentOf 返回提交所属作业（优先使用预加载结果）
func (s *submissionService) assignmentOf(ctx context.Context, submission *model.Submission) (*model.Assignment, error) {
	if submission.Assignment != nil {
		return submission.Assignment, nil
	}
	assignment, err := loadAssignment(ctx, s.repo, submission.AssignmentID)
	if err != nil {
		return nil, err
	}
	submission.Assignment = assignment
	return assignment, nil
}

func (s *submissionService) requireActiveEnrollment(ctx context.Context, studentID, courseID string) error {
	enrollment, err := s.repo.Enrollment.GetByStudentAndCourse(ctx, studentID, courseID)
	if err != nil {
		if isNotFound(err) {
			return ErrNotEnrolled
		}
		return err
	}
	if enrollment.Status != model.EnrollmentActive {
		return ErrNotEnrolled
	}
	return nil
}

// checkSubmittable 作业须启用且未超过截止时间
func checkSubmittable(assignment *model.Assignment, now time.Time) error {
	if !assignment.IsActive {
		return ErrAssignmentInactive
	}
	if assignment.IsPastDue(now) {
		return ErrAssignmentPastDue
	}
	return nil
}
