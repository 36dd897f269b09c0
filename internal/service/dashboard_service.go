package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"aether-lms/backend/internal/dto"
	"aether-lms/backend/internal/model"
	"aether-lms/backend/internal/policy"
	"aether-lms/backend/internal/repository"
)

// 聚合视图的列表上限
const (
	recentListSize        = 5
	teacherRecentSize     = 10
	feedbackPerSource     = 10
	courseFeedbackSize    = 5
	feedbackListSize      = 15
	pendingAssignmentSize = 10
	upcomingDueSize       = 5
	pendingFeedbackSize   = 5

	pendingWindow  = 7 * 24 * time.Hour
	upcomingWindow = 14 * 24 * time.Hour
)

// DashboardService 聚合视图业务接口（仪表盘、最近反馈、待办）
type DashboardService interface {
	// BuildDashboard 按操作者角色分发
	BuildDashboard(ctx context.Context, actor policy.Actor) (*dto.DashboardResponse, error)
	GetFeedback(ctx context.Context, studentID string) (*dto.FeedbackResponse, error)
	GetTodos(ctx context.Context, studentID string) (*dto.TodoResponse, error)
}

type dashboardService struct {
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewDashboardService 创建 DashboardService 实例
func NewDashboardService(repo *repository.Repository, logger *zap.Logger) DashboardService {
	return &dashboardService{repo: repo, logger: logger, now: time.Now}
}

func (s *dashboardService) BuildDashboard(ctx context.Context, actor policy.Actor) (*dto.DashboardResponse, error) {
	var (
		resp *dto.DashboardResponse
		err  error
	)
	switch actor.Role {
	case model.RoleStudent:
		var v *dto.StudentDashboard
		v, err = s.studentDashboard(ctx, actor.ID)
		resp = &dto.DashboardResponse{Type: dto.DashboardStudent, Student: v}
	case model.RoleTeacher:
		var v *dto.TeacherDashboard
		v, err = s.teacherDashboard(ctx, actor.ID)
		resp = &dto.DashboardResponse{Type: dto.DashboardTeacher, Teacher: v}
	case model.RoleAdmin:
		var v *dto.AdminDashboard
		v, err = s.adminDashboard(ctx)
		resp = &dto.DashboardResponse{Type: dto.DashboardAdmin, Admin: v}
	default:
		return nil, policy.ErrForbidden
	}
	if err != nil {
		s.logger.Error("构建仪表盘失败",
			zap.String("user_id", actor.ID), zap.String("role", actor.Role.String()), zap.Error(err))
		return nil, err
	}
	return resp, nil
}

// ────────────────────── 学生 ──────────────────────

func (s *dashboardService) studentDashboard(ctx context.Context, studentID string) (*dto.StudentDashboard, error) {
	now := s.now()
	var (
		summary      dto.StudentSummary
		enrollments  []model.Enrollment
		assignments  []model.Assignment
		submissions  []model.Submission
		courseGrades []model.CourseGrade
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		summary.TotalCourses, err = s.repo.Enrollment.Count(gctx, repository.EnrollmentQuery{
			StudentID: studentID, Status: model.EnrollmentActive,
		})
		return err
	})
	g.Go(func() (err error) {
		summary.CompletedAssignments, err = s.repo.Submission.Count(gctx, repository.SubmissionQuery{StudentID: studentID})
		return err
	})
	g.Go(func() (err error) {
		summary.UpcomingAssignments, err = s.repo.Assignment.Count(gctx, repository.AssignmentQuery{
			StudentID: studentID, ActiveOnly: true, DueFrom: &now,
		})
		return err
	})
	g.Go(func() (err error) {
		courseGrades, err = s.repo.CourseGrade.List(gctx, repository.CourseGradeQuery{StudentID: studentID})
		return err
	})
	g.Go(func() (err error) {
		enrollments, err = s.repo.Enrollment.List(gctx, repository.EnrollmentQuery{
			StudentID: studentID, Limit: recentListSize,
		})
		return err
	})
	g.Go(func() (err error) {
		assignments, err = s.repo.Assignment.List(gctx, repository.AssignmentQuery{
			StudentID: studentID, ActiveOnly: true, Limit: recentListSize,
		})
		return err
	})
	g.Go(func() (err error) {
		submissions, err = s.repo.Submission.List(gctx, repository.SubmissionQuery{
			StudentID: studentID, Limit: recentListSize,
		})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	percentages := make([]float64, 0, len(courseGrades))
	for _, cg := range courseGrades {
		percentages = append(percentages, cg.Percentage)
	}
	summary.AverageGrade = averageOf(percentages)

	recentGrades := courseGrades
	if len(recentGrades) > recentListSize {
		recentGrades = recentGrades[:recentListSize]
	}

	return &dto.StudentDashboard{
		Summary:           summary,
		RecentEnrollments: mapSlice(enrollments, toEnrollmentResponse),
		RecentAssignments: mapSlice(assignments, toAssignmentResponse),
		RecentSubmissions: mapSlice(submissions, toSubmissionResponse),
		RecentGrades:      mapSlice(recentGrades, toCourseGradeResponse),
	}, nil
}

// ────────────────────── 教师 ──────────────────────

func (s *dashboardService) teacherDashboard(ctx context.Context, teacherID string) (*dto.TeacherDashboard, error) {
	now := s.now()
	var (
		summary  dto.TeacherSummary
		courses  []model.Course
		stats    map[string]repository.CourseStats
		pending  []model.Submission
		grades   []model.AssignmentGrade
		upcoming []model.Assignment
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		if courses, err = s.repo.Course.ListByTeacher(gctx, teacherID); err != nil {
			return err
		}
		stats, err = s.repo.Course.Stats(gctx, courseIDsOf(courses))
		return err
	})
	g.Go(func() (err error) {
		summary.TotalStudents, err = s.repo.Enrollment.Count(gctx, repository.EnrollmentQuery{
			TeacherID: teacherID, Status: model.EnrollmentActive,
		})
		return err
	})
	g.Go(func() (err error) {
		summary.PendingSubmissions, err = s.repo.Submission.Count(gctx, repository.SubmissionQuery{
			TeacherID: teacherID, Ungraded: true,
		})
		return err
	})
	g.Go(func() (err error) {
		pending, err = s.repo.Submission.List(gctx, repository.SubmissionQuery{
			TeacherID: teacherID, Ungraded: true, Limit: teacherRecentSize,
		})
		return err
	})
	g.Go(func() (err error) {
		grades, err = s.repo.AssignmentGrade.List(gctx, repository.AssignmentGradeQuery{
			TeacherID: teacherID, Limit: teacherRecentSize,
		})
		return err
	})
	g.Go(func() (err error) {
		upcoming, err = s.repo.Assignment.List(gctx, repository.AssignmentQuery{
			TeacherID: teacherID, ActiveOnly: true, DueFrom: &now, DueAsc: true, Limit: upcomingDueSize,
		})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	summary.TotalCourses = len(courses)
	courseViews := make([]dto.CourseResponse, 0, len(courses))
	for i := range courses {
		st := stats[courses[i].CourseID]
		courseViews = append(courseViews, toCourseResponse(&courses[i], &courseCounts{
			enrollments: st.Enrollments,
			modules:     st.Modules,
		}))
	}

	return &dto.TeacherDashboard{
		Summary:            summary,
		Courses:            courseViews,
		PendingSubmissions: mapSlice(pending, toSubmissionResponse),
		RecentGrades:       mapSlice(grades, toAssignmentGradeResponse),
		UpcomingDueDates:   mapSlice(upcoming, toAssignmentResponse),
	}, nil
}

// ────────────────────── 管理员 ──────────────────────

func (s *dashboardService) adminDashboard(ctx context.Context) (*dto.AdminDashboard, error) {
	var (
		summary dto.AdminSummary
		users   []model.User
		courses []model.Course
	)
	roleCounts := make([]int64, len(model.Roles))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		summary.TotalUsers, err = s.repo.User.Count(gctx)
		return err
	})
	g.Go(func() (err error) {
		summary.TotalCourses, err = s.repo.Course.Count(gctx)
		return err
	})
	g.Go(func() (err error) {
		summary.TotalEnrollments, err = s.repo.Enrollment.Count(gctx, repository.EnrollmentQuery{})
		return err
	})
	g.Go(func() (err error) {
		summary.PendingApprovals, err = s.repo.Enrollment.Count(gctx, repository.EnrollmentQuery{
			Status: model.EnrollmentPending,
		})
		return err
	})
	for i, role := range model.Roles {
		g.Go(func() (err error) {
			roleCounts[i], err = s.repo.User.CountByRole(gctx, role)
			return err
		})
	}
	g.Go(func() (err error) {
		users, err = s.repo.User.ListRecent(gctx, recentListSize)
		return err
	})
	g.Go(func() (err error) {
		courses, err = s.repo.Course.ListRecent(gctx, recentListSize)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	byRole := make(map[string]int64, len(model.Roles))
	for i, role := range model.Roles {
		byRole[role.String()] = roleCounts[i]
	}

	recentCourses := make([]dto.CourseResponse, 0, len(courses))
	for i := range courses {
		recentCourses = append(recentCourses, toCourseResponse(&courses[i], nil))
	}

	return &dto.AdminDashboard{
		Summary:       summary,
		UsersByRole:   byRole,
		RecentUsers:   mapSlice(users, toUserResponse),
		RecentCourses: recentCourses,
	}, nil
}

// ────────────────────── 最近反馈 ──────────────────────

// GetFeedback 合并作业成绩评语、提交评语与课程总评评语，按时间倒序取前若干条
func (s *dashboardService) GetFeedback(ctx context.Context, studentID string) (*dto.FeedbackResponse, error) {
	var (
		assignmentGrades []model.AssignmentGrade
		submissions      []model.Submission
		courseGrades     []model.CourseGrade
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		assignmentGrades, err = s.repo.AssignmentGrade.List(gctx, repository.AssignmentGradeQuery{
			StudentID: studentID, WithFeedback: true, Limit: feedbackPerSource,
		})
		return err
	})
	g.Go(func() (err error) {
		submissions, err = s.repo.Submission.List(gctx, repository.SubmissionQuery{
			StudentID: studentID, WithFeedback: true, SortByGraded: true, Limit: feedbackPerSource,
		})
		return err
	})
	g.Go(func() (err error) {
		courseGrades, err = s.repo.CourseGrade.List(gctx, repository.CourseGradeQuery{
			StudentID: studentID, WithComments: true, Limit: courseFeedbackSize,
		})
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("查询反馈失败", zap.String("student_id", studentID), zap.Error(err))
		return nil, err
	}

	items := make([]dto.FeedbackItem, 0, len(assignmentGrades)+len(submissions)+len(courseGrades))
	for i := range assignmentGrades {
		items = append(items, assignmentGradeFeedback(&assignmentGrades[i]))
	}
	for i := range submissions {
		items = append(items, submissionFeedback(&submissions[i]))
	}
	for i := range courseGrades {
		items = append(items, courseGradeFeedback(&courseGrades[i]))
	}

	total := len(items)
	sort.SliceStable(items, func(i, j int) bool { return items[i].Date.After(items[j].Date) })
	if len(items) > feedbackListSize {
		items = items[:feedbackListSize]
	}

	return &dto.FeedbackResponse{
		RecentFeedback: items,
		Summary: dto.FeedbackSummary{
			TotalFeedback:      total,
			AssignmentFeedback: len(assignmentGrades),
			SubmissionFeedback: len(submissions),
			CourseFeedback:     len(courseGrades),
		},
	}, nil
}

func assignmentGradeFeedback(ag *model.AssignmentGrade) dto.FeedbackItem {
	item := dto.FeedbackItem{
		Kind:        dto.FeedbackAssignmentGrade,
		ID:          ag.AssignmentGradeID,
		Feedback:    derefString(ag.Feedback),
		Score:       floatPtr(ag.Score),
		MaxScore:    floatPtr(ag.MaxScore),
		Percentage:  floatPtr(ag.Percentage),
		LetterGrade: ag.LetterGrade,
		Course:      toCourseBrief(ag.Course),
		Date:        ag.GradedAt,
	}
	if ag.Assignment != nil {
		item.Title = fmt.Sprintf("Feedback for %s", ag.Assignment.Title)
		item.AssignmentType = ag.Assignment.Type
	}
	return item
}

func submissionFeedback(sub *model.Submission) dto.FeedbackItem {
	item := dto.FeedbackItem{
		Kind:     dto.FeedbackSubmission,
		ID:       sub.SubmissionID,
		Feedback: derefString(sub.Feedback),
		Score:    sub.Score,
		Date:     sub.SubmittedAt,
	}
	if sub.GradedAt != nil {
		item.Date = *sub.GradedAt
	}
	if a := sub.Assignment; a != nil {
		item.Title = fmt.Sprintf("Feedback for %s", a.Title)
		item.AssignmentType = a.Type
		item.MaxScore = floatPtr(a.MaxScore)
		item.Course = toCourseBrief(a.Course)
		if sub.Score != nil {
			item.Percentage = floatPtr(round2(percentageOf(*sub.Score, a.MaxScore)))
		}
	}
	return item
}

func courseGradeFeedback(cg *model.CourseGrade) dto.FeedbackItem {
	item := dto.FeedbackItem{
		Kind:           dto.FeedbackCourseGrade,
		ID:             cg.CourseGradeID,
		Feedback:       derefString(cg.Comments),
		Percentage:     floatPtr(cg.Percentage),
		LetterGrade:    cg.LetterGrade,
		AssignmentType: "COURSE_OVERALL",
		Course:         toCourseBrief(cg.Course),
		Date:           cg.UpdatedAt,
	}
	if cg.Course != nil {
		item.Title = fmt.Sprintf("Course feedback for %s", cg.Course.Title)
	}
	return item
}

// ────────────────────── 待办 ──────────────────────

// GetTodos 近期待交作业（含逾期）、即将截止作业、尚无评语的提交
func (s *dashboardService) GetTodos(ctx context.Context, studentID string) (*dto.TodoResponse, error) {
	now := s.now()
	pendingFrom := now.Add(-pendingWindow)
	pendingTo := now.Add(pendingWindow)
	upcomingTo := now.Add(upcomingWindow)

	var (
		pending    []model.Assignment
		upcoming   []model.Assignment
		unreviewed []model.Submission
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		pending, err = s.repo.Assignment.List(gctx, repository.AssignmentQuery{
			StudentID:     studentID,
			UnsubmittedBy: studentID,
			ActiveOnly:    true,
			DueFrom:       &pendingFrom,
			DueTo:         &pendingTo,
			DueAsc:        true,
			Limit:         pendingAssignmentSize,
		})
		return err
	})
	g.Go(func() (err error) {
		upcoming, err = s.repo.Assignment.List(gctx, repository.AssignmentQuery{
			StudentID:  studentID,
			ActiveOnly: true,
			DueFrom:    &now,
			DueTo:      &upcomingTo,
			DueAsc:     true,
			Limit:      upcomingDueSize,
		})
		return err
	})
	g.Go(func() (err error) {
		unreviewed, err = s.repo.Submission.List(gctx, repository.SubmissionQuery{
			StudentID: studentID, WithoutFeedback: true, Limit: pendingFeedbackSize,
		})
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("查询待办失败", zap.String("student_id", studentID), zap.Error(err))
		return nil, err
	}

	resp := &dto.TodoResponse{
		PendingAssignments: make([]dto.TodoItem, 0, len(pending)),
		UpcomingDueDates:   make([]dto.TodoItem, 0, len(upcoming)),
		PendingFeedback:    make([]dto.TodoItem, 0, len(unreviewed)),
	}
	for i := range pending {
		priority := dto.PriorityMedium
		if pending[i].IsPastDue(now) {
			priority = dto.PriorityHigh
		}
		resp.PendingAssignments = append(resp.PendingAssignments, assignmentTodo(&pending[i], priority))
	}
	for i := range upcoming {
		resp.UpcomingDueDates = append(resp.UpcomingDueDates, assignmentTodo(&upcoming[i], dto.PriorityMedium))
	}
	for i := range unreviewed {
		sub := &unreviewed[i]
		submittedAt := sub.SubmittedAt
		item := dto.TodoItem{
			Kind:        dto.TodoFeedback,
			Priority:    dto.PriorityLow,
			ID:          sub.SubmissionID,
			SubmittedAt: &submittedAt,
		}
		if sub.Assignment != nil {
			item.Title = fmt.Sprintf("Feedback for: %s", sub.Assignment.Title)
			item.Course = toCourseBrief(sub.Assignment.Course)
		}
		resp.PendingFeedback = append(resp.PendingFeedback, item)
	}

	return resp, nil
}

func assignmentTodo(a *model.Assignment, priority dto.TodoPriority) dto.TodoItem {
	return dto.TodoItem{
		Kind:     dto.TodoAssignment,
		Priority: priority,
		ID:       a.AssignmentID,
		Title:    a.Title,
		Course:   toCourseBrief(a.Course),
		DueDate:  a.DueDate,
	}
}

func derefString(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func floatPtr(v float64) *float64 { return &v }
