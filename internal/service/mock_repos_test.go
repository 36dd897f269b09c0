package service

import (
	"context"
	"fmt"
	"sort"

	"gorm.io/gorm"

	"aether-lms/backend/internal/model"
	"aether-lms/backend/internal/repository"
)

// ── 内存数据集 ──
// 所有 mock repository 共享同一份数据，唯一约束与外键约束按数据库语义返回 gorm 错误。
// 读取一律返回副本，避免调用方修改影响存储。

type mockStore struct {
	users            map[string]*model.User
	courses          map[string]*model.Course
	modules          map[string]*model.Module
	lessons          map[string]*model.Lesson
	assignments      map[string]*model.Assignment
	enrollments      map[string]*model.Enrollment
	submissions      map[string]*model.Submission
	grades           map[string]*model.Grade
	courseGrades     map[string]*model.CourseGrade
	assignmentGrades map[string]*model.AssignmentGrade
	seq              int
}

func newMockStore() *mockStore {
	return &mockStore{
		users:            make(map[string]*model.User),
		courses:          make(map[string]*model.Course),
		modules:          make(map[string]*model.Module),
		lessons:          make(map[string]*model.Lesson),
		assignments:      make(map[string]*model.Assignment),
		enrollments:      make(map[string]*model.Enrollment),
		submissions:      make(map[string]*model.Submission),
		grades:           make(map[string]*model.Grade),
		courseGrades:     make(map[string]*model.CourseGrade),
		assignmentGrades: make(map[string]*model.AssignmentGrade),
	}
}

func (s *mockStore) nextID(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s-%03d", prefix, s.seq)
}

// newMockRepository 组装未绑定数据库的 Repository 聚合（Transaction 直接在当前聚合上执行）
func newMockRepository() (*repository.Repository, *mockStore) {
	s := newMockStore()
	return &repository.Repository{
		User:            &mockUserRepo{s},
		Course:          &mockCourseRepo{s},
		Module:          &mockModuleRepo{s},
		Lesson:          &mockLessonRepo{s},
		Assignment:      &mockAssignmentRepo{s},
		Enrollment:      &mockEnrollmentRepo{s},
		Submission:      &mockSubmissionRepo{s},
		Grade:           &mockGradeRepo{s},
		CourseGrade:     &mockCourseGradeRepo{s},
		AssignmentGrade: &mockAssignmentGradeRepo{s},
	}, s
}

func limitSlice[T any](items []T, n int) []T {
	if n > 0 && len(items) > n {
		return items[:n]
	}
	return items
}

// ── 预加载辅助 ──

func (s *mockStore) userCopy(id string) *model.User {
	if u, ok := s.users[id]; ok {
		c := *u
		return &c
	}
	return nil
}

func (s *mockStore) courseCopy(id string) *model.Course {
	if c, ok := s.courses[id]; ok {
		cp := *c
		cp.Modules = nil
		return &cp
	}
	return nil
}

func (s *mockStore) assignmentWithCourse(id string) *model.Assignment {
	a, ok := s.assignments[id]
	if !ok {
		return nil
	}
	cp := *a
	cp.Course = s.courseCopy(a.CourseID)
	return &cp
}

func (s *mockStore) courseTeacher(courseID string) string {
	if c, ok := s.courses[courseID]; ok {
		return c.TeacherID
	}
	return ""
}

// ── Mock UserRepository ──

type mockUserRepo struct{ s *mockStore }

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	for _, u := range m.s.users {
		if u.Email == user.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	if user.UserID == "" {
		user.UserID = m.s.nextID("user")
	}
	cp := *user
	m.s.users[user.UserID] = &cp
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u := m.s.userCopy(id); u != nil {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByIDForUpdate(ctx context.Context, id string) (*model.User, error) {
	return m.GetByID(ctx, id)
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	for id, u := range m.s.users {
		if id != user.UserID && u.Email == user.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	cp := *user
	m.s.users[user.UserID] = &cp
	return nil
}

func (m *mockUserRepo) Delete(_ context.Context, id string) error {
	for _, c := range m.s.courses {
		if c.TeacherID == id {
			return gorm.ErrForeignKeyViolated
		}
	}
	delete(m.s.users, id)
	return nil
}

func (m *mockUserRepo) List(_ context.Context, role *model.Role, page repository.Page) ([]model.User, int64, error) {
	var all []model.User
	for _, u := range m.s.users {
		if role == nil || u.Role == *role {
			all = append(all, *u)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Email < all[j].Email })
	total := int64(len(all))
	if page.Offset >= len(all) {
		return []model.User{}, total, nil
	}
	return limitSlice(all[page.Offset:], page.Limit), total, nil
}

func (m *mockUserRepo) ListRecent(_ context.Context, limit int) ([]model.User, error) {
	var all []model.User
	for _, u := range m.s.users {
		all = append(all, *u)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	return limitSlice(all, limit), nil
}

func (m *mockUserRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.s.users)), nil
}

func (m *mockUserRepo) CountByRole(_ context.Context, role model.Role) (int64, error) {
	var n int64
	for _, u := range m.s.users {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}

func (m *mockUserRepo) LockRoleQuota(_ context.Context) error { return nil }

// ── Mock CourseRepository ──

type mockCourseRepo struct{ s *mockStore }

func (m *mockCourseRepo) Create(_ context.Context, course *model.Course) error {
	for _, c := range m.s.courses {
		if c.Code == course.Code {
			return gorm.ErrDuplicatedKey
		}
	}
	if course.CourseID == "" {
		course.CourseID = m.s.nextID("course")
	}
	cp := *course
	m.s.courses[course.CourseID] = &cp
	return nil
}

func (m *mockCourseRepo) GetByID(_ context.Context, id string) (*model.Course, error) {
	if c := m.s.courseCopy(id); c != nil {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCourseRepo) GetWithContent(_ context.Context, id string) (*model.Course, error) {
	c := m.s.courseCopy(id)
	if c == nil {
		return nil, gorm.ErrRecordNotFound
	}
	c.Teacher = m.s.userCopy(c.TeacherID)
	for _, mod := range m.s.modules {
		if mod.CourseID != id || !mod.IsActive {
			continue
		}
		mc := *mod
		mc.Lessons = nil
		for _, l := range m.s.lessons {
			if l.ModuleID == mod.ModuleID && l.IsActive {
				mc.Lessons = append(mc.Lessons, *l)
			}
		}
		sort.Slice(mc.Lessons, func(i, j int) bool { return mc.Lessons[i].Order < mc.Lessons[j].Order })
		c.Modules = append(c.Modules, mc)
	}
	sort.Slice(c.Modules, func(i, j int) bool { return c.Modules[i].Order < c.Modules[j].Order })
	return c, nil
}

func (m *mockCourseRepo) list(match func(*model.Course) bool) []model.Course {
	var all []model.Course
	for id, c := range m.s.courses {
		if match(c) {
			cp := m.s.courseCopy(id)
			cp.Teacher = m.s.userCopy(c.TeacherID)
			all = append(all, *cp)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	return all
}

func (m *mockCourseRepo) ListActive(_ context.Context) ([]model.Course, error) {
	return m.list(func(c *model.Course) bool { return c.IsActive }), nil
}

func (m *mockCourseRepo) ListByTeacher(_ context.Context, teacherID string) ([]model.Course, error) {
	return m.list(func(c *model.Course) bool { return c.TeacherID == teacherID && c.IsActive }), nil
}

func (m *mockCourseRepo) ListRecent(_ context.Context, limit int) ([]model.Course, error) {
	return limitSlice(m.list(func(*model.Course) bool { return true }), limit), nil
}

func (m *mockCourseRepo) Stats(_ context.Context, courseIDs []string) (map[string]repository.CourseStats, error) {
	stats := make(map[string]repository.CourseStats, len(courseIDs))
	for _, id := range courseIDs {
		st := repository.CourseStats{CourseID: id}
		for _, e := range m.s.enrollments {
			if e.CourseID == id && e.Status == model.EnrollmentActive {
				st.Enrollments++
			}
		}
		for _, mod := range m.s.modules {
			if mod.CourseID == id {
				st.Modules++
			}
		}
		stats[id] = st
	}
	return stats, nil
}

func (m *mockCourseRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.s.courses)), nil
}

func (m *mockCourseRepo) Update(_ context.Context, course *model.Course) error {
	for id, c := range m.s.courses {
		if id != course.CourseID && c.Code == course.Code {
			return gorm.ErrDuplicatedKey
		}
	}
	cp := *course
	cp.Teacher, cp.Modules = nil, nil
	m.s.courses[course.CourseID] = &cp
	return nil
}

func (m *mockCourseRepo) SetActive(_ context.Context, id string, active bool) error {
	if c, ok := m.s.courses[id]; ok {
		c.IsActive = active
	}
	return nil
}

// ── Mock ModuleRepository / LessonRepository ──

type mockModuleRepo struct{ s *mockStore }

func (m *mockModuleRepo) Create(_ context.Context, module *model.Module) error {
	for _, mod := range m.s.modules {
		if mod.CourseID == module.CourseID && mod.Order == module.Order {
			return gorm.ErrDuplicatedKey
		}
	}
	if module.ModuleID == "" {
		module.ModuleID = m.s.nextID("module")
	}
	cp := *module
	m.s.modules[module.ModuleID] = &cp
	return nil
}

func (m *mockModuleRepo) GetByID(_ context.Context, id string) (*model.Module, error) {
	if mod, ok := m.s.modules[id]; ok {
		cp := *mod
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockModuleRepo) ListByCourse(_ context.Context, courseID string) ([]model.Module, error) {
	var all []model.Module
	for _, mod := range m.s.modules {
		if mod.CourseID == courseID {
			all = append(all, *mod)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Order < all[j].Order })
	return all, nil
}

func (m *mockModuleRepo) Update(_ context.Context, module *model.Module) error {
	for id, mod := range m.s.modules {
		if id != module.ModuleID && mod.CourseID == module.CourseID && mod.Order == module.Order {
			return gorm.ErrDuplicatedKey
		}
	}
	cp := *module
	m.s.modules[module.ModuleID] = &cp
	return nil
}

func (m *mockModuleRepo) Delete(ctx context.Context, id string) error {
	if n, _ := m.CountLessons(ctx, id); n > 0 {
		return gorm.ErrForeignKeyViolated
	}
	delete(m.s.modules, id)
	return nil
}

func (m *mockModuleRepo) CountLessons(_ context.Context, moduleID string) (int64, error) {
	var n int64
	for _, l := range m.s.lessons {
		if l.ModuleID == moduleID {
			n++
		}
	}
	return n, nil
}

type mockLessonRepo struct{ s *mockStore }

func (m *mockLessonRepo) Create(_ context.Context, lesson *model.Lesson) error {
	for _, l := range m.s.lessons {
		if l.ModuleID == lesson.ModuleID && l.Order == lesson.Order {
			return gorm.ErrDuplicatedKey
		}
	}
	if lesson.LessonID == "" {
		lesson.LessonID = m.s.nextID("lesson")
	}
	cp := *lesson
	m.s.lessons[lesson.LessonID] = &cp
	return nil
}

func (m *mockLessonRepo) GetByID(_ context.Context, id string) (*model.Lesson, error) {
	if l, ok := m.s.lessons[id]; ok {
		cp := *l
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockLessonRepo) ListByModule(_ context.Context, moduleID string) ([]model.Lesson, error) {
	var all []model.Lesson
	for _, l := range m.s.lessons {
		if l.ModuleID == moduleID {
			all = append(all, *l)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Order < all[j].Order })
	return all, nil
}

func (m *mockLessonRepo) Update(_ context.Context, lesson *model.Lesson) error {
	for id, l := range m.s.lessons {
		if id != lesson.LessonID && l.ModuleID == lesson.ModuleID && l.Order == lesson.Order {
			return gorm.ErrDuplicatedKey
		}
	}
	cp := *lesson
	m.s.lessons[lesson.LessonID] = &cp
	return nil
}

func (m *mockLessonRepo) Delete(_ context.Context, id string) error {
	delete(m.s.lessons, id)
	return nil
}

// ── Mock AssignmentRepository ──

type mockAssignmentRepo struct{ s *mockStore }

func (m *mockAssignmentRepo) Create(_ context.Context, assignment *model.Assignment) error {
	if assignment.AssignmentID == "" {
		assignment.AssignmentID = m.s.nextID("assignment")
	}
	cp := *assignment
	cp.Course = nil
	m.s.assignments[assignment.AssignmentID] = &cp
	return nil
}

func (m *mockAssignmentRepo) GetByID(_ context.Context, id string) (*model.Assignment, error) {
	if a := m.s.assignmentWithCourse(id); a != nil {
		return a, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAssignmentRepo) match(a *model.Assignment, q repository.AssignmentQuery) bool {
	if q.CourseID != "" && a.CourseID != q.CourseID {
		return false
	}
	if q.StudentID != "" {
		enrolled := false
		for _, e := range m.s.enrollments {
			if e.CourseID == a.CourseID && e.StudentID == q.StudentID && e.Status == model.EnrollmentActive {
				enrolled = true
				break
			}
		}
		if !enrolled {
			return false
		}
	}
	if q.TeacherID != "" && m.s.courseTeacher(a.CourseID) != q.TeacherID {
		return false
	}
	if q.UnsubmittedBy != "" {
		for _, sub := range m.s.submissions {
			if sub.AssignmentID == a.AssignmentID && sub.StudentID == q.UnsubmittedBy {
				return false
			}
		}
	}
	if q.ActiveOnly && !a.IsActive {
		return false
	}
	if q.DueFrom != nil && (a.DueDate == nil || a.DueDate.Before(*q.DueFrom)) {
		return false
	}
	if q.DueTo != nil && (a.DueDate == nil || a.DueDate.After(*q.DueTo)) {
		return false
	}
	return true
}

func (m *mockAssignmentRepo) List(_ context.Context, q repository.AssignmentQuery) ([]model.Assignment, error) {
	var all []model.Assignment
	for id, a := range m.s.assignments {
		if m.match(a, q) {
			all = append(all, *m.s.assignmentWithCourse(id))
		}
	}
	if q.DueAsc {
		sort.Slice(all, func(i, j int) bool {
			if all[i].DueDate == nil || all[j].DueDate == nil {
				return all[j].DueDate == nil && all[i].DueDate != nil
			}
			return all[i].DueDate.Before(*all[j].DueDate)
		})
	} else {
		sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	}
	return limitSlice(all, q.Limit), nil
}

func (m *mockAssignmentRepo) Count(_ context.Context, q repository.AssignmentQuery) (int64, error) {
	var n int64
	for _, a := range m.s.assignments {
		if m.match(a, q) {
			n++
		}
	}
	return n, nil
}

func (m *mockAssignmentRepo) Update(_ context.Context, assignment *model.Assignment) error {
	cp := *assignment
	cp.Course = nil
	m.s.assignments[assignment.AssignmentID] = &cp
	return nil
}

func (m *mockAssignmentRepo) Delete(_ context.Context, id string) error {
	for _, sub := range m.s.submissions {
		if sub.AssignmentID == id {
			return gorm.ErrForeignKeyViolated
		}
	}
	delete(m.s.assignments, id)
	return nil
}

// ── Mock EnrollmentRepository ──

type mockEnrollmentRepo struct{ s *mockStore }

func (m *mockEnrollmentRepo) Create(_ context.Context, enrollment *model.Enrollment) error {
	for _, e := range m.s.enrollments {
		if e.StudentID == enrollment.StudentID && e.CourseID == enrollment.CourseID {
			return gorm.ErrDuplicatedKey
		}
	}
	if enrollment.EnrollmentID == "" {
		enrollment.EnrollmentID = m.s.nextID("enrollment")
	}
	cp := *enrollment
	cp.Student, cp.Course = nil, nil
	m.s.enrollments[enrollment.EnrollmentID] = &cp
	return nil
}

func (m *mockEnrollmentRepo) withRelations(e *model.Enrollment) model.Enrollment {
	cp := *e
	cp.Student = m.s.userCopy(e.StudentID)
	cp.Course = m.s.courseCopy(e.CourseID)
	return cp
}

func (m *mockEnrollmentRepo) GetByID(_ context.Context, id string) (*model.Enrollment, error) {
	if e, ok := m.s.enrollments[id]; ok {
		cp := m.withRelations(e)
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEnrollmentRepo) GetByStudentAndCourse(_ context.Context, studentID, courseID string) (*model.Enrollment, error) {
	for _, e := range m.s.enrollments {
		if e.StudentID == studentID && e.CourseID == courseID {
			cp := *e
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEnrollmentRepo) match(e *model.Enrollment, q repository.EnrollmentQuery) bool {
	return (q.StudentID == "" || e.StudentID == q.StudentID) &&
		(q.CourseID == "" || e.CourseID == q.CourseID) &&
		(q.TeacherID == "" || m.s.courseTeacher(e.CourseID) == q.TeacherID) &&
		(q.Status == "" || e.Status == q.Status)
}

func (m *mockEnrollmentRepo) List(_ context.Context, q repository.EnrollmentQuery) ([]model.Enrollment, error) {
	var all []model.Enrollment
	for _, e := range m.s.enrollments {
		if m.match(e, q) {
			all = append(all, m.withRelations(e))
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].EnrolledAt.After(all[j].EnrolledAt) })
	return limitSlice(all, q.Limit), nil
}

func (m *mockEnrollmentRepo) Count(_ context.Context, q repository.EnrollmentQuery) (int64, error) {
	var n int64
	for _, e := range m.s.enrollments {
		if m.match(e, q) {
			n++
		}
	}
	return n, nil
}

func (m *mockEnrollmentRepo) UpdateStatus(_ context.Context, id string, status model.EnrollmentStatus) error {
	if e, ok := m.s.enrollments[id]; ok {
		e.Status = status
	}
	return nil
}

func (m *mockEnrollmentRepo) Delete(_ context.Context, id string) error {
	delete(m.s.enrollments, id)
	return nil
}

// ── Mock SubmissionRepository ──

type mockSubmissionRepo struct{ s *mockStore }

func (m *mockSubmissionRepo) Create(_ context.Context, submission *model.Submission) error {
	for _, sub := range m.s.submissions {
		if sub.StudentID == submission.StudentID && sub.AssignmentID == submission.AssignmentID {
			return gorm.ErrDuplicatedKey
		}
	}
	if submission.SubmissionID == "" {
		submission.SubmissionID = m.s.nextID("submission")
	}
	cp := *submission
	cp.Assignment, cp.Student = nil, nil
	m.s.submissions[submission.SubmissionID] = &cp
	return nil
}

func (m *mockSubmissionRepo) withRelations(sub *model.Submission) model.Submission {
	cp := *sub
	cp.Assignment = m.s.assignmentWithCourse(sub.AssignmentID)
	cp.Student = m.s.userCopy(sub.StudentID)
	return cp
}

func (m *mockSubmissionRepo) GetByID(_ context.Context, id string) (*model.Submission, error) {
	if sub, ok := m.s.submissions[id]; ok {
		cp := m.withRelations(sub)
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSubmissionRepo) match(sub *model.Submission, q repository.SubmissionQuery) bool {
	if q.StudentID != "" && sub.StudentID != q.StudentID {
		return false
	}
	if q.AssignmentID != "" && sub.AssignmentID != q.AssignmentID {
		return false
	}
	if q.CourseID != "" || q.TeacherID != "" {
		a, ok := m.s.assignments[sub.AssignmentID]
		if !ok {
			return false
		}
		if q.CourseID != "" && a.CourseID != q.CourseID {
			return false
		}
		if q.TeacherID != "" && m.s.courseTeacher(a.CourseID) != q.TeacherID {
			return false
		}
	}
	if q.Ungraded && sub.Score != nil {
		return false
	}
	if q.WithFeedback && sub.Feedback == nil {
		return false
	}
	if q.WithoutFeedback && sub.Feedback != nil {
		return false
	}
	if q.ScoreAbove != nil && (sub.Score == nil || *sub.Score <= *q.ScoreAbove) {
		return false
	}
	return true
}

func (m *mockSubmissionRepo) List(_ context.Context, q repository.SubmissionQuery) ([]model.Submission, error) {
	var all []model.Submission
	for _, sub := range m.s.submissions {
		if m.match(sub, q) {
			all = append(all, m.withRelations(sub))
		}
	}
	if q.SortByGraded {
		sort.Slice(all, func(i, j int) bool {
			if all[i].GradedAt == nil || all[j].GradedAt == nil {
				return all[j].GradedAt == nil && all[i].GradedAt != nil
			}
			return all[i].GradedAt.After(*all[j].GradedAt)
		})
	} else {
		sort.Slice(all, func(i, j int) bool { return all[i].SubmittedAt.After(all[j].SubmittedAt) })
	}
	return limitSlice(all, q.Limit), nil
}

func (m *mockSubmissionRepo) Count(_ context.Context, q repository.SubmissionQuery) (int64, error) {
	var n int64
	for _, sub := range m.s.submissions {
		if m.match(sub, q) {
			n++
		}
	}
	return n, nil
}

func (m *mockSubmissionRepo) UpdateContent(_ context.Context, submission *model.Submission) error {
	if sub, ok := m.s.submissions[submission.SubmissionID]; ok {
		sub.Content = submission.Content
		sub.SubmittedAt = submission.SubmittedAt
	}
	return nil
}

func (m *mockSubmissionRepo) UpdateGrade(_ context.Context, submission *model.Submission) error {
	if sub, ok := m.s.submissions[submission.SubmissionID]; ok {
		sub.Score = submission.Score
		sub.Feedback = submission.Feedback
		sub.GradedAt = submission.GradedAt
		sub.GradedBy = submission.GradedBy
	}
	return nil
}

func (m *mockSubmissionRepo) Delete(_ context.Context, id string) error {
	delete(m.s.submissions, id)
	return nil
}

// ── Mock GradeRepository ──

type mockGradeRepo struct{ s *mockStore }

func (m *mockGradeRepo) Create(_ context.Context, grade *model.Grade) error {
	if grade.GradeID == "" {
		grade.GradeID = m.s.nextID("grade")
	}
	cp := *grade
	cp.Student, cp.Course = nil, nil
	m.s.grades[grade.GradeID] = &cp
	return nil
}

func (m *mockGradeRepo) withRelations(g *model.Grade) model.Grade {
	cp := *g
	cp.Student = m.s.userCopy(g.StudentID)
	cp.Course = m.s.courseCopy(g.CourseID)
	return cp
}

func (m *mockGradeRepo) GetByID(_ context.Context, id string) (*model.Grade, error) {
	if g, ok := m.s.grades[id]; ok {
		cp := m.withRelations(g)
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockGradeRepo) list(match func(*model.Grade) bool) []model.Grade {
	var all []model.Grade
	for _, g := range m.s.grades {
		if match(g) {
			all = append(all, m.withRelations(g))
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	return all
}

func (m *mockGradeRepo) ListByStudent(_ context.Context, studentID string) ([]model.Grade, error) {
	return m.list(func(g *model.Grade) bool { return g.StudentID == studentID }), nil
}

func (m *mockGradeRepo) ListByCourse(_ context.Context, courseID string) ([]model.Grade, error) {
	return m.list(func(g *model.Grade) bool { return g.CourseID == courseID }), nil
}

func (m *mockGradeRepo) Update(_ context.Context, grade *model.Grade) error {
	cp := *grade
	cp.Student, cp.Course = nil, nil
	m.s.grades[grade.GradeID] = &cp
	return nil
}

func (m *mockGradeRepo) Delete(_ context.Context, id string) error {
	delete(m.s.grades, id)
	return nil
}

// ── Mock CourseGradeRepository ──

type mockCourseGradeRepo struct{ s *mockStore }

func (m *mockCourseGradeRepo) Create(_ context.Context, grade *model.CourseGrade) error {
	for _, cg := range m.s.courseGrades {
		if cg.StudentID == grade.StudentID && cg.CourseID == grade.CourseID {
			return gorm.ErrDuplicatedKey
		}
	}
	if grade.CourseGradeID == "" {
		grade.CourseGradeID = m.s.nextID("course-grade")
	}
	cp := *grade
	cp.Student, cp.Course = nil, nil
	m.s.courseGrades[grade.CourseGradeID] = &cp
	return nil
}

func (m *mockCourseGradeRepo) withRelations(cg *model.CourseGrade) model.CourseGrade {
	cp := *cg
	cp.Student = m.s.userCopy(cg.StudentID)
	cp.Course = m.s.courseCopy(cg.CourseID)
	return cp
}

func (m *mockCourseGradeRepo) GetByID(_ context.Context, id string) (*model.CourseGrade, error) {
	if cg, ok := m.s.courseGrades[id]; ok {
		cp := m.withRelations(cg)
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCourseGradeRepo) List(_ context.Context, q repository.CourseGradeQuery) ([]model.CourseGrade, error) {
	var all []model.CourseGrade
	for _, cg := range m.s.courseGrades {
		if q.StudentID != "" && cg.StudentID != q.StudentID {
			continue
		}
		if q.CourseID != "" && cg.CourseID != q.CourseID {
			continue
		}
		if q.TeacherID != "" && m.s.courseTeacher(cg.CourseID) != q.TeacherID {
			continue
		}
		if q.WithComments && cg.Comments == nil {
			continue
		}
		all = append(all, m.withRelations(cg))
	}
	sort.Slice(all, func(i, j int) bool { return all[i].UpdatedAt.After(all[j].UpdatedAt) })
	return limitSlice(all, q.Limit), nil
}

func (m *mockCourseGradeRepo) Update(_ context.Context, grade *model.CourseGrade) error {
	cp := *grade
	cp.Student, cp.Course = nil, nil
	m.s.courseGrades[grade.CourseGradeID] = &cp
	return nil
}

func (m *mockCourseGradeRepo) Delete(_ context.Context, id string) error {
	delete(m.s.courseGrades, id)
	return nil
}

// ── Mock AssignmentGradeRepository ──

type mockAssignmentGradeRepo struct{ s *mockStore }

func (m *mockAssignmentGradeRepo) Upsert(_ context.Context, grade *model.AssignmentGrade) error {
	for id, ag := range m.s.assignmentGrades {
		if ag.StudentID == grade.StudentID && ag.AssignmentID == grade.AssignmentID {
			grade.AssignmentGradeID = id
			break
		}
	}
	if grade.AssignmentGradeID == "" {
		grade.AssignmentGradeID = m.s.nextID("assignment-grade")
	}
	cp := *grade
	cp.Student, cp.Assignment, cp.Course = nil, nil, nil
	m.s.assignmentGrades[grade.AssignmentGradeID] = &cp
	return nil
}

func (m *mockAssignmentGradeRepo) List(_ context.Context, q repository.AssignmentGradeQuery) ([]model.AssignmentGrade, error) {
	var all []model.AssignmentGrade
	for _, ag := range m.s.assignmentGrades {
		if q.StudentID != "" && ag.StudentID != q.StudentID {
			continue
		}
		if q.CourseID != "" && ag.CourseID != q.CourseID {
			continue
		}
		if q.AssignmentID != "" && ag.AssignmentID != q.AssignmentID {
			continue
		}
		if q.TeacherID != "" && m.s.courseTeacher(ag.CourseID) != q.TeacherID {
			continue
		}
		if q.WithFeedback && ag.Feedback == nil {
			continue
		}
		cp := *ag
		cp.Student = m.s.userCopy(ag.StudentID)
		cp.Course = m.s.courseCopy(ag.CourseID)
		if a, ok := m.s.assignments[ag.AssignmentID]; ok {
			ac := *a
			ac.Course = nil
			cp.Assignment = &ac
		}
		all = append(all, cp)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].GradedAt.After(all[j].GradedAt) })
	return limitSlice(all, q.Limit), nil
}

// ── 测试数据构造 ──

func seedUser(s *mockStore, id string, role model.Role) *model.User {
	u := &model.User{
		UserID:    id,
		Email:     id + "@lms.test",
		FirstName: "Test",
		LastName:  id,
		Role:      role,
	}
	s.users[id] = u
	return u
}

func seedCourse(s *mockStore, id, teacherID string) *model.Course {
	c := &model.Course{
		CourseID:  id,
		Title:     "Course " + id,
		Code:      "CODE-" + id,
		Credits:   model.DefaultCredits,
		TeacherID: teacherID,
		IsActive:  true,
	}
	s.courses[id] = c
	return c
}

func seedEnrollment(s *mockStore, studentID, courseID string, status model.EnrollmentStatus) *model.Enrollment {
	e := &model.Enrollment{
		EnrollmentID: s.nextID("enrollment"),
		StudentID:    studentID,
		CourseID:     courseID,
		Status:       status,
	}
	s.enrollments[e.EnrollmentID] = e
	return e
}

func seedAssignment(s *mockStore, id, courseID string, maxScore float64) *model.Assignment {
	a := &model.Assignment{
		AssignmentID: id,
		Title:        "Assignment " + id,
		CourseID:     courseID,
		MaxScore:     maxScore,
		Type:         defaultAssignmentType,
		IsActive:     true,
	}
	s.assignments[id] = a
	return a
}
