package service

import (
	"aether-lms/backend/internal/dto"
	"aether-lms/backend/internal/model"
)

// ── Model → DTO ──

func toUserResponse(u *model.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        u.UserID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		FullName:  u.FullName(),
		Role:      u.Role.String(),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func toUserBrief(u *model.User) *dto.UserBrief {
	if u == nil {
		return nil
	}
	return &dto.UserBrief{
		ID:        u.UserID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}

func toCourseBrief(c *model.Course) *dto.CourseBrief {
	if c == nil {
		return nil
	}
	return &dto.CourseBrief{
		ID:      c.CourseID,
		Title:   c.Title,
		Code:    c.Code,
		Credits: c.Credits,
	}
}

func toCourseResponse(c *model.Course, stats *courseCounts) dto.CourseResponse {
	resp := dto.CourseResponse{
		ID:          c.CourseID,
		Title:       c.Title,
		Description: c.Description,
		Code:        c.Code,
		Credits:     c.Credits,
		TeacherID:   c.TeacherID,
		Teacher:     toUserBrief(c.Teacher),
		IsActive:    c.IsActive,
		CreatedAt:   c.CreatedAt,
	}
	if stats != nil {
		resp.EnrollmentCount = stats.enrollments
		resp.ModuleCount = stats.modules
	}
	if len(c.Modules) > 0 {
		resp.Modules = make([]dto.ModuleResponse, 0, len(c.Modules))
		for i := range c.Modules {
			resp.Modules = append(resp.Modules, toModuleResponse(&c.Modules[i]))
		}
		if stats == nil {
			resp.ModuleCount = int64(len(c.Modules))
		}
	}
	return resp
}

// courseCounts 课程统计
type courseCounts struct {
	enrollments int64
	modules     int64
}

func toModuleResponse(m *model.Module) dto.ModuleResponse {
	lessons := make([]dto.LessonResponse, 0, len(m.Lessons))
	for i := range m.Lessons {
		lessons = append(lessons, toLessonResponse(&m.Lessons[i]))
	}
	return dto.ModuleResponse{
		ID:          m.ModuleID,
		Title:       m.Title,
		Description: m.Description,
		Order:       m.Order,
		CourseID:    m.CourseID,
		IsActive:    m.IsActive,
		Lessons:     lessons,
	}
}

func toLessonResponse(l *model.Lesson) dto.LessonResponse {
	return dto.LessonResponse{
		ID:       l.LessonID,
		Title:    l.Title,
		Content:  l.Content,
		Order:    l.Order,
		ModuleID: l.ModuleID,
		IsActive: l.IsActive,
	}
}

func toAssignmentResponse(a *model.Assignment) dto.AssignmentResponse {
	return dto.AssignmentResponse{
		ID:          a.AssignmentID,
		Title:       a.Title,
		Description: a.Description,
		CourseID:    a.CourseID,
		Course:      toCourseBrief(a.Course),
		ModuleID:    a.ModuleID,
		MaxScore:    a.MaxScore,
		DueDate:     a.DueDate,
		Type:        a.Type,
		IsActive:    a.IsActive,
		CreatedAt:   a.CreatedAt,
	}
}

func toAssignmentBrief(a *model.Assignment) *dto.AssignmentBrief {
	if a == nil {
		return nil
	}
	return &dto.AssignmentBrief{
		ID:       a.AssignmentID,
		Title:    a.Title,
		MaxScore: a.MaxScore,
		Course:   toCourseBrief(a.Course),
	}
}

func toEnrollmentResponse(e *model.Enrollment) dto.EnrollmentResponse {
	return dto.EnrollmentResponse{
		ID:         e.EnrollmentID,
		StudentID:  e.StudentID,
		Student:    toUserBrief(e.Student),
		CourseID:   e.CourseID,
		Course:     toCourseBrief(e.Course),
		Status:     string(e.Status),
		EnrolledAt: e.EnrolledAt,
	}
}

func toSubmissionResponse(s *model.Submission) dto.SubmissionResponse {
	return dto.SubmissionResponse{
		ID:           s.SubmissionID,
		StudentID:    s.StudentID,
		Student:      toUserBrief(s.Student),
		AssignmentID: s.AssignmentID,
		Assignment:   toAssignmentBrief(s.Assignment),
		Content:      s.Content,
		Score:        s.Score,
		Feedback:     s.Feedback,
		State:        string(s.State()),
		SubmittedAt:  s.SubmittedAt,
		GradedAt:     s.GradedAt,
	}
}

func toGradeResponse(g *model.Grade) dto.GradeResponse {
	return dto.GradeResponse{
		ID:          g.GradeID,
		StudentID:   g.StudentID,
		Student:     toUserBrief(g.Student),
		CourseID:    g.CourseID,
		Course:      toCourseBrief(g.Course),
		Title:       g.Title,
		Description: g.Description,
		Type:        g.Type,
		Score:       g.Score,
		MaxScore:    g.MaxScore,
		DueDate:     g.DueDate,
		SubmittedAt: g.SubmittedAt,
		CreatedAt:   g.CreatedAt,
	}
}

func toCourseGradeResponse(g *model.CourseGrade) dto.CourseGradeResponse {
	return dto.CourseGradeResponse{
		ID:          g.CourseGradeID,
		StudentID:   g.StudentID,
		Student:     toUserBrief(g.Student),
		CourseID:    g.CourseID,
		Course:      toCourseBrief(g.Course),
		LetterGrade: g.LetterGrade,
		Percentage:  g.Percentage,
		Comments:    g.Comments,
		GradedBy:    g.GradedBy,
		UpdatedAt:   g.UpdatedAt,
	}
}

func toAssignmentGradeResponse(g *model.AssignmentGrade) dto.AssignmentGradeResponse {
	return dto.AssignmentGradeResponse{
		ID:           g.AssignmentGradeID,
		StudentID:    g.StudentID,
		Student:      toUserBrief(g.Student),
		AssignmentID: g.AssignmentID,
		Assignment:   toAssignmentBrief(g.Assignment),
		CourseID:     g.CourseID,
		Score:        g.Score,
		MaxScore:     g.MaxScore,
		Percentage:   g.Percentage,
		LetterGrade:  g.LetterGrade,
		Feedback:     g.Feedback,
		GradedAt:     g.GradedAt,
	}
}

// mapSlice 逐个转换切片元素（保证返回非 nil 切片，JSON 输出 []）
func mapSlice[T any, R any](items []T, fn func(*T) R) []R {
	out := make([]R, 0, len(items))
	for i := range items {
		out = append(out, fn(&items[i]))
	}
	return out
}
