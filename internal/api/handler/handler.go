package handler

import (
	"aether-lms/backend/internal/service"
)

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth        *AuthHandler
	User        *UserHandler
	Course      *CourseHandler
	Module      *ModuleHandler
	Assignment  *AssignmentHandler
	Enrollment  *EnrollmentHandler
	Submission  *SubmissionHandler
	Grade       *GradeHandler
	CourseGrade *CourseGradeHandler
	Dashboard   *DashboardHandler
	Export      *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:        NewAuthHandler(svc.Auth),
		User:        NewUserHandler(svc.User),
		Course:      NewCourseHandler(svc.Course),
		Module:      NewModuleHandler(svc.Module),
		Assignment:  NewAssignmentHandler(svc.Assignment),
		Enrollment:  NewEnrollmentHandler(svc.Enrollment),
		Submission:  NewSubmissionHandler(svc.Submission),
		Grade:       NewGradeHandler(svc.Grade, svc.AssignmentGrade),
		CourseGrade: NewCourseGradeHandler(svc.CourseGrade),
		Dashboard:   NewDashboardHandler(svc.Dashboard),
		Export:      NewExportHandler(svc.Export),
	}
}
