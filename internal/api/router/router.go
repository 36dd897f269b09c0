package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"aether-lms/backend/config"
	"aether-lms/backend/internal/api/handler"
	"aether-lms/backend/internal/api/middleware"
	"aether-lms/backend/internal/model"
	"aether-lms/backend/pkg/jwt"
	"aether-lms/backend/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎。rdb 为 nil 时跳过黑名单校验与限流
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.BodyLimitBytes))

	// nil *redis.Client 不能直接赋给接口
	var (
		checker middleware.TokenChecker
		limiter middleware.RateLimiter
	)
	if rdb != nil {
		checker = rdb
		limiter = rdb
	}
	authLimit := middleware.RateLimit(limiter, cfg.RateLimit.AuthRequests, cfg.RateLimit.AuthWindow, logger)
	adminOnly := middleware.RoleAuth(model.RoleAdmin)

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证，限流）
		auth := v1.Group("/auth")
		{
			auth.POST("/login", authLimit, h.Auth.Login)
			auth.POST("/register", authLimit, h.Auth.Register)
		}

		// 课程目录（公开）
		v1.GET("/courses", h.Course.ListCourses)
		v1.GET("/courses/:id", h.Course.GetCourse)
		v1.GET("/courses/:id/modules", h.Course.ListModules)

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, checker, logger))
		{
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.Me)

			// 仪表盘 / 反馈 / 待办
			authorized.GET("/dashboard", h.Dashboard.GetDashboard)
			authorized.GET("/feedback/recent", h.Dashboard.GetRecentFeedback)
			authorized.GET("/todos", h.Dashboard.GetTodos)
			authorized.GET("/todos/calendar.ics", h.Export.ExportCalendar)

			// 用户模块（仅管理员）
			users := authorized.Group("/users", adminOnly)
			{
				users.GET("", h.User.ListUsers)
				users.POST("", h.User.CreateUser)
				users.POST("/import", h.User.ImportUsers)
				users.GET("/:id", h.User.GetUser)
				users.PATCH("/:id", h.User.UpdateUser)
				users.DELETE("/:id", h.User.DeleteUser)
				users.PATCH("/:id/role", h.User.ChangeRole)
				users.POST("/:id/reset-password", h.User.ResetPassword)
			}

			// 课程写操作（Service 层按策略鉴权）
			courses := authorized.Group("/courses")
			{
				courses.POST("", h.Course.CreateCourse)
				courses.PATCH("/:id", h.Course.UpdateCourse)
				courses.DELETE("/:id", h.Course.DeleteCourse)
				courses.GET("/:id/gradebook.xlsx", h.Export.ExportGradebook)
			}

			// 章节
			modules := authorized.Group("/modules")
			{
				modules.POST("", h.Module.CreateModule)
				modules.GET("/:id", h.Module.GetModule)
				modules.PATCH("/:id", h.Module.UpdateModule)
				modules.DELETE("/:id", h.Module.DeleteModule)
				modules.GET("/:id/lessons", h.Module.ListLessons)
			}

			// 课时
			lessons := authorized.Group("/lessons")
			{
				lessons.POST("", h.Module.CreateLesson)
				lessons.GET("/:id", h.Module.GetLesson)
				lessons.PATCH("/:id", h.Module.UpdateLesson)
				lessons.DELETE("/:id", h.Module.DeleteLesson)
			}

			// 作业
			assignments := authorized.Group("/assignments")
			{
				assignments.POST("", h.Assignment.CreateAssignment)
				assignments.GET("", h.Assignment.ListAssignments)
				assignments.GET("/:id", h.Assignment.GetAssignment)
				assignments.PATCH("/:id", h.Assignment.UpdateAssignment)
				assignments.DELETE("/:id", h.Assignment.DeleteAssignment)
			}

			// 选课
			enrollments := authorized.Group("/enrollments")
			{
				enrollments.POST("", h.Enrollment.Enroll)
				enrollments.GET("", h.Enrollment.ListEnrollments)
				enrollments.GET("/student/:studentId", h.Enrollment.ListByStudent)
				enrollments.GET("/course/:courseId", h.Enrollment.ListByCourse)
				enrollments.GET("/:id", h.Enrollment.GetEnrollment)
				enrollments.PATCH("/:id", h.Enrollment.UpdateStatus)
				enrollments.DELETE("/:id", h.Enrollment.DeleteEnrollment)
			}

			// 作业提交
			submissions := authorized.Group("/submissions")
			{
				submissions.POST("", h.Submission.Submit)
				submissions.GET("", h.Submission.ListSubmissions)
				submissions.GET("/assignment/:assignmentId", h.Submission.ListByAssignment)
				submissions.GET("/:id", h.Submission.GetSubmission)
				submissions.PATCH("/:id", h.Submission.UpdateSubmission)
				submissions.DELETE("/:id", h.Submission.DeleteSubmission)
				submissions.POST("/:id/grade", h.Submission.GradeSubmission)
			}

			// 成绩记录
			grades := authorized.Group("/grades")
			{
				grades.POST("", h.Grade.CreateGrade)
				grades.GET("/student/:studentId", h.Grade.ListByStudent)
				grades.GET("/student/:studentId/gpa", h.Grade.GetStudentGPA)
				grades.GET("/course/:courseId", h.Grade.ListByCourse)
				grades.GET("/:id", h.Grade.GetGrade)
				grades.PATCH("/:id", h.Grade.UpdateGrade)
				grades.DELETE("/:id", h.Grade.DeleteGrade)
			}

			// 课程总评
			courseGrades := authorized.Group("/course-grades")
			{
				courseGrades.POST("", h.CourseGrade.CreateCourseGrade)
				courseGrades.GET("", h.CourseGrade.ListCourseGrades)
				courseGrades.GET("/student/:studentId", h.CourseGrade.ListByStudent)
				courseGrades.GET("/course/:courseId", h.CourseGrade.ListByCourse)
				courseGrades.GET("/:id", h.CourseGrade.GetCourseGrade)
				courseGrades.PATCH("/:id", h.CourseGrade.UpdateCourseGrade)
				courseGrades.DELETE("/:id", h.CourseGrade.DeleteCourseGrade)
			}

			// 作业成绩
			authorized.POST("/assignment-grades", h.Grade.RecordAssignmentGrade)
			authorized.GET("/assignment-grades", h.Grade.ListAssignmentGrades)
		}
	}

	return r
}
