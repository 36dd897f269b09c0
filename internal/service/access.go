package service

import (
	"context"

	"aether-lms/backend/internal/model"
	"aether-lms/backend/internal/policy"
	"aether-lms/backend/internal/repository"
)

// ── 资源加载与归属判定（各业务共用） ──

func loadCourse(ctx context.Context, repo *repository.Repository, id string) (*model.Course, error) {
	course, err := repo.Course.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}
	return course, nil
}

func loadModule(ctx context.Context, repo *repository.Repository, id string) (*model.Module, error) {
	module, err := repo.Module.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrModuleNotFound
		}
		return nil, err
	}
	return module, nil
}

func loadAssignment(ctx context.Context, repo *repository.Repository, id string) (*model.Assignment, error) {
	assignment, err := repo.Assignment.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrAssignmentNotFound
		}
		return nil, err
	}
	return assignment, nil
}

// loadStudent 查询用户并要求其角色为 STUDENT
func loadStudent(ctx context.Context, repo *repository.Repository, id string) (*model.User, error) {
	user, err := repo.User.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}
	if user.Role != model.RoleStudent {
		return nil, ErrStudentNotFound
	}
	return user, nil
}

// authorizeCourse 以课程授课教师为归属判定
func authorizeCourse(actor policy.Actor, action policy.Action, course *model.Course) error {
	return policy.Authorize(actor, action, policy.Resource{CourseTeacherID: course.TeacherID})
}

// authorizeStudentRecords 查看学生记录：本人、管理员，或课程授课教师（courseTeacherID 非空时）
func authorizeStudentRecords(actor policy.Actor, studentID, courseTeacherID string) error {
	return policy.Authorize(actor, policy.ActionViewStudentRecords, policy.Resource{
		CourseTeacherID: courseTeacherID,
		StudentID:       studentID,
	})
}

// requireEnrolled 学生须已选修课程（任意状态）
func requireEnrolled(ctx context.Context, repo *repository.Repository, studentID, courseID string) error {
	if _, err := repo.Enrollment.GetByStudentAndCourse(ctx, studentID, courseID); err != nil {
		if isNotFound(err) {
			return ErrStudentNotInCourse
		}
		return err
	}
	return nil
}

func courseIDsOf(courses []model.Course) []string {
	ids := make([]string, 0, len(courses))
	for _, c := range courses {
		ids = append(ids, c.CourseID)
	}
	return ids
}

// studentScope 查看某学生的记录时的可见范围：
// 学生仅限本人；教师限定为自己授课的课程（返回教师 ID 作为过滤条件）；管理员不限
func studentScope(actor policy.Actor, studentID string) (teacherID string, err error) {
	switch actor.Role {
	case model.RoleStudent:
		return "", authorizeStudentRecords(actor, studentID, "")
	case model.RoleTeacher:
		return actor.ID, nil
	case model.RoleAdmin:
		return "", nil
	default:
		return "", policy.ErrForbidden
	}
}
