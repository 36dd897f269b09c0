// Package policy 访问控制决策：给定操作者、动作与资源，判定允许或拒绝。
// 决策为纯函数，不访问存储；资源归属由调用方查询后填入 Resource。
package policy

import (
	"fmt"

	"aether-lms/backend/internal/model"
	apperrors "aether-lms/backend/pkg/errors"
)

// Actor 当前请求的操作者（显式传入每个业务调用）
type Actor struct {
	ID   string
	Role model.Role
}

// Action 受控动作
type Action int

const (
	ActionCreateCourse Action = iota + 1
	ActionManageCourse        // 更新/下架课程，维护章节与课时
	ActionManageAssignment    // 创建/更新/删除作业
	ActionGradeSubmission     // 批改提交、登记作业成绩
	ActionViewStudentRecords  // 查看某学生的提交与成绩
	ActionViewCourseRoster    // 查看课程选课名单、全部提交、成绩册
	ActionEnroll              // 为学生选课
	ActionManageEnrollment    // 修改/删除选课记录
	ActionWriteCourseGrade    // 创建/更新课程总评
	ActionDeleteCourseGrade
	ActionManageUsers
	ActionChangeUserRole
)

var actionNames = map[Action]string{
	ActionCreateCourse:       "create_course",
	ActionManageCourse:       "manage_course",
	ActionManageAssignment:   "manage_assignment",
	ActionGradeSubmission:    "grade_submission",
	ActionViewStudentRecords: "view_student_records",
	ActionViewCourseRoster:   "view_course_roster",
	ActionEnroll:             "enroll",
	ActionManageEnrollment:   "manage_enrollment",
	ActionWriteCourseGrade:   "write_course_grade",
	ActionDeleteCourseGrade:  "delete_course_grade",
	ActionManageUsers:        "manage_users",
	ActionChangeUserRole:     "change_user_role",
}

func (a Action) String() string {
	if n, ok := actionNames[a]; ok {
		return n
	}
	return fmt.Sprintf("action(%d)", int(a))
}

// Resource 被访问资源的归属信息
//   - CourseTeacherID: 资源所属课程的授课教师
//   - StudentID: 资源所关联的学生（查看记录、选课时使用）
type Resource struct {
	CourseTeacherID string
	StudentID       string
}

// Decision 决策结果
type Decision struct {
	Allowed bool
	Reason  string
}

func allow() Decision              { return Decision{Allowed: true} }
func deny(reason string) Decision { return Decision{Reason: reason} }

// CanAccess 按角色与归属判定动作是否允许
func CanAccess(actor Actor, action Action, res Resource) Decision {
	switch actor.Role {
	case model.RoleAdmin:
		return adminDecision(action)
	case model.RoleTeacher:
		return teacherDecision(actor, action, res)
	case model.RoleStudent:
		return studentDecision(actor, action, res)
	default:
		return deny("未知角色")
	}
}

func adminDecision(action Action) Decision {
	switch action {
	case ActionCreateCourse, ActionManageCourse, ActionManageAssignment, ActionGradeSubmission,
		ActionViewStudentRecords, ActionViewCourseRoster, ActionEnroll, ActionManageEnrollment,
		ActionWriteCourseGrade, ActionDeleteCourseGrade, ActionManageUsers, ActionChangeUserRole:
		return allow()
	default:
		return deny("未知操作")
	}
}

func teacherDecision(actor Actor, action Action, res Resource) Decision {
	owns := res.CourseTeacherID != "" && res.CourseTeacherID == actor.ID

	switch action {
	case ActionCreateCourse:
		return allow()
	case ActionManageCourse, ActionManageAssignment, ActionGradeSubmission,
		ActionViewStudentRecords, ActionViewCourseRoster, ActionEnroll, ActionManageEnrollment,
		ActionWriteCourseGrade:
		if owns {
			return allow()
		}
		return deny("只能操作自己授课的课程")
	case ActionDeleteCourseGrade:
		return deny("仅管理员可删除课程总评")
	case ActionManageUsers, ActionChangeUserRole:
		return deny("仅管理员可管理用户")
	default:
		return deny("未知操作")
	}
}

func studentDecision(actor Actor, action Action, res Resource) Decision {
	self := res.StudentID != "" && res.StudentID == actor.ID

	switch action {
	case ActionViewStudentRecords, ActionEnroll:
		if self {
			return allow()
		}
		return deny("学生只能操作本人的记录")
	case ActionCreateCourse, ActionManageCourse, ActionManageAssignment, ActionGradeSubmission,
		ActionViewCourseRoster, ActionManageEnrollment, ActionWriteCourseGrade, ActionDeleteCourseGrade:
		return deny("学生无权执行该操作")
	case ActionManageUsers, ActionChangeUserRole:
		return deny("仅管理员可管理用户")
	default:
		return deny("未知操作")
	}
}

// Authorize CanAccess 的错误形式：拒绝时返回 ErrForbidden（消息为拒绝原因）
func Authorize(actor Actor, action Action, res Resource) error {
	d := CanAccess(actor, action, res)
	if d.Allowed {
		return nil
	}
	return &apperrors.Error{Kind: apperrors.KindForbidden, Code: ErrForbidden.Code, Message: d.Reason}
}

// ────────────────────── 角色变更约束 ──────────────────────

var (
	ErrForbidden              = apperrors.New(apperrors.KindForbidden, 10003, "无权限访问")
	ErrNoOpRoleChange         = apperrors.New(apperrors.KindInvalidInput, 10201, "用户已是该角色")
	ErrAdminDemotionForbidden = apperrors.New(apperrors.KindForbidden, 10202, "不允许将管理员降级为其他角色")
	ErrAdminQuotaExceeded     = apperrors.New(apperrors.KindConflict, 10203, "管理员数量已达上限")
)

// CheckRoleChange 校验角色变更；adminCount 必须在持有配额锁的事务内读取
// 判定顺序：同角色 → 管理员降级 → 管理员配额
func CheckRoleChange(current, next model.Role, adminCount int64) error {
	if current == next {
		return ErrNoOpRoleChange
	}

	switch current {
	case model.RoleAdmin:
		return ErrAdminDemotionForbidden
	case model.RoleStudent, model.RoleTeacher:
	default:
		return fmt.Errorf("未知角色: %q", current)
	}

	switch next {
	case model.RoleAdmin:
		if adminCount >= model.MaxAdmins {
			return ErrAdminQuotaExceeded
		}
		return nil
	case model.RoleStudent, model.RoleTeacher:
		return nil
	default:
		return fmt.Errorf("未知角色: %q", next)
	}
}
