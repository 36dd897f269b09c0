package policy

import (
	"errors"
	"testing"

	"aether-lms/backend/internal/model"
)

var (
	admin   = Actor{ID: "admin-1", Role: model.RoleAdmin}
	teacher = Actor{ID: "teacher-1", Role: model.RoleTeacher}
	student = Actor{ID: "student-1", Role: model.RoleStudent}
)

func TestCanAccess_CreateCourse(t *testing.T) {
	if !CanAccess(admin, ActionCreateCourse, Resource{}).Allowed {
		t.Error("管理员应可创建课程")
	}
	if !CanAccess(teacher, ActionCreateCourse, Resource{}).Allowed {
		t.Error("教师应可创建课程")
	}
	if CanAccess(student, ActionCreateCourse, Resource{}).Allowed {
		t.Error("学生不应可创建课程")
	}
}

func TestCanAccess_OwnershipGated(t *testing.T) {
	own := Resource{CourseTeacherID: teacher.ID}
	other := Resource{CourseTeacherID: "teacher-2"}

	for _, action := range []Action{ActionManageCourse, ActionManageAssignment, ActionGradeSubmission, ActionWriteCourseGrade, ActionViewCourseRoster} {
		if !CanAccess(teacher, action, own).Allowed {
			t.Errorf("教师应可对自己的课程执行 %s", action)
		}
		d := CanAccess(teacher, action, other)
		if d.Allowed {
			t.Errorf("教师不应可对他人的课程执行 %s", action)
		}
		if d.Reason == "" {
			t.Errorf("拒绝 %s 时应给出原因", action)
		}
		if !CanAccess(admin, action, other).Allowed {
			t.Errorf("管理员应可执行 %s", action)
		}
		if CanAccess(student, action, own).Allowed {
			t.Errorf("学生不应可执行 %s", action)
		}
	}
}

func TestCanAccess_EmptyOwnerNeverMatches(t *testing.T) {
	if CanAccess(Actor{ID: "", Role: model.RoleTeacher}, ActionManageCourse, Resource{}).Allowed {
		t.Error("空归属不应被视为本人课程")
	}
}

func TestCanAccess_StudentRecords(t *testing.T) {
	if !CanAccess(student, ActionViewStudentRecords, Resource{StudentID: student.ID}).Allowed {
		t.Error("学生应可查看本人记录")
	}
	if CanAccess(student, ActionViewStudentRecords, Resource{StudentID: "student-2"}).Allowed {
		t.Error("学生不应可查看他人记录")
	}
	if !CanAccess(teacher, ActionViewStudentRecords, Resource{StudentID: "student-2", CourseTeacherID: teacher.ID}).Allowed {
		t.Error("教师应可查看自己课程学生的记录")
	}
	if CanAccess(teacher, ActionViewStudentRecords, Resource{StudentID: "student-2"}).Allowed {
		t.Error("教师不应可查看非本人课程的学生记录")
	}
}

func TestCanAccess_CourseGradeDeleteAdminOnly(t *testing.T) {
	own := Resource{CourseTeacherID: teacher.ID}
	if CanAccess(teacher, ActionDeleteCourseGrade, own).Allowed {
		t.Error("教师不应可删除课程总评")
	}
	if !CanAccess(admin, ActionDeleteCourseGrade, own).Allowed {
		t.Error("管理员应可删除课程总评")
	}
}

func TestCanAccess_UserManagementAdminOnly(t *testing.T) {
	for _, a := range []Actor{student, teacher} {
		if CanAccess(a, ActionManageUsers, Resource{}).Allowed || CanAccess(a, ActionChangeUserRole, Resource{}).Allowed {
			t.Errorf("%s 不应可管理用户", a.Role)
		}
	}
	if !CanAccess(admin, ActionChangeUserRole, Resource{}).Allowed {
		t.Error("管理员应可变更角色")
	}
}

func TestCanAccess_UnknownRole(t *testing.T) {
	if CanAccess(Actor{ID: "x", Role: "GUEST"}, ActionCreateCourse, Resource{}).Allowed {
		t.Error("未知角色应一律拒绝")
	}
}

func TestAuthorize_ReturnsForbidden(t *testing.T) {
	err := Authorize(student, ActionCreateCourse, Resource{})
	if err == nil {
		t.Fatal("期望返回错误")
	}
	if err.Error() == "" {
		t.Error("错误消息不应为空")
	}
	if Authorize(admin, ActionCreateCourse, Resource{}) != nil {
		t.Error("允许时应返回 nil")
	}
}

func TestCheckRoleChange(t *testing.T) {
	cases := []struct {
		name       string
		current    model.Role
		next       model.Role
		adminCount int64
		want       error
	}{
		{"同角色", model.RoleStudent, model.RoleStudent, 0, ErrNoOpRoleChange},
		{"管理员同角色优先报同角色", model.RoleAdmin, model.RoleAdmin, 5, ErrNoOpRoleChange},
		{"管理员降级", model.RoleAdmin, model.RoleTeacher, 1, ErrAdminDemotionForbidden},
		{"配额已满", model.RoleTeacher, model.RoleAdmin, 5, ErrAdminQuotaExceeded},
		{"配额未满", model.RoleStudent, model.RoleAdmin, 4, nil},
		{"学生转教师", model.RoleStudent, model.RoleTeacher, 5, nil},
		{"教师转学生", model.RoleTeacher, model.RoleStudent, 0, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := CheckRoleChange(tc.current, tc.next, tc.adminCount)
			if !errors.Is(err, tc.want) && !(err == nil && tc.want == nil) {
				t.Errorf("期望 %v，实际=%v", tc.want, err)
			}
		})
	}
}
