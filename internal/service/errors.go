package service

import (
	"errors"

	"gorm.io/gorm"

	pkgerrors "aether-lms/backend/pkg/errors"
)

// ── 业务错误 ──
// 业务码按模块分段：1xxxx 认证/用户，2xxxx 课程内容，3xxxx 学习流程，5xxxx 导出

var (
	ErrInvalidCredentials = pkgerrors.New(pkgerrors.KindUnauthenticated, 10101, "邮箱或密码错误")
	ErrEmailExists        = pkgerrors.New(pkgerrors.KindConflict, 10102, "该邮箱已被注册")
	ErrUserNotFound       = pkgerrors.New(pkgerrors.KindNotFound, 10103, "用户不存在")
	ErrCannotDeleteSelf   = pkgerrors.New(pkgerrors.KindInvalidInput, 10104, "不能删除当前登录用户")
	ErrInvalidRole        = pkgerrors.New(pkgerrors.KindInvalidInput, 10105, "无效的角色")
	ErrUserHasRecords     = pkgerrors.New(pkgerrors.KindConflict, 10106, "用户仍有关联的课程或学习记录，无法删除")

	ErrCourseNotFound   = pkgerrors.New(pkgerrors.KindNotFound, 20001, "课程不存在")
	ErrCourseCodeExists = pkgerrors.New(pkgerrors.KindConflict, 20002, "课程代码已存在")
	ErrTeacherNotFound  = pkgerrors.New(pkgerrors.KindNotFound, 20003, "授课教师不存在或该用户不是教师")
	ErrTeacherRequired  = pkgerrors.New(pkgerrors.KindInvalidInput, 20004, "管理员创建课程时必须指定授课教师")

	ErrModuleNotFound    = pkgerrors.New(pkgerrors.KindNotFound, 20101, "章节不存在")
	ErrModuleOrderExists = pkgerrors.New(pkgerrors.KindConflict, 20102, "该课程下章节序号已存在")
	ErrModuleHasLessons  = pkgerrors.New(pkgerrors.KindConflict, 20103, "章节下存在课时，无法删除")

	ErrLessonNotFound    = pkgerrors.New(pkgerrors.KindNotFound, 20201, "课时不存在")
	ErrLessonOrderExists = pkgerrors.New(pkgerrors.KindConflict, 20202, "该章节下课时序号已存在")

	ErrAssignmentNotFound       = pkgerrors.New(pkgerrors.KindNotFound, 30001, "作业不存在")
	ErrModuleNotInCourse        = pkgerrors.New(pkgerrors.KindInvalidInput, 30002, "章节不属于该课程")
	ErrAssignmentHasSubmissions = pkgerrors.New(pkgerrors.KindConflict, 30003, "作业已有提交，无法删除")
	ErrMaxScoreBelowGraded      = pkgerrors.New(pkgerrors.KindInvalidState, 30004, "已有批改分数高于新的满分")

	ErrStudentNotFound     = pkgerrors.New(pkgerrors.KindNotFound, 30101, "学生不存在或该用户不是学生")
	ErrEnrollmentExists    = pkgerrors.New(pkgerrors.KindConflict, 30102, "该学生已选修此课程")
	ErrEnrollmentNotFound  = pkgerrors.New(pkgerrors.KindNotFound, 30103, "选课记录不存在")
	ErrNotEnrolled         = pkgerrors.New(pkgerrors.KindForbidden, 30104, "未选修该作业所属课程")
	ErrStudentNotInCourse  = pkgerrors.New(pkgerrors.KindNotFound, 30105, "该学生未选修此课程")
	ErrInvalidEnrollStatus = pkgerrors.New(pkgerrors.KindInvalidInput, 30106, "无效的选课状态")

	ErrSubmissionNotFound = pkgerrors.New(pkgerrors.KindNotFound, 30201, "提交不存在")
	ErrSubmissionExists   = pkgerrors.New(pkgerrors.KindConflict, 30202, "该作业已提交，请勿重复提交")
	ErrAssignmentInactive = pkgerrors.New(pkgerrors.KindInvalidState, 30203, "作业已关闭")
	ErrAssignmentPastDue  = pkgerrors.New(pkgerrors.KindInvalidState, 30204, "已超过作业截止时间")
	ErrScoreExceedsMax    = pkgerrors.New(pkgerrors.KindInvalidState, 30205, "分数超过作业满分")
	ErrSubmissionGraded   = pkgerrors.New(pkgerrors.KindInvalidState, 30206, "提交已批改，不可修改或删除")
	ErrNotSubmissionOwner = pkgerrors.New(pkgerrors.KindForbidden, 30207, "只能操作本人的提交")
	ErrOnlyStudentSubmit  = pkgerrors.New(pkgerrors.KindForbidden, 30208, "仅学生可提交作业")

	ErrGradeNotFound       = pkgerrors.New(pkgerrors.KindNotFound, 30301, "成绩记录不存在")
	ErrCourseGradeNotFound = pkgerrors.New(pkgerrors.KindNotFound, 30302, "课程总评不存在")
	ErrCourseGradeExists   = pkgerrors.New(pkgerrors.KindConflict, 30303, "该学生的课程总评已存在")
	ErrGradeScoreInvalid   = pkgerrors.New(pkgerrors.KindInvalidInput, 30304, "分数不能超过满分")

	ErrExportGenerateFail = pkgerrors.New(pkgerrors.KindInternal, 50001, "生成导出文件失败")
)

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// isDuplicate 唯一约束冲突（需开启 gorm TranslateError）
func isDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

// isForeignKeyViolated 外键约束冲突（被引用的记录仍存在依赖）
func isForeignKeyViolated(err error) bool {
	return errors.Is(err, gorm.ErrForeignKeyViolated)
}
