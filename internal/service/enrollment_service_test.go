package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"aether-lms/backend/internal/dto"
	"aether-lms/backend/internal/model"
	"aether-lms/backend/internal/policy"
	pkgerrors "aether-lms/backend/pkg/errors"
)

func setupTestEnrollmentService() (EnrollmentService, *mockStore) {
	repo, store := newMockRepository()
	svc := NewEnrollmentService(repo, zap.NewNop())
	svc.(*enrollmentService).now = func() time.Time { return fixedNow }
	seedUser(store, "t-1", model.RoleTeacher)
	seedUser(store, "t-2", model.RoleTeacher)
	seedUser(store, "s-1", model.RoleStudent)
	seedUser(store, "s-2", model.RoleStudent)
	seedCourse(store, "c-1", "t-1")
	return svc, store
}

func TestEnrollmentService_Enroll_Self(t *testing.T) {
	svc, _ := setupTestEnrollmentService()
	student := policy.Actor{ID: "s-1", Role: model.RoleStudent}

	resp, err := svc.Enroll(context.Background(), student, &dto.CreateEnrollmentRequest{CourseID: "c-1"})
	if err != nil {
		t.Fatalf("Enroll 失败: %v", err)
	}
	if resp.StudentID != "s-1" || resp.Status != "ACTIVE" {
		t.Errorf("期望 s-1 ACTIVE，实际 %s %s", resp.StudentID, resp.Status)
	}
	if !resp.EnrolledAt.Equal(fixedNow) {
		t.Errorf("EnrolledAt 应为当前时间，实际=%v", resp.EnrolledAt)
	}
}

func TestEnrollmentService_Enroll_Twice(t *testing.T) {
	svc, store := setupTestEnrollmentService()
	student := policy.Actor{ID: "s-1", Role: model.RoleStudent}
	req := &dto.CreateEnrollmentRequest{CourseID: "c-1"}

	if _, err := svc.Enroll(context.Background(), student, req); err != nil {
		t.Fatalf("首次选课失败: %v", err)
	}
	_, err := svc.Enroll(context.Background(), student, req)
	if !errors.Is(err, ErrEnrollmentExists) {
		t.Fatalf("重复选课期望 ErrEnrollmentExists，实际: %v", err)
	}
	if pkgerrors.KindOf(err) != pkgerrors.KindConflict {
		t.Errorf("重复选课应归类为 Conflict，实际=%s", pkgerrors.KindOf(err))
	}
	if len(store.enrollments) != 1 {
		t.Errorf("应只存在 1 条选课记录，实际=%d", len(store.enrollments))
	}
}

func TestEnrollmentService_Enroll_StudentCannotSetStatus(t *testing.T) {
	svc, _ := setupTestEnrollmentService()
	pending := "PENDING"

	resp, err := svc.Enroll(context.Background(), policy.Actor{ID: "s-1", Role: model.RoleStudent},
		&dto.CreateEnrollmentRequest{CourseID: "c-1", Status: &pending})
	if err != nil {
		t.Fatalf("Enroll 失败: %v", err)
	}
	if resp.Status != "ACTIVE" {
		t.Errorf("学生自助选课状态应固定为 ACTIVE，实际=%s", resp.Status)
	}
}

func TestEnrollmentService_Enroll_OtherStudentForbidden(t *testing.T) {
	svc, _ := setupTestEnrollmentService()

	_, err := svc.Enroll(context.Background(), policy.Actor{ID: "s-1", Role: model.RoleStudent},
		&dto.CreateEnrollmentRequest{CourseID: "c-1", StudentID: "s-2"})
	if pkgerrors.KindOf(err) != pkgerrors.KindForbidden {
		t.Errorf("学生为他人选课应返回 Forbidden，实际: %v", err)
	}
}

func TestEnrollmentService_Enroll_ByTeacher(t *testing.T) {
	svc, _ := setupTestEnrollmentService()
	pending := "PENDING"

	resp, err := svc.Enroll(context.Background(), policy.Actor{ID: "t-1", Role: model.RoleTeacher},
		&dto.CreateEnrollmentRequest{CourseID: "c-1", StudentID: "s-2", Status: &pending})
	if err != nil {
		t.Fatalf("授课教师添加学生失败: %v", err)
	}
	if resp.Status != "PENDING" {
		t.Errorf("教师可指定选课状态，期望 PENDING，实际=%s", resp.Status)
	}

	_, err = svc.Enroll(context.Background(), policy.Actor{ID: "t-2", Role: model.RoleTeacher},
		&dto.CreateEnrollmentRequest{CourseID: "c-1", StudentID: "s-1"})
	if pkgerrors.KindOf(err) != pkgerrors.KindForbidden {
		t.Errorf("非授课教师应返回 Forbidden，实际: %v", err)
	}
}

func TestEnrollmentService_Enroll_InactiveCourse(t *testing.T) {
	svc, store := setupTestEnrollmentService()
	store.courses["c-1"].IsActive = false

	_, err := svc.Enroll(context.Background(), policy.Actor{ID: "s-1", Role: model.RoleStudent},
		&dto.CreateEnrollmentRequest{CourseID: "c-1"})
	if !errors.Is(err, ErrCourseNotFound) {
		t.Errorf("下架课程应视为不存在，实际: %v", err)
	}
}

func TestEnrollmentService_Enroll_NonStudent(t *testing.T) {
	svc, _ := setupTestEnrollmentService()

	_, err := svc.Enroll(context.Background(), policy.Actor{ID: "t-1", Role: model.RoleTeacher},
		&dto.CreateEnrollmentRequest{CourseID: "c-1", StudentID: "t-2"})
	if !errors.Is(err, ErrStudentNotFound) {
		t.Errorf("为非学生用户选课应返回 ErrStudentNotFound，实际: %v", err)
	}
}

func TestEnrollmentService_Delete_SelfWithdraw(t *testing.T) {
	svc, store := setupTestEnrollmentService()
	e := seedEnrollment(store, "s-1", "c-1", model.EnrollmentActive)

	if err := svc.Delete(context.Background(), policy.Actor{ID: "s-2", Role: model.RoleStudent}, e.EnrollmentID); err == nil {
		t.Fatal("其他学生不应能删除该选课记录")
	}
	if err := svc.Delete(context.Background(), policy.Actor{ID: "s-1", Role: model.RoleStudent}, e.EnrollmentID); err != nil {
		t.Fatalf("学生本人退课失败: %v", err)
	}
	if len(store.enrollments) != 0 {
		t.Error("退课后选课记录应被删除")
	}
}

func TestEnrollmentService_ListByStudent_TeacherScoped(t *testing.T) {
	svc, store := setupTestEnrollmentService()
	seedCourse(store, "c-2", "t-2")
	seedEnrollment(store, "s-1", "c-1", model.EnrollmentActive)
	seedEnrollment(store, "s-1", "c-2", model.EnrollmentActive)

	list, err := svc.ListByStudent(context.Background(), policy.Actor{ID: "t-1", Role: model.RoleTeacher}, "s-1")
	if err != nil {
		t.Fatalf("ListByStudent 失败: %v", err)
	}
	if len(list) != 1 || list[0].CourseID != "c-1" {
		t.Errorf("教师只应看到自己课程的选课记录，实际=%+v", list)
	}
}
