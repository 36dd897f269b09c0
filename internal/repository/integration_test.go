//go:build integration

package repository_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"aether-lms/backend/internal/model"
	"aether-lms/backend/internal/repository"
	"aether-lms/backend/pkg/database"
	pkgerrors "aether-lms/backend/pkg/errors"
)

// ═══════════════════════════════════════════════════════════
// Test Setup
// ═══════════════════════════════════════════════════════════

var testDB *gorm.DB

func TestMain(m *testing.M) {
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		dsn = "host=localhost port=5433 user=lms password=lms_password dbname=lms_test sslmode=disable TimeZone=UTC"
	}

	var err error
	testDB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "无法连接测试数据库: %v\n", err)
		os.Exit(1)
	}

	sqlDB, err := testDB.DB()
	if err != nil {
		fmt.Fprintf(os.Stderr, "获取 sql.DB 失败: %v\n", err)
		os.Exit(1)
	}
	if err := database.RunMigrations(sqlDB, zap.NewNop()); err != nil {
		fmt.Fprintf(os.Stderr, "执行迁移失败: %v\n", err)
		os.Exit(1)
	}

	code := m.Run()
	os.Exit(code)
}

func uniq(prefix string) string {
	return fmt.Sprintf("%s%d", prefix, time.Now().UnixNano())
}

func createUser(t *testing.T, role model.Role) *model.User {
	t.Helper()
	u := &model.User{
		Email:        uniq("user") + "@lms.test",
		PasswordHash: "$2a$10$placeholder",
		FirstName:    "Test",
		LastName:     string(role),
		Role:         role,
	}
	if err := testDB.Create(u).Error; err != nil {
		t.Fatalf("创建用户失败: %v", err)
	}
	t.Cleanup(func() { testDB.Where("user_id = ?", u.UserID).Delete(&model.User{}) })
	return u
}

// setupCourse 创建教师、课程与一个学生并返回
func setupCourse(t *testing.T) (teacher, student *model.User, course *model.Course) {
	t.Helper()
	teacher = createUser(t, model.RoleTeacher)
	student = createUser(t, model.RoleStudent)

	course = &model.Course{
		Title:     "Go 程序设计",
		Code:      uniq("GO"),
		Credits:   3,
		TeacherID: teacher.UserID,
		IsActive:  true,
	}
	if err := testDB.Create(course).Error; err != nil {
		t.Fatalf("创建课程失败: %v", err)
	}
	t.Cleanup(func() { testDB.Where("course_id = ?", course.CourseID).Delete(&model.Course{}) })
	return
}

// ═══════════════════════════════════════════════════════════
// Test: Transaction
// ═══════════════════════════════════════════════════════════

func TestTransaction_Rollback(t *testing.T) {
	teacher, _, _ := setupCourse(t)
	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	code := uniq("RB")
	boom := errors.New("boom")
	err := repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		if err := txRepo.Course.Create(ctx, &model.Course{
			Title: "回滚课程", Code: code, Credits: 2, TeacherID: teacher.UserID, IsActive: true,
		}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("期望返回 fn 的错误，实际=%v", err)
	}

	var n int64
	testDB.Model(&model.Course{}).Where("code = ?", code).Count(&n)
	if n != 0 {
		t.Fatal("期望回滚后查不到课程，但实际查到了")
	}
}

// ═══════════════════════════════════════════════════════════
// Test: Unique Constraints
// ═══════════════════════════════════════════════════════════

func TestEnrollment_DuplicateIsTranslated(t *testing.T) {
	_, student, course := setupCourse(t)
	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	first := &model.Enrollment{StudentID: student.UserID, CourseID: course.CourseID, Status: model.EnrollmentActive}
	if err := repo.Enrollment.Create(ctx, first); err != nil {
		t.Fatalf("首次选课应成功: %v", err)
	}
	defer testDB.Where("enrollment_id = ?", first.EnrollmentID).Delete(&model.Enrollment{})

	second := &model.Enrollment{StudentID: student.UserID, CourseID: course.CourseID, Status: model.EnrollmentDropped}
	err := repo.Enrollment.Create(ctx, second)
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("期望 ErrDuplicatedKey，实际=%v", err)
	}

	n, _ := repo.Enrollment.Count(ctx, repository.EnrollmentQuery{StudentID: student.UserID, CourseID: course.CourseID})
	if n != 1 {
		t.Errorf("期望选课记录数=1，实际=%d", n)
	}
}

func TestSubmission_ConcurrentDuplicate(t *testing.T) {
	_, student, course := setupCourse(t)
	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	a := &model.Assignment{Title: "作业1", CourseID: course.CourseID, MaxScore: 100, IsActive: true}
	if err := repo.Assignment.Create(ctx, a); err != nil {
		t.Fatalf("创建作业失败: %v", err)
	}
	defer testDB.Where("assignment_id = ?", a.AssignmentID).Delete(&model.Assignment{})
	defer testDB.Where("assignment_id = ?", a.AssignmentID).Delete(&model.Submission{})

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = repo.Submission.Create(ctx, &model.Submission{
				StudentID: student.UserID, AssignmentID: a.AssignmentID,
				Content: fmt.Sprintf("第 %d 份", i), SubmittedAt: time.Now(),
			})
		}(i)
	}
	wg.Wait()

	ok, dup := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, gorm.ErrDuplicatedKey):
			dup++
		default:
			t.Errorf("非预期错误: %v", err)
		}
	}
	if ok != 1 || dup != len(errs)-1 {
		t.Errorf("期望 1 次成功 %d 次冲突，实际成功=%d 冲突=%d", len(errs)-1, ok, dup)
	}
}

func TestModule_DeleteWithLessonsRestricted(t *testing.T) {
	_, _, course := setupCourse(t)
	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	m := &model.Module{Title: "第一章", Order: 1, CourseID: course.CourseID, IsActive: true}
	if err := repo.Module.Create(ctx, m); err != nil {
		t.Fatalf("创建章节失败: %v", err)
	}
	l := &model.Lesson{Title: "1.1", Order: 1, ModuleID: m.ModuleID, IsActive: true}
	if err := repo.Lesson.Create(ctx, l); err != nil {
		t.Fatalf("创建课时失败: %v", err)
	}

	if err := repo.Module.Delete(ctx, m.ModuleID); err == nil {
		t.Fatal("存在课时时删除章节应被外键拒绝")
	}

	if err := repo.Lesson.Delete(ctx, l.LessonID); err != nil {
		t.Fatalf("删除课时失败: %v", err)
	}
	if err := repo.Module.Delete(ctx, m.ModuleID); err != nil {
		t.Fatalf("课时清空后删除章节应成功: %v", err)
	}
}

// ═══════════════════════════════════════════════════════════
// Test: Optimistic Lock / Role Quota
// ═══════════════════════════════════════════════════════════

func TestOptimisticLock_User_ConflictDetected(t *testing.T) {
	u := createUser(t, model.RoleStudent)
	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	copy1, _ := repo.User.GetByID(ctx, u.UserID)
	copy2, _ := repo.User.GetByID(ctx, u.UserID)

	copy1.FirstName = "Alice"
	if err := repo.User.Update(ctx, copy1); err != nil {
		t.Fatalf("第一次更新应成功: %v", err)
	}

	copy2.FirstName = "Bob"
	if err := repo.User.Update(ctx, copy2); err != pkgerrors.ErrOptimisticLock {
		t.Errorf("期望 ErrOptimisticLock，得到: %v", err)
	}
}

func TestRoleQuota_ConcurrentPromotions(t *testing.T) {
	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	existing, _ := repo.User.CountByRole(ctx, model.RoleAdmin)
	if existing > model.MaxAdmins-1 {
		t.Skipf("测试库中已有 %d 个管理员", existing)
	}
	for i := existing; i < model.MaxAdmins-1; i++ {
		createUser(t, model.RoleAdmin)
	}

	candidates := make([]*model.User, 4)
	for i := range candidates {
		candidates[i] = createUser(t, model.RoleStudent)
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	promoted := 0
	for _, c := range candidates {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			err := repo.Transaction(ctx, func(txRepo *repository.Repository) error {
				if err := txRepo.User.LockRoleQuota(ctx); err != nil {
					return err
				}
				u, err := txRepo.User.GetByIDForUpdate(ctx, id)
				if err != nil {
					return err
				}
				n, err := txRepo.User.CountByRole(ctx, model.RoleAdmin)
				if err != nil {
					return err
				}
				if n >= model.MaxAdmins {
					return errors.New("quota")
				}
				u.Role = model.RoleAdmin
				return txRepo.User.Update(ctx, u)
			})
			if err == nil {
				mu.Lock()
				promoted++
				mu.Unlock()
			}
		}(c.UserID)
	}
	wg.Wait()

	if promoted != 1 {
		t.Errorf("期望恰好 1 次提升成功，实际=%d", promoted)
	}
	n, _ := repo.User.CountByRole(ctx, model.RoleAdmin)
	if n != model.MaxAdmins {
		t.Errorf("期望管理员数=%d，实际=%d", model.MaxAdmins, n)
	}
}

// ═══════════════════════════════════════════════════════════
// Test: Scoped Queries
// ═══════════════════════════════════════════════════════════

func TestAssignment_StudentScope(t *testing.T) {
	_, student, course := setupCourse(t)
	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	due := time.Now().Add(48 * time.Hour)
	a := &model.Assignment{Title: "作业", CourseID: course.CourseID, MaxScore: 100, DueDate: &due, IsActive: true}
	if err := repo.Assignment.Create(ctx, a); err != nil {
		t.Fatalf("创建作业失败: %v", err)
	}
	defer testDB.Where("assignment_id = ?", a.AssignmentID).Delete(&model.Assignment{})

	q := repository.AssignmentQuery{StudentID: student.UserID, ActiveOnly: true}
	if n, _ := repo.Assignment.Count(ctx, q); n != 0 {
		t.Errorf("未选课时期望 0 个作业，实际=%d", n)
	}

	e := &model.Enrollment{StudentID: student.UserID, CourseID: course.CourseID, Status: model.EnrollmentActive}
	if err := repo.Enrollment.Create(ctx, e); err != nil {
		t.Fatalf("选课失败: %v", err)
	}
	defer testDB.Where("enrollment_id = ?", e.EnrollmentID).Delete(&model.Enrollment{})

	if n, _ := repo.Assignment.Count(ctx, q); n != 1 {
		t.Errorf("选课后期望 1 个作业，实际=%d", n)
	}
}
