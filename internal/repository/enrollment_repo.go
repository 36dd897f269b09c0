package repository

import (
	"context"

	"gorm.io/gorm"

	"aether-lms/backend/internal/model"
)

// EnrollmentQuery 选课查询条件（零值字段不参与过滤）
type EnrollmentQuery struct {
	StudentID string
	CourseID  string
	TeacherID string // 仅该教师授课的课程
	Status    model.EnrollmentStatus
	Limit     int
}

// EnrollmentRepository 选课数据访问接口
type EnrollmentRepository interface {
	// Create 违反 (student_id, course_id) 唯一约束时返回 gorm.ErrDuplicatedKey
	Create(ctx context.Context, enrollment *model.Enrollment) error
	GetByID(ctx context.Context, id string) (*model.Enrollment, error)
	GetByStudentAndCourse(ctx context.Context, studentID, courseID string) (*model.Enrollment, error)
	List(ctx context.Context, q EnrollmentQuery) ([]model.Enrollment, error)
	Count(ctx context.Context, q EnrollmentQuery) (int64, error)
	UpdateStatus(ctx context.Context, id string, status model.EnrollmentStatus) error
	Delete(ctx context.Context, id string) error
}

type enrollmentRepo struct {
	db *gorm.DB
}

// NewEnrollmentRepo 创建 EnrollmentRepository 实例
func NewEnrollmentRepo(db *gorm.DB) EnrollmentRepository {
	return &enrollmentRepo{db: db}
}

func (r *enrollmentRepo) Create(ctx context.Context, enrollment *model.Enrollment) error {
	return r.db.WithContext(ctx).Create(enrollment).Error
}

func (r *enrollmentRepo) GetByID(ctx context.Context, id string) (*model.Enrollment, error) {
	var enrollment model.Enrollment
	err := r.db.WithContext(ctx).
		Preload("Student").
		Preload("Course").
		Where("enrollment_id = ?", id).
		First(&enrollment).Error
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

func (r *enrollmentRepo) GetByStudentAndCourse(ctx context.Context, studentID, courseID string) (*model.Enrollment, error) {
	var enrollment model.Enrollment
	err := r.db.WithContext(ctx).
		Where("student_id = ? AND course_id = ?", studentID, courseID).
		First(&enrollment).Error
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

func (r *enrollmentRepo) scope(ctx context.Context, q EnrollmentQuery) *gorm.DB {
	db := r.db.WithContext(ctx).Model(&model.Enrollment{})
	if q.StudentID != "" {
		db = db.Where("enrollments.student_id = ?", q.StudentID)
	}
	if q.CourseID != "" {
		db = db.Where("enrollments.course_id = ?", q.CourseID)
	}
	if q.TeacherID != "" {
		db = db.Where(`EXISTS (SELECT 1 FROM courses c
			WHERE c.course_id = enrollments.course_id AND c.teacher_id = ?)`, q.TeacherID)
	}
	if q.Status != "" {
		db = db.Where("enrollments.status = ?", q.Status)
	}
	return db
}

func (r *enrollmentRepo) List(ctx context.Context, q EnrollmentQuery) ([]model.Enrollment, error) {
	var enrollments []model.Enrollment
	db := r.scope(ctx, q).
		Preload("Student").
		Preload("Course").
		Order("enrollments.enrolled_at DESC")
	if q.Limit > 0 {
		db = db.Limit(q.Limit)
	}
	err := db.Find(&enrollments).Error
	return enrollments, err
}

func (r *enrollmentRepo) Count(ctx context.Context, q EnrollmentQuery) (int64, error) {
	var n int64
	err := r.scope(ctx, q).Count(&n).Error
	return n, err
}

func (r *enrollmentRepo) UpdateStatus(ctx context.Context, id string, status model.EnrollmentStatus) error {
	return r.db.WithContext(ctx).
		Model(&model.Enrollment{}).
		Where("enrollment_id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": gorm.Expr("NOW()"),
		}).Error
}

func (r *enrollmentRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("enrollment_id = ?", id).
		Delete(&model.Enrollment{}).Error
}
