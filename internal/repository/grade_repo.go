package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"aether-lms/backend/internal/model"
)

// GradeRepository 成绩记录数据访问接口
type GradeRepository interface {
	Create(ctx context.Context, grade *model.Grade) error
	GetByID(ctx context.Context, id string) (*model.Grade, error)
	// ListByStudent 预加载课程（GPA 需要学分）
	ListByStudent(ctx context.Context, studentID string) ([]model.Grade, error)
	ListByCourse(ctx context.Context, courseID string) ([]model.Grade, error)
	Update(ctx context.Context, grade *model.Grade) error
	Delete(ctx context.Context, id string) error
}

type gradeRepo struct {
	db *gorm.DB
}

// NewGradeRepo 创建 GradeRepository 实例
func NewGradeRepo(db *gorm.DB) GradeRepository {
	return &gradeRepo{db: db}
}

func (r *gradeRepo) Create(ctx context.Context, grade *model.Grade) error {
	return r.db.WithContext(ctx).Create(grade).Error
}

func (r *gradeRepo) GetByID(ctx context.Context, id string) (*model.Grade, error) {
	var grade model.Grade
	err := r.db.WithContext(ctx).
		Preload("Student").
		Preload("Course").
		Where("grade_id = ?", id).
		First(&grade).Error
	if err != nil {
		return nil, err
	}
	return &grade, nil
}

func (r *gradeRepo) ListByStudent(ctx context.Context, studentID string) ([]model.Grade, error) {
	var grades []model.Grade
	err := r.db.WithContext(ctx).
		Preload("Course").
		Where("student_id = ?", studentID).
		Order("created_at DESC").
		Find(&grades).Error
	return grades, err
}

func (r *gradeRepo) ListByCourse(ctx context.Context, courseID string) ([]model.Grade, error) {
	var grades []model.Grade
	err := r.db.WithContext(ctx).
		Preload("Student").
		Where("course_id = ?", courseID).
		Order("created_at DESC").
		Find(&grades).Error
	return grades, err
}

func (r *gradeRepo) Update(ctx context.Context, grade *model.Grade) error {
	return r.db.WithContext(ctx).
		Model(grade).
		Where("grade_id = ?", grade.GradeID).
		Updates(map[string]interface{}{
			"title":       grade.Title,
			"description": grade.Description,
			"type":        grade.Type,
			"score":       grade.Score,
			"max_score":   grade.MaxScore,
			"due_date":    grade.DueDate,
		}).Error
}

func (r *gradeRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("grade_id = ?", id).
		Delete(&model.Grade{}).Error
}

// ── CourseGrade Repository ──

// CourseGradeQuery 课程总评查询条件
type CourseGradeQuery struct {
	StudentID    string
	CourseID     string
	TeacherID    string
	WithComments bool
	Limit        int
}

// CourseGradeRepository 课程总评数据访问接口
type CourseGradeRepository interface {
	// Create 违反 (student_id, course_id) 唯一约束时返回 gorm.ErrDuplicatedKey
	Create(ctx context.Context, grade *model.CourseGrade) error
	GetByID(ctx context.Context, id string) (*model.CourseGrade, error)
	List(ctx context.Context, q CourseGradeQuery) ([]model.CourseGrade, error)
	Update(ctx context.Context, grade *model.CourseGrade) error
	Delete(ctx context.Context, id string) error
}

type courseGradeRepo struct {
	db *gorm.DB
}

// NewCourseGradeRepo 创建 CourseGradeRepository 实例
func NewCourseGradeRepo(db *gorm.DB) CourseGradeRepository {
	return &courseGradeRepo{db: db}
}

func (r *courseGradeRepo) Create(ctx context.Context, grade *model.CourseGrade) error {
	return r.db.WithContext(ctx).Create(grade).Error
}

func (r *courseGradeRepo) GetByID(ctx context.Context, id string) (*model.CourseGrade, error) {
	var grade model.CourseGrade
	err := r.db.WithContext(ctx).
		Preload("Student").
		Preload("Course").
		Where("course_grade_id = ?", id).
		First(&grade).Error
	if err != nil {
		return nil, err
	}
	return &grade, nil
}

func (r *courseGradeRepo) List(ctx context.Context, q CourseGradeQuery) ([]model.CourseGrade, error) {
	var grades []model.CourseGrade
	db := r.db.WithContext(ctx).Model(&model.CourseGrade{}).
		Preload("Student").
		Preload("Course")
	if q.StudentID != "" {
		db = db.Where("course_grades.student_id = ?", q.StudentID)
	}
	if q.CourseID != "" {
		db = db.Where("course_grades.course_id = ?", q.CourseID)
	}
	if q.TeacherID != "" {
		db = db.Where(`EXISTS (SELECT 1 FROM courses c
			WHERE c.course_id = course_grades.course_id AND c.teacher_id = ?)`, q.TeacherID)
	}
	if q.WithComments {
		db = db.Where("course_grades.comments IS NOT NULL")
	}
	db = db.Order("course_grades.updated_at DESC")
	if q.Limit > 0 {
		db = db.Limit(q.Limit)
	}
	err := db.Find(&grades).Error
	return grades, err
}

func (r *courseGradeRepo) Update(ctx context.Context, grade *model.CourseGrade) error {
	return r.db.WithContext(ctx).
		Model(grade).
		Where("course_grade_id = ?", grade.CourseGradeID).
		Updates(map[string]interface{}{
			"letter_grade": grade.LetterGrade,
			"percentage":   grade.Percentage,
			"comments":     grade.Comments,
			"graded_by":    grade.GradedBy,
		}).Error
}

func (r *courseGradeRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("course_grade_id = ?", id).
		Delete(&model.CourseGrade{}).Error
}

// ── AssignmentGrade Repository ──

// AssignmentGradeQuery 作业成绩查询条件
type AssignmentGradeQuery struct {
	StudentID    string
	CourseID     string
	AssignmentID string
	TeacherID    string
	WithFeedback bool
	Limit        int
}

// AssignmentGradeRepository 作业成绩数据访问接口
type AssignmentGradeRepository interface {
	// Upsert 以 (student_id, assignment_id) 为键插入或覆盖
	Upsert(ctx context.Context, grade *model.AssignmentGrade) error
	List(ctx context.Context, q AssignmentGradeQuery) ([]model.AssignmentGrade, error)
}

type assignmentGradeRepo struct {
	db *gorm.DB
}

// NewAssignmentGradeRepo 创建 AssignmentGradeRepository 实例
func NewAssignmentGradeRepo(db *gorm.DB) AssignmentGradeRepository {
	return &assignmentGradeRepo{db: db}
}

func (r *assignmentGradeRepo) Upsert(ctx context.Context, grade *model.AssignmentGrade) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "student_id"}, {Name: "assignment_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"score", "max_score", "percentage", "letter_grade",
				"feedback", "graded_by", "graded_at", "updated_at",
			}),
		}).
		Create(grade).Error
}

func (r *assignmentGradeRepo) List(ctx context.Context, q AssignmentGradeQuery) ([]model.AssignmentGrade, error) {
	var grades []model.AssignmentGrade
	db := r.db.WithContext(ctx).Model(&model.AssignmentGrade{}).
		Preload("Student").
		Preload("Assignment").
		Preload("Course")
	if q.StudentID != "" {
		db = db.Where("assignment_grades.student_id = ?", q.StudentID)
	}
	if q.CourseID != "" {
		db = db.Where("assignment_grades.course_id = ?", q.CourseID)
	}
	if q.AssignmentID != "" {
		db = db.Where("assignment_grades.assignment_id = ?", q.AssignmentID)
	}
	if q.TeacherID != "" {
		db = db.Where(`EXISTS (SELECT 1 FROM courses c
			WHERE c.course_id = assignment_grades.course_id AND c.teacher_id = ?)`, q.TeacherID)
	}
	if q.WithFeedback {
		db = db.Where("assignment_grades.feedback IS NOT NULL")
	}
	db = db.Order("assignment_grades.graded_at DESC")
	if q.Limit > 0 {
		db = db.Limit(q.Limit)
	}
	err := db.Find(&grades).Error
	return grades, err
}
