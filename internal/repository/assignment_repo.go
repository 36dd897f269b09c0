package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"aether-lms/backend/internal/model"
)

// AssignmentQuery 作业查询条件（零值字段不参与过滤）
type AssignmentQuery struct {
	CourseID      string
	StudentID     string     // 仅该学生 ACTIVE 选课的课程
	TeacherID     string     // 仅该教师授课的课程
	UnsubmittedBy string     // 排除该学生已提交的作业
	ActiveOnly    bool
	DueFrom       *time.Time // due_date >= DueFrom
	DueTo         *time.Time // due_date <= DueTo
	DueAsc        bool       // 按截止时间升序，否则按创建时间倒序
	Limit         int
}

// AssignmentRepository 作业数据访问接口
type AssignmentRepository interface {
	Create(ctx context.Context, assignment *model.Assignment) error
	// GetByID 预加载所属课程（用于归属判定）
	GetByID(ctx context.Context, id string) (*model.Assignment, error)
	List(ctx context.Context, q AssignmentQuery) ([]model.Assignment, error)
	Count(ctx context.Context, q AssignmentQuery) (int64, error)
	Update(ctx context.Context, assignment *model.Assignment) error
	Delete(ctx context.Context, id string) error
}

type assignmentRepo struct {
	db *gorm.DB
}

// NewAssignmentRepo 创建 AssignmentRepository 实例
func NewAssignmentRepo(db *gorm.DB) AssignmentRepository {
	return &assignmentRepo{db: db}
}

func (r *assignmentRepo) Create(ctx context.Context, assignment *model.Assignment) error {
	return r.db.WithContext(ctx).Create(assignment).Error
}

func (r *assignmentRepo) GetByID(ctx context.Context, id string) (*model.Assignment, error) {
	var assignment model.Assignment
	err := r.db.WithContext(ctx).
		Preload("Course").
		Where("assignment_id = ?", id).
		First(&assignment).Error
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (r *assignmentRepo) scope(ctx context.Context, q AssignmentQuery) *gorm.DB {
	db := r.db.WithContext(ctx).Model(&model.Assignment{})
	if q.CourseID != "" {
		db = db.Where("assignments.course_id = ?", q.CourseID)
	}
	if q.StudentID != "" {
		db = db.Where(`EXISTS (SELECT 1 FROM enrollments e
			WHERE e.course_id = assignments.course_id AND e.student_id = ? AND e.status = ?)`,
			q.StudentID, model.EnrollmentActive)
	}
	if q.TeacherID != "" {
		db = db.Where(`EXISTS (SELECT 1 FROM courses c
			WHERE c.course_id = assignments.course_id AND c.teacher_id = ?)`, q.TeacherID)
	}
	if q.UnsubmittedBy != "" {
		db = db.Where(`NOT EXISTS (SELECT 1 FROM submissions s
			WHERE s.assignment_id = assignments.assignment_id AND s.student_id = ?)`, q.UnsubmittedBy)
	}
	if q.ActiveOnly {
		db = db.Where("assignments.is_active = ?", true)
	}
	if q.DueFrom != nil {
		db = db.Where("assignments.due_date >= ?", *q.DueFrom)
	}
	if q.DueTo != nil {
		db = db.Where("assignments.due_date <= ?", *q.DueTo)
	}
	return db
}

func (r *assignmentRepo) List(ctx context.Context, q AssignmentQuery) ([]model.Assignment, error) {
	var assignments []model.Assignment
	db := r.scope(ctx, q).Preload("Course")
	if q.DueAsc {
		db = db.Order("assignments.due_date ASC")
	} else {
		db = db.Order("assignments.created_at DESC")
	}
	if q.Limit > 0 {
		db = db.Limit(q.Limit)
	}
	err := db.Find(&assignments).Error
	return assignments, err
}

func (r *assignmentRepo) Count(ctx context.Context, q AssignmentQuery) (int64, error) {
	var n int64
	err := r.scope(ctx, q).Count(&n).Error
	return n, err
}

func (r *assignmentRepo) Update(ctx context.Context, assignment *model.Assignment) error {
	return r.db.WithContext(ctx).
		Model(assignment).
		Where("assignment_id = ?", assignment.AssignmentID).
		Updates(map[string]interface{}{
			"title":       assignment.Title,
			"description": assignment.Description,
			"module_id":   assignment.ModuleID,
			"max_score":   assignment.MaxScore,
			"due_date":    assignment.DueDate,
			"type":        assignment.Type,
			"is_active":   assignment.IsActive,
		}).Error
}

func (r *assignmentRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("assignment_id = ?", id).
		Delete(&model.Assignment{}).Error
}
