package repository

import (
	"context"

	"gorm.io/gorm"

	"aether-lms/backend/internal/model"
)

// CourseStats 课程统计（选课人数、章节数）
type CourseStats struct {
	CourseID    string
	Enrollments int64
	Modules     int64
}

// CourseRepository 课程数据访问接口
type CourseRepository interface {
	Create(ctx context.Context, course *model.Course) error
	GetByID(ctx context.Context, id string) (*model.Course, error)
	// GetWithContent 预加载授课教师与启用的章节、课时（按 order 升序）
	GetWithContent(ctx context.Context, id string) (*model.Course, error)
	ListActive(ctx context.Context) ([]model.Course, error)
	ListByTeacher(ctx context.Context, teacherID string) ([]model.Course, error)
	ListRecent(ctx context.Context, limit int) ([]model.Course, error)
	Stats(ctx context.Context, courseIDs []string) (map[string]CourseStats, error)
	Count(ctx context.Context) (int64, error)
	Update(ctx context.Context, course *model.Course) error
	SetActive(ctx context.Context, id string, active bool) error
}

type courseRepo struct {
	db *gorm.DB
}

// NewCourseRepo 创建 CourseRepository 实例
func NewCourseRepo(db *gorm.DB) CourseRepository {
	return &courseRepo{db: db}
}

func (r *courseRepo) Create(ctx context.Context, course *model.Course) error {
	return r.db.WithContext(ctx).Create(course).Error
}

func (r *courseRepo) GetByID(ctx context.Context, id string) (*model.Course, error) {
	var course model.Course
	err := r.db.WithContext(ctx).
		Where("course_id = ?", id).
		First(&course).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *courseRepo) GetWithContent(ctx context.Context, id string) (*model.Course, error) {
	var course model.Course
	err := r.db.WithContext(ctx).
		Preload("Teacher").
		Preload("Modules", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_active = ?", true).Order(`"order" ASC`)
		}).
		Preload("Modules.Lessons", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_active = ?", true).Order(`"order" ASC`)
		}).
		Where("course_id = ?", id).
		First(&course).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *courseRepo) ListActive(ctx context.Context) ([]model.Course, error) {
	var courses []model.Course
	err := r.db.WithContext(ctx).
		Preload("Teacher").
		Where("is_active = ?", true).
		Order("created_at DESC").
		Find(&courses).Error
	return courses, err
}

func (r *courseRepo) ListByTeacher(ctx context.Context, teacherID string) ([]model.Course, error) {
	var courses []model.Course
	err := r.db.WithContext(ctx).
		Where("teacher_id = ? AND is_active = ?", teacherID, true).
		Order("created_at DESC").
		Find(&courses).Error
	return courses, err
}

func (r *courseRepo) ListRecent(ctx context.Context, limit int) ([]model.Course, error) {
	var courses []model.Course
	err := r.db.WithContext(ctx).
		Preload("Teacher").
		Order("created_at DESC").
		Limit(limit).
		Find(&courses).Error
	return courses, err
}

func (r *courseRepo) Stats(ctx context.Context, courseIDs []string) (map[string]CourseStats, error) {
	stats := make(map[string]CourseStats, len(courseIDs))
	if len(courseIDs) == 0 {
		return stats, nil
	}

	var rows []CourseStats
	err := r.db.WithContext(ctx).
		Table("courses AS c").
		Select(`c.course_id AS course_id,
			(SELECT COUNT(*) FROM enrollments e WHERE e.course_id = c.course_id) AS enrollments,
			(SELECT COUNT(*) FROM modules m WHERE m.course_id = c.course_id AND m.is_active) AS modules`).
		Where("c.course_id IN ?", courseIDs).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		stats[row.CourseID] = row
	}
	return stats, nil
}

func (r *courseRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Course{}).Count(&n).Error
	return n, err
}

func (r *courseRepo) Update(ctx context.Context, course *model.Course) error {
	return r.db.WithContext(ctx).
		Model(course).
		Where("course_id = ?", course.CourseID).
		Updates(map[string]interface{}{
			"title":       course.Title,
			"description": course.Description,
			"code":        course.Code,
			"credits":     course.Credits,
			"teacher_id":  course.TeacherID,
			"is_active":   course.IsActive,
		}).Error
}

// SetActive 上架/下架课程（下架即软删除）
func (r *courseRepo) SetActive(ctx context.Context, id string, active bool) error {
	return r.db.WithContext(ctx).
		Model(&model.Course{}).
		Where("course_id = ?", id).
		Updates(map[string]interface{}{
			"is_active":  active,
			"updated_at": gorm.Expr("NOW()"),
		}).Error
}
