package repository

import (
	"context"

	"gorm.io/gorm"

	"aether-lms/backend/internal/model"
)

// ModuleRepository 章节数据访问接口
type ModuleRepository interface {
	Create(ctx context.Context, module *model.Module) error
	GetByID(ctx context.Context, id string) (*model.Module, error)
	ListByCourse(ctx context.Context, courseID string) ([]model.Module, error)
	Update(ctx context.Context, module *model.Module) error
	Delete(ctx context.Context, id string) error
	CountLessons(ctx context.Context, moduleID string) (int64, error)
}

type moduleRepo struct {
	db *gorm.DB
}

// NewModuleRepo 创建 ModuleRepository 实例
func NewModuleRepo(db *gorm.DB) ModuleRepository {
	return &moduleRepo{db: db}
}

func (r *moduleRepo) Create(ctx context.Context, module *model.Module) error {
	return r.db.WithContext(ctx).Create(module).Error
}

func (r *moduleRepo) GetByID(ctx context.Context, id string) (*model.Module, error) {
	var module model.Module
	err := r.db.WithContext(ctx).
		Preload("Lessons", func(db *gorm.DB) *gorm.DB {
			return db.Order(`"order" ASC`)
		}).
		Where("module_id = ?", id).
		First(&module).Error
	if err != nil {
		return nil, err
	}
	return &module, nil
}

func (r *moduleRepo) ListByCourse(ctx context.Context, courseID string) ([]model.Module, error) {
	var modules []model.Module
	err := r.db.WithContext(ctx).
		Preload("Lessons", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_active = ?", true).Order(`"order" ASC`)
		}).
		Where("course_id = ? AND is_active = ?", courseID, true).
		Order(`"order" ASC`).
		Find(&modules).Error
	return modules, err
}

func (r *moduleRepo) Update(ctx context.Context, module *model.Module) error {
	return r.db.WithContext(ctx).
		Model(module).
		Where("module_id = ?", module.ModuleID).
		Updates(map[string]interface{}{
			"title":       module.Title,
			"description": module.Description,
			"order":       module.Order,
			"is_active":   module.IsActive,
		}).Error
}

func (r *moduleRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("module_id = ?", id).
		Delete(&model.Module{}).Error
}

func (r *moduleRepo) CountLessons(ctx context.Context, moduleID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&model.Lesson{}).
		Where("module_id = ?", moduleID).
		Count(&n).Error
	return n, err
}

// ── Lesson Repository ──

// LessonRepository 课时数据访问接口
type LessonRepository interface {
	Create(ctx context.Context, lesson *model.Lesson) error
	GetByID(ctx context.Context, id string) (*model.Lesson, error)
	ListByModule(ctx context.Context, moduleID string) ([]model.Lesson, error)
	Update(ctx context.Context, lesson *model.Lesson) error
	Delete(ctx context.Context, id string) error
}

type lessonRepo struct {
	db *gorm.DB
}

// NewLessonRepo 创建 LessonRepository 实例
func NewLessonRepo(db *gorm.DB) LessonRepository {
	return &lessonRepo{db: db}
}

func (r *lessonRepo) Create(ctx context.Context, lesson *model.Lesson) error {
	return r.db.WithContext(ctx).Create(lesson).Error
}

func (r *lessonRepo) GetByID(ctx context.Context, id string) (*model.Lesson, error) {
	var lesson model.Lesson
	err := r.db.WithContext(ctx).
		Where("lesson_id = ?", id).
		First(&lesson).Error
	if err != nil {
		return nil, err
	}
	return &lesson, nil
}

func (r *lessonRepo) ListByModule(ctx context.Context, moduleID string) ([]model.Lesson, error) {
	var lessons []model.Lesson
	err := r.db.WithContext(ctx).
		Where("module_id = ? AND is_active = ?", moduleID, true).
		Order(`"order" ASC`).
		Find(&lessons).Error
	return lessons, err
}

func (r *lessonRepo) Update(ctx context.Context, lesson *model.Lesson) error {
	return r.db.WithContext(ctx).
		Model(lesson).
		Where("lesson_id = ?", lesson.LessonID).
		Updates(map[string]interface{}{
			"title":     lesson.Title,
			"content":   lesson.Content,
			"order":     lesson.Order,
			"is_active": lesson.IsActive,
		}).Error
}

func (r *lessonRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("lesson_id = ?", id).
		Delete(&model.Lesson{}).Error
}
