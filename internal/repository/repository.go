package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository 所有 Repository 的聚合入口
type Repository struct {
	db *gorm.DB

	User            UserRepository
	Course          CourseRepository
	Module          ModuleRepository
	Lesson          LessonRepository
	Assignment      AssignmentRepository
	Enrollment      EnrollmentRepository
	Submission      SubmissionRepository
	Grade           GradeRepository
	CourseGrade     CourseGradeRepository
	AssignmentGrade AssignmentGradeRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:              db,
		User:            NewUserRepo(db),
		Course:          NewCourseRepo(db),
		Module:          NewModuleRepo(db),
		Lesson:          NewLessonRepo(db),
		Assignment:      NewAssignmentRepo(db),
		Enrollment:      NewEnrollmentRepo(db),
		Submission:      NewSubmissionRepo(db),
		Grade:           NewGradeRepo(db),
		CourseGrade:     NewCourseGradeRepo(db),
		AssignmentGrade: NewAssignmentGradeRepo(db),
	}
}

// BeginTx 开启事务
// 未绑定数据库（单元测试中的 mock 聚合）时返回 nil 事务，调用方以 tx != nil 判断
func (r *Repository) BeginTx(ctx context.Context) (*gorm.DB, error) {
	if r.db == nil {
		return nil, nil
	}
	tx := r.db.WithContext(ctx).Begin()
	return tx, tx.Error
}

// WithTx 返回绑定到事务连接的 Repository 聚合
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return NewRepository(tx)
}

// Transaction 在单个事务内执行 fn：fn 返回错误或 panic 时回滚，否则提交
func (r *Repository) Transaction(ctx context.Context, fn func(txRepo *Repository) error) (err error) {
	tx, err := r.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if p := recover(); p != nil {
			if tx != nil {
				tx.Rollback()
			}
			panic(p)
		}
	}()

	if err := fn(r.WithTx(tx)); err != nil {
		if tx != nil {
			tx.Rollback()
		}
		return err
	}

	if tx != nil {
		return tx.Commit().Error
	}
	return nil
}

// Page 分页参数
type Page struct {
	Offset int
	Limit  int
}
