package repository

import (
	"context"

	"gorm.io/gorm"

	"aether-lms/backend/internal/model"
)

// SubmissionQuery 提交查询条件（零值字段不参与过滤）
type SubmissionQuery struct {
	StudentID       string
	AssignmentID    string
	CourseID        string
	TeacherID       string // 仅该教师授课课程下的提交
	Ungraded        bool   // score IS NULL
	WithFeedback    bool   // feedback IS NOT NULL
	WithoutFeedback bool   // feedback IS NULL
	ScoreAbove      *float64
	SortByGraded    bool   // 按批改时间倒序，否则按提交时间倒序
	Limit           int
}

// SubmissionRepository 提交数据访问接口
type SubmissionRepository interface {
	// Create 违反 (student_id, assignment_id) 唯一约束时返回 gorm.ErrDuplicatedKey
	Create(ctx context.Context, submission *model.Submission) error
	// GetByID 预加载作业（含课程）与学生
	GetByID(ctx context.Context, id string) (*model.Submission, error)
	List(ctx context.Context, q SubmissionQuery) ([]model.Submission, error)
	Count(ctx context.Context, q SubmissionQuery) (int64, error)
	UpdateContent(ctx context.Context, submission *model.Submission) error
	UpdateGrade(ctx context.Context, submission *model.Submission) error
	Delete(ctx context.Context, id string) error
}

type submissionRepo struct {
	db *gorm.DB
}

// NewSubmissionRepo 创建 SubmissionRepository 实例
func NewSubmissionRepo(db *gorm.DB) SubmissionRepository {
	return &submissionRepo{db: db}
}

func (r *submissionRepo) Create(ctx context.Context, submission *model.Submission) error {
	return r.db.WithContext(ctx).Create(submission).Error
}

func (r *submissionRepo) GetByID(ctx context.Context, id string) (*model.Submission, error) {
	var submission model.Submission
	err := r.db.WithContext(ctx).
		Preload("Assignment.Course").
		Preload("Student").
		Where("submission_id = ?", id).
		First(&submission).Error
	if err != nil {
		return nil, err
	}
	return &submission, nil
}

func (r *submissionRepo) scope(ctx context.Context, q SubmissionQuery) *gorm.DB {
	db := r.db.WithContext(ctx).Model(&model.Submission{})
	if q.StudentID != "" {
		db = db.Where("submissions.student_id = ?", q.StudentID)
	}
	if q.AssignmentID != "" {
		db = db.Where("submissions.assignment_id = ?", q.AssignmentID)
	}
	if q.CourseID != "" || q.TeacherID != "" {
		db = db.Joins("JOIN assignments a ON a.assignment_id = submissions.assignment_id")
		if q.CourseID != "" {
			db = db.Where("a.course_id = ?", q.CourseID)
		}
		if q.TeacherID != "" {
			db = db.Joins("JOIN courses c ON c.course_id = a.course_id").
				Where("c.teacher_id = ?", q.TeacherID)
		}
	}
	if q.Ungraded {
		db = db.Where("submissions.score IS NULL")
	}
	if q.WithFeedback {
		db = db.Where("submissions.feedback IS NOT NULL")
	}
	if q.WithoutFeedback {
		db = db.Where("submissions.feedback IS NULL")
	}
	if q.ScoreAbove != nil {
		db = db.Where("submissions.score > ?", *q.ScoreAbove)
	}
	return db
}

func (r *submissionRepo) List(ctx context.Context, q SubmissionQuery) ([]model.Submission, error) {
	var submissions []model.Submission
	db := r.scope(ctx, q).
		Preload("Assignment.Course").
		Preload("Student")
	if q.SortByGraded {
		db = db.Order("submissions.graded_at DESC NULLS LAST")
	} else {
		db = db.Order("submissions.submitted_at DESC")
	}
	if q.Limit > 0 {
		db = db.Limit(q.Limit)
	}
	err := db.Find(&submissions).Error
	return submissions, err
}

func (r *submissionRepo) Count(ctx context.Context, q SubmissionQuery) (int64, error) {
	var n int64
	err := r.scope(ctx, q).Count(&n).Error
	return n, err
}

func (r *submissionRepo) UpdateContent(ctx context.Context, submission *model.Submission) error {
	return r.db.WithContext(ctx).
		Model(&model.Submission{}).
		Where("submission_id = ?", submission.SubmissionID).
		Updates(map[string]interface{}{
			"content":      submission.Content,
			"submitted_at": submission.SubmittedAt,
			"updated_at":   gorm.Expr("NOW()"),
		}).Error
}

// UpdateGrade 写入分数、评语与批改时间（重新批改直接覆盖）
func (r *submissionRepo) UpdateGrade(ctx context.Context, submission *model.Submission) error {
	return r.db.WithContext(ctx).
		Model(&model.Submission{}).
		Where("submission_id = ?", submission.SubmissionID).
		Updates(map[string]interface{}{
			"score":      submission.Score,
			"feedback":   submission.Feedback,
			"graded_at":  submission.GradedAt,
			"graded_by":  submission.GradedBy,
			"updated_at": gorm.Expr("NOW()"),
		}).Error
}

func (r *submissionRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("submission_id = ?", id).
		Delete(&model.Submission{}).Error
}
