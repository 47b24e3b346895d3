package repository

import (
	"context"
	"fmt"

	"stonehub/model"

	"gorm.io/gorm"
)

// FeedbackRepository defines the interface for the feedback log.
// Access control for ListAll is the caller's job.
type FeedbackRepository interface {
	Submit(ctx context.Context, authorEmail *string, message string) error
	ListAll(ctx context.Context) ([]model.FeedbackView, error)
}

type gormFeedbackRepository struct {
	db *gorm.DB
}

// NewGormFeedbackRepository creates a new FeedbackRepository.
func NewGormFeedbackRepository(db *gorm.DB) FeedbackRepository {
	return &gormFeedbackRepository{db: db}
}

// Submit 提交反馈，authorEmail 为 nil 表示匿名
func (r *gormFeedbackRepository) Submit(ctx context.Context, authorEmail *string, message string) error {
	if message == "" {
		return ErrEmptyContent
	}
	fb := &model.Feedback{UserEmail: authorEmail, Message: message}
	if err := r.db.WithContext(ctx).Create(fb).Error; err != nil {
		return fmt.Errorf("failed to submit feedback: %w", err)
	}
	return nil
}

// ListAll returns every feedback entry, newest first.
func (r *gormFeedbackRepository) ListAll(ctx context.Context) ([]model.FeedbackView, error) {
	var rows []model.Feedback
	err := r.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list feedback: %w", err)
	}

	views := make([]model.FeedbackView, 0, len(rows))
	for i := range rows {
		views = append(views, rows[i].View())
	}
	return views, nil
}
