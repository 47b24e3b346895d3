package repository

import (
	"context"
	"fmt"
	"time"

	"stonehub/model"

	"gorm.io/gorm"
)

// PostRepository defines the interface for community post operations.
type PostRepository interface {
	List(ctx context.Context) ([]model.PostView, error)
	Create(ctx context.Context, authorEmail, text string) (*model.CommunityPost, error)
}

type gormPostRepository struct {
	db *gorm.DB
}

// NewGormPostRepository creates a new PostRepository.
func NewGormPostRepository(db *gorm.DB) PostRepository {
	return &gormPostRepository{db: db}
}

type postRow struct {
	Username  *string
	Text      string
	CreatedAt time.Time
}

// List 获取全部帖子，按时间倒序；作者已不存在时显示 Guest
func (r *gormPostRepository) List(ctx context.Context) ([]model.PostView, error) {
	var rows []postRow
	err := r.db.WithContext(ctx).
		Table("community_posts AS p").
		Select("u.username AS username, p.text AS text, p.created_at AS created_at").
		Joins("LEFT JOIN users AS u ON u.email = p.user_email").
		Order("p.created_at DESC, p.id DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}

	posts := make([]model.PostView, 0, len(rows))
	for _, row := range rows {
		name := model.GuestDisplayName
		if row.Username != nil {
			name = *row.Username
		}
		posts = append(posts, model.PostView{
			User: name,
			Text: row.Text,
			Date: model.Timestamp(row.CreatedAt),
		})
	}
	return posts, nil
}

// Create appends a post. There is no length cap.
func (r *gormPostRepository) Create(ctx context.Context, authorEmail, text string) (*model.CommunityPost, error) {
	if text == "" {
		return nil, ErrEmptyContent
	}
	post := &model.CommunityPost{UserEmail: authorEmail, Text: text}
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}
	return post, nil
}
