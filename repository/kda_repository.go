package repository

import (
	"context"
	"fmt"

	"stonehub/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// KDARepository stores per-user, per-game KDA progress.
type KDARepository interface {
	Save(ctx context.Context, email string, progress model.KDAProgress) error
	GetAll(ctx context.Context, email string) (map[string]model.KDAProgress, error)
}

type gormKDARepository struct {
	db *gorm.DB
}

// NewGormKDARepository creates a new KDARepository.
func NewGormKDARepository(db *gorm.DB) KDARepository {
	return &gormKDARepository{db: db}
}

// Save upserts the whole row for (email, game): every counter is replaced,
// including slots the caller left at their defaults.
func (r *gormKDARepository) Save(ctx context.Context, email string, progress model.KDAProgress) error {
	if progress.Game == "" {
		return ErrMissingGame
	}

	updates := make([]string, 0, len(model.KDACounterColumns)+1)
	updates = append(updates, model.KDACounterColumns...)
	updates = append(updates, "updated_at")

	// 单条 upsert 语句，GORM 默认事务包裹
	rec := model.NewKDARecord(email, progress)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_email"}, {Name: "game"}},
		DoUpdates: clause.AssignmentColumns(updates),
	}).Create(rec).Error
	if err != nil {
		return fmt.Errorf("failed to save kda for %s/%s: %w", email, progress.Game, err)
	}
	return nil
}

// GetAll returns one entry per game the user has saved.
func (r *gormKDARepository) GetAll(ctx context.Context, email string) (map[string]model.KDAProgress, error) {
	var rows []model.KDARecord
	err := r.db.WithContext(ctx).Where("user_email = ?", email).Order("game").Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load kda for %s: %w", email, err)
	}

	result := make(map[string]model.KDAProgress, len(rows))
	for i := range rows {
		result[rows[i].Game] = rows[i].Progress()
	}
	return result, nil
}
