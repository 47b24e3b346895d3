package repository

import (
	"context"
	"errors"
	"fmt"

	"stonehub/core/auth"
	"stonehub/logger"
	"stonehub/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserRepository defines the interface for user data operations.
type UserRepository interface {
	Create(ctx context.Context, email, password string) (*model.User, error)
	VerifyCredentials(ctx context.Context, email, password string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	UpdateProfile(ctx context.Context, email, username, bio string) error
	ChangePassword(ctx context.Context, email, oldPassword, newPassword string) error
	UnlockAchievement(ctx context.Context, email, key string) error
	UpgradeLegacyPasswords(ctx context.Context) (int, error)
}

// hashPassword is swapped in tests to simulate hashing failures.
var hashPassword = auth.HashPassword

// gormUserRepository implements UserRepository on top of GORM.
type gormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new gormUserRepository.
func NewGormUserRepository(db *gorm.DB) UserRepository {
	return &gormUserRepository{db: db}
}

// forUpdate locks the selected row until the surrounding transaction ends.
// SQLite has no row locks; its single connection already serializes transactions.
func forUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// Create 注册新用户，用户名默认取邮箱 @ 前的部分
func (r *gormUserRepository) Create(ctx context.Context, email, password string) (*model.User, error) {
	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Email:        email,
		Password:     hash,
		Username:     model.DefaultUsername(email),
		Bio:          "",
		Achievements: model.NewAchievementSet(),
	}
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if isDuplicateKey(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to create user %s: %w", email, err)
	}
	return user, nil
}

// VerifyCredentials returns the user when password matches. Legacy plaintext
// passwords are upgraded to bcrypt on the first successful check.
func (r *gormUserRepository) VerifyCredentials(ctx context.Context, email, password string) (*model.User, error) {
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := r.GetByEmail(ctx, email)
	if errors.Is(err, ErrUserNotFound) {
		auth.BurnCompare(password)
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	ok, needsRehash := auth.VerifyPassword(password, user.Password)
	if !ok {
		return nil, ErrInvalidCredentials
	}

	if needsRehash {
		if err := r.setPassword(r.db.WithContext(ctx), email, password); err != nil {
			// 登录本身已成功，升级失败只记录
			logger.Warn("[UserRepo] 升级明文密码失败", logger.String("email", email), logger.ErrorField(err))
		} else {
			logger.Info("[UserRepo] 明文密码已升级为 bcrypt", logger.String("email", email))
		}
	}
	return user, nil
}

// GetByEmail retrieves a user by their email address.
func (r *gormUserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user %s: %w", email, err)
	}
	return &user, nil
}

// UpdateProfile overwrites username and bio without validation.
func (r *gormUserRepository) UpdateProfile(ctx context.Context, email, username, bio string) error {
	res := r.db.WithContext(ctx).Model(&model.User{}).
		Where("email = ?", email).
		Updates(map[string]interface{}{
			"username": username,
			"bio":      bio,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to update profile for %s: %w", email, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// ChangePassword 校验旧密码后写入新密码，整个过程在一个事务中完成
func (r *gormUserRepository) ChangePassword(ctx context.Context, email, oldPassword, newPassword string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user model.User
		err := forUpdate(tx).Select("email", "password").Where("email = ?", email).First(&user).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return fmt.Errorf("failed to load user %s: %w", email, err)
		}

		if oldPassword == "" {
			return ErrIncorrectOldPassword
		}
		if ok, _ := auth.VerifyPassword(oldPassword, user.Password); !ok {
			return ErrIncorrectOldPassword
		}
		return r.setPassword(tx, email, newPassword)
	})
}

// UnlockAchievement adds key to the user's achievement set. The read and the
// write share one transaction, so concurrent unlocks never drop each other.
func (r *gormUserRepository) UnlockAchievement(ctx context.Context, email, key string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user model.User
		err := forUpdate(tx).Select("email", "achievements").Where("email = ?", email).First(&user).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return fmt.Errorf("failed to load achievements for %s: %w", email, err)
		}

		achievements := user.Achievements
		if achievements.Has(key) {
			return nil
		}
		if achievements == nil {
			achievements = model.NewAchievementSet()
		}
		achievements.Add(key)

		err = tx.Model(&model.User{}).Where("email = ?", email).Update("achievements", achievements).Error
		if err != nil {
			return fmt.Errorf("failed to save achievements for %s: %w", email, err)
		}
		return nil
	})
}

// UpgradeLegacyPasswords hashes every plaintext password still in the table.
// A row that fails is logged and skipped; the failures come back joined.
func (r *gormUserRepository) UpgradeLegacyPasswords(ctx context.Context) (int, error) {
	var users []model.User
	err := r.db.WithContext(ctx).Select("email", "password").Find(&users).Error
	if err != nil {
		return 0, fmt.Errorf("failed to list users: %w", err)
	}

	upgraded := 0
	var errs []error
	for _, u := range users {
		if auth.IsHashed(u.Password) {
			continue
		}
		if err := r.setPassword(r.db.WithContext(ctx), u.Email, u.Password); err != nil {
			logger.Warn("[UserRepo] 跳过无法升级的明文密码", logger.String("email", u.Email), logger.ErrorField(err))
			errs = append(errs, err)
			continue
		}
		upgraded++
	}
	return upgraded, errors.Join(errs...)
}

func (r *gormUserRepository) setPassword(tx *gorm.DB, email, password string) error {
	hash, err := hashPassword(password)
	if err != nil {
		return err
	}
	err = tx.Model(&model.User{}).Where("email = ?", email).Update("password", hash).Error
	if err != nil {
		return fmt.Errorf("failed to update password for %s: %w", email, err)
	}
	return nil
}
