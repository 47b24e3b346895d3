package model

import (
	"strings"
	"time"
)

// User represents a registered account. Email is the identity and never changes.
type User struct {
	ID           int64          `json:"-" gorm:"primaryKey;autoIncrement"`
	Email        string         `json:"email" gorm:"size:255;not null;uniqueIndex"`
	Password     string         `json:"-" gorm:"size:255;not null"` // bcrypt hash, legacy rows may be plaintext
	Username     string         `json:"username" gorm:"size:255"`
	Bio          string         `json:"bio" gorm:"type:text"`
	Achievements AchievementSet `json:"achievements" gorm:"type:text"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}

// Profile is the editable, publicly visible part of a user.
type Profile struct {
	Username     string         `json:"username"`
	Bio          string         `json:"bio"`
	Achievements AchievementSet `json:"achievements"`
}

// Profile returns the user's profile view.
func (u *User) Profile() Profile {
	achievements := u.Achievements
	if achievements == nil {
		achievements = AchievementSet{}
	}
	return Profile{
		Username:     u.Username,
		Bio:          u.Bio,
		Achievements: achievements,
	}
}

// DefaultUsername derives the initial username from the local part of an email.
func DefaultUsername(email string) string {
	local, _, _ := strings.Cut(email, "@")
	return local
}
