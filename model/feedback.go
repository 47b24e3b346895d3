package model

import "time"

// Feedback 用户反馈，UserEmail 为空表示匿名
type Feedback struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	UserEmail *string   `json:"userEmail" gorm:"size:255;index"`
	Message   string    `json:"message" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"createdAt" gorm:"index"`
}

// TableName 指定表名
func (Feedback) TableName() string {
	return "feedback"
}

// FeedbackView is a feedback entry as shown to the admin.
type FeedbackView struct {
	UserEmail string    `json:"user_email"`
	Message   string    `json:"message"`
	Date      Timestamp `json:"date"`
}

// View converts the row, rendering anonymous authors as GuestDisplayName.
func (f *Feedback) View() FeedbackView {
	author := GuestDisplayName
	if f.UserEmail != nil && *f.UserEmail != "" {
		author = *f.UserEmail
	}
	return FeedbackView{
		UserEmail: author,
		Message:   f.Message,
		Date:      Timestamp(f.CreatedAt),
	}
}
