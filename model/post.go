package model

import "time"

// GuestDisplayName is shown for authors that no longer resolve to a user.
const GuestDisplayName = "Guest"

// CommunityPost 社区帖子，只追加不修改
type CommunityPost struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	UserEmail string    `json:"userEmail" gorm:"size:255;not null;index"`
	Text      string    `json:"text" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"createdAt" gorm:"index"`
}

// TableName 指定表名
func (CommunityPost) TableName() string {
	return "community_posts"
}

// PostView is a post as listed publicly.
type PostView struct {
	User string    `json:"user"`
	Text string    `json:"text"`
	Date Timestamp `json:"date"`
}
