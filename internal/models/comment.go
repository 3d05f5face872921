package models

import (
	"time"

	"gorm.io/gorm"
)

// Comment is a reply attached to a Post.
type Comment struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	PostID    uint           `gorm:"not null;index" json:"post_id"`
	Post      Post           `gorm:"foreignKey:PostID" json:"-"`
	AuthorID  uint           `gorm:"not null;index" json:"author_id"`
	Author    Member         `gorm:"foreignKey:AuthorID" json:"author"`
	Content   string         `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// IsOwnedBy reports whether the member with the given ID wrote the comment.
func (c Comment) IsOwnedBy(memberID uint) bool {
	return c.AuthorID == memberID
}

// WithContent returns a copy of the comment carrying the new content.
func (c Comment) WithContent(content string) Comment {
	c.Content = content
	return c
}
