package models

import (
	"time"

	"gorm.io/gorm"
)

// Post represents a blog post owned by a Member.
type Post struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	AuthorID  uint           `gorm:"not null;index" json:"author_id"`
	Author    Member         `gorm:"foreignKey:AuthorID" json:"author"`
	Title     string         `gorm:"size:255;not null" json:"title"`
	Content   string         `gorm:"type:text;not null" json:"content"`
	Published bool           `gorm:"not null;default:false" json:"published"`
	Listed    bool           `gorm:"not null;default:false;index" json:"listed"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// IsOwnedBy reports whether the member with the given ID authored the post.
func (p Post) IsOwnedBy(memberID uint) bool {
	return p.AuthorID == memberID
}

// WithContent returns a copy of the post carrying the new title and content.
// The receiver is left untouched.
func (p Post) WithContent(title, content string) Post {
	p.Title = title
	p.Content = content
	return p
}
