// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// Member represents a registered account. Members are never deleted.
type Member struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"uniqueIndex;size:100;not null" json:"username"`
	Password  string    `gorm:"not null" json:"-"`
	Nickname  string    `gorm:"size:100;not null" json:"nickname"`
	APIKey    string    `gorm:"column:api_key;uniqueIndex;size:100;not null" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Name returns the display name used when the member authors content.
func (m Member) Name() string {
	return m.Nickname
}

// MatchPassword reports whether password equals the stored one.
func (m Member) MatchPassword(password string) bool {
	return m.Password == password
}
