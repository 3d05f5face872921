// Package testutil provides shared fixtures for backend tests.
package testutil

import (
	"fmt"
	"testing"

	"inkpost/internal/database"
	"inkpost/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens a private in-memory SQLite database with the full schema.
// Each call gets its own database, closed when t finishes.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(database.PersistentModels()...))
	return db
}

// CreateMember inserts a member whose API key equals its username.
func CreateMember(t testing.TB, db *gorm.DB, username, nickname string) *models.Member {
	t.Helper()
	m := &models.Member{
		Username: username,
		Password: username + "1234",
		Nickname: nickname,
		APIKey:   username,
	}
	require.NoError(t, db.Create(m).Error)
	return m
}

// CreatePost inserts a post authored by author.
func CreatePost(t testing.TB, db *gorm.DB, author *models.Member, title string, published, listed bool) *models.Post {
	t.Helper()
	p := &models.Post{
		AuthorID:  author.ID,
		Title:     title,
		Content:   title + " content",
		Published: published,
		Listed:    listed,
	}
	require.NoError(t, db.Omit("Author").Create(p).Error)
	p.Author = *author
	return p
}

// CreateComment inserts a comment on post written by author.
func CreateComment(t testing.TB, db *gorm.DB, post *models.Post, author *models.Member, content string) *models.Comment {
	t.Helper()
	c := &models.Comment{
		PostID:   post.ID,
		AuthorID: author.ID,
		Content:  content,
	}
	require.NoError(t, db.Omit("Author", "Post").Create(c).Error)
	c.Author = *author
	return c
}
