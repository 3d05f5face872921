package seed

import (
	"context"
	"errors"
	"fmt"

	"inkpost/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

const batchSize = 100

// Factory generates fake posts for load and demo data.
type Factory struct {
	db    *gorm.DB
	faker *gofakeit.Faker
}

// NewFactory returns a Factory. A seed of 0 picks a random one.
func NewFactory(db *gorm.DB, seed int64) *Factory {
	return &Factory{db: db, faker: gofakeit.New(seed)}
}

// BuildPost returns an unsaved post by author. Most generated posts are
// public; roughly one in five stays private.
func (f *Factory) BuildPost(author models.Member) *models.Post {
	public := f.faker.Number(1, 5) > 1
	return &models.Post{
		AuthorID:  author.ID,
		Author:    author,
		Title:     f.faker.Sentence(5),
		Content:   f.faker.Paragraph(1, 3, 8, "\n"),
		Published: public,
		Listed:    public,
	}
}

// CreatePosts writes n generated posts, spreading authorship across authors.
func (f *Factory) CreatePosts(ctx context.Context, authors []models.Member, n int) ([]*models.Post, error) {
	if n <= 0 {
		return nil, nil
	}
	if len(authors) == 0 {
		return nil, errors.New("at least one author is required")
	}

	posts := make([]*models.Post, 0, n)
	for i := 0; i < n; i++ {
		posts = append(posts, f.BuildPost(authors[i%len(authors)]))
	}
	if err := f.db.WithContext(ctx).Omit("Author").CreateInBatches(posts, batchSize).Error; err != nil {
		return nil, fmt.Errorf("create posts: %w", err)
	}
	return posts, nil
}

// CreatePostsForAll generates n posts authored by the existing members.
func (f *Factory) CreatePostsForAll(ctx context.Context, n int) ([]*models.Post, error) {
	var authors []models.Member
	if err := f.db.WithContext(ctx).Order("id").Find(&authors).Error; err != nil {
		return nil, fmt.Errorf("load members: %w", err)
	}
	return f.CreatePosts(ctx, authors, n)
}
