package repository

import (
	"context"

	"inkpost/internal/cache"
	"inkpost/internal/models"
	"inkpost/internal/observability"

	"gorm.io/gorm"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	ListListed(ctx context.Context, limit, offset int) ([]*models.Post, error)
	CountListed(ctx context.Context) (int64, error)
	Latest(ctx context.Context) (*models.Post, error)
	Count(ctx context.Context) (int64, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id uint) error
}

// postRepository implements PostRepository
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	defer observability.TrackQuery("insert", "posts")()
	return translateError(r.db.WithContext(ctx).Omit("Author").Create(post).Error)
}

// GetByID loads a live post with its author, served from cache when possible.
func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	err := cache.Aside(ctx, cache.PostKey(id), &post, cache.PostTTL, func() error {
		defer observability.TrackQuery("select", "posts")()
		return translateError(r.db.WithContext(ctx).Preload("Author").First(&post, id).Error)
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// listedScope selects posts shown in the public listing.
func listedScope(db *gorm.DB) *gorm.DB {
	return db.Where("listed = ?", true)
}

func (r *postRepository) ListListed(ctx context.Context, limit, offset int) ([]*models.Post, error) {
	defer observability.TrackQuery("select", "posts")()
	var posts []*models.Post
	err := r.db.WithContext(ctx).
		Scopes(listedScope).
		Preload("Author").
		Order("id DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	return posts, err
}

func (r *postRepository) CountListed(ctx context.Context) (int64, error) {
	defer observability.TrackQuery("count", "posts")()
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Post{}).Scopes(listedScope).Count(&n).Error
	return n, err
}

func (r *postRepository) Latest(ctx context.Context) (*models.Post, error) {
	defer observability.TrackQuery("select", "posts")()
	var post models.Post
	if err := r.db.WithContext(ctx).Preload("Author").Order("id DESC").First(&post).Error; err != nil {
		return nil, translateError(err)
	}
	return &post, nil
}

func (r *postRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Post{}).Count(&n).Error
	return n, err
}

// Update persists the mutable columns of post.
func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	defer observability.TrackQuery("update", "posts")()
	err := r.db.WithContext(ctx).
		Model(post).
		Updates(map[string]any{
			"title":     post.Title,
			"content":   post.Content,
			"published": post.Published,
			"listed":    post.Listed,
		}).Error
	if err != nil {
		return translateError(err)
	}
	cache.InvalidatePost(ctx, post.ID)
	return nil
}

func (r *postRepository) Delete(ctx context.Context, id uint) error {
	defer observability.TrackQuery("delete", "posts")()
	if err := r.db.WithContext(ctx).Delete(&models.Post{}, id).Error; err != nil {
		return err
	}
	cache.InvalidatePost(ctx, id)
	return nil
}
