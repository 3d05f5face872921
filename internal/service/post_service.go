package service

import (
	"context"
	"errors"

	"inkpost/internal/access"
	"inkpost/internal/models"
	"inkpost/internal/observability"
	"inkpost/internal/repository"
	"inkpost/internal/validation"

	"go.opentelemetry.io/otel/attribute"
)

const msgPostNotFound = "존재하지 않는 글입니다."

type PostService struct {
	postRepo        repository.PostRepository
	defaultPageSize int
	maxPageSize     int
}

type WritePostInput struct {
	Author    models.Member `json:"-"`
	Title     string        `json:"title" validate:"notblank,max=255"`
	Content   string        `json:"content" validate:"notblank"`
	Published bool          `json:"published"`
	Listed    bool          `json:"listed"`
}

type ModifyPostInput struct {
	Actor   access.Actor `json:"-"`
	PostID  uint         `json:"-"`
	Title   string       `json:"title" validate:"notblank,max=255"`
	Content string       `json:"content" validate:"notblank"`
}

type DeletePostInput struct {
	Actor  access.Actor
	PostID uint
}

func NewPostService(postRepo repository.PostRepository, defaultPageSize, maxPageSize int) *PostService {
	if defaultPageSize <= 0 {
		defaultPageSize = 3
	}
	if maxPageSize < defaultPageSize {
		maxPageSize = defaultPageSize
	}
	return &PostService{
		postRepo:        postRepo,
		defaultPageSize: defaultPageSize,
		maxPageSize:     maxPageSize,
	}
}

func (s *PostService) Write(ctx context.Context, in WritePostInput) (post *models.Post, err error) {
	ctx, span := observability.StartSpan(ctx, "PostService", "Write", attribute.Int64("author.id", int64(in.Author.ID)))
	defer func() { observability.EndSpan(span, err) }()

	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	post = &models.Post{
		AuthorID:  in.Author.ID,
		Title:     in.Title,
		Content:   in.Content,
		Published: in.Published,
		Listed:    in.Listed,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	post.Author = in.Author
	return post, nil
}

// GetItem loads a post the actor is allowed to read.
func (s *PostService) GetItem(ctx context.Context, actor access.Actor, id uint) (post *models.Post, err error) {
	ctx, span := observability.StartSpan(ctx, "PostService", "GetItem", attribute.Int64("post.id", int64(id)))
	defer func() { observability.EndSpan(span, err) }()

	post, err = s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := access.CanRead(actor, *post); err != nil {
		return nil, err
	}
	return post, nil
}

// ListPublished returns one page of the public listing, newest first.
// Out of range pages come back empty.
func (s *PostService) ListPublished(ctx context.Context, page, pageSize int) (result models.Page[models.PostDto], err error) {
	ctx, span := observability.StartSpan(ctx, "PostService", "ListPublished")
	defer func() { observability.EndSpan(span, err) }()

	page, pageSize = s.normalizePage(page, pageSize)

	total, err := s.postRepo.CountListed(ctx)
	if err != nil {
		return result, err
	}

	var posts []*models.Post
	offset := (page - 1) * pageSize
	if int64(offset) < total {
		posts, err = s.postRepo.ListListed(ctx, pageSize, offset)
		if err != nil {
			return result, err
		}
	}

	return models.NewPage(models.NewPostDtos(posts), page, pageSize, total), nil
}

func (s *PostService) normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = s.defaultPageSize
	}
	if pageSize > s.maxPageSize {
		pageSize = s.maxPageSize
	}
	return page, pageSize
}

// Modify replaces title and content of a post owned by the actor.
func (s *PostService) Modify(ctx context.Context, in ModifyPostInput) (updated *models.Post, err error) {
	ctx, span := observability.StartSpan(ctx, "PostService", "Modify", attribute.Int64("post.id", int64(in.PostID)))
	defer func() { observability.EndSpan(span, err) }()

	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	post, err := s.find(ctx, in.PostID)
	if err != nil {
		return nil, err
	}
	if err := access.CanModify(in.Actor, *post); err != nil {
		return nil, err
	}

	next := post.WithContent(in.Title, in.Content)
	if err := s.postRepo.Update(ctx, &next); err != nil {
		return nil, err
	}
	return &next, nil
}

// Delete soft-deletes a post owned by the actor and returns what was removed.
func (s *PostService) Delete(ctx context.Context, in DeletePostInput) (post *models.Post, err error) {
	ctx, span := observability.StartSpan(ctx, "PostService", "Delete", attribute.Int64("post.id", int64(in.PostID)))
	defer func() { observability.EndSpan(span, err) }()

	post, err = s.find(ctx, in.PostID)
	if err != nil {
		return nil, err
	}
	if err := access.CanDelete(in.Actor, *post); err != nil {
		return nil, err
	}
	if err := s.postRepo.Delete(ctx, post.ID); err != nil {
		return nil, err
	}
	return post, nil
}

// Latest returns the most recently written post.
func (s *PostService) Latest(ctx context.Context) (*models.Post, error) {
	post, err := s.postRepo.Latest(ctx)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, models.NewNotFoundError("404-1", msgPostNotFound)
	}
	return post, err
}

func (s *PostService) Count(ctx context.Context) (int64, error) {
	return s.postRepo.Count(ctx)
}

func (s *PostService) find(ctx context.Context, id uint) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, models.NewNotFoundError("404-1", msgPostNotFound)
		}
		return nil, err
	}
	return post, nil
}
