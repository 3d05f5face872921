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

const msgCommentNotFound = "존재하지 않는 댓글입니다."

type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
}

type WriteCommentInput struct {
	Author  models.Member `json:"-"`
	PostID  uint          `json:"-"`
	Content string        `json:"content" validate:"notblank"`
}

type ModifyCommentInput struct {
	Actor     access.Actor `json:"-"`
	PostID    uint         `json:"-"`
	CommentID uint         `json:"-"`
	Content   string       `json:"content" validate:"notblank"`
}

type DeleteCommentInput struct {
	Actor     access.Actor
	PostID    uint
	CommentID uint
}

func NewCommentService(commentRepo repository.CommentRepository, postRepo repository.PostRepository) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
	}
}

// Write attaches a comment to a post the author can read. The returned
// post is the commented one, for notifying its author.
func (s *CommentService) Write(ctx context.Context, in WriteCommentInput) (comment *models.Comment, post *models.Post, err error) {
	ctx, span := observability.StartSpan(ctx, "CommentService", "Write", attribute.Int64("post.id", int64(in.PostID)))
	defer func() { observability.EndSpan(span, err) }()

	if err := validation.Struct(in); err != nil {
		return nil, nil, err
	}

	post, err = s.readablePost(ctx, access.Authenticated(in.Author), in.PostID)
	if err != nil {
		return nil, nil, err
	}

	comment = &models.Comment{
		PostID:   post.ID,
		AuthorID: in.Author.ID,
		Content:  in.Content,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, nil, err
	}
	comment.Author = in.Author
	return comment, post, nil
}

// List returns the comments of a readable post, newest first.
func (s *CommentService) List(ctx context.Context, actor access.Actor, postID uint) ([]*models.Comment, error) {
	if _, err := s.readablePost(ctx, actor, postID); err != nil {
		return nil, err
	}
	return s.commentRepo.ListByPost(ctx, postID)
}

func (s *CommentService) Modify(ctx context.Context, in ModifyCommentInput) (updated *models.Comment, err error) {
	ctx, span := observability.StartSpan(ctx, "CommentService", "Modify", attribute.Int64("comment.id", int64(in.CommentID)))
	defer func() { observability.EndSpan(span, err) }()

	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	comment, err := s.find(ctx, in.PostID, in.CommentID)
	if err != nil {
		return nil, err
	}
	if err := access.CanModifyComment(in.Actor, *comment); err != nil {
		return nil, err
	}

	next := comment.WithContent(in.Content)
	if err := s.commentRepo.Update(ctx, &next); err != nil {
		return nil, err
	}
	return &next, nil
}

func (s *CommentService) Delete(ctx context.Context, in DeleteCommentInput) (comment *models.Comment, err error) {
	ctx, span := observability.StartSpan(ctx, "CommentService", "Delete", attribute.Int64("comment.id", int64(in.CommentID)))
	defer func() { observability.EndSpan(span, err) }()

	comment, err = s.find(ctx, in.PostID, in.CommentID)
	if err != nil {
		return nil, err
	}
	if err := access.CanDeleteComment(in.Actor, *comment); err != nil {
		return nil, err
	}
	if err := s.commentRepo.Delete(ctx, comment.ID); err != nil {
		return nil, err
	}
	return comment, nil
}

// Latest returns the most recently written comment of a post.
func (s *CommentService) Latest(ctx context.Context, postID uint) (*models.Comment, error) {
	comment, err := s.commentRepo.LatestByPost(ctx, postID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, models.NewNotFoundError("404-2", msgCommentNotFound)
	}
	return comment, err
}

func (s *CommentService) readablePost(ctx context.Context, actor access.Actor, postID uint) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, models.NewNotFoundError("404-1", msgPostNotFound)
		}
		return nil, err
	}
	if err := access.CanRead(actor, *post); err != nil {
		return nil, err
	}
	return post, nil
}

// find loads a comment of an existing post. A deleted post hides its comments.
func (s *CommentService) find(ctx context.Context, postID, commentID uint) (*models.Comment, error) {
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, models.NewNotFoundError("404-1", msgPostNotFound)
		}
		return nil, err
	}

	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, models.NewNotFoundError("404-2", msgCommentNotFound)
		}
		return nil, err
	}
	if comment.PostID != postID {
		return nil, models.NewNotFoundError("404-2", msgCommentNotFound)
	}
	return comment, nil
}
