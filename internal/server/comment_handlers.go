package server

import (
	"fmt"

	"inkpost/internal/models"
	"inkpost/internal/notifications"
	"inkpost/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetComments handles GET /api/v1/posts/:id/comments
// @Summary List comments of a post
// @Tags comments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 200 {object} models.RsData{data=[]models.CommentDto}
// @Failure 403 {object} models.RsData
// @Failure 404 {object} models.RsData
// @Router /v1/posts/{id}/comments [get]
func (s *Server) GetComments(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	actor, authErr := s.optionalActor(c)
	comments, err := s.commentService.List(c.UserContext(), actor, postID)
	if err != nil {
		if authErr != nil && !models.IsKind(err, models.KindNotFound) {
			return s.respondError(c, authErr)
		}
		return s.respondError(c, err)
	}

	return respond(c, "200-1", fmt.Sprintf("%d번 글의 댓글 목록을 조회하였습니다.", postID), models.NewCommentDtos(comments))
}

// CreateComment handles POST /api/v1/posts/:id/comments
// @Summary Write a comment
// @Tags comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Param request body service.WriteCommentInput true "Comment"
// @Success 201 {object} models.RsData{data=models.CommentDto}
// @Failure 400 {object} models.RsData
// @Failure 401 {object} models.RsData
// @Failure 403 {object} models.RsData
// @Failure 404 {object} models.RsData
// @Router /v1/posts/{id}/comments [post]
func (s *Server) CreateComment(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var in service.WriteCommentInput
	if err := s.parseBody(c, &in); err != nil {
		return nil
	}
	in.Author, _ = currentMember(c)
	in.PostID = postID

	comment, post, err := s.commentService.Write(c.UserContext(), in)
	if err != nil {
		return s.respondError(c, err)
	}

	ctx := c.UserContext()
	s.publishEvent(ctx, notifications.EventCommentCreated, commentPayload(comment))
	s.notifyPostAuthor(ctx, post, comment)

	return respond(c, "201-1", "댓글 작성이 완료되었습니다.", models.NewCommentDto(*comment))
}

// UpdateComment handles PUT /api/v1/posts/:id/comments/:commentId
// @Summary Modify a comment
// @Tags comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Param commentId path int true "Comment ID"
// @Param request body service.ModifyCommentInput true "Content"
// @Success 200 {object} models.RsData{data=models.CommentDto}
// @Failure 400 {object} models.RsData
// @Failure 403 {object} models.RsData
// @Failure 404 {object} models.RsData
// @Router /v1/posts/{id}/comments/{commentId} [put]
func (s *Server) UpdateComment(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	commentID, err := s.parseID(c, "commentId")
	if err != nil {
		return nil
	}

	var in service.ModifyCommentInput
	if err := s.parseBody(c, &in); err != nil {
		return nil
	}
	in.Actor = currentActor(c)
	in.PostID = postID
	in.CommentID = commentID

	comment, err := s.commentService.Modify(c.UserContext(), in)
	if err != nil {
		return s.respondError(c, err)
	}

	return respond(c, "200-1", fmt.Sprintf("%d번 댓글 수정이 완료되었습니다.", comment.ID), models.NewCommentDto(*comment))
}

// DeleteComment handles DELETE /api/v1/posts/:id/comments/:commentId
// @Summary Delete a comment
// @Tags comments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Param commentId path int true "Comment ID"
// @Success 200 {object} models.RsData
// @Failure 403 {object} models.RsData
// @Failure 404 {object} models.RsData
// @Router /v1/posts/{id}/comments/{commentId} [delete]
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	commentID, err := s.parseID(c, "commentId")
	if err != nil {
		return nil
	}

	comment, err := s.commentService.Delete(c.UserContext(), service.DeleteCommentInput{
		Actor:     currentActor(c),
		PostID:    postID,
		CommentID: commentID,
	})
	if err != nil {
		return s.respondError(c, err)
	}

	s.publishEvent(c.UserContext(), notifications.EventCommentDeleted, commentPayload(comment))

	return respond(c, "200-1", fmt.Sprintf("%d번 댓글 삭제가 완료되었습니다.", comment.ID))
}
