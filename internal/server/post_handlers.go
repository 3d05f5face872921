package server

import (
	"fmt"

	"inkpost/internal/models"
	"inkpost/internal/notifications"
	"inkpost/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetPosts handles GET /api/v1/posts
// @Summary List published posts
// @Description One page of the public listing (published and listed posts), newest first.
// @Tags posts
// @Produce json
// @Param page query int false "Page number, 1-based"
// @Param pageSize query int false "Items per page"
// @Success 200 {object} models.RsData{data=models.Page[models.PostDto]}
// @Router /v1/posts [get]
func (s *Server) GetPosts(c *fiber.Ctx) error {
	page, err := s.postService.ListPublished(c.UserContext(), c.QueryInt("page", 1), c.QueryInt("pageSize", 0))
	if err != nil {
		return s.respondError(c, err)
	}
	return respond(c, "200-1", "글 목록 조회가 완료되었습니다.", page)
}

// GetPost handles GET /api/v1/posts/:id
// @Summary Get a post
// @Description Published posts are public; unpublished posts are visible to their author only.
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 200 {object} models.RsData{data=models.PostDto}
// @Failure 401 {object} models.RsData
// @Failure 403 {object} models.RsData
// @Failure 404 {object} models.RsData
// @Router /v1/posts/{id} [get]
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	actor, authErr := s.optionalActor(c)
	post, err := s.postService.GetItem(c.UserContext(), actor, id)
	if err != nil {
		// A rejected credential explains a refusal better than "login required".
		if authErr != nil && !models.IsKind(err, models.KindNotFound) {
			return s.respondError(c, authErr)
		}
		return s.respondError(c, err)
	}

	return respond(c, "200-1", fmt.Sprintf("%d번 글을 조회하였습니다.", post.ID), models.NewPostDto(*post))
}

// CreatePost handles POST /api/v1/posts
// @Summary Write a post
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.WritePostInput true "Post"
// @Success 201 {object} models.RsData{data=models.PostDto}
// @Failure 400 {object} models.RsData
// @Failure 401 {object} models.RsData
// @Router /v1/posts [post]
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var in service.WritePostInput
	if err := s.parseBody(c, &in); err != nil {
		return nil
	}
	in.Author, _ = currentMember(c)

	post, err := s.postService.Write(c.UserContext(), in)
	if err != nil {
		return s.respondError(c, err)
	}

	s.publishEvent(c.UserContext(), notifications.EventPostCreated, postPayload(post))

	return respond(c, "201-1", fmt.Sprintf("%d번 글 작성이 완료되었습니다.", post.ID), models.NewPostDto(*post))
}

// UpdatePost handles PUT /api/v1/posts/:id
// @Summary Modify a post
// @Description Replace title and content. Only the author may modify a post.
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Param request body service.ModifyPostInput true "Title and content"
// @Success 200 {object} models.RsData{data=models.PostDto}
// @Failure 400 {object} models.RsData
// @Failure 403 {object} models.RsData
// @Failure 404 {object} models.RsData
// @Router /v1/posts/{id} [put]
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var in service.ModifyPostInput
	if err := s.parseBody(c, &in); err != nil {
		return nil
	}
	in.Actor = currentActor(c)
	in.PostID = id

	post, err := s.postService.Modify(c.UserContext(), in)
	if err != nil {
		return s.respondError(c, err)
	}

	s.publishEvent(c.UserContext(), notifications.EventPostModified, postPayload(post))

	return respond(c, "200-1", fmt.Sprintf("%d번 글 수정이 완료되었습니다.", post.ID), models.NewPostDto(*post))
}

// DeletePost handles DELETE /api/v1/posts/:id
// @Summary Delete a post
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 200 {object} models.RsData
// @Failure 403 {object} models.RsData
// @Failure 404 {object} models.RsData
// @Router /v1/posts/{id} [delete]
func (s *Server) DeletePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.Delete(c.UserContext(), service.DeletePostInput{
		Actor:  currentActor(c),
		PostID: id,
	})
	if err != nil {
		return s.respondError(c, err)
	}

	s.publishEvent(c.UserContext(), notifications.EventPostDeleted, postPayload(post))

	return respond(c, "200-1", fmt.Sprintf("%d번 글 삭제가 완료되었습니다.", post.ID))
}
