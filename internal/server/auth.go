package server

import (
	"strings"

	"inkpost/internal/access"
	"inkpost/internal/middleware"
	"inkpost/internal/models"

	"github.com/gofiber/fiber/v2"
)

const localMember = "member"

// bearerToken extracts the key of an "Authorization: Bearer <key>" header.
// present is false only when no Authorization header was sent; a header with
// another scheme or no key is present with an empty key, which Authenticate
// rejects.
func bearerToken(c *fiber.Ctx) (key string, present bool) {
	authHeader := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	if authHeader == "" {
		return "", false
	}
	scheme, token, _ := strings.Cut(authHeader, " ")
	if !strings.EqualFold(scheme, "Bearer") {
		return "", true
	}
	return strings.TrimSpace(token), true
}

// AuthRequired returns the authentication middleware. The bearer credential
// is the member's API key.
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		apiKey, present := bearerToken(c)
		if !present {
			return models.RespondWithError(c, access.ErrLoginRequired())
		}

		member, err := s.memberService.Authenticate(c.UserContext(), apiKey)
		if err != nil {
			return s.respondError(c, err)
		}

		setMember(c, member)
		return c.Next()
	}
}

// setMember stores the authenticated member in locals and the user context.
func setMember(c *fiber.Ctx, member *models.Member) {
	c.Locals(localMember, member)
	c.Locals(middleware.LocalMemberID, member.ID)
	c.SetUserContext(middleware.WithMemberID(c.UserContext(), member.ID))
}

// currentMember returns the member set by AuthRequired.
func currentMember(c *fiber.Ctx) (models.Member, bool) {
	m, ok := c.Locals(localMember).(*models.Member)
	if !ok || m == nil {
		return models.Member{}, false
	}
	return *m, true
}

// currentActor returns the actor of a route behind AuthRequired.
func currentActor(c *fiber.Ctx) access.Actor {
	if m, ok := currentMember(c); ok {
		return access.Authenticated(m)
	}
	return access.Anonymous()
}

// optionalActor resolves the actor of a route where authentication is
// optional. A missing header means Anonymous. A header carrying a malformed
// or unknown key also yields Anonymous, together with the authentication
// error so the caller can report it when anonymous access is refused.
func (s *Server) optionalActor(c *fiber.Ctx) (access.Actor, error) {
	apiKey, present := bearerToken(c)
	if !present {
		return access.Anonymous(), nil
	}

	member, err := s.memberService.Authenticate(c.UserContext(), apiKey)
	if err != nil {
		return access.Anonymous(), err
	}

	setMember(c, member)
	return access.Authenticated(*member), nil
}
