package server

import (
	"fmt"

	"inkpost/internal/access"
	"inkpost/internal/models"
	"inkpost/internal/service"

	"github.com/gofiber/fiber/v2"
)

// loginRequest is checked only against the stored member; blank fields fail
// the same way wrong ones do.
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Join handles member registration
// @Summary Join
// @Description Register a member. The response carries the public member view.
// @Tags members
// @Accept json
// @Produce json
// @Param request body service.JoinInput true "Join request"
// @Success 201 {object} models.RsData{data=models.MemberDto}
// @Failure 400 {object} models.RsData
// @Failure 409 {object} models.RsData
// @Router /v1/members/join [post]
func (s *Server) Join(c *fiber.Ctx) error {
	var in service.JoinInput
	if err := s.parseBody(c, &in); err != nil {
		return nil
	}

	member, err := s.memberService.Join(c.UserContext(), in)
	if err != nil {
		return s.respondError(c, err)
	}

	return respond(c, "201-1", "회원 가입이 완료되었습니다.", models.NewMemberDto(*member))
}

// Login handles member authentication
// @Summary Login
// @Description Check credentials and return the member together with the API key used as bearer credential.
// @Tags members
// @Accept json
// @Produce json
// @Param request body loginRequest true "Login credentials"
// @Success 200 {object} models.RsData{data=models.LoginResponse}
// @Failure 400 {object} models.RsData
// @Failure 401 {object} models.RsData
// @Router /v1/members/login [post]
func (s *Server) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := s.parseBody(c, &req); err != nil {
		return nil
	}

	member, err := s.memberService.Login(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return s.respondError(c, err)
	}

	return respond(c, "200-1", fmt.Sprintf("%s님 환영합니다.", member.Nickname), models.LoginResponse{
		Item:   models.NewMemberDto(*member),
		APIKey: member.APIKey,
	})
}

// Me returns the authenticated member
// @Summary Current member
// @Tags members
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.RsData{data=models.MemberDto}
// @Failure 401 {object} models.RsData
// @Router /v1/members/me [get]
func (s *Server) Me(c *fiber.Ctx) error {
	member, ok := currentMember(c)
	if !ok {
		return s.respondError(c, access.ErrLoginRequired())
	}
	return respond(c, "200-1", "내 정보 조회가 완료되었습니다.", models.NewMemberDto(member))
}
