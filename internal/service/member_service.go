// Package service holds the blog's use cases on top of the repositories.
package service

import (
	"context"
	"errors"
	"fmt"

	"inkpost/internal/models"
	"inkpost/internal/observability"
	"inkpost/internal/repository"
	"inkpost/internal/validation"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

const (
	msgDuplicateUsername = "이미 사용중인 아이디입니다."
	msgUnknownUsername   = "잘못된 아이디입니다."
	msgWrongPassword     = "비밀번호가 일치하지 않습니다."
	msgInvalidAPIKey     = "잘못된 인증키입니다."
	msgMemberNotFound    = "존재하지 않는 회원입니다."
)

type MemberService struct {
	memberRepo repository.MemberRepository
	newAPIKey  func() string
}

type JoinInput struct {
	Username string `json:"username" validate:"notblank,max=100"`
	Password string `json:"password" validate:"notblank"`
	Nickname string `json:"nickname" validate:"notblank,max=100"`
}

func NewMemberService(memberRepo repository.MemberRepository) *MemberService {
	return &MemberService{
		memberRepo: memberRepo,
		newAPIKey:  uuid.NewString,
	}
}

// Join registers a member with a freshly generated API key.
func (s *MemberService) Join(ctx context.Context, in JoinInput) (member *models.Member, err error) {
	ctx, span := observability.StartSpan(ctx, "MemberService", "Join")
	defer func() { observability.EndSpan(span, err) }()

	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	existing, err := s.memberRepo.GetByUsername(ctx, in.Username)
	switch {
	case err == nil && existing != nil:
		return nil, models.NewConflictError("409-1", msgDuplicateUsername)
	case err != nil && !errors.Is(err, repository.ErrNotFound):
		return nil, err
	}

	member = &models.Member{
		Username: in.Username,
		Password: in.Password,
		Nickname: in.Nickname,
		APIKey:   s.newAPIKey(),
	}
	if err := s.memberRepo.Create(ctx, member); err != nil {
		// A concurrent join can pass the lookup above; the unique index decides.
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, models.NewConflictError("409-1", msgDuplicateUsername)
		}
		return nil, err
	}
	return member, nil
}

// Login checks username and password and returns the member, whose
// APIKey is the bearer credential for later requests.
func (s *MemberService) Login(ctx context.Context, username, password string) (*models.Member, error) {
	member, err := s.memberRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			observability.AuthFailures.WithLabelValues("unknown_username").Inc()
			return nil, models.NewUnauthenticatedError("401-1", msgUnknownUsername)
		}
		return nil, err
	}
	if !member.MatchPassword(password) {
		observability.AuthFailures.WithLabelValues("wrong_password").Inc()
		return nil, models.NewUnauthenticatedError("401-2", msgWrongPassword)
	}
	return member, nil
}

// Authenticate resolves a bearer API key to its member by exact match.
func (s *MemberService) Authenticate(ctx context.Context, apiKey string) (*models.Member, error) {
	if apiKey == "" {
		observability.AuthFailures.WithLabelValues("invalid_api_key").Inc()
		return nil, models.NewUnauthenticatedError("401-1", msgInvalidAPIKey)
	}
	member, err := s.memberRepo.GetByAPIKey(ctx, apiKey)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			observability.AuthFailures.WithLabelValues("invalid_api_key").Inc()
			return nil, models.NewUnauthenticatedError("401-1", msgInvalidAPIKey)
		}
		return nil, err
	}
	return member, nil
}

func (s *MemberService) GetByID(ctx context.Context, id uint) (*models.Member, error) {
	ctx, span := observability.StartSpan(ctx, "MemberService", "GetByID", attribute.Int64("member.id", int64(id)))
	member, err := s.memberRepo.GetByID(ctx, id)
	observability.EndSpan(span, err)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, models.NewNotFoundError("404-1", msgMemberNotFound)
		}
		return nil, fmt.Errorf("load member %d: %w", id, err)
	}
	return member, nil
}

func (s *MemberService) Count(ctx context.Context) (int64, error) {
	return s.memberRepo.Count(ctx)
}
