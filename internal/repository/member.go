package repository

import (
	"context"

	"inkpost/internal/models"
	"inkpost/internal/observability"

	"gorm.io/gorm"
)

// MemberRepository defines persistence operations for members.
type MemberRepository interface {
	Create(ctx context.Context, member *models.Member) error
	GetByID(ctx context.Context, id uint) (*models.Member, error)
	GetByUsername(ctx context.Context, username string) (*models.Member, error)
	GetByAPIKey(ctx context.Context, apiKey string) (*models.Member, error)
	Count(ctx context.Context) (int64, error)
}

type memberRepository struct {
	db *gorm.DB
}

// NewMemberRepository returns a new MemberRepository implementation.
func NewMemberRepository(db *gorm.DB) MemberRepository {
	return &memberRepository{db: db}
}

func (r *memberRepository) Create(ctx context.Context, member *models.Member) error {
	defer observability.TrackQuery("insert", "members")()
	return translateError(r.db.WithContext(ctx).Create(member).Error)
}

func (r *memberRepository) GetByID(ctx context.Context, id uint) (*models.Member, error) {
	defer observability.TrackQuery("select", "members")()
	var member models.Member
	if err := r.db.WithContext(ctx).First(&member, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &member, nil
}

func (r *memberRepository) GetByUsername(ctx context.Context, username string) (*models.Member, error) {
	defer observability.TrackQuery("select", "members")()
	var member models.Member
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&member).Error; err != nil {
		return nil, translateError(err)
	}
	return &member, nil
}

func (r *memberRepository) GetByAPIKey(ctx context.Context, apiKey string) (*models.Member, error) {
	if apiKey == "" {
		return nil, ErrNotFound
	}
	defer observability.TrackQuery("select", "members")()
	var member models.Member
	if err := r.db.WithContext(ctx).Where("api_key = ?", apiKey).First(&member).Error; err != nil {
		return nil, translateError(err)
	}
	return &member, nil
}

func (r *memberRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Member{}).Count(&n).Error
	return n, err
}
