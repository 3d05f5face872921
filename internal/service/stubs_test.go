package service

import (
	"context"
	"errors"
	"testing"

	"inkpost/internal/models"
	"inkpost/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memberRepoStub is a stub for repository.MemberRepository.
type memberRepoStub struct {
	createFn        func(context.Context, *models.Member) error
	getByIDFn       func(context.Context, uint) (*models.Member, error)
	getByUsernameFn func(context.Context, string) (*models.Member, error)
	getByAPIKeyFn   func(context.Context, string) (*models.Member, error)
	countFn         func(context.Context) (int64, error)
}

func (s *memberRepoStub) Create(ctx context.Context, m *models.Member) error {
	return s.createFn(ctx, m)
}
func (s *memberRepoStub) GetByID(ctx context.Context, id uint) (*models.Member, error) {
	return s.getByIDFn(ctx, id)
}
func (s *memberRepoStub) GetByUsername(ctx context.Context, username string) (*models.Member, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *memberRepoStub) GetByAPIKey(ctx context.Context, apiKey string) (*models.Member, error) {
	return s.getByAPIKeyFn(ctx, apiKey)
}
func (s *memberRepoStub) Count(ctx context.Context) (int64, error) {
	return s.countFn(ctx)
}

// inMemoryMembers backs memberRepoStub with a slice.
func inMemoryMembers(seed ...models.Member) *memberRepoStub {
	members := append([]models.Member(nil), seed...)
	find := func(match func(models.Member) bool) (*models.Member, error) {
		for _, m := range members {
			if match(m) {
				found := m
				return &found, nil
			}
		}
		return nil, repository.ErrNotFound
	}
	return &memberRepoStub{
		createFn: func(_ context.Context, m *models.Member) error {
			m.ID = uint(len(members) + 1)
			members = append(members, *m)
			return nil
		},
		getByIDFn: func(_ context.Context, id uint) (*models.Member, error) {
			return find(func(m models.Member) bool { return m.ID == id })
		},
		getByUsernameFn: func(_ context.Context, username string) (*models.Member, error) {
			return find(func(m models.Member) bool { return m.Username == username })
		},
		getByAPIKeyFn: func(_ context.Context, key string) (*models.Member, error) {
			if key == "" {
				return nil, repository.ErrNotFound
			}
			return find(func(m models.Member) bool { return m.APIKey == key })
		},
		countFn: func(_ context.Context) (int64, error) { return int64(len(members)), nil },
	}
}

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn      func(context.Context, *models.Post) error
	getByIDFn     func(context.Context, uint) (*models.Post, error)
	listListedFn  func(context.Context, int, int) ([]*models.Post, error)
	countListedFn func(context.Context) (int64, error)
	latestFn      func(context.Context) (*models.Post, error)
	countFn       func(context.Context) (int64, error)
	updateFn      func(context.Context, *models.Post) error
	deleteFn      func(context.Context, uint) error
}

func (s *postRepoStub) Create(ctx context.Context, p *models.Post) error { return s.createFn(ctx, p) }
func (s *postRepoStub) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) ListListed(ctx context.Context, limit, offset int) ([]*models.Post, error) {
	return s.listListedFn(ctx, limit, offset)
}
func (s *postRepoStub) CountListed(ctx context.Context) (int64, error) { return s.countListedFn(ctx) }
func (s *postRepoStub) Latest(ctx context.Context) (*models.Post, error) {
	return s.latestFn(ctx)
}
func (s *postRepoStub) Count(ctx context.Context) (int64, error) { return s.countFn(ctx) }
func (s *postRepoStub) Update(ctx context.Context, p *models.Post) error { return s.updateFn(ctx, p) }
func (s *postRepoStub) Delete(ctx context.Context, id uint) error { return s.deleteFn(ctx, id) }

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn:      func(_ context.Context, _ *models.Post) error { return nil },
		getByIDFn:     func(_ context.Context, _ uint) (*models.Post, error) { return nil, repository.ErrNotFound },
		listListedFn:  func(_ context.Context, _, _ int) ([]*models.Post, error) { return nil, nil },
		countListedFn: func(_ context.Context) (int64, error) { return 0, nil },
		latestFn:      func(_ context.Context) (*models.Post, error) { return nil, repository.ErrNotFound },
		countFn:       func(_ context.Context) (int64, error) { return 0, nil },
		updateFn:      func(_ context.Context, _ *models.Post) error { return nil },
		deleteFn:      func(_ context.Context, _ uint) error { return nil },
	}
}

// postRepoWith returns a stub whose GetByID serves the given posts.
func postRepoWith(posts ...models.Post) *postRepoStub {
	repo := noopPostRepo()
	repo.getByIDFn = func(_ context.Context, id uint) (*models.Post, error) {
		for _, p := range posts {
			if p.ID == id {
				found := p
				return &found, nil
			}
		}
		return nil, repository.ErrNotFound
	}
	return repo
}

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	createFn       func(context.Context, *models.Comment) error
	getByIDFn      func(context.Context, uint) (*models.Comment, error)
	listByPostFn   func(context.Context, uint) ([]*models.Comment, error)
	latestByPostFn func(context.Context, uint) (*models.Comment, error)
	updateFn       func(context.Context, *models.Comment) error
	deleteFn       func(context.Context, uint) error
}

func (s *commentRepoStub) Create(ctx context.Context, c *models.Comment) error {
	return s.createFn(ctx, c)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	return s.getByIDFn(ctx, id)
}
func (s *commentRepoStub) ListByPost(ctx context.Context, postID uint) ([]*models.Comment, error) {
	return s.listByPostFn(ctx, postID)
}
func (s *commentRepoStub) LatestByPost(ctx context.Context, postID uint) (*models.Comment, error) {
	return s.latestByPostFn(ctx, postID)
}
func (s *commentRepoStub) Update(ctx context.Context, c *models.Comment) error {
	return s.updateFn(ctx, c)
}
func (s *commentRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn:       func(_ context.Context, _ *models.Comment) error { return nil },
		getByIDFn:      func(_ context.Context, _ uint) (*models.Comment, error) { return nil, repository.ErrNotFound },
		listByPostFn:   func(_ context.Context, _ uint) ([]*models.Comment, error) { return nil, nil },
		latestByPostFn: func(_ context.Context, _ uint) (*models.Comment, error) { return nil, repository.ErrNotFound },
		updateFn:       func(_ context.Context, _ *models.Comment) error { return nil },
		deleteFn:       func(_ context.Context, _ uint) error { return nil },
	}
}

// assertAppError asserts that err is an AppError carrying the given result code.
func assertAppError(t *testing.T, err error, code string) *models.AppError {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
	return appErr
}
