package seed

import (
	"context"
	"fmt"

	"inkpost/internal/models"
	"inkpost/internal/repository"
	"inkpost/internal/service"

	"gorm.io/gorm"
)

// Summary describes the content of a seeded database.
type Summary struct {
	Members      int64
	Posts        int64
	LatestPostID uint
	LatestAuthor string
}

func (s Summary) String() string {
	if s.LatestPostID == 0 {
		return fmt.Sprintf("%d members, no posts", s.Members)
	}
	return fmt.Sprintf("%d members, %d posts, latest #%d by %s", s.Members, s.Posts, s.LatestPostID, s.LatestAuthor)
}

// Summarize counts members and posts through the services the API uses.
func Summarize(ctx context.Context, db *gorm.DB) (Summary, error) {
	members := service.NewMemberService(repository.NewMemberRepository(db))
	posts := service.NewPostService(repository.NewPostRepository(db), 0, 0)

	var sum Summary
	var err error
	if sum.Members, err = members.Count(ctx); err != nil {
		return Summary{}, fmt.Errorf("count members: %w", err)
	}
	if sum.Posts, err = posts.Count(ctx); err != nil {
		return Summary{}, fmt.Errorf("count posts: %w", err)
	}

	latest, err := posts.Latest(ctx)
	if models.IsKind(err, models.KindNotFound) {
		return sum, nil
	}
	if err != nil {
		return Summary{}, fmt.Errorf("latest post: %w", err)
	}
	author, err := members.GetByID(ctx, latest.AuthorID)
	if err != nil {
		return Summary{}, fmt.Errorf("latest post author: %w", err)
	}
	sum.LatestPostID = latest.ID
	sum.LatestAuthor = author.Nickname
	return sum, nil
}
