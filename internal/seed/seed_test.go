package seed

import (
	"context"
	"testing"

	"inkpost/internal/models"
	"inkpost/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultFixtures(t *testing.T) {
	f, err := DefaultFixtures()
	require.NoError(t, err)
	require.Len(t, f.Members, 3)
	assert.Equal(t, "user1", f.Members[0].APIKey)
	assert.Equal(t, "유저1", f.Members[0].Nickname)
	require.Len(t, f.Posts, 6)
	assert.False(t, f.Posts[0].Published)

	listed := 0
	for _, p := range f.Posts {
		if p.Listed {
			listed++
		}
	}
	assert.Equal(t, 5, listed)
}

func TestLoadFixtures(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()

	require.NoError(t, LoadFixtures(ctx, db))

	var user1 models.Member
	require.NoError(t, db.Where("username = ?", "user1").First(&user1).Error)
	assert.Equal(t, uint(1), user1.ID)
	assert.Equal(t, "user1", user1.APIKey)
	assert.Equal(t, "user11234", user1.Password)

	var post1 models.Post
	require.NoError(t, db.First(&post1, 1).Error)
	assert.Equal(t, user1.ID, post1.AuthorID)
	assert.False(t, post1.Published)

	var comment models.Comment
	require.NoError(t, db.First(&comment).Error)
	assert.Equal(t, uint(2), comment.PostID)
	assert.Equal(t, uint(2), comment.AuthorID)

	// Loading twice leaves the data alone.
	require.NoError(t, LoadFixtures(ctx, db))
	var members, posts int64
	require.NoError(t, db.Model(&models.Member{}).Count(&members).Error)
	require.NoError(t, db.Model(&models.Post{}).Count(&posts).Error)
	assert.Equal(t, int64(3), members)
	assert.Equal(t, int64(6), posts)
}

func TestApply_UnknownReference(t *testing.T) {
	db := testutil.NewDB(t)

	f, err := ParseFixtures([]byte(`
members:
  - username: a
    password: p
    nickname: A
    apiKey: a
posts:
  - ref: p1
    author: ghost
    title: t
    content: c
`))
	require.NoError(t, err)

	err = Apply(context.Background(), db, f)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown author "ghost"`)

	var members int64
	require.NoError(t, db.Model(&models.Member{}).Count(&members).Error)
	assert.Zero(t, members, "failed load must roll back")
}

func TestParseFixtures_Invalid(t *testing.T) {
	_, err := ParseFixtures([]byte("members: [unterminated"))
	assert.Error(t, err)
}

func TestFactory_CreatePosts(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	a := testutil.CreateMember(t, db, "a", "A")
	b := testutil.CreateMember(t, db, "b", "B")

	f := NewFactory(db, 42)
	posts, err := f.CreatePostsForAll(ctx, 7)
	require.NoError(t, err)
	require.Len(t, posts, 7)

	byAuthor := map[uint]int{}
	for _, p := range posts {
		assert.NotZero(t, p.ID)
		assert.NotEmpty(t, p.Title)
		assert.NotEmpty(t, p.Content)
		assert.Equal(t, p.Published, p.Listed)
		byAuthor[p.AuthorID]++
	}
	assert.Equal(t, 4, byAuthor[a.ID])
	assert.Equal(t, 3, byAuthor[b.ID])

	var stored int64
	require.NoError(t, db.Model(&models.Post{}).Count(&stored).Error)
	assert.Equal(t, int64(7), stored)

	none, err := f.CreatePosts(ctx, nil, 0)
	require.NoError(t, err)
	assert.Nil(t, none)

	_, err = f.CreatePosts(ctx, nil, 2)
	assert.Error(t, err)
}

func TestSummarize(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()

	empty, err := Summarize(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, Summary{}, empty)
	assert.Equal(t, "0 members, no posts", empty.String())

	require.NoError(t, LoadFixtures(ctx, db))

	sum, err := Summarize(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, int64(3), sum.Members)
	assert.Equal(t, int64(6), sum.Posts)
	assert.Equal(t, uint(6), sum.LatestPostID)
	assert.Equal(t, "유저3", sum.LatestAuthor)
	assert.Equal(t, "3 members, 6 posts, latest #6 by 유저3", sum.String())
}
