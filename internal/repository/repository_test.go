package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"testing"

	"inkpost/internal/cache"
	"inkpost/internal/models"
	"inkpost/internal/testutil"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

func TestTranslateError(t *testing.T) {
	assert.NoError(t, translateError(nil))
	assert.ErrorIs(t, translateError(gorm.ErrRecordNotFound), ErrNotFound)
	assert.ErrorIs(t, translateError(gorm.ErrDuplicatedKey), ErrDuplicateKey)
	assert.ErrorIs(t, translateError(&pgconn.PgError{Code: "23505", ConstraintName: "idx_members_username"}), ErrDuplicateKey)
	assert.ErrorIs(t, translateError(errors.New("UNIQUE constraint failed: members.username")), ErrDuplicateKey)

	other := errors.New("connection reset")
	assert.Equal(t, other, translateError(other))
}

func TestMemberRepository_GetByUsername_Mock(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewMemberRepository(db)
	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "members" WHERE username = $1 ORDER BY "members"."id" LIMIT $2`)).
		WithArgs("user1", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "nickname", "api_key"}).
			AddRow(1, "user1", "유저1", "key-1"))

	m, err := repo.GetByUsername(ctx, "user1")
	require.NoError(t, err)
	assert.Equal(t, uint(1), m.ID)
	assert.Equal(t, "유저1", m.Nickname)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemberRepository_Create_UniqueViolation(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewMemberRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "members"`)).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "idx_members_username"})
	mock.ExpectRollback()

	err := repo.Create(context.Background(), &models.Member{Username: "user1", Password: "p", Nickname: "n", APIKey: "k"})
	assert.ErrorIs(t, err, ErrDuplicateKey)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemberRepository(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewMemberRepository(db)
	ctx := context.Background()

	member := &models.Member{Username: "user1", Password: "user11234", Nickname: "유저1", APIKey: "key-1"}
	require.NoError(t, repo.Create(ctx, member))
	assert.NotZero(t, member.ID)

	t.Run("GetByID", func(t *testing.T) {
		got, err := repo.GetByID(ctx, member.ID)
		require.NoError(t, err)
		assert.Equal(t, "user1", got.Username)

		_, err = repo.GetByID(ctx, 999)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("GetByAPIKey", func(t *testing.T) {
		got, err := repo.GetByAPIKey(ctx, "key-1")
		require.NoError(t, err)
		assert.Equal(t, member.ID, got.ID)

		_, err = repo.GetByAPIKey(ctx, "")
		assert.ErrorIs(t, err, ErrNotFound)

		_, err = repo.GetByAPIKey(ctx, "nope")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("DuplicateUsername", func(t *testing.T) {
		err := repo.Create(ctx, &models.Member{Username: "user1", Password: "x", Nickname: "x", APIKey: "key-2"})
		assert.ErrorIs(t, err, ErrDuplicateKey)
	})

	t.Run("DuplicateAPIKey", func(t *testing.T) {
		err := repo.Create(ctx, &models.Member{Username: "user9", Password: "x", Nickname: "x", APIKey: "key-1"})
		assert.ErrorIs(t, err, ErrDuplicateKey)
	})

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestPostRepository(t *testing.T) {
	cache.SetClient(nil)
	db := testutil.NewDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	author := testutil.CreateMember(t, db, "user1", "유저1")

	t.Run("CreateAndGet", func(t *testing.T) {
		post := &models.Post{AuthorID: author.ID, Title: "제목", Content: "내용", Published: true}
		require.NoError(t, repo.Create(ctx, post))
		require.NotZero(t, post.ID)

		got, err := repo.GetByID(ctx, post.ID)
		require.NoError(t, err)
		assert.Equal(t, "제목", got.Title)
		assert.Equal(t, "유저1", got.Author.Nickname)
		assert.True(t, got.Published)
		assert.False(t, got.Listed)
	})

	t.Run("GetMissing", func(t *testing.T) {
		_, err := repo.GetByID(ctx, 12345)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("Update", func(t *testing.T) {
		post := testutil.CreatePost(t, db, author, "before", false, false)
		changed := post.WithContent("after", "new body")
		changed.Published = true
		require.NoError(t, repo.Update(ctx, &changed))

		got, err := repo.GetByID(ctx, post.ID)
		require.NoError(t, err)
		assert.Equal(t, "after", got.Title)
		assert.Equal(t, "new body", got.Content)
		assert.True(t, got.Published)
		assert.Equal(t, author.ID, got.AuthorID)
	})

	t.Run("SoftDelete", func(t *testing.T) {
		post := testutil.CreatePost(t, db, author, "doomed", true, true)
		require.NoError(t, repo.Delete(ctx, post.ID))

		_, err := repo.GetByID(ctx, post.ID)
		assert.ErrorIs(t, err, ErrNotFound)

		var raw models.Post
		require.NoError(t, db.Unscoped().First(&raw, post.ID).Error)
		assert.True(t, raw.DeletedAt.Valid)
	})
}

func TestPostRepository_ListListed(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	author := testutil.CreateMember(t, db, "user1", "유저1")
	testutil.CreatePost(t, db, author, "private", false, false)
	testutil.CreatePost(t, db, author, "published unlisted", true, false)
	listedDraft := testutil.CreatePost(t, db, author, "listed unpublished", false, true)
	var public []*models.Post
	for i := 1; i <= 4; i++ {
		public = append(public, testutil.CreatePost(t, db, author, fmt.Sprintf("public %d", i), true, true))
	}

	total, err := repo.CountListed(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)

	firstPage, err := repo.ListListed(ctx, 3, 0)
	require.NoError(t, err)
	require.Len(t, firstPage, 3)
	assert.Equal(t, public[3].ID, firstPage[0].ID, "newest first")
	assert.Equal(t, "유저1", firstPage[0].Author.Nickname)

	secondPage, err := repo.ListListed(ctx, 3, 3)
	require.NoError(t, err)
	require.Len(t, secondPage, 2)
	assert.Equal(t, public[0].ID, secondPage[0].ID)
	assert.Equal(t, listedDraft.ID, secondPage[1].ID, "listing ignores published")

	all, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(7), all)

	latest, err := repo.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, public[3].ID, latest.ID)
}

func TestPostRepository_Cache(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache.SetClient(rdb)
	t.Cleanup(func() { cache.SetClient(nil) })

	db := testutil.NewDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	author := testutil.CreateMember(t, db, "user1", "유저1")
	post := testutil.CreatePost(t, db, author, "cached", true, true)

	_, err := repo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.True(t, mr.Exists(cache.PostKey(post.ID)))

	// A row changed behind the repository's back is still served from cache.
	require.NoError(t, db.Model(&models.Post{}).Where("id = ?", post.ID).Update("title", "stale").Error)
	got, err := repo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "cached", got.Title)
	assert.Equal(t, "유저1", got.Author.Nickname)

	changed := got.WithContent("fresh", got.Content)
	require.NoError(t, repo.Update(ctx, &changed))
	assert.False(t, mr.Exists(cache.PostKey(post.ID)))

	got, err = repo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "fresh", got.Title)

	require.NoError(t, repo.Delete(ctx, post.ID))
	assert.False(t, mr.Exists(cache.PostKey(post.ID)))
	_, err = repo.GetByID(ctx, post.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCommentRepository(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	author := testutil.CreateMember(t, db, "user1", "유저1")
	other := testutil.CreateMember(t, db, "user2", "유저2")
	post := testutil.CreatePost(t, db, author, "post", true, true)
	otherPost := testutil.CreatePost(t, db, author, "other", true, true)

	first := &models.Comment{PostID: post.ID, AuthorID: other.ID, Content: "첫 댓글"}
	require.NoError(t, repo.Create(ctx, first))
	second := &models.Comment{PostID: post.ID, AuthorID: author.ID, Content: "둘째 댓글"}
	require.NoError(t, repo.Create(ctx, second))
	testutil.CreateComment(t, db, otherPost, author, "elsewhere")

	t.Run("GetByID", func(t *testing.T) {
		got, err := repo.GetByID(ctx, first.ID)
		require.NoError(t, err)
		assert.Equal(t, "첫 댓글", got.Content)
		assert.Equal(t, "유저2", got.Author.Nickname)

		_, err = repo.GetByID(ctx, 999)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("ListByPost", func(t *testing.T) {
		list, err := repo.ListByPost(ctx, post.ID)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, second.ID, list[0].ID)
		assert.Equal(t, first.ID, list[1].ID)
	})

	t.Run("LatestByPost", func(t *testing.T) {
		latest, err := repo.LatestByPost(ctx, post.ID)
		require.NoError(t, err)
		assert.Equal(t, second.ID, latest.ID)

		empty := testutil.CreatePost(t, db, author, "empty", true, true)
		_, err = repo.LatestByPost(ctx, empty.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("UpdateAndDelete", func(t *testing.T) {
		changed := first.WithContent("고친 댓글")
		require.NoError(t, repo.Update(ctx, &changed))
		got, err := repo.GetByID(ctx, first.ID)
		require.NoError(t, err)
		assert.Equal(t, "고친 댓글", got.Content)
		assert.Equal(t, "첫 댓글", first.Content)

		require.NoError(t, repo.Delete(ctx, first.ID))
		_, err = repo.GetByID(ctx, first.ID)
		assert.ErrorIs(t, err, ErrNotFound)

		list, err := repo.ListByPost(ctx, post.ID)
		require.NoError(t, err)
		assert.Len(t, list, 1)
	})
}
