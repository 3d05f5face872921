package access

import (
	"testing"

	"inkpost/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	owner    = models.Member{ID: 1, Username: "user1", Nickname: "유저1"}
	stranger = models.Member{ID: 2, Username: "user2", Nickname: "유저2"}
)

func assertKind(t *testing.T, err error, kind models.ErrorKind, code string) {
	t.Helper()
	require.Error(t, err)
	appErr, ok := err.(*models.AppError)
	require.True(t, ok, "expected *models.AppError, got %T", err)
	assert.Equal(t, kind, appErr.Kind)
	assert.Equal(t, code, appErr.Code)
}

func TestActor(t *testing.T) {
	anon := Anonymous()
	assert.True(t, anon.IsAnonymous())
	_, ok := anon.Member()
	assert.False(t, ok)
	assert.Zero(t, anon.ID())

	var zero Actor
	assert.True(t, zero.IsAnonymous())

	actor := Authenticated(owner)
	m, ok := actor.Member()
	require.True(t, ok)
	assert.Equal(t, owner.ID, m.ID)
	assert.Equal(t, uint(1), actor.ID())
}

func TestAuthenticated_CopiesMember(t *testing.T) {
	m := owner
	actor := Authenticated(m)
	m.ID = 99
	assert.Equal(t, uint(1), actor.ID())
}

func TestCanRead(t *testing.T) {
	published := models.Post{ID: 1, AuthorID: owner.ID, Published: true}
	private := models.Post{ID: 2, AuthorID: owner.ID, Published: false, Listed: true}

	t.Run("published post is readable by anyone", func(t *testing.T) {
		assert.NoError(t, CanRead(Anonymous(), published))
		assert.NoError(t, CanRead(Authenticated(stranger), published))
		assert.NoError(t, CanRead(Authenticated(owner), published))
	})

	t.Run("unlisted published post is still readable", func(t *testing.T) {
		p := published
		p.Listed = false
		assert.NoError(t, CanRead(Anonymous(), p))
	})

	t.Run("private post needs an identity", func(t *testing.T) {
		assertKind(t, CanRead(Anonymous(), private), models.KindUnauthenticated, "401-1")
	})

	t.Run("private post is forbidden to others", func(t *testing.T) {
		err := CanRead(Authenticated(stranger), private)
		assertKind(t, err, models.KindForbidden, "403-1")
		assert.Equal(t, "비공개 설정된 글입니다.", err.(*models.AppError).Message)
	})

	t.Run("private post is readable by owner", func(t *testing.T) {
		assert.NoError(t, CanRead(Authenticated(owner), private))
	})
}

func TestCanModifyAndDelete(t *testing.T) {
	post := models.Post{ID: 1, AuthorID: owner.ID, Published: true}

	for name, check := range map[string]func(Actor, models.Post) error{
		"modify": CanModify,
		"delete": CanDelete,
	} {
		t.Run(name, func(t *testing.T) {
			assert.NoError(t, check(Authenticated(owner), post))
			assertKind(t, check(Authenticated(stranger), post), models.KindForbidden, "403-1")
			assertKind(t, check(Anonymous(), post), models.KindUnauthenticated, "401-1")
		})
	}
}

func TestCommentPredicates(t *testing.T) {
	comment := models.Comment{ID: 5, PostID: 1, AuthorID: stranger.ID}

	assert.NoError(t, CanModifyComment(Authenticated(stranger), comment))
	assert.NoError(t, CanDeleteComment(Authenticated(stranger), comment))
	assertKind(t, CanModifyComment(Authenticated(owner), comment), models.KindForbidden, "403-2")
	assertKind(t, CanDeleteComment(Authenticated(owner), comment), models.KindForbidden, "403-2")
	assertKind(t, CanDeleteComment(Anonymous(), comment), models.KindUnauthenticated, "401-1")
}
