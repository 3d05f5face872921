package models

import (
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRsData_StatusCode(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{"200-1", 200},
		{"201-1", 201},
		{"401-2", 401},
		{"403-1", 403},
		{"404", 404},
		{"S-1", 200},
		{"", 200},
		{"999-1", 200},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, NewRsData(tt.code, "msg").StatusCode())
		})
	}
}

func TestRsData_OmitsNilData(t *testing.T) {
	b, err := json.Marshal(NewRsData("200-1", "ok"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"code":"200-1","msg":"ok"}`, string(b))

	b, err = json.Marshal(NewRsData("200-1", "ok", map[string]int{"n": 1}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"code":"200-1","msg":"ok","data":{"n":1}}`, string(b))
}

func TestTimestamp_MarshalJSON(t *testing.T) {
	ts := Timestamp(time.Date(2024, 3, 5, 7, 8, 9, 123456789, time.UTC))
	b, err := json.Marshal(ts)
	require.NoError(t, err)
	assert.Equal(t, `"2024-03-05T07:08:09.123456"`, string(b))

	var back Timestamp
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, 123456000, back.Time().Nanosecond())
}

func TestNewPostDto_UsesAuthorNickname(t *testing.T) {
	p := Post{
		ID:        7,
		AuthorID:  3,
		Author:    Member{ID: 3, Username: "user3", Nickname: "유저3"},
		Title:     "title",
		Content:   "content",
		Published: true,
	}

	dto := NewPostDto(p)
	assert.Equal(t, uint(7), dto.ID)
	assert.Equal(t, uint(3), dto.AuthorID)
	assert.Equal(t, "유저3", dto.AuthorName)
	assert.True(t, dto.Published)
	assert.False(t, dto.Listed)
}

func TestMemberDto_HidesCredentials(t *testing.T) {
	b, err := json.Marshal(NewMemberDto(Member{ID: 1, Username: "user1", Password: "secret", APIKey: "key", Nickname: "n"}))
	require.NoError(t, err)
	assert.NotContains(t, string(b), "secret")
	assert.NotContains(t, string(b), "key\"")
	assert.Contains(t, string(b), `"nickname":"n"`)
}

func TestPost_WithContentLeavesOriginal(t *testing.T) {
	original := Post{ID: 1, Title: "old", Content: "old body"}
	updated := original.WithContent("new", "new body")

	assert.Equal(t, "old", original.Title)
	assert.Equal(t, "new", updated.Title)
	assert.Equal(t, "new body", updated.Content)
	assert.Equal(t, original.ID, updated.ID)
}

func TestNewPage(t *testing.T) {
	page := NewPage([]int{1, 2, 3}, 1, 3, 5)
	assert.Equal(t, 2, page.TotalPages)
	assert.Equal(t, int64(5), page.TotalItems)
	assert.Len(t, page.Items, 3)

	empty := NewPage[int](nil, 4, 3, 5)
	assert.NotNil(t, empty.Items)
	assert.Empty(t, empty.Items)
	assert.Equal(t, 0, NewPage[int](nil, 1, 3, 0).TotalPages)
}

func TestAppError_Status(t *testing.T) {
	assert.Equal(t, 404, NewNotFoundError("404-1", "x").Status())
	assert.Equal(t, 409, NewConflictError("409-1", "x").Status())
	assert.Equal(t, 403, NewForbiddenError("403-1", "x").Status())
	assert.Equal(t, 401, NewUnauthenticatedError("401-2", "x").Status())
	assert.Equal(t, 400, NewValidationError("x").Status())
	assert.Equal(t, 500, NewInternalError(errors.New("boom")).Status())
	assert.Equal(t, 403, (&AppError{Kind: KindForbidden}).Status())
}

func TestIsKind(t *testing.T) {
	err := NewForbiddenError("403-1", "nope")
	wrapped := errors.Join(errors.New("context"), err)
	assert.True(t, IsKind(wrapped, KindForbidden))
	assert.False(t, IsKind(wrapped, KindNotFound))
	assert.False(t, IsKind(errors.New("plain"), KindInternal))
}

func TestRespondWithError_HidesCause(t *testing.T) {
	app := fiber.New()
	app.Get("/boom", func(c *fiber.Ctx) error {
		return RespondWithError(c, errors.New("pq: connection refused"))
	})
	app.Get("/missing", func(c *fiber.Ctx) error {
		return RespondWithError(c, NewNotFoundError("404-1", "존재하지 않는 글입니다."))
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/boom", nil))
	require.NoError(t, err)
	assert.Equal(t, 500, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.NotContains(t, string(body), "connection refused")
	assert.Contains(t, string(body), `"500-1"`)

	resp, err = app.Test(httptest.NewRequest("GET", "/missing", nil))
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
	var rs RsData
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&rs))
	assert.Equal(t, "404-1", rs.Code)
	assert.Equal(t, "존재하지 않는 글입니다.", rs.Msg)
	assert.Nil(t, rs.Data)
}

func TestIsOwnedBy(t *testing.T) {
	post := Post{ID: 1, AuthorID: 3}
	assert.True(t, post.IsOwnedBy(3))
	assert.False(t, post.IsOwnedBy(1))
	assert.False(t, Post{}.IsOwnedBy(3))

	comment := Comment{ID: 1, PostID: 1, AuthorID: 2}
	assert.True(t, comment.IsOwnedBy(2))
	assert.False(t, comment.IsOwnedBy(3))
}
