package models

import (
	"fmt"
	"strings"
	"time"
)

// TimestampLayout renders times as yyyy-MM-ddTHH:mm:ss.SSSSSS.
const TimestampLayout = "2006-01-02T15:04:05.000000"

// Timestamp is a time.Time that serializes with TimestampLayout.
type Timestamp time.Time

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(`"` + time.Time(t).Format(TimestampLayout) + `"`), nil
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*t = Timestamp{}
		return nil
	}
	parsed, err := time.Parse(TimestampLayout, s)
	if err != nil {
		return fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	*t = Timestamp(parsed)
	return nil
}

// Time returns the underlying time value.
func (t Timestamp) Time() time.Time {
	return time.Time(t)
}

// MemberDto is the public view of a Member. Credentials are never exposed.
type MemberDto struct {
	ID           uint      `json:"id"`
	CreatedDate  Timestamp `json:"createdDate"`
	ModifiedDate Timestamp `json:"modifiedDate"`
	Nickname     string    `json:"nickname"`
}

func NewMemberDto(m Member) MemberDto {
	return MemberDto{
		ID:           m.ID,
		CreatedDate:  Timestamp(m.CreatedAt),
		ModifiedDate: Timestamp(m.UpdatedAt),
		Nickname:     m.Nickname,
	}
}

// PostDto is the public view of a Post.
type PostDto struct {
	ID           uint      `json:"id"`
	CreatedDate  Timestamp `json:"createdDate"`
	ModifiedDate Timestamp `json:"modifiedDate"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	AuthorID     uint      `json:"authorId"`
	AuthorName   string    `json:"authorName"`
	Published    bool      `json:"published"`
	Listed       bool      `json:"listed"`
}

func NewPostDto(p Post) PostDto {
	return PostDto{
		ID:           p.ID,
		CreatedDate:  Timestamp(p.CreatedAt),
		ModifiedDate: Timestamp(p.UpdatedAt),
		Title:        p.Title,
		Content:      p.Content,
		AuthorID:     p.AuthorID,
		AuthorName:   p.Author.Name(),
		Published:    p.Published,
		Listed:       p.Listed,
	}
}

func NewPostDtos(posts []*Post) []PostDto {
	items := make([]PostDto, 0, len(posts))
	for _, p := range posts {
		items = append(items, NewPostDto(*p))
	}
	return items
}

// CommentDto is the public view of a Comment.
type CommentDto struct {
	ID           uint      `json:"id"`
	CreatedDate  Timestamp `json:"createdDate"`
	ModifiedDate Timestamp `json:"modifiedDate"`
	PostID       uint      `json:"postId"`
	Content      string    `json:"content"`
	AuthorID     uint      `json:"authorId"`
	AuthorName   string    `json:"authorName"`
}

func NewCommentDto(c Comment) CommentDto {
	return CommentDto{
		ID:           c.ID,
		CreatedDate:  Timestamp(c.CreatedAt),
		ModifiedDate: Timestamp(c.UpdatedAt),
		PostID:       c.PostID,
		Content:      c.Content,
		AuthorID:     c.AuthorID,
		AuthorName:   c.Author.Name(),
	}
}

func NewCommentDtos(comments []*Comment) []CommentDto {
	items := make([]CommentDto, 0, len(comments))
	for _, c := range comments {
		items = append(items, NewCommentDto(*c))
	}
	return items
}

// LoginResponse is the data returned by a successful login.
type LoginResponse struct {
	Item   MemberDto `json:"item"`
	APIKey string    `json:"apiKey"`
}

// Page is one slice of an ordered listing.
type Page[T any] struct {
	Items         []T   `json:"items"`
	CurrentPageNo int   `json:"currentPageNo"`
	TotalPages    int   `json:"totalPages"`
	TotalItems    int64 `json:"totalItems"`
	PageSize      int   `json:"pageSize"`
}

// NewPage computes the page count for totalItems split into pageSize chunks.
func NewPage[T any](items []T, pageNo, pageSize int, totalItems int64) Page[T] {
	if items == nil {
		items = []T{}
	}
	totalPages := 0
	if pageSize > 0 {
		totalPages = int((totalItems + int64(pageSize) - 1) / int64(pageSize))
	}
	return Page[T]{
		Items:         items,
		CurrentPageNo: pageNo,
		TotalPages:    totalPages,
		TotalItems:    totalItems,
		PageSize:      pageSize,
	}
}
