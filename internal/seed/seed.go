// Package seed loads fixture and generated data into the database for
// development and tests.
package seed

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"

	"inkpost/internal/middleware"
	"inkpost/internal/models"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

//go:embed fixtures.yml
var fixturesYAML []byte

type MemberFixture struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Nickname string `yaml:"nickname"`
	APIKey   string `yaml:"apiKey"`
}

type PostFixture struct {
	Ref       string `yaml:"ref"`
	Author    string `yaml:"author"`
	Title     string `yaml:"title"`
	Content   string `yaml:"content"`
	Published bool   `yaml:"published"`
	Listed    bool   `yaml:"listed"`
}

type CommentFixture struct {
	Post    string `yaml:"post"`
	Author  string `yaml:"author"`
	Content string `yaml:"content"`
}

// Fixtures is the parsed content of fixtures.yml.
type Fixtures struct {
	Members  []MemberFixture  `yaml:"members"`
	Posts    []PostFixture    `yaml:"posts"`
	Comments []CommentFixture `yaml:"comments"`
}

// ParseFixtures decodes fixture YAML.
func ParseFixtures(data []byte) (*Fixtures, error) {
	var f Fixtures
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixtures: %w", err)
	}
	return &f, nil
}

// DefaultFixtures returns the embedded fixture set.
func DefaultFixtures() (*Fixtures, error) {
	return ParseFixtures(fixturesYAML)
}

// LoadFixtures inserts the embedded fixtures unless members already exist.
func LoadFixtures(ctx context.Context, db *gorm.DB) error {
	f, err := DefaultFixtures()
	if err != nil {
		return err
	}
	return Apply(ctx, db, f)
}

// Apply inserts f in one transaction, in file order. A database that
// already has members is left alone.
func Apply(ctx context.Context, db *gorm.DB, f *Fixtures) error {
	var existing int64
	if err := db.WithContext(ctx).Model(&models.Member{}).Count(&existing).Error; err != nil {
		return fmt.Errorf("count members: %w", err)
	}
	if existing > 0 {
		middleware.Logger.Info("Skipping fixtures, members already present", slog.Int64("members", existing))
		return nil
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		members := make(map[string]*models.Member, len(f.Members))
		for _, mf := range f.Members {
			m := &models.Member{
				Username: mf.Username,
				Password: mf.Password,
				Nickname: mf.Nickname,
				APIKey:   mf.APIKey,
			}
			if err := tx.Create(m).Error; err != nil {
				return fmt.Errorf("create member %s: %w", mf.Username, err)
			}
			members[mf.Username] = m
		}

		posts := make(map[string]*models.Post, len(f.Posts))
		for _, pf := range f.Posts {
			author, ok := members[pf.Author]
			if !ok {
				return fmt.Errorf("post %s: unknown author %q", pf.Ref, pf.Author)
			}
			p := &models.Post{
				AuthorID:  author.ID,
				Title:     pf.Title,
				Content:   pf.Content,
				Published: pf.Published,
				Listed:    pf.Listed,
			}
			if err := tx.Omit("Author").Create(p).Error; err != nil {
				return fmt.Errorf("create post %s: %w", pf.Ref, err)
			}
			posts[pf.Ref] = p
		}

		for i, cf := range f.Comments {
			post, ok := posts[cf.Post]
			if !ok {
				return fmt.Errorf("comment %d: unknown post %q", i+1, cf.Post)
			}
			author, ok := members[cf.Author]
			if !ok {
				return fmt.Errorf("comment %d: unknown author %q", i+1, cf.Author)
			}
			c := &models.Comment{PostID: post.ID, AuthorID: author.ID, Content: cf.Content}
			if err := tx.Omit("Author", "Post").Create(c).Error; err != nil {
				return fmt.Errorf("create comment %d: %w", i+1, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	middleware.Logger.Info("Fixtures loaded",
		slog.Int("members", len(f.Members)),
		slog.Int("posts", len(f.Posts)),
		slog.Int("comments", len(f.Comments)),
	)
	return nil
}
