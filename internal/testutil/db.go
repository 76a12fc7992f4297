// Package testutil 测试用的 sqlite 内存库和数据构造
package testutil

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"gorm.io/gorm"

	"streamblog/internal/core/database"
	"streamblog/internal/domain"
	"streamblog/pkg/utils"
)

// OpenDB 每个测试独立的内存库，已迁移
func OpenDB(t testing.TB) *gorm.DB {
	t.Helper()
	db, err := database.NewGorm(database.Opts{
		Driver:       "sqlite",
		DSN:          fmt.Sprintf("file:mem_%s?mode=memory&cache=shared", strings.ReplaceAll(utils.NewID(), "-", "")),
		MaxOpenConns: 1,
		MaxIdleConns: 1,
		LogLevel:     "silent",
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func MustUser(t testing.TB, db *gorm.DB, username, role string) *domain.User {
	t.Helper()
	hash, err := utils.HashPassword("password123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	u := &domain.User{ID: utils.NewID(), Username: username, PasswordHash: hash, Role: role}
	if err := db.WithContext(context.Background()).Create(u).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func MustCategory(t testing.TB, db *gorm.DB, name, slug string) *domain.Category {
	t.Helper()
	c := &domain.Category{ID: utils.NewID(), Name: name, Slug: slug}
	if err := db.Create(c).Error; err != nil {
		t.Fatalf("create category: %v", err)
	}
	return c
}

// PostOpt 调整直接落库的文章
type PostOpt func(*domain.Post)

func Published() PostOpt { return func(p *domain.Post) { p.Status = domain.StatusPublished } }
func Featured() PostOpt  { return func(p *domain.Post) { p.IsFeatured = true } }
func InCategory(c *domain.Category) PostOpt {
	return func(p *domain.Post) { p.CategoryID = &c.ID }
}
func CreatedAt(ts time.Time) PostOpt { return func(p *domain.Post) { p.CreatedAt = ts } }

// MustPost 绕过业务层直接写入，用于准备列表数据
func MustPost(t testing.TB, db *gorm.DB, author *domain.User, slug string, opts ...PostOpt) *domain.Post {
	t.Helper()
	p := &domain.Post{
		ID:       utils.NewID(),
		Title:    slug,
		Slug:     slug,
		AuthorID: author.ID,
		Body:     "body of " + slug,
		Excerpt:  "body of " + slug,
		Status:   domain.StatusDraft,
	}
	for _, o := range opts {
		o(p)
	}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("create post: %v", err)
	}
	return p
}
