package domain

import (
	"context"
	"time"
)

type PostStatus string

const (
	StatusDraft     PostStatus = "draft"
	StatusPublished PostStatus = "published"
)

func (s PostStatus) Valid() bool { return s == StatusDraft || s == StatusPublished }

const (
	MaxTitleLen   = 200
	MaxSlugLen    = 200
	MaxExcerptLen = 300
	MaxImageLen   = 255
)

type Post struct {
	ID         string     `gorm:"primaryKey;size:36" json:"id"`
	Title      string     `gorm:"size:200;not null" json:"title"`
	Slug       string     `gorm:"uniqueIndex;size:200;not null" json:"slug"`
	AuthorID   string     `gorm:"size:36;not null;index" json:"authorId"`
	Author     *User      `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	CategoryID *string    `gorm:"size:36;index" json:"categoryId"`
	Category   *Category  `gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL" json:"category,omitempty"`
	Body       string     `gorm:"type:text;not null" json:"body"`
	Excerpt    string     `gorm:"size:300" json:"excerpt"`
	Image      string     `gorm:"size:255" json:"image"`
	IsFeatured bool       `gorm:"not null;default:false;index" json:"isFeatured"`
	Status     PostStatus `gorm:"size:16;not null;default:draft;index" json:"status"`
	Views      int64      `gorm:"not null;default:0" json:"views"`
	CreatedAt  time.Time  `gorm:"autoCreateTime;index" json:"createdAt"`
	UpdatedAt  time.Time  `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Post) TableName() string { return "posts" }

func (p *Post) Published() bool { return p.Status == StatusPublished }

// PostQuery 已发布文章的列表条件
type PostQuery struct {
	ExcludeID  string
	CategoryID string
}

type PostRepository interface {
	Create(ctx context.Context, p *Post) error
	FindBySlug(ctx context.Context, slug string) (*Post, error)
	FindPublishedBySlug(ctx context.Context, slug string) (*Post, error)
	SlugExists(ctx context.Context, slug, excludeID string) (bool, error)
	// UpdateFields 只写给定列，不覆盖 views
	UpdateFields(ctx context.Context, id string, fields map[string]any) error
	// Delete 同一事务里连带删除评论
	Delete(ctx context.Context, id string) error
	IncrementViews(ctx context.Context, id string) error
	FirstFeatured(ctx context.Context) (*Post, error)
	CountPublished(ctx context.Context, q PostQuery) (int64, error)
	ListPublished(ctx context.Context, q PostQuery, offset, limit int) ([]Post, error)
	ListRelated(ctx context.Context, categoryID, excludeID string, limit int) ([]Post, error)
	ListByAuthor(ctx context.Context, authorID string, offset, limit int) ([]Post, int64, error)
}
