package service

import (
	"context"
	"fmt"

	"streamblog/internal/domain"
)

const (
	DefaultPageSize     = 12
	DefaultRelatedLimit = 4
)

// Home 首页数据：hero 位 + 网格分页 + 分类
type Home struct {
	Featured   *domain.Post      `json:"featured"`
	Page       domain.Page       `json:"page"`
	Categories []domain.Category `json:"categories"`
}

// CategoryPage 某个分类下的已发布文章
type CategoryPage struct {
	Category domain.Category `json:"category"`
	Page     domain.Page     `json:"page"`
}

type ListingService struct {
	posts        domain.PostRepository
	categories   *CategoryService
	pageSize     int
	relatedLimit int
}

func NewListingService(posts domain.PostRepository, categories *CategoryService, pageSize, relatedLimit int) *ListingService {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if relatedLimit <= 0 {
		relatedLimit = DefaultRelatedLimit
	}
	return &ListingService{posts: posts, categories: categories, pageSize: pageSize, relatedLimit: relatedLimit}
}

// Featured 已发布且 is_featured 的第一篇（最新优先），没有则 nil
func (s *ListingService) Featured(ctx context.Context) (*domain.Post, error) {
	return s.posts.FirstFeatured(ctx)
}

func (s *ListingService) Home(ctx context.Context, page int) (*Home, error) {
	featured, err := s.Featured(ctx)
	if err != nil {
		return nil, fmt.Errorf("featured post: %w", err)
	}
	q := domain.PostQuery{}
	if featured != nil {
		q.ExcludeID = featured.ID
	}
	pg, err := s.paginate(ctx, q, page)
	if err != nil {
		return nil, err
	}
	cats, err := s.categories.List(ctx)
	if err != nil {
		return nil, err
	}
	return &Home{Featured: featured, Page: pg, Categories: cats}, nil
}

func (s *ListingService) ByCategory(ctx context.Context, categorySlug string, page int) (*CategoryPage, error) {
	c, err := s.categories.BySlug(ctx, categorySlug)
	if err != nil {
		return nil, err
	}
	pg, err := s.paginate(ctx, domain.PostQuery{CategoryID: c.ID}, page)
	if err != nil {
		return nil, err
	}
	return &CategoryPage{Category: *c, Page: pg}, nil
}

// Related 同分类的其它已发布文章，最多 relatedLimit 篇；无分类时为空
func (s *ListingService) Related(ctx context.Context, p *domain.Post) ([]domain.Post, error) {
	if p == nil || p.CategoryID == nil || *p.CategoryID == "" {
		return []domain.Post{}, nil
	}
	ps, err := s.posts.ListRelated(ctx, *p.CategoryID, p.ID, s.relatedLimit)
	if err != nil {
		return nil, fmt.Errorf("related posts: %w", err)
	}
	return ps, nil
}

// paginate 页码 <1 取第 1 页，超过最后一页取最后一页
func (s *ListingService) paginate(ctx context.Context, q domain.PostQuery, page int) (domain.Page, error) {
	total, err := s.posts.CountPublished(ctx, q)
	if err != nil {
		return domain.Page{}, fmt.Errorf("count posts: %w", err)
	}
	number, pages := domain.ClampPage(page, total, s.pageSize)
	items := []domain.Post{}
	if total > 0 {
		items, err = s.posts.ListPublished(ctx, q, (number-1)*s.pageSize, s.pageSize)
		if err != nil {
			return domain.Page{}, fmt.Errorf("list posts: %w", err)
		}
	}
	return newPage(items, number, s.pageSize, total, pages), nil
}

func newPage(items []domain.Post, number, size int, total int64, pages int) domain.Page {
	if items == nil {
		items = []domain.Post{}
	}
	return domain.Page{
		Items:      items,
		Number:     number,
		Size:       size,
		TotalItems: total,
		TotalPages: pages,
		HasPrev:    number > 1,
		HasNext:    number < pages,
	}
}
