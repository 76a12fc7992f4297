package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"streamblog/internal/core/cache"
	"streamblog/internal/domain"
)

const (
	categoriesKey      = "categories"
	maxCategoryName    = 100
	defaultCategoryTTL = 5 * time.Minute
)

type CategoryService struct {
	categories domain.CategoryRepository
	cache      *cache.Cache // 可为 nil
	ttl        time.Duration
	log        *zap.Logger
}

func NewCategoryService(categories domain.CategoryRepository, c *cache.Cache, ttl time.Duration, log *zap.Logger) *CategoryService {
	if ttl <= 0 {
		ttl = defaultCategoryTTL
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &CategoryService{categories: categories, cache: c, ttl: ttl, log: log}
}

func (s *CategoryService) List(ctx context.Context) ([]domain.Category, error) {
	if s.cache == nil {
		return s.load(ctx)
	}
	return cache.GetOrLoadJSON(s.cache, ctx, categoriesKey, s.ttl, s.load)
}

func (s *CategoryService) load(ctx context.Context) ([]domain.Category, error) {
	cs, err := s.categories.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	if cs == nil {
		cs = []domain.Category{}
	}
	return cs, nil
}

func (s *CategoryService) BySlug(ctx context.Context, slug string) (*domain.Category, error) {
	c, err := s.categories.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("category %q: %w", slug, domain.ErrNotFound)
	}
	return c, nil
}

// Create 仅 staff；slug 缺省时由名称生成，冲突追加数字后缀
func (s *CategoryService) Create(ctx context.Context, actor *domain.Actor, name, slug string) (*domain.Category, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	switch {
	case name == "":
		return nil, domain.Invalid("name", "is required")
	case utf8.RuneCountInString(name) > maxCategoryName:
		return nil, domain.Invalid("name", fmt.Sprintf("must be at most %d characters", maxCategoryName))
	}
	taken, err := s.categories.NameExists(ctx, name)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, domain.Invalid("name", "already exists")
	}

	c := &domain.Category{Name: name}
	if strings.TrimSpace(slug) != "" {
		c.Slug = Slugify(slug)
		if c.Slug == "" {
			return nil, domain.Invalid("slug", "must contain letters or digits")
		}
		used, err := s.categories.SlugExists(ctx, c.Slug)
		if err != nil {
			return nil, err
		}
		if used {
			return nil, domain.Invalid("slug", "already in use")
		}
	} else {
		c.Slug, err = uniqueSlug(ctx, Slugify(name), "category", maxCategoryName, s.categories.SlugExists)
		if err != nil {
			return nil, err
		}
	}

	if err := s.categories.Create(ctx, c); err != nil {
		if isDupKey(err) {
			return nil, domain.Invalid("slug", "already in use")
		}
		return nil, fmt.Errorf("create category: %w", err)
	}
	s.invalidate(ctx)
	s.log.Info("category created", zap.String("slug", c.Slug), zap.String("by", actor.ID))
	return c, nil
}

func (s *CategoryService) Delete(ctx context.Context, actor *domain.Actor, slug string) error {
	if err := requireStaff(actor); err != nil {
		return err
	}
	c, err := s.BySlug(ctx, slug)
	if err != nil {
		return err
	}
	if err := s.categories.Delete(ctx, c.ID); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	s.invalidate(ctx)
	s.log.Info("category deleted", zap.String("slug", c.Slug), zap.String("by", actor.ID))
	return nil
}

func (s *CategoryService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, categoriesKey); err != nil {
		s.log.Warn("category cache invalidate failed", zap.Error(err))
	}
}

func requireStaff(actor *domain.Actor) error {
	if actor == nil {
		return domain.ErrNotAuthenticated
	}
	if !actor.Staff {
		return domain.ErrForbidden
	}
	return nil
}
