package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"streamblog/internal/core/metrics"
	"streamblog/internal/domain"
)

// PostInput 新建文章；作者总是取自操作者，输入里没有作者字段
type PostInput struct {
	Title      string
	Slug       string
	Body       string
	Excerpt    string
	CategoryID string
	Image      string
	IsFeatured bool
	Status     domain.PostStatus
}

// PostPatch nil 表示不修改；Slug/Excerpt 置为 "" 表示重新生成，CategoryID 置为 "" 表示清除分类
type PostPatch struct {
	Title      *string
	Slug       *string
	Body       *string
	Excerpt    *string
	CategoryID *string
	Image      *string
	IsFeatured *bool
	Status     *domain.PostStatus
}

type PostService struct {
	posts      domain.PostRepository
	comments   domain.CommentRepository
	categories domain.CategoryRepository
	log        *zap.Logger
	now        func() time.Time
}

func NewPostService(posts domain.PostRepository, comments domain.CommentRepository, categories domain.CategoryRepository, log *zap.Logger) *PostService {
	if log == nil {
		log = zap.NewNop()
	}
	return &PostService{posts: posts, comments: comments, categories: categories, log: log, now: time.Now}
}

func (s *PostService) Create(ctx context.Context, actor *domain.Actor, in PostInput) (*domain.Post, error) {
	if actor == nil {
		return nil, domain.ErrNotAuthenticated
	}
	p := &domain.Post{
		Title:      strings.TrimSpace(in.Title),
		Body:       in.Body,
		Image:      strings.TrimSpace(in.Image),
		IsFeatured: in.IsFeatured,
		Status:     in.Status,
		AuthorID:   actor.ID,
	}
	if p.Status == "" {
		p.Status = domain.StatusDraft
	}
	if err := validatePost(p); err != nil {
		return nil, err
	}

	if in.CategoryID != "" {
		c, err := s.category(ctx, in.CategoryID)
		if err != nil {
			return nil, err
		}
		p.CategoryID, p.Category = &c.ID, c
	}

	if strings.TrimSpace(in.Slug) != "" {
		slug, err := s.explicitSlug(ctx, in.Slug, "")
		if err != nil {
			return nil, err
		}
		p.Slug = slug
	} else {
		slug, err := s.derivedSlug(ctx, p.Title, "")
		if err != nil {
			return nil, err
		}
		p.Slug = slug
	}

	if in.Excerpt != "" {
		if utf8.RuneCountInString(in.Excerpt) > domain.MaxExcerptLen {
			return nil, domain.Invalid("excerpt", fmt.Sprintf("must be at most %d characters", domain.MaxExcerptLen))
		}
		p.Excerpt = in.Excerpt
	} else {
		p.Excerpt = MakeExcerpt(p.Body)
	}

	now := s.now()
	p.CreatedAt, p.UpdatedAt = now, now
	if err := s.posts.Create(ctx, p); err != nil {
		if isDupKey(err) {
			return nil, domain.Invalid("slug", "already in use")
		}
		return nil, fmt.Errorf("create post: %w", err)
	}
	metrics.PostsCreated.WithLabelValues(string(p.Status)).Inc()
	s.log.Info("post created",
		zap.String("id", p.ID), zap.String("slug", p.Slug),
		zap.String("author", p.AuthorID), zap.String("status", string(p.Status)))
	return p, nil
}

func (s *PostService) Edit(ctx context.Context, actor *domain.Actor, slug string, patch PostPatch) (*domain.Post, error) {
	p, err := s.owned(ctx, actor, slug)
	if err != nil {
		return nil, err
	}

	next := *p
	fields := map[string]any{}
	if patch.Title != nil {
		next.Title = strings.TrimSpace(*patch.Title)
		fields["title"] = next.Title
	}
	if patch.Body != nil {
		next.Body = *patch.Body
		fields["body"] = next.Body
	}
	if patch.Image != nil {
		next.Image = strings.TrimSpace(*patch.Image)
		fields["image"] = next.Image
	}
	if patch.IsFeatured != nil {
		next.IsFeatured = *patch.IsFeatured
		fields["is_featured"] = next.IsFeatured
	}
	if patch.Status != nil {
		if p.Published() && *patch.Status == domain.StatusDraft {
			return nil, domain.Invalid("status", "published posts cannot return to draft")
		}
		next.Status = *patch.Status
		fields["status"] = next.Status
	}
	if err := validatePost(&next); err != nil {
		return nil, err
	}

	if patch.CategoryID != nil {
		if *patch.CategoryID == "" {
			next.CategoryID, next.Category = nil, nil
			fields["category_id"] = nil
		} else {
			c, err := s.category(ctx, *patch.CategoryID)
			if err != nil {
				return nil, err
			}
			next.CategoryID, next.Category = &c.ID, c
			fields["category_id"] = c.ID
		}
	}

	// slug 一旦确定不随标题变化，只有显式清空才重新生成
	if patch.Slug != nil {
		var newSlug string
		if *patch.Slug == "" {
			newSlug, err = s.derivedSlug(ctx, next.Title, p.ID)
		} else {
			newSlug, err = s.explicitSlug(ctx, *patch.Slug, p.ID)
		}
		if err != nil {
			return nil, err
		}
		next.Slug = newSlug
		fields["slug"] = newSlug
	}

	if patch.Excerpt != nil {
		if *patch.Excerpt == "" {
			next.Excerpt = MakeExcerpt(next.Body)
		} else {
			if utf8.RuneCountInString(*patch.Excerpt) > domain.MaxExcerptLen {
				return nil, domain.Invalid("excerpt", fmt.Sprintf("must be at most %d characters", domain.MaxExcerptLen))
			}
			next.Excerpt = *patch.Excerpt
		}
		fields["excerpt"] = next.Excerpt
	}

	next.UpdatedAt = s.now()
	fields["updated_at"] = next.UpdatedAt
	if err := s.posts.UpdateFields(ctx, p.ID, fields); err != nil {
		if isDupKey(err) {
			return nil, domain.Invalid("slug", "already in use")
		}
		return nil, fmt.Errorf("update post: %w", err)
	}
	s.log.Info("post updated", zap.String("id", p.ID), zap.String("slug", next.Slug), zap.String("by", actor.ID))
	return &next, nil
}

func (s *PostService) Delete(ctx context.Context, actor *domain.Actor, slug string) error {
	p, err := s.owned(ctx, actor, slug)
	if err != nil {
		return err
	}
	n, err := s.comments.CountByPost(ctx, p.ID)
	if err != nil {
		return fmt.Errorf("count comments: %w", err)
	}
	if err := s.posts.Delete(ctx, p.ID); err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	s.log.Info("post deleted",
		zap.String("id", p.ID), zap.String("slug", p.Slug),
		zap.Int64("comments", n), zap.String("by", actor.ID))
	return nil
}

// GetPublished 公开阅读入口：草稿一律 404（作者本人也一样），每次成功读取 views +1
func (s *PostService) GetPublished(ctx context.Context, slug string) (*domain.Post, error) {
	p, err := s.published(ctx, slug)
	if err != nil {
		return nil, err
	}
	if err := s.posts.IncrementViews(ctx, p.ID); err != nil {
		return nil, fmt.Errorf("increment views: %w", err)
	}
	p.Views++
	metrics.PostViews.Inc()
	return p, nil
}

func (s *PostService) AddComment(ctx context.Context, actor *domain.Actor, postSlug, body string) (*domain.Comment, error) {
	if actor == nil {
		return nil, domain.ErrNotAuthenticated
	}
	if strings.TrimSpace(body) == "" {
		return nil, domain.Invalid("body", "is required")
	}
	p, err := s.published(ctx, postSlug)
	if err != nil {
		return nil, err
	}
	c := &domain.Comment{
		PostID:    p.ID,
		AuthorID:  actor.ID,
		Body:      body,
		Active:    true,
		CreatedAt: s.now(),
	}
	if err := s.comments.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	metrics.CommentsCreated.Inc()
	return c, nil
}

// Comments 已发布文章下的有效评论，按时间正序
func (s *PostService) Comments(ctx context.Context, postID string) ([]domain.Comment, error) {
	cs, err := s.comments.ListActiveByPost(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return cs, nil
}

func (s *PostService) SetCommentActive(ctx context.Context, actor *domain.Actor, commentID string, active bool) error {
	if actor == nil {
		return domain.ErrNotAuthenticated
	}
	if !actor.Staff {
		return domain.ErrForbidden
	}
	c, err := s.comments.FindByID(ctx, commentID)
	if err != nil {
		return err
	}
	if c == nil {
		return fmt.Errorf("comment %q: %w", commentID, domain.ErrNotFound)
	}
	if err := s.comments.SetActive(ctx, c.ID, active); err != nil {
		return fmt.Errorf("moderate comment: %w", err)
	}
	s.log.Info("comment moderated", zap.String("id", c.ID), zap.Bool("active", active), zap.String("by", actor.ID))
	return nil
}

// Mine 作者后台：自己的全部文章（含草稿）
func (s *PostService) Mine(ctx context.Context, actor *domain.Actor, page, size int) (domain.Page, error) {
	if actor == nil {
		return domain.Page{}, domain.ErrNotAuthenticated
	}
	// 先取总数确定页码
	_, total, err := s.posts.ListByAuthor(ctx, actor.ID, 0, 0)
	if err != nil {
		return domain.Page{}, err
	}
	number, pages := domain.ClampPage(page, total, size)
	items, _, err := s.posts.ListByAuthor(ctx, actor.ID, (number-1)*size, size)
	if err != nil {
		return domain.Page{}, err
	}
	return newPage(items, number, size, total, pages), nil
}

func (s *PostService) owned(ctx context.Context, actor *domain.Actor, slug string) (*domain.Post, error) {
	if actor == nil {
		return nil, domain.ErrNotAuthenticated
	}
	p, err := s.posts.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("post %q: %w", slug, domain.ErrNotFound)
	}
	if !actor.CanModify(p.AuthorID) {
		return nil, fmt.Errorf("post %q: %w", slug, domain.ErrForbidden)
	}
	return p, nil
}

func (s *PostService) published(ctx context.Context, slug string) (*domain.Post, error) {
	p, err := s.posts.FindPublishedBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("post %q: %w", slug, domain.ErrNotFound)
	}
	return p, nil
}

func (s *PostService) category(ctx context.Context, id string) (*domain.Category, error) {
	c, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.Invalid("categoryId", "unknown category")
	}
	return c, nil
}

func (s *PostService) explicitSlug(ctx context.Context, raw, selfID string) (string, error) {
	slug := Slugify(raw)
	if slug == "" {
		return "", domain.Invalid("slug", "must contain letters or digits")
	}
	if len(slug) > domain.MaxSlugLen {
		return "", domain.Invalid("slug", fmt.Sprintf("must be at most %d characters", domain.MaxSlugLen))
	}
	taken, err := s.posts.SlugExists(ctx, slug, selfID)
	if err != nil {
		return "", err
	}
	if taken {
		return "", domain.Invalid("slug", "already in use")
	}
	return slug, nil
}

func (s *PostService) derivedSlug(ctx context.Context, title, selfID string) (string, error) {
	return uniqueSlug(ctx, Slugify(title), "post", domain.MaxSlugLen, func(ctx context.Context, slug string) (bool, error) {
		return s.posts.SlugExists(ctx, slug, selfID)
	})
}

func validatePost(p *domain.Post) error {
	switch {
	case p.Title == "":
		return domain.Invalid("title", "is required")
	case utf8.RuneCountInString(p.Title) > domain.MaxTitleLen:
		return domain.Invalid("title", fmt.Sprintf("must be at most %d characters", domain.MaxTitleLen))
	case strings.TrimSpace(p.Body) == "":
		return domain.Invalid("body", "is required")
	case utf8.RuneCountInString(p.Image) > domain.MaxImageLen:
		return domain.Invalid("image", fmt.Sprintf("must be at most %d characters", domain.MaxImageLen))
	case !p.Status.Valid():
		return domain.Invalid("status", "must be draft or published")
	}
	return nil
}

func isDupKey(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique violation")
}
