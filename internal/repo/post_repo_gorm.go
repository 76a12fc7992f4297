package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"streamblog/internal/domain"
	"streamblog/pkg/utils"
)

// 自然顺序：最新在前，id 兜底保证稳定分页
const postOrder = "posts.created_at DESC, posts.id DESC"

type PostRepo struct{ db *gorm.DB }

func NewPostRepo(db *gorm.DB) *PostRepo { return &PostRepo{db: db} }

func (r *PostRepo) Create(ctx context.Context, p *domain.Post) error {
	if p.ID == "" {
		p.ID = utils.NewID()
	}
	// 关联对象只用于读取，写入时忽略
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(p).Error
}

func (r *PostRepo) withRefs(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Author").Preload("Category")
}

func (r *PostRepo) FindBySlug(ctx context.Context, slug string) (*domain.Post, error) {
	return r.first(r.withRefs(ctx).Where("slug = ?", slug))
}

func (r *PostRepo) FindPublishedBySlug(ctx context.Context, slug string) (*domain.Post, error) {
	return r.first(r.withRefs(ctx).Where("slug = ? AND status = ?", slug, domain.StatusPublished))
}

func (r *PostRepo) first(q *gorm.DB) (*domain.Post, error) {
	var p domain.Post
	err := q.First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PostRepo) SlugExists(ctx context.Context, slug, excludeID string) (bool, error) {
	if excludeID == "" {
		return exists(ctx, r.db, &domain.Post{}, "slug = ?", slug)
	}
	return exists(ctx, r.db, &domain.Post{}, "slug = ? AND id <> ?", slug, excludeID)
}

func (r *PostRepo) UpdateFields(ctx context.Context, id string, fields map[string]any) error {
	res := r.db.WithContext(ctx).Model(&domain.Post{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PostRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&domain.Comment{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&domain.Post{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
}

// IncrementViews 原地自增，不读不写其它列（也不刷新 updated_at）
func (r *PostRepo) IncrementViews(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Model(&domain.Post{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + ?", 1))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PostRepo) FirstFeatured(ctx context.Context) (*domain.Post, error) {
	return r.first(r.withRefs(ctx).
		Where("status = ? AND is_featured = ?", domain.StatusPublished, true).
		Order(postOrder))
}

func (r *PostRepo) published(ctx context.Context, q domain.PostQuery) *gorm.DB {
	tx := r.db.WithContext(ctx).Model(&domain.Post{}).Where("status = ?", domain.StatusPublished)
	if q.ExcludeID != "" {
		tx = tx.Where("id <> ?", q.ExcludeID)
	}
	if q.CategoryID != "" {
		tx = tx.Where("category_id = ?", q.CategoryID)
	}
	return tx
}

func (r *PostRepo) CountPublished(ctx context.Context, q domain.PostQuery) (int64, error) {
	var n int64
	err := r.published(ctx, q).Count(&n).Error
	return n, err
}

func (r *PostRepo) ListPublished(ctx context.Context, q domain.PostQuery, offset, limit int) ([]domain.Post, error) {
	var ps []domain.Post
	err := r.published(ctx, q).
		Preload("Author").Preload("Category").
		Order(postOrder).Offset(offset).Limit(limit).
		Find(&ps).Error
	return ps, err
}

func (r *PostRepo) ListRelated(ctx context.Context, categoryID, excludeID string, limit int) ([]domain.Post, error) {
	if categoryID == "" || limit <= 0 {
		return []domain.Post{}, nil
	}
	return r.ListPublished(ctx, domain.PostQuery{ExcludeID: excludeID, CategoryID: categoryID}, 0, limit)
}

func (r *PostRepo) ListByAuthor(ctx context.Context, authorID string, offset, limit int) ([]domain.Post, int64, error) {
	tx := r.db.WithContext(ctx).Model(&domain.Post{}).Where("author_id = ?", authorID)
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var ps []domain.Post
	if err := tx.Preload("Category").Order(postOrder).Offset(offset).Limit(limit).Find(&ps).Error; err != nil {
		return nil, 0, err
	}
	return ps, total, nil
}
