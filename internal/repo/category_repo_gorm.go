package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"streamblog/internal/domain"
	"streamblog/pkg/utils"
)

type CategoryRepo struct{ db *gorm.DB }

func NewCategoryRepo(db *gorm.DB) *CategoryRepo { return &CategoryRepo{db: db} }

func (r *CategoryRepo) Create(ctx context.Context, c *domain.Category) error {
	if c.ID == "" {
		c.ID = utils.NewID()
	}
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *CategoryRepo) FindByID(ctx context.Context, id string) (*domain.Category, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *CategoryRepo) FindBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	return r.first(ctx, "slug = ?", slug)
}

func (r *CategoryRepo) first(ctx context.Context, query string, arg any) (*domain.Category, error) {
	var c domain.Category
	err := r.db.WithContext(ctx).Where(query, arg).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CategoryRepo) NameExists(ctx context.Context, name string) (bool, error) {
	return exists(ctx, r.db, &domain.Category{}, "name = ?", name)
}

func (r *CategoryRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	return exists(ctx, r.db, &domain.Category{}, "slug = ?", slug)
}

func (r *CategoryRepo) List(ctx context.Context) ([]domain.Category, error) {
	var cs []domain.Category
	err := r.db.WithContext(ctx).Order("name asc").Find(&cs).Error
	return cs, err
}

func (r *CategoryRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 文章保留，只解除分类引用
		if err := tx.Model(&domain.Post{}).
			Where("category_id = ?", id).
			UpdateColumn("category_id", nil).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&domain.Category{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
}

func exists(ctx context.Context, db *gorm.DB, model any, query string, args ...any) (bool, error) {
	var n int64
	if err := db.WithContext(ctx).Model(model).Where(query, args...).Limit(1).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}
