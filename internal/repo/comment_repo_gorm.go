package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"streamblog/internal/domain"
	"streamblog/pkg/utils"
)

type CommentRepo struct{ db *gorm.DB }

func NewCommentRepo(db *gorm.DB) *CommentRepo { return &CommentRepo{db: db} }

func (r *CommentRepo) Create(ctx context.Context, c *domain.Comment) error {
	if c.ID == "" {
		c.ID = utils.NewID()
	}
	// 关联对象只用于读取，写入时忽略
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(c).Error
}

func (r *CommentRepo) FindByID(ctx context.Context, id string) (*domain.Comment, error) {
	var c domain.Comment
	err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CommentRepo) ListActiveByPost(ctx context.Context, postID string) ([]domain.Comment, error) {
	var cs []domain.Comment
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("post_id = ? AND active = ?", postID, true).
		Order("created_at asc, id asc").
		Find(&cs).Error
	return cs, err
}

func (r *CommentRepo) CountByPost(ctx context.Context, postID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Comment{}).Where("post_id = ?", postID).Count(&n).Error
	return n, err
}

// SetActive 软删除/恢复，不清除记录
func (r *CommentRepo) SetActive(ctx context.Context, id string, active bool) error {
	return r.db.WithContext(ctx).Model(&domain.Comment{}).Where("id = ?", id).UpdateColumn("active", active).Error
}
