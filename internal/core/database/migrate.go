package database

import (
	"gorm.io/gorm"

	"streamblog/internal/domain"
)

// Models 参与自动迁移的表，顺序按外键依赖
func Models() []any {
	return []any{
		&domain.User{},
		&domain.Category{},
		&domain.Post{},
		&domain.Comment{},
	}
}

func Migrate(db *gorm.DB) error { return db.AutoMigrate(Models()...) }
