// Package app 组装 api/admin 两个进程共用的依赖：DB、缓存、服务和路由模块
package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"streamblog/internal/core/auth"
	"streamblog/internal/core/cache"
	"streamblog/internal/core/config"
	"streamblog/internal/core/database"
	"streamblog/internal/repo"
	"streamblog/internal/service"
	"streamblog/internal/transport/http/handler"
	"streamblog/internal/transport/http/router"
)

type App struct {
	Cfg   *config.Config
	Log   *zap.Logger
	DB    *gorm.DB
	Cache *cache.Cache // 未配置 redis.addr 时为 nil
	JWT   *auth.JWTer

	Posts      *service.PostService
	Listing    *service.ListingService
	Categories *service.CategoryService
	Accounts   *service.AccountService

	Modules *router.Registry
}

// Open 连接数据库（按配置迁移）和可选的 Redis，然后组装
func Open(ctx context.Context, cfg *config.Config, log *zap.Logger) (*App, error) {
	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		Username:           cfg.DB.Username,
		Password:           cfg.DB.Password,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
		Log:                log,
	})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	log.Info("database connected", zap.String("driver", cfg.DB.Driver))

	if cfg.DB.AutoMigrate {
		if err := database.Migrate(db); err != nil {
			return nil, fmt.Errorf("automigrate: %w", err)
		}
		log.Info("automigrate done")
	}

	var c *cache.Cache
	if cfg.Redis.Addr != "" {
		c = cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
		if err := c.Ping(pctx); err != nil {
			_ = c.Close()
			return nil, fmt.Errorf("redis ping: %w", err)
		}
		log.Info("redis connected", zap.String("addr", cfg.Redis.Addr))
	} else {
		log.Warn("redis not configured: category cache and logout revocation disabled")
	}
	return Assemble(cfg, log, db, c), nil
}

// Assemble 在已有连接上构建服务和路由模块
func Assemble(cfg *config.Config, log *zap.Logger, db *gorm.DB, c *cache.Cache) *App {
	jwter := &auth.JWTer{
		Secret: []byte(cfg.JWT.Secret),
		Issuer: cfg.JWT.Issuer,
		TTL:    time.Duration(cfg.JWT.AccessTokenTTLMin) * time.Minute,
	}
	posts, comments, categories, users := repo.NewPostRepo(db), repo.NewCommentRepo(db), repo.NewCategoryRepo(db), repo.NewUserRepo(db)

	a := &App{Cfg: cfg, Log: log, DB: db, Cache: c, JWT: jwter}
	a.Categories = service.NewCategoryService(categories, c, time.Duration(cfg.Redis.CategoryTTLSec)*time.Second, log.Named("category"))
	a.Posts = service.NewPostService(posts, comments, categories, log.Named("post"))
	a.Listing = service.NewListingService(posts, a.Categories, cfg.Blog.PageSize, cfg.Blog.RelatedLimit)
	// 避免把 nil *cache.Cache 包成非 nil 接口
	var revoker service.Revoker
	if c != nil {
		revoker = c
	}
	a.Accounts = service.NewAccountService(users, jwter, revoker, log.Named("account"))

	a.Modules = router.NewRegistry(
		handler.NewAccountHandler(a.Accounts),
		handler.NewPostHandler(a.Posts, a.Listing),
		handler.NewCategoryHandler(a.Categories),
	)
	return a
}

// Deps 路由依赖；没有 Redis 时不做吊销检查
func (a *App) Deps() router.Deps {
	d := router.Deps{
		Log:         a.Log,
		JWT:         a.JWT,
		Modules:     a.Modules,
		CORSOrigins: a.Cfg.App.HTTP.CORSOrigins,
		Timeout:     time.Duration(a.Cfg.App.HTTP.RequestTimeoutSec) * time.Second,
	}
	if a.Cache != nil {
		d.Revoked = a.Cache
	}
	return d
}

func (a *App) Close() {
	if a.Cache != nil {
		_ = a.Cache.Close()
	}
	if sqlDB, err := a.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
