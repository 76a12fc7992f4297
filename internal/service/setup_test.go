package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"streamblog/internal/core/auth"
	"streamblog/internal/core/cache"
	"streamblog/internal/domain"
	"streamblog/internal/repo"
	"streamblog/internal/testutil"
)

type fixture struct {
	db         *gorm.DB
	mr         *miniredis.Miniredis
	cache      *cache.Cache
	posts      *PostService
	listing    *ListingService
	categories *CategoryService
	accounts   *AccountService
	jwter      *auth.JWTer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.OpenDB(t)
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	c := cache.NewFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))

	postRepo, commentRepo, categoryRepo := repo.NewPostRepo(db), repo.NewCommentRepo(db), repo.NewCategoryRepo(db)
	categories := NewCategoryService(categoryRepo, c, time.Minute, nil)
	jwter := &auth.JWTer{Secret: []byte("test-secret"), Issuer: "streamblog", TTL: time.Hour}
	return &fixture{
		db:         db,
		mr:         mr,
		cache:      c,
		posts:      NewPostService(postRepo, commentRepo, categoryRepo, nil),
		listing:    NewListingService(postRepo, categories, 0, 0),
		categories: categories,
		accounts:   NewAccountService(repo.NewUserRepo(db), jwter, c, nil),
		jwter:      jwter,
	}
}

func actorOf(u *domain.User) *domain.Actor {
	return &domain.Actor{ID: u.ID, Staff: u.IsStaff()}
}

func (f *fixture) reload(t *testing.T, id string) domain.Post {
	t.Helper()
	var p domain.Post
	require.NoError(t, f.db.First(&p, "id = ?", id).Error)
	return p
}

func (f *fixture) countComments(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(&domain.Comment{}).Count(&n).Error)
	return n
}

func ids(ps []domain.Post) []string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.ID)
	}
	return out
}

var bg = context.Background()
