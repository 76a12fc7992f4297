// seed 往开发库里灌演示数据：用户、分类、文章和评论
package main

import (
	"context"
	"flag"
	"os"
	"strings"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"streamblog/internal/app"
	"streamblog/internal/core/config"
	"streamblog/internal/core/logger"
	"streamblog/internal/domain"
	"streamblog/internal/service"
)

var genres = []string{"Drama", "Comedy", "Sci-Fi", "Documentary", "Anime", "Thriller"}

func main() {
	users := flag.Int("users", 5, "number of authors")
	posts := flag.Int("posts", 30, "number of posts")
	seed := flag.Int64("seed", 42, "faker seed")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))
	cfg.DB.AutoMigrate = true
	log, cleanup := logger.FromConfig(cfg.Log)
	defer cleanup()

	ctx := context.Background()
	a, err := app.Open(ctx, cfg, log)
	if err != nil {
		log.Fatal("bootstrap failed", zap.Error(err))
	}
	defer a.Close()

	if err := run(ctx, a, gofakeit.New(*seed), *users, *posts); err != nil {
		log.Fatal("seed failed", zap.Error(err))
	}
	log.Info("seed done", zap.Int("users", *users), zap.Int("posts", *posts))
}

func run(ctx context.Context, a *app.App, f *gofakeit.Faker, nUsers, nPosts int) error {
	staffUser, err := a.Accounts.Register(ctx, service.RegisterInput{Username: "editor", Email: "editor@example.com", Password: "password123"})
	if err != nil {
		return err
	}
	staff := &domain.Actor{ID: staffUser.ID, Staff: true}
	if _, err := a.Accounts.SetRole(ctx, staff, staffUser.ID, domain.RoleStaff); err != nil {
		return err
	}

	cats := make([]*domain.Category, 0, len(genres))
	for _, g := range genres {
		c, err := a.Categories.Create(ctx, staff, g, "")
		if err != nil {
			return err
		}
		cats = append(cats, c)
	}

	authors := make([]*domain.Actor, 0, nUsers)
	for i := 0; i < nUsers; i++ {
		u, err := a.Accounts.Register(ctx, service.RegisterInput{
			Username: strings.ToLower(f.Username()) + f.DigitN(3),
			Email:    f.Email(),
			Password: "password123",
		})
		if err != nil {
			return err
		}
		_, err = a.Accounts.UpdateProfile(ctx, &domain.Actor{ID: u.ID}, service.ProfilePatch{Bio: ptr(f.Sentence(12))})
		if err != nil {
			return err
		}
		authors = append(authors, &domain.Actor{ID: u.ID})
	}

	var published []string
	for i := 0; i < nPosts; i++ {
		author := authors[f.Number(0, len(authors)-1)]
		status := domain.StatusPublished
		if f.Number(1, 5) == 1 {
			status = domain.StatusDraft
		}
		p, err := a.Posts.Create(ctx, author, service.PostInput{
			Title:      f.MovieName() + " " + f.HipsterWord(),
			Body:       f.Paragraph(4, 5, 20, "\n\n"),
			CategoryID: cats[f.Number(0, len(cats)-1)].ID,
			Image:      f.ImageURL(640, 360),
			IsFeatured: i%10 == 0,
			Status:     status,
		})
		if err != nil {
			return err
		}
		if p.Published() {
			published = append(published, p.Slug)
		}
	}

	for _, slug := range published {
		for j := f.Number(0, 4); j > 0; j-- {
			who := authors[f.Number(0, len(authors)-1)]
			if _, err := a.Posts.AddComment(ctx, who, slug, f.Sentence(10)); err != nil {
				return err
			}
		}
	}
	return nil
}

func ptr[T any](v T) *T { return &v }
