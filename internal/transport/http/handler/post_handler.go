package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"streamblog/internal/domain"
	"streamblog/internal/service"
	httpez "streamblog/internal/transport/http/ez"
)

type PostHandler struct {
	posts   *service.PostService
	listing *service.ListingService
}

func NewPostHandler(posts *service.PostService, listing *service.ListingService) *PostHandler {
	return &PostHandler{posts: posts, listing: listing}
}

func (h *PostHandler) Priority() int { return 20 }

type postIn struct {
	Title      string            `json:"title"      binding:"required,max=200"`
	Slug       string            `json:"slug"       binding:"omitempty,max=200"`
	Body       string            `json:"body"       binding:"required"`
	Excerpt    string            `json:"excerpt"    binding:"omitempty,max=300"`
	CategoryID string            `json:"categoryId"`
	Image      string            `json:"image"      binding:"omitempty,max=255"`
	IsFeatured bool              `json:"isFeatured"`
	Status     domain.PostStatus `json:"status"     binding:"omitempty,oneof=draft published"`
}

type postPatchIn struct {
	Title      *string            `json:"title"      binding:"omitempty,max=200"`
	Slug       *string            `json:"slug"       binding:"omitempty,max=200"`
	Body       *string            `json:"body"`
	Excerpt    *string            `json:"excerpt"    binding:"omitempty,max=300"`
	CategoryID *string            `json:"categoryId"`
	Image      *string            `json:"image"      binding:"omitempty,max=255"`
	IsFeatured *bool              `json:"isFeatured"`
	Status     *domain.PostStatus `json:"status"     binding:"omitempty,oneof=draft published"`
}

type commentIn struct {
	Body string `json:"body" binding:"required,max=5000"`
}

// PostDetail 文章页：正文 + 有效评论 + 相关推荐
type PostDetail struct {
	Post     *domain.Post     `json:"post"`
	Comments []domain.Comment `json:"comments"`
	Related  []domain.Post    `json:"related"`
}

func (h *PostHandler) MountAPI(api *gin.RouterGroup) {
	ez := httpez.New(api)

	httpez.RegisterAction(ez, httpez.Action[struct{}, *service.Home]{
		Method: http.MethodGet,
		Path:   "/home",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (*service.Home, error) {
			return h.listing.Home(c.Request.Context(), pageParam(c))
		},
	})

	httpez.RegisterAction(ez, httpez.Action[struct{}, *service.CategoryPage]{
		Method: http.MethodGet,
		Path:   "/categories/:slug/posts",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (*service.CategoryPage, error) {
			return h.listing.ByCategory(c.Request.Context(), c.Param("slug"), pageParam(c))
		},
	})

	httpez.RegisterAction(ez, httpez.Action[struct{}, PostDetail]{
		Method: http.MethodGet,
		Path:   "/posts/:slug",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (PostDetail, error) {
			ctx := c.Request.Context()
			p, err := h.posts.GetPublished(ctx, c.Param("slug"))
			if err != nil {
				return PostDetail{}, err
			}
			comments, err := h.posts.Comments(ctx, p.ID)
			if err != nil {
				return PostDetail{}, err
			}
			related, err := h.listing.Related(ctx, p)
			if err != nil {
				return PostDetail{}, err
			}
			if comments == nil {
				comments = []domain.Comment{}
			}
			return PostDetail{Post: p, Comments: comments, Related: related}, nil
		},
	})

	httpez.RegisterAction(ez, httpez.Action[postIn, *domain.Post]{
		Method: http.MethodPost,
		Path:   "/posts",
		Binder: httpez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *postIn) (*domain.Post, error) {
			return h.posts.Create(c.Request.Context(), httpez.Actor(c), service.PostInput{
				Title:      in.Title,
				Slug:       in.Slug,
				Body:       in.Body,
				Excerpt:    in.Excerpt,
				CategoryID: in.CategoryID,
				Image:      in.Image,
				IsFeatured: in.IsFeatured,
				Status:     in.Status,
			})
		},
	})

	httpez.RegisterAction(ez, httpez.Action[postPatchIn, *domain.Post]{
		Method: http.MethodPut,
		Path:   "/posts/:slug",
		Binder: httpez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *postPatchIn) (*domain.Post, error) {
			return h.posts.Edit(c.Request.Context(), httpez.Actor(c), c.Param("slug"), service.PostPatch{
				Title:      in.Title,
				Slug:       in.Slug,
				Body:       in.Body,
				Excerpt:    in.Excerpt,
				CategoryID: in.CategoryID,
				Image:      in.Image,
				IsFeatured: in.IsFeatured,
				Status:     in.Status,
			})
		},
	})

	httpez.RegisterAction(ez, httpez.Action[struct{}, gin.H]{
		Method: http.MethodDelete,
		Path:   "/posts/:slug",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			slug := c.Param("slug")
			if err := h.posts.Delete(c.Request.Context(), httpez.Actor(c), slug); err != nil {
				return nil, err
			}
			return gin.H{"slug": slug}, nil
		},
	})

	httpez.RegisterAction(ez, httpez.Action[commentIn, *domain.Comment]{
		Method: http.MethodPost,
		Path:   "/posts/:slug/comments",
		Binder: httpez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *commentIn) (*domain.Comment, error) {
			return h.posts.AddComment(c.Request.Context(), httpez.Actor(c), c.Param("slug"), in.Body)
		},
	})

	httpez.RegisterAction(ez, httpez.Action[struct{}, domain.Page]{
		Method: http.MethodGet,
		Path:   "/me/posts",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (domain.Page, error) {
			return h.posts.Mine(c.Request.Context(), httpez.Actor(c), pageParam(c), service.DefaultPageSize)
		},
	})
}

// MountAdmin 评论审核
func (h *PostHandler) MountAdmin(admin *gin.RouterGroup) {
	ez := httpez.New(admin)
	for path, active := range map[string]bool{"/comments/:id/activate": true, "/comments/:id/deactivate": false} {
		active := active
		httpez.RegisterAction(ez, httpez.Action[struct{}, gin.H]{
			Method: http.MethodPost,
			Path:   path,
			Binder: httpez.BindNone,
			Roles:  []string{domain.RoleStaff},
			Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
				id := c.Param("id")
				if err := h.posts.SetCommentActive(c.Request.Context(), httpez.Actor(c), id, active); err != nil {
					return nil, err
				}
				return gin.H{"id": id, "active": active}, nil
			},
		})
	}
}
