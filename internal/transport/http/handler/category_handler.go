package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"streamblog/internal/domain"
	"streamblog/internal/service"
	httpez "streamblog/internal/transport/http/ez"
)

type CategoryHandler struct {
	categories *service.CategoryService
}

func NewCategoryHandler(categories *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categories: categories}
}

func (h *CategoryHandler) Priority() int { return 30 }

type categoryIn struct {
	Name string `json:"name" binding:"required,max=100"`
	Slug string `json:"slug" binding:"omitempty,max=100"`
}

func (h *CategoryHandler) MountAPI(api *gin.RouterGroup) {
	httpez.RegisterAction(httpez.New(api), httpez.Action[struct{}, []domain.Category]{
		Method: http.MethodGet,
		Path:   "/categories",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.Category, error) {
			return h.categories.List(c.Request.Context())
		},
	})
}

func (h *CategoryHandler) MountAdmin(admin *gin.RouterGroup) {
	ez := httpez.New(admin)

	httpez.RegisterAction(ez, httpez.Action[categoryIn, *domain.Category]{
		Method: http.MethodPost,
		Path:   "/categories",
		Binder: httpez.BindJSON,
		Roles:  []string{domain.RoleStaff},
		Handler: func(c *gin.Context, in *categoryIn) (*domain.Category, error) {
			return h.categories.Create(c.Request.Context(), httpez.Actor(c), in.Name, in.Slug)
		},
	})

	httpez.RegisterAction(ez, httpez.Action[struct{}, gin.H]{
		Method: http.MethodDelete,
		Path:   "/categories/:slug",
		Binder: httpez.BindNone,
		Roles:  []string{domain.RoleStaff},
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			slug := c.Param("slug")
			if err := h.categories.Delete(c.Request.Context(), httpez.Actor(c), slug); err != nil {
				return nil, err
			}
			return gin.H{"slug": slug}, nil
		},
	})
}
