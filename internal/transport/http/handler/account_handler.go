package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"streamblog/internal/domain"
	"streamblog/internal/service"
	httpez "streamblog/internal/transport/http/ez"
	mdw "streamblog/internal/transport/http/middleware"
)

type AccountHandler struct {
	accounts *service.AccountService
}

func NewAccountHandler(accounts *service.AccountService) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

// 登录注册最先挂
func (h *AccountHandler) Priority() int { return 10 }

type registerIn struct {
	Username string `json:"username" binding:"required,username"`
	Email    string `json:"email"    binding:"omitempty,email"`
	Password string `json:"password" binding:"required,pwd"`
}

type loginIn struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginOut struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

type profileIn struct {
	Email  *string `json:"email"  binding:"omitempty,email"`
	Bio    *string `json:"bio"    binding:"omitempty,max=500"`
	Avatar *string `json:"avatar" binding:"omitempty,max=255"`
}

type usersQ struct {
	Offset int `form:"offset,default=0"`
	Limit  int `form:"limit,default=20"`
}

type usersOut struct {
	Total int64         `json:"total"`
	Items []domain.User `json:"items"`
}

type roleIn struct {
	Role string `json:"role" binding:"required,oneof=user staff"`
}

func (h *AccountHandler) MountAPI(api *gin.RouterGroup) {
	ez := httpez.New(api)

	httpez.RegisterAction(ez, httpez.Action[registerIn, *domain.User]{
		Method: http.MethodPost,
		Path:   "/auth/register",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *registerIn) (*domain.User, error) {
			return h.accounts.Register(c.Request.Context(), service.RegisterInput{
				Username: in.Username,
				Email:    in.Email,
				Password: in.Password,
			})
		},
	})

	httpez.RegisterAction(ez, httpez.Action[loginIn, loginOut]{
		Method: http.MethodPost,
		Path:   "/auth/login",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *loginIn) (loginOut, error) {
			tok, u, err := h.accounts.Login(c.Request.Context(), in.Username, in.Password)
			if err != nil {
				return loginOut{}, err
			}
			return loginOut{Token: tok, User: u}, nil
		},
	})

	httpez.RegisterAction(ez, httpez.Action[struct{}, gin.H]{
		Method: http.MethodPost,
		Path:   "/auth/logout",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			if err := h.accounts.Logout(c.Request.Context(), mdw.ClaimsFrom(c)); err != nil {
				return nil, err
			}
			return gin.H{"loggedOut": true}, nil
		},
	})

	httpez.RegisterAction(ez, httpez.Action[struct{}, *domain.User]{
		Method: http.MethodGet,
		Path:   "/me",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.User, error) {
			return h.accounts.Profile(c.Request.Context(), httpez.Actor(c))
		},
	})

	httpez.RegisterAction(ez, httpez.Action[profileIn, *domain.User]{
		Method: http.MethodPut,
		Path:   "/me",
		Binder: httpez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *profileIn) (*domain.User, error) {
			return h.accounts.UpdateProfile(c.Request.Context(), httpez.Actor(c), service.ProfilePatch{
				Email:  in.Email,
				Bio:    in.Bio,
				Avatar: in.Avatar,
			})
		},
	})
}

func (h *AccountHandler) MountAdmin(admin *gin.RouterGroup) {
	ez := httpez.New(admin)

	httpez.RegisterAction(ez, httpez.Action[usersQ, usersOut]{
		Method: http.MethodGet,
		Path:   "/users",
		Binder: httpez.BindQuery,
		Roles:  []string{domain.RoleStaff},
		Handler: func(c *gin.Context, in *usersQ) (usersOut, error) {
			users, total, err := h.accounts.ListUsers(c.Request.Context(), httpez.Actor(c), in.Offset, in.Limit)
			if err != nil {
				return usersOut{}, err
			}
			if users == nil {
				users = []domain.User{}
			}
			return usersOut{Total: total, Items: users}, nil
		},
	})

	httpez.RegisterAction(ez, httpez.Action[roleIn, *domain.User]{
		Method: http.MethodPost,
		Path:   "/users/:id/role",
		Binder: httpez.BindJSON,
		Roles:  []string{domain.RoleStaff},
		Handler: func(c *gin.Context, in *roleIn) (*domain.User, error) {
			return h.accounts.SetRole(c.Request.Context(), httpez.Actor(c), c.Param("id"), in.Role)
		},
	})
}
