package router

import (
	"github.com/gin-gonic/gin"

	mdw "streamblog/internal/transport/http/middleware"
)

// NewAPIEngine 用户端：/api/v1 公开浏览 + 登录后写操作
func NewAPIEngine(d Deps) *gin.Engine {
	r := newEngine(d)

	// 前缀；带了 token 就解析，需要登录的接口由 Action.Auth 把关
	api := r.Group("/api/v1")
	api.Use(mdw.OptionalAuth(d.JWT, d.Revoked))

	d.Modules.MountAllAPI(api)
	return r
}
