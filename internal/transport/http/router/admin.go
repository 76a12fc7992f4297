package router

import (
	"github.com/gin-gonic/gin"

	"streamblog/internal/domain"
	mdw "streamblog/internal/transport/http/middleware"
)

// NewAdminEngine 管理端：/admin/v1 统一要求 staff 角色
func NewAdminEngine(d Deps) *gin.Engine {
	r := newEngine(d)

	admin := r.Group("/admin/v1")
	admin.Use(mdw.AuthJWT(d.JWT, d.Revoked, domain.RoleStaff))

	d.Modules.MountAllAdmin(admin)
	return r
}
