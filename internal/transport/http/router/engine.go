package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"streamblog/internal/core/auth"
	"streamblog/internal/core/server"
	mdw "streamblog/internal/transport/http/middleware"
	"streamblog/pkg/validation"
)

// Deps 构建路由需要的依赖
type Deps struct {
	Log         *zap.Logger
	JWT         *auth.JWTer
	Revoked     mdw.RevocationChecker // 可为 nil（未配置 Redis 时登出不生效）
	Modules     *Registry
	CORSOrigins []string
	Timeout     time.Duration
}

// newEngine 两个二进制共用的基础中间件链
func newEngine(d Deps) *gin.Engine {
	validation.Init()
	r := server.NewRouter(d.CORSOrigins)
	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(200, 400),
		mdw.RateLimitPerIP(20, 40),
		mdw.ConcurrencyLimit(300),
		mdw.MaxBodyBytes(1<<20),
		mdw.Timeout(d.Timeout),
		mdw.Recovery(d.Log),
		mdw.Metrics(),
		mdw.AccessLog(d.Log),
	)

	// 健康检查
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	return r
}
