package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"streamblog/internal/core/auth"
	resp "streamblog/internal/transport/http/response"
)

// gin.Context 里的登录态
const (
	KeyUserID = "userId"
	KeyRole   = "role"
	KeyClaims = "claims"
)

// RevocationChecker 查询 token 是否已登出
type RevocationChecker interface {
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// AuthJWT 必须携带有效 token；requireRole 非空时还要求角色匹配
func AuthJWT(j *auth.JWTer, revoked RevocationChecker, requireRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ah := c.GetHeader("Authorization")
		if !strings.HasPrefix(ah, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusOK, resp.Error(resp.CodeUnauthorized, "missing token"))
			return
		}
		claims, ok := authenticate(c, j, revoked, strings.TrimPrefix(ah, "Bearer "))
		if !ok {
			return
		}
		if requireRole != "" && claims.Role != requireRole {
			c.AbortWithStatusJSON(http.StatusOK, resp.Error(resp.CodeForbidden, "forbidden"))
			return
		}
		c.Next()
	}
}

// OptionalAuth 公开接口用：没有 token 按匿名处理，带了无效 token 直接 401
func OptionalAuth(j *auth.JWTer, revoked RevocationChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		ah := c.GetHeader("Authorization")
		if ah == "" {
			c.Next()
			return
		}
		if !strings.HasPrefix(ah, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusOK, resp.Error(resp.CodeUnauthorized, "invalid token"))
			return
		}
		if _, ok := authenticate(c, j, revoked, strings.TrimPrefix(ah, "Bearer ")); !ok {
			return
		}
		c.Next()
	}
}

func authenticate(c *gin.Context, j *auth.JWTer, revoked RevocationChecker, raw string) (*auth.Claims, bool) {
	claims, err := j.Parse(raw)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusOK, resp.Error(resp.CodeUnauthorized, "invalid token"))
		return nil, false
	}
	if revoked != nil && claims.ID != "" {
		gone, err := revoked.IsRevoked(c.Request.Context(), claims.ID)
		if err != nil {
			_ = c.Error(err)
			c.AbortWithStatusJSON(http.StatusOK, resp.Error(resp.CodeUnavailable, "auth backend unavailable"))
			return nil, false
		}
		if gone {
			c.AbortWithStatusJSON(http.StatusOK, resp.Error(resp.CodeUnauthorized, "token revoked"))
			return nil, false
		}
	}
	c.Set(KeyClaims, claims)
	c.Set(KeyUserID, claims.UID)
	c.Set(KeyRole, claims.Role)
	return claims, true
}

// ClaimsFrom 取出已校验的 claims，未登录返回 nil
func ClaimsFrom(c *gin.Context) *auth.Claims {
	v, ok := c.Get(KeyClaims)
	if !ok {
		return nil
	}
	claims, _ := v.(*auth.Claims)
	return claims
}
