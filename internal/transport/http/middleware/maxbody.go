package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	resp "streamblog/internal/transport/http/response"
)

// MaxBodyBytes 限制请求体大小，超出时绑定失败
func MaxBodyBytes(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > n {
			c.AbortWithStatusJSON(http.StatusOK, resp.Error(resp.CodeBadRequest, "request body too large"))
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		c.Next()
	}
}
