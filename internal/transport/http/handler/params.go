package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// pageParam ?page= 非数字按第 1 页，越界由服务层收敛
func pageParam(c *gin.Context) int {
	n, err := strconv.Atoi(c.Query("page"))
	if err != nil {
		return 1
	}
	return n
}
