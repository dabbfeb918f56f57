package handler

import (
	"strconv"

	"skill-swap/pkg/response"

	"github.com/gin-gonic/gin"
)

// parseIDParam 解析路径中的正整数ID，失败时直接写入400响应
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		response.BadRequest(c, "invalid "+name)
		return 0, false
	}
	return uint(id), true
}
