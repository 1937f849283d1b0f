package views

import (
	"errors"
	"strconv"

	"github.com/GrainArc/MarkMap/response"
	"github.com/GrainArc/MarkMap/services"
	"github.com/gin-gonic/gin"
)

// Error 业务错误映射到HTTP状态码
func Error(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrValidation):
		response.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrForbidden):
		response.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, services.ErrConflict):
		response.Conflict(c, err.Error())
	default:
		response.InternalError(c, "服务器内部错误")
	}
}

func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		response.BadRequest(c, "无效的ID")
		return 0, false
	}
	return uint(id), true
}

func parseUintQuery(c *gin.Context, name string) *uint {
	v := c.Query(name)
	if v == "" {
		return nil
	}
	id, err := strconv.ParseUint(v, 10, 32)
	if err != nil {
		return nil
	}
	u := uint(id)
	return &u
}
