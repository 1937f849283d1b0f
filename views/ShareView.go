package views

import (
	"github.com/GrainArc/MarkMap/middleware"
	"github.com/GrainArc/MarkMap/response"
	"github.com/GrainArc/MarkMap/services"
	"github.com/gin-gonic/gin"
)

type ShareHandler struct {
	service *services.ShareService
}

func NewShareHandler(shares *services.ShareService) *ShareHandler {
	return &ShareHandler{service: shares}
}

// List 自己相关的分享：自己地图上的和分享给自己的
func (h *ShareHandler) List(c *gin.Context) {
	items, err := h.service.ListMine(middleware.CurrentUser(c))
	if err != nil {
		Error(c, err)
		return
	}
	response.Success(c, items)
}

type shareUpdateRequest struct {
	Permission string `json:"permission" binding:"required"`
}

// Update 调整分享级别，仅地图拥有者
func (h *ShareHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req shareUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数不正确")
		return
	}
	item, err := h.service.UpdateLevel(middleware.CurrentUser(c), id, req.Permission)
	if err != nil {
		Error(c, err)
		return
	}
	response.Success(c, item)
}

// Delete 撤销分享。拥有者可撤销任何分享，被分享人可退出
func (h *ShareHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.service.Revoke(middleware.CurrentUser(c), id); err != nil {
		Error(c, err)
		return
	}
	response.SuccessWithMessage(c, "已撤销分享", nil)
}
