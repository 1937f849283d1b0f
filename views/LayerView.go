package views

import (
	"github.com/GrainArc/MarkMap/middleware"
	"github.com/GrainArc/MarkMap/response"
	"github.com/GrainArc/MarkMap/services"
	"github.com/gin-gonic/gin"
)

type LayerHandler struct {
	service *services.LayerService
}

func NewLayerHandler(layers *services.LayerService) *LayerHandler {
	return &LayerHandler{service: layers}
}

// List 可见图层列表
// @Param map query int false "按地图过滤"
func (h *LayerHandler) List(c *gin.Context) {
	layers, err := h.service.List(middleware.CurrentUser(c), parseUintQuery(c, "map"))
	if err != nil {
		Error(c, err)
		return
	}
	response.Success(c, layers)
}

func (h *LayerHandler) Create(c *gin.Context) {
	var req services.LayerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数不正确")
		return
	}
	layer, err := h.service.Create(middleware.CurrentUser(c), &req)
	if err != nil {
		Error(c, err)
		return
	}
	response.Created(c, layer)
}

func (h *LayerHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	layer, err := h.service.Get(middleware.CurrentUser(c), id)
	if err != nil {
		Error(c, err)
		return
	}
	response.Success(c, layer)
}

func (h *LayerHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req services.LayerUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数不正确")
		return
	}
	layer, err := h.service.Update(middleware.CurrentUser(c), id, &req)
	if err != nil {
		Error(c, err)
		return
	}
	response.Success(c, layer)
}

func (h *LayerHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.service.Delete(middleware.CurrentUser(c), id); err != nil {
		Error(c, err)
		return
	}
	response.SuccessWithMessage(c, "删除成功", nil)
}
