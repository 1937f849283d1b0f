package views

import (
	"github.com/GrainArc/MarkMap/middleware"
	"github.com/GrainArc/MarkMap/response"
	"github.com/GrainArc/MarkMap/services"
	"github.com/gin-gonic/gin"
)

type POIHandler struct {
	service *services.POIService
}

func NewPOIHandler(pois *services.POIService) *POIHandler {
	return &POIHandler{service: pois}
}

// List 可见兴趣点列表
// @Param map query int false "按地图过滤"
// @Param layer query int false "按图层过滤"
func (h *POIHandler) List(c *gin.Context) {
	pois, err := h.service.List(middleware.CurrentUser(c),
		parseUintQuery(c, "map"), parseUintQuery(c, "layer"),
		c.Query("sort_by"), c.Query("order"))
	if err != nil {
		Error(c, err)
		return
	}
	response.Success(c, pois)
}

func (h *POIHandler) Create(c *gin.Context) {
	var req services.POIRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数不正确")
		return
	}
	poi, err := h.service.Create(middleware.CurrentUser(c), &req)
	if err != nil {
		Error(c, err)
		return
	}
	response.Created(c, poi)
}

func (h *POIHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	poi, err := h.service.Get(middleware.CurrentUser(c), id)
	if err != nil {
		Error(c, err)
		return
	}
	response.Success(c, poi)
}

func (h *POIHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req services.POIUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数不正确")
		return
	}
	poi, err := h.service.Update(middleware.CurrentUser(c), id, &req)
	if err != nil {
		Error(c, err)
		return
	}
	response.Success(c, poi)
}

func (h *POIHandler) Delete(c *gin.Context) {
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

// ByLayer 按图层分组返回某地图的兴趣点
// @Param map query int true "地图ID"
func (h *POIHandler) ByLayer(c *gin.Context) {
	mapID := parseUintQuery(c, "map")
	if mapID == nil {
		response.BadRequest(c, "缺少地图ID")
		return
	}
	groups, err := h.service.GroupByLayer(middleware.CurrentUser(c), *mapID)
	if err != nil {
		Error(c, err)
		return
	}
	response.Success(c, groups)
}
