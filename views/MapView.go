package views

import (
	"strconv"

	"github.com/GrainArc/MarkMap/middleware"
	"github.com/GrainArc/MarkMap/response"
	"github.com/GrainArc/MarkMap/services"
	"github.com/gin-gonic/gin"
)

type MapHandler struct {
	service *services.MapService
	pois    *services.POIService
	shares  *services.ShareService
}

func NewMapHandler(maps *services.MapService, pois *services.POIService, shares *services.ShareService) *MapHandler {
	return &MapHandler{service: maps, pois: pois, shares: shares}
}

// List 地图列表
// @Param scope query string false "范围" Enums(mine, shared, public)
// @Param search query string false "按名称或描述搜索"
// @Param sort_by query string false "排序字段" Enums(name, created, updated)
// @Param order query string false "排序方向" Enums(asc, desc)
func (h *MapHandler) List(c *gin.Context) {
	user := middleware.CurrentUser(c)
	items, err := h.service.List(user, c.Query("scope"), c.Query("search"), c.Query("sort_by"), c.Query("order"))
	if err != nil {
		Error(c, err)
		return
	}
	response.Success(c, items)
}

func (h *MapHandler) MyMaps(c *gin.Context) {
	h.listScoped(c, "mine")
}

func (h *MapHandler) SharedWithMe(c *gin.Context) {
	h.listScoped(c, "shared")
}

func (h *MapHandler) PublicMaps(c *gin.Context) {
	h.listScoped(c, "public")
}

func (h *MapHandler) listScoped(c *gin.Context, scope string) {
	user := middleware.CurrentUser(c)
	items, err := h.service.List(user, scope, c.Query("search"), c.Query("sort_by"), c.Query("order"))
	if err != nil {
		Error(c, err)
		return
	}
	response.Success(c, items)
}

// Create 上传地图文件并创建记录
// @Accept multipart/form-data
// @Param file formData file true "地图图片或PDF"
// @Param name formData string true "地图名称"
func (h *MapHandler) Create(c *gin.Context) {
	user := middleware.CurrentUser(c)
	file, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "请选择要上传的地图文件")
		return
	}
	req := services.CreateMapRequest{
		Name:        c.PostForm("name"),
		Description: c.PostForm("description"),
		IsPublic:    c.PostForm("is_public") == "true",
		File:        file,
	}
	if w := c.PostForm("width"); w != "" {
		if v, err := strconv.Atoi(w); err == nil {
			req.Width = &v
		}
	}
	if hgt := c.PostForm("height"); hgt != "" {
		if v, err := strconv.Atoi(hgt); err == nil {
			req.Height = &v
		}
	}
	m, err := h.service.Create(user, &req)
	if err != nil {
		Error(c, err)
		return
	}
	response.Created(c, m)
}

func (h *MapHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	detail, err := h.service.Get(middleware.CurrentUser(c), id)
	if err != nil {
		Error(c, err)
		return
	}
	response.Success(c, detail)
}

func (h *MapHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req services.UpdateMapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数不正确")
		return
	}
	m, err := h.service.Update(middleware.CurrentUser(c), id, &req)
	if err != nil {
		Error(c, err)
		return
	}
	response.Success(c, m)
}

func (h *MapHandler) Delete(c *gin.Context) {
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

// Layers 地图下的全部图层
func (h *MapHandler) Layers(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	detail, err := h.service.Get(middleware.CurrentUser(c), id)
	if err != nil {
		Error(c, err)
		return
	}
	response.Success(c, detail.Layers)
}

// POIs 地图下的兴趣点，支持排序
// @Param sort_by query string false "排序字段" Enums(name, layer, created, updated)
// @Param order query string false "排序方向" Enums(asc, desc)
func (h *MapHandler) POIs(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	pois, err := h.pois.ListOfMap(middleware.CurrentUser(c), id, c.Query("sort_by"), c.Query("order"))
	if err != nil {
		Error(c, err)
		return
	}
	response.Success(c, pois)
}

// Share 把地图分享给其他用户
func (h *MapHandler) Share(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req services.ShareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数不正确")
		return
	}
	item, err := h.shares.Create(middleware.CurrentUser(c), id, &req)
	if err != nil {
		Error(c, err)
		return
	}
	response.Created(c, item)
}

// SharedUsers 地图的分享列表
func (h *MapHandler) SharedUsers(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	items, err := h.shares.ListOfMap(middleware.CurrentUser(c), id)
	if err != nil {
		Error(c, err)
		return
	}
	response.Success(c, items)
}

// MyPermission 当前用户对地图的权限，前端据此开关按钮
func (h *MapHandler) MyPermission(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	flags, err := h.service.MyPermission(middleware.CurrentUser(c), id)
	if err != nil {
		Error(c, err)
		return
	}
	response.Success(c, flags)
}
