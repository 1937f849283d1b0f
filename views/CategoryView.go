package views

import (
	"github.com/GrainArc/MarkMap/middleware"
	"github.com/GrainArc/MarkMap/response"
	"github.com/GrainArc/MarkMap/services"
	"github.com/gin-gonic/gin"
)

type CategoryHandler struct {
	service *services.CategoryService
}

func NewCategoryHandler(cats *services.CategoryService) *CategoryHandler {
	return &CategoryHandler{service: cats}
}

func (h *CategoryHandler) List(c *gin.Context) {
	cats, err := h.service.List(middleware.CurrentUser(c))
	if err != nil {
		Error(c, err)
		return
	}
	response.Success(c, cats)
}

func (h *CategoryHandler) Create(c *gin.Context) {
	var req services.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数不正确")
		return
	}
	cat, err := h.service.Create(middleware.CurrentUser(c), &req)
	if err != nil {
		Error(c, err)
		return
	}
	response.Created(c, cat)
}

func (h *CategoryHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req services.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数不正确")
		return
	}
	cat, err := h.service.Update(middleware.CurrentUser(c), id, &req)
	if err != nil {
		Error(c, err)
		return
	}
	response.Success(c, cat)
}

func (h *CategoryHandler) Delete(c *gin.Context) {
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
