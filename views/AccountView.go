package views

import (
	"github.com/GrainArc/MarkMap/middleware"
	"github.com/GrainArc/MarkMap/response"
	"github.com/GrainArc/MarkMap/services"
	"github.com/gin-gonic/gin"
)

type AccountHandler struct {
	service *services.AccountService
}

func NewAccountHandler(accounts *services.AccountService) *AccountHandler {
	return &AccountHandler{service: accounts}
}

// Register 注册新用户并返回令牌
func (h *AccountHandler) Register(c *gin.Context) {
	var req services.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "用户名必填，密码至少8位")
		return
	}
	user, token, err := h.service.Register(&req)
	if err != nil {
		Error(c, err)
		return
	}
	response.Created(c, gin.H{
		"user":    user,
		"token":   token,
		"message": "注册成功",
	})
}

// Login 登录换令牌
func (h *AccountHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数不正确")
		return
	}
	user, token, err := h.service.Login(&req)
	if err != nil {
		Error(c, err)
		return
	}
	response.Success(c, gin.H{
		"user":  user,
		"token": token,
	})
}

func (h *AccountHandler) Logout(c *gin.Context) {
	if err := h.service.Logout(middleware.CurrentUser(c)); err != nil {
		Error(c, err)
		return
	}
	response.SuccessWithMessage(c, "已退出登录", nil)
}

// Me 当前用户信息和资料页
func (h *AccountHandler) Me(c *gin.Context) {
	user := middleware.CurrentUser(c)
	profile, err := h.service.Profile(user)
	if err != nil {
		Error(c, err)
		return
	}
	response.Success(c, gin.H{
		"user":    user,
		"profile": profile,
	})
}

func (h *AccountHandler) UpdateMe(c *gin.Context) {
	var req services.UserUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数不正确")
		return
	}
	user := middleware.CurrentUser(c)
	if err := h.service.UpdateMe(user, &req); err != nil {
		Error(c, err)
		return
	}
	response.SuccessWithMessage(c, "更新成功", nil)
}

func (h *AccountHandler) ChangePassword(c *gin.Context) {
	var req services.PasswordChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "新密码至少8位")
		return
	}
	if err := h.service.ChangePassword(middleware.CurrentUser(c), &req); err != nil {
		Error(c, err)
		return
	}
	response.SuccessWithMessage(c, "密码已修改", nil)
}

// DeleteAccount 注销账号，自有地图及文件一并清理
func (h *AccountHandler) DeleteAccount(c *gin.Context) {
	if err := h.service.DeleteAccount(middleware.CurrentUser(c)); err != nil {
		Error(c, err)
		return
	}
	response.SuccessWithMessage(c, "账号已注销", nil)
}

// SearchUsers 找人，分享对话框用
// @Param q query string true "用户名或邮箱关键字"
func (h *AccountHandler) SearchUsers(c *gin.Context) {
	users, err := h.service.SearchUsers(c.Query("q"))
	if err != nil {
		Error(c, err)
		return
	}
	response.Success(c, users)
}
