package middleware

import (
	"errors"
	"strings"

	"github.com/GrainArc/MarkMap/models"
	"github.com/GrainArc/MarkMap/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const userKey = "currentUser"

// AuthProvider 身份解析边界，令牌换用户。身份体系可替换
type AuthProvider interface {
	Authenticate(token string) (*models.User, error)
}

// TokenProvider 默认实现：查本地令牌表
type TokenProvider struct {
	DB *gorm.DB
}

func (p *TokenProvider) Authenticate(token string) (*models.User, error) {
	var at models.AuthToken
	if err := p.DB.Where(&models.AuthToken{Key: token}).First(&at).Error; err != nil {
		return nil, err
	}
	var user models.User
	if err := p.DB.First(&user, at.UserID).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// TokenAuth 认证中间件。请求头格式：Authorization: Token <key>
func TokenAuth(provider AuthProvider) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Unauthorized(c, "缺少认证信息")
			c.Abort()
			return
		}
		token := strings.TrimSpace(strings.TrimPrefix(header, "Token "))
		if token == header {
			token = strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		}
		if token == "" || token == header {
			response.Unauthorized(c, "认证格式不正确")
			c.Abort()
			return
		}
		user, err := provider.Authenticate(token)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				response.Unauthorized(c, "令牌无效")
			} else {
				response.InternalError(c, "认证失败")
			}
			c.Abort()
			return
		}
		c.Set(userKey, user)
		c.Next()
	}
}

// CurrentUser 取当前请求用户，必须在TokenAuth之后调用
func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(userKey)
	if !ok {
		return nil
	}
	user, _ := v.(*models.User)
	return user
}
