package handler

import (
	"chat-app/internal/service"
	"chat-app/pkg/logger"
	"chat-app/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UserHandler 用户相关接口
type UserHandler struct {
	service *service.UserService
}

// NewUserHandler 创建UserHandler实例
func NewUserHandler(s *service.UserService) *UserHandler {
	return &UserHandler{service: s}
}

// Register 用户注册
// POST /api/register（表单字段：username, firstName, lastName, email, password）
func (h *UserHandler) Register(c *gin.Context) {
	in := service.RegisterInput{
		Username:  c.PostForm("username"),
		FirstName: c.PostForm("firstName"),
		LastName:  c.PostForm("lastName"),
		Email:     c.PostForm("email"),
		Password:  c.PostForm("password"),
	}

	user, verificationToken, err := h.service.Register(in)
	if err != nil {
		response.FromError(c, err)
		return
	}

	logger.Info("用户注册成功",
		zap.Uint("user_id", user.ID),
		zap.String("username", user.Username),
	)
	response.Success(c, "User registered successfully.", gin.H{
		"user":              response.FilterUserInfo(user),
		"verificationToken": verificationToken,
	})
}

// Login 用户登录
// POST /api/login（表单字段：username(用户名或邮箱), password）
func (h *UserHandler) Login(c *gin.Context) {
	identifier := c.PostForm("username")
	plainPassword := c.PostForm("password")

	user, signed, err := h.service.Login(identifier, plainPassword)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, "User logged in successfully.", gin.H{
		"user":  response.FilterUserInfo(user),
		"token": signed,
	})
}
