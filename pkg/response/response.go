package response

import (
	"net/http"

	"chat-app/internal/model"
	"chat-app/pkg/errs"

	"github.com/gin-gonic/gin"
)

// 统一响应约定：
// 成功 {"status":"success","message":...,<业务字段>...}
// 失败 {"status":"error","message":...}
// 失败消息直接透出底层错误文本，本设计不做内部细节隐藏

// Success 成功响应，extra 中的键平铺到顶层
func Success(c *gin.Context, message string, extra gin.H) {
	body := gin.H{
		"status":  "success",
		"message": message,
	}
	for k, v := range extra {
		body[k] = v
	}
	c.JSON(http.StatusOK, body)
}

// OK 无附加字段的成功响应
func OK(c *gin.Context, message string) {
	Success(c, message, nil)
}

// Error 错误响应
func Error(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{
		"status":  "error",
		"message": message,
	})
}

// FromError 按错误分类映射HTTP状态码后响应
func FromError(c *gin.Context, err error) {
	Error(c, errs.GetStatus(err), errs.GetMessage(err))
}

// BadRequest 400错误
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

// Unauthorized 401错误
func Unauthorized(c *gin.Context, message string) {
	Error(c, http.StatusUnauthorized, message)
}

// Forbidden 403错误
func Forbidden(c *gin.Context, message string) {
	Error(c, http.StatusForbidden, message)
}

// NotFound 404错误
func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, message)
}

// InternalError 500错误
func InternalError(c *gin.Context, message string) {
	Error(c, http.StatusInternalServerError, message)
}

// UserInfo 用户对外投影
// 不包含：密码哈希、验证/重置令牌及其过期时间、登录失败计数、锁定时间
type UserInfo struct {
	ID         uint   `json:"id"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Avatar     string `json:"avatar,omitempty"`
	Bio        string `json:"bio,omitempty"`
	IsVerified bool   `json:"isVerified"`
	CreatedAt  string `json:"createdAt"`
}

// FilterUserInfo 过滤用户信息，隐藏敏感字段
func FilterUserInfo(user *model.User) *UserInfo {
	if user == nil {
		return nil
	}

	return &UserInfo{
		ID:         user.ID,
		Username:   user.Username,
		Email:      user.Email,
		FirstName:  user.FirstName,
		LastName:   user.LastName,
		Avatar:     user.Avatar,
		Bio:        user.Bio,
		IsVerified: user.IsVerified,
		CreatedAt:  user.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}
