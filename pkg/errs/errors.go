package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError 应用错误类型
// 用于统一管理业务错误，包含HTTP状态码、业务错误码和错误消息
type AppError struct {
	Status  int    // HTTP状态码
	Code    int    // 业务错误码
	Message string // 用户可见的错误消息
	Err     error  // 原始错误（可选，用于调试）
}

// Error 实现 error 接口
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap 支持 errors.Unwrap
func (e *AppError) Unwrap() error {
	return e.Err
}

// New 创建新错误
func New(status, code int, message string) *AppError {
	return &AppError{
		Status:  status,
		Code:    code,
		Message: message,
	}
}

// Wrap 包装原始错误，保留状态码与消息
func (e *AppError) Wrap(err error) *AppError {
	return &AppError{
		Status:  e.Status,
		Code:    e.Code,
		Message: e.Message,
		Err:     err,
	}
}

// WithMessage 替换用户可见消息，保留状态码与错误码
func (e *AppError) WithMessage(message string) *AppError {
	return &AppError{
		Status:  e.Status,
		Code:    e.Code,
		Message: message,
		Err:     e.Err,
	}
}

// Is 判断是否为指定业务错误（按错误码比较，兼容包装链）
func Is(err error, target *AppError) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == target.Code
	}
	return false
}

// GetStatus 获取HTTP状态码，非 AppError 一律按服务器错误处理
func GetStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Status
	}
	return http.StatusInternalServerError
}

// GetCode 获取业务错误码
func GetCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeServerError
}

// GetMessage 获取错误消息
// 非 AppError 时直接透出原始错误文本（本设计不隐藏内部细节）
func GetMessage(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		if appErr.Err != nil {
			return fmt.Sprintf("%s: %v", appErr.Message, appErr.Err)
		}
		return appErr.Message
	}
	if err != nil {
		return err.Error()
	}
	return "internal server error"
}

// ============== 错误码定义 ==============

const (
	CodeSuccess = 0

	// 校验相关 10000-10999
	CodeValidation = 10001

	// 用户相关 11000-11999
	CodeEmailExists        = 11001
	CodeUserNotFound       = 11002
	CodeInvalidCredentials = 11003
	CodeAccountLocked      = 11004

	// 认证相关 12000-12999
	CodeTokenRequired = 12001
	CodeTokenInvalid  = 12002

	// 好友相关 13000-13999
	CodeFriendshipExists   = 13001
	CodeSelfFriendship     = 13002
	CodeFriendshipNotFound = 13003
	CodeNotRecipient       = 13004

	// 系统错误 50000-50999
	CodeServerError = 50001
)

// ============== 预定义错误 ==============

// 校验与用户相关
var (
	ErrValidation         = New(http.StatusBadRequest, CodeValidation, "all fields are required")
	ErrEmailExists        = New(http.StatusBadRequest, CodeEmailExists, "email already exists")
	ErrUserNotFound       = New(http.StatusNotFound, CodeUserNotFound, "user not found")
	ErrInvalidCredentials = New(http.StatusBadRequest, CodeInvalidCredentials, "invalid credentials")
	ErrAccountLocked      = New(http.StatusBadRequest, CodeAccountLocked, "account temporarily locked")
)

// 认证相关
var (
	ErrTokenRequired = New(http.StatusUnauthorized, CodeTokenRequired, "access token required")
	ErrTokenInvalid  = New(http.StatusForbidden, CodeTokenInvalid, "invalid token")
)

// 好友相关
var (
	ErrFriendshipExists   = New(http.StatusBadRequest, CodeFriendshipExists, "friendship already exists")
	ErrSelfFriendship     = New(http.StatusBadRequest, CodeSelfFriendship, "users cannot befriend themselves")
	ErrFriendshipNotFound = New(http.StatusNotFound, CodeFriendshipNotFound, "friendship not found")
	ErrNotRecipient       = New(http.StatusForbidden, CodeNotRecipient, "only the recipient can accept this request")
)

// 系统相关
var (
	ErrServerError = New(http.StatusInternalServerError, CodeServerError, "internal server error")
)
