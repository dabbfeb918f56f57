package response

import (
	"errors"
	"net/http"

	"skill-swap/internal/model"
	"skill-swap/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorBody 统一错误响应结构
type ErrorBody struct {
	Code    int    `json:"code"`    // HTTP状态码
	Message string `json:"message"` // 错误信息
}

// AuthResponse 注册/登录响应
type AuthResponse struct {
	User        *model.User `json:"user"`
	AccessToken string      `json:"accessToken"`
}

// Success 成功响应，直接返回实体
func Success(c *gin.Context, status int, data interface{}) {
	c.JSON(status, data)
}

// OK 200 成功响应
func OK(c *gin.Context, data interface{}) {
	Success(c, http.StatusOK, data)
}

// Created 201 成功响应
func Created(c *gin.Context, data interface{}) {
	Success(c, http.StatusCreated, data)
}

// Error 错误响应
func Error(c *gin.Context, status int, message string) {
	c.JSON(status, ErrorBody{
		Code:    status,
		Message: message,
	})
}

// FromError 根据业务错误类别返回对应状态码，内部错误只记录日志不外泄细节
func FromError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	var appErr *model.AppError
	if !errors.As(err, &appErr) {
		appErr = model.NewInternalError(err)
	}

	status := appErr.Kind.HTTPStatus()
	if appErr.Kind == model.KindInternal {
		_ = c.Error(err)
		logger.Error("请求处理失败",
			zap.String("request_id", logger.GetRequestID(c)),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
	}
	Error(c, status, appErr.Message)
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
