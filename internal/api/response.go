package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	apperrors "github.com/wfunc/poker-pool/internal/errors"
	"github.com/wfunc/poker-pool/internal/logger"
)

// ErrorResponse API错误响应，code为错误码表中的数字码
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// SuccessResponse API成功响应
type SuccessResponse struct {
	Message string `json:"message"`
}

// handleServiceError 将服务层错误转换为HTTP响应
// AppError携带自身的HTTP状态码映射，其余错误按500处理
func handleServiceError(c *gin.Context, err error) {
	if appErr, ok := err.(*apperrors.AppError); ok {
		c.JSON(appErr.HTTPStatus(), ErrorResponse{
			Code:    int(appErr.Code),
			Message: appErr.Message,
			Details: appErr.Details,
		})
		return
	}

	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Code:    int(apperrors.ErrUnknown),
		Message: "服务器内部错误",
	})
}

// badRequest 参数绑定失败响应
func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Code:    int(apperrors.ErrInvalidParam),
		Message: "请求参数错误",
		Details: err.Error(),
	})
}

// logRequest 记录请求日志
func logRequest(method, path string, status int, latency time.Duration, clientIP string) {
	logger.LogRequest(method, path, status, latency, clientIP)
}
