package handler

import (
	"errors"
	"net/http"

	"github.com/blues/mintpad/internal/launch"
	"github.com/blues/mintpad/internal/logger"
	"github.com/blues/mintpad/internal/logic"
	"github.com/blues/mintpad/internal/mint"
	"github.com/gin-gonic/gin"
)

// SuccessResponse 成功响应
func SuccessResponse(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// ErrorResponse 错误响应
func ErrorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, Response{
		Success: false,
		Message: message,
		Data:    nil,
	})
}

// errorResponseWithData 带附加信息的错误响应
func errorResponseWithData(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, Response{
		Success: false,
		Message: message,
		Data:    data,
	})
}

// HandleError 将业务错误映射为 HTTP 状态码
func HandleError(c *gin.Context, err error) {
	var verrs mint.ValidationErrors
	var guardErr *launch.GuardError

	switch {
	case errors.As(err, &verrs):
		errorResponseWithData(c, http.StatusUnprocessableEntity, "阶段配置校验失败", ToFieldErrors(verrs))
	case errors.As(err, &guardErr):
		status := http.StatusConflict
		if guardErr.Reason == launch.ReasonForbidden {
			status = http.StatusForbidden
		}
		errorResponseWithData(c, status, guardErr.Message, gin.H{"reason": guardErr.Reason})
	case logic.IsMintRejection(err):
		errorResponseWithData(c, http.StatusConflict, err.Error(), gin.H{"reason": logic.Reason(err)})
	case errors.Is(err, logic.ErrNotFound):
		ErrorResponse(c, http.StatusNotFound, err.Error())
	case errors.Is(err, logic.ErrForbidden):
		ErrorResponse(c, http.StatusForbidden, err.Error())
	case errors.Is(err, logic.ErrInvalidInput):
		ErrorResponse(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, logic.ErrConflict), errors.Is(err, logic.ErrPhaseHasMints):
		ErrorResponse(c, http.StatusConflict, err.Error())
	default:
		logger.Error("%s %s failed: %v", c.Request.Method, c.FullPath(), err)
		ErrorResponse(c, http.StatusInternalServerError, "服务器内部错误")
	}
}
