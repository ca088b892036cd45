package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/anzhiyu-c/anime-explorer/pkg/constant"
)

// statusFor 将业务错误映射为 HTTP 状态码与错误代码
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, constant.ErrBadRequest),
		errors.Is(err, constant.ErrSourceNotFound),
		errors.Is(err, constant.ErrSourceUnsupported):
		return http.StatusBadRequest, constant.CodeBadRequest
	case errors.Is(err, constant.ErrNotFound):
		return http.StatusNotFound, constant.CodeNotFound
	case errors.Is(err, constant.ErrImportRunning), errors.Is(err, constant.ErrConflict):
		return http.StatusConflict, constant.CodeConflict
	case errors.Is(err, constant.ErrServiceUnavailable):
		return http.StatusServiceUnavailable, constant.CodeStoreUnavailable
	default:
		return http.StatusInternalServerError, constant.CodeInternal
	}
}

// FailWithError 根据错误类型选择状态码；errMsg 为返回给客户端的简短摘要，
// 客户端错误（4xx）附带错误详情，服务端错误不暴露内部信息
func FailWithError(c *gin.Context, err error, errMsg string) {
	status, code := statusFor(err)
	message := ""
	if status < http.StatusInternalServerError {
		message = err.Error()
	}
	Fail(c, status, code, errMsg, message)
}
