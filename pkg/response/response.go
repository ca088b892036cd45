/*
 * @Description:
 * @Author: 安知鱼
 * @Date: 2025-06-15 12:16:18
 * @LastEditTime: 2025-10-12 17:10:05
 * @LastEditors: 安知鱼
 */
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorBody 是统一的错误返回结构体
type ErrorBody struct {
	OK      bool   `json:"ok"`
	Code    string `json:"code"`
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// Success 成功响应，payload 中的字段与 ok=true 一起平铺输出
func Success(c *gin.Context, payload gin.H) {
	SuccessWithStatus(c, http.StatusOK, payload)
}

// SuccessWithStatus 成功响应，但允许自定义 HTTP 状态码。
func SuccessWithStatus(c *gin.Context, status int, payload gin.H) {
	if payload == nil {
		payload = gin.H{}
	}
	payload["ok"] = true
	c.JSON(status, payload)
}

// Fail 失败响应，error 为简短的错误摘要，message 为可读的补充说明
func Fail(c *gin.Context, status int, code, errMsg, message string) {
	c.JSON(status, ErrorBody{
		OK:      false,
		Code:    code,
		Error:   errMsg,
		Message: message,
	})
}

// AbortWithFail 与 Fail 相同，但会中止后续中间件
func AbortWithFail(c *gin.Context, status int, code, errMsg, message string) {
	c.AbortWithStatusJSON(status, ErrorBody{
		OK:      false,
		Code:    code,
		Error:   errMsg,
		Message: message,
	})
}
