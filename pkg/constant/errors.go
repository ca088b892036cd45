/*
 * @Description:
 * @Author: 安知鱼
 * @Date: 2025-06-27 12:08:15
 * @LastEditTime: 2025-10-12 17:02:44
 * @LastEditors: 安知鱼
 */
package constant

import "errors"

// 定义业务逻辑相关的标准错误
var (
	// ErrNotFound 表示资源未找到，可以由 Handler 转换为 404
	ErrNotFound = errors.New("资源未找到")

	// ErrConflict 表示资源冲突，可以由 Handler 转换为 409
	ErrConflict = errors.New("资源冲突")

	// ErrInternalServer 表示服务器内部错误，可以由 Handler 转换为 500
	ErrInternalServer = errors.New("内部服务器错误")

	// ErrBadRequest 表示请求参数错误，可以由 Handler 转换为 400
	ErrBadRequest = errors.New("错误的请求")

	// ErrServiceUnavailable 表示数据存储不可用，可以由 Handler 转换为 503
	ErrServiceUnavailable = errors.New("数据存储不可用")

	// ErrImportRunning 表示已有导入任务在执行，可以由 Handler 转换为 409
	ErrImportRunning = errors.New("已有导入任务正在执行")

	// ErrSourceNotFound 表示导入源不存在，可以由 Handler 转换为 400
	ErrSourceNotFound = errors.New("导入文件不存在")

	// ErrSourceUnsupported 表示导入源协议不受支持，可以由 Handler 转换为 400
	ErrSourceUnsupported = errors.New("不支持的导入源")
)

// 错误响应中的机器可读代码
const (
	CodeBadRequest          = "BAD_REQUEST"
	CodeNotFound            = "NOT_FOUND"
	CodeConflict            = "CONFLICT"
	CodeStoreUnavailable    = "STORE_UNAVAILABLE"
	CodeUpstreamError       = "UPSTREAM_ERROR"
	CodeUpstreamUnavailable = "UPSTREAM_UNAVAILABLE"
	CodeRateLimited         = "RATE_LIMITED"
	CodeInternal            = "INTERNAL_ERROR"
)
