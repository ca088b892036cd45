package upstream

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// StatusError 后端返回了非 2xx 状态码
type StatusError struct {
	URL        string
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("请求 %s 失败，状态码 %d", e.URL, e.StatusCode)
}

// TransportError 没有收到任何响应，包括连接失败与超时
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	if e.Timeout() {
		return fmt.Sprintf("请求 %s 超时", e.URL)
	}
	return fmt.Sprintf("请求 %s 失败: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Timeout 是否因为超时而失败
func (e *TransportError) Timeout() bool {
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(e.Err, &netErr) && netErr.Timeout()
}

// RequestError 请求在发出之前就无法构造
type RequestError struct {
	URL string
	Err error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("无法构造请求 %s: %v", e.URL, e.Err)
}

func (e *RequestError) Unwrap() error { return e.Err }

// StatusCode 返回错误对应的后端状态码；没有收到响应时返回 0
func StatusCode(err error) int {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode
	}
	return 0
}
