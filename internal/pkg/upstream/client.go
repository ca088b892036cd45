/*
 * @Description: 访问后端服务的 HTTP 客户端
 * @Author: 安知鱼
 * @Date: 2025-10-14 09:12:40
 * @LastEditTime: 2025-10-15 20:31:02
 * @LastEditors: 安知鱼
 */
package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// maxBodySize 后端响应体的读取上限
const maxBodySize = 8 << 20

// RequestOptions 单次请求的参数
type RequestOptions struct {
	Params  url.Values
	Timeout time.Duration
	Headers map[string]string
}

// Response 后端返回的 2xx 响应
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Decode 把响应体解析为 JSON
func (r *Response) Decode(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("解析后端响应失败: %w", err)
	}
	return nil
}

// Client 后端访问接口；非 2xx 返回 *StatusError，未收到响应返回 *TransportError，
// 请求无法构造返回 *RequestError
type Client interface {
	Get(ctx context.Context, rawURL string, opts RequestOptions) (*Response, error)
}

type httpClient struct {
	hc             *http.Client
	defaultTimeout time.Duration
}

// NewClient defaultTimeout 用于没有单独指定超时的请求
func NewClient(defaultTimeout time.Duration) Client {
	return NewClientWithHTTP(&http.Client{}, defaultTimeout)
}

// NewClientWithHTTP 使用自定义的 http.Client，测试中可以注入 httptest 的客户端
func NewClientWithHTTP(hc *http.Client, defaultTimeout time.Duration) Client {
	if defaultTimeout <= 0 {
		defaultTimeout = 10 * time.Second
	}
	return &httpClient{hc: hc, defaultTimeout: defaultTimeout}
}

func (c *httpClient) Get(ctx context.Context, rawURL string, opts RequestOptions) (*Response, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, &RequestError{URL: rawURL, Err: err}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, &RequestError{URL: rawURL, Err: fmt.Errorf("不支持的协议 %q", u.Scheme)}
	}
	if len(opts.Params) > 0 {
		q := u.Query()
		for key, values := range opts.Params {
			for _, v := range values {
				q.Add(key, v)
			}
		}
		u.RawQuery = q.Encode()
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = c.defaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, &RequestError{URL: rawURL, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	for key, value := range opts.Headers {
		req.Header.Set(key, value)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, &TransportError{URL: u.String(), Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, &TransportError{URL: u.String(), Err: fmt.Errorf("读取响应体失败: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{URL: u.String(), StatusCode: resp.StatusCode, Body: body}
	}
	return &Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: body}, nil
}
