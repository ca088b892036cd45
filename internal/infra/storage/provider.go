/*
 * @Description: 导入源提供者
 * @Author: 安知鱼
 * @Date: 2025-06-28 17:10:52
 * @LastEditTime: 2025-10-13 15:20:06
 * @LastEditors: 安知鱼
 */
package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/anzhiyu-c/anime-explorer/pkg/constant"
)

// SourceOpener 按地址打开一个可顺序读取的导入源
type SourceOpener interface {
	Open(ctx context.Context, uri string) (io.ReadCloser, error)
}

// MultiSource 根据地址前缀分派到具体的提供者：s3://bucket/key 走 S3，其余视为本地路径
type MultiSource struct {
	local SourceOpener
	s3    SourceOpener
}

// NewMultiSource s3 可以为 nil，此时 s3:// 地址会返回 ErrSourceUnsupported
func NewMultiSource(local, s3 SourceOpener) *MultiSource {
	return &MultiSource{local: local, s3: s3}
}

func (m *MultiSource) Open(ctx context.Context, uri string) (io.ReadCloser, error) {
	uri = strings.TrimSpace(uri)
	if uri == "" {
		return nil, fmt.Errorf("导入源地址为空: %w", constant.ErrBadRequest)
	}
	if strings.HasPrefix(uri, s3Scheme) {
		if m.s3 == nil {
			return nil, fmt.Errorf("未配置 S3，无法读取 %s: %w", uri, constant.ErrSourceUnsupported)
		}
		return m.s3.Open(ctx, uri)
	}
	if i := strings.Index(uri, "://"); i > 0 && !strings.HasPrefix(uri, "file://") {
		return nil, fmt.Errorf("%s: %w", uri, constant.ErrSourceUnsupported)
	}
	return m.local.Open(ctx, strings.TrimPrefix(uri, "file://"))
}
