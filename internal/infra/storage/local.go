/*
 * @Description: 本地文件导入源
 * @Author: 安知鱼
 * @Date: 2025-06-28 17:10:52
 * @LastEditTime: 2025-10-13 15:22:40
 * @LastEditors: 安知鱼
 */
package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/anzhiyu-c/anime-explorer/pkg/constant"
)

// LocalSource 从本地文件系统读取导入文件
type LocalSource struct {
	// BaseDir 非空时，相对路径相对于它解析
	BaseDir string
}

func NewLocalSource(baseDir string) *LocalSource {
	return &LocalSource{BaseDir: baseDir}
}

func (l *LocalSource) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	if l.BaseDir != "" && !filepath.IsAbs(path) {
		path = filepath.Join(l.BaseDir, path)
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", path, constant.ErrSourceNotFound)
		}
		return nil, fmt.Errorf("读取文件信息失败: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s 是目录: %w", path, constant.ErrBadRequest)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("打开文件失败: %w", err)
	}
	return f, nil
}
