/*
 * @Description: 番剧 CSV 批量导入
 * @Author: 安知鱼
 * @Date: 2025-10-13 16:40:09
 * @LastEditTime: 2025-10-15 18:12:33
 * @LastEditors: 安知鱼
 */
package importer

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/jszwec/csvutil"

	"github.com/anzhiyu-c/anime-explorer/internal/infra/storage"
	"github.com/anzhiyu-c/anime-explorer/pkg/constant"
	"github.com/anzhiyu-c/anime-explorer/pkg/domain/model"
	"github.com/anzhiyu-c/anime-explorer/pkg/domain/repository"
	"github.com/anzhiyu-c/anime-explorer/pkg/service/utility"
)

const (
	DefaultBatchSize   = 1000
	DefaultImportLimit = 20000

	// importLockTTL 导入锁的最长持有时间，进程崩溃后锁会自动过期
	importLockTTL = 30 * time.Minute
	importLockKey = "import:animes"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ImportOptions 单次导入的参数
type ImportOptions struct {
	// Limit 最多接受的行数，小于 1 时使用 DefaultImportLimit
	Limit int
	// Source 写入记录的来源标记
	Source string
}

// ImportService 负责把 CSV 数据流导入番剧集合
type ImportService struct {
	repo      repository.AnimeRepository
	sources   storage.SourceOpener
	locker    utility.Locker
	batchSize int
}

// NewImportService sources 与 locker 只在 ImportSource 中使用，可以为 nil
func NewImportService(repo repository.AnimeRepository, sources storage.SourceOpener, locker utility.Locker, batchSize int) *ImportService {
	if batchSize < 1 {
		batchSize = DefaultBatchSize
	}
	if locker == nil {
		locker = utility.NewPathLocker()
	}
	return &ImportService{repo: repo, sources: sources, locker: locker, batchSize: batchSize}
}

// ImportSource 打开导入源并执行导入，同一时间只允许一个导入任务
func (s *ImportService) ImportSource(ctx context.Context, uri string, opts ImportOptions) (*model.ImportResult, error) {
	if s.sources == nil {
		return nil, fmt.Errorf("未配置导入源: %w", constant.ErrSourceUnsupported)
	}

	unlock, err := s.locker.TryLock(ctx, importLockKey, importLockTTL)
	if err != nil {
		return nil, err
	}
	defer unlock()

	rc, err := s.sources.Open(ctx, uri)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	log.Printf("开始导入 %s (limit=%d)", uri, opts.Limit)
	return s.Import(ctx, rc, opts)
}

// Import 顺序读取 CSV，逐行归一化后按批写入。
// 接受的行数达到 Limit 后继续把输入读完，但不再计数也不再写入。
// 单个批次写入失败只记录日志，不会中断导入。
func (s *ImportService) Import(ctx context.Context, r io.Reader, opts ImportOptions) (*model.ImportResult, error) {
	limit := opts.Limit
	if limit < 1 {
		limit = DefaultImportLimit
	}
	source := opts.Source
	if source == "" {
		source = model.SourceImport
	}

	result := &model.ImportResult{}

	dec, err := newDecoder(r)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return result, nil
		}
		return nil, fmt.Errorf("读取CSV表头失败: %w", err)
	}

	batch := make([]*model.Anime, 0, s.batchSize)
	for {
		if err := ctx.Err(); err != nil {
			s.flushBatch(context.WithoutCancel(ctx), batch, result)
			return result, err
		}

		var row csvRow
		err := dec.Decode(&row)
		if errors.Is(err, io.EOF) {
			break
		}
		accepting := result.Inserted < limit
		if err != nil {
			if !isRowError(err) {
				s.flushBatch(ctx, batch, result)
				return result, fmt.Errorf("读取CSV失败: %w", err)
			}
			if accepting {
				result.Scanned++
				log.Printf("⚠️ 跳过格式错误的CSV行: %v", err)
			}
			continue
		}
		if !accepting {
			continue
		}

		result.Scanned++
		anime, ok := normalizeRow(&row, source)
		if !ok {
			continue
		}
		batch = append(batch, anime)
		result.Inserted++

		if len(batch) >= s.batchSize {
			s.flushBatch(ctx, batch, result)
			batch = make([]*model.Anime, 0, s.batchSize)
		}
	}
	s.flushBatch(ctx, batch, result)

	log.Printf("✅ 导入完成: 扫描 %d 行, 接受 %d 行, 写入 %d 行, 失败批次 %d",
		result.Scanned, result.Inserted, result.Written, result.FailedBatches)
	return result, nil
}

// flushBatch 写入一批记录；失败时记录日志并计数，不向上返回错误
func (s *ImportService) flushBatch(ctx context.Context, batch []*model.Anime, result *model.ImportResult) {
	if len(batch) == 0 {
		return
	}
	written, err := s.repo.BulkInsert(ctx, batch)
	result.Written += written
	if err != nil {
		result.FailedBatches++
		log.Printf("⚠️ 批量写入失败 (%d 条, 成功 %d 条): %v", len(batch), written, err)
	}
}

// ReplaceSource 删除同一来源的旧记录后重新导入
func (s *ImportService) ReplaceSource(ctx context.Context, r io.Reader, opts ImportOptions) (deleted int64, result *model.ImportResult, err error) {
	deleted, err = s.repo.DeleteBySource(ctx, opts.Source)
	if err != nil {
		return 0, nil, fmt.Errorf("清理旧数据失败: %w", err)
	}
	result, err = s.Import(ctx, r, opts)
	return deleted, result, err
}

func newDecoder(r io.Reader) (*csvutil.Decoder, error) {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}
	cr := csv.NewReader(br)
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1
	return csvutil.NewDecoder(cr)
}

// isRowError 单行格式错误可以跳过，其余错误（如读取失败）需要中止
func isRowError(err error) bool {
	return errors.Is(err, csvutil.ErrFieldCount) ||
		errors.Is(err, csv.ErrFieldCount) ||
		errors.Is(err, csv.ErrQuote) ||
		errors.Is(err, csv.ErrBareQuote)
}
