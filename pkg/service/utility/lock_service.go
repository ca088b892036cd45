/*
 * @Description: 基于键的互斥锁，用于保证同一集合同一时间只有一个导入任务
 * @Author: 安知鱼
 * @Date: 2025-07-14 01:41:43
 * @LastEditTime: 2025-10-13 16:22:18
 * @LastEditors: 安知鱼
 */
package utility

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/anzhiyu-c/anime-explorer/pkg/constant"
)

// Locker 非阻塞地获取锁；锁已被持有时返回 constant.ErrImportRunning
type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (unlock func(), err error)
}

// PathLocker 进程内实现，ttl 被忽略
type PathLocker struct {
	mu    sync.Mutex
	locks map[string]struct{}
}

// NewPathLocker 创建一个新的 PathLocker 实例。
func NewPathLocker() *PathLocker {
	return &PathLocker{
		locks: make(map[string]struct{}),
	}
}

func (l *PathLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, held := l.locks[key]; held {
		return nil, fmt.Errorf("%s: %w", key, constant.ErrImportRunning)
	}
	l.locks[key] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.locks, key)
			l.mu.Unlock()
		})
	}, nil
}

// 只有持有者（token 一致）才能删除锁
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker 基于 SET NX 的分布式锁，多个数据服务实例共享
type RedisLocker struct {
	rdb    redis.UniversalClient
	prefix string
}

func NewRedisLocker(rdb redis.UniversalClient) *RedisLocker {
	return &RedisLocker{rdb: rdb, prefix: "anime:lock:"}
}

func (l *RedisLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (func(), error) {
	fullKey := l.prefix + key
	token := uuid.NewString()

	ok, err := l.rdb.SetNX(ctx, fullKey, token, ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("获取 Redis 锁失败: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%s: %w", key, constant.ErrImportRunning)
	}

	return func() {
		// 调用方的 ctx 可能已经结束，释放锁使用独立的短超时
		releaseCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		released, err := releaseScript.Run(releaseCtx, l.rdb, []string{fullKey}, token).Int()
		switch {
		case err != nil:
			log.Printf("⚠️ 释放 Redis 锁 %s 失败: %v", fullKey, err)
		case released == 0:
			log.Printf("⚠️ Redis 锁 %s 已过期或被其他持有者获取，跳过释放", fullKey)
		}
	}, nil
}
