package utility

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/anzhiyu-c/anime-explorer/pkg/constant"
)

// startRedis 启动一个临时 Redis 容器，Docker 不可用时跳过
func startRedis(t *testing.T) *redis.Client {
	t.Helper()
	if testing.Short() {
		t.Skip("short 模式下跳过 Redis 集成测试")
	}
	ctx := context.Background()

	var (
		container testcontainers.Container
		err       error
	)
	func() {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("docker not available: %v", r)
			}
		}()
		container, err = testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
			ContainerRequest: testcontainers.ContainerRequest{
				Image:        "redis:7-alpine",
				ExposedPorts: []string{"6379/tcp"},
				WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(60 * time.Second),
			},
			Started: true,
		})
	}()
	if err != nil {
		t.Skipf("Docker 不可用，跳过: %v", err)
	}
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: fmt.Sprintf("%s:%s", host, port.Port())})
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.Ping(ctx).Err())
	return client
}

func TestRedisLockerTryLock(t *testing.T) {
	client := startRedis(t)
	ctx := context.Background()

	t.Run("同一个键只能被持有一次", func(t *testing.T) {
		l := NewRedisLocker(client)
		unlock, err := l.TryLock(ctx, "animes", time.Minute)
		require.NoError(t, err)

		_, err = NewRedisLocker(client).TryLock(ctx, "animes", time.Minute)
		require.ErrorIs(t, err, constant.ErrImportRunning)

		unlock()
		unlock, err = l.TryLock(ctx, "animes", time.Minute)
		require.NoError(t, err)
		unlock()
	})

	t.Run("过期后可以重新获取", func(t *testing.T) {
		l := NewRedisLocker(client)
		_, err := l.TryLock(ctx, "expiring", 200*time.Millisecond)
		require.NoError(t, err)

		require.Eventually(t, func() bool {
			unlock, err := l.TryLock(ctx, "expiring", time.Minute)
			if err != nil {
				return false
			}
			unlock()
			return true
		}, 5*time.Second, 100*time.Millisecond)
	})

	t.Run("旧持有者不会释放新持有者的锁", func(t *testing.T) {
		l := NewRedisLocker(client)
		staleUnlock, err := l.TryLock(ctx, "handover", 200*time.Millisecond)
		require.NoError(t, err)

		var unlock func()
		require.Eventually(t, func() bool {
			unlock, err = l.TryLock(ctx, "handover", time.Minute)
			return err == nil
		}, 5*time.Second, 100*time.Millisecond)
		defer unlock()

		staleUnlock()
		_, err = l.TryLock(ctx, "handover", time.Minute)
		require.ErrorIs(t, err, constant.ErrImportRunning)
	})

	t.Run("释放失败时记录日志", func(t *testing.T) {
		var buf bytes.Buffer
		log.SetOutput(&buf)
		defer log.SetOutput(os.Stderr)

		other := redis.NewClient(&redis.Options{Addr: client.Options().Addr})
		unlock, err := NewRedisLocker(other).TryLock(ctx, "release-error", time.Minute)
		require.NoError(t, err)
		require.NoError(t, other.Close())

		unlock()
		require.Contains(t, buf.String(), "释放 Redis 锁 anime:lock:release-error 失败")
		require.NoError(t, client.Del(ctx, "anime:lock:release-error").Err())
	})

	t.Run("锁已过期时记录日志", func(t *testing.T) {
		var buf bytes.Buffer
		log.SetOutput(&buf)
		defer log.SetOutput(os.Stderr)

		unlock, err := NewRedisLocker(client).TryLock(ctx, "expired", time.Minute)
		require.NoError(t, err)
		require.NoError(t, client.Del(ctx, "anime:lock:expired").Err())

		unlock()
		require.Contains(t, buf.String(), "已过期或被其他持有者获取")
	})

	t.Run("工厂在有客户端时返回 RedisLocker", func(t *testing.T) {
		_, ok := NewLockerWithFallback(client).(*RedisLocker)
		require.True(t, ok)
	})
}
