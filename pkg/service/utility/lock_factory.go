package utility

import (
	"log"

	"github.com/redis/go-redis/v9"
)

// NewLockerWithFallback 有 Redis 时使用分布式锁，否则退化为进程内锁
func NewLockerWithFallback(redisClient *redis.Client) Locker {
	if redisClient == nil {
		log.Println("🔄 使用进程内导入锁")
		return NewPathLocker()
	}
	log.Println("✅ 使用 Redis 导入锁")
	return NewRedisLocker(redisClient)
}
