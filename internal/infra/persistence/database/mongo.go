/*
 * @Description: MongoDB 连接管理
 * @Author: 安知鱼
 * @Date: 2025-10-12 18:05:12
 * @LastEditTime: 2025-10-14 11:31:48
 * @LastEditors: 安知鱼
 */
package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/anzhiyu-c/anime-explorer/pkg/config"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

// NewMongoClient 创建 MongoDB 客户端并确认连接可用。
// 与 Redis 不同，数据服务离不开 MongoDB，连接失败直接返回错误。
func NewMongoClient(ctx context.Context, cfg *config.Config) (*mongo.Client, error) {
	uri := cfg.GetString(config.KeyMongoURI)
	if uri == "" {
		return nil, fmt.Errorf("未配置 MongoDB 连接地址 (%s)", config.KeyMongoURI)
	}
	timeout := cfg.GetSeconds(config.KeyMongoTimeout, 5*time.Second)

	opts := options.Client().
		ApplyURI(uri).
		SetConnectTimeout(timeout).
		SetServerSelectionTimeout(timeout)

	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, fmt.Errorf("创建 MongoDB 客户端失败: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("连接 MongoDB 失败: %w", err)
	}

	log.Printf("✅ 成功连接到 MongoDB (%s/%s)", redactURI(uri), cfg.GetString(config.KeyMongoDatabase))
	return client, nil
}

// redactURI 去掉连接串中的账号密码，避免写入日志
func redactURI(uri string) string {
	const scheme = "://"
	start := 0
	for i := 0; i+len(scheme) <= len(uri); i++ {
		if uri[i:i+len(scheme)] == scheme {
			start = i + len(scheme)
			break
		}
	}
	for i := start; i < len(uri); i++ {
		switch uri[i] {
		case '@':
			return uri[:start] + "***" + uri[i:]
		case '/':
			return uri
		}
	}
	return uri
}
