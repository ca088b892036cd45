/*
 * @Description: 统一配置管理 (手动加载：ini 文件 -> viper -> 环境变量)
 * @Author: 安知鱼
 * @Date: 2025-06-28 00:21:55
 * @LastEditTime: 2025-10-12 16:40:11
 * @LastEditors: 安知鱼
 */
package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-ini/ini"
	"github.com/spf13/viper"
)

// DefaultFilePath 默认配置文件位置
const DefaultFilePath = "data/conf.ini"

// EnvPrefix 环境变量前缀，例如 ANIME_MONGO_URI
const EnvPrefix = "ANIME"

const (
	KeyServerDebug = "System.Debug"

	KeyDataServerPort = "DataServer.Port"
	KeyMainServerPort = "MainServer.Port"

	KeyMongoURI               = "Mongo.URI"
	KeyMongoDatabase          = "Mongo.Database"
	KeyMongoCollection        = "Mongo.Collection"
	KeyMongoRatingsCollection = "Mongo.RatingsCollection"
	KeyMongoTimeout           = "Mongo.Timeout"

	KeyRedisAddr     = "Redis.Addr"
	KeyRedisPassword = "Redis.Password"
	KeyRedisDB       = "Redis.DB"

	KeySearchDefaultPageSize = "Search.DefaultPageSize"
	KeySearchMaxPageSize     = "Search.MaxPageSize"

	KeyImportBatchSize          = "Import.BatchSize"
	KeyImportDefaultLimit       = "Import.DefaultLimit"
	KeyImportRateLimitPerMinute = "Import.RateLimitPerMinute"

	KeyS3Region    = "S3.Region"
	KeyS3Endpoint  = "S3.Endpoint"
	KeyS3AccessKey = "S3.AccessKey"
	KeyS3SecretKey = "S3.SecretKey"

	KeyBackendDataURL       = "Backend.DataURL"
	KeyBackendRatingsURL    = "Backend.RatingsURL"
	KeyBackendTimeout       = "Backend.Timeout"
	KeyBackendHealthTimeout = "Backend.HealthTimeout"

	KeyGatewayProbeSchedule = "Gateway.ProbeSchedule"
)

// defaults 内部默认值，文件和环境变量都没有提供时生效
var defaults = map[string]any{
	KeyServerDebug:              false,
	KeyDataServerPort:           "4001",
	KeyMainServerPort:           "3000",
	KeyMongoURI:                 "mongodb://localhost:27017",
	KeyMongoDatabase:            "tweb_anime",
	KeyMongoCollection:          "animes",
	KeyMongoRatingsCollection:   "ratings",
	KeyMongoTimeout:             5,
	KeyRedisDB:                  0,
	KeySearchDefaultPageSize:    10,
	KeySearchMaxPageSize:        50,
	KeyImportBatchSize:          1000,
	KeyImportDefaultLimit:       20000,
	KeyImportRateLimitPerMinute: 6,
	KeyS3Region:                 "us-east-1",
	KeyBackendDataURL:           "http://localhost:4001",
	KeyBackendRatingsURL:        "http://localhost:4001",
	KeyBackendTimeout:           10,
	KeyBackendHealthTimeout:     5,
	KeyGatewayProbeSchedule:     "@every 1m",
}

// 定义所有已知的配置键
var allKeys = []string{
	KeyServerDebug, KeyDataServerPort, KeyMainServerPort,
	KeyMongoURI, KeyMongoDatabase, KeyMongoCollection, KeyMongoRatingsCollection, KeyMongoTimeout,
	KeyRedisAddr, KeyRedisPassword, KeyRedisDB,
	KeySearchDefaultPageSize, KeySearchMaxPageSize,
	KeyImportBatchSize, KeyImportDefaultLimit, KeyImportRateLimitPerMinute,
	KeyS3Region, KeyS3Endpoint, KeyS3AccessKey, KeyS3SecretKey,
	KeyBackendDataURL, KeyBackendRatingsURL, KeyBackendTimeout, KeyBackendHealthTimeout,
	KeyGatewayProbeSchedule,
}

type Config struct {
	vp *viper.Viper
}

// NewConfig 从默认位置加载配置
func NewConfig() (*Config, error) {
	return NewConfigFromFile(DefaultFilePath)
}

// NewConfigFromFile 手动加载配置，确保可靠性
func NewConfigFromFile(filePath string) (*Config, error) {
	vp := viper.New()
	for key, value := range defaults {
		vp.SetDefault(key, value)
	}

	// --- 步骤 1: 使用 go-ini 从文件加载配置 ---
	iniCfg, err := ini.Load(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			log.Printf("提示: 未找到 %s，将创建默认配置文件。", filePath)
			if err := createDefaultConfigFile(filePath); err != nil {
				log.Printf("警告: 创建默认配置文件失败: %v，将仅依赖环境变量或内部默认值。", err)
			} else {
				log.Printf("✅ 已创建默认配置文件: %s", filePath)
				iniCfg, err = ini.Load(filePath)
				if err != nil {
					log.Printf("警告: 重新加载配置文件失败: %v", err)
				}
			}
		} else {
			return nil, fmt.Errorf("错误: 解析配置文件 '%s' 失败: %w", filePath, err)
		}
	}

	if iniCfg != nil {
		for _, section := range iniCfg.Sections() {
			for _, key := range section.Keys() {
				viperKey := fmt.Sprintf("%s.%s", section.Name(), key.Name())
				if section.Name() == ini.DefaultSection {
					viperKey = key.Name()
				}
				// 空值视为未配置，保留默认值
				if strings.TrimSpace(key.Value()) == "" {
					continue
				}
				vp.Set(viperKey, key.Value())
			}
		}
		log.Printf("从 %s 文件加载了配置。", filePath)
	}

	// --- 步骤 2: 环境变量覆盖 ---
	envReplacer := strings.NewReplacer(".", "_")
	for _, key := range allKeys {
		envVarName := fmt.Sprintf("%s_%s", EnvPrefix, envReplacer.Replace(strings.ToUpper(key)))
		if value, found := os.LookupEnv(envVarName); found {
			vp.Set(key, value)
			log.Printf("发现环境变量: %s, 已覆盖配置 '%s'。", envVarName, key)
		}
	}

	log.Println("✅ 配置加载器初始化完成。")
	return &Config{vp: vp}, nil
}

func (c *Config) GetString(key string) string {
	return c.vp.GetString(key)
}

func (c *Config) GetInt(key string) int {
	return c.vp.GetInt(key)
}

func (c *Config) GetBool(key string) bool {
	return c.vp.GetBool(key)
}

// GetSeconds 读取以秒为单位的整数配置，非正数时回退到 fallback
func (c *Config) GetSeconds(key string, fallback time.Duration) time.Duration {
	seconds := c.vp.GetInt(key)
	if seconds <= 0 {
		return fallback
	}
	return time.Duration(seconds) * time.Second
}

// createDefaultConfigFile 创建默认的配置文件
func createDefaultConfigFile(filePath string) error {
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("创建目录失败: %w", err)
	}

	defaultConfig := `[System]
Debug = false

[DataServer]
Port = 4001

[MainServer]
Port = 3000

[Mongo]
URI = mongodb://localhost:27017
Database = tweb_anime
Collection = animes
RatingsCollection = ratings
# 单位：秒
Timeout = 5

# Redis 配置（可选）
# 留空 Addr 时导入锁退化为进程内锁
[Redis]
Addr =
Password =
DB = 0

[Search]
DefaultPageSize = 10
MaxPageSize = 50

[Import]
BatchSize = 1000
DefaultLimit = 20000
RateLimitPerMinute = 6

# 使用 s3://bucket/key 作为导入源时需要
[S3]
Region = us-east-1
Endpoint =
AccessKey =
SecretKey =

[Backend]
DataURL = http://localhost:4001
RatingsURL = http://localhost:4001
Timeout = 10
HealthTimeout = 5

[Gateway]
ProbeSchedule = @every 1m
`

	if err := os.WriteFile(filePath, []byte(defaultConfig), 0644); err != nil {
		return fmt.Errorf("写入配置文件失败: %w", err)
	}

	return nil
}
