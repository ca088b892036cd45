package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewConfigFromFile(t *testing.T) {
	t.Run("文件不存在时创建默认配置", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "data", "conf.ini")

		cfg, err := NewConfigFromFile(path)
		require.NoError(t, err)
		require.FileExists(t, path)
		require.Equal(t, "4001", cfg.GetString(KeyDataServerPort))
		require.Equal(t, "tweb_anime", cfg.GetString(KeyMongoDatabase))
		require.Equal(t, 50, cfg.GetInt(KeySearchMaxPageSize))
		require.Equal(t, "", cfg.GetString(KeyRedisAddr))
		require.Equal(t, "@every 1m", cfg.GetString(KeyGatewayProbeSchedule))
	})

	t.Run("文件中的值覆盖默认值，空值保留默认值", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "conf.ini")
		content := "[System]\nDebug = true\n\n[Mongo]\nDatabase = custom\nCollection =\n\n[Search]\nMaxPageSize = 30\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))

		cfg, err := NewConfigFromFile(path)
		require.NoError(t, err)
		require.True(t, cfg.GetBool(KeyServerDebug))
		require.Equal(t, "custom", cfg.GetString(KeyMongoDatabase))
		require.Equal(t, "animes", cfg.GetString(KeyMongoCollection))
		require.Equal(t, 30, cfg.GetInt(KeySearchMaxPageSize))
	})

	t.Run("环境变量优先于文件", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "conf.ini")
		require.NoError(t, os.WriteFile(path, []byte("[Backend]\nDataURL = http://file:4001\n"), 0644))
		t.Setenv("ANIME_BACKEND_DATAURL", "http://env:4001")
		t.Setenv("ANIME_IMPORT_BATCHSIZE", "250")

		cfg, err := NewConfigFromFile(path)
		require.NoError(t, err)
		require.Equal(t, "http://env:4001", cfg.GetString(KeyBackendDataURL))
		require.Equal(t, 250, cfg.GetInt(KeyImportBatchSize))
	})

	t.Run("无法解析的文件返回错误", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "conf.ini")
		require.NoError(t, os.WriteFile(path, []byte("[Broken\nKey = value\n"), 0644))

		_, err := NewConfigFromFile(path)
		require.Error(t, err)
	})
}

func TestGetSeconds(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf.ini")
	require.NoError(t, os.WriteFile(path, []byte("[Backend]\nTimeout = 3\nHealthTimeout = 0\n"), 0644))

	cfg, err := NewConfigFromFile(path)
	require.NoError(t, err)
	require.Equal(t, 3*time.Second, cfg.GetSeconds(KeyBackendTimeout, time.Minute))
	require.Equal(t, time.Minute, cfg.GetSeconds(KeyBackendHealthTimeout, time.Minute))
}
