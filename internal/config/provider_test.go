package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/titledger/v1/pkg/types"
)

// TestNewProvider_WithNilConfig_ReturnsDefaults 空配置时所有区域返回默认值
func TestNewProvider_WithNilConfig_ReturnsDefaults(t *testing.T) {
	provider := NewProvider(nil)

	apiOpts := provider.GetAPI()
	require.NotNil(t, apiOpts)
	assert.True(t, apiOpts.HTTP.Enabled, "HTTP服务应默认启用")
	assert.Equal(t, 28680, apiOpts.HTTP.Port, "默认HTTP端口应为28680")

	ledgerOpts := provider.GetLedger()
	require.NotNil(t, ledgerOpts)
	assert.Equal(t, "tdl-admin", ledgerOpts.Admin, "默认管理员身份应为tdl-admin")
	assert.Equal(t, "badger", ledgerOpts.StorageEngine, "默认存储引擎应为badger")
	assert.True(t, ledgerOpts.CacheEnabled, "读缓存应默认启用")

	logOpts := provider.GetLog()
	require.NotNil(t, logOpts)
	assert.Equal(t, "info", logOpts.Level, "默认日志级别应为info")

	eventOpts := provider.GetEvent()
	require.NotNil(t, eventOpts)
	assert.True(t, eventOpts.Enabled, "事件系统应默认启用")
}

// TestGetLedger_WithUserConfig_OverridesDefaults 用户配置覆盖账本默认值
func TestGetLedger_WithUserConfig_OverridesDefaults(t *testing.T) {
	cfg := &types.AppConfig{
		Ledger: &types.UserLedgerConfig{
			Admin:            types.StringPtr("ops-admin"),
			DefaultValidator: types.StringPtr("surveyor-office"),
			StorageEngine:    types.StringPtr("bolt"),
			CacheEnabled:     types.BoolPtr(false),
		},
	}

	provider := NewProvider(cfg)
	opts := provider.GetLedger()

	assert.Equal(t, "ops-admin", opts.Admin)
	assert.Equal(t, "surveyor-office", opts.DefaultValidator)
	assert.Equal(t, "bolt", opts.StorageEngine)
	assert.False(t, opts.CacheEnabled)
	// 未覆盖的字段保持默认值
	assert.Equal(t, "tdl-treasury", opts.TreasuryIdentity, "未覆盖的托管账户应保持默认值")
}

// TestGetBadger_WithDataRoot_BuildsEnginePath data_root应派生各引擎子目录
func TestGetBadger_WithDataRoot_BuildsEnginePath(t *testing.T) {
	cfg := &types.AppConfig{
		Storage: &types.UserStorageConfig{
			DataRoot: types.StringPtr("/var/lib/tdl"),
			InMemory: types.BoolPtr(true),
		},
	}

	provider := NewProvider(cfg)

	badgerOpts := provider.GetBadger()
	assert.Equal(t, "/var/lib/tdl/badger", badgerOpts.Path)
	assert.True(t, badgerOpts.InMemory)

	boltOpts := provider.GetBolt()
	assert.Equal(t, "/var/lib/tdl/bolt/ledger.db", boltOpts.Path)
}

// TestGetAPI_WithUserConfig_OverridesPort 用户配置覆盖HTTP端口
func TestGetAPI_WithUserConfig_OverridesPort(t *testing.T) {
	cfg := &types.AppConfig{
		API: &types.UserAPIConfig{
			HTTPPort:    types.IntPtr(9090),
			HTTPEnabled: types.BoolPtr(false),
		},
	}

	provider := NewProvider(cfg)
	opts := provider.GetAPI()

	assert.Equal(t, 9090, opts.HTTP.Port)
	assert.False(t, opts.HTTP.Enabled)
	assert.True(t, opts.HTTP.CORSEnabled, "未覆盖的CORS开关应保持默认启用")
}

// TestApplyEnvOverrides_WithEnvironment_WinsOverFile 环境变量优先于配置文件
func TestApplyEnvOverrides_WithEnvironment_WinsOverFile(t *testing.T) {
	t.Setenv("TDL_HTTP_PORT", "18080")
	t.Setenv("TDL_ADMIN", "env-admin")
	t.Setenv("TDL_STORAGE_ENGINE", "bolt")

	cfg := &types.AppConfig{
		API: &types.UserAPIConfig{
			HTTPPort: types.IntPtr(9090),
		},
		Ledger: &types.UserLedgerConfig{
			Admin: types.StringPtr("file-admin"),
		},
	}

	provider := NewProvider(cfg)

	assert.Equal(t, 18080, provider.GetAPI().HTTP.Port, "环境变量端口应覆盖文件配置")
	assert.Equal(t, "env-admin", provider.GetLedger().Admin, "环境变量管理员应覆盖文件配置")
	assert.Equal(t, "bolt", provider.GetLedger().StorageEngine)
}

// TestGetEnvironment_Defaults 运行环境解析
func TestGetEnvironment_Defaults(t *testing.T) {
	t.Run("未配置时默认dev", func(t *testing.T) {
		cfg := &types.AppConfig{}
		assert.Equal(t, types.EnvDev, cfg.GetEnvironment())
	})

	t.Run("显式配置prod", func(t *testing.T) {
		cfg := &types.AppConfig{Environment: types.StringPtr("prod")}
		assert.Equal(t, types.EnvProd, cfg.GetEnvironment())
	})
}
