package config

import (
	"github.com/caarlos0/env/v11"

	"github.com/titledger/v1/pkg/types"
)

// envOverrides 节点级环境变量覆盖
// 环境变量优先于配置文件，便于容器化部署时注入差异化配置
type envOverrides struct {
	HTTPPort      int    `env:"TDL_HTTP_PORT"`
	DataDir       string `env:"TDL_DATA_DIR"`
	LogLevel      string `env:"TDL_LOG_LEVEL"`
	Admin         string `env:"TDL_ADMIN"`
	StorageEngine string `env:"TDL_STORAGE_ENGINE"`
}

// applyEnvOverrides 将环境变量覆盖写回应用配置
// 解析失败静默忽略：环境变量格式错误不应阻止节点以文件配置启动
func applyEnvOverrides(appConfig *types.AppConfig) {
	if appConfig == nil {
		return
	}

	var overrides envOverrides
	if err := env.Parse(&overrides); err != nil {
		return
	}

	if overrides.HTTPPort > 0 {
		if appConfig.API == nil {
			appConfig.API = &types.UserAPIConfig{}
		}
		appConfig.API.HTTPPort = types.IntPtr(overrides.HTTPPort)
	}

	if overrides.DataDir != "" {
		if appConfig.Storage == nil {
			appConfig.Storage = &types.UserStorageConfig{}
		}
		appConfig.Storage.DataRoot = types.StringPtr(overrides.DataDir)
	}

	if overrides.LogLevel != "" {
		if appConfig.Log == nil {
			appConfig.Log = &types.UserLogConfig{}
		}
		appConfig.Log.Level = types.StringPtr(overrides.LogLevel)
	}

	if overrides.Admin != "" {
		if appConfig.Ledger == nil {
			appConfig.Ledger = &types.UserLedgerConfig{}
		}
		appConfig.Ledger.Admin = types.StringPtr(overrides.Admin)
	}

	if overrides.StorageEngine != "" {
		if appConfig.Ledger == nil {
			appConfig.Ledger = &types.UserLedgerConfig{}
		}
		appConfig.Ledger.StorageEngine = types.StringPtr(overrides.StorageEngine)
	}
}
