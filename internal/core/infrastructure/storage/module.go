// Package storage 提供存储管理功能
package storage

import (
	"context"

	"github.com/titledger/v1/pkg/interfaces/config"
	"github.com/titledger/v1/pkg/interfaces/infrastructure/log"
	storageInterface "github.com/titledger/v1/pkg/interfaces/infrastructure/storage"
	"go.uber.org/fx"
)

// ModuleParams 定义存储模块的依赖参数
type ModuleParams struct {
	fx.In

	Provider config.Provider // 配置提供者
	Logger   log.Logger      // 日志记录器
}

// ModuleOutput 定义存储模块的输出结构
type ModuleOutput struct {
	fx.Out

	KVStore     storageInterface.KVStore     // 账本持久化存储（必需，失败即错误）
	MemoryStore storageInterface.MemoryStore // 内存缓存（可选，失败时为nil）
}

// Module 返回存储模块
func Module() fx.Option {
	return fx.Module("storage",
		fx.Provide(ProvideServices),

		// 注册生命周期钩子，应用停止时关闭存储
		fx.Invoke(func(lc fx.Lifecycle, kvStore storageInterface.KVStore, memoryStore storageInterface.MemoryStore, logger log.Logger) {
			lc.Append(fx.Hook{
				OnStop: func(ctx context.Context) error {
					logger.Info("正在关闭存储服务...")

					// 先停内存缓存的后台清理例程
					if closer, ok := memoryStore.(interface{ Close() error }); ok && closer != nil {
						if err := closer.Close(); err != nil {
							logger.Errorf("关闭内存缓存失败: %v", err)
							// 不阻断持久层关闭
						}
					}

					if kvStore != nil {
						if err := kvStore.Close(); err != nil {
							logger.Errorf("关闭持久化存储失败: %v", err)
							return err
						}
					}

					logger.Info("存储服务已安全关闭")
					return nil
				},
			})
		}),
	)
}

// ProvideServices 提供存储服务
// 根据配置初始化持久化引擎与缓存层并返回
func ProvideServices(params ModuleParams) (ModuleOutput, error) {
	serviceOutput, err := CreateStorageServices(ServiceInput{
		Provider: params.Provider,
		Logger:   params.Logger,
	})
	if err != nil {
		return ModuleOutput{}, err
	}

	return ModuleOutput{
		KVStore:     serviceOutput.KVStore,
		MemoryStore: serviceOutput.MemoryStore,
	}, nil
}
