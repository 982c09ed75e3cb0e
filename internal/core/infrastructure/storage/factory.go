// Package storage 提供存储服务工厂实现
package storage

import (
	"fmt"

	ledgerconfig "github.com/titledger/v1/internal/config/ledger"
	badgerconfig "github.com/titledger/v1/internal/config/storage/badger"
	boltconfig "github.com/titledger/v1/internal/config/storage/bolt"
	memoryconfig "github.com/titledger/v1/internal/config/storage/memory"
	"github.com/titledger/v1/internal/core/infrastructure/storage/badger"
	"github.com/titledger/v1/internal/core/infrastructure/storage/bolt"
	"github.com/titledger/v1/internal/core/infrastructure/storage/memory"
	"github.com/titledger/v1/pkg/interfaces/config"
	"github.com/titledger/v1/pkg/interfaces/infrastructure/log"
	storageInterface "github.com/titledger/v1/pkg/interfaces/infrastructure/storage"
)

// ServiceInput 定义存储服务工厂的输入参数
type ServiceInput struct {
	Provider config.Provider // 配置提供者
	Logger   log.Logger      // 日志记录器
}

// ServiceOutput 定义存储服务工厂的输出结果
type ServiceOutput struct {
	KVStore     storageInterface.KVStore
	MemoryStore storageInterface.MemoryStore
}

// CreateStorageServices 创建存储服务
//
// 🏭 **存储服务工厂**：
// 按账本配置选择持久化引擎（badger | bolt），并装配内存缓存层。
// 四个账本引擎共享这里创建的同一个KVStore实例。
func CreateStorageServices(input ServiceInput) (ServiceOutput, error) {
	provider := input.Provider
	logger := input.Logger

	var storageLogger log.Logger
	if logger != nil {
		storageLogger = logger.With("module", "storage")
	}

	// 按配置选择持久化引擎
	ledgerCfg := ledgerconfig.NewFromOptions(provider.GetLedger())
	engine := ledgerCfg.GetStorageEngine()

	var (
		kvStore storageInterface.KVStore
		err     error
	)

	switch engine {
	case ledgerconfig.EngineBadger:
		badgerCfg := badgerconfig.NewFromOptions(provider.GetBadger())
		kvStore, err = badger.New(badgerCfg, storageLogger)
	case ledgerconfig.EngineBolt:
		boltCfg := boltconfig.NewFromOptions(provider.GetBolt())
		kvStore, err = bolt.New(boltCfg, storageLogger)
	default:
		return ServiceOutput{}, fmt.Errorf("未知的存储引擎: %s", engine)
	}

	if err != nil {
		if storageLogger != nil {
			storageLogger.Errorf("存储引擎[%s]初始化失败: %v", engine, err)
		}
		return ServiceOutput{}, fmt.Errorf("存储初始化失败: %w", err)
	}

	if storageLogger != nil {
		storageLogger.Infof("✅ 持久化存储初始化成功，引擎: %s", engine)
	}

	// 初始化内存缓存层
	memoryCfg := memoryconfig.NewFromOptions(provider.GetMemory())
	memoryStore, err := memory.New(memoryCfg, storageLogger)
	if err != nil {
		// 缓存失败不阻止启动，读路径直接回源持久层
		if storageLogger != nil {
			storageLogger.Warnf("内存缓存初始化失败，读路径将直接访问持久层: %v", err)
		}
		memoryStore = nil
	} else if storageLogger != nil {
		storageLogger.Info("✅ 内存缓存初始化成功")
	}

	return ServiceOutput{
		KVStore:     kvStore,
		MemoryStore: memoryStore,
	}, nil
}
