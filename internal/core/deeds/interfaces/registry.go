// Package interfaces 定义资产登记引擎的引擎内部事务接口
//
// 费用账本与份额引擎的复合操作（付费铸造、托管锁定/释放）在各自的
// 单个存储事务内委托登记引擎落账，事务句柄由调用方传入。
package interfaces

import (
	"github.com/titledger/v1/pkg/interfaces/infrastructure/storage"
	"github.com/titledger/v1/pkg/types"
)

// TxRegistry 事务内资产登记操作接口
//
// ⚠️ 托管写入不触碰读缓存：事务的提交权在调用方手中，调用方必须在
// 自身事务提交成功后调用FlushCached清除受影响记录的缓存条目。
type TxRegistry interface {
	// GetInTx 在调用方事务内读取资产记录，不存在返回(nil, nil)
	GetInTx(tx storage.Transaction, id types.AssetID) (*types.AssetRecord, error)

	// CreateInTx 在调用方事务内铸造资产记录
	//
	// params.Owner被忽略，所有权归于owner参数（付费路径的付款人）。
	// 参数校验与验证方能力检查和直接铸造路径完全一致。
	CreateInTx(tx storage.Transaction, owner types.Identity, params types.AssetParams) (*types.AssetRecord, error)

	// LockCustodyInTx 在调用方事务内锁定资产托管
	//
	// 返回锁定后的记录快照。资产已处于托管时返回ErrAssetLocked。
	LockCustodyInTx(tx storage.Transaction, id types.AssetID, custodian types.Identity) (*types.AssetRecord, error)

	// ReleaseCustodyInTx 在调用方事务内释放资产托管
	//
	// 持有权转给recipient并清除托管标志，返回释放后的记录快照。
	ReleaseCustodyInTx(tx storage.Transaction, id types.AssetID, recipient types.Identity) (*types.AssetRecord, error)

	// FlushCached 清除指定资产的读缓存条目（提交后调用，幂等）
	FlushCached(id types.AssetID)
}
