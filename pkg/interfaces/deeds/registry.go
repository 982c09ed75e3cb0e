// Package deeds 提供资产登记引擎的公共接口定义
//
// 📊 **资产登记 (Asset Registry) 设计定位**
//
// 🎯 **核心职责**：
// 作为TDL系统的权威所有权账本，维护资产记录的完整生命周期：
// 铸造 → 验证翻转/元数据更新 → 转移 → 销毁。
//
// 🏗️ **架构边界**：
// ✅ 记录存取：资产记录及持有人/类别旁路索引的原子维护
// ✅ 权限裁决：持有人、验证方两类调用方的操作权限检查
// ✅ 托管状态：份额引擎经内部接口独占写入托管标志
// ❌ 费用结算：付费铸造的支付流程由费用账本编排
// ❌ 身份鉴别：调用方身份由宿主接入层断言
//
// 💡 **设计理念**：
// 直接铸造路径仅对已注册验证方开放；常规身份经由费用账本的
// 付费铸造进入。两条路径产出的记录完全同构。
package deeds

import (
	"context"

	"github.com/titledger/v1/pkg/types"
)

// Registry 资产登记引擎接口
type Registry interface {
	// Create 直接铸造资产记录
	//
	// 调用方必须是已注册且启用的验证方。参数校验、协议认可检查
	// 通过后分配下一个编号并以Validated=true落账。
	Create(ctx context.Context, caller types.Identity, params types.AssetParams) (*types.AssetRecord, error)

	// UpdateMetadata 更新资产元数据
	//
	// 调用方必须是当前持有人或任一已注册启用的验证方。
	// 非验证方调用将强制Validated=false；验证方调用保持原值。
	UpdateMetadata(ctx context.Context, caller types.Identity, id types.AssetID, update types.AssetUpdate) (*types.AssetRecord, error)

	// Validate 翻转资产验证标志
	//
	// 仅限已注册启用且支持该资产类别的验证方；调用方不得为资产
	// 当前持有人（防止自我验证）。置true时记录的指派验证方更新
	// 为调用方。
	Validate(ctx context.Context, caller types.Identity, id types.AssetID, valid bool) error

	// Transfer 转移资产持有权
	//
	// 仅限当前持有人；托管锁定期间拒绝。
	Transfer(ctx context.Context, caller types.Identity, id types.AssetID, to types.Identity) error

	// Burn 销毁资产记录
	//
	// 仅限当前持有人；托管锁定期间拒绝。记录与旁路索引整体清除。
	Burn(ctx context.Context, caller types.Identity, id types.AssetID) error

	// BurnBatch 批量销毁资产记录
	//
	// 整批为单个原子调用：任一记录校验失败则全批回滚。
	BurnBatch(ctx context.Context, caller types.Identity, ids []types.AssetID) error

	// CanSubdivide 检查资产是否允许地块划分（仅Land/Estate为true）
	CanSubdivide(ctx context.Context, id types.AssetID) (bool, error)

	// Get 获取资产记录
	Get(ctx context.Context, id types.AssetID) (*types.AssetRecord, error)

	// HolderOf 获取资产当前持有人（实时查询，不走缓存）
	HolderOf(ctx context.Context, id types.AssetID) (types.Identity, error)

	// ListByHolder 按持有人列出资产记录（旁路索引）
	ListByHolder(ctx context.Context, holder types.Identity) ([]*types.AssetRecord, error)

	// ListByCategory 按类别列出资产记录（旁路索引）
	ListByCategory(ctx context.Context, category types.AssetCategory) ([]*types.AssetRecord, error)

	// Count 返回历史累计铸造数量（计数器当前值）
	Count(ctx context.Context) (uint64, error)

	// CallerIsValidator 判定调用方是否为已注册启用的验证方
	//
	// 供费用账本划分调用方类别（验证方档/常规档）使用
	CallerIsValidator(ctx context.Context, identity types.Identity) (bool, error)
}
