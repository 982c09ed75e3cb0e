// Package fractions 提供份额与地块划分引擎的公共接口定义
//
// 📊 **份额引擎 (Fraction Engine) 设计定位**
//
// 🎯 **核心职责**：
// 两种资产细分模式的账本维护：
// - 份额集合：接管底层资产托管，发行带钱包上限的份额，
//   经全额持有或审批投票解锁赎回底层资产
// - 地块划分：不转移托管的单元账本，仅限Land/Estate，
//   停用要求全部在册单元回到资产持有人手中
//
// 🏗️ **架构边界**：
// ✅ 份额/单元记账：所有权、持有计数、审批标志的原子维护
// ✅ 托管编排：经登记引擎内部接口锁定/释放底层资产
// ❌ 底层资产字段：托管期间不触碰登记记录的业务字段
//
// ⚠️ **铸造权约束**：
// 份额与单元的铸造权始终跟随底层资产的实时持有人（每次实时
// 查询登记引擎，不做缓存）。
package fractions

import (
	"context"

	"github.com/titledger/v1/pkg/types"
)

// Engine 份额与地块划分引擎接口
type Engine interface {
	//-------------------------------------------------------------------------
	// 份额集合
	//-------------------------------------------------------------------------

	// CreateFraction 创建份额集合并接管底层资产托管
	//
	// 调用方必须为资产当前持有人；资产不得已处于托管或存在
	// 活跃地块划分账本。
	CreateFraction(ctx context.Context, caller types.Identity, params types.FractionParams) (*types.FractionCollection, error)

	// MintShare 铸造单个份额
	//
	// 调用方必须为底层资产的实时持有人；接收方持有数受单钱包
	// 上限约束。
	MintShare(ctx context.Context, caller types.Identity, id types.CollectionID, index uint64, recipient types.Identity, metadata string) error

	// BatchMintShares 批量铸造份额，单事务原子完成
	BatchMintShares(ctx context.Context, caller types.Identity, id types.CollectionID, mints []types.ShareMint) error

	// BurnShare 销毁调用方持有的份额（集合须允许销毁）
	BurnShare(ctx context.Context, caller types.Identity, id types.CollectionID, index uint64) error

	// TransferShare 转让调用方持有的份额
	TransferShare(ctx context.Context, caller types.Identity, id types.CollectionID, index uint64, to types.Identity) error

	// BatchTransferShares 批量转让份额，单事务原子完成
	BatchTransferShares(ctx context.Context, caller types.Identity, id types.CollectionID, transfers []types.ShareTransfer) error

	// TransferShareFrom 集合管理员代持有人转让份额
	//
	// 要求该份额持有人已设置TransferApproved标志。
	TransferShareFrom(ctx context.Context, caller types.Identity, id types.CollectionID, index uint64, to types.Identity) error

	// SetApproval 设置调用方在集合中的转让/管理审批标志
	//
	// 调用方必须当前持有该集合至少一个份额。
	SetApproval(ctx context.Context, caller types.Identity, id types.CollectionID, transferApproved, adminApproved bool) error

	// UnlockAsset 解锁底层资产并终结集合
	//
	// checkApprovals=false：调用方必须持有全部流通份额；
	// checkApprovals=true：设置管理审批标志的去重持有人比例
	// 达到集合要求的百分比。成功后清除全部份额并将底层资产
	// 持有权释放给recipient。
	UnlockAsset(ctx context.Context, caller types.Identity, id types.CollectionID, recipient types.Identity, checkApprovals bool) error

	//-------------------------------------------------------------------------
	// 地块划分
	//-------------------------------------------------------------------------

	// CreateSubdivision 创建地块划分账本（仅Land/Estate，不转移托管）
	CreateSubdivision(ctx context.Context, caller types.Identity, params types.SubdivisionParams) (*types.SubdivisionLedger, error)

	// MintUnit 铸造单元（仅底层资产实时持有人，无钱包上限）
	MintUnit(ctx context.Context, caller types.Identity, id types.SubdivisionID, index uint64, recipient types.Identity, metadata string) error

	// BatchMintUnits 批量铸造单元，单事务原子完成
	BatchMintUnits(ctx context.Context, caller types.Identity, id types.SubdivisionID, mints []types.UnitMint) error

	// BurnUnit 销毁调用方持有的单元（账本须允许销毁）
	BurnUnit(ctx context.Context, caller types.Identity, id types.SubdivisionID, index uint64) error

	// TransferUnit 转让调用方持有的单元
	TransferUnit(ctx context.Context, caller types.Identity, id types.SubdivisionID, index uint64, to types.Identity) error

	// DeactivateSubdivision 停用地块划分账本
	//
	// 调用方必须为底层资产当前持有人；要求所有在册单元均已
	// 回到其手中（全量扫描校验），成功后清除剩余单元。
	DeactivateSubdivision(ctx context.Context, caller types.Identity, id types.SubdivisionID) error

	//-------------------------------------------------------------------------
	// 查询
	//-------------------------------------------------------------------------

	// GetCollection 获取份额集合记录
	GetCollection(ctx context.Context, id types.CollectionID) (*types.FractionCollection, error)

	// GetSubdivision 获取地块划分账本记录
	GetSubdivision(ctx context.Context, id types.SubdivisionID) (*types.SubdivisionLedger, error)

	// ShareOwner 查询份额持有人
	ShareOwner(ctx context.Context, id types.CollectionID, index uint64) (types.Identity, error)

	// UnitOwner 查询单元持有人
	UnitOwner(ctx context.Context, id types.SubdivisionID, index uint64) (types.Identity, error)

	// HolderShareCount 查询持有人在集合中的份额数
	HolderShareCount(ctx context.Context, id types.CollectionID, holder types.Identity) (uint64, error)

	// DistinctHolders 枚举集合当前的去重持有人
	DistinctHolders(ctx context.Context, id types.CollectionID) ([]types.Identity, error)

	// ApprovalOf 查询持有人的审批标志，无记录返回零值
	ApprovalOf(ctx context.Context, id types.CollectionID, holder types.Identity) (types.ApprovalRecord, error)

	// CollectionByAsset 查询资产当前关联的活跃份额集合，无则返回nil
	CollectionByAsset(ctx context.Context, assetID types.AssetID) (*types.FractionCollection, error)

	// SubdivisionByAsset 查询资产当前关联的活跃地块划分账本，无则返回nil
	SubdivisionByAsset(ctx context.Context, assetID types.AssetID) (*types.SubdivisionLedger, error)
}
