// Package treasury 提供费用与佣金账本的公共接口定义
//
// 📊 **费用账本 (Fee & Commission Ledger) 设计定位**
//
// 🎯 **核心职责**：
// 付费铸造的入口与流水编排：Token白名单、双档费用计划、
// 佣金费率、协议余额与佣金余额、提现。
//
// 🏗️ **架构边界**：
// ✅ 支付编排：收款→分账→委托登记引擎铸造，整体原子
// ✅ 余额记账：协议余额与按(收款人,Token)维度的佣金余额
// ❌ Token托管实现：余额变动委托给支付金库
// ❌ 记录落账细节：铸造委托给资产登记引擎的内部接口
//
// ⚠️ **重入约束**：
// 付费铸造持有忙标志，重入调用立即返回ErrReentrant而非阻塞。
package treasury

import (
	"context"
	"math/big"

	"github.com/titledger/v1/pkg/types"
)

// Ledger 费用与佣金账本接口
type Ledger interface {
	// Mint 付费铸造资产
	//
	// 流程：白名单检查 → 按调用方类别取费 → 单事务内完成
	// 付款、佣金分账、记录落账。params.Owner被忽略，所有权
	// 归于付款人（caller）。
	Mint(ctx context.Context, caller types.Identity, params types.AssetParams, validator types.Identity, token types.TokenKey) (*types.AssetRecord, error)

	// MintBatch 批量付费铸造
	//
	// 整批共用一次忙标志获取与一个存储事务；任一条目失败则
	// 所有支付与铸造整体回滚。
	MintBatch(ctx context.Context, caller types.Identity, items []types.AssetParams, validator types.Identity, token types.TokenKey) ([]*types.AssetRecord, error)

	// WithdrawServiceFees 提取协议服务费（仅管理员），划给费用接收人
	//
	// 返回实际提取额
	WithdrawServiceFees(ctx context.Context, caller types.Identity, token types.TokenKey) (*big.Int, error)

	// WithdrawCommission 提取调用方自身的佣金余额
	//
	// 返回实际提取额
	WithdrawCommission(ctx context.Context, caller types.Identity, token types.TokenKey) (*big.Int, error)

	// SetTokenWhitelisted 设置Token白名单状态（仅管理员）
	SetTokenWhitelisted(ctx context.Context, caller types.Identity, token types.TokenKey, whitelisted bool) error

	// SetFeeSchedule 设置Token的双档铸造费（仅管理员）
	SetFeeSchedule(ctx context.Context, caller types.Identity, token types.TokenKey, regular, validatorFee *big.Int) error

	// SetCommissionRates 设置双档佣金费率，每档≤10000基点（仅管理员）
	SetCommissionRates(ctx context.Context, caller types.Identity, rates types.CommissionRates) error

	// SetFeeRecipient 设置服务费接收人（仅管理员）
	SetFeeRecipient(ctx context.Context, caller types.Identity, recipient types.Identity) error

	// IsTokenWhitelisted 查询Token白名单状态
	IsTokenWhitelisted(ctx context.Context, token types.TokenKey) (bool, error)

	// FeeFor 查询指定Token和调用方类别的铸造费，未设置返回nil
	FeeFor(ctx context.Context, token types.TokenKey, class types.CallerClass) (*big.Int, error)

	// Rates 查询当前佣金费率
	Rates(ctx context.Context) (types.CommissionRates, error)

	// FeeRecipient 查询服务费接收人
	FeeRecipient(ctx context.Context) (types.Identity, error)

	// ProtocolBalance 查询协议服务费余额
	ProtocolBalance(ctx context.Context, token types.TokenKey) (*big.Int, error)

	// CommissionBalance 查询指定收款人的佣金余额
	CommissionBalance(ctx context.Context, recipient types.Identity, token types.TokenKey) (*big.Int, error)
}
