// Package vault 提供支付Token金库的公共接口定义
//
// 📊 **支付金库 (Payment Vault) 设计定位**
//
// 🎯 **核心职责**：
// 系统边界上的同质化Token余额托管：充值、划转、余额查询。
// 费用账本的所有资金流（收费、佣金与服务费提现）均经由金库完成。
//
// 💡 **设计理念**：
// 金库是宿主Token能力的本地化身：余额按(Token, 身份)记账，
// 划转失败（余额不足）向上传播并使外层业务事务整体回滚。
package vault

import (
	"context"
	"math/big"

	"github.com/titledger/v1/pkg/types"
)

// Vault 支付Token金库接口
type Vault interface {
	// Credit 充值指定身份的Token余额（仅管理员，宿主入金入口）
	Credit(ctx context.Context, caller types.Identity, token types.TokenKey, to types.Identity, amount *big.Int) error

	// Transfer 调用方向目标身份划转Token
	Transfer(ctx context.Context, caller types.Identity, token types.TokenKey, to types.Identity, amount *big.Int) error

	// BalanceOf 查询指定身份的Token余额，无记录返回0
	BalanceOf(ctx context.Context, token types.TokenKey, holder types.Identity) (*big.Int, error)
}
