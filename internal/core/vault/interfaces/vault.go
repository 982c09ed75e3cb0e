// Package interfaces 定义支付金库的引擎内部事务接口
//
// 费用账本在单个存储事务内完成收费、分账与落账；金库划转经由
// 调用方传入的事务句柄执行，余额不足时错误向上传播使外层事务
// 整体回滚。
package interfaces

import (
	"math/big"

	"github.com/titledger/v1/pkg/interfaces/infrastructure/storage"
	"github.com/titledger/v1/pkg/types"
)

// TxVault 事务内金库划转接口
type TxVault interface {
	// TransferInTx 在调用方事务内划转Token余额
	//
	// 余额不足返回ErrInsufficientFunds。
	TransferInTx(tx storage.Transaction, token types.TokenKey, from, to types.Identity, amount *big.Int) error
}
