// Package interfaces 定义验证方目录的引擎内部事务接口
//
// 登记引擎在自身事务内完成验证方能力检查时，必须经由调用方已打开
// 的事务句柄读取，保证检查与落账处于同一原子视图。
package interfaces

import (
	"github.com/titledger/v1/pkg/interfaces/infrastructure/storage"
	"github.com/titledger/v1/pkg/types"
)

// TxDirectory 事务内验证方记录读取接口
type TxDirectory interface {
	// GetInTx 在调用方事务内读取验证方记录，未注册返回(nil, nil)
	GetInTx(tx storage.Transaction, id types.Identity) (*types.ValidatorRecord, error)
}
