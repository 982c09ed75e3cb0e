// Package vault 实现支付Token金库引擎
//
// 📊 **支付金库 (Payment Vault)**
//
// 🎯 **核心职责**：
// 按(Token, 身份)托管同质化Token余额：管理员充值、身份间划转、
// 余额查询，并向费用账本暴露事务内划转能力。
//
// 💡 **设计要点**：
// - 余额以big.Int原始字节落盘，缺失键与零余额等价
// - 事务内划转供费用账本在单事务中完成"收费→分账→铸造"，
//   余额不足的错误向上传播使外层事务整体回滚
// - 公共操作的事件在事务提交成功后发布
package vault

import (
	"context"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/google/uuid"

	ledgerconfig "github.com/titledger/v1/internal/config/ledger"
	internalInterface "github.com/titledger/v1/internal/core/vault/interfaces"
	eventInterface "github.com/titledger/v1/pkg/interfaces/infrastructure/event"
	"github.com/titledger/v1/pkg/interfaces/infrastructure/log"
	"github.com/titledger/v1/pkg/interfaces/infrastructure/storage"
	vaultInterface "github.com/titledger/v1/pkg/interfaces/vault"
	"github.com/titledger/v1/pkg/types"
)

// Vault 支付金库实现
type Vault struct {
	store  storage.KVStore
	bus    eventInterface.EventBus
	config *ledgerconfig.Config
	logger log.Logger

	mu sync.Mutex // 串行化公共变更操作
}

// 接口实现检查
var (
	_ vaultInterface.Vault      = (*Vault)(nil)
	_ internalInterface.TxVault = (*Vault)(nil)
)

// New 创建支付金库
func New(
	store storage.KVStore,
	bus eventInterface.EventBus,
	config *ledgerconfig.Config,
	logger log.Logger,
) (*Vault, error) {
	if store == nil {
		return nil, fmt.Errorf("kvStore 不能为空")
	}
	if config == nil {
		return nil, fmt.Errorf("ledgerConfig 不能为空")
	}

	v := &Vault{
		store:  store,
		bus:    bus,
		config: config,
		logger: logger,
	}

	if logger != nil {
		logger.Info("✅ 支付金库已初始化")
	}

	return v, nil
}

// Credit 充值指定身份的Token余额（仅管理员）
func (v *Vault) Credit(ctx context.Context, caller types.Identity, token types.TokenKey, to types.Identity, amount *big.Int) error {
	if !caller.IsValid() || caller.String() != v.config.GetAdmin() {
		return ErrNotAuthorized
	}
	if !token.IsValid() {
		return ErrInvalidToken
	}
	if !to.IsValid() {
		return ErrInvalidRecipient
	}
	if amount == nil || amount.Sign() <= 0 {
		return ErrInvalidAmount
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	err := v.store.RunInTransaction(ctx, func(tx storage.Transaction) error {
		balance, err := v.getBalanceInTx(tx, token, to)
		if err != nil {
			return err
		}
		return v.setBalanceInTx(tx, token, to, new(big.Int).Add(balance, amount))
	})
	if err != nil {
		return err
	}

	if v.logger != nil {
		v.logger.Infof("💰 金库充值: token=%s to=%s amount=%s", token, to, amount)
	}
	v.publish(types.EventVaultCredited, token, "", to, amount)
	return nil
}

// Transfer 调用方向目标身份划转Token
func (v *Vault) Transfer(ctx context.Context, caller types.Identity, token types.TokenKey, to types.Identity, amount *big.Int) error {
	if !caller.IsValid() {
		return ErrNotAuthorized
	}
	if !token.IsValid() {
		return ErrInvalidToken
	}
	if !to.IsValid() {
		return ErrInvalidRecipient
	}
	if amount == nil || amount.Sign() <= 0 {
		return ErrInvalidAmount
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	err := v.store.RunInTransaction(ctx, func(tx storage.Transaction) error {
		return v.TransferInTx(tx, token, caller, to, amount)
	})
	if err != nil {
		return err
	}

	v.publish(types.EventVaultTransferred, token, caller, to, amount)
	return nil
}

// TransferInTx 在调用方事务内划转Token余额
//
// 事务可见性保证中间写入对后续读取可见，自我划转因此余额不变。
// 本方法不发布事件，提交归属外层调用方。
func (v *Vault) TransferInTx(tx storage.Transaction, token types.TokenKey, from, to types.Identity, amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return ErrInvalidAmount
	}

	fromBalance, err := v.getBalanceInTx(tx, token, from)
	if err != nil {
		return err
	}
	if fromBalance.Cmp(amount) < 0 {
		return ErrInsufficientFunds
	}

	if err := v.setBalanceInTx(tx, token, from, new(big.Int).Sub(fromBalance, amount)); err != nil {
		return err
	}

	toBalance, err := v.getBalanceInTx(tx, token, to)
	if err != nil {
		return err
	}
	return v.setBalanceInTx(tx, token, to, new(big.Int).Add(toBalance, amount))
}

// BalanceOf 查询指定身份的Token余额，无记录返回0
func (v *Vault) BalanceOf(ctx context.Context, token types.TokenKey, holder types.Identity) (*big.Int, error) {
	data, err := v.store.Get(ctx, balKey(token.String(), holder))
	if err != nil {
		return nil, fmt.Errorf("读取余额失败: %w", err)
	}
	return new(big.Int).SetBytes(data), nil
}

// getBalanceInTx 读取事务内余额，缺失视为0
func (v *Vault) getBalanceInTx(tx storage.Transaction, token types.TokenKey, holder types.Identity) (*big.Int, error) {
	data, err := tx.Get(balKey(token.String(), holder))
	if err != nil {
		return nil, fmt.Errorf("读取余额失败: %w", err)
	}
	return new(big.Int).SetBytes(data), nil
}

// setBalanceInTx 写入事务内余额
func (v *Vault) setBalanceInTx(tx storage.Transaction, token types.TokenKey, holder types.Identity, balance *big.Int) error {
	if err := tx.Set(balKey(token.String(), holder), balance.Bytes()); err != nil {
		return fmt.Errorf("写入余额失败: %w", err)
	}
	return nil
}

// publish 在事务提交成功后发布金库事件
func (v *Vault) publish(eventType types.EventType, token types.TokenKey, from, to types.Identity, amount *big.Int) {
	if v.bus == nil {
		return
	}
	v.bus.PublishEvent(&types.TDLEvent{
		ID:        uuid.NewString(),
		EventType: eventType,
		Timestamp: time.Now(),
		Payload: &types.VaultEventPayload{
			Token:  token,
			From:   from,
			To:     to,
			Amount: new(big.Int).Set(amount),
		},
	})
}
