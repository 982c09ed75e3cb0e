// Package treasury 实现费用与佣金账本引擎
//
// 📊 **费用账本 (Fee & Commission Ledger)**
//
// 🎯 **核心职责**：
// 付费铸造的流水编排：白名单检查 → 按调用方类别取费 → 单事务内
// 完成"收费 → 佣金分账 → 记录落账"，以及协议余额与佣金余额的提现。
//
// 💡 **设计要点**：
// - 付费铸造持有忙标志（CAS），重入调用立即返回ErrReentrant而非阻塞
// - 收费、分账与铸造共享同一个存储事务：任一环节失败全部回滚，
//   不存在"扣了钱没铸出资产"的中间状态
// - 佣金接收人解析为生效验证方的所有人，余额按(接收人, Token)记账
// - 事件在事务提交成功后发布
package treasury

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	ledgerconfig "github.com/titledger/v1/internal/config/ledger"
	deedsinternal "github.com/titledger/v1/internal/core/deeds/interfaces"
	validatorsinternal "github.com/titledger/v1/internal/core/validators/interfaces"
	vaultinternal "github.com/titledger/v1/internal/core/vault/interfaces"
	deedsInterface "github.com/titledger/v1/pkg/interfaces/deeds"
	eventInterface "github.com/titledger/v1/pkg/interfaces/infrastructure/event"
	"github.com/titledger/v1/pkg/interfaces/infrastructure/log"
	"github.com/titledger/v1/pkg/interfaces/infrastructure/storage"
	treasuryInterface "github.com/titledger/v1/pkg/interfaces/treasury"
	"github.com/titledger/v1/pkg/types"
)

// Ledger 费用与佣金账本实现
type Ledger struct {
	store       storage.KVStore
	vault       vaultinternal.TxVault
	registry    deedsInterface.Registry        // 调用方类别判定
	txRegistry  deedsinternal.TxRegistry       // 事务内落账
	txDirectory validatorsinternal.TxDirectory // 事务内佣金接收人解析
	bus         eventInterface.EventBus
	config      *ledgerconfig.Config
	logger      log.Logger

	mu   sync.Mutex // 串行化状态变更操作
	busy int32      // 付费铸造忙标志
}

// 接口实现检查
var _ treasuryInterface.Ledger = (*Ledger)(nil)

// New 创建费用账本
func New(
	store storage.KVStore,
	vault vaultinternal.TxVault,
	registry deedsInterface.Registry,
	txRegistry deedsinternal.TxRegistry,
	txDirectory validatorsinternal.TxDirectory,
	bus eventInterface.EventBus,
	config *ledgerconfig.Config,
	logger log.Logger,
) (*Ledger, error) {
	if store == nil {
		return nil, fmt.Errorf("kvStore 不能为空")
	}
	if vault == nil {
		return nil, fmt.Errorf("txVault 不能为空")
	}
	if registry == nil {
		return nil, fmt.Errorf("registry 不能为空")
	}
	if txRegistry == nil {
		return nil, fmt.Errorf("txRegistry 不能为空")
	}
	if txDirectory == nil {
		return nil, fmt.Errorf("txDirectory 不能为空")
	}
	if config == nil {
		return nil, fmt.Errorf("ledgerConfig 不能为空")
	}

	l := &Ledger{
		store:       store,
		vault:       vault,
		registry:    registry,
		txRegistry:  txRegistry,
		txDirectory: txDirectory,
		bus:         bus,
		config:      config,
		logger:      logger,
	}

	if logger != nil {
		logger.Info("✅ 费用账本已初始化")
	}

	return l, nil
}

// Mint 付费铸造资产
func (l *Ledger) Mint(ctx context.Context, caller types.Identity, params types.AssetParams, validator types.Identity, token types.TokenKey) (*types.AssetRecord, error) {
	if !token.IsValid() {
		return nil, ErrInvalidToken
	}
	if !caller.IsValid() {
		return nil, ErrNotAuthorized
	}

	if !atomic.CompareAndSwapInt32(&l.busy, 0, 1) {
		return nil, ErrReentrant
	}
	defer atomic.StoreInt32(&l.busy, 0)

	l.mu.Lock()
	defer l.mu.Unlock()

	class, fee, rates, err := l.resolveMintTerms(ctx, caller, token)
	if err != nil {
		return nil, err
	}

	var (
		record     *types.AssetRecord
		commission *big.Int
		recipient  types.Identity
	)
	err = l.store.RunInTransaction(ctx, func(tx storage.Transaction) error {
		var err error
		record, commission, recipient, err = l.mintOneInTx(tx, caller, params, validator, token, class, fee, rates)
		return err
	})
	if err != nil {
		return nil, err
	}

	if l.logger != nil {
		l.logger.Infof("💸 付费铸造: asset=%d caller=%s class=%s token=%s fee=%s commission=%s",
			record.ID, caller, class, token, fee, commission)
	}
	l.publishMinted(caller, token, class, fee, commission, recipient, record)
	return record, nil
}

// MintBatch 批量付费铸造
//
// 整批共用一次忙标志获取与一个存储事务。
func (l *Ledger) MintBatch(ctx context.Context, caller types.Identity, items []types.AssetParams, validator types.Identity, token types.TokenKey) ([]*types.AssetRecord, error) {
	if len(items) == 0 {
		return nil, nil
	}
	if !token.IsValid() {
		return nil, ErrInvalidToken
	}
	if !caller.IsValid() {
		return nil, ErrNotAuthorized
	}

	if !atomic.CompareAndSwapInt32(&l.busy, 0, 1) {
		return nil, ErrReentrant
	}
	defer atomic.StoreInt32(&l.busy, 0)

	l.mu.Lock()
	defer l.mu.Unlock()

	class, fee, rates, err := l.resolveMintTerms(ctx, caller, token)
	if err != nil {
		return nil, err
	}

	var (
		records    []*types.AssetRecord
		commission *big.Int
		recipient  types.Identity
	)
	err = l.store.RunInTransaction(ctx, func(tx storage.Transaction) error {
		// 事务函数可能被重试，重置累积结果
		records = make([]*types.AssetRecord, 0, len(items))
		for _, params := range items {
			rec, comm, rcpt, err := l.mintOneInTx(tx, caller, params, validator, token, class, fee, rates)
			if err != nil {
				return err
			}
			records = append(records, rec)
			commission, recipient = comm, rcpt
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if l.logger != nil {
		l.logger.Infof("💸 批量付费铸造: count=%d caller=%s class=%s token=%s fee=%s",
			len(records), caller, class, token, fee)
	}
	for _, rec := range records {
		l.publishMinted(caller, token, class, fee, commission, recipient, rec)
	}
	return records, nil
}

// resolveMintTerms 解析本次铸造的调用方类别、费用与佣金费率
func (l *Ledger) resolveMintTerms(ctx context.Context, caller types.Identity, token types.TokenKey) (types.CallerClass, *big.Int, types.CommissionRates, error) {
	var zero types.CommissionRates

	entry, err := l.getFeeEntry(ctx, token)
	if err != nil {
		return "", nil, zero, err
	}
	if entry == nil || !entry.Whitelisted {
		return "", nil, zero, ErrTokenNotWhitelisted
	}

	isValidator, err := l.registry.CallerIsValidator(ctx, caller)
	if err != nil {
		return "", nil, zero, err
	}
	class := types.CallerRegular
	if isValidator {
		class = types.CallerValidator
	}

	fee := entry.FeeFor(class)
	if fee == nil || fee.Sign() <= 0 {
		return "", nil, zero, ErrFeeNotSet
	}

	rates, err := l.Rates(ctx)
	if err != nil {
		return "", nil, zero, err
	}
	return class, fee, rates, nil
}

// mintOneInTx 在事务内完成单条铸造的收费、分账与落账
func (l *Ledger) mintOneInTx(tx storage.Transaction, caller types.Identity, params types.AssetParams, validator types.Identity, token types.TokenKey, class types.CallerClass, fee *big.Int, rates types.CommissionRates) (*types.AssetRecord, *big.Int, types.Identity, error) {
	// 收费：付款人 → 账本托管账户
	custody := types.Identity(l.config.GetTreasuryIdentity())
	if err := l.vault.TransferInTx(tx, token, caller, custody, fee); err != nil {
		return nil, nil, "", fmt.Errorf("%w: %w", ErrPaymentFailed, err)
	}

	// 佣金接收人 = 生效验证方的所有人
	effValidator := validator
	if !effValidator.IsValid() {
		effValidator = types.Identity(l.config.GetDefaultValidator())
	}
	vrec, err := l.txDirectory.GetInTx(tx, effValidator)
	if err != nil {
		return nil, nil, "", err
	}
	if vrec == nil || !vrec.Owner.IsValid() {
		return nil, nil, "", ErrRecipientNotFound
	}
	recipient := vrec.Owner

	// 分账：佣金记入接收人，剩余记入协议余额
	commission := types.CommissionOf(fee, rates.RateFor(class))
	if commission.Sign() > 0 {
		if err := l.addBalanceInTx(tx, commKey(recipient, token), commission); err != nil {
			return nil, nil, "", err
		}
	}
	protocolShare := new(big.Int).Sub(fee, commission)
	if protocolShare.Sign() > 0 {
		if err := l.addBalanceInTx(tx, protoKey(token), protocolShare); err != nil {
			return nil, nil, "", err
		}
	}

	// 落账：所有权归于付款人
	params.Validator = effValidator
	record, err := l.txRegistry.CreateInTx(tx, caller, params)
	if err != nil {
		return nil, nil, "", err
	}
	return record, commission, recipient, nil
}

// WithdrawServiceFees 提取协议服务费（仅管理员），划给费用接收人
func (l *Ledger) WithdrawServiceFees(ctx context.Context, caller types.Identity, token types.TokenKey) (*big.Int, error) {
	if !l.isAdmin(caller) {
		return nil, ErrNotAuthorized
	}
	if !token.IsValid() {
		return nil, ErrInvalidToken
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	var (
		amount    *big.Int
		recipient types.Identity
	)
	err := l.store.RunInTransaction(ctx, func(tx storage.Transaction) error {
		data, err := tx.Get([]byte(recipientKey))
		if err != nil {
			return fmt.Errorf("读取服务费接收人失败: %w", err)
		}
		recipient = types.Identity(data)
		if !recipient.IsValid() {
			return ErrRecipientNotFound
		}

		balData, err := tx.Get(protoKey(token))
		if err != nil {
			return fmt.Errorf("读取协议余额失败: %w", err)
		}
		amount = new(big.Int).SetBytes(balData)
		if amount.Sign() == 0 {
			return ErrNothingToWithdraw
		}

		custody := types.Identity(l.config.GetTreasuryIdentity())
		if err := l.vault.TransferInTx(tx, token, custody, recipient, amount); err != nil {
			return fmt.Errorf("%w: %w", ErrPaymentFailed, err)
		}
		return tx.Delete(protoKey(token))
	})
	if err != nil {
		return nil, err
	}

	if l.logger != nil {
		l.logger.Infof("🏦 服务费提取: token=%s recipient=%s amount=%s", token, recipient, amount)
	}
	l.publishWithdrawn(caller, token, recipient, amount)
	return amount, nil
}

// WithdrawCommission 提取调用方自身的佣金余额
func (l *Ledger) WithdrawCommission(ctx context.Context, caller types.Identity, token types.TokenKey) (*big.Int, error) {
	if !caller.IsValid() {
		return nil, ErrNotAuthorized
	}
	if !token.IsValid() {
		return nil, ErrInvalidToken
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	var amount *big.Int
	err := l.store.RunInTransaction(ctx, func(tx storage.Transaction) error {
		balData, err := tx.Get(commKey(caller, token))
		if err != nil {
			return fmt.Errorf("读取佣金余额失败: %w", err)
		}
		amount = new(big.Int).SetBytes(balData)
		if amount.Sign() == 0 {
			return ErrNothingToWithdraw
		}

		custody := types.Identity(l.config.GetTreasuryIdentity())
		if err := l.vault.TransferInTx(tx, token, custody, caller, amount); err != nil {
			return fmt.Errorf("%w: %w", ErrPaymentFailed, err)
		}
		return tx.Delete(commKey(caller, token))
	})
	if err != nil {
		return nil, err
	}

	if l.logger != nil {
		l.logger.Infof("🏦 佣金提取: token=%s recipient=%s amount=%s", token, caller, amount)
	}
	l.publishWithdrawn(caller, token, caller, amount)
	return amount, nil
}

// SetTokenWhitelisted 设置Token白名单状态（仅管理员）
//
// 已配置的费用计划在白名单开关变化时保持不变。
func (l *Ledger) SetTokenWhitelisted(ctx context.Context, caller types.Identity, token types.TokenKey, whitelisted bool) error {
	if !l.isAdmin(caller) {
		return ErrNotAuthorized
	}
	if !token.IsValid() {
		return ErrInvalidToken
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	err := l.store.RunInTransaction(ctx, func(tx storage.Transaction) error {
		entry, err := l.getFeeEntryInTx(tx, token)
		if err != nil {
			return err
		}
		if entry == nil {
			entry = &types.TokenFeeEntry{}
		}
		entry.Whitelisted = whitelisted
		return l.saveFeeEntryInTx(tx, token, entry)
	})
	if err != nil {
		return err
	}

	if l.logger != nil {
		l.logger.Infof("📋 白名单变更: token=%s whitelisted=%v", token, whitelisted)
	}
	l.publish(types.EventTreasuryWhitelistChanged, &types.TreasuryEventPayload{
		Token:  token,
		Caller: caller,
	})
	return nil
}

// SetFeeSchedule 设置Token的双档铸造费（仅管理员）
func (l *Ledger) SetFeeSchedule(ctx context.Context, caller types.Identity, token types.TokenKey, regular, validatorFee *big.Int) error {
	if !l.isAdmin(caller) {
		return ErrNotAuthorized
	}
	if !token.IsValid() {
		return ErrInvalidToken
	}
	if regular == nil || regular.Sign() < 0 || validatorFee == nil || validatorFee.Sign() < 0 {
		return ErrInvalidFee
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	err := l.store.RunInTransaction(ctx, func(tx storage.Transaction) error {
		entry, err := l.getFeeEntryInTx(tx, token)
		if err != nil {
			return err
		}
		if entry == nil {
			entry = &types.TokenFeeEntry{}
		}
		entry.RegularFee = new(big.Int).Set(regular)
		entry.ValidatorFee = new(big.Int).Set(validatorFee)
		return l.saveFeeEntryInTx(tx, token, entry)
	})
	if err != nil {
		return err
	}

	if l.logger != nil {
		l.logger.Infof("📋 费用计划变更: token=%s regular=%s validator=%s", token, regular, validatorFee)
	}
	l.publish(types.EventTreasuryFeeChanged, &types.TreasuryEventPayload{
		Token:  token,
		Caller: caller,
	})
	return nil
}

// SetCommissionRates 设置双档佣金费率（仅管理员）
func (l *Ledger) SetCommissionRates(ctx context.Context, caller types.Identity, rates types.CommissionRates) error {
	if !l.isAdmin(caller) {
		return ErrNotAuthorized
	}
	if rates.RegularBps > types.BpsDenominator || rates.ValidatorBps > types.BpsDenominator {
		return ErrInvalidCommissionRate
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	err := l.store.RunInTransaction(ctx, func(tx storage.Transaction) error {
		data, err := json.Marshal(rates)
		if err != nil {
			return fmt.Errorf("序列化佣金费率失败: %w", err)
		}
		return tx.Set([]byte(ratesKey), data)
	})
	if err != nil {
		return err
	}

	if l.logger != nil {
		l.logger.Infof("📋 佣金费率变更: regular=%dbps validator=%dbps", rates.RegularBps, rates.ValidatorBps)
	}
	l.publish(types.EventTreasuryRatesChanged, &types.TreasuryEventPayload{
		Caller: caller,
	})
	return nil
}

// SetFeeRecipient 设置服务费接收人（仅管理员）
func (l *Ledger) SetFeeRecipient(ctx context.Context, caller types.Identity, recipient types.Identity) error {
	if !l.isAdmin(caller) {
		return ErrNotAuthorized
	}
	if !recipient.IsValid() {
		return ErrInvalidRecipient
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	err := l.store.RunInTransaction(ctx, func(tx storage.Transaction) error {
		return tx.Set([]byte(recipientKey), []byte(recipient))
	})
	if err != nil {
		return err
	}

	if l.logger != nil {
		l.logger.Infof("📋 服务费接收人变更: recipient=%s", recipient)
	}
	l.publish(types.EventTreasuryRecipientChanged, &types.TreasuryEventPayload{
		Caller:    caller,
		Recipient: recipient,
	})
	return nil
}

// isAdmin 检查调用方是否为账本管理员
func (l *Ledger) isAdmin(caller types.Identity) bool {
	return caller.IsValid() && caller.String() == l.config.GetAdmin()
}

// getFeeEntry 读取Token费用条目，未配置返回nil
func (l *Ledger) getFeeEntry(ctx context.Context, token types.TokenKey) (*types.TokenFeeEntry, error) {
	data, err := l.store.Get(ctx, feeTokenKey(token))
	if err != nil {
		return nil, fmt.Errorf("读取费用条目失败: %w", err)
	}
	return decodeFeeEntry(data)
}

// getFeeEntryInTx 在事务内读取Token费用条目，未配置返回nil
func (l *Ledger) getFeeEntryInTx(tx storage.Transaction, token types.TokenKey) (*types.TokenFeeEntry, error) {
	data, err := tx.Get(feeTokenKey(token))
	if err != nil {
		return nil, fmt.Errorf("读取费用条目失败: %w", err)
	}
	return decodeFeeEntry(data)
}

// saveFeeEntryInTx 在事务内写入Token费用条目
func (l *Ledger) saveFeeEntryInTx(tx storage.Transaction, token types.TokenKey, entry *types.TokenFeeEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("序列化费用条目失败: %w", err)
	}
	return tx.Set(feeTokenKey(token), data)
}

// addBalanceInTx 在事务内累加余额键
func (l *Ledger) addBalanceInTx(tx storage.Transaction, key []byte, delta *big.Int) error {
	data, err := tx.Get(key)
	if err != nil {
		return fmt.Errorf("读取余额失败: %w", err)
	}
	balance := new(big.Int).SetBytes(data)
	return tx.Set(key, balance.Add(balance, delta).Bytes())
}

// decodeFeeEntry 反序列化费用条目，空数据返回nil
func decodeFeeEntry(data []byte) (*types.TokenFeeEntry, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var entry types.TokenFeeEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("反序列化费用条目失败: %w", err)
	}
	return &entry, nil
}

// publishMinted 发布付费铸造事件（账本流水 + 资产创建）
func (l *Ledger) publishMinted(caller types.Identity, token types.TokenKey, class types.CallerClass, fee, commission *big.Int, recipient types.Identity, record *types.AssetRecord) {
	if l.bus == nil {
		return
	}
	l.bus.PublishEvent(&types.TDLEvent{
		ID:        uuid.NewString(),
		EventType: types.EventTreasuryMinted,
		Timestamp: time.Now(),
		Payload: &types.TreasuryEventPayload{
			Token:      token,
			Caller:     caller,
			Class:      class,
			Fee:        new(big.Int).Set(fee),
			Commission: new(big.Int).Set(commission),
			Recipient:  recipient,
			AssetID:    record.ID,
		},
	})
	l.bus.PublishEvent(&types.TDLEvent{
		ID:        uuid.NewString(),
		EventType: types.EventAssetCreated,
		Timestamp: time.Now(),
		Payload: &types.AssetEventPayload{
			Record: *record,
			Caller: caller,
		},
	})
}

// publishWithdrawn 发布提现事件
func (l *Ledger) publishWithdrawn(caller types.Identity, token types.TokenKey, recipient types.Identity, amount *big.Int) {
	if l.bus == nil {
		return
	}
	l.bus.PublishEvent(&types.TDLEvent{
		ID:        uuid.NewString(),
		EventType: types.EventTreasuryWithdrawn,
		Timestamp: time.Now(),
		Payload: &types.TreasuryEventPayload{
			Token:     token,
			Caller:    caller,
			Recipient: recipient,
			Amount:    new(big.Int).Set(amount),
		},
	})
}

// publish 发布账本配置变更事件
func (l *Ledger) publish(eventType types.EventType, payload *types.TreasuryEventPayload) {
	if l.bus == nil {
		return
	}
	l.bus.PublishEvent(&types.TDLEvent{
		ID:        uuid.NewString(),
		EventType: eventType,
		Timestamp: time.Now(),
		Payload:   payload,
	})
}
