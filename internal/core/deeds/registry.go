// Package deeds 实现资产登记引擎
//
// 📊 **资产登记 (Asset Registry)**
//
// 🎯 **核心职责**：
// TDL系统的权威所有权账本：资产记录的铸造、验证翻转、元数据更新、
// 转移与销毁，以及持有人/类别旁路索引的原子维护。
//
// 💡 **设计要点**：
// - 两条铸造路径完全同构：直接路径仅对已启用验证方开放，付费路径
//   由费用账本经内部事务接口进入
// - 托管标志（Locked/Custodian）由份额引擎经内部接口独占写入，
//   锁定期间拒绝转移与销毁，元数据更新对名义持有人保持开放
// - 读缓存仅在本引擎事务提交后写入/失效；托管写入的缓存清除由
//   提交事务的引擎负责
package deeds

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	ledgerconfig "github.com/titledger/v1/internal/config/ledger"
	internalInterface "github.com/titledger/v1/internal/core/deeds/interfaces"
	validatorsinternal "github.com/titledger/v1/internal/core/validators/interfaces"
	deedsInterface "github.com/titledger/v1/pkg/interfaces/deeds"
	eventInterface "github.com/titledger/v1/pkg/interfaces/infrastructure/event"
	"github.com/titledger/v1/pkg/interfaces/infrastructure/log"
	"github.com/titledger/v1/pkg/interfaces/infrastructure/storage"
	validatorsInterface "github.com/titledger/v1/pkg/interfaces/validators"
	"github.com/titledger/v1/pkg/types"
)

// 接口实现检查
var (
	_ deedsInterface.Registry      = (*Registry)(nil)
	_ internalInterface.TxRegistry = (*Registry)(nil)
)

// Registry 资产登记引擎实现
//
// 所有公共变更操作经由互斥锁串行化，并在单个存储事务内完成记录与
// 旁路索引的原子维护。验证方能力检查经由目录的事务内读取接口，
// 与落账处于同一原子视图。
type Registry struct {
	store       storage.KVStore
	cache       storage.MemoryStore // 读缓存（可为空，按配置启用）
	directory   validatorsInterface.Directory
	txDirectory validatorsinternal.TxDirectory
	bus         eventInterface.EventBus
	config      *ledgerconfig.Config
	logger      log.Logger

	mu sync.Mutex // 串行化状态变更操作
}

// New 创建资产登记引擎
func New(
	store storage.KVStore,
	cache storage.MemoryStore,
	directory validatorsInterface.Directory,
	txDirectory validatorsinternal.TxDirectory,
	bus eventInterface.EventBus,
	config *ledgerconfig.Config,
	logger log.Logger,
) (*Registry, error) {
	if store == nil {
		return nil, fmt.Errorf("kvStore 不能为空")
	}
	if directory == nil || txDirectory == nil {
		return nil, fmt.Errorf("验证方目录不能为空")
	}
	if config == nil {
		return nil, fmt.Errorf("ledgerConfig 不能为空")
	}

	r := &Registry{
		store:       store,
		cache:       cache,
		directory:   directory,
		txDirectory: txDirectory,
		bus:         bus,
		config:      config,
		logger:      logger,
	}

	if logger != nil {
		logger.Infof("✅ 资产登记引擎已初始化 (cache=%v)", r.cacheEnabled())
	}

	return r, nil
}

// Create 直接铸造资产记录
//
// 调用方必须是已注册且启用的验证方；常规身份经由费用账本的付费
// 铸造进入。
func (r *Registry) Create(ctx context.Context, caller types.Identity, params types.AssetParams) (*types.AssetRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var record *types.AssetRecord
	err := r.store.RunInTransaction(ctx, func(tx storage.Transaction) error {
		callerRec, err := r.txDirectory.GetInTx(tx, caller)
		if err != nil {
			return err
		}
		if callerRec == nil || !callerRec.Active {
			return ErrNotAuthorized
		}
		rec, err := r.createInTx(tx, params.Owner, params)
		if err != nil {
			return err
		}
		record = rec
		return nil
	})
	if err != nil {
		return nil, err
	}

	if r.logger != nil {
		r.logger.Infof("资产已铸造: id=%d, category=%s, holder=%s", record.ID, record.Category, record.Holder)
	}
	r.cachePut(ctx, record)
	r.publishAsset(types.EventAssetCreated, record, caller, "", "")

	return record, nil
}

// UpdateMetadata 更新资产元数据
//
// 调用方为当前持有人或任一已启用验证方。非验证方调用强制
// Validated=false；验证方调用保持原值。托管锁定只限制持有权
// 变更，元数据更新不受影响。
func (r *Registry) UpdateMetadata(ctx context.Context, caller types.Identity, id types.AssetID, update types.AssetUpdate) (*types.AssetRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(update.AgreementRef) == "" || strings.TrimSpace(update.Definition) == "" {
		return nil, ErrMissingField
	}

	var record *types.AssetRecord
	err := r.store.RunInTransaction(ctx, func(tx storage.Transaction) error {
		rec, err := r.getInTx(tx, id)
		if err != nil {
			return err
		}
		if rec == nil {
			return ErrNotFound
		}

		callerRec, err := r.txDirectory.GetInTx(tx, caller)
		if err != nil {
			return err
		}
		isValidatorCaller := callerRec != nil && callerRec.Active
		if caller != rec.Holder && !isValidatorCaller {
			return ErrNotAuthorized
		}

		// 新协议引用必须被资产的有效验证方（记录指派或登记默认）认可
		vrec, err := r.effectiveValidatorInTx(tx, rec)
		if err != nil {
			return err
		}
		if !vrec.RecognizesAgreement(update.AgreementRef) {
			return ErrInvalidAgreement
		}

		rec.AgreementRef = update.AgreementRef
		rec.Definition = update.Definition
		rec.Config = update.Config
		if !isValidatorCaller {
			// 非验证方修改后需重新验证
			rec.Validated = false
		}
		rec.UpdatedAt = time.Now().Unix()

		if err := r.saveRecord(tx, rec); err != nil {
			return err
		}
		record = rec
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.cachePut(ctx, record)
	r.publishAsset(types.EventAssetMetadataUpdated, record, caller, "", "")

	return record, nil
}

// Validate 翻转资产验证标志
//
// 仅限已启用且支持该类别的验证方；调用方不得为资产当前持有人。
// 置true时记录的指派验证方更新为调用方。
func (r *Registry) Validate(ctx context.Context, caller types.Identity, id types.AssetID, valid bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var record *types.AssetRecord
	err := r.store.RunInTransaction(ctx, func(tx storage.Transaction) error {
		rec, err := r.getInTx(tx, id)
		if err != nil {
			return err
		}
		if rec == nil {
			return ErrNotFound
		}

		callerRec, err := r.txDirectory.GetInTx(tx, caller)
		if err != nil {
			return err
		}
		if callerRec == nil || !callerRec.Active {
			return ErrNotAuthorized
		}
		if !callerRec.Supports(rec.Category) {
			return ErrCategoryNotSupported
		}
		if caller == rec.Holder {
			return ErrSelfValidation
		}

		rec.Validated = valid
		if valid {
			// 保证"已验证记录的指派验证方当前在册"
			rec.Validator = caller
		}
		rec.UpdatedAt = time.Now().Unix()

		if err := r.saveRecord(tx, rec); err != nil {
			return err
		}
		record = rec
		return nil
	})
	if err != nil {
		return err
	}

	r.cachePut(ctx, record)
	r.publishAsset(types.EventAssetValidationChanged, record, caller, "", "")

	return nil
}

// Transfer 转移资产持有权
func (r *Registry) Transfer(ctx context.Context, caller types.Identity, id types.AssetID, to types.Identity) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !to.IsValid() {
		return ErrInvalidRecipient
	}

	var record *types.AssetRecord
	var from types.Identity
	err := r.store.RunInTransaction(ctx, func(tx storage.Transaction) error {
		rec, err := r.getInTx(tx, id)
		if err != nil {
			return err
		}
		if rec == nil {
			return ErrNotFound
		}
		if rec.Holder != caller {
			return ErrNotOwner
		}
		if rec.Locked {
			return ErrAssetLocked
		}

		from = rec.Holder
		if err := tx.Delete(holderKey(from, id)); err != nil {
			return err
		}
		rec.Holder = to
		rec.UpdatedAt = time.Now().Unix()
		if err := tx.Set(holderKey(to, id), indexMarker); err != nil {
			return err
		}
		if err := r.saveRecord(tx, rec); err != nil {
			return err
		}
		record = rec
		return nil
	})
	if err != nil {
		return err
	}

	r.cachePut(ctx, record)
	r.publishAsset(types.EventAssetTransferred, record, caller, from, to)

	return nil
}

// Burn 销毁资产记录
func (r *Registry) Burn(ctx context.Context, caller types.Identity, id types.AssetID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var record *types.AssetRecord
	err := r.store.RunInTransaction(ctx, func(tx storage.Transaction) error {
		rec, err := r.burnOneInTx(tx, caller, id)
		if err != nil {
			return err
		}
		record = rec
		return nil
	})
	if err != nil {
		return err
	}

	if r.logger != nil {
		r.logger.Infof("资产已销毁: id=%d, holder=%s", id, record.Holder)
	}
	r.cacheDrop(ctx, id)
	r.publishAsset(types.EventAssetBurned, record, caller, "", "")

	return nil
}

// BurnBatch 批量销毁资产记录
//
// 整批单事务：任一记录不存在、非本人持有或处于托管锁定，
// 则全批回滚。
func (r *Registry) BurnBatch(ctx context.Context, caller types.Identity, ids []types.AssetID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(ids) == 0 {
		return nil
	}

	records := make([]*types.AssetRecord, 0, len(ids))
	err := r.store.RunInTransaction(ctx, func(tx storage.Transaction) error {
		records = records[:0] // 事务重试时重置
		for _, id := range ids {
			rec, err := r.burnOneInTx(tx, caller, id)
			if err != nil {
				return err
			}
			records = append(records, rec)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if r.logger != nil {
		r.logger.Infof("批量销毁完成: count=%d, holder=%s", len(records), caller)
	}
	for _, rec := range records {
		r.cacheDrop(ctx, rec.ID)
		r.publishAsset(types.EventAssetBurned, rec, caller, "", "")
	}

	return nil
}

// burnOneInTx 在事务内校验并销毁单条记录，返回销毁前快照
func (r *Registry) burnOneInTx(tx storage.Transaction, caller types.Identity, id types.AssetID) (*types.AssetRecord, error) {
	rec, err := r.getInTx(tx, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, ErrNotFound
	}
	if rec.Holder != caller {
		return nil, ErrNotOwner
	}
	if rec.Locked {
		return nil, ErrAssetLocked
	}

	if err := tx.Delete(recKey(id)); err != nil {
		return nil, err
	}
	if err := tx.Delete(holderKey(rec.Holder, id)); err != nil {
		return nil, err
	}
	if err := tx.Delete(catKey(rec.Category, id)); err != nil {
		return nil, err
	}
	return rec, nil
}

// createInTx 在事务内完成参数校验、验证方能力检查与记录落账
//
// owner为最终持有人（直接路径取params.Owner，付费路径取付款人），
// params.Owner在本方法内不再使用。
func (r *Registry) createInTx(tx storage.Transaction, owner types.Identity, params types.AssetParams) (*types.AssetRecord, error) {
	if !owner.IsValid() {
		return nil, ErrInvalidOwner
	}
	if !params.Category.IsValid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidCategory, params.Category)
	}
	if strings.TrimSpace(params.AgreementRef) == "" || strings.TrimSpace(params.Definition) == "" {
		return nil, ErrMissingField
	}

	// 有效验证方：显式指定，否则登记引擎默认
	validator := params.Validator
	if !validator.IsValid() {
		validator = types.Identity(r.config.GetDefaultValidator())
	}
	if !validator.IsValid() {
		return nil, ErrValidatorNotRegistered
	}
	vrec, err := r.txDirectory.GetInTx(tx, validator)
	if err != nil {
		return nil, err
	}
	if vrec == nil || !vrec.Active {
		return nil, ErrValidatorNotRegistered
	}
	if !vrec.Supports(params.Category) {
		return nil, ErrCategoryNotSupported
	}
	if !vrec.RecognizesAgreement(params.AgreementRef) {
		return nil, ErrInvalidAgreement
	}

	id, err := r.nextIDInTx(tx)
	if err != nil {
		return nil, err
	}

	now := time.Now().Unix()
	rec := &types.AssetRecord{
		ID:           id,
		Category:     params.Category,
		Validated:    true,
		AgreementRef: params.AgreementRef,
		Definition:   params.Definition,
		Config:       params.Config,
		Validator:    validator,
		Holder:       owner,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := r.saveRecord(tx, rec); err != nil {
		return nil, err
	}
	if err := tx.Set(holderKey(owner, id), indexMarker); err != nil {
		return nil, err
	}
	if err := tx.Set(catKey(params.Category, id), indexMarker); err != nil {
		return nil, err
	}
	return rec, nil
}

// effectiveValidatorInTx 解析记录的有效验证方（指派或登记默认）
//
// 无可用验证方（未指派且无默认、或已不在册/停用）返回
// ErrNoValidatorAvailable。
func (r *Registry) effectiveValidatorInTx(tx storage.Transaction, rec *types.AssetRecord) (*types.ValidatorRecord, error) {
	validator := rec.Validator
	if !validator.IsValid() {
		validator = types.Identity(r.config.GetDefaultValidator())
	}
	if !validator.IsValid() {
		return nil, ErrNoValidatorAvailable
	}
	vrec, err := r.txDirectory.GetInTx(tx, validator)
	if err != nil {
		return nil, err
	}
	if vrec == nil || !vrec.Active {
		return nil, ErrNoValidatorAvailable
	}
	return vrec, nil
}

// nextIDInTx 在事务内分配下一个资产编号（从1开始单调递增）
func (r *Registry) nextIDInTx(tx storage.Transaction) (types.AssetID, error) {
	data, err := tx.Get([]byte(nextIDKey))
	if err != nil {
		return 0, err
	}
	var current uint64
	if len(data) >= 8 {
		current = binary.BigEndian.Uint64(data)
	}
	next := current + 1
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, next)
	if err := tx.Set([]byte(nextIDKey), buf); err != nil {
		return 0, err
	}
	return types.AssetID(next), nil
}

// getInTx 在事务内读取资产记录，不存在返回(nil, nil)
func (r *Registry) getInTx(tx storage.Transaction, id types.AssetID) (*types.AssetRecord, error) {
	data, err := tx.Get(recKey(id))
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil
	}
	var rec types.AssetRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("解析资产记录失败: %w", err)
	}
	return &rec, nil
}

// saveRecord 在事务内写入资产记录
func (r *Registry) saveRecord(tx storage.Transaction, rec *types.AssetRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("序列化资产记录失败: %w", err)
	}
	return tx.Set(recKey(rec.ID), data)
}

// publishAsset 在事务提交成功后发布资产事件
func (r *Registry) publishAsset(eventType types.EventType, record *types.AssetRecord, caller, from, to types.Identity) {
	if r.bus == nil || record == nil {
		return
	}
	r.bus.PublishEvent(&types.TDLEvent{
		ID:        uuid.NewString(),
		EventType: eventType,
		Timestamp: time.Now(),
		Payload: &types.AssetEventPayload{
			Record: *record,
			Caller: caller,
			From:   from,
			To:     to,
		},
	})
}
