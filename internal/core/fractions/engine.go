// Package fractions 实现份额与地块划分引擎
//
// 📊 **份额引擎 (Fraction Engine)**
//
// 🎯 **核心职责**：
// 两种资产细分模式的账本维护：
// - 份额集合：经登记引擎内部接口接管底层资产托管，发行带单钱包
//   上限的份额，经全额持有或审批投票解锁赎回
// - 地块划分：不转移托管的单元账本，仅限Land/Estate类别，
//   停用要求所有在册单元回到资产持有人手中
//
// 💡 **设计要点**：
// - 份额/单元铸造权始终跟随底层资产的实时持有人（事务内查询
//   登记引擎，不做缓存）
// - 每个公共变更操作恰好打开一个存储事务，托管锁定/释放与份额
//   记账在同一事务内原子完成
// - 托管变更提交成功后调用登记引擎FlushCached清除读缓存
// - 持有计数键归零即删除，前缀扫描即枚举去重持有人
package fractions

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	ledgerconfig "github.com/titledger/v1/internal/config/ledger"
	deedsinternal "github.com/titledger/v1/internal/core/deeds/interfaces"
	fractionsInterface "github.com/titledger/v1/pkg/interfaces/fractions"
	eventInterface "github.com/titledger/v1/pkg/interfaces/infrastructure/event"
	"github.com/titledger/v1/pkg/interfaces/infrastructure/log"
	"github.com/titledger/v1/pkg/interfaces/infrastructure/storage"
	"github.com/titledger/v1/pkg/types"
)

// Engine 份额与地块划分引擎实现
type Engine struct {
	store    storage.KVStore
	registry deedsinternal.TxRegistry
	bus      eventInterface.EventBus
	config   *ledgerconfig.Config
	logger   log.Logger

	mu sync.Mutex // 串行化状态变更操作
}

// 接口实现检查
var _ fractionsInterface.Engine = (*Engine)(nil)

// New 创建份额引擎
func New(
	store storage.KVStore,
	registry deedsinternal.TxRegistry,
	bus eventInterface.EventBus,
	config *ledgerconfig.Config,
	logger log.Logger,
) (*Engine, error) {
	if store == nil {
		return nil, fmt.Errorf("kvStore 不能为空")
	}
	if registry == nil {
		return nil, fmt.Errorf("txRegistry 不能为空")
	}
	if config == nil {
		return nil, fmt.Errorf("ledgerConfig 不能为空")
	}

	e := &Engine{
		store:    store,
		registry: registry,
		bus:      bus,
		config:   config,
		logger:   logger,
	}

	if logger != nil {
		logger.Info("✅ 份额引擎已初始化")
	}

	return e, nil
}

// engineIdentity 返回托管账户身份
func (e *Engine) engineIdentity() types.Identity {
	return types.Identity(e.config.GetEngineIdentity())
}

// requireAssetHolderInTx 校验调用方为底层资产的实时持有人
func (e *Engine) requireAssetHolderInTx(tx storage.Transaction, assetID types.AssetID, caller types.Identity) error {
	rec, err := e.registry.GetInTx(tx, assetID)
	if err != nil {
		return err
	}
	if rec == nil {
		return ErrNotFound
	}
	if rec.Holder != caller {
		return ErrNotOwner
	}
	return nil
}

//-----------------------------------------------------------------------------
// 集合与份额存取
//-----------------------------------------------------------------------------

// nextCollectionIDInTx 分配下一个集合编号（从1开始）
func (e *Engine) nextCollectionIDInTx(tx storage.Transaction) (types.CollectionID, error) {
	data, err := tx.Get([]byte(collNextIDKey))
	if err != nil {
		return 0, fmt.Errorf("读取集合编号计数器失败: %w", err)
	}
	next := decodeUint64(data) + 1
	if err := tx.Set([]byte(collNextIDKey), encodeUint64(next)); err != nil {
		return 0, fmt.Errorf("推进集合编号计数器失败: %w", err)
	}
	return types.CollectionID(next), nil
}

// loadCollectionInTx 在事务内读取集合记录，不存在返回ErrNotFound
func (e *Engine) loadCollectionInTx(tx storage.Transaction, id types.CollectionID) (*types.FractionCollection, error) {
	data, err := tx.Get(collKey(id))
	if err != nil {
		return nil, fmt.Errorf("读取集合记录失败: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrNotFound
	}
	return decodeCollection(data)
}

// fetchCollection 读取集合记录，不存在返回(nil, nil)
func (e *Engine) fetchCollection(ctx context.Context, id types.CollectionID) (*types.FractionCollection, error) {
	data, err := e.store.Get(ctx, collKey(id))
	if err != nil {
		return nil, fmt.Errorf("读取集合记录失败: %w", err)
	}
	if len(data) == 0 {
		return nil, nil
	}
	return decodeCollection(data)
}

// saveCollectionInTx 在事务内写入集合记录
func (e *Engine) saveCollectionInTx(tx storage.Transaction, coll *types.FractionCollection) error {
	data, err := json.Marshal(coll)
	if err != nil {
		return fmt.Errorf("序列化集合记录失败: %w", err)
	}
	return tx.Set(collKey(coll.ID), data)
}

// getShareInTx 在事务内读取份额记录，不存在返回(nil, nil)
func (e *Engine) getShareInTx(tx storage.Transaction, id types.CollectionID, index uint64) (*types.ShareRecord, error) {
	data, err := tx.Get(shareKey(id, index))
	if err != nil {
		return nil, fmt.Errorf("读取份额记录失败: %w", err)
	}
	return decodeShare(data)
}

// saveShareInTx 在事务内写入份额记录
func (e *Engine) saveShareInTx(tx storage.Transaction, id types.CollectionID, index uint64, share *types.ShareRecord) error {
	data, err := json.Marshal(share)
	if err != nil {
		return fmt.Errorf("序列化份额记录失败: %w", err)
	}
	return tx.Set(shareKey(id, index), data)
}

// heldCountInTx 在事务内读取持有计数，缺失为0
func (e *Engine) heldCountInTx(tx storage.Transaction, key []byte) (uint64, error) {
	data, err := tx.Get(key)
	if err != nil {
		return 0, fmt.Errorf("读取持有计数失败: %w", err)
	}
	return decodeUint64(data), nil
}

// setHeldCountInTx 在事务内写入持有计数，归零即删除键
func (e *Engine) setHeldCountInTx(tx storage.Transaction, key []byte, count uint64) error {
	if count == 0 {
		return tx.Delete(key)
	}
	return tx.Set(key, encodeUint64(count))
}

// getApprovalInTx 在事务内读取审批记录，缺失返回零值
func (e *Engine) getApprovalInTx(tx storage.Transaction, id types.CollectionID, holder types.Identity) (types.ApprovalRecord, error) {
	var approval types.ApprovalRecord

	data, err := tx.Get(apprKey(id, holder))
	if err != nil {
		return approval, fmt.Errorf("读取审批记录失败: %w", err)
	}
	if len(data) == 0 {
		return approval, nil
	}
	if err := json.Unmarshal(data, &approval); err != nil {
		return types.ApprovalRecord{}, fmt.Errorf("反序列化审批记录失败: %w", err)
	}
	return approval, nil
}

//-----------------------------------------------------------------------------
// 账本与单元存取
//-----------------------------------------------------------------------------

// nextSubdivisionIDInTx 分配下一个账本编号（从1开始）
func (e *Engine) nextSubdivisionIDInTx(tx storage.Transaction) (types.SubdivisionID, error) {
	data, err := tx.Get([]byte(subdNextIDKey))
	if err != nil {
		return 0, fmt.Errorf("读取账本编号计数器失败: %w", err)
	}
	next := decodeUint64(data) + 1
	if err := tx.Set([]byte(subdNextIDKey), encodeUint64(next)); err != nil {
		return 0, fmt.Errorf("推进账本编号计数器失败: %w", err)
	}
	return types.SubdivisionID(next), nil
}

// loadSubdivisionInTx 在事务内读取账本记录，不存在返回ErrNotFound
func (e *Engine) loadSubdivisionInTx(tx storage.Transaction, id types.SubdivisionID) (*types.SubdivisionLedger, error) {
	data, err := tx.Get(subdKey(id))
	if err != nil {
		return nil, fmt.Errorf("读取账本记录失败: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrNotFound
	}
	return decodeSubdivision(data)
}

// fetchSubdivision 读取账本记录，不存在返回(nil, nil)
func (e *Engine) fetchSubdivision(ctx context.Context, id types.SubdivisionID) (*types.SubdivisionLedger, error) {
	data, err := e.store.Get(ctx, subdKey(id))
	if err != nil {
		return nil, fmt.Errorf("读取账本记录失败: %w", err)
	}
	if len(data) == 0 {
		return nil, nil
	}
	return decodeSubdivision(data)
}

// saveSubdivisionInTx 在事务内写入账本记录
func (e *Engine) saveSubdivisionInTx(tx storage.Transaction, ledger *types.SubdivisionLedger) error {
	data, err := json.Marshal(ledger)
	if err != nil {
		return fmt.Errorf("序列化账本记录失败: %w", err)
	}
	return tx.Set(subdKey(ledger.ID), data)
}

// getUnitInTx 在事务内读取单元记录，不存在返回(nil, nil)
func (e *Engine) getUnitInTx(tx storage.Transaction, id types.SubdivisionID, index uint64) (*types.UnitRecord, error) {
	data, err := tx.Get(unitKey(id, index))
	if err != nil {
		return nil, fmt.Errorf("读取单元记录失败: %w", err)
	}
	return decodeUnit(data)
}

// saveUnitInTx 在事务内写入单元记录
func (e *Engine) saveUnitInTx(tx storage.Transaction, id types.SubdivisionID, index uint64, unit *types.UnitRecord) error {
	data, err := json.Marshal(unit)
	if err != nil {
		return fmt.Errorf("序列化单元记录失败: %w", err)
	}
	return tx.Set(unitKey(id, index), data)
}

//-----------------------------------------------------------------------------
// 序列化
//-----------------------------------------------------------------------------

// decodeCollection 反序列化集合记录
func decodeCollection(data []byte) (*types.FractionCollection, error) {
	var coll types.FractionCollection
	if err := json.Unmarshal(data, &coll); err != nil {
		return nil, fmt.Errorf("反序列化集合记录失败: %w", err)
	}
	return &coll, nil
}

// decodeShare 反序列化份额记录，空数据返回nil
func decodeShare(data []byte) (*types.ShareRecord, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var share types.ShareRecord
	if err := json.Unmarshal(data, &share); err != nil {
		return nil, fmt.Errorf("反序列化份额记录失败: %w", err)
	}
	return &share, nil
}

// decodeSubdivision 反序列化账本记录
func decodeSubdivision(data []byte) (*types.SubdivisionLedger, error) {
	var ledger types.SubdivisionLedger
	if err := json.Unmarshal(data, &ledger); err != nil {
		return nil, fmt.Errorf("反序列化账本记录失败: %w", err)
	}
	return &ledger, nil
}

// decodeUnit 反序列化单元记录，空数据返回nil
func decodeUnit(data []byte) (*types.UnitRecord, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var unit types.UnitRecord
	if err := json.Unmarshal(data, &unit); err != nil {
		return nil, fmt.Errorf("反序列化单元记录失败: %w", err)
	}
	return &unit, nil
}

//-----------------------------------------------------------------------------
// 事件发布（均在事务提交成功后调用）
//-----------------------------------------------------------------------------

func (e *Engine) publishEvent(eventType types.EventType, payload interface{}) {
	if e.bus == nil {
		return
	}
	e.bus.PublishEvent(&types.TDLEvent{
		ID:        uuid.NewString(),
		EventType: eventType,
		Timestamp: time.Now(),
		Payload:   payload,
	})
}

func (e *Engine) publishShare(eventType types.EventType, id types.CollectionID, index uint64, caller, from, to types.Identity) {
	e.publishEvent(eventType, &types.ShareEventPayload{
		CollectionID: id,
		Index:        index,
		Caller:       caller,
		From:         from,
		To:           to,
	})
}

func (e *Engine) publishUnit(eventType types.EventType, id types.SubdivisionID, index uint64, caller, from, to types.Identity) {
	e.publishEvent(eventType, &types.UnitEventPayload{
		SubdivisionID: id,
		Index:         index,
		Caller:        caller,
		From:          from,
		To:            to,
	})
}
