// Package validators 实现验证方目录引擎
//
// 📊 **验证方目录 (Validator Directory)**
//
// 🎯 **核心职责**：
// 维护验证方注册表：注册/停用/移除、支持类别重设、所有人路由、
// 运营协议认可表，并为登记引擎与费用账本提供纯查询能力。
//
// 💡 **设计要点**：
// - 权限完全数据驱动："未注册"与"已注册但停用"在一切权限判断中等价
// - 注册表修改仅限管理员；协议认可表额外对验证方所有人开放
// - 每个状态变更操作恰好打开一个存储事务，事件在提交成功后发布
package validators

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	ledgerconfig "github.com/titledger/v1/internal/config/ledger"
	internalInterface "github.com/titledger/v1/internal/core/validators/interfaces"
	eventInterface "github.com/titledger/v1/pkg/interfaces/infrastructure/event"
	"github.com/titledger/v1/pkg/interfaces/infrastructure/log"
	"github.com/titledger/v1/pkg/interfaces/infrastructure/storage"
	validatorsInterface "github.com/titledger/v1/pkg/interfaces/validators"
	"github.com/titledger/v1/pkg/types"
)

// Directory 验证方目录实现
//
// 所有公共变更操作经由互斥锁串行化，并在单个存储事务内完成
// 记录与类别旁路索引的原子维护。
type Directory struct {
	store  storage.KVStore
	bus    eventInterface.EventBus
	config *ledgerconfig.Config
	logger log.Logger

	mu sync.Mutex // 串行化状态变更操作
}

// 接口实现检查
var (
	_ validatorsInterface.Directory = (*Directory)(nil)
	_ internalInterface.TxDirectory = (*Directory)(nil)
)

// New 创建验证方目录
func New(
	store storage.KVStore,
	bus eventInterface.EventBus,
	config *ledgerconfig.Config,
	logger log.Logger,
) (*Directory, error) {
	if store == nil {
		return nil, fmt.Errorf("kvStore 不能为空")
	}
	if config == nil {
		return nil, fmt.Errorf("ledgerConfig 不能为空")
	}

	d := &Directory{
		store:  store,
		bus:    bus,
		config: config,
		logger: logger,
	}

	if logger != nil {
		logger.Info("✅ 验证方目录已初始化")
	}

	return d, nil
}

// isAdmin 检查调用方是否为系统管理员
func (d *Directory) isAdmin(caller types.Identity) bool {
	return caller.IsValid() && caller.String() == d.config.GetAdmin()
}

// Register 注册验证方（仅管理员）
func (d *Directory) Register(ctx context.Context, caller types.Identity, params types.ValidatorParams) (*types.ValidatorRecord, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.isAdmin(caller) {
		return nil, ErrNotAuthorized
	}
	if !params.ID.IsValid() {
		return nil, ErrInvalidIdentity
	}
	if strings.TrimSpace(params.Name) == "" {
		return nil, ErrEmptyName
	}
	for _, c := range params.Categories {
		if !c.IsValid() {
			return nil, fmt.Errorf("%w: %s", ErrInvalidCategory, c)
		}
	}

	// Owner为空时默认为验证方自身（佣金直接路由给验证方）
	owner := params.Owner
	if !owner.IsValid() {
		owner = params.ID
	}

	record := &types.ValidatorRecord{
		ID:           params.ID,
		Name:         params.Name,
		Active:       true,
		Categories:   params.Categories,
		Owner:        owner,
		RegisteredAt: time.Now().Unix(),
	}

	err := d.store.RunInTransaction(ctx, func(tx storage.Transaction) error {
		existing, err := tx.Get(recKey(params.ID))
		if err != nil {
			return err
		}
		if existing != nil {
			return ErrAlreadyRegistered
		}
		if err := d.saveRecord(tx, record); err != nil {
			return err
		}
		for _, c := range record.Categories {
			if err := tx.Set(catKey(c, record.ID), indexMarker); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if d.logger != nil {
		d.logger.Infof("验证方已注册: id=%s, name=%s, categories=%d", record.ID, record.Name, len(record.Categories))
	}
	d.publish(types.EventValidatorRegistered, record, caller)

	return record, nil
}

// SetActive 启用/停用验证方（仅管理员）
func (d *Directory) SetActive(ctx context.Context, caller types.Identity, id types.Identity, active bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.isAdmin(caller) {
		return ErrNotAuthorized
	}

	var record *types.ValidatorRecord
	err := d.store.RunInTransaction(ctx, func(tx storage.Transaction) error {
		rec, err := d.loadRecord(tx, id)
		if err != nil {
			return err
		}
		rec.Active = active
		record = rec
		return d.saveRecord(tx, rec)
	})
	if err != nil {
		return err
	}

	if d.logger != nil {
		d.logger.Infof("验证方状态已更新: id=%s, active=%v", id, active)
	}
	d.publish(types.EventValidatorUpdated, record, caller)

	return nil
}

// SetSupportedCategories 重设验证方支持的资产类别（仅管理员）
//
// 类别旁路索引随记录同事务重建：旧索引整体删除后写入新索引。
func (d *Directory) SetSupportedCategories(ctx context.Context, caller types.Identity, id types.Identity, categories []types.AssetCategory) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.isAdmin(caller) {
		return ErrNotAuthorized
	}
	for _, c := range categories {
		if !c.IsValid() {
			return fmt.Errorf("%w: %s", ErrInvalidCategory, c)
		}
	}

	var record *types.ValidatorRecord
	err := d.store.RunInTransaction(ctx, func(tx storage.Transaction) error {
		rec, err := d.loadRecord(tx, id)
		if err != nil {
			return err
		}
		for _, c := range rec.Categories {
			if err := tx.Delete(catKey(c, id)); err != nil {
				return err
			}
		}
		rec.Categories = categories
		for _, c := range categories {
			if err := tx.Set(catKey(c, id), indexMarker); err != nil {
				return err
			}
		}
		record = rec
		return d.saveRecord(tx, rec)
	})
	if err != nil {
		return err
	}

	d.publish(types.EventValidatorUpdated, record, caller)
	return nil
}

// Remove 移除验证方（仅管理员）
//
// 记录与类别索引整体清除；之后该身份在所有权限判断中视同从未注册。
func (d *Directory) Remove(ctx context.Context, caller types.Identity, id types.Identity) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.isAdmin(caller) {
		return ErrNotAuthorized
	}

	var record *types.ValidatorRecord
	err := d.store.RunInTransaction(ctx, func(tx storage.Transaction) error {
		rec, err := d.loadRecord(tx, id)
		if err != nil {
			return err
		}
		if err := tx.Delete(recKey(id)); err != nil {
			return err
		}
		for _, c := range rec.Categories {
			if err := tx.Delete(catKey(c, id)); err != nil {
				return err
			}
		}
		record = rec
		return nil
	})
	if err != nil {
		return err
	}

	if d.logger != nil {
		d.logger.Infof("验证方已移除: id=%s", id)
	}
	d.publish(types.EventValidatorRemoved, record, caller)

	return nil
}

// SetAgreement 登记/更新协议URI的展示名称（管理员或验证方所有人）
//
// name为空表示删除该协议条目。
func (d *Directory) SetAgreement(ctx context.Context, caller types.Identity, id types.Identity, uri, name string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if strings.TrimSpace(uri) == "" {
		return ErrInvalidAgreement
	}

	var record *types.ValidatorRecord
	err := d.store.RunInTransaction(ctx, func(tx storage.Transaction) error {
		rec, err := d.loadRecord(tx, id)
		if err != nil {
			return err
		}
		// 所有人身份取决于记录内容，权限检查必须在事务内完成
		if !d.isAdmin(caller) && caller != rec.Owner {
			return ErrNotAuthorized
		}
		if name == "" {
			delete(rec.Agreements, uri)
		} else {
			if rec.Agreements == nil {
				rec.Agreements = make(map[string]string)
			}
			rec.Agreements[uri] = name
		}
		record = rec
		return d.saveRecord(tx, rec)
	})
	if err != nil {
		return err
	}

	d.publish(types.EventValidatorUpdated, record, caller)
	return nil
}

// SetDefaultAgreement 设置验证方默认协议URI（管理员或验证方所有人）
//
// uri为空表示清除默认协议。
func (d *Directory) SetDefaultAgreement(ctx context.Context, caller types.Identity, id types.Identity, uri string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	var record *types.ValidatorRecord
	err := d.store.RunInTransaction(ctx, func(tx storage.Transaction) error {
		rec, err := d.loadRecord(tx, id)
		if err != nil {
			return err
		}
		if !d.isAdmin(caller) && caller != rec.Owner {
			return ErrNotAuthorized
		}
		rec.DefaultAgreement = uri
		record = rec
		return d.saveRecord(tx, rec)
	})
	if err != nil {
		return err
	}

	d.publish(types.EventValidatorUpdated, record, caller)
	return nil
}

// Get 获取验证方记录，未注册时返回ErrNotRegistered
func (d *Directory) Get(ctx context.Context, id types.Identity) (*types.ValidatorRecord, error) {
	rec, err := d.getRecord(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, ErrNotRegistered
	}
	return rec, nil
}

// IsRegistered 检查身份是否已注册（不论启用状态）
func (d *Directory) IsRegistered(ctx context.Context, id types.Identity) (bool, error) {
	rec, err := d.getRecord(ctx, id)
	if err != nil {
		return false, err
	}
	return rec != nil, nil
}

// IsActive 检查身份是否已注册且启用
func (d *Directory) IsActive(ctx context.Context, id types.Identity) (bool, error) {
	rec, err := d.getRecord(ctx, id)
	if err != nil {
		return false, err
	}
	return rec != nil && rec.Active, nil
}

// OwnerOf 获取验证方所有人，未注册返回空Identity
func (d *Directory) OwnerOf(ctx context.Context, id types.Identity) (types.Identity, error) {
	rec, err := d.getRecord(ctx, id)
	if err != nil {
		return "", err
	}
	if rec == nil {
		return "", nil
	}
	return rec.Owner, nil
}

// SupportedCategories 获取验证方支持类别，未注册返回nil
func (d *Directory) SupportedCategories(ctx context.Context, id types.Identity) ([]types.AssetCategory, error) {
	rec, err := d.getRecord(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, nil
	}
	return rec.Categories, nil
}

// Supports 检查验证方是否已注册、启用且支持指定类别
func (d *Directory) Supports(ctx context.Context, id types.Identity, category types.AssetCategory) (bool, error) {
	rec, err := d.getRecord(ctx, id)
	if err != nil {
		return false, err
	}
	return rec != nil && rec.Active && rec.Supports(category), nil
}

// AgreementName 查询协议URI的展示名称，未认可返回空串
func (d *Directory) AgreementName(ctx context.Context, id types.Identity, uri string) (string, error) {
	rec, err := d.getRecord(ctx, id)
	if err != nil {
		return "", err
	}
	if rec == nil {
		return "", nil
	}
	return rec.Agreements[uri], nil
}

// DefaultAgreement 获取验证方默认协议URI，未设置返回空串
func (d *Directory) DefaultAgreement(ctx context.Context, id types.Identity) (string, error) {
	rec, err := d.getRecord(ctx, id)
	if err != nil {
		return "", err
	}
	if rec == nil {
		return "", nil
	}
	return rec.DefaultAgreement, nil
}

// List 列出全部验证方记录（按身份排序）
func (d *Directory) List(ctx context.Context) ([]*types.ValidatorRecord, error) {
	entries, err := d.store.PrefixScan(ctx, []byte(recKeyPrefix))
	if err != nil {
		return nil, fmt.Errorf("扫描验证方记录失败: %w", err)
	}

	records := make([]*types.ValidatorRecord, 0, len(entries))
	for _, data := range entries {
		var rec types.ValidatorRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			return nil, fmt.Errorf("解析验证方记录失败: %w", err)
		}
		records = append(records, &rec)
	}
	sortRecords(records)
	return records, nil
}

// ListByCategory 按支持类别列出验证方（旁路索引）
func (d *Directory) ListByCategory(ctx context.Context, category types.AssetCategory) ([]*types.ValidatorRecord, error) {
	prefix := catPrefix(category)
	entries, err := d.store.PrefixScan(ctx, prefix)
	if err != nil {
		return nil, fmt.Errorf("扫描类别索引失败: %w", err)
	}

	records := make([]*types.ValidatorRecord, 0, len(entries))
	for key := range entries {
		id := types.Identity(strings.TrimPrefix(key, string(prefix)))
		rec, err := d.getRecord(ctx, id)
		if err != nil {
			return nil, err
		}
		if rec != nil {
			records = append(records, rec)
		}
	}
	sortRecords(records)
	return records, nil
}

// getRecord 读取验证方记录，未注册返回(nil, nil)
func (d *Directory) getRecord(ctx context.Context, id types.Identity) (*types.ValidatorRecord, error) {
	data, err := d.store.Get(ctx, recKey(id))
	if err != nil {
		return nil, fmt.Errorf("读取验证方记录失败: %w", err)
	}
	if data == nil {
		return nil, nil
	}
	var rec types.ValidatorRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("解析验证方记录失败: %w", err)
	}
	return &rec, nil
}

// loadRecord 在事务内读取验证方记录，未注册返回ErrNotRegistered
func (d *Directory) loadRecord(tx storage.Transaction, id types.Identity) (*types.ValidatorRecord, error) {
	data, err := tx.Get(recKey(id))
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, ErrNotRegistered
	}
	var rec types.ValidatorRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("解析验证方记录失败: %w", err)
	}
	return &rec, nil
}

// GetInTx 在调用方打开的事务内读取验证方记录，未注册返回(nil, nil)
//
// 供登记引擎在自身事务内完成验证方能力检查使用。
func (d *Directory) GetInTx(tx storage.Transaction, id types.Identity) (*types.ValidatorRecord, error) {
	data, err := tx.Get(recKey(id))
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil
	}
	var rec types.ValidatorRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("解析验证方记录失败: %w", err)
	}
	return &rec, nil
}

// saveRecord 在事务内写入验证方记录
func (d *Directory) saveRecord(tx storage.Transaction, rec *types.ValidatorRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("序列化验证方记录失败: %w", err)
	}
	return tx.Set(recKey(rec.ID), data)
}

// publish 在事务提交成功后发布目录事件
func (d *Directory) publish(eventType types.EventType, record *types.ValidatorRecord, caller types.Identity) {
	if d.bus == nil || record == nil {
		return
	}
	d.bus.PublishEvent(&types.TDLEvent{
		ID:        uuid.NewString(),
		EventType: eventType,
		Timestamp: time.Now(),
		Payload: &types.ValidatorEventPayload{
			Record: *record,
			Caller: caller,
		},
	})
}

// sortRecords 按验证方身份排序，保证列表输出稳定
func sortRecords(records []*types.ValidatorRecord) {
	sort.Slice(records, func(i, j int) bool {
		return records[i].ID < records[j].ID
	})
}
