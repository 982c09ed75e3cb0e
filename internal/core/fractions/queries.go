package fractions

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/titledger/v1/pkg/types"
)

// GetCollection 获取份额集合记录
func (e *Engine) GetCollection(ctx context.Context, id types.CollectionID) (*types.FractionCollection, error) {
	coll, err := e.fetchCollection(ctx, id)
	if err != nil {
		return nil, err
	}
	if coll == nil {
		return nil, ErrNotFound
	}
	return coll, nil
}

// GetSubdivision 获取地块划分账本记录
func (e *Engine) GetSubdivision(ctx context.Context, id types.SubdivisionID) (*types.SubdivisionLedger, error) {
	ledger, err := e.fetchSubdivision(ctx, id)
	if err != nil {
		return nil, err
	}
	if ledger == nil {
		return nil, ErrNotFound
	}
	return ledger, nil
}

// ShareOwner 查询份额持有人
func (e *Engine) ShareOwner(ctx context.Context, id types.CollectionID, index uint64) (types.Identity, error) {
	data, err := e.store.Get(ctx, shareKey(id, index))
	if err != nil {
		return "", fmt.Errorf("读取份额记录失败: %w", err)
	}
	share, err := decodeShare(data)
	if err != nil {
		return "", err
	}
	if share == nil {
		return "", ErrNotFound
	}
	return share.Owner, nil
}

// UnitOwner 查询单元持有人
func (e *Engine) UnitOwner(ctx context.Context, id types.SubdivisionID, index uint64) (types.Identity, error) {
	data, err := e.store.Get(ctx, unitKey(id, index))
	if err != nil {
		return "", fmt.Errorf("读取单元记录失败: %w", err)
	}
	unit, err := decodeUnit(data)
	if err != nil {
		return "", err
	}
	if unit == nil {
		return "", ErrNotFound
	}
	return unit.Owner, nil
}

// HolderShareCount 查询持有人在集合中的份额数，无记录返回0
func (e *Engine) HolderShareCount(ctx context.Context, id types.CollectionID, holder types.Identity) (uint64, error) {
	data, err := e.store.Get(ctx, heldKey(id, holder))
	if err != nil {
		return 0, fmt.Errorf("读取持有计数失败: %w", err)
	}
	return decodeUint64(data), nil
}

// DistinctHolders 枚举集合当前的去重持有人（按身份排序）
func (e *Engine) DistinctHolders(ctx context.Context, id types.CollectionID) ([]types.Identity, error) {
	entries, err := e.store.PrefixScan(ctx, heldPrefix(id))
	if err != nil {
		return nil, fmt.Errorf("扫描持有计数失败: %w", err)
	}

	prefixLen := len(heldPrefix(id))
	holders := make([]types.Identity, 0, len(entries))
	for key := range entries {
		holders = append(holders, types.Identity(key[prefixLen:]))
	}
	sort.Slice(holders, func(i, j int) bool { return holders[i] < holders[j] })
	return holders, nil
}

// ApprovalOf 查询持有人的审批标志，无记录返回零值
func (e *Engine) ApprovalOf(ctx context.Context, id types.CollectionID, holder types.Identity) (types.ApprovalRecord, error) {
	var approval types.ApprovalRecord

	data, err := e.store.Get(ctx, apprKey(id, holder))
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

// CollectionByAsset 查询资产当前关联的活跃份额集合，无则返回nil
func (e *Engine) CollectionByAsset(ctx context.Context, assetID types.AssetID) (*types.FractionCollection, error) {
	data, err := e.store.Get(ctx, fracByAssetKey(assetID))
	if err != nil {
		return nil, fmt.Errorf("读取集合索引失败: %w", err)
	}
	if len(data) == 0 {
		return nil, nil
	}
	return e.fetchCollection(ctx, types.CollectionID(decodeUint64(data)))
}

// SubdivisionByAsset 查询资产当前关联的活跃地块划分账本，无则返回nil
func (e *Engine) SubdivisionByAsset(ctx context.Context, assetID types.AssetID) (*types.SubdivisionLedger, error) {
	data, err := e.store.Get(ctx, subdByAssetKey(assetID))
	if err != nil {
		return nil, fmt.Errorf("读取划分索引失败: %w", err)
	}
	if len(data) == 0 {
		return nil, nil
	}
	return e.fetchSubdivision(ctx, types.SubdivisionID(decodeUint64(data)))
}
