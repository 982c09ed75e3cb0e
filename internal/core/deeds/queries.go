package deeds

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/titledger/v1/pkg/types"
)

// Get 获取资产记录
//
// 读路径优先命中缓存，未命中回源持久层并回填。
func (r *Registry) Get(ctx context.Context, id types.AssetID) (*types.AssetRecord, error) {
	if rec, ok := r.cachedGet(ctx, id); ok {
		return rec, nil
	}
	rec, err := r.getRecord(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, ErrNotFound
	}
	r.cachePut(ctx, rec)
	return rec, nil
}

// HolderOf 获取资产当前持有人
//
// 始终实时读取持久层：托管释放由份额引擎的事务提交，绕过缓存
// 避免窗口期内返回陈旧持有人。
func (r *Registry) HolderOf(ctx context.Context, id types.AssetID) (types.Identity, error) {
	rec, err := r.getRecord(ctx, id)
	if err != nil {
		return "", err
	}
	if rec == nil {
		return "", ErrNotFound
	}
	return rec.Holder, nil
}

// CanSubdivide 检查资产是否允许地块划分（仅Land/Estate为true）
func (r *Registry) CanSubdivide(ctx context.Context, id types.AssetID) (bool, error) {
	rec, err := r.getRecord(ctx, id)
	if err != nil {
		return false, err
	}
	if rec == nil {
		return false, ErrNotFound
	}
	return rec.Category.CanSubdivide(), nil
}

// ListByHolder 按持有人列出资产记录（旁路索引）
func (r *Registry) ListByHolder(ctx context.Context, holder types.Identity) ([]*types.AssetRecord, error) {
	return r.listByIndex(ctx, holderPrefix(holder))
}

// ListByCategory 按类别列出资产记录（旁路索引）
func (r *Registry) ListByCategory(ctx context.Context, category types.AssetCategory) ([]*types.AssetRecord, error) {
	return r.listByIndex(ctx, catPrefix(category))
}

// Count 返回历史累计铸造数量（编号计数器当前值）
func (r *Registry) Count(ctx context.Context) (uint64, error) {
	data, err := r.store.Get(ctx, []byte(nextIDKey))
	if err != nil {
		return 0, fmt.Errorf("读取资产计数器失败: %w", err)
	}
	if len(data) < 8 {
		return 0, nil
	}
	return binary.BigEndian.Uint64(data), nil
}

// CallerIsValidator 判定调用方是否为已注册启用的验证方
//
// 供费用账本划分调用方类别（验证方档/常规档）使用。
func (r *Registry) CallerIsValidator(ctx context.Context, identity types.Identity) (bool, error) {
	return r.directory.IsActive(ctx, identity)
}

// listByIndex 按旁路索引前缀加载资产记录，索引孤儿条目静默跳过
func (r *Registry) listByIndex(ctx context.Context, prefix []byte) ([]*types.AssetRecord, error) {
	entries, err := r.store.PrefixScan(ctx, prefix)
	if err != nil {
		return nil, fmt.Errorf("扫描资产索引失败: %w", err)
	}

	records := make([]*types.AssetRecord, 0, len(entries))
	for key := range entries {
		id, err := decodeID([]byte(key))
		if err != nil {
			return nil, err
		}
		rec, err := r.getRecord(ctx, id)
		if err != nil {
			return nil, err
		}
		if rec != nil {
			records = append(records, rec)
		}
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].ID < records[j].ID
	})
	return records, nil
}

// getRecord 从持久层读取资产记录，不存在返回(nil, nil)
func (r *Registry) getRecord(ctx context.Context, id types.AssetID) (*types.AssetRecord, error) {
	data, err := r.store.Get(ctx, recKey(id))
	if err != nil {
		return nil, fmt.Errorf("读取资产记录失败: %w", err)
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
