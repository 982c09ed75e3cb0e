package deeds

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/titledger/v1/pkg/types"
)

// 读缓存约定：键为"deed:{十进制编号}"，值为记录JSON，生命周期取
// 缓存引擎默认窗口。缓存只在事务提交成功后写入/清除；未命中回源
// 持久层。缓存层初始化失败时cache为nil，读路径直接访问持久层。

// cacheKey 构造资产记录的缓存键
func cacheKey(id types.AssetID) string {
	return "deed:" + strconv.FormatUint(uint64(id), 10)
}

// cacheEnabled 读缓存是否可用
func (r *Registry) cacheEnabled() bool {
	return r.cache != nil && r.config.IsCacheEnabled()
}

// cachedGet 尝试从缓存读取资产记录
func (r *Registry) cachedGet(ctx context.Context, id types.AssetID) (*types.AssetRecord, bool) {
	if !r.cacheEnabled() {
		return nil, false
	}
	data, exists, err := r.cache.Get(ctx, cacheKey(id))
	if err != nil || !exists {
		return nil, false
	}
	var rec types.AssetRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		// 损坏条目按未命中处理并清除
		_ = r.cache.Delete(ctx, cacheKey(id))
		return nil, false
	}
	return &rec, true
}

// cachePut 将记录快照写入缓存（提交后调用）
func (r *Registry) cachePut(ctx context.Context, rec *types.AssetRecord) {
	if !r.cacheEnabled() || rec == nil {
		return
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return
	}
	if err := r.cache.Set(ctx, cacheKey(rec.ID), data, 0); err != nil && r.logger != nil {
		r.logger.Warnf("写入资产缓存失败: id=%d, error=%v", rec.ID, err)
	}
}

// cacheDrop 清除记录的缓存条目（提交后调用）
func (r *Registry) cacheDrop(ctx context.Context, id types.AssetID) {
	if !r.cacheEnabled() {
		return
	}
	if err := r.cache.Delete(ctx, cacheKey(id)); err != nil && r.logger != nil {
		r.logger.Warnf("清除资产缓存失败: id=%d, error=%v", id, err)
	}
}

// FlushCached 清除指定资产的读缓存条目
//
// 托管写入经由调用方的事务提交，提交后由调用方引擎触发本方法。
func (r *Registry) FlushCached(id types.AssetID) {
	r.cacheDrop(context.Background(), id)
}
