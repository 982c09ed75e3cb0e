// Package storage 提供TDL系统的键值存储接口定义
//
// 本文件定义内存缓存接口，作为持久层之上的读加速层
package storage

import (
	"context"
	"time"
)

// MemoryStore 定义了通用的内存缓存接口
//
// 提供TDL账本系统的高速内存存储服务：
// - 记录缓存：资产登记记录的读路径缓存
// - 生命周期管理：支持TTL过期和自动清理机制
//
// ⚠️ **一致性约束**：缓存只在事务提交后写入/失效，读路径未命中时回源持久层
type MemoryStore interface {
	// 注意：内存存储资源由DI容器自动管理，无需手动Close()

	// Get 获取缓存值，返回值、是否存在及可能的错误
	Get(ctx context.Context, key string) (value []byte, exists bool, err error)

	// Set 设置缓存值，可指定过期时间
	// ttl为0表示使用引擎默认生命周期
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete 删除指定键的缓存
	// 如果键不存在，不会返回错误
	Delete(ctx context.Context, key string) error

	// Exists 检查键是否存在
	Exists(ctx context.Context, key string) (bool, error)

	// Clear 清空所有缓存
	Clear(ctx context.Context) error
}
