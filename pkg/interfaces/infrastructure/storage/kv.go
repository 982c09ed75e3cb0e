// Package storage 提供TDL系统的键值存储接口定义
//
// 💾 **键值存储服务 (Key-Value Storage Service)**
//
// 本文件定义了TDL账本系统的键值存储接口，专注于：
// - 引擎中立：同一接口由BadgerDB与Bolt两种引擎实现，按配置选择
// - 事务支持：支持ACID事务，所有业务写入都经由事务完成
// - 前缀扫描：支撑持有人索引、类别索引等旁路索引的遍历
//
// 🎯 **核心约束**
// - 四个账本引擎共享同一个KVStore实例
// - 每个公共业务操作恰好打开一个事务，跨引擎调用传递事务句柄
// - 不存在的键：Get返回(nil, nil)，由调用方区分"无值"与"错误"
//
// 🔗 **组件关系**
// - KVStore：被资产登记、验证方目录、费用账本、份额引擎、金库使用
// - 与MemoryStore：作为持久层，与内存缓存层并存
package storage

import (
	"context"
)

//=============================================================================
// KVStore 接口定义
//=============================================================================

// KVStore 定义了键值存储的应用接口
// 提供简单易用的键值存储操作，底层引擎由存储工厂按配置装配
type KVStore interface {
	//-------------------------------------------------------------------------
	// 生命周期管理
	//-------------------------------------------------------------------------

	// Close 关闭数据库连接
	// 确保所有待处理的事务被提交，数据被正确写入磁盘
	// 应用关闭时必须调用此方法以避免数据损坏
	Close() error

	//-------------------------------------------------------------------------
	// 基本键值操作
	//-------------------------------------------------------------------------

	// Get 获取指定键的值
	// 如果键不存在，返回nil值和nil错误
	// 如果发生错误，返回nil值和相应错误
	Get(ctx context.Context, key []byte) ([]byte, error)

	// Set 设置键值对
	// 如果键已存在，将覆盖原有值
	Set(ctx context.Context, key, value []byte) error

	// Delete 删除指定键的值
	// 如果键不存在，不会返回错误
	Delete(ctx context.Context, key []byte) error

	// Exists 检查键是否存在
	Exists(ctx context.Context, key []byte) (bool, error)

	//-------------------------------------------------------------------------
	// 批量操作
	//-------------------------------------------------------------------------

	// GetMany 批量获取多个键的值
	// 对于不存在的键，不会包含在返回结果中
	// 返回map的键为键的字符串表示
	GetMany(ctx context.Context, keys [][]byte) (map[string][]byte, error)

	// SetMany 批量设置多个键值对
	SetMany(ctx context.Context, entries map[string][]byte) error

	// DeleteMany 批量删除多个键
	DeleteMany(ctx context.Context, keys [][]byte) error

	//-------------------------------------------------------------------------
	// 扫描操作
	//-------------------------------------------------------------------------

	// PrefixScan 按前缀扫描键值对
	// 返回所有键以指定前缀开头的键值对
	// 返回map的键为键的字符串表示
	PrefixScan(ctx context.Context, prefix []byte) (map[string][]byte, error)

	// RangeScan 范围扫描键值对
	// 返回键在[startKey, endKey)范围内的所有键值对
	RangeScan(ctx context.Context, startKey, endKey []byte) (map[string][]byte, error)

	//-------------------------------------------------------------------------
	// 事务操作
	//-------------------------------------------------------------------------

	// RunInTransaction 在事务中执行操作
	// fn函数在事务上下文中执行，可以执行多个原子操作
	// 如果fn返回错误，事务将被回滚
	// 如果fn成功执行，事务将被提交
	RunInTransaction(ctx context.Context, fn func(tx Transaction) error) error
}

//=============================================================================
// Transaction 接口定义
//=============================================================================

// Transaction 定义了键值存储事务操作接口
// 提供在单个事务中执行多个操作的能力
// 事务保证所有操作要么全部成功，要么全部失败
type Transaction interface {
	// Get 获取指定键的值
	// 如果键不存在，返回nil值和nil错误
	Get(key []byte) ([]byte, error)

	// Set 设置键值对
	// 如果键已存在，将覆盖原有值
	Set(key, value []byte) error

	// Delete 删除指定键的值
	// 如果键不存在，不会返回错误
	Delete(key []byte) error

	// Exists 检查键是否存在
	Exists(key []byte) (bool, error)

	// PrefixScan 在事务视图内按前缀扫描键值对
	// 包含本事务内未提交的写入，用于解锁、停用等需要遍历的原子操作
	PrefixScan(prefix []byte) (map[string][]byte, error)
}
