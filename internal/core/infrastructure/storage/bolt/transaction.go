// Package bolt 提供基于bbolt的键值存储实现
package bolt

import (
	"bytes"
	"fmt"

	"github.com/titledger/v1/pkg/interfaces/infrastructure/storage"
	bolt "go.etcd.io/bbolt"
)

// 确保 Transaction 实现了 storage.Transaction 接口
var _ storage.Transaction = (*Transaction)(nil)

// Transaction 包装bbolt写事务中的账本数据桶，实现storage.Transaction接口
//
// 提交与回滚由外层的db.Update管理：fn返回错误即回滚，否则提交。
// 桶句柄仅在事务存续期内有效，不得逃逸到事务函数之外。
type Transaction struct {
	bucket *bolt.Bucket
}

// Get 获取指定键的值
func (t *Transaction) Get(key []byte) ([]byte, error) {
	val := t.bucket.Get(key)
	if val == nil {
		return nil, nil // 键不存在时返回nil值和nil错误
	}

	// bbolt返回的值仅在事务内有效，必须复制
	valCopy := make([]byte, len(val))
	copy(valCopy, val)
	return valCopy, nil
}

// Set 设置键值对
func (t *Transaction) Set(key, value []byte) error {
	if err := t.bucket.Put(key, value); err != nil {
		return fmt.Errorf("设置键值失败: %w", err)
	}
	return nil
}

// Delete 删除指定键的值
func (t *Transaction) Delete(key []byte) error {
	if err := t.bucket.Delete(key); err != nil {
		return fmt.Errorf("删除键值失败: %w", err)
	}
	return nil
}

// Exists 检查键是否存在
func (t *Transaction) Exists(key []byte) (bool, error) {
	return t.bucket.Get(key) != nil, nil
}

// PrefixScan 在事务视图内按前缀扫描键值对
// 游标可见本事务内未提交的写入
func (t *Transaction) PrefixScan(prefix []byte) (map[string][]byte, error) {
	result := make(map[string][]byte)

	c := t.bucket.Cursor()
	for k, v := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, v = c.Next() {
		keyCopy := make([]byte, len(k))
		copy(keyCopy, k)
		valCopy := make([]byte, len(v))
		copy(valCopy, v)
		result[string(keyCopy)] = valCopy
	}

	return result, nil
}
