// Package bolt 提供基于bbolt的键值存储实现
//
// bbolt是单文件B+树存储，适合写入量适中、需要稳定文件格式的账本场景，
// 作为BadgerDB之外的备选引擎，由存储工厂按配置装配。
package bolt

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	boltconfig "github.com/titledger/v1/internal/config/storage/bolt"
	log "github.com/titledger/v1/pkg/interfaces/infrastructure/log"
	interfaces "github.com/titledger/v1/pkg/interfaces/infrastructure/storage"
	bolt "go.etcd.io/bbolt"
)

// ledgerBucket 账本数据桶：单桶布局，键的层级由键前缀表达
const ledgerBucket = "ledger"

// Store 基于bbolt实现KVStore接口
type Store struct {
	db     *bolt.DB
	config *boltconfig.Config
	logger log.Logger
}

// New 创建新的bbolt存储实例
func New(config *boltconfig.Config, logger log.Logger) (interfaces.KVStore, error) {
	path := config.GetPath()
	if path == "" {
		return nil, fmt.Errorf("bbolt数据文件路径未配置")
	}

	cleanPath := filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(cleanPath), 0700); err != nil {
		return nil, fmt.Errorf("无法创建bbolt数据目录: %w", err)
	}

	if logger != nil {
		logger.Infof("初始化bbolt存储，数据文件: %s", cleanPath)
	}

	db, err := bolt.Open(cleanPath, os.FileMode(config.GetFileMode()), &bolt.Options{
		Timeout: config.GetTimeout(),
	})
	if err != nil {
		return nil, fmt.Errorf("无法打开bbolt: %w", err)
	}

	// NoSync仅用于测试与批量导入，生产环境保持fsync
	db.NoSync = config.IsNoSync()

	store := &Store{
		db:     db,
		config: config,
		logger: logger,
	}

	if err := store.ensureBucket(); err != nil {
		_ = db.Close()
		return nil, err
	}

	if logger != nil {
		logger.Info("bbolt存储初始化完成")
	}
	return store, nil
}

// ensureBucket 确保账本数据桶存在
func (s *Store) ensureBucket() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(ledgerBucket)); err != nil {
			return fmt.Errorf("创建账本数据桶失败: %w", err)
		}
		return nil
	})
}

// Close 关闭存储并释放资源
// bbolt的Close会等待进行中的事务结束
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}

	if s.logger != nil {
		s.logger.Info("开始关闭bbolt存储...")
	}

	if err := s.db.Close(); err != nil {
		return fmt.Errorf("关闭bbolt失败: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("bbolt存储已安全关闭")
	}
	return nil
}

// Get 获取指定键的值
func (s *Store) Get(ctx context.Context, key []byte) ([]byte, error) {
	var valCopy []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(ledgerBucket))
		if bucket == nil {
			return fmt.Errorf("账本数据桶缺失")
		}

		// bbolt返回的值仅在事务内有效，必须复制
		if val := bucket.Get(key); val != nil {
			valCopy = make([]byte, len(val))
			copy(valCopy, val)
		}
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("bbolt获取键失败: %w", err)
	}

	return valCopy, nil
}

// Set 设置键值对
func (s *Store) Set(ctx context.Context, key, value []byte) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(ledgerBucket))
		if bucket == nil {
			return fmt.Errorf("账本数据桶缺失")
		}
		return bucket.Put(key, value)
	})
}

// Delete 删除指定键的值
func (s *Store) Delete(ctx context.Context, key []byte) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(ledgerBucket))
		if bucket == nil {
			return fmt.Errorf("账本数据桶缺失")
		}
		return bucket.Delete(key)
	})
}

// Exists 检查键是否存在
func (s *Store) Exists(ctx context.Context, key []byte) (bool, error) {
	var exists bool
	err := s.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(ledgerBucket))
		if bucket == nil {
			return fmt.Errorf("账本数据桶缺失")
		}
		exists = bucket.Get(key) != nil
		return nil
	})

	if err != nil {
		return false, fmt.Errorf("bbolt检查键存在性失败: %w", err)
	}

	return exists, nil
}

// GetMany 批量获取多个键的值
func (s *Store) GetMany(ctx context.Context, keys [][]byte) (map[string][]byte, error) {
	result := make(map[string][]byte)

	err := s.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(ledgerBucket))
		if bucket == nil {
			return fmt.Errorf("账本数据桶缺失")
		}

		for _, key := range keys {
			val := bucket.Get(key)
			if val == nil {
				continue // 跳过不存在的键
			}

			valCopy := make([]byte, len(val))
			copy(valCopy, val)
			result[string(key)] = valCopy
		}
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("bbolt批量获取键值失败: %w", err)
	}

	return result, nil
}

// SetMany 批量设置多个键值对
func (s *Store) SetMany(ctx context.Context, entries map[string][]byte) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(ledgerBucket))
		if bucket == nil {
			return fmt.Errorf("账本数据桶缺失")
		}

		for k, v := range entries {
			if err := bucket.Put([]byte(k), v); err != nil {
				return err
			}
		}
		return nil
	})
}

// DeleteMany 批量删除多个键
func (s *Store) DeleteMany(ctx context.Context, keys [][]byte) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(ledgerBucket))
		if bucket == nil {
			return fmt.Errorf("账本数据桶缺失")
		}

		for _, key := range keys {
			if err := bucket.Delete(key); err != nil {
				return err
			}
		}
		return nil
	})
}

// PrefixScan 按前缀扫描键值对
func (s *Store) PrefixScan(ctx context.Context, prefix []byte) (map[string][]byte, error) {
	result := make(map[string][]byte)

	err := s.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(ledgerBucket))
		if bucket == nil {
			return fmt.Errorf("账本数据桶缺失")
		}

		scanPrefix(bucket, prefix, result)
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("bbolt前缀扫描失败: %w", err)
	}

	return result, nil
}

// RangeScan 范围扫描键值对，区间为[startKey, endKey)
func (s *Store) RangeScan(ctx context.Context, startKey, endKey []byte) (map[string][]byte, error) {
	result := make(map[string][]byte)

	err := s.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(ledgerBucket))
		if bucket == nil {
			return fmt.Errorf("账本数据桶缺失")
		}

		c := bucket.Cursor()
		for k, v := c.Seek(startKey); k != nil; k, v = c.Next() {
			if len(endKey) > 0 && bytes.Compare(k, endKey) >= 0 {
				break
			}

			keyCopy := make([]byte, len(k))
			copy(keyCopy, k)
			valCopy := make([]byte, len(v))
			copy(valCopy, v)
			result[string(keyCopy)] = valCopy
		}
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("bbolt范围扫描失败: %w", err)
	}

	return result, nil
}

// RunInTransaction 在事务中执行操作
// fn返回错误时bbolt自动回滚，返回nil时自动提交
func (s *Store) RunInTransaction(ctx context.Context, fn func(tx interfaces.Transaction) error) error {
	return s.db.Update(func(btx *bolt.Tx) error {
		bucket := btx.Bucket([]byte(ledgerBucket))
		if bucket == nil {
			return fmt.Errorf("账本数据桶缺失")
		}

		return fn(&Transaction{bucket: bucket})
	})
}

// scanPrefix 游标前缀扫描，结果写入result
func scanPrefix(bucket *bolt.Bucket, prefix []byte, result map[string][]byte) {
	c := bucket.Cursor()
	for k, v := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, v = c.Next() {
		keyCopy := make([]byte, len(k))
		copy(keyCopy, k)
		valCopy := make([]byte, len(v))
		copy(valCopy, v)
		result[string(keyCopy)] = valCopy
	}
}
