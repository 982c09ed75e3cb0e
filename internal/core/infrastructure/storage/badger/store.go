// Package badger 提供基于BadgerDB的键值存储实现
package badger

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	badgerdb "github.com/dgraph-io/badger/v3"
	badgerconfig "github.com/titledger/v1/internal/config/storage/badger"
	log "github.com/titledger/v1/pkg/interfaces/infrastructure/log"
	interfaces "github.com/titledger/v1/pkg/interfaces/infrastructure/storage"
	"go.uber.org/zap"
)

// Store 基于BadgerDB实现KVStore接口
type Store struct {
	db     *badgerdb.DB
	config *badgerconfig.Config
	logger log.Logger

	// 避免 Close 过程中仍被写入，触发 Badger 内部断言的 fatal 退出
	closing int32
	writeWg sync.WaitGroup
}

// New 创建新的BadgerDB存储实例
func New(config *badgerconfig.Config, logger log.Logger) (interfaces.KVStore, error) {
	if logger == nil {
		logger = nopLogger{}
	}

	var opts badgerdb.Options
	if config.IsInMemory() {
		logger.Info("🧠 BadgerDB以内存模式启动（数据不持久化）")
		opts = badgerdb.DefaultOptions("").WithInMemory(true)
	} else {
		dataDir := config.GetPath()
		if dataDir == "" {
			return nil, fmt.Errorf("BadgerDB数据目录路径未配置")
		}

		logger.Infof("初始化BadgerDB存储，数据目录: %s", dataDir)

		if err := os.MkdirAll(dataDir, 0700); err != nil {
			return nil, fmt.Errorf("无法创建BadgerDB数据目录: %w", err)
		}

		opts = badgerdb.DefaultOptions(dataDir)
		opts.SyncWrites = config.IsSyncWritesEnabled()
		opts.MemTableSize = config.GetMemTableSize()
	}

	// 账本数据以小键值为主，压低缓存与vlog尺寸控制内存占用
	opts.ValueLogFileSize = 256 << 20
	opts.BlockCacheSize = 64 << 20
	opts.IndexCacheSize = 64 << 20
	opts.NumMemtables = 2
	opts.NumCompactors = 2
	opts.Logger = newBadgerLogger(logger)

	db, err := badgerdb.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("无法打开BadgerDB: %w", err)
	}

	logger.Info("BadgerDB存储初始化完成")
	return &Store{
		db:     db,
		config: config,
		logger: logger,
	}, nil
}

// nopLogger 用于在测试/工具链等 logger 未注入时，避免 nil 指针崩溃。
// 生产环境应通过 DI 注入真实 logger。
type nopLogger struct{}

func (nopLogger) Debug(string)                   {}
func (nopLogger) Debugf(string, ...interface{})  {}
func (nopLogger) Info(string)                    {}
func (nopLogger) Infof(string, ...interface{})   {}
func (nopLogger) Warn(string)                    {}
func (nopLogger) Warnf(string, ...interface{})   {}
func (nopLogger) Error(string)                   {}
func (nopLogger) Errorf(string, ...interface{})  {}
func (nopLogger) Fatal(string)                   {}
func (nopLogger) Fatalf(string, ...interface{})  {}
func (nopLogger) With(...interface{}) log.Logger { return nopLogger{} }
func (nopLogger) Sync() error                    { return nil }
func (nopLogger) GetZapLogger() *zap.Logger      { return zap.NewNop() }

// Close 关闭存储并释放资源
func (s *Store) Close() error {
	// 进入关闭态：阻断后续写入，并等待 in-flight 写完成
	if !atomic.CompareAndSwapInt32(&s.closing, 0, 1) {
		return nil
	}

	if s.db == nil {
		return nil
	}

	s.logger.Info("开始关闭BadgerDB存储...")

	waitCh := make(chan struct{})
	go func() {
		s.writeWg.Wait()
		close(waitCh)
	}()
	select {
	case <-waitCh:
	case <-time.After(30 * time.Second):
		s.logger.Warn("等待 in-flight 写事务超时（30s），仍继续关闭BadgerDB")
	}

	if err := s.db.Close(); err != nil {
		return fmt.Errorf("关闭BadgerDB失败: %w", err)
	}

	s.logger.Info("BadgerDB存储已安全关闭")
	return nil
}

func (s *Store) beginWrite() (func(), error) {
	// 关闭过程中拒绝写入，避免 Badger Close 与写入并发导致 fatal
	if atomic.LoadInt32(&s.closing) == 1 {
		return nil, fmt.Errorf("badger store is closing")
	}
	s.writeWg.Add(1)
	// double-check，避免在 Add 之后进入 closing
	if atomic.LoadInt32(&s.closing) == 1 {
		s.writeWg.Done()
		return nil, fmt.Errorf("badger store is closing")
	}
	return s.writeWg.Done, nil
}

// Get 获取指定键的值
func (s *Store) Get(ctx context.Context, key []byte) ([]byte, error) {
	var valCopy []byte
	err := s.db.View(func(txn *badgerdb.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			if err == badgerdb.ErrKeyNotFound {
				return nil // 键不存在时返回nil值和nil错误
			}
			return err
		}

		valCopy, err = item.ValueCopy(nil)
		return err
	})

	if err != nil {
		return nil, fmt.Errorf("badger获取键失败: %w", err)
	}

	return valCopy, nil
}

// Set 设置键值对
func (s *Store) Set(ctx context.Context, key, value []byte) error {
	done, err := s.beginWrite()
	if err != nil {
		return err
	}
	defer done()
	return s.db.Update(func(txn *badgerdb.Txn) error {
		return txn.Set(key, value)
	})
}

// Delete 删除指定键的值
func (s *Store) Delete(ctx context.Context, key []byte) error {
	done, err := s.beginWrite()
	if err != nil {
		return err
	}
	defer done()
	return s.db.Update(func(txn *badgerdb.Txn) error {
		return txn.Delete(key)
	})
}

// Exists 检查键是否存在
func (s *Store) Exists(ctx context.Context, key []byte) (bool, error) {
	var exists bool
	err := s.db.View(func(txn *badgerdb.Txn) error {
		_, err := txn.Get(key)
		if err == badgerdb.ErrKeyNotFound {
			exists = false
			return nil
		}
		if err != nil {
			return err
		}
		exists = true
		return nil
	})

	if err != nil {
		return false, fmt.Errorf("badger检查键存在性失败: %w", err)
	}

	return exists, nil
}

// GetMany 批量获取多个键的值
func (s *Store) GetMany(ctx context.Context, keys [][]byte) (map[string][]byte, error) {
	result := make(map[string][]byte)

	err := s.db.View(func(txn *badgerdb.Txn) error {
		for _, key := range keys {
			item, err := txn.Get(key)
			if err == badgerdb.ErrKeyNotFound {
				continue // 跳过不存在的键
			}
			if err != nil {
				return err
			}

			val, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}

			result[string(key)] = val
		}
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("badger批量获取键值失败: %w", err)
	}

	return result, nil
}

// SetMany 批量设置多个键值对
func (s *Store) SetMany(ctx context.Context, entries map[string][]byte) error {
	done, err := s.beginWrite()
	if err != nil {
		return err
	}
	defer done()
	return s.db.Update(func(txn *badgerdb.Txn) error {
		for k, v := range entries {
			if err := txn.Set([]byte(k), v); err != nil {
				return err
			}
		}
		return nil
	})
}

// DeleteMany 批量删除多个键
func (s *Store) DeleteMany(ctx context.Context, keys [][]byte) error {
	done, err := s.beginWrite()
	if err != nil {
		return err
	}
	defer done()
	return s.db.Update(func(txn *badgerdb.Txn) error {
		for _, key := range keys {
			if err := txn.Delete(key); err != nil {
				return err
			}
		}
		return nil
	})
}

// PrefixScan 按前缀扫描键值对
func (s *Store) PrefixScan(ctx context.Context, prefix []byte) (map[string][]byte, error) {
	result := make(map[string][]byte)

	err := s.db.View(func(txn *badgerdb.Txn) error {
		opts := badgerdb.DefaultIteratorOptions
		opts.PrefetchValues = true

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()

			keyCopy := item.KeyCopy(nil)
			valCopy, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}

			result[string(keyCopy)] = valCopy
		}
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("badger前缀扫描失败: %w", err)
	}

	return result, nil
}

// RangeScan 范围扫描键值对，区间为[startKey, endKey)
func (s *Store) RangeScan(ctx context.Context, startKey, endKey []byte) (map[string][]byte, error) {
	result := make(map[string][]byte)

	err := s.db.View(func(txn *badgerdb.Txn) error {
		opts := badgerdb.DefaultIteratorOptions
		opts.PrefetchValues = true

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(startKey); it.Valid(); it.Next() {
			item := it.Item()
			k := item.Key()

			// 如果键超过了endKey，则停止迭代
			if len(endKey) > 0 && bytes.Compare(k, endKey) >= 0 {
				break
			}

			keyCopy := item.KeyCopy(nil)
			valCopy, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}

			result[string(keyCopy)] = valCopy
		}
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("badger范围扫描失败: %w", err)
	}

	return result, nil
}

// RunInTransaction 在事务中执行操作
func (s *Store) RunInTransaction(ctx context.Context, fn func(tx interfaces.Transaction) error) error {
	done, err := s.beginWrite()
	if err != nil {
		return err
	}
	defer done()

	txn := s.db.NewTransaction(true)

	tx := &Transaction{
		txn:   txn,
		state: int32(TxActive),
	}

	// 确保事务最终被关闭
	defer func() {
		if tx.IsActive() {
			tx.Discard()
		}
	}()

	if err := fn(tx); err != nil {
		if tx.IsActive() {
			tx.Discard()
		}
		return err
	}

	if tx.IsActive() {
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("事务提交失败: %w", err)
		}
	} else if tx.IsDiscarded() {
		return fmt.Errorf("事务已被丢弃")
	}

	return nil
}

// badgerLogger 实现BadgerDB的日志接口
type badgerLogger struct {
	logger log.Logger
}

// newBadgerLogger 创建BadgerDB日志适配器
func newBadgerLogger(logger log.Logger) *badgerLogger {
	return &badgerLogger{logger: logger}
}

// Errorf 输出错误日志
func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Errorf("[BadgerDB] "+format, args...)
}

// Warningf 输出警告日志
func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warnf("[BadgerDB] "+format, args...)
}

// Infof 输出信息日志
func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Infof("[BadgerDB] "+format, args...)
}

// Debugf 输出调试日志
func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debugf("[BadgerDB] "+format, args...)
}
