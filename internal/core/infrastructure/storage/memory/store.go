// Package memory 提供基于BigCache的内存缓存实现
package memory

import (
	"context"
	"encoding/binary"
	"sync"
	"time"

	"github.com/allegro/bigcache/v3"
	memoryconfig "github.com/titledger/v1/internal/config/storage/memory"
	"github.com/titledger/v1/pkg/interfaces/infrastructure/log"
	storage "github.com/titledger/v1/pkg/interfaces/infrastructure/storage"
)

// TTL前缀，用于在缓存中以旁路条目存储每个键的过期时间
// BigCache本身只有全局生命周期窗口，不支持按键TTL
const ttlPrefix = "_ttl_"

// Store 实现MemoryStore接口，基于BigCache提供内存缓存功能
type Store struct {
	cache  *bigcache.BigCache
	logger log.Logger
	config *memoryconfig.Config

	mutex  sync.RWMutex
	closed bool
}

// New 创建一个新的BigCache内存存储实例
func New(config *memoryconfig.Config, logger log.Logger) (storage.MemoryStore, error) {
	bigCacheConfig := bigcache.DefaultConfig(config.GetLifeWindow())
	bigCacheConfig.CleanWindow = config.GetCleanWindow()
	bigCacheConfig.MaxEntriesInWindow = config.GetMaxEntriesInWindow()
	bigCacheConfig.MaxEntrySize = config.GetMaxEntrySize()
	bigCacheConfig.HardMaxCacheSize = config.GetHardMaxCacheSizeMB()
	bigCacheConfig.Shards = 1024 // 使用合理的默认分片数

	cache, err := bigcache.New(context.Background(), bigCacheConfig)
	if err != nil {
		if logger != nil {
			logger.Errorf("创建BigCache实例失败: %v", err)
		}
		return nil, err
	}

	return &Store{
		cache:  cache,
		logger: logger,
		config: config,
	}, nil
}

// Close 关闭缓存并停止后台清理例程
func (s *Store) Close() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.closed {
		return nil
	}

	if s.logger != nil {
		s.logger.Info("关闭内存存储")
	}
	err := s.cache.Close()
	if err == nil {
		s.closed = true
	}
	return err
}

// Get 获取缓存值
func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	// 先检查键是否已过按键TTL
	expired, err := s.isExpired(key)
	if err != nil {
		if err == bigcache.ErrEntryNotFound {
			return nil, false, nil
		}
		return nil, false, err
	}
	if expired {
		// 惰性清理过期条目
		_ = s.cache.Delete(key)
		_ = s.cache.Delete(ttlPrefix + key)
		return nil, false, nil
	}

	value, err := s.cache.Get(key)
	if err != nil {
		if err == bigcache.ErrEntryNotFound {
			return nil, false, nil
		}
		if s.logger != nil {
			s.logger.Warnf("获取缓存键[%s]失败: %v", key, err)
		}
		return nil, false, err
	}

	return value, true, nil
}

// Set 设置缓存值，可指定过期时间
// ttl为0时不设置按键过期，由BigCache的全局生命周期窗口管理
func (s *Store) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if err := s.cache.Set(key, value); err != nil {
		if s.logger != nil {
			s.logger.Warnf("设置缓存键[%s]失败: %v", key, err)
		}
		return err
	}

	if ttl > 0 {
		expirationTime := time.Now().Add(ttl).UnixNano()
		expirationBytes := make([]byte, 8)
		binary.LittleEndian.PutUint64(expirationBytes, uint64(expirationTime))

		if err := s.cache.Set(ttlPrefix+key, expirationBytes); err != nil {
			if s.logger != nil {
				s.logger.Warnf("设置缓存键[%s]的TTL失败: %v", key, err)
			}
			return err
		}
	} else {
		// TTL为0时清除可能残留的过期记录
		_ = s.cache.Delete(ttlPrefix + key)
	}

	return nil
}

// Delete 删除指定键的缓存
func (s *Store) Delete(ctx context.Context, key string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if err := s.cache.Delete(key); err != nil && err != bigcache.ErrEntryNotFound {
		if s.logger != nil {
			s.logger.Warnf("删除缓存键[%s]失败: %v", key, err)
		}
		return err
	}

	_ = s.cache.Delete(ttlPrefix + key)

	return nil
}

// Exists 检查键是否存在
func (s *Store) Exists(ctx context.Context, key string) (bool, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	expired, err := s.isExpired(key)
	if err != nil {
		if err == bigcache.ErrEntryNotFound {
			return false, nil
		}
		return false, err
	}
	if expired {
		_ = s.cache.Delete(key)
		_ = s.cache.Delete(ttlPrefix + key)
		return false, nil
	}

	if _, err := s.cache.Get(key); err != nil {
		if err == bigcache.ErrEntryNotFound {
			return false, nil
		}
		return false, err
	}

	return true, nil
}

// Clear 清空所有缓存
func (s *Store) Clear(ctx context.Context) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if err := s.cache.Reset(); err != nil {
		if s.logger != nil {
			s.logger.Errorf("清空缓存失败: %v", err)
		}
		return err
	}

	return nil
}

// isExpired 检查键是否已过按键TTL
func (s *Store) isExpired(key string) (bool, error) {
	ttlBytes, err := s.cache.Get(ttlPrefix + key)
	if err != nil {
		if err == bigcache.ErrEntryNotFound {
			// 没有TTL记录，交由全局生命周期窗口管理
			return false, nil
		}
		return false, err
	}

	// 确认值本身仍存在
	if _, err := s.cache.Get(key); err != nil {
		return false, err
	}

	expirationTime := int64(binary.LittleEndian.Uint64(ttlBytes))
	return time.Now().UnixNano() > expirationTime, nil
}
