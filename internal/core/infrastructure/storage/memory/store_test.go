package memory

import (
	"context"
	"testing"
	"time"

	memoryconfig "github.com/titledger/v1/internal/config/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestStore(t *testing.T) *Store {
	store, err := New(memoryconfig.New(nil), nil)
	require.NoError(t, err)
	require.NotNil(t, store)

	concrete, ok := store.(*Store)
	require.True(t, ok)

	t.Cleanup(func() { _ = concrete.Close() })
	return concrete
}

// 测试基本缓存操作
func TestCacheBasicOperations(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	// 1. 未命中：exists为false且无错误
	val, exists, err := store.Get(ctx, "deed:rec:00000001")
	assert.NoError(t, err)
	assert.False(t, exists)
	assert.Nil(t, val)

	// 2. 写入后命中
	require.NoError(t, store.Set(ctx, "deed:rec:00000001", []byte("record"), 0))

	val, exists, err = store.Get(ctx, "deed:rec:00000001")
	assert.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, []byte("record"), val)

	ok, err := store.Exists(ctx, "deed:rec:00000001")
	assert.NoError(t, err)
	assert.True(t, ok)

	// 3. 删除后未命中（删除不存在的键不报错）
	require.NoError(t, store.Delete(ctx, "deed:rec:00000001"))

	_, exists, err = store.Get(ctx, "deed:rec:00000001")
	assert.NoError(t, err)
	assert.False(t, exists)

	assert.NoError(t, store.Delete(ctx, "deed:rec:00000001"))
}

// 测试按键TTL过期
func TestCacheTTLExpiry(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "short-lived", []byte("v"), 50*time.Millisecond))

	// 过期前可读
	_, exists, err := store.Get(ctx, "short-lived")
	require.NoError(t, err)
	assert.True(t, exists)

	time.Sleep(80 * time.Millisecond)

	// 过期后未命中
	_, exists, err = store.Get(ctx, "short-lived")
	require.NoError(t, err)
	assert.False(t, exists, "过期键应被惰性清理")

	ok, err := store.Exists(ctx, "short-lived")
	require.NoError(t, err)
	assert.False(t, ok)
}

// 测试TTL为0时不设置按键过期
func TestCacheNoTTL(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "stable", []byte("v"), 0))

	time.Sleep(60 * time.Millisecond)

	_, exists, err := store.Get(ctx, "stable")
	require.NoError(t, err)
	assert.True(t, exists, "TTL为0的键不应过期")
}

// 测试覆盖写会重置TTL记录
func TestCacheSetResetsTTL(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "key", []byte("v1"), 50*time.Millisecond))
	// 覆盖为永不过期
	require.NoError(t, store.Set(ctx, "key", []byte("v2"), 0))

	time.Sleep(80 * time.Millisecond)

	val, exists, err := store.Get(ctx, "key")
	require.NoError(t, err)
	assert.True(t, exists, "覆盖写后旧TTL不应再生效")
	assert.Equal(t, []byte("v2"), val)
}

// 测试清空缓存
func TestCacheClear(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "a", []byte("1"), 0))
	require.NoError(t, store.Set(ctx, "b", []byte("2"), 0))

	require.NoError(t, store.Clear(ctx))

	_, exists, err := store.Get(ctx, "a")
	require.NoError(t, err)
	assert.False(t, exists)

	_, exists, err = store.Get(ctx, "b")
	require.NoError(t, err)
	assert.False(t, exists)
}
