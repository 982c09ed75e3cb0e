package badger

import (
	"context"
	"errors"
	"fmt"
	"testing"

	badgerconfig "github.com/titledger/v1/internal/config/storage/badger"
	interfaces "github.com/titledger/v1/pkg/interfaces/infrastructure/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 初始化测试环境
func setupTestStore(t *testing.T) interfaces.KVStore {
	cfg := badgerconfig.NewFromOptions(&badgerconfig.BadgerOptions{
		Path:         t.TempDir(),
		SyncWrites:   false,
		MemTableSize: 1 << 20, // 1MB
	})

	store, err := New(cfg, nil)
	require.NoError(t, err)
	require.NotNil(t, store)

	t.Cleanup(func() {
		_ = store.Close()
	})

	return store
}

// 测试基本的键值操作
func TestBasicKeyValueOperations(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	key := []byte("test-key")
	value := []byte("test-value")

	// 1. 不存在的键：Get返回(nil, nil)
	exists, err := store.Exists(ctx, key)
	assert.NoError(t, err)
	assert.False(t, exists)

	val, err := store.Get(ctx, key)
	assert.NoError(t, err)
	assert.Nil(t, val)

	// 2. 设置键值
	err = store.Set(ctx, key, value)
	assert.NoError(t, err)

	exists, err = store.Exists(ctx, key)
	assert.NoError(t, err)
	assert.True(t, exists)

	val, err = store.Get(ctx, key)
	assert.NoError(t, err)
	assert.Equal(t, value, val)

	// 3. 更新值
	newValue := []byte("updated-value")
	err = store.Set(ctx, key, newValue)
	assert.NoError(t, err)

	val, err = store.Get(ctx, key)
	assert.NoError(t, err)
	assert.Equal(t, newValue, val)

	// 4. 删除键（删除不存在的键不报错）
	err = store.Delete(ctx, key)
	assert.NoError(t, err)

	exists, err = store.Exists(ctx, key)
	assert.NoError(t, err)
	assert.False(t, exists)

	err = store.Delete(ctx, key)
	assert.NoError(t, err)
}

// 测试批量操作
func TestBatchOperations(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	entries := map[string][]byte{
		"batch-1": []byte("value-1"),
		"batch-2": []byte("value-2"),
		"batch-3": []byte("value-3"),
	}

	err := store.SetMany(ctx, entries)
	require.NoError(t, err)

	// GetMany跳过不存在的键
	result, err := store.GetMany(ctx, [][]byte{
		[]byte("batch-1"),
		[]byte("batch-2"),
		[]byte("missing"),
	})
	require.NoError(t, err)
	assert.Len(t, result, 2)
	assert.Equal(t, []byte("value-1"), result["batch-1"])
	assert.Equal(t, []byte("value-2"), result["batch-2"])

	err = store.DeleteMany(ctx, [][]byte{[]byte("batch-1"), []byte("batch-3")})
	require.NoError(t, err)

	exists, err := store.Exists(ctx, []byte("batch-1"))
	require.NoError(t, err)
	assert.False(t, exists)

	exists, err = store.Exists(ctx, []byte("batch-2"))
	require.NoError(t, err)
	assert.True(t, exists)
}

// 测试前缀扫描与范围扫描
func TestScanOperations(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	entries := map[string][]byte{
		"deed:rec:00000001": []byte("a"),
		"deed:rec:00000002": []byte("b"),
		"deed:rec:00000003": []byte("c"),
		"val:rec:alice":     []byte("d"),
	}
	require.NoError(t, store.SetMany(ctx, entries))

	// 前缀扫描只返回匹配前缀的键
	result, err := store.PrefixScan(ctx, []byte("deed:rec:"))
	require.NoError(t, err)
	assert.Len(t, result, 3)
	assert.Equal(t, []byte("a"), result["deed:rec:00000001"])

	// 范围扫描区间为[startKey, endKey)
	result, err = store.RangeScan(ctx, []byte("deed:rec:00000001"), []byte("deed:rec:00000003"))
	require.NoError(t, err)
	assert.Len(t, result, 2)
	_, hasEnd := result["deed:rec:00000003"]
	assert.False(t, hasEnd)
}

// 测试事务提交与回滚
func TestRunInTransaction(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	// 1. 成功的事务提交所有写入
	err := store.RunInTransaction(ctx, func(tx interfaces.Transaction) error {
		if err := tx.Set([]byte("tx-key-1"), []byte("v1")); err != nil {
			return err
		}
		return tx.Set([]byte("tx-key-2"), []byte("v2"))
	})
	require.NoError(t, err)

	val, err := store.Get(ctx, []byte("tx-key-1"))
	require.NoError(t, err)
	assert.Equal(t, []byte("v1"), val)

	// 2. 失败的事务回滚所有写入，错误原样返回
	sentinel := errors.New("business rule violated")
	err = store.RunInTransaction(ctx, func(tx interfaces.Transaction) error {
		if err := tx.Set([]byte("tx-key-3"), []byte("v3")); err != nil {
			return err
		}
		return sentinel
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, sentinel), "业务错误应原样穿透事务包装")

	val, err = store.Get(ctx, []byte("tx-key-3"))
	require.NoError(t, err)
	assert.Nil(t, val, "回滚后写入不应可见")
}

// 测试事务内读取自己的未提交写入
func TestTransactionReadsPendingWrites(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, []byte("pend:committed"), []byte("old")))

	err := store.RunInTransaction(ctx, func(tx interfaces.Transaction) error {
		if err := tx.Set([]byte("pend:new"), []byte("new")); err != nil {
			return err
		}

		// Get可见未提交写入
		val, err := tx.Get([]byte("pend:new"))
		if err != nil {
			return err
		}
		if string(val) != "new" {
			return fmt.Errorf("事务内应读到未提交写入，got %q", val)
		}

		// PrefixScan同样可见
		result, err := tx.PrefixScan([]byte("pend:"))
		if err != nil {
			return err
		}
		if len(result) != 2 {
			return fmt.Errorf("前缀扫描应包含未提交写入，got %d", len(result))
		}
		return nil
	})
	require.NoError(t, err)
}

// 测试内存模式
func TestInMemoryMode(t *testing.T) {
	cfg := badgerconfig.NewFromOptions(&badgerconfig.BadgerOptions{
		InMemory:     true,
		MemTableSize: 1 << 20,
	})

	store, err := New(cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	ctx := context.Background()
	require.NoError(t, store.Set(ctx, []byte("mem-key"), []byte("mem-value")))

	val, err := store.Get(ctx, []byte("mem-key"))
	require.NoError(t, err)
	assert.Equal(t, []byte("mem-value"), val)
}

// 测试关闭后拒绝写入
func TestCloseRejectsWrites(t *testing.T) {
	cfg := badgerconfig.NewFromOptions(&badgerconfig.BadgerOptions{
		InMemory:     true,
		MemTableSize: 1 << 20,
	})

	store, err := New(cfg, nil)
	require.NoError(t, err)

	require.NoError(t, store.Close())

	err = store.Set(context.Background(), []byte("k"), []byte("v"))
	assert.Error(t, err, "关闭后写入应被拒绝")

	// 重复关闭应幂等
	assert.NoError(t, store.Close())
}
