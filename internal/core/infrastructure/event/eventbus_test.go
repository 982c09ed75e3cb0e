package event

import (
	"sync"
	"testing"
	"time"

	eventconfig "github.com/titledger/v1/internal/config/event"
	"github.com/titledger/v1/pkg/interfaces/infrastructure/event"
	"github.com/titledger/v1/pkg/types"
)

// 验证同步订阅、发布与取消订阅
func TestEventBus(t *testing.T) {
	// 使用默认配置创建事件总线
	config := eventconfig.New(nil)
	eventBus := New(config)

	var receivedData string
	var wg sync.WaitGroup
	wg.Add(1)

	handler := func(data string) {
		receivedData = data
		wg.Done()
	}

	// 订阅事件
	err := eventBus.Subscribe(event.EventType("test-event"), handler)
	if err != nil {
		t.Fatalf("Failed to subscribe: %v", err)
	}

	// 发布事件
	eventBus.Publish(event.EventType("test-event"), "hello world")
	wg.Wait()

	if receivedData != "hello world" {
		t.Errorf("Expected 'hello world', got '%s'", receivedData)
	}

	// 测试异步事件处理
	var asyncData string
	var asyncWg sync.WaitGroup
	asyncWg.Add(1)

	asyncHandler := func(data string) {
		// 模拟耗时操作
		time.Sleep(100 * time.Millisecond)
		asyncData = data
		asyncWg.Done()
	}

	err = eventBus.SubscribeAsync(event.EventType("async-event"), asyncHandler, false)
	if err != nil {
		t.Fatalf("Failed to subscribe async: %v", err)
	}

	eventBus.Publish(event.EventType("async-event"), "async data")

	// 等待所有异步处理完成
	eventBus.WaitAsync()
	asyncWg.Wait()

	if asyncData != "async data" {
		t.Errorf("Expected 'async data', got '%s'", asyncData)
	}

	// 测试取消订阅
	err = eventBus.Unsubscribe(event.EventType("test-event"), handler)
	if err != nil {
		t.Fatalf("Failed to unsubscribe: %v", err)
	}

	receivedData = ""
	eventBus.Publish(event.EventType("test-event"), "should not receive")

	// 由于已取消订阅，receivedData应该保持为空
	if receivedData != "" {
		t.Errorf("Expected empty string after unsubscribe, got '%s'", receivedData)
	}
}

// 验证禁用配置下所有方法静默降级
func TestEventBus_Disabled(t *testing.T) {
	config := eventconfig.NewFromOptions(&eventconfig.EventOptions{Enabled: false})
	eventBus := New(config)

	called := false
	err := eventBus.Subscribe(types.EventAssetCreated, func(data interface{}) {
		called = true
	})
	if err != nil {
		t.Fatalf("Subscribe on disabled bus should not fail: %v", err)
	}

	eventBus.Publish(types.EventAssetCreated, "payload")
	eventBus.WaitAsync()

	if called {
		t.Error("禁用状态下不应触发任何处理器")
	}
	if eventBus.HasCallback(types.EventAssetCreated) {
		t.Error("禁用状态下HasCallback应返回false")
	}
	if history := eventBus.GetEventHistory(types.EventAssetCreated); history != nil {
		t.Errorf("禁用状态下不应记录历史，got %v", history)
	}
}

// 验证PublishEvent将事件信封投递给订阅者
func TestEventBus_PublishEvent(t *testing.T) {
	config := eventconfig.New(nil)
	eventBus := New(config)

	var received *types.AssetEventPayload
	var wg sync.WaitGroup
	wg.Add(1)

	err := eventBus.Subscribe(types.EventAssetCreated, func(data interface{}) {
		if payload, ok := data.(*types.AssetEventPayload); ok {
			received = payload
		}
		wg.Done()
	})
	if err != nil {
		t.Fatalf("Failed to subscribe: %v", err)
	}

	eventBus.PublishEvent(&types.TDLEvent{
		ID:        "evt-1",
		EventType: types.EventAssetCreated,
		Timestamp: time.Now(),
		Payload:   &types.AssetEventPayload{Caller: "validator-a"},
	})
	wg.Wait()

	if received == nil {
		t.Fatal("订阅者未收到事件载荷")
	}
	if received.Caller != "validator-a" {
		t.Errorf("Expected caller 'validator-a', got '%s'", received.Caller)
	}
}

// 验证按类型开启的历史记录及上限裁剪
func TestEventBus_History(t *testing.T) {
	config := eventconfig.New(nil) // 默认不开全局历史
	eventBus := New(config)

	// 未开启历史时不记录
	eventBus.Publish(types.EventVaultCredited, "ignored")
	if history := eventBus.GetEventHistory(types.EventVaultCredited); history != nil {
		t.Errorf("未开启历史时应返回nil，got %v", history)
	}

	// 开启后按上限保留最新记录
	if err := eventBus.EnableEventHistory(types.EventVaultCredited, 2); err != nil {
		t.Fatalf("Failed to enable history: %v", err)
	}
	eventBus.Publish(types.EventVaultCredited, "first")
	eventBus.Publish(types.EventVaultCredited, "second")
	eventBus.Publish(types.EventVaultCredited, "third")

	history := eventBus.GetEventHistory(types.EventVaultCredited)
	if len(history) != 2 {
		t.Fatalf("Expected 2 history entries, got %d", len(history))
	}
	if history[0] != "second" || history[1] != "third" {
		t.Errorf("历史应保留最新两条（从旧到新），got %v", history)
	}

	// 其它类型不受影响
	eventBus.Publish(types.EventVaultTransferred, "other")
	if h := eventBus.GetEventHistory(types.EventVaultTransferred); h != nil {
		t.Errorf("未登记类型不应记录历史，got %v", h)
	}

	// 关闭后清空
	if err := eventBus.DisableEventHistory(types.EventVaultCredited); err != nil {
		t.Fatalf("Failed to disable history: %v", err)
	}
	if h := eventBus.GetEventHistory(types.EventVaultCredited); h != nil {
		t.Errorf("关闭历史后应返回nil，got %v", h)
	}
}

// 验证全局历史开关对所有类型生效
func TestEventBus_GlobalHistory(t *testing.T) {
	config := eventconfig.NewFromOptions(&eventconfig.EventOptions{
		Enabled:       true,
		EnableHistory: true,
		HistoryLimit:  3,
	})
	eventBus := New(config)

	eventBus.PublishEvent(&types.TDLEvent{
		ID:        "evt-2",
		EventType: types.EventShareMinted,
		Timestamp: time.Now(),
		Payload:   &types.ShareEventPayload{Index: 7},
	})

	history := eventBus.GetEventHistory(types.EventShareMinted)
	if len(history) != 1 {
		t.Fatalf("Expected 1 history entry, got %d", len(history))
	}
	evt, ok := history[0].(*types.TDLEvent)
	if !ok {
		t.Fatalf("历史应保存事件信封，got %T", history[0])
	}
	if evt.ID != "evt-2" {
		t.Errorf("Expected event id 'evt-2', got '%s'", evt.ID)
	}
}
