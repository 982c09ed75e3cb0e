// 基于asaskevich/EventBus的事件总线实现
//
// ⚠️ **发布时机约束**：
// 业务引擎只在存储事务提交成功后调用 Publish/PublishEvent；
// 事务回滚路径不得触达事件总线。

package event

import (
	"sync"

	evbus "github.com/asaskevich/EventBus"
	eventconfig "github.com/titledger/v1/internal/config/event"
	"github.com/titledger/v1/pkg/interfaces/infrastructure/event"
)

// EventBus 是基于asaskevich/EventBus的实现
//
// 🎯 **功能**：
// - 进程内订阅/发布，同步与异步两种派发模式
// - 按事件类型的历史记录（供诊断接口查询）
// - 配置关闭时所有方法静默降级为空操作
type EventBus struct {
	bus    evbus.Bus           // 底层事件总线
	config *eventconfig.Config // 配置

	// 历史记录：按事件类型保留最近 N 条载荷
	historyMu     sync.RWMutex
	eventHistory  map[event.EventType][]interface{}
	historyLimits map[event.EventType]int
}

// New 创建事件总线实例
// 所有事件总线实例必须通过此函数创建，确保配置被正确应用
func New(config *eventconfig.Config) event.EventBus {
	return &EventBus{
		bus:           evbus.New(),
		config:        config,
		eventHistory:  make(map[event.EventType][]interface{}),
		historyLimits: make(map[event.EventType]int),
	}
}

// Subscribe 实现订阅
func (eb *EventBus) Subscribe(eventType event.EventType, handler interface{}) error {
	if !eb.config.IsEnabled() {
		return nil // 如果事件系统未启用，静默成功
	}
	return eb.bus.Subscribe(string(eventType), handler)
}

// SubscribeAsync 实现异步订阅
func (eb *EventBus) SubscribeAsync(eventType event.EventType, handler interface{}, transactional bool) error {
	if !eb.config.IsEnabled() {
		return nil
	}
	return eb.bus.SubscribeAsync(string(eventType), handler, transactional)
}

// SubscribeOnce 实现一次性订阅
func (eb *EventBus) SubscribeOnce(eventType event.EventType, handler interface{}) error {
	if !eb.config.IsEnabled() {
		return nil
	}
	return eb.bus.SubscribeOnce(string(eventType), handler)
}

// SubscribeOnceAsync 实现异步一次性订阅
func (eb *EventBus) SubscribeOnceAsync(eventType event.EventType, handler interface{}, transactional bool) error {
	if !eb.config.IsEnabled() {
		return nil
	}
	// asaskevich/EventBus库中SubscribeOnceAsync方法签名不同，需要单独处理
	eb.bus.SubscribeOnceAsync(string(eventType), handler)
	return nil
}

// Publish 实现发布
func (eb *EventBus) Publish(eventType event.EventType, args ...interface{}) {
	if !eb.config.IsEnabled() {
		return
	}

	if len(args) == 1 {
		eb.recordHistory(eventType, args[0])
	} else if len(args) > 1 {
		eb.recordHistory(eventType, args)
	}

	eb.bus.Publish(string(eventType), args...)
}

// PublishEvent 发布Event接口类型事件
func (eb *EventBus) PublishEvent(e event.Event) {
	if !eb.config.IsEnabled() {
		return
	}

	eb.recordHistory(e.Type(), e)

	eb.bus.Publish(string(e.Type()), e.Data())
}

// Unsubscribe 取消订阅
func (eb *EventBus) Unsubscribe(eventType event.EventType, handler interface{}) error {
	if !eb.config.IsEnabled() {
		return nil
	}
	return eb.bus.Unsubscribe(string(eventType), handler)
}

// WaitAsync 等待异步处理完成
func (eb *EventBus) WaitAsync() {
	if !eb.config.IsEnabled() {
		return
	}
	eb.bus.WaitAsync()
}

// HasCallback 检查是否有回调
func (eb *EventBus) HasCallback(eventType event.EventType) bool {
	if !eb.config.IsEnabled() {
		return false
	}
	return eb.bus.HasCallback(string(eventType))
}

// EnableEventHistory 为指定事件类型开启历史记录
// maxSize <= 0 时使用配置的默认上限
func (eb *EventBus) EnableEventHistory(eventType event.EventType, maxSize int) error {
	if !eb.config.IsEnabled() {
		return nil
	}

	if maxSize <= 0 {
		maxSize = eb.config.GetHistoryLimit()
	}

	eb.historyMu.Lock()
	defer eb.historyMu.Unlock()

	eb.historyLimits[eventType] = maxSize
	if _, exists := eb.eventHistory[eventType]; !exists {
		eb.eventHistory[eventType] = make([]interface{}, 0, maxSize)
	}
	// 上限缩小后裁剪已有记录，保留最新部分
	if history := eb.eventHistory[eventType]; len(history) > maxSize {
		eb.eventHistory[eventType] = history[len(history)-maxSize:]
	}

	return nil
}

// DisableEventHistory 关闭指定事件类型的历史记录并清空已有记录
func (eb *EventBus) DisableEventHistory(eventType event.EventType) error {
	eb.historyMu.Lock()
	defer eb.historyMu.Unlock()

	delete(eb.historyLimits, eventType)
	delete(eb.eventHistory, eventType)

	return nil
}

// GetEventHistory 获取指定类型的事件历史（从旧到新）
// 如果历史功能未启用或没有历史记录，返回nil
func (eb *EventBus) GetEventHistory(eventType event.EventType) []interface{} {
	eb.historyMu.RLock()
	defer eb.historyMu.RUnlock()

	history, exists := eb.eventHistory[eventType]
	if !exists || len(history) == 0 {
		return nil
	}

	result := make([]interface{}, len(history))
	copy(result, history)
	return result
}

// recordHistory 将事件载荷追加到历史记录
//
// 显式调用过 EnableEventHistory 的类型始终记录；
// 其余类型仅在配置全局开启历史功能时按默认上限记录。
func (eb *EventBus) recordHistory(eventType event.EventType, entry interface{}) {
	eb.historyMu.Lock()
	defer eb.historyMu.Unlock()

	limit, registered := eb.historyLimits[eventType]
	if !registered {
		if !eb.config.IsHistoryEnabled() {
			return
		}
		limit = eb.config.GetHistoryLimit()
	}

	history := append(eb.eventHistory[eventType], entry)
	if len(history) > limit {
		history = history[len(history)-limit:]
	}
	eb.eventHistory[eventType] = history
}
