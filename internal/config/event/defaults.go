package event

// 事件系统默认配置值
// 这些默认值基于事件驱动系统的最佳实践和性能考虑
const (
	// === 基础事件配置 ===

	// defaultEnabled 默认启用事件系统
	// 原因：事件系统是账本的核心组件，用于通知各模块状态变化
	// 所有登记、铸造、转移操作都需要事件通知，默认启用保证系统正常运行
	defaultEnabled = true

	// defaultBufferSize 默认事件缓冲区大小设为1000
	// 原因：1000个事件的缓冲区能处理大多数突发事件场景
	// 平衡内存使用和事件处理能力，避免因缓冲区满而丢失事件
	defaultBufferSize = 1000

	// defaultMaxWorkers 默认事件处理工作者数量设为10
	// 原因：10个工作者能够并行处理多个事件，提高系统响应性
	// 避免单一工作者成为瓶颈，同时控制资源消耗
	defaultMaxWorkers = 10

	// defaultMaxSubscribers 默认最大订阅者数量设为1000
	// 原因：1000个订阅者能满足大多数部署场景的需求
	// 限制订阅者数量避免事件分发成为性能瓶颈
	defaultMaxSubscribers = 1000

	// === 历史记录配置 ===

	// defaultEnableHistory 默认关闭事件历史记录
	// 原因：历史记录主要服务于调试和测试，生产环境按需开启
	defaultEnableHistory = false

	// defaultHistoryLimit 默认事件历史最大条数设为1000
	// 原因：1000条历史覆盖常见的问题排查窗口，避免无界增长
	defaultHistoryLimit = 1000
)
