package api

import "time"

// API服务默认配置值
// 这些默认值基于HTTP服务的最佳实践和账本节点的访问模式
const (
	// === HTTP基础配置 ===

	// defaultHTTPEnabled 默认启用HTTP服务
	// 原因：HTTP API是节点对外的唯一业务入口，默认开启保证开箱即用
	defaultHTTPEnabled = true

	// defaultHTTPHost 默认监听所有网卡
	// 原因：容器和裸机部署都能直接访问，生产环境可通过配置收紧
	defaultHTTPHost = "0.0.0.0"

	// defaultHTTPPort 默认HTTP端口设为28680
	// 原因：避开常见服务端口，固定端口便于运维和文档约定
	defaultHTTPPort = 28680

	// === 超时配置 ===

	// defaultHTTPTimeout 默认请求超时30秒
	// 原因：30秒覆盖批量铸造等较重的写操作，同时防止连接无限挂起
	defaultHTTPTimeout = 30 * time.Second

	// defaultHTTPReadTimeout 默认读取超时15秒
	// 原因：请求体较小（JSON），15秒足够慢速客户端完成传输
	defaultHTTPReadTimeout = 15 * time.Second

	// defaultHTTPWriteTimeout 默认写入超时15秒
	// 原因：响应体较小，15秒足够完成响应写出
	defaultHTTPWriteTimeout = 15 * time.Second

	// === CORS配置 ===

	// defaultCORSEnabled 默认启用CORS
	// 原因：管理前端通常跨域访问节点API，默认开启降低接入成本
	defaultCORSEnabled = true

	// === 指标配置 ===

	// defaultMetricsEnabled 默认暴露 /metrics
	// 原因：prometheus抓取是标准运维手段，指标端点无业务风险
	defaultMetricsEnabled = true

	// === 安全配置 ===

	// defaultMaxRequestSize 默认最大请求大小1MB
	// 原因：最大的请求是批量铸造列表，1MB足够数千个条目
	defaultMaxRequestSize = 1 << 20 // 1MB
)

// defaultCORSOrigins 默认允许所有来源
// 原因：节点本身不持有会话凭证，身份由调用方头部声明，跨域放开不引入额外风险
var defaultCORSOrigins = []string{"*"}
