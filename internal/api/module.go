package api

import (
	"github.com/titledger/v1/internal/api/http"
	"go.uber.org/fx"
)

// Module 返回API模块选项，使其可以被fx框架注册
// 该函数的作用:
// 1. 创建一个名为"api"的fx模块，用于将所有API相关组件组织在一起
// 2. 确保HTTP服务能够被正确注册和初始化
// 3. 为未来可能添加的其他API类型(gRPC/WebSocket)预留扩展空间
func Module() fx.Option {
	return fx.Module("api",
		// 导出HTTP服务模块
		// 这会加载api/http包中定义的所有服务和处理器
		// 包括HTTP服务器的启动、路由注册和请求处理逻辑
		http.Module(),
	)
}
