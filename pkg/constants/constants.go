// Package constants 提供TDL系统级常量定义
//
// 🎯 **常量归口管理**
//
// 应用名称、版本与网络默认值的唯一出处，避免散落在各层的
// 魔法字符串漂移。
package constants

const (
	// AppName 应用名称
	AppName = "titledger"

	// Version 应用版本号
	Version = "v1.0.0"

	// DefaultHTTPPort HTTP API默认监听端口
	DefaultHTTPPort = 28680

	// DefaultHTTPHost HTTP API默认监听地址
	DefaultHTTPHost = "0.0.0.0"

	// DefaultDataDir 默认数据目录
	DefaultDataDir = "./data"
)
