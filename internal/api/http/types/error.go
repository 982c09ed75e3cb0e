// Package types 提供HTTP接口的请求/响应结构定义
//
// 金额字段统一使用十进制字符串编码，避免JSON数值精度丢失。
package types

// ErrorResponse 错误响应体
type ErrorResponse struct {
	Error string `json:"error"`
}
