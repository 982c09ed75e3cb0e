// Package types 提供 TDL 系统的公共类型定义
//
// 本文件定义验证方注册相关的公共类型
package types

// ValidatorRecord 验证方注册记录
//
// 🎯 **功能**：验证方目录的核心存储单元
//
// 注册记录完全数据驱动："未注册"与"已注册但停用"在所有权限判断中
// 等价于"不能验证"。移除操作整体清除记录。
type ValidatorRecord struct {
	ID               Identity          `json:"id"`
	Name             string            `json:"name"`
	Active           bool              `json:"active"`
	Categories       []AssetCategory   `json:"categories"`                  // 支持的资产类别
	Owner            Identity          `json:"owner"`                       // 佣金路由目标
	Agreements       map[string]string `json:"agreements,omitempty"`        // 协议URI → 展示名称
	DefaultAgreement string            `json:"default_agreement,omitempty"` // 默认协议URI
	RegisteredAt     int64             `json:"registered_at"`               // Unix秒
}

// Supports 检查验证方是否支持指定资产类别
func (v *ValidatorRecord) Supports(category AssetCategory) bool {
	for _, c := range v.Categories {
		if c == category {
			return true
		}
	}
	return false
}

// RecognizesAgreement 检查验证方是否认可指定协议引用
//
// 认可 = 该URI拥有非空展示名称，或为验证方的默认协议
func (v *ValidatorRecord) RecognizesAgreement(uri string) bool {
	if uri == "" {
		return false
	}
	if v.DefaultAgreement != "" && uri == v.DefaultAgreement {
		return true
	}
	return v.Agreements[uri] != ""
}

// ValidatorParams 验证方注册参数
type ValidatorParams struct {
	ID         Identity        `json:"id"`
	Name       string          `json:"name"`
	Categories []AssetCategory `json:"categories"`
	Owner      Identity        `json:"owner,omitempty"` // 为空时默认为验证方自身
}
