// Package types 提供 TDL 系统的公共类型定义
//
// 本文件定义系统级基础标识类型，供接口定义和实现共同使用
package types

import (
	"encoding/json"
	"strings"
)

// Identity 参与方标识符类型
//
// 🎯 **功能**：统一标识系统中的所有参与方（持有人、验证方、管理员、托管账户）
// 📋 **格式**：宿主断言的不透明字符串，核心层不做任何鉴权，只检查非空
// ⚠️ **注意**：身份的真实性由接入层（HTTP头、CLI参数）负责，核心层按值使用
type Identity string

// String 返回Identity的字符串表示
func (i Identity) String() string {
	return string(i)
}

// IsValid 检查Identity是否有效（非空且非纯空白）
func (i Identity) IsValid() bool {
	return len(strings.TrimSpace(string(i))) > 0
}

// MarshalJSON 实现JSON序列化
func (i Identity) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(i))
}

// UnmarshalJSON 实现JSON反序列化
func (i *Identity) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*i = Identity(s)
	return nil
}

// AssetID 资产登记编号
//
// 由资产登记引擎的计数器单调分配，从1开始，0表示未分配
type AssetID uint64

// CollectionID 份额集合编号
//
// 由份额引擎的计数器单调分配，从1开始，0表示未分配
type CollectionID uint64

// SubdivisionID 地块划分账本编号
type SubdivisionID uint64

// TokenKey 支付Token标识符类型
//
// 🎯 **功能**：标识费用结算使用的同质化Token
// 📋 **格式**：宿主侧Token句柄的不透明字符串（如 "usd-stable"）
type TokenKey string

// String 返回TokenKey的字符串表示
func (t TokenKey) String() string {
	return string(t)
}

// IsValid 检查TokenKey是否有效
func (t TokenKey) IsValid() bool {
	return len(strings.TrimSpace(string(t))) > 0
}
