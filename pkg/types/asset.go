// Package types 提供 TDL 系统的公共类型定义
//
// 本文件定义资产登记相关的公共类型
package types

import "strings"

// AssetCategory 资产类别
//
// 🎯 **功能**：划分资产登记的四种法定类别
// 📋 **约束**：只有 Land 和 Estate 两类允许地块划分
type AssetCategory string

const (
	CategoryLand                AssetCategory = "land"
	CategoryVehicle             AssetCategory = "vehicle"
	CategoryEstate              AssetCategory = "estate"
	CategoryCommercialEquipment AssetCategory = "commercial_equipment"
)

// IsValid 检查资产类别是否为四种法定类别之一
func (c AssetCategory) IsValid() bool {
	switch c {
	case CategoryLand, CategoryVehicle, CategoryEstate, CategoryCommercialEquipment:
		return true
	}
	return false
}

// CanSubdivide 检查该类别是否允许地块划分
func (c AssetCategory) CanSubdivide() bool {
	return c == CategoryLand || c == CategoryEstate
}

// String 返回类别的字符串表示
func (c AssetCategory) String() string {
	return string(c)
}

// ParseAssetCategory 从字符串解析资产类别（大小写不敏感）
func ParseAssetCategory(s string) (AssetCategory, bool) {
	c := AssetCategory(strings.ToLower(strings.TrimSpace(s)))
	if c.IsValid() {
		return c, true
	}
	return "", false
}

// AssetRecord 资产登记记录
//
// 🎯 **功能**：资产登记引擎的核心存储单元
//
// 生命周期：铸造（经验证方确认）→ 验证翻转/元数据更新 → 销毁（记录清除）。
// 托管状态（Locked/Custodian）由份额引擎独占写入，托管期间记录不可转移、
// 不可销毁，但名义持有人（Holder）保持不变。
type AssetRecord struct {
	ID           AssetID       `json:"id"`
	Category     AssetCategory `json:"category"`
	Validated    bool          `json:"validated"`               // 验证标志
	AgreementRef string        `json:"agreement_ref"`           // 运营协议引用（不透明句柄）
	Definition   string        `json:"definition"`              // 资产定义（不透明句柄）
	Config       string        `json:"config,omitempty"`        // 附加配置（可为空）
	Validator    Identity      `json:"validator,omitempty"`     // 指派验证方
	Holder       Identity      `json:"holder"`                  // 名义持有人
	Custodian    Identity      `json:"custodian,omitempty"`     // 托管方（锁定期间为份额引擎身份）
	Locked       bool          `json:"locked"`                  // 托管锁定标志
	CreatedAt    int64         `json:"created_at"`              // Unix秒
	UpdatedAt    int64         `json:"updated_at"`              // Unix秒
}

// AssetParams 资产铸造参数
//
// 直接铸造路径与付费铸造路径共用；Owner 由调用路径决定
// （直接路径显式指定，付费路径为付款人）
type AssetParams struct {
	Category     AssetCategory `json:"category"`
	Owner        Identity      `json:"owner"`
	AgreementRef string        `json:"agreement_ref"`
	Definition   string        `json:"definition"`
	Config       string        `json:"config,omitempty"`
	Validator    Identity      `json:"validator,omitempty"` // 为空时使用登记引擎默认验证方
}

// AssetUpdate 资产元数据更新参数
type AssetUpdate struct {
	AgreementRef string `json:"agreement_ref"`
	Definition   string `json:"definition"`
	Config       string `json:"config,omitempty"`
}
