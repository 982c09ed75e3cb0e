// Package validators 提供验证方目录的公共接口定义
//
// 📊 **验证方目录 (Validator Directory) 设计定位**
//
// 🎯 **核心职责**：
// 维护验证方注册表：注册/停用/移除、支持类别、所有人路由、
// 运营协议认可表，并为其他引擎提供纯查询能力。
//
// 💡 **设计理念**：
// 完全数据驱动的权限裁决："未注册"与"已注册但停用"在所有
// 调用方权限判断中等价。查询接口对未知身份返回零值而非错误。
package validators

import (
	"context"

	"github.com/titledger/v1/pkg/types"
)

// Directory 验证方目录接口
type Directory interface {
	// Register 注册验证方（仅管理员）
	//
	// Owner为空时默认为验证方自身。新记录默认Active=true。
	Register(ctx context.Context, caller types.Identity, params types.ValidatorParams) (*types.ValidatorRecord, error)

	// SetActive 启用/停用验证方（仅管理员）
	SetActive(ctx context.Context, caller types.Identity, id types.Identity, active bool) error

	// SetSupportedCategories 重设验证方支持的资产类别（仅管理员）
	SetSupportedCategories(ctx context.Context, caller types.Identity, id types.Identity, categories []types.AssetCategory) error

	// Remove 移除验证方（仅管理员），记录整体清除
	Remove(ctx context.Context, caller types.Identity, id types.Identity) error

	// SetAgreement 登记/更新协议URI的展示名称（管理员或验证方所有人）
	//
	// name为空表示删除该协议条目
	SetAgreement(ctx context.Context, caller types.Identity, id types.Identity, uri, name string) error

	// SetDefaultAgreement 设置验证方默认协议URI（管理员或验证方所有人）
	SetDefaultAgreement(ctx context.Context, caller types.Identity, id types.Identity, uri string) error

	// Get 获取验证方记录，未注册时返回ErrNotRegistered
	Get(ctx context.Context, id types.Identity) (*types.ValidatorRecord, error)

	// IsRegistered 检查身份是否已注册（不论启用状态）
	IsRegistered(ctx context.Context, id types.Identity) (bool, error)

	// IsActive 检查身份是否已注册且启用
	IsActive(ctx context.Context, id types.Identity) (bool, error)

	// OwnerOf 获取验证方所有人，未注册返回空Identity
	OwnerOf(ctx context.Context, id types.Identity) (types.Identity, error)

	// SupportedCategories 获取验证方支持类别，未注册返回nil
	SupportedCategories(ctx context.Context, id types.Identity) ([]types.AssetCategory, error)

	// Supports 检查验证方是否已注册、启用且支持指定类别
	Supports(ctx context.Context, id types.Identity, category types.AssetCategory) (bool, error)

	// AgreementName 查询协议URI的展示名称，未认可返回空串
	AgreementName(ctx context.Context, id types.Identity, uri string) (string, error)

	// DefaultAgreement 获取验证方默认协议URI，未设置返回空串
	DefaultAgreement(ctx context.Context, id types.Identity) (string, error)

	// List 列出全部验证方记录
	List(ctx context.Context) ([]*types.ValidatorRecord, error)

	// ListByCategory 按支持类别列出验证方（旁路索引）
	ListByCategory(ctx context.Context, category types.AssetCategory) ([]*types.ValidatorRecord, error)
}
