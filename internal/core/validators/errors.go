package validators

import "errors"

// 错误定义
var (
	// ErrNotAuthorized 调用方无权执行目录管理操作
	ErrNotAuthorized = errors.New("调用方无权管理验证方目录")
	// ErrNotRegistered 目标身份未注册为验证方
	ErrNotRegistered = errors.New("验证方未注册")
	// ErrAlreadyRegistered 目标身份已注册
	ErrAlreadyRegistered = errors.New("验证方已注册")
	// ErrInvalidIdentity 验证方身份为空
	ErrInvalidIdentity = errors.New("验证方身份不能为空")
	// ErrEmptyName 验证方名称为空
	ErrEmptyName = errors.New("验证方名称不能为空")
	// ErrInvalidCategory 资产类别不在法定类别之内
	ErrInvalidCategory = errors.New("无效的资产类别")
	// ErrInvalidAgreement 协议URI为空
	ErrInvalidAgreement = errors.New("协议URI不能为空")
)
