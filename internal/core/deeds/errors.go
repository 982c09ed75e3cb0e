package deeds

import "errors"

// 错误定义
var (
	// ErrNotFound 资产记录不存在
	ErrNotFound = errors.New("资产记录不存在")
	// ErrNotAuthorized 调用方既非持有人也非已启用验证方
	ErrNotAuthorized = errors.New("调用方无权操作资产记录")
	// ErrNotOwner 调用方不是资产当前持有人
	ErrNotOwner = errors.New("调用方不是资产持有人")
	// ErrInvalidOwner 铸造参数缺少持有人
	ErrInvalidOwner = errors.New("资产持有人不能为空")
	// ErrInvalidCategory 资产类别不在法定类别之内
	ErrInvalidCategory = errors.New("无效的资产类别")
	// ErrMissingField 协议引用或资产定义为空
	ErrMissingField = errors.New("协议引用与资产定义不能为空")
	// ErrValidatorNotRegistered 指定验证方未注册或未启用
	ErrValidatorNotRegistered = errors.New("验证方未注册或未启用")
	// ErrCategoryNotSupported 验证方不支持该资产类别
	ErrCategoryNotSupported = errors.New("验证方不支持该资产类别")
	// ErrInvalidAgreement 验证方不认可该协议引用
	ErrInvalidAgreement = errors.New("验证方不认可该协议引用")
	// ErrNoValidatorAvailable 记录与登记引擎均无可用验证方
	ErrNoValidatorAvailable = errors.New("没有可用的验证方")
	// ErrSelfValidation 持有人不得验证自己的资产
	ErrSelfValidation = errors.New("不允许验证自己持有的资产")
	// ErrAssetLocked 资产处于托管锁定状态
	ErrAssetLocked = errors.New("资产处于托管锁定状态")
	// ErrNotInCustody 资产未处于托管状态
	ErrNotInCustody = errors.New("资产未处于托管状态")
	// ErrInvalidRecipient 转移目标身份为空
	ErrInvalidRecipient = errors.New("转移目标身份不能为空")
)
