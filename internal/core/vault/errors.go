package vault

import "errors"

// 金库引擎错误定义
var (
	// ErrNotAuthorized 调用方无权执行金库管理操作
	ErrNotAuthorized = errors.New("调用方无权执行金库管理操作")

	// ErrInvalidToken 代币标识为空
	ErrInvalidToken = errors.New("代币标识无效")

	// ErrInvalidAmount 金额为空、零或负数
	ErrInvalidAmount = errors.New("金额必须为正数")

	// ErrInvalidRecipient 目标身份为空
	ErrInvalidRecipient = errors.New("目标身份无效")

	// ErrInsufficientFunds 转出方余额不足
	ErrInsufficientFunds = errors.New("余额不足")
)
