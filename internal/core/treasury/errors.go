package treasury

import "errors"

// 费用账本错误定义
var (
	// ErrNotAuthorized 调用方无权执行费用账本管理操作
	ErrNotAuthorized = errors.New("调用方无权执行费用账本管理操作")

	// ErrInvalidToken 代币标识为空
	ErrInvalidToken = errors.New("代币标识无效")

	// ErrTokenNotWhitelisted 支付Token未列入白名单
	ErrTokenNotWhitelisted = errors.New("支付Token未列入白名单")

	// ErrFeeNotSet 对应调用方类别的铸造费未设置或为零
	ErrFeeNotSet = errors.New("铸造费未设置")

	// ErrPaymentFailed 铸造费支付失败（包装金库错误）
	ErrPaymentFailed = errors.New("铸造费支付失败")

	// ErrRecipientNotFound 佣金接收人或服务费接收人无法解析
	ErrRecipientNotFound = errors.New("接收人无法解析")

	// ErrReentrant 付费铸造被重入调用
	ErrReentrant = errors.New("付费铸造不允许重入")

	// ErrNothingToWithdraw 可提取余额为零
	ErrNothingToWithdraw = errors.New("没有可提取的余额")

	// ErrInvalidFee 费用为nil或负数
	ErrInvalidFee = errors.New("费用必须为非负整数")

	// ErrInvalidCommissionRate 佣金费率超过10000基点
	ErrInvalidCommissionRate = errors.New("佣金费率不得超过10000基点")

	// ErrInvalidRecipient 接收人身份为空
	ErrInvalidRecipient = errors.New("接收人身份无效")
)
