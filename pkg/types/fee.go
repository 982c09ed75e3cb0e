// Package types 提供 TDL 系统的公共类型定义
//
// 本文件定义费用与佣金账本相关的公共类型
package types

import "math/big"

// BpsDenominator 基点分母（万分比）
const BpsDenominator = 10000

// CallerClass 铸造调用方类别
//
// 付费铸造按调用方类别选择费率档位：已注册验证方享受验证方档，
// 其余身份走常规档
type CallerClass string

const (
	CallerRegular   CallerClass = "regular"
	CallerValidator CallerClass = "validator"
)

// TokenFeeEntry Token费用白名单条目
//
// 🎯 **功能**：单个支付Token的白名单状态与双档费用计划
// 📋 **约束**：费用为非负整数额（最小计价单位），nil 表示未设置
type TokenFeeEntry struct {
	Whitelisted  bool     `json:"whitelisted"`
	RegularFee   *big.Int `json:"regular_fee,omitempty"`   // 常规身份铸造费
	ValidatorFee *big.Int `json:"validator_fee,omitempty"` // 验证方身份铸造费
}

// FeeFor 返回指定调用方类别的铸造费，未设置时返回nil
func (e *TokenFeeEntry) FeeFor(class CallerClass) *big.Int {
	if class == CallerValidator {
		return e.ValidatorFee
	}
	return e.RegularFee
}

// CommissionRates 佣金费率（基点）
//
// 📋 **约束**：每档 ≤ 10000（100%），佣金 = 费用 × 费率 / 10000 向下取整
type CommissionRates struct {
	RegularBps   uint32 `json:"regular_bps"`
	ValidatorBps uint32 `json:"validator_bps"`
}

// RateFor 返回指定调用方类别的佣金费率
func (r CommissionRates) RateFor(class CallerClass) uint32 {
	if class == CallerValidator {
		return r.ValidatorBps
	}
	return r.RegularBps
}

// CommissionOf 按基点费率计算佣金额（向下取整）
//
// commission = fee × bps / 10000，使用big.Int避免中间溢出
func CommissionOf(fee *big.Int, bps uint32) *big.Int {
	if fee == nil || fee.Sign() <= 0 || bps == 0 {
		return new(big.Int)
	}
	c := new(big.Int).Mul(fee, big.NewInt(int64(bps)))
	return c.Div(c, big.NewInt(BpsDenominator))
}
