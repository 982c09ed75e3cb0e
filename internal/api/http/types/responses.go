package types

import (
	"math/big"

	"github.com/titledger/v1/pkg/types"
)

// AmountString 将big.Int金额编码为十进制字符串（nil视为0）
func AmountString(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}

// StatusResponse 通用状态响应
type StatusResponse struct {
	Status string `json:"status"`
}

// CountResponse 计数查询响应
type CountResponse struct {
	Count uint64 `json:"count"`
}

// HolderResponse 持有人查询响应
type HolderResponse struct {
	ID     uint64 `json:"id"`
	Holder string `json:"holder"`
}

// SubdividableResponse 可划分性查询响应
type SubdividableResponse struct {
	ID           uint64 `json:"id"`
	Subdividable bool   `json:"subdividable"`
}

// AssetListResponse 资产列表响应
type AssetListResponse struct {
	Assets []*types.AssetRecord `json:"assets"`
	Total  int                  `json:"total"`
}

// ValidatorListResponse 验证方列表响应
type ValidatorListResponse struct {
	Validators []*types.ValidatorRecord `json:"validators"`
	Total      int                      `json:"total"`
}

// AgreementResponse 协议查询响应
type AgreementResponse struct {
	ID               string `json:"id"`
	DefaultAgreement string `json:"default_agreement,omitempty"`
	URI              string `json:"uri,omitempty"`
	Name             string `json:"name,omitempty"`
}

// TokenFeeResponse 代币费用配置查询响应
type TokenFeeResponse struct {
	Token        string `json:"token"`
	Whitelisted  bool   `json:"whitelisted"`
	RegularFee   string `json:"regular_fee,omitempty"`
	ValidatorFee string `json:"validator_fee,omitempty"`
}

// RatesResponse 佣金费率查询响应
type RatesResponse struct {
	RegularBps   uint32 `json:"regular_bps"`
	ValidatorBps uint32 `json:"validator_bps"`
}

// RecipientResponse 服务费接收人查询响应
type RecipientResponse struct {
	Recipient string `json:"recipient"`
}

// WithdrawResponse 费用提取响应
type WithdrawResponse struct {
	Token  string `json:"token"`
	Amount string `json:"amount"`
}

// BalanceResponse 余额查询响应
type BalanceResponse struct {
	Token   string `json:"token"`
	Holder  string `json:"holder,omitempty"`
	Balance string `json:"balance"`
}

// ShareOwnerResponse 份额/单元持有人查询响应
type ShareOwnerResponse struct {
	ID    uint64 `json:"id"`
	Index uint64 `json:"index"`
	Owner string `json:"owner"`
}

// HoldersResponse 去重持有人列表响应
type HoldersResponse struct {
	ID      uint64   `json:"id"`
	Holders []string `json:"holders"`
	Total   int      `json:"total"`
}

// HolderCountResponse 单一持有人份额计数响应
type HolderCountResponse struct {
	ID     uint64 `json:"id"`
	Holder string `json:"holder"`
	Count  uint64 `json:"count"`
}

// ApprovalResponse 审批状态查询响应
type ApprovalResponse struct {
	ID               uint64 `json:"id"`
	Holder           string `json:"holder"`
	TransferApproved bool   `json:"transfer_approved"`
	AdminApproved    bool   `json:"admin_approved"`
}
