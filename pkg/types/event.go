// Package types 提供 TDL 系统的公共类型定义
//
// 本文件定义状态变更通知事件的类型与载荷结构。
// 事件仅在存储事务提交成功后发布，载荷为提交时刻的记录快照。
package types

import (
	"math/big"
	"time"
)

// EventType 事件类型
type EventType string

// 资产登记事件
const (
	EventAssetCreated           EventType = "asset.created"
	EventAssetMetadataUpdated   EventType = "asset.metadata_updated"
	EventAssetValidationChanged EventType = "asset.validation_changed"
	EventAssetTransferred       EventType = "asset.transferred"
	EventAssetBurned            EventType = "asset.burned"
)

// 验证方目录事件
const (
	EventValidatorRegistered EventType = "validator.registered"
	EventValidatorUpdated    EventType = "validator.updated"
	EventValidatorRemoved    EventType = "validator.removed"
)

// 费用账本事件
const (
	EventTreasuryWhitelistChanged EventType = "treasury.whitelist_changed"
	EventTreasuryFeeChanged       EventType = "treasury.fee_changed"
	EventTreasuryRatesChanged     EventType = "treasury.rates_changed"
	EventTreasuryRecipientChanged EventType = "treasury.recipient_changed"
	EventTreasuryMinted           EventType = "treasury.minted"
	EventTreasuryWithdrawn        EventType = "treasury.withdrawn"
)

// 支付金库事件
const (
	EventVaultCredited    EventType = "vault.credited"
	EventVaultTransferred EventType = "vault.transferred"
)

// 份额引擎事件
const (
	EventFractionCreated  EventType = "fraction.created"
	EventShareMinted      EventType = "share.minted"
	EventShareBurned      EventType = "share.burned"
	EventShareTransferred EventType = "share.transferred"
	EventApprovalSet      EventType = "approval.set"
	EventAssetLocked      EventType = "asset.locked"
	EventAssetUnlocked    EventType = "asset.unlocked"
)

// 地块划分事件
const (
	EventSubdivisionCreated     EventType = "subdivision.created"
	EventUnitMinted             EventType = "unit.minted"
	EventUnitBurned             EventType = "unit.burned"
	EventUnitTransferred        EventType = "unit.transferred"
	EventSubdivisionDeactivated EventType = "subdivision.deactivated"
)

// TDLEvent TDL通知事件结构
//
// 🎯 **功能**：所有引擎共用的事件信封
// 📋 **载荷**：Payload 为各引擎的具体载荷结构（Asset/Share/Treasury...）
type TDLEvent struct {
	ID        string      `json:"id"` // uuid
	EventType EventType   `json:"event_type"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload,omitempty"`
}

// Type 实现 pkg/interfaces/infrastructure/event.Event 接口
func (e *TDLEvent) Type() EventType {
	return e.EventType
}

// Data 实现 pkg/interfaces/infrastructure/event.Event 接口
func (e *TDLEvent) Data() interface{} {
	return e.Payload
}

// AssetEventPayload 资产登记事件载荷
type AssetEventPayload struct {
	Record AssetRecord `json:"record"`          // 提交时刻快照（销毁事件为销毁前快照）
	Caller Identity    `json:"caller"`          // 触发操作的调用方
	From   Identity    `json:"from,omitempty"`  // 转移事件：原持有人
	To     Identity    `json:"to,omitempty"`    // 转移/解锁事件：新持有人
}

// ValidatorEventPayload 验证方目录事件载荷
type ValidatorEventPayload struct {
	Record ValidatorRecord `json:"record"`
	Caller Identity        `json:"caller"`
}

// TreasuryEventPayload 费用账本事件载荷
type TreasuryEventPayload struct {
	Token      TokenKey    `json:"token,omitempty"`
	Caller     Identity    `json:"caller"`
	Class      CallerClass `json:"class,omitempty"`
	Fee        *big.Int    `json:"fee,omitempty"`
	Commission *big.Int    `json:"commission,omitempty"`
	Recipient  Identity    `json:"recipient,omitempty"` // 佣金/提取目标
	AssetID    AssetID     `json:"asset_id,omitempty"`  // 铸造事件：新资产编号
	Amount     *big.Int    `json:"amount,omitempty"`    // 提取事件：提取额
}

// VaultEventPayload 支付金库事件载荷
type VaultEventPayload struct {
	Token  TokenKey `json:"token"`
	From   Identity `json:"from,omitempty"`
	To     Identity `json:"to"`
	Amount *big.Int `json:"amount"`
}

// FractionEventPayload 份额集合事件载荷
type FractionEventPayload struct {
	Collection FractionCollection `json:"collection"`
	Caller     Identity           `json:"caller"`
}

// ShareEventPayload 份额变动事件载荷
type ShareEventPayload struct {
	CollectionID CollectionID `json:"collection_id"`
	Index        uint64       `json:"index"`
	Caller       Identity     `json:"caller"`
	From         Identity     `json:"from,omitempty"`
	To           Identity     `json:"to,omitempty"`
}

// ApprovalEventPayload 审批变更事件载荷
type ApprovalEventPayload struct {
	CollectionID CollectionID   `json:"collection_id"`
	Holder       Identity       `json:"holder"`
	Approval     ApprovalRecord `json:"approval"`
}

// UnlockEventPayload 资产解锁事件载荷
type UnlockEventPayload struct {
	CollectionID CollectionID `json:"collection_id"`
	AssetID      AssetID      `json:"asset_id"`
	Recipient    Identity     `json:"recipient"`
	BurnedShares uint64       `json:"burned_shares"` // 解锁时清除的流通份额数
	ByApproval   bool         `json:"by_approval"`   // true=审批路径，false=全额持有路径
}

// SubdivisionEventPayload 地块划分事件载荷
type SubdivisionEventPayload struct {
	Ledger SubdivisionLedger `json:"ledger"`
	Caller Identity          `json:"caller"`
}

// UnitEventPayload 单元变动事件载荷
type UnitEventPayload struct {
	SubdivisionID SubdivisionID `json:"subdivision_id"`
	Index         uint64        `json:"index"`
	Caller        Identity      `json:"caller"`
	From          Identity      `json:"from,omitempty"`
	To            Identity      `json:"to,omitempty"`
}
