// Package types 提供 TDL 系统的公共类型定义
//
// 本文件定义份额集合与地块划分账本相关的公共类型
package types

// 审批百分比法定区间
const (
	MinApprovalPct = 51
	MaxApprovalPct = 100
)

// FractionCollection 份额集合记录
//
// 🎯 **功能**：针对单个托管资产发行的份额集合
//
// 集合创建时份额引擎接管底层资产托管（Locked=true），解锁投票通过或
// 全额持有人赎回后集合终结（Active=false），记录保留作审计痕迹。
type FractionCollection struct {
	ID                 CollectionID  `json:"id"`
	AssetID            AssetID       `json:"asset_id"`
	AssetCategory      AssetCategory `json:"asset_category"`
	Name               string        `json:"name"`
	Symbol             string        `json:"symbol"`
	Description        string        `json:"description,omitempty"`
	TotalShares        uint64        `json:"total_shares"`          // 份额上限
	ActiveShares       uint64        `json:"active_shares"`         // 当前流通份额数
	MaxSharesPerWallet uint64        `json:"max_shares_per_wallet"` // 单钱包持有上限
	RequiredApprovalPct uint32       `json:"required_approval_pct"` // 解锁所需审批百分比（51-100）
	Active             bool          `json:"active"`
	Burnable           bool          `json:"burnable"`
	Admin              Identity      `json:"admin"` // 集合管理员（创建人）
	CreatedAt          int64         `json:"created_at"`
}

// FractionParams 份额集合创建参数
type FractionParams struct {
	AssetID            AssetID       `json:"asset_id"`
	Category           AssetCategory `json:"category"` // 必须与资产记录的类别一致
	Name               string        `json:"name"`
	Symbol             string        `json:"symbol"`
	Description        string        `json:"description,omitempty"`
	TotalShares        uint64        `json:"total_shares"`
	MaxSharesPerWallet uint64        `json:"max_shares_per_wallet,omitempty"` // 0 表示默认为TotalShares
	RequiredApprovalPct uint32       `json:"required_approval_pct"`
	Burnable           bool          `json:"burnable"`
}

// ShareRecord 单份额记录
//
// 份额身份由 (CollectionID, Index) 复合键确定，Index ∈ [0, TotalShares)
type ShareRecord struct {
	Owner    Identity `json:"owner"`
	Metadata string   `json:"metadata,omitempty"` // 不透明句柄
}

// ShareMint 批量铸造份额的单项参数
type ShareMint struct {
	Index     uint64   `json:"index"`
	Recipient Identity `json:"recipient"`
	Metadata  string   `json:"metadata,omitempty"`
}

// ShareTransfer 批量转让份额的单项参数
type ShareTransfer struct {
	Index uint64   `json:"index"`
	To    Identity `json:"to"`
}

// ApprovalRecord 持有人审批记录
//
// 🎯 **功能**：单个持有人对集合的转让/管理审批标志
// 📋 **用途**：AdminApproved 参与解锁投票计数；TransferApproved 授权
// 集合管理员代持有人转让份额
type ApprovalRecord struct {
	TransferApproved bool `json:"transfer_approved"`
	AdminApproved    bool `json:"admin_approved"`
}

// SubdivisionLedger 地块划分账本记录
//
// 🎯 **功能**：针对 Land/Estate 资产的单元账本（不转移托管）
//
// 与份额集合不同：底层资产保持可流转，单元铸造权始终跟随资产的
// 实时持有人；停用要求所有在册单元回到资产持有人手中
type SubdivisionLedger struct {
	ID            SubdivisionID `json:"id"`
	AssetID       AssetID       `json:"asset_id"`
	AssetCategory AssetCategory `json:"asset_category"`
	Name          string        `json:"name"`
	Description   string        `json:"description,omitempty"`
	TotalUnits    uint64        `json:"total_units"`
	ActiveUnits   uint64        `json:"active_units"`
	Active        bool          `json:"active"`
	Burnable      bool          `json:"burnable"`
	CreatedAt     int64         `json:"created_at"`
}

// SubdivisionParams 地块划分账本创建参数
type SubdivisionParams struct {
	AssetID     AssetID       `json:"asset_id"`
	Category    AssetCategory `json:"category"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	TotalUnits  uint64        `json:"total_units"`
	Burnable    bool          `json:"burnable"`
}

// UnitRecord 单元记录
type UnitRecord struct {
	Owner    Identity `json:"owner"`
	Metadata string   `json:"metadata,omitempty"`
}

// UnitMint 批量铸造单元的单项参数
type UnitMint struct {
	Index     uint64   `json:"index"`
	Recipient Identity `json:"recipient"`
	Metadata  string   `json:"metadata,omitempty"`
}
