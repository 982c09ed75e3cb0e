package types

// ============================================================================
//                              资产登记请求
// ============================================================================

// CreateAssetRequest 直接铸造请求（仅验证方）
type CreateAssetRequest struct {
	Category     string `json:"category" binding:"required"`
	Owner        string `json:"owner" binding:"required"`
	AgreementRef string `json:"agreement_ref" binding:"required"`
	Definition   string `json:"definition" binding:"required"`
	Config       string `json:"config,omitempty"`
	Validator    string `json:"validator,omitempty"` // 为空时使用默认验证方
}

// UpdateAssetRequest 元数据更新请求
type UpdateAssetRequest struct {
	AgreementRef string `json:"agreement_ref" binding:"required"`
	Definition   string `json:"definition" binding:"required"`
	Config       string `json:"config,omitempty"`
}

// ValidateAssetRequest 验证标志翻转请求
type ValidateAssetRequest struct {
	Valid bool `json:"valid"`
}

// TransferAssetRequest 资产转移请求
type TransferAssetRequest struct {
	To string `json:"to" binding:"required"`
}

// BurnBatchRequest 批量销毁请求
type BurnBatchRequest struct {
	IDs []uint64 `json:"ids" binding:"required"`
}

// ============================================================================
//                              验证方目录请求
// ============================================================================

// RegisterValidatorRequest 验证方注册请求
type RegisterValidatorRequest struct {
	ID         string   `json:"id" binding:"required"`
	Name       string   `json:"name" binding:"required"`
	Categories []string `json:"categories" binding:"required"`
	Owner      string   `json:"owner,omitempty"` // 为空时默认为验证方自身
}

// SetActiveRequest 启用/停用请求
type SetActiveRequest struct {
	Active bool `json:"active"`
}

// SetCategoriesRequest 支持类别重设请求
type SetCategoriesRequest struct {
	Categories []string `json:"categories" binding:"required"`
}

// SetAgreementRequest 协议条目登记请求（name为空表示删除）
type SetAgreementRequest struct {
	URI  string `json:"uri" binding:"required"`
	Name string `json:"name"`
}

// SetDefaultAgreementRequest 默认协议设置请求
type SetDefaultAgreementRequest struct {
	URI string `json:"uri" binding:"required"`
}

// ============================================================================
//                              费用账本请求
// ============================================================================

// MintRequest 付费铸造请求
type MintRequest struct {
	Params    CreateAssetRequest `json:"params" binding:"required"`
	Validator string             `json:"validator,omitempty"` // 佣金目标验证方，为空时使用默认验证方
	Token     string             `json:"token" binding:"required"`
}

// MintBatchRequest 批量付费铸造请求
type MintBatchRequest struct {
	Items     []CreateAssetRequest `json:"items" binding:"required"`
	Validator string               `json:"validator,omitempty"`
	Token     string               `json:"token" binding:"required"`
}

// SetWhitelistRequest 白名单开关请求
type SetWhitelistRequest struct {
	Whitelisted bool `json:"whitelisted"`
}

// SetFeeScheduleRequest 费用计划设置请求（金额为十进制字符串）
type SetFeeScheduleRequest struct {
	RegularFee   string `json:"regular_fee" binding:"required"`
	ValidatorFee string `json:"validator_fee" binding:"required"`
}

// SetRatesRequest 佣金费率设置请求（基点，万分之一）
type SetRatesRequest struct {
	RegularBps   uint32 `json:"regular_bps"`
	ValidatorBps uint32 `json:"validator_bps"`
}

// SetRecipientRequest 服务费接收人设置请求
type SetRecipientRequest struct {
	Recipient string `json:"recipient" binding:"required"`
}

// ============================================================================
//                              支付金库请求
// ============================================================================

// VaultCreditRequest 金库充值请求（仅管理员）
type VaultCreditRequest struct {
	Token  string `json:"token" binding:"required"`
	To     string `json:"to" binding:"required"`
	Amount string `json:"amount" binding:"required"`
}

// VaultTransferRequest 金库划转请求
type VaultTransferRequest struct {
	Token  string `json:"token" binding:"required"`
	To     string `json:"to" binding:"required"`
	Amount string `json:"amount" binding:"required"`
}

// ============================================================================
//                              份额引擎请求
// ============================================================================

// CreateFractionRequest 份额集合创建请求
type CreateFractionRequest struct {
	AssetID             uint64 `json:"asset_id" binding:"required"`
	Category            string `json:"category" binding:"required"`
	Name                string `json:"name" binding:"required"`
	Symbol              string `json:"symbol" binding:"required"`
	Description         string `json:"description,omitempty"`
	TotalShares         uint64 `json:"total_shares" binding:"required"`
	MaxSharesPerWallet  uint64 `json:"max_shares_per_wallet,omitempty"` // 0表示不限（默认为份额总数）
	RequiredApprovalPct uint32 `json:"required_approval_pct" binding:"required"`
	Burnable            bool   `json:"burnable"`
}

// MintShareRequest 份额铸造请求
type MintShareRequest struct {
	Index     uint64 `json:"index"`
	Recipient string `json:"recipient" binding:"required"`
	Metadata  string `json:"metadata,omitempty"`
}

// ShareMintItem 批量份额铸造条目
type ShareMintItem struct {
	Index     uint64 `json:"index"`
	Recipient string `json:"recipient" binding:"required"`
	Metadata  string `json:"metadata,omitempty"`
}

// BatchMintSharesRequest 批量份额铸造请求
type BatchMintSharesRequest struct {
	Mints []ShareMintItem `json:"mints" binding:"required"`
}

// BurnShareRequest 份额销毁请求
type BurnShareRequest struct {
	Index uint64 `json:"index"`
}

// TransferShareRequest 份额转让请求
type TransferShareRequest struct {
	Index uint64 `json:"index"`
	To    string `json:"to" binding:"required"`
}

// ShareTransferItem 批量份额转让条目
type ShareTransferItem struct {
	Index uint64 `json:"index"`
	To    string `json:"to" binding:"required"`
}

// BatchTransferSharesRequest 批量份额转让请求
type BatchTransferSharesRequest struct {
	Transfers []ShareTransferItem `json:"transfers" binding:"required"`
}

// SetApprovalRequest 审批设置请求
type SetApprovalRequest struct {
	TransferApproved bool `json:"transfer_approved"`
	AdminApproved    bool `json:"admin_approved"`
}

// UnlockAssetRequest 资产解锁请求
type UnlockAssetRequest struct {
	Recipient      string `json:"recipient" binding:"required"`
	CheckApprovals bool   `json:"check_approvals"` // true=审批路径，false=全额持有路径
}

// ============================================================================
//                              地块划分请求
// ============================================================================

// CreateSubdivisionRequest 划分账本创建请求
type CreateSubdivisionRequest struct {
	AssetID     uint64 `json:"asset_id" binding:"required"`
	Category    string `json:"category" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Description string `json:"description,omitempty"`
	TotalUnits  uint64 `json:"total_units" binding:"required"`
	Burnable    bool   `json:"burnable"`
}

// MintUnitRequest 单元铸造请求
type MintUnitRequest struct {
	Index     uint64 `json:"index"`
	Recipient string `json:"recipient" binding:"required"`
	Metadata  string `json:"metadata,omitempty"`
}

// UnitMintItem 批量单元铸造条目
type UnitMintItem struct {
	Index     uint64 `json:"index"`
	Recipient string `json:"recipient" binding:"required"`
	Metadata  string `json:"metadata,omitempty"`
}

// BatchMintUnitsRequest 批量单元铸造请求
type BatchMintUnitsRequest struct {
	Mints []UnitMintItem `json:"mints" binding:"required"`
}

// BurnUnitRequest 单元销毁请求
type BurnUnitRequest struct {
	Index uint64 `json:"index"`
}

// TransferUnitRequest 单元转让请求
type TransferUnitRequest struct {
	Index uint64 `json:"index"`
	To    string `json:"to" binding:"required"`
}
