package fractions

import "errors"

// 份额集合错误定义
var (
	// ErrNotFound 集合、账本或底层资产不存在
	ErrNotFound = errors.New("目标记录不存在")

	// ErrNotOwner 调用方不是底层资产的当前持有人
	ErrNotOwner = errors.New("调用方不是底层资产持有人")

	// ErrNotAuthorized 调用方无权执行该操作
	ErrNotAuthorized = errors.New("调用方无权执行该操作")

	// ErrInvalidShareCount 份额总数为零
	ErrInvalidShareCount = errors.New("份额总数必须为正数")

	// ErrInvalidApprovalPercentage 审批百分比超出51-100法定区间
	ErrInvalidApprovalPercentage = errors.New("审批百分比必须在51到100之间")

	// ErrCategoryMismatch 参数类别与资产记录的类别不一致
	ErrCategoryMismatch = errors.New("类别与资产记录不一致")

	// ErrAssetLocked 底层资产已处于托管
	ErrAssetLocked = errors.New("底层资产已处于托管")

	// ErrSubdivisionActive 底层资产存在活跃的地块划分账本
	ErrSubdivisionActive = errors.New("资产存在活跃的地块划分账本")

	// ErrNotActive 集合或账本已终结
	ErrNotActive = errors.New("集合或账本已终结")

	// ErrInvalidShareID 份额编号超出集合范围
	ErrInvalidShareID = errors.New("份额编号超出集合范围")

	// ErrAllSharesMinted 集合份额已全部铸造
	ErrAllSharesMinted = errors.New("集合份额已全部铸造")

	// ErrShareAlreadyMinted 该份额编号已被铸造
	ErrShareAlreadyMinted = errors.New("该份额已被铸造")

	// ErrInvalidRecipient 接收人身份为空
	ErrInvalidRecipient = errors.New("接收人身份无效")

	// ErrExceedsWalletLimit 接收方持有数将超出单钱包上限
	ErrExceedsWalletLimit = errors.New("超出单钱包持有上限")

	// ErrBurningDisabled 集合或账本不允许销毁
	ErrBurningDisabled = errors.New("该集合不允许销毁")

	// ErrNotShareOwner 调用方不持有该份额
	ErrNotShareOwner = errors.New("调用方不持有该份额")

	// ErrTransferNotApproved 份额持有人未授权管理员代为转让
	ErrTransferNotApproved = errors.New("持有人未授权代为转让")

	// ErrNotShareHolder 调用方当前不持有该集合的任何份额
	ErrNotShareHolder = errors.New("调用方不持有该集合份额")

	// ErrMustOwnAllShares 调用方必须持有全部流通份额才能解锁
	ErrMustOwnAllShares = errors.New("必须持有全部流通份额")

	// ErrInsufficientApprovals 管理审批比例未达到集合要求
	ErrInsufficientApprovals = errors.New("审批比例未达到集合要求")
)

// 地块划分错误定义
var (
	// ErrNotSubdividable 资产类别不允许地块划分
	ErrNotSubdividable = errors.New("该资产类别不允许地块划分")

	// ErrInvalidUnitCount 单元总数为零
	ErrInvalidUnitCount = errors.New("单元总数必须为正数")

	// ErrInvalidUnitID 单元编号超出账本范围
	ErrInvalidUnitID = errors.New("单元编号超出账本范围")

	// ErrAllUnitsMinted 账本单元已全部铸造
	ErrAllUnitsMinted = errors.New("账本单元已全部铸造")

	// ErrUnitAlreadyMinted 该单元编号已被铸造
	ErrUnitAlreadyMinted = errors.New("该单元已被铸造")

	// ErrNotUnitOwner 调用方不持有该单元
	ErrNotUnitOwner = errors.New("调用方不持有该单元")

	// ErrUnitsOutstanding 存在未回到资产持有人手中的在册单元
	ErrUnitsOutstanding = errors.New("存在未回收的在册单元")
)
