package ledger

// 账本业务默认配置值
// 这些默认值面向开发环境开箱即用，生产环境必须显式配置身份
const (
	// defaultAdmin 默认管理员身份
	// 原因：开发环境需要一个可直接使用的管理员账户完成初始化
	// 生产环境应通过配置文件覆盖为真实的运营身份
	defaultAdmin = "tdl-admin"

	// defaultEngineIdentity 默认份额引擎托管身份
	// 原因：资产锁定期间记录的托管人需要稳定、可识别的名字
	// 该身份只出现在托管字段中，不参与任何余额或权限判断
	defaultEngineIdentity = "tdl-fraction-engine"

	// defaultTreasuryIdentity 默认金库托管账户身份
	// 原因：铸造费在支付代币账本中需要一个归集账户
	// 服务费与佣金从该账户提取，独立身份便于对账
	defaultTreasuryIdentity = "tdl-treasury"

	// defaultDefaultValidator 默认验证方留空
	// 原因：默认验证方是部署方的业务决策，没有普适的默认值
	// 留空时创建资产必须显式指定验证方
	defaultDefaultValidator = ""

	// defaultStorageEngine 默认使用BadgerDB存储引擎
	// 原因：BadgerDB的LSM结构适合账本写多读多的访问模式
	// bbolt作为轻量级单文件备选引擎，适合小型部署
	defaultStorageEngine = EngineBadger

	// defaultCacheEnabled 默认启用资产记录读缓存
	// 原因：资产记录读取远多于写入，读缓存显著降低存储压力
	defaultCacheEnabled = true
)
