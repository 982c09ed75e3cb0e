// Package diagnostics 提供业务指标采集
//
// 📊 **诊断采集器 (Diagnostics Collector)**
//
// 订阅事件总线上的业务事件并转换为Prometheus指标。
// 事件只在存储事务提交后发布，因此指标反映已落盘的状态变更。
package diagnostics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// ============================================================================
//                              Prometheus 指标
// ============================================================================

var (
	// assetsMinted 资产铸造总数
	assetsMinted = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tdl",
		Subsystem: "deeds",
		Name:      "assets_minted_total",
		Help:      "Total number of asset records minted",
	}, []string{"category"})

	// assetsTransferred 资产转移总数
	assetsTransferred = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "tdl",
		Subsystem: "deeds",
		Name:      "assets_transferred_total",
		Help:      "Total number of asset transfers",
	})

	// assetsBurned 资产销毁总数
	assetsBurned = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "tdl",
		Subsystem: "deeds",
		Name:      "assets_burned_total",
		Help:      "Total number of asset records burned",
	})

	// metadataUpdates 元数据更新总数
	metadataUpdates = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "tdl",
		Subsystem: "deeds",
		Name:      "metadata_updates_total",
		Help:      "Total number of asset metadata updates",
	})

	// validationChanges 验证标志变更总数
	validationChanges = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tdl",
		Subsystem: "deeds",
		Name:      "validation_changes_total",
		Help:      "Total number of asset validation flag changes",
	}, []string{"validated"}) // validated: true/false

	// validatorsActive 当前注册的验证方数量
	validatorsActive = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "tdl",
		Subsystem: "validators",
		Name:      "active",
		Help:      "Number of validators currently registered",
	})

	// validatorUpdates 验证方档案更新总数
	validatorUpdates = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "tdl",
		Subsystem: "validators",
		Name:      "updates_total",
		Help:      "Total number of validator profile updates",
	})

	// paidMints 付费铸造总数
	paidMints = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tdl",
		Subsystem: "treasury",
		Name:      "paid_mints_total",
		Help:      "Total number of fee-charging mints",
	}, []string{"token", "class"}) // class: regular/validator

	// feesCollected 收取的铸造费累计（按计价代币）
	feesCollected = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tdl",
		Subsystem: "treasury",
		Name:      "fees_collected_total",
		Help:      "Cumulative minting fees collected, by settlement token",
	}, []string{"token"})

	// commissionsAccrued 计提的验证方佣金累计
	commissionsAccrued = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tdl",
		Subsystem: "treasury",
		Name:      "commissions_accrued_total",
		Help:      "Cumulative validator commissions accrued, by settlement token",
	}, []string{"token"})

	// withdrawals 费用提取总数
	withdrawals = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tdl",
		Subsystem: "treasury",
		Name:      "withdrawals_total",
		Help:      "Total number of fee withdrawals",
	}, []string{"token"})

	// vaultCredits 金库充值总数
	vaultCredits = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tdl",
		Subsystem: "vault",
		Name:      "credits_total",
		Help:      "Total number of vault credits",
	}, []string{"token"})

	// vaultTransfers 金库划转总数
	vaultTransfers = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tdl",
		Subsystem: "vault",
		Name:      "transfers_total",
		Help:      "Total number of vault transfers",
	}, []string{"token"})

	// collectionsCreated 份额集合创建总数
	collectionsCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "tdl",
		Subsystem: "fractions",
		Name:      "collections_created_total",
		Help:      "Total number of fraction collections created",
	})

	// sharesMinted 份额铸造总数
	sharesMinted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "tdl",
		Subsystem: "fractions",
		Name:      "shares_minted_total",
		Help:      "Total number of shares minted",
	})

	// sharesBurned 份额销毁总数（含解锁清除）
	sharesBurned = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "tdl",
		Subsystem: "fractions",
		Name:      "shares_burned_total",
		Help:      "Total number of shares burned, including shares cleared on unlock",
	})

	// sharesTransferred 份额转让总数
	sharesTransferred = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "tdl",
		Subsystem: "fractions",
		Name:      "shares_transferred_total",
		Help:      "Total number of share transfers",
	})

	// assetsUnlocked 资产解锁总数
	assetsUnlocked = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tdl",
		Subsystem: "fractions",
		Name:      "assets_unlocked_total",
		Help:      "Total number of assets released from fraction custody",
	}, []string{"path"}) // path: approval/full_ownership

	// subdivisionsCreated 划分账本创建总数
	subdivisionsCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "tdl",
		Subsystem: "subdivisions",
		Name:      "created_total",
		Help:      "Total number of subdivision ledgers created",
	})

	// subdivisionsDeactivated 划分账本停用总数
	subdivisionsDeactivated = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "tdl",
		Subsystem: "subdivisions",
		Name:      "deactivated_total",
		Help:      "Total number of subdivision ledgers deactivated",
	})

	// unitsMinted 单元铸造总数
	unitsMinted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "tdl",
		Subsystem: "subdivisions",
		Name:      "units_minted_total",
		Help:      "Total number of subdivision units minted",
	})

	// unitsBurned 单元销毁总数
	unitsBurned = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "tdl",
		Subsystem: "subdivisions",
		Name:      "units_burned_total",
		Help:      "Total number of subdivision units burned",
	})

	// unitsTransferred 单元转让总数
	unitsTransferred = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "tdl",
		Subsystem: "subdivisions",
		Name:      "units_transferred_total",
		Help:      "Total number of subdivision unit transfers",
	})
)

func init() {
	// 注册所有指标
	prometheus.MustRegister(
		assetsMinted,
		assetsTransferred,
		assetsBurned,
		metadataUpdates,
		validationChanges,
		validatorsActive,
		validatorUpdates,
		paidMints,
		feesCollected,
		commissionsAccrued,
		withdrawals,
		vaultCredits,
		vaultTransfers,
		collectionsCreated,
		sharesMinted,
		sharesBurned,
		sharesTransferred,
		assetsUnlocked,
		subdivisionsCreated,
		subdivisionsDeactivated,
		unitsMinted,
		unitsBurned,
		unitsTransferred,
	)
}
