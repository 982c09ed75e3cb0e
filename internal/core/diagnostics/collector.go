package diagnostics

import (
	"fmt"
	"math/big"
	"strconv"

	eventInterface "github.com/titledger/v1/pkg/interfaces/infrastructure/event"
	"github.com/titledger/v1/pkg/interfaces/infrastructure/log"
	"github.com/titledger/v1/pkg/types"
)

// Collector 诊断采集器
//
// 🎯 **功能**：
// - 订阅全部业务事件并更新Prometheus指标
// - 只读旁路：不触达存储，不影响业务事务
type Collector struct {
	bus    eventInterface.EventBus // 事件总线
	logger log.Logger              // 日志记录器
}

// New 创建诊断采集器
func New(bus eventInterface.EventBus, logger log.Logger) (*Collector, error) {
	if bus == nil {
		return nil, fmt.Errorf("eventBus 不能为空")
	}

	c := &Collector{
		bus:    bus,
		logger: logger,
	}

	if logger != nil {
		logger.Info("✅ 诊断采集器已初始化")
	}

	return c, nil
}

// Start 注册全部事件订阅
func (c *Collector) Start() error {
	subs := c.subscriptions()

	for eventType, handler := range subs {
		if err := c.bus.Subscribe(eventType, handler); err != nil {
			return fmt.Errorf("订阅 %s 失败: %w", eventType, err)
		}
	}

	if c.logger != nil {
		c.logger.Infof("📊 诊断采集器已订阅业务事件: types=%d", len(subs))
	}

	return nil
}

// subscriptions 返回事件类型到指标处理器的映射
//
// 处理器签名与总线派发约定一致：单参数为事件载荷。
func (c *Collector) subscriptions() map[types.EventType]interface{} {
	return map[types.EventType]interface{}{
		types.EventAssetCreated: func(data interface{}) {
			if p, ok := data.(*types.AssetEventPayload); ok {
				assetsMinted.WithLabelValues(string(p.Record.Category)).Inc()
			}
		},
		types.EventAssetMetadataUpdated: func(interface{}) {
			metadataUpdates.Inc()
		},
		types.EventAssetValidationChanged: func(data interface{}) {
			if p, ok := data.(*types.AssetEventPayload); ok {
				validationChanges.WithLabelValues(strconv.FormatBool(p.Record.Validated)).Inc()
			}
		},
		types.EventAssetTransferred: func(interface{}) {
			assetsTransferred.Inc()
		},
		types.EventAssetBurned: func(interface{}) {
			assetsBurned.Inc()
		},
		types.EventValidatorRegistered: func(interface{}) {
			validatorsActive.Inc()
		},
		types.EventValidatorUpdated: func(interface{}) {
			validatorUpdates.Inc()
		},
		types.EventValidatorRemoved: func(interface{}) {
			validatorsActive.Dec()
		},
		types.EventTreasuryMinted: func(data interface{}) {
			p, ok := data.(*types.TreasuryEventPayload)
			if !ok {
				return
			}
			paidMints.WithLabelValues(p.Token.String(), string(p.Class)).Inc()
			feesCollected.WithLabelValues(p.Token.String()).Add(amountToFloat(p.Fee))
			if p.Commission != nil && p.Commission.Sign() > 0 {
				commissionsAccrued.WithLabelValues(p.Token.String()).Add(amountToFloat(p.Commission))
			}
		},
		types.EventTreasuryWithdrawn: func(data interface{}) {
			if p, ok := data.(*types.TreasuryEventPayload); ok {
				withdrawals.WithLabelValues(p.Token.String()).Inc()
			}
		},
		types.EventVaultCredited: func(data interface{}) {
			if p, ok := data.(*types.VaultEventPayload); ok {
				vaultCredits.WithLabelValues(p.Token.String()).Inc()
			}
		},
		types.EventVaultTransferred: func(data interface{}) {
			if p, ok := data.(*types.VaultEventPayload); ok {
				vaultTransfers.WithLabelValues(p.Token.String()).Inc()
			}
		},
		types.EventFractionCreated: func(interface{}) {
			collectionsCreated.Inc()
		},
		types.EventShareMinted: func(interface{}) {
			sharesMinted.Inc()
		},
		types.EventShareBurned: func(interface{}) {
			sharesBurned.Inc()
		},
		types.EventShareTransferred: func(interface{}) {
			sharesTransferred.Inc()
		},
		types.EventAssetUnlocked: func(data interface{}) {
			p, ok := data.(*types.UnlockEventPayload)
			if !ok {
				return
			}
			path := "full_ownership"
			if p.ByApproval {
				path = "approval"
			}
			assetsUnlocked.WithLabelValues(path).Inc()
			// 解锁时清除的流通份额计入销毁
			sharesBurned.Add(float64(p.BurnedShares))
		},
		types.EventSubdivisionCreated: func(interface{}) {
			subdivisionsCreated.Inc()
		},
		types.EventSubdivisionDeactivated: func(interface{}) {
			subdivisionsDeactivated.Inc()
		},
		types.EventUnitMinted: func(interface{}) {
			unitsMinted.Inc()
		},
		types.EventUnitBurned: func(interface{}) {
			unitsBurned.Inc()
		},
		types.EventUnitTransferred: func(interface{}) {
			unitsTransferred.Inc()
		},
	}
}

// amountToFloat 将big.Int金额降精度为指标值
func amountToFloat(v *big.Int) float64 {
	if v == nil {
		return 0
	}
	f, _ := new(big.Float).SetInt(v).Float64()
	return f
}
