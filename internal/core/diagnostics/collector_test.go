package diagnostics

import (
	"math/big"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	eventconfig "github.com/titledger/v1/internal/config/event"
	"github.com/titledger/v1/internal/core/infrastructure/event"
	eventInterface "github.com/titledger/v1/pkg/interfaces/infrastructure/event"
	"github.com/titledger/v1/pkg/types"
)

func setupCollector(t *testing.T) eventInterface.EventBus {
	t.Helper()

	bus := event.New(eventconfig.NewFromOptions(&eventconfig.EventOptions{
		Enabled: true,
	}))

	collector, err := New(bus, nil)
	require.NoError(t, err, "创建诊断采集器失败")
	require.NoError(t, collector.Start(), "注册事件订阅失败")

	return bus
}

func publish(bus eventInterface.EventBus, eventType types.EventType, payload interface{}) {
	bus.PublishEvent(&types.TDLEvent{
		ID:        uuid.NewString(),
		EventType: eventType,
		Timestamp: time.Now(),
		Payload:   payload,
	})
}

func TestCollectorValidation(t *testing.T) {
	_, err := New(nil, nil)
	assert.Error(t, err, "缺少事件总线时应拒绝创建")
}

func TestCollectorSubscriptions(t *testing.T) {
	bus := setupCollector(t)

	// 所有业务事件类型都应有回调挂载
	for _, eventType := range []types.EventType{
		types.EventAssetCreated,
		types.EventAssetBurned,
		types.EventTreasuryMinted,
		types.EventVaultTransferred,
		types.EventShareMinted,
		types.EventAssetUnlocked,
		types.EventSubdivisionDeactivated,
	} {
		assert.True(t, bus.HasCallback(eventType), "事件 %s 缺少订阅", eventType)
	}
}

func TestCollectorCountsAssetEvents(t *testing.T) {
	bus := setupCollector(t)

	before := testutil.ToFloat64(assetsMinted.WithLabelValues("land"))
	publish(bus, types.EventAssetCreated, &types.AssetEventPayload{
		Record: types.AssetRecord{ID: 1, Category: types.CategoryLand},
		Caller: "notary-a",
	})
	publish(bus, types.EventAssetCreated, &types.AssetEventPayload{
		Record: types.AssetRecord{ID: 2, Category: types.CategoryLand},
		Caller: "notary-a",
	})
	assert.Equal(t, before+2, testutil.ToFloat64(assetsMinted.WithLabelValues("land")))

	burnedBefore := testutil.ToFloat64(assetsBurned)
	publish(bus, types.EventAssetBurned, &types.AssetEventPayload{
		Record: types.AssetRecord{ID: 1, Category: types.CategoryLand},
		Caller: "alice",
	})
	assert.Equal(t, burnedBefore+1, testutil.ToFloat64(assetsBurned))
}

func TestCollectorCountsTreasuryEvents(t *testing.T) {
	bus := setupCollector(t)

	feesBefore := testutil.ToFloat64(feesCollected.WithLabelValues("usd-token"))
	commBefore := testutil.ToFloat64(commissionsAccrued.WithLabelValues("usd-token"))

	publish(bus, types.EventTreasuryMinted, &types.TreasuryEventPayload{
		Token:      "usd-token",
		Caller:     "alice",
		Class:      types.CallerRegular,
		Fee:        big.NewInt(100),
		Commission: big.NewInt(10),
		AssetID:    7,
	})

	assert.Equal(t, feesBefore+100, testutil.ToFloat64(feesCollected.WithLabelValues("usd-token")))
	assert.Equal(t, commBefore+10, testutil.ToFloat64(commissionsAccrued.WithLabelValues("usd-token")))

	// 零佣金不计入佣金指标
	publish(bus, types.EventTreasuryMinted, &types.TreasuryEventPayload{
		Token:   "usd-token",
		Caller:  "alice",
		Class:   types.CallerRegular,
		Fee:     big.NewInt(50),
		AssetID: 8,
	})
	assert.Equal(t, commBefore+10, testutil.ToFloat64(commissionsAccrued.WithLabelValues("usd-token")))
}

func TestCollectorCountsUnlockPaths(t *testing.T) {
	bus := setupCollector(t)

	approvalBefore := testutil.ToFloat64(assetsUnlocked.WithLabelValues("approval"))
	fullBefore := testutil.ToFloat64(assetsUnlocked.WithLabelValues("full_ownership"))
	burnedBefore := testutil.ToFloat64(sharesBurned)

	publish(bus, types.EventAssetUnlocked, &types.UnlockEventPayload{
		CollectionID: 1,
		AssetID:      1,
		Recipient:    "carol",
		BurnedShares: 4,
		ByApproval:   true,
	})
	publish(bus, types.EventAssetUnlocked, &types.UnlockEventPayload{
		CollectionID: 2,
		AssetID:      2,
		Recipient:    "bob",
		BurnedShares: 3,
		ByApproval:   false,
	})

	assert.Equal(t, approvalBefore+1, testutil.ToFloat64(assetsUnlocked.WithLabelValues("approval")))
	assert.Equal(t, fullBefore+1, testutil.ToFloat64(assetsUnlocked.WithLabelValues("full_ownership")))
	assert.Equal(t, burnedBefore+7, testutil.ToFloat64(sharesBurned), "解锁清除的份额计入销毁")
}

func TestCollectorIgnoresMismatchedPayload(t *testing.T) {
	bus := setupCollector(t)

	before := testutil.ToFloat64(assetsMinted.WithLabelValues("land"))

	// 载荷类型不符时静默跳过
	publish(bus, types.EventAssetCreated, "bogus")

	assert.Equal(t, before, testutil.ToFloat64(assetsMinted.WithLabelValues("land")))
}
