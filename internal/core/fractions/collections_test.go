package fractions

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	eventconfig "github.com/titledger/v1/internal/config/event"
	ledgerconfig "github.com/titledger/v1/internal/config/ledger"
	badgerconfig "github.com/titledger/v1/internal/config/storage/badger"
	"github.com/titledger/v1/internal/core/deeds"
	"github.com/titledger/v1/internal/core/infrastructure/event"
	"github.com/titledger/v1/internal/core/infrastructure/storage/badger"
	"github.com/titledger/v1/internal/core/validators"
	eventInterface "github.com/titledger/v1/pkg/interfaces/infrastructure/event"
	"github.com/titledger/v1/pkg/interfaces/infrastructure/storage"
	"github.com/titledger/v1/pkg/types"
)

const (
	testAdmin     = types.Identity("admin")
	testNotary    = types.Identity("notary-a")
	testEngineID  = types.Identity("fraction-engine")
	testAgreement = "tdl://agreements/standard-v1"
)

// fracEnv 份额引擎测试环境
type fracEnv struct {
	engine    *Engine
	registry  *deeds.Registry
	directory *validators.Directory
	store     storage.KVStore
	bus       eventInterface.EventBus
}

func setupTestEngine(t *testing.T) *fracEnv {
	t.Helper()
	ctx := context.Background()

	store, err := badger.New(badgerconfig.NewFromOptions(&badgerconfig.BadgerOptions{
		InMemory: true,
	}), nil)
	require.NoError(t, err, "创建内存存储失败")
	t.Cleanup(func() { _ = store.Close() })

	bus := event.New(eventconfig.NewFromOptions(&eventconfig.EventOptions{
		Enabled:       true,
		EnableHistory: true,
		HistoryLimit:  128,
	}))

	cfg := ledgerconfig.NewFromOptions(&ledgerconfig.LedgerOptions{
		Admin:          testAdmin.String(),
		EngineIdentity: testEngineID.String(),
	})

	directory, err := validators.New(store, bus, cfg, nil)
	require.NoError(t, err)

	registry, err := deeds.New(store, nil, directory, directory, bus, cfg, nil)
	require.NoError(t, err)

	engine, err := New(store, registry, bus, cfg, nil)
	require.NoError(t, err, "创建份额引擎失败")

	_, err = directory.Register(ctx, testAdmin, types.ValidatorParams{
		ID:         testNotary,
		Name:       "验证机构A",
		Categories: []types.AssetCategory{types.CategoryLand, types.CategoryEstate, types.CategoryVehicle},
	})
	require.NoError(t, err)
	require.NoError(t, directory.SetDefaultAgreement(ctx, testAdmin, testNotary, testAgreement))

	return &fracEnv{
		engine:    engine,
		registry:  registry,
		directory: directory,
		store:     store,
		bus:       bus,
	}
}

// mintAsset 铸造一条指定类别的测试资产
func (e *fracEnv) mintAsset(t *testing.T, owner types.Identity, category types.AssetCategory) *types.AssetRecord {
	t.Helper()

	rec, err := e.registry.Create(context.Background(), testNotary, types.AssetParams{
		Category:     category,
		Owner:        owner,
		AgreementRef: testAgreement,
		Definition:   "地籍档案-2001",
		Validator:    testNotary,
	})
	require.NoError(t, err, "铸造资产失败")
	return rec
}

// createCollection 以默认参数创建份额集合
func (e *fracEnv) createCollection(t *testing.T, holder types.Identity, assetID types.AssetID, total uint64, pct uint32) *types.FractionCollection {
	t.Helper()

	coll, err := e.engine.CreateFraction(context.Background(), holder, types.FractionParams{
		AssetID:             assetID,
		Category:            types.CategoryLand,
		Name:                "地块份额",
		Symbol:              "LOT",
		TotalShares:         total,
		RequiredApprovalPct: pct,
		Burnable:            true,
	})
	require.NoError(t, err, "创建份额集合失败")
	return coll
}

func TestCreateFraction(t *testing.T) {
	env := setupTestEngine(t)
	ctx := context.Background()
	asset := env.mintAsset(t, "alice", types.CategoryLand)

	coll, err := env.engine.CreateFraction(ctx, "alice", types.FractionParams{
		AssetID:             asset.ID,
		Category:            types.CategoryLand,
		Name:                "地块份额",
		Symbol:              "LOT",
		TotalShares:         100,
		RequiredApprovalPct: 60,
		Burnable:            true,
	})
	require.NoError(t, err)
	assert.Equal(t, types.CollectionID(1), coll.ID)
	assert.Equal(t, asset.ID, coll.AssetID)
	assert.Zero(t, coll.ActiveShares)
	assert.Equal(t, uint64(100), coll.MaxSharesPerWallet, "未指定钱包上限时默认为份额总数")
	assert.Equal(t, types.Identity("alice"), coll.Admin)
	assert.True(t, coll.Active)

	// 底层资产进入引擎托管，名义持有人不变
	rec, err := env.registry.Get(ctx, asset.ID)
	require.NoError(t, err)
	assert.True(t, rec.Locked)
	assert.Equal(t, testEngineID, rec.Custodian)
	assert.Equal(t, types.Identity("alice"), rec.Holder)

	got, err := env.engine.CollectionByAsset(ctx, asset.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, coll.ID, got.ID)

	assert.Len(t, env.bus.GetEventHistory(types.EventFractionCreated), 1)
	assert.Len(t, env.bus.GetEventHistory(types.EventAssetLocked), 1)
}

func TestCreateFractionValidation(t *testing.T) {
	env := setupTestEngine(t)
	ctx := context.Background()
	asset := env.mintAsset(t, "alice", types.CategoryLand)

	base := types.FractionParams{
		AssetID:             asset.ID,
		Category:            types.CategoryLand,
		Name:                "地块份额",
		Symbol:              "LOT",
		TotalShares:         100,
		RequiredApprovalPct: 60,
	}

	p := base
	p.TotalShares = 0
	_, err := env.engine.CreateFraction(ctx, "alice", p)
	assert.ErrorIs(t, err, ErrInvalidShareCount)

	p = base
	p.RequiredApprovalPct = 50
	_, err = env.engine.CreateFraction(ctx, "alice", p)
	assert.ErrorIs(t, err, ErrInvalidApprovalPercentage)
	p.RequiredApprovalPct = 101
	_, err = env.engine.CreateFraction(ctx, "alice", p)
	assert.ErrorIs(t, err, ErrInvalidApprovalPercentage)

	p = base
	p.AssetID = 999
	_, err = env.engine.CreateFraction(ctx, "alice", p)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = env.engine.CreateFraction(ctx, "mallory", base)
	assert.ErrorIs(t, err, ErrNotOwner)

	p = base
	p.Category = types.CategoryEstate
	_, err = env.engine.CreateFraction(ctx, "alice", p)
	assert.ErrorIs(t, err, ErrCategoryMismatch)

	// 资产已托管后不可重复创建
	env.createCollection(t, "alice", asset.ID, 100, 60)
	_, err = env.engine.CreateFraction(ctx, "alice", base)
	assert.ErrorIs(t, err, ErrAssetLocked)

	// 存在活跃划分账本的资产不可接管托管
	estate := env.mintAsset(t, "alice", types.CategoryEstate)
	_, err = env.engine.CreateSubdivision(ctx, "alice", types.SubdivisionParams{
		AssetID:    estate.ID,
		Category:   types.CategoryEstate,
		Name:       "东区地块",
		TotalUnits: 10,
	})
	require.NoError(t, err)

	p = base
	p.AssetID = estate.ID
	p.Category = types.CategoryEstate
	_, err = env.engine.CreateFraction(ctx, "alice", p)
	assert.ErrorIs(t, err, ErrSubdivisionActive)
}

func TestMintShare(t *testing.T) {
	env := setupTestEngine(t)
	ctx := context.Background()
	asset := env.mintAsset(t, "alice", types.CategoryLand)
	coll := env.createCollection(t, "alice", asset.ID, 3, 60)

	require.NoError(t, env.engine.MintShare(ctx, "alice", coll.ID, 0, "bob", "北段"))
	require.NoError(t, env.engine.MintShare(ctx, "alice", coll.ID, 1, "carol", ""))

	got, err := env.engine.GetCollection(ctx, coll.ID)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), got.ActiveShares)

	owner, err := env.engine.ShareOwner(ctx, coll.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, types.Identity("bob"), owner)

	count, err := env.engine.HolderShareCount(ctx, coll.ID, "bob")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)

	holders, err := env.engine.DistinctHolders(ctx, coll.ID)
	require.NoError(t, err)
	assert.Equal(t, []types.Identity{"bob", "carol"}, holders, "去重持有人按身份排序")

	// 铸造权属于底层资产持有人，份额持有人无权铸造
	err = env.engine.MintShare(ctx, "bob", coll.ID, 2, "bob", "")
	assert.ErrorIs(t, err, ErrNotOwner)

	err = env.engine.MintShare(ctx, "alice", coll.ID, 0, "dave", "")
	assert.ErrorIs(t, err, ErrShareAlreadyMinted)

	err = env.engine.MintShare(ctx, "alice", coll.ID, 3, "dave", "")
	assert.ErrorIs(t, err, ErrInvalidShareID)

	err = env.engine.MintShare(ctx, "alice", coll.ID, 2, "", "")
	assert.ErrorIs(t, err, ErrInvalidRecipient)

	// 铸满后任何编号都被拒绝
	require.NoError(t, env.engine.MintShare(ctx, "alice", coll.ID, 2, "dave", ""))
	err = env.engine.MintShare(ctx, "alice", coll.ID, 0, "dave", "")
	assert.ErrorIs(t, err, ErrAllSharesMinted)

	assert.Len(t, env.bus.GetEventHistory(types.EventShareMinted), 3)
}

func TestMintShareWalletLimit(t *testing.T) {
	env := setupTestEngine(t)
	ctx := context.Background()
	asset := env.mintAsset(t, "alice", types.CategoryLand)

	coll, err := env.engine.CreateFraction(ctx, "alice", types.FractionParams{
		AssetID:             asset.ID,
		Category:            types.CategoryLand,
		Name:                "限额份额",
		Symbol:              "CAP",
		TotalShares:         10,
		MaxSharesPerWallet:  2,
		RequiredApprovalPct: 60,
	})
	require.NoError(t, err)

	require.NoError(t, env.engine.MintShare(ctx, "alice", coll.ID, 0, "bob", ""))
	require.NoError(t, env.engine.MintShare(ctx, "alice", coll.ID, 1, "bob", ""))

	err = env.engine.MintShare(ctx, "alice", coll.ID, 2, "bob", "")
	assert.ErrorIs(t, err, ErrExceedsWalletLimit)
}

func TestBatchMintSharesAtomicity(t *testing.T) {
	env := setupTestEngine(t)
	ctx := context.Background()
	asset := env.mintAsset(t, "alice", types.CategoryLand)
	coll := env.createCollection(t, "alice", asset.ID, 10, 60)

	// 末项编号越界：整批回滚
	err := env.engine.BatchMintShares(ctx, "alice", coll.ID, []types.ShareMint{
		{Index: 0, Recipient: "bob"},
		{Index: 1, Recipient: "carol"},
		{Index: 10, Recipient: "dave"},
	})
	assert.ErrorIs(t, err, ErrInvalidShareID)

	got, err := env.engine.GetCollection(ctx, coll.ID)
	require.NoError(t, err)
	assert.Zero(t, got.ActiveShares, "批量失败后不得留下部分份额")

	_, err = env.engine.ShareOwner(ctx, coll.ID, 0)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, env.bus.GetEventHistory(types.EventShareMinted))

	// 空批次为无操作
	require.NoError(t, env.engine.BatchMintShares(ctx, "alice", coll.ID, nil))

	// 全部有效
	require.NoError(t, env.engine.BatchMintShares(ctx, "alice", coll.ID, []types.ShareMint{
		{Index: 0, Recipient: "bob"},
		{Index: 1, Recipient: "carol"},
	}))
	got, err = env.engine.GetCollection(ctx, coll.ID)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), got.ActiveShares)
}

func TestBurnShare(t *testing.T) {
	env := setupTestEngine(t)
	ctx := context.Background()
	asset := env.mintAsset(t, "alice", types.CategoryLand)
	coll := env.createCollection(t, "alice", asset.ID, 5, 60)
	require.NoError(t, env.engine.MintShare(ctx, "alice", coll.ID, 0, "bob", ""))

	err := env.engine.BurnShare(ctx, "carol", coll.ID, 0)
	assert.ErrorIs(t, err, ErrNotShareOwner)

	require.NoError(t, env.engine.BurnShare(ctx, "bob", coll.ID, 0))

	_, err = env.engine.ShareOwner(ctx, coll.ID, 0)
	assert.ErrorIs(t, err, ErrNotFound)

	got, err := env.engine.GetCollection(ctx, coll.ID)
	require.NoError(t, err)
	assert.Zero(t, got.ActiveShares)

	holders, err := env.engine.DistinctHolders(ctx, coll.ID)
	require.NoError(t, err)
	assert.Empty(t, holders, "销毁后持有人离开持有人集合")
	assert.Len(t, env.bus.GetEventHistory(types.EventShareBurned), 1)

	// 销毁腾出的编号可重新铸造
	require.NoError(t, env.engine.MintShare(ctx, "alice", coll.ID, 0, "carol", ""))
}

func TestBurnShareDisabled(t *testing.T) {
	env := setupTestEngine(t)
	ctx := context.Background()
	asset := env.mintAsset(t, "alice", types.CategoryLand)

	coll, err := env.engine.CreateFraction(ctx, "alice", types.FractionParams{
		AssetID:             asset.ID,
		Category:            types.CategoryLand,
		Name:                "不可销毁份额",
		Symbol:              "FIX",
		TotalShares:         5,
		RequiredApprovalPct: 60,
		Burnable:            false,
	})
	require.NoError(t, err)
	require.NoError(t, env.engine.MintShare(ctx, "alice", coll.ID, 0, "bob", ""))

	err = env.engine.BurnShare(ctx, "bob", coll.ID, 0)
	assert.ErrorIs(t, err, ErrBurningDisabled)
}

func TestTransferShare(t *testing.T) {
	env := setupTestEngine(t)
	ctx := context.Background()
	asset := env.mintAsset(t, "alice", types.CategoryLand)
	coll := env.createCollection(t, "alice", asset.ID, 5, 60)
	require.NoError(t, env.engine.MintShare(ctx, "alice", coll.ID, 0, "bob", ""))

	err := env.engine.TransferShare(ctx, "carol", coll.ID, 0, "dave")
	assert.ErrorIs(t, err, ErrNotShareOwner)

	err = env.engine.TransferShare(ctx, "bob", coll.ID, 0, "")
	assert.ErrorIs(t, err, ErrInvalidRecipient)

	// 自我转让为无操作且不发布事件
	require.NoError(t, env.engine.TransferShare(ctx, "bob", coll.ID, 0, "bob"))
	assert.Empty(t, env.bus.GetEventHistory(types.EventShareTransferred))

	require.NoError(t, env.engine.TransferShare(ctx, "bob", coll.ID, 0, "carol"))

	owner, err := env.engine.ShareOwner(ctx, coll.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, types.Identity("carol"), owner)

	bobCount, err := env.engine.HolderShareCount(ctx, coll.ID, "bob")
	require.NoError(t, err)
	assert.Zero(t, bobCount)

	holders, err := env.engine.DistinctHolders(ctx, coll.ID)
	require.NoError(t, err)
	assert.Equal(t, []types.Identity{"carol"}, holders, "归零持有人应离开持有人集合")

	history := env.bus.GetEventHistory(types.EventShareTransferred)
	require.Len(t, history, 1)
	payload := history[0].(*types.TDLEvent).Payload.(*types.ShareEventPayload)
	assert.Equal(t, types.Identity("bob"), payload.From)
	assert.Equal(t, types.Identity("carol"), payload.To)
}

func TestTransferShareWalletLimit(t *testing.T) {
	env := setupTestEngine(t)
	ctx := context.Background()
	asset := env.mintAsset(t, "alice", types.CategoryLand)

	coll, err := env.engine.CreateFraction(ctx, "alice", types.FractionParams{
		AssetID:             asset.ID,
		Category:            types.CategoryLand,
		Name:                "限额份额",
		Symbol:              "CAP",
		TotalShares:         10,
		MaxSharesPerWallet:  1,
		RequiredApprovalPct: 60,
	})
	require.NoError(t, err)

	require.NoError(t, env.engine.MintShare(ctx, "alice", coll.ID, 0, "bob", ""))
	require.NoError(t, env.engine.MintShare(ctx, "alice", coll.ID, 1, "carol", ""))

	// 接收方已达上限
	err = env.engine.TransferShare(ctx, "bob", coll.ID, 0, "carol")
	assert.ErrorIs(t, err, ErrExceedsWalletLimit)
}

func TestBatchTransferShares(t *testing.T) {
	env := setupTestEngine(t)
	ctx := context.Background()
	asset := env.mintAsset(t, "alice", types.CategoryLand)
	coll := env.createCollection(t, "alice", asset.ID, 5, 60)
	require.NoError(t, env.engine.BatchMintShares(ctx, "alice", coll.ID, []types.ShareMint{
		{Index: 0, Recipient: "bob"},
		{Index: 1, Recipient: "bob"},
	}))

	// 次项不属于调用方：整批回滚
	err := env.engine.BatchTransferShares(ctx, "bob", coll.ID, []types.ShareTransfer{
		{Index: 0, To: "carol"},
		{Index: 2, To: "carol"},
	})
	assert.ErrorIs(t, err, ErrNotShareOwner)

	owner, err := env.engine.ShareOwner(ctx, coll.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, types.Identity("bob"), owner, "批量失败后份额归属不变")
	assert.Empty(t, env.bus.GetEventHistory(types.EventShareTransferred))

	require.NoError(t, env.engine.BatchTransferShares(ctx, "bob", coll.ID, []types.ShareTransfer{
		{Index: 0, To: "carol"},
		{Index: 1, To: "dave"},
	}))

	holders, err := env.engine.DistinctHolders(ctx, coll.ID)
	require.NoError(t, err)
	assert.Equal(t, []types.Identity{"carol", "dave"}, holders)
	assert.Len(t, env.bus.GetEventHistory(types.EventShareTransferred), 2)

	// 空批次为无操作
	require.NoError(t, env.engine.BatchTransferShares(ctx, "bob", coll.ID, nil))
}

func TestTransferShareFrom(t *testing.T) {
	env := setupTestEngine(t)
	ctx := context.Background()
	asset := env.mintAsset(t, "alice", types.CategoryLand)
	coll := env.createCollection(t, "alice", asset.ID, 5, 60)
	require.NoError(t, env.engine.MintShare(ctx, "alice", coll.ID, 0, "bob", ""))

	// 仅集合管理员
	err := env.engine.TransferShareFrom(ctx, "carol", coll.ID, 0, "dave")
	assert.ErrorIs(t, err, ErrNotAuthorized)

	// 持有人未授权
	err = env.engine.TransferShareFrom(ctx, "alice", coll.ID, 0, "dave")
	assert.ErrorIs(t, err, ErrTransferNotApproved)

	// 未铸造份额
	err = env.engine.TransferShareFrom(ctx, "alice", coll.ID, 1, "dave")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, env.engine.SetApproval(ctx, "bob", coll.ID, true, false))
	require.NoError(t, env.engine.TransferShareFrom(ctx, "alice", coll.ID, 0, "dave"))

	owner, err := env.engine.ShareOwner(ctx, coll.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, types.Identity("dave"), owner)
}

func TestSetApproval(t *testing.T) {
	env := setupTestEngine(t)
	ctx := context.Background()
	asset := env.mintAsset(t, "alice", types.CategoryLand)
	coll := env.createCollection(t, "alice", asset.ID, 5, 60)

	// 非持有人不得设置审批
	err := env.engine.SetApproval(ctx, "bob", coll.ID, true, true)
	assert.ErrorIs(t, err, ErrNotShareHolder)

	require.NoError(t, env.engine.MintShare(ctx, "alice", coll.ID, 0, "bob", ""))
	require.NoError(t, env.engine.SetApproval(ctx, "bob", coll.ID, true, true))

	approval, err := env.engine.ApprovalOf(ctx, coll.ID, "bob")
	require.NoError(t, err)
	assert.True(t, approval.TransferApproved)
	assert.True(t, approval.AdminApproved)

	// 覆盖更新
	require.NoError(t, env.engine.SetApproval(ctx, "bob", coll.ID, false, true))
	approval, err = env.engine.ApprovalOf(ctx, coll.ID, "bob")
	require.NoError(t, err)
	assert.False(t, approval.TransferApproved)

	// 无记录返回零值
	approval, err = env.engine.ApprovalOf(ctx, coll.ID, "carol")
	require.NoError(t, err)
	assert.False(t, approval.TransferApproved)
	assert.False(t, approval.AdminApproved)

	assert.Len(t, env.bus.GetEventHistory(types.EventApprovalSet), 2)
}

func TestUnlockAssetFullOwnership(t *testing.T) {
	env := setupTestEngine(t)
	ctx := context.Background()
	asset := env.mintAsset(t, "alice", types.CategoryLand)
	coll := env.createCollection(t, "alice", asset.ID, 3, 60)

	require.NoError(t, env.engine.BatchMintShares(ctx, "alice", coll.ID, []types.ShareMint{
		{Index: 0, Recipient: "bob"},
		{Index: 1, Recipient: "bob"},
		{Index: 2, Recipient: "carol"},
	}))

	// 未持有全部流通份额
	err := env.engine.UnlockAsset(ctx, "bob", coll.ID, "bob", false)
	assert.ErrorIs(t, err, ErrMustOwnAllShares)

	require.NoError(t, env.engine.TransferShare(ctx, "carol", coll.ID, 2, "bob"))
	require.NoError(t, env.engine.UnlockAsset(ctx, "bob", coll.ID, "bob", false))

	// 底层资产释放给接收人
	rec, err := env.registry.Get(ctx, asset.ID)
	require.NoError(t, err)
	assert.False(t, rec.Locked)
	assert.Equal(t, types.Identity("bob"), rec.Holder)

	// 集合终结，份额全部清除
	got, err := env.engine.GetCollection(ctx, coll.ID)
	require.NoError(t, err)
	assert.False(t, got.Active)
	assert.Zero(t, got.ActiveShares)

	_, err = env.engine.ShareOwner(ctx, coll.ID, 0)
	assert.ErrorIs(t, err, ErrNotFound)

	holders, err := env.engine.DistinctHolders(ctx, coll.ID)
	require.NoError(t, err)
	assert.Empty(t, holders)

	byAsset, err := env.engine.CollectionByAsset(ctx, asset.ID)
	require.NoError(t, err)
	assert.Nil(t, byAsset, "解锁后资产不再关联活跃集合")

	history := env.bus.GetEventHistory(types.EventAssetUnlocked)
	require.Len(t, history, 1)
	payload := history[0].(*types.TDLEvent).Payload.(*types.UnlockEventPayload)
	assert.Equal(t, uint64(3), payload.BurnedShares)
	assert.False(t, payload.ByApproval)

	// 终结的集合不可再操作
	err = env.engine.MintShare(ctx, "bob", coll.ID, 0, "dave", "")
	assert.ErrorIs(t, err, ErrNotActive)
	err = env.engine.UnlockAsset(ctx, "bob", coll.ID, "bob", false)
	assert.ErrorIs(t, err, ErrNotActive)

	// 释放后的资产可再次托管
	_, err = env.engine.CreateFraction(ctx, "bob", types.FractionParams{
		AssetID:             asset.ID,
		Category:            types.CategoryLand,
		Name:                "二次份额",
		Symbol:              "LOT2",
		TotalShares:         10,
		RequiredApprovalPct: 60,
	})
	assert.NoError(t, err)
}

func TestUnlockAssetByApproval(t *testing.T) {
	env := setupTestEngine(t)
	ctx := context.Background()
	asset := env.mintAsset(t, "alice", types.CategoryLand)
	coll := env.createCollection(t, "alice", asset.ID, 4, 66)

	// 三个去重持有人：bob持2份但只计一票
	require.NoError(t, env.engine.BatchMintShares(ctx, "alice", coll.ID, []types.ShareMint{
		{Index: 0, Recipient: "bob"},
		{Index: 1, Recipient: "bob"},
		{Index: 2, Recipient: "carol"},
		{Index: 3, Recipient: "dave"},
	}))

	// 1/3审批：100 < 3×66
	require.NoError(t, env.engine.SetApproval(ctx, "bob", coll.ID, false, true))
	err := env.engine.UnlockAsset(ctx, "carol", coll.ID, "carol", true)
	assert.ErrorIs(t, err, ErrInsufficientApprovals)

	// 2/3审批：200 ≥ 3×66
	require.NoError(t, env.engine.SetApproval(ctx, "carol", coll.ID, false, true))
	require.NoError(t, env.engine.UnlockAsset(ctx, "carol", coll.ID, "carol", true))

	rec, err := env.registry.Get(ctx, asset.ID)
	require.NoError(t, err)
	assert.Equal(t, types.Identity("carol"), rec.Holder)
	assert.False(t, rec.Locked)

	history := env.bus.GetEventHistory(types.EventAssetUnlocked)
	require.Len(t, history, 1)
	payload := history[0].(*types.TDLEvent).Payload.(*types.UnlockEventPayload)
	assert.True(t, payload.ByApproval)
	assert.Equal(t, uint64(4), payload.BurnedShares)
}

func TestUnlockAssetEmptyCollection(t *testing.T) {
	env := setupTestEngine(t)
	ctx := context.Background()
	asset := env.mintAsset(t, "alice", types.CategoryLand)
	coll := env.createCollection(t, "alice", asset.ID, 5, 60)

	// 零流通时两种路径都仅限集合管理员
	err := env.engine.UnlockAsset(ctx, "bob", coll.ID, "bob", false)
	assert.ErrorIs(t, err, ErrNotAuthorized)
	err = env.engine.UnlockAsset(ctx, "bob", coll.ID, "bob", true)
	assert.ErrorIs(t, err, ErrNotAuthorized)

	err = env.engine.UnlockAsset(ctx, "alice", coll.ID, "", false)
	assert.ErrorIs(t, err, ErrInvalidRecipient)

	require.NoError(t, env.engine.UnlockAsset(ctx, "alice", coll.ID, "dave", false))

	rec, err := env.registry.Get(ctx, asset.ID)
	require.NoError(t, err)
	assert.Equal(t, types.Identity("dave"), rec.Holder, "管理员可将空集合资产释放给任意接收人")
}
