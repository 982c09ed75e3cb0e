package fractions

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/titledger/v1/pkg/types"
)

// createSubdivision 以默认参数创建划分账本
func (e *fracEnv) createSubdivision(t *testing.T, holder types.Identity, assetID types.AssetID, category types.AssetCategory, totalUnits uint64, burnable bool) *types.SubdivisionLedger {
	t.Helper()

	ledger, err := e.engine.CreateSubdivision(context.Background(), holder, types.SubdivisionParams{
		AssetID:    assetID,
		Category:   category,
		Name:       "东区单元",
		TotalUnits: totalUnits,
		Burnable:   burnable,
	})
	require.NoError(t, err, "创建划分账本失败")
	return ledger
}

func TestCreateSubdivision(t *testing.T) {
	env := setupTestEngine(t)
	ctx := context.Background()
	asset := env.mintAsset(t, "alice", types.CategoryEstate)

	ledger, err := env.engine.CreateSubdivision(ctx, "alice", types.SubdivisionParams{
		AssetID:     asset.ID,
		Category:    types.CategoryEstate,
		Name:        "东区单元",
		Description: "楼层与车位划分",
		TotalUnits:  20,
		Burnable:    true,
	})
	require.NoError(t, err)
	assert.Equal(t, types.SubdivisionID(1), ledger.ID)
	assert.Equal(t, asset.ID, ledger.AssetID)
	assert.Zero(t, ledger.ActiveUnits)
	assert.True(t, ledger.Active)

	// 划分不接管托管，底层资产保持可转让
	rec, err := env.registry.Get(ctx, asset.ID)
	require.NoError(t, err)
	assert.False(t, rec.Locked)

	got, err := env.engine.SubdivisionByAsset(ctx, asset.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, ledger.ID, got.ID)

	assert.Len(t, env.bus.GetEventHistory(types.EventSubdivisionCreated), 1)
}

func TestCreateSubdivisionValidation(t *testing.T) {
	env := setupTestEngine(t)
	ctx := context.Background()
	estate := env.mintAsset(t, "alice", types.CategoryEstate)

	base := types.SubdivisionParams{
		AssetID:    estate.ID,
		Category:   types.CategoryEstate,
		Name:       "东区单元",
		TotalUnits: 10,
	}

	p := base
	p.TotalUnits = 0
	_, err := env.engine.CreateSubdivision(ctx, "alice", p)
	assert.ErrorIs(t, err, ErrInvalidUnitCount)

	p = base
	p.AssetID = 999
	_, err = env.engine.CreateSubdivision(ctx, "alice", p)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = env.engine.CreateSubdivision(ctx, "mallory", base)
	assert.ErrorIs(t, err, ErrNotOwner)

	p = base
	p.Category = types.CategoryLand
	_, err = env.engine.CreateSubdivision(ctx, "alice", p)
	assert.ErrorIs(t, err, ErrCategoryMismatch)

	// 车辆类别不可划分
	vehicle, err := env.registry.Create(ctx, testNotary, types.AssetParams{
		Category:     types.CategoryVehicle,
		Owner:        "alice",
		AgreementRef: testAgreement,
		Definition:   "车辆档案-V100",
		Validator:    testNotary,
	})
	require.NoError(t, err)
	_, err = env.engine.CreateSubdivision(ctx, "alice", types.SubdivisionParams{
		AssetID:    vehicle.ID,
		Category:   types.CategoryVehicle,
		Name:       "车辆单元",
		TotalUnits: 4,
	})
	assert.ErrorIs(t, err, ErrNotSubdividable)

	// 托管中的资产不可划分
	locked := env.mintAsset(t, "alice", types.CategoryLand)
	env.createCollection(t, "alice", locked.ID, 10, 60)
	_, err = env.engine.CreateSubdivision(ctx, "alice", types.SubdivisionParams{
		AssetID:    locked.ID,
		Category:   types.CategoryLand,
		Name:       "地块单元",
		TotalUnits: 4,
	})
	assert.ErrorIs(t, err, ErrAssetLocked)

	// 同一资产只允许一个活跃账本
	env.createSubdivision(t, "alice", estate.ID, types.CategoryEstate, 10, true)
	_, err = env.engine.CreateSubdivision(ctx, "alice", base)
	assert.ErrorIs(t, err, ErrSubdivisionActive)
}

func TestMintUnit(t *testing.T) {
	env := setupTestEngine(t)
	ctx := context.Background()
	asset := env.mintAsset(t, "alice", types.CategoryEstate)
	ledger := env.createSubdivision(t, "alice", asset.ID, types.CategoryEstate, 5, true)

	// 单元铸造无钱包上限
	for i := uint64(0); i < 4; i++ {
		require.NoError(t, env.engine.MintUnit(ctx, "alice", ledger.ID, i, "bob", fmt.Sprintf("单元-%d", i)))
	}

	got, err := env.engine.GetSubdivision(ctx, ledger.ID)
	require.NoError(t, err)
	assert.Equal(t, uint64(4), got.ActiveUnits)

	owner, err := env.engine.UnitOwner(ctx, ledger.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, types.Identity("bob"), owner)

	err = env.engine.MintUnit(ctx, "bob", ledger.ID, 4, "bob", "")
	assert.ErrorIs(t, err, ErrNotOwner, "铸造权属于底层资产持有人")

	err = env.engine.MintUnit(ctx, "alice", ledger.ID, 5, "bob", "")
	assert.ErrorIs(t, err, ErrInvalidUnitID)

	err = env.engine.MintUnit(ctx, "alice", ledger.ID, 0, "carol", "")
	assert.ErrorIs(t, err, ErrUnitAlreadyMinted)

	err = env.engine.MintUnit(ctx, "alice", ledger.ID, 4, "", "")
	assert.ErrorIs(t, err, ErrInvalidRecipient)

	require.NoError(t, env.engine.MintUnit(ctx, "alice", ledger.ID, 4, "carol", ""))
	err = env.engine.MintUnit(ctx, "alice", ledger.ID, 0, "carol", "")
	assert.ErrorIs(t, err, ErrAllUnitsMinted)

	assert.Len(t, env.bus.GetEventHistory(types.EventUnitMinted), 5)
}

func TestMintUnitRightsFollowHolder(t *testing.T) {
	env := setupTestEngine(t)
	ctx := context.Background()
	asset := env.mintAsset(t, "alice", types.CategoryEstate)
	ledger := env.createSubdivision(t, "alice", asset.ID, types.CategoryEstate, 4, true)

	require.NoError(t, env.engine.MintUnit(ctx, "alice", ledger.ID, 0, "carol", ""))

	// 底层资产转让后，铸造权随实时持有人迁移
	require.NoError(t, env.registry.Transfer(ctx, "alice", asset.ID, "bob"))

	err := env.engine.MintUnit(ctx, "alice", ledger.ID, 1, "carol", "")
	assert.ErrorIs(t, err, ErrNotOwner)
	require.NoError(t, env.engine.MintUnit(ctx, "bob", ledger.ID, 1, "carol", ""))
}

func TestBatchMintUnitsAtomicity(t *testing.T) {
	env := setupTestEngine(t)
	ctx := context.Background()
	asset := env.mintAsset(t, "alice", types.CategoryEstate)
	ledger := env.createSubdivision(t, "alice", asset.ID, types.CategoryEstate, 10, true)

	err := env.engine.BatchMintUnits(ctx, "alice", ledger.ID, []types.UnitMint{
		{Index: 0, Recipient: "bob"},
		{Index: 1, Recipient: ""},
	})
	assert.ErrorIs(t, err, ErrInvalidRecipient)

	got, err := env.engine.GetSubdivision(ctx, ledger.ID)
	require.NoError(t, err)
	assert.Zero(t, got.ActiveUnits, "批量失败后不得留下部分单元")
	assert.Empty(t, env.bus.GetEventHistory(types.EventUnitMinted))

	require.NoError(t, env.engine.BatchMintUnits(ctx, "alice", ledger.ID, nil))

	require.NoError(t, env.engine.BatchMintUnits(ctx, "alice", ledger.ID, []types.UnitMint{
		{Index: 0, Recipient: "bob"},
		{Index: 1, Recipient: "carol"},
	}))
	got, err = env.engine.GetSubdivision(ctx, ledger.ID)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), got.ActiveUnits)
}

func TestBurnUnit(t *testing.T) {
	env := setupTestEngine(t)
	ctx := context.Background()
	asset := env.mintAsset(t, "alice", types.CategoryEstate)
	ledger := env.createSubdivision(t, "alice", asset.ID, types.CategoryEstate, 5, true)
	require.NoError(t, env.engine.MintUnit(ctx, "alice", ledger.ID, 0, "bob", ""))

	err := env.engine.BurnUnit(ctx, "carol", ledger.ID, 0)
	assert.ErrorIs(t, err, ErrNotUnitOwner)

	require.NoError(t, env.engine.BurnUnit(ctx, "bob", ledger.ID, 0))

	_, err = env.engine.UnitOwner(ctx, ledger.ID, 0)
	assert.ErrorIs(t, err, ErrNotFound)

	got, err := env.engine.GetSubdivision(ctx, ledger.ID)
	require.NoError(t, err)
	assert.Zero(t, got.ActiveUnits)
	assert.Len(t, env.bus.GetEventHistory(types.EventUnitBurned), 1)
}

func TestBurnUnitDisabled(t *testing.T) {
	env := setupTestEngine(t)
	ctx := context.Background()
	asset := env.mintAsset(t, "alice", types.CategoryEstate)
	ledger := env.createSubdivision(t, "alice", asset.ID, types.CategoryEstate, 5, false)
	require.NoError(t, env.engine.MintUnit(ctx, "alice", ledger.ID, 0, "bob", ""))

	err := env.engine.BurnUnit(ctx, "bob", ledger.ID, 0)
	assert.ErrorIs(t, err, ErrBurningDisabled)
}

func TestTransferUnit(t *testing.T) {
	env := setupTestEngine(t)
	ctx := context.Background()
	asset := env.mintAsset(t, "alice", types.CategoryEstate)
	ledger := env.createSubdivision(t, "alice", asset.ID, types.CategoryEstate, 5, true)
	require.NoError(t, env.engine.MintUnit(ctx, "alice", ledger.ID, 0, "bob", ""))

	err := env.engine.TransferUnit(ctx, "carol", ledger.ID, 0, "dave")
	assert.ErrorIs(t, err, ErrNotUnitOwner)

	err = env.engine.TransferUnit(ctx, "bob", ledger.ID, 0, "")
	assert.ErrorIs(t, err, ErrInvalidRecipient)

	// 自我转让为无操作且不发布事件
	require.NoError(t, env.engine.TransferUnit(ctx, "bob", ledger.ID, 0, "bob"))
	assert.Empty(t, env.bus.GetEventHistory(types.EventUnitTransferred))

	require.NoError(t, env.engine.TransferUnit(ctx, "bob", ledger.ID, 0, "carol"))

	owner, err := env.engine.UnitOwner(ctx, ledger.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, types.Identity("carol"), owner)

	history := env.bus.GetEventHistory(types.EventUnitTransferred)
	require.Len(t, history, 1)
	payload := history[0].(*types.TDLEvent).Payload.(*types.UnitEventPayload)
	assert.Equal(t, types.Identity("bob"), payload.From)
	assert.Equal(t, types.Identity("carol"), payload.To)
}

func TestDeactivateSubdivision(t *testing.T) {
	env := setupTestEngine(t)
	ctx := context.Background()
	asset := env.mintAsset(t, "alice", types.CategoryEstate)
	ledger := env.createSubdivision(t, "alice", asset.ID, types.CategoryEstate, 5, true)

	require.NoError(t, env.engine.MintUnit(ctx, "alice", ledger.ID, 0, "alice", ""))
	require.NoError(t, env.engine.MintUnit(ctx, "alice", ledger.ID, 1, "carol", ""))

	err := env.engine.DeactivateSubdivision(ctx, "bob", ledger.ID)
	assert.ErrorIs(t, err, ErrNotOwner)

	// 外部持有人直接否决
	err = env.engine.DeactivateSubdivision(ctx, "alice", ledger.ID)
	assert.ErrorIs(t, err, ErrUnitsOutstanding)

	// 单元全部回到资产持有人后允许停用
	require.NoError(t, env.engine.TransferUnit(ctx, "carol", ledger.ID, 1, "alice"))
	require.NoError(t, env.engine.DeactivateSubdivision(ctx, "alice", ledger.ID))

	got, err := env.engine.GetSubdivision(ctx, ledger.ID)
	require.NoError(t, err)
	assert.False(t, got.Active)
	assert.Zero(t, got.ActiveUnits)

	_, err = env.engine.UnitOwner(ctx, ledger.ID, 0)
	assert.ErrorIs(t, err, ErrNotFound)

	byAsset, err := env.engine.SubdivisionByAsset(ctx, asset.ID)
	require.NoError(t, err)
	assert.Nil(t, byAsset, "停用后资产不再关联活跃账本")

	err = env.engine.DeactivateSubdivision(ctx, "alice", ledger.ID)
	assert.ErrorIs(t, err, ErrNotActive)

	assert.Len(t, env.bus.GetEventHistory(types.EventSubdivisionDeactivated), 1)

	// 停用后可重新创建划分
	_, err = env.engine.CreateSubdivision(ctx, "alice", types.SubdivisionParams{
		AssetID:    asset.ID,
		Category:   types.CategoryEstate,
		Name:       "西区单元",
		TotalUnits: 8,
		Burnable:   true,
	})
	assert.NoError(t, err)
}
