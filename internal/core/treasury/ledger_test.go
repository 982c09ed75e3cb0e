package treasury

import (
	"context"
	"math/big"
	"sync/atomic"
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
	paymentvault "github.com/titledger/v1/internal/core/vault"
	eventInterface "github.com/titledger/v1/pkg/interfaces/infrastructure/event"
	"github.com/titledger/v1/pkg/interfaces/infrastructure/storage"
	"github.com/titledger/v1/pkg/types"
)

const (
	testAdmin     = types.Identity("admin")
	testCustody   = types.Identity("treasury")
	testNotary    = types.Identity("notary-a")
	testOwner     = types.Identity("notary-owner")
	testToken     = types.TokenKey("usd-token")
	testAgreement = "tdl://agreements/standard-v1"
)

// ledgerEnv 费用账本测试环境
type ledgerEnv struct {
	ledger    *Ledger
	vault     *paymentvault.Vault
	registry  *deeds.Registry
	directory *validators.Directory
	store     storage.KVStore
	bus       eventInterface.EventBus
}

func setupTestLedger(t *testing.T, opts *ledgerconfig.LedgerOptions) *ledgerEnv {
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
		HistoryLimit:  64,
	}))

	if opts == nil {
		opts = &ledgerconfig.LedgerOptions{
			Admin:            testAdmin.String(),
			TreasuryIdentity: testCustody.String(),
		}
	}
	cfg := ledgerconfig.NewFromOptions(opts)

	directory, err := validators.New(store, bus, cfg, nil)
	require.NoError(t, err)

	registry, err := deeds.New(store, nil, directory, directory, bus, cfg, nil)
	require.NoError(t, err)

	vault, err := paymentvault.New(store, bus, cfg, nil)
	require.NoError(t, err)

	ledger, err := New(store, vault, registry, registry, directory, bus, cfg, nil)
	require.NoError(t, err, "创建费用账本失败")

	// 注册验证方：所有人独立于验证方身份，佣金应归于所有人
	_, err = directory.Register(ctx, testAdmin, types.ValidatorParams{
		ID:         testNotary,
		Name:       "验证机构A",
		Categories: []types.AssetCategory{types.CategoryLand, types.CategoryEstate},
		Owner:      testOwner,
	})
	require.NoError(t, err)
	require.NoError(t, directory.SetDefaultAgreement(ctx, testAdmin, testNotary, testAgreement))

	return &ledgerEnv{
		ledger:    ledger,
		vault:     vault,
		registry:  registry,
		directory: directory,
		store:     store,
		bus:       bus,
	}
}

// configureFees 配置白名单、双档费用与费率，并为付款人充值
func (e *ledgerEnv) configureFees(t *testing.T, payer types.Identity, balance int64) {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, e.ledger.SetTokenWhitelisted(ctx, testAdmin, testToken, true))
	require.NoError(t, e.ledger.SetFeeSchedule(ctx, testAdmin, testToken, big.NewInt(100), big.NewInt(40)))
	require.NoError(t, e.ledger.SetCommissionRates(ctx, testAdmin, types.CommissionRates{
		RegularBps:   1000, // 10%
		ValidatorBps: 500,  // 5%
	}))
	if balance > 0 {
		require.NoError(t, e.vault.Credit(ctx, testAdmin, testToken, payer, big.NewInt(balance)))
	}
}

// mintParams 构造付费铸造参数（Owner字段故意填入他人，应被忽略）
func mintParams() types.AssetParams {
	return types.AssetParams{
		Category:     types.CategoryLand,
		Owner:        "someone-else",
		AgreementRef: testAgreement,
		Definition:   "地籍档案-7001",
	}
}

func TestMint(t *testing.T) {
	env := setupTestLedger(t, nil)
	env.configureFees(t, "alice", 1000)
	ctx := context.Background()

	rec, err := env.ledger.Mint(ctx, "alice", mintParams(), testNotary, testToken)
	require.NoError(t, err)
	assert.Equal(t, types.Identity("alice"), rec.Holder, "所有权应归于付款人而非params.Owner")
	assert.Equal(t, testNotary, rec.Validator)
	assert.True(t, rec.Validated)

	// 常规档费用100，佣金10%=10，协议余额90
	aliceBalance, err := env.vault.BalanceOf(ctx, testToken, "alice")
	require.NoError(t, err)
	assert.Zero(t, aliceBalance.Cmp(big.NewInt(900)))

	custodyBalance, err := env.vault.BalanceOf(ctx, testToken, testCustody)
	require.NoError(t, err)
	assert.Zero(t, custodyBalance.Cmp(big.NewInt(100)), "托管账户持有全部费用")

	protocol, err := env.ledger.ProtocolBalance(ctx, testToken)
	require.NoError(t, err)
	assert.Zero(t, protocol.Cmp(big.NewInt(90)))

	commission, err := env.ledger.CommissionBalance(ctx, testOwner, testToken)
	require.NoError(t, err)
	assert.Zero(t, commission.Cmp(big.NewInt(10)), "佣金应归于验证方所有人")

	// 守恒：托管余额 = 协议余额 + 佣金余额
	assert.Zero(t, custodyBalance.Cmp(new(big.Int).Add(protocol, commission)))

	history := env.bus.GetEventHistory(types.EventTreasuryMinted)
	require.Len(t, history, 1)
	payload := history[0].(*types.TDLEvent).Payload.(*types.TreasuryEventPayload)
	assert.Equal(t, types.CallerRegular, payload.Class)
	assert.Zero(t, payload.Fee.Cmp(big.NewInt(100)))
	assert.Zero(t, payload.Commission.Cmp(big.NewInt(10)))
	assert.Equal(t, testOwner, payload.Recipient)
	assert.Equal(t, rec.ID, payload.AssetID)

	created := env.bus.GetEventHistory(types.EventAssetCreated)
	assert.Len(t, created, 1, "付费铸造也应发布资产创建事件")
}

func TestMintValidatorClass(t *testing.T) {
	env := setupTestLedger(t, nil)
	env.configureFees(t, testNotary, 1000)
	ctx := context.Background()

	// 验证方调用走验证方档：费用40，佣金5%=2
	_, err := env.ledger.Mint(ctx, testNotary, mintParams(), testNotary, testToken)
	require.NoError(t, err)

	notaryBalance, err := env.vault.BalanceOf(ctx, testToken, testNotary)
	require.NoError(t, err)
	assert.Zero(t, notaryBalance.Cmp(big.NewInt(960)))

	commission, err := env.ledger.CommissionBalance(ctx, testOwner, testToken)
	require.NoError(t, err)
	assert.Zero(t, commission.Cmp(big.NewInt(2)))

	protocol, err := env.ledger.ProtocolBalance(ctx, testToken)
	require.NoError(t, err)
	assert.Zero(t, protocol.Cmp(big.NewInt(38)))
}

func TestMintValidation(t *testing.T) {
	env := setupTestLedger(t, nil)
	ctx := context.Background()

	_, err := env.ledger.Mint(ctx, "alice", mintParams(), testNotary, "")
	assert.ErrorIs(t, err, ErrInvalidToken)

	// 未白名单
	_, err = env.ledger.Mint(ctx, "alice", mintParams(), testNotary, testToken)
	assert.ErrorIs(t, err, ErrTokenNotWhitelisted)

	// 白名单开通但费用未设置
	require.NoError(t, env.ledger.SetTokenWhitelisted(ctx, testAdmin, testToken, true))
	_, err = env.ledger.Mint(ctx, "alice", mintParams(), testNotary, testToken)
	assert.ErrorIs(t, err, ErrFeeNotSet)

	// 余额不足：支付失败包装金库错误
	require.NoError(t, env.ledger.SetFeeSchedule(ctx, testAdmin, testToken, big.NewInt(100), big.NewInt(40)))
	_, err = env.ledger.Mint(ctx, "alice", mintParams(), testNotary, testToken)
	assert.ErrorIs(t, err, ErrPaymentFailed)
	assert.ErrorIs(t, err, paymentvault.ErrInsufficientFunds)

	// 未注册验证方无法解析佣金接收人
	require.NoError(t, env.vault.Credit(ctx, testAdmin, testToken, "alice", big.NewInt(1000)))
	_, err = env.ledger.Mint(ctx, "alice", mintParams(), "ghost-notary", testToken)
	assert.ErrorIs(t, err, ErrRecipientNotFound)

	// 接收人解析失败不得扣款
	balance, err := env.vault.BalanceOf(ctx, testToken, "alice")
	require.NoError(t, err)
	assert.Zero(t, balance.Cmp(big.NewInt(1000)), "失败的铸造不得扣款")
}

func TestMintAtomicity(t *testing.T) {
	env := setupTestLedger(t, nil)
	env.configureFees(t, "alice", 1000)
	ctx := context.Background()

	// 落账环节失败（类别无效）应使支付与分账整体回滚
	params := mintParams()
	params.Category = "spaceship"
	_, err := env.ledger.Mint(ctx, "alice", params, testNotary, testToken)
	assert.ErrorIs(t, err, deeds.ErrInvalidCategory)

	balance, err := env.vault.BalanceOf(ctx, testToken, "alice")
	require.NoError(t, err)
	assert.Zero(t, balance.Cmp(big.NewInt(1000)), "铸造失败后付款应回滚")

	protocol, err := env.ledger.ProtocolBalance(ctx, testToken)
	require.NoError(t, err)
	assert.Zero(t, protocol.Sign(), "铸造失败后协议余额应回滚")

	commission, err := env.ledger.CommissionBalance(ctx, testOwner, testToken)
	require.NoError(t, err)
	assert.Zero(t, commission.Sign(), "铸造失败后佣金应回滚")

	count, err := env.registry.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	assert.Empty(t, env.bus.GetEventHistory(types.EventTreasuryMinted), "失败的铸造不发布事件")
}

func TestMintBatch(t *testing.T) {
	env := setupTestLedger(t, nil)
	env.configureFees(t, "alice", 1000)
	ctx := context.Background()

	// 任一条目失败整批回滚
	bad := mintParams()
	bad.Definition = ""
	_, err := env.ledger.MintBatch(ctx, "alice", []types.AssetParams{mintParams(), bad}, testNotary, testToken)
	assert.ErrorIs(t, err, deeds.ErrMissingField)

	balance, err := env.vault.BalanceOf(ctx, testToken, "alice")
	require.NoError(t, err)
	assert.Zero(t, balance.Cmp(big.NewInt(1000)), "批量失败后所有付款应回滚")

	count, err := env.registry.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	// 全部有效：每条各收一次费
	records, err := env.ledger.MintBatch(ctx, "alice", []types.AssetParams{mintParams(), mintParams(), mintParams()}, testNotary, testToken)
	require.NoError(t, err)
	require.Len(t, records, 3)

	balance, err = env.vault.BalanceOf(ctx, testToken, "alice")
	require.NoError(t, err)
	assert.Zero(t, balance.Cmp(big.NewInt(700)))

	protocol, err := env.ledger.ProtocolBalance(ctx, testToken)
	require.NoError(t, err)
	assert.Zero(t, protocol.Cmp(big.NewInt(270)))

	assert.Len(t, env.bus.GetEventHistory(types.EventTreasuryMinted), 3)

	// 空批次直接返回
	records, err = env.ledger.MintBatch(ctx, "alice", nil, testNotary, testToken)
	require.NoError(t, err)
	assert.Nil(t, records)
}

func TestMintDefaultValidator(t *testing.T) {
	env := setupTestLedger(t, &ledgerconfig.LedgerOptions{
		Admin:            testAdmin.String(),
		TreasuryIdentity: testCustody.String(),
		DefaultValidator: testNotary.String(),
	})
	env.configureFees(t, "alice", 1000)
	ctx := context.Background()

	// 验证方参数为空时回落到登记默认验证方
	rec, err := env.ledger.Mint(ctx, "alice", mintParams(), "", testToken)
	require.NoError(t, err)
	assert.Equal(t, testNotary, rec.Validator)

	commission, err := env.ledger.CommissionBalance(ctx, testOwner, testToken)
	require.NoError(t, err)
	assert.Zero(t, commission.Cmp(big.NewInt(10)), "佣金应归于默认验证方的所有人")
}

func TestMintReentrantGuard(t *testing.T) {
	env := setupTestLedger(t, nil)
	env.configureFees(t, "alice", 1000)
	ctx := context.Background()

	// 忙标志被占用期间的调用立即失败而非阻塞
	require.True(t, atomic.CompareAndSwapInt32(&env.ledger.busy, 0, 1))
	_, err := env.ledger.Mint(ctx, "alice", mintParams(), testNotary, testToken)
	assert.ErrorIs(t, err, ErrReentrant)
	_, err = env.ledger.MintBatch(ctx, "alice", []types.AssetParams{mintParams()}, testNotary, testToken)
	assert.ErrorIs(t, err, ErrReentrant)
	atomic.StoreInt32(&env.ledger.busy, 0)

	// 释放后恢复可用
	_, err = env.ledger.Mint(ctx, "alice", mintParams(), testNotary, testToken)
	assert.NoError(t, err)
}

func TestWithdrawServiceFees(t *testing.T) {
	env := setupTestLedger(t, nil)
	env.configureFees(t, "alice", 1000)
	ctx := context.Background()

	_, err := env.ledger.Mint(ctx, "alice", mintParams(), testNotary, testToken)
	require.NoError(t, err)

	// 仅管理员
	_, err = env.ledger.WithdrawServiceFees(ctx, "alice", testToken)
	assert.ErrorIs(t, err, ErrNotAuthorized)

	// 接收人未设置
	_, err = env.ledger.WithdrawServiceFees(ctx, testAdmin, testToken)
	assert.ErrorIs(t, err, ErrRecipientNotFound)

	require.NoError(t, env.ledger.SetFeeRecipient(ctx, testAdmin, "protocol-fund"))

	amount, err := env.ledger.WithdrawServiceFees(ctx, testAdmin, testToken)
	require.NoError(t, err)
	assert.Zero(t, amount.Cmp(big.NewInt(90)))

	fundBalance, err := env.vault.BalanceOf(ctx, testToken, "protocol-fund")
	require.NoError(t, err)
	assert.Zero(t, fundBalance.Cmp(big.NewInt(90)))

	protocol, err := env.ledger.ProtocolBalance(ctx, testToken)
	require.NoError(t, err)
	assert.Zero(t, protocol.Sign(), "提取后协议余额清零")

	// 再次提取：余额为零
	_, err = env.ledger.WithdrawServiceFees(ctx, testAdmin, testToken)
	assert.ErrorIs(t, err, ErrNothingToWithdraw)

	history := env.bus.GetEventHistory(types.EventTreasuryWithdrawn)
	require.Len(t, history, 1)
	payload := history[0].(*types.TDLEvent).Payload.(*types.TreasuryEventPayload)
	assert.Equal(t, types.Identity("protocol-fund"), payload.Recipient)
	assert.Zero(t, payload.Amount.Cmp(big.NewInt(90)))
}

func TestWithdrawCommission(t *testing.T) {
	env := setupTestLedger(t, nil)
	env.configureFees(t, "alice", 1000)
	ctx := context.Background()

	_, err := env.ledger.Mint(ctx, "alice", mintParams(), testNotary, testToken)
	require.NoError(t, err)

	// 他人不可代提：各自只能提自己的余额
	_, err = env.ledger.WithdrawCommission(ctx, "alice", testToken)
	assert.ErrorIs(t, err, ErrNothingToWithdraw)

	amount, err := env.ledger.WithdrawCommission(ctx, testOwner, testToken)
	require.NoError(t, err)
	assert.Zero(t, amount.Cmp(big.NewInt(10)))

	ownerBalance, err := env.vault.BalanceOf(ctx, testToken, testOwner)
	require.NoError(t, err)
	assert.Zero(t, ownerBalance.Cmp(big.NewInt(10)))

	_, err = env.ledger.WithdrawCommission(ctx, testOwner, testToken)
	assert.ErrorIs(t, err, ErrNothingToWithdraw)
}

func TestAdminSetters(t *testing.T) {
	env := setupTestLedger(t, nil)
	ctx := context.Background()

	// 权限
	assert.ErrorIs(t, env.ledger.SetTokenWhitelisted(ctx, "mallory", testToken, true), ErrNotAuthorized)
	assert.ErrorIs(t, env.ledger.SetFeeSchedule(ctx, "mallory", testToken, big.NewInt(1), big.NewInt(1)), ErrNotAuthorized)
	assert.ErrorIs(t, env.ledger.SetCommissionRates(ctx, "mallory", types.CommissionRates{}), ErrNotAuthorized)
	assert.ErrorIs(t, env.ledger.SetFeeRecipient(ctx, "mallory", "fund"), ErrNotAuthorized)

	// 参数校验
	assert.ErrorIs(t, env.ledger.SetFeeSchedule(ctx, testAdmin, testToken, nil, big.NewInt(1)), ErrInvalidFee)
	assert.ErrorIs(t, env.ledger.SetFeeSchedule(ctx, testAdmin, testToken, big.NewInt(-1), big.NewInt(1)), ErrInvalidFee)
	assert.ErrorIs(t, env.ledger.SetCommissionRates(ctx, testAdmin, types.CommissionRates{RegularBps: 10001}), ErrInvalidCommissionRate)
	assert.ErrorIs(t, env.ledger.SetFeeRecipient(ctx, testAdmin, ""), ErrInvalidRecipient)

	// 白名单开关不清除已配置的费用计划
	require.NoError(t, env.ledger.SetFeeSchedule(ctx, testAdmin, testToken, big.NewInt(100), big.NewInt(40)))
	require.NoError(t, env.ledger.SetTokenWhitelisted(ctx, testAdmin, testToken, true))
	require.NoError(t, env.ledger.SetTokenWhitelisted(ctx, testAdmin, testToken, false))

	whitelisted, err := env.ledger.IsTokenWhitelisted(ctx, testToken)
	require.NoError(t, err)
	assert.False(t, whitelisted)

	fee, err := env.ledger.FeeFor(ctx, testToken, types.CallerRegular)
	require.NoError(t, err)
	require.NotNil(t, fee)
	assert.Zero(t, fee.Cmp(big.NewInt(100)), "白名单开关不影响费用计划")

	// 未配置Token的查询
	fee, err = env.ledger.FeeFor(ctx, "unknown-token", types.CallerRegular)
	require.NoError(t, err)
	assert.Nil(t, fee)

	whitelisted, err = env.ledger.IsTokenWhitelisted(ctx, "unknown-token")
	require.NoError(t, err)
	assert.False(t, whitelisted)

	// 费率与接收人查询
	require.NoError(t, env.ledger.SetCommissionRates(ctx, testAdmin, types.CommissionRates{RegularBps: 250, ValidatorBps: 100}))
	rates, err := env.ledger.Rates(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint32(250), rates.RegularBps)

	require.NoError(t, env.ledger.SetFeeRecipient(ctx, testAdmin, "fund"))
	recipient, err := env.ledger.FeeRecipient(ctx)
	require.NoError(t, err)
	assert.Equal(t, types.Identity("fund"), recipient)

	// 变更事件
	assert.Len(t, env.bus.GetEventHistory(types.EventTreasuryWhitelistChanged), 2)
	assert.Len(t, env.bus.GetEventHistory(types.EventTreasuryFeeChanged), 1)
	assert.Len(t, env.bus.GetEventHistory(types.EventTreasuryRatesChanged), 1)
	assert.Len(t, env.bus.GetEventHistory(types.EventTreasuryRecipientChanged), 1)
}

func TestCommissionFloorDivision(t *testing.T) {
	env := setupTestLedger(t, nil)
	ctx := context.Background()

	require.NoError(t, env.ledger.SetTokenWhitelisted(ctx, testAdmin, testToken, true))
	// 费用33 × 1000bps = 3.3 → 佣金3（向下取整）
	require.NoError(t, env.ledger.SetFeeSchedule(ctx, testAdmin, testToken, big.NewInt(33), big.NewInt(33)))
	require.NoError(t, env.ledger.SetCommissionRates(ctx, testAdmin, types.CommissionRates{RegularBps: 1000, ValidatorBps: 1000}))
	require.NoError(t, env.vault.Credit(ctx, testAdmin, testToken, "alice", big.NewInt(100)))

	_, err := env.ledger.Mint(ctx, "alice", mintParams(), testNotary, testToken)
	require.NoError(t, err)

	commission, err := env.ledger.CommissionBalance(ctx, testOwner, testToken)
	require.NoError(t, err)
	assert.Zero(t, commission.Cmp(big.NewInt(3)))

	protocol, err := env.ledger.ProtocolBalance(ctx, testToken)
	require.NoError(t, err)
	assert.Zero(t, protocol.Cmp(big.NewInt(30)), "协议余额承接取整余差")
}
