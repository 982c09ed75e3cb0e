package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httptypes "github.com/titledger/v1/internal/api/http/types"
	"github.com/titledger/v1/pkg/types"
)

// configureTreasuryHTTP 经管理端点配置白名单、费率表与佣金费率
func (e *apiEnv) configureTreasuryHTTP(t *testing.T) {
	t.Helper()

	w := e.do(t, http.MethodPut, "/api/v1/treasury/tokens/usd-token/whitelist", testAdmin, map[string]interface{}{
		"whitelisted": true,
	})
	require.Equal(t, http.StatusOK, w.Code, "白名单设置应成功: %s", w.Body.String())

	w = e.do(t, http.MethodPut, "/api/v1/treasury/tokens/usd-token/fees", testAdmin, map[string]interface{}{
		"regular_fee":   "100",
		"validator_fee": "40",
	})
	require.Equal(t, http.StatusOK, w.Code, "费率表设置应成功: %s", w.Body.String())

	w = e.do(t, http.MethodPut, "/api/v1/treasury/rates", testAdmin, map[string]interface{}{
		"regular_bps":   1000,
		"validator_bps": 500,
	})
	require.Equal(t, http.StatusOK, w.Code, "佣金费率设置应成功: %s", w.Body.String())
}

// creditVaultHTTP 经管理端点为指定身份充值
func (e *apiEnv) creditVaultHTTP(t *testing.T, to types.Identity, amount string) {
	t.Helper()
	w := e.do(t, http.MethodPost, "/api/v1/vault/credit", testAdmin, map[string]interface{}{
		"token":  string(testToken),
		"to":     to.String(),
		"amount": amount,
	})
	require.Equal(t, http.StatusOK, w.Code, "金库充值应成功: %s", w.Body.String())
}

// vaultBalanceHTTP 查询金库余额字符串
func (e *apiEnv) vaultBalanceHTTP(t *testing.T, holder types.Identity) string {
	t.Helper()
	w := e.do(t, http.MethodGet, "/api/v1/vault/balance/usd-token/"+holder.String(), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var balance httptypes.BalanceResponse
	decode(t, w, &balance)
	return balance.Balance
}

func TestPaidMintOverHTTP(t *testing.T) {
	env := setupTestAPI(t)
	alice := types.Identity("alice")

	env.configureTreasuryHTTP(t)
	env.creditVaultHTTP(t, alice, "1000")

	w := env.do(t, http.MethodPut, "/api/v1/treasury/recipient", testAdmin, map[string]interface{}{
		"recipient": "fee-collector",
	})
	require.Equal(t, http.StatusOK, w.Code)

	// 配置回读
	w = env.do(t, http.MethodGet, "/api/v1/treasury/tokens/usd-token", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var tokenFee httptypes.TokenFeeResponse
	decode(t, w, &tokenFee)
	assert.True(t, tokenFee.Whitelisted)
	assert.Equal(t, "100", tokenFee.RegularFee)
	assert.Equal(t, "40", tokenFee.ValidatorFee)

	w = env.do(t, http.MethodGet, "/api/v1/treasury/rates", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var rates httptypes.RatesResponse
	decode(t, w, &rates)
	assert.Equal(t, uint32(1000), rates.RegularBps)
	assert.Equal(t, uint32(500), rates.ValidatorBps)

	w = env.do(t, http.MethodGet, "/api/v1/treasury/recipient", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var recipient httptypes.RecipientResponse
	decode(t, w, &recipient)
	assert.Equal(t, "fee-collector", recipient.Recipient)

	// 付费铸造：params.owner故意填入他人，所有权仍应归于付款人
	w = env.do(t, http.MethodPost, "/api/v1/mint", alice, map[string]interface{}{
		"params": map[string]interface{}{
			"category":      "land",
			"owner":         "someone-else",
			"agreement_ref": testAgreement,
			"definition":    "地籍档案-5001",
		},
		"validator": testNotary.String(),
		"token":     string(testToken),
	})
	require.Equal(t, http.StatusCreated, w.Code, "付费铸造应成功: %s", w.Body.String())
	var record types.AssetRecord
	decode(t, w, &record)
	assert.Equal(t, alice, record.Holder, "所有权应归于付款人而非params.owner")
	assert.Equal(t, testNotary, record.Validator)
	assert.True(t, record.Validated)

	// 分账核对：常规费100，佣金10%归验证方所有人，其余入协议账户
	assert.Equal(t, "900", env.vaultBalanceHTTP(t, alice), "付款人余额应扣除100")

	w = env.do(t, http.MethodGet, "/api/v1/treasury/balances/protocol/usd-token", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var protocol httptypes.BalanceResponse
	decode(t, w, &protocol)
	assert.Equal(t, "90", protocol.Balance)

	w = env.do(t, http.MethodGet, "/api/v1/treasury/balances/commission/notary-owner/usd-token", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var commission httptypes.BalanceResponse
	decode(t, w, &commission)
	assert.Equal(t, "10", commission.Balance)

	// 服务费提取：仅管理员，划给接收人金库账户
	w = env.do(t, http.MethodPost, "/api/v1/treasury/withdrawals/service/usd-token", testAdmin, nil)
	require.Equal(t, http.StatusOK, w.Code, "服务费提取应成功: %s", w.Body.String())
	var withdrawal httptypes.WithdrawResponse
	decode(t, w, &withdrawal)
	assert.Equal(t, "90", withdrawal.Amount)
	assert.Equal(t, "90", env.vaultBalanceHTTP(t, "fee-collector"))

	// 二次提取已无余额
	w = env.do(t, http.MethodPost, "/api/v1/treasury/withdrawals/service/usd-token", testAdmin, nil)
	assert.Equal(t, http.StatusConflict, w.Code, "零余额提取应返回409")

	// 佣金提取：验证方所有人自提
	w = env.do(t, http.MethodPost, "/api/v1/treasury/withdrawals/commission/usd-token", testOwner, nil)
	require.Equal(t, http.StatusOK, w.Code, "佣金提取应成功: %s", w.Body.String())
	decode(t, w, &withdrawal)
	assert.Equal(t, "10", withdrawal.Amount)
	assert.Equal(t, "10", env.vaultBalanceHTTP(t, testOwner))
}

func TestPaidMintBatchOverHTTP(t *testing.T) {
	env := setupTestAPI(t)
	alice := types.Identity("alice")

	env.configureTreasuryHTTP(t)
	env.creditVaultHTTP(t, alice, "250")

	item := map[string]interface{}{
		"category":      "land",
		"owner":         alice.String(),
		"agreement_ref": testAgreement,
		"definition":    "地籍档案-批次",
	}

	// 余额250只够两笔：三笔整批失败且不产生任何记录
	w := env.do(t, http.MethodPost, "/api/v1/mint/batch", alice, map[string]interface{}{
		"items":     []map[string]interface{}{item, item, item},
		"validator": testNotary.String(),
		"token":     string(testToken),
	})
	assert.Equal(t, http.StatusPaymentRequired, w.Code, "余额不足的批次应整批失败")

	w = env.do(t, http.MethodGet, "/api/v1/deeds/count", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var count httptypes.CountResponse
	decode(t, w, &count)
	assert.Zero(t, count.Count, "失败批次不应落账任何记录")
	assert.Equal(t, "250", env.vaultBalanceHTTP(t, alice), "失败批次不应扣款")

	// 两笔批次成功
	w = env.do(t, http.MethodPost, "/api/v1/mint/batch", alice, map[string]interface{}{
		"items":     []map[string]interface{}{item, item},
		"validator": testNotary.String(),
		"token":     string(testToken),
	})
	require.Equal(t, http.StatusCreated, w.Code, "批量铸造应成功: %s", w.Body.String())
	var records []*types.AssetRecord
	decode(t, w, &records)
	require.Len(t, records, 2)
	for _, rec := range records {
		assert.Equal(t, alice, rec.Holder)
		assert.True(t, rec.Validated)
	}
	assert.Equal(t, "50", env.vaultBalanceHTTP(t, alice), "两笔常规费应扣除200")
}

func TestTreasuryErrorMapping(t *testing.T) {
	env := setupTestAPI(t)
	alice := types.Identity("alice")

	mintBody := map[string]interface{}{
		"params": map[string]interface{}{
			"category":      "land",
			"owner":         alice.String(),
			"agreement_ref": testAgreement,
			"definition":    "地籍档案-6001",
		},
		"validator": testNotary.String(),
		"token":     string(testToken),
	}

	// 未入白名单
	w := env.do(t, http.MethodPost, "/api/v1/mint", alice, mintBody)
	assert.Equal(t, http.StatusConflict, w.Code, "未入白名单的Token应返回409")

	// 入白名单但未设费率表
	w = env.do(t, http.MethodPut, "/api/v1/treasury/tokens/usd-token/whitelist", testAdmin, map[string]interface{}{
		"whitelisted": true,
	})
	require.Equal(t, http.StatusOK, w.Code)
	w = env.do(t, http.MethodPost, "/api/v1/mint", alice, mintBody)
	assert.Equal(t, http.StatusConflict, w.Code, "未设费率表应返回409")

	// 设费率表后余额不足
	w = env.do(t, http.MethodPut, "/api/v1/treasury/tokens/usd-token/fees", testAdmin, map[string]interface{}{
		"regular_fee":   "100",
		"validator_fee": "40",
	})
	require.Equal(t, http.StatusOK, w.Code)
	w = env.do(t, http.MethodPost, "/api/v1/mint", alice, mintBody)
	assert.Equal(t, http.StatusPaymentRequired, w.Code, "余额不足应返回402")

	// 非管理员的管理操作
	w = env.do(t, http.MethodPut, "/api/v1/treasury/tokens/usd-token/whitelist", alice, map[string]interface{}{
		"whitelisted": false,
	})
	assert.Equal(t, http.StatusForbidden, w.Code, "非管理员设置白名单应返回403")

	w = env.do(t, http.MethodPost, "/api/v1/treasury/withdrawals/service/usd-token", alice, nil)
	assert.Equal(t, http.StatusForbidden, w.Code, "非管理员提取服务费应返回403")

	// 金额格式错误
	w = env.do(t, http.MethodPut, "/api/v1/treasury/tokens/usd-token/fees", testAdmin, map[string]interface{}{
		"regular_fee":   "abc",
		"validator_fee": "40",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code, "非法金额应返回400")
	assert.Contains(t, w.Body.String(), "金额格式错误")

	// 服务费接收人未设置
	w = env.do(t, http.MethodPost, "/api/v1/treasury/withdrawals/service/usd-token", testAdmin, nil)
	assert.Equal(t, http.StatusNotFound, w.Code, "接收人未设置应返回404")

	// 佣金余额为零
	w = env.do(t, http.MethodPost, "/api/v1/treasury/withdrawals/commission/usd-token", testOwner, nil)
	assert.Equal(t, http.StatusConflict, w.Code, "零佣金提取应返回409")
}

func TestVaultOverHTTP(t *testing.T) {
	env := setupTestAPI(t)
	alice := types.Identity("alice")
	bob := types.Identity("bob")

	// 非管理员充值被拒
	w := env.do(t, http.MethodPost, "/api/v1/vault/credit", alice, map[string]interface{}{
		"token":  string(testToken),
		"to":     alice.String(),
		"amount": "500",
	})
	assert.Equal(t, http.StatusForbidden, w.Code, "非管理员充值应返回403")

	env.creditVaultHTTP(t, alice, "500")
	assert.Equal(t, "500", env.vaultBalanceHTTP(t, alice))

	// 持有人划转
	w = env.do(t, http.MethodPost, "/api/v1/vault/transfer", alice, map[string]interface{}{
		"token":  string(testToken),
		"to":     bob.String(),
		"amount": "200",
	})
	require.Equal(t, http.StatusOK, w.Code, "划转应成功: %s", w.Body.String())
	assert.Equal(t, "300", env.vaultBalanceHTTP(t, alice))
	assert.Equal(t, "200", env.vaultBalanceHTTP(t, bob))

	// 超额划转
	w = env.do(t, http.MethodPost, "/api/v1/vault/transfer", bob, map[string]interface{}{
		"token":  string(testToken),
		"to":     alice.String(),
		"amount": "9999",
	})
	assert.Equal(t, http.StatusPaymentRequired, w.Code, "余额不足划转应返回402")

	// 非整数金额
	w = env.do(t, http.MethodPost, "/api/v1/vault/transfer", alice, map[string]interface{}{
		"token":  string(testToken),
		"to":     bob.String(),
		"amount": "12.5",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code, "非整数金额应返回400")

	// 零余额查询返回0而非错误
	assert.Equal(t, "0", env.vaultBalanceHTTP(t, "carol"))
}
