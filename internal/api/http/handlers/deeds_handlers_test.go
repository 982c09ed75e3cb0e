package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httptypes "github.com/titledger/v1/internal/api/http/types"
	"github.com/titledger/v1/pkg/types"
)

func TestAssetLifecycleOverHTTP(t *testing.T) {
	env := setupTestAPI(t)
	alice := types.Identity("alice")
	bob := types.Identity("bob")

	// 直接铸造：验证方出手，记录即带验证标志
	record := env.mintAssetHTTP(t, alice, "land")
	assert.Equal(t, alice, record.Holder, "持有权应归于owner参数")
	assert.Equal(t, testNotary, record.Validator)
	assert.True(t, record.Validated, "直接铸造应自带验证标志")
	assert.False(t, record.Locked)
	id := uint64(record.ID)

	// 按ID查询
	w := env.do(t, http.MethodGet, fmt.Sprintf("/api/v1/deeds/id/%d", id), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var got types.AssetRecord
	decode(t, w, &got)
	assert.Equal(t, record.ID, got.ID)
	assert.Equal(t, types.CategoryLand, got.Category)

	// 计数
	w = env.do(t, http.MethodGet, "/api/v1/deeds/count", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var count httptypes.CountResponse
	decode(t, w, &count)
	assert.Equal(t, uint64(1), count.Count)

	// 持有人与可划分性查询
	w = env.do(t, http.MethodGet, fmt.Sprintf("/api/v1/deeds/id/%d/holder", id), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var holder httptypes.HolderResponse
	decode(t, w, &holder)
	assert.Equal(t, alice.String(), holder.Holder)

	w = env.do(t, http.MethodGet, fmt.Sprintf("/api/v1/deeds/id/%d/subdividable", id), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var sub httptypes.SubdividableResponse
	decode(t, w, &sub)
	assert.True(t, sub.Subdividable, "土地类资产应可划分")

	// 持有人更新元数据：验证标志被清除
	w = env.do(t, http.MethodPut, fmt.Sprintf("/api/v1/deeds/id/%d/metadata", id), alice, map[string]interface{}{
		"agreement_ref": testAgreement,
		"definition":    "地籍档案-2001-修订A",
	})
	require.Equal(t, http.StatusOK, w.Code, "持有人更新元数据应成功: %s", w.Body.String())
	var updated types.AssetRecord
	decode(t, w, &updated)
	assert.Equal(t, "地籍档案-2001-修订A", updated.Definition)
	assert.False(t, updated.Validated, "非验证方修改后应要求重新验证")

	// 验证方重新验证
	w = env.do(t, http.MethodPost, fmt.Sprintf("/api/v1/deeds/id/%d/validate", id), testNotary, map[string]interface{}{
		"valid": true,
	})
	require.Equal(t, http.StatusOK, w.Code, "重新验证应成功: %s", w.Body.String())

	w = env.do(t, http.MethodGet, fmt.Sprintf("/api/v1/deeds/id/%d", id), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &got)
	assert.True(t, got.Validated)

	// 持有权转移
	w = env.do(t, http.MethodPost, fmt.Sprintf("/api/v1/deeds/id/%d/transfer", id), alice, map[string]interface{}{
		"to": bob.String(),
	})
	require.Equal(t, http.StatusOK, w.Code, "持有人转移应成功: %s", w.Body.String())

	w = env.do(t, http.MethodGet, "/api/v1/deeds/holder/bob", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var byHolder httptypes.AssetListResponse
	decode(t, w, &byHolder)
	require.Equal(t, 1, byHolder.Total)
	assert.Equal(t, bob, byHolder.Assets[0].Holder)

	w = env.do(t, http.MethodGet, "/api/v1/deeds/holder/alice", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &byHolder)
	assert.Zero(t, byHolder.Total, "转出后原持有人名下应为空")

	// 按类别列表
	w = env.do(t, http.MethodGet, "/api/v1/deeds/category/land", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var byCategory httptypes.AssetListResponse
	decode(t, w, &byCategory)
	assert.Equal(t, 1, byCategory.Total)

	// 销毁后查询返回404
	w = env.do(t, http.MethodDelete, fmt.Sprintf("/api/v1/deeds/id/%d", id), bob, nil)
	require.Equal(t, http.StatusOK, w.Code, "持有人销毁应成功: %s", w.Body.String())

	w = env.do(t, http.MethodGet, fmt.Sprintf("/api/v1/deeds/id/%d", id), "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code, "已销毁资产应返回404")

	w = env.do(t, http.MethodGet, "/api/v1/deeds/count", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &count)
	assert.Zero(t, count.Count)
}

func TestAssetErrorMapping(t *testing.T) {
	env := setupTestAPI(t)
	alice := types.Identity("alice")

	// 不存在的记录
	w := env.do(t, http.MethodGet, "/api/v1/deeds/id/9999", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code, "不存在的资产应返回404")

	// 非法ID参数
	w = env.do(t, http.MethodGet, "/api/v1/deeds/id/not-a-number", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code, "非数字ID应返回400")

	// 非验证方直接铸造
	w = env.do(t, http.MethodPost, "/api/v1/deeds", alice, map[string]interface{}{
		"category":      "land",
		"owner":         alice.String(),
		"agreement_ref": testAgreement,
		"definition":    "地籍档案-3001",
		"validator":     testNotary.String(),
	})
	assert.Equal(t, http.StatusForbidden, w.Code, "非验证方直接铸造应返回403")

	// 未知资产类别
	w = env.do(t, http.MethodPost, "/api/v1/deeds", testNotary, map[string]interface{}{
		"category":      "starship",
		"owner":         alice.String(),
		"agreement_ref": testAgreement,
		"definition":    "地籍档案-3002",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code, "未知类别应返回400")
	assert.Contains(t, w.Body.String(), "无效的资产类别")

	// 缺少必填字段
	w = env.do(t, http.MethodPost, "/api/v1/deeds", testNotary, map[string]interface{}{
		"category": "land",
		"owner":    alice.String(),
	})
	assert.Equal(t, http.StatusBadRequest, w.Code, "缺少必填字段应返回400")

	record := env.mintAssetHTTP(t, alice, "land")
	id := uint64(record.ID)

	// 非持有人转移
	w = env.do(t, http.MethodPost, fmt.Sprintf("/api/v1/deeds/id/%d/transfer", id), "bob", map[string]interface{}{
		"to": "carol",
	})
	assert.Equal(t, http.StatusForbidden, w.Code, "非持有人转移应返回403")

	// 非验证方翻转验证标志
	w = env.do(t, http.MethodPost, fmt.Sprintf("/api/v1/deeds/id/%d/validate", id), alice, map[string]interface{}{
		"valid": false,
	})
	assert.Equal(t, http.StatusForbidden, w.Code, "非验证方验证应返回403")

	// 验证方不得验证自己持有的资产
	selfHeld := env.mintAssetHTTP(t, testNotary, "estate")
	w = env.do(t, http.MethodPost, fmt.Sprintf("/api/v1/deeds/id/%d/validate", uint64(selfHeld.ID)), testNotary, map[string]interface{}{
		"valid": true,
	})
	assert.Equal(t, http.StatusForbidden, w.Code, "自我验证应返回403")

	// 非持有人销毁
	w = env.do(t, http.MethodDelete, fmt.Sprintf("/api/v1/deeds/id/%d", id), "bob", nil)
	assert.Equal(t, http.StatusForbidden, w.Code, "非持有人销毁应返回403")
}

func TestBurnBatchAtomicOverHTTP(t *testing.T) {
	env := setupTestAPI(t)
	alice := types.Identity("alice")

	first := env.mintAssetHTTP(t, alice, "land")
	second := env.mintAssetHTTP(t, alice, "estate")

	// 含不存在ID的整批请求：全批回滚
	w := env.do(t, http.MethodPost, "/api/v1/deeds/burn-batch", alice, map[string]interface{}{
		"ids": []uint64{uint64(first.ID), 9999},
	})
	assert.Equal(t, http.StatusNotFound, w.Code, "批内任一记录缺失应整批失败")

	w = env.do(t, http.MethodGet, fmt.Sprintf("/api/v1/deeds/id/%d", uint64(first.ID)), "", nil)
	assert.Equal(t, http.StatusOK, w.Code, "失败批次不应产生部分销毁")

	// 全部合法的批次成功
	w = env.do(t, http.MethodPost, "/api/v1/deeds/burn-batch", alice, map[string]interface{}{
		"ids": []uint64{uint64(first.ID), uint64(second.ID)},
	})
	require.Equal(t, http.StatusOK, w.Code, "合法批次应成功: %s", w.Body.String())

	w = env.do(t, http.MethodGet, "/api/v1/deeds/count", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var count httptypes.CountResponse
	decode(t, w, &count)
	assert.Zero(t, count.Count)
}

func TestValidatorDirectoryOverHTTP(t *testing.T) {
	env := setupTestAPI(t)

	// 管理员注册第二个验证方
	w := env.do(t, http.MethodPost, "/api/v1/validators", testAdmin, map[string]interface{}{
		"id":         "notary-b",
		"name":       "验证机构B",
		"categories": []string{"vehicle"},
	})
	require.Equal(t, http.StatusCreated, w.Code, "管理员注册应成功: %s", w.Body.String())
	var record types.ValidatorRecord
	decode(t, w, &record)
	assert.Equal(t, types.Identity("notary-b"), record.ID)
	assert.Equal(t, types.Identity("notary-b"), record.Owner, "未指定所有人时默认为验证方自身")
	assert.True(t, record.Active)

	// 重复注册
	w = env.do(t, http.MethodPost, "/api/v1/validators", testAdmin, map[string]interface{}{
		"id":         "notary-b",
		"name":       "验证机构B",
		"categories": []string{"vehicle"},
	})
	assert.Equal(t, http.StatusConflict, w.Code, "重复注册应返回409")

	// 非管理员注册
	w = env.do(t, http.MethodPost, "/api/v1/validators", "mallory", map[string]interface{}{
		"id":         "notary-c",
		"name":       "验证机构C",
		"categories": []string{"land"},
	})
	assert.Equal(t, http.StatusForbidden, w.Code, "非管理员注册应返回403")

	// 列表与按类别筛选
	w = env.do(t, http.MethodGet, "/api/v1/validators", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list httptypes.ValidatorListResponse
	decode(t, w, &list)
	assert.Equal(t, 2, list.Total)

	w = env.do(t, http.MethodGet, "/api/v1/validators/category/vehicle", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &list)
	assert.Equal(t, 2, list.Total, "notary-a与notary-b均支持vehicle")

	// 协议登记与查询
	w = env.do(t, http.MethodPut, "/api/v1/validators/id/notary-b/agreements", testAdmin, map[string]interface{}{
		"uri":  "tdl://agreements/vehicle-v2",
		"name": "车辆登记协议v2",
	})
	require.Equal(t, http.StatusOK, w.Code, "协议登记应成功: %s", w.Body.String())

	w = env.do(t, http.MethodPut, "/api/v1/validators/id/notary-b/agreements/default", testAdmin, map[string]interface{}{
		"uri": "tdl://agreements/vehicle-v2",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, "/api/v1/validators/id/notary-b/agreements", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var agreement httptypes.AgreementResponse
	decode(t, w, &agreement)
	assert.Equal(t, "tdl://agreements/vehicle-v2", agreement.DefaultAgreement)

	w = env.do(t, http.MethodGet, "/api/v1/validators/id/notary-b/agreements?uri=tdl://agreements/vehicle-v2", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &agreement)
	assert.Equal(t, "车辆登记协议v2", agreement.Name)

	// 停用后直接铸造被拒
	w = env.do(t, http.MethodPut, "/api/v1/validators/id/notary-b/active", testAdmin, map[string]interface{}{
		"active": false,
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodPost, "/api/v1/deeds", "notary-b", map[string]interface{}{
		"category":      "vehicle",
		"owner":         "alice",
		"agreement_ref": "tdl://agreements/vehicle-v2",
		"definition":    "车架号-VIN-0001",
		"validator":     "notary-b",
	})
	assert.Equal(t, http.StatusForbidden, w.Code, "停用中的验证方不得直接铸造")

	// 按类别列表只含启用中的验证方
	w = env.do(t, http.MethodGet, "/api/v1/validators/category/vehicle", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &list)
	assert.Equal(t, 1, list.Total, "停用的验证方不应出现在类别列表中")

	// 移除后查询返回404
	w = env.do(t, http.MethodDelete, "/api/v1/validators/id/notary-b", testAdmin, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, "/api/v1/validators/id/notary-b", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code, "已移除验证方应返回404")
}
