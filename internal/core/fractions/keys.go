package fractions

import (
	"encoding/binary"

	"github.com/titledger/v1/pkg/types"
)

// 键布局（cid8/sid8/id8/idx8 均为大端8字节编号）：
//
//	frac:rec:{cid8}              集合记录JSON
//	frac:share:{cid8}:{idx8}     份额记录JSON
//	frac:held:{cid8}:{identity}  持有计数（大端8字节，归零即删除，
//	                             前缀扫描即枚举去重持有人）
//	frac:appr:{cid8}:{identity}  审批记录JSON
//	frac:byasset:{id8}           资产→活跃集合编号（阻止重复托管）
//	frac:meta:next_id            集合编号计数器
//
//	subd:rec:{sid8}              划分账本记录JSON
//	subd:unit:{sid8}:{idx8}      单元记录JSON
//	subd:held:{sid8}:{identity}  单元持有计数（同上）
//	subd:byasset:{id8}           资产→活跃账本编号
//	subd:meta:next_id            账本编号计数器
//
// 编号段定宽8字节，身份串中的冒号不影响持有计数键的解析。
const (
	collKeyPrefix     = "frac:rec:"
	shareKeyPrefix    = "frac:share:"
	heldKeyPrefix     = "frac:held:"
	apprKeyPrefix     = "frac:appr:"
	fracByAssetPrefix = "frac:byasset:"
	collNextIDKey     = "frac:meta:next_id"

	subdKeyPrefix     = "subd:rec:"
	unitKeyPrefix     = "subd:unit:"
	subdHeldKeyPrefix = "subd:held:"
	subdByAssetPrefix = "subd:byasset:"
	subdNextIDKey     = "subd:meta:next_id"
)

// encodeUint64 将编号编码为大端8字节
func encodeUint64(n uint64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, n)
	return buf
}

// decodeUint64 解码大端8字节编号，数据不足按0处理
func decodeUint64(data []byte) uint64 {
	if len(data) < 8 {
		return 0
	}
	return binary.BigEndian.Uint64(data)
}

// collKey 构造集合记录键
func collKey(id types.CollectionID) []byte {
	return append([]byte(collKeyPrefix), encodeUint64(uint64(id))...)
}

// shareKey 构造份额记录键
func shareKey(id types.CollectionID, index uint64) []byte {
	return append(sharePrefix(id), encodeUint64(index)...)
}

// sharePrefix 构造集合份额的扫描前缀（含尾部分隔符）
func sharePrefix(id types.CollectionID) []byte {
	return append(append([]byte(shareKeyPrefix), encodeUint64(uint64(id))...), ':')
}

// heldKey 构造持有计数键
func heldKey(id types.CollectionID, holder types.Identity) []byte {
	return append(heldPrefix(id), []byte(holder.String())...)
}

// heldPrefix 构造持有计数的扫描前缀（含尾部分隔符）
func heldPrefix(id types.CollectionID) []byte {
	return append(append([]byte(heldKeyPrefix), encodeUint64(uint64(id))...), ':')
}

// apprKey 构造审批记录键
func apprKey(id types.CollectionID, holder types.Identity) []byte {
	return append(apprPrefix(id), []byte(holder.String())...)
}

// apprPrefix 构造审批记录的扫描前缀（含尾部分隔符）
func apprPrefix(id types.CollectionID) []byte {
	return append(append([]byte(apprKeyPrefix), encodeUint64(uint64(id))...), ':')
}

// fracByAssetKey 构造资产→集合索引键
func fracByAssetKey(assetID types.AssetID) []byte {
	return append([]byte(fracByAssetPrefix), encodeUint64(uint64(assetID))...)
}

// subdKey 构造划分账本记录键
func subdKey(id types.SubdivisionID) []byte {
	return append([]byte(subdKeyPrefix), encodeUint64(uint64(id))...)
}

// unitKey 构造单元记录键
func unitKey(id types.SubdivisionID, index uint64) []byte {
	return append(unitPrefix(id), encodeUint64(index)...)
}

// unitPrefix 构造账本单元的扫描前缀（含尾部分隔符）
func unitPrefix(id types.SubdivisionID) []byte {
	return append(append([]byte(unitKeyPrefix), encodeUint64(uint64(id))...), ':')
}

// subdHeldKey 构造单元持有计数键
func subdHeldKey(id types.SubdivisionID, holder types.Identity) []byte {
	return append(subdHeldPrefix(id), []byte(holder.String())...)
}

// subdHeldPrefix 构造单元持有计数的扫描前缀（含尾部分隔符）
func subdHeldPrefix(id types.SubdivisionID) []byte {
	return append(append([]byte(subdHeldKeyPrefix), encodeUint64(uint64(id))...), ':')
}

// subdByAssetKey 构造资产→账本索引键
func subdByAssetKey(assetID types.AssetID) []byte {
	return append([]byte(subdByAssetPrefix), encodeUint64(uint64(assetID))...)
}
