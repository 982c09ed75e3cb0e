package deeds

import (
	"encoding/binary"
	"fmt"

	"github.com/titledger/v1/pkg/types"
)

// 键布局：
//   deed:rec:{id8}                  资产记录JSON（id8为大端8字节编号）
//   deed:holder:{identity}:{id8}    持有人旁路索引（值为占位标记）
//   deed:cat:{category}:{id8}       类别旁路索引（值为占位标记）
//   deed:meta:next_id               编号计数器（大端8字节）
//
// 身份串可能包含冒号，索引键解析时从键尾取8字节编号而非按分隔符切分。
const (
	recKeyPrefix    = "deed:rec:"
	holderKeyPrefix = "deed:holder:"
	catKeyPrefix    = "deed:cat:"
	nextIDKey       = "deed:meta:next_id"
)

// 旁路索引占位值
var indexMarker = []byte{1}

// encodeID 将资产编号编码为大端8字节
func encodeID(id types.AssetID) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, uint64(id))
	return buf
}

// decodeID 从键尾8字节解码资产编号
func decodeID(key []byte) (types.AssetID, error) {
	if len(key) < 8 {
		return 0, fmt.Errorf("索引键长度不足: %d", len(key))
	}
	return types.AssetID(binary.BigEndian.Uint64(key[len(key)-8:])), nil
}

// recKey 构造资产记录键
func recKey(id types.AssetID) []byte {
	return append([]byte(recKeyPrefix), encodeID(id)...)
}

// holderKey 构造持有人索引键
func holderKey(holder types.Identity, id types.AssetID) []byte {
	return append(holderPrefix(holder), encodeID(id)...)
}

// holderPrefix 构造持有人索引的扫描前缀
func holderPrefix(holder types.Identity) []byte {
	return []byte(holderKeyPrefix + holder.String() + ":")
}

// catKey 构造类别索引键
func catKey(category types.AssetCategory, id types.AssetID) []byte {
	return append(catPrefix(category), encodeID(id)...)
}

// catPrefix 构造类别索引的扫描前缀
func catPrefix(category types.AssetCategory) []byte {
	return []byte(catKeyPrefix + category.String() + ":")
}
